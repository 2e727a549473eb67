package sat

import (
	"math"

	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// referenceTolerance keeps the reference face on A unless B is clearly the
// better choice, which avoids flip-flopping between frames.
const referenceTolerance = 1e-6

// polygonPolygon collides two convex polygons.
//
// Algorithm:
//  1. For every edge normal of A, find the deepest vertex of B (and vice versa).
//  2. A positive separation on any axis means the polygons are disjoint.
//  3. The axis of maximum separation (least penetration) picks the reference face.
//  4. The incident edge is the edge of the other polygon most anti-parallel to it.
//  5. The incident edge is clipped to the reference face's side planes, and only
//     the points behind the reference face are kept.
func polygonPolygon(a, b geometry.Polygon) (Manifold, bool) {
	edgeA, separationA := maxSeparation(a, b)
	if separationA >= 0 {
		return Manifold{}, false
	}
	edgeB, separationB := maxSeparation(b, a)
	if separationB >= 0 {
		return Manifold{}, false
	}

	reference, incident := a, b
	edge, separation := edgeA, separationA
	flip := false
	if separationB > separationA+referenceTolerance {
		reference, incident = b, a
		edge, separation = edgeB, separationB
		flip = true
	}

	refNormal := reference.Normals()[edge]
	points := clipContacts(reference, incident, edge)
	if len(points) == 0 {
		// numerical fallback: deepest incident vertex
		deepest := incident.Vertices()[incident.Support(refNormal.Mul(-1))]
		points = []mgl64.Vec2{deepest.Add(refNormal.Mul(-separation / 2))}
	}

	normal := refNormal
	if flip {
		normal = refNormal.Mul(-1)
	}

	return Manifold{
		Normal: normal,
		Depth:  -separation,
		Points: points,
	}, true
}

// maxSeparation returns the edge of p whose normal separates q the most, and
// that separation. A negative separation is a penetration depth.
func maxSeparation(p, q geometry.Polygon) (int, float64) {
	best := 0
	bestSeparation := math.Inf(-1)

	normals := p.Normals()
	vertices := p.Vertices()
	for i, n := range normals {
		v := vertices[i]
		deepest := q.Vertices()[q.Support(n.Mul(-1))]
		if s := n.Dot(deepest.Sub(v)); s > bestSeparation {
			bestSeparation = s
			best = i
		}
	}

	return best, bestSeparation
}

// incidentEdge returns the edge of p whose normal is most anti-parallel to
// normal.
func incidentEdge(p geometry.Polygon, normal mgl64.Vec2) int {
	best := 0
	minDot := math.Inf(1)
	for i, n := range p.Normals() {
		if d := n.Dot(normal); d < minDot {
			minDot = d
			best = i
		}
	}
	return best
}
