package sat

import (
	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// clipContacts builds the contact points of a polygon-polygon collision.
//
// The incident edge is clipped against the two side planes of the reference
// edge (the lines through its end points, perpendicular to it). Of the
// remaining points, those behind the reference face are contacts; each one is
// moved halfway back to the reference face so it sits in the middle of the
// overlap.
//
// Returns:
//
//	0-2 contact points in world space
func clipContacts(reference, incident geometry.Polygon, edge int) []mgl64.Vec2 {
	refEdge := reference.Edge(edge)
	refNormal := reference.Normals()[edge]

	tangent, ok := geometry.SafeNormalize(refEdge.B.Sub(refEdge.A))
	if !ok {
		return nil
	}

	inc := incident.Edge(incidentEdge(incident, refNormal))
	segment := []mgl64.Vec2{inc.A, inc.B}

	segment = clipSegment(segment, tangent.Mul(-1), -tangent.Dot(refEdge.A))
	if len(segment) < 2 {
		return nil
	}
	segment = clipSegment(segment, tangent, tangent.Dot(refEdge.B))
	if len(segment) < 2 {
		return nil
	}

	offset := refNormal.Dot(refEdge.A)
	points := make([]mgl64.Vec2, 0, 2)
	for _, p := range segment {
		separation := refNormal.Dot(p) - offset
		if separation <= 0 {
			points = append(points, p.Sub(refNormal.Mul(separation/2)))
		}
	}
	return points
}

// clipSegment keeps the part of the segment where normal·p <= offset.
func clipSegment(segment []mgl64.Vec2, normal mgl64.Vec2, offset float64) []mgl64.Vec2 {
	v0, v1 := segment[0], segment[1]
	d0 := normal.Dot(v0) - offset
	d1 := normal.Dot(v1) - offset

	output := make([]mgl64.Vec2, 0, 2)
	if d0 <= 0 {
		output = append(output, v0)
	}
	if d1 <= 0 {
		output = append(output, v1)
	}

	// end points on opposite sides: add the crossing
	if d0*d1 < 0 {
		t := d0 / (d0 - d1)
		output = append(output, v0.Add(v1.Sub(v0).Mul(t)))
	}

	return output
}
