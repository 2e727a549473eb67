package sat

import (
	"math"

	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// circleCircle collides two discs. Coincident centers use geometry.FallbackAxis
// as the normal.
func circleCircle(a, b geometry.Circle) (Manifold, bool) {
	delta := b.Center.Sub(a.Center)
	radii := a.Radius + b.Radius
	distSq := delta.LenSqr()
	if distSq >= radii*radii {
		return Manifold{}, false
	}

	normal := geometry.Direction(delta)
	depth := radii - math.Sqrt(distSq)

	// midpoint between the two surface points along the normal
	surfaceA := a.Center.Add(normal.Mul(a.Radius))
	surfaceB := b.Center.Sub(normal.Mul(b.Radius))

	return Manifold{
		Normal: normal,
		Depth:  depth,
		Points: []mgl64.Vec2{surfaceA.Add(surfaceB).Mul(0.5)},
	}, true
}

// circlePolygon collides a disc (A) with a convex polygon (B).
func circlePolygon(c geometry.Circle, p geometry.Polygon) (Manifold, bool) {
	inside := p.ContainsPoint(c.Center)

	axes := p.Normals()
	if !inside {
		vertices := p.Vertices()
		nearest := vertices[0]
		nearestDist := math.Inf(1)
		for _, v := range vertices {
			if d := v.Sub(c.Center).LenSqr(); d < nearestDist {
				nearestDist = d
				nearest = v
			}
		}
		if axis, ok := geometry.SafeNormalize(c.Center.Sub(nearest)); ok {
			axes = append(append(make([]mgl64.Vec2, 0, len(axes)+1), axes...), axis)
		}
	}

	best, depth, ok := minimumOverlap(axes, c, p)
	if !ok {
		return Manifold{}, false
	}

	// deepest point of the circle, moved back to the middle of the overlap
	point := c.Center.Add(best.Mul(c.Radius - depth/2))

	return Manifold{
		Normal: best,
		Depth:  depth,
		Points: []mgl64.Vec2{point},
	}, true
}

// minimumOverlap projects both shapes on every axis and returns the axis of
// least penetration oriented from a toward b. It reports false as soon as one
// axis separates the shapes.
func minimumOverlap(axes []mgl64.Vec2, a, b geometry.Shape) (mgl64.Vec2, float64, bool) {
	var best mgl64.Vec2
	depth := math.Inf(1)

	for _, axis := range axes {
		ra := a.Project(axis)
		rb := b.Project(axis)

		// pushing a back along -axis, or forward along +axis
		forward := ra.Max - rb.Min
		backward := rb.Max - ra.Min
		overlap := math.Min(forward, backward)
		if overlap <= 0 {
			return mgl64.Vec2{}, 0, false
		}

		if overlap < depth {
			depth = overlap
			if forward <= backward {
				best = axis
			} else {
				best = axis.Mul(-1)
			}
		}
	}

	if math.IsInf(depth, 1) {
		return mgl64.Vec2{}, 0, false
	}
	return best, depth, true
}
