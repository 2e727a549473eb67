package sat

import (
	"math"

	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Overlaps reports whether two shapes intersect. Unlike Collide it accepts
// Lines, which makes it suitable for line-of-sight checks.
func Overlaps(a, b geometry.Shape) bool {
	if a == nil || b == nil {
		return false
	}
	if l, ok := a.(geometry.Line); ok {
		return lineOverlaps(l, b)
	}
	if l, ok := b.(geometry.Line); ok {
		return lineOverlaps(l, a)
	}
	_, ok := Collide(a, b)
	return ok
}

func lineOverlaps(l geometry.Line, s geometry.Shape) bool {
	if other, ok := s.(geometry.Line); ok {
		_, hit := l.Intersection(other)
		return hit
	}
	if s.ContainsPoint(l.A) || s.ContainsPoint(l.B) {
		return true
	}
	length := l.Length()
	if length < geometry.Epsilon {
		return false
	}
	return s.RayCast(l.A, l.B.Sub(l.A)) <= length
}

// Distance returns the gap between two convex shapes, or 0 when they overlap.
func Distance(a, b geometry.Shape) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	if Overlaps(a, b) {
		return 0
	}

	ca, aCircle := a.(geometry.Circle)
	cb, bCircle := b.(geometry.Circle)
	switch {
	case aCircle && bCircle:
		return math.Max(0, cb.Center.Sub(ca.Center).Len()-ca.Radius-cb.Radius)
	case aCircle:
		return math.Max(0, pointDistance(ca.Center, b)-ca.Radius)
	case bCircle:
		return math.Max(0, pointDistance(cb.Center, a)-cb.Radius)
	}

	// the closest pair of two disjoint convex outlines always involves a vertex
	best := math.Inf(1)
	for _, v := range outline(a) {
		best = math.Min(best, pointDistance(v, b))
	}
	for _, v := range outline(b) {
		best = math.Min(best, pointDistance(v, a))
	}
	return best
}

func pointDistance(p mgl64.Vec2, s geometry.Shape) float64 {
	return s.ClosestPoint(p).Sub(p).Len()
}

func outline(s geometry.Shape) []mgl64.Vec2 {
	switch shape := s.(type) {
	case geometry.Polygon:
		return shape.Vertices()
	case geometry.Line:
		return []mgl64.Vec2{shape.A, shape.B}
	default:
		return []mgl64.Vec2{s.Middle()}
	}
}
