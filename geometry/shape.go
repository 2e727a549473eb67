package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is the interface that all geometric primitives implement. Shapes are
// immutable values: Transform returns a new shape instead of moving the
// receiver.
type Shape interface {
	// Middle returns the geometric center (centroid) of the shape.
	Middle() mgl64.Vec2
	Area() float64
	BoundingBox() AABB
	// ClosestPoint returns the point on the boundary of the shape closest to point.
	ClosestPoint(point mgl64.Vec2) mgl64.Vec2
	ContainsPoint(point mgl64.Vec2) bool
	// RayCast returns the distance along direction from origin to the first
	// boundary crossing, or +Inf when the ray misses. The direction does not
	// need to be normalized; the distance is always in world units.
	RayCast(origin, direction mgl64.Vec2) float64
	// Project returns the interval covered by the shape on axis.
	Project(axis mgl64.Vec2) Range
	// Transform rotates the shape by angle around the local origin and then
	// translates it by position.
	Transform(position mgl64.Vec2, angle float64) Shape
	// Degenerate reports whether the shape encloses no area. Degenerate shapes
	// never collide.
	Degenerate() bool
}

// Circle is a disc of Radius around Center.
type Circle struct {
	Center mgl64.Vec2
	Radius float64
}

func (c Circle) Middle() mgl64.Vec2 {
	return c.Center
}

func (c Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

func (c Circle) BoundingBox() AABB {
	r := mgl64.Vec2{c.Radius, c.Radius}
	return AABB{Min: c.Center.Sub(r), Max: c.Center.Add(r)}
}

func (c Circle) ClosestPoint(point mgl64.Vec2) mgl64.Vec2 {
	return c.Center.Add(Direction(point.Sub(c.Center)).Mul(c.Radius))
}

func (c Circle) ContainsPoint(point mgl64.Vec2) bool {
	return point.Sub(c.Center).LenSqr() <= c.Radius*c.Radius
}

func (c Circle) RayCast(origin, direction mgl64.Vec2) float64 {
	dir, ok := SafeNormalize(direction)
	if !ok || c.Degenerate() {
		return math.Inf(1)
	}

	m := origin.Sub(c.Center)
	b := m.Dot(dir)
	k := m.LenSqr() - c.Radius*c.Radius
	if k > 0 && b > 0 {
		return math.Inf(1)
	}
	disc := b*b - k
	if disc < 0 {
		return math.Inf(1)
	}

	root := math.Sqrt(disc)
	if t := -b - root; t > 0 {
		return t
	}
	// origin inside the circle: the exit point is the first crossing
	if t := -b + root; t > 0 {
		return t
	}
	return math.Inf(1)
}

func (c Circle) Project(axis mgl64.Vec2) Range {
	center := c.Center.Dot(axis)
	return NewRange(center-c.Radius, center+c.Radius)
}

func (c Circle) Transform(position mgl64.Vec2, angle float64) Shape {
	return Circle{Center: Rotate(c.Center, angle).Add(position), Radius: c.Radius}
}

func (c Circle) Degenerate() bool {
	return c.Radius <= Epsilon
}

// Line is the segment between A and B. Lines take part in queries only; they
// have no area and never collide.
type Line struct {
	A mgl64.Vec2
	B mgl64.Vec2
}

func (l Line) Middle() mgl64.Vec2 {
	return l.A.Add(l.B).Mul(0.5)
}

func (l Line) Area() float64 {
	return 0
}

func (l Line) Length() float64 {
	return l.B.Sub(l.A).Len()
}

func (l Line) BoundingBox() AABB {
	return EmptyAABB().Include(l.A).Include(l.B)
}

func (l Line) ClosestPoint(point mgl64.Vec2) mgl64.Vec2 {
	return closestOnSegment(point, l.A, l.B)
}

func (l Line) ContainsPoint(point mgl64.Vec2) bool {
	return l.ClosestPoint(point).Sub(point).LenSqr() < Epsilon*Epsilon
}

func (l Line) RayCast(origin, direction mgl64.Vec2) float64 {
	dir, ok := SafeNormalize(direction)
	if !ok {
		return math.Inf(1)
	}
	return raySegment(origin, dir, l.A, l.B)
}

func (l Line) Project(axis mgl64.Vec2) Range {
	return NewRange(l.A.Dot(axis), l.B.Dot(axis))
}

func (l Line) Transform(position mgl64.Vec2, angle float64) Shape {
	return Line{A: Rotate(l.A, angle).Add(position), B: Rotate(l.B, angle).Add(position)}
}

func (l Line) Degenerate() bool {
	return true
}

// Intersection returns the point where the two segments cross.
func (l Line) Intersection(other Line) (mgl64.Vec2, bool) {
	r := l.B.Sub(l.A)
	s := other.B.Sub(other.A)
	denom := Cross(r, s)
	diff := other.A.Sub(l.A)
	if math.Abs(denom) < Epsilon {
		return mgl64.Vec2{}, false
	}
	t := safeDiv(Cross(diff, s), denom)
	u := safeDiv(Cross(diff, r), denom)
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return mgl64.Vec2{}, false
	}
	return l.A.Add(r.Mul(t)), true
}

// EvaluateX returns the y coordinate of the infinite line through A and B at
// x. Vertical lines fall back to the Epsilon-substituted slope.
func (l Line) EvaluateX(x float64) float64 {
	slope := safeDiv(l.B.Y()-l.A.Y(), l.B.X()-l.A.X())
	return l.A.Y() + slope*(x-l.A.X())
}
