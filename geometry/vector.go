// Package geometry holds the 2D shape primitives used by the collision and
// simulation packages, and the stand-alone queries (closest point, containment,
// ray casting) used for picking and line-of-sight.
//
// All coordinates are screen coordinates: +x points right and +y points down.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used for every degeneracy guard in the package.
const Epsilon = 1e-9

// FallbackAxis is returned wherever a direction is required but the input
// vector has no length (coincident centers, zero-length edges).
var FallbackAxis = mgl64.Vec2{0, -1}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// CrossScalar returns w × v for an angular velocity w, i.e. the linear
// velocity of a point at offset v on a body spinning at w.
func CrossScalar(w float64, v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-w * v.Y(), w * v.X()}
}

// Perp returns v rotated by a quarter turn.
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// Rotate rotates v around the origin by angle radians.
func Rotate(v mgl64.Vec2, angle float64) mgl64.Vec2 {
	if angle == 0 {
		return v
	}
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// SafeNormalize returns the unit vector of v, or the zero vector and false
// when v is too short to carry a direction.
func SafeNormalize(v mgl64.Vec2) (mgl64.Vec2, bool) {
	l := v.Len()
	if l < Epsilon {
		return mgl64.Vec2{}, false
	}
	return v.Mul(1.0 / l), true
}

// Direction normalizes v and substitutes FallbackAxis for zero-length input.
func Direction(v mgl64.Vec2) mgl64.Vec2 {
	if n, ok := SafeNormalize(v); ok {
		return n
	}
	return FallbackAxis
}

// Average returns the mean of points, the zero vector when there are none.
func Average(points []mgl64.Vec2) mgl64.Vec2 {
	if len(points) == 0 {
		return mgl64.Vec2{}
	}
	var sum mgl64.Vec2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points)))
}

// safeDiv divides a by b, substituting ±Epsilon when b is too close to zero.
// Every division by a length or a determinant in the package goes through it.
func safeDiv(a, b float64) float64 {
	if math.Abs(b) < Epsilon {
		b = math.Copysign(Epsilon, b)
	}
	return a / b
}

// WrapAngle maps angle into [0, 2π).
func WrapAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	if angle >= 2*math.Pi {
		angle = 0
	}
	return angle
}

// closestOnSegment returns the point of segment [a, b] closest to p.
func closestOnSegment(p, a, b mgl64.Vec2) mgl64.Vec2 {
	ab := b.Sub(a)
	t := safeDiv(p.Sub(a).Dot(ab), ab.LenSqr())
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t))
}

// raySegment returns the distance along the unit direction dir from origin to
// segment [a, b], or +Inf when the ray misses.
func raySegment(origin, dir, a, b mgl64.Vec2) float64 {
	edge := b.Sub(a)
	denom := Cross(dir, edge)
	if math.Abs(denom) < Epsilon {
		return math.Inf(1)
	}
	diff := a.Sub(origin)
	t := Cross(diff, edge) / denom
	u := Cross(diff, dir) / denom
	if t <= 0 || u < 0 || u > 1 {
		return math.Inf(1)
	}
	return t
}
