package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RayHit describes the nearest shape crossed by a ray.
type RayHit struct {
	Point    mgl64.Vec2
	Shape    Shape
	Index    int
	Distance float64
}

// RayCast returns the first shape of shapes hit by the ray starting at origin.
// Index is the position of the hit shape in shapes.
func RayCast(origin, direction mgl64.Vec2, shapes []Shape) (RayHit, bool) {
	dir, ok := SafeNormalize(direction)
	if !ok {
		return RayHit{}, false
	}

	hit := RayHit{Index: -1, Distance: math.Inf(1)}
	for i, shape := range shapes {
		if shape == nil {
			continue
		}
		if t := shape.RayCast(origin, dir); t < hit.Distance {
			hit.Distance = t
			hit.Shape = shape
			hit.Index = i
		}
	}
	if hit.Index < 0 {
		return RayHit{}, false
	}

	hit.Point = origin.Add(dir.Mul(hit.Distance))
	return hit, true
}
