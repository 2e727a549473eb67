package actor

import (
	"math"
	"sync/atomic"

	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeID is the handle of a shape attached to a body. Handles are unique
// across all bodies, so a ShapeID always identifies a single owner.
type ShapeID uint64

var lastShapeID atomic.Uint64

func nextShapeID() ShapeID {
	return ShapeID(lastShapeID.Add(1))
}

// BodyShape is a shape attached to a body, in body space.
type BodyShape struct {
	ID    ShapeID
	Body  BodyID
	Shape geometry.Shape
}

// MassProperties returns the mass of a shape of the given density and its
// moment of inertia about the body origin.
//
// Polygon inertia is computed about the centroid with the polygon
// second-moment formula, then moved to the origin with the parallel-axis
// term. Lines and degenerate shapes have no mass.
func MassProperties(shape geometry.Shape, density float64) (mass, inertia float64) {
	if shape == nil || shape.Degenerate() {
		return 0, 0
	}

	switch s := shape.(type) {
	case geometry.Circle:
		mass = density * s.Area()
		inertia = mass * (0.5*s.Radius*s.Radius + s.Center.LenSqr())
	case geometry.Polygon:
		mass = density * s.Area()
		centroid := s.Middle()
		inertia = polygonMoment(s.Vertices(), centroid, mass) + mass*centroid.LenSqr()
	}

	return mass, inertia
}

// polygonMoment computes the moment of inertia of a polygon of the given mass
// about center.
func polygonMoment(vertices []mgl64.Vec2, center mgl64.Vec2, mass float64) float64 {
	var numerator, denominator float64
	for i := range vertices {
		a := vertices[i].Sub(center)
		b := vertices[(i+1)%len(vertices)].Sub(center)
		cross := geometry.Cross(a, b)
		numerator += cross * (a.Dot(a) + a.Dot(b) + b.Dot(b))
		denominator += cross
	}
	if math.Abs(denominator) < geometry.Epsilon {
		return 0
	}
	return math.Abs(mass * numerator / (6 * denominator))
}
