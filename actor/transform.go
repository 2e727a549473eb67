package actor

import (
	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Transform represents a position and an orientation in the plane
type Transform struct {
	Position mgl64.Vec2
	Angle    float64 // radians, kept in [0, 2π) by the integrator
}

// NewTransform creates a transform at position with no rotation
func NewTransform(position mgl64.Vec2) Transform {
	return Transform{Position: position}
}

// Apply maps a point from body space to world space.
func (t Transform) Apply(local mgl64.Vec2) mgl64.Vec2 {
	return geometry.Rotate(local, t.Angle).Add(t.Position)
}

// Inverse maps a world-space point back to body space.
func (t Transform) Inverse(world mgl64.Vec2) mgl64.Vec2 {
	return geometry.Rotate(world.Sub(t.Position), -t.Angle)
}

// Velocity holds the linear (units/s) and angular (rad/s) velocity of a body.
type Velocity struct {
	Linear  mgl64.Vec2
	Angular float64
}
