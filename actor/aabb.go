package actor

import (
	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Sync refreshes the world-space models and bounds when the transform or the
// shapes changed since the last call. It reports whether anything was
// recomputed.
func (rb *RigidBody) Sync() bool {
	if rb.modelsSynced && rb.syncedAt == rb.Transform {
		return false
	}

	rb.models = make([]geometry.Shape, 0, len(rb.shapes))
	rb.bounds = geometry.EmptyAABB()
	for _, s := range rb.shapes {
		model := s.Shape.Transform(rb.Transform.Position, rb.Transform.Angle)
		rb.models = append(rb.models, model)
		rb.bounds = rb.bounds.Union(model.BoundingBox())
	}

	rb.syncedAt = rb.Transform
	rb.modelsSynced = true
	return true
}

// Models returns the attached shapes in world space, in the order of Shapes.
func (rb *RigidBody) Models() []geometry.Shape {
	rb.Sync()
	return rb.models
}

// Bounds returns the world-space box around every model. A body without
// shapes has an empty box.
func (rb *RigidBody) Bounds() geometry.AABB {
	rb.Sync()
	return rb.bounds
}

// ContainsPoint reports whether a world point lies inside any model.
func (rb *RigidBody) ContainsPoint(point mgl64.Vec2) bool {
	if !rb.Bounds().ContainsPoint(point) {
		return false
	}
	for _, model := range rb.models {
		if model.ContainsPoint(point) {
			return true
		}
	}
	return false
}
