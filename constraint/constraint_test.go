package constraint

import (
	"math"
	"testing"

	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Helper function to create a point mass: no shapes, so no rotation arm
func createPointMass(position mgl64.Vec2, mass float64) *actor.RigidBody {
	rb := actor.NewRigidBody(actor.NewTransform(position), actor.BodyTypeDynamic)
	if err := rb.SetMass(mass); err != nil {
		panic(err)
	}
	return rb
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestComputeRestitution(t *testing.T) {
	tests := []struct {
		name     string
		matA     actor.Material
		matB     actor.Material
		expected float64
	}{
		{"both zero restitution", actor.Material{Restitution: 0}, actor.Material{Restitution: 0}, 0},
		{"one zero, one high restitution - returns the highest", actor.Material{Restitution: 0}, actor.Material{Restitution: 0.8}, 0.8},
		{"order does not matter", actor.Material{Restitution: 0.6}, actor.Material{Restitution: 0.2}, 0.6},
		{"both same restitution", actor.Material{Restitution: 0.5}, actor.Material{Restitution: 0.5}, 0.5},
		{"both perfectly elastic", actor.Material{Restitution: 1}, actor.Material{Restitution: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeRestitution(tt.matA, tt.matB)
			if !floatEqual(result, tt.expected, 1e-12) {
				t.Errorf("ComputeRestitution() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestComputeFriction(t *testing.T) {
	tests := []struct {
		name     string
		matA     actor.Material
		matB     actor.Material
		expected float64
	}{
		{"frictionless side", actor.Material{Friction: 0}, actor.Material{Friction: 0.9}, 0},
		{"same friction", actor.Material{Friction: 0.4}, actor.Material{Friction: 0.4}, 0.16},
		{"product", actor.Material{Friction: 0.25}, actor.Material{Friction: 1}, 0.25},
		{"default materials", actor.DefaultMaterial, actor.DefaultMaterial, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeFriction(tt.matA, tt.matB)
			if !floatEqual(result, tt.expected, 1e-12) {
				t.Errorf("ComputeFriction() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// =============================================================================
// LengthConstraint Tests
// =============================================================================

func TestLengthConstraint_ConvergesMonotonically(t *testing.T) {
	a := createPointMass(mgl64.Vec2{0, 0}, 1)
	b := createPointMass(mgl64.Vec2{20, 0}, 1)

	c := &LengthConstraint{
		A:          Attached(a, mgl64.Vec2{}),
		B:          Attached(b, mgl64.Vec2{}),
		RestLength: 10,
	}

	previous := c.Length()
	for i := 0; i < 20; i++ {
		c.Solve(1.0 / 60.0)
		current := c.Length()
		if current > previous+1e-12 {
			t.Fatalf("iteration %d: distance grew from %v to %v", i, previous, current)
		}
		previous = current
	}

	if !floatEqual(c.Length(), 10, 1e-6) {
		t.Errorf("Length() = %v, want 10", c.Length())
	}
	if c.Error() > 1e-6 {
		t.Errorf("Error() = %v, want ~0", c.Error())
	}

	// equal masses share the correction
	if !floatEqual(a.Transform.Position.X(), 5, 1e-6) || !floatEqual(b.Transform.Position.X(), 15, 1e-6) {
		t.Errorf("positions = %v, %v, want (5, 0) and (15, 0)", a.Transform.Position, b.Transform.Position)
	}
}

func TestLengthConstraint_SoftConverges(t *testing.T) {
	a := createPointMass(mgl64.Vec2{0, 0}, 1)
	b := createPointMass(mgl64.Vec2{20, 0}, 1)

	c := &LengthConstraint{
		A:          Attached(a, mgl64.Vec2{}),
		B:          Attached(b, mgl64.Vec2{}),
		RestLength: 10,
		Compliance: 1e-4,
	}

	previous := c.Length()
	for i := 0; i < 200; i++ {
		c.Solve(1.0 / 60.0)
		current := c.Length()
		if current > previous+1e-12 {
			t.Fatalf("iteration %d: distance grew from %v to %v", i, previous, current)
		}
		previous = current
	}
	if c.Error() > 1e-3 {
		t.Errorf("Error() = %v after 200 iterations", c.Error())
	}
}

func TestLengthConstraint_StaticEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		anchor func() Constrained
	}{
		{"fixed world point", func() Constrained { return Fixed(mgl64.Vec2{0, 0}) }},
		{"static body", func() Constrained {
			return Attached(actor.NewRigidBody(actor.NewTransform(mgl64.Vec2{0, 0}), actor.BodyTypeStatic), mgl64.Vec2{})
		}},
		{"pinned endpoint", func() Constrained {
			c := Attached(createPointMass(mgl64.Vec2{0, 0}, 1), mgl64.Vec2{})
			c.IsStatic = true
			return c
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixed := tt.anchor()
			body := createPointMass(mgl64.Vec2{0, 8}, 2)
			c := &LengthConstraint{A: fixed, B: Attached(body, mgl64.Vec2{}), RestLength: 5}

			c.Solve(1.0 / 60.0)

			if got := fixed.Anchor(); got != (mgl64.Vec2{0, 0}) {
				t.Errorf("static anchor moved to %v", got)
			}
			if !floatEqual(body.Transform.Position.Y(), 5, 1e-9) {
				t.Errorf("body at %v, want (0, 5)", body.Transform.Position)
			}
		})
	}
}

func TestLengthConstraint_RemovesAxialVelocity(t *testing.T) {
	body := createPointMass(mgl64.Vec2{0, 5}, 1)
	body.Velocity.Linear = mgl64.Vec2{3, 4}

	c := &LengthConstraint{A: Fixed(mgl64.Vec2{0, 0}), B: Attached(body, mgl64.Vec2{}), RestLength: 5}
	c.Solve(1.0 / 60.0)

	// the rod is vertical: only the horizontal component survives
	if !floatEqual(body.Velocity.Linear.X(), 3, 1e-9) || !floatEqual(body.Velocity.Linear.Y(), 0, 1e-9) {
		t.Errorf("velocity = %v, want (3, 0)", body.Velocity.Linear)
	}
}

func TestPositionConstraint(t *testing.T) {
	a := createPointMass(mgl64.Vec2{0, 0}, 1)
	b := createPointMass(mgl64.Vec2{4, 2}, 3)

	c := NewPositionConstraint(Attached(a, mgl64.Vec2{}), Attached(b, mgl64.Vec2{}))
	c.Solve(1.0 / 60.0)

	if c.Error() > 1e-9 {
		t.Fatalf("Error() = %v, want 0", c.Error())
	}
	// the lighter body travels three times further
	if !floatEqual(a.Transform.Position.X(), 3, 1e-9) || !floatEqual(a.Transform.Position.Y(), 1.5, 1e-9) {
		t.Errorf("a at %v, want (3, 1.5)", a.Transform.Position)
	}
}

func TestReferences(t *testing.T) {
	a := createPointMass(mgl64.Vec2{0, 0}, 1)
	b := createPointMass(mgl64.Vec2{1, 0}, 1)
	other := createPointMass(mgl64.Vec2{2, 0}, 1)

	c := NewLengthConstraint(Attached(a, mgl64.Vec2{}), Attached(b, mgl64.Vec2{}))
	if !floatEqual(c.RestLength, 1, 1e-12) {
		t.Errorf("RestLength = %v, want 1", c.RestLength)
	}
	if !References(c, a) || !References(c, b) {
		t.Error("constraint should reference both bodies")
	}
	if References(c, other) || References(c, nil) {
		t.Error("constraint should not reference other bodies")
	}
}
