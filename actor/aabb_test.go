package actor

import (
	"math"
	"testing"

	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

func TestRigidBody_Sync(t *testing.T) {
	rb := NewRigidBody(NewTransform(mgl64.Vec2{10, 5}), BodyTypeDynamic)
	rb.AddShape(geometry.NewBox(2, 2))

	if !rb.Sync() {
		t.Fatal("first Sync() should recompute")
	}
	if rb.Sync() {
		t.Error("Sync() without changes should be a no-op")
	}

	rb.Transform.Position = mgl64.Vec2{0, 0}
	if !rb.Sync() {
		t.Error("Sync() after a move should recompute")
	}

	rb.AddShape(geometry.Circle{Center: mgl64.Vec2{3, 0}, Radius: 1})
	if !rb.Sync() {
		t.Error("Sync() after AddShape should recompute")
	}
	if len(rb.Models()) != 2 {
		t.Errorf("len(Models()) = %d, want 2", len(rb.Models()))
	}
}

func TestRigidBody_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		transform Transform
		shapes    []geometry.Shape
		want      geometry.AABB
	}{
		{
			name:      "translated box",
			transform: NewTransform(mgl64.Vec2{5, 5}),
			shapes:    []geometry.Shape{geometry.NewBox(2, 4)},
			want:      geometry.AABB{Min: mgl64.Vec2{4, 3}, Max: mgl64.Vec2{6, 7}},
		},
		{
			name:      "rotated box",
			transform: Transform{Position: mgl64.Vec2{0, 0}, Angle: math.Pi / 2},
			shapes:    []geometry.Shape{geometry.NewBox(2, 4)},
			want:      geometry.AABB{Min: mgl64.Vec2{-2, -1}, Max: mgl64.Vec2{2, 1}},
		},
		{
			name:      "box and offset circle",
			transform: NewTransform(mgl64.Vec2{0, 0}),
			shapes: []geometry.Shape{
				geometry.NewBox(2, 2),
				geometry.Circle{Center: mgl64.Vec2{4, 0}, Radius: 1},
			},
			want: geometry.AABB{Min: mgl64.Vec2{-1, -1}, Max: mgl64.Vec2{5, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := NewRigidBody(tt.transform, BodyTypeDynamic)
			for _, s := range tt.shapes {
				rb.AddShape(s)
			}

			got := rb.Bounds()
			if !vec2Equal(got.Min, tt.want.Min, 1e-9) || !vec2Equal(got.Max, tt.want.Max, 1e-9) {
				t.Errorf("Bounds() = %v, want %v", got, tt.want)
			}
		})
	}

	empty := NewRigidBody(NewTransform(mgl64.Vec2{}), BodyTypeStatic)
	if !empty.Bounds().Empty() {
		t.Error("a body without shapes should have empty bounds")
	}
}

func TestRigidBody_ContainsPoint(t *testing.T) {
	rb := NewRigidBody(NewTransform(mgl64.Vec2{10, 0}), BodyTypeStatic)
	rb.AddShape(geometry.NewBox(2, 2))
	rb.AddShape(geometry.Circle{Center: mgl64.Vec2{5, 0}, Radius: 1})

	tests := []struct {
		point mgl64.Vec2
		want  bool
	}{
		{mgl64.Vec2{10, 0}, true},
		{mgl64.Vec2{15.5, 0}, true},
		{mgl64.Vec2{13, 0}, false},
		{mgl64.Vec2{0, 0}, false},
	}

	for _, tt := range tests {
		if got := rb.ContainsPoint(tt.point); got != tt.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", tt.point, got, tt.want)
		}
	}
}

func TestTransform_ApplyInverse(t *testing.T) {
	tr := Transform{Position: mgl64.Vec2{3, 4}, Angle: math.Pi / 2}
	local := mgl64.Vec2{1, 0}

	world := tr.Apply(local)
	if !vec2Equal(world, mgl64.Vec2{3, 5}, 1e-9) {
		t.Errorf("Apply() = %v, want (3, 5)", world)
	}
	if back := tr.Inverse(world); !vec2Equal(back, local, 1e-9) {
		t.Errorf("Inverse(Apply()) = %v, want %v", back, local)
	}
}
