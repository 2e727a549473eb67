package actor

import (
	"math"
	"testing"

	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Helper functions
func vec2Equal(a, b mgl64.Vec2, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func toCP(vertices []mgl64.Vec2) []cp.Vector {
	out := make([]cp.Vector, len(vertices))
	for i, v := range vertices {
		out[i] = cp.Vector{X: v.X(), Y: v.Y()}
	}
	return out
}

// ========== MASS PROPERTIES (checked against chipmunk) ==========
func TestMassProperties_Circle(t *testing.T) {
	tests := []struct {
		name    string
		circle  geometry.Circle
		density float64
	}{
		{"unit circle", geometry.Circle{Radius: 1}, 1},
		{"dense circle", geometry.Circle{Radius: 2.5}, 3},
		{"offset circle", geometry.Circle{Center: mgl64.Vec2{3, -4}, Radius: 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mass, inertia := MassProperties(tt.circle, tt.density)

			wantMass := tt.density * cp.AreaForCircle(0, tt.circle.Radius)
			if !floatEqual(mass, wantMass, 1e-9) {
				t.Errorf("mass = %v, want %v", mass, wantMass)
			}

			offset := cp.Vector{X: tt.circle.Center.X(), Y: tt.circle.Center.Y()}
			wantInertia := cp.MomentForCircle(mass, 0, tt.circle.Radius, offset)
			if !floatEqual(inertia, wantInertia, 1e-9*wantInertia) {
				t.Errorf("inertia = %v, want %v", inertia, wantInertia)
			}
		})
	}
}

func TestMassProperties_Box(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		density       float64
	}{
		{"unit square", 1, 1, 1},
		{"wide box", 4, 1, 2},
		{"tall box", 0.5, 6, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mass, inertia := MassProperties(geometry.NewBox(tt.width, tt.height), tt.density)

			wantMass := tt.density * tt.width * tt.height
			if !floatEqual(mass, wantMass, 1e-9) {
				t.Errorf("mass = %v, want %v", mass, wantMass)
			}
			wantInertia := cp.MomentForBox(mass, tt.width, tt.height)
			if !floatEqual(inertia, wantInertia, 1e-9*wantInertia) {
				t.Errorf("inertia = %v, want %v", inertia, wantInertia)
			}
		})
	}
}

func TestMassProperties_Polygon(t *testing.T) {
	tests := []struct {
		name    string
		polygon geometry.Polygon
	}{
		{"triangle", geometry.NewPolygon(mgl64.Vec2{0, 0}, mgl64.Vec2{3, 0}, mgl64.Vec2{0, 3})},
		{"offset rect", geometry.NewRect(2, 1, 3, 2)},
		{"hexagon", geometry.NewRegularPolygon(mgl64.Vec2{1, -1}, 2, 6)},
		{"counter-clockwise input", geometry.NewPolygon(mgl64.Vec2{0, 0}, mgl64.Vec2{0, 2}, mgl64.Vec2{5, 2}, mgl64.Vec2{5, 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const density = 1.5
			vertices := toCP(tt.polygon.Vertices())
			mass, inertia := MassProperties(tt.polygon, density)

			wantMass := density * math.Abs(cp.AreaForPoly(len(vertices), vertices, 0))
			if !floatEqual(mass, wantMass, 1e-9) {
				t.Errorf("mass = %v, want %v", mass, wantMass)
			}

			// chipmunk computes the moment about the vertex origin, which is
			// the body origin here
			wantInertia := cp.MomentForPoly(mass, len(vertices), vertices, cp.Vector{}, 0)
			if !floatEqual(inertia, wantInertia, 1e-9*wantInertia) {
				t.Errorf("inertia = %v, want %v", inertia, wantInertia)
			}
		})
	}
}

func TestMassProperties_Massless(t *testing.T) {
	tests := []struct {
		name  string
		shape geometry.Shape
	}{
		{"line", geometry.Line{A: mgl64.Vec2{0, 0}, B: mgl64.Vec2{4, 0}}},
		{"empty polygon", geometry.NewPolygon()},
		{"zero radius", geometry.Circle{Radius: 0}},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mass, inertia := MassProperties(tt.shape, 1)
			if mass != 0 || inertia != 0 {
				t.Errorf("MassProperties() = %v, %v, want 0, 0", mass, inertia)
			}
		})
	}
}
