package config

import (
	"fmt"
	"strings"

	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Shape describes one shape of a body, in body space. The fields used
// depend on Kind:
//
//	circle   center, radius
//	polygon  points (any winding, concave allowed)
//	rect     position (top-left corner), width, height
//	box      center, width, height
//	regular  center, radius, sides
type Shape struct {
	Name     string  `yaml:"name"`
	Kind     string  `yaml:"kind"`
	Center   Vec2    `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Points   []Vec2  `yaml:"points"`
	Position Vec2    `yaml:"position"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Sides    int     `yaml:"sides"`
}

// Geometry builds the shape.
func (s Shape) Geometry() (geometry.Shape, error) {
	switch strings.ToLower(s.Kind) {
	case "circle":
		if !(s.Radius > 0) {
			return nil, fmt.Errorf("circle radius %v must be positive", s.Radius)
		}
		return geometry.Circle{Center: s.Center.Vec(), Radius: s.Radius}, nil

	case "polygon":
		points := make([]mgl64.Vec2, len(s.Points))
		for i, p := range s.Points {
			points[i] = p.Vec()
		}
		polygon := geometry.NewPolygon(points...)
		if polygon.Degenerate() {
			return nil, fmt.Errorf("polygon needs 3 distinct points, got %d", len(s.Points))
		}
		return polygon, nil

	case "rect", "box":
		if !(s.Width > 0) || !(s.Height > 0) {
			return nil, fmt.Errorf("%s size %vx%v must be positive", s.Kind, s.Width, s.Height)
		}
		if strings.ToLower(s.Kind) == "box" {
			return geometry.NewRect(s.Center[0]-s.Width/2, s.Center[1]-s.Height/2, s.Width, s.Height), nil
		}
		return geometry.NewRect(s.Position[0], s.Position[1], s.Width, s.Height), nil

	case "regular":
		if !(s.Radius > 0) || s.Sides < 3 {
			return nil, fmt.Errorf("regular polygon needs a positive radius and 3 sides or more")
		}
		return geometry.NewRegularPolygon(s.Center.Vec(), s.Radius, s.Sides), nil

	default:
		return nil, fmt.Errorf("unknown shape kind %q", s.Kind)
	}
}
