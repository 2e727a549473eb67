package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/constraint"
	"github.com/akmonengine/quill/scene"
)

// Validate reports every problem of the scene. Each error wraps
// ErrInvalidScene.
func (s Scene) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidScene))
	}

	w := s.World
	if w.Substeps < 1 || w.ConstraintIterations < 1 || w.ContactIterations < 1 {
		fail("world: substeps and iterations must be at least 1")
	}
	if w.Drag < 0 || w.Drag > 1 || w.AngularDrag < 0 || w.AngularDrag > 1 {
		fail("world: drag and angular_drag must be within [0, 1]")
	}
	if w.MaxSpeed < 0 {
		fail("world: max_speed must not be negative")
	}
	if !(w.CellSize > 0) || w.Cells < 1 {
		fail("world: cell_size and cells must be positive")
	}
	if w.Workers < 0 {
		fail("world: workers must not be negative")
	}
	if s.Run.Steps < 0 || !(s.Run.DT > 0) {
		fail("run: steps must not be negative and dt must be positive")
	}

	names := make(map[string]bool, len(s.Bodies))
	for i, b := range s.Bodies {
		if b.Name == "" {
			fail("bodies[%d]: missing name", i)
		} else if names[b.Name] {
			fail("bodies[%d]: duplicate name %q", i, b.Name)
		}
		names[b.Name] = true

		if _, err := b.BodyType(); err != nil {
			fail("body %q: %v", b.Name, err)
		}
		if err := b.Material().Validate(); err != nil {
			fail("body %q: %v", b.Name, err)
		}
		if b.Mass < 0 {
			fail("body %q: mass must not be negative", b.Name)
		}
		for _, rule := range []string{b.CollideRule, b.TriggerRule} {
			if strings.TrimSpace(rule) == "" {
				continue
			}
			if _, err := scene.NewScriptRule(rule); err != nil {
				fail("body %q: %v", b.Name, err)
			}
		}

		shapeNames := make(map[string]bool, len(b.Shapes))
		for j, shape := range b.Shapes {
			name := shapeName(shape, j)
			if shapeNames[name] {
				fail("body %q: duplicate shape %q", b.Name, name)
			}
			shapeNames[name] = true
			if _, err := shape.Geometry(); err != nil {
				fail("body %q, shape %q: %v", b.Name, name, err)
			}
		}
	}

	for i, c := range s.Constraints {
		switch strings.ToLower(c.Kind) {
		case "length", "position":
		default:
			fail("constraints[%d]: unknown kind %q", i, c.Kind)
		}
		if !names[c.A] {
			fail("constraints[%d]: unknown body %q", i, c.A)
		}
		if c.B != "" && !names[c.B] {
			fail("constraints[%d]: unknown body %q", i, c.B)
		}
		if c.B == c.A {
			fail("constraints[%d]: a body cannot be constrained to itself", i)
		}
		if c.Length != nil && *c.Length < 0 {
			fail("constraints[%d]: length must not be negative", i)
		}
		if c.Compliance < 0 {
			fail("constraints[%d]: compliance must not be negative", i)
		}
	}

	return errors.Join(errs...)
}

func shapeName(shape Shape, index int) string {
	if shape.Name != "" {
		return shape.Name
	}
	return fmt.Sprintf("shape%d", index)
}

// Build validates the scene and creates its world behind a scene bridge.
// Rules are compiled once per body.
func (s Scene) Build() (*scene.Bridge, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	world := quill.NewWorld()
	s.World.apply(world)
	bridge := scene.NewBridge(world)

	for _, b := range s.Bodies {
		if err := b.build(bridge); err != nil {
			return nil, fmt.Errorf("body %q: %w", b.Name, err)
		}
	}

	for i, c := range s.Constraints {
		built, err := c.build(bridge)
		if err != nil {
			return nil, fmt.Errorf("constraints[%d]: %w", i, err)
		}
		if err := world.AddConstraint(built); err != nil {
			return nil, fmt.Errorf("constraints[%d]: %w", i, err)
		}
	}

	return bridge, nil
}

func (w World) apply(world *quill.World) {
	world.Gravity = w.Gravity.Vec()
	world.Drag = w.Drag
	world.AngularDrag = w.AngularDrag
	world.MaxSpeed = w.MaxSpeed
	world.Substeps = w.Substeps
	world.ConstraintIterations = w.ConstraintIterations
	world.ContactIterations = w.ContactIterations
	world.Workers = w.Workers
	world.SpatialGrid = quill.NewSpatialGrid(w.CellSize, w.Cells)
}

func (b Body) build(bridge *scene.Bridge) error {
	bodyType, err := b.BodyType()
	if err != nil {
		return err
	}

	obj := scene.NewObject(b.Name, b.Tag, b.Position.Vec())
	obj.Rotation = b.Angle
	for j, shape := range b.Shapes {
		g, err := shape.Geometry()
		if err != nil {
			return err
		}
		if err := bridge.AddShape(obj, shapeName(shape, j), g); err != nil {
			return err
		}
	}
	if obj.CollideRule, err = compileRule(b.CollideRule); err != nil {
		return err
	}
	if obj.TriggerRule, err = compileRule(b.TriggerRule); err != nil {
		return err
	}
	if err := bridge.Add(obj, bodyType); err != nil {
		return err
	}

	body := obj.Body()
	if err := body.SetMaterial(b.Material()); err != nil {
		return err
	}
	if b.Mass > 0 {
		if err := body.SetMass(b.Mass); err != nil {
			return err
		}
	}
	body.Velocity.Linear = b.Velocity.Vec()
	body.Velocity.Angular = b.AngularVelocity
	body.CanRotate = b.CanRotate
	body.CanCollide = b.CanCollide
	body.IsTrigger = b.IsTrigger
	body.Simulated = !b.Hidden
	if b.Gravity != nil {
		body.Gravity = *b.Gravity
	}
	if b.AirResistance != nil {
		body.AirResistance = *b.AirResistance
	}
	return nil
}

func compileRule(expression string) (scene.Rule, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, nil
	}
	rule, err := scene.NewScriptRule(expression)
	if err != nil {
		return nil, err
	}
	return rule.Rule(), nil
}

func (c Constraint) build(bridge *scene.Bridge) (constraint.Constraint, error) {
	objA, ok := bridge.Object(c.A)
	if !ok {
		return nil, fmt.Errorf("unknown body %q", c.A)
	}
	a := constraint.Attached(objA.Body(), c.OffsetA.Vec())

	b := constraint.Fixed(c.Point.Vec())
	if c.B != "" {
		objB, ok := bridge.Object(c.B)
		if !ok {
			return nil, fmt.Errorf("unknown body %q", c.B)
		}
		b = constraint.Attached(objB.Body(), c.OffsetB.Vec())
	}

	switch strings.ToLower(c.Kind) {
	case "length":
		length := constraint.NewLengthConstraint(a, b)
		if c.Length != nil {
			length.RestLength = *c.Length
		}
		length.Compliance = float64(c.Compliance)
		return length, nil
	case "position":
		position := constraint.NewPositionConstraint(a, b)
		position.Compliance = float64(c.Compliance)
		return position, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", c.Kind)
	}
}
