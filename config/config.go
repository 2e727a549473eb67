package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScene = errors.New("invalid scene")

// Scene is the YAML description of a world, its bodies and constraints.
type Scene struct {
	World       World        `yaml:"world"`
	Bodies      []Body       `yaml:"bodies"`
	Constraints []Constraint `yaml:"constraints"`
	Run         Run          `yaml:"run"`
}

type World struct {
	Gravity              Vec2    `yaml:"gravity"`
	Drag                 float64 `yaml:"drag"`
	AngularDrag          float64 `yaml:"angular_drag"`
	MaxSpeed             float64 `yaml:"max_speed"`
	Substeps             int     `yaml:"substeps"`
	ConstraintIterations int     `yaml:"constraint_iterations"`
	ContactIterations    int     `yaml:"contact_iterations"`
	CellSize             float64 `yaml:"cell_size"`
	Cells                int     `yaml:"cells"`
	Workers              int     `yaml:"workers"`
}

// Run holds the settings of a batch run: how many steps of dt seconds.
type Run struct {
	Steps int     `yaml:"steps"`
	DT    float64 `yaml:"dt"`
}

type Body struct {
	Name            string  `yaml:"name"`
	Tag             string  `yaml:"tag"`
	Type            string  `yaml:"type"`
	Position        Vec2    `yaml:"position"`
	Angle           float64 `yaml:"angle"`
	Velocity        Vec2    `yaml:"velocity"`
	AngularVelocity float64 `yaml:"angular_velocity"`

	Density     float64 `yaml:"density"`
	Mass        float64 `yaml:"mass"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`

	CanRotate  bool `yaml:"can_rotate"`
	CanCollide bool `yaml:"can_collide"`
	IsTrigger  bool `yaml:"is_trigger"`
	// Hidden bodies are built but left out of the simulation.
	Hidden bool `yaml:"hidden"`
	// Gravity and AirResistance follow the body type when omitted.
	Gravity       *bool `yaml:"gravity"`
	AirResistance *bool `yaml:"air_resistance"`

	// CollideRule and TriggerRule are tengo expressions over self and other.
	CollideRule string `yaml:"collide_rule"`
	TriggerRule string `yaml:"trigger_rule"`

	Shapes []Shape `yaml:"shapes"`
}

// UnmarshalYAML fills the omitted fields with their defaults.
func (b *Body) UnmarshalYAML(value *yaml.Node) error {
	type plain Body
	body := plain(DefaultBody())
	if err := value.Decode(&body); err != nil {
		return err
	}
	*b = Body(body)
	return nil
}

// DefaultBody returns a dynamic body with the default material.
func DefaultBody() Body {
	return Body{
		Type:        "dynamic",
		Density:     actor.DefaultMaterial.Density,
		Friction:    actor.DefaultMaterial.Friction,
		Restitution: actor.DefaultMaterial.Restitution,
		CanRotate:   true,
		CanCollide:  true,
	}
}

func (b Body) BodyType() (actor.BodyType, error) {
	switch strings.ToLower(b.Type) {
	case "", "dynamic":
		return actor.BodyTypeDynamic, nil
	case "static":
		return actor.BodyTypeStatic, nil
	default:
		return 0, fmt.Errorf("unknown body type %q", b.Type)
	}
}

func (b Body) Material() actor.Material {
	return actor.Material{Density: b.Density, Friction: b.Friction, Restitution: b.Restitution}
}

type Constraint struct {
	// Kind is length or position.
	Kind string `yaml:"kind"`
	// A and B name the bodies. Without B, the constraint holds A to Point.
	A       string `yaml:"a"`
	B       string `yaml:"b"`
	OffsetA Vec2   `yaml:"offset_a"`
	OffsetB Vec2   `yaml:"offset_b"`
	Point   Vec2   `yaml:"point"`
	// Length overrides the rest length of a length constraint, which is the
	// distance between the anchors otherwise.
	Length     *float64   `yaml:"length"`
	Compliance Compliance `yaml:"compliance"`
}

// Compliance is a number or the name of a preset: rigid, concrete, wood,
// leather, tendon, rubber, muscle, fat.
type Compliance float64

var compliancePresets = map[string]float64{
	"rigid":    0,
	"concrete": constraint.CONCRETE_COMPLIANCE,
	"wood":     constraint.WOOD_COMPLIANCE,
	"leather":  constraint.LEATHER_COMPLIANCE,
	"tendon":   constraint.TENDON_COMPLIANCE,
	"rubber":   constraint.RUBBER_COMPLIANCE,
	"muscle":   constraint.MUSCLE_COMPLIANCE,
	"fat":      constraint.FAT_COMPLIANCE,
}

func (c *Compliance) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: compliance must be a number or a preset name", value.Line)
	}
	if preset, ok := compliancePresets[strings.ToLower(value.Value)]; ok {
		*c = Compliance(preset)
		return nil
	}
	var f float64
	if err := value.Decode(&f); err != nil {
		return fmt.Errorf("line %d: unknown compliance %q", value.Line, value.Value)
	}
	*c = Compliance(f)
	return nil
}

// Vec2 is written [x, y] or {x: .., y: ..}.
type Vec2 mgl64.Vec2

func (v Vec2) Vec() mgl64.Vec2 {
	return mgl64.Vec2(v)
}

func (v *Vec2) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xy []float64
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: a vector needs 2 components, got %d", value.Line, len(xy))
		}
		*v = Vec2{xy[0], xy[1]}
	case yaml.MappingNode:
		var xy struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
		}
		if err := value.Decode(&xy); err != nil {
			return err
		}
		*v = Vec2{xy.X, xy.Y}
	default:
		return fmt.Errorf("line %d: a vector must be [x, y] or {x, y}", value.Line)
	}
	return nil
}

func (v Vec2) MarshalYAML() (any, error) {
	return []float64{v[0], v[1]}, nil
}

// Default returns an empty scene with the default world settings, one
// second at 60 steps per second.
func Default() Scene {
	return Scene{
		World: World{
			Gravity:              Vec2(quill.DEFAULT_GRAVITY),
			Drag:                 quill.DEFAULT_DRAG,
			MaxSpeed:             quill.DEFAULT_MAX_SPEED,
			Substeps:             quill.DEFAULT_SUBSTEPS,
			ConstraintIterations: quill.DEFAULT_ITERATIONS,
			ContactIterations:    quill.DEFAULT_ITERATIONS,
			CellSize:             quill.DEFAULT_CELL_SIZE,
			Cells:                quill.DEFAULT_CELLS,
			Workers:              quill.DEFAULT_WORKERS,
		},
		Run: Run{Steps: 60, DT: 1.0 / 60.0},
	}
}

// Load reads and parses a scene file.
func Load(filename string) (Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Scene{}, fmt.Errorf("config: load %s: %w", filename, err)
	}
	scene, err := Parse(data)
	if err != nil {
		return Scene{}, fmt.Errorf("config: %s: %w", filename, err)
	}
	return scene, nil
}

// Parse decodes a scene over Default. Unknown keys are rejected.
func Parse(data []byte) (Scene, error) {
	scene := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scene); err != nil && !errors.Is(err, io.EOF) {
		return Scene{}, fmt.Errorf("unmarshal: %w", err)
	}
	return scene, nil
}

// Marshal encodes the scene back to YAML.
func (s Scene) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
