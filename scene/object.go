package scene

import (
	"errors"
	"slices"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrDuplicateShape = errors.New("shape name already in use")
	ErrAlreadyAdded   = errors.New("object already belongs to a bridge")
	ErrNotAdded       = errors.New("object does not belong to the bridge")
)

// Rule filters the objects an object interacts with. self owns the rule.
type Rule func(self, other *Object) bool

// Collision describes a contact from the point of view of the object
// receiving it. Normal points from that object toward Other.
type Collision struct {
	Other     *Object
	Normal    mgl64.Vec2
	Point     mgl64.Vec2
	Contacts  []mgl64.Vec2
	IsTrigger bool
}

// Handler receives the collisions of an object.
type Handler func(self *Object, collision Collision)

// Handlers are called at the end of every step. The directional handlers
// fire once when a contact starts on that side, Collide fires on every step
// the pair touches.
type Handlers struct {
	Left    Handler
	Right   Handler
	Top     Handler
	Bottom  Handler
	General Handler
	Collide Handler
}

func (h *Handlers) onset(direction actor.Direction) Handler {
	switch direction {
	case actor.Left:
		return h.Left
	case actor.Right:
		return h.Right
	case actor.Top:
		return h.Top
	case actor.Bottom:
		return h.Bottom
	default:
		return h.General
	}
}

type namedShape struct {
	name  string
	shape geometry.Shape
	// physics pieces attached to the body
	pieces []actor.ShapeID
}

// Object is a scene element backed by a rigid body once added to a Bridge.
// Position and Rotation may be written freely between steps: the body follows
// them on the next step.
type Object struct {
	Name     string
	Tag      string
	Position mgl64.Vec2
	Rotation float64

	Handlers    Handlers
	CollideRule Rule
	TriggerRule Rule

	body   *actor.RigidBody
	shapes []namedShape
}

func NewObject(name, tag string, position mgl64.Vec2) *Object {
	return &Object{Name: name, Tag: tag, Position: position}
}

// Body returns the rigid body of the object, nil until the object is added
// to a Bridge.
func (o *Object) Body() *actor.RigidBody {
	return o.body
}

// ShapeNames returns the shape names in insertion order.
func (o *Object) ShapeNames() []string {
	names := make([]string, len(o.shapes))
	for i, s := range o.shapes {
		names[i] = s.name
	}
	return names
}

// Shape returns the shape added under name, as it was given.
func (o *Object) Shape(name string) (geometry.Shape, bool) {
	i := o.shapeIndex(name)
	if i < 0 {
		return nil, false
	}
	return o.shapes[i].shape, true
}

func (o *Object) shapeIndex(name string) int {
	return slices.IndexFunc(o.shapes, func(s namedShape) bool { return s.name == name })
}

// attach adds the convex pieces of a shape to the body.
func (o *Object) attach(s *namedShape) {
	s.pieces = s.pieces[:0]
	for _, piece := range convexPieces(s.shape) {
		s.pieces = append(s.pieces, o.body.AddShape(piece))
	}
}

func (o *Object) detach(s *namedShape) {
	for _, id := range s.pieces {
		o.body.RemoveShape(id)
	}
	s.pieces = nil
}

// convexPieces splits concave polygons. Other shapes are kept whole.
func convexPieces(shape geometry.Shape) []geometry.Shape {
	polygon, ok := shape.(geometry.Polygon)
	if !ok {
		return []geometry.Shape{shape}
	}
	var pieces []geometry.Shape
	for _, p := range polygon.ConvexPieces() {
		pieces = append(pieces, p)
	}
	return pieces
}

// ========== BODY HELPERS ==========

func (o *Object) Velocity() mgl64.Vec2 {
	if o.body == nil {
		return mgl64.Vec2{}
	}
	return o.body.Velocity.Linear
}

func (o *Object) SetVelocity(v mgl64.Vec2) {
	if o.body != nil {
		o.body.Velocity.Linear = v
	}
}

// Stop cancels the linear and angular velocity.
func (o *Object) Stop() {
	if o.body != nil {
		o.body.Stop()
	}
}

// Mobilize turns the object into a dynamic body affected by gravity.
func (o *Object) Mobilize() {
	o.setMobile(true)
}

// Immobilize turns the object into a static body.
func (o *Object) Immobilize() {
	o.setMobile(false)
}

func (o *Object) setMobile(mobile bool) {
	if o.body == nil {
		return
	}
	if mobile {
		o.body.BodyType = actor.BodyTypeDynamic
	} else {
		o.body.BodyType = actor.BodyTypeStatic
		o.body.Stop()
	}
	o.body.Gravity = mobile
	o.body.AirResistance = mobile
}

// MoveTowards accelerates the object toward point, ferocity scaling the
// push: a ferocity of 100 adds the whole offset to the velocity.
func (o *Object) MoveTowards(point mgl64.Vec2, ferocity float64) {
	o.addVelocity(point.Sub(o.Position).Mul(ferocity / 100))
}

func (o *Object) MoveAwayFrom(point mgl64.Vec2, ferocity float64) {
	o.addVelocity(o.Position.Sub(point).Mul(ferocity / 100))
}

func (o *Object) addVelocity(dv mgl64.Vec2) {
	if o.body != nil {
		o.body.Velocity.Linear = o.body.Velocity.Linear.Add(dv)
	}
}

// ApplyImpulse applies impulse at a world point.
func (o *Object) ApplyImpulse(point, impulse mgl64.Vec2) {
	if o.body != nil {
		o.body.ApplyImpulse(point, impulse)
	}
}

// ApplyImpulseMass applies impulse scaled by the mass of the object, so the
// velocity change does not depend on it.
func (o *Object) ApplyImpulseMass(point, impulse mgl64.Vec2) {
	if o.body != nil {
		o.body.ApplyImpulseMass(point, impulse)
	}
}

// objectOf returns the object owning body, nil for bodies added to the
// world directly.
func objectOf(body *actor.RigidBody) *Object {
	if body == nil {
		return nil
	}
	obj, _ := body.UserData.(*Object)
	return obj
}
