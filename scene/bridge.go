package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/geometry"
)

// Bridge keeps scene objects and their rigid bodies in step. Objects own
// their position between steps, bodies own it during a step.
type Bridge struct {
	World *quill.World

	objects []*Object
}

// NewBridge wires a bridge on world. A nil world is replaced by
// quill.NewWorld().
func NewBridge(world *quill.World) *Bridge {
	if world == nil {
		world = quill.NewWorld()
	}
	b := &Bridge{World: world}
	world.Events.Subscribe(quill.ONSET, b.onOnset)
	world.Events.Subscribe(quill.COLLIDE, b.onCollide)
	return b
}

// Add creates the body of obj and registers it in the world, with the shapes
// already added to obj.
func (b *Bridge) Add(obj *Object, bodyType actor.BodyType) error {
	if obj == nil {
		return errors.New("nil object")
	}
	if obj.body != nil {
		return fmt.Errorf("object %q: %w", obj.Name, ErrAlreadyAdded)
	}

	body := actor.NewRigidBody(actor.Transform{Position: obj.Position, Angle: obj.Rotation}, bodyType)
	body.UserData = obj
	obj.body = body
	for i := range obj.shapes {
		obj.attach(&obj.shapes[i])
	}
	obj.syncRules()

	b.World.AddBody(body)
	b.objects = append(b.objects, obj)
	return nil
}

// Remove takes obj out of the world. It returns false when obj does not
// belong to the bridge. Its shapes are kept, so it can be added again.
func (b *Bridge) Remove(obj *Object) bool {
	if obj == nil || !slices.Contains(b.objects, obj) {
		return false
	}
	b.World.RemoveBody(obj.body.ID())
	for i := range obj.shapes {
		obj.shapes[i].pieces = nil
	}
	obj.body = nil
	b.objects = slices.DeleteFunc(b.objects, func(o *Object) bool { return o == obj })
	return true
}

// Objects returns the objects of the bridge in insertion order. The slice
// must not be modified.
func (b *Bridge) Objects() []*Object {
	return b.objects
}

// Object returns the first object named name.
func (b *Bridge) Object(name string) (*Object, bool) {
	i := slices.IndexFunc(b.objects, func(o *Object) bool { return o.Name == name })
	if i < 0 {
		return nil, false
	}
	return b.objects[i], true
}

// AddShape adds shape to obj under name. Concave polygons are split into
// convex pieces on the body.
func (b *Bridge) AddShape(obj *Object, name string, shape geometry.Shape) error {
	if obj == nil || shape == nil {
		return errors.New("nil object or shape")
	}
	if obj.shapeIndex(name) >= 0 {
		return fmt.Errorf("object %q, shape %q: %w", obj.Name, name, ErrDuplicateShape)
	}

	obj.shapes = append(obj.shapes, namedShape{name: name, shape: shape})
	if obj.body != nil {
		obj.attach(&obj.shapes[len(obj.shapes)-1])
	}
	return nil
}

// RemoveShape removes the shape named name and its pieces. It returns false
// when obj has no such shape.
func (b *Bridge) RemoveShape(obj *Object, name string) bool {
	if obj == nil {
		return false
	}
	i := obj.shapeIndex(name)
	if i < 0 {
		return false
	}
	if obj.body != nil {
		obj.detach(&obj.shapes[i])
	}
	obj.shapes = slices.Delete(obj.shapes, i, i+1)
	return true
}

// Step pushes the objects moved since the last step to their bodies, steps
// the world, then copies the bodies back to the objects. Handlers run
// inside the world step.
func (b *Bridge) Step(dt float64) {
	for _, obj := range b.objects {
		obj.beforeStep()
	}

	b.World.Step(dt)

	for _, obj := range b.objects {
		obj.afterStep()
	}
}

func (o *Object) beforeStep() {
	o.syncRules()

	t := &o.body.Transform
	if t.Position != o.Position || t.Angle != o.Rotation {
		t.Position = o.Position
		t.Angle = o.Rotation
	}
}

func (o *Object) afterStep() {
	if o.body == nil {
		return
	}
	o.Position = o.body.Transform.Position
	o.Rotation = o.body.Transform.Angle
}

// syncRules installs the body rules only while the object has some, so
// bodies without rules stay on the fast path.
func (o *Object) syncRules() {
	o.body.CollideRule = nil
	if o.CollideRule != nil {
		o.body.CollideRule = o.allowsCollision
	}
	o.body.TriggerRule = nil
	if o.TriggerRule != nil {
		o.body.TriggerRule = o.triggersWith
	}
}

// Bodies that do not belong to an object are always accepted.
func (o *Object) allowsCollision(_, other *actor.RigidBody) bool {
	peer := objectOf(other)
	if peer == nil || o.CollideRule == nil {
		return true
	}
	return o.CollideRule(o, peer)
}

func (o *Object) triggersWith(_, other *actor.RigidBody) bool {
	peer := objectOf(other)
	if peer == nil || o.TriggerRule == nil {
		return false
	}
	return o.TriggerRule(o, peer)
}

// ========== EVENTS ==========

func (b *Bridge) onOnset(event quill.Event) {
	onset := event.(quill.OnsetEvent)
	self := objectOf(onset.Body)
	if self == nil {
		return
	}
	handler := self.Handlers.onset(onset.Direction)
	if handler == nil {
		return
	}

	var other *Object
	if body, ok := b.World.Body(onset.Data.Body); ok {
		other = objectOf(body)
	}
	handler(self, Collision{
		Other:     other,
		Normal:    onset.Data.Normal,
		Point:     onset.Data.Point,
		Contacts:  onset.Data.Contacts,
		IsTrigger: onset.Data.IsTrigger,
	})
}

// onCollide calls the Collide handler of both objects, each seeing the
// normal pointing toward the other.
func (b *Bridge) onCollide(event quill.Event) {
	collide := event.(quill.CollideEvent)
	objA, objB := objectOf(collide.BodyA), objectOf(collide.BodyB)
	trigger := collide.IsTriggerA || collide.IsTriggerB

	if objA != nil && objA.Handlers.Collide != nil {
		objA.Handlers.Collide(objA, Collision{
			Other:     objB,
			Normal:    collide.Normal,
			Point:     geometry.Average(collide.Contacts),
			Contacts:  collide.Contacts,
			IsTrigger: trigger,
		})
	}
	if objB != nil && objB.Handlers.Collide != nil {
		objB.Handlers.Collide(objB, Collision{
			Other:     objA,
			Normal:    collide.Normal.Mul(-1),
			Point:     geometry.Average(collide.Contacts),
			Contacts:  collide.Contacts,
			IsTrigger: trigger,
		})
	}
}
