package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MinMass and MinInertia are the lower bounds of the computed mass
	// properties, so inverse masses stay finite.
	MinMass    = 1e-6
	MinInertia = 1e-6
)

var (
	ErrInvalidDensity  = errors.New("density must be positive")
	ErrInvalidMass     = errors.New("mass must be positive")
	ErrInvalidMaterial = errors.New("friction and restitution must be within [0, 1]")
)

// BodyID is the handle of a body inside a World. Zero means unregistered.
type BodyID uint64

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

type Material struct {
	Density     float64
	Friction    float64 // 0 = ice, 1 = rubber
	Restitution float64 // 0= no rebound, 1= perfect restitution
}

// DefaultMaterial is used by NewRigidBody.
var DefaultMaterial = Material{Density: 1, Friction: 0.5, Restitution: 0}

// Snuzzlement is how much energy a bounce absorbs.
func (m Material) Snuzzlement() float64 {
	return 1 - m.Restitution
}

func (m Material) Validate() error {
	if !(m.Density > 0) {
		return fmt.Errorf("density %v: %w", m.Density, ErrInvalidDensity)
	}
	if !(m.Friction >= 0 && m.Friction <= 1) || !(m.Restitution >= 0 && m.Restitution <= 1) {
		return fmt.Errorf("friction %v, restitution %v: %w", m.Friction, m.Restitution, ErrInvalidMaterial)
	}
	return nil
}

// Rule filters the pairs a body takes part in. self is the body owning the
// rule.
type Rule func(self, other *RigidBody) bool

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	id BodyID

	Transform Transform
	Velocity  Velocity

	// Physical properties
	Material Material
	BodyType BodyType // Dynamic or Static

	// Simulated bodies take part in the step. An unsimulated body stays
	// registered but is neither moved nor collided.
	Simulated     bool
	CanRotate     bool
	Gravity       bool
	AirResistance bool
	CanCollide    bool
	IsTrigger     bool

	// CollideRule rejects a pair when it returns false. TriggerRule turns a
	// pair into a trigger when it returns true. Both are skipped when nil.
	CollideRule Rule
	TriggerRule Rule

	// Colliding holds the contacts of the current step, LastColliding those
	// of the previous one.
	Colliding     *CollisionMonitor
	LastColliding *CollisionMonitor

	// UserData is carried untouched, for the layer owning the body.
	UserData any

	shapes []BodyShape

	models       []geometry.Shape
	bounds       geometry.AABB
	syncedAt     Transform
	modelsSynced bool

	mass         float64
	inertia      float64
	massOverride float64
	massDensity  float64
	massSynced   bool

	accumulatedForce  mgl64.Vec2
	accumulatedTorque float64
}

// NewRigidBody creates a body with DefaultMaterial. Dynamic bodies are
// affected by gravity and air resistance.
func NewRigidBody(transform Transform, bodyType BodyType) *RigidBody {
	return &RigidBody{
		Transform:     transform,
		Material:      DefaultMaterial,
		BodyType:      bodyType,
		Simulated:     true,
		CanRotate:     true,
		Gravity:       bodyType == BodyTypeDynamic,
		AirResistance: bodyType == BodyTypeDynamic,
		CanCollide:    true,
		Colliding:     NewCollisionMonitor(),
		LastColliding: NewCollisionMonitor(),
	}
}

func (rb *RigidBody) ID() BodyID {
	return rb.id
}

// SetID binds the body and its shapes to a handle. It is called by the world
// on registration.
func (rb *RigidBody) SetID(id BodyID) {
	rb.id = id
	for i := range rb.shapes {
		rb.shapes[i].Body = id
	}
}

func (rb *RigidBody) IsStatic() bool {
	return rb.BodyType == BodyTypeStatic
}

// ========== SHAPES ==========

// AddShape attaches a body-space shape and returns its handle. A nil shape
// is ignored and yields the zero handle.
func (rb *RigidBody) AddShape(shape geometry.Shape) ShapeID {
	if shape == nil {
		return 0
	}
	id := nextShapeID()
	rb.shapes = append(rb.shapes, BodyShape{ID: id, Body: rb.id, Shape: shape})
	rb.invalidate()
	return id
}

// RemoveShape detaches a shape. It returns false when the body does not own id.
func (rb *RigidBody) RemoveShape(id ShapeID) bool {
	for i, s := range rb.shapes {
		if s.ID == id {
			rb.shapes = append(rb.shapes[:i], rb.shapes[i+1:]...)
			rb.invalidate()
			return true
		}
	}
	return false
}

func (rb *RigidBody) ClearShapes() {
	rb.shapes = nil
	rb.invalidate()
}

// Shapes returns the attached shapes. The slice must not be modified.
func (rb *RigidBody) Shapes() []BodyShape {
	return rb.shapes
}

func (rb *RigidBody) Shape(id ShapeID) (geometry.Shape, bool) {
	for _, s := range rb.shapes {
		if s.ID == id {
			return s.Shape, true
		}
	}
	return nil, false
}

func (rb *RigidBody) invalidate() {
	rb.massSynced = false
	rb.modelsSynced = false
}

// ========== MASS ==========

func (rb *RigidBody) SetDensity(density float64) error {
	if !(density > 0) {
		return fmt.Errorf("density %v: %w", density, ErrInvalidDensity)
	}
	rb.Material.Density = density
	rb.massOverride = 0
	rb.massSynced = false
	return nil
}

// SetMass overrides the mass computed from density. The inertia is scaled by
// the same factor.
func (rb *RigidBody) SetMass(mass float64) error {
	if !(mass > 0) {
		return fmt.Errorf("mass %v: %w", mass, ErrInvalidMass)
	}
	rb.massOverride = mass
	rb.massSynced = false
	return nil
}

func (rb *RigidBody) SetFriction(friction float64) error {
	if !(friction >= 0 && friction <= 1) {
		return fmt.Errorf("friction %v: %w", friction, ErrInvalidMaterial)
	}
	rb.Material.Friction = friction
	return nil
}

func (rb *RigidBody) SetRestitution(restitution float64) error {
	if !(restitution >= 0 && restitution <= 1) {
		return fmt.Errorf("restitution %v: %w", restitution, ErrInvalidMaterial)
	}
	rb.Material.Restitution = restitution
	return nil
}

func (rb *RigidBody) SetMaterial(material Material) error {
	if err := material.Validate(); err != nil {
		return err
	}
	rb.Material = material
	rb.massOverride = 0
	rb.massSynced = false
	return nil
}

func (rb *RigidBody) updateMass() {
	if rb.massSynced && rb.massDensity == rb.Material.Density {
		return
	}

	var mass, inertia float64
	for _, s := range rb.shapes {
		m, i := MassProperties(s.Shape, rb.Material.Density)
		mass += m
		inertia += i
	}

	if rb.massOverride > 0 {
		if mass > 0 {
			inertia *= rb.massOverride / mass
		}
		mass = rb.massOverride
	}

	rb.mass = math.Max(mass, MinMass)
	rb.inertia = math.Max(inertia, MinInertia)
	rb.massDensity = rb.Material.Density
	rb.massSynced = true
}

// Mass returns the mass of the body, never below MinMass.
func (rb *RigidBody) Mass() float64 {
	rb.updateMass()
	return rb.mass
}

// Inertia returns the moment of inertia about the body origin, never below
// MinInertia.
func (rb *RigidBody) Inertia() float64 {
	rb.updateMass()
	return rb.inertia
}

// InverseMass is zero for static bodies.
func (rb *RigidBody) InverseMass() float64 {
	if rb.IsStatic() {
		return 0
	}
	return 1.0 / rb.Mass()
}

// InverseInertia is zero for static bodies and bodies that cannot rotate.
func (rb *RigidBody) InverseInertia() float64 {
	if rb.IsStatic() || !rb.CanRotate {
		return 0
	}
	return 1.0 / rb.Inertia()
}

func (rb *RigidBody) KineticEnergy() float64 {
	if rb.IsStatic() {
		return 0
	}
	linear := 0.5 * rb.Mass() * rb.Velocity.Linear.LenSqr()
	angular := 0.5 * rb.Inertia() * rb.Velocity.Angular * rb.Velocity.Angular
	return linear + angular
}

// ========== MOTION ==========

// AddForce accumulates a force applied at the body origin until the end of
// the step.
func (rb *RigidBody) AddForce(force mgl64.Vec2) {
	if !rb.IsStatic() {
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

func (rb *RigidBody) AddTorque(torque float64) {
	if !rb.IsStatic() {
		rb.accumulatedTorque += torque
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec2{}
	rb.accumulatedTorque = 0
}

// ApplyImpulse changes the velocity as if impulse was applied at the world
// point.
func (rb *RigidBody) ApplyImpulse(point, impulse mgl64.Vec2) {
	if rb.IsStatic() {
		return
	}
	rb.Velocity.Linear = rb.Velocity.Linear.Add(impulse.Mul(rb.InverseMass()))
	arm := point.Sub(rb.Transform.Position)
	rb.Velocity.Angular += geometry.Cross(arm, impulse) * rb.InverseInertia()
}

// ApplyImpulseMass applies impulse scaled by the body mass, so the linear
// velocity changes by impulse whatever the mass.
func (rb *RigidBody) ApplyImpulseMass(point, impulse mgl64.Vec2) {
	rb.ApplyImpulse(point, impulse.Mul(rb.Mass()))
}

// Stop zeroes both velocities.
func (rb *RigidBody) Stop() {
	rb.Velocity = Velocity{}
}

// PointVelocity returns the velocity of the world point attached to the body.
func (rb *RigidBody) PointVelocity(point mgl64.Vec2) mgl64.Vec2 {
	arm := point.Sub(rb.Transform.Position)
	return rb.Velocity.Linear.Add(geometry.CrossScalar(rb.Velocity.Angular, arm))
}

// ApplyForces applies the per-step gravity and drag.
func (rb *RigidBody) ApplyForces(gravity mgl64.Vec2, drag, angularDrag, dt float64) {
	if rb.IsStatic() {
		return
	}
	if rb.Gravity {
		rb.Velocity.Linear = rb.Velocity.Linear.Add(gravity.Mul(dt))
	}
	if rb.AirResistance {
		rb.Velocity.Linear = rb.Velocity.Linear.Mul(math.Pow(1-drag, dt))
	}
	rb.Velocity.Angular *= math.Pow(1-angularDrag, dt)
}

// Integrate advances the body by one sub-step of h seconds with semi-implicit
// Euler. A positive maxSpeed clamps the linear speed.
func (rb *RigidBody) Integrate(h, maxSpeed float64) {
	if rb.IsStatic() {
		return
	}

	rb.Velocity.Linear = rb.Velocity.Linear.Add(rb.accumulatedForce.Mul(rb.InverseMass() * h))
	rb.Velocity.Angular += rb.accumulatedTorque * rb.InverseInertia() * h

	if maxSpeed > 0 {
		if speed := rb.Velocity.Linear.Len(); speed > maxSpeed {
			rb.Velocity.Linear = rb.Velocity.Linear.Mul(maxSpeed / speed)
		}
	}

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Linear.Mul(h))
	if rb.CanRotate {
		rb.Transform.Angle = geometry.WrapAngle(rb.Transform.Angle + rb.Velocity.Angular*h)
	} else {
		rb.Velocity.Angular = 0
	}
}

// ========== COLLISION STATE ==========

// SwapMonitors moves the contacts of the finished step to LastColliding and
// empties Colliding for the next one.
func (rb *RigidBody) SwapMonitors() {
	rb.Colliding, rb.LastColliding = rb.LastColliding, rb.Colliding
	rb.Colliding.Clear()
}

// AllowsCollision reports whether the body accepts to be solved against other.
func (rb *RigidBody) AllowsCollision(other *RigidBody) bool {
	if !rb.CanCollide {
		return false
	}
	return rb.CollideRule == nil || rb.CollideRule(rb, other)
}

// TriggersWith reports whether the body only detects other.
func (rb *RigidBody) TriggersWith(other *RigidBody) bool {
	if rb.IsTrigger {
		return true
	}
	return rb.TriggerRule != nil && rb.TriggerRule(rb, other)
}

func (rb *RigidBody) HasCollideRule() bool {
	return rb.CollideRule != nil
}

func (rb *RigidBody) HasTriggerRule() bool {
	return rb.TriggerRule != nil
}
