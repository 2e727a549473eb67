package quill

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/constraint"
	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_WORKERS    = 1
	DEFAULT_SUBSTEPS   = 4
	DEFAULT_ITERATIONS = 4
	DEFAULT_DRAG       = 0.005
	DEFAULT_CELL_SIZE  = 4.0
	DEFAULT_CELLS      = 1024
	DEFAULT_MAX_SPEED  = 1000.0
)

// DEFAULT_GRAVITY points down the screen.
var DEFAULT_GRAVITY = mgl64.Vec2{0, 9.81}

var (
	ErrUnknownBody       = errors.New("body is not registered in the world")
	ErrInvalidConstraint = errors.New("invalid constraint")
)

type World struct {
	// Gravity acceleration (units/s²)
	Gravity mgl64.Vec2
	// Drag is the fraction of linear velocity lost per second by bodies with
	// AirResistance, AngularDrag the fraction of angular velocity.
	Drag        float64
	AngularDrag float64
	// MaxSpeed clamps the linear speed of every body, in units/s. Zero
	// disables it.
	MaxSpeed float64

	Substeps             int
	ConstraintIterations int
	ContactIterations    int
	SpatialGrid          *SpatialGrid
	Workers              int
	// Optimize replaces the default AABB test of the broad phase
	Optimize OptimizeFunc

	Events Events

	// bodies in registration order, active the simulated ones of the
	// running step
	bodies      []*actor.RigidBody
	active      []*actor.RigidBody
	index       map[actor.BodyID]*actor.RigidBody
	lastID      actor.BodyID
	constraints []constraint.Constraint

	// pair decisions of the running step
	pairs map[pairKey]*pairState

	stepping bool
	added    []*actor.RigidBody
	removed  []actor.BodyID
}

// NewWorld returns a world with the default settings.
func NewWorld() *World {
	return &World{
		Gravity:              DEFAULT_GRAVITY,
		Drag:                 DEFAULT_DRAG,
		MaxSpeed:             DEFAULT_MAX_SPEED,
		Substeps:             DEFAULT_SUBSTEPS,
		ConstraintIterations: DEFAULT_ITERATIONS,
		ContactIterations:    DEFAULT_ITERATIONS,
		SpatialGrid:          NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_CELLS),
		Workers:              DEFAULT_WORKERS,
		Events:               NewEvents(),
		index:                make(map[actor.BodyID]*actor.RigidBody),
		pairs:                make(map[pairKey]*pairState),
	}
}

// ========== BODIES ==========

// AddBody registers a body and returns its handle. Handles are never reused.
// A body added during a step takes part in the next one.
func (w *World) AddBody(body *actor.RigidBody) actor.BodyID {
	if body == nil {
		return 0
	}
	if w.index == nil {
		w.index = make(map[actor.BodyID]*actor.RigidBody)
	}
	if id := body.ID(); id != 0 && w.index[id] == body {
		return id
	}

	w.lastID++
	body.SetID(w.lastID)
	w.index[w.lastID] = body

	if w.stepping {
		w.added = append(w.added, body)
	} else {
		w.bodies = append(w.bodies, body)
	}
	return w.lastID
}

// RemoveBody unregisters a body and every constraint attached to it. It
// returns false when the body is unknown or already removed. During a step
// the removal is applied once the step completes.
func (w *World) RemoveBody(id actor.BodyID) bool {
	if _, ok := w.index[id]; !ok || slices.Contains(w.removed, id) {
		return false
	}
	if w.stepping {
		w.removed = append(w.removed, id)
		return true
	}
	w.removeBody(id)
	return true
}

func (w *World) removeBody(id actor.BodyID) {
	body, ok := w.index[id]
	if !ok {
		return
	}
	delete(w.index, id)
	w.bodies = slices.DeleteFunc(w.bodies, func(b *actor.RigidBody) bool { return b == body })
	w.added = slices.DeleteFunc(w.added, func(b *actor.RigidBody) bool { return b == body })

	w.constraints = slices.DeleteFunc(w.constraints, func(c constraint.Constraint) bool {
		return constraint.References(c, body)
	})

	for _, other := range w.bodies {
		other.Colliding.RemoveBody(id)
		other.LastColliding.RemoveBody(id)
	}
	w.Events.forgetBody(id)

	body.Colliding.Clear()
	body.LastColliding.Clear()
	body.SetID(0)
}

// Body returns the body registered under id.
func (w *World) Body(id actor.BodyID) (*actor.RigidBody, bool) {
	body, ok := w.index[id]
	return body, ok
}

// Bodies returns the bodies taking part in the next step, in registration
// order. The slice must not be modified.
func (w *World) Bodies() []*actor.RigidBody {
	return w.bodies
}

// ========== CONSTRAINTS ==========

// AddConstraint registers c. Every body it references must be registered.
func (w *World) AddConstraint(c constraint.Constraint) error {
	if c == nil {
		return fmt.Errorf("nil constraint: %w", ErrInvalidConstraint)
	}
	a, b := c.Endpoints()
	for _, end := range []*constraint.Constrained{a, b} {
		if end == nil {
			return fmt.Errorf("missing endpoint: %w", ErrInvalidConstraint)
		}
		if end.Body == nil {
			continue
		}
		if registered, ok := w.index[end.Body.ID()]; !ok || registered != end.Body || slices.Contains(w.removed, end.Body.ID()) {
			return fmt.Errorf("constraint endpoint: %w", ErrUnknownBody)
		}
	}
	if slices.Contains(w.constraints, c) {
		return nil
	}
	w.constraints = append(w.constraints, c)
	return nil
}

// RemoveConstraint returns false when c is not registered.
func (w *World) RemoveConstraint(c constraint.Constraint) bool {
	i := slices.Index(w.constraints, c)
	if i < 0 {
		return false
	}
	w.constraints = slices.Delete(w.constraints, i, i+1)
	return true
}

// Constraints returns the registered constraints. The slice must not be
// modified.
func (w *World) Constraints() []constraint.Constraint {
	return w.constraints
}

// ========== STEP ==========

// Step advances the simulation by dt seconds. Events are sent at the end of
// the step; a panicking listener or rule propagates out of Step.
func (w *World) Step(dt float64) {
	w.normalize()
	w.stepping = true
	defer w.endStep()

	clear(w.pairs)

	// Phase 1: swap the collision monitors, refresh moved models
	w.active = w.active[:0]
	for _, body := range w.bodies {
		body.SwapMonitors()
		if body.Simulated {
			w.active = append(w.active, body)
		}
	}
	bodies := w.active
	w.sync()

	// Phase 2: gravity and drag, once per step
	for _, body := range bodies {
		body.ApplyForces(w.Gravity, w.Drag, w.AngularDrag, dt)
	}

	h := dt / float64(w.Substeps)
	for range w.Substeps {
		// Phase 3: integration
		w.integrate(h)
		w.sync()

		// Phase 4: broad and narrow phase, then resolution so the next
		// substep sees corrected positions
		w.resolve(w.detectCollision())

		// Phase 5: constraints
		w.solveConstraints(h)
	}

	for _, body := range bodies {
		body.ClearForces()
	}

	// Phase 6: onsets and pair events
	w.Events.processOnsetEvents(w.bodies)
	w.Events.flush()
}

func (w *World) normalize() {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Substeps = max(1, w.Substeps)
	w.ConstraintIterations = max(1, w.ConstraintIterations)
	w.ContactIterations = max(1, w.ContactIterations)
	if w.SpatialGrid == nil {
		w.SpatialGrid = NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_CELLS)
	}
	if w.pairs == nil {
		w.pairs = make(map[pairKey]*pairState)
	}
	w.Events.init()
}

// endStep applies the mutations queued while stepping
func (w *World) endStep() {
	w.stepping = false
	clear(w.active)
	w.active = w.active[:0]
	clear(w.Events.buffer)
	w.Events.buffer = w.Events.buffer[:0]

	removed := w.removed
	w.removed = nil
	for _, id := range removed {
		w.removeBody(id)
	}

	w.bodies = append(w.bodies, w.added...)
	w.added = w.added[:0]
}

func (w *World) sync() {
	task(w.Workers, w.active, func(body *actor.RigidBody) {
		body.Sync()
	})
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.active, func(body *actor.RigidBody) {
		body.Integrate(h, w.MaxSpeed)
	})
}

// resolve solves the contacts of a substep together, lowest along gravity
// first so a stack is corrected from its base up: positions, then
// ContactIterations velocity passes over every contact.
func (w *World) resolve(contacts []*constraint.Contact) {
	if len(contacts) == 0 {
		return
	}
	slices.SortStableFunc(contacts, func(a, b *constraint.Contact) int {
		return cmp.Compare(b.Height(w.Gravity), a.Height(w.Gravity))
	})

	for _, contact := range contacts {
		contact.SolvePosition()
	}
	for _, contact := range contacts {
		contact.Prepare()
	}
	for range w.ContactIterations {
		for _, contact := range contacts {
			contact.SolveVelocity()
		}
	}
	for _, contact := range contacts {
		contact.Settle()
	}
}

func (w *World) solveConstraints(h float64) {
	for range w.ConstraintIterations {
		for _, c := range w.constraints {
			c.Solve(h)
		}
	}
}

// ========== QUERIES ==========

// BodyHit is the result of World.RayCast.
type BodyHit struct {
	Body     *actor.RigidBody
	Shape    actor.ShapeID
	Point    mgl64.Vec2
	Distance float64
}

// RayCast returns the nearest body crossed by the ray. mask skips bodies when
// it returns false; a nil mask accepts every body.
func (w *World) RayCast(origin, direction mgl64.Vec2, mask func(*actor.RigidBody) bool) (BodyHit, bool) {
	best := BodyHit{Distance: math.Inf(1)}
	for _, body := range w.bodies {
		if mask != nil && !mask(body) {
			continue
		}
		hit, ok := geometry.RayCast(origin, direction, body.Models())
		if !ok || hit.Distance >= best.Distance {
			continue
		}
		best = BodyHit{
			Body:     body,
			Shape:    body.Shapes()[hit.Index].ID,
			Point:    hit.Point,
			Distance: hit.Distance,
		}
	}
	return best, best.Body != nil
}

// QueryPoint returns the bodies containing a world point.
func (w *World) QueryPoint(point mgl64.Vec2) []*actor.RigidBody {
	var found []*actor.RigidBody
	for _, body := range w.bodies {
		if body.ContainsPoint(point) {
			found = append(found, body)
		}
	}
	return found
}

// KineticEnergy sums the kinetic energy of every simulated body.
func (w *World) KineticEnergy() float64 {
	var energy float64
	for _, body := range w.bodies {
		if !body.Simulated {
			continue
		}
		energy += body.KineticEnergy()
	}
	return energy
}
