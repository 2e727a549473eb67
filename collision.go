package quill

import (
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/constraint"
	"github.com/akmonengine/quill/geometry"
	"github.com/akmonengine/quill/sat"
)

// OptimizeFunc prunes broad-phase candidates. Returning false skips the
// narrow phase for the pair.
type OptimizeFunc func(bodyA, bodyB *actor.RigidBody) bool

// pairState caches the rule decisions for a pair during one step, so user
// rules run at most once per pair per step.
type pairState struct {
	collidable bool
	triggerA   bool
	triggerB   bool
	recorded   bool
}

func (s *pairState) trigger() bool {
	return s.triggerA || s.triggerB
}

func (s *pairState) resolvable() bool {
	return s.collidable && !s.trigger()
}

// BroadPhase rebuilds the grid and returns the candidate pairs, filtered by
// optimize. A nil optimize keeps the pairs whose bounds overlap.
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.RigidBody, optimize OptimizeFunc) []Pair {
	spatialGrid.Clear()
	for i, body := range bodies {
		spatialGrid.Insert(i, body)
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairs(bodies, optimize)
}

// NarrowPhase tests every shape of A against every shape of B and returns the
// deepest manifold, oriented from A toward B.
func NarrowPhase(pair Pair) (sat.Manifold, bool) {
	var deepest sat.Manifold
	found := false

	for _, shapeA := range pair.BodyA.Models() {
		for _, shapeB := range pair.BodyB.Models() {
			manifold, ok := sat.Collide(shapeA, shapeB)
			if !ok {
				continue
			}
			if !found || manifold.Depth > deepest.Depth {
				deepest = manifold
				found = true
			}
		}
	}

	return deepest, found
}

// detectCollision runs both phases over the simulated bodies, records what
// it finds, and returns the contacts to resolve.
func (w *World) detectCollision() []*constraint.Contact {
	pairs := BroadPhase(w.SpatialGrid, w.active, w.Optimize)

	contacts := make([]*constraint.Contact, 0, len(pairs))
	for _, pair := range pairs {
		manifold, ok := NarrowPhase(pair)
		if !ok {
			continue
		}

		state := w.pairState(pair)
		if !state.recorded {
			w.record(pair, state, manifold)
			state.recorded = true
		}

		if state.resolvable() {
			contacts = append(contacts, &constraint.Contact{
				BodyA:  pair.BodyA,
				BodyB:  pair.BodyB,
				Normal: manifold.Normal,
				Depth:  manifold.Depth,
				Points: manifold.Points,
			})
		}
	}

	return contacts
}

// pairState returns the rule decisions for the pair, evaluating the rules on
// first use in the step.
func (w *World) pairState(pair Pair) *pairState {
	key := makePairKey(pair.BodyA, pair.BodyB)
	if state, ok := w.pairs[key]; ok {
		return state
	}

	bodyA, bodyB := pair.BodyA, pair.BodyB
	state := &pairState{
		collidable: bodyA.AllowsCollision(bodyB) && bodyB.AllowsCollision(bodyA),
		triggerA:   bodyA.TriggersWith(bodyB),
		triggerB:   bodyB.TriggersWith(bodyA),
	}
	w.pairs[key] = state
	return state
}

// record stores the first contact of the step on both bodies and reports the
// pair to the listeners.
func (w *World) record(pair Pair, state *pairState, manifold sat.Manifold) {
	bodyA, bodyB := pair.BodyA, pair.BodyB
	point := geometry.Average(manifold.Points)
	resolved := state.resolvable()

	bodyA.Colliding.Add(actor.CollisionData{
		Body:      bodyB.ID(),
		Point:     point,
		Contacts:  manifold.Points,
		Normal:    manifold.Normal,
		IsTrigger: state.trigger(),
		Resolved:  resolved,
	})
	bodyB.Colliding.Add(actor.CollisionData{
		Body:      bodyA.ID(),
		Point:     point,
		Contacts:  manifold.Points,
		Normal:    manifold.Normal.Mul(-1),
		IsTrigger: state.trigger(),
		Resolved:  resolved,
	})

	if !state.collidable {
		return
	}

	w.Events.recordPair(bodyA, bodyB, state.trigger())
	w.Events.emit(CollideEvent{
		World:      w,
		BodyA:      bodyA,
		BodyB:      bodyB,
		Normal:     manifold.Normal,
		Contacts:   manifold.Points,
		IsTriggerA: state.triggerA,
		IsTriggerB: state.triggerB,
	})
}
