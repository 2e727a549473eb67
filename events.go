package quill

import (
	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	COLLIDE EventType = iota
	ONSET
	TRIGGER_ENTER
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
)

type pairKey struct {
	bodyA actor.BodyID
	bodyB actor.BodyID
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB *actor.RigidBody) pairKey {
	a, b := bodyA.ID(), bodyB.ID()
	if b < a {
		a, b = b, a
	}
	return pairKey{bodyA: a, bodyB: b}
}

// activePair is a pair detected during the step, kept for the enter, stay
// and exit diff.
type activePair struct {
	bodyA, bodyB *actor.RigidBody
	trigger      bool
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// CollideEvent is sent once per step for every pair allowed to collide,
// triggers included.
type CollideEvent struct {
	World      *World
	BodyA      *actor.RigidBody
	BodyB      *actor.RigidBody
	Normal     mgl64.Vec2 // from BodyA toward BodyB
	Contacts   []mgl64.Vec2
	IsTriggerA bool
	IsTriggerB bool
}

func (e CollideEvent) Type() EventType { return COLLIDE }

// OnsetEvent is sent when Body starts touching another body on one side.
// It is not repeated while the contact lasts.
type OnsetEvent struct {
	Body      *actor.RigidBody
	Direction actor.Direction
	Data      actor.CollisionData
}

func (e OnsetEvent) Type() EventType { return ONSET }

// Trigger events
type TriggerEnterEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// Collision events
type CollisionEnterEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]activePair
	currentActivePairs  map[pairKey]activePair
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]activePair),
		currentActivePairs:  make(map[pairKey]activePair),
	}
}

func (e *Events) init() {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	if e.previousActivePairs == nil {
		e.previousActivePairs = make(map[pairKey]activePair)
	}
	if e.currentActivePairs == nil {
		e.currentActivePairs = make(map[pairKey]activePair)
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.init()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordPair marks a pair as touching during the current step
func (e *Events) recordPair(bodyA, bodyB *actor.RigidBody, trigger bool) {
	e.init()
	e.currentActivePairs[makePairKey(bodyA, bodyB)] = activePair{bodyA: bodyA, bodyB: bodyB, trigger: trigger}
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

var onsetDirections = [...]actor.Direction{actor.Left, actor.Right, actor.Top, actor.Bottom, actor.General}

// processOnsetEvents compares each monitor with the one of the last step, per
// direction
func (e *Events) processOnsetEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		if body.Colliding.Empty() {
			continue
		}
		for _, dir := range onsetDirections {
			for _, data := range body.Colliding.Onsets(body.LastColliding, dir) {
				e.buffer = append(e.buffer, OnsetEvent{Body: body, Direction: dir, Data: data})
			}
		}
	}
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
// Should be called after all substeps
func (e *Events) processCollisionEvents() {
	e.init()

	// Detect Enter and Stay events
	for key, pair := range e.currentActivePairs {
		if _, ok := e.previousActivePairs[key]; ok {
			// Pair was active before and still is, Stay
			if pair.trigger {
				e.buffer = append(e.buffer, TriggerStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
			} else {
				e.buffer = append(e.buffer, CollisionStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
			}
		} else {
			// New pair, Enter
			if pair.trigger {
				e.buffer = append(e.buffer, TriggerEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
			} else {
				e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
			}
		}
	}

	// Detect Exit events
	for key, pair := range e.previousActivePairs {
		if _, ok := e.currentActivePairs[key]; !ok {
			// Pair was active but is no longer, Exit
			if pair.trigger {
				e.buffer = append(e.buffer, TriggerExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
			} else {
				e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
			}
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// forgetBody drops the pairs of a removed body, without exit events
func (e *Events) forgetBody(id actor.BodyID) {
	for key := range e.previousActivePairs {
		if key.bodyA == id || key.bodyB == id {
			delete(e.previousActivePairs, key)
		}
	}
	for key := range e.currentActivePairs {
		if key.bodyA == id || key.bodyB == id {
			delete(e.currentActivePairs, key)
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for i := 0; i < len(e.buffer); i++ {
		event := e.buffer[i]
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	clear(e.buffer)
	e.buffer = e.buffer[:0]
}
