package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Direction names a side of a body, in screen coordinates (+y down).
type Direction int

const (
	Left Direction = iota
	Right
	Top
	Bottom
	// General holds every contact regardless of its side.
	General
)

// Directions lists the four sides, in bucket order.
var Directions = [4]Direction{Left, Right, Top, Bottom}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case General:
		return "general"
	}
	return "unknown"
}

// ClassifyDirection returns the side a normal points to, by its dominant
// axis. Exact diagonals are classified as Top or Bottom.
func ClassifyDirection(normal mgl64.Vec2) Direction {
	if math.Abs(normal.X()) > math.Abs(normal.Y()) {
		if normal.X() > 0 {
			return Right
		}
		return Left
	}
	if normal.Y() > 0 {
		return Bottom
	}
	return Top
}

// CollisionData describes one contact of a body with another body.
type CollisionData struct {
	// Body is the other body.
	Body BodyID
	// Point is the average contact point.
	Point    mgl64.Vec2
	Contacts []mgl64.Vec2
	// Normal is the unit contact normal pointing toward Body.
	Normal mgl64.Vec2
	// IsTrigger is set when the pair was detected but never resolved because
	// one of the bodies is a trigger.
	IsTrigger bool
	// Resolved is set when the contact was solved by the physics.
	Resolved bool
}

// CollisionMonitor stores the contacts of a body during one step, sorted in
// directional buckets. Every entry is also present in the General bucket.
type CollisionMonitor struct {
	buckets [5][]CollisionData
}

// NewCollisionMonitor returns an empty monitor.
func NewCollisionMonitor() *CollisionMonitor {
	return &CollisionMonitor{}
}

// Add records data in the General bucket and in the bucket its normal points
// to.
func (m *CollisionMonitor) Add(data CollisionData) {
	m.buckets[General] = append(m.buckets[General], data)
	dir := ClassifyDirection(data.Normal)
	m.buckets[dir] = append(m.buckets[dir], data)
}

// Clear empties every bucket, keeping the allocated capacity.
func (m *CollisionMonitor) Clear() {
	for i := range m.buckets {
		clear(m.buckets[i])
		m.buckets[i] = m.buckets[i][:0]
	}
}

// Get returns the contacts of a bucket. The slice is reused by the next step.
func (m *CollisionMonitor) Get(dir Direction) []CollisionData {
	if dir < Left || dir > General {
		return nil
	}
	return m.buckets[dir]
}

// InDirection returns the contacts on the side v points to.
func (m *CollisionMonitor) InDirection(v mgl64.Vec2) []CollisionData {
	return m.buckets[ClassifyDirection(v)]
}

func (m *CollisionMonitor) Len() int {
	return len(m.buckets[General])
}

func (m *CollisionMonitor) Empty() bool {
	return len(m.buckets[General]) == 0
}

// Has reports whether the body touched other during the step.
func (m *CollisionMonitor) Has(other BodyID) bool {
	_, ok := m.Find(General, other)
	return ok
}

// Find returns the contact with other in bucket dir.
func (m *CollisionMonitor) Find(dir Direction, other BodyID) (CollisionData, bool) {
	for _, data := range m.Get(dir) {
		if data.Body == other {
			return data, true
		}
	}
	return CollisionData{}, false
}

// Test returns the first contact matching mask.
func (m *CollisionMonitor) Test(mask func(CollisionData) bool) (CollisionData, bool) {
	for _, data := range m.buckets[General] {
		if mask(data) {
			return data, true
		}
	}
	return CollisionData{}, false
}

// RemoveBody drops every entry referencing body.
func (m *CollisionMonitor) RemoveBody(body BodyID) {
	for i, bucket := range m.buckets {
		kept := bucket[:0]
		for _, data := range bucket {
			if data.Body != body {
				kept = append(kept, data)
			}
		}
		clear(bucket[len(kept):])
		m.buckets[i] = kept
	}
}

// Onsets returns the contacts of bucket dir whose body was not in the same
// bucket of last.
func (m *CollisionMonitor) Onsets(last *CollisionMonitor, dir Direction) []CollisionData {
	var onsets []CollisionData
	for _, data := range m.Get(dir) {
		if last != nil {
			if _, ok := last.Find(dir, data.Body); ok {
				continue
			}
		}
		onsets = append(onsets, data)
	}
	return onsets
}
