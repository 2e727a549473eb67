package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestClassifyDirection(t *testing.T) {
	tests := []struct {
		name   string
		normal mgl64.Vec2
		want   Direction
	}{
		{"right", mgl64.Vec2{1, 0.2}, Right},
		{"left", mgl64.Vec2{-1, -0.5}, Left},
		{"down is bottom", mgl64.Vec2{0.1, 1}, Bottom},
		{"up is top", mgl64.Vec2{-0.3, -1}, Top},
		{"diagonal goes vertical", mgl64.Vec2{1, 1}, Bottom},
		{"diagonal up goes vertical", mgl64.Vec2{-1, -1}, Top},
		{"zero", mgl64.Vec2{0, 0}, Top},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDirection(tt.normal); got != tt.want {
				t.Errorf("ClassifyDirection(%v) = %v, want %v", tt.normal, got, tt.want)
			}
		})
	}
}

func TestDirection_String(t *testing.T) {
	for dir, want := range map[Direction]string{
		Left: "left", Right: "right", Top: "top", Bottom: "bottom", General: "general", Direction(42): "unknown",
	} {
		if got := dir.String(); got != want {
			t.Errorf("Direction(%d).String() = %q, want %q", dir, got, want)
		}
	}
}

func TestCollisionMonitor_Add(t *testing.T) {
	m := NewCollisionMonitor()
	if !m.Empty() {
		t.Fatal("new monitor should be empty")
	}

	m.Add(CollisionData{Body: 1, Normal: mgl64.Vec2{0, 1}})
	m.Add(CollisionData{Body: 2, Normal: mgl64.Vec2{-1, 0}})
	m.Add(CollisionData{Body: 3, Normal: mgl64.Vec2{0, 1}})

	if m.Len() != 3 || len(m.Get(General)) != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if len(m.Get(Bottom)) != 2 || len(m.Get(Left)) != 1 {
		t.Errorf("bottom = %d, left = %d, want 2 and 1", len(m.Get(Bottom)), len(m.Get(Left)))
	}
	if len(m.Get(Top)) != 0 || len(m.Get(Right)) != 0 {
		t.Error("unexpected entries in top or right")
	}
	if len(m.InDirection(mgl64.Vec2{0, 5})) != 2 {
		t.Error("InDirection(down) should return the bottom bucket")
	}
	if m.Get(Direction(-1)) != nil || m.Get(Direction(9)) != nil {
		t.Error("out of range directions should return nil")
	}

	if !m.Has(2) || m.Has(4) {
		t.Error("Has() mismatch")
	}
	if _, ok := m.Find(Bottom, 2); ok {
		t.Error("body 2 is on the left, not the bottom")
	}
	if data, ok := m.Find(Left, 2); !ok || data.Body != 2 {
		t.Error("Find(Left, 2) failed")
	}

	m.Clear()
	if !m.Empty() || len(m.Get(Bottom)) != 0 {
		t.Error("Clear() should empty every bucket")
	}
}

func TestCollisionMonitor_Test(t *testing.T) {
	m := NewCollisionMonitor()
	m.Add(CollisionData{Body: 1, Normal: mgl64.Vec2{1, 0}, IsTrigger: true})
	m.Add(CollisionData{Body: 2, Normal: mgl64.Vec2{1, 0}, Resolved: true})

	data, ok := m.Test(func(d CollisionData) bool { return d.Resolved })
	if !ok || data.Body != 2 {
		t.Errorf("Test(resolved) = %v, %v, want body 2", data, ok)
	}
	if _, ok := m.Test(func(d CollisionData) bool { return d.Body == 5 }); ok {
		t.Error("Test() matched nothing but returned true")
	}
}

func TestCollisionMonitor_RemoveBody(t *testing.T) {
	m := NewCollisionMonitor()
	m.Add(CollisionData{Body: 1, Normal: mgl64.Vec2{0, -1}})
	m.Add(CollisionData{Body: 2, Normal: mgl64.Vec2{0, -1}})
	m.Add(CollisionData{Body: 1, Normal: mgl64.Vec2{1, 0}})

	m.RemoveBody(1)

	if m.Has(1) {
		t.Error("body 1 still present")
	}
	if m.Len() != 1 || len(m.Get(Top)) != 1 || len(m.Get(Right)) != 0 {
		t.Errorf("unexpected bucket sizes after removal: general %d, top %d, right %d",
			m.Len(), len(m.Get(Top)), len(m.Get(Right)))
	}
}

func TestCollisionMonitor_Onsets(t *testing.T) {
	last := NewCollisionMonitor()
	last.Add(CollisionData{Body: 1, Normal: mgl64.Vec2{0, 1}})
	last.Add(CollisionData{Body: 2, Normal: mgl64.Vec2{1, 0}})

	current := NewCollisionMonitor()
	current.Add(CollisionData{Body: 1, Normal: mgl64.Vec2{0, 1}})  // still below
	current.Add(CollisionData{Body: 2, Normal: mgl64.Vec2{0, 1}})  // moved from the right to below
	current.Add(CollisionData{Body: 3, Normal: mgl64.Vec2{-1, 0}}) // new

	tests := []struct {
		dir  Direction
		want []BodyID
	}{
		{Bottom, []BodyID{2}},
		{Left, []BodyID{3}},
		{Right, nil},
		{General, []BodyID{3}},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			onsets := current.Onsets(last, tt.dir)
			if len(onsets) != len(tt.want) {
				t.Fatalf("Onsets() = %v, want bodies %v", onsets, tt.want)
			}
			for i, data := range onsets {
				if data.Body != tt.want[i] {
					t.Errorf("onset %d = body %d, want %d", i, data.Body, tt.want[i])
				}
			}
		})
	}

	if len(current.Onsets(nil, General)) != 3 {
		t.Error("without a previous monitor every contact is an onset")
	}
}

func TestRigidBody_SwapMonitors(t *testing.T) {
	rb := NewRigidBody(NewTransform(mgl64.Vec2{}), BodyTypeDynamic)
	rb.Colliding.Add(CollisionData{Body: 4, Normal: mgl64.Vec2{0, 1}})

	rb.SwapMonitors()

	if !rb.Colliding.Empty() {
		t.Error("Colliding should be empty after the swap")
	}
	if !rb.LastColliding.Has(4) {
		t.Error("LastColliding should hold the previous contacts")
	}

	rb.SwapMonitors()
	if !rb.LastColliding.Empty() || !rb.Colliding.Empty() {
		t.Error("contacts should be gone after two swaps")
	}
}
