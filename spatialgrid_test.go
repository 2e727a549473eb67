package quill

import (
	"testing"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

func createTestBox(position mgl64.Vec2, width, height float64) *actor.RigidBody {
	body := actor.NewRigidBody(actor.NewTransform(position), actor.BodyTypeDynamic)
	body.AddShape(geometry.NewBox(width, height))
	return body
}

// cellsOf counts the cells holding bodyIndex. Cells sharing a slot each keep
// their own entry.
func cellsOf(grid *SpatialGrid, bodyIndex int) int {
	count := 0
	for _, cell := range grid.cells {
		for _, idx := range cell.bodyIndices {
			if idx == bodyIndex {
				count++
			}
		}
	}
	return count
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, want int }{
		{-3, 1}, {0, 1}, {1, 1}, {3, 4}, {16, 16}, {17, 32}, {1000, 1024},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWorldToCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	tests := []struct {
		name     string
		position mgl64.Vec2
		expected CellKey
	}{
		{"origin", mgl64.Vec2{0, 0}, CellKey{0, 0}},
		{"positive", mgl64.Vec2{1.5, 2.3}, CellKey{1, 2}},
		{"negative", mgl64.Vec2{-1.5, -2.3}, CellKey{-2, -3}},
		{"fractional", mgl64.Vec2{0.5, 0.5}, CellKey{0, 0}},
		{"large", mgl64.Vec2{100.7, -200.3}, CellKey{100, -201}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.worldToCell(tt.position)
			if result != tt.expected {
				t.Errorf("worldToCell(%v) = %v, want %v", tt.position, result, tt.expected)
			}
		})
	}
}

func TestHashCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16) // mask = 15

	tests := []struct {
		name     string
		key      CellKey
		expected int
	}{
		{"origin", CellKey{0, 0}, 0},
		{"simple", CellKey{1, 2}, 3},
		{"negative", CellKey{-1, -2}, 1},
		{"large", CellKey{100, 200}, 12},
		{"mixed signs", CellKey{3, -7}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.hashCell(tt.key)
			if result < 0 || result >= len(grid.cells) {
				t.Errorf("hashCell(%v) = %d, out of range [0, %d)", tt.key, result, len(grid.cells))
			}
			if result != tt.expected {
				t.Errorf("hashCell(%v) = %d, want %d", tt.key, result, tt.expected)
			}
		})
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name          string
		position      mgl64.Vec2
		width, height float64
		cells         int
	}{
		{"inside one cell", mgl64.Vec2{1.5, 2.5}, 0.8, 0.8, 1},
		{"on a cell border", mgl64.Vec2{1, 1}, 1, 1, 4},
		{"spanning many cells", mgl64.Vec2{0, 0}, 2.5, 2.5, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := NewSpatialGrid(1.0, 1024)
			grid.Insert(0, createTestBox(tt.position, tt.width, tt.height))

			if got := cellsOf(grid, 0); got != tt.cells {
				t.Errorf("body found in %d cells, want %d", got, tt.cells)
			}
		})
	}
}

func TestInsertBodyWithoutShapes(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	grid.Insert(0, actor.NewRigidBody(actor.NewTransform(mgl64.Vec2{}), actor.BodyTypeDynamic))

	if cellsOf(grid, 0) != 0 {
		t.Error("a body without shapes should not be inserted")
	}
}

func TestClear(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	grid.Insert(0, createTestBox(mgl64.Vec2{0, 0}, 3, 3))
	grid.Clear()

	for i, cell := range grid.cells {
		if len(cell.bodyIndices) != 0 {
			t.Errorf("cell %d not cleared", i)
		}
	}
}

func TestFindPairs(t *testing.T) {
	tests := []struct {
		name   string
		bodies func() []*actor.RigidBody
		pairs  int
	}{
		{
			name: "separated",
			bodies: func() []*actor.RigidBody {
				return []*actor.RigidBody{
					createTestBox(mgl64.Vec2{0, 0}, 1, 1),
					createTestBox(mgl64.Vec2{10, 10}, 1, 1),
				}
			},
			pairs: 0,
		},
		{
			name: "overlapping across many cells",
			bodies: func() []*actor.RigidBody {
				return []*actor.RigidBody{
					createTestBox(mgl64.Vec2{0, 0}, 4, 4),
					createTestBox(mgl64.Vec2{1, 1}, 4, 4),
				}
			},
			pairs: 1,
		},
		{
			name: "same cell, bounds apart",
			bodies: func() []*actor.RigidBody {
				return []*actor.RigidBody{
					createTestBox(mgl64.Vec2{0.2, 0.2}, 0.2, 0.2),
					createTestBox(mgl64.Vec2{0.8, 0.8}, 0.2, 0.2),
				}
			},
			pairs: 0,
		},
		{
			name: "static pair skipped",
			bodies: func() []*actor.RigidBody {
				a := createTestBox(mgl64.Vec2{0, 0}, 2, 2)
				b := createTestBox(mgl64.Vec2{1, 0}, 2, 2)
				a.BodyType = actor.BodyTypeStatic
				b.BodyType = actor.BodyTypeStatic
				return []*actor.RigidBody{a, b}
			},
			pairs: 0,
		},
		{
			name: "chain of three",
			bodies: func() []*actor.RigidBody {
				return []*actor.RigidBody{
					createTestBox(mgl64.Vec2{0, 0}, 2, 2),
					createTestBox(mgl64.Vec2{1.5, 0}, 2, 2),
					createTestBox(mgl64.Vec2{3, 0}, 2, 2),
				}
			},
			pairs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := NewSpatialGrid(1.0, 1024)
			pairs := BroadPhase(grid, tt.bodies(), nil)
			if len(pairs) != tt.pairs {
				t.Errorf("found %d pairs, want %d", len(pairs), tt.pairs)
			}
		})
	}
}

func TestFindPairsOrder(t *testing.T) {
	bodies := []*actor.RigidBody{
		createTestBox(mgl64.Vec2{0, 0}, 2, 2),
		createTestBox(mgl64.Vec2{1, 0}, 2, 2),
	}
	pairs := BroadPhase(NewSpatialGrid(1.0, 64), bodies, nil)

	if len(pairs) != 1 {
		t.Fatalf("found %d pairs, want 1", len(pairs))
	}
	if pairs[0].BodyA != bodies[0] || pairs[0].BodyB != bodies[1] {
		t.Error("pairs should follow the body order")
	}
}

func TestFindPairsOptimize(t *testing.T) {
	bodies := []*actor.RigidBody{
		createTestBox(mgl64.Vec2{0, 0}, 2, 2),
		createTestBox(mgl64.Vec2{1, 0}, 2, 2),
	}

	calls := 0
	reject := func(a, b *actor.RigidBody) bool {
		calls++
		return false
	}
	if pairs := BroadPhase(NewSpatialGrid(1.0, 64), bodies, reject); len(pairs) != 0 {
		t.Errorf("found %d pairs, want 0", len(pairs))
	}
	if calls != 1 {
		t.Errorf("optimize called %d times, want 1", calls)
	}
}

func BenchmarkFindPairs(b *testing.B) {
	grid := NewSpatialGrid(1.0, 1024)
	bodies := make([]*actor.RigidBody, 100)

	for i := range bodies {
		pos := mgl64.Vec2{float64(i%10) * 2.0, float64(i/10) * 2.0}
		bodies[i] = createTestBox(pos, 0.8, 0.8)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BroadPhase(grid, bodies, nil)
	}
}
