package quill

import (
	"math"
	"sort"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey is the coordinate of a cell of the grid
type CellKey struct {
	X, Y int
}

// Cell holds the indices of the bodies overlapping it
type Cell struct {
	bodyIndices []int
}

// Pair is two bodies that may be colliding
type Pair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// SpatialGrid is a uniform hashed grid used by the broad phase. Distant cells
// may share a slot; the AABB test filters those false positives out.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid creates a grid of square cells. numCells is rounded up to a
// power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = DEFAULT_CELL_SIZE
	}
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo rounds n up to a power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// CellSize returns the side of a cell.
func (sg *SpatialGrid) CellSize() float64 {
	return sg.cellSize
}

// Insert adds a body to every cell its bounds overlap. Bodies without shapes
// are not inserted.
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.RigidBody) {
	bounds := body.Bounds()
	if bounds.Empty() {
		return
	}
	minCell, maxCell := sg.cellRange(bounds)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cellIdx := sg.hashCell(CellKey{x, y})
			sg.cells[cellIdx].bodyIndices = append(sg.cells[cellIdx].bodyIndices, bodyIndex)
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
}

// FindPairs returns every pair of bodies sharing a cell, once, in a
// deterministic order. Static-static pairs are skipped. keep filters the
// candidates; a nil keep falls back to the AABB overlap test.
func (sg *SpatialGrid) FindPairs(bodies []*actor.RigidBody, keep OptimizeFunc) []Pair {
	pairs := make([]Pair, 0, len(bodies)/2)
	seen := make(map[int]struct{})

	// ========== LOOP OVER BODIES ==========
	for bodyIdx, bodyA := range bodies {
		bounds := bodyA.Bounds()
		if bounds.Empty() {
			continue
		}
		clear(seen)
		minCell, maxCell := sg.cellRange(bounds)

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				cellIdx := sg.hashCell(CellKey{x, y})

				for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
					// ========== DETERMINISTIC ORDER ==========
					if otherIdx <= bodyIdx {
						continue // (A,B) and (B,A) are the same pair
					}
					if _, ok := seen[otherIdx]; ok {
						continue
					}
					seen[otherIdx] = struct{}{}

					bodyB := bodies[otherIdx]
					if bodyA.IsStatic() && bodyB.IsStatic() {
						continue
					}

					if keep != nil {
						if !keep(bodyA, bodyB) {
							continue
						}
					} else if !bounds.Overlaps(bodyB.Bounds()) {
						continue
					}
					pairs = append(pairs, Pair{BodyA: bodyA, BodyB: bodyB})
				}
			}
		}
	}

	return pairs
}

func (sg *SpatialGrid) cellRange(bounds geometry.AABB) (CellKey, CellKey) {
	return sg.worldToCell(bounds.Min), sg.worldToCell(bounds.Max)
}

// worldToCell converts a world position to cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
	}
}

// hashCell maps a cell to its slot
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663)
	return h & sg.cellMask
}
