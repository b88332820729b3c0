package scene

import (
	"math"

	"github.com/tomz197/tunnelless/internal/physics"
)

// Grid is a uniform occupancy grid over the play area used to place bodies
// without overlap. Each item is inserted into every cell its bounds touch, so
// a query only has to look at the cells covered by the candidate's bounds.
// Positions outside the area are clamped to the edge cells.
type Grid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of items whose bounds touch the cell.
type gridCell struct {
	items []int
}

// NewGrid creates a grid covering width x height.
func NewGrid(width, height, cellSize float64) *Grid {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items without deallocating cell memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) covering bb.
func (g *Grid) Insert(bb physics.Bounds, index int) {
	c0, r0 := g.posToCell(bb.X0, bb.Y0)
	c1, r1 := g.posToCell(bb.X1, bb.Y1)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			idx := r*g.cols + c
			g.cells[idx].items = append(g.cells[idx].items, index)
		}
	}
}

// Query calls fn for each item whose cells intersect bb. An item spanning
// several cells may be reported more than once. If fn returns true,
// iteration stops early.
func (g *Grid) Query(bb physics.Bounds, fn func(index int) bool) {
	c0, r0 := g.posToCell(bb.X0, bb.Y0)
	c1, r1 := g.posToCell(bb.X1, bb.Y1)
	for r := r0; r <= r1; r++ {
		rowOffset := r * g.cols
		for c := c0; c <= c1; c++ {
			for _, item := range g.cells[rowOffset+c].items {
				if fn(item) {
					return
				}
			}
		}
	}
}

// posToCell converts world coordinates to grid cell coordinates, clamped to
// the valid range.
func (g *Grid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor(x * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor(y * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
