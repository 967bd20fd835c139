// Package systems provides the per-agent rules of the simulation and the
// shared structures they read during a tick.
package systems

// SpatialGrid buckets snapshot indices by tile for neighbourhood queries.
// Indices inside a cell are kept in insertion order.
type SpatialGrid struct {
	cols  int
	rows  int
	cells [][]int32
}

// NewSpatialGrid creates a grid covering cols x rows tiles.
func NewSpatialGrid(cols, rows int) *SpatialGrid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 4)
	}
	return &SpatialGrid{cols: cols, rows: rows, cells: cells}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an index at the given tile. Out-of-range tiles are clamped.
func (g *SpatialGrid) Insert(idx int32, x, y int) {
	c := g.cellIndex(x, y)
	g.cells[c] = append(g.cells[c], idx)
}

// QueryRectInto appends every index stored in tiles [x0,x1] x [y0,y1] to dst.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRectInto(dst []int32, x0, y0, x1, y1 int) []int32 {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= g.cols {
		x1 = g.cols - 1
	}
	if y1 >= g.rows {
		y1 = g.rows - 1
	}
	for row := y0; row <= y1; row++ {
		for col := x0; col <= x1; col++ {
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}
	return dst
}

// cellIndex returns the flat index for a tile, clamped to the grid.
func (g *SpatialGrid) cellIndex(x, y int) int {
	if x < 0 {
		x = 0
	} else if x >= g.cols {
		x = g.cols - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.rows {
		y = g.rows - 1
	}
	return y*g.cols + x
}
