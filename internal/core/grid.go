package core

// BoolGrid stores a 2D grid of flags in row-major order.
type BoolGrid struct {
	W, H int
	data []bool
}

// NewBoolGrid allocates a grid with the given dimensions.
func NewBoolGrid(w, h int) *BoolGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &BoolGrid{W: w, H: h, data: make([]bool, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *BoolGrid) Cells() []bool { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *BoolGrid) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *BoolGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Get returns the flag at (x, y). Out-of-range coordinates read as false.
func (g *BoolGrid) Get(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.data[g.Index(x, y)]
}

// Set stores v at (x, y) and reports whether the value changed.
func (g *BoolGrid) Set(x, y int, v bool) bool {
	if !g.InBounds(x, y) {
		return false
	}
	idx := g.Index(x, y)
	if g.data[idx] == v {
		return false
	}
	g.data[idx] = v
	return true
}

// Count returns the number of set cells.
func (g *BoolGrid) Count() int {
	n := 0
	for _, v := range g.data {
		if v {
			n++
		}
	}
	return n
}

// Clear resets every cell to false.
func (g *BoolGrid) Clear() {
	for i := range g.data {
		g.data[i] = false
	}
}
