package gas

import "station-atmos/internal/core"

// Layout answers whether a structural wall occupies a cell. It is owned by
// the world/structure code; the gas engine only reads it.
type Layout interface {
	HasWall(x, y int) bool
}

// WallMask marks cells that block diffusion. True means impassable.
type WallMask struct {
	grid *core.BoolGrid
}

// NewWallMask allocates an all-open mask.
func NewWallMask(w, h int) *WallMask {
	return &WallMask{grid: core.NewBoolGrid(w, h)}
}

// Blocked reports whether (x, y) is a wall. Coordinates outside the mask
// are treated as blocked.
func (m *WallMask) Blocked(x, y int) bool {
	if !m.grid.InBounds(x, y) {
		return true
	}
	return m.grid.Get(x, y)
}

// Set marks a single cell.
func (m *WallMask) Set(x, y int, wall bool) { m.grid.Set(x, y, wall) }

// Cells exposes the row-major backing slice.
func (m *WallMask) Cells() []bool { return m.grid.Cells() }

// Count returns the number of wall cells.
func (m *WallMask) Count() int { return m.grid.Count() }

// Sync rebuilds the whole mask from layout and returns the wall count.
// Every cell is overwritten so no stale walls survive.
func (m *WallMask) Sync(layout Layout) int {
	cells := m.grid.Cells()
	walls := 0
	for y := 0; y < m.grid.H; y++ {
		for x := 0; x < m.grid.W; x++ {
			wall := layout != nil && layout.HasWall(x, y)
			cells[m.grid.Index(x, y)] = wall
			if wall {
				walls++
			}
		}
	}
	return walls
}
