// Package structure owns the station's wall layout. The gas engine reads it
// through the HasWall query and rebuilds its own mask from it every tick.
package structure

import "station-atmos/internal/core"

// Layout stores which tiles hold a structural wall.
type Layout struct {
	walls *core.BoolGrid
	dirty bool
}

// NewLayout allocates an empty layout.
func NewLayout(w, h int) *Layout {
	return &Layout{walls: core.NewBoolGrid(w, h)}
}

// Size returns the layout dimensions.
func (l *Layout) Size() core.Size { return core.Size{W: l.walls.W, H: l.walls.H} }

// HasWall reports whether (x, y) holds a wall. Out of range tiles are open.
func (l *Layout) HasWall(x, y int) bool { return l.walls.Get(x, y) }

// Place puts a wall at (x, y) and reports whether the tile changed.
func (l *Layout) Place(x, y int) bool {
	if l.walls.Set(x, y, true) {
		l.dirty = true
		return true
	}
	return false
}

// Remove clears the wall at (x, y) and reports whether the tile changed.
func (l *Layout) Remove(x, y int) bool {
	if l.walls.Set(x, y, false) {
		l.dirty = true
		return true
	}
	return false
}

// CreateRoom outlines a w*h rectangle of walls with its top-left tile at
// (x, y). Tiles that fall outside the layout are skipped. It returns the
// number of walls placed.
func (l *Layout) CreateRoom(x, y, w, h int) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	placed := 0
	for dx := 0; dx < w; dx++ {
		if l.Place(x+dx, y) {
			placed++
		}
		if l.Place(x+dx, y+h-1) {
			placed++
		}
	}
	for dy := 1; dy < h-1; dy++ {
		if l.Place(x, y+dy) {
			placed++
		}
		if l.Place(x+w-1, y+dy) {
			placed++
		}
	}
	return placed
}

// Clear removes every wall.
func (l *Layout) Clear() {
	if l.walls.Count() > 0 {
		l.dirty = true
	}
	l.walls.Clear()
}

// Count returns the number of walls.
func (l *Layout) Count() int { return l.walls.Count() }

// Cells exposes the row-major wall flags.
func (l *Layout) Cells() []bool { return l.walls.Cells() }

// TakeDirty reports whether the layout changed since the last call and
// resets the flag.
func (l *Layout) TakeDirty() bool {
	d := l.dirty
	l.dirty = false
	return d
}
