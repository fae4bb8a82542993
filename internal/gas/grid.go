package gas

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid owns a fixed W*H arena of mixtures in row-major order together with
// the wall mask that gates diffusion between them.
type Grid struct {
	W, H int

	// TileSize and the origin map world positions onto cells. The solver
	// never reads them.
	TileSize         float64
	OriginX, OriginY float64

	Walls *WallMask

	cells []Mixture
}

// NewGrid allocates a grid of empty mixtures.
func NewGrid(w, h int, tileSize float64) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if tileSize <= 0 {
		tileSize = 1
	}
	return &Grid{
		W:        w,
		H:        h,
		TileSize: tileSize,
		Walls:    NewWallMask(w, h),
		cells:    make([]Mixture, w*h),
	}
}

// Cells exposes the backing slice so callers can read/write mixtures directly.
func (g *Grid) Cells() []Mixture { return g.cells }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Cell returns the mixture at (x, y).
func (g *Grid) Cell(x, y int) (*Mixture, error) {
	if !g.InBounds(x, y) {
		return nil, &OutOfBoundsError{X: x, Y: y, W: g.W, H: g.H}
	}
	return &g.cells[g.Index(x, y)], nil
}

// CellIndex maps a world position to the nearest cell. The result is not
// validated; use CellAt for a checked lookup.
func (g *Grid) CellIndex(px, py float64) (int, int) {
	x := math.Floor((px - g.OriginX + 0.5*g.TileSize) / g.TileSize)
	y := math.Floor((py - g.OriginY + 0.5*g.TileSize) / g.TileSize)
	return int(x), int(y)
}

// CellCenter returns the world position that maps exactly onto (x, y).
func (g *Grid) CellCenter(x, y int) (float64, float64) {
	return g.OriginX + float64(x)*g.TileSize, g.OriginY + float64(y)*g.TileSize
}

// CellAt resolves a world position to its cell.
func (g *Grid) CellAt(px, py float64) (*Mixture, int, int, error) {
	x, y := g.CellIndex(px, py)
	m, err := g.Cell(x, y)
	return m, x, y, err
}

// Fill overwrites every cell with m.
func (g *Grid) Fill(m Mixture) {
	for i := range g.cells {
		g.cells[i] = m
	}
}

// Totals returns the moles of each species summed over open cells.
func (g *Grid) Totals() [SpeciesCount]float64 {
	var out [SpeciesCount]float64
	walls := g.Walls.Cells()
	column := make([]float64, 0, len(g.cells))
	for s := 0; s < SpeciesCount; s++ {
		column = column[:0]
		for i := range g.cells {
			if walls[i] {
				continue
			}
			column = append(column, g.cells[i].Amount[s])
		}
		out[s] = floats.Sum(column)
	}
	return out
}

// MeanTemperature averages temperature over open cells.
func (g *Grid) MeanTemperature() float64 {
	walls := g.Walls.Cells()
	temps := make([]float64, 0, len(g.cells))
	for i := range g.cells {
		if walls[i] {
			continue
		}
		temps = append(temps, g.cells[i].Temperature)
	}
	if len(temps) == 0 {
		return 0
	}
	return floats.Sum(temps) / float64(len(temps))
}
