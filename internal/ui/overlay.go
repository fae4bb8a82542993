//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"math"

	"station-atmos/internal/core"
	"station-atmos/internal/gas"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type cellInspector interface {
	Inspect(x, y int) (gas.Mixture, bool, float64, error)
}

type interactionProvider interface {
	Grid() *gas.Grid
	Breaches() []*gas.Breach
	Breathers() []*gas.Breather
	Heaters() []*gas.Heater
	Ports() []*gas.VesselPort
}

// Overlay draws debugging visuals on top of the gas map: markers for every
// point interaction and an inspector for the cell under the cursor.
type Overlay struct {
	sim         core.Sim
	scale       int
	showInspect bool
	showMarkers bool

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showMarkers: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update allows the overlay to update internal state.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		o.showInspect = !o.showInspect
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		o.showMarkers = !o.showMarkers
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	if o.showMarkers {
		if provider, ok := o.sim.(interactionProvider); ok {
			o.drawMarkers(screen, provider, scale)
		}
	}
	if o.showInspect {
		if inspector, ok := o.sim.(cellInspector); ok {
			o.drawInspector(screen, inspector, size, scale)
		}
	}
}

func (o *Overlay) drawMarkers(screen *ebiten.Image, p interactionProvider, scale int) {
	for _, b := range p.Breaches() {
		if b.Active() {
			o.drawCell(screen, b.X, b.Y, scale, color.RGBA{R: 255, G: 60, B: 40, A: 200})
		}
	}
	for _, h := range p.Heaters() {
		if h.Remaining > 0 {
			o.drawCell(screen, h.X, h.Y, scale, color.RGBA{R: 255, G: 170, B: 40, A: 200})
		}
	}
	for _, v := range p.Ports() {
		if v.Mode != gas.PortClosed {
			o.drawCell(screen, v.X, v.Y, scale, color.RGBA{R: 80, G: 200, B: 255, A: 200})
		}
	}
	g := p.Grid()
	for _, b := range p.Breathers() {
		x, y := g.CellIndex(b.X, b.Y)
		col := color.RGBA{R: 240, G: 240, B: 240, A: 220}
		if b.Suffocating() {
			col = color.RGBA{R: 200, G: 40, B: 200, A: 220}
		}
		o.drawCell(screen, x, y, scale, col)
	}
}

// drawCell outlines one tile.
func (o *Overlay) drawCell(screen *ebiten.Image, x, y, scale int, col color.RGBA) {
	s := float64(scale)
	px, py := float64(x)*s, float64(y)*s
	t := math.Max(1, s/6)
	o.drawRect(screen, px, py, s, t, col)
	o.drawRect(screen, px, py+s-t, s, t, col)
	o.drawRect(screen, px, py, t, s, col)
	o.drawRect(screen, px+s-t, py, t, s, col)
}

func (o *Overlay) drawInspector(screen *ebiten.Image, inspector cellInspector, size core.Size, scale int) {
	mx, my := ebiten.CursorPosition()
	cx, cy := mx/scale, my/scale
	if cx < 0 || cy < 0 || cx >= size.W || cy >= size.H {
		return
	}
	mix, wall, pressure, err := inspector.Inspect(cx, cy)
	if err != nil {
		return
	}
	o.drawCell(screen, cx, cy, scale, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	lines := []string{fmt.Sprintf("cell %d,%d", cx, cy)}
	if wall {
		lines = append(lines, "wall")
	}
	lines = append(lines,
		fmt.Sprintf("T %.1f K", mix.Temperature),
		fmt.Sprintf("P %.3f", pressure),
	)
	for _, s := range gas.AllSpecies() {
		if s == gas.None || mix.Amount[s] <= 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %.2f", s, mix.Amount[s]))
	}

	const (
		lineHeight = 14
		padding    = 6
		boxWidth   = 170
	)
	boxHeight := float64(len(lines)*lineHeight + 2*padding)
	bx := float64(mx + 12)
	by := float64(my + 12)
	if sw := float64(size.W * scale); bx+boxWidth > sw {
		bx = float64(mx) - 12 - boxWidth
	}
	if sh := float64(size.H * scale); by+boxHeight > sh {
		by = float64(my) - 12 - boxHeight
	}
	o.drawRect(screen, bx, by, boxWidth, boxHeight, color.RGBA{R: 16, G: 16, B: 20, A: 220})
	face := basicfont.Face7x13
	for i, line := range lines {
		text.Draw(screen, line, face, int(bx)+padding, int(by)+padding+(i+1)*lineHeight-3, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	if o.pixel == nil || w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
