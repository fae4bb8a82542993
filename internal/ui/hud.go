//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"station-atmos/internal/core"
	"station-atmos/internal/gas"
	"station-atmos/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Panel is the simulation surface the HUD reads and tunes.
type Panel interface {
	core.Sim
	core.ParameterControlsProvider
	core.IntParameterSetter
	core.FloatParameterSetter
	Parameters() core.ParameterSnapshot
	Machine() *gas.Machine
	Physics() gas.Physics
}

// readoutGroups are the snapshot groups listed under the controls.
var readoutGroups = map[string]bool{"Station": true, "Totals": true}

var (
	textBright = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	textDim    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	panelBG    = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	slotBG     = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

// HUD renders the parameter panel to the right of the simulation view.
type HUD struct {
	sim        Panel
	width      int
	panel      *ebiten.Image
	pixel      *ebiten.Image
	lastHeight int
	offsetX    int
	title      string

	snapshot core.ParameterSnapshot
	controls []hudControl
	readouts []core.Parameter
}

// hudControl is one adjustable row: value, and the -/+ buttons beside it.
type hudControl struct {
	core.ParameterControl
	value    float64
	hasValue bool

	top         int
	minus, plus image.Rectangle
}

// NewHUD constructs a HUD for the station and panel width.
func NewHUD(sim Panel, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.title = "Controls"
	if name := sim.Name(); name != "" {
		h.title = fmt.Sprintf("%s Controls", strings.ToUpper(name[:1])+name[1:])
	}
	for i, ctrl := range sim.ParameterControls() {
		if ctrl.Step <= 0 {
			ctrl.Step = 1
		}
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
		h.controls = append(h.controls, hudControl{ParameterControl: ctrl, top: top, minus: minus, plus: plus})
	}
	return h
}

// Update refreshes the cached snapshot and handles clicks on the panel.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.offsetX = panelOffsetX
	h.snapshot = h.sim.Parameters()
	for i := range h.controls {
		c := &h.controls[i]
		p, ok := h.snapshot.Lookup(c.Key)
		if ok {
			v, err := strconv.ParseFloat(p.Value, 64)
			ok = err == nil
			c.value = v
		}
		c.hasValue = ok
	}
	h.readouts = h.readouts[:0]
	for _, group := range h.snapshot.Groups {
		if readoutGroups[group.Name] {
			h.readouts = append(h.readouts, group.Params...)
		}
	}
	h.handleInput()
}

func (h *HUD) handleInput() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.offsetX {
		return
	}
	pt := image.Pt(mx-h.offsetX, my)
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case pt.In(c.minus):
			h.adjust(c, -1)
			return
		case pt.In(c.plus):
			h.adjust(c, 1)
			return
		}
	}
}

// target is the bounded value one step in direction, and whether it
// differs from the current value.
func (c *hudControl) target(direction int) (float64, bool) {
	if !c.hasValue {
		return 0, false
	}
	t := c.value + float64(direction)*c.Step
	if c.HasMin {
		t = math.Max(t, c.Min)
	}
	if c.HasMax {
		t = math.Min(t, c.Max)
	}
	if c.Type == core.ParamTypeInt {
		t = math.Round(t)
	}
	return t, math.Abs(t-c.value) > 1e-9
}

func (h *HUD) adjust(c *hudControl, direction int) {
	t, ok := c.target(direction)
	if !ok {
		return
	}
	var applied bool
	switch c.Type {
	case core.ParamTypeInt:
		applied = h.sim.SetIntParameter(c.Key, int(t))
	case core.ParamTypeFloat:
		applied = h.sim.SetFloatParameter(c.Key, t)
	}
	if applied {
		c.value = t
	}
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelBG)
	y := h.drawControls()
	y = h.drawReadouts(y)
	h.drawMachine(y)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

// drawControls paints the title and adjustable controls and returns the y
// coordinate below them.
func (h *HUD) drawControls() int {
	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	for i := range h.controls {
		c := &h.controls[i]
		y := c.top + labelBaseline
		text.Draw(h.panel, c.Label, face, panelPadding, y, textBright)

		value, valueColor := "--", textDim
		if c.hasValue {
			value, valueColor = formatValue(c), textBright
		}
		w := text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, c.minus.Min.X-buttonGap-w, y, valueColor)

		_, canLower := c.target(-1)
		_, canRaise := c.target(1)
		h.drawButton(c.minus, "-", canLower)
		h.drawButton(c.plus, "+", canRaise)
	}
	return controlsTop + len(h.controls)*lineHeight + sectionGap
}

// formatValue prints as many decimals as the control's step needs.
func formatValue(c *hudControl) string {
	if c.Type == core.ParamTypeInt {
		return strconv.Itoa(int(c.value))
	}
	decimals := max(0, int(math.Ceil(-math.Log10(c.Step)-1e-9)))
	return strconv.FormatFloat(c.value, 'f', decimals, 64)
}

func (h *HUD) drawReadouts(y int) int {
	if len(h.readouts) == 0 {
		return y
	}
	face := basicfont.Face7x13
	for _, p := range h.readouts {
		text.Draw(h.panel, p.Label, face, panelPadding, y, textDim)
		w := text.BoundString(face, p.Value).Dx()
		text.Draw(h.panel, p.Value, face, h.width-panelPadding-w, y, textBright)
		y += readoutHeight
	}
	return y + sectionGap
}

// drawMachine paints one fill gauge per canister slot.
func (h *HUD) drawMachine(y int) {
	face := basicfont.Face7x13
	m := h.sim.Machine()
	phys := h.sim.Physics()
	ratios := m.FillRatios(phys)
	text.Draw(h.panel, m.Name, face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	y += gaugeGap
	barX := panelPadding + gaugeLabelWidth
	barW := h.width - barX - panelPadding
	for i, c := range m.Canisters {
		label := fmt.Sprintf("%d empty", i+1)
		if c.Name != "" {
			label = fmt.Sprintf("%d %3.0f%%", i+1, c.PercentFull(phys))
		}
		text.Draw(h.panel, label, face, panelPadding, y+gaugeHeight-3, textDim)
		h.fillRect(image.Rect(barX, y, barX+barW, y+gaugeHeight), slotBG)
		if ratios[i] > 0 {
			// Bars advance in whole gauge frames.
			frame := float64(gas.LabelState(ratios[i], gaugeStates)+1) / gaugeStates
			h.fillRect(image.Rect(barX+1, y+1, barX+1+int(float64(barW-2)*frame), y+gaugeHeight-1), render.GaugeColor(math.Min(ratios[i], 1)))
		}
		y += gaugeHeight + gaugeGap/2
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = slotBG
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fillRect(rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) fillRect(rect image.Rectangle, c color.Color) {
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(c)
	h.panel.DrawImage(h.pixel, op)
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	controlsTop    = panelPadding + headerBaseline + 14

	sectionGap      = 20
	readoutHeight   = 16
	gaugeGap        = 12
	gaugeHeight     = 14
	gaugeLabelWidth = 56
	gaugeStates     = 8
)
