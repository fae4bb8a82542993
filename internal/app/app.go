//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"time"

	"station-atmos/internal/atmos"
	"station-atmos/internal/core"
	"station-atmos/internal/gas"
	"station-atmos/internal/render"
	"station-atmos/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
)

// Game adapts a station to the ebiten.Game interface.
type Game struct {
	station *atmos.Station
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	timer   *core.FixedStep

	background color.Color

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
	breaches int

	log logrus.FieldLogger
}

// New constructs a Game for the provided station.
func New(station *atmos.Station, cfg *Config) *Game {
	size := station.Size()
	return &Game{
		station:    station,
		painter:    render.NewGridPainter(size.W, size.H),
		overlay:    ui.NewOverlay(station, cfg.Scale),
		hud:        ui.NewHUD(station, cfg.HUDWidth),
		timer:      core.NewFixedStep(cfg.TPS),
		background: color.RGBA{R: 6, G: 6, B: 12, A: 255},
		scale:      cfg.Scale,
		hudWidth:   cfg.HUDWidth,
		seed:       cfg.Seed,
		log:        logrus.StandardLogger(),
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.station.Reset(seed)
	g.tickOnce = false
	g.breaches = 0
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		mode := g.station.CycleMode()
		g.log.WithField("mode", mode.String()).Info("app: visualization changed")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.printTotals()
	}

	g.handleMouse()
	if g.overlay != nil {
		g.overlay.Update()
	}
	if g.hud != nil {
		g.hud.Update(g.gridWidth())
	}

	if (!g.paused) || g.tickOnce {
		g.station.Step(g.timer.DT())
		g.tickOnce = false
	}
	return nil
}

// cursorCell returns the cell under the mouse, if any.
func (g *Game) cursorCell() (int, int, bool) {
	mx, my := ebiten.CursorPosition()
	if g.scale <= 0 || mx < 0 || my < 0 {
		return 0, 0, false
	}
	x, y := mx/g.scale, my/g.scale
	size := g.station.Size()
	if x >= size.W || y >= size.H {
		return 0, 0, false
	}
	return x, y, true
}

func (g *Game) handleMouse() {
	x, y, ok := g.cursorCell()
	if !ok {
		return
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.station.PlaceWall(x, y)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		g.station.RemoveWall(x, y)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.breaches++
		name := fmt.Sprintf("breach-%d", g.breaches)
		if _, err := g.station.AddBreach(name, x, y, gas.Oxygen, 50, 15); err != nil {
			g.log.WithError(err).Warn("app: breach rejected")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		if _, err := g.station.AddHeater("heater", x, y, 200, 5); err != nil {
			g.log.WithError(err).Warn("app: heater rejected")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if crew := g.station.Breathers(); len(crew) > 0 {
			crew[0].MoveTo(g.station.Grid().CellCenter(x, y))
		}
	}
}

func (g *Game) printTotals() {
	totals := g.station.Totals()
	fields := logrus.Fields{"tick": g.station.TickCount()}
	for _, s := range gas.AllSpecies() {
		if s == gas.None {
			continue
		}
		fields[s.String()] = totals[s]
	}
	g.log.WithFields(fields).Info("app: gas totals")
}

func (g *Game) gridWidth() int { return g.station.Size().W * g.scale }

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	g.painter.DrawWalls(screen, g.station.Layout(), g.scale)
	g.painter.Blit(screen, g.station.Pixels(), g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
	if g.hud != nil {
		g.hud.Draw(screen, g.gridWidth(), g.scale)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.station.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
