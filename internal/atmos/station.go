// Package atmos ties the gas engine to a station layout: it owns the grid,
// the wall layout, the solver and every point interaction, and advances
// them together one tick at a time.
package atmos

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"station-atmos/internal/core"
	"station-atmos/internal/gas"
	"station-atmos/internal/render"
	"station-atmos/internal/structure"
)

// Report summarizes one tick.
type Report struct {
	Tick    uint64
	Elapsed float64
	Walls   int
	Events  []gas.Event
	Totals  [gas.SpeciesCount]float64
}

// Station is the atmospheric simulation of one station.
type Station struct {
	cfg  Config
	name string

	grid   *gas.Grid
	layout *structure.Layout
	solver *gas.Solver

	breaches  []*gas.Breach
	breathers []*gas.Breather
	heaters   []*gas.Heater
	machine   gas.Machine
	canisters int
	ports     []*gas.VesselPort

	mode   render.Mode
	pixels []byte

	tick    uint64
	elapsed float64
	walls   int

	suffocating map[string]bool
	skipped     int
	events      []gas.Event

	rng *core.RNG
	log logrus.FieldLogger
}

// New validates cfg and builds a station reset to its configured seed.
func New(cfg Config) (*Station, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("atmos: %w", err)
	}
	mode, _ := render.ParseMode(cfg.Visualization)
	g := gas.NewGrid(cfg.Width, cfg.Height, cfg.TileSize)
	g.OriginX = cfg.OriginX
	g.OriginY = cfg.OriginY
	s := &Station{
		cfg:         cfg,
		name:        "station",
		grid:        g,
		layout:      structure.NewLayout(cfg.Width, cfg.Height),
		solver:      gas.NewSolver(cfg.Solver),
		mode:        mode,
		pixels:      make([]byte, 4*cfg.Width*cfg.Height),
		suffocating: make(map[string]bool),
		rng:         core.NewRNG(cfg.Seed),
		log:         logrus.StandardLogger(),
	}
	s.Reset(0)
	return s, nil
}

// SetLogger replaces the station logger.
func (s *Station) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		s.log = l
	}
}

// Name returns the registry name of the station.
func (s *Station) Name() string { return s.name }

// Size returns the grid dimensions.
func (s *Station) Size() core.Size { return core.Size{W: s.grid.W, H: s.grid.H} }

// Config returns the active configuration.
func (s *Station) Config() Config { return s.cfg }

// Grid exposes the gas grid.
func (s *Station) Grid() *gas.Grid { return s.grid }

// Layout exposes the wall layout.
func (s *Station) Layout() *structure.Layout { return s.layout }

// Physics returns the active physical constants.
func (s *Station) Physics() gas.Physics { return s.cfg.Physics }

// TickCount returns the number of completed ticks since the last reset.
func (s *Station) TickCount() uint64 { return s.tick }

// Elapsed returns simulated seconds since the last reset.
func (s *Station) Elapsed() float64 { return s.elapsed }

// Mode returns the visualization mode.
func (s *Station) Mode() render.Mode { return s.mode }

// SetMode switches the visualization mode and repaints.
func (s *Station) SetMode(m render.Mode) {
	s.mode = m
	s.cfg.Visualization = m.String()
	s.repaint()
}

// CycleMode advances to the next visualization mode.
func (s *Station) CycleMode() render.Mode {
	s.SetMode(s.mode.Next())
	return s.mode
}

// Pixels returns the overlay as premultiplied RGBA, one pixel per cell.
func (s *Station) Pixels() []byte { return s.pixels }

// Totals returns the moles of each species over open cells.
func (s *Station) Totals() [gas.SpeciesCount]float64 { return s.grid.Totals() }

// Breaches lists the configured and added breaches.
func (s *Station) Breaches() []*gas.Breach { return s.breaches }

// Breathers lists the crew members.
func (s *Station) Breathers() []*gas.Breather { return s.breathers }

// Heaters lists the heat sources.
func (s *Station) Heaters() []*gas.Heater { return s.heaters }

// Machine exposes the canister machine.
func (s *Station) Machine() *gas.Machine { return &s.machine }

// Ports lists the canister ports.
func (s *Station) Ports() []*gas.VesselPort { return s.ports }

// Reset rebuilds walls, gas and interactions from the config. A zero seed
// reuses the configured one.
func (s *Station) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = s.cfg.Seed
	}
	s.rng = core.NewRNG(effective)

	s.layout.Clear()
	for _, r := range s.cfg.Rooms {
		s.layout.CreateRoom(r.X, r.Y, r.W, r.H)
	}
	s.layout.TakeDirty()
	s.walls = s.grid.Walls.Sync(s.layout)

	s.fillGas()
	s.buildInteractions()

	s.tick = 0
	s.elapsed = 0
	s.events = s.events[:0]
	clear(s.suffocating)
	s.skipped = 0
	s.repaint()
}

func (s *Station) fillGas() {
	space, _ := s.cfg.Space.Mixture()
	fill, _ := s.cfg.Fill.Mixture()

	if len(s.cfg.Rooms) == 0 {
		cells := s.grid.Cells()
		for i := range cells {
			cells[i] = s.jitter(fill)
		}
		return
	}

	s.grid.Fill(space)
	for _, r := range s.cfg.Rooms {
		if !r.Pressurized {
			continue
		}
		for y := r.Y + 1; y < r.Y+r.H-1; y++ {
			for x := r.X + 1; x < r.X+r.W-1; x++ {
				cell, err := s.grid.Cell(x, y)
				if err != nil {
					continue
				}
				*cell = s.jitter(fill)
			}
		}
	}
}

func (s *Station) jitter(m gas.Mixture) gas.Mixture {
	for i, a := range m.Amount {
		if a > 0 {
			m.Amount[i] = s.rng.Jitter(a, s.cfg.FillJitter)
		}
	}
	return m
}

func (s *Station) buildInteractions() {
	s.breaches = s.breaches[:0]
	for _, b := range s.cfg.Breaches {
		sp, _ := gas.ParseSpecies(b.Species)
		s.breaches = append(s.breaches, &gas.Breach{
			Name: b.Name, X: b.X, Y: b.Y, Species: sp, Rate: b.Rate, Remaining: b.Duration,
		})
	}

	s.breathers = s.breathers[:0]
	for _, b := range s.cfg.Breathers {
		s.breathers = append(s.breathers, &gas.Breather{Name: b.Name, X: b.X, Y: b.Y, Rate: b.Rate})
	}

	s.heaters = s.heaters[:0]
	for _, h := range s.cfg.Heaters {
		s.heaters = append(s.heaters, &gas.Heater{Name: h.Name, X: h.X, Y: h.Y, Rate: h.Rate, Remaining: h.Duration})
	}

	s.machine = gas.Machine{Name: "canister machine"}
	s.canisters = 0
	s.ports = s.ports[:0]
	for i, c := range s.cfg.Canisters {
		if i >= gas.MachineSlots {
			break
		}
		mix, _ := c.Fill.Mixture()
		s.machine.Canisters[i] = gas.Canister{Name: c.Name, Gases: mix, Volume: c.Volume, MaxPressure: c.MaxPressure}
		s.canisters++
		if c.Port == nil {
			continue
		}
		sp, _ := gas.ParseSpecies(c.Port.Species)
		mode, _ := parsePortMode(c.Port.Mode)
		s.ports = append(s.ports, &gas.VesselPort{
			Name:     c.Name,
			Canister: &s.machine.Canisters[i],
			X:        c.Port.X,
			Y:        c.Port.Y,
			Species:  sp,
			Rate:     c.Port.Rate,
			Mode:     mode,
		})
	}
}

// Step advances the station by dt seconds. Interaction failures are logged
// when the number of failing interactions changes, not on every tick.
func (s *Station) Step(dt float64) {
	_, err := s.Tick(dt)
	n := failures(err)
	if n == s.skipped {
		return
	}
	if n > 0 {
		s.log.WithError(err).WithField("failing", n).Warn("atmos: interaction skipped")
	} else {
		s.log.WithField("tick", s.tick).Info("atmos: interactions recovered")
	}
	s.skipped = n
}

func failures(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}

// Tick advances the station by dt seconds: walls are resynced from the
// layout, gas diffuses, interactions apply, and the grid is clamped.
// Interactions that address cells outside the grid are skipped and their
// errors joined into the returned error.
func (s *Station) Tick(dt float64) (Report, error) {
	edited := s.layout.TakeDirty()
	walls := s.grid.Walls.Sync(s.layout)
	if edited {
		s.log.WithFields(logrus.Fields{"tick": s.tick, "walls": walls, "was": s.walls}).Debug("atmos: walls changed")
	}
	s.walls = walls

	s.solver.Step(s.grid, dt)

	s.events = s.events[:0]
	var errs []error
	p := s.cfg.Physics
	for _, in := range s.interactions() {
		ev, err := in.Apply(s.grid, p, dt)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ev.Kind != gas.EventNone {
			s.events = append(s.events, ev)
		}
	}
	s.observeBreathers()

	gas.Clamp(s.grid, p)

	s.tick++
	s.elapsed += dt
	s.repaint()

	for _, ev := range s.events {
		s.logEvent(ev)
	}

	report := Report{
		Tick:    s.tick,
		Elapsed: s.elapsed,
		Walls:   s.walls,
		Events:  append([]gas.Event(nil), s.events...),
		Totals:  s.grid.Totals(),
	}
	return report, errors.Join(errs...)
}

func (s *Station) interactions() []gas.Interaction {
	out := make([]gas.Interaction, 0, len(s.breaches)+len(s.breathers)+len(s.ports)+len(s.heaters))
	for _, b := range s.breaches {
		out = append(out, b)
	}
	for _, b := range s.breathers {
		out = append(out, b)
	}
	for _, p := range s.ports {
		out = append(out, p)
	}
	for _, h := range s.heaters {
		out = append(out, h)
	}
	return out
}

// observeBreathers logs when a crew member starts or stops suffocating.
func (s *Station) observeBreathers() {
	for _, b := range s.breathers {
		now := b.Suffocating()
		if now == s.suffocating[b.Name] {
			continue
		}
		s.suffocating[b.Name] = now
		fields := logrus.Fields{"breather": b.Name, "x": b.Last().X, "y": b.Last().Y, "tick": s.tick}
		if now {
			s.log.WithFields(fields).Warn("atmos: suffocating")
		} else {
			s.log.WithFields(fields).Info("atmos: breathing again")
		}
	}
}

func (s *Station) logEvent(ev gas.Event) {
	fields := logrus.Fields{"source": ev.Source, "x": ev.X, "y": ev.Y, "tick": s.tick}
	switch ev.Kind {
	case gas.EventBreachSealed:
		s.log.WithFields(fields).WithField("vented", ev.Amount).Info("atmos: breach sealed")
	case gas.EventVesselFull, gas.EventVesselEmpty, gas.EventHeaterSpent:
		s.log.WithFields(fields).Debug("atmos: " + ev.Kind.String())
	}
}

func (s *Station) repaint() {
	render.FillRGBA(s.pixels, s.grid, s.mode, s.cfg.Physics)
}

// PlaceWall puts a wall on the layout. The gas mask picks it up next tick.
func (s *Station) PlaceWall(x, y int) bool { return s.layout.Place(x, y) }

// RemoveWall clears a wall from the layout. The cell keeps whatever gas
// state it held while it was a wall.
func (s *Station) RemoveWall(x, y int) bool { return s.layout.Remove(x, y) }

// AddBreach starts venting species from (x, y) for duration seconds.
func (s *Station) AddBreach(name string, x, y int, species gas.Species, rate, duration float64) (*gas.Breach, error) {
	if !s.grid.InBounds(x, y) {
		return nil, &gas.OutOfBoundsError{X: x, Y: y, W: s.grid.W, H: s.grid.H}
	}
	b := &gas.Breach{Name: name, X: x, Y: y, Species: species, Rate: rate, Remaining: duration}
	s.breaches = append(s.breaches, b)
	s.log.WithFields(logrus.Fields{"source": name, "x": x, "y": y, "species": species.String(), "rate": rate}).Warn("atmos: hull breach")
	return b, nil
}

// AddBreather adds a crew member at a world position.
func (s *Station) AddBreather(name string, x, y, rate float64) *gas.Breather {
	b := &gas.Breather{Name: name, X: x, Y: y, Rate: rate}
	s.breathers = append(s.breathers, b)
	return b
}

// AddHeater adds a heat source at (x, y).
func (s *Station) AddHeater(name string, x, y int, rate, duration float64) (*gas.Heater, error) {
	if !s.grid.InBounds(x, y) {
		return nil, &gas.OutOfBoundsError{X: x, Y: y, W: s.grid.W, H: s.grid.H}
	}
	h := &gas.Heater{Name: name, X: x, Y: y, Rate: rate, Remaining: duration}
	s.heaters = append(s.heaters, h)
	return h, nil
}

// AddCanister inserts a canister into the next free machine slot and
// optionally connects it to a cell through a port.
func (s *Station) AddCanister(c gas.Canister, port *gas.VesselPort) (int, error) {
	if s.canisters >= gas.MachineSlots {
		return -1, fmt.Errorf("atmos: canister machine full (%d slots)", gas.MachineSlots)
	}
	if port != nil && !s.grid.InBounds(port.X, port.Y) {
		return -1, &gas.OutOfBoundsError{X: port.X, Y: port.Y, W: s.grid.W, H: s.grid.H}
	}
	slot := s.canisters
	s.machine.Canisters[slot] = c
	s.canisters++
	if port != nil {
		port.Canister = &s.machine.Canisters[slot]
		s.ports = append(s.ports, port)
	}
	return slot, nil
}

// Restore replaces the gas state and wall layout, e.g. from a stored
// snapshot. Interactions are left as they are.
func (s *Station) Restore(tick uint64, elapsed float64, cells []gas.Mixture, walls []bool) error {
	n := s.grid.W * s.grid.H
	if len(cells) != n || len(walls) != n {
		return fmt.Errorf("atmos: restore needs %d cells, got %d cells and %d walls", n, len(cells), len(walls))
	}
	copy(s.grid.Cells(), cells)
	copy(s.layout.Cells(), walls)
	s.layout.TakeDirty()
	s.walls = s.grid.Walls.Sync(s.layout)
	s.tick = tick
	s.elapsed = elapsed
	s.repaint()
	return nil
}

// CanisterCount returns the number of occupied machine slots.
func (s *Station) CanisterCount() int { return s.canisters }

// Inspect returns the mixture, wall flag and total pressure at (x, y).
func (s *Station) Inspect(x, y int) (gas.Mixture, bool, float64, error) {
	cell, err := s.grid.Cell(x, y)
	if err != nil {
		return gas.Mixture{}, false, 0, err
	}
	return *cell, s.grid.Walls.Blocked(x, y), float64(s.cfg.Physics.TotalPressure(*cell)), nil
}

func init() {
	core.Register("station", func(cfg map[string]string) core.Sim {
		s, err := New(FromMap(cfg))
		if err != nil {
			logrus.WithError(err).Error("atmos: station config rejected, using defaults")
			s, _ = New(DefaultConfig())
		}
		return s
	})
	core.Register("chamber", func(cfg map[string]string) core.Sim {
		s, err := New(ChamberConfig(FromMap(cfg)))
		if err != nil {
			logrus.WithError(err).Error("atmos: chamber config rejected, using defaults")
			s, _ = New(ChamberConfig(DefaultConfig()))
		}
		s.name = "chamber"
		return s
	})
}

// ChamberConfig turns base into a sealed test chamber: the whole grid is
// filled and a heater warms the center.
func ChamberConfig(base Config) Config {
	base.Rooms = nil
	base.Breaches = nil
	base.Canisters = nil
	cx, cy := base.Width/2, base.Height/2
	base.Breathers = []BreatherConfig{{Name: "crew", X: 0, Y: 0, Rate: 0.05}}
	base.Heaters = []HeaterConfig{{Name: "coil", X: cx, Y: cy, Rate: 500, Duration: 5}}
	return base
}
