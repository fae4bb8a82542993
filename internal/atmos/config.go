package atmos

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"station-atmos/internal/gas"
	"station-atmos/internal/render"
)

// FillConfig describes an initial mixture by species name.
type FillConfig struct {
	Amounts     map[string]float64 `yaml:"amounts"`
	Temperature float64            `yaml:"temperature"`
}

// Mixture resolves the species names into a gas mixture.
func (f FillConfig) Mixture() (gas.Mixture, error) {
	m := gas.Mixture{Temperature: f.Temperature}
	for name, moles := range f.Amounts {
		s, err := gas.ParseSpecies(name)
		if err != nil {
			return gas.Mixture{}, err
		}
		m.Amount[s] = moles
	}
	return m, nil
}

// RoomConfig outlines a walled room. Pressurized rooms start with the
// station fill inside their walls.
type RoomConfig struct {
	X           int  `yaml:"x"`
	Y           int  `yaml:"y"`
	W           int  `yaml:"w"`
	H           int  `yaml:"h"`
	Pressurized bool `yaml:"pressurized"`
}

// BreachConfig places a timed hull breach.
type BreachConfig struct {
	Name     string  `yaml:"name"`
	X        int     `yaml:"x"`
	Y        int     `yaml:"y"`
	Species  string  `yaml:"species"`
	Rate     float64 `yaml:"rate"`
	Duration float64 `yaml:"duration"`
}

// BreatherConfig places a crew member at a world position.
type BreatherConfig struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Rate float64 `yaml:"rate"`
}

// PortConfig attaches a canister to a grid cell.
type PortConfig struct {
	X       int     `yaml:"x"`
	Y       int     `yaml:"y"`
	Species string  `yaml:"species"`
	Rate    float64 `yaml:"rate"`
	Mode    string  `yaml:"mode"`
}

// CanisterConfig describes one canister slot of the station machine.
type CanisterConfig struct {
	Name        string      `yaml:"name"`
	Fill        FillConfig  `yaml:"fill"`
	Volume      float64     `yaml:"volume"`
	MaxPressure float64     `yaml:"max_pressure"`
	Port        *PortConfig `yaml:"port,omitempty"`
}

// HeaterConfig places a timed heat source.
type HeaterConfig struct {
	Name     string  `yaml:"name"`
	X        int     `yaml:"x"`
	Y        int     `yaml:"y"`
	Rate     float64 `yaml:"rate"`
	Duration float64 `yaml:"duration"`
}

// Config controls the station dimensions, physics and initial layout.
type Config struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	TileSize float64 `yaml:"tile_size"`
	OriginX  float64 `yaml:"origin_x"`
	OriginY  float64 `yaml:"origin_y"`

	Seed int64 `yaml:"seed"`
	TPS  int   `yaml:"tps"`

	Physics       gas.Physics      `yaml:"physics"`
	Solver        gas.SolverParams `yaml:"solver"`
	Visualization string           `yaml:"visualization"`

	Fill       FillConfig `yaml:"fill"`
	Space      FillConfig `yaml:"space"`
	FillJitter float64    `yaml:"fill_jitter"`

	Rooms     []RoomConfig     `yaml:"rooms"`
	Breaches  []BreachConfig   `yaml:"breaches"`
	Breathers []BreatherConfig `yaml:"breathers"`
	Canisters []CanisterConfig `yaml:"canisters"`
	Heaters   []HeaterConfig   `yaml:"heaters"`
}

// DefaultConfig returns the standard station: a 50x50 grid of vacuum with
// one pressurized 9x9 room, a short oxygen breach and a single crew member.
func DefaultConfig() Config {
	const (
		size = 50
		tile = 32.0
	)
	return Config{
		Width:    size,
		Height:   size,
		TileSize: tile,
		OriginX:  -size * tile / 2,
		OriginY:  -size * tile / 2,
		Seed:     1337,
		TPS:      60,

		Physics:       gas.DefaultPhysics(),
		Solver:        gas.DefaultSolverParams(),
		Visualization: render.ModeNone.String(),

		Fill: FillConfig{
			Amounts:     map[string]float64{"oxygen": 17.5, "nitrogen": 65.5},
			Temperature: 293.15,
		},
		Space:      FillConfig{Temperature: 2.7},
		FillJitter: 0.02,

		Rooms: []RoomConfig{{X: 20, Y: 20, W: 9, H: 9, Pressurized: true}},
		Breaches: []BreachConfig{{
			Name: "hull", X: 22, Y: 22, Species: "oxygen", Rate: 50, Duration: 15,
		}},
		Breathers: []BreatherConfig{{Name: "crew", X: 0, Y: 0, Rate: 0.05}},
		Canisters: []CanisterConfig{{
			Name:        "o2-1",
			Fill:        FillConfig{Amounts: map[string]float64{"oxygen": 500}, Temperature: 293},
			Volume:      0.5,
			MaxPressure: 10,
		}},
	}
}

// LoadFile reads a YAML config over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem with the config at once.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid size %dx%d must be positive", c.Width, c.Height))
	}
	if c.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("tile_size %g must be positive", c.TileSize))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps %d must be positive", c.TPS))
	}
	if c.Physics.GasConstant <= 0 || c.Physics.CellVolume <= 0 {
		errs = append(errs, errors.New("physics: gas_constant and cell_volume must be positive"))
	}
	if c.Physics.MaxAmount <= 0 {
		errs = append(errs, fmt.Errorf("physics: max_amount %g must be positive", c.Physics.MaxAmount))
	}
	if c.Physics.MinTemperature <= 0 {
		errs = append(errs, fmt.Errorf("physics: min_temperature %g must be above zero", c.Physics.MinTemperature))
	}
	if c.Solver.TemperatureRate < 0 || c.Solver.MolarRate < 0 {
		errs = append(errs, errors.New("solver: rates must not be negative"))
	}
	if c.Solver.TemperatureIterations < 0 || c.Solver.MolarIterations < 0 {
		errs = append(errs, errors.New("solver: iteration counts must not be negative"))
	}
	if _, err := render.ParseMode(c.Visualization); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Fill.Mixture(); err != nil {
		errs = append(errs, fmt.Errorf("fill: %w", err))
	}
	if _, err := c.Space.Mixture(); err != nil {
		errs = append(errs, fmt.Errorf("space: %w", err))
	}
	for i, b := range c.Breaches {
		if _, err := gas.ParseSpecies(b.Species); err != nil {
			errs = append(errs, fmt.Errorf("breach %d: %w", i, err))
		}
		if !c.inGrid(b.X, b.Y) {
			errs = append(errs, fmt.Errorf("breach %d: cell (%d,%d) %w", i, b.X, b.Y, gas.ErrOutOfBounds))
		}
	}
	for i, h := range c.Heaters {
		if !c.inGrid(h.X, h.Y) {
			errs = append(errs, fmt.Errorf("heater %d: cell (%d,%d) %w", i, h.X, h.Y, gas.ErrOutOfBounds))
		}
	}
	if len(c.Canisters) > gas.MachineSlots {
		errs = append(errs, fmt.Errorf("%d canisters exceed %d machine slots", len(c.Canisters), gas.MachineSlots))
	}
	for i, can := range c.Canisters {
		if _, err := can.Fill.Mixture(); err != nil {
			errs = append(errs, fmt.Errorf("canister %d: %w", i, err))
		}
		if can.Port == nil {
			continue
		}
		if _, err := gas.ParseSpecies(can.Port.Species); err != nil {
			errs = append(errs, fmt.Errorf("canister %d port: %w", i, err))
		}
		if _, err := parsePortMode(can.Port.Mode); err != nil {
			errs = append(errs, fmt.Errorf("canister %d port: %w", i, err))
		}
		if !c.inGrid(can.Port.X, can.Port.Y) {
			errs = append(errs, fmt.Errorf("canister %d port: cell (%d,%d) %w", i, can.Port.X, can.Port.Y, gas.ErrOutOfBounds))
		}
	}
	return errors.Join(errs...)
}

func (c Config) inGrid(x, y int) bool {
	return x >= 0 && x < c.Width && y >= 0 && y < c.Height
}

func parsePortMode(name string) (gas.PortMode, error) {
	switch name {
	case "", "closed":
		return gas.PortClosed, nil
	case "release":
		return gas.PortRelease, nil
	case "fill":
		return gas.PortFill, nil
	}
	return gas.PortClosed, fmt.Errorf("unknown port mode %q", name)
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	def := DefaultConfig()
	c := def
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["tps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TPS = parsed
		}
	}
	if v, ok := cfg["tile_size"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.TileSize = parsed
		}
	}
	if v, ok := cfg["temperature_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Solver.TemperatureRate = parsed
		}
	}
	if v, ok := cfg["molar_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Solver.MolarRate = parsed
		}
	}
	if v, ok := cfg["temperature_iterations"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Solver.TemperatureIterations = parsed
		}
	}
	if v, ok := cfg["molar_iterations"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Solver.MolarIterations = parsed
		}
	}
	if v, ok := cfg["max_amount"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Physics.MaxAmount = parsed
		}
	}
	if v, ok := cfg["min_temperature"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Physics.MinTemperature = parsed
		}
	}
	if v, ok := cfg["cell_volume"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Physics.CellVolume = parsed
		}
	}
	if v, ok := cfg["fill_jitter"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed < 1 {
			c.FillJitter = parsed
		}
	}
	if v, ok := cfg["mode"]; ok {
		if _, err := render.ParseMode(v); err == nil {
			c.Visualization = v
		}
	}
	if c.Width != def.Width || c.Height != def.Height || c.TileSize != def.TileSize {
		c.OriginX = -float64(c.Width) * c.TileSize / 2
		c.OriginY = -float64(c.Height) * c.TileSize / 2
		c.dropOutside()
	}
	return c
}

// dropOutside removes breaches, heaters and canister ports that no longer
// fit the grid.
func (c *Config) dropOutside() {
	breaches := c.Breaches[:0]
	for _, b := range c.Breaches {
		if c.inGrid(b.X, b.Y) {
			breaches = append(breaches, b)
		}
	}
	c.Breaches = breaches

	heaters := c.Heaters[:0]
	for _, h := range c.Heaters {
		if c.inGrid(h.X, h.Y) {
			heaters = append(heaters, h)
		}
	}
	c.Heaters = heaters

	for i := range c.Canisters {
		if p := c.Canisters[i].Port; p != nil && !c.inGrid(p.X, p.Y) {
			c.Canisters[i].Port = nil
		}
	}
}
