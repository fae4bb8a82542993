package app

import (
	"flag"
	"fmt"
	"strconv"

	"station-atmos/internal/atmos"
	"station-atmos/internal/core"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim        string
	Scale      int
	TPS        int
	Seed       int64
	Mode       string
	ConfigFile string
	HUDWidth   int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "station", Scale: 12, TPS: 60, Seed: 1337, Mode: "pressure", HUDWidth: 260}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run (station, chamber)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.StringVar(&c.Mode, "mode", c.Mode, "gas visualization (none, moles, pressure, temperature)")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "YAML station configuration file")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the control panel in pixels (0 hides it)")
}

// overrides converts the flags into the registry's string map.
func (c *Config) overrides() map[string]string {
	return map[string]string{
		"seed": strconv.FormatInt(c.Seed, 10),
		"tps":  strconv.Itoa(c.TPS),
		"mode": c.Mode,
	}
}

// Station builds the simulation selected by the flags. A config file takes
// the place of the registry defaults; flag values for tps and mode still
// apply on top of it.
func (c *Config) Station() (*atmos.Station, error) {
	if c.ConfigFile == "" {
		factory, ok := core.Sims()[c.Sim]
		if !ok {
			return nil, fmt.Errorf("unknown sim %q", c.Sim)
		}
		station, ok := factory(c.overrides()).(*atmos.Station)
		if !ok {
			return nil, fmt.Errorf("sim %q is not a station", c.Sim)
		}
		return station, nil
	}

	base, err := atmos.LoadFile(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	switch c.Sim {
	case "station":
	case "chamber":
		base = atmos.ChamberConfig(base)
	default:
		return nil, fmt.Errorf("unknown sim %q", c.Sim)
	}
	if c.TPS > 0 {
		base.TPS = c.TPS
	}
	if c.Mode != "" {
		base.Visualization = c.Mode
	}
	return atmos.New(base)
}
