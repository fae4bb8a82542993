package atmos

import (
	"math"

	"station-atmos/internal/core"
	"station-atmos/internal/gas"
)

// Parameters reports the tunables shown on the HUD.
func (s *Station) Parameters() core.ParameterSnapshot {
	cfg := s.cfg
	totals := s.grid.Totals()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Station",
			Params: []core.Parameter{
				core.IntParam("w", "Width", cfg.Width),
				core.IntParam("h", "Height", cfg.Height),
				core.Int64Param("seed", "Seed", cfg.Seed),
				core.StringParam("mode", "Overlay", s.mode.String()),
				core.IntParam("walls", "Walls", s.walls),
			},
		},
		{
			Name: "Solver",
			Params: []core.Parameter{
				core.FloatParam("temperature_rate", "Temperature rate", cfg.Solver.TemperatureRate),
				core.FloatParam("molar_rate", "Molar rate", cfg.Solver.MolarRate),
				core.IntParam("temperature_iterations", "Temperature iterations", cfg.Solver.TemperatureIterations),
				core.IntParam("molar_iterations", "Molar iterations", cfg.Solver.MolarIterations),
			},
		},
		{
			Name: "Physics",
			Params: []core.Parameter{
				core.FloatParam("max_amount", "Max moles", cfg.Physics.MaxAmount),
				core.FloatParam("min_temperature", "Min temperature", cfg.Physics.MinTemperature),
				core.FloatParam("cell_volume", "Cell volume", cfg.Physics.CellVolume),
			},
		},
		{
			Name:    "Totals",
			Summary: "moles over open cells",
			Params: []core.Parameter{
				core.FloatParam("total_oxygen", "Oxygen", round2(totals[gas.Oxygen])),
				core.FloatParam("total_nitrogen", "Nitrogen", round2(totals[gas.Nitrogen])),
				core.FloatParam("total_carbon_dioxide", "CO2", round2(totals[gas.CarbonDioxide])),
				core.FloatParam("mean_temperature", "Mean T", round2(s.grid.MeanTemperature())),
			},
		},
	}}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// ParameterControls lists the HUD-adjustable parameters.
func (s *Station) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "temperature_rate", Label: "Temperature rate", Type: core.ParamTypeFloat, Step: 0.0001, Min: 0, HasMin: true, Max: 0.01, HasMax: true},
		{Key: "molar_rate", Label: "Molar rate", Type: core.ParamTypeFloat, Step: 0.001, Min: 0, HasMin: true, Max: 0.1, HasMax: true},
		{Key: "temperature_iterations", Label: "Temperature iterations", Type: core.ParamTypeInt, Step: 5, Min: 0, HasMin: true, Max: 200, HasMax: true},
		{Key: "molar_iterations", Label: "Molar iterations", Type: core.ParamTypeInt, Step: 5, Min: 0, HasMin: true, Max: 200, HasMax: true},
		{Key: "max_amount", Label: "Max moles", Type: core.ParamTypeFloat, Step: 10, Min: 1, HasMin: true, Max: 1000, HasMax: true},
	}
}

// SetIntParameter updates an integer tunable, clamping to the control bounds.
func (s *Station) SetIntParameter(key string, value int) bool {
	switch key {
	case "temperature_iterations":
		s.cfg.Solver.TemperatureIterations = clampInt(value, 0, 200)
	case "molar_iterations":
		s.cfg.Solver.MolarIterations = clampInt(value, 0, 200)
	default:
		return false
	}
	s.solver.Params = s.cfg.Solver
	return true
}

// SetFloatParameter updates a floating-point tunable, clamping to the
// control bounds.
func (s *Station) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "temperature_rate":
		s.cfg.Solver.TemperatureRate = clampFloat(value, 0, 0.01)
	case "molar_rate":
		s.cfg.Solver.MolarRate = clampFloat(value, 0, 0.1)
	case "max_amount":
		s.cfg.Physics.MaxAmount = clampFloat(value, 1, 1000)
	default:
		return false
	}
	s.solver.Params = s.cfg.Solver
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
