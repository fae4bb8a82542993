package gas

import "math"

// Clamp forces every cell back into the valid range: amounts into
// [0, MaxAmount] and temperature no lower than MinTemperature. Running it
// twice is the same as running it once.
func Clamp(g *Grid, p Physics) {
	for i := range g.cells {
		ClampMixture(&g.cells[i], p)
	}
}

// ClampMixture applies the clamp to a single mixture.
func ClampMixture(m *Mixture, p Physics) {
	for i, a := range m.Amount {
		m.Amount[i] = clampAmount(a, p.MaxAmount)
	}
	if math.IsNaN(m.Temperature) || m.Temperature < p.MinTemperature {
		m.Temperature = p.MinTemperature
	}
}

func clampAmount(v, limit float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
