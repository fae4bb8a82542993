package gas

// Mixture is the gas state of one cell or vessel: moles of each species and
// an absolute temperature in kelvin.
type Mixture struct {
	Amount      [SpeciesCount]float64
	Temperature float64
}

// SingleGas returns a mixture holding only the given species.
func SingleGas(s Species, moles, temperature float64) Mixture {
	var m Mixture
	m.Amount[s] = moles
	m.Temperature = temperature
	return m
}

// TotalMoles sums the amount of every species.
func (m *Mixture) TotalMoles() float64 {
	total := 0.0
	for _, a := range m.Amount {
		total += a
	}
	return total
}

// Add mixes moles of s at the given temperature into m. The resulting
// temperature is the mole-weighted average of both parts.
func (m *Mixture) Add(s Species, moles, temperature float64) {
	if moles <= 0 {
		return
	}
	before := m.TotalMoles()
	if before <= 0 {
		m.Temperature = temperature
	} else {
		m.Temperature = (before*m.Temperature + moles*temperature) / (before + moles)
	}
	m.Amount[s] += moles
}

// Remove takes up to moles of s out of m and returns the amount removed.
func (m *Mixture) Remove(s Species, moles float64) float64 {
	if moles <= 0 {
		return 0
	}
	have := m.Amount[s]
	if have <= 0 {
		return 0
	}
	if moles >= have {
		m.Amount[s] = 0
		return have
	}
	m.Amount[s] = have - moles
	return moles
}
