package gas

const (
	// DefaultGasConstant is R in m³·atm/(K·mol).
	DefaultGasConstant = 8.2057e-5
	// DefaultCellVolume is the volume of one grid cell in m³.
	DefaultCellVolume = 2.0
	// DefaultMaxAmount caps the moles of a single species in a cell.
	DefaultMaxAmount = 200.0
	// DefaultMinTemperature is the temperature floor applied by Clamp.
	DefaultMinTemperature = 0.1
)

// Physics bundles the physical constants shared by the solver, the clamp
// pass and pressure derivation.
type Physics struct {
	GasConstant    float64 `yaml:"gas_constant"`
	CellVolume     float64 `yaml:"cell_volume"`
	MaxAmount      float64 `yaml:"max_amount"`
	MinTemperature float64 `yaml:"min_temperature"`
}

// DefaultPhysics returns the standard constants.
func DefaultPhysics() Physics {
	return Physics{
		GasConstant:    DefaultGasConstant,
		CellVolume:     DefaultCellVolume,
		MaxAmount:      DefaultMaxAmount,
		MinTemperature: DefaultMinTemperature,
	}
}

// Pressure returns the partial pressure of s in a grid cell.
func (p Physics) Pressure(m Mixture, s Species) float64 {
	return PressureIn(m, s, p.GasConstant, p.CellVolume)
}

// TotalPressure returns the summed partial pressures of a grid cell.
func (p Physics) TotalPressure(m Mixture) float32 {
	return float32(TotalPressureIn(m, p.GasConstant, p.CellVolume))
}

// PressureIn applies the ideal gas law to one species held in volume.
func PressureIn(m Mixture, s Species, r, volume float64) float64 {
	return m.Amount[s] * m.Temperature * r / volume
}

// TotalPressureIn sums PressureIn over every species.
func TotalPressureIn(m Mixture, r, volume float64) float64 {
	total := 0.0
	for s := 0; s < SpeciesCount; s++ {
		total += PressureIn(m, Species(s), r, volume)
	}
	return total
}
