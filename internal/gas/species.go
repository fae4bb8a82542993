// Package gas implements the per-tile gas mixture model, the wall-gated
// diffusion solver, ideal-gas pressure, and the point interactions that
// add or remove gas from individual cells.
package gas

import (
	"fmt"
	"strings"
)

// Species enumerates the gases tracked per cell. The ordinal doubles as the
// index into Mixture.Amount, so values must stay contiguous and zero-based.
type Species uint8

const (
	None Species = iota
	Oxygen
	Nitrogen
	CarbonDioxide
	Helium3
	Hydrogen
	WaterVapor
)

// SpeciesCount is the number of tracked species.
const SpeciesCount = int(WaterVapor) + 1

var speciesNames = [SpeciesCount]string{
	"none",
	"oxygen",
	"nitrogen",
	"carbon_dioxide",
	"helium3",
	"hydrogen",
	"water_vapor",
}

func (s Species) String() string {
	if int(s) >= SpeciesCount {
		return fmt.Sprintf("species(%d)", uint8(s))
	}
	return speciesNames[s]
}

// ParseSpecies resolves a species by name. Matching ignores case and accepts
// dashes or spaces in place of underscores.
func ParseSpecies(name string) (Species, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "o2":
		return Oxygen, nil
	case "n2":
		return Nitrogen, nil
	case "co2":
		return CarbonDioxide, nil
	case "he3":
		return Helium3, nil
	case "h2":
		return Hydrogen, nil
	case "h2o":
		return WaterVapor, nil
	}
	for i, n := range speciesNames {
		if n == key {
			return Species(i), nil
		}
	}
	return None, fmt.Errorf("gas: unknown species %q", name)
}

// AllSpecies lists every species in ordinal order.
func AllSpecies() []Species {
	out := make([]Species, SpeciesCount)
	for i := range out {
		out[i] = Species(i)
	}
	return out
}
