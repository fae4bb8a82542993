package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"station-atmos/internal/gas"
)

// relativeDrift is the L1 change in species totals divided by the starting
// total. It is zero for a run that conserved every species.
func relativeDrift(before, after [gas.SpeciesCount]float64) float64 {
	total := floats.Sum(before[:])
	if total == 0 {
		return 0
	}
	diff := make([]float64, gas.SpeciesCount)
	floats.SubTo(diff, after[:], before[:])
	return floats.Norm(diff, 1) / total
}

// cellMoles fills dst with the total moles of every open cell and returns
// the largest one.
func cellMoles(dst []float64, g *gas.Grid) float64 {
	walls := g.Walls.Cells()
	cells := g.Cells()
	for i := range cells {
		if walls[i] {
			dst[i] = 0
			continue
		}
		dst[i] = cells[i].TotalMoles()
	}
	if len(dst) == 0 {
		return 0
	}
	return floats.Max(dst)
}

// overshoot is how far peak exceeds the starting maximum, as a fraction of
// it.
func overshoot(peak, initial float64) float64 {
	if initial <= 0 {
		return 0
	}
	return math.Max(0, peak/initial-1)
}

func printTotals(cmd *cobra.Command, totals [gas.SpeciesCount]float64) {
	out := cmd.OutOrStdout()
	for _, s := range gas.AllSpecies() {
		if s == gas.None {
			continue
		}
		fmt.Fprintf(out, "%-15s %12.4f mol\n", s, totals[s])
	}
	fmt.Fprintf(out, "%-15s %12.4f mol\n", "total", floats.Sum(totals[:]))
}
