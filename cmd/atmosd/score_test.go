package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"station-atmos/internal/atmos"
	"station-atmos/internal/gas"
)

func TestRelativeDrift(t *testing.T) {
	var before, after [gas.SpeciesCount]float64
	before[gas.Oxygen] = 60
	before[gas.Nitrogen] = 40
	after = before
	if d := relativeDrift(before, after); d != 0 {
		t.Fatalf("unchanged totals drift = %g", d)
	}
	after[gas.Oxygen] = 59
	after[gas.Nitrogen] = 41
	if d := relativeDrift(before, after); math.Abs(d-0.02) > 1e-12 {
		t.Fatalf("drift = %g, want 0.02", d)
	}
	if d := relativeDrift([gas.SpeciesCount]float64{}, after); d != 0 {
		t.Fatalf("empty start drift = %g", d)
	}
}

func TestCellMolesSkipsWalls(t *testing.T) {
	g := gas.NewGrid(2, 1, 32)
	g.Fill(gas.SingleGas(gas.Oxygen, 10, 300))
	c, _ := g.Cell(1, 0)
	c.Amount[gas.Nitrogen] = 30
	g.Walls.Set(1, 0, true)
	dst := make([]float64, 2)
	if peak := cellMoles(dst, g); peak != 10 || dst[1] != 0 {
		t.Fatalf("peak=%g cells=%v", peak, dst)
	}
}

func TestOvershoot(t *testing.T) {
	if o := overshoot(90, 100); o != 0 {
		t.Fatalf("overshoot below start = %g", o)
	}
	if o := overshoot(110, 100); math.Abs(o-0.1) > 1e-12 {
		t.Fatalf("overshoot = %g, want 0.1", o)
	}
	if o := overshoot(5, 0); o != 0 {
		t.Fatalf("overshoot from empty = %g", o)
	}
}

func TestSolverSetsCoverGrid(t *testing.T) {
	sets := solverSets(gas.DefaultSolverParams())
	if len(sets) != 48 {
		t.Fatalf("got %d sets, want 48", len(sets))
	}
	for _, s := range sets {
		if s.params.TemperatureIterations != 30 {
			t.Fatalf("temperature iterations changed: %s", s)
		}
	}
}

func TestScenarioConservesSealedStation(t *testing.T) {
	c := atmos.DefaultConfig()
	c.Width, c.Height = 12, 12
	c.Rooms = []atmos.RoomConfig{{X: 2, Y: 2, W: 6, H: 6, Pressurized: true}}
	res := runScenario(sealed(c), solverSet{params: c.Solver}, 20)
	if res.err != nil {
		t.Fatalf("scenario failed: %v", res.err)
	}
	if res.drift > 1e-6 {
		t.Fatalf("sealed room drifted by %g", res.drift)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"version"})
	defer RootCmd.SetOut(nil)
	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out.String(), atmos.Version) {
		t.Fatalf("output %q lacks version", out.String())
	}
}
