package gas

import (
	"math"
	"testing"
)

func TestCanisterFillRatio(t *testing.T) {
	p := DefaultPhysics()
	c := DefaultCanister()
	want := 500 * 293 * DefaultGasConstant / 0.5 / 10
	if got := c.FillRatio(p); math.Abs(got-want) > 1e-9 {
		t.Fatalf("fill ratio = %.6f, want %.6f", got, want)
	}
	if got := c.PercentFull(p); math.Abs(got-want*100) > 1e-7 {
		t.Fatalf("percent full = %.6f, want %.6f", got, want*100)
	}
	empty := Canister{Volume: 1, MaxPressure: 5}
	if empty.FillRatio(p) != 0 {
		t.Fatal("empty canister must report zero")
	}
	broken := Canister{Gases: SingleGas(Oxygen, 1, 300)}
	if broken.FillRatio(p) != 0 {
		t.Fatal("canister without volume must report zero")
	}
}

func TestLabelState(t *testing.T) {
	cases := []struct {
		ratio float64
		want  int
	}{
		{-1, 0},
		{0, 0},
		{0.1, 0},
		{0.13, 1},
		{0.5, 3},
		{0.51, 4},
		{1, 7},
		{3, 7},
	}
	for _, tc := range cases {
		if got := LabelState(tc.ratio, 8); got != tc.want {
			t.Fatalf("LabelState(%.2f) = %d, want %d", tc.ratio, got, tc.want)
		}
	}
}

func TestMachineFillRatios(t *testing.T) {
	p := DefaultPhysics()
	var m Machine
	for i := range m.Canisters {
		m.Canisters[i] = Canister{Volume: 1, MaxPressure: 1, Gases: SingleGas(Oxygen, float64(i), 300)}
	}
	ratios := m.FillRatios(p)
	for i := 1; i < MachineSlots; i++ {
		if ratios[i] <= ratios[i-1] {
			t.Fatalf("slot %d ratio %.6f not above slot %d", i, ratios[i], i-1)
		}
	}
}

func TestVesselReleaseConserves(t *testing.T) {
	p := DefaultPhysics()
	g := NewGrid(2, 2, 32)
	g.Fill(Mixture{Temperature: 293})
	can := DefaultCanister()
	port := &VesselPort{Name: "valve", Canister: &can, X: 1, Y: 1, Species: Oxygen, Rate: 10, Mode: PortRelease}

	before := can.Gases.Amount[Oxygen] + g.Totals()[Oxygen]
	for i := 0; i < 5; i++ {
		if _, err := port.Apply(g, p, 1); err != nil {
			t.Fatalf("release failed: %v", err)
		}
	}
	after := can.Gases.Amount[Oxygen] + g.Totals()[Oxygen]
	if math.Abs(after-before) > 1e-9 {
		t.Fatalf("release created or destroyed gas: %.6f -> %.6f", before, after)
	}
	c, _ := g.Cell(1, 1)
	if c.Amount[Oxygen] != 50 {
		t.Fatalf("cell oxygen = %.4f, want 50", c.Amount[Oxygen])
	}
}

func TestVesselReleaseEmpties(t *testing.T) {
	g := NewGrid(1, 1, 32)
	can := Canister{Volume: 1, MaxPressure: 1, Gases: SingleGas(Nitrogen, 3, 250)}
	port := &VesselPort{Canister: &can, Species: Nitrogen, Rate: 5, Mode: PortRelease}
	ev, err := port.Apply(g, DefaultPhysics(), 1)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if ev.Kind != EventVesselEmpty || ev.Amount != 3 {
		t.Fatalf("unexpected event %+v", ev)
	}
	c, _ := g.Cell(0, 0)
	if c.Temperature != 250 {
		t.Fatalf("empty cell should take canister temperature, got %.4f", c.Temperature)
	}
}

func TestVesselFillStopsWhenFull(t *testing.T) {
	p := DefaultPhysics()
	g := NewGrid(1, 1, 32)
	g.Fill(SingleGas(Oxygen, 100, 293))

	full := DefaultCanister()
	port := &VesselPort{Canister: &full, Species: Oxygen, Rate: 10, Mode: PortFill}
	ev, _ := port.Apply(g, p, 1)
	if ev.Kind != EventVesselFull {
		t.Fatalf("expected full event, got %v", ev.Kind)
	}
	c, _ := g.Cell(0, 0)
	if c.Amount[Oxygen] != 100 {
		t.Fatal("full canister still drew gas")
	}

	empty := Canister{Volume: 0.5, MaxPressure: 10}
	port.Canister = &empty
	if _, err := port.Apply(g, p, 1); err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	if c.Amount[Oxygen] != 90 || empty.Gases.Amount[Oxygen] != 10 {
		t.Fatalf("fill moved wrong amount: cell %.4f canister %.4f", c.Amount[Oxygen], empty.Gases.Amount[Oxygen])
	}
	if empty.Gases.Temperature != 293 {
		t.Fatalf("canister temperature = %.4f, want 293", empty.Gases.Temperature)
	}
}

func TestVesselFillCapsAtRatedPressure(t *testing.T) {
	p := DefaultPhysics()
	g := NewGrid(1, 1, 32)
	g.Fill(SingleGas(Oxygen, 100, 293))

	can := Canister{Name: "o2", Gases: SingleGas(Oxygen, 200, 293), Volume: 0.5, MaxPressure: 10}
	if r := can.FillRatio(p); r >= 1 || r < 0.95 {
		t.Fatalf("setup ratio = %.4f, want just under full", r)
	}
	port := &VesselPort{Name: "o2", Canister: &can, Species: Oxygen, Rate: 150, Mode: PortFill}
	ev, err := port.Apply(g, p, 1)
	if err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	if r := can.FillRatio(p); math.Abs(r-1) > 1e-9 {
		t.Fatalf("fill ratio after fill = %.9f, want 1", r)
	}
	if ev.Kind != EventVesselFull {
		t.Fatalf("expected full event, got %v", ev.Kind)
	}
	c, _ := g.Cell(0, 0)
	if math.Abs(c.Amount[Oxygen]+can.Gases.Amount[Oxygen]-300) > 1e-9 {
		t.Fatalf("fill lost gas: cell %.6f canister %.6f", c.Amount[Oxygen], can.Gases.Amount[Oxygen])
	}
	if math.Abs(ev.Amount-(100-c.Amount[Oxygen])) > 1e-9 {
		t.Fatalf("event amount %.6f does not match moved gas", ev.Amount)
	}

	held := can.Gases.Amount[Oxygen]
	if ev, _ := port.Apply(g, p, 1); ev.Kind != EventVesselFull {
		t.Fatalf("expected full canister to stay full, got %v", ev.Kind)
	}
	if math.Abs(can.Gases.Amount[Oxygen]-held) > 1e-9 {
		t.Fatal("full canister kept drawing gas")
	}
}

func TestClosedPortIsInert(t *testing.T) {
	g := NewGrid(1, 1, 32)
	can := DefaultCanister()
	port := &VesselPort{Canister: &can, Species: Oxygen, Rate: 10}
	port.Apply(g, DefaultPhysics(), 1)
	if can.Gases.Amount[Oxygen] != 500 {
		t.Fatal("closed port moved gas")
	}
}
