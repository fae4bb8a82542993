package gas

import (
	"errors"
	"math"
	"testing"
)

func TestClampIsIdempotent(t *testing.T) {
	p := DefaultPhysics()
	g := NewGrid(3, 1, 32)
	cells := g.Cells()
	cells[0].Amount[Oxygen] = -4
	cells[0].Temperature = -10
	cells[1].Amount[Nitrogen] = 1e6
	cells[1].Temperature = math.NaN()
	cells[2].Amount[CarbonDioxide] = math.NaN()
	cells[2].Temperature = 300

	Clamp(g, p)
	once := append([]Mixture(nil), g.Cells()...)
	Clamp(g, p)

	for i, m := range g.Cells() {
		if m != once[i] {
			t.Fatalf("cell %d changed on second clamp: %+v vs %+v", i, m, once[i])
		}
		for s, a := range m.Amount {
			if a < 0 || a > p.MaxAmount {
				t.Fatalf("cell %d species %d amount %.4f out of range", i, s, a)
			}
		}
		if m.Temperature < p.MinTemperature {
			t.Fatalf("cell %d temperature %.4f below floor", i, m.Temperature)
		}
	}
	if once[1].Amount[Nitrogen] != p.MaxAmount {
		t.Fatalf("nitrogen = %.4f, want %.4f", once[1].Amount[Nitrogen], p.MaxAmount)
	}
	if once[2].Temperature != 300 {
		t.Fatal("valid temperature altered by clamp")
	}
}

func TestPressureMonotonic(t *testing.T) {
	p := DefaultPhysics()
	base := SingleGas(Oxygen, 20, 293)
	more := SingleGas(Oxygen, 21, 293)
	hotter := SingleGas(Oxygen, 20, 294)

	if p.Pressure(more, Oxygen) <= p.Pressure(base, Oxygen) {
		t.Fatal("pressure must grow with moles")
	}
	if p.Pressure(hotter, Oxygen) <= p.Pressure(base, Oxygen) {
		t.Fatal("pressure must grow with temperature")
	}
	want := 20 * 293 * DefaultGasConstant / DefaultCellVolume
	if math.Abs(p.Pressure(base, Oxygen)-want) > 1e-12 {
		t.Fatalf("pressure = %.9f, want %.9f", p.Pressure(base, Oxygen), want)
	}
	if p.Pressure(base, Nitrogen) != 0 {
		t.Fatal("absent species must exert no pressure")
	}
}

func TestTotalPressureSumsSpecies(t *testing.T) {
	p := DefaultPhysics()
	var m Mixture
	m.Amount[Oxygen] = 17.5
	m.Amount[Nitrogen] = 65.5
	m.Temperature = 293.15
	want := p.Pressure(m, Oxygen) + p.Pressure(m, Nitrogen)
	if got := float64(p.TotalPressure(m)); math.Abs(got-want) > 1e-5 {
		t.Fatalf("total pressure = %.6f, want %.6f", got, want)
	}
}

func TestMixtureAddWeightsTemperature(t *testing.T) {
	m := SingleGas(Oxygen, 10, 300)
	m.Add(Nitrogen, 30, 200)
	if m.Temperature != 225 {
		t.Fatalf("temperature = %.4f, want 225", m.Temperature)
	}
	var empty Mixture
	empty.Add(Oxygen, 5, 410)
	if empty.Temperature != 410 {
		t.Fatalf("empty mixture should adopt incoming temperature, got %.4f", empty.Temperature)
	}
	if got := m.Remove(Oxygen, 50); got != 10 {
		t.Fatalf("removed %.4f, want 10", got)
	}
	if m.TotalMoles() != 30 {
		t.Fatalf("total = %.4f, want 30", m.TotalMoles())
	}
}

func TestParseSpecies(t *testing.T) {
	cases := map[string]Species{
		"oxygen":         Oxygen,
		"O2":             Oxygen,
		"carbon-dioxide": CarbonDioxide,
		"Water Vapor":    WaterVapor,
		"he3":            Helium3,
	}
	for in, want := range cases {
		got, err := ParseSpecies(in)
		if err != nil || got != want {
			t.Fatalf("ParseSpecies(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSpecies("plasma"); err == nil {
		t.Fatal("expected error for unknown species")
	}
	if len(AllSpecies()) != SpeciesCount {
		t.Fatal("AllSpecies length mismatch")
	}
}

func TestGridLookup(t *testing.T) {
	g := NewGrid(50, 50, 32)
	g.OriginX = -800
	g.OriginY = -800

	x, y := g.CellIndex(-800, -800)
	if x != 0 || y != 0 {
		t.Fatalf("origin maps to (%d,%d)", x, y)
	}
	x, y = g.CellIndex(-800+15.9, -800+16)
	if x != 0 || y != 1 {
		t.Fatalf("rounding maps to (%d,%d), want (0,1)", x, y)
	}
	cx, cy := g.CellCenter(10, 20)
	if x, y = g.CellIndex(cx, cy); x != 10 || y != 20 {
		t.Fatalf("cell center round trip gave (%d,%d)", x, y)
	}

	if _, err := g.Cell(50, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
	var oob *OutOfBoundsError
	if _, _, _, err := g.CellAt(-2000, 0); !errors.As(err, &oob) || oob.X >= 0 {
		t.Fatalf("expected typed out of bounds error, got %v", err)
	}
}

func TestTotalsSkipWalls(t *testing.T) {
	g := NewGrid(2, 1, 32)
	g.Fill(SingleGas(Oxygen, 10, 293))
	g.Walls.Set(1, 0, true)
	if got := g.Totals()[Oxygen]; got != 10 {
		t.Fatalf("totals = %.4f, want 10", got)
	}
	if got := g.MeanTemperature(); got != 293 {
		t.Fatalf("mean temperature = %.4f, want 293", got)
	}
}
