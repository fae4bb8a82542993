package gas

import (
	"errors"
	"math"
	"testing"
)

func TestBreatheSuffocatesWhenShort(t *testing.T) {
	g := NewGrid(4, 4, 32)
	c, _ := g.Cell(0, 0)
	*c = SingleGas(Oxygen, 5, 293)

	res, err := Breathe(g, 0, 0, 10, 1)
	if err != nil {
		t.Fatalf("breathe failed: %v", err)
	}
	if !res.Suffocating {
		t.Fatal("expected suffocation")
	}
	if c.Amount[Oxygen] != 0 {
		t.Fatalf("oxygen = %.4f, want 0", c.Amount[Oxygen])
	}
	if c.Amount[CarbonDioxide] != 5 {
		t.Fatalf("carbon dioxide = %.4f, want 5", c.Amount[CarbonDioxide])
	}
	if res.Consumed != 5 {
		t.Fatalf("consumed = %.4f, want 5", res.Consumed)
	}
}

func TestBreatheConvertsOxygen(t *testing.T) {
	g := NewGrid(4, 4, 32)
	c, _ := g.Cell(1, 2)
	*c = SingleGas(Oxygen, 20, 293)

	// 40 + 0.5*32 = 56, floor(56/32) = 1; 70 + 16 = 86 -> 2.
	res, err := Breathe(g, 40, 70, 2, 0.5)
	if err != nil {
		t.Fatalf("breathe failed: %v", err)
	}
	if res.X != 1 || res.Y != 2 {
		t.Fatalf("breathed at (%d,%d), want (1,2)", res.X, res.Y)
	}
	if res.Suffocating {
		t.Fatal("unexpected suffocation")
	}
	if c.Amount[Oxygen] != 19 || c.Amount[CarbonDioxide] != 1 {
		t.Fatalf("unexpected mixture %+v", c.Amount)
	}
}

func TestBreatheOutsideGrid(t *testing.T) {
	g := NewGrid(2, 2, 32)
	_, err := Breathe(g, -100, 0, 1, 1)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected out of bounds error, got %v", err)
	}
}

func TestBreatherTracksSuffocation(t *testing.T) {
	g := NewGrid(3, 3, 32)
	g.Fill(SingleGas(Oxygen, 1, 293))
	b := &Breather{Name: "crew", Rate: 0.6}

	ev, err := b.Apply(g, DefaultPhysics(), 1)
	if err != nil || ev.Kind != EventNone || b.Suffocating() {
		t.Fatalf("first breath: event %v err %v suffocating %v", ev.Kind, err, b.Suffocating())
	}
	ev, err = b.Apply(g, DefaultPhysics(), 1)
	if err != nil {
		t.Fatalf("second breath failed: %v", err)
	}
	if ev.Kind != EventSuffocating || !b.Suffocating() {
		t.Fatalf("expected suffocation on second breath, got %v", ev.Kind)
	}
	b.MoveTo(64, 64)
	if _, err := b.Apply(g, DefaultPhysics(), 1); err != nil {
		t.Fatalf("breath after move failed: %v", err)
	}
	if b.Suffocating() || b.Last().X != 2 || b.Last().Y != 2 {
		t.Fatalf("unexpected breath after move: %+v", b.Last())
	}
}

func TestBreachRemovesAndClamps(t *testing.T) {
	g := NewGrid(3, 3, 32)
	c, _ := g.Cell(1, 1)
	c.Amount[Oxygen] = 1000

	b := &Breach{Name: "hull", X: 1, Y: 1, Species: Oxygen, Rate: 2000, Remaining: 10}
	ev, err := b.Apply(g, DefaultPhysics(), 0.5)
	if err != nil {
		t.Fatalf("breach failed: %v", err)
	}
	if ev.Kind != EventNone {
		t.Fatalf("unexpected event %v", ev.Kind)
	}
	if c.Amount[Oxygen] != 0 {
		t.Fatalf("oxygen = %.4f, want 0", c.Amount[Oxygen])
	}
	if math.Abs(b.Remaining-9.5) > 1e-12 {
		t.Fatalf("remaining = %.4f, want 9.5", b.Remaining)
	}
}

func TestBreachSealsAfterDuration(t *testing.T) {
	g := NewGrid(3, 3, 32)
	g.Fill(SingleGas(Oxygen, 100, 293))
	b := &Breach{Name: "hull", X: 0, Y: 0, Species: Oxygen, Rate: 10, Remaining: 1}

	ev, _ := b.Apply(g, DefaultPhysics(), 0.6)
	if ev.Kind != EventNone {
		t.Fatalf("breach sealed early")
	}
	ev, _ = b.Apply(g, DefaultPhysics(), 0.6)
	if ev.Kind != EventBreachSealed || b.Active() {
		t.Fatalf("expected seal, got %v active=%v", ev.Kind, b.Active())
	}
	if math.Abs(ev.Amount-4) > 1e-9 {
		t.Fatalf("last tick vented %.6f, want 4", ev.Amount)
	}
	c, _ := g.Cell(0, 0)
	amount := c.Amount[Oxygen]
	if math.Abs(amount-90) > 1e-9 {
		t.Fatalf("breach vented %.6f moles over its life, want 10", 100-amount)
	}
	if _, err := b.Apply(g, DefaultPhysics(), 1); err != nil {
		t.Fatalf("sealed breach apply failed: %v", err)
	}
	if c.Amount[Oxygen] != amount {
		t.Fatal("sealed breach kept venting")
	}
}

func TestBreachVentsOnlyRemainingTime(t *testing.T) {
	g := NewGrid(1, 1, 32)
	g.Fill(SingleGas(Oxygen, 100, 293))
	b := &Breach{Name: "crack", Species: Oxygen, Rate: 10, Remaining: 0.1}

	ev, err := b.Apply(g, DefaultPhysics(), 1)
	if err != nil {
		t.Fatalf("breach failed: %v", err)
	}
	c, _ := g.Cell(0, 0)
	if math.Abs(c.Amount[Oxygen]-99) > 1e-9 {
		t.Fatalf("oxygen = %.6f, want 99", c.Amount[Oxygen])
	}
	if ev.Kind != EventBreachSealed || math.Abs(ev.Amount-1) > 1e-9 {
		t.Fatalf("unexpected seal event %+v", ev)
	}
}

func TestBreachOutOfBounds(t *testing.T) {
	g := NewGrid(2, 2, 32)
	b := &Breach{X: 5, Y: 0, Species: Oxygen, Rate: 1, Remaining: 1}
	if _, err := b.Apply(g, DefaultPhysics(), 1); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected out of bounds error, got %v", err)
	}
}

func TestHeaterRaisesTemperature(t *testing.T) {
	g := NewGrid(2, 2, 32)
	g.Fill(SingleGas(Nitrogen, 10, 280))
	h := &Heater{Name: "coil", X: 1, Y: 0, Rate: 20, Remaining: 1}

	h.Apply(g, DefaultPhysics(), 0.5)
	ev, _ := h.Apply(g, DefaultPhysics(), 0.5)
	if ev.Kind != EventHeaterSpent {
		t.Fatalf("expected heater to be spent, got %v", ev.Kind)
	}
	h.Apply(g, DefaultPhysics(), 0.5)

	c, _ := g.Cell(1, 0)
	if c.Temperature != 300 {
		t.Fatalf("temperature = %.4f, want 300", c.Temperature)
	}
}
