package gas

import "math"

// EventKind classifies what an interaction observed during a tick.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventSuffocating
	EventBreachSealed
	EventVesselFull
	EventVesselEmpty
	EventHeaterSpent
)

func (k EventKind) String() string {
	switch k {
	case EventSuffocating:
		return "suffocating"
	case EventBreachSealed:
		return "breach_sealed"
	case EventVesselFull:
		return "vessel_full"
	case EventVesselEmpty:
		return "vessel_empty"
	case EventHeaterSpent:
		return "heater_spent"
	default:
		return "none"
	}
}

// Event is a gameplay-relevant signal raised by an interaction.
type Event struct {
	Kind   EventKind
	Source string
	X, Y   int
	Amount float64
}

// Interaction is a localized read-modify-write against grid cells. All
// interactions of a tick run after diffusion and before the clamp pass.
type Interaction interface {
	Apply(g *Grid, p Physics, dt float64) (Event, error)
}

// Breach vents one species out of a cell for a limited time.
type Breach struct {
	Name      string
	X, Y      int
	Species   Species
	Rate      float64 // moles per second
	Remaining float64 // seconds left before the breach seals itself
}

// Active reports whether the breach is still venting.
func (b *Breach) Active() bool { return b.Remaining > 0 }

// Seal stops the breach immediately.
func (b *Breach) Seal() { b.Remaining = 0 }

// Apply removes Rate*dt moles from the breached cell. The last tick only
// vents for the time the breach had left.
func (b *Breach) Apply(g *Grid, p Physics, dt float64) (Event, error) {
	if !b.Active() {
		return Event{}, nil
	}
	cell, err := g.Cell(b.X, b.Y)
	if err != nil {
		return Event{}, err
	}
	open := math.Min(dt, b.Remaining)
	before := cell.Amount[b.Species]
	cell.Amount[b.Species] = clampAmount(before-b.Rate*open, p.MaxAmount)
	b.Remaining -= open
	if b.Remaining <= 0 {
		b.Remaining = 0
		return Event{Kind: EventBreachSealed, Source: b.Name, X: b.X, Y: b.Y, Amount: before - cell.Amount[b.Species]}, nil
	}
	return Event{}, nil
}

// BreathResult describes one breath.
type BreathResult struct {
	X, Y        int
	Consumed    float64
	Suffocating bool
}

// Breathe converts rate*dt moles of oxygen into carbon dioxide in the cell
// nearest to (px, py). When the cell holds less oxygen than requested, the
// remainder is consumed and the result is flagged as suffocating.
func Breathe(g *Grid, px, py, rate, dt float64) (BreathResult, error) {
	cell, x, y, err := g.CellAt(px, py)
	if err != nil {
		return BreathResult{X: x, Y: y}, err
	}
	res := BreathResult{X: x, Y: y}
	want := rate * dt
	have := cell.Amount[Oxygen]
	if have >= want {
		cell.Amount[Oxygen] = have - want
		cell.Amount[CarbonDioxide] += want
		res.Consumed = want
		return res, nil
	}
	cell.Amount[Oxygen] = 0
	cell.Amount[CarbonDioxide] += have
	res.Consumed = have
	res.Suffocating = true
	return res, nil
}

// Breather is a player or crew member consuming oxygen at a world position.
type Breather struct {
	Name string
	X, Y float64
	Rate float64 // moles of oxygen per second

	last BreathResult
}

// MoveTo updates the breather's world position.
func (b *Breather) MoveTo(x, y float64) {
	b.X = x
	b.Y = y
}

// Suffocating reports the outcome of the most recent breath.
func (b *Breather) Suffocating() bool { return b.last.Suffocating }

// Last returns the most recent breath.
func (b *Breather) Last() BreathResult { return b.last }

// Apply breathes once.
func (b *Breather) Apply(g *Grid, _ Physics, dt float64) (Event, error) {
	res, err := Breathe(g, b.X, b.Y, b.Rate, dt)
	if err != nil {
		return Event{}, err
	}
	b.last = res
	if res.Suffocating {
		return Event{Kind: EventSuffocating, Source: b.Name, X: res.X, Y: res.Y, Amount: res.Consumed}, nil
	}
	return Event{}, nil
}

// Heater raises the temperature of a cell for a limited time.
type Heater struct {
	Name      string
	X, Y      int
	Rate      float64 // kelvin per second
	Remaining float64
}

// Apply adds Rate*dt kelvin to the heated cell while time remains.
func (h *Heater) Apply(g *Grid, _ Physics, dt float64) (Event, error) {
	if h.Remaining <= 0 {
		return Event{}, nil
	}
	cell, err := g.Cell(h.X, h.Y)
	if err != nil {
		return Event{}, err
	}
	cell.Temperature += h.Rate * dt
	h.Remaining -= dt
	if h.Remaining <= 0 {
		h.Remaining = 0
		return Event{Kind: EventHeaterSpent, Source: h.Name, X: h.X, Y: h.Y}, nil
	}
	return Event{}, nil
}
