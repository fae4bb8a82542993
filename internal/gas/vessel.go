package gas

// MachineSlots is the number of canisters a canister machine holds.
const MachineSlots = 4

// Canister is a sealed gas reservoir separate from the grid.
type Canister struct {
	Name        string
	Gases       Mixture
	Volume      float64
	MaxPressure float64
}

// DefaultCanister returns an oxygen canister at room temperature.
func DefaultCanister() Canister {
	return Canister{
		Name:        "canister",
		Gases:       SingleGas(Oxygen, 500, 293),
		Volume:      0.5,
		MaxPressure: 10,
	}
}

// FillRatio is the canister's total pressure over its rated maximum.
func (c *Canister) FillRatio(p Physics) float64 {
	if c.MaxPressure <= 0 || c.Volume <= 0 {
		return 0
	}
	return TotalPressureIn(c.Gases, p.GasConstant, c.Volume) / c.MaxPressure
}

// PercentFull is FillRatio scaled to a percentage.
func (c *Canister) PercentFull(p Physics) float64 { return c.FillRatio(p) * 100 }

// Machine holds a fixed bank of canisters.
type Machine struct {
	Name      string
	Canisters [MachineSlots]Canister
}

// FillRatios returns the fill ratio of every slot.
func (m *Machine) FillRatios(p Physics) [MachineSlots]float64 {
	var out [MachineSlots]float64
	for i := range m.Canisters {
		out[i] = m.Canisters[i].FillRatio(p)
	}
	return out
}

// LabelState picks which of states gauge frames represents ratio. Ratios at
// or below zero map to the first frame; ratios above one saturate.
func LabelState(ratio float64, states int) int {
	for i := states - 1; i >= 0; i-- {
		if ratio > float64(i)/float64(states) {
			return i
		}
	}
	return 0
}

// PortMode selects the direction of a vessel port.
type PortMode uint8

const (
	PortClosed PortMode = iota
	PortRelease
	PortFill
)

func (m PortMode) String() string {
	switch m {
	case PortRelease:
		return "release"
	case PortFill:
		return "fill"
	default:
		return "closed"
	}
}

// VesselPort connects a canister to one grid cell and moves a single
// species between them at a fixed rate.
type VesselPort struct {
	Name     string
	Canister *Canister
	X, Y     int
	Species  Species
	Rate     float64 // moles per second
	Mode     PortMode
}

// Apply transfers up to Rate*dt moles. Filling stops once the canister
// reaches its rated pressure.
func (v *VesselPort) Apply(g *Grid, p Physics, dt float64) (Event, error) {
	if v.Mode == PortClosed || v.Canister == nil {
		return Event{}, nil
	}
	cell, err := g.Cell(v.X, v.Y)
	if err != nil {
		return Event{}, err
	}
	want := v.Rate * dt
	switch v.Mode {
	case PortRelease:
		moved := v.Canister.Gases.Remove(v.Species, want)
		cell.Add(v.Species, moved, v.Canister.Gases.Temperature)
		if moved > 0 && v.Canister.Gases.Amount[v.Species] <= 0 {
			return Event{Kind: EventVesselEmpty, Source: v.Name, X: v.X, Y: v.Y, Amount: moved}, nil
		}
	case PortFill:
		room := v.Canister.room(p, cell.Temperature)
		if room <= 0 {
			return Event{Kind: EventVesselFull, Source: v.Name, X: v.X, Y: v.Y}, nil
		}
		capped := want >= room
		if capped {
			want = room
		}
		moved := cell.Remove(v.Species, want)
		v.Canister.Gases.Add(v.Species, moved, cell.Temperature)
		if capped && moved >= want {
			return Event{Kind: EventVesselFull, Source: v.Name, X: v.X, Y: v.Y, Amount: moved}, nil
		}
	}
	return Event{}, nil
}

// room is how many moles at temperature t the canister accepts before it
// reaches MaxPressure. Mixing is mole-weighted, so pressure grows by
// R*t/Volume per mole added.
func (c *Canister) room(p Physics, t float64) float64 {
	if c.Volume <= 0 || c.MaxPressure <= 0 || t <= 0 || p.GasConstant <= 0 {
		return 0
	}
	head := c.MaxPressure - TotalPressureIn(c.Gases, p.GasConstant, c.Volume)
	if head <= 0 {
		return 0
	}
	return head * c.Volume / (p.GasConstant * t)
}
