package stream

import (
	"encoding/json"

	"station-atmos/internal/gas"
)

// EventMessage is the wire form of a gas event.
type EventMessage struct {
	Kind   string  `json:"kind"`
	Source string  `json:"source,omitempty"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Amount float64 `json:"amount,omitempty"`
}

// Frame is one tick of gas state as sent to viewers.
type Frame struct {
	Type     string             `json:"type"`
	Tick     uint64             `json:"tick"`
	Elapsed  float64            `json:"elapsed"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	Totals   map[string]float64 `json:"totals"`
	Pressure []float32          `json:"pressure"`
	Walls    []bool             `json:"walls"`
	Events   []EventMessage     `json:"events,omitempty"`
}

// NewFrame captures the grid after a tick.
func NewFrame(tick uint64, elapsed float64, g *gas.Grid, p gas.Physics, events []gas.Event) Frame {
	totals := g.Totals()
	f := Frame{
		Type:     "frame",
		Tick:     tick,
		Elapsed:  elapsed,
		Width:    g.W,
		Height:   g.H,
		Totals:   make(map[string]float64, gas.SpeciesCount),
		Pressure: make([]float32, len(g.Cells())),
		Walls:    append([]bool(nil), g.Walls.Cells()...),
	}
	for _, s := range gas.AllSpecies() {
		if s == gas.None {
			continue
		}
		f.Totals[s.String()] = totals[s]
	}
	for i, m := range g.Cells() {
		f.Pressure[i] = p.TotalPressure(m)
	}
	for _, ev := range events {
		f.Events = append(f.Events, EventMessage{
			Kind: ev.Kind.String(), Source: ev.Source, X: ev.X, Y: ev.Y, Amount: ev.Amount,
		})
	}
	return f
}

// Encode marshals the frame as JSON.
func (f Frame) Encode() ([]byte, error) { return json.Marshal(f) }
