package gas

import "math/bits"

// SolverParams tunes the relaxation solver. The iteration counts are fixed
// per step; they are not derived from convergence.
type SolverParams struct {
	TemperatureRate       float64 `yaml:"temperature_rate"`
	MolarRate             float64 `yaml:"molar_rate"`
	TemperatureIterations int     `yaml:"temperature_iterations"`
	MolarIterations       int     `yaml:"molar_iterations"`
}

// DefaultSolverParams returns the tuned defaults.
func DefaultSolverParams() SolverParams {
	return SolverParams{
		TemperatureRate:       0.0006,
		MolarRate:             0.005,
		TemperatureIterations: 30,
		MolarIterations:       50,
	}
}

// open-side bits, one per axis neighbour.
const (
	sideLeft uint8 = 1 << iota
	sideRight
	sideUp
	sideDown
)

// Solver advances temperature and molar amounts with an implicit
// Gauss-Seidel relaxation (Stam, "Real-Time Fluid Dynamics for Games").
// Buffers are reused between steps.
type Solver struct {
	Params SolverParams

	x0    []Mixture
	x     []Mixture
	sides []uint8
}

// NewSolver constructs a solver with the given parameters.
func NewSolver(p SolverParams) *Solver {
	return &Solver{Params: p}
}

// Step diffuses the grid by dt seconds. Sides that face the grid edge or a
// wall carry no flux.
func (s *Solver) Step(g *Grid, dt float64) {
	if dt <= 0 || len(g.cells) == 0 {
		return
	}
	s.snapshot(g)

	a := dt * s.Params.TemperatureRate * float64(g.W*g.H)
	for k := 0; k < s.Params.TemperatureIterations; k++ {
		for x := 0; x < g.W; x++ {
			for y := 0; y < g.H; y++ {
				s.relaxTemperature(g.W, g.Index(x, y), a)
			}
		}
	}

	a = dt * s.Params.MolarRate
	for k := 0; k < s.Params.MolarIterations; k++ {
		for x := 0; x < g.W; x++ {
			for y := 0; y < g.H; y++ {
				idx := g.Index(x, y)
				for sp := 0; sp < SpeciesCount; sp++ {
					s.relaxMoles(g.W, idx, a, sp)
				}
			}
		}
	}

	copy(g.cells, s.x)
}

func (s *Solver) snapshot(g *Grid) {
	n := len(g.cells)
	if cap(s.x0) < n {
		s.x0 = make([]Mixture, n)
		s.x = make([]Mixture, n)
		s.sides = make([]uint8, n)
	}
	s.x0 = s.x0[:n]
	s.x = s.x[:n]
	s.sides = s.sides[:n]
	copy(s.x0, g.cells)
	copy(s.x, g.cells)

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			var m uint8
			if !g.Walls.Blocked(x-1, y) {
				m |= sideLeft
			}
			if !g.Walls.Blocked(x+1, y) {
				m |= sideRight
			}
			if !g.Walls.Blocked(x, y-1) {
				m |= sideUp
			}
			if !g.Walls.Blocked(x, y+1) {
				m |= sideDown
			}
			s.sides[g.Index(x, y)] = m
		}
	}
}

func (s *Solver) relaxTemperature(w, idx int, a float64) {
	open := s.sides[idx]
	v := s.x0[idx].Temperature
	if open&sideLeft != 0 {
		v += a * s.x[idx-1].Temperature
	}
	if open&sideRight != 0 {
		v += a * s.x[idx+1].Temperature
	}
	if open&sideUp != 0 {
		v += a * s.x[idx-w].Temperature
	}
	if open&sideDown != 0 {
		v += a * s.x[idx+w].Temperature
	}
	v /= 1 + float64(bits.OnesCount8(open))*a
	s.x[idx].Temperature = v
}

// relaxMoles weights each neighbour's contribution by its temperature, which
// couples transport to thermal energy. The scheme does not strictly
// conserve moles for unconverged iterates.
func (s *Solver) relaxMoles(w, idx int, a float64, sp int) {
	open := s.sides[idx]
	v := s.x0[idx].Amount[sp]
	if open&sideLeft != 0 {
		n := &s.x[idx-1]
		v += a * n.Amount[sp] * n.Temperature
	}
	if open&sideRight != 0 {
		n := &s.x[idx+1]
		v += a * n.Amount[sp] * n.Temperature
	}
	if open&sideUp != 0 {
		n := &s.x[idx-w]
		v += a * n.Amount[sp] * n.Temperature
	}
	if open&sideDown != 0 {
		n := &s.x[idx+w]
		v += a * n.Amount[sp] * n.Temperature
	}
	v /= 1 + float64(bits.OnesCount8(open))*a*s.x[idx].Temperature
	s.x[idx].Amount[sp] = v
}
