package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Jitter scales v by a uniform factor in [1-frac, 1+frac].
func (r *RNG) Jitter(v, frac float64) float64 {
	if frac <= 0 {
		return v
	}
	return v * (1 + frac*(2*r.r.Float64()-1))
}

