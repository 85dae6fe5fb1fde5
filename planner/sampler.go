package planner

import "math/rand/v2"

// Random streams used by the growers. Each tree draws from its own stream so
// the two Bi-RRT trees can grow on separate goroutines and still reproduce.
const (
	streamRRT uint64 = iota
	streamStartTree
	streamGoalTree
)

// Sampler draws uniform configurations from the unit square
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler on the PCG stream identified by (seed, stream)
func NewSampler(seed, stream uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, stream))}
}

// Sample returns a point with independent uniform coordinates
func (s *Sampler) Sample() Point {
	x := s.rng.Float64()
	y := s.rng.Float64()
	return Point{X: x, Y: y}
}
