package pso

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Swarm is the mutable numeric state of one optimization run: the position
// and velocity of every particle along with the best point each particle has
// visited.  All matrices are n-by-d.  A Swarm is created once per run,
// mutated in place every iteration, and never shared between runs.
type Swarm struct {
	n   int
	dim int

	Pos       *mat.Dense
	Vel       *mat.Dense
	Cost      []float64
	PBestPos  *mat.Dense
	PBestCost []float64

	space       *SearchSpace
	uniformVel  bool
	tolerateNaN bool
	initPos     *mat.Dense
}

// SwarmOption configures swarm initialization.
type SwarmOption func(*Swarm)

// UniformVelocity samples initial velocities uniformly in
// [-(upper-lower), upper-lower] per dimension instead of starting at rest.
func UniformVelocity() SwarmOption {
	return func(s *Swarm) { s.uniformVel = true }
}

// TolerateNaN treats NaN objective values as +infinity instead of failing
// the evaluation.
func TolerateNaN() SwarmOption {
	return func(s *Swarm) { s.tolerateNaN = true }
}

// InitPositions seeds the swarm at the given n-by-d positions instead of
// sampling them uniformly within bounds.
func InitPositions(pos *mat.Dense) SwarmOption {
	return func(s *Swarm) { s.initPos = pos }
}

// NewSwarm creates a swarm of n particles in dim dimensions.  Positions are
// sampled uniformly within space (or in [0,1) per dimension when space is
// nil), velocities start at rest unless UniformVelocity is given, and
// personal-best costs start at +infinity.  rng is the run's random stream.
func NewSwarm(n, dim int, space *SearchSpace, rng *rand.Rand, opts ...SwarmOption) (*Swarm, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: swarm size %v", ErrConfig, n)
	}
	if dim < 1 {
		return nil, fmt.Errorf("%w: dimensions %v", ErrConfig, dim)
	}
	if space != nil && space.Dims() != dim {
		return nil, fmt.Errorf("%w: bounds have %v dimensions, want %v", ErrConfig, space.Dims(), dim)
	}

	s := &Swarm{
		n:         n,
		dim:       dim,
		Pos:       mat.NewDense(n, dim, nil),
		Vel:       mat.NewDense(n, dim, nil),
		Cost:      make([]float64, n),
		PBestPos:  mat.NewDense(n, dim, nil),
		PBestCost: make([]float64, n),
		space:     space,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.initPos != nil {
		if r, c := s.initPos.Dims(); r != n || c != dim {
			return nil, fmt.Errorf("%w: initial positions are %vx%v, want %vx%v", ErrConfig, r, c, n, dim)
		}
	}

	s.sample(rng)
	return s, nil
}

// sample (re)draws positions and velocities and clears all bests.
func (s *Swarm) sample(rng *rand.Rand) {
	for i := 0; i < s.n; i++ {
		pos := s.Pos.RawRowView(i)
		vel := s.Vel.RawRowView(i)
		for j := 0; j < s.dim; j++ {
			low, span := 0.0, 1.0
			if s.space != nil {
				low, span = s.space.Lower[j], s.space.Span(j)
			}
			if s.initPos != nil {
				pos[j] = s.initPos.At(i, j)
			} else {
				pos[j] = low + rng.Float64()*span
			}
			if s.uniformVel {
				vel[j] = span * (1 - 2*rng.Float64())
			} else {
				vel[j] = 0
			}
		}
		s.Cost[i] = math.Inf(1)
		s.PBestCost[i] = math.Inf(1)
	}
	s.PBestPos.Copy(s.Pos)
}

// Reset redraws the swarm for reuse in a fresh run.
func (s *Swarm) Reset(rng *rand.Rand) { s.sample(rng) }

// Len returns the number of particles.
func (s *Swarm) Len() int { return s.n }

// Dims returns the dimensionality of the search space.
func (s *Swarm) Dims() int { return s.dim }

// Space returns the swarm's search space, nil when unbounded.
func (s *Swarm) Space() *SearchSpace { return s.space }

// Evaluate calls the objective once with the full position matrix and stores
// the returned costs.  The swarm is left untouched when the objective errors,
// returns the wrong number of costs, or returns disallowed non-finite values.
func (s *Swarm) Evaluate(obj Objectiver) error {
	cost, err := obj.Objective(s.Pos)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrObjective, err)
	}
	if len(cost) != s.n {
		return fmt.Errorf("%w: got %v costs for %v particles", ErrObjective, len(cost), s.n)
	}
	for i, c := range cost {
		if math.IsNaN(c) {
			if !s.tolerateNaN {
				return fmt.Errorf("%w: cost %v is NaN", ErrObjective, i)
			}
			cost[i] = math.Inf(1)
		} else if math.IsInf(c, -1) {
			return fmt.Errorf("%w: cost %v is -Inf", ErrObjective, i)
		}
	}
	copy(s.Cost, cost)
	return nil
}

// UpdatePersonalBest replaces each particle's best position and cost with its
// current ones wherever the current cost improves on the best.
func (s *Swarm) UpdatePersonalBest() {
	for i := 0; i < s.n; i++ {
		if s.Cost[i] < s.PBestCost[i] {
			s.PBestCost[i] = s.Cost[i]
			s.PBestPos.SetRow(i, s.Pos.RawRowView(i))
		}
	}
}

// Best returns the single best position and cost across the whole swarm, the
// argmin over personal-best costs.  The returned slice is a copy.
func (s *Swarm) Best() (pos []float64, cost float64) {
	best := 0
	for i := 1; i < s.n; i++ {
		if s.PBestCost[i] < s.PBestCost[best] {
			best = i
		}
	}
	return append([]float64{}, s.PBestPos.RawRowView(best)...), s.PBestCost[best]
}

// MeanPBestCost returns the average personal-best cost over the swarm.
func (s *Swarm) MeanPBestCost() float64 {
	tot := 0.0
	for _, c := range s.PBestCost {
		tot += c
	}
	return tot / float64(s.n)
}
