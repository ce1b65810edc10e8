package pso

import "gonum.org/v1/gonum/mat"

// Topology computes, for each particle, the neighborhood-best position and
// cost used in the social term of the velocity update.
//
// NeighborBest returns an n-by-d position matrix and a length-n cost vector,
// one best per particle, computed purely from the swarm's personal-best data.
// Implementations with randomized adjacency must be deterministic given a
// fixed seed.  A nil Topology on the Optimizer means the star scheme: every
// particle's neighborhood is the entire swarm.
type Topology interface {
	NeighborBest(s *Swarm) (pos *mat.Dense, cost []float64, err error)
}
