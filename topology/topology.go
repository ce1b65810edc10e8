// Package topology provides the neighborhood schemes that feed the social
// term of the velocity update: star, ring, von Neumann, pyramid, and random.
//
// Every scheme implements pso.Topology and computes one neighborhood-best
// position and cost per particle, purely from the swarm's personal-best
// data.  Ties are broken by the lowest particle index.
package topology

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Bladieblah/pso"
)

// Star is the all-to-all scheme: every particle's neighborhood is the entire
// swarm, so the neighborhood best equals the global best for all particles.
type Star struct{}

func (Star) NeighborBest(s *pso.Swarm) (*mat.Dense, []float64, error) {
	bp, bc := s.Best()
	n, d := s.Len(), s.Dims()
	pos := mat.NewDense(n, d, nil)
	cost := make([]float64, n)
	for i := 0; i < n; i++ {
		pos.SetRow(i, bp)
		cost[i] = bc
	}
	return pos, cost, nil
}

// neighborBest assembles the per-particle best over each particle's neighbor
// index set.  neighbors(i) need not include i; the particle itself is always
// part of its own neighborhood.  Ties go to the lowest index.
func neighborBest(s *pso.Swarm, neighbors func(i int) []int) (*mat.Dense, []float64) {
	n, d := s.Len(), s.Dims()
	pos := mat.NewDense(n, d, nil)
	cost := make([]float64, n)
	for i := 0; i < n; i++ {
		best := i
		for _, j := range neighbors(i) {
			if s.PBestCost[j] < s.PBestCost[best] ||
				(s.PBestCost[j] == s.PBestCost[best] && j < best) {
				best = j
			}
		}
		pos.SetRow(i, s.PBestPos.RawRowView(best))
		cost[i] = s.PBestCost[best]
	}
	return pos, cost
}
