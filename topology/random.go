package topology

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/Bladieblah/pso"
)

// Random gives each particle K distinct randomly chosen neighbors besides
// itself.  The adjacency is regenerated every Interval calls from the
// topology's own seeded stream, so runs with a fixed seed are deterministic.
type Random struct {
	k        int
	interval int
	rng      *rand.Rand

	adj   [][]int
	built int
	calls int
}

// NewRandom returns a random topology with k neighbors per particle that
// redraws its adjacency every interval iterations (every iteration when
// interval < 2).
func NewRandom(k, interval int, seed int64) *Random {
	if interval < 1 {
		interval = 1
	}
	return &Random{
		k:        k,
		interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (r *Random) NeighborBest(s *pso.Swarm) (*mat.Dense, []float64, error) {
	n := s.Len()
	if r.k < 1 || r.k > n-1 {
		return nil, nil, fmt.Errorf("%w: random neighbor count %v for swarm of %v", pso.ErrTopology, r.k, n)
	}

	if r.adj == nil || r.built != n || r.calls%r.interval == 0 {
		r.rebuild(n)
	}
	r.calls++

	pos, cost := neighborBest(s, func(i int) []int { return r.adj[i] })
	return pos, cost, nil
}

func (r *Random) rebuild(n int) {
	r.adj = make([][]int, n)
	r.built = n
	for i := 0; i < n; i++ {
		picks := make([]int, 0, r.k)
		for _, j := range r.rng.Perm(n) {
			if j == i {
				continue
			}
			picks = append(picks, j)
			if len(picks) == r.k {
				break
			}
		}
		r.adj[i] = picks
	}
}
