package topology

import (
	"fmt"
	"math"

	"github.com/petar/GoLLRB/llrb"
	"gonum.org/v1/gonum/mat"

	"github.com/Bladieblah/pso"
)

// Ring gives each particle a neighborhood of itself plus its K nearest other
// particles, measured by Minkowski distance of order P between personal-best
// positions.  With K = n-1 the scheme degenerates to Star.
type Ring struct {
	// K is the neighbor count, valid in [1, n-1].
	K int
	// P is the Minkowski distance order; 2 (euclidean) when zero.
	P float64
}

// NewRing returns a ring topology with k neighbors under Minkowski order p.
func NewRing(k int, p float64) *Ring {
	return &Ring{K: k, P: p}
}

type neighborItem struct {
	dist float64
	idx  int
}

func (a neighborItem) Less(b llrb.Item) bool {
	o := b.(neighborItem)
	if a.dist != o.dist {
		return a.dist < o.dist
	}
	return a.idx < o.idx
}

func (r *Ring) NeighborBest(s *pso.Swarm) (*mat.Dense, []float64, error) {
	n := s.Len()
	if r.K < 1 || r.K > n-1 {
		return nil, nil, fmt.Errorf("%w: ring neighbor count %v for swarm of %v", pso.ErrTopology, r.K, n)
	}
	p := r.P
	if p <= 0 {
		p = 2
	}

	// Candidates ordered by (distance, index) in an LLRB; ascending
	// traversal yields the k nearest with deterministic tie-breaking.
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		tree := llrb.New()
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			d := minkowski(s.PBestPos.RawRowView(i), s.PBestPos.RawRowView(j), p)
			tree.InsertNoReplace(neighborItem{dist: d, idx: j})
		}

		nearest := make([]int, 0, r.K)
		tree.AscendGreaterOrEqual(tree.Min(), func(item llrb.Item) bool {
			nearest = append(nearest, item.(neighborItem).idx)
			return len(nearest) < r.K
		})
		adj[i] = nearest
	}

	pos, cost := neighborBest(s, func(i int) []int { return adj[i] })
	return pos, cost, nil
}

func minkowski(a, b []float64, p float64) float64 {
	tot := 0.0
	for i := range a {
		tot += math.Pow(math.Abs(a[i]-b[i]), p)
	}
	return math.Pow(tot, 1/p)
}
