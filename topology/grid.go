package topology

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Bladieblah/pso"
)

// VonNeumann arranges the swarm on a toroidal rows-by-cols grid; each
// particle's neighbors are the four laterally adjacent cells with
// wrap-around.  When Rows and Cols are zero the most square factorization of
// the swarm size is chosen automatically (worst case 1-by-n); an explicit
// shape must factor the swarm size exactly.
type VonNeumann struct {
	Rows int
	Cols int
}

func (v *VonNeumann) NeighborBest(s *pso.Swarm) (*mat.Dense, []float64, error) {
	n := s.Len()
	rows, cols := v.Rows, v.Cols
	if rows == 0 && cols == 0 {
		for r := int(math.Sqrt(float64(n))); r >= 1; r-- {
			if n%r == 0 {
				rows, cols = r, n/r
				break
			}
		}
	}
	if rows*cols != n {
		return nil, nil, fmt.Errorf("%w: %vx%v grid cannot hold %v particles", pso.ErrTopology, rows, cols, n)
	}

	pos, cost := neighborBest(s, func(i int) []int {
		r, c := i/cols, i%cols
		up := ((r-1+rows)%rows)*cols + c
		down := ((r+1)%rows)*cols + c
		left := r*cols + (c-1+cols)%cols
		right := r*cols + (c+1)%cols
		return []int{up, down, left, right}
	})
	return pos, cost, nil
}

// Pyramid connects the swarm as a complete Branch-ary tree: the apex informs
// its children, every other particle informs its parent and children.
// Requires at least Branch+1 particles (the apex plus one full layer).
type Pyramid struct {
	// Branch is the fan-out per node; 3 when zero.
	Branch int
}

func (p *Pyramid) NeighborBest(s *pso.Swarm) (*mat.Dense, []float64, error) {
	n := s.Len()
	b := p.Branch
	if b <= 0 {
		b = 3
	}
	if n < b+1 {
		return nil, nil, fmt.Errorf("%w: pyramid with branch %v needs at least %v particles, have %v", pso.ErrTopology, b, b+1, n)
	}

	pos, cost := neighborBest(s, func(i int) []int {
		adj := make([]int, 0, b+1)
		if i > 0 {
			adj = append(adj, (i-1)/b)
		}
		for c := b*i + 1; c <= b*i+b && c < n; c++ {
			adj = append(adj, c)
		}
		return adj
	})
	return pos, cost, nil
}
