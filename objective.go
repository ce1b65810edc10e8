package pso

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Objectiver evaluates a full n-by-d position matrix and returns one cost per
// row.  The objective function must be framed so that lower values are
// better.  The returned slice must have length n; non-finite costs are
// rejected or folded to +infinity depending on the swarm's NaN policy.
type Objectiver interface {
	Objective(pos *mat.Dense) ([]float64, error)
}

// ObjectiveFunc adapts an ordinary function to the Objectiver interface.
type ObjectiveFunc func(pos *mat.Dense) ([]float64, error)

func (f ObjectiveFunc) Objective(pos *mat.Dense) ([]float64, error) { return f(pos) }

// Batch lifts a per-point cost function into the batched contract,
// evaluating rows serially.
func Batch(fn func(x []float64) float64) Objectiver {
	return ObjectiveFunc(func(pos *mat.Dense) ([]float64, error) {
		n, _ := pos.Dims()
		cost := make([]float64, n)
		for i := 0; i < n; i++ {
			cost[i] = fn(pos.RawRowView(i))
		}
		return cost, nil
	})
}

// ParallelBatch lifts a per-point cost function into the batched contract,
// evaluating up to workers rows concurrently.  The core never spawns
// goroutines itself; this adapter is the caller-side hook for parallel
// evaluation.  An error from any row cancels the remaining evaluations.
func ParallelBatch(fn func(x []float64) (float64, error), workers int) Objectiver {
	if workers < 1 {
		workers = 1
	}
	return ObjectiveFunc(func(pos *mat.Dense) ([]float64, error) {
		n, _ := pos.Dims()
		cost := make([]float64, n)
		var g errgroup.Group
		g.SetLimit(workers)
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error {
				v, err := fn(pos.RawRowView(i))
				cost[i] = v
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return cost, nil
	})
}

// ObjectivePrinter wraps an Objectiver and prints the best cost of every
// batch it evaluates along with a running call count.
type ObjectivePrinter struct {
	Objectiver
	Count int
}

func NewObjectivePrinter(obj Objectiver) *ObjectivePrinter {
	return &ObjectivePrinter{Objectiver: obj}
}

func (op *ObjectivePrinter) Objective(pos *mat.Dense) ([]float64, error) {
	cost, err := op.Objectiver.Objective(pos)

	op.Count++
	best := 0
	for i := range cost {
		if cost[i] < cost[best] {
			best = i
		}
	}
	if len(cost) > 0 {
		fmt.Println(op.Count, mat.Formatted(pos.RowView(best).T()), "    ", cost[best])
	}

	return cost, err
}
