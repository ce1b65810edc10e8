package pso_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Bladieblah/pso"
	"github.com/Bladieblah/pso/topology"
)

// Scenario: minimize the 2-D sphere function with the star scheme.  The
// final best must land within 1e-3 of the optimum cost and within 0.1 of the
// origin.
func TestSphereScenario(t *testing.T) {
	opt, err := pso.New(20, 2,
		pso.Bounds([]float64{-10, -10}, []float64{10, 10}),
		pso.WithOptions(pso.Options{W: 0.5, C1: 0.5, C2: 0.3}),
		pso.MaxIter(100),
		pso.Seed(1),
	)
	require.NoError(t, err)

	res, err := opt.Run(context.Background(), pso.Batch(sphere))
	require.NoError(t, err)

	assert.Less(t, res.BestCost, 1e-3)
	for i, x := range res.BestPos {
		assert.InDelta(t, 0, x, 0.1, "best position dimension %v", i)
	}
	assert.Equal(t, pso.Exhausted, res.State)
	assert.Equal(t, 100, res.Iters)
	assert.Equal(t, 100, res.History.Len())
}

func runSphere(t *testing.T, opts ...pso.Option) *pso.Result {
	t.Helper()
	all := append([]pso.Option{
		pso.Bounds([]float64{-10, -10}, []float64{10, 10}),
		pso.MaxIter(50),
		pso.Seed(99),
	}, opts...)
	opt, err := pso.New(20, 2, all...)
	require.NoError(t, err)
	res, err := opt.Run(context.Background(), pso.Batch(sphere))
	require.NoError(t, err)
	return res
}

// With a fixed seed, two runs with identical configuration and objective
// produce bit-identical convergence histories.
func TestDeterminism(t *testing.T) {
	a := runSphere(t)
	b := runSphere(t)

	assert.Equal(t, a.BestCost, b.BestCost)
	assert.Equal(t, a.BestPos, b.BestPos)
	assert.Equal(t, a.History.BestCosts(), b.History.BestCosts())
}

// The default nil topology is the star scheme; configuring topology.Star
// explicitly must not change a single bit of the run.
func TestDefaultTopologyIsStar(t *testing.T) {
	a := runSphere(t)
	b := runSphere(t, pso.WithTopology(topology.Star{}))

	assert.Equal(t, a.History.BestCosts(), b.History.BestCosts())
	assert.Equal(t, a.BestPos, b.BestPos)
}

// Global best cost is non-increasing across iterations.
func TestGlobalBestMonotone(t *testing.T) {
	res := runSphere(t, pso.WithSwarm(pso.UniformVelocity()))
	costs := res.History.BestCosts()
	for i := 1; i < len(costs); i++ {
		assert.LessOrEqual(t, costs[i], costs[i-1], "iteration %v", i)
	}
}

// Personal-best cost for each particle is non-increasing across iterations.
// The objective wrapper observes the swarm between iterations, right before
// each evaluation.
func TestPersonalBestMonotone(t *testing.T) {
	opt, err := pso.New(10, 2,
		pso.Bounds([]float64{-10, -10}, []float64{10, 10}),
		pso.MaxIter(30),
		pso.Seed(5),
		pso.WithSwarm(pso.UniformVelocity()),
	)
	require.NoError(t, err)

	var prev []float64
	obj := pso.ObjectiveFunc(func(pos *mat.Dense) ([]float64, error) {
		cur := append([]float64{}, opt.Swarm().PBestCost...)
		if prev != nil {
			for i := range cur {
				assert.LessOrEqual(t, cur[i], prev[i], "particle %v personal best regressed", i)
			}
		}
		prev = cur
		return pso.Batch(sphere).Objective(pos)
	})

	_, err = opt.Run(context.Background(), obj)
	require.NoError(t, err)
}

// Every particle position after any completed iteration lies within bounds.
func TestPositionsStayInBounds(t *testing.T) {
	space, err := pso.NewSearchSpace([]float64{-2, -2}, []float64{2, 2})
	require.NoError(t, err)

	opt, err := pso.New(15, 2,
		pso.Bounds(space.Lower, space.Upper),
		pso.MaxIter(40),
		pso.Seed(11),
		pso.WithSwarm(pso.UniformVelocity()),
		pso.RecordSnapshots(),
	)
	require.NoError(t, err)

	res, err := opt.Run(context.Background(), pso.Batch(sphere))
	require.NoError(t, err)

	for i := 0; i < res.History.Len(); i++ {
		snap := res.History.At(i)
		require.NotNil(t, snap.Pos)
		n, _ := snap.Pos.Dims()
		for p := 0; p < n; p++ {
			assert.True(t, space.Contains(snap.Pos.RawRowView(p)),
				"iteration %v particle %v out of bounds: %v", snap.Iter, p, snap.Pos.RawRowView(p))
		}
	}
}

func TestNewConfigErrors(t *testing.T) {
	_, err := pso.New(10, 2, pso.Bounds([]float64{1, 1}, []float64{0, 0}))
	assert.ErrorIs(t, err, pso.ErrConfig, "lower above upper")

	_, err = pso.New(10, 2, pso.Bounds([]float64{0}, []float64{1}))
	assert.ErrorIs(t, err, pso.ErrConfig, "bounds dimension mismatch")

	_, err = pso.New(10, 2, pso.MaxIter(0))
	assert.ErrorIs(t, err, pso.ErrConfig, "zero iteration budget")

	_, err = pso.New(0, 2)
	assert.ErrorIs(t, err, pso.ErrConfig, "no particles")

	_, err = pso.New(10, 2, pso.WithBoundaryHandler(
		func(pos, prev *mat.Dense, space *pso.SearchSpace, rng *rand.Rand) {}))
	assert.ErrorIs(t, err, pso.ErrConfig, "boundary handler without bounds")
}

func TestObjectiveErrorHaltsRun(t *testing.T) {
	opt, err := pso.New(5, 1,
		pso.Bounds([]float64{0}, []float64{1}),
		pso.Seed(2),
	)
	require.NoError(t, err)

	_, err = opt.Run(context.Background(), pso.ObjectiveFunc(func(pos *mat.Dense) ([]float64, error) {
		return []float64{1}, nil // wrong length
	}))
	assert.ErrorIs(t, err, pso.ErrObjective)
	assert.Equal(t, pso.Finalized, opt.State())
}

func TestRunAfterFinalized(t *testing.T) {
	opt, err := pso.New(5, 1,
		pso.Bounds([]float64{0}, []float64{1}),
		pso.MaxIter(3),
		pso.Seed(2),
	)
	require.NoError(t, err)

	first, err := opt.Run(context.Background(), pso.Batch(sphere))
	require.NoError(t, err)
	assert.Equal(t, pso.Finalized, opt.State())

	_, err = opt.Run(context.Background(), pso.Batch(sphere))
	assert.ErrorIs(t, err, pso.ErrState)

	// Reset reseeds the stream, so the rerun reproduces the first run.
	opt.Reset()
	assert.Equal(t, pso.Initialized, opt.State())
	second, err := opt.Run(context.Background(), pso.Batch(sphere))
	require.NoError(t, err)
	assert.Equal(t, first.History.BestCosts(), second.History.BestCosts())
}

func TestStagnationConverges(t *testing.T) {
	opt, err := pso.New(5, 1,
		pso.Bounds([]float64{0}, []float64{1}),
		pso.MaxIter(1000),
		pso.FTol(1e-8, 5),
		pso.Seed(2),
	)
	require.NoError(t, err)

	// constant objective: no improvement is ever possible
	res, err := opt.Run(context.Background(), pso.Batch(func(x []float64) float64 { return 42 }))
	require.NoError(t, err)

	assert.Equal(t, pso.Converged, res.State)
	assert.Less(t, res.Iters, 1000)
	assert.Equal(t, 42.0, res.BestCost)
}

func TestCancellation(t *testing.T) {
	opt, err := pso.New(5, 1,
		pso.Bounds([]float64{0}, []float64{1}),
		pso.MaxIter(100000),
		pso.Seed(2),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	iters := 0
	res, err := opt.Run(ctx, pso.ObjectiveFunc(func(pos *mat.Dense) ([]float64, error) {
		iters++
		if iters == 10 {
			cancel()
		}
		return pso.Batch(sphere).Objective(pos)
	}))

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	// cancel lands at an iteration boundary: iteration 10 completes, 11 never starts
	assert.Equal(t, 10, res.Iters)
	assert.False(t, math.IsInf(res.BestCost, 1))
	assert.Equal(t, pso.Finalized, opt.State())
}

func TestAdaptiveOptionsSchedule(t *testing.T) {
	var seen []int
	opt, err := pso.New(5, 1,
		pso.Bounds([]float64{0}, []float64{1}),
		pso.MaxIter(4),
		pso.Seed(2),
		pso.AdaptiveOptions(func(iter, total int) pso.Options {
			seen = append(seen, iter)
			assert.Equal(t, 4, total)
			return pso.DefaultOptions()
		}),
	)
	require.NoError(t, err)

	_, err = opt.Run(context.Background(), pso.Batch(sphere))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
}
