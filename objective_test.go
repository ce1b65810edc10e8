package pso_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Bladieblah/pso"
)

func sphere(x []float64) float64 {
	tot := 0.0
	for _, v := range x {
		tot += v * v
	}
	return tot
}

func TestBatch(t *testing.T) {
	pos := mat.NewDense(3, 2, []float64{
		0, 0,
		1, 2,
		3, 4,
	})
	cost, err := pso.Batch(sphere).Objective(pos)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5, 25}, cost)
}

func TestParallelBatchMatchesBatch(t *testing.T) {
	pos := mat.NewDense(16, 3, nil)
	for i := 0; i < 16; i++ {
		pos.SetRow(i, []float64{float64(i), float64(i) / 2, -float64(i)})
	}

	serial, err := pso.Batch(sphere).Objective(pos)
	require.NoError(t, err)

	parallel, err := pso.ParallelBatch(func(x []float64) (float64, error) {
		return sphere(x), nil
	}, 4).Objective(pos)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestParallelBatchError(t *testing.T) {
	boom := errors.New("boom")
	_, err := pso.ParallelBatch(func(x []float64) (float64, error) {
		if x[0] > 2 {
			return 0, boom
		}
		return sphere(x), nil
	}, 2).Objective(mat.NewDense(8, 1, []float64{0, 1, 2, 3, 4, 5, 6, 7}))
	assert.ErrorIs(t, err, boom)
}

func TestObjectivePrinterCounts(t *testing.T) {
	op := pso.NewObjectivePrinter(pso.Batch(sphere))
	for i := 0; i < 3; i++ {
		_, err := op.Objective(mat.NewDense(2, 1, []float64{1, 2}))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, op.Count)
}
