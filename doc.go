// Package pso implements single-objective particle swarm optimization over
// bounded continuous search spaces.
//
// The swarm's positions, velocities, and personal bests are stored as n-by-d
// gonum matrices, one row per particle, and the objective function is called
// once per iteration with the full position matrix, so callers can vectorize
// or parallelize evaluation however they like (see Batch and ParallelBatch).
//
// Neighborhood schemes live in the topology subpackage and velocity/boundary
// correction policies in the handlers subpackage; both are plain values
// plugged into an Optimizer through options:
//
//	opt, err := pso.New(30, 2,
//		pso.Bounds([]float64{-10, -10}, []float64{10, 10}),
//		pso.WithTopology(topology.NewRing(4, 2)),
//		pso.WithBoundaryHandler(handlers.Periodic()),
//		pso.Seed(42),
//		pso.MaxIter(200),
//	)
//	if err != nil {
//		// ...
//	}
//	res, err := opt.Run(ctx, pso.Batch(func(x []float64) float64 {
//		return x[0]*x[0] + x[1]*x[1]
//	}))
//
// All randomness flows through explicitly seeded generators, so a fixed seed
// reproduces a run bit for bit.
package pso
