package pso

import "errors"

var (
	// ErrConfig indicates malformed construction input: bad bounds, dimension
	// mismatches, or non-positive particle/iteration counts. It is always
	// raised eagerly, never mid-run.
	ErrConfig = errors.New("pso: invalid configuration")
	// ErrObjective indicates a wrong-shaped or disallowed non-finite return
	// from the objective function. It halts the run at the evaluation call.
	ErrObjective = errors.New("pso: objective evaluation")
	// ErrTopology indicates a neighborhood structure that cannot be built for
	// the requested swarm size and parameters.
	ErrTopology = errors.New("pso: topology")
	// ErrState indicates an operation attempted on a finalized run.
	ErrState = errors.New("pso: invalid state")
)
