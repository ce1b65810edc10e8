package pso

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// VelocityHandler corrects the raw velocity matrix in place after the update
// equation, before positions move.  Implementations are pure per-dimension
// corrections vectorized over the whole swarm and must not error for finite
// input.
type VelocityHandler func(vel *mat.Dense, space *SearchSpace)

// BoundaryHandler corrects out-of-bounds positions in place after the
// position update.  prev holds the positions from before the move; handlers
// like shrink and intermediate correct relative to it.  rng is the run's
// random stream for resampling strategies.  After application every position
// must lie within the space's bounds.
type BoundaryHandler func(pos, prev *mat.Dense, space *SearchSpace, rng *rand.Rand)
