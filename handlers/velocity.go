// Package handlers provides the velocity-clamping and out-of-bounds
// correction policies applied after the raw velocity/position update.  All
// handlers are pure per-dimension corrections vectorized over the whole
// swarm; they never fail for finite input, since malformed bounds are
// rejected at swarm initialization.
package handlers

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Bladieblah/pso"
)

// Unmodified applies no velocity clamp.
func Unmodified() pso.VelocityHandler {
	return func(vel *mat.Dense, space *pso.SearchSpace) {}
}

// Adjust clamps each velocity component to frac times the search-space range
// of its dimension.  frac = 1 is the bounded-range rule of thumb given in:
//
//	Eberhart, R.C.; Yuhui Shi, "Particle swarm optimization: developments,
//	applications and resources," Evolutionary Computation, 2001. Proceedings of
//	the 2001 Congress on , vol.1, no., pp.81,86 vol. 1, 2001 doi:
//	10.1109/CEC.2001.934374
func Adjust(frac float64) pso.VelocityHandler {
	return func(vel *mat.Dense, space *pso.SearchSpace) {
		clampEach(vel, space, frac, func(v, vmax float64) float64 {
			return math.Copysign(vmax, v)
		})
	}
}

// Invert reverses and damps velocity components that would exceed the clamp:
// v' = -damp*v.  A damp in (0,1) bleeds energy out of runaway particles.
func Invert(frac, damp float64) pso.VelocityHandler {
	return func(vel *mat.Dense, space *pso.SearchSpace) {
		clampEach(vel, space, frac, func(v, vmax float64) float64 {
			return -damp * v
		})
	}
}

// Zero stops velocity components that would exceed the clamp.
func Zero(frac float64) pso.VelocityHandler {
	return func(vel *mat.Dense, space *pso.SearchSpace) {
		clampEach(vel, space, frac, func(v, vmax float64) float64 {
			return 0
		})
	}
}

// clampEach applies fix to every component whose magnitude exceeds
// frac*range of its dimension.
func clampEach(vel *mat.Dense, space *pso.SearchSpace, frac float64, fix func(v, vmax float64) float64) {
	n, d := vel.Dims()
	for i := 0; i < n; i++ {
		row := vel.RawRowView(i)
		for j := 0; j < d; j++ {
			vmax := frac * space.Span(j)
			if math.Abs(row[j]) > vmax {
				row[j] = fix(row[j], vmax)
			}
		}
	}
}
