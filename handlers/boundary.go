package handlers

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/Bladieblah/pso"
)

// Nearest clips out-of-bounds positions to the nearest bound.
func Nearest() pso.BoundaryHandler {
	return func(pos, prev *mat.Dense, space *pso.SearchSpace, rng *rand.Rand) {
		eachRow(pos, func(i int, row []float64) {
			for j := range row {
				row[j] = space.Clip(j, row[j])
			}
		})
	}
}

// Reflective mirrors the overshoot back into bounds, repeatedly for
// positions that overshot by more than a full range.
func Reflective() pso.BoundaryHandler {
	return func(pos, prev *mat.Dense, space *pso.SearchSpace, rng *rand.Rand) {
		eachRow(pos, func(i int, row []float64) {
			for j := range row {
				l, u := space.Lower[j], space.Upper[j]
				if l == u {
					row[j] = l
					continue
				}
				for row[j] < l || row[j] > u {
					if row[j] < l {
						row[j] = 2*l - row[j]
					} else {
						row[j] = 2*u - row[j]
					}
				}
			}
		})
	}
}

// Shrink scales the offending step back along its direction of travel so the
// particle stops at the first bound it would cross.  prev must be in bounds,
// which holds because every handler leaves positions in bounds.
func Shrink() pso.BoundaryHandler {
	return func(pos, prev *mat.Dense, space *pso.SearchSpace, rng *rand.Rand) {
		eachRow(pos, func(i int, row []float64) {
			old := prev.RawRowView(i)
			t := 1.0
			for j := range row {
				step := row[j] - old[j]
				if row[j] < space.Lower[j] && step != 0 {
					t = math.Min(t, (space.Lower[j]-old[j])/step)
				} else if row[j] > space.Upper[j] && step != 0 {
					t = math.Min(t, (space.Upper[j]-old[j])/step)
				}
			}
			if t < 1 {
				for j := range row {
					row[j] = old[j] + t*(row[j]-old[j])
					// absorb floating-point overshoot
					row[j] = space.Clip(j, row[j])
				}
			}
		})
	}
}

// Random resamples offending dimensions uniformly within their bounds.
func Random() pso.BoundaryHandler {
	return func(pos, prev *mat.Dense, space *pso.SearchSpace, rng *rand.Rand) {
		eachRow(pos, func(i int, row []float64) {
			for j := range row {
				if row[j] < space.Lower[j] || row[j] > space.Upper[j] {
					row[j] = space.Lower[j] + rng.Float64()*space.Span(j)
				}
			}
		})
	}
}

// Periodic wraps out-of-bounds positions around using the modulo of the
// range, so upper+d lands on lower+d even when the overshoot spans several
// full ranges.
func Periodic() pso.BoundaryHandler {
	return func(pos, prev *mat.Dense, space *pso.SearchSpace, rng *rand.Rand) {
		eachRow(pos, func(i int, row []float64) {
			for j := range row {
				l, span := space.Lower[j], space.Span(j)
				if row[j] < l || row[j] > space.Upper[j] {
					if span == 0 {
						row[j] = l
						continue
					}
					m := math.Mod(row[j]-l, span)
					if m < 0 {
						m += span
					}
					row[j] = l + m
				}
			}
		})
	}
}

// Intermediate moves offending dimensions to the midpoint between the last
// valid position and the violated bound.
func Intermediate() pso.BoundaryHandler {
	return func(pos, prev *mat.Dense, space *pso.SearchSpace, rng *rand.Rand) {
		eachRow(pos, func(i int, row []float64) {
			old := prev.RawRowView(i)
			for j := range row {
				if row[j] < space.Lower[j] {
					row[j] = 0.5 * (old[j] + space.Lower[j])
				} else if row[j] > space.Upper[j] {
					row[j] = 0.5 * (old[j] + space.Upper[j])
				}
			}
		})
	}
}

func eachRow(m *mat.Dense, fn func(i int, row []float64)) {
	n, _ := m.Dims()
	for i := 0; i < n; i++ {
		fn(i, m.RawRowView(i))
	}
}
