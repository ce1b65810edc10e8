package pso

import (
	"fmt"
	"math"
)

// SearchSpace is the boxed region an optimization run searches. Lower and
// Upper must have equal length (the dimensionality) with Lower[i] <= Upper[i]
// everywhere. A SearchSpace is immutable for the duration of a run.
type SearchSpace struct {
	Lower []float64
	Upper []float64
}

// NewSearchSpace validates and copies the bound vectors.
func NewSearchSpace(lower, upper []float64) (*SearchSpace, error) {
	if len(lower) == 0 || len(lower) != len(upper) {
		return nil, fmt.Errorf("%w: bounds have lengths %v and %v", ErrConfig, len(lower), len(upper))
	}
	for i := range lower {
		if math.IsNaN(lower[i]) || math.IsNaN(upper[i]) {
			return nil, fmt.Errorf("%w: bound %v is NaN", ErrConfig, i)
		}
		if lower[i] > upper[i] {
			return nil, fmt.Errorf("%w: lower bound %v exceeds upper (%v > %v)", ErrConfig, i, lower[i], upper[i])
		}
	}
	return &SearchSpace{
		Lower: append([]float64{}, lower...),
		Upper: append([]float64{}, upper...),
	}, nil
}

// Dims returns the dimensionality of the space.
func (s *SearchSpace) Dims() int { return len(s.Lower) }

// Span returns upper-lower for dimension i.
func (s *SearchSpace) Span(i int) float64 { return s.Upper[i] - s.Lower[i] }

// Clip slides x to the nearest value inside the bounds of dimension i.
func (s *SearchSpace) Clip(i int, x float64) float64 {
	x = math.Max(s.Lower[i], x)
	return math.Min(s.Upper[i], x)
}

// Contains reports whether x lies inside the bounds componentwise.
func (s *SearchSpace) Contains(x []float64) bool {
	if len(x) != len(s.Lower) {
		return false
	}
	for i, v := range x {
		if v < s.Lower[i] || v > s.Upper[i] {
			return false
		}
	}
	return true
}
