package pso

import "math"

// These defaults are calculated using a constriction factor originally
// described in:
//
//	Clerc and M.  “The swarm and the queen: towards a deterministic and
//	adaptive particle swarm optimization” Proc. 1999 Congress on
//	Evolutionary Computation, pp. 1951-1957
//
// The cognition and social parameters correspond to c1 and c2 values of 2.05
// that have been multiplied by their constriction coefficient - i.e.
// DefaultSocial = Constriction(2.05, 2.05)*2.05.  DefaultInertia is set equal
// to the constriction coefficient.
const (
	DefaultCognition = 1.496179765663133
	DefaultSocial    = 1.496179765663133
	DefaultInertia   = 0.7298437881283576
)

// Options holds the scalar coefficients of the velocity update equation:
//
//	v_next = w*v + c1*rand*(p_personal-x) + c2*rand*(p_neighbor-x)
//
// An Options value is immutable for a run unless a Schedule is configured, in
// which case a fresh snapshot is computed each iteration.
type Options struct {
	// W weights the previous velocity (inertia).
	W float64
	// C1 weights the pull toward a particle's personal best (cognition).
	C1 float64
	// C2 weights the pull toward the neighborhood best (social).
	C2 float64
}

// DefaultOptions returns the constriction-factor coefficients above.
func DefaultOptions() Options {
	return Options{W: DefaultInertia, C1: DefaultCognition, C2: DefaultSocial}
}

// Constriction calculates the constriction coefficient for the given c1 and
// c2.  c1+c2 should usually be greater than (but close to) 4.
func Constriction(c1, c2 float64) float64 {
	phi := c1 + c2
	return 2 / math.Abs(2-phi-math.Sqrt(phi*phi-4*phi))
}

// A Schedule computes the coefficient snapshot for one iteration as a pure
// function of iteration progress. iter runs from 1 to total.
type Schedule func(iter, total int) Options

// LinInertiaSchedule varies inertia linearly from start (high) to end (low)
// across the run while holding the given cognition and social coefficients
// fixed.  Common values are start = 0.9 and end = 0.4 - for details see:
//
//	Eberhart, R.C.; Yuhui Shi, "Particle swarm optimization: developments,
//	applications and resources," Evolutionary Computation, 2001. Proceedings of
//	the 2001 Congress on , vol.1, no., pp.81,86 vol. 1, 2001 doi:
//	10.1109/CEC.2001.934374
func LinInertiaSchedule(start, end, cognition, social float64) Schedule {
	return func(iter, total int) Options {
		w := start - (start-end)*float64(iter)/float64(total)
		return Options{W: w, C1: cognition, C2: social}
	}
}
