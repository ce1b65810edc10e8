package pso

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
)

// State is the phase of an Optimizer's lifecycle.
type State int

const (
	Created State = iota
	Initialized
	Iterating
	Converged
	Exhausted
	Finalized
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	case Finalized:
		return "finalized"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Result is the outcome of a completed run.
type Result struct {
	BestPos  []float64
	BestCost float64
	// State is Converged when the stagnation criterion fired, Exhausted when
	// the iteration budget ran out.
	State State
	// Iters is the number of completed iterations.
	Iters   int
	History *History
}

// Optimizer owns one optimization run: it initializes a Swarm, binds a
// Topology and correction handlers, drives the iteration loop, and tracks
// convergence history.  Configuration is validated eagerly at construction,
// never mid-run.
type Optimizer struct {
	nparticles int
	dims       int
	iters      int

	lower, upper []float64
	space        *SearchSpace

	opts     Options
	schedule Schedule
	topo     Topology
	vh       VelocityHandler
	bh       BoundaryHandler

	ftol      float64
	ftolIters int

	seed        int64
	seedSet     bool
	swarmOpts   []SwarmOption
	recordSnaps bool
	db          *sql.DB

	state    State
	rng      *rand.Rand
	swarm    *Swarm
	hist     *History
	rec      *Recorder
	bestPos  []float64
	bestCost float64
	stall    int
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// Bounds sets the box bounds of the search space.  Without bounds, particles
// initialize in [0,1) per dimension and no boundary correction is applied.
func Bounds(lower, upper []float64) Option {
	return func(o *Optimizer) {
		o.lower = lower
		o.upper = upper
	}
}

// MaxIter sets the iteration budget.  The default is 100.
func MaxIter(n int) Option {
	return func(o *Optimizer) { o.iters = n }
}

// WithOptions sets all velocity-update coefficients at once.
func WithOptions(opts Options) Option {
	return func(o *Optimizer) { o.opts = opts }
}

// LearnFactors sets the cognition (c1) and social (c2) coefficients.
func LearnFactors(cognition, social float64) Option {
	return func(o *Optimizer) {
		o.opts.C1 = cognition
		o.opts.C2 = social
	}
}

// FixedInertia sets the inertia weight w.
func FixedInertia(w float64) Option {
	return func(o *Optimizer) { o.opts.W = w }
}

// LinInertia varies inertia linearly from start (high) to end (low) across
// the run, keeping whatever learn factors are configured.
func LinInertia(start, end float64) Option {
	return func(o *Optimizer) {
		c1, c2 := o.opts.C1, o.opts.C2
		o.schedule = LinInertiaSchedule(start, end, c1, c2)
	}
}

// AdaptiveOptions recomputes the coefficient snapshot each iteration from the
// given schedule.
func AdaptiveOptions(s Schedule) Option {
	return func(o *Optimizer) { o.schedule = s }
}

// WithTopology sets the neighborhood scheme.  The default (nil) is the star
// scheme: every particle's neighborhood is the entire swarm.
func WithTopology(t Topology) Option {
	return func(o *Optimizer) { o.topo = t }
}

// WithVelocityHandler sets the velocity-clamping policy applied after the
// raw update equation.  The default applies no clamp.
func WithVelocityHandler(h VelocityHandler) Option {
	return func(o *Optimizer) { o.vh = h }
}

// WithBoundaryHandler sets the out-of-bounds correction policy.  The default
// clips to the nearest bound.  Requires Bounds.
func WithBoundaryHandler(h BoundaryHandler) Option {
	return func(o *Optimizer) { o.bh = h }
}

// FTol enables the stagnation criterion: the run converges when the relative
// improvement of the swarm best stays below tol for window consecutive
// iterations.
func FTol(tol float64, window int) Option {
	return func(o *Optimizer) {
		o.ftol = tol
		o.ftolIters = window
	}
}

// Seed fixes the random stream so that two runs with identical configuration
// and objective produce bit-identical histories.  Without it the stream is
// seeded from the clock.
func Seed(seed int64) Option {
	return func(o *Optimizer) {
		o.seed = seed
		o.seedSet = true
	}
}

// WithSwarm forwards options to swarm initialization, such as
// UniformVelocity, TolerateNaN, or InitPositions.
func WithSwarm(opts ...SwarmOption) Option {
	return func(o *Optimizer) { o.swarmOpts = append(o.swarmOpts, opts...) }
}

// RecordSnapshots stores full position and velocity matrix copies in every
// history entry.
func RecordSnapshots() Option {
	return func(o *Optimizer) { o.recordSnaps = true }
}

// DB enables persisting per-iteration particle state to the given database.
func DB(db *sql.DB) Option {
	return func(o *Optimizer) { o.db = db }
}

// defaultBoundary clips out-of-bounds positions to the nearest bound.
func defaultBoundary(pos, prev *mat.Dense, space *SearchSpace, rng *rand.Rand) {
	n, d := pos.Dims()
	for i := 0; i < n; i++ {
		row := pos.RawRowView(i)
		for j := 0; j < d; j++ {
			row[j] = space.Clip(j, row[j])
		}
	}
	_ = prev
	_ = rng
}

// New builds an Optimizer for n particles in dim dimensions and initializes
// its swarm.  All configuration errors surface here as ErrConfig.
func New(n, dim int, opts ...Option) (*Optimizer, error) {
	o := &Optimizer{
		nparticles: n,
		dims:       dim,
		iters:      100,
		opts:       DefaultOptions(),
		bestCost:   math.Inf(1),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.iters < 1 {
		return nil, fmt.Errorf("%w: iteration budget %v", ErrConfig, o.iters)
	}
	if o.ftolIters < 0 {
		return nil, fmt.Errorf("%w: stagnation window %v", ErrConfig, o.ftolIters)
	}
	if o.lower != nil || o.upper != nil {
		space, err := NewSearchSpace(o.lower, o.upper)
		if err != nil {
			return nil, err
		}
		if space.Dims() != dim {
			return nil, fmt.Errorf("%w: bounds have %v dimensions, want %v", ErrConfig, space.Dims(), dim)
		}
		o.space = space
	}
	if o.bh != nil && o.space == nil {
		return nil, fmt.Errorf("%w: boundary handler requires bounds", ErrConfig)
	}
	if o.space != nil && o.bh == nil {
		o.bh = defaultBoundary
	}

	if !o.seedSet {
		o.seed = time.Now().UnixNano()
	}
	o.rng = rand.New(rand.NewSource(o.seed))

	swarm, err := NewSwarm(n, dim, o.space, o.rng, o.swarmOpts...)
	if err != nil {
		return nil, err
	}
	o.swarm = swarm
	o.hist = &History{}

	if o.db != nil {
		rec, err := NewRecorder(o.db, dim)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		o.rec = rec
	}

	o.state = Initialized
	return o, nil
}

// State returns the optimizer's lifecycle phase.
func (o *Optimizer) State() State { return o.state }

// Swarm exposes the run's swarm state, mainly for inspection and tests.
func (o *Optimizer) Swarm() *Swarm { return o.swarm }

// History returns the convergence history recorded so far.
func (o *Optimizer) History() *History { return o.hist }

// Reset returns a finalized optimizer to the Initialized state with a fresh
// swarm and empty history.  The random stream is reseeded with the original
// seed, so a reset run reproduces the first one exactly.
func (o *Optimizer) Reset() {
	o.rng = rand.New(rand.NewSource(o.seed))
	o.swarm.Reset(o.rng)
	o.hist = &History{}
	o.bestPos = nil
	o.bestCost = math.Inf(1)
	o.stall = 0
	o.state = Initialized
}

// Run drives the iteration loop until the stagnation criterion fires, the
// iteration budget is exhausted, or ctx is cancelled.  Cancellation is
// honored only at iteration boundaries, leaving the swarm in a consistent
// post-iteration state; the partial result is returned alongside ctx's
// error.  A finalized optimizer returns ErrState until Reset.
func (o *Optimizer) Run(ctx context.Context, obj Objectiver) (*Result, error) {
	if o.state != Initialized {
		return nil, fmt.Errorf("%w: run attempted while %v", ErrState, o.state)
	}
	o.state = Iterating

	halt := Exhausted
	var runErr error
loop:
	for it := 1; it <= o.iters; it++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		default:
		}

		if err := o.step(it, obj); err != nil {
			o.state = Finalized
			return nil, err
		}
		if o.ftolIters > 0 && o.stall >= o.ftolIters {
			halt = Converged
			break
		}
	}

	o.state = Finalized
	res := &Result{
		BestPos:  append([]float64{}, o.bestPos...),
		BestCost: o.bestCost,
		State:    halt,
		Iters:    o.hist.Len(),
		History:  o.hist,
	}
	return res, runErr
}

// step executes one full iteration: evaluate, update personal bests, compute
// neighborhood bests, move, correct, record.
func (o *Optimizer) step(it int, obj Objectiver) error {
	opts := o.opts
	if o.schedule != nil {
		opts = o.schedule(it, o.iters)
	}

	if err := o.swarm.Evaluate(obj); err != nil {
		return err
	}
	o.swarm.UpdatePersonalBest()

	nbPos, nbCost, err := o.neighborBest()
	if err != nil {
		return err
	}
	bp, bc := o.swarm.Best()

	n, d := o.swarm.Len(), o.swarm.Dims()
	for i := 0; i < n; i++ {
		x := o.swarm.Pos.RawRowView(i)
		v := o.swarm.Vel.RawRowView(i)
		pb := o.swarm.PBestPos.RawRowView(i)
		nb := nbPos.RawRowView(i)
		for j := 0; j < d; j++ {
			// r1 and r2 MUST be generated uniquely for each dimension of
			// each particle's velocity.
			r1 := o.rng.Float64()
			r2 := o.rng.Float64()
			v[j] = opts.W*v[j] + opts.C1*r1*(pb[j]-x[j]) + opts.C2*r2*(nb[j]-x[j])
		}
	}

	if o.vh != nil && o.space != nil {
		o.vh(o.swarm.Vel, o.space)
	}

	var prev *mat.Dense
	if o.bh != nil {
		prev = mat.DenseCopyOf(o.swarm.Pos)
	}
	o.swarm.Pos.Add(o.swarm.Pos, o.swarm.Vel)
	if o.bh != nil {
		o.bh(o.swarm.Pos, prev, o.space, o.rng)
	}

	if o.ftolIters > 0 {
		rel := o.ftol * (1 + math.Abs(o.bestCost))
		if math.Abs(bc-o.bestCost) < rel {
			o.stall++
		} else {
			o.stall = 0
		}
	}
	o.bestPos, o.bestCost = bp, bc

	snap := Snapshot{
		Iter:             it,
		BestCost:         bc,
		BestPos:          bp,
		MeanPBestCost:    o.swarm.MeanPBestCost(),
		MeanNeighborCost: mean(nbCost),
	}
	if o.recordSnaps {
		snap.Pos = mat.DenseCopyOf(o.swarm.Pos)
		snap.Vel = mat.DenseCopyOf(o.swarm.Vel)
	}
	o.hist.append(snap)

	if o.rec != nil {
		if err := o.rec.Record(it, o.swarm, bp, bc); err != nil {
			return err
		}
	}
	return nil
}

// neighborBest dispatches to the configured topology, defaulting to the star
// scheme where every particle sees the single swarm-wide best.
func (o *Optimizer) neighborBest() (*mat.Dense, []float64, error) {
	if o.topo != nil {
		return o.topo.NeighborBest(o.swarm)
	}

	bp, bc := o.swarm.Best()
	n, d := o.swarm.Len(), o.swarm.Dims()
	pos := mat.NewDense(n, d, nil)
	cost := make([]float64, n)
	for i := 0; i < n; i++ {
		pos.SetRow(i, bp)
		cost[i] = bc
	}
	return pos, cost, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	tot := 0.0
	for _, x := range xs {
		tot += x
	}
	return tot / float64(len(xs))
}
