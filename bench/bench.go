// Package bench provides benchmark optimization functions from
// http://en.wikipedia.org/wiki/Test_functions_for_optimization along with a
// harness for testing the optimizer against them.
package bench

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Bladieblah/pso"
)

var (
	sin  = math.Sin
	cos  = math.Cos
	abs  = math.Abs
	exp  = math.Exp
	sqrt = math.Sqrt
)

// Optimum is a known best point of a benchmark function.
type Optimum struct {
	Pos []float64
	Val float64
}

// Func is a benchmark objective with box bounds and known optima.
type Func interface {
	Eval(v []float64) float64
	Bounds() (low, up []float64)
	Optima() []Optimum
	Name() string
}

var AllFuncs = []Func{
	Sphere{NDim: 2},
	Sphere{NDim: 10},
	Ackley{},
	CrossTray{},
	Eggholder{},
	HolderTable{},
	Schaffer2{},
	Rastrigin{NDim: 2},
	Styblinski{NDim: 1},
	Styblinski{NDim: 10},
	Rosenbrock{NDim: 2},
	Rosenbrock{NDim: 10},
}

// ByName returns the benchmark function with the given name.
func ByName(name string) (Func, error) {
	for _, fn := range AllFuncs {
		if fn.Name() == name {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("bench: unknown function %q", name)
}

// Objective lifts fn into the batched objective contract.
func Objective(fn Func) pso.Objectiver { return pso.Batch(fn.Eval) }

// InsideBounds reports whether v lies within fn's box bounds.
func InsideBounds(v []float64, fn Func) bool {
	low, up := fn.Bounds()
	for i := range v {
		if v[i] < low[i] || v[i] > up[i] {
			return false
		}
	}
	return true
}

type Sphere struct {
	NDim int
}

func (fn Sphere) Name() string { return fmt.Sprintf("Sphere_%vD", fn.NDim) }

func (fn Sphere) Eval(x []float64) float64 { return floats.Dot(x, x) }

func (fn Sphere) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -10
		up[i] = 10
	}
	return low, up
}

func (fn Sphere) Optima() []Optimum {
	return []Optimum{{Pos: make([]float64, fn.NDim), Val: 0}}
}

type Rastrigin struct {
	NDim int
}

func (fn Rastrigin) Name() string { return fmt.Sprintf("Rastrigin_%vD", fn.NDim) }

func (fn Rastrigin) Eval(x []float64) float64 {
	tot := 10 * float64(fn.NDim)
	for _, v := range x {
		tot += v*v - 10*cos(2*math.Pi*v)
	}
	return tot
}

func (fn Rastrigin) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -5.12
		up[i] = 5.12
	}
	return low, up
}

func (fn Rastrigin) Optima() []Optimum {
	return []Optimum{{Pos: make([]float64, fn.NDim), Val: 0}}
}

type Ackley struct{}

func (fn Ackley) Name() string { return "Ackley" }

func (fn Ackley) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -20*exp(-0.2*sqrt(0.5*(x*x+y*y))) -
		exp(0.5*(cos(2*math.Pi*x)+cos(2*math.Pi*y))) +
		20 + math.E
}

func (fn Ackley) Bounds() (low, up []float64) {
	return []float64{-5, -5}, []float64{5, 5}
}

func (fn Ackley) Optima() []Optimum {
	return []Optimum{{Pos: []float64{0, 0}, Val: 0}}
}

type CrossTray struct{}

func (fn CrossTray) Name() string { return "CrossTray" }

func (fn CrossTray) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -.0001 * math.Pow(abs(sin(x)*sin(y)*exp(abs(100-sqrt(x*x+y*y)/math.Pi)))+1, 0.1)
}

func (fn CrossTray) Bounds() (low, up []float64) {
	return []float64{-10, -10}, []float64{10, 10}
}

func (fn CrossTray) Optima() []Optimum {
	return []Optimum{
		{Pos: []float64{1.34941, -1.34941}, Val: -2.06261},
		{Pos: []float64{1.34941, 1.34941}, Val: -2.06261},
		{Pos: []float64{-1.34941, 1.34941}, Val: -2.06261},
		{Pos: []float64{-1.34941, -1.34941}, Val: -2.06261},
	}
}

type Eggholder struct{}

func (fn Eggholder) Name() string { return "Eggholder" }

func (fn Eggholder) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -(y+47)*sin(sqrt(abs(y+x/2+47))) - x*sin(sqrt(abs(x-(y+47))))
}

func (fn Eggholder) Bounds() (low, up []float64) {
	return []float64{-512, -512}, []float64{512, 512}
}

func (fn Eggholder) Optima() []Optimum {
	return []Optimum{{Pos: []float64{512, 404.2319}, Val: -959.6407}}
}

type HolderTable struct{}

func (fn HolderTable) Name() string { return "HolderTable" }

func (fn HolderTable) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -abs(sin(x) * cos(y) * exp(abs(1-sqrt(x*x+y*y)/math.Pi)))
}

func (fn HolderTable) Bounds() (low, up []float64) {
	return []float64{-10, -10}, []float64{10, 10}
}

func (fn HolderTable) Optima() []Optimum {
	return []Optimum{
		{Pos: []float64{8.05502, 9.66459}, Val: -19.2085},
		{Pos: []float64{-8.05502, 9.66459}, Val: -19.2085},
		{Pos: []float64{8.05502, -9.66459}, Val: -19.2085},
		{Pos: []float64{-8.05502, -9.66459}, Val: -19.2085},
	}
}

type Schaffer2 struct{}

func (fn Schaffer2) Name() string { return "Schaffer2" }

func (fn Schaffer2) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return 0.5 + (math.Pow(sin(x*x-y*y), 2)-0.5)/math.Pow(1+.0001*(x*x+y*y), 2)
}

func (fn Schaffer2) Bounds() (low, up []float64) {
	return []float64{-100, -100}, []float64{100, 100}
}

func (fn Schaffer2) Optima() []Optimum {
	return []Optimum{{Pos: []float64{0, 0}, Val: 0}}
}

type Styblinski struct {
	NDim int
}

func (fn Styblinski) Name() string { return fmt.Sprintf("Styblinski_%vD", fn.NDim) }

func (fn Styblinski) Eval(x []float64) float64 {
	if !InsideBounds(x, fn) {
		return math.Inf(1)
	}

	tot := 0.0
	for _, v := range x {
		tot += math.Pow(v, 4) - 16*math.Pow(v, 2) + 5*v
	}
	return tot / 2
}

func (fn Styblinski) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -5
		up[i] = 5
	}
	return low, up
}

func (fn Styblinski) Optima() []Optimum {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = -2.903534
	}
	return []Optimum{{Pos: pos, Val: -39.16599 * float64(fn.NDim)}}
}

type Rosenbrock struct {
	NDim int
}

func (fn Rosenbrock) Name() string { return fmt.Sprintf("Rosenbrock_%vD", fn.NDim) }

func (fn Rosenbrock) Eval(x []float64) float64 {
	if !InsideBounds(x, fn) {
		return math.Inf(1)
	}

	tot := 0.0
	for i := 0; i < fn.NDim-1; i++ {
		tot += 100*math.Pow(x[i+1]-x[i]*x[i], 2) + math.Pow(x[i]-1, 2)
	}
	return tot
}

func (fn Rosenbrock) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -30
		up[i] = 30
	}
	return low, up
}

func (fn Rosenbrock) Optima() []Optimum {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = 1
	}
	return []Optimum{{Pos: pos, Val: 0}}
}

// Benchmark runs a fresh optimizer against fn and reports whether the final
// best cost landed within tol (relative, floored at 0.001 absolute) of the
// known optimum.
func Benchmark(fn Func, tol float64, npar, iters int, seed int64, opts ...pso.Option) (ok bool, res *pso.Result, err error) {
	optimum := fn.Optima()[0].Val
	thresh := tol * abs(optimum)
	if 0.001 > thresh {
		thresh = 0.001
	}

	low, up := fn.Bounds()
	all := append([]pso.Option{
		pso.Bounds(low, up),
		pso.MaxIter(iters),
		pso.Seed(seed),
	}, opts...)

	opt, err := pso.New(npar, len(low), all...)
	if err != nil {
		return false, nil, err
	}
	res, err = opt.Run(context.Background(), Objective(fn))
	if err != nil {
		return false, res, err
	}
	return abs(optimum-res.BestCost) < thresh, res, nil
}
