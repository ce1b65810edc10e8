// Command psorun runs particle swarm optimization against the built-in
// benchmark functions, optionally configured from a yaml file and recording
// per-iteration swarm state to a sqlite database.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Bladieblah/pso"
	"github.com/Bladieblah/pso/bench"
	"github.com/Bladieblah/pso/config"
)

var (
	fnName  = flag.String("func", "Eggholder", "benchmark function to minimize")
	cfgPath = flag.String("config", "", "yaml configuration file (overrides other flags)")
	npar    = flag.Int("n", 30, "number of particles")
	iters   = flag.Int("iters", 1000, "iteration budget")
	trials  = flag.Int("trials", 10, "independent runs")
	seed    = flag.Int64("seed", -1, "random seed (-1 seeds from the clock)")
	dbPath  = flag.String("db", "", "sqlite file for per-iteration swarm state")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	fn, err := bench.ByName(*fnName)
	if err != nil {
		log.Fatal(err)
	}
	optimum := fn.Optima()[0]

	var db *sql.DB
	if *dbPath != "" {
		db, err = sql.Open("sqlite3", *dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
	}

	baseSeed := *seed
	if baseSeed < 0 {
		baseSeed = time.Now().Unix()
	}

	nsuccess := 0
	for trial := 0; trial < *trials; trial++ {
		res, err := run(fn, baseSeed+int64(trial), db)
		if err != nil {
			log.Fatal(err)
		}

		thresh := math.Abs(optimum.Val * .01)
		if 0.001 > thresh {
			thresh = 0.001
		}
		if math.Abs(res.BestCost-optimum.Val) < thresh {
			nsuccess++
			fmt.Printf("Succeeded (%v iters, %v):\n", res.Iters, res.State)
		} else {
			fmt.Printf("Failed (%v iters, %v):\n", res.Iters, res.State)
		}
		fmt.Printf("    optimum: %v at %v\n", optimum.Val, optimum.Pos)
		fmt.Printf("    best: %v at %v\n", res.BestCost, res.BestPos)
	}
	fmt.Printf("%v%% succeeded\n", float64(nsuccess)/float64(*trials)*100)
}

func run(fn bench.Func, seed int64, db *sql.DB) (*pso.Result, error) {
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			return nil, err
		}
		opt, err := cfg.Build()
		if err != nil {
			return nil, err
		}
		return opt.Run(context.Background(), bench.Objective(fn))
	}

	low, up := fn.Bounds()
	opts := []pso.Option{
		pso.Bounds(low, up),
		pso.MaxIter(*iters),
		pso.Seed(seed),
		pso.WithSwarm(pso.UniformVelocity()),
	}
	if db != nil {
		opts = append(opts, pso.DB(db))
	}

	opt, err := pso.New(*npar, len(low), opts...)
	if err != nil {
		return nil, err
	}
	return opt.Run(context.Background(), bench.Objective(fn))
}
