// Package config maps a yaml document of recognized option names onto a
// constructed optimizer, for callers that drive runs from configuration
// files rather than code.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Bladieblah/pso"
	"github.com/Bladieblah/pso/handlers"
	"github.com/Bladieblah/pso/topology"
)

// Config is the full configuration surface of one optimization run.
type Config struct {
	// Particles is the swarm size.
	Particles int `yaml:"n_particles"`
	// Dimensions is the dimensionality of the search space.
	Dimensions int `yaml:"dimensions"`
	// Bounds are the box bounds of the search space; omit for an unbounded
	// run.
	Bounds *Bounds `yaml:"bounds"`
	// Options are the velocity-update coefficients and topology parameters.
	Options Options `yaml:"options"`
	// Topology is one of star, ring, von_neumann, pyramid, random.
	// Default star.
	Topology string `yaml:"topology"`
	// VelocityHandler is one of unmodified, adjust, invert, zero.
	// Default unmodified.
	VelocityHandler string `yaml:"velocity_handler"`
	// BoundaryHandler is one of nearest, reflective, shrink, random,
	// periodic, intermediate.  Default nearest.
	BoundaryHandler string `yaml:"boundary_handler"`
	// Iters is the iteration budget.
	Iters int `yaml:"iters"`
	// Tolerance and StagnationWindow enable the convergence criterion when
	// the window is positive.
	Tolerance        float64 `yaml:"tolerance"`
	StagnationWindow int     `yaml:"stagnation_window"`
	// Seed fixes the random stream for reproducibility.
	Seed *int64 `yaml:"seed"`
	// TolerateNaN treats NaN objective values as +infinity.
	TolerateNaN bool `yaml:"tolerate_nan"`
	// UniformVelocity samples initial velocities within the bounded range
	// instead of starting at rest.
	UniformVelocity bool `yaml:"uniform_velocity"`
	// RecordSnapshots stores full position/velocity matrices per iteration.
	RecordSnapshots bool `yaml:"record_snapshots"`
}

// Bounds holds the lower and upper bound vectors.
type Bounds struct {
	Lower []float64 `yaml:"lower"`
	Upper []float64 `yaml:"upper"`
}

// Options carries the scalar coefficients plus topology- and
// handler-specific parameters.
type Options struct {
	W  float64 `yaml:"w"`
	C1 float64 `yaml:"c1"`
	C2 float64 `yaml:"c2"`
	// K is the neighbor count for ring and random topologies.
	K int `yaml:"k"`
	// P is the Minkowski distance order for the ring topology.
	P float64 `yaml:"p"`
	// Interval is the adjacency regeneration interval for the random
	// topology.
	Interval int `yaml:"interval"`
	// ClampFraction scales the per-dimension velocity clamp for the adjust,
	// invert, and zero handlers; 1 when omitted.
	ClampFraction float64 `yaml:"clamp_fraction"`
	// Damp is the damping factor of the invert handler; 0.5 when omitted.
	Damp float64 `yaml:"damp"`
}

// Load reads and parses a yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse parses a yaml configuration document.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Build assembles an optimizer from the configuration.  Unknown topology or
// handler names and invalid numeric settings surface as pso.ErrConfig.
func (c *Config) Build() (*pso.Optimizer, error) {
	opts := []pso.Option{}

	if c.Bounds != nil {
		opts = append(opts, pso.Bounds(c.Bounds.Lower, c.Bounds.Upper))
	}
	if c.Iters > 0 {
		opts = append(opts, pso.MaxIter(c.Iters))
	}
	if c.Options.W != 0 || c.Options.C1 != 0 || c.Options.C2 != 0 {
		opts = append(opts, pso.WithOptions(pso.Options{
			W:  c.Options.W,
			C1: c.Options.C1,
			C2: c.Options.C2,
		}))
	}
	if c.StagnationWindow > 0 {
		opts = append(opts, pso.FTol(c.Tolerance, c.StagnationWindow))
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		opts = append(opts, pso.Seed(seed))
	}

	topo, err := c.buildTopology(seed)
	if err != nil {
		return nil, err
	}
	if topo != nil {
		opts = append(opts, pso.WithTopology(topo))
	}

	vh, err := c.buildVelocityHandler()
	if err != nil {
		return nil, err
	}
	if vh != nil {
		opts = append(opts, pso.WithVelocityHandler(vh))
	}

	bh, err := c.buildBoundaryHandler()
	if err != nil {
		return nil, err
	}
	if bh != nil {
		if c.Bounds == nil {
			return nil, fmt.Errorf("%w: boundary_handler %q requires bounds", pso.ErrConfig, c.BoundaryHandler)
		}
		opts = append(opts, pso.WithBoundaryHandler(bh))
	}

	var sopts []pso.SwarmOption
	if c.TolerateNaN {
		sopts = append(sopts, pso.TolerateNaN())
	}
	if c.UniformVelocity {
		sopts = append(sopts, pso.UniformVelocity())
	}
	if len(sopts) > 0 {
		opts = append(opts, pso.WithSwarm(sopts...))
	}
	if c.RecordSnapshots {
		opts = append(opts, pso.RecordSnapshots())
	}

	return pso.New(c.Particles, c.Dimensions, opts...)
}

func (c *Config) buildTopology(seed int64) (pso.Topology, error) {
	switch c.Topology {
	case "", "star":
		return nil, nil
	case "ring":
		return topology.NewRing(c.Options.K, c.Options.P), nil
	case "von_neumann":
		return &topology.VonNeumann{}, nil
	case "pyramid":
		return &topology.Pyramid{}, nil
	case "random":
		return topology.NewRandom(c.Options.K, c.Options.Interval, seed), nil
	}
	return nil, fmt.Errorf("%w: unknown topology %q", pso.ErrConfig, c.Topology)
}

func (c *Config) buildVelocityHandler() (pso.VelocityHandler, error) {
	frac := c.Options.ClampFraction
	if frac == 0 {
		frac = 1
	}
	damp := c.Options.Damp
	if damp == 0 {
		damp = 0.5
	}
	switch c.VelocityHandler {
	case "", "unmodified":
		return nil, nil
	case "adjust":
		return handlers.Adjust(frac), nil
	case "invert":
		return handlers.Invert(frac, damp), nil
	case "zero":
		return handlers.Zero(frac), nil
	}
	return nil, fmt.Errorf("%w: unknown velocity handler %q", pso.ErrConfig, c.VelocityHandler)
}

func (c *Config) buildBoundaryHandler() (pso.BoundaryHandler, error) {
	switch c.BoundaryHandler {
	case "", "nearest":
		return nil, nil
	case "reflective":
		return handlers.Reflective(), nil
	case "shrink":
		return handlers.Shrink(), nil
	case "random":
		return handlers.Random(), nil
	case "periodic":
		return handlers.Periodic(), nil
	case "intermediate":
		return handlers.Intermediate(), nil
	}
	return nil, fmt.Errorf("%w: unknown boundary handler %q", pso.ErrConfig, c.BoundaryHandler)
}
