package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bladieblah/pso"
	"github.com/Bladieblah/pso/config"
)

const sphereDoc = `
n_particles: 20
dimensions: 2
bounds:
  lower: [-10, -10]
  upper: [10, 10]
options:
  w: 0.5
  c1: 0.5
  c2: 0.3
topology: star
boundary_handler: periodic
iters: 50
seed: 7
`

func TestParse(t *testing.T) {
	c, err := config.Parse([]byte(sphereDoc))
	require.NoError(t, err)

	assert.Equal(t, 20, c.Particles)
	assert.Equal(t, 2, c.Dimensions)
	require.NotNil(t, c.Bounds)
	assert.Equal(t, []float64{-10, -10}, c.Bounds.Lower)
	assert.Equal(t, 0.5, c.Options.W)
	assert.Equal(t, "periodic", c.BoundaryHandler)
	require.NotNil(t, c.Seed)
	assert.Equal(t, int64(7), *c.Seed)
}

func TestBuildAndRun(t *testing.T) {
	c, err := config.Parse([]byte(sphereDoc))
	require.NoError(t, err)

	opt, err := c.Build()
	require.NoError(t, err)

	res, err := opt.Run(context.Background(), pso.Batch(func(x []float64) float64 {
		return x[0]*x[0] + x[1]*x[1]
	}))
	require.NoError(t, err)
	assert.Equal(t, 50, res.Iters)
	assert.Less(t, res.BestCost, 1.0)
}

func TestBuildRingUsesOptions(t *testing.T) {
	doc := `
n_particles: 10
dimensions: 2
bounds:
  lower: [-1, -1]
  upper: [1, 1]
options: {w: 0.7, c1: 1.4, c2: 1.4, k: 3, p: 2}
topology: ring
velocity_handler: adjust
iters: 5
seed: 3
`
	c, err := config.Parse([]byte(doc))
	require.NoError(t, err)

	opt, err := c.Build()
	require.NoError(t, err)

	_, err = opt.Run(context.Background(), pso.Batch(func(x []float64) float64 {
		return x[0] * x[1]
	}))
	require.NoError(t, err)
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"UnknownTopology", "n_particles: 5\ndimensions: 1\ntopology: mesh\n"},
		{"UnknownVelocityHandler", "n_particles: 5\ndimensions: 1\nvelocity_handler: bounce\n"},
		{"UnknownBoundaryHandler", "n_particles: 5\ndimensions: 1\nboundary_handler: clamp\n"},
		{"BoundaryWithoutBounds", "n_particles: 5\ndimensions: 1\nboundary_handler: periodic\n"},
		{"NoParticles", "n_particles: 0\ndimensions: 1\n"},
		{"BadBounds", "n_particles: 5\ndimensions: 1\nbounds: {lower: [2], upper: [1]}\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := config.Parse([]byte(tc.doc))
			require.NoError(t, err)
			_, err = c.Build()
			assert.ErrorIs(t, err, pso.ErrConfig)
		})
	}
}

func TestParseError(t *testing.T) {
	_, err := config.Parse([]byte("n_particles: [not an int"))
	assert.Error(t, err)
}
