package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	for _, algorithm := range []Algorithm{AlgorithmRRT, AlgorithmBiRRT} {
		cfg := DefaultConfig(algorithm)
		assert.NoError(t, cfg.Validate(), "algorithm %s", algorithm)
		assert.Equal(t, Point{X: 0.05, Y: 0.05}, cfg.Start)
		assert.Equal(t, Point{X: 0.95, Y: 0.95}, cfg.Goal)
		assert.Len(t, cfg.Obstacles, 5)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		algorithm Algorithm
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "valid default",
			algorithm: AlgorithmRRT,
			modify:    func(_ *Config) {},
		},
		{
			name:      "empty obstacle list is valid",
			algorithm: AlgorithmBiRRT,
			modify:    func(c *Config) { c.Obstacles = nil },
		},
		{
			name:      "unknown algorithm",
			algorithm: AlgorithmRRT,
			modify:    func(c *Config) { c.Algorithm = "prm" },
			wantField: "algorithm",
		},
		{
			name:      "zero iterations",
			algorithm: AlgorithmRRT,
			modify:    func(c *Config) { c.MaxIterations = 0 },
			wantField: "maxIterations",
		},
		{
			name:      "start outside the domain",
			algorithm: AlgorithmRRT,
			modify:    func(c *Config) { c.Start.X = 1.2 },
			wantField: "start.x",
		},
		{
			name:      "goal outside the domain",
			algorithm: AlgorithmBiRRT,
			modify:    func(c *Config) { c.Goal.Y = -0.1 },
			wantField: "goal.y",
		},
		{
			name:      "negative radius",
			algorithm: AlgorithmRRT,
			modify:    func(c *Config) { c.Obstacles[2].Radius = -0.1 },
			wantField: "obstacles[2].radius",
		},
		{
			name:      "zero radius",
			algorithm: AlgorithmRRT,
			modify:    func(c *Config) { c.Obstacles[0].Radius = 0 },
			wantField: "obstacles[0].radius",
		},
		{
			name:      "zero step size for rrt",
			algorithm: AlgorithmRRT,
			modify:    func(c *Config) { c.StepSize = 0 },
			wantField: "stepSize",
		},
		{
			name:      "step size is ignored by birrt",
			algorithm: AlgorithmBiRRT,
			modify:    func(c *Config) { c.StepSize = 0 },
		},
		{
			name:      "negative delta for birrt",
			algorithm: AlgorithmBiRRT,
			modify:    func(c *Config) { c.Delta = -0.06 },
			wantField: "delta",
		},
		{
			name:      "unknown goal check",
			algorithm: AlgorithmRRT,
			modify:    func(c *Config) { c.GoalCheck = "edge" },
			wantField: "goalCheck",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(tt.algorithm)
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestPlan_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig(AlgorithmRRT)
	cfg.StepSize = -1

	result, err := New().Plan(context.Background(), cfg)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Workers(t *testing.T) {
	cfg := DefaultConfig(AlgorithmBiRRT)
	assert.Equal(t, 1, cfg.workers())

	cfg.Workers = 6
	assert.Equal(t, 1, cfg.workers(), "workers only apply in parallel mode")

	cfg.Parallel = true
	assert.Equal(t, 6, cfg.workers())

	cfg.Workers = 0
	assert.GreaterOrEqual(t, cfg.workers(), 1)
}
