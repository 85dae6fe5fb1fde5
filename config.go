package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"rrt-planner/planner"
)

// Environment overrides, applied after the scenario file
const (
	envSeed          = "RRT_SEED"
	envMaxIterations = "RRT_MAX_ITERATIONS"
	envAlgorithm     = "RRT_ALGORITHM"
)

// Scenario is the on-disk form of a planning run
type Scenario struct {
	planner.Config `yaml:",inline"`

	// ObstaclesFile names a GeoJSON file or directory of obstacles. Relative
	// paths resolve against the scenario file. Its obstacles are appended to
	// the inline ones.
	ObstaclesFile string `yaml:"obstacles_file"`
}

// DefaultScenario returns the demo RRT scenario
func DefaultScenario() Scenario {
	return Scenario{Config: planner.DefaultConfig(planner.AlgorithmRRT)}
}

// LoadScenario loads configuration with priority: env > file > defaults.
// An empty path loads the defaults.
func LoadScenario(path string) (planner.Config, error) {
	scenario := DefaultScenario()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return planner.Config{}, fmt.Errorf("read scenario: %w", err)
		}
		if err := yaml.Unmarshal(data, &scenario); err != nil {
			return planner.Config{}, fmt.Errorf("parse scenario %s: %w", path, err)
		}
	}

	if scenario.ObstaclesFile != "" {
		obstaclesPath := scenario.ObstaclesFile
		if !filepath.IsAbs(obstaclesPath) && path != "" {
			obstaclesPath = filepath.Join(filepath.Dir(path), obstaclesPath)
		}
		loaded, err := LoadObstacles(obstaclesPath)
		if err != nil {
			return planner.Config{}, fmt.Errorf("load obstacles: %w", err)
		}
		scenario.Obstacles = append(scenario.Obstacles, loaded...)
	}

	cfg := scenario.Config
	if err := applyEnv(&cfg); err != nil {
		return planner.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return planner.Config{}, fmt.Errorf("invalid scenario: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *planner.Config) error {
	if v := os.Getenv(envSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", envSeed, err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv(envMaxIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envMaxIterations, err)
		}
		cfg.MaxIterations = n
	}
	if v := os.Getenv(envAlgorithm); v != "" {
		cfg.Algorithm = planner.Algorithm(v)
	}
	return nil
}
