package planner

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Algorithm selects the grower
type Algorithm string

const (
	// AlgorithmRRT grows one tree from start and attaches the goal directly.
	AlgorithmRRT Algorithm = "rrt"
	// AlgorithmBiRRT grows a start tree and a goal tree, then connects them.
	AlgorithmBiRRT Algorithm = "birrt"
)

// GoalCheck selects how the RRT grower vets the node it attaches the goal to
type GoalCheck string

const (
	// GoalCheckPoint re-checks that the found node is collision free. The node
	// was accepted under the same test, so the check always passes.
	GoalCheckPoint GoalCheck = "point"
	// GoalCheckSegment requires a collision-free link from the node to the goal.
	GoalCheckSegment GoalCheck = "segment"
)

// Defaults of the demo scenario
const (
	DefaultMaxIterations = 100
	DefaultStepSize      = 0.06
	DefaultDelta         = 0.06
)

// Config describes one planning run
type Config struct {
	Algorithm     Algorithm  `json:"algorithm" yaml:"algorithm" validate:"required,oneof=rrt birrt"`
	Start         Point      `json:"start" yaml:"start"`
	Goal          Point      `json:"goal" yaml:"goal"`
	Obstacles     []Obstacle `json:"obstacles" yaml:"obstacles" validate:"dive"`
	MaxIterations int        `json:"maxIterations" yaml:"max_iterations" validate:"gt=0"`

	// StepSize is the RRT extension length.
	StepSize float64 `json:"stepSize,omitempty" yaml:"step_size"`
	// Delta is the Bi-RRT extension length.
	Delta float64 `json:"delta,omitempty" yaml:"delta"`

	Seed      uint64    `json:"seed" yaml:"seed"`
	GoalCheck GoalCheck `json:"goalCheck,omitempty" yaml:"goal_check" validate:"omitempty,oneof=point segment"`

	// Parallel grows the Bi-RRT trees concurrently and splits the connector
	// scan across Workers goroutines. Output is identical either way.
	Parallel bool `json:"parallel,omitempty" yaml:"parallel"`
	Workers  int  `json:"workers,omitempty" yaml:"workers" validate:"gte=0"`
}

// DefaultObstacles is the five-obstacle demo field
func DefaultObstacles() []Obstacle {
	return []Obstacle{
		{Center: Point{X: 0.15, Y: 0.1}, Radius: 0.05},
		{Center: Point{X: 0.1, Y: 0.4}, Radius: 0.05},
		{Center: Point{X: 0.75, Y: 0.75}, Radius: 0.075},
		{Center: Point{X: 0.4, Y: 0.5}, Radius: 0.075},
		{Center: Point{X: 0.7, Y: 0.5}, Radius: 0.075},
	}
}

// DefaultConfig returns the demo scenario for the given algorithm
func DefaultConfig(algorithm Algorithm) Config {
	return Config{
		Algorithm:     algorithm,
		Start:         Point{X: 0.05, Y: 0.05},
		Goal:          Point{X: 0.95, Y: 0.95},
		Obstacles:     DefaultObstacles(),
		MaxIterations: DefaultMaxIterations,
		StepSize:      DefaultStepSize,
		Delta:         DefaultDelta,
		GoalCheck:     GoalCheckPoint,
	}
}

var configValidate = newConfigValidator()

// newConfigValidator reports fields by their JSON names, the names callers
// use in requests.
func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration. Failures match ErrInvalidConfig.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return configErrorf(fieldPath(fe.Namespace()), "failed %q (value %v)", fe.ActualTag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch c.Algorithm {
	case AlgorithmRRT:
		if !(c.StepSize > 0) {
			return configErrorf("stepSize", "must be positive, got %g", c.StepSize)
		}
	case AlgorithmBiRRT:
		if !(c.Delta > 0) {
			return configErrorf("delta", "must be positive, got %g", c.Delta)
		}
	}

	return nil
}

// goalCheck returns the configured mode or the default
func (c Config) goalCheck() GoalCheck {
	if c.GoalCheck == "" {
		return GoalCheckPoint
	}
	return c.GoalCheck
}

// workers returns the connector worker count
func (c Config) workers() int {
	if !c.Parallel {
		return 1
	}
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// fieldPath strips the struct name from a validator namespace
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
