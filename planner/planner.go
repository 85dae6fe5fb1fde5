// Package planner finds collision-free paths across the unit square with
// rapidly-exploring random trees.
//
// Two growers are provided. The RRT grower extends one tree from the start
// and attaches the goal as soon as a node comes within one step of it. The
// Bi-RRT grower extends a start tree and a goal tree independently for a
// fixed budget and then connects them through the cheapest collision-free
// cross-tree link. Both are probabilistic and incomplete: running out of
// iterations is a normal "no path" result.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Stats summarises the work of one run
type Stats struct {
	NodesStart  int `json:"nodesStart"`
	NodesGoal   int `json:"nodesGoal"`
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	PairsTested int `json:"pairsTested"`
	PairsFree   int `json:"pairsFree"`
}

// Result is the outcome of a planning run. Found == false is the "no path"
// outcome; Path is nil in that case.
type Result struct {
	Algorithm  Algorithm   `json:"algorithm"`
	Found      bool        `json:"found"`
	Path       Path        `json:"path"`
	Iterations int         `json:"iterations"`
	Trees      []*Tree     `json:"-"`
	Connection *Connection `json:"connection,omitempty"`
	Stats      Stats       `json:"stats"`
}

func (r *Result) countNodes() {
	if len(r.Trees) > 0 {
		r.Stats.NodesStart = r.Trees[0].Len()
	}
	if len(r.Trees) > 1 {
		r.Stats.NodesGoal = r.Trees[1].Len()
	}
}

// Planner runs planning requests. It holds no per-run state and is safe for
// concurrent use.
type Planner struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a Planner
type Option func(*Planner)

// WithLogger sets the logger (slog.Default() otherwise)
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithTracer sets the tracer (the global otel tracer otherwise)
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Planner) {
		p.tracer = tracer
	}
}

// New creates a planner
func New(opts ...Option) *Planner {
	p := &Planner{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Plan validates cfg, builds the obstacle field and runs the selected grower.
func (p *Planner) Plan(ctx context.Context, cfg Config) (result *Result, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	field, err := NewObstacleField(cfg.Obstacles)
	if err != nil {
		return nil, err
	}
	if err := checkEndpoints(field, cfg); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, p.tracer, "planner.plan",
		attribute.String("planner.algorithm", string(cfg.Algorithm)),
		attribute.Int("planner.max_iterations", cfg.MaxIterations),
		attribute.Int("planner.obstacles", field.Len()),
		attribute.Int64("planner.seed", int64(cfg.Seed)),
	)
	defer func() { endSpan(span, err) }()

	started := time.Now()
	switch cfg.Algorithm {
	case AlgorithmRRT:
		result, err = p.growRRT(ctx, field, cfg)
	case AlgorithmBiRRT:
		result, err = p.growBiRRT(ctx, field, cfg)
	default:
		return nil, configErrorf("algorithm", "unknown algorithm %q", cfg.Algorithm)
	}
	if err != nil {
		return nil, fmt.Errorf("%s plan: %w", cfg.Algorithm, err)
	}
	elapsed := time.Since(started)

	recordPlan(cfg.Algorithm, result, elapsed.Seconds())
	span.SetAttributes(
		attribute.Bool("planner.found", result.Found),
		attribute.Int("planner.iterations", result.Iterations),
		attribute.Int("planner.path_points", len(result.Path)),
	)

	p.logger.InfoContext(ctx, "Plan completed",
		slog.String("algorithm", string(cfg.Algorithm)),
		slog.Bool("found", result.Found),
		slog.Int("iterations", result.Iterations),
		slog.Int("waypoints", len(result.Path)),
		slog.Int("nodes_start", result.Stats.NodesStart),
		slog.Int("nodes_goal", result.Stats.NodesGoal),
		slog.Int("accepted", result.Stats.Accepted),
		slog.Int("rejected", result.Stats.Rejected),
		slog.Int("pairs_tested", result.Stats.PairsTested),
		slog.Duration("elapsed", elapsed),
	)

	return result, nil
}

// checkEndpoints rejects a start or goal inside an obstacle. Both become tree
// nodes, and every node must be collision free.
func checkEndpoints(field *ObstacleField, cfg Config) error {
	if !field.PointFree(cfg.Start) {
		return configErrorf("start", "(%g, %g) lies inside an obstacle", cfg.Start.X, cfg.Start.Y)
	}
	if !field.PointFree(cfg.Goal) {
		return configErrorf("goal", "(%g, %g) lies inside an obstacle", cfg.Goal.X, cfg.Goal.Y)
	}
	return nil
}

// ValidateTrees checks every tree of a result against its structural
// invariants and the acceptance rule of the grower that built it.
func (r *Result) ValidateTrees(field *ObstacleField) error {
	for i, tree := range r.Trees {
		var accept EdgeCheck
		switch r.Algorithm {
		case AlgorithmRRT:
			accept = func(node, _ Point) bool { return field.PointFree(node) }
		case AlgorithmBiRRT:
			accept = func(node, parent Point) bool { return field.SegmentFree(node, parent) }
		}
		if err := tree.Validate(accept); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
