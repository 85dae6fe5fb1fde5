package planner

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// treeGrower extends one Bi-RRT tree from its own random stream
type treeGrower struct {
	tree     *Tree
	sampler  *Sampler
	logger   *slog.Logger
	accepted int
	rejected int
}

func newTreeGrower(name string, root Point, seed, stream uint64, logger *slog.Logger) *treeGrower {
	return &treeGrower{
		tree:    NewTree(root),
		sampler: NewSampler(seed, stream),
		logger:  logger.With(slog.String("tree", name)),
	}
}

// step performs one extension attempt from the node nearest a fresh sample
func (g *treeGrower) step(ctx context.Context, field *ObstacleField, delta float64, iter int) {
	sample := g.sampler.Sample()
	nearest := g.tree.Nearest(sample)
	candidate, ok := SteerLocal(field, g.tree.Node(nearest).Point, sample, delta)
	if ok {
		g.tree.Append(candidate, nearest)
		g.accepted++
	} else {
		g.rejected++
	}
	g.logger.DebugContext(ctx, "Bi-RRT iteration",
		slog.Int("iteration", iter),
		slog.Bool("accepted", ok),
		slog.Int("nearest", nearest),
		slog.Int("nodes", g.tree.Len()),
	)
}

// run performs every iteration for this tree
func (g *treeGrower) run(ctx context.Context, field *ObstacleField, iterations int, delta float64) error {
	for iter := 1; iter <= iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("birrt iteration %d: %w", iter, err)
		}
		g.step(ctx, field, delta, iter)
	}
	return nil
}

// GrowBiRRT grows a start tree and a goal tree for MaxIterations each,
// without any attempt to join them, then runs the connector once.
//
// The trees share nothing but the read-only obstacle field. With
// cfg.Parallel they grow on separate goroutines; the result is the same as
// the sequential interleaving because each tree has its own random stream.
func GrowBiRRT(ctx context.Context, field *ObstacleField, cfg Config) (*Result, error) {
	return New().growBiRRT(ctx, field, cfg)
}

func (p *Planner) growBiRRT(ctx context.Context, field *ObstacleField, cfg Config) (*Result, error) {
	start := newTreeGrower("start", cfg.Start, cfg.Seed, streamStartTree, p.logger)
	goal := newTreeGrower("goal", cfg.Goal, cfg.Seed, streamGoalTree, p.logger)
	result := &Result{
		Algorithm:  AlgorithmBiRRT,
		Trees:      []*Tree{start.tree, goal.tree},
		Iterations: cfg.MaxIterations,
	}
	defer result.countNodes()

	growCtx, growSpan := startSpan(ctx, p.tracer, "planner.grow",
		attribute.Bool("planner.parallel", cfg.Parallel),
		attribute.Float64("planner.delta", cfg.Delta),
	)

	var err error
	if cfg.Parallel {
		g, gctx := errgroup.WithContext(growCtx)
		for _, grower := range []*treeGrower{start, goal} {
			g.Go(func() error {
				return grower.run(gctx, field, cfg.MaxIterations, cfg.Delta)
			})
		}
		err = g.Wait()
	} else {
		err = growInterleaved(growCtx, field, cfg, start, goal)
	}

	result.Stats.Accepted = start.accepted + goal.accepted
	result.Stats.Rejected = start.rejected + goal.rejected
	growSpan.SetAttributes(
		attribute.Int("planner.nodes_start", start.tree.Len()),
		attribute.Int("planner.nodes_goal", goal.tree.Len()),
	)
	endSpan(growSpan, err)
	if err != nil {
		return result, err
	}

	connectCtx, connectSpan := startSpan(ctx, p.tracer, "planner.connect",
		attribute.Int("planner.workers", cfg.workers()),
	)
	conn, ok, stats, err := Connect(connectCtx, field, start.tree, goal.tree, cfg.workers())
	result.Stats.PairsTested = stats.PairsTested
	result.Stats.PairsFree = stats.PairsFree
	connectSpan.SetAttributes(
		attribute.Int("planner.pairs_tested", stats.PairsTested),
		attribute.Bool("planner.connected", ok),
	)
	endSpan(connectSpan, err)
	if err != nil {
		return result, err
	}
	p.logger.DebugContext(ctx, "Connector finished",
		slog.Bool("connected", ok),
		slog.Int("pairs_tested", stats.PairsTested),
		slog.Int("pairs_free", stats.PairsFree),
	)
	if ok {
		result.Found = true
		result.Connection = &conn
		result.Path = JoinPaths(start.tree, conn.StartNode, goal.tree, conn.GoalNode)
	}

	return result, nil
}

func growInterleaved(ctx context.Context, field *ObstacleField, cfg Config, start, goal *treeGrower) error {
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("birrt iteration %d: %w", iter, err)
		}
		start.step(ctx, field, cfg.Delta, iter)
		goal.step(ctx, field, cfg.Delta, iter)
	}
	return nil
}
