package planner

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
)

// GrowRRT runs the single-tree grower. Each iteration samples a point,
// extends the nearest node one step toward it and then tries to attach the
// goal to the first node (in insertion order) within StepSize of it.
//
// Exhausting MaxIterations is reported as a Result with Found == false.
func GrowRRT(ctx context.Context, field *ObstacleField, cfg Config) (*Result, error) {
	return New().growRRT(ctx, field, cfg)
}

func (p *Planner) growRRT(ctx context.Context, field *ObstacleField, cfg Config) (_ *Result, err error) {
	ctx, span := startSpan(ctx, p.tracer, "planner.grow",
		attribute.Float64("planner.step_size", cfg.StepSize),
		attribute.String("planner.goal_check", string(cfg.goalCheck())),
	)
	defer func() { endSpan(span, err) }()

	sampler := NewSampler(cfg.Seed, streamRRT)
	tree := NewTree(cfg.Start)
	result := &Result{Algorithm: AlgorithmRRT, Trees: []*Tree{tree}}
	defer result.countNodes()
	goalCheck := cfg.goalCheck()

	// nodes before scanned already failed the goal check; the check is
	// deterministic, so only new nodes can qualify
	scanned := 0

	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("rrt iteration %d: %w", iter, err)
		}
		result.Iterations = iter

		sample := sampler.Sample()
		nearest := tree.Nearest(sample)
		candidate, ok := SteerDirect(field, tree.Node(nearest).Point, sample, cfg.StepSize)
		if ok {
			tree.Append(candidate, nearest)
			result.Stats.Accepted++
		} else {
			result.Stats.Rejected++
		}
		p.logger.DebugContext(ctx, "RRT iteration",
			slog.Int("iteration", iter),
			slog.Bool("accepted", ok),
			slog.Int("nearest", nearest),
			slog.Int("nodes", tree.Len()),
		)

		if attach, ok := findGoalAttachment(field, tree, scanned, cfg.Goal, cfg.StepSize, goalCheck); ok {
			goal := tree.Append(cfg.Goal, attach)
			p.logger.DebugContext(ctx, "Goal attached", slog.Int("iteration", iter), slog.Int("parent", attach))
			result.Found = true
			result.Path = ExtractTreePath(tree, goal)
			return result, nil
		}
		scanned = tree.Len()
	}

	return result, nil
}

// findGoalAttachment returns the first node at or after index from that lies
// within stepSize of goal and passes the goal check.
func findGoalAttachment(field *ObstacleField, tree *Tree, from int, goal Point, stepSize float64, check GoalCheck) (int, bool) {
	reach := stepSize * stepSize
	for i := from; i < tree.Len(); i++ {
		node := tree.Node(i).Point
		if node.DistanceSquared(goal) > reach {
			continue
		}

		switch check {
		case GoalCheckSegment:
			if field.SegmentFree(node, goal) {
				return i, true
			}
		default:
			if field.PointFree(node) {
				return i, true
			}
		}
	}
	return NoParent, false
}
