package planner

import (
	"fmt"
	"log/slog"
)

// Obstacle is a circular region of the domain that paths must avoid
type Obstacle struct {
	Center Point   `json:"center" yaml:"center"`
	Radius float64 `json:"radius" yaml:"radius" validate:"gt=0,lte=1"`
}

// Contains reports whether p lies strictly inside the disk.
// The boundary counts as free space.
func (o Obstacle) Contains(p Point) bool {
	return o.Center.DistanceSquared(p) < o.Radius*o.Radius
}

// ContainsObstacle reports whether other lies entirely within o
func (o Obstacle) ContainsObstacle(other Obstacle) bool {
	return o.Center.Distance(other.Center)+other.Radius <= o.Radius
}

// ObstacleField is the immutable set of obstacles a run plans around.
// It is safe for concurrent reads.
type ObstacleField struct {
	obstacles []Obstacle
	index     *SpatialIndex
}

// NewObstacleField validates and copies the obstacles, drops the ones
// fully covered by another obstacle and indexes the rest.
// An empty list is valid and describes free space.
func NewObstacleField(obstacles []Obstacle) (*ObstacleField, error) {
	for i, o := range obstacles {
		if !(o.Radius > 0) {
			return nil, configErrorf(fmt.Sprintf("obstacles[%d].radius", i), "must be positive, got %g", o.Radius)
		}
	}

	kept := removeContainedObstacles(obstacles)
	if removed := len(obstacles) - len(kept); removed > 0 {
		slog.Debug("Obstacles after removing contained",
			slog.Int("kept", len(kept)),
			slog.Int("removed", removed),
		)
	}

	return &ObstacleField{
		obstacles: kept,
		index:     NewSpatialIndex(kept),
	}, nil
}

// Obstacles returns a copy of the obstacles the field checks against
func (f *ObstacleField) Obstacles() []Obstacle {
	out := make([]Obstacle, len(f.obstacles))
	copy(out, f.obstacles)
	return out
}

// Len returns the number of obstacles in the field
func (f *ObstacleField) Len() int {
	return len(f.obstacles)
}

// removeContainedObstacles removes obstacles that are fully contained within
// other obstacles. Point and line predicates give the same answer with or
// without them, since anything touching an inner disk touches the outer one.
func removeContainedObstacles(obstacles []Obstacle) []Obstacle {
	result := make([]Obstacle, 0, len(obstacles))
	if len(obstacles) <= 1 {
		return append(result, obstacles...)
	}

	index := NewSpatialIndex(obstacles)
	contained := make([]bool, len(obstacles))

	for i, inner := range obstacles {
		if contained[i] {
			continue
		}

		minX, minY := inner.Center.X-inner.Radius, inner.Center.Y-inner.Radius
		maxX, maxY := inner.Center.X+inner.Radius, inner.Center.Y+inner.Radius
		for _, candidate := range index.queryEntries(minX, minY, maxX, maxY) {
			j := candidate.order
			if i == j || contained[j] {
				continue
			}

			// Check if obstacle i is contained in obstacle j
			if candidate.obstacle.ContainsObstacle(inner) {
				contained[i] = true
				break
			}

			// Check if obstacle j is contained in obstacle i
			if inner.ContainsObstacle(candidate.obstacle) {
				contained[j] = true
			}
		}
	}

	for i, o := range obstacles {
		if !contained[i] {
			result = append(result, o)
		}
	}

	return result
}
