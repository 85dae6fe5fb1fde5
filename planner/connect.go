package planner

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// rowsPerChunkPerWorker sets how finely the parallel scan is split
const rowsPerChunkPerWorker = 4

// Connection is the chosen link between a start-tree node and a goal-tree node
type Connection struct {
	StartNode int `json:"startNode"`
	GoalNode  int `json:"goalNode"`
	// Cost is the combined path-so-far length of both nodes, in points.
	Cost int `json:"cost"`
}

// ConnectStats counts the work the connector did
type ConnectStats struct {
	PairsTested int `json:"pairsTested"`
	PairsFree   int `json:"pairsFree"`
}

// candidate is the best connection found in one chunk of the scan
type candidate struct {
	conn    Connection
	ordinal int
	found   bool
	stats   ConnectStats
}

// Connect searches all cross-tree pairs for the collision-free link with the
// lowest cost. Pairs are enumerated newest node first on both trees, and on
// equal cost the first pair in that order wins. A pair is only tested when
// its cost could beat the best so far, which leaves the choice unchanged.
//
// workers > 1 splits the scan across goroutines. The reduction orders by
// (cost, enumeration ordinal), so the choice does not depend on scheduling.
// No free pair is reported as ok == false with a nil error.
func Connect(ctx context.Context, field *ObstacleField, startTree, goalTree *Tree, workers int) (Connection, bool, ConnectStats, error) {
	rows := startTree.Len()
	if workers < 1 {
		workers = 1
	}

	chunkSize := rows
	if workers > 1 {
		chunkSize = max(1, rows/(workers*rowsPerChunkPerWorker))
	}
	chunks := (rows + chunkSize - 1) / chunkSize
	results := make([]candidate, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := 0; c < chunks; c++ {
		lo := c * chunkSize
		hi := min(rows, lo+chunkSize)
		g.Go(func() error {
			best, err := scanRows(gctx, field, startTree, goalTree, lo, hi)
			results[c] = best
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Connection{}, false, sumStats(results), fmt.Errorf("connect trees: %w", err)
	}

	best := candidate{}
	for _, r := range results {
		if r.found && (!best.found || r.conn.Cost < best.conn.Cost ||
			(r.conn.Cost == best.conn.Cost && r.ordinal < best.ordinal)) {
			best = r
		}
	}

	return best.conn, best.found, sumStats(results), nil
}

// scanRows scans enumeration rows [lo, hi). Row r is start-tree node
// Len()-1-r; column s is goal-tree node Len()-1-s.
func scanRows(ctx context.Context, field *ObstacleField, startTree, goalTree *Tree, lo, hi int) (candidate, error) {
	best := candidate{conn: Connection{Cost: math.MaxInt}}
	cols := goalTree.Len()

	for r := lo; r < hi; r++ {
		if err := ctx.Err(); err != nil {
			return best, err
		}

		a := startTree.Len() - 1 - r
		nodeA := startTree.Node(a)
		for s := 0; s < cols; s++ {
			b := cols - 1 - s
			nodeB := goalTree.Node(b)

			cost := nodeA.Depth + 1 + nodeB.Depth + 1
			if cost >= best.conn.Cost {
				continue
			}

			best.stats.PairsTested++
			if !field.SegmentFree(nodeA.Point, nodeB.Point) {
				continue
			}
			best.stats.PairsFree++
			best.conn = Connection{StartNode: a, GoalNode: b, Cost: cost}
			best.ordinal = r*cols + s
			best.found = true
		}
	}

	return best, nil
}

func sumStats(results []candidate) ConnectStats {
	var stats ConnectStats
	for _, r := range results {
		stats.PairsTested += r.stats.PairsTested
		stats.PairsFree += r.stats.PairsFree
	}
	return stats
}
