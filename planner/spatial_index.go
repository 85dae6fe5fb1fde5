package planner

import (
	"cmp"
	"slices"

	"github.com/dhconnelly/rtreego"
)

// queryTolerance is the half-width of the box used for point queries
const queryTolerance = 1e-9

// obstacleEntry wraps an obstacle for R-tree storage
type obstacleEntry struct {
	obstacle Obstacle
	order    int
	bbox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// SpatialIndex answers bounding-box queries over obstacles
type SpatialIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewSpatialIndex creates a new spatial index
func NewSpatialIndex(obstacles []Obstacle) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	size := 0
	for i, obstacle := range obstacles {
		bbox, err := obstacleBoundingBox(obstacle)
		if err != nil {
			continue
		}
		tree.Insert(&obstacleEntry{obstacle: obstacle, order: i, bbox: bbox})
		size++
	}

	return &SpatialIndex{tree: tree, size: size}
}

// Size returns the number of indexed obstacles
func (si *SpatialIndex) Size() int {
	return si.size
}

// QueryPoint returns obstacles whose bounding box contains p
func (si *SpatialIndex) QueryPoint(p Point) []Obstacle {
	return si.QueryRegion(p.X-queryTolerance, p.Y-queryTolerance, p.X+queryTolerance, p.Y+queryTolerance)
}

// QueryRegion returns obstacles whose bounding box intersects the given box,
// in the order they were indexed
func (si *SpatialIndex) QueryRegion(minX, minY, maxX, maxY float64) []Obstacle {
	entries := si.queryEntries(minX, minY, maxX, maxY)
	obstacles := make([]Obstacle, 0, len(entries))
	for _, entry := range entries {
		obstacles = append(obstacles, entry.obstacle)
	}
	return obstacles
}

func (si *SpatialIndex) queryEntries(minX, minY, maxX, maxY float64) []*obstacleEntry {
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)
	if err != nil {
		return nil
	}

	results := si.tree.SearchIntersect(bbox)
	entries := make([]*obstacleEntry, 0, len(results))
	for _, item := range results {
		entries = append(entries, item.(*obstacleEntry))
	}

	// rtreego returns results in tree order; keep callers deterministic
	slices.SortFunc(entries, func(a, b *obstacleEntry) int {
		return cmp.Compare(a.order, b.order)
	})
	return entries
}

// obstacleBoundingBox computes the axis-aligned bounding box of a disk
func obstacleBoundingBox(o Obstacle) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{o.Center.X - o.Radius, o.Center.Y - o.Radius},
		[]float64{2 * o.Radius, 2 * o.Radius},
	)
}
