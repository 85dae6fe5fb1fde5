package planner

// PointFree reports whether p is outside every obstacle.
// A point on an obstacle boundary is free.
func (f *ObstacleField) PointFree(p Point) bool {
	for _, o := range f.index.QueryPoint(p) {
		if o.Contains(p) {
			return false
		}
	}
	return true
}

// SegmentFree reports whether the segment p1-p2 clears every obstacle.
//
// The test is the discriminant of the line/circle intersection, so it checks
// the infinite line through p1 and p2 rather than the finite segment. That
// over-approximates blocking, which is accepted for the short extension steps
// the growers take. A degenerate segment (p1 == p2) is blocked whenever the
// field has any obstacle.
func (f *ObstacleField) SegmentFree(p1, p2 Point) bool {
	for _, o := range f.obstacles {
		if segmentDiscriminant(o, p1, p2) >= 0 {
			return false
		}
	}
	return true
}

// segmentDiscriminant returns (r*dr)^2 - D^2 for obstacle o and the line
// through p1 and p2. It is non-negative iff the line meets the disk.
func segmentDiscriminant(o Obstacle, p1, p2 Point) float64 {
	dr2 := p1.DistanceSquared(p2)
	d := (p1.X-o.Center.X)*(p2.Y-o.Center.Y) - (p2.X-o.Center.X)*(p1.Y-o.Center.Y)
	return o.Radius*o.Radius*dr2 - d*d
}
