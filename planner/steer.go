package planner

// SteerDirect proposes the point stepSize away from nearest along the bearing
// toward sample. The candidate is accepted when it is collision free and
// inside the domain; only the endpoint is checked, not the edge.
func SteerDirect(field *ObstacleField, nearest, sample Point, stepSize float64) (Point, bool) {
	candidate := nearest.Offset(nearest.Bearing(sample), stepSize)
	if !candidate.InUnitSquare() || !field.PointFree(candidate) {
		return candidate, false
	}
	return candidate, true
}

// SteerLocal proposes two points delta away from old, one along the bearing
// toward sample and one opposite, and keeps whichever is nearer to sample
// (the first on a tie). The candidate is accepted when the link back to old
// is collision free and the candidate lies inside the domain.
func SteerLocal(field *ObstacleField, old, sample Point, delta float64) (Point, bool) {
	theta := old.Bearing(sample)
	forward := old.Offset(theta, delta)
	backward := old.Offset(theta, -delta)

	candidate := forward
	if backward.DistanceSquared(sample) < forward.DistanceSquared(sample) {
		candidate = backward
	}

	if !field.SegmentFree(candidate, old) || !candidate.InUnitSquare() {
		return candidate, false
	}
	return candidate, true
}
