package planner

import "slices"

// Path is an ordered sequence of points from start to goal
type Path []Point

// Length returns the metric length of the polyline
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i-1].Distance(p[i])
	}
	return total
}

// Segments returns the consecutive legs of the path
func (p Path) Segments() []LineSegment {
	if len(p) < 2 {
		return nil
	}
	segments := make([]LineSegment, 0, len(p)-1)
	for i := 1; i < len(p); i++ {
		segments = append(segments, LineSegment{P1: p[i-1], P2: p[i]})
	}
	return segments
}

// ExtractTreePath walks parent links from node i back to the root and
// returns the points in root-to-node order.
func ExtractTreePath(t *Tree, i int) Path {
	path := Path{}
	for node := i; node != NoParent; node = t.Node(node).Parent {
		path = append(path, t.Node(node).Point)
	}
	slices.Reverse(path)
	return path
}

// JoinPaths concatenates the path-so-far of a start-tree node with the
// reversed path-so-far of a goal-tree node.
func JoinPaths(startTree *Tree, startNode int, goalTree *Tree, goalNode int) Path {
	head := startTree.PathTo(startNode)
	tail := goalTree.PathTo(goalNode)
	slices.Reverse(tail)

	path := make(Path, 0, len(head)+len(tail))
	path = append(path, head...)
	return append(path, tail...)
}
