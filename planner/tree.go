package planner

import (
	"fmt"
)

// NoParent marks the root of a tree
const NoParent = -1

// Node is a tree vertex. Parent is an index into the owning tree, never a
// pointer, so the tree is the only owner of its nodes.
type Node struct {
	Point  Point `json:"point"`
	Parent int   `json:"parent"`
	// Depth is the number of edges from the root; the path-so-far of the
	// node holds Depth+1 points.
	Depth int `json:"depth"`
}

// Tree is an append-only, insertion-ordered store of nodes.
// Index 0 is the root.
type Tree struct {
	nodes []Node
}

// NewTree creates a tree holding only its root
func NewTree(root Point) *Tree {
	return &Tree{nodes: []Node{{Point: root, Parent: NoParent}}}
}

// TreeFromNodes rebuilds a tree from nodes in insertion order, as returned
// by Nodes. The nodes must pass the structural checks of Validate.
func TreeFromNodes(nodes []Node) (*Tree, error) {
	t := &Tree{nodes: make([]Node, len(nodes))}
	copy(t.nodes, nodes)
	if err := t.Validate(nil); err != nil {
		return nil, err
	}
	return t, nil
}

// Len returns the number of nodes in the tree
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the seed node
func (t *Tree) Root() Node {
	return t.nodes[0]
}

// Node returns the node at insertion index i
func (t *Tree) Node(i int) Node {
	return t.nodes[i]
}

// Nodes returns a copy of the nodes in insertion order
func (t *Tree) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Append adds p as a child of the node at index parent and returns the new
// node's index. A parent outside the tree is an implementation defect.
func (t *Tree) Append(p Point, parent int) int {
	if parent < 0 || parent >= len(t.nodes) {
		panic(fmt.Sprintf("planner: append with parent %d outside tree of %d nodes", parent, len(t.nodes)))
	}
	t.nodes = append(t.nodes, Node{
		Point:  p,
		Parent: parent,
		Depth:  t.nodes[parent].Depth + 1,
	})
	return len(t.nodes) - 1
}

// Nearest returns the index of the node closest to p.
// Ties go to the earliest inserted node.
func (t *Tree) Nearest(p Point) int {
	best := 0
	bestDist := t.nodes[0].Point.DistanceSquared(p)

	for i := 1; i < len(t.nodes); i++ {
		dist := t.nodes[i].Point.DistanceSquared(p)
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}

	return best
}

// PathTo returns the path-so-far of node i: the points from the root to i
func (t *Tree) PathTo(i int) Path {
	path := make(Path, t.nodes[i].Depth+1)
	for k := len(path) - 1; k >= 0; k-- {
		path[k] = t.nodes[i].Point
		i = t.nodes[i].Parent
	}
	return path
}

// Edges returns every parent-child link as a line segment
func (t *Tree) Edges() []LineSegment {
	lines := make([]LineSegment, 0, len(t.nodes)-1)
	for _, node := range t.nodes[1:] {
		lines = append(lines, LineSegment{P1: t.nodes[node.Parent].Point, P2: node.Point})
	}
	return lines
}

// EdgeCheck decides whether a node was acceptable given its parent
type EdgeCheck func(node, parent Point) bool

// Validate checks the structural invariants of the tree: a single root at
// index 0, parents inserted before their children, consistent depths, every
// node in the unit square. If accept is non-nil every non-root node must also
// satisfy it against its parent.
func (t *Tree) Validate(accept EdgeCheck) error {
	if len(t.nodes) == 0 {
		return fmt.Errorf("%w: empty tree", ErrInvariant)
	}
	if t.nodes[0].Parent != NoParent || t.nodes[0].Depth != 0 {
		return fmt.Errorf("%w: root has parent %d depth %d", ErrInvariant, t.nodes[0].Parent, t.nodes[0].Depth)
	}

	for i, node := range t.nodes {
		if !node.Point.InUnitSquare() {
			return fmt.Errorf("%w: node %d at (%g, %g) is outside the domain", ErrInvariant, i, node.Point.X, node.Point.Y)
		}
		if i == 0 {
			continue
		}
		if node.Parent < 0 || node.Parent >= i {
			return fmt.Errorf("%w: node %d has parent %d", ErrInvariant, i, node.Parent)
		}
		parent := t.nodes[node.Parent]
		if node.Depth != parent.Depth+1 {
			return fmt.Errorf("%w: node %d has depth %d, parent depth %d", ErrInvariant, i, node.Depth, parent.Depth)
		}
		if accept != nil && !accept(node.Point, parent.Point) {
			return fmt.Errorf("%w: node %d fails the acceptance check against its parent", ErrInvariant, i)
		}
	}

	return nil
}
