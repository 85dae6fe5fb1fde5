package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_NewTree(t *testing.T) {
	tree := NewTree(Point{X: 0.1, Y: 0.2})

	require.Equal(t, 1, tree.Len())
	root := tree.Root()
	assert.Equal(t, Point{X: 0.1, Y: 0.2}, root.Point)
	assert.Equal(t, NoParent, root.Parent)
	assert.Equal(t, 0, root.Depth)
}

func TestTree_AppendTracksDepth(t *testing.T) {
	tree := NewTree(Point{X: 0, Y: 0})
	a := tree.Append(Point{X: 0.1, Y: 0}, 0)
	b := tree.Append(Point{X: 0.2, Y: 0}, a)
	c := tree.Append(Point{X: 0, Y: 0.1}, 0)

	assert.Equal(t, []int{1, 2, 3}, []int{a, b, c})
	assert.Equal(t, 2, tree.Node(b).Depth)
	assert.Equal(t, 1, tree.Node(c).Depth)
	assert.Equal(t, a, tree.Node(b).Parent)
}

func TestTree_AppendWithMissingParentPanics(t *testing.T) {
	tree := NewTree(Point{X: 0, Y: 0})
	assert.Panics(t, func() { tree.Append(Point{X: 0.1, Y: 0.1}, 1) })
	assert.Panics(t, func() { tree.Append(Point{X: 0.1, Y: 0.1}, NoParent) })
}

func TestTree_NearestBreaksTiesByInsertionOrder(t *testing.T) {
	tree := NewTree(Point{X: 0, Y: 0})
	first := tree.Append(Point{X: 0.25, Y: 0.5}, 0)
	second := tree.Append(Point{X: 0.75, Y: 0.5}, 0)

	// (0.5, 0.5) is exactly 0.25 from both children
	assert.Equal(t, first, tree.Nearest(Point{X: 0.5, Y: 0.5}))

	reversed := NewTree(Point{X: 0, Y: 0})
	reversed.Append(Point{X: 0.75, Y: 0.5}, 0)
	reversed.Append(Point{X: 0.25, Y: 0.5}, 0)
	assert.Equal(t, first, reversed.Nearest(Point{X: 0.5, Y: 0.5}), "earliest inserted wins regardless of position")
	assert.NotEqual(t, second, tree.Nearest(Point{X: 0.5, Y: 0.5}))
}

func TestTree_NearestPicksClosest(t *testing.T) {
	tree := NewTree(Point{X: 0, Y: 0})
	tree.Append(Point{X: 0.5, Y: 0.5}, 0)
	far := tree.Append(Point{X: 1, Y: 1}, 1)

	assert.Equal(t, far, tree.Nearest(Point{X: 0.9, Y: 0.95}))
	assert.Equal(t, 0, tree.Nearest(Point{X: 0.1, Y: 0}))
}

func TestTree_PathToAndExtract(t *testing.T) {
	tree := NewTree(Point{X: 0, Y: 0})
	a := tree.Append(Point{X: 0.1, Y: 0}, 0)
	tree.Append(Point{X: 0, Y: 0.1}, 0)
	b := tree.Append(Point{X: 0.2, Y: 0}, a)

	want := Path{{X: 0, Y: 0}, {X: 0.1, Y: 0}, {X: 0.2, Y: 0}}
	assert.Equal(t, want, tree.PathTo(b))
	assert.Equal(t, want, ExtractTreePath(tree, b))
	assert.Equal(t, Path{{X: 0, Y: 0}}, tree.PathTo(0))
}

func TestTree_Edges(t *testing.T) {
	tree := NewTree(Point{X: 0, Y: 0})
	a := tree.Append(Point{X: 0.1, Y: 0}, 0)
	tree.Append(Point{X: 0.2, Y: 0}, a)

	assert.Equal(t, []LineSegment{
		{P1: Point{X: 0, Y: 0}, P2: Point{X: 0.1, Y: 0}},
		{P1: Point{X: 0.1, Y: 0}, P2: Point{X: 0.2, Y: 0}},
	}, tree.Edges())
	assert.Empty(t, NewTree(Point{}).Edges())
}

func TestTree_Validate(t *testing.T) {
	t.Run("valid tree", func(t *testing.T) {
		tree := NewTree(Point{X: 0, Y: 0})
		tree.Append(Point{X: 0.1, Y: 0.1}, 0)
		assert.NoError(t, tree.Validate(nil))
	})

	t.Run("node outside the domain", func(t *testing.T) {
		tree := NewTree(Point{X: 0, Y: 0})
		tree.Append(Point{X: -0.1, Y: 0.1}, 0)
		assert.ErrorIs(t, tree.Validate(nil), ErrInvariant)
	})

	t.Run("forward parent reference", func(t *testing.T) {
		tree := NewTree(Point{X: 0, Y: 0})
		tree.Append(Point{X: 0.1, Y: 0.1}, 0)
		tree.nodes[1].Parent = 1
		assert.ErrorIs(t, tree.Validate(nil), ErrInvariant)
	})

	t.Run("acceptance check fails", func(t *testing.T) {
		tree := NewTree(Point{X: 0, Y: 0})
		tree.Append(Point{X: 0.1, Y: 0.1}, 0)
		err := tree.Validate(func(node, parent Point) bool { return false })
		assert.ErrorIs(t, err, ErrInvariant)
	})
}

func TestJoinPaths(t *testing.T) {
	start := NewTree(Point{X: 0, Y: 0})
	s1 := start.Append(Point{X: 0.1, Y: 0.1}, 0)
	goal := NewTree(Point{X: 1, Y: 1})
	g1 := goal.Append(Point{X: 0.9, Y: 0.9}, 0)
	g2 := goal.Append(Point{X: 0.8, Y: 0.8}, g1)

	path := JoinPaths(start, s1, goal, g2)
	assert.Equal(t, Path{
		{X: 0, Y: 0}, {X: 0.1, Y: 0.1}, {X: 0.8, Y: 0.8}, {X: 0.9, Y: 0.9}, {X: 1, Y: 1},
	}, path)
}

func TestPath_Length(t *testing.T) {
	path := Path{{X: 0, Y: 0}, {X: 0.3, Y: 0.4}, {X: 0.3, Y: 1}}
	assert.InDelta(t, 1.1, path.Length(), 1e-12)
	assert.Len(t, path.Segments(), 2)
	assert.Zero(t, Path{{X: 0.5, Y: 0.5}}.Length())
	assert.Nil(t, Path{}.Segments())
}

func TestTreeFromNodes(t *testing.T) {
	tree := NewTree(Point{X: 0.5, Y: 0.5})
	a := tree.Append(Point{X: 0.6, Y: 0.5}, 0)
	tree.Append(Point{X: 0.6, Y: 0.6}, a)

	rebuilt, err := TreeFromNodes(tree.Nodes())
	require.NoError(t, err)
	assert.Equal(t, tree.Nodes(), rebuilt.Nodes())
	assert.Equal(t, tree.Edges(), rebuilt.Edges())

	_, err = TreeFromNodes(nil)
	assert.ErrorIs(t, err, ErrInvariant)

	broken := tree.Nodes()
	broken[2].Parent = 2
	_, err = TreeFromNodes(broken)
	assert.ErrorIs(t, err, ErrInvariant)
}
