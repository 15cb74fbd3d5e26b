package quadtree

import (
	"math/rand/v2"
	"testing"

	"planet-lod/internal/geom"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

type label struct {
	path string
}

func (l label) Split() [4]label {
	return [4]label{{l.path + "0"}, {l.path + "1"}, {l.path + "2"}, {l.path + "3"}}
}

func unitZone() geom.Zone3 {
	return geom.NewZone3(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 0})
}

func TestSubdivide(t *testing.T) {
	root := NewRoot(unitZone(), label{"r"})
	require.True(t, root.IsLeaf())
	require.True(t, root.IsRoot())
	require.Nil(t, root.Children())

	root.Subdivide()
	require.True(t, root.IsBranch())
	require.Len(t, root.Children(), 4)

	zones := unitZone().Subdivide()
	for i, q := range Quadrants {
		c := root.Child(q)
		require.Same(t, root, c.Parent())
		require.Equal(t, 1, c.Depth())
		require.Equal(t, zones[i], c.Zone())
		require.Equal(t, "r"+string(rune('0'+i)), c.Value.path)
		require.True(t, c.IsLeaf())
		require.False(t, c.IsRoot())
	}
}

func TestSubdivideBranchPanics(t *testing.T) {
	root := NewRoot(unitZone(), label{})
	root.Subdivide()
	require.Panics(t, root.Subdivide)
}

func TestTrim(t *testing.T) {
	root := NewRoot(unitZone(), label{})
	root.Subdivide()
	children := append([]*Node[label](nil), root.Children()...)
	children[0].Subdivide()

	root.Trim()
	require.True(t, root.IsLeaf())
	for _, c := range children {
		require.Nil(t, c.Parent())
		require.Equal(t, 0, c.Depth())
	}
	require.Panics(t, root.Trim)
	require.Panics(t, func() { root.Child(NorthEast) })
}

func TestDepthParentConsistency(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	root := NewRoot(unitZone(), label{})

	for range 500 {
		var nodes []*Node[label]
		root.Walk(func(n *Node[label]) bool {
			nodes = append(nodes, n)
			return true
		})
		n := nodes[rng.IntN(len(nodes))]
		switch {
		case n.IsLeaf() && n.Depth() < 6:
			n.Subdivide()
		case n.IsBranch():
			n.Trim()
		}

		root.Walk(func(n *Node[label]) bool {
			if n.IsRoot() {
				require.Equal(t, 0, n.Depth())
			} else {
				require.Equal(t, n.Parent().Depth()+1, n.Depth())
			}
			require.Equal(t, n.IsLeaf(), len(n.Children()) == 0)
			return true
		})
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	root := NewRoot(unitZone(), label{"r"})
	root.Subdivide()
	root.Child(SouthWest).Subdivide()

	var visited []string
	root.Walk(func(n *Node[label]) bool {
		visited = append(visited, n.Value.path)
		return n.Depth() == 0
	})
	require.Equal(t, []string{"r", "r0", "r1", "r2", "r3"}, visited)

	count := 0
	root.Walk(func(*Node[label]) bool {
		count++
		return true
	})
	require.Equal(t, 9, count)
}

func TestQuadrantString(t *testing.T) {
	require.Equal(t, "NE", NorthEast.String())
	require.Equal(t, "SW", SouthWest.String())
}
