package planet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"planet-lod/internal/geom"
	"planet-lod/internal/quadtree"
)

func TestChunkDataSplit(t *testing.T) {
	bounds := geom.Sphere{Radius: 3}
	c := ChunkData{
		Bounds:     &bounds,
		Breakpoint: Breakpoint(50, 0, 4),
		FaceRegion: geom.UnitZone2(),
	}
	require.Equal(t, 800.0, c.Breakpoint)

	regions := c.FaceRegion.Subdivide()
	for i, child := range c.Split() {
		require.Nil(t, child.Bounds)
		require.Equal(t, Breakpoint(50, 1, 4), child.Breakpoint)
		require.Equal(t, regions[i], child.FaceRegion)
	}
}

func TestFaceRegionFollowsZone(t *testing.T) {
	root := quadtree.NewRoot(geom.FaceZone(geom.Front), ChunkData{
		Breakpoint: 4,
		FaceRegion: geom.UnitZone2(),
	})
	root.Subdivide()
	root.Child(quadtree.SouthWest).Subdivide()

	n := root.Child(quadtree.SouthWest).Child(quadtree.NorthEast)
	require.Equal(t, 2, n.Depth())
	require.Equal(t, 1.0, n.Value.Breakpoint)

	// The UV region of a node is the face UV square mapped like its zone.
	want := geom.UnitZone2().Subdivide()[quadtree.SouthWest].Subdivide()[quadtree.NorthEast]
	require.Equal(t, want, n.Value.FaceRegion)
}

func TestActiveSet(t *testing.T) {
	nodes := make([]*Node, 5)
	for i := range nodes {
		nodes[i] = quadtree.NewRoot(geom.FaceZone(geom.Top), ChunkData{})
	}

	s := newActiveSet(0)
	for _, n := range nodes {
		s.add(n)
	}
	s.add(nodes[0])
	require.Equal(t, 5, s.len())

	s.remove(nodes[1])
	s.remove(nodes[1])
	require.Equal(t, 4, s.len())
	require.False(t, s.contains(nodes[1]))

	var order []*Node
	s.each(func(n *Node) {
		if n == nodes[2] {
			s.remove(nodes[3])
		}
		order = append(order, n)
	})
	require.Equal(t, []*Node{nodes[0], nodes[2], nodes[4]}, order)
}
