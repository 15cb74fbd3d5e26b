// Package planet drives the level of detail of a cube-sphere planet. Every
// cube face owns a quadtree of chunks and swaps chunk geometry in and out as
// the camera moves.
package planet

import (
	"math"

	"planet-lod/internal/geom"
	"planet-lod/internal/quadtree"
)

// Node is a quadtree node of a planet face.
type Node = quadtree.Node[ChunkData]

// ChunkData is the payload of a face quadtree node.
type ChunkData struct {
	// Bounds is nil until the node is rendered for the first time.
	Bounds *geom.Sphere

	// Breakpoint is the distance from the bounds under which the node
	// splits.
	Breakpoint float64

	// FaceRegion is the part of the face's [0,1]x[0,1] UV square covered
	// by the node.
	FaceRegion geom.Zone2
}

// Breakpoint returns base * 2^(maxDepth - depth).
func Breakpoint(base float64, depth, maxDepth int) float64 {
	return base * math.Pow(2, float64(maxDepth-depth))
}

// Split returns the payloads of the four children.
func (c ChunkData) Split() [4]ChunkData {
	regions := c.FaceRegion.Subdivide()

	var children [4]ChunkData
	for i := range children {
		children[i] = ChunkData{
			Breakpoint: c.Breakpoint / 2,
			FaceRegion: regions[i],
		}
	}
	return children
}
