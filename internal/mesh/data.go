// Package mesh generates the CPU side geometry of planet chunks.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/geom"
)

// Data is the geometry of one chunk. Buffers are laid out for direct upload
// to the GPU.
type Data struct {
	Name      string
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Triangles []uint32
}

// Bounds returns the axis aligned box holding every vertex.
func (d *Data) Bounds() geom.Box {
	var b geom.Box
	for _, v := range d.Vertices {
		b = b.Encapsulate(mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
	}
	return b
}

// TriangleCount returns the number of triangles.
func (d *Data) TriangleCount() int {
	return len(d.Triangles) / 3
}

// Triangle returns the corners of triangle i.
func (d *Data) Triangle(i int) (a, b, c mgl32.Vec3) {
	return d.Vertices[d.Triangles[i*3]],
		d.Vertices[d.Triangles[i*3+1]],
		d.Vertices[d.Triangles[i*3+2]]
}
