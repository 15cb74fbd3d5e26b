package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/geom"
)

// grid lays out a (resolution+2)^2 vertex grid over a cube region and
// projects it onto the displaced sphere.
type grid struct {
	GridOptions

	// altitude returns the distance from the planet center of the surface
	// above a point of the unit cube.
	altitude func(cube mgl64.Vec3) float64

	// normal overrides the finite difference normal when set.
	normal func(cube mgl64.Vec3) mgl64.Vec3
}

func (g grid) build(prefix string, topLeft, topRight, bottomLeft, bottomRight mgl64.Vec3, uv geom.Zone2) *Data {
	res := max(g.Resolution, 0)
	width := res + 2
	size := width * width
	step := 1.0 / float64(res+1)

	skirtVertices := 0
	if g.Skirts {
		skirtVertices = width * 4
	}

	d := &Data{
		Name:      fmt.Sprintf("%s_r%d", prefix, res),
		Vertices:  make([]mgl32.Vec3, size+skirtVertices),
		Normals:   make([]mgl32.Vec3, size+skirtVertices),
		UVs:       make([]mgl32.Vec2, size+skirtVertices),
		Triangles: make([]uint32, 0, 6*(width-1)*(width-1)+6*4*(width-1)),
	}

	right := topRight.Sub(topLeft)
	down := bottomLeft.Sub(topLeft)
	eps := math.Max(right.Len()*step*0.25, 1e-7)
	if right.Len() > 0 {
		right = right.Normalize()
	}
	if down.Len() > 0 {
		down = down.Normalize()
	}

	for i := range width {
		fi := float64(i) * step
		top := geom.Lerp3(topLeft, topRight, fi)
		bottom := geom.Lerp3(bottomLeft, bottomRight, fi)
		uvTop := geom.Lerp2(uv.A, uv.B, fi)
		uvBottom := geom.Lerp2(uv.D, uv.C, fi)

		for j := range width {
			fj := float64(j) * step
			idx := i + width*j

			cube := geom.Lerp3(top, bottom, fj)
			pos := g.surface(cube)

			var n mgl64.Vec3
			if g.normal != nil {
				n = g.normal(cube)
			} else {
				n = g.surfaceNormal(cube, pos, right, down, eps)
			}

			d.Vertices[idx] = vec32(pos)
			d.Normals[idx] = vec32(n)
			d.UVs[idx] = vec2(geom.Lerp2(uvTop, uvBottom, fj))

			if i > 0 && j > 0 {
				d.Triangles = append(d.Triangles,
					uint32((i-1)+width*(j-1)), uint32(i+width*(j-1)), uint32(idx),
					uint32((i-1)+width*(j-1)), uint32(idx), uint32((i-1)+width*j),
				)
			}
		}
	}

	if g.Skirts {
		g.skirts(d, width, vec32(topLeft.Sub(bottomLeft).Normalize()), vec32(right))
	}
	return d
}

// skirts appends the four edge rings. Ring k of edge e lives at
// size + e*width + k.
func (g grid) skirts(d *Data, width int, topNormal, rightNormal mgl32.Vec3) {
	size := width * width
	factor := float32(g.SkirtSize)
	if factor <= 0 || factor > 1 {
		factor = 1
	}

	edges := [4]struct {
		index  func(i int) int
		normal mgl32.Vec3
		flip   bool
	}{
		{func(i int) int { return i }, topNormal, false},
		{func(i int) int { return i + width*(width-1) }, topNormal.Mul(-1), true},
		{func(i int) int { return width * i }, rightNormal.Mul(-1), true},
		{func(i int) int { return (width - 1) + width*i }, rightNormal, false},
	}

	for e, edge := range edges {
		base := size + e*width
		for i := range width {
			idx := edge.index(i)
			d.Vertices[base+i] = d.Vertices[idx].Mul(factor)
			d.Normals[base+i] = edge.normal
			d.UVs[base+i] = d.UVs[idx]

			if i == 0 {
				continue
			}
			prev := edge.index(i - 1)
			if edge.flip {
				d.Triangles = append(d.Triangles,
					uint32(prev), uint32(idx), uint32(base+i),
					uint32(prev), uint32(base+i), uint32(base+i-1),
				)
			} else {
				d.Triangles = append(d.Triangles,
					uint32(idx), uint32(prev), uint32(base+i-1),
					uint32(idx), uint32(base+i-1), uint32(base+i),
				)
			}
		}
	}
}

func (g grid) surface(cube mgl64.Vec3) mgl64.Vec3 {
	return geom.Spherify(cube).Mul(g.altitude(cube))
}

// surfaceNormal approximates the normal from two neighbouring surface points
// along the region's edges.
func (g grid) surfaceNormal(cube, pos, right, down mgl64.Vec3, eps float64) mgl64.Vec3 {
	pr := g.surface(cube.Add(right.Mul(eps)))
	pd := g.surface(cube.Add(down.Mul(eps)))

	n := pr.Sub(pos).Cross(pd.Sub(pos))
	if n.Len() == 0 {
		return geom.Spherify(cube).Normalize()
	}
	n = n.Normalize()
	if n.Dot(pos) < 0 {
		n = n.Mul(-1)
	}
	return n
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func vec2(v mgl64.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{float32(v[0]), float32(v[1])}
}
