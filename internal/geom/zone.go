package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quadrant order shared by every subdivision in this package: NE, NW, SE, SW.

// Zone3 is a flat quadrilateral in 3-D space.
// A is top left, B top right, C bottom right and D bottom left.
type Zone3 struct {
	A, B, C, D mgl64.Vec3
}

// NewZone3 creates a zone from its corners in winding order.
func NewZone3(topLeft, topRight, bottomRight, bottomLeft mgl64.Vec3) Zone3 {
	return Zone3{A: topLeft, B: topRight, C: bottomRight, D: bottomLeft}
}

// Center returns the average of the four corners.
func (z Zone3) Center() mgl64.Vec3 {
	return z.A.Add(z.B).Add(z.C).Add(z.D).Mul(0.25)
}

// Normal returns the unit normal of the plane spanned by AB and AD.
func (z Zone3) Normal() mgl64.Vec3 {
	ab := z.B.Sub(z.A).Normalize()
	ad := z.D.Sub(z.A).Normalize()
	return ab.Cross(ad).Normalize()
}

// Radius returns the largest corner distance from the center.
func (z Zone3) Radius() float64 {
	c := z.Center()
	r := 0.0
	for _, p := range z.Corners() {
		r = math.Max(r, p.Sub(c).Len())
	}
	return r
}

// Corners returns A, B, C, D.
func (z Zone3) Corners() [4]mgl64.Vec3 {
	return [4]mgl64.Vec3{z.A, z.B, z.C, z.D}
}

// Scale multiplies every corner by f.
func (z Zone3) Scale(f float64) Zone3 {
	return Zone3{A: z.A.Mul(f), B: z.B.Mul(f), C: z.C.Mul(f), D: z.D.Mul(f)}
}

// Subdivide splits the zone into four by bilinear interpolation.
// The zone itself is not modified.
func (z Zone3) Subdivide() [4]Zone3 {
	tc := lerp3(z.A, z.B, 0.5)
	lm := lerp3(z.A, z.D, 0.5)
	rm := lerp3(z.B, z.C, 0.5)
	mc := lerp3(lm, rm, 0.5)
	bc := lerp3(z.D, z.C, 0.5)

	return [4]Zone3{
		{A: tc, B: z.B, C: rm, D: mc}, // NE
		{A: z.A, B: tc, C: mc, D: lm}, // NW
		{A: mc, B: rm, C: z.C, D: bc}, // SE
		{A: lm, B: mc, C: bc, D: z.D}, // SW
	}
}

// Zone2 is the 2-D counterpart of Zone3, used for UV face regions.
type Zone2 struct {
	A, B, C, D mgl64.Vec2
}

// NewZone2 creates a zone from its corners in winding order.
func NewZone2(topLeft, topRight, bottomRight, bottomLeft mgl64.Vec2) Zone2 {
	return Zone2{A: topLeft, B: topRight, C: bottomRight, D: bottomLeft}
}

// UnitZone2 returns the [0,1]x[0,1] square.
func UnitZone2() Zone2 {
	return Zone2{
		A: mgl64.Vec2{0, 0},
		B: mgl64.Vec2{1, 0},
		C: mgl64.Vec2{1, 1},
		D: mgl64.Vec2{0, 1},
	}
}

// Center returns the average of the four corners.
func (z Zone2) Center() mgl64.Vec2 {
	return z.A.Add(z.B).Add(z.C).Add(z.D).Mul(0.25)
}

// Radius returns the largest corner distance from the center.
func (z Zone2) Radius() float64 {
	c := z.Center()
	r := 0.0
	for _, p := range z.Corners() {
		r = math.Max(r, p.Sub(c).Len())
	}
	return r
}

// Corners returns A, B, C, D.
func (z Zone2) Corners() [4]mgl64.Vec2 {
	return [4]mgl64.Vec2{z.A, z.B, z.C, z.D}
}

// Scale multiplies every corner by f.
func (z Zone2) Scale(f float64) Zone2 {
	return Zone2{A: z.A.Mul(f), B: z.B.Mul(f), C: z.C.Mul(f), D: z.D.Mul(f)}
}

// Subdivide splits the zone exactly like Zone3.Subdivide.
func (z Zone2) Subdivide() [4]Zone2 {
	tc := lerp2(z.A, z.B, 0.5)
	lm := lerp2(z.A, z.D, 0.5)
	rm := lerp2(z.B, z.C, 0.5)
	mc := lerp2(lm, rm, 0.5)
	bc := lerp2(z.D, z.C, 0.5)

	return [4]Zone2{
		{A: tc, B: z.B, C: rm, D: mc},
		{A: z.A, B: tc, C: mc, D: lm},
		{A: mc, B: rm, C: z.C, D: bc},
		{A: lm, B: mc, C: bc, D: z.D},
	}
}

// Lerp3 interpolates linearly between a and b.
func Lerp3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return lerp3(a, b, t)
}

// Lerp2 interpolates linearly between a and b.
func Lerp2(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return lerp2(a, b, t)
}

func lerp3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func lerp2(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}
