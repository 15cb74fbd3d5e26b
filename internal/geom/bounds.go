package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Contains reports whether p lies inside or on the sphere.
func (s Sphere) Contains(p mgl64.Vec3) bool {
	return p.Sub(s.Center).Len() <= s.Radius
}

// SurfaceDistance returns the distance from p to the sphere surface,
// negative when p is inside.
func (s Sphere) SurfaceDistance(p mgl64.Vec3) float64 {
	return p.Sub(s.Center).Len() - s.Radius
}

// Box is an axis-aligned bounding box. The zero Box is empty.
type Box struct {
	Min, Max mgl64.Vec3
	valid    bool
}

// NewBox returns the smallest box holding every point.
func NewBox(points ...mgl64.Vec3) Box {
	var b Box
	for _, p := range points {
		b = b.Encapsulate(p)
	}
	return b
}

// Empty reports whether no point was added to the box.
func (b Box) Empty() bool {
	return !b.valid
}

// Encapsulate grows the box to hold p.
func (b Box) Encapsulate(p mgl64.Vec3) Box {
	if !b.valid {
		return Box{Min: p, Max: p, valid: true}
	}
	for i := range 3 {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

// Center returns the middle of the box.
func (b Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns half the size of the box along each axis.
func (b Box) Extents() mgl64.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// BoundingSphere returns a sphere centered on the box whose radius is the
// length of the extents vector.
func (b Box) BoundingSphere() Sphere {
	return Sphere{Center: b.Center(), Radius: b.Extents().Len()}
}
