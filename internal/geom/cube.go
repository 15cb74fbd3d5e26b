package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Direction identifies one of the six faces of the unit cube.
type Direction int

const (
	Top Direction = iota
	Bottom
	Left
	Right
	Front
	Back
)

// Directions lists every cube face in a stable order.
var Directions = [6]Direction{Top, Bottom, Left, Right, Front, Back}

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return "unknown"
	}
}

// FaceZone returns the unit cube corners of a face, wound so that the
// face normal points away from the cube center.
func FaceZone(d Direction) Zone3 {
	const r = 1.0
	v := func(x, y, z float64) mgl64.Vec3 { return mgl64.Vec3{x, y, z} }

	switch d {
	case Top:
		return NewZone3(v(-r, r, r), v(r, r, r), v(r, r, -r), v(-r, r, -r))
	case Bottom:
		return NewZone3(v(-r, -r, -r), v(r, -r, -r), v(r, -r, r), v(-r, -r, r))
	case Front:
		return NewZone3(v(r, r, r), v(-r, r, r), v(-r, -r, r), v(r, -r, r))
	case Back:
		return NewZone3(v(-r, r, -r), v(r, r, -r), v(r, -r, -r), v(-r, -r, -r))
	case Right:
		return NewZone3(v(r, r, -r), v(r, r, r), v(r, -r, r), v(r, -r, -r))
	case Left:
		return NewZone3(v(-r, r, r), v(-r, r, -r), v(-r, -r, -r), v(-r, -r, r))
	}
	panic("geom: unknown cube direction")
}

// Spherify maps a point on the unit cube onto the unit sphere with the
// area preserving cube-to-sphere mapping.
func Spherify(p mgl64.Vec3) mgl64.Vec3 {
	xx := p.X() * p.X()
	yy := p.Y() * p.Y()
	zz := p.Z() * p.Z()

	return mgl64.Vec3{
		p.X() * math.Sqrt(1-yy/2-zz/2+yy*zz/3),
		p.Y() * math.Sqrt(1-zz/2-xx/2+zz*xx/3),
		p.Z() * math.Sqrt(1-xx/2-yy/2+xx*yy/3),
	}
}
