package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/geom"
)

// SphereGenerator builds a perfect sphere of the requested radius.
type SphereGenerator struct {
	GridOptions
}

// NewSphereGenerator returns a sphere generator with the given grid options.
func NewSphereGenerator(opts GridOptions) *SphereGenerator {
	return &SphereGenerator{GridOptions: opts}
}

func (s *SphereGenerator) Init() error {
	return nil
}

func (s *SphereGenerator) Make(topLeft, topRight, bottomLeft, bottomRight mgl64.Vec3, uv geom.Zone2, radius float64) *Data {
	g := grid{
		GridOptions: s.GridOptions,
		altitude:    func(mgl64.Vec3) float64 { return radius },
		normal: func(cube mgl64.Vec3) mgl64.Vec3 {
			return geom.Spherify(cube).Normalize()
		},
	}
	return g.build("sphere", topLeft, topRight, bottomLeft, bottomRight, uv)
}
