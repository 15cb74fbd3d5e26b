package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/geom"
)

// Service generates chunk geometry for a region of the unit cube.
//
// Init is called once from the main thread before any Make. Make may then be
// called concurrently from worker goroutines and must not mutate the service.
type Service interface {
	Init() error
	Make(topLeft, topRight, bottomLeft, bottomRight mgl64.Vec3, uv geom.Zone2, radius float64) *Data
}

// GridOptions configures the vertex grid shared by every generator.
type GridOptions struct {
	// Resolution is the number of vertices inserted between two corners.
	Resolution int `json:"resolution"`

	// Skirts adds a ring of vertices pulled towards the planet center along
	// every edge, hiding cracks between neighbours of different depth.
	Skirts bool `json:"skirts"`

	// SkirtSize is the factor applied to skirt vertices, in (0, 1].
	SkirtSize float64 `json:"skirt_size"`
}

// DefaultGridOptions returns the options used when none are configured.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Resolution: 24,
		SkirtSize:  0.9,
	}
}
