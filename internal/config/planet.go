// Package config loads planet descriptions and holds runtime settings.
package config

import (
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/encoding/json"

	"planet-lod/internal/detail"
	"planet-lod/internal/geom"
	"planet-lod/internal/mesh"
)

// Generator kinds.
const (
	GeneratorSphere    = "sphere"
	GeneratorNoise     = "noise"
	GeneratorHeightmap = "heightmap"
)

// Generator selects and configures the mesh service.
type Generator struct {
	Kind string           `json:"kind"`
	Grid mesh.GridOptions `json:"grid"`

	// Noise settings.
	Seed      int64           `json:"seed"`
	SeaLevel  float64         `json:"sea_level"`
	Continent mesh.NoiseLayer `json:"continent"`
	Hills     mesh.NoiseLayer `json:"hills"`

	// Heightmap settings. Heightmaps maps a face name to an image file.
	Heightmaps map[string]string `json:"heightmaps"`
	Low        float64           `json:"low"`
	High       float64           `json:"high"`
	Size       int               `json:"size"`
}

// Pools configures the chunk container pools.
type Pools struct {
	Size   int `json:"size"`
	Buffer int `json:"buffer"`
}

// Workers configures the generation task pool.
type Workers struct {
	Count     int `json:"count"`
	QueueSize int `json:"queue_size"`
}

// Planet describes a planet and how its level of detail is driven.
type Planet struct {
	Name                     string        `json:"name"`
	Radius                   float64       `json:"radius"`
	Position                 [3]float64    `json:"position"`
	LODDepth                 int           `json:"lod_depth"`
	HighestQualityAtDistance float64       `json:"highest_quality_at_distance"`
	TrimOnMerge              bool          `json:"trim_on_merge"`
	Generator                Generator     `json:"generator"`
	Pools                    Pools         `json:"pools"`
	Workers                  Workers       `json:"workers"`
	Details                  []detail.Rule `json:"details"`
}

// Default returns an earth sized planet with noise terrain.
func Default() Planet {
	noise := mesh.NewNoiseGenerator(1, mesh.DefaultGridOptions())

	return Planet{
		Name:                     "planet",
		Radius:                   6000,
		LODDepth:                 8,
		HighestQualityAtDistance: 50,
		Generator: Generator{
			Kind:      GeneratorNoise,
			Grid:      noise.GridOptions,
			Seed:      noise.Seed,
			SeaLevel:  0,
			Continent: noise.Continent,
			Hills:     noise.Hills,
			High:      1,
		},
		Pools: Pools{
			Size:   64,
			Buffer: 3,
		},
		Workers: Workers{
			Count:     4,
			QueueSize: 256,
		},
	}
}

// Load reads a JSON planet description from path. Missing fields keep their
// default value.
func Load(path string) (Planet, error) {
	p := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return p, errors.New("reading planet config failed").
			WithTag("path", path).
			Wrap(err)
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return p, errors.New("decoding planet config failed").
			WithTag("path", path).
			Wrap(err)
	}
	if err := p.Validate(); err != nil {
		return p, errors.New("invalid planet config").
			WithTag("path", path).
			Wrap(err)
	}
	return p, nil
}

// Validate reports the first invalid setting.
func (p Planet) Validate() error {
	switch {
	case p.Radius <= 0:
		return errors.New("radius must be positive").
			WithTag("radius", p.Radius)

	case p.LODDepth < 0:
		return errors.New("lod depth must not be negative").
			WithTag("lod_depth", p.LODDepth)

	case p.HighestQualityAtDistance <= 0:
		return errors.New("highest quality distance must be positive").
			WithTag("highest_quality_at_distance", p.HighestQualityAtDistance)

	case p.Generator.Grid.Resolution < 0:
		return errors.New("grid resolution must not be negative").
			WithTag("resolution", p.Generator.Grid.Resolution)

	case p.Pools.Size < 0 || p.Pools.Buffer < 1:
		return errors.New("pool size must not be negative and buffer must be positive").
			WithTag("size", p.Pools.Size).
			WithTag("buffer", p.Pools.Buffer)

	case p.Workers.Count < 1 || p.Workers.QueueSize < 1:
		return errors.New("workers and queue size must be positive").
			WithTag("count", p.Workers.Count).
			WithTag("queue_size", p.Workers.QueueSize)
	}

	switch p.Generator.Kind {
	case GeneratorSphere, GeneratorNoise:
	case GeneratorHeightmap:
		for name := range p.Generator.Heightmaps {
			if _, ok := ParseDirection(name); !ok {
				return errors.New("unknown heightmap face").
					WithTag("face", name)
			}
		}
	default:
		return errors.New("unknown generator").
			WithTag("kind", p.Generator.Kind)
	}

	for _, r := range p.Details {
		if r.Name == "" {
			return errors.New("detail rule has no name")
		}
	}
	return nil
}

// PositionVec returns the planet position.
func (p Planet) PositionVec() mgl64.Vec3 {
	return mgl64.Vec3(p.Position)
}

// MeshService builds the configured mesh service. It is not initialized.
func (p Planet) MeshService() (mesh.Service, error) {
	g := p.Generator

	switch g.Kind {
	case GeneratorSphere:
		return mesh.NewSphereGenerator(g.Grid), nil

	case GeneratorNoise:
		n := mesh.NewNoiseGenerator(g.Seed, g.Grid)
		n.SeaLevel = g.SeaLevel
		n.Continent = g.Continent
		n.Hills = g.Hills
		return n, nil

	case GeneratorHeightmap:
		paths := make(map[geom.Direction]string, len(g.Heightmaps))
		for name, path := range g.Heightmaps {
			d, ok := ParseDirection(name)
			if !ok {
				return nil, errors.New("unknown heightmap face").
					WithTag("face", name)
			}
			paths[d] = path
		}
		return &mesh.HeightmapGenerator{
			GridOptions: g.Grid,
			Paths:       paths,
			Low:         g.Low,
			High:        g.High,
			Size:        g.Size,
		}, nil
	}

	return nil, errors.New("unknown generator").
		WithTag("kind", g.Kind)
}

// ParseDirection returns the cube face named s.
func ParseDirection(s string) (geom.Direction, bool) {
	for _, d := range geom.Directions {
		if d.String() == s {
			return d, true
		}
	}
	return 0, false
}
