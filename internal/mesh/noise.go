package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/ojrac/opensimplex-go"

	"planet-lod/internal/geom"
)

// NoiseLayer is one fractal noise layer added to the base radius.
type NoiseLayer struct {
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Frequency   float64 `json:"frequency"`
	Height      float64 `json:"height"`
}

// fractal sums octaves of simplex noise. Values stay in [-1, 1].
type fractal struct {
	NoiseLayer
	amplitudes []float64
	sum        float64
	os         opensimplex.Noise
}

func newFractal(l NoiseLayer, seed int64) fractal {
	f := fractal{
		NoiseLayer: l,
		amplitudes: make([]float64, max(l.Octaves, 1)),
		os:         opensimplex.New(seed),
	}
	for i := range f.amplitudes {
		f.amplitudes[i] = math.Pow(l.Persistence, float64(i))
		f.sum += f.amplitudes[i]
	}
	return f
}

func (f fractal) eval(p mgl64.Vec3) float64 {
	if f.sum == 0 {
		return 0
	}

	var v float64
	freq := f.Frequency
	for _, a := range f.amplitudes {
		v += a * f.os.Eval3(p[0]*freq, p[1]*freq, p[2]*freq)
		freq *= 2
	}
	return v / f.sum
}

// NoiseGenerator displaces the sphere with a continent layer and a hill
// layer of simplex noise.
type NoiseGenerator struct {
	GridOptions

	Seed      int64
	SeaLevel  float64
	Continent NoiseLayer
	Hills     NoiseLayer

	continent fractal
	hills     fractal
	ready     bool
}

// NewNoiseGenerator returns a generator with terrain layers suited to an
// earth sized planet.
func NewNoiseGenerator(seed int64, opts GridOptions) *NoiseGenerator {
	return &NoiseGenerator{
		GridOptions: opts,
		Seed:        seed,
		SeaLevel:    -1,
		Continent: NoiseLayer{
			Octaves:     4,
			Persistence: 0.5,
			Frequency:   1.5,
			Height:      400,
		},
		Hills: NoiseLayer{
			Octaves:     6,
			Persistence: 0.45,
			Frequency:   12,
			Height:      120,
		},
	}
}

// Init seeds the noise layers.
func (n *NoiseGenerator) Init() error {
	n.continent = newFractal(n.Continent, n.Seed)
	n.hills = newFractal(n.Hills, n.Seed+1)
	n.ready = true
	return nil
}

// Altitude returns the distance from the planet center of the surface above
// a point of the unit cube.
func (n *NoiseGenerator) Altitude(cube mgl64.Vec3, radius float64) float64 {
	if !n.ready {
		panic("mesh: noise generator used before Init")
	}

	p := geom.Spherify(cube)
	surface := math.Max(n.continent.eval(p), n.SeaLevel)
	return radius + surface*n.Continent.Height + n.hills.eval(p)*n.Hills.Height
}

func (n *NoiseGenerator) Make(topLeft, topRight, bottomLeft, bottomRight mgl64.Vec3, uv geom.Zone2, radius float64) *Data {
	g := grid{
		GridOptions: n.GridOptions,
		altitude: func(cube mgl64.Vec3) float64 {
			return n.Altitude(cube, radius)
		},
	}
	return g.build("noise", topLeft, topRight, bottomLeft, bottomRight, uv)
}
