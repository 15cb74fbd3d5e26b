package mesh

import (
	"image"
	_ "image/png"
	"math"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"planet-lod/internal/geom"
)

// HeightmapGenerator displaces the sphere with a cubemap of six grayscale
// height images, one per cube face. PNG, BMP and TIFF files are supported.
type HeightmapGenerator struct {
	GridOptions

	// Paths holds the image file of every face.
	Paths map[geom.Direction]string

	// Images holds already decoded images. A face found here is not read
	// from Paths.
	Images map[geom.Direction]image.Image

	// Low and High are the altitudes, above the base radius, of a black and
	// a white pixel.
	Low  float64
	High float64

	// Size is the side length every face is resampled to. Zero keeps the
	// size of the top face.
	Size int

	fields [len(geom.Directions)]heightField
	ready  bool
}

// Init loads and resamples the six faces.
func (h *HeightmapGenerator) Init() error {
	var images [len(geom.Directions)]image.Image
	for _, d := range geom.Directions {
		img, err := h.image(d)
		if err != nil {
			return err
		}
		images[d] = img
	}

	size := h.Size
	if size <= 0 {
		size = images[geom.Top].Bounds().Dx()
	}
	if size < 2 {
		return errors.New("heightmap is too small").
			WithTag("size", size)
	}

	for _, d := range geom.Directions {
		h.fields[d] = newHeightField(images[d], size)
	}
	h.ready = true
	return nil
}

func (h *HeightmapGenerator) image(d geom.Direction) (image.Image, error) {
	if img, ok := h.Images[d]; ok && img != nil {
		return img, nil
	}

	path, ok := h.Paths[d]
	if !ok || path == "" {
		return nil, errors.New("heightmap face is missing").
			WithTag("face", d.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("opening heightmap failed").
			WithTag("face", d.String()).
			WithTag("path", path).
			Wrap(err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.New("decoding heightmap failed").
			WithTag("face", d.String()).
			WithTag("path", path).
			Wrap(err)
	}
	return img, nil
}

// Altitude returns the distance from the planet center of the surface above
// a point of the unit cube.
func (h *HeightmapGenerator) Altitude(cube mgl64.Vec3, radius float64) float64 {
	if !h.ready {
		panic("mesh: heightmap generator used before Init")
	}
	return radius + h.Low + (h.High-h.Low)*h.sample(cube)
}

// sample picks the face the point projects onto and reads it bilinearly.
func (h *HeightmapGenerator) sample(p mgl64.Vec3) float64 {
	for i := range 3 {
		p[i] = mgl64.Clamp(p[i], -1, 1)
	}
	x, y, z := (p[0]+1)/2, (p[1]+1)/2, (p[2]+1)/2

	ax, ay, az := math.Abs(p[0]), math.Abs(p[1]), math.Abs(p[2])
	switch {
	case ay >= ax && ay >= az && p[1] >= 0:
		return h.fields[geom.Top].sample(x, 1-z)
	case ay >= ax && ay >= az:
		return h.fields[geom.Bottom].sample(x, z)
	case ax >= az && p[0] >= 0:
		return h.fields[geom.Right].sample(z, y)
	case ax >= az:
		return h.fields[geom.Left].sample(1-z, y)
	case p[2] >= 0:
		return h.fields[geom.Front].sample(1-x, y)
	default:
		return h.fields[geom.Back].sample(x, y)
	}
}

func (h *HeightmapGenerator) Make(topLeft, topRight, bottomLeft, bottomRight mgl64.Vec3, uv geom.Zone2, radius float64) *Data {
	g := grid{
		GridOptions: h.GridOptions,
		altitude: func(cube mgl64.Vec3) float64 {
			return h.Altitude(cube, radius)
		},
	}
	return g.build("heightmap", topLeft, topRight, bottomLeft, bottomRight, uv)
}

// heightField is a square grid of heights in [0, 1]. Row 0 is the bottom of
// the face.
type heightField struct {
	size   int
	values []float64
}

func newHeightField(img image.Image, size int) heightField {
	gray := image.NewGray16(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	f := heightField{
		size:   size,
		values: make([]float64, size*size),
	}
	for y := range size {
		for x := range size {
			f.values[x+size*(size-1-y)] = float64(gray.Gray16At(x, y).Y) / math.MaxUint16
		}
	}
	return f
}

func (f heightField) at(x, y int) float64 {
	return f.values[x+f.size*y]
}

// sample reads the field at u, v in [0, 1].
func (f heightField) sample(u, v float64) float64 {
	fx := u * float64(f.size-1)
	fy := v * float64(f.size-1)

	x0 := min(int(fx), f.size-2)
	y0 := min(int(fy), f.size-2)
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	top := f.at(x0, y0)*(1-tx) + f.at(x0+1, y0)*tx
	bottom := f.at(x0, y0+1)*(1-tx) + f.at(x0+1, y0+1)*tx
	return top*(1-ty) + bottom*ty
}
