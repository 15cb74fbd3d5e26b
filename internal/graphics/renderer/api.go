package renderer

import (
	"planet-lod/internal/graphics"
	"planet-lod/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext is shared by every renderable for one frame.
type RenderContext struct {
	Camera *graphics.Camera
	Scene  *scene.Object
	DT     float64
	View   mgl32.Mat4
	Proj   mgl32.Mat4
}

// Renderable is a feature drawn once per frame.
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}
