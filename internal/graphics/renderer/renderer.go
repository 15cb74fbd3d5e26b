package renderer

import (
	"planet-lod/internal/graphics"
	"planet-lod/internal/profiling"
	"planet-lod/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Renderer orchestrates rendering via renderable features.
type Renderer struct {
	renderables []Renderable
	camera      *graphics.Camera
}

// NewRenderer configures GL state and initializes the renderables in order.
func NewRenderer(camera *graphics.Camera, rs ...Renderable) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	for i, r := range rs {
		if err := r.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, err
		}
	}

	return &Renderer{
		renderables: rs,
		camera:      camera,
	}, nil
}

// Render draws the scene graph rooted at root.
func (r *Renderer) Render(root *scene.Object, dt float64) {
	defer profiling.Track("renderer.render")()

	gl.ClearColor(0.02, 0.02, 0.05, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	ctx := RenderContext{
		Camera: r.camera,
		Scene:  root,
		DT:     dt,
		View:   r.camera.View(),
		Proj:   r.camera.Projection(),
	}
	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
}

// Dispose cleans up all renderables in reverse order.
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}

func (r *Renderer) Camera() *graphics.Camera {
	return r.camera
}

func (r *Renderer) UpdateViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
	for _, renderable := range r.renderables {
		renderable.SetViewport(width, height)
	}
}
