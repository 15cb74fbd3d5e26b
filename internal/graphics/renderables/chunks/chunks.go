// Package chunks draws every active mesh-carrying object of a scene graph.
package chunks

import (
	_ "embed"

	"planet-lod/internal/config"
	"planet-lod/internal/graphics"
	"planet-lod/internal/graphics/renderer"
	"planet-lod/internal/mesh"
	"planet-lod/internal/profiling"
	"planet-lod/internal/scene"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	//go:embed shaders/chunk.vert
	vertexShader string

	//go:embed shaders/chunk.frag
	fragmentShader string
)

// Frames a mesh may go undrawn before its buffers are released.
const evictAfterFrames = 120

// Chunks implements the chunk rendering feature.
type Chunks struct {
	BaseColor mgl32.Vec3
	LightDir  mgl32.Vec3

	shader *graphics.Shader
	cache  *meshCache

	drawn  int
	culled int
}

func NewChunks() *Chunks {
	return &Chunks{
		BaseColor: mgl32.Vec3{0.35, 0.55, 0.3},
		LightDir:  mgl32.Vec3{0.3, 1.0, 0.3}.Normalize(),
	}
}

func (c *Chunks) Init() error {
	var err error
	if c.shader, err = graphics.NewShader(vertexShader, fragmentShader); err != nil {
		return err
	}
	c.cache = newMeshCache(uploadMesh, releaseMesh)
	return nil
}

func (c *Chunks) Render(ctx renderer.RenderContext) {
	defer profiling.Track("renderer.renderChunks")()

	wireframe := config.GetWireframe()
	if wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	c.shader.Use()
	c.shader.SetMat4("proj", ctx.Proj)
	c.shader.SetMat4("view", ctx.View)
	c.shader.SetVec3("lightDir", c.LightDir)
	c.shader.SetVec3("baseColor", c.BaseColor)
	c.shader.SetBool("wireframe", wireframe)

	planes := extractFrustumPlanes(ctx.Proj.Mul4(ctx.View))

	c.cache.beginFrame()
	c.drawn, c.culled = 0, 0
	if ctx.Scene != nil {
		c.visit(ctx.Camera, ctx.Scene, mgl64.Ident4(), planes)
	}
	gl.BindVertexArray(0)

	if n := c.cache.sweep(evictAfterFrames); n > 0 {
		logs.WithTag("released", n).
			WithTag("resident", c.cache.len()).
			Debug("chunk meshes evicted")
	}
}

// visit walks active objects only; inactive subtrees are pooled containers.
func (c *Chunks) visit(cam *graphics.Camera, o *scene.Object, parent mgl64.Mat4, planes [6]plane) {
	if !o.Active() {
		return
	}
	world := parent.Mul4(o.Transform.Matrix())
	if o.Mesh != nil && len(o.Mesh.Triangles) > 0 {
		c.draw(cam.Relative(world), o.Mesh, planes)
	}
	for _, child := range o.Children() {
		c.visit(cam, child, world, planes)
	}
}

func (c *Chunks) draw(model mgl32.Mat4, d *mesh.Data, planes [6]plane) {
	m := c.cache.get(d)

	center := mgl32.TransformCoordinate(vec32(m.bounds.Center), model)
	radius := float32(m.bounds.Radius) * maxScale(model)
	if !sphereInFrustum(center, radius, planes) {
		c.culled++
		return
	}

	c.shader.SetMat4("model", model)
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	c.drawn++
}

func (c *Chunks) Dispose() {
	if c.cache != nil {
		c.cache.clear()
	}
	if c.shader != nil {
		c.shader.Delete()
	}
}

func (c *Chunks) SetViewport(width, height int) {}

// Stats returns how many meshes were drawn and culled last frame, and how
// many are resident on the GPU.
func (c *Chunks) Stats() (drawn, culled, resident int) {
	return c.drawn, c.culled, c.cache.len()
}

func uploadMesh(d *mesh.Data) *gpuMesh {
	const stride = 8
	verts := make([]float32, 0, len(d.Vertices)*stride)
	for i, v := range d.Vertices {
		var n mgl32.Vec3
		var uv mgl32.Vec2
		if i < len(d.Normals) {
			n = d.Normals[i]
		}
		if i < len(d.UVs) {
			uv = d.UVs[i]
		}
		verts = append(verts, v[0], v[1], v[2], n[0], n[1], n[2], uv[0], uv[1])
	}

	m := &gpuMesh{indexCount: int32(len(d.Triangles))}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(d.Triangles)*4, gl.Ptr(d.Triangles), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride*4, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride*4, 6*4)

	gl.BindVertexArray(0)
	return m
}

func releaseMesh(m *gpuMesh) {
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// maxScale is the largest axis scale of an affine matrix.
func maxScale(m mgl32.Mat4) float32 {
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	return max(sx, sy, sz)
}
