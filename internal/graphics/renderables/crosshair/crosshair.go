// Package crosshair draws a screen-space reticle over the view center.
package crosshair

import (
	"planet-lod/internal/graphics"
	"planet-lod/internal/graphics/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexShader = `#version 410 core
layout(location = 0) in vec2 aPos;
uniform float aspectRatio;
void main() {
	gl_Position = vec4(aPos.x / aspectRatio, aPos.y, 0.0, 1.0);
}`

const fragmentShader = `#version 410 core
out vec4 fragColor;
void main() {
	fragColor = vec4(1.0, 1.0, 1.0, 0.8);
}`

var vertices = []float32{
	-0.02, 0.0,
	0.02, 0.0,
	0.0, -0.02,
	0.0, 0.02,
}

type Crosshair struct {
	shader *graphics.Shader
	vao    uint32
	vbo    uint32
}

func NewCrosshair() *Crosshair {
	return &Crosshair{}
}

func (c *Crosshair) Init() error {
	var err error
	if c.shader, err = graphics.NewShader(vertexShader, fragmentShader); err != nil {
		return err
	}

	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindVertexArray(0)
	return nil
}

// Render draws last and without depth so terrain never hides it.
func (c *Crosshair) Render(ctx renderer.RenderContext) {
	gl.Disable(gl.DEPTH_TEST)
	defer gl.Enable(gl.DEPTH_TEST)

	c.shader.Use()
	c.shader.SetFloat("aspectRatio", ctx.Camera.AspectRatio)
	gl.BindVertexArray(c.vao)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/2))
	gl.BindVertexArray(0)
}

func (c *Crosshair) Dispose() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
	}
	if c.vbo != 0 {
		gl.DeleteBuffers(1, &c.vbo)
	}
	if c.shader != nil {
		c.shader.Delete()
	}
}

func (c *Crosshair) SetViewport(width, height int) {}
