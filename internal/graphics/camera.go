package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a free-flying camera. Position is kept in float64 so it stays
// precise at planetary distances; View only carries the rotation and meshes
// are drawn relative to Position.
type Camera struct {
	Position mgl64.Vec3
	Yaw      float64 // degrees
	Pitch    float64 // degrees

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       60,
		NearPlane: 0.5,
		FarPlane:  100000,
		Yaw:       -90,
	}
	c.SetViewport(width, height)
	return c
}

func (c *Camera) SetViewport(width, height int) {
	if height == 0 {
		height = 1
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Front is the unit view direction.
func (c *Camera) Front() mgl64.Vec3 {
	yaw := mgl64.DegToRad(c.Yaw)
	pitch := mgl64.DegToRad(c.Pitch)
	return mgl64.Vec3{
		math.Cos(yaw) * math.Cos(pitch),
		math.Sin(pitch),
		math.Sin(yaw) * math.Cos(pitch),
	}.Normalize()
}

func (c *Camera) Right() mgl64.Vec3 {
	return c.Front().Cross(mgl64.Vec3{0, 1, 0}).Normalize()
}

// Look applies a mouse delta in degrees. Pitch is clamped short of the poles.
func (c *Camera) Look(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = mgl64.Clamp(c.Pitch+dpitch, -89, 89)
}

// Move translates along the view basis: forward, right and world up.
func (c *Camera) Move(forward, right, up float64) {
	c.Position = c.Position.
		Add(c.Front().Mul(forward)).
		Add(c.Right().Mul(right)).
		Add(mgl64.Vec3{0, up, 0})
}

// View looks from the origin; callers translate geometry by -Position.
func (c *Camera) View() mgl32.Mat4 {
	f := c.Front()
	return mgl32.LookAtV(
		mgl32.Vec3{},
		mgl32.Vec3{float32(f.X()), float32(f.Y()), float32(f.Z())},
		mgl32.Vec3{0, 1, 0},
	)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// Relative converts a world matrix into one relative to the camera.
func (c *Camera) Relative(world mgl64.Mat4) mgl32.Mat4 {
	m := mgl64.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z()).Mul4(world)
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}
