package game

import (
	"context"
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/config"
	"planet-lod/internal/graphics"
	"planet-lod/internal/graphics/renderables/chunks"
	"planet-lod/internal/graphics/renderables/crosshair"
	"planet-lod/internal/graphics/renderer"
	"planet-lod/internal/input"
	"planet-lod/internal/profiling"
)

const (
	mouseSensitivity = 0.1
	boostFactor      = 10.0
	slowFrame        = 16 * time.Millisecond
)

// App is the interactive planet viewer: a fly camera over a Session.
type App struct {
	window   *glfw.Window
	input    *input.InputManager
	session  *Session
	renderer *renderer.Renderer
	chunks   *chunks.Chunks
	camera   *graphics.Camera

	home       mgl64.Vec3
	captured   bool
	focused    bool
	firstMouse bool
	mouse      mgl64.Vec2

	fpsLimiter *FPSLimiter
	lastTime   time.Time
}

// NewApp sets up rendering for s in window. The camera starts three radii
// out on the +Z axis looking at the planet.
func NewApp(window *glfw.Window, im *input.InputManager, s *Session) (*App, error) {
	width, height := window.GetSize()
	camera := graphics.NewCamera(width, height)
	camera.FarPlane = float32(s.Config.Radius * 10)

	chunkRenderer := chunks.NewChunks()
	r, err := renderer.NewRenderer(camera, chunkRenderer, crosshair.NewCrosshair())
	if err != nil {
		return nil, err
	}
	fbWidth, fbHeight := window.GetFramebufferSize()
	r.UpdateViewport(fbWidth, fbHeight)

	a := &App{
		window:     window,
		input:      im,
		session:    s,
		renderer:   r,
		chunks:     chunkRenderer,
		camera:     camera,
		home:       s.Planet.Object().LocalToWorld(mgl64.Vec3{0, 0, s.Config.Radius * 3}),
		captured:   true,
		focused:    true,
		firstMouse: true,
		fpsLimiter: NewFPSLimiter(),
		lastTime:   time.Now(),
	}
	a.resetCamera()
	s.Start(camera.Position)
	return a, nil
}

// Run ticks until the window closes or ctx is done.
func (a *App) Run(ctx context.Context) {
	for !a.window.ShouldClose() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	start := time.Now()
	dt := start.Sub(a.lastTime).Seconds()
	a.lastTime = start

	glfw.PollEvents()
	a.handleActions(dt)
	a.session.Update(a.camera.Position)
	a.renderer.Render(a.session.Scene, dt)
	a.window.SwapBuffers()

	if d := time.Since(start); d > slowFrame {
		logs.WithTag("duration", d).
			WithTag("top", profiling.TopN(5)).
			Debug("slow frame")
	}

	a.input.PostUpdate()
	a.fpsLimiter.Wait(!a.focused)
}

func (a *App) handleActions(dt float64) {
	im := a.input

	if im.JustPressed(input.ActionRelease) {
		a.setCaptured(false)
	}
	if im.JustPressed(input.ActionMouseLeft) && !a.captured {
		a.setCaptured(true)
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		config.SetWireframe(!config.GetWireframe())
	}
	if im.JustPressed(input.ActionToggleFreeze) {
		config.SetFrozen(!config.GetFrozen())
		logs.WithTag("frozen", config.GetFrozen()).Info("lod updates toggled")
	}
	if im.JustPressed(input.ActionMoreUpdates) {
		config.SetUpdatesPerTick(config.GetUpdatesPerTick() + 1)
	}
	if im.JustPressed(input.ActionFewerUpdates) {
		config.SetUpdatesPerTick(config.GetUpdatesPerTick() - 1)
	}
	if im.JustPressed(input.ActionForceUpdate) {
		a.session.Start(a.camera.Position)
	}
	if im.JustPressed(input.ActionResetCamera) {
		a.resetCamera()
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		a.logStats()
	}

	speed := a.flySpeed()
	if im.IsActive(input.ActionBoost) {
		speed *= boostFactor
	}
	step := speed * dt

	var forward, right, up float64
	if im.IsActive(input.ActionMoveForward) {
		forward += step
	}
	if im.IsActive(input.ActionMoveBackward) {
		forward -= step
	}
	if im.IsActive(input.ActionMoveRight) {
		right += step
	}
	if im.IsActive(input.ActionMoveLeft) {
		right -= step
	}
	if im.IsActive(input.ActionMoveUp) {
		up += step
	}
	if im.IsActive(input.ActionMoveDown) {
		up -= step
	}
	if forward != 0 || right != 0 || up != 0 {
		a.camera.Move(forward, right, up)
	}
}

// flySpeed scales with altitude so the surface is reachable from orbit.
func (a *App) flySpeed() float64 {
	center := a.session.Planet.Object().LocalToWorld(mgl64.Vec3{})
	altitude := a.camera.Position.Sub(center).Len() - a.session.Config.Radius
	return max(altitude*0.5, 1)
}

func (a *App) look(x, y float64) {
	if !a.captured {
		return
	}
	if a.firstMouse {
		a.mouse = mgl64.Vec2{x, y}
		a.firstMouse = false
		return
	}
	dx := x - a.mouse.X()
	dy := a.mouse.Y() - y
	a.mouse = mgl64.Vec2{x, y}
	a.camera.Look(dx*mouseSensitivity, dy*mouseSensitivity)
}

func (a *App) setCaptured(captured bool) {
	a.captured = captured
	a.firstMouse = true
	if captured {
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

func (a *App) resetCamera() {
	a.camera.Position = a.home
	a.camera.Yaw = -90
	a.camera.Pitch = 0
}

func (a *App) logStats() {
	drawn, culled, resident := a.chunks.Stats()
	logs.WithTag("active", a.session.Planet.ActiveCount()).
		WithTag("drawn", drawn).
		WithTag("culled", culled).
		WithTag("resident", resident).
		WithTag("props", a.session.Placer.ActiveCount()).
		WithTag("updates_per_tick", config.GetUpdatesPerTick()).
		WithTag("top", profiling.TopN(8)).
		Info("viewer stats")
}

// RefreshRender repaints while the window is being resized.
func (a *App) RefreshRender() {
	a.renderer.Render(a.session.Scene, 0)
	a.window.SwapBuffers()
}

// Dispose releases GPU resources. The session is owned by the caller.
func (a *App) Dispose() {
	a.renderer.Dispose()
}
