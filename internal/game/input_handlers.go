package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// SetupInputHandlers routes window callbacks into app.
func SetupInputHandlers(app *App) {
	window := app.window
	im := app.input

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		app.look(xpos, ypos)
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleMouseButtonEvent(button, action)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})

	// Viewport is in framebuffer pixels, which differ from window size on
	// high DPI displays.
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		app.renderer.UpdateViewport(width, height)
	})

	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		app.focused = focused
		if !focused {
			app.setCaptured(false)
		}
	})

	window.SetRefreshCallback(func(w *glfw.Window) {
		app.RefreshRender()
	})
}
