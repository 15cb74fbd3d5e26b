package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/require"
)

func TestKeyEdges(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	require.True(t, im.IsActive(ActionMoveForward))
	require.True(t, im.JustPressed(ActionMoveForward))

	im.PostUpdate()
	require.True(t, im.IsActive(ActionMoveForward))
	require.False(t, im.JustPressed(ActionMoveForward))

	im.HandleKeyEvent(glfw.KeyW, glfw.Repeat)
	require.False(t, im.JustPressed(ActionMoveForward), "repeat is not a new press")

	im.HandleKeyEvent(glfw.KeyW, glfw.Release)
	require.False(t, im.IsActive(ActionMoveForward))
	require.True(t, im.JustReleased(ActionMoveForward))
}

func TestPressAndReleaseInOneFrame(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyF, glfw.Press)
	im.HandleKeyEvent(glfw.KeyF, glfw.Release)
	require.True(t, im.JustPressed(ActionToggleWireframe))
	require.True(t, im.JustReleased(ActionToggleWireframe))
	require.False(t, im.IsActive(ActionToggleWireframe))
}

func TestBindings(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyKPAdd, glfw.Press)
	require.True(t, im.JustPressed(ActionMoreUpdates))

	im.BindKey(glfw.KeyUp, ActionMoveForward)
	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	require.True(t, im.IsActive(ActionMoveForward))

	im.BindKey(glfw.KeyX, ActionCount)
	im.HandleKeyEvent(glfw.KeyX, glfw.Press)
	require.False(t, im.IsActive(ActionCount))

	im.HandleMouseButtonEvent(glfw.MouseButtonLeft, glfw.Press)
	require.True(t, im.JustPressed(ActionMouseLeft))
	require.False(t, im.JustPressed(-1))
}
