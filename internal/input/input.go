package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer action, not a physical key.
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionBoost
	ActionRelease
	ActionToggleWireframe
	ActionToggleFreeze
	ActionToggleProfiling
	ActionMoreUpdates
	ActionFewerUpdates
	ActionForceUpdate
	ActionResetCamera
	ActionMouseLeft
	ActionCount // sentinel for array sizing
)

// InputManager maps physical keys and buttons to actions and tracks their
// state across frames.
type InputManager struct {
	mu sync.RWMutex

	keyToActions         map[glfw.Key][]Action
	mouseButtonToActions map[glfw.MouseButton][]Action

	currentState [ActionCount]bool

	// Edge flags, cleared by PostUpdate.
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewInputManager creates an InputManager with fly camera bindings.
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	im.BindKey(glfw.KeyW, ActionMoveForward)
	im.BindKey(glfw.KeyS, ActionMoveBackward)
	im.BindKey(glfw.KeyA, ActionMoveLeft)
	im.BindKey(glfw.KeyD, ActionMoveRight)
	im.BindKey(glfw.KeySpace, ActionMoveUp)
	im.BindKey(glfw.KeyLeftControl, ActionMoveDown)
	im.BindKey(glfw.KeyLeftShift, ActionBoost)
	im.BindKey(glfw.KeyRightShift, ActionBoost)
	im.BindKey(glfw.KeyEscape, ActionRelease)
	im.BindKey(glfw.KeyF, ActionToggleWireframe)
	im.BindKey(glfw.KeyP, ActionToggleFreeze)
	im.BindKey(glfw.KeyV, ActionToggleProfiling)
	im.BindKey(glfw.KeyEqual, ActionMoreUpdates)
	im.BindKey(glfw.KeyKPAdd, ActionMoreUpdates)
	im.BindKey(glfw.KeyMinus, ActionFewerUpdates)
	im.BindKey(glfw.KeyKPSubtract, ActionFewerUpdates)
	im.BindKey(glfw.KeyR, ActionForceUpdate)
	im.BindKey(glfw.KeyHome, ActionResetCamera)

	im.BindMouseButton(glfw.MouseButtonLeft, ActionMouseLeft)
	return im
}

// BindKey adds action to key. A key may drive several actions and an
// action may have several keys.
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	im.keyToActions[key] = append(im.keyToActions[key], action)
}

func (im *InputManager) BindMouseButton(button glfw.MouseButton, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	im.mouseButtonToActions[button] = append(im.mouseButtonToActions[button], action)
}

// HandleKeyEvent updates the actions bound to key. Repeat counts as held.
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.apply(im.keyToActions[key], action == glfw.Press || action == glfw.Repeat)
}

func (im *InputManager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.apply(im.mouseButtonToActions[button], action == glfw.Press)
}

// apply records edges as events arrive so a press and release within one
// frame is still seen. Callers hold mu.
func (im *InputManager) apply(actions []Action, pressed bool) {
	for _, a := range actions {
		if pressed && !im.currentState[a] {
			im.justPressed[a] = true
		}
		if !pressed && im.currentState[a] {
			im.justReleased[a] = true
		}
		im.currentState[a] = pressed
	}
}

// PostUpdate clears the edge flags. Call it once at the end of each frame.
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()
	clear(im.justPressed[:])
	clear(im.justReleased[:])
}

// IsActive reports whether action is held.
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.currentState[action]
}

// JustPressed reports whether action was pressed this frame.
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justPressed[action]
}

func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justReleased[action]
}
