// Package task runs deferred work on background goroutines.
package task

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// State is the lifecycle of a task. Complete is terminal.
type State int32

const (
	Idle State = iota
	Active
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Task wraps a single unit of work and an optional callback.
//
// Whatever the action writes before returning is visible to any goroutine
// that observes State() == Complete.
type Task struct {
	ID uuid.UUID

	state    atomic.Int32
	action   func(*Task)
	callback func(*Task)
}

// New creates an idle task running fn.
func New(fn func(*Task)) *Task {
	return &Task{ID: uuid.New(), action: fn}
}

// NewWithCallback creates an idle task running fn, then callback when
// resolved.
func NewWithCallback(fn, callback func(*Task)) *Task {
	return &Task{ID: uuid.New(), action: fn, callback: callback}
}

// State returns the current state.
func (t *Task) State() State {
	return State(t.state.Load())
}

// Complete reports whether the action has returned.
func (t *Task) Complete() bool {
	return t.State() == Complete
}

// Invoke runs the action on the calling goroutine. A task that already left
// the Idle state is not run again and Invoke returns false.
func (t *Task) Invoke() bool {
	if !t.state.CompareAndSwap(int32(Idle), int32(Active)) {
		return false
	}
	if t.action != nil {
		t.action(t)
	}
	t.state.Store(int32(Complete))
	return true
}

// Resolve runs the callback, if any.
func (t *Task) Resolve() {
	if t.callback != nil {
		t.callback(t)
	}
}

// InvokeAndResolve runs the action and then the callback on the calling
// goroutine.
func (t *Task) InvokeAndResolve() {
	if t.Invoke() {
		t.Resolve()
	}
}
