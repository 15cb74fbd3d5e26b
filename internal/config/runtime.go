package config

import "sync"

// RuntimeSettings holds the settings tools change while running.
type RuntimeSettings struct {
	mu             sync.RWMutex
	updatesPerTick int
	wireframe      bool
	frozen         bool
	fpsLimit       int
}

var globalRuntimeSettings = &RuntimeSettings{
	updatesPerTick: 1,
	fpsLimit:       60,
}

// GetUpdatesPerTick returns how many incremental LOD updates run per tick.
func GetUpdatesPerTick() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.updatesPerTick
}

// SetUpdatesPerTick sets the number of incremental LOD updates per tick,
// clamped to [1, 8].
func SetUpdatesPerTick(n int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	globalRuntimeSettings.updatesPerTick = min(max(n, 1), 8)
}

// GetWireframe reports whether chunks are drawn as wireframes.
func GetWireframe() bool {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.wireframe
}

func SetWireframe(enabled bool) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	globalRuntimeSettings.wireframe = enabled
}

// GetFrozen reports whether LOD updates are paused.
func GetFrozen() bool {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.frozen
}

func SetFrozen(frozen bool) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	globalRuntimeSettings.frozen = frozen
}

// GetFPSLimit returns the frame cap of interactive tools. Zero means
// uncapped.
func GetFPSLimit() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.fpsLimit
}

func SetFPSLimit(limit int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	globalRuntimeSettings.fpsLimit = max(limit, 0)
}
