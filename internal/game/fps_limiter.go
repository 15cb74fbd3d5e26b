package game

import (
	"time"

	"planet-lod/internal/config"
)

// Frame cap while the window is unfocused.
const idleFPS = 20

// FPSLimiter paces the render loop.
type FPSLimiter struct {
	next time.Time
}

func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// Wait blocks until the next frame is due. It sleeps most of the interval
// and spins for the last 200µs.
func (f *FPSLimiter) Wait(idle bool) {
	limit := config.GetFPSLimit()
	if idle {
		limit = idleFPS
	}
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
	}

	// Resync after a hitch instead of racing to catch up.
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
