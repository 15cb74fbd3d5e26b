package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"planet-lod/internal/config"
)

func TestFPSLimiterPacesFrames(t *testing.T) {
	defer config.SetFPSLimit(config.GetFPSLimit())
	config.SetFPSLimit(100)

	f := NewFPSLimiter()
	start := time.Now()
	for range 5 {
		f.Wait(false)
	}
	require.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestFPSLimiterUncapped(t *testing.T) {
	defer config.SetFPSLimit(config.GetFPSLimit())
	config.SetFPSLimit(0)

	f := NewFPSLimiter()
	start := time.Now()
	for range 100 {
		f.Wait(false)
	}
	require.Less(t, time.Since(start), 50*time.Millisecond)
	require.True(t, f.next.IsZero())
}
