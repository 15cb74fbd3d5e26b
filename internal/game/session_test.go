package game

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"planet-lod/internal/config"
	"planet-lod/internal/detail"
	"planet-lod/internal/geom"
	"planet-lod/internal/mesh"
)

func testConfig() config.Planet {
	conf := config.Default()
	conf.Name = "moon"
	conf.Radius = 100
	conf.LODDepth = 3
	conf.HighestQualityAtDistance = 5
	conf.Generator.Kind = config.GeneratorSphere
	conf.Generator.Grid = mesh.GridOptions{Resolution: 4}
	conf.Workers = config.Workers{Count: 2, QueueSize: 64}
	conf.Details = []detail.Rule{{
		Name:       "rock",
		Seed:       7,
		SlopeLimit: 180,
		Altitude:   detail.Range{Low: 0, High: 1000},
		Amount:     detail.Range{Low: 2, High: 2},
		Scale:      detail.Range{Low: 1, High: 1},
	}}
	return conf
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	conf := testConfig()
	conf.Radius = 0

	_, err := NewSession(conf)
	require.Error(t, err)
}

func TestSessionUpdates(t *testing.T) {
	s, err := NewSession(testConfig())
	require.NoError(t, err)
	defer s.Close()

	require.False(t, s.Update(mgl64.Vec3{}), "not started")

	s.Start(mgl64.Vec3{0, 1e6, 0})
	require.Equal(t, 6, s.Planet.ActiveCount())
	require.Equal(t, s.Scene, s.Planet.Object().Parent())
	require.Equal(t, s.Scene, s.Pools.Root().Parent())

	camera := s.SurfacePoint(geom.Top, 1)
	require.InDelta(t, 101, camera.Len(), 1e-9)

	deepest := func() int {
		top := s.Planet.Stats()[geom.Top]
		for d := len(top.ActiveByDepth) - 1; d >= 0; d-- {
			if top.ActiveByDepth[d] > 0 {
				return d
			}
		}
		return -1
	}
	for i := 0; i < 2000 && deepest() < 3; i++ {
		require.True(t, s.Update(camera))
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, 3, deepest())
	require.Positive(t, s.Placer.ChunkCount())
	require.Positive(t, s.Frames)

	config.SetFrozen(true)
	defer config.SetFrozen(false)
	frames := s.Frames
	require.False(t, s.Update(camera))
	require.Equal(t, frames, s.Frames)
}
