package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"planet-lod/internal/config"
	"planet-lod/internal/game"
	"planet-lod/internal/geom"
	"planet-lod/internal/mesh"
	"planet-lod/internal/planet"
)

func TestAltitudeAt(t *testing.T) {
	conf := simConfig{Frames: 3, StartAltitude: 100, EndAltitude: 1}

	require.InDelta(t, 100, altitudeAt(conf, 0), 1e-9)
	require.InDelta(t, 10, altitudeAt(conf, 1), 1e-9)
	require.InDelta(t, 1, altitudeAt(conf, 2), 1e-9)

	conf.Frames = 1
	require.Equal(t, 1.0, altitudeAt(conf, 0))
}

func TestStatsTable(t *testing.T) {
	out := statsTable([]planet.FaceStats{
		{Face: "top", ActiveByDepth: []int{0, 3, 4}, PendingSplits: 1},
		{Face: "bottom", ActiveByDepth: []int{1, 0, 0}, PendingMerges: 2},
	})

	require.Contains(t, out, "Face")
	require.Contains(t, out, "d2")
	require.Contains(t, out, "top")
	require.Contains(t, out, "TOTAL")

	var total string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "TOTAL") {
			total = line
		}
	}
	require.Equal(t, []string{"TOTAL", "1", "3", "4", "8", "1", "2"}, strings.FieldsFunc(total, func(r rune) bool {
		return r == '|' || r == ' '
	}))
}

func TestRunDescends(t *testing.T) {
	planetConf := config.Default()
	planetConf.Radius = 100
	planetConf.LODDepth = 2
	planetConf.HighestQualityAtDistance = 5
	planetConf.Generator.Kind = config.GeneratorSphere
	planetConf.Generator.Grid = mesh.GridOptions{Resolution: 2}

	s, err := game.NewSession(planetConf)
	require.NoError(t, err)
	defer s.Close()

	conf := simConfig{Frames: 200, FrameDuration: time.Millisecond, StartAltitude: 1000, EndAltitude: 1}
	run(context.Background(), s, conf, func(i int) mgl64.Vec3 {
		return s.SurfacePoint(geom.Top, altitudeAt(conf, i))
	})

	require.Equal(t, conf.Frames-1, s.Frames)
	require.Greater(t, s.Planet.ActiveCount(), 6)
}

func TestRunStopsOnCancel(t *testing.T) {
	planetConf := config.Default()
	planetConf.Generator.Kind = config.GeneratorSphere
	planetConf.Generator.Grid = mesh.GridOptions{Resolution: 2}

	s, err := game.NewSession(planetConf)
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run(ctx, s, simConfig{Frames: 100, FrameDuration: time.Hour}, func(int) mgl64.Vec3 {
		return mgl64.Vec3{0, 1e6, 0}
	})
	require.Zero(t, s.Frames)
	require.Equal(t, 6, s.Planet.ActiveCount())
}
