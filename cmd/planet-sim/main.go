package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/encoding/json"

	"planet-lod/internal/config"
	"planet-lod/internal/game"
	"planet-lod/internal/profiling"
)

var version = "v0.1.0"

var _ = reflect.TypeOf(simConfig{})

type simConfig struct {
	Config        string        `cli:""        env:"PLANET_CONFIG"         help:"Planet description file (JSON). The built-in planet is used when empty."`
	LogLevel      string        `cli:""        env:"PLANET_LOG_LEVEL"      help:"Log level (debug|info|warning|error)."`
	LogIndent     bool          `cli:""        env:"PLANET_LOG_INDENT"     help:"Indent logs."`
	AdminAddr     string        `cli:""        env:"PLANET_ADMIN_ADDR"     help:"Admin listening address serving metrics. Disabled when empty."`
	Face          string        `cli:""        env:"PLANET_FACE"           help:"Face the camera descends onto (top|bottom|left|right|front|back)."`
	Frames        int           `cli:""        env:"PLANET_FRAMES"         help:"Number of simulated frames."`
	FrameDuration time.Duration `cli:""        env:"PLANET_FRAME_DURATION" help:"Duration of a simulated frame."`
	StartAltitude float64       `cli:""        env:"PLANET_START_ALTITUDE" help:"Camera altitude at the first frame. Defaults to twice the radius."`
	EndAltitude   float64       `cli:""        env:"PLANET_END_ALTITUDE"   help:"Camera altitude at the last frame."`
	Workers       int           `cli:",hidden" env:"PLANET_WORKERS"        help:"Overrides the worker count of the planet description."`
	Hold          time.Duration `cli:",hidden" env:"PLANET_HOLD"           help:"Keeps the admin server up after the run."`
	Version       bool          `cli:""        env:"-"                     help:"Show version."`
	Help          bool          `cli:""        env:"-"                     help:"Show help."`
}

func main() {
	conf := simConfig{
		LogLevel:      logs.InfoLevel.String(),
		Face:          "top",
		Frames:        600,
		FrameDuration: time.Millisecond * 16,
		EndAltitude:   1,
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Descends a camera onto a planet and reports its level of detail.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	planetConf := config.Default()
	if conf.Config != "" {
		var err error
		if planetConf, err = config.Load(conf.Config); err != nil {
			logs.Fatal(err)
		}
	}
	if conf.Workers > 0 {
		planetConf.Workers.Count = conf.Workers
	}
	if conf.StartAltitude <= 0 {
		conf.StartAltitude = planetConf.Radius * 2
	}

	face, ok := config.ParseDirection(conf.Face)
	if !ok {
		logs.Fatal(errors.New("unknown face").WithTag("face", conf.Face))
	}

	session, err := game.NewSession(planetConf)
	if err != nil {
		logs.Fatal(errors.New("creating session failed").Wrap(err))
	}
	defer session.Close()

	adminDone := make(chan struct{})
	if conf.AdminAddr != "" {
		go func() {
			defer close(adminDone)
			serveAdmin(ctx, conf.AdminAddr)
		}()
	} else {
		close(adminDone)
	}

	logs.WithTag("version", version).
		WithTag("planet", planetConf.Name).
		WithTag("face", face).
		WithTag("frames", conf.Frames).
		WithTag("start_altitude", conf.StartAltitude).
		WithTag("end_altitude", conf.EndAltitude).
		Info("starting planet simulation")

	run(ctx, session, conf, func(i int) mgl64.Vec3 {
		return session.SurfacePoint(face, altitudeAt(conf, i))
	})

	fmt.Println(statsTable(session.Planet.Stats()))
	logs.WithTag("active", session.Planet.ActiveCount()).
		WithTag("props", session.Placer.ActiveCount()).
		WithTag("frames", session.Frames).
		Info("simulation finished")

	if conf.AdminAddr != "" && conf.Hold > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(conf.Hold):
		}
	}
	cancel()
	<-adminDone
}

// run starts the planet at the first camera position then updates it once
// per frame until the frames are done or ctx is cancelled.
func run(ctx context.Context, s *game.Session, conf simConfig, camera func(int) mgl64.Vec3) {
	s.Start(camera(0))

	ticker := time.NewTicker(conf.FrameDuration)
	defer ticker.Stop()

	for i := 1; i < conf.Frames; i++ {
		select {
		case <-ctx.Done():
			logs.WithTag("frame", i).Info("simulation interrupted")
			return
		case <-ticker.C:
		}

		profiling.ResetFrame()
		start := time.Now()
		s.Update(camera(i))

		if d := time.Since(start); d > conf.FrameDuration {
			logs.WithTag("frame", i).
				WithTag("duration", d).
				WithTag("top", profiling.TopN(5)).
				Debug("slow frame")
		}
		if i%60 == 0 {
			logs.WithTag("frame", i).
				WithTag("altitude", altitudeAt(conf, i)).
				WithTag("active", s.Planet.ActiveCount()).
				WithTag("queued", s.Tasks.QueueLength()).
				Debug("simulation progress")
		}
	}
}

// altitudeAt interpolates the camera altitude of frame i geometrically, so
// the descent slows down near the surface.
func altitudeAt(conf simConfig, i int) float64 {
	if conf.Frames <= 1 {
		return conf.EndAltitude
	}
	t := float64(i) / float64(conf.Frames-1)
	start := max(conf.StartAltitude, 1e-6)
	end := max(conf.EndAltitude, 1e-6)
	return start * math.Pow(end/start, t)
}
