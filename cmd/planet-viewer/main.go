package main

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"runtime"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/segmentio/encoding/json"
	"github.com/xlab/closer"

	"planet-lod/internal/config"
	"planet-lod/internal/game"
	"planet-lod/internal/input"
)

var version = "v0.1.0"

var _ = reflect.TypeOf(viewerConfig{})

type viewerConfig struct {
	Config         string `cli:"" env:"PLANET_CONFIG"           help:"Planet description file (JSON). The built-in planet is used when empty."`
	LogLevel       string `cli:"" env:"PLANET_LOG_LEVEL"        help:"Log level (debug|info|warning|error)."`
	FPSLimit       int    `cli:"" env:"PLANET_FPS_LIMIT"        help:"Frame cap, 0 for uncapped."`
	UpdatesPerTick int    `cli:"" env:"PLANET_UPDATES_PER_TICK" help:"Incremental LOD passes per frame."`
	Wireframe      bool   `cli:"" env:"PLANET_WIREFRAME"        help:"Start in wireframe mode."`
	Version        bool   `cli:"" env:"-"                       help:"Show version."`
	Help           bool   `cli:"" env:"-"                       help:"Show help."`
}

func init() {
	// GL and glfw calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	conf := viewerConfig{
		LogLevel:       logs.InfoLevel.String(),
		FPSLimit:       config.GetFPSLimit(),
		UpdatesPerTick: config.GetUpdatesPerTick(),
	}

	cli.Register().
		Help("Flies a camera over a planet and renders its chunks.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	errors.Encoder = json.Marshal

	config.SetFPSLimit(conf.FPSLimit)
	config.SetUpdatesPerTick(conf.UpdatesPerTick)
	config.SetWireframe(conf.Wireframe)

	planetConf := config.Default()
	if conf.Config != "" {
		var err error
		if planetConf, err = config.Load(conf.Config); err != nil {
			logs.Fatal(err)
		}
	}

	session, err := game.NewSession(planetConf)
	if err != nil {
		logs.Fatal(errors.New("creating session failed").Wrap(err))
	}
	closer.Bind(session.Close)

	if err := glfw.Init(); err != nil {
		logs.Fatal(errors.New("initializing glfw failed").Wrap(err))
	}

	window, err := game.SetupWindow("planet-lod: " + planetConf.Name)
	if err != nil {
		logs.Fatal(errors.New("creating window failed").Wrap(err))
	}

	app, err := game.NewApp(window, input.NewInputManager(), session)
	if err != nil {
		logs.Fatal(errors.New("creating viewer failed").Wrap(err))
	}
	game.SetupInputHandlers(app)

	logs.WithTag("version", version).
		WithTag("planet", planetConf.Name).
		WithTag("radius", planetConf.Radius).
		WithTag("lod_depth", planetConf.LODDepth).
		Info("starting planet viewer")

	app.Run(context.Background())
	app.Dispose()
	window.Destroy()
	glfw.Terminate()

	// Runs the bound hooks and exits.
	closer.Close()
}
