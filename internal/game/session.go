package game

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/config"
	"planet-lod/internal/detail"
	"planet-lod/internal/geom"
	"planet-lod/internal/planet"
	"planet-lod/internal/pool"
	"planet-lod/internal/profiling"
	"planet-lod/internal/scene"
	"planet-lod/internal/task"
)

// Session owns a planet and everything that drives it: the scene root, the
// pools, the detail placer and the generation workers. Start must run before
// Update, and both run on the same goroutine.
type Session struct {
	Config config.Planet
	Scene  *scene.Object
	Planet *planet.Planet
	Placer *detail.Placer
	Pools  *pool.Manager
	Tasks  *task.Pool

	Frames  int
	started bool
}

// NewSession builds the planet described by conf.
func NewSession(conf config.Planet) (*Session, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	meshes, err := conf.MeshService()
	if err != nil {
		return nil, err
	}

	root := scene.NewObject("scene")
	pools := pool.NewManager()
	pools.Root().SetParent(root)

	placer := detail.NewPlacer(pools, conf.Details...)
	tasks := task.NewPool(conf.Workers.Count, conf.Workers.QueueSize)

	p, err := planet.New(planet.Options{
		Name:                     conf.Name,
		Position:                 conf.PositionVec(),
		Radius:                   conf.Radius,
		MaxDepth:                 conf.LODDepth,
		HighestQualityAtDistance: conf.HighestQualityAtDistance,
		MeshService:              meshes,
		Detailer:                 placer,
		Dispatcher:               tasks,
		Pools:                    pools,
		PoolSize:                 conf.Pools.Size,
		PoolBuffer:               conf.Pools.Buffer,
		Parent:                   root,
		TrimOnMerge:              conf.TrimOnMerge,
	})
	if err != nil {
		tasks.Shutdown()
		return nil, err
	}

	logs.WithTag("planet", conf.Name).
		WithTag("generator", conf.Generator.Kind).
		WithTag("workers", conf.Workers.Count).
		Info("session created")

	return &Session{
		Config: conf,
		Scene:  root,
		Planet: p,
		Placer: placer,
		Pools:  pools,
		Tasks:  tasks,
	}, nil
}

// Start builds the initial level of detail around camera synchronously.
func (s *Session) Start(camera mgl64.Vec3) {
	defer profiling.Track("planet.ForceUpdateLODs")()
	s.Planet.ForceUpdateLODs(camera)
	s.started = true
}

// Update runs the configured number of incremental passes. It reports
// whether any pass ran; a frozen session or one not yet started does not
// update.
func (s *Session) Update(camera mgl64.Vec3) bool {
	if !s.started || config.GetFrozen() {
		return false
	}
	defer profiling.Track("planet.UpdateLODs")()

	for range config.GetUpdatesPerTick() {
		s.Planet.UpdateLODs(camera)
	}
	s.Frames++
	return true
}

// SurfacePoint returns the point altitude units above the center of face d.
func (s *Session) SurfacePoint(d geom.Direction, altitude float64) mgl64.Vec3 {
	up := geom.Spherify(geom.FaceZone(d).Center())
	return s.Planet.Object().LocalToWorld(up.Mul(s.Config.Radius + altitude))
}

// Close stops the workers. Pending generation tasks are dropped.
func (s *Session) Close() {
	s.Tasks.Shutdown()
	logs.WithTag("planet", s.Config.Name).
		WithTag("frames", s.Frames).
		Debug("session closed")
}
