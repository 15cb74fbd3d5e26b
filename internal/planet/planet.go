package planet

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/geom"
	"planet-lod/internal/mesh"
	"planet-lod/internal/pool"
	"planet-lod/internal/scene"
	"planet-lod/internal/task"
)

// Options configures a Planet.
type Options struct {
	Name                     string
	Position                 mgl64.Vec3
	Radius                   float64
	MaxDepth                 int
	HighestQualityAtDistance float64

	MeshService mesh.Service

	// Detailer is optional.
	Detailer Detailer

	// Dispatcher runs generation tasks. Nil runs them inline.
	Dispatcher task.Dispatcher

	// Pools registers one container pool per face. Nil uses a private
	// manager.
	Pools      *pool.Manager
	PoolSize   int
	PoolBuffer int

	// Parent is the scene object the planet is attached to. Optional.
	Parent *scene.Object

	TrimOnMerge bool
}

// Planet groups the six faces of a cube-sphere.
type Planet struct {
	name      string
	object    *scene.Object
	faces     [len(geom.Directions)]*Face
	listeners map[ListenerID][len(geom.Directions)]ListenerID
	nextID    ListenerID
}

// New initializes the mesh service and builds the six faces.
func New(opts Options) (*Planet, error) {
	if opts.MeshService == nil {
		return nil, errors.New("planet has no mesh service").
			WithTag("planet", opts.Name)
	}
	if err := opts.MeshService.Init(); err != nil {
		return nil, errors.New("initializing mesh service failed").
			WithTag("planet", opts.Name).
			Wrap(err)
	}

	if opts.Dispatcher == nil {
		opts.Dispatcher = task.Inline{}
	}
	if opts.Pools == nil {
		opts.Pools = pool.NewManager()
	}

	object := scene.NewObject(opts.Name)
	object.Transform.Position = opts.Position
	object.SetParent(opts.Parent)

	p := &Planet{
		name:      opts.Name,
		object:    object,
		listeners: make(map[ListenerID][len(geom.Directions)]ListenerID),
	}

	for _, d := range geom.Directions {
		containers := opts.Pools.InstancePool(
			scene.NewObject("chunks/"+opts.Name+"/"+d.String()),
			opts.PoolSize,
			opts.PoolBuffer,
		)

		p.faces[d] = NewFace(FaceOptions{
			Name:                     d.String(),
			Zone:                     geom.FaceZone(d),
			Radius:                   opts.Radius,
			MaxDepth:                 opts.MaxDepth,
			HighestQualityAtDistance: opts.HighestQualityAtDistance,
			MeshService:              opts.MeshService,
			Detailer:                 opts.Detailer,
			Dispatcher:               opts.Dispatcher,
			Containers:               containers,
			Parent:                   object,
			TrimOnMerge:              opts.TrimOnMerge,
		})
	}

	logs.WithTag("planet", opts.Name).
		WithTag("radius", opts.Radius).
		WithTag("max_depth", opts.MaxDepth).
		Debug("planet created")
	return p, nil
}

func (p *Planet) Name() string {
	return p.name
}

// Object returns the scene object the faces are attached to.
func (p *Planet) Object() *scene.Object {
	return p.object
}

// Face returns the face in direction d.
func (p *Planet) Face(d geom.Direction) *Face {
	return p.faces[d]
}

// Faces returns the six faces in direction order.
func (p *Planet) Faces() []*Face {
	return p.faces[:]
}

// ForceUpdateLODs force updates every face.
func (p *Planet) ForceUpdateLODs(camera mgl64.Vec3) {
	for _, f := range p.faces {
		f.ForceUpdateLODs(camera)
	}
}

// UpdateLODs runs one incremental update on every face.
func (p *Planet) UpdateLODs(camera mgl64.Vec3) {
	for _, f := range p.faces {
		f.UpdateLODs(camera)
	}
}

// ActiveCount returns the number of rendered chunks over all faces.
func (p *Planet) ActiveCount() int {
	n := 0
	for _, f := range p.faces {
		n += f.ActiveCount()
	}
	return n
}

// AddHighestDetailListener registers fn on every face.
func (p *Planet) AddHighestDetailListener(fn func(*Node)) ListenerID {
	var ids [len(geom.Directions)]ListenerID
	for i, f := range p.faces {
		ids[i] = f.AddHighestDetailListener(fn)
	}

	p.nextID++
	p.listeners[p.nextID] = ids
	return p.nextID
}

// RemoveHighestDetailListener unregisters a listener from every face.
func (p *Planet) RemoveHighestDetailListener(id ListenerID) {
	ids, ok := p.listeners[id]
	if !ok {
		return
	}
	for i, f := range p.faces {
		f.RemoveHighestDetailListener(ids[i])
	}
	delete(p.listeners, id)
}

// FaceStats describes the state of one face.
type FaceStats struct {
	Face          string
	ActiveByDepth []int
	PendingSplits int
	PendingMerges int
}

// Active returns the number of rendered chunks.
func (s FaceStats) Active() int {
	n := 0
	for _, c := range s.ActiveByDepth {
		n += c
	}
	return n
}

// Stats returns the state of every face. ActiveByDepth has one entry per
// depth, from the root to the maximum depth.
func (p *Planet) Stats() []FaceStats {
	stats := make([]FaceStats, 0, len(p.faces))
	for _, f := range p.faces {
		s := FaceStats{
			Face:          f.Name(),
			ActiveByDepth: make([]int, f.MaxDepth()+1),
			PendingSplits: f.PendingSplits(),
			PendingMerges: f.PendingMerges(),
		}
		f.ForEachActiveLOD(func(n *Node) {
			s.ActiveByDepth[n.Depth()]++
		})
		stats = append(stats, s)
	}
	return stats
}
