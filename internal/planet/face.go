package planet

import (
	"fmt"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/geom"
	"planet-lod/internal/mesh"
	"planet-lod/internal/pool"
	"planet-lod/internal/profiling"
	"planet-lod/internal/quadtree"
	"planet-lod/internal/scene"
	"planet-lod/internal/task"
)

// Detailer decorates chunks rendered at the deepest level of a face.
type Detailer interface {
	ShowChunkDetails(n *Node, data *mesh.Data)
	HideChunkDetails(n *Node)
}

// ListenerID identifies a highest detail listener.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn func(*Node)
}

// FaceOptions configures a Face.
type FaceOptions struct {
	// Name of the face, used for the scene object, logs and metrics.
	Name string

	// Zone is the region of the unit cube covered by the face.
	Zone geom.Zone3

	// Radius is the base radius handed to the mesh service.
	Radius float64

	// MaxDepth is the depth of the finest chunks.
	MaxDepth int

	// HighestQualityAtDistance is the breakpoint of the chunks at MaxDepth.
	HighestQualityAtDistance float64

	MeshService mesh.Service

	// Detailer is optional.
	Detailer Detailer

	// Dispatcher runs the split and merge generation tasks.
	Dispatcher task.Dispatcher

	// Containers provides the scene objects chunks are rendered with.
	Containers *pool.ObjectPool

	// Parent is the scene object the face object is attached to. Its world
	// transform places the face in the world.
	Parent *scene.Object

	// TrimOnMerge drops the subtree of a node whose children merged into
	// it. Kept subtrees remember the bounds of their chunks.
	TrimOnMerge bool
}

type splitTask struct {
	task   *task.Task
	meshes [4]*mesh.Data
}

type mergeTask struct {
	task *task.Task
	mesh *mesh.Data
}

// Face drives the level of detail of one cube face. A face is owned by a
// single goroutine; only mesh generation runs elsewhere.
type Face struct {
	name        string
	object      *scene.Object
	root        *Node
	radius      float64
	maxDepth    int
	meshes      mesh.Service
	detailer    Detailer
	dispatcher  task.Dispatcher
	containers  *pool.ObjectPool
	trimOnMerge bool

	active           *activeSet
	containersByNode map[*Node]*scene.Object
	splits           map[*Node]*splitTask
	merges           map[*Node]*mergeTask

	listeners    []listener
	nextListener ListenerID
}

// NewFace creates a face with a single root node. Nothing is rendered until
// the first LOD update.
func NewFace(opts FaceOptions) *Face {
	object := scene.NewObject(opts.Name)
	object.SetParent(opts.Parent)

	root := quadtree.NewRoot(opts.Zone, ChunkData{
		Breakpoint: Breakpoint(opts.HighestQualityAtDistance, 0, opts.MaxDepth),
		FaceRegion: geom.UnitZone2(),
	})

	return &Face{
		name:             opts.Name,
		object:           object,
		root:             root,
		radius:           opts.Radius,
		maxDepth:         max(opts.MaxDepth, 0),
		meshes:           opts.MeshService,
		detailer:         opts.Detailer,
		dispatcher:       opts.Dispatcher,
		containers:       opts.Containers,
		trimOnMerge:      opts.TrimOnMerge,
		active:           newActiveSet(0),
		containersByNode: make(map[*Node]*scene.Object),
		splits:           make(map[*Node]*splitTask),
		merges:           make(map[*Node]*mergeTask),
	}
}

func (f *Face) Name() string {
	return f.name
}

// Object returns the scene object chunk containers are attached to.
func (f *Face) Object() *scene.Object {
	return f.object
}

func (f *Face) Root() *Node {
	return f.root
}

func (f *Face) MaxDepth() int {
	return f.maxDepth
}

// ActiveCount returns the number of rendered chunks.
func (f *Face) ActiveCount() int {
	return f.active.len()
}

// IsActive reports whether n is rendered.
func (f *Face) IsActive(n *Node) bool {
	return f.active.contains(n)
}

// ForEachActiveLOD calls fn for every rendered node.
func (f *Face) ForEachActiveLOD(fn func(*Node)) {
	f.active.each(fn)
}

// Container returns the scene object n is rendered with, or nil.
func (f *Face) Container(n *Node) *scene.Object {
	return f.containersByNode[n]
}

// PendingSplits returns the number of split tasks not consumed yet.
func (f *Face) PendingSplits() int {
	return len(f.splits)
}

// PendingMerges returns the number of merge tasks not consumed yet.
func (f *Face) PendingMerges() int {
	return len(f.merges)
}

// AddHighestDetailListener registers fn to be called every time a node at
// the maximum depth is rendered.
func (f *Face) AddHighestDetailListener(fn func(*Node)) ListenerID {
	f.nextListener++
	f.listeners = append(f.listeners, listener{id: f.nextListener, fn: fn})
	return f.nextListener
}

// RemoveHighestDetailListener unregisters a listener. Unknown ids are
// ignored.
func (f *Face) RemoveHighestDetailListener(id ListenerID) {
	for i, l := range f.listeners {
		if l.id == id {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return
		}
	}
}

// ForceUpdateLODs discards every rendered chunk and picks the best one for
// every part of the face. Geometry is generated synchronously, which stalls
// the caller; use it to initialize the face or after a camera jump.
func (f *Face) ForceUpdateLODs(camera mgl64.Vec3) {
	defer profiling.Track("planet.Face.ForceUpdateLODs")()

	f.active.each(f.hide)
	clear(f.splits)
	clear(f.merges)

	next := newActiveSet(f.active.len())
	f.forceCheck(camera, f.root, next)
	f.active = next

	logs.WithTag("face", f.name).
		WithTag("active", next.len()).
		Debug("forced lod update")
	instrumentActive(f.name, next.len())
}

func (f *Face) forceCheck(camera mgl64.Vec3, n *Node, next *activeSet) {
	var data *mesh.Data
	if n.Value.Bounds == nil {
		data = f.make(n.Zone(), n.Value.FaceRegion)
		setBounds(n, data)
	}

	if f.wantsSplit(camera, n) {
		if n.IsLeaf() {
			n.Subdivide()
		}
		for _, c := range n.Children() {
			f.forceCheck(camera, c, next)
		}
		return
	}

	if data == nil {
		data = f.make(n.Zone(), n.Value.FaceRegion)
	}
	f.show(n, data)
	next.add(n)
}

// UpdateLODs moves every rendered chunk at most one level towards its best
// depth. Geometry is generated by tasks on the dispatcher and swapped in on
// a later call once complete, so the caller never waits on generation.
func (f *Face) UpdateLODs(camera mgl64.Vec3) {
	defer profiling.Track("planet.Face.UpdateLODs")()

	next := newActiveSet(f.active.len())
	f.active.each(func(n *Node) {
		if _, ok := f.containersByNode[n]; !ok {
			// Released earlier in this pass by a sibling merge.
			return
		}

		if f.wantsSplit(camera, n) {
			f.updateSplit(n, next)
			return
		}

		if n.IsRoot() || f.canSplit(camera, n.Parent()) {
			next.add(n)
			return
		}
		f.updateMerge(n, next)
	})
	f.active = next

	instrumentActive(f.name, next.len())
}

func (f *Face) updateSplit(n *Node, next *activeSet) {
	if n.IsLeaf() {
		n.Subdivide()
	}

	t, ok := f.splits[n]
	switch {
	case !ok:
		f.dispatchSplit(n)
		next.add(n)

	case !t.task.Complete():
		next.add(n)

	default:
		delete(f.splits, n)
		f.hide(n)
		for i, c := range n.Children() {
			delete(f.merges, c)
			f.show(c, t.meshes[i])
			next.add(c)
		}
		instrumentTransition(f.name, kindSplit)
		logs.WithTag("face", f.name).
			WithTag("depth", n.Depth()+1).
			Debug("split consumed")
	}
}

func (f *Face) updateMerge(n *Node, next *activeSet) {
	parent := n.Parent()
	if !f.childrenRendered(parent) {
		// A sibling is refined deeper or already replaced this pass.
		next.add(n)
		return
	}

	t, ok := f.merges[parent]
	switch {
	case !ok:
		f.dispatchMerge(parent)
		next.add(n)

	case !t.task.Complete():
		next.add(n)

	default:
		delete(f.merges, parent)
		for _, c := range parent.Children() {
			f.hide(c)
			next.remove(c)
			delete(f.splits, c)
		}
		f.show(parent, t.mesh)
		next.add(parent)

		if f.trimOnMerge {
			f.trim(parent)
		}
		instrumentTransition(f.name, kindMerge)
		logs.WithTag("face", f.name).
			WithTag("depth", parent.Depth()).
			Debug("merge consumed")
	}
}

// childrenRendered reports whether the four children of n are rendered with
// their own container.
func (f *Face) childrenRendered(n *Node) bool {
	for _, c := range n.Children() {
		if !f.active.contains(c) {
			return false
		}
		if _, ok := f.containersByNode[c]; !ok {
			return false
		}
	}
	return true
}

func (f *Face) dispatchSplit(n *Node) {
	var (
		zones   [4]geom.Zone3
		regions [4]geom.Zone2
	)
	for i, c := range n.Children() {
		zones[i] = c.Zone()
		regions[i] = c.Value.FaceRegion
	}

	t := &splitTask{}
	t.task = task.New(func(*task.Task) {
		for i := range zones {
			t.meshes[i] = f.make(zones[i], regions[i])
		}
	})

	if !f.dispatcher.Enqueue(t.task) {
		logs.WithTag("face", f.name).
			WithTag("depth", n.Depth()).
			Debug("split task rejected, retrying next update")
		return
	}
	f.splits[n] = t
	instrumentDispatch(f.name, kindSplit)
}

func (f *Face) dispatchMerge(n *Node) {
	zone := n.Zone()
	region := n.Value.FaceRegion

	t := &mergeTask{}
	t.task = task.New(func(*task.Task) {
		t.mesh = f.make(zone, region)
	})

	if !f.dispatcher.Enqueue(t.task) {
		logs.WithTag("face", f.name).
			WithTag("depth", n.Depth()).
			Debug("merge task rejected, retrying next update")
		return
	}
	f.merges[n] = t
	instrumentDispatch(f.name, kindMerge)
}

// trim drops the subtree below n together with the task records of its
// nodes.
func (f *Face) trim(n *Node) {
	for _, c := range n.Children() {
		c.Walk(func(d *Node) bool {
			delete(f.splits, d)
			delete(f.merges, d)
			return true
		})
	}
	n.Trim()
}

func (f *Face) wantsSplit(camera mgl64.Vec3, n *Node) bool {
	return (n.IsBranch() || n.Depth() < f.maxDepth) && f.canSplit(camera, n)
}

// canSplit reports whether the camera is closer to the bounds of n than its
// breakpoint. Nodes never rendered cannot split.
func (f *Face) canSplit(camera mgl64.Vec3, n *Node) bool {
	b := n.Value.Bounds
	if b == nil {
		return false
	}
	center := f.object.LocalToWorld(b.Center)
	return camera.Sub(center).Len()-b.Radius < n.Value.Breakpoint
}

// show renders n with data.
func (f *Face) show(n *Node, data *mesh.Data) {
	if _, ok := f.containersByNode[n]; ok {
		return
	}
	if n.Value.Bounds == nil {
		setBounds(n, data)
	}

	o := f.containers.Pop()
	o.Name = fmt.Sprintf("%s/%d", f.name, n.Depth())
	o.SetParent(f.object)
	o.Mesh = data
	o.SetActive(true)
	f.containersByNode[n] = o

	if n.Depth() == f.maxDepth {
		for _, l := range f.listeners {
			l.fn(n)
		}
		if f.detailer != nil {
			f.detailer.ShowChunkDetails(n, data)
		}
	}
}

// hide releases the container of n.
func (f *Face) hide(n *Node) {
	o, ok := f.containersByNode[n]
	if !ok {
		return
	}
	delete(f.containersByNode, n)
	f.containers.Push(o)

	if n.Depth() == f.maxDepth && f.detailer != nil {
		f.detailer.HideChunkDetails(n)
	}
}

func (f *Face) make(zone geom.Zone3, region geom.Zone2) *mesh.Data {
	defer profiling.Track("mesh.Make")()
	return f.meshes.Make(zone.A, zone.B, zone.D, zone.C, region, f.radius)
}

// setBounds derives the bounding sphere of n from its geometry. The radius
// is the length of the box extents, which is looser than the tightest
// sphere.
func setBounds(n *Node, data *mesh.Data) {
	s := data.Bounds().BoundingSphere()
	n.Value.Bounds = &s
}
