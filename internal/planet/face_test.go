package planet

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"planet-lod/internal/geom"
	"planet-lod/internal/mesh"
	"planet-lod/internal/pool"
	"planet-lod/internal/scene"
	"planet-lod/internal/task"
)

var (
	farCamera  = mgl64.Vec3{0, 1000, 0}
	nearCamera = mgl64.Vec3{0, 1.05, 0}
)

// manualDispatcher queues tasks until the test runs them.
type manualDispatcher struct {
	queued []*task.Task
	reject bool
}

func (d *manualDispatcher) Enqueue(t *task.Task) bool {
	if d.reject {
		return false
	}
	d.queued = append(d.queued, t)
	return true
}

func (d *manualDispatcher) runAll() {
	for _, t := range d.queued {
		t.Invoke()
	}
	d.queued = nil
}

func (d *manualDispatcher) runSome(r *rand.Rand) {
	var left []*task.Task
	for _, t := range d.queued {
		if r.IntN(2) == 0 {
			t.Invoke()
		} else {
			left = append(left, t)
		}
	}
	d.queued = left
}

type recordingDetailer struct {
	shown  map[*Node]int
	hidden map[*Node]int
}

func newRecordingDetailer() *recordingDetailer {
	return &recordingDetailer{
		shown:  make(map[*Node]int),
		hidden: make(map[*Node]int),
	}
}

func (d *recordingDetailer) ShowChunkDetails(n *Node, data *mesh.Data) {
	d.shown[n]++
}

func (d *recordingDetailer) HideChunkDetails(n *Node) {
	d.hidden[n]++
}

type faceConfig struct {
	maxDepth    int
	dispatcher  task.Dispatcher
	detailer    Detailer
	parent      *scene.Object
	trimOnMerge bool
}

func newTestFace(t *testing.T, c faceConfig) *Face {
	t.Helper()

	if c.dispatcher == nil {
		c.dispatcher = task.Inline{}
	}
	s := mesh.NewSphereGenerator(mesh.GridOptions{Resolution: 2})
	require.NoError(t, s.Init())

	return NewFace(FaceOptions{
		Name:                     "top",
		Zone:                     geom.FaceZone(geom.Top),
		Radius:                   1,
		MaxDepth:                 c.maxDepth,
		HighestQualityAtDistance: 1,
		MeshService:              s,
		Detailer:                 c.detailer,
		Dispatcher:               c.dispatcher,
		Containers:               pool.NewObjectPool(scene.NewObject("chunk"), 0, 3, nil),
		Parent:                   c.parent,
		TrimOnMerge:              c.trimOnMerge,
	})
}

func activeNodes(f *Face) []*Node {
	var nodes []*Node
	f.ForEachActiveLOD(func(n *Node) {
		nodes = append(nodes, n)
	})
	return nodes
}

func maxActiveDepth(f *Face) int {
	depth := -1
	f.ForEachActiveLOD(func(n *Node) {
		depth = max(depth, n.Depth())
	})
	return depth
}

// requireConsistent checks the invariants that hold between two updates.
func requireConsistent(t *testing.T, f *Face) {
	t.Helper()

	for n := range f.splits {
		_, merging := f.merges[n]
		require.False(t, merging, "node at depth %d has a split and a merge task", n.Depth())
	}

	require.Len(t, f.containersByNode, f.ActiveCount())
	require.Equal(t, f.containers.Created(), f.containers.Count()+f.ActiveCount())

	f.ForEachActiveLOD(func(n *Node) {
		o := f.Container(n)
		require.NotNil(t, o)
		require.True(t, o.Active())
		require.NotNil(t, o.Mesh)
		require.Equal(t, f.Object(), o.Parent())
		require.NotNil(t, n.Value.Bounds)
	})

	// Every point of the face is covered by exactly one active node.
	f.Root().Walk(func(n *Node) bool {
		if f.IsActive(n) {
			n.Walk(func(d *Node) bool {
				if d != n {
					require.False(t, f.IsActive(d), "active node below an active node")
				}
				return true
			})
			return false
		}
		require.True(t, n.IsBranch(), "leaf at depth %d is not covered", n.Depth())
		return true
	})
}

func TestForceUpdateRootOnly(t *testing.T) {
	for _, camera := range []mgl64.Vec3{farCamera, nearCamera, {0, 1, 0}} {
		f := newTestFace(t, faceConfig{maxDepth: 0})
		f.ForceUpdateLODs(camera)

		require.Equal(t, 1, f.ActiveCount())
		require.True(t, f.IsActive(f.Root()))
		require.True(t, f.Root().IsLeaf())
		requireConsistent(t, f)
	}
}

func TestForceUpdateFarThenNear(t *testing.T) {
	f := newTestFace(t, faceConfig{maxDepth: 2})

	f.ForceUpdateLODs(farCamera)
	require.Equal(t, 1, f.ActiveCount())
	require.True(t, f.IsActive(f.Root()))
	require.NotNil(t, f.Root().Value.Bounds)
	requireConsistent(t, f)

	f.ForceUpdateLODs(nearCamera)
	require.Equal(t, 16, f.ActiveCount())
	require.False(t, f.IsActive(f.Root()))
	for _, c := range f.Root().Children() {
		require.False(t, f.IsActive(c))
		for _, g := range c.Children() {
			require.True(t, f.IsActive(g))
			require.Equal(t, 2, g.Depth())
		}
	}
	requireConsistent(t, f)

	f.ForceUpdateLODs(farCamera)
	require.Equal(t, 1, f.ActiveCount())
	require.True(t, f.IsActive(f.Root()))
	requireConsistent(t, f)
}

func TestForceUpdateDropsTaskRecords(t *testing.T) {
	d := &manualDispatcher{}
	f := newTestFace(t, faceConfig{maxDepth: 2, dispatcher: d})

	f.ForceUpdateLODs(farCamera)
	f.UpdateLODs(nearCamera)
	require.Equal(t, 1, f.PendingSplits())

	f.ForceUpdateLODs(nearCamera)
	require.Zero(t, f.PendingSplits())
	require.Zero(t, f.PendingMerges())
}

func TestBreakpointHalvesWithDepth(t *testing.T) {
	f := newTestFace(t, faceConfig{maxDepth: 3})
	f.ForceUpdateLODs(nearCamera)

	f.Root().Walk(func(n *Node) bool {
		require.InDelta(t, Breakpoint(1, n.Depth(), 3), n.Value.Breakpoint, 1e-12)
		return true
	})
	require.InDelta(t, 8, f.Root().Value.Breakpoint, 1e-12)
}

func TestUpdateChangesAtMostOneLevel(t *testing.T) {
	f := newTestFace(t, faceConfig{maxDepth: 5})
	f.ForceUpdateLODs(farCamera)
	require.Zero(t, maxActiveDepth(f))

	for frame := 1; frame <= 12; frame++ {
		f.UpdateLODs(nearCamera)
		require.LessOrEqual(t, maxActiveDepth(f), frame)
		requireConsistent(t, f)
	}
	require.Equal(t, 5, maxActiveDepth(f))
	require.Equal(t, 1024, f.ActiveCount())

	for frame := 1; frame <= 5; frame++ {
		f.UpdateLODs(farCamera)
		require.GreaterOrEqual(t, maxActiveDepth(f), 5-frame)
		requireConsistent(t, f)
	}
	require.Equal(t, 1, f.ActiveCount())
	require.True(t, f.IsActive(f.Root()))
	require.Zero(t, f.PendingMerges())
}

func TestSplitWaitsForTask(t *testing.T) {
	d := &manualDispatcher{}
	f := newTestFace(t, faceConfig{maxDepth: 2, dispatcher: d})
	f.ForceUpdateLODs(farCamera)

	f.UpdateLODs(nearCamera)
	require.True(t, f.IsActive(f.Root()))
	require.Equal(t, 1, f.PendingSplits())
	require.Len(t, d.queued, 1)

	f.UpdateLODs(nearCamera)
	require.True(t, f.IsActive(f.Root()))
	require.Len(t, d.queued, 1, "a second task was dispatched for the same split")

	d.runAll()
	f.UpdateLODs(nearCamera)
	require.False(t, f.IsActive(f.Root()))
	require.Equal(t, 4, f.ActiveCount())
	require.Zero(t, f.PendingSplits())
	requireConsistent(t, f)
}

func TestRejectedTaskIsRetried(t *testing.T) {
	d := &manualDispatcher{reject: true}
	f := newTestFace(t, faceConfig{maxDepth: 2, dispatcher: d})
	f.ForceUpdateLODs(farCamera)

	f.UpdateLODs(nearCamera)
	require.Zero(t, f.PendingSplits())
	require.True(t, f.IsActive(f.Root()))

	d.reject = false
	f.UpdateLODs(nearCamera)
	require.Equal(t, 1, f.PendingSplits())
}

func TestParentSplitOverridesChildMerge(t *testing.T) {
	for _, trim := range []bool{false, true} {
		d := &manualDispatcher{}
		det := newRecordingDetailer()
		f := newTestFace(t, faceConfig{maxDepth: 2, dispatcher: d, detailer: det, trimOnMerge: trim})
		f.ForceUpdateLODs(nearCamera)
		require.Equal(t, 16, f.ActiveCount())

		// Every depth 2 node wants to merge but its parent wants to split.
		f.UpdateLODs(nearCamera)
		require.Equal(t, 16, f.ActiveCount())
		require.Zero(t, f.PendingMerges())

		// Push one parent out of reach.
		parent := f.Root().Child(0)
		parent.Value.Bounds = &geom.Sphere{Center: mgl64.Vec3{0, -1000, 0}, Radius: 1}

		f.UpdateLODs(nearCamera)
		require.Equal(t, 1, f.PendingMerges())
		require.Len(t, d.queued, 1)
		for _, c := range parent.Children() {
			require.True(t, f.IsActive(c))
		}

		f.UpdateLODs(nearCamera)
		require.Len(t, d.queued, 1)
		requireConsistent(t, f)

		children := parent.Children()
		d.runAll()
		f.UpdateLODs(nearCamera)
		require.True(t, f.IsActive(parent))
		require.Equal(t, 13, f.ActiveCount())
		require.Zero(t, f.PendingMerges())
		for _, c := range children {
			require.False(t, f.IsActive(c))
			require.Equal(t, 1, det.hidden[c])
		}
		require.Equal(t, trim, parent.IsLeaf())
		requireConsistent(t, f)
	}
}

func TestMergeWaitsForRefinedSibling(t *testing.T) {
	d := &manualDispatcher{}
	f := newTestFace(t, faceConfig{maxDepth: 3, dispatcher: d})
	f.ForceUpdateLODs(farCamera)

	// Refine the root, then one child.
	f.UpdateLODs(nearCamera)
	d.runAll()
	f.UpdateLODs(nearCamera)
	require.Equal(t, 4, f.ActiveCount())

	refined := f.Root().Child(0)
	for _, c := range f.Root().Children()[1:] {
		c.Value.Bounds = &geom.Sphere{Center: mgl64.Vec3{0, -1000, 0}, Radius: 1}
	}
	f.UpdateLODs(nearCamera)
	d.runAll()
	f.UpdateLODs(nearCamera)
	require.False(t, f.IsActive(refined))
	require.Equal(t, 7, f.ActiveCount())

	// The root no longer wants to split, the refined child still does.
	f.Root().Value.Bounds = &geom.Sphere{Center: mgl64.Vec3{0, -1000, 0}, Radius: 1}
	f.UpdateLODs(nearCamera)
	require.Zero(t, f.PendingMerges(), "root merge dispatched under a refined sibling")
	require.Equal(t, 7, f.ActiveCount())
	requireConsistent(t, f)
}

func TestTaskRecordsStayExclusive(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	cameras := []mgl64.Vec3{
		nearCamera,
		farCamera,
		{0, 1.5, 0},
		{0.7, 0.8, 0.3},
		{-0.6, 0.75, -0.6},
		{0, 3, 0},
	}

	for _, trim := range []bool{false, true} {
		d := &manualDispatcher{}
		f := newTestFace(t, faceConfig{maxDepth: 4, dispatcher: d, trimOnMerge: trim})
		f.ForceUpdateLODs(cameras[r.IntN(len(cameras))])

		camera := cameras[0]
		for range 300 {
			if r.IntN(8) == 0 {
				camera = cameras[r.IntN(len(cameras))]
			}
			if r.IntN(50) == 0 {
				f.ForceUpdateLODs(camera)
			}
			d.runSome(r)
			f.UpdateLODs(camera)
			requireConsistent(t, f)
		}
	}
}

func TestHighestDetailListeners(t *testing.T) {
	det := newRecordingDetailer()
	f := newTestFace(t, faceConfig{maxDepth: 2, detailer: det})

	var calls, other int
	id := f.AddHighestDetailListener(func(n *Node) {
		require.Equal(t, 2, n.Depth())
		calls++
	})
	f.AddHighestDetailListener(func(*Node) { other++ })

	f.ForceUpdateLODs(nearCamera)
	require.Equal(t, 16, calls)
	require.Len(t, det.shown, 16)

	f.RemoveHighestDetailListener(id)
	f.RemoveHighestDetailListener(id + 100)
	f.ForceUpdateLODs(nearCamera)
	require.Equal(t, 16, calls)
	require.Equal(t, 32, other)
	for n, c := range det.shown {
		require.Equal(t, 2, c)
		require.Equal(t, 1, det.hidden[n])
	}

	f.ForceUpdateLODs(farCamera)
	for n := range det.shown {
		require.Equal(t, 2, det.hidden[n])
	}
}

func TestCanSplitUsesWorldTransform(t *testing.T) {
	parent := scene.NewObject("planet")
	parent.Transform.Position = mgl64.Vec3{500, 0, 0}

	f := newTestFace(t, faceConfig{maxDepth: 1, parent: parent})
	f.ForceUpdateLODs(nearCamera)
	require.True(t, f.IsActive(f.Root()))

	f.ForceUpdateLODs(nearCamera.Add(parent.Transform.Position))
	require.Equal(t, 4, f.ActiveCount())
}

func TestCanSplitWithoutBounds(t *testing.T) {
	f := newTestFace(t, faceConfig{maxDepth: 2})
	require.Nil(t, f.Root().Value.Bounds)
	require.False(t, f.canSplit(nearCamera, f.Root()))

	f.UpdateLODs(nearCamera)
	require.Zero(t, f.ActiveCount())
}

func BenchmarkUpdateLODs(b *testing.B) {
	s := mesh.NewSphereGenerator(mesh.GridOptions{Resolution: 2})
	if err := s.Init(); err != nil {
		b.Fatal(err)
	}
	f := NewFace(FaceOptions{
		Name:                     "top",
		Zone:                     geom.FaceZone(geom.Top),
		Radius:                   1,
		MaxDepth:                 5,
		HighestQualityAtDistance: 0.05,
		MeshService:              s,
		Dispatcher:               task.Inline{},
		Containers:               pool.NewObjectPool(scene.NewObject("chunk"), 64, 16, nil),
	})
	f.ForceUpdateLODs(nearCamera)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.UpdateLODs(nearCamera)
	}
}
