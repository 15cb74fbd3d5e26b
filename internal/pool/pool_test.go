package pool

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"planet-lod/internal/mesh"
	"planet-lod/internal/scene"
)

func TestPoolIsFIFO(t *testing.T) {
	var p Pool[int]
	require.True(t, p.Empty())

	_, ok := p.Pop()
	require.False(t, ok)

	for i := range 5 {
		p.Push(i)
	}
	for i := range 3 {
		v, ok := p.Pop()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	for i := 5; i < 40; i++ {
		p.Push(i)
	}
	for i := 3; i < 40; i++ {
		v, ok := p.Pop()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	require.True(t, p.Empty())
}

func TestPoolCount(t *testing.T) {
	tests := []struct {
		pushes int
		pops   int
	}{
		{pushes: 1, pops: 0},
		{pushes: 10, pops: 3},
		{pushes: 64, pops: 63},
	}

	for _, test := range tests {
		var p Pool[string]
		for range test.pushes {
			p.Push("x")
		}
		for range test.pops {
			p.Pop()
		}
		require.Equal(t, test.pushes-test.pops, p.Count())
	}
}

type prop struct {
	created   int
	destroyed int
	active    bool
	value     int
}

func (p *prop) OnCreate() {
	p.created++
	p.active = true
}

func (p *prop) OnDestroy() {
	p.destroyed++
	p.active = false
	p.value = 0
}

func TestPoolablePool(t *testing.T) {
	made := 0
	p := NewPoolablePool("props", func() *prop {
		made++
		return &prop{}
	}, 2, 3)
	require.Equal(t, 2, p.Count())
	require.Equal(t, "props", p.Name())

	a := p.Pop()
	p.Pop()
	require.True(t, a.active)
	require.Equal(t, 1, a.created)
	require.True(t, p.Empty())

	c := p.Pop()
	require.Equal(t, 5, made)
	require.Equal(t, 2, p.Count())

	c.value = 12
	p.Push(c)
	require.False(t, c.active)
	require.Zero(t, c.value)
	require.Equal(t, 1, c.destroyed)
	require.Equal(t, 3, p.Count())
}

func TestObjectPoolRoundTrip(t *testing.T) {
	parent := scene.NewObject("pooled")
	prefab := scene.NewObject("chunk")
	p := NewObjectPool(prefab, 2, 3, parent)
	require.Equal(t, 2, p.Count())
	require.Len(t, parent.Children(), 2)

	o := p.Pop()
	require.False(t, o.Active())
	require.Equal(t, scene.Identity(), o.Transform)

	other := scene.NewObject("face")
	o.SetParent(other)
	o.SetActive(true)
	o.Transform.Position = mgl64.Vec3{4, 5, 6}
	o.Transform.Scale = mgl64.Vec3{2, 2, 2}
	o.Mesh = &mesh.Data{Name: "used"}

	p.Push(o)
	require.False(t, o.Active())
	require.Nil(t, o.Mesh)
	require.Equal(t, parent, o.Parent())
	require.Empty(t, other.Children())

	for range p.Count() {
		got := p.Pop()
		require.False(t, got.Active())
		require.Nil(t, got.Mesh)
		require.Equal(t, scene.Identity(), got.Transform)
		require.Equal(t, "chunk", got.Name)
	}
}

func TestObjectPoolGrowsByBuffer(t *testing.T) {
	p := NewObjectPool(scene.NewObject("chunk"), 0, 4, nil)
	require.True(t, p.Empty())

	p.Pop()
	require.Equal(t, 3, p.Count())
	require.Equal(t, 4, p.Created())

	for range 3 {
		p.Pop()
	}
	p.Pop()
	require.Equal(t, 8, p.Created())
}

func TestManager(t *testing.T) {
	m := NewManager()
	prefab := scene.NewObject("chunks/top")

	a := m.InstancePool(prefab, 2, 3)
	b := m.InstancePool(scene.NewObject("chunks/top"), 5, 5)
	require.Same(t, a, b)
	require.Len(t, m.Pools(), 1)

	o := m.Instantiate(prefab, mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent())
	require.True(t, o.Active())
	require.Equal(t, mgl64.Vec3{1, 2, 3}, o.Transform.Position)
	require.Equal(t, 1, a.Count())

	m.Destroy(o)
	require.False(t, o.Active())
	require.Equal(t, 2, a.Count())
	require.Equal(t, m.Root(), o.Parent())
	require.False(t, o.ActiveInHierarchy())
}

func TestCustomPool(t *testing.T) {
	m := NewManager()
	factory := func() *prop { return &prop{} }

	a := CustomPool(m, "trees", 1, 2, factory)
	b := CustomPool(m, "trees", 9, 9, factory)
	require.Same(t, a, b)
	require.Equal(t, 1, b.Count())

	require.Panics(t, func() {
		CustomPool(m, "trees", 1, 1, func() *otherProp { return &otherProp{} })
	})
}

type otherProp struct{ prop }
