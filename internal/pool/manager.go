package pool

import (
	"fmt"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/scene"
)

// Manager is a registry of pools. Object pools are keyed by prefab name and
// custom pools by tag.
type Manager struct {
	root   *scene.Object
	pools  map[string]*ObjectPool
	custom map[string]any
}

// NewManager creates an empty manager. Pooled objects live under an inactive
// root object.
func NewManager() *Manager {
	root := scene.NewObject("pool manager")
	root.SetActive(false)

	return &Manager{
		root:   root,
		pools:  make(map[string]*ObjectPool),
		custom: make(map[string]any),
	}
}

// Root returns the parent of every pooled object.
func (m *Manager) Root() *scene.Object {
	return m.root
}

// InstancePool returns the pool of prefab, creating it with the given size and
// buffer when it does not exist.
func (m *Manager) InstancePool(prefab *scene.Object, size, buffer int) *ObjectPool {
	if p, ok := m.pools[prefab.Name]; ok {
		return p
	}

	p := NewObjectPool(prefab, size, buffer, m.root)
	m.pools[prefab.Name] = p
	logs.WithTag("pool", prefab.Name).
		WithTag("size", size).
		WithTag("buffer", buffer).
		Debug("object pool created")
	return p
}

// Instantiate pops an object from the pool of prefab and activates it at the
// given place.
func (m *Manager) Instantiate(prefab *scene.Object, position mgl64.Vec3, rotation mgl64.Quat) *scene.Object {
	p := m.InstancePool(prefab, 1, 3)
	o := p.Pop()
	p.place(o, position, rotation)
	return o
}

// Destroy returns o to the pool named after it.
func (m *Manager) Destroy(o *scene.Object) {
	m.InstancePool(o, 1, 3).Push(o)
}

// Pools returns the object pools by name.
func (m *Manager) Pools() map[string]*ObjectPool {
	return m.pools
}

// CustomPool returns the pool registered under tag, creating it with the
// given size, buffer and factory when it does not exist. It panics when the
// tag is already used by a pool of another type.
func CustomPool[T Poolable](m *Manager, tag string, size, buffer int, factory func() T) *PoolablePool[T] {
	if p, ok := m.custom[tag]; ok {
		typed, ok := p.(*PoolablePool[T])
		if !ok {
			panic(fmt.Sprintf("pool: tag %q is used by a %T", tag, p))
		}
		return typed
	}

	p := NewPoolablePool(tag, factory, size, buffer)
	m.custom[tag] = p
	logs.WithTag("pool", tag).
		WithTag("size", size).
		WithTag("buffer", buffer).
		Debug("custom pool created")
	return p
}
