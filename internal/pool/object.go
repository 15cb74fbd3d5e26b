package pool

import (
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/scene"
)

// ObjectPool recycles scene objects cloned from a prefab. Pooled objects are
// inactive and parented to the pool's parent.
type ObjectPool struct {
	prefab  *scene.Object
	parent  *scene.Object
	buffer  int
	created int
	free    Pool[*scene.Object]
}

// NewObjectPool creates a pool holding size clones of prefab. When empty, the
// pool grows by buffer clones at once.
func NewObjectPool(prefab *scene.Object, size, buffer int, parent *scene.Object) *ObjectPool {
	p := &ObjectPool{
		prefab: prefab,
		parent: parent,
		buffer: max(buffer, 1),
	}
	p.Expand(size)
	return p
}

// Pop returns an inactive object with a neutral transform.
func (p *ObjectPool) Pop() *scene.Object {
	if p.free.Empty() {
		p.Expand(p.buffer)
	}
	o, _ := p.free.Pop()
	o.ResetTransform()
	return o
}

// Push deactivates o, clears its mesh and returns it to the pool.
func (p *ObjectPool) Push(o *scene.Object) {
	if o == nil {
		return
	}
	o.SetActive(false)
	o.Mesh = nil
	o.SetParent(p.parent)
	o.ResetTransform()
	p.free.Push(o)
}

// Expand adds n new clones of the prefab.
func (p *ObjectPool) Expand(n int) {
	if n <= 0 {
		return
	}
	for range n {
		o := p.prefab.Clone()
		o.Name = p.prefab.Name
		o.Mesh = nil
		o.SetParent(p.parent)
		o.ResetTransform()
		o.SetActive(false)
		p.free.Push(o)
	}
	p.created += n
	instrumentGrow(p.prefab.Name, n)
}

// Count returns the number of pooled objects.
func (p *ObjectPool) Count() int {
	return p.free.Count()
}

func (p *ObjectPool) Empty() bool {
	return p.free.Empty()
}

// Created returns the number of objects the pool ever made.
func (p *ObjectPool) Created() int {
	return p.created
}

// Name returns the name of the prefab.
func (p *ObjectPool) Name() string {
	return p.prefab.Name
}

func (p *ObjectPool) place(o *scene.Object, position mgl64.Vec3, rotation mgl64.Quat) {
	o.Transform.Position = position
	o.Transform.Rotation = rotation
	o.SetActive(true)
}
