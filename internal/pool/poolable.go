package pool

// Poolable is implemented by values with lifecycle hooks. OnCreate runs when
// the value leaves the pool and OnDestroy when it is returned.
type Poolable interface {
	OnCreate()
	OnDestroy()
}

// PoolablePool is a growing pool of Poolable values.
type PoolablePool[T Poolable] struct {
	name    string
	factory func() T
	buffer  int
	free    Pool[T]
}

// NewPoolablePool creates a pool holding size values made by factory. When
// empty, the pool grows by buffer values at once.
func NewPoolablePool[T Poolable](name string, factory func() T, size, buffer int) *PoolablePool[T] {
	p := &PoolablePool[T]{
		name:    name,
		factory: factory,
		buffer:  max(buffer, 1),
	}
	p.Expand(size)
	return p
}

// Pop returns a value ready for use.
func (p *PoolablePool[T]) Pop() T {
	if p.free.Empty() {
		p.Expand(p.buffer)
	}
	item, _ := p.free.Pop()
	item.OnCreate()
	return item
}

// Push resets a value and returns it to the pool.
func (p *PoolablePool[T]) Push(item T) {
	item.OnDestroy()
	p.free.Push(item)
}

// Expand adds n new values.
func (p *PoolablePool[T]) Expand(n int) {
	if n <= 0 {
		return
	}
	for range n {
		p.free.Push(p.factory())
	}
	instrumentGrow(p.name, n)
}

// Count returns the number of pooled values.
func (p *PoolablePool[T]) Count() int {
	return p.free.Count()
}

func (p *PoolablePool[T]) Empty() bool {
	return p.free.Empty()
}

func (p *PoolablePool[T]) Name() string {
	return p.name
}
