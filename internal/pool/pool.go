// Package pool recycles chunk containers and other short lived objects.
//
// Pools are not safe for concurrent use. They are owned by the goroutine
// running the LOD passes.
package pool

// Pool is a FIFO free list.
type Pool[T any] struct {
	items []T
	head  int
}

// Pop removes the oldest item. It returns false when the pool is empty.
func (p *Pool[T]) Pop() (T, bool) {
	var zero T
	if p.Empty() {
		return zero, false
	}

	item := p.items[p.head]
	p.items[p.head] = zero
	p.head++

	if p.head == len(p.items) {
		p.items = p.items[:0]
		p.head = 0
	}
	return item, true
}

// Push appends an item to the free list.
func (p *Pool[T]) Push(item T) {
	if p.head > 0 && len(p.items) == cap(p.items) {
		n := copy(p.items, p.items[p.head:])
		clear(p.items[n:])
		p.items = p.items[:n]
		p.head = 0
	}
	p.items = append(p.items, item)
}

// Count returns the number of pooled items.
func (p *Pool[T]) Count() int {
	return len(p.items) - p.head
}

// Empty reports whether the pool holds no item.
func (p *Pool[T]) Empty() bool {
	return p.Count() == 0
}
