// Package quadtree implements the region quadtree used by planet faces.
package quadtree

import "planet-lod/internal/geom"

// Quadrant indexes the children of a branch. The index of a quadrant never
// changes across the tree.
type Quadrant int

const (
	NorthEast Quadrant = iota
	NorthWest
	SouthEast
	SouthWest
)

// Quadrants lists every quadrant in index order.
var Quadrants = [4]Quadrant{NorthEast, NorthWest, SouthEast, SouthWest}

func (q Quadrant) String() string {
	switch q {
	case NorthEast:
		return "NE"
	case NorthWest:
		return "NW"
	case SouthEast:
		return "SE"
	case SouthWest:
		return "SW"
	default:
		return "?"
	}
}

// Splittable is implemented by node payloads. Split returns the payloads of
// the four children in quadrant order.
type Splittable[V any] interface {
	Split() [4]V
}

// Node is a quadtree node. A node owns either zero or four children; the
// parent pointer is a back reference only.
type Node[V Splittable[V]] struct {
	Value V

	zone     geom.Zone3
	depth    int
	parent   *Node[V]
	children *[4]*Node[V]
}

// NewRoot creates a root node covering zone.
func NewRoot[V Splittable[V]](zone geom.Zone3, value V) *Node[V] {
	return &Node[V]{Value: value, zone: zone}
}

// Zone returns the region covered by the node.
func (n *Node[V]) Zone() geom.Zone3 {
	return n.zone
}

// Depth returns 0 for the root and parent depth + 1 otherwise.
func (n *Node[V]) Depth() int {
	return n.depth
}

// Parent returns the parent node or nil for a root.
func (n *Node[V]) Parent() *Node[V] {
	return n.parent
}

// IsLeaf reports whether the node has no children.
func (n *Node[V]) IsLeaf() bool {
	return n.children == nil
}

// IsBranch reports whether the node has four children.
func (n *Node[V]) IsBranch() bool {
	return n.children != nil
}

// IsRoot reports whether the node has no parent.
func (n *Node[V]) IsRoot() bool {
	return n.parent == nil
}

// Child returns the child in quadrant q. It panics on a leaf.
func (n *Node[V]) Child(q Quadrant) *Node[V] {
	if n.children == nil {
		panic("quadtree: child of a leaf node")
	}
	return n.children[q]
}

// Children returns the four children in quadrant order, or nil for a leaf.
func (n *Node[V]) Children() []*Node[V] {
	if n.children == nil {
		return nil
	}
	return n.children[:]
}

// Subdivide turns a leaf into a branch with four children. Each child covers
// one quadrant of the zone and carries the matching payload from Value.Split.
// Subdividing a branch panics since it would drop the existing subtree.
func (n *Node[V]) Subdivide() {
	if n.children != nil {
		panic("quadtree: subdivide of a branch node")
	}

	zones := n.zone.Subdivide()
	values := n.Value.Split()

	var children [4]*Node[V]
	for i := range children {
		children[i] = &Node[V]{
			Value:  values[i],
			zone:   zones[i],
			depth:  n.depth + 1,
			parent: n,
		}
	}
	n.children = &children
}

// Trim detaches every child and turns the node back into a leaf. Resources
// bound to the removed subtree must be released before calling Trim.
func (n *Node[V]) Trim() {
	if n.children == nil {
		panic("quadtree: trim of a leaf node")
	}
	for _, c := range n.children {
		c.parent = nil
		c.depth = 0
	}
	n.children = nil
}

// Walk visits the node and its descendants depth first, in quadrant order.
// Returning false from fn skips the children of that node.
func (n *Node[V]) Walk(fn func(*Node[V]) bool) {
	if !fn(n) || n.children == nil {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}
