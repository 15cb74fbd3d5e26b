// Package scene holds the render containers drawn by the viewer.
package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/mesh"
)

// Transform places an object relative to its parent.
type Transform struct {
	Position mgl64.Vec3
	Scale    mgl64.Vec3
	Rotation mgl64.Quat
}

// Identity returns the neutral transform.
func Identity() Transform {
	return Transform{
		Scale:    mgl64.Vec3{1, 1, 1},
		Rotation: mgl64.QuatIdent(),
	}
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Object is a node of the scene graph with an optional mesh. Objects are
// owned by the main thread.
type Object struct {
	Name      string
	Transform Transform
	Mesh      *mesh.Data

	active   bool
	parent   *Object
	children []*Object
}

// NewObject returns an active object with a neutral transform.
func NewObject(name string) *Object {
	return &Object{
		Name:      name,
		Transform: Identity(),
		active:    true,
	}
}

// Clone copies the object without its children or parent. The mesh is
// shared.
func (o *Object) Clone() *Object {
	return &Object{
		Name:      o.Name,
		Transform: o.Transform,
		Mesh:      o.Mesh,
		active:    o.active,
	}
}

// SetParent moves the object under p. A nil p detaches it.
func (o *Object) SetParent(p *Object) {
	if o.parent == p {
		return
	}
	if o.parent != nil {
		o.parent.children = slices.DeleteFunc(o.parent.children, func(c *Object) bool {
			return c == o
		})
	}
	o.parent = p
	if p != nil {
		p.children = append(p.children, o)
	}
}

func (o *Object) Parent() *Object {
	return o.parent
}

func (o *Object) Children() []*Object {
	return o.children
}

func (o *Object) SetActive(v bool) {
	o.active = v
}

// Active reports the object's own visibility flag.
func (o *Object) Active() bool {
	return o.active
}

// ActiveInHierarchy reports whether the object and all its ancestors are
// active.
func (o *Object) ActiveInHierarchy() bool {
	for c := o; c != nil; c = c.parent {
		if !c.active {
			return false
		}
	}
	return true
}

// ResetTransform restores the neutral transform.
func (o *Object) ResetTransform() {
	o.Transform = Identity()
}

// WorldMatrix returns the transform from object space to world space.
func (o *Object) WorldMatrix() mgl64.Mat4 {
	m := o.Transform.Matrix()
	for p := o.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

// LocalToWorld transforms a point from object space to world space.
func (o *Object) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, o.WorldMatrix())
}

// Walk visits the object and its descendants depth first.
func (o *Object) Walk(fn func(*Object)) {
	fn(o)
	for _, c := range o.children {
		c.Walk(fn)
	}
}
