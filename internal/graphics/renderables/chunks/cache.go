package chunks

import (
	"planet-lod/internal/geom"
	"planet-lod/internal/mesh"
)

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	bounds        geom.Sphere
	lastFrame     uint64
}

// meshCache keeps one GPU upload per mesh.Data. Chunk meshes are immutable
// once generated, so pointer identity is the cache key.
type meshCache struct {
	meshes  map[*mesh.Data]*gpuMesh
	frame   uint64
	upload  func(*mesh.Data) *gpuMesh
	release func(*gpuMesh)
}

func newMeshCache(upload func(*mesh.Data) *gpuMesh, release func(*gpuMesh)) *meshCache {
	return &meshCache{
		meshes:  make(map[*mesh.Data]*gpuMesh),
		upload:  upload,
		release: release,
	}
}

func (c *meshCache) beginFrame() {
	c.frame++
}

func (c *meshCache) get(d *mesh.Data) *gpuMesh {
	m, ok := c.meshes[d]
	if !ok {
		m = c.upload(d)
		m.bounds = d.Bounds().BoundingSphere()
		c.meshes[d] = m
	}
	m.lastFrame = c.frame
	return m
}

// sweep releases meshes not drawn for more than grace frames and returns how
// many were released.
func (c *meshCache) sweep(grace uint64) int {
	released := 0
	for d, m := range c.meshes {
		if m.lastFrame+grace < c.frame {
			c.release(m)
			delete(c.meshes, d)
			released++
		}
	}
	return released
}

func (c *meshCache) clear() {
	for d, m := range c.meshes {
		c.release(m)
		delete(c.meshes, d)
	}
}

func (c *meshCache) len() int {
	return len(c.meshes)
}
