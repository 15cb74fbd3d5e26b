// Package detail scatters props over the deepest chunks of a planet.
package detail

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"planet-lod/internal/mesh"
	"planet-lod/internal/planet"
	"planet-lod/internal/pool"
)

// Range is an inclusive interval.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Lerp returns the value at t in [0, 1].
func (r Range) Lerp(t float64) float64 {
	return r.Low + (r.High-r.Low)*t
}

// Contains reports whether v lies in the interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Rule describes one kind of prop.
type Rule struct {
	Name string `json:"name"`
	Seed uint64 `json:"seed"`

	// SlopeLimit is the largest angle, in degrees, between the ground and
	// the up direction at which a prop is placed.
	SlopeLimit float64 `json:"slope_limit"`

	// Altitude is the distance from the planet center props are placed at.
	Altitude Range `json:"altitude"`

	// Amount is the number of placement attempts per chunk.
	Amount Range `json:"amount"`

	Scale      Range `json:"scale"`
	PoolBuffer int   `json:"pool_buffer"`
}

// Prop is a placed instance of a rule, in planet space.
type Prop struct {
	Rule     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    float64
	Active   bool
}

func (p *Prop) OnCreate() {
	p.Active = true
}

func (p *Prop) OnDestroy() {
	p.Active = false
	p.Position = mgl64.Vec3{}
	p.Rotation = mgl64.QuatIdent()
	p.Scale = 1
}

// Placer spawns props on chunks as they are shown and pools them back when
// hidden. Placement is deterministic for a given chunk.
type Placer struct {
	rules  []Rule
	pools  []*pool.PoolablePool[*Prop]
	active map[*planet.Node][]*Prop
	count  int
}

// NewPlacer creates a placer. Each rule gets a custom pool from m tagged
// "props/<rule name>".
func NewPlacer(m *pool.Manager, rules ...Rule) *Placer {
	p := &Placer{
		rules:  rules,
		pools:  make([]*pool.PoolablePool[*Prop], len(rules)),
		active: make(map[*planet.Node][]*Prop),
	}

	for i, r := range rules {
		name := r.Name
		p.pools[i] = pool.CustomPool(m, "props/"+name, 0, max(r.PoolBuffer, 1), func() *Prop {
			return &Prop{Rule: name, Rotation: mgl64.QuatIdent(), Scale: 1}
		})
	}
	return p
}

// ShowChunkDetails places the props of every rule on the chunk geometry.
// Showing a chunk twice is a no-op.
func (p *Placer) ShowChunkDetails(n *planet.Node, data *mesh.Data) {
	if _, ok := p.active[n]; ok || data == nil || data.TriangleCount() == 0 {
		return
	}

	var props []*Prop
	for i, rule := range p.rules {
		r := rand.New(rand.NewPCG(rule.Seed<<uint(i), chunkSeed(n)))
		props = p.place(props, i, rule, r, data)
	}
	p.active[n] = props
	p.count += len(props)

	logs.WithTag("depth", n.Depth()).
		WithTag("props", len(props)).
		Debug("chunk details shown")
}

func (p *Placer) place(props []*Prop, ruleIndex int, rule Rule, r *rand.Rand, data *mesh.Data) []*Prop {
	attempts := int(rule.Amount.Lerp(r.Float64()))
	for range attempts {
		a, b, c := data.Triangle(r.IntN(data.TriangleCount()))

		// Uniform point on the triangle.
		sx := float32(math.Sqrt(r.Float64()))
		y := float32(r.Float64())
		pos := a.Mul(1 - sx).Add(b.Mul(sx * (1 - y))).Add(c.Mul(sx * y))

		normal := b.Sub(a).Cross(c.Sub(a))
		if angle(pos, normal) > rule.SlopeLimit {
			continue
		}
		if !rule.Altitude.Contains(float64(pos.Len())) {
			continue
		}

		prop := p.pools[ruleIndex].Pop()
		prop.Position = vec64(pos)
		prop.Rotation = mgl64.QuatBetweenVectors(mgl64.Vec3{0, 1, 0}, prop.Position.Normalize())
		prop.Scale = rule.Scale.Lerp(r.Float64())
		props = append(props, prop)
	}
	return props
}

// HideChunkDetails returns the props of the chunk to their pools.
func (p *Placer) HideChunkDetails(n *planet.Node) {
	props, ok := p.active[n]
	if !ok {
		return
	}
	delete(p.active, n)
	p.count -= len(props)

	for _, prop := range props {
		for i, r := range p.rules {
			if r.Name == prop.Rule {
				p.pools[i].Push(prop)
				break
			}
		}
	}
}

// Props returns the props placed on n.
func (p *Placer) Props(n *planet.Node) []*Prop {
	return p.active[n]
}

// ActiveCount returns the number of placed props.
func (p *Placer) ActiveCount() int {
	return p.count
}

// ChunkCount returns the number of chunks with details.
func (p *Placer) ChunkCount() int {
	return len(p.active)
}

// chunkSeed derives a seed from the position of the chunk.
func chunkSeed(n *planet.Node) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range n.Zone().Center() {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// angle returns the angle between a and b in degrees.
func angle(a, b mgl32.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := mgl32.Clamp(a.Dot(b)/(la*lb), -1, 1)
	return mgl64.RadToDeg(math.Acos(float64(cos)))
}

func vec64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}
