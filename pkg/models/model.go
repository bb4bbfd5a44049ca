// Package models holds the mesh, material and texture data consumed by the
// rasterizer, plus loaders for OBJ, glTF and image files.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/rast/pkg/math3d"
)

// ErrNoGeometry is returned by loaders when a file parses but yields no
// triangles.
var ErrNoGeometry = errors.New("model has no triangles")

// ErrIndexRange is returned when a triangle references past the end of a
// position, UV or normal buffer.
var ErrIndexRange = errors.New("index out of range")

// Index references one triangle: for each of the three corners, an index
// into the position, UV and normal buffers. Zero selects the sentinel.
type Index struct {
	Pos    [3]int
	UV     [3]int
	Normal [3]int
}

// Material holds the reflectance coefficients and the surface texture.
type Material struct {
	Ka, Kd, Ks float32
	Texture    Texture
}

// NewMaterial creates a material without a texture.
func NewMaterial(ka, kd, ks float32) Material {
	return Material{Ka: ka, Kd: kd, Ks: ks}
}

// Model is a triangle mesh placed in the world.
//
// Positions, UVs and Normals each start with a zero sentinel entry so that
// 1-based OBJ indices address them directly. The three buffers are
// independent slices.
type Model struct {
	Name      string
	Positions []math3d.Vec4
	UVs       []math3d.Vec4
	Normals   []math3d.Vec4
	Indices   []Index
	Material  Material
	World     math3d.Mat4
}

// NewModel creates an empty model at the origin.
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Positions: []math3d.Vec4{{}},
		UVs:       []math3d.Vec4{{}},
		Normals:   []math3d.Vec4{{}},
		Material:  NewMaterial(0.1, 0.8, 0.5),
		World:     math3d.Identity(),
	}
}

// SetPosition places the model with a pure translation.
func (m *Model) SetPosition(pos math3d.Vec4) {
	m.World = math3d.Translate(pos)
}

// AddTriangle appends a triangle.
func (m *Model) AddTriangle(idx Index) {
	m.Indices = append(m.Indices, idx)
}

// ResolveIndices converts negative (relative-from-end) indices into absolute
// ones. Call once after all buffers are filled.
func (m *Model) ResolveIndices() {
	np, nt, nn := len(m.Positions), len(m.UVs), len(m.Normals)
	for i := range m.Indices {
		idx := &m.Indices[i]
		for c := range 3 {
			if idx.Pos[c] < 0 {
				idx.Pos[c] += np
			}
			if idx.UV[c] < 0 {
				idx.UV[c] += nt
			}
			if idx.Normal[c] < 0 {
				idx.Normal[c] += nn
			}
		}
	}
}

// CheckIndex returns an error wrapping ErrIndexRange when an index of idx
// lies outside its buffer.
func (m *Model) CheckIndex(idx Index) error {
	buffers := []struct {
		name string
		idx  [3]int
		n    int
	}{
		{"position", idx.Pos, len(m.Positions)},
		{"uv", idx.UV, len(m.UVs)},
		{"normal", idx.Normal, len(m.Normals)},
	}
	for _, b := range buffers {
		for _, i := range b.idx {
			if i < 0 || i >= b.n {
				return fmt.Errorf("%s %d of %d: %w", b.name, i, b.n-1, ErrIndexRange)
			}
		}
	}
	return nil
}

// HasUVs reports whether the model carries texture coordinates beyond the
// sentinel.
func (m *Model) HasUVs() bool {
	return len(m.UVs) > 1
}

// HasNormals reports whether the model carries normals beyond the sentinel.
func (m *Model) HasNormals() bool {
	return len(m.Normals) > 1
}

// TriangleCount returns the number of triangles.
func (m *Model) TriangleCount() int {
	return len(m.Indices)
}

// VertexCount returns the number of positions, excluding the sentinel.
func (m *Model) VertexCount() int {
	return len(m.Positions) - 1
}

// Bounds returns the local-space axis-aligned bounding box of the
// referenced positions.
func (m *Model) Bounds() (lo, hi math3d.Vec4) {
	if len(m.Indices) == 0 {
		return math3d.Vec4{}, math3d.Vec4{}
	}

	lo = m.Positions[m.Indices[0].Pos[0]]
	hi = lo
	for _, idx := range m.Indices {
		for _, p := range idx.Pos {
			lo = lo.Min(m.Positions[p])
			hi = hi.Max(m.Positions[p])
		}
	}
	lo.W, hi.W = 1, 1
	return lo, hi
}

// Center returns the world-space center of the bounding box.
func (m *Model) Center() math3d.Vec4 {
	lo, hi := m.Bounds()
	c := lo.Add(hi).Scale(0.5)
	c.W = 1
	return m.World.TransformPoint(c)
}

// GenerateNormals computes smooth per-position normals by accumulating
// face normals, then points every corner's normal index at them. Existing
// normals are discarded.
func (m *Model) GenerateNormals() {
	acc := make([]math3d.Vec4, len(m.Positions))

	for _, idx := range m.Indices {
		p0 := m.Positions[idx.Pos[0]]
		p1 := m.Positions[idx.Pos[1]]
		p2 := m.Positions[idx.Pos[2]]

		// Not normalized: larger faces weigh more.
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, p := range idx.Pos {
			acc[p] = acc[p].Add(n)
		}
	}

	m.Normals = make([]math3d.Vec4, len(m.Positions))
	for i := 1; i < len(acc); i++ {
		if acc[i].Len() > 0 {
			m.Normals[i] = acc[i].Normalize()
		}
	}
	for i := range m.Indices {
		m.Indices[i].Normal = m.Indices[i].Pos
	}
}

// Clone creates a deep copy of the model.
func (m *Model) Clone() *Model {
	clone := &Model{
		Name:      m.Name,
		Positions: append([]math3d.Vec4(nil), m.Positions...),
		UVs:       append([]math3d.Vec4(nil), m.UVs...),
		Normals:   append([]math3d.Vec4(nil), m.Normals...),
		Indices:   append([]Index(nil), m.Indices...),
		Material:  m.Material,
		World:     m.World,
	}
	clone.Material.Texture.Data = append([]math3d.Vec4(nil), m.Material.Texture.Data...)
	return clone
}

// Size returns the local-space extent of the bounding box.
func (m *Model) Size() math3d.Vec4 {
	lo, hi := m.Bounds()
	s := hi.Sub(lo)
	s.W = 0
	return s
}
