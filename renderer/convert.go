// Package renderer draws stem meshes with raylib.
package renderer

import (
	"math"

	"github.com/pthm-cable/stem/components"
)

// MaxIndexedVertices is the largest vertex count addressable by raylib's
// 16-bit index buffer.
const MaxIndexedVertices = math.MaxUint16 + 1

// FlatMesh is a tube mesh packed into raylib's float32 vertex layout.
// Indices is nil when the mesh was expanded into plain triangles.
type FlatMesh struct {
	Vertices  []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex
	Texcoords []float32 // uv per vertex
	Indices   []uint16
}

// VertexCount returns the number of vertices in the packed buffers.
func (f FlatMesh) VertexCount() int {
	return len(f.Vertices) / 3
}

// TriangleCount returns the number of triangles drawn.
func (f FlatMesh) TriangleCount() int {
	if f.Indices != nil {
		return len(f.Indices) / 3
	}
	return f.VertexCount() / 3
}

// Flatten packs a tube mesh for upload. Meshes too large for 16-bit
// indices are expanded so every triangle owns its three vertices.
func Flatten(m *components.TubeMesh) FlatMesh {
	if m.IsEmpty() {
		return FlatMesh{}
	}
	if m.VertexCount() <= MaxIndexedVertices {
		flat := packVertices(m, nil)
		flat.Indices = make([]uint16, len(m.Indices))
		for i, idx := range m.Indices {
			flat.Indices[i] = uint16(idx)
		}
		return flat
	}
	return packVertices(m, m.Indices)
}

// packVertices copies vertex attributes, in index order when order is non-nil.
func packVertices(m *components.TubeMesh, order []uint32) FlatMesh {
	n := m.VertexCount()
	if order != nil {
		n = len(order)
	}
	flat := FlatMesh{
		Vertices:  make([]float32, 0, n*3),
		Normals:   make([]float32, 0, n*3),
		Texcoords: make([]float32, 0, n*2),
	}

	add := func(i int) {
		p, nr, uv := m.Positions[i], m.Normals[i], m.UVs[i]
		flat.Vertices = append(flat.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
		flat.Normals = append(flat.Normals, float32(nr.X), float32(nr.Y), float32(nr.Z))
		flat.Texcoords = append(flat.Texcoords, float32(uv.X), float32(uv.Y))
	}

	if order == nil {
		for i := 0; i < n; i++ {
			add(i)
		}
		return flat
	}
	for _, idx := range order {
		add(int(idx))
	}
	return flat
}
