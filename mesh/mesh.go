// Package mesh holds the read-only triangle mesh an octree is built over.
package mesh

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/o0olele/octree-rope/geometry"
	"github.com/o0olele/octree-rope/math32"
)

// Mesh is an indexed triangle list. Triangle i uses vertices
// Indices[3i], Indices[3i+1] and Indices[3i+2]. Normals, when present, are per
// vertex. A Mesh must not be modified once an octree refers to it.
type Mesh struct {
	Vertices []math32.Vector3 `json:"vertices"`
	Indices  []uint32         `json:"indices"`
	Normals  []math32.Vector3 `json:"normals,omitempty"`
}

// New validates the arrays and wraps them in a Mesh. The slices are not copied.
func New(vertices []math32.Vector3, indices []uint32, normals []math32.Vector3) (*Mesh, error) {
	m := &Mesh{Vertices: vertices, Indices: indices, Normals: normals}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromFlat builds a Mesh from packed xyz position and normal arrays.
func FromFlat(positions []float32, indices []uint32, normals []float32) (*Mesh, error) {
	var err error
	if len(positions)%3 != 0 {
		err = multierr.Append(err, errors.Errorf("position array length %d is not a multiple of 3", len(positions)))
	}
	if len(normals)%3 != 0 {
		err = multierr.Append(err, errors.Errorf("normal array length %d is not a multiple of 3", len(normals)))
	}
	if err != nil {
		return nil, err
	}
	return New(unpack(positions), indices, unpack(normals))
}

func unpack(flat []float32) []math32.Vector3 {
	if len(flat) == 0 {
		return nil
	}
	out := make([]math32.Vector3, len(flat)/3)
	for i := range out {
		out[i] = math32.Vector3{X: flat[3*i], Y: flat[3*i+1], Z: flat[3*i+2]}
	}
	return out
}

// Validate reports every structural problem of the mesh at once.
func (m *Mesh) Validate() error {
	var err error
	if len(m.Indices)%3 != 0 {
		err = multierr.Append(err, errors.Errorf("index count %d is not a multiple of 3", len(m.Indices)))
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Vertices) {
		err = multierr.Append(err, errors.Errorf("got %d normals for %d vertices", len(m.Normals), len(m.Vertices)))
	}

	const maxReported = 8
	reported := 0
	for i, idx := range m.Indices {
		if int(idx) < len(m.Vertices) {
			continue
		}
		if reported < maxReported {
			err = multierr.Append(err, errors.Errorf("index %d at position %d references missing vertex (have %d)", idx, i, len(m.Vertices)))
		}
		reported++
	}
	if reported > maxReported {
		err = multierr.Append(err, errors.Errorf("%d more out of range indices", reported-maxReported))
	}

	for i, v := range m.Vertices {
		if !v.IsFinite() {
			err = multierr.Append(err, errors.Errorf("vertex %d is not finite: %v", i, v))
			break
		}
	}
	return errors.Wrap(err, "invalid mesh")
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertices of triangle i.
func (m *Mesh) Triangle(i uint32) geometry.Triangle {
	base := 3 * int(i)
	return geometry.Triangle{
		A: m.Vertices[m.Indices[base]],
		B: m.Vertices[m.Indices[base+1]],
		C: m.Vertices[m.Indices[base+2]],
	}
}

// Bounds returns the tight box around every vertex referenced by a triangle.
// A mesh without triangles yields the zero box.
func (m *Mesh) Bounds() geometry.AABB {
	if len(m.Indices) == 0 {
		return geometry.AABB{}
	}
	first := m.Vertices[m.Indices[0]]
	box := geometry.AABB{Min: first, Max: first}
	for _, idx := range m.Indices {
		v := m.Vertices[idx]
		box.Min = box.Min.MinVec(v)
		box.Max = box.Max.MaxVec(v)
	}
	return box
}

// HasNormals reports whether per-vertex normals are available.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) != 0
}

// InterpolatedNormal blends the vertex normals of triangle i with the
// barycentric weights of a hit. Without vertex normals it falls back to the
// face normal; ok is false only for a degenerate triangle.
func (m *Mesh) InterpolatedNormal(i uint32, u, v float32) (n math32.Vector3, ok bool) {
	if !m.HasNormals() {
		n = m.Triangle(i).Normal()
		return n, !n.IsZero()
	}
	base := 3 * int(i)
	na := m.Normals[m.Indices[base]]
	nb := m.Normals[m.Indices[base+1]]
	nc := m.Normals[m.Indices[base+2]]
	n = na.Scale(1 - u - v).Add(nb.Scale(u)).Add(nc.Scale(v)).Normalize()
	return n, !n.IsZero()
}
