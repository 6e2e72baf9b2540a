package octree

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/o0olele/octree-rope/geometry"
	"github.com/o0olele/octree-rope/mesh"
)

// Octree indexes the triangles of a mesh for ray queries.
//
// Queries may run concurrently with each other. Deepen and AddTriangle
// mutate the tree and must not overlap with anything else.
type Octree struct {
	Root *Node
	mesh *mesh.Mesh
}

// New creates an octree over the mesh and inserts every triangle into it.
// The root is the mesh bounds grown into a cube, so a flat mesh still gets a
// root with volume and every split separates its children. An empty mesh
// produces an empty root.
func New(m *mesh.Mesh) (*Octree, error) {
	if m == nil {
		return nil, errors.New("octree: nil mesh")
	}
	o := &Octree{
		Root: newLeaf(m.Bounds().Cube(), 0, "0", [3]uint32{}),
		mesh: m,
	}
	for i := 0; i < m.TriangleCount(); i++ {
		o.Root.AddTriangle(m, uint32(i))
	}
	return o, nil
}

// Mesh returns the mesh the octree was built over.
func (o *Octree) Mesh() *mesh.Mesh {
	return o.mesh
}

// Bounds returns the root box.
func (o *Octree) Bounds() geometry.AABB {
	return o.Root.box
}

// AddTriangle inserts a triangle of the mesh into every leaf it overlaps.
func (o *Octree) AddTriangle(index uint32) bool {
	return o.Root.AddTriangle(o.mesh, index)
}

// Deepen runs one refinement pass over the whole tree.
func (o *Octree) Deepen(minTrisPerOctant int) bool {
	return o.Root.Deepen(o.mesh, minTrisPerOctant)
}

// Walk visits every node depth first, parents before children. Returning
// false from fn skips the node's subtree.
func (o *Octree) Walk(fn func(*Node) bool) {
	walk(o.Root, fn)
}

func walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	if c, ok := n.content.(*internalContent); ok {
		for _, child := range c.children {
			walk(child, fn)
		}
	}
}

// Find returns the node with the given path id.
func (o *Octree) Find(path string) (*Node, bool) {
	rest, ok := strings.CutPrefix(path, "0")
	if !ok {
		return nil, false
	}
	node := o.Root
	for _, digit := range rest {
		if digit < '0' || digit > '7' {
			return nil, false
		}
		child := node.Child(int(digit - '0'))
		if child == nil {
			return nil, false
		}
		node = child
	}
	return node, true
}
