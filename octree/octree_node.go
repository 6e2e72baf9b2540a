package octree

import (
	"fmt"
	"strconv"

	"github.com/o0olele/octree-rope/geometry"
	"github.com/o0olele/octree-rope/math32"
	"github.com/o0olele/octree-rope/mesh"
)

// MaxDepth is the deepest level a node can be subdivided to. Cell
// coordinates at this depth still fit a 63 bit Morton code.
const MaxDepth = 21

// Node is one cell of the octree. Its content is either a leaf triangle set
// or eight owned children; neighbors are non-owning ropes to the adjacent
// cells across each face, indexed by geometry.Face.
type Node struct {
	box   geometry.AABB
	depth int
	path  string
	cell  [3]uint32

	content   content
	neighbors [geometry.FaceCount]*Node
}

type content interface {
	isContent()
}

// leafContent is the triangle set of a leaf.
type leafContent struct {
	indices []uint32
	members map[uint32]struct{}
}

// internalContent holds the children of a subdivided node. carried is the
// triangle set the node had when it was split.
type internalContent struct {
	children [8]*Node
	carried  []uint32
}

func (*leafContent) isContent()     {}
func (*internalContent) isContent() {}

func newLeaf(box geometry.AABB, depth int, path string, cell [3]uint32) *Node {
	return &Node{
		box:     box,
		depth:   depth,
		path:    path,
		cell:    cell,
		content: &leafContent{members: make(map[uint32]struct{})},
	}
}

// Box returns the region covered by the node.
func (n *Node) Box() geometry.AABB { return n.box }

// Depth returns the subdivision level, 0 at the root.
func (n *Node) Depth() int { return n.depth }

// Path returns the diagnostic id: "0" for the root, then one octant digit per level.
func (n *Node) Path() string { return n.path }

// Code returns the Morton code of the node's cell at its depth.
func (n *Node) Code() MortonCode {
	return EncodeMorton3D(n.cell[0], n.cell[1], n.cell[2])
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	_, ok := n.content.(*leafContent)
	return ok
}

// Triangles returns the triangle indices stored in a leaf, or the indices a
// subdivided node carried at the moment it was split. The slice must not be modified.
func (n *Node) Triangles() []uint32 {
	switch c := n.content.(type) {
	case *leafContent:
		return c.indices
	case *internalContent:
		return c.carried
	}
	return nil
}

// TriangleCount returns the number of triangles stored in a leaf, 0 for
// subdivided nodes.
func (n *Node) TriangleCount() int {
	if c, ok := n.content.(*leafContent); ok {
		return len(c.indices)
	}
	return 0
}

// Child returns child octant i of a subdivided node, nil for a leaf.
// Octant bits are 4 for +x, 2 for +y and 1 for +z.
func (n *Node) Child(i int) *Node {
	if i < 0 || i > 7 {
		panic(fmt.Sprintf("octree: octant %d out of range [0,7]", i))
	}
	if c, ok := n.content.(*internalContent); ok {
		return c.children[i]
	}
	return nil
}

// Neighbor returns the rope across face f, nil on the outer boundary.
func (n *Node) Neighbor(f geometry.Face) *Node {
	if !f.Valid() {
		panic(fmt.Sprintf("octree: face %d out of range [0,5]", int(f)))
	}
	return n.neighbors[f]
}

// AddTriangle inserts triangle index of m if it overlaps the node's box and
// reports whether it did. Inserting the same index twice has no effect. On a
// subdivided node the triangle is pushed into every child.
func (n *Node) AddTriangle(m *mesh.Mesh, index uint32) bool {
	if !m.Triangle(index).IntersectsAABB(n.box) {
		return false
	}
	switch c := n.content.(type) {
	case *leafContent:
		if _, ok := c.members[index]; !ok {
			c.members[index] = struct{}{}
			c.indices = append(c.indices, index)
		}
	case *internalContent:
		for _, child := range c.children {
			child.AddTriangle(m, index)
		}
	}
	return true
}

// Subdivide splits a leaf into eight children, links their ropes and moves
// the leaf's triangles into every child they overlap. It does nothing on a
// node that is already subdivided.
func (n *Node) Subdivide(m *mesh.Mesh) {
	leaf, ok := n.content.(*leafContent)
	if !ok {
		return
	}

	ic := &internalContent{carried: leaf.indices}
	for i := range ic.children {
		cell := [3]uint32{n.cell[0] << 1, n.cell[1] << 1, n.cell[2] << 1}
		if i&4 != 0 {
			cell[0] |= 1
		}
		if i&2 != 0 {
			cell[1] |= 1
		}
		if i&1 != 0 {
			cell[2] |= 1
		}
		ic.children[i] = newLeaf(n.box.Octant(i), n.depth+1, n.path+strconv.Itoa(i), cell)
	}
	n.content = ic
	n.linkChildren()

	for _, index := range leaf.indices {
		for _, child := range ic.children {
			child.AddTriangle(m, index)
		}
	}
}

// Deepen subdivides every leaf holding more than minTrisPerOctant triangles
// and reports whether anything was split. A leaf is left alone once it is at
// MaxDepth or when no octant would hold fewer triangles than the leaf does.
func (n *Node) Deepen(m *mesh.Mesh, minTrisPerOctant int) bool {
	switch c := n.content.(type) {
	case *leafContent:
		if len(c.indices) <= minTrisPerOctant || n.depth >= MaxDepth || !n.splittable(m) {
			return false
		}
		n.Subdivide(m)
		return true
	case *internalContent:
		refined := false
		for _, child := range c.children {
			if child.Deepen(m, minTrisPerOctant) {
				refined = true
			}
		}
		return refined
	}
	return false
}

// splittable reports whether some stored triangle misses some octant of the
// leaf, i.e. whether subdividing would shrink at least one triangle set.
func (n *Node) splittable(m *mesh.Mesh) bool {
	var octants [8]geometry.AABB
	for i := range octants {
		octants[i] = n.box.Octant(i)
	}
	for _, index := range n.Triangles() {
		tri := m.Triangle(index)
		for _, box := range octants {
			if !tri.IntersectsAABB(box) {
				return true
			}
		}
	}
	return false
}

// Locate descends to the leaf containing a point given in the node's local
// coordinates, where the box spans [0,1] on every axis. Points on a median
// plane belong to the upper octant. It panics if a coordinate is outside [0,1].
func (n *Node) Locate(local math32.Vector3) *Node {
	if !inUnitCube(local) {
		panic(fmt.Sprintf("octree: local coordinate %v outside [0,1]", local))
	}
	node := n
	for {
		c, ok := node.content.(*internalContent)
		if !ok {
			return node
		}
		octant := 0
		for axis, bit := range axisBits {
			f := local.Get(axis)
			if f >= 0.5 {
				octant |= bit
				f -= 0.5
			}
			local = local.With(axis, f*2)
		}
		node = c.children[octant]
	}
}

func inUnitCube(p math32.Vector3) bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1 && p.Z >= 0 && p.Z <= 1
}

func (n *Node) String() string {
	return fmt.Sprintf("node %s depth %d %v", n.path, n.depth, n.box)
}
