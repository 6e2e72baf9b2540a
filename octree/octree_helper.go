package octree

import (
	"encoding/json"

	"github.com/o0olele/octree-rope/geometry"
)

// Stats summarizes the shape of an octree.
type Stats struct {
	Triangles    int          `json:"triangles"`
	Nodes        int          `json:"nodes"`
	Leaves       int          `json:"leaves"`
	EmptyLeaves  int          `json:"empty_leaves"`
	MaxDepth     int          `json:"max_depth"`
	TriangleRefs int          `json:"triangle_refs"`
	LargestLeaf  int          `json:"largest_leaf"`
	Levels       []LevelStats `json:"levels"`
}

// LevelStats counts the nodes of one depth.
type LevelStats struct {
	Depth        int `json:"depth"`
	Nodes        int `json:"nodes"`
	Leaves       int `json:"leaves"`
	TriangleRefs int `json:"triangle_refs"`
}

// Stats walks the tree and collects node and triangle counts per depth.
func (o *Octree) Stats() Stats {
	s := Stats{Triangles: o.mesh.TriangleCount()}
	o.Walk(func(n *Node) bool {
		for len(s.Levels) <= n.depth {
			s.Levels = append(s.Levels, LevelStats{Depth: len(s.Levels)})
		}
		level := &s.Levels[n.depth]

		s.Nodes++
		level.Nodes++
		s.MaxDepth = max(s.MaxDepth, n.depth)
		if !n.IsLeaf() {
			return true
		}

		count := n.TriangleCount()
		s.Leaves++
		level.Leaves++
		s.TriangleRefs += count
		level.TriangleRefs += count
		s.LargestLeaf = max(s.LargestLeaf, count)
		if count == 0 {
			s.EmptyLeaves++
		}
		return true
	})
	return s
}

// Export is the JSON shape of an octree, consumed by external viewers.
type Export struct {
	Bounds    geometry.AABB `json:"bounds"`
	Triangles int           `json:"triangles"`
	Root      *NodeExport   `json:"root"`
}

// NodeExport is the JSON shape of one node. Neighbors holds the path ids of
// the ropes in face order, empty on the outer boundary.
type NodeExport struct {
	Path      string        `json:"path"`
	Code      MortonCode    `json:"code"`
	Bounds    geometry.AABB `json:"bounds"`
	Depth     int           `json:"depth"`
	IsLeaf    bool          `json:"is_leaf"`
	Triangles []uint32      `json:"triangles,omitempty"`
	Neighbors [6]string     `json:"neighbors"`
	Children  []*NodeExport `json:"children,omitempty"`
}

// ToJSON exports the node hierarchy
func (o *Octree) ToJSON() ([]byte, error) {
	export := &Export{
		Bounds:    o.Root.box,
		Triangles: o.mesh.TriangleCount(),
		Root:      nodeToExport(o.Root),
	}
	return json.Marshal(export)
}

func nodeToExport(n *Node) *NodeExport {
	export := &NodeExport{
		Path:   n.path,
		Code:   n.Code(),
		Bounds: n.box,
		Depth:  n.depth,
		IsLeaf: n.IsLeaf(),
	}
	for f, nb := range n.neighbors {
		if nb != nil {
			export.Neighbors[f] = nb.path
		}
	}

	switch c := n.content.(type) {
	case *leafContent:
		export.Triangles = c.indices
	case *internalContent:
		for _, child := range c.children {
			export.Children = append(export.Children, nodeToExport(child))
		}
	}
	return export
}
