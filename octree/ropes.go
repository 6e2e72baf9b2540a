package octree

import "github.com/o0olele/octree-rope/geometry"

// inherit marks a face on the parent's boundary: the child takes the
// parent's rope on that face.
const inherit = -1

// octantRopes[k][f] is the sibling octant adjacent to child k across face f,
// or inherit. Faces are ordered -x, +x, -y, +y, -z, +z.
var octantRopes = [8][geometry.FaceCount]int8{
	{inherit, 4, inherit, 2, inherit, 1}, // 0: -x -y -z
	{inherit, 5, inherit, 3, 0, inherit}, // 1: -x -y +z
	{inherit, 6, 0, inherit, inherit, 3}, // 2: -x +y -z
	{inherit, 7, 1, inherit, 2, inherit}, // 3: -x +y +z
	{0, inherit, inherit, 6, inherit, 5}, // 4: +x -y -z
	{1, inherit, inherit, 7, 4, inherit}, // 5: +x -y +z
	{2, inherit, 4, inherit, inherit, 7}, // 6: +x +y -z
	{3, inherit, 5, inherit, 6, inherit}, // 7: +x +y +z
}

// axisBits maps an axis to its octant bit.
var axisBits = [3]int{4, 2, 1}

// linkChildren sets the ropes of freshly created children. Boundary faces
// inherit the parent's rope; when that rope leads to a subdivided node of
// the parent's depth, the child is linked to the matching child across the
// face instead and that child is linked back.
func (n *Node) linkChildren() {
	c := n.content.(*internalContent)
	for k, child := range c.children {
		for f := geometry.FaceNegX; f <= geometry.FacePosZ; f++ {
			if sib := octantRopes[k][f]; sib != inherit {
				child.neighbors[f] = c.children[sib]
				continue
			}

			across := n.neighbors[f]
			if across != nil && across.depth == n.depth {
				if ac, ok := across.content.(*internalContent); ok {
					mirror := ac.children[k^axisBits[f.Axis()]]
					child.neighbors[f] = mirror
					mirror.neighbors[f.Opposite()] = child
					continue
				}
			}
			child.neighbors[f] = across
		}
	}
}
