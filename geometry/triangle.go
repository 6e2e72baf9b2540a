package geometry

import (
	"github.com/o0olele/octree-rope/math32"
)

// satTolerance widens every separating-axis comparison relative to the
// magnitudes involved, so float rounding can only report extra overlaps.
const satTolerance = 4e-6

// Triangle is a triangle geometry
type Triangle struct {
	A math32.Vector3 `json:"a"`
	B math32.Vector3 `json:"b"`
	C math32.Vector3 `json:"c"`
}

// Bounds returns the bounding box of the triangle
func (t Triangle) Bounds() AABB {
	return AABB{
		Min: t.A.MinVec(t.B).MinVec(t.C),
		Max: t.A.MaxVec(t.B).MaxVec(t.C),
	}
}

// Normal returns the unit normal of the triangle, or the zero vector when the
// triangle is degenerate.
func (t Triangle) Normal() math32.Vector3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Normalize()
}

// IsDegenerate reports whether the triangle has zero area.
func (t Triangle) IsDegenerate() bool {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).IsZero()
}

// IntersectsAABB checks if the triangle intersects with an AABB using the
// separating axis theorem. The 13 candidate axes are tried in order: the box
// face normals, the triangle normal, then the nine box axis × triangle edge
// products. A zero axis cannot separate and is skipped, so degenerate
// triangles fall back to the remaining axes. The test never misses a real
// overlap; touching counts as overlapping.
func (t Triangle) IntersectsAABB(aabb AABB) bool {
	// box face normals are exact: compare the two boxes directly
	if !t.Bounds().Intersects(aabb) {
		return false
	}

	center := aabb.Center()
	halfSize := aabb.Extents().Scale(0.5)
	// translating to the box center costs precision proportional to its distance from the origin
	mag := math32.Max(math32.Max(math32.Abs(center.X), math32.Abs(center.Y)), math32.Abs(center.Z))

	v0 := t.A.Sub(center)
	v1 := t.B.Sub(center)
	v2 := t.C.Sub(center)

	f0 := v1.Sub(v0)
	f1 := v2.Sub(v1)
	f2 := v0.Sub(v2)

	if separates(f0.Cross(f1), v0, v1, v2, halfSize, mag) {
		return false
	}

	edges := [3]math32.Vector3{f0, f1, f2}
	for axis := 0; axis < 3; axis++ {
		for _, e := range edges {
			if separates(crossUnit(axis, e), v0, v1, v2, halfSize, mag) {
				return false
			}
		}
	}
	return true
}

// crossUnit returns u × e where u is the unit vector of the given axis.
func crossUnit(axis int, e math32.Vector3) math32.Vector3 {
	switch axis {
	case 0:
		return math32.Vector3{X: 0, Y: -e.Z, Z: e.Y}
	case 1:
		return math32.Vector3{X: e.Z, Y: 0, Z: -e.X}
	default:
		return math32.Vector3{X: -e.Y, Y: e.X, Z: 0}
	}
}

// separates reports whether the triangle (v0, v1, v2, relative to the box
// center) and the box project onto disjoint intervals of axis. mag is the
// magnitude of the box center.
func separates(axis, v0, v1, v2, halfSize math32.Vector3, mag float32) bool {
	if axis.IsZero() {
		return false
	}

	p0 := v0.Dot(axis)
	p1 := v1.Dot(axis)
	p2 := v2.Dot(axis)

	triMin := math32.Min(math32.Min(p0, p1), p2)
	triMax := math32.Max(math32.Max(p0, p1), p2)

	r := math32.Abs(halfSize.X*axis.X) + math32.Abs(halfSize.Y*axis.Y) + math32.Abs(halfSize.Z*axis.Z)

	axisLen := math32.Abs(axis.X) + math32.Abs(axis.Y) + math32.Abs(axis.Z)
	scale := r + math32.Max(math32.Abs(triMin), math32.Abs(triMax)) + mag*axisLen
	r += satTolerance * scale

	return triMin > r || triMax < -r
}
