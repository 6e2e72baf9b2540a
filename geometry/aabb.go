package geometry

import (
	"fmt"

	"github.com/o0olele/octree-rope/math32"
)

// AABB is axis-aligned bounding box
type AABB struct {
	Min math32.Vector3 `json:"min"`
	Max math32.Vector3 `json:"max"`
}

// NewAABB returns the box spanned by two opposite corners given in any order.
func NewAABB(corner1, corner2 math32.Vector3) AABB {
	return AABB{Min: corner1.MinVec(corner2), Max: corner1.MaxVec(corner2)}
}

// Contains checks if the point is inside the AABB, boundary included
func (aabb AABB) Contains(point math32.Vector3) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y &&
		point.Z >= aabb.Min.Z && point.Z <= aabb.Max.Z
}

// Center returns the center of the AABB
func (aabb AABB) Center() math32.Vector3 {
	return aabb.Min.Add(aabb.Extents().Scale(0.5))
}

// Extents returns the size of the AABB along each axis
func (aabb AABB) Extents() math32.Vector3 {
	return aabb.Max.Sub(aabb.Min)
}

// Intersects checks if the AABB intersects with another AABB. Touching boxes intersect.
func (aabb AABB) Intersects(other AABB) bool {
	return aabb.Min.X <= other.Max.X && aabb.Max.X >= other.Min.X &&
		aabb.Min.Y <= other.Max.Y && aabb.Max.Y >= other.Min.Y &&
		aabb.Min.Z <= other.Max.Z && aabb.Max.Z >= other.Min.Z
}

// Cube grows every axis shorter than the longest one symmetrically about the
// center, so the result is a cube containing the box. A box with no extent on
// any axis is returned unchanged.
func (aabb AABB) Cube() AABB {
	ext := aabb.Extents()
	side := math32.Max(ext.X, math32.Max(ext.Y, ext.Z))
	if side <= 0 {
		return aabb
	}
	for axis := 0; axis < 3; axis++ {
		pad := (side - ext.Get(axis)) / 2
		if pad <= 0 {
			continue
		}
		aabb.Min = aabb.Min.With(axis, aabb.Min.Get(axis)-pad)
		aabb.Max = aabb.Max.With(axis, aabb.Max.Get(axis)+pad)
	}
	return aabb
}

// Local maps a point into the box's normalized coordinates, where Min is 0 and
// Max is 1 on every axis. An axis with zero extent maps to 0.
func (aabb AABB) Local(point math32.Vector3) math32.Vector3 {
	ext := aabb.Extents()
	var local math32.Vector3
	for axis := 0; axis < 3; axis++ {
		e := ext.Get(axis)
		if e == 0 {
			continue
		}
		local = local.With(axis, (point.Get(axis)-aabb.Min.Get(axis))/e)
	}
	return local
}

// Octant returns the box of child octant i. Bit 4 selects the upper x half,
// bit 2 the upper y half and bit 1 the upper z half.
func (aabb AABB) Octant(i int) AABB {
	if i < 0 || i > 7 {
		panic(fmt.Sprintf("geometry: octant %d out of range [0,7]", i))
	}
	center := aabb.Center()
	child := AABB{Min: aabb.Min, Max: center}
	if i&4 != 0 {
		child.Min.X, child.Max.X = center.X, aabb.Max.X
	}
	if i&2 != 0 {
		child.Min.Y, child.Max.Y = center.Y, aabb.Max.Y
	}
	if i&1 != 0 {
		child.Min.Z, child.Max.Z = center.Z, aabb.Max.Z
	}
	return child
}

// Bound returns Min for face sides that point down an axis and Max otherwise.
func (aabb AABB) Bound(face Face) float32 {
	if face.Positive() {
		return aabb.Max.Get(face.Axis())
	}
	return aabb.Min.Get(face.Axis())
}

// String returns a string representation of the AABB
func (aabb AABB) String() string {
	return fmt.Sprintf("{%v %v}", aabb.Min, aabb.Max)
}
