package geometry

import "github.com/o0olele/octree-rope/math32"

// rayEpsilon is the determinant and distance tolerance of the ray/triangle test.
const rayEpsilon = 1e-6

// Ray is a half line with a unit direction. InvDir and Sign are precomputed
// for the slab test.
type Ray struct {
	Origin math32.Vector3 `json:"origin"`
	Dir    math32.Vector3 `json:"direction"`
	InvDir math32.Vector3 `json:"-"`
	Sign   [3]int         `json:"-"`
}

// NewRay builds a ray from an origin and a direction of any length. A zero or
// non-finite direction yields a ray for which IsValid is false.
func NewRay(origin, dir math32.Vector3) Ray {
	r := Ray{Origin: origin}
	if !dir.IsFinite() || dir.IsZero() {
		return r
	}
	r.Dir = dir.Normalize()
	for axis := 0; axis < 3; axis++ {
		d := r.Dir.Get(axis)
		// a zero component divides to ±Inf, which the slab test never reads
		r.InvDir = r.InvDir.With(axis, 1/d)
		if d < 0 {
			r.Sign[axis] = 1
		}
	}
	return r
}

// IsValid reports whether the ray has a usable direction and origin.
func (r Ray) IsValid() bool {
	return !r.Dir.IsZero() && r.Origin.IsFinite()
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math32.Vector3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// RaySpan is the part of a ray inside a box. NearFace is FaceNone when the
// ray starts inside the box.
type RaySpan struct {
	Near     float32 `json:"near"`
	Far      float32 `json:"far"`
	NearFace Face    `json:"near_face"`
	FarFace  Face    `json:"far_face"`
}

// IntersectRay clips the ray against the box with the slab method (Williams et
// al.). Near is clamped to 0 so a ray starting inside reports its origin. Axes
// the ray is parallel to only constrain the origin. A box entirely behind the
// origin, or one merely touched at the origin, is a miss.
func (aabb AABB) IntersectRay(r Ray) (RaySpan, bool) {
	if !r.IsValid() {
		return RaySpan{}, false
	}

	bounds := [2]math32.Vector3{aabb.Min, aabb.Max}
	span := RaySpan{
		Near:     math32.Inf(-1),
		Far:      math32.Inf(1),
		NearFace: FaceNone,
		FarFace:  FaceNone,
	}

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Get(axis)
		if r.Dir.Get(axis) == 0 {
			if o < aabb.Min.Get(axis) || o > aabb.Max.Get(axis) {
				return RaySpan{}, false
			}
			continue
		}

		inv := r.InvDir.Get(axis)
		sign := r.Sign[axis]
		tNear := (bounds[sign].Get(axis) - o) * inv
		tFar := (bounds[1-sign].Get(axis) - o) * inv

		if tNear > span.Near {
			span.Near = tNear
			span.NearFace = FaceOf(axis, sign == 1)
		}
		if tFar < span.Far {
			span.Far = tFar
			span.FarFace = FaceOf(axis, sign == 0)
		}
		if span.Near > span.Far {
			return RaySpan{}, false
		}
	}

	if span.Far <= 0 {
		return RaySpan{}, false
	}
	if span.Near < 0 {
		span.Near = 0
		span.NearFace = FaceNone
	}
	return span, true
}

// RayTriangle checks if the ray intersects with the triangle (based on
// Möller–Trumbore). It returns the distance along the ray and the
// barycentric coordinates of the hit.
func RayTriangle(r Ray, tri Triangle) (t, u, v float32, ok bool) {
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)
	pvec := r.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -rayEpsilon && det < rayEpsilon {
		return 0, 0, 0, false
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(tri.A)
	u = tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	qvec := tvec.Cross(e1)
	v = r.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(qvec) * invDet
	if t <= rayEpsilon {
		return 0, 0, 0, false
	}
	return t, u, v, true
}
