package geometry

import "fmt"

// Face identifies one of the six sides of a box.
type Face int8

const (
	FaceNegX Face = iota
	FacePosX
	FaceNegY
	FacePosY
	FaceNegZ
	FacePosZ

	// FaceNone marks the absence of a face, e.g. the entry face of a ray that
	// starts inside a box.
	FaceNone Face = -1
)

// FaceCount is the number of faces of a box.
const FaceCount = 6

var faceNames = [FaceCount]string{"-x", "+x", "-y", "+y", "-z", "+z"}

// FaceOf returns the face on the given axis and side.
func FaceOf(axis int, positive bool) Face {
	f := Face(2 * axis)
	if positive {
		f++
	}
	return f
}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f >= FaceNegX && f <= FacePosZ
}

// Axis returns 0, 1 or 2 for x, y or z.
func (f Face) Axis() int {
	f.mustBeValid()
	return int(f) >> 1
}

// Positive reports whether the face looks down the positive direction of its axis.
func (f Face) Positive() bool {
	f.mustBeValid()
	return f&1 == 1
}

// Opposite returns the face on the other side of the same axis.
func (f Face) Opposite() Face {
	f.mustBeValid()
	return f ^ 1
}

func (f Face) String() string {
	if !f.Valid() {
		return "none"
	}
	return faceNames[f]
}

func (f Face) mustBeValid() {
	if !f.Valid() {
		panic(fmt.Sprintf("geometry: face %d out of range [0,5]", int(f)))
	}
}
