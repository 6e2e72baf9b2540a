package geometry

import "github.com/o0olele/octree-rope/math32"

// Hit is the result of a successful ray query.
type Hit struct {
	Distance      float32        `json:"distance"`
	Point         math32.Vector3 `json:"point"`
	TriangleIndex uint32         `json:"triangle"`
	U             float32        `json:"u"`
	V             float32        `json:"v"`
}

// Closer reports whether h is strictly nearer than other.
func (h Hit) Closer(other Hit) bool {
	return h.Distance < other.Distance
}
