package octree

import (
	"slices"

	"github.com/o0olele/octree-rope/geometry"
	"github.com/o0olele/octree-rope/math32"
)

// maxSteps bounds the number of rope hops of a single query.
const maxSteps = 1 << 22

// Trace describes how a query moved through the tree.
type Trace struct {
	Hit      geometry.Hit `json:"hit"`
	Found    bool         `json:"found"`
	Leaves   []string     `json:"leaves"`
	RopeHops int          `json:"rope_hops"`
	Tests    int          `json:"triangle_tests"`
}

// FindNearestHit returns the closest intersection of the ray with the mesh.
// The ray is in mesh space. When two triangles are hit at exactly the same
// distance the one tested first is reported.
func (o *Octree) FindNearestHit(r geometry.Ray) (geometry.Hit, bool) {
	w := walker{o: o, r: r}
	w.run()
	return w.best, w.found
}

// TraceRay is FindNearestHit that also records the leaves visited in order,
// the rope hops taken and the number of triangle tests run.
func (o *Octree) TraceRay(r geometry.Ray) Trace {
	w := walker{o: o, r: r, trace: &Trace{}}
	w.run()
	w.trace.Hit, w.trace.Found = w.best, w.found
	return *w.trace
}

type walker struct {
	o     *Octree
	r     geometry.Ray
	trace *Trace

	visited math32.Bitmap
	best    geometry.Hit
	found   bool
}

// run walks from the leaf holding the entry point to the exit of the root,
// hopping between cells through the rope on the face the ray leaves by.
func (w *walker) run() {
	root := w.o.Root
	span, ok := root.box.IntersectRay(w.r)
	if !ok {
		return
	}
	w.visited = math32.NewBitmap(uint32(w.o.mesh.TriangleCount()))

	t := span.Near
	node := root.Locate(clampUnit(root.box.Local(w.r.At(t))))
	for step := 0; step < maxSteps; step++ {
		tOut, face := w.exit(node, t)
		if tOut > span.Far {
			tOut = span.Far
		}

		w.visit(node, t, tOut)
		if w.found && w.best.Distance <= tOut {
			return
		}
		if tOut >= span.Far || face == geometry.FaceNone {
			return
		}

		next := node.neighbors[face]
		if next == nil {
			return
		}
		if w.trace != nil {
			w.trace.RopeHops++
		}
		node, t = next, tOut
	}
}

// exit returns where the ray leaves the node's box and through which face.
// The result is never before t.
func (w *walker) exit(n *Node, t float32) (float32, geometry.Face) {
	tOut := math32.Inf(1)
	face := geometry.FaceNone
	for axis := 0; axis < 3; axis++ {
		if w.r.Dir.Get(axis) == 0 {
			continue
		}
		positive := w.r.Sign[axis] == 0
		f := geometry.FaceOf(axis, positive)
		tf := (n.box.Bound(f) - w.r.Origin.Get(axis)) * w.r.InvDir.Get(axis)
		if tf < tOut {
			tOut, face = tf, f
		}
	}
	if tOut < t {
		tOut = t
	}
	return tOut, face
}

// visit tests the part [tIn, tOut] of the ray that lies in n.
func (w *walker) visit(n *Node, tIn, tOut float32) {
	switch c := n.content.(type) {
	case *leafContent:
		w.testLeaf(n, c)
	case *internalContent:
		w.visitChildren(n, c, tIn, tOut)
	}
}

// visitChildren enumerates the octants the segment crosses, nearest first.
// The segment is cut where it crosses the node's three median planes; each
// piece lies in exactly one octant, picked by its midpoint.
func (w *walker) visitChildren(n *Node, c *internalContent, tIn, tOut float32) {
	center := n.box.Center()

	cuts := make([]float32, 0, 5)
	cuts = append(cuts, tIn)
	if span := tOut - tIn; span > 0 {
		for axis := 0; axis < 3; axis++ {
			if w.r.Dir.Get(axis) == 0 {
				continue
			}
			tc := (center.Get(axis) - w.r.Origin.Get(axis)) * w.r.InvDir.Get(axis)
			if frac := (tc - tIn) / span; frac > 0 && frac < 1 {
				cuts = append(cuts, tc)
			}
		}
	}
	slices.Sort(cuts[1:])
	cuts = append(cuts, tOut)

	for i := 0; i+1 < len(cuts); i++ {
		a, b := cuts[i], cuts[i+1]
		if w.found && w.best.Distance <= a {
			return
		}
		mid := w.r.At((a + b) / 2)
		octant := 0
		for axis, bit := range axisBits {
			if mid.Get(axis) >= center.Get(axis) {
				octant |= bit
			}
		}
		w.visit(c.children[octant], a, b)
	}
}

func (w *walker) testLeaf(n *Node, c *leafContent) {
	if w.trace != nil {
		w.trace.Leaves = append(w.trace.Leaves, n.path)
	}
	m := w.o.mesh
	for _, index := range c.indices {
		if w.visited.TestAndSet(index) {
			continue
		}
		if w.trace != nil {
			w.trace.Tests++
		}
		t, u, v, ok := geometry.RayTriangle(w.r, m.Triangle(index))
		if !ok {
			continue
		}
		hit := geometry.Hit{Distance: t, Point: w.r.At(t), TriangleIndex: index, U: u, V: v}
		if !w.found || hit.Closer(w.best) {
			w.best, w.found = hit, true
		}
	}
}

func clampUnit(p math32.Vector3) math32.Vector3 {
	return math32.Vector3{
		X: math32.Clamp(p.X, 0, 1),
		Y: math32.Clamp(p.Y, 0, 1),
		Z: math32.Clamp(p.Z, 0, 1),
	}
}
