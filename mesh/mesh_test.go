package mesh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/o0olele/octree-rope/geometry"
	"github.com/o0olele/octree-rope/math32"
)

func vec(x, y, z float32) math32.Vector3 {
	return math32.Vector3{X: x, Y: y, Z: z}
}

func TestFromFlat(t *testing.T) {
	m, err := FromFlat(
		[]float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		[]uint32{0, 1, 2},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TriangleCount())
	assert.Equal(t, geometry.Triangle{A: vec(0, 0, 0), B: vec(1, 0, 0), C: vec(0, 1, 0)}, m.Triangle(0))
	assert.Equal(t, geometry.AABB{Min: vec(0, 0, 0), Max: vec(1, 1, 0)}, m.Bounds())
	assert.False(t, m.HasNormals())
}

func TestValidateCollectsAllProblems(t *testing.T) {
	_, err := New(
		[]math32.Vector3{vec(0, 0, 0), vec(1, 0, 0)},
		[]uint32{0, 1, 5, 9},
		[]math32.Vector3{vec(0, 0, 1)},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mesh")
	assert.Contains(t, err.Error(), "not a multiple of 3")
	assert.Contains(t, err.Error(), "1 normals for 2 vertices")
	assert.Contains(t, err.Error(), "index 5")
	assert.Contains(t, err.Error(), "index 9")
}

func TestFromFlatRejectsRaggedArrays(t *testing.T) {
	_, err := FromFlat([]float32{0, 0}, nil, []float32{1})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestEmptyMesh(t *testing.T) {
	m, err := New(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.TriangleCount())
	assert.Equal(t, geometry.AABB{}, m.Bounds())
}

func TestInterpolatedNormal(t *testing.T) {
	m, err := New(
		[]math32.Vector3{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)},
		[]uint32{0, 1, 2},
		[]math32.Vector3{vec(0, 0, 1), vec(0, 0, 1), vec(1, 0, 0)},
	)
	require.NoError(t, err)

	n, ok := m.InterpolatedNormal(0, 0, 0)
	require.True(t, ok)
	assert.Equal(t, vec(0, 0, 1), n)

	n, ok = m.InterpolatedNormal(0, 0, 1)
	require.True(t, ok)
	assert.Equal(t, vec(1, 0, 0), n)

	flat := &Mesh{Vertices: m.Vertices, Indices: m.Indices}
	n, ok = flat.InterpolatedNormal(0, 0.3, 0.3)
	require.True(t, ok)
	assert.Equal(t, vec(0, 0, 1), n)
}

func TestReadOBJ(t *testing.T) {
	src := `# a unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1
usemtl none
f 1//1 2//1 3//1 4//1
`
	m, err := ReadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	require.True(t, m.HasNormals())
	assert.Equal(t, vec(0, 0, 1), m.Normals[3])
}

func TestReadOBJNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3/1 -2/2 -1/3\n"
	m, err := ReadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	assert.False(t, m.HasNormals())
}

func TestReadOBJErrors(t *testing.T) {
	cases := map[string]string{
		"short vertex":    "v 1 2\n",
		"bad float":       "v 1 x 2\n",
		"short face":      "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"forward index":   "v 0 0 0\nf 1 2 3\n",
		"malformed index": "v 0 0 0\nf 1 a 1\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line")
		})
	}
}
