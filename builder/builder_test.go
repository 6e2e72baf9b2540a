package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/o0olele/octree-rope/math32"
	"github.com/o0olele/octree-rope/mesh"
)

// cornerMesh has one small triangle near each of five box corners.
func cornerMesh(t *testing.T) *mesh.Mesh {
	corners := [][3]float32{{0, 0, 0}, {7, 0, 0}, {0, 7, 0}, {0, 0, 7}, {7, 7, 7}}
	var vertices []math32.Vector3
	var indices []uint32
	for _, c := range corners {
		base := uint32(len(vertices))
		vertices = append(vertices,
			math32.Vector3{X: c[0], Y: c[1], Z: c[2]},
			math32.Vector3{X: c[0] + 1, Y: c[1], Z: c[2]},
			math32.Vector3{X: c[0], Y: c[1] + 1, Z: c[2] + 1},
		)
		indices = append(indices, base, base+1, base+2)
	}
	m, err := mesh.New(vertices, indices, nil)
	require.NoError(t, err)
	return m
}

func TestBuildConverges(t *testing.T) {
	b := NewBuilder(cornerMesh(t), 1, 32, zaptest.NewLogger(t).Sugar())
	o, err := b.Build()
	require.NoError(t, err)
	assert.Same(t, o, b.GetOctree())

	stats := o.Stats()
	assert.False(t, o.Root.IsLeaf())
	assert.LessOrEqual(t, stats.LargestLeaf, 1)
	assert.Less(t, b.Passes(), 32, "the last pass must report no refinement")
	assert.False(t, o.Deepen(1))
}

func TestBuildHonorsPassLimit(t *testing.T) {
	b := NewBuilder(cornerMesh(t), 1, 1, zaptest.NewLogger(t).Sugar())
	o, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, b.Passes())
	assert.Equal(t, 1, o.Stats().MaxDepth)

	b = NewBuilder(cornerMesh(t), 1, 0, zaptest.NewLogger(t).Sugar())
	o, err = b.Build()
	require.NoError(t, err)
	assert.True(t, o.Root.IsLeaf())
}

func TestBuildRejectsBadInput(t *testing.T) {
	_, err := NewBuilder(cornerMesh(t), -1, 4, zaptest.NewLogger(t).Sugar()).Build()
	assert.Error(t, err)

	_, err = NewBuilder(nil, 1, 4, zaptest.NewLogger(t).Sugar()).Build()
	assert.ErrorContains(t, err, "failed to create octree")
}

func TestGetMemoryUsage(t *testing.T) {
	b := NewBuilder(cornerMesh(t), 1, 4, zaptest.NewLogger(t).Sugar())
	assert.Zero(t, b.GetMemoryUsage().OctreeNodes)

	o, err := b.Build()
	require.NoError(t, err)
	usage := b.GetMemoryUsage()
	assert.Equal(t, o.Stats().Nodes, usage.OctreeNodes)
	assert.Equal(t, o.Stats().Leaves, usage.OctreeLeaves)
	assert.NotZero(t, usage.HeapAlloc)
}
