package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector3Ops(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{4, -5, 6}

	assert.Equal(t, Vector3{5, -3, 9}, a.Add(b))
	assert.Equal(t, Vector3{-3, 7, -3}, a.Sub(b))
	assert.Equal(t, Vector3{4, -10, 18}, a.Mul(b))
	assert.Equal(t, float32(12), a.Dot(b))
	assert.Equal(t, Vector3{27, 6, -13}, a.Cross(b))
	assert.Equal(t, Vector3{1, -5, 3}, a.MinVec(b))
	assert.Equal(t, Vector3{4, 2, 6}, a.MaxVec(b))
	assert.InDelta(t, 5, Vector3{3, 4, 0}.Length(), 1e-6)
	assert.Equal(t, Vector3{}, Vector3{}.Normalize())
	assert.InDelta(t, 1, Vector3{0, 0, 7}.Normalize().Z, 1e-6)
}

func TestVector3Axis(t *testing.T) {
	v := Vector3{1, 2, 3}
	for i, want := range []float32{1, 2, 3} {
		assert.Equal(t, want, v.Get(i))
	}
	assert.Equal(t, Vector3{1, 9, 3}, v.With(1, 9))
	assert.Panics(t, func() { v.Get(3) })
	assert.Panics(t, func() { v.With(-1, 0) })
}

func TestVector3IsFinite(t *testing.T) {
	assert.True(t, Vector3{1, 2, 3}.IsFinite())
	assert.False(t, Vector3{Inf(1), 0, 0}.IsFinite())
	nan := Inf(1) - Inf(1)
	assert.False(t, Vector3{0, nan, 0}.IsFinite())
}

func TestBitmap(t *testing.T) {
	bm := NewBitmap(10)
	require.Len(t, bm, 1)

	assert.False(t, bm.TestAndSet(3))
	assert.True(t, bm.TestAndSet(3))
	assert.True(t, bm.Contains(3))
	assert.False(t, bm.Contains(4))

	bm.Set(1000)
	assert.True(t, bm.Contains(1000))
	assert.False(t, bm.Contains(5000))
	assert.Len(t, bm, 16)
	assert.True(t, bm.Contains(3), "growing keeps earlier bits")

	grown := NewBitmap(0)
	assert.False(t, grown.TestAndSet(64))
	assert.Len(t, grown, 2)
	assert.False(t, grown.Contains(0))
}
