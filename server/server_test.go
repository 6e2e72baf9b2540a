package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/o0olele/octree-rope/config"
	"github.com/o0olele/octree-rope/logging"
	"github.com/o0olele/octree-rope/math32"
	"github.com/o0olele/octree-rope/octree"
)

// cornerMesh has one small triangle near each of five corners of [0,8]^3.
func cornerMesh() LoadMeshRequest {
	var req LoadMeshRequest
	for i, c := range [][3]float32{{0, 0, 0}, {7, 0, 0}, {0, 7, 0}, {0, 0, 7}, {7, 7, 7}} {
		req.Positions = append(req.Positions,
			c[0], c[1], c[2],
			c[0]+1, c[1], c[2],
			c[0], c[1]+1, c[2]+1,
		)
		base := uint32(3 * i)
		req.Indices = append(req.Indices, base, base+1, base+2)
	}
	return req
}

func newServer(t *testing.T) *Server {
	cfg := config.Default()
	cfg.DeepenDebounce = 20 * time.Millisecond
	s, err := New(cfg, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	return s
}

func vec(x, y, z float32) math32.Vector3 {
	return math32.Vector3{X: x, Y: y, Z: z}
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if body != nil {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req = httptest.NewRequest(method, path, &buf)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func loadMesh(t *testing.T, h http.Handler, passes int) LoadMeshResponse {
	req := cornerMesh()
	req.DeepenPasses = &passes
	rec := do(t, h, http.MethodPost, "/api/mesh", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[LoadMeshResponse](t, rec)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.CacheSize = 0
	_, err := New(cfg, zaptest.NewLogger(t).Sugar())
	assert.Error(t, err)
}

func TestEndpointsRequireMesh(t *testing.T) {
	h := newServer(t).Handler()
	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/deepen", nil},
		{http.MethodPost, "/api/deepen/trigger", nil},
		{http.MethodGet, "/api/octree", nil},
		{http.MethodGet, "/api/stats", nil},
		{http.MethodPost, "/api/raycast", RaycastRequest{Direction: vec(1, 0, 0)}},
	} {
		rec := do(t, h, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.path)
		assert.Contains(t, rec.Body.String(), "Mesh not loaded", tc.path)
	}
}

func TestLoadMesh(t *testing.T) {
	h := newServer(t).Handler()

	resp := loadMesh(t, h, 0)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 5, resp.Stats.Triangles)
	assert.Equal(t, 1, resp.Stats.Nodes)

	second := loadMesh(t, h, 8)
	assert.NotEqual(t, resp.ID, second.ID)
	assert.Equal(t, 1, second.Stats.MaxDepth)
	assert.Equal(t, 1, second.Stats.LargestLeaf)

	rec := do(t, h, http.MethodPost, "/api/mesh", LoadMeshRequest{Positions: []float32{0, 0}, Indices: []uint32{0, 1, 2}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "multiple of 3")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/mesh", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeepen(t *testing.T) {
	h := newServer(t).Handler()
	loadMesh(t, h, 0)

	rec := do(t, h, http.MethodPost, "/api/deepen", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DeepenResponse](t, rec)
	assert.True(t, resp.Refined)
	assert.Equal(t, 9, resp.Stats.Nodes)

	rec = do(t, h, http.MethodPost, "/api/deepen", nil)
	assert.False(t, decode[DeepenResponse](t, rec).Refined)

	negative := -1
	rec = do(t, h, http.MethodPost, "/api/deepen", DeepenRequest{MinTrisPerOctant: &negative})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeepenAcceptsChunkedEmptyBody(t *testing.T) {
	h := newServer(t).Handler()
	loadMesh(t, h, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/deepen", bytes.NewReader(nil))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[DeepenResponse](t, rec).Refined)

	req = httptest.NewRequest(http.MethodPost, "/api/deepen", bytes.NewBufferString("{"))
	req.ContentLength = -1
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadMeshClampsDeepenPasses(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDeepenPasses = 2
	s, err := New(cfg, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	h := s.Handler()

	// with a zero threshold every occupied leaf keeps splitting
	req := cornerMesh()
	passes, minTris := 1000, 0
	req.DeepenPasses, req.MinTrisPerOctant = &passes, &minTris
	rec := do(t, h, http.MethodPost, "/api/mesh", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[LoadMeshResponse](t, rec).Stats.MaxDepth)
}

func TestTriggerDeepen(t *testing.T) {
	cfg := config.Default()
	cfg.DeepenDebounce = 20 * time.Millisecond
	// the debounced pass may outlive the test
	s, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	h := s.Handler()
	loadMesh(t, h, 0)

	for i := 0; i < 3; i++ {
		rec := do(t, h, http.MethodPost, "/api/deepen/trigger", nil)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	}

	assert.Eventually(t, func() bool {
		rec := do(t, h, http.MethodGet, "/api/stats", nil)
		return decode[StatsResponse](t, rec).Octree.MaxDepth == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRaycast(t *testing.T) {
	h := newServer(t).Handler()
	loaded := loadMesh(t, h, 8)

	req := RaycastRequest{Origin: vec(0.25, 0.5, -5), Direction: vec(0, 0, 1)}
	rec := do(t, h, http.MethodPost, "/api/raycast", req)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[RaycastResponse](t, rec)
	require.True(t, resp.Found)
	require.NotNil(t, resp.Hit)
	assert.Equal(t, uint32(0), resp.Hit.TriangleIndex)
	assert.InDelta(t, 5.5, resp.Hit.Distance, 1e-5)
	require.NotNil(t, resp.Normal)
	assert.InDelta(t, -0.70710677, resp.Normal.Y, 1e-5)
	assert.InDelta(t, 0.70710677, resp.Normal.Z, 1e-5)
	assert.Nil(t, resp.Trace)

	req.Trace = true
	rec = do(t, h, http.MethodPost, "/api/raycast", req)
	resp = decode[RaycastResponse](t, rec)
	require.NotNil(t, resp.Trace)
	assert.Equal(t, resp.Found, resp.Trace.Found)
	assert.NotEmpty(t, resp.Trace.Leaves)

	rec = do(t, h, http.MethodPost, "/api/raycast", RaycastRequest{Origin: vec(20, 20, 20), Direction: vec(1, 0, 0)})
	resp = decode[RaycastResponse](t, rec)
	assert.False(t, resp.Found)
	assert.Nil(t, resp.Hit)

	rec = do(t, h, http.MethodPost, "/api/raycast", RaycastRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/stats", nil)
	stats := decode[StatsResponse](t, rec)
	assert.Equal(t, loaded.ID, stats.ID)
	assert.Equal(t, int64(3), stats.Queries)
}

func TestOctreeExport(t *testing.T) {
	h := newServer(t).Handler()
	loadMesh(t, h, 1)

	rec := do(t, h, http.MethodGet, "/api/octree", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	export := decode[octree.Export](t, rec)
	assert.Equal(t, 5, export.Triangles)
	require.Len(t, export.Root.Children, 8)
	assert.Equal(t, "04", export.Root.Children[0].Neighbors[1])
}

func TestMetricsAndCORS(t *testing.T) {
	h := newServer(t).Handler()
	loadMesh(t, h, 1)
	do(t, h, http.MethodPost, "/api/raycast", RaycastRequest{Origin: vec(0.25, 0.5, -5), Direction: vec(0, 0, 1)})

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "octree_raycast_total")
	assert.Contains(t, rec.Body.String(), "octree_mesh_triangles 5")

	req := httptest.NewRequest(http.MethodGet, "/api/octree", nil)
	req.Header.Set("Origin", "http://viewer.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
