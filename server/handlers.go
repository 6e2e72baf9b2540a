package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/o0olele/octree-rope/geometry"
	"github.com/o0olele/octree-rope/math32"
	"github.com/o0olele/octree-rope/mesh"
	"github.com/o0olele/octree-rope/octree"
	"github.com/o0olele/octree-rope/query"
)

// LoadMeshRequest carries a mesh as packed xyz arrays.
type LoadMeshRequest struct {
	Positions        []float32 `json:"positions"`
	Indices          []uint32  `json:"indices"`
	Normals          []float32 `json:"normals,omitempty"`
	MinTrisPerOctant *int      `json:"min_tris_per_octant,omitempty"`
	DeepenPasses     *int      `json:"deepen_passes,omitempty"`
}

// LoadMeshResponse identifies the loaded mesh.
type LoadMeshResponse struct {
	ID    string       `json:"id"`
	Stats octree.Stats `json:"stats"`
}

// DeepenRequest optionally overrides the split threshold of one pass.
type DeepenRequest struct {
	MinTrisPerOctant *int `json:"min_tris_per_octant,omitempty"`
}

// DeepenResponse reports the outcome of a refinement pass.
type DeepenResponse struct {
	Refined bool         `json:"refined"`
	Stats   octree.Stats `json:"stats"`
}

// RaycastRequest is a ray query. Trace also returns the visited leaves.
type RaycastRequest struct {
	Origin    math32.Vector3 `json:"origin"`
	Direction math32.Vector3 `json:"direction"`
	Trace     bool           `json:"trace,omitempty"`
}

// RaycastResponse is the nearest hit, if any, with the surface normal there.
type RaycastResponse struct {
	Found  bool            `json:"found"`
	Hit    *geometry.Hit   `json:"hit,omitempty"`
	Normal *math32.Vector3 `json:"normal,omitempty"`
	Trace  *octree.Trace   `json:"trace,omitempty"`
}

// StatsResponse describes the loaded mesh and the queries served.
type StatsResponse struct {
	ID string `json:"id"`
	query.QueryStats
}

func (s *Server) loadMeshHandler(w http.ResponseWriter, r *http.Request) {
	var req LoadMeshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "mesh", "Invalid JSON", http.StatusBadRequest)
		return
	}

	m, err := mesh.FromFlat(req.Positions, req.Indices, req.Normals)
	if err != nil {
		s.fail(w, "mesh", err.Error(), http.StatusBadRequest)
		return
	}

	minTris := s.cfg.MinTrisPerOctant
	if req.MinTrisPerOctant != nil {
		minTris = *req.MinTrisPerOctant
	}
	passes := s.cfg.MaxDeepenPasses
	if req.DeepenPasses != nil {
		passes = min(*req.DeepenPasses, s.cfg.MaxDeepenPasses)
	}

	resp, err := s.Load(m, minTris, passes)
	if err != nil {
		s.fail(w, "mesh", err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deepenHandler(w http.ResponseWriter, r *http.Request) {
	var req DeepenRequest
	// the body is optional
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, "deepen", "Invalid JSON", http.StatusBadRequest)
		return
	}
	minTris := s.cfg.MinTrisPerOctant
	if req.MinTrisPerOctant != nil {
		minTris = *req.MinTrisPerOctant
	}
	if minTris < 0 {
		s.fail(w, "deepen", "min_tris_per_octant must not be negative", http.StatusBadRequest)
		return
	}

	refined, stats, err := s.deepen(minTris)
	if err != nil {
		s.fail(w, "deepen", "Mesh not loaded", http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, DeepenResponse{Refined: refined, Stats: stats})
}

// triggerDeepenHandler schedules a refinement pass; bursts of triggers
// within the debounce window collapse into one pass.
func (s *Server) triggerDeepenHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	loaded := s.octree != nil
	s.mu.RUnlock()
	if !loaded {
		s.fail(w, "deepen_trigger", "Mesh not loaded", http.StatusBadRequest)
		return
	}

	s.debounced(func() {
		if _, _, err := s.deepen(s.cfg.MinTrisPerOctant); err != nil {
			s.logger.Warnw("triggered deepen failed", "error", err)
		}
	})
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (s *Server) getOctreeHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.octree == nil {
		s.fail(w, "octree", "Mesh not loaded", http.StatusBadRequest)
		return
	}

	data, err := s.octree.ToJSON()
	if err != nil {
		s.fail(w, "octree", "Failed to serialize octree", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		s.logger.Debugw("failed to write response", "endpoint", "octree", "error", err)
	}
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.query == nil {
		s.fail(w, "stats", "Mesh not loaded", http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, StatsResponse{ID: s.meshID, QueryStats: s.query.GetStats()})
}

func (s *Server) raycastHandler(w http.ResponseWriter, r *http.Request) {
	var req RaycastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "raycast", "Invalid JSON", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.query == nil {
		s.fail(w, "raycast", "Mesh not loaded", http.StatusBadRequest)
		return
	}

	start := time.Now()
	var resp RaycastResponse
	if req.Trace {
		trace, err := s.query.Trace(req.Origin, req.Direction)
		if err != nil {
			s.fail(w, "raycast", err.Error(), http.StatusBadRequest)
			return
		}
		resp.Found, resp.Trace = trace.Found, &trace
		if trace.Found {
			resp.Hit = &trace.Hit
		}
	} else {
		hit, found, err := s.query.Raycast(req.Origin, req.Direction)
		if err != nil {
			s.fail(w, "raycast", err.Error(), http.StatusBadRequest)
			return
		}
		resp.Found = found
		if found {
			resp.Hit = &hit
		}
	}
	if resp.Hit != nil {
		m := s.query.GetOctree().Mesh()
		if n, ok := m.InterpolatedNormal(resp.Hit.TriangleIndex, resp.Hit.U, resp.Hit.V); ok {
			resp.Normal = &n
		}
	}
	instrumentRaycast(resp.Found, start)

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) fail(w http.ResponseWriter, endpoint, msg string, code int) {
	instrumentRequestError(endpoint)
	s.logger.Debugw("request rejected", "endpoint", endpoint, "status", code, "error", msg)
	http.Error(w, msg, code)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debugw("failed to write response", "status", code, "error", err)
	}
}
