// Package server exposes mesh loading, refinement and ray queries over a
// JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/o0olele/octree-rope/builder"
	"github.com/o0olele/octree-rope/config"
	"github.com/o0olele/octree-rope/mesh"
	"github.com/o0olele/octree-rope/octree"
	"github.com/o0olele/octree-rope/query"
)

// Server holds the current mesh and its octree. Raycasts share a read lock;
// loading a mesh and refining take the write lock.
type Server struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	router *mux.Router

	mu     sync.RWMutex
	meshID string
	octree *octree.Octree
	query  *query.RayQuery

	debounced func(func())
}

// New creates a server and registers its routes.
func New(cfg *config.Config, logger *zap.SugaredLogger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		router:    mux.NewRouter(),
		debounced: debounce.New(cfg.DeepenDebounce),
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/mesh", s.loadMeshHandler).Methods("POST")
	api.HandleFunc("/deepen", s.deepenHandler).Methods("POST")
	api.HandleFunc("/deepen/trigger", s.triggerDeepenHandler).Methods("POST")
	api.HandleFunc("/octree", s.getOctreeHandler).Methods("GET")
	api.HandleFunc("/stats", s.statsHandler).Methods("GET")
	api.HandleFunc("/raycast", s.raycastHandler).Methods("POST")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return s, nil
}

// Handler returns the router wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.router)
}

// ListenAndServe serves the API on cfg.Addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Infow("server starting", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Load builds an octree over m with up to passes refinement passes and makes
// it the current mesh.
func (s *Server) Load(m *mesh.Mesh, minTrisPerOctant, passes int) (LoadMeshResponse, error) {
	id := uuid.NewString()
	o, err := builder.NewBuilder(m, minTrisPerOctant, passes, s.logger.With("mesh", id)).Build()
	if err != nil {
		return LoadMeshResponse{}, errors.Wrap(err, "failed to build octree")
	}
	q, err := query.NewRayQuery(o, &query.Options{UseCache: true, CacheSize: s.cfg.CacheSize}, s.logger)
	if err != nil {
		return LoadMeshResponse{}, errors.Wrap(err, "failed to create query")
	}

	stats := o.Stats()
	s.mu.Lock()
	s.meshID, s.octree, s.query = id, o, q
	s.mu.Unlock()

	meshTriangles.Set(float64(m.TriangleCount()))
	octreeNodes.Set(float64(stats.Nodes))
	s.logger.Infow("mesh loaded", "mesh", id, "triangles", m.TriangleCount(), "nodes", stats.Nodes)
	return LoadMeshResponse{ID: id, Stats: stats}, nil
}

// deepen runs one refinement pass over the current octree.
func (s *Server) deepen(minTrisPerOctant int) (bool, octree.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.octree == nil {
		return false, octree.Stats{}, errNoMesh
	}
	start := time.Now()
	refined := s.octree.Deepen(minTrisPerOctant)
	s.query.Invalidate()

	stats := s.octree.Stats()
	instrumentDeepen(refined, stats.Nodes)
	s.logger.Infow("deepen pass", "mesh", s.meshID, "refined", refined, "nodes", stats.Nodes, "max_depth", stats.MaxDepth, "elapsed", time.Since(start))
	return refined, stats, nil
}

var errNoMesh = errors.New("no mesh loaded")
