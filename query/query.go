package query

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/o0olele/octree-rope/geometry"
	"github.com/o0olele/octree-rope/math32"
	"github.com/o0olele/octree-rope/mesh"
	"github.com/o0olele/octree-rope/octree"
)

// ErrInvalidRay is returned for a ray direction that is zero or not finite.
var ErrInvalidRay = errors.New("ray direction must be finite and non-zero")

// RayQuery answers nearest hit queries against a built octree. It is safe
// for concurrent use as long as the octree is not modified meanwhile; call
// Invalidate after modifying it.
type RayQuery struct {
	octree  *octree.Octree
	options *Options
	cache   *Cache[rayKey, cachedHit]
	logger  *zap.SugaredLogger
	queries atomic.Int64
}

type rayKey struct {
	origin, direction math32.Vector3
}

type cachedHit struct {
	hit   geometry.Hit
	found bool
}

// QueryStats summarizes the queries served so far.
type QueryStats struct {
	Queries int64         `json:"queries"`
	Octree  octree.Stats  `json:"octree"`
	Cache   *CacheStats   `json:"cache,omitempty"`
	Bounds  geometry.AABB `json:"bounds"`
}

// NewRayQuery creates a query over o. A nil options uses DefaultOptions.
func NewRayQuery(o *octree.Octree, options *Options, logger *zap.SugaredLogger) (*RayQuery, error) {
	if o == nil {
		return nil, errors.New("nil octree")
	}
	if options == nil {
		options = DefaultOptions()
	}
	if err := options.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid query options")
	}

	q := &RayQuery{
		octree:  o,
		options: options,
		logger:  logger,
	}
	if options.UseCache {
		q.cache = NewCache[rayKey, cachedHit](options.CacheSize)
	}
	return q, nil
}

// GetOctree returns the queried octree.
func (q *RayQuery) GetOctree() *octree.Octree {
	return q.octree
}

// Raycast returns the nearest triangle hit by the ray from origin along
// direction. The direction does not need to be normalized.
func (q *RayQuery) Raycast(origin, direction math32.Vector3) (geometry.Hit, bool, error) {
	r := geometry.NewRay(origin, direction)
	if !r.IsValid() {
		return geometry.Hit{}, false, ErrInvalidRay
	}
	q.queries.Add(1)

	key := rayKey{origin, direction}
	if q.cache != nil {
		if c, ok := q.cache.Get(key); ok {
			return c.hit, c.found, nil
		}
	}

	startTime := time.Now()
	hit, found := q.octree.FindNearestHit(r)
	q.logger.Debugw("raycast", "origin", origin.String(), "direction", direction.String(), "found", found, "elapsed", time.Since(startTime))

	if q.cache != nil {
		q.cache.Put(key, cachedHit{hit, found})
	}
	return hit, found, nil
}

// Trace runs an uncached query and returns how it moved through the tree.
func (q *RayQuery) Trace(origin, direction math32.Vector3) (octree.Trace, error) {
	r := geometry.NewRay(origin, direction)
	if !r.IsValid() {
		return octree.Trace{}, ErrInvalidRay
	}
	q.queries.Add(1)
	return q.octree.TraceRay(r), nil
}

// Invalidate drops every cached result.
func (q *RayQuery) Invalidate() {
	if q.cache != nil {
		q.cache.Clear()
	}
}

// GetStats returns query counters along with the octree shape.
func (q *RayQuery) GetStats() QueryStats {
	stats := QueryStats{
		Queries: q.queries.Load(),
		Octree:  q.octree.Stats(),
		Bounds:  q.octree.Bounds(),
	}
	if q.cache != nil {
		cs := q.cache.GetStats()
		stats.Cache = &cs
	}
	return stats
}

// BruteForce tests the ray against every triangle of the mesh. It is the
// reference the octree queries are checked against.
func BruteForce(m *mesh.Mesh, r geometry.Ray) (geometry.Hit, bool) {
	var best geometry.Hit
	found := false
	if !r.IsValid() {
		return best, false
	}
	for i := 0; i < m.TriangleCount(); i++ {
		index := uint32(i)
		t, u, v, ok := geometry.RayTriangle(r, m.Triangle(index))
		if !ok {
			continue
		}
		hit := geometry.Hit{Distance: t, Point: r.At(t), TriangleIndex: index, U: u, V: v}
		if !found || hit.Closer(best) {
			best, found = hit, true
		}
	}
	return best, found
}
