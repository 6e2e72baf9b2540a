package builder

import (
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/o0olele/octree-rope/mesh"
	"github.com/o0olele/octree-rope/octree"
)

// Builder builds a ray query octree over a mesh and refines it
type Builder struct {
	mesh             *mesh.Mesh
	octree           *octree.Octree
	minTrisPerOctant int
	maxPasses        int
	logger           *zap.SugaredLogger
	passes           int
}

// NewBuilder creates a builder. Leaves holding more than minTrisPerOctant
// triangles are split, for at most maxPasses refinement passes.
func NewBuilder(m *mesh.Mesh, minTrisPerOctant, maxPasses int, logger *zap.SugaredLogger) *Builder {
	return &Builder{
		mesh:             m,
		minTrisPerOctant: minTrisPerOctant,
		maxPasses:        maxPasses,
		logger:           logger,
	}
}

// GetOctree returns the last built octree, nil before Build.
func (b *Builder) GetOctree() *octree.Octree {
	return b.octree
}

// Passes returns the number of refinement passes the last build ran.
func (b *Builder) Passes() int {
	return b.passes
}

// Build inserts every triangle into a fresh octree and deepens it until a
// pass refines nothing or the pass limit is hit.
func (b *Builder) Build() (*octree.Octree, error) {
	if b.minTrisPerOctant < 0 {
		return nil, errors.Errorf("min tris per octant must not be negative, got %d", b.minTrisPerOctant)
	}
	startTime := time.Now()

	o, err := octree.New(b.mesh)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create octree")
	}
	b.logger.Infow("octree created", "triangles", b.mesh.TriangleCount(), "bounds", o.Bounds().String(), "elapsed", time.Since(startTime))

	b.passes = 0
	for b.passes < b.maxPasses {
		passStart := time.Now()
		refined := o.Deepen(b.minTrisPerOctant)
		b.passes++
		b.logger.Debugw("deepen pass", "pass", b.passes, "refined", refined, "elapsed", time.Since(passStart))
		if !refined {
			break
		}
	}

	stats := o.Stats()
	b.logger.Infow("octree built",
		"passes", b.passes,
		"nodes", stats.Nodes,
		"leaves", stats.Leaves,
		"max_depth", stats.MaxDepth,
		"elapsed", time.Since(startTime),
	)

	b.octree = o
	return o, nil
}

// GetMemoryUsage reports runtime memory use and the size of the last built octree.
func (b *Builder) GetMemoryUsage() BuildMemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := BuildMemoryStats{
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		HeapAlloc:  m.HeapAlloc,
		HeapSys:    m.HeapSys,
		NumGC:      m.NumGC,
	}

	if b.octree != nil {
		s := b.octree.Stats()
		stats.OctreeNodes = s.Nodes
		stats.OctreeLeaves = s.Leaves
		stats.TriangleRefs = s.TriangleRefs
	}

	return stats
}

// BuildMemoryStats is a snapshot of memory use after a build
type BuildMemoryStats struct {
	TotalAlloc   uint64 `json:"total_alloc"`
	Sys          uint64 `json:"sys"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	HeapSys      uint64 `json:"heap_sys"`
	NumGC        uint32 `json:"num_gc"`
	OctreeNodes  int    `json:"octree_nodes"`
	OctreeLeaves int    `json:"octree_leaves"`
	TriangleRefs int    `json:"triangle_refs"`
}
