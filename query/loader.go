package query

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/o0olele/octree-rope/builder"
	"github.com/o0olele/octree-rope/mesh"
)

// LoadAndQuery loads a Wavefront OBJ mesh, builds its octree and wraps it in
// a RayQuery (one-stop). A nil options uses DefaultOptions.
func LoadAndQuery(filename string, options *Options, logger *zap.SugaredLogger) (*RayQuery, error) {
	if options == nil {
		options = DefaultOptions()
	}

	m, err := mesh.LoadOBJ(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load mesh")
	}

	o, err := builder.NewBuilder(m, options.MinTrisPerOctant, options.MaxDeepenPasses, logger).Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build octree")
	}

	return NewRayQuery(o, options, logger)
}
