package query

import "github.com/pkg/errors"

// Options configures how a RayQuery is built and served.
type Options struct {
	MinTrisPerOctant int  // leaf split threshold used when building
	MaxDeepenPasses  int  // refinement passes used when building
	UseCache         bool // remember raycast results
	CacheSize        int  // results kept when UseCache is set
}

// DefaultOptions returns the default query options
func DefaultOptions() *Options {
	return &Options{
		MinTrisPerOctant: 1,
		MaxDeepenPasses:  8,
		UseCache:         true,
		CacheSize:        4096,
	}
}

func (o *Options) validate() error {
	if o.UseCache && o.CacheSize <= 0 {
		return errors.Errorf("cache size must be positive, got %d", o.CacheSize)
	}
	return nil
}
