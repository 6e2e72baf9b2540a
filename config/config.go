package config

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// Config holds the settings shared by the server and the command line tools.
type Config struct {
	Addr             string        // HTTP listen address
	MinTrisPerOctant int           // leaves holding more triangles than this are split
	MaxDeepenPasses  int           // upper bound on refinement passes per build
	DeepenDebounce   time.Duration // quiet period before a triggered refinement runs
	LogLevel         string
	AllowedOrigins   []string // CORS origins
	CacheSize        int      // raycast results kept per mesh
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Addr:             ":8080",
		MinTrisPerOctant: 1,
		MaxDeepenPasses:  8,
		DeepenDebounce:   250 * time.Millisecond,
		LogLevel:         "info",
		AllowedOrigins:   []string{"*"},
		CacheSize:        4096,
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	if c.Addr == "" {
		err = multierr.Append(err, errors.New("addr must not be empty"))
	}
	if c.MinTrisPerOctant < 0 {
		err = multierr.Append(err, errors.Errorf("min tris per octant must not be negative, got %d", c.MinTrisPerOctant))
	}
	if c.MaxDeepenPasses < 0 {
		err = multierr.Append(err, errors.Errorf("max deepen passes must not be negative, got %d", c.MaxDeepenPasses))
	}
	if c.DeepenDebounce < 0 {
		err = multierr.Append(err, errors.Errorf("deepen debounce must not be negative, got %v", c.DeepenDebounce))
	}
	if _, perr := zapcore.ParseLevel(c.LogLevel); perr != nil {
		err = multierr.Append(err, errors.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.CacheSize <= 0 {
		err = multierr.Append(err, errors.Errorf("cache size must be positive, got %d", c.CacheSize))
	}
	return errors.Wrap(err, "invalid config")
}
