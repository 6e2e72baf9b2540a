package cmd

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/o0olele/octree-rope/config"
	"github.com/o0olele/octree-rope/math32"
	"github.com/o0olele/octree-rope/mesh"
)

// BuildFlags are the refinement settings shared by every command.
func BuildFlags() []cli.Flag {
	defaults := config.Default()
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "min-tris",
			Value:   defaults.MinTrisPerOctant,
			Usage:   "split leaves holding more triangles than this",
			EnvVars: []string{"OCTREE_ROPE_MIN_TRIS"},
		},
		&cli.IntFlag{
			Name:    "max-passes",
			Value:   defaults.MaxDeepenPasses,
			Usage:   "maximum number of refinement passes",
			EnvVars: []string{"OCTREE_ROPE_MAX_PASSES"},
		},
	}
}

// RayFlags select the ray of the raycast command.
func RayFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64SliceFlag{
			Name:     "origin",
			Usage:    "ray origin as x,y,z",
			Required: true,
		},
		&cli.Float64SliceFlag{
			Name:     "direction",
			Usage:    "ray direction as x,y,z",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "also print the leaves the query visited",
		},
	}
}

// configFromFlags starts from the defaults and applies the flags that are set.
func configFromFlags(ctx *cli.Context) *config.Config {
	cfg := config.Default()
	cfg.MinTrisPerOctant = ctx.Int("min-tris")
	cfg.MaxDeepenPasses = ctx.Int("max-passes")
	if ctx.IsSet("addr") {
		cfg.Addr = ctx.String("addr")
	}
	if ctx.IsSet("debounce") {
		cfg.DeepenDebounce = ctx.Duration("debounce")
	}
	if ctx.IsSet("origins") {
		cfg.AllowedOrigins = ctx.StringSlice("origins")
	}
	if ctx.IsSet("cache-size") {
		cfg.CacheSize = ctx.Int("cache-size")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	return cfg
}

func vectorFlag(ctx *cli.Context, name string) (math32.Vector3, error) {
	values := ctx.Float64Slice(name)
	if len(values) != 3 {
		return math32.Vector3{}, errors.Errorf("--%s needs 3 components, got %d", name, len(values))
	}
	return math32.Vector3{X: float32(values[0]), Y: float32(values[1]), Z: float32(values[2])}, nil
}

func meshArg(ctx *cli.Context) (*mesh.Mesh, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing mesh file argument")
	}
	return mesh.LoadOBJ(ctx.Args().First())
}
