package cmd

import (
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/o0olele/octree-rope/mesh"
	"github.com/o0olele/octree-rope/server"
)

// ServeFlags configure the HTTP server.
func ServeFlags() []cli.Flag {
	return append(BuildFlags(),
		&cli.StringFlag{
			Name:    "addr",
			Value:   ":8080",
			Usage:   "listen address",
			EnvVars: []string{"OCTREE_ROPE_ADDR"},
		},
		&cli.DurationFlag{
			Name:    "debounce",
			Usage:   "quiet period before a triggered refinement runs",
			EnvVars: []string{"OCTREE_ROPE_DEBOUNCE"},
		},
		&cli.StringSliceFlag{
			Name:    "origins",
			Usage:   "allowed CORS origins",
			EnvVars: []string{"OCTREE_ROPE_ORIGINS"},
		},
		&cli.IntFlag{
			Name:    "cache-size",
			Usage:   "raycast results cached per mesh",
			EnvVars: []string{"OCTREE_ROPE_CACHE_SIZE"},
		},
		&cli.StringFlag{
			Name:  "mesh",
			Usage: "wavefront obj file to load at startup",
		},
	)
}

// Serve runs the HTTP API until interrupted.
func Serve(ctx *cli.Context) error {
	logger, err := setupLogging(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := configFromFlags(ctx)
	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	if path := ctx.String("mesh"); path != "" {
		m, err := mesh.LoadOBJ(path)
		if err != nil {
			return err
		}
		if _, err := srv.Load(m, cfg.MinTrisPerOctant, cfg.MaxDeepenPasses); err != nil {
			return err
		}
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(sigCtx)
}
