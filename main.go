package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/o0olele/octree-rope/cmd"
)

func main() {
	app := &cli.App{
		Name:    "octree-rope",
		Usage:   "index triangle meshes in a roped octree and answer ray queries",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "v",
				Usage: "enable verbose logging",
			},
			&cli.BoolFlag{
				Name:  "vv",
				Usage: "enable even more verbose logging",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "log level when neither -v nor -vv is given",
				EnvVars: []string{"OCTREE_ROPE_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve the JSON API",
				Description: `
Start an HTTP server that loads meshes, refines their octree on request and
answers raycasts. Prometheus metrics are exposed on /metrics.`,
				Flags:  cmd.ServeFlags(),
				Action: cmd.Serve,
			},
			{
				Name:      "raycast",
				Usage:     "cast a single ray into a mesh",
				ArgsUsage: "mesh.obj",
				Flags:     append(cmd.BuildFlags(), cmd.RayFlags()...),
				Action:    cmd.Raycast,
			},
			{
				Name:      "stats",
				Usage:     "print the shape of the octree built over a mesh",
				ArgsUsage: "mesh.obj",
				Flags:     cmd.BuildFlags(),
				Action:    cmd.Stats,
			},
			{
				Name:  "verify",
				Usage: "check octree raycasts against brute force",
				Description: `
Cast random rays through the bounds of the mesh and compare the octree answer
with a test of every triangle. Exits non-zero on any disagreement.`,
				ArgsUsage: "mesh.obj",
				Flags:     cmd.VerifyFlags(),
				Action:    cmd.Verify,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
