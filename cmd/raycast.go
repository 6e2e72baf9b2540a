package cmd

import (
	"encoding/json"

	"github.com/urfave/cli/v2"

	"github.com/o0olele/octree-rope/builder"
	"github.com/o0olele/octree-rope/query"
)

// Raycast casts one ray into a mesh and prints the nearest hit as JSON.
func Raycast(ctx *cli.Context) error {
	logger, err := setupLogging(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	origin, err := vectorFlag(ctx, "origin")
	if err != nil {
		return err
	}
	direction, err := vectorFlag(ctx, "direction")
	if err != nil {
		return err
	}

	m, err := meshArg(ctx)
	if err != nil {
		return err
	}
	o, err := builder.NewBuilder(m, ctx.Int("min-tris"), ctx.Int("max-passes"), logger).Build()
	if err != nil {
		return err
	}
	q, err := query.NewRayQuery(o, &query.Options{}, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(ctx.App.Writer)
	enc.SetIndent("", "  ")
	if ctx.Bool("trace") {
		trace, err := q.Trace(origin, direction)
		if err != nil {
			return err
		}
		return enc.Encode(trace)
	}

	hit, found, err := q.Raycast(origin, direction)
	if err != nil {
		return err
	}
	if !found {
		return enc.Encode(map[string]bool{"found": false})
	}
	return enc.Encode(map[string]any{"found": true, "hit": hit})
}
