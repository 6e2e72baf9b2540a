package cmd

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/o0olele/octree-rope/logging"
)

func setupLogging(ctx *cli.Context) (*zap.SugaredLogger, error) {
	level := ctx.String("log-level")
	if ctx.Bool("v") {
		level = "info"
	}
	if ctx.Bool("vv") {
		level = "debug"
	}
	return logging.NewLogger("octree-rope", level)
}
