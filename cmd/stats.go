package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/o0olele/octree-rope/builder"
	"github.com/o0olele/octree-rope/octree"
)

// Stats builds the octree of a mesh and prints its per-depth shape.
func Stats(ctx *cli.Context) error {
	logger, err := setupLogging(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	m, err := meshArg(ctx)
	if err != nil {
		return err
	}
	b := builder.NewBuilder(m, ctx.Int("min-tris"), ctx.Int("max-passes"), logger)
	o, err := b.Build()
	if err != nil {
		return err
	}

	displayOctreeStats(ctx, o.Stats(), b.Passes())
	displayMemoryUsage(ctx, b.GetMemoryUsage())
	return nil
}

func displayOctreeStats(ctx *cli.Context, stats octree.Stats, passes int) {
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Depth", "Nodes", "Leaves", "Triangle refs"})
	for _, level := range stats.Levels {
		table.Append([]string{
			fmt.Sprintf("%d", level.Depth),
			fmt.Sprintf("%d", level.Nodes),
			fmt.Sprintf("%d", level.Leaves),
			fmt.Sprintf("%d", level.TriangleRefs),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%d passes", passes),
		fmt.Sprintf("%d", stats.Nodes),
		fmt.Sprintf("%d (%d empty)", stats.Leaves, stats.EmptyLeaves),
		fmt.Sprintf("%d / %d tris", stats.TriangleRefs, stats.Triangles),
	})
	table.Render()
}

func displayMemoryUsage(ctx *cli.Context, usage builder.BuildMemoryStats) {
	fmt.Fprintf(ctx.App.Writer, "Memory: heap %d KiB of %d KiB, %d KiB allocated in total, %d GC cycles\n",
		usage.HeapAlloc>>10, usage.HeapSys>>10, usage.TotalAlloc>>10, usage.NumGC)
}
