package cmd

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/o0olele/octree-rope/builder"
	"github.com/o0olele/octree-rope/geometry"
	"github.com/o0olele/octree-rope/math32"
	"github.com/o0olele/octree-rope/query"
)

// VerifyFlags configure the verify command.
func VerifyFlags() []cli.Flag {
	return append(BuildFlags(),
		&cli.IntFlag{
			Name:  "rays",
			Value: 1000,
			Usage: "number of random rays to cast",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "random seed",
		},
	)
}

// Verify casts random rays through the mesh bounds and checks every octree
// answer against a test of all triangles.
func Verify(ctx *cli.Context) error {
	logger, err := setupLogging(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	m, err := meshArg(ctx)
	if err != nil {
		return err
	}
	o, err := builder.NewBuilder(m, ctx.Int("min-tris"), ctx.Int("max-passes"), logger).Build()
	if err != nil {
		return err
	}

	bounds := o.Bounds()
	center := bounds.Center()
	reach := math32.Max(bounds.Extents().Length(), 1)
	rng := rand.New(rand.NewSource(ctx.Int64("seed")))
	point := func(scale float32) math32.Vector3 {
		return math32.Vector3{
			X: center.X + (rng.Float32()*2-1)*scale,
			Y: center.Y + (rng.Float32()*2-1)*scale,
			Z: center.Z + (rng.Float32()*2-1)*scale,
		}
	}

	rays := ctx.Int("rays")
	mismatches, hits := 0, 0
	for i := 0; i < rays; i++ {
		origin := point(reach)
		r := geometry.NewRay(origin, point(reach/2).Sub(origin))
		if !r.IsValid() {
			continue
		}
		got, gotFound := o.FindNearestHit(r)
		want, wantFound := query.BruteForce(m, r)
		if gotFound {
			hits++
		}
		if gotFound != wantFound || (gotFound && got.Distance != want.Distance) {
			mismatches++
			logger.Warnw("mismatch", "origin", r.Origin.String(), "direction", r.Dir.String(), "octree", got, "brute_force", want)
		}
	}

	fmt.Fprintf(ctx.App.Writer, "%d rays, %d hits, %d mismatches\n", rays, hits, mismatches)
	if mismatches > 0 {
		return errors.Errorf("%d of %d rays disagree with brute force", mismatches, rays)
	}
	return nil
}
