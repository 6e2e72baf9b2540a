package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const cubeOBJ = `# unit cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 1 4 3 2
f 5 6 7 8
f 1 2 6 5
f 4 8 7 3
f 1 5 8 4
f 2 3 7 6
`

func writeCube(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "cube.obj")
	require.NoError(t, os.WriteFile(path, []byte(cubeOBJ), 0o600))
	return path
}

func testApp(out *bytes.Buffer) *cli.App {
	return &cli.App{
		Name:   "octree-rope",
		Writer: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "v"},
			&cli.BoolFlag{Name: "vv"},
			&cli.StringFlag{Name: "log-level", Value: "error"},
		},
		Commands: []*cli.Command{
			{Name: "raycast", Flags: append(BuildFlags(), RayFlags()...), Action: Raycast},
			{Name: "stats", Flags: BuildFlags(), Action: Stats},
			{Name: "verify", Flags: VerifyFlags(), Action: Verify},
		},
	}
}

func TestRaycastCommand(t *testing.T) {
	var out bytes.Buffer
	err := testApp(&out).Run([]string{"octree-rope", "raycast",
		"--origin", "0.3,0.6,-2", "--direction", "0,0,1", writeCube(t)})
	require.NoError(t, err)

	var resp struct {
		Found bool `json:"found"`
		Hit   struct {
			Distance float32 `json:"distance"`
		} `json:"hit"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.InDelta(t, 2, resp.Hit.Distance, 1e-5)
}

func TestRaycastCommandTrace(t *testing.T) {
	var out bytes.Buffer
	err := testApp(&out).Run([]string{"octree-rope", "raycast", "--trace",
		"--origin", "0.3,0.6,-2", "--direction", "0,0,1", writeCube(t)})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"leaves"`)
}

func TestRaycastCommandErrors(t *testing.T) {
	var out bytes.Buffer
	err := testApp(&out).Run([]string{"octree-rope", "raycast", "--origin", "0,0", "--direction", "0,0,1", writeCube(t)})
	assert.ErrorContains(t, err, "--origin needs 3 components")

	err = testApp(&out).Run([]string{"octree-rope", "raycast", "--origin", "0,0,0", "--direction", "0,0,1"})
	assert.ErrorContains(t, err, "missing mesh file argument")

	err = testApp(&out).Run([]string{"octree-rope", "raycast", "--origin", "0,0,0", "--direction", "0,0,0", writeCube(t)})
	assert.Error(t, err)
}

func TestStatsCommand(t *testing.T) {
	var out bytes.Buffer
	err := testApp(&out).Run([]string{"octree-rope", "stats", "--max-passes", "2", writeCube(t)})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Triangle refs")
	assert.Contains(t, out.String(), "/ 12 tris")
	assert.Contains(t, out.String(), "Memory: heap ")
	assert.Contains(t, out.String(), "GC cycles")
}

func TestVerifyCommand(t *testing.T) {
	var out bytes.Buffer
	err := testApp(&out).Run([]string{"octree-rope", "-vv", "verify", "--rays", "300", writeCube(t)})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "300 rays")
	assert.Contains(t, out.String(), "0 mismatches")
}
