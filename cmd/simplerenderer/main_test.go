package main

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansipixels/simplerenderer/pkg/render"
)

// Four colored points spanning a unit cube around the origin.
const cubePoints = `
-0.5 -0.5 -0.5 1  1 0 0
 0.5 -0.5 -0.5 1  0 1 0
 0.5  0.5  0.5 1  0 0 1
-0.5  0.5  0.5 1  1 1 1
`

func dataLines(out string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		if line := sc.Text(); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestRunInfo(t *testing.T) {
	path := writeFile(t, "cube.pts", cubePoints)
	var buf bytes.Buffer
	require.NoError(t, runInfo(&buf, path))

	out := buf.String()
	assert.Contains(t, out, "Format:     POINTS")
	assert.Contains(t, out, "Vertices:   4")
	assert.Contains(t, out, "Bounds Min: (-0.500, -0.500, -0.500)")
	assert.Contains(t, out, "Bounds Max: (0.500, 0.500, 0.500)")
	assert.Contains(t, out, "Dimensions: 1.000 x 1.000 x 1.000")
	assert.Contains(t, out, "Center:     (0.000, 0.000, 0.000)")
}

func TestRunInfoMissingFile(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, runInfo(&buf, "does-not-exist.pts"))
}

func TestRunInfoUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "cube.ply", cubePoints)
	var buf bytes.Buffer
	assert.Error(t, runInfo(&buf, path))
}

func TestRunProject(t *testing.T) {
	path := writeFile(t, "cube.pts", cubePoints)
	cfg := DefaultConfig()
	var buf bytes.Buffer
	require.NoError(t, runProject(&buf, path, cfg))

	out := buf.String()
	assert.Contains(t, out, "visible=4 total=4")
	lines := dataLines(out)
	require.Len(t, lines, 4)
	// Input order is kept and colors are carried through.
	assert.True(t, strings.HasPrefix(lines[0], "0 "))
	assert.True(t, strings.HasSuffix(lines[0], " 255 0 0"))
	assert.True(t, strings.HasPrefix(lines[3], "3 "))
	assert.True(t, strings.HasSuffix(lines[3], " 255 255 255"))

	// The cell columns are the viewport position truncated into the grid.
	for _, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 9)
		x, err := strconv.ParseFloat(fields[1], 64)
		require.NoError(t, err)
		col, err := strconv.Atoi(fields[3])
		require.NoError(t, err)
		row, err := strconv.Atoi(fields[4])
		require.NoError(t, err)
		assert.InDelta(t, x, float64(col), 1, line)
		assert.True(t, col >= 0 && col < cfg.Viewport.Width, line)
		assert.True(t, row >= 0 && row < cfg.Viewport.Height, line)
	}
}

func TestRunProjectCulledByFarPlane(t *testing.T) {
	path := writeFile(t, "cube.pts", cubePoints)
	cfg := DefaultConfig()
	cfg.Camera.Far = 1
	var buf bytes.Buffer
	require.NoError(t, runProject(&buf, path, cfg))
	assert.Contains(t, buf.String(), "visible=0 total=4")
	assert.Empty(t, dataLines(buf.String()))
}

func TestRunOrbit(t *testing.T) {
	path := writeFile(t, "cube.pts", cubePoints)
	cfg := DefaultConfig()
	var buf bytes.Buffer
	require.NoError(t, runOrbit(&buf, path, cfg, 10, 30, 0.3))

	lines := dataLines(buf.String())
	require.Len(t, lines, 10)
	for i, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 7, "frame %d", i)
		// The cloud stays in front of the orbiting camera.
		assert.Equal(t, "4", fields[2], "frame %d", i)
	}
}

func parseFloats(t *testing.T, fields []string) []float64 {
	t.Helper()
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		require.NoError(t, err, f)
		out[i] = v
	}
	return out
}

func TestRunOrbitStartsAtConfiguredEye(t *testing.T) {
	path := writeFile(t, "cube.pts", cubePoints)
	cfg := DefaultConfig()
	cfg.Camera.Eye = [3]float32{5, 0, 0}
	require.NoError(t, cfg.Validate())

	var buf bytes.Buffer
	require.NoError(t, runOrbit(&buf, path, cfg, 3, 30, 0))
	lines := dataLines(buf.String())
	require.Len(t, lines, 3)

	// Without an impulse every frame matches what project sees.
	cloud, err := prepare(path, cfg)
	require.NoError(t, err)
	frags := cfg.NewPipeline().Project(cloud)
	minX, minY, maxX, maxY, ok := render.Bounds(frags)
	require.True(t, ok)
	want := []float64{float64(minX), float64(minY), float64(maxX), float64(maxY)}

	for i, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 7)
		assert.Equal(t, strconv.Itoa(len(frags)), fields[2], "frame %d", i)
		assert.InDeltaSlice(t, want, parseFloats(t, fields[3:]), 0.02, "frame %d", i)
	}
}

func TestRunOrbitRejectsBadArgs(t *testing.T) {
	path := writeFile(t, "cube.pts", cubePoints)
	var buf bytes.Buffer
	assert.Error(t, runOrbit(&buf, path, DefaultConfig(), 0, 30, 0.1))
	assert.Error(t, runOrbit(&buf, path, DefaultConfig(), 10, 0, 0.1))
}
