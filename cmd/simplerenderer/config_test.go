package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansipixels/simplerenderer/pkg/math3d"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeFile(t, "scene.yaml", `
viewport:
  width: 320
  height: 200
camera:
  eye: [0, 2, -10]
  fov: 45
world:
  rotate:
    axis: [0, 0, 1]
    angle: 90
normalize: 0
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Viewport.Width)
	assert.Equal(t, 200, cfg.Viewport.Height)
	assert.Equal(t, [3]float32{0, 2, -10}, cfg.Camera.Eye)
	assert.InDelta(t, 45, cfg.Camera.FOV, 1e-6)
	assert.InDelta(t, 90, cfg.World.Rotate.Angle, 1e-6)
	assert.Zero(t, cfg.Normalize)
	// Untouched keys keep their defaults.
	assert.InDelta(t, 0.1, cfg.Camera.Near, 1e-6)
	assert.Equal(t, [3]float32{1, 1, 1}, cfg.World.Scale)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "scene.yaml", "viewport:\n  depth: 3\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Viewport.Width = 0 }},
		{"negative height", func(c *Config) { c.Viewport.Height = -1 }},
		{"zero fov", func(c *Config) { c.Camera.FOV = 0 }},
		{"straight angle fov", func(c *Config) { c.Camera.FOV = 180 }},
		{"zero near", func(c *Config) { c.Camera.Near = 0 }},
		{"far equals near", func(c *Config) { c.Camera.Far = c.Camera.Near }},
		{"eye on target", func(c *Config) { c.Camera.Eye = c.Camera.Target }},
		{"up along view", func(c *Config) { c.Camera.Up = [3]float32{0, 0, 1} }},
		{"negative normalize", func(c *Config) { c.Normalize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viewport.Width = 0
	cfg.Camera.FOV = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "viewport")
	assert.Contains(t, err.Error(), "fov")
}

func TestWorldMatrixOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.World.Scale = [3]float32{2, 2, 2}
	cfg.World.Rotate = RotationConfig{Axis: [3]float32{0, 0, 1}, Angle: 90}
	cfg.World.Translate = [3]float32{10, 0, 0}

	// Scale (1,0,0) -> (2,0,0), rotate -> (0,2,0), translate -> (10,2,0).
	got := cfg.WorldMatrix().Apply(math3d.Point(1, 0, 0))
	assert.InDelta(t, 10, got.X, 1e-5)
	assert.InDelta(t, 2, got.Y, 1e-5)
	assert.InDelta(t, 0, got.Z, 1e-5)
	assert.InDelta(t, 1, got.W, 1e-5)
}

func TestWorldMatrixDefaultIsIdentity(t *testing.T) {
	assert.Equal(t, math3d.Identity(), DefaultConfig().WorldMatrix())
}

func TestNewCameraFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viewport = ViewportConfig{Width: 200, Height: 100}
	cam := cfg.NewCamera()
	assert.InDelta(t, 2, cam.Aspect, 1e-6)
	assert.InDelta(t, math.Pi/3, cam.FOV, 1e-6)
	assert.InDelta(t, 5, cam.Distance(), 1e-6)
}

func TestNewPipelineProjectsTargetToCenter(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.NewPipeline()
	x, y, depth, ok := p.ProjectPoint(math3d.Point(0, 0, 0))
	require.True(t, ok)
	assert.InDelta(t, float32(cfg.Viewport.Width)/2, x, 1e-4)
	assert.InDelta(t, float32(cfg.Viewport.Height)/2, y, 1e-4)
	assert.Greater(t, depth, float32(0))
	assert.Less(t, depth, float32(1))
}
