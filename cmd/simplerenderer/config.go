package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ansipixels/simplerenderer/pkg/math3d"
	"github.com/ansipixels/simplerenderer/pkg/render"
)

// Config is the scene description read from --config. Angles are in degrees.
type Config struct {
	Viewport  ViewportConfig `yaml:"viewport"`
	Camera    CameraConfig   `yaml:"camera"`
	World     WorldConfig    `yaml:"world"`
	Normalize float32        `yaml:"normalize"` // Fit the cloud into a cube of this size; 0 keeps it as loaded
}

// ViewportConfig is the output size in cells.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CameraConfig places the camera. FOV is the vertical angle in degrees.
type CameraConfig struct {
	Eye    [3]float32 `yaml:"eye"`
	Target [3]float32 `yaml:"target"`
	Up     [3]float32 `yaml:"up"`
	FOV    float32    `yaml:"fov"`
	Near   float32    `yaml:"near"`
	Far    float32    `yaml:"far"`
}

// WorldConfig positions the cloud: scale, then rotate, then translate.
type WorldConfig struct {
	Scale     [3]float32     `yaml:"scale"`
	Rotate    RotationConfig `yaml:"rotate"`
	Translate [3]float32     `yaml:"translate"`
}

// RotationConfig is an axis-angle rotation with the angle in degrees.
type RotationConfig struct {
	Axis  [3]float32 `yaml:"axis"`
	Angle float32    `yaml:"angle"`
}

// DefaultConfig returns the scene used when no file is given.
func DefaultConfig() Config {
	return Config{
		Viewport: ViewportConfig{Width: 80, Height: 48},
		Camera: CameraConfig{
			Eye:  [3]float32{0, 0, -5},
			Up:   [3]float32{0, 1, 0},
			FOV:  60,
			Near: 0.1,
			Far:  100,
		},
		World: WorldConfig{
			Scale:  [3]float32{1, 1, 1},
			Rotate: RotationConfig{Axis: [3]float32{0, 1, 0}},
		},
		Normalize: 2,
	}
}

// LoadConfig reads a YAML scene file on top of DefaultConfig.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects scenes the math would silently turn into NaN or
// degenerate matrices.
func (c Config) Validate() error {
	var errs []error
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov must be in (0, 180) degrees, got %v", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("need 0 < near < far, got near=%v far=%v", c.Camera.Near, c.Camera.Far))
	}
	eye, target, up := vec(c.Camera.Eye, 1), vec(c.Camera.Target, 1), vec(c.Camera.Up, 0)
	forward := target.Sub(eye)
	if forward.Len() < math3d.NormalizeEpsilon {
		errs = append(errs, errors.New("camera eye and target coincide"))
	} else if up.Cross(forward.Normalized()).Len() < 1e-6 {
		errs = append(errs, errors.New("camera up is parallel to the view direction"))
	}
	if c.Normalize < 0 {
		errs = append(errs, fmt.Errorf("normalize must not be negative, got %v", c.Normalize))
	}
	return errors.Join(errs...)
}

func vec(a [3]float32, w float32) math3d.Vector {
	return math3d.V4(a[0], a[1], a[2], w)
}

func radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// WorldMatrix returns scale, then rotate, then translate.
func (c Config) WorldMatrix() math3d.Matrix {
	w := c.World
	m := math3d.Scale(w.Scale[0], w.Scale[1], w.Scale[2])
	if w.Rotate.Angle != 0 {
		a := w.Rotate.Axis
		m = m.Mul(math3d.Rotate(a[0], a[1], a[2], radians(w.Rotate.Angle)))
	}
	return m.Mul(math3d.Translate(w.Translate[0], w.Translate[1], w.Translate[2]))
}

// NewCamera builds the configured camera for the configured viewport.
func (c Config) NewCamera() *render.Camera {
	cam := render.NewCamera()
	cam.SetPosition(vec(c.Camera.Eye, 1))
	cam.LookAt(vec(c.Camera.Target, 1))
	cam.SetUp(vec(c.Camera.Up, 0))
	cam.SetFOV(radians(c.Camera.FOV))
	cam.SetAspectRatio(float32(c.Viewport.Width) / float32(c.Viewport.Height))
	cam.SetClipPlanes(c.Camera.Near, c.Camera.Far)
	return cam
}

// NewPipeline builds the camera and pipeline for this scene.
func (c Config) NewPipeline() *render.Pipeline {
	p := render.NewPipeline(c.NewCamera(), c.Viewport.Width, c.Viewport.Height)
	p.SetWorld(c.WorldMatrix())
	p.Update()
	return p
}
