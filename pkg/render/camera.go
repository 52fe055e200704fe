package render

import (
	"math"

	"github.com/ansipixels/simplerenderer/pkg/math3d"
)

// Camera describes where the scene is viewed from and how it is projected.
// The camera looks from Position towards Target; +Z is forward in view space.
type Camera struct {
	Position math3d.Vector
	Target   math3d.Vector
	Up       math3d.Vector

	FOV    float32 // Vertical field of view in radians
	Aspect float32 // Width / height
	Near   float32
	Far    float32
}

// NewCamera creates a camera 5 units in front of the origin looking at it.
func NewCamera() *Camera {
	return &Camera{
		Position: math3d.Point(0, 0, -5),
		Target:   math3d.Point(0, 0, 0),
		Up:       math3d.Direction(0, 1, 0),
		FOV:      math.Pi / 3,
		Aspect:   1,
		Near:     0.1,
		Far:      100,
	}
}

// SetPosition moves the camera, keeping its target.
func (c *Camera) SetPosition(p math3d.Vector) {
	c.Position = p
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vector) {
	c.Target = target
}

// SetUp sets the up direction. It must not be parallel to the view direction.
func (c *Camera) SetUp(up math3d.Vector) {
	c.Up = up
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float32) {
	c.FOV = fov
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float32) {
	c.Aspect = aspect
}

// SetClipPlanes sets the near and far depth planes. near must differ from far.
func (c *Camera) SetClipPlanes(near, far float32) {
	c.Near = near
	c.Far = far
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float32 {
	return c.Target.Sub(c.Position).Len()
}

// ViewMatrix returns the world -> view matrix.
func (c *Camera) ViewMatrix() math3d.Matrix {
	return math3d.LookAt(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the view -> clip matrix.
func (c *Camera) ProjectionMatrix() math3d.Matrix {
	return math3d.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}
