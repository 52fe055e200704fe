package render

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/ansipixels/simplerenderer/pkg/math3d"
)

// Orbit circles a camera around a target about the Y axis. Angular velocity
// decays towards zero through a critically damped spring.
type Orbit struct {
	Yaw      float64 // Radians
	Velocity float64 // Radians per frame
	Target   math3d.Vector
	Radius   float32
	Height   float32

	spring harmonica.Spring
	accel  float64 // spring velocity of Velocity
	home   float64 // Yaw restored by Reset
}

// NewOrbit creates an orbit of the given radius around target, updated fps
// times per second.
func NewOrbit(fps int, target math3d.Vector, radius float32) *Orbit {
	return &Orbit{
		Target: target,
		Radius: radius,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// NewOrbitFrom creates an orbit around target that starts at eye: the
// horizontal distance becomes Radius, the vertical offset Height, and Yaw is
// chosen so Position returns eye.
func NewOrbitFrom(fps int, target, eye math3d.Vector) *Orbit {
	offset := eye.Sub(target)
	o := NewOrbit(fps, target, math3d.Direction(offset.X, 0, offset.Z).Len())
	o.Height = offset.Y
	// Rotating (0, 0, -R) about Y by yaw gives (-R sin yaw, 0, -R cos yaw).
	o.Yaw = math.Atan2(float64(-offset.X), float64(-offset.Z))
	o.home = o.Yaw
	return o
}

// Impulse adds angular velocity.
func (o *Orbit) Impulse(v float64) {
	o.Velocity += v
}

// Update advances one frame. With damping off the orbit spins forever.
func (o *Orbit) Update(damping bool) {
	o.Yaw += o.Velocity
	if damping {
		o.Velocity, o.accel = o.spring.Update(o.Velocity, o.accel, 0)
	}
}

// Reset stops the orbit and returns it to its starting yaw.
func (o *Orbit) Reset() {
	o.Yaw, o.Velocity, o.accel = o.home, 0, 0
}

// Position returns the camera position for the current yaw. At yaw 0 the
// camera sits Radius in front of the target on -Z, raised by Height.
func (o *Orbit) Position() math3d.Vector {
	offset := math3d.Point(0, o.Height, -o.Radius)
	rot := math3d.Rotate(0, 1, 0, float32(o.Yaw))
	return o.Target.Add(rot.Apply(offset))
}

// Apply moves cam onto the orbit, looking at the target.
func (o *Orbit) Apply(cam *Camera) {
	cam.SetPosition(o.Position())
	cam.LookAt(o.Target)
}
