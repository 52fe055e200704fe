package render

import (
	"github.com/dgravesa/go-parallel/parallel"

	"github.com/ansipixels/simplerenderer/pkg/math3d"
)

// DefaultParallelThreshold is the vertex count from which Project fans out
// across goroutines.
const DefaultParallelThreshold = 4096

// PointSource provides colored points to project.
// Implemented by models.PointCloud.
type PointSource interface {
	VertexCount() int
	GetVertex(i int) (pos math3d.Vector, r, g, b float32)
}

// Fragment is a projected point that landed inside the view volume.
type Fragment struct {
	Index int     // Source vertex index
	X, Y  float32 // Viewport position, origin top-left, y down
	Depth float32 // 0 at the near plane, 1 at the far plane
	Color Color
}

// Pixel returns the viewport cell containing the fragment, clamped to a
// w x h grid (a point exactly on the right or bottom edge stays inside).
func (f Fragment) Pixel(w, h int) (int, int) {
	return math3d.Clamp(int(f.X), 0, w-1), math3d.Clamp(int(f.Y), 0, h-1)
}

// Pipeline composes world, view and projection matrices and maps points
// into viewport coordinates.
type Pipeline struct {
	Camera            *Camera
	Transform         math3d.Transform
	ParallelThreshold int
}

// NewPipeline creates a pipeline for a width x height viewport with an
// identity world matrix.
func NewPipeline(camera *Camera, width, height int) *Pipeline {
	p := &Pipeline{
		Camera:            camera,
		Transform:         math3d.NewTransform(float32(width), float32(height)),
		ParallelThreshold: DefaultParallelThreshold,
	}
	p.Update()
	return p
}

// SetWorld sets the model -> world matrix. Call Update afterwards.
func (p *Pipeline) SetWorld(m math3d.Matrix) {
	p.Transform.World = m
}

// Update refreshes the view and projection matrices from the camera and
// recomputes Combined = World · View · Projection.
func (p *Pipeline) Update() {
	t := &p.Transform
	t.View = p.Camera.ViewMatrix()
	t.Projection = p.Camera.ProjectionMatrix()
	t.Combined = t.World.Mul(t.View).Mul(t.Projection)
}

// ProjectPoint maps v to viewport coordinates. ok is false for points
// behind the camera or outside the view volume.
func (p *Pipeline) ProjectPoint(v math3d.Vector) (x, y, depth float32, ok bool) {
	clip := p.Transform.Combined.Apply(v)
	if !(clip.W > 0) {
		return 0, 0, 0, false
	}
	n := clip.PerspectiveDivide()
	if !inRange(n.X, -1, 1) || !inRange(n.Y, -1, 1) || !inRange(n.Z, 0, 1) {
		return 0, 0, 0, false
	}
	x = (n.X + 1) * 0.5 * p.Transform.W
	y = (1 - n.Y) * 0.5 * p.Transform.H
	return x, y, n.Z, true
}

// inRange is false for NaN.
func inRange(f, lo, hi float32) bool {
	return f >= lo && f <= hi
}

// Project projects every point of src and returns the visible ones in
// source order. Large sources are projected in parallel.
func (p *Pipeline) Project(src PointSource) []Fragment {
	n := src.VertexCount()
	frags := make([]Fragment, n)
	visible := make([]bool, n)

	project := func(i, _ int) {
		pos, r, g, b := src.GetVertex(i)
		x, y, depth, ok := p.ProjectPoint(pos)
		if !ok {
			return
		}
		frags[i] = Fragment{Index: i, X: x, Y: y, Depth: depth, Color: ColorFromFloat(r, g, b)}
		visible[i] = true
	}

	if n >= p.ParallelThreshold {
		parallel.For(n, project)
	} else {
		for i := range n {
			project(i, 0)
		}
	}

	out := make([]Fragment, 0, n)
	for i, f := range frags {
		if visible[i] {
			out = append(out, f)
		}
	}
	return out
}

// Bounds returns the viewport bounding box of frags. ok is false when
// frags is empty.
func Bounds(frags []Fragment) (minX, minY, maxX, maxY float32, ok bool) {
	if len(frags) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = frags[0].X, frags[0].Y
	maxX, maxY = minX, minY
	for _, f := range frags[1:] {
		minX, maxX = min(minX, f.X), max(maxX, f.X)
		minY, maxY = min(minY, f.Y), max(maxY, f.Y)
	}
	return minX, minY, maxX, maxY, true
}
