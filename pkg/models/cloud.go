// Package models provides vertex storage and point cloud loading.
package models

import (
	"github.com/ansipixels/simplerenderer/pkg/math3d"
)

// Vertex is a colored point. Colors are in the 0-1 range.
type Vertex struct {
	Position math3d.Vector
	R, G, B  float32
}

// NewVertex creates a vertex from the seven values of one septet.
func NewVertex(x, y, z, w, r, g, b float32) Vertex {
	return Vertex{
		Position: math3d.V4(x, y, z, w),
		R:        r,
		G:        g,
		B:        b,
	}
}

// PointCloud is a named list of vertices.
type PointCloud struct {
	Name     string
	Vertices []Vertex

	// Bounding box (calculated on load)
	BoundsMin math3d.Vector
	BoundsMax math3d.Vector
}

// NewPointCloud creates an empty point cloud.
func NewPointCloud(name string) *PointCloud {
	return &PointCloud{
		Name:      name,
		Vertices:  make([]Vertex, 0),
		BoundsMin: math3d.Point(0, 0, 0),
		BoundsMax: math3d.Point(0, 0, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (c *PointCloud) CalculateBounds() {
	if len(c.Vertices) == 0 {
		return
	}

	lo := c.Vertices[0].Position
	hi := c.Vertices[0].Position
	for _, v := range c.Vertices[1:] {
		p := v.Position
		lo = math3d.Point(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = math3d.Point(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	c.BoundsMin = math3d.Point(lo.X, lo.Y, lo.Z)
	c.BoundsMax = math3d.Point(hi.X, hi.Y, hi.Z)
}

// Center returns the center of the bounding box.
func (c *PointCloud) Center() math3d.Vector {
	return c.BoundsMin.Lerp(c.BoundsMax, 0.5)
}

// Size returns the dimensions of the bounding box.
func (c *PointCloud) Size() math3d.Vector {
	return c.BoundsMax.Sub(c.BoundsMin)
}

// VertexCount returns the number of vertices.
func (c *PointCloud) VertexCount() int {
	return len(c.Vertices)
}

// GetVertex returns the position and color of vertex i.
// Implements render.PointSource.
func (c *PointCloud) GetVertex(i int) (pos math3d.Vector, r, g, b float32) {
	v := c.Vertices[i]
	return v.Position, v.R, v.G, v.B
}

// Transform applies a matrix to every vertex position.
func (c *PointCloud) Transform(m math3d.Matrix) {
	for i := range c.Vertices {
		c.Vertices[i].Position = m.Apply(c.Vertices[i].Position)
	}
	c.CalculateBounds()
}

// Normalize centers the cloud on the origin and scales its largest
// dimension to size. Empty or flat clouds are only centered.
func (c *PointCloud) Normalize(size float32) {
	c.CalculateBounds()
	center := c.Center()
	dims := c.Size()
	m := math3d.Translate(-center.X, -center.Y, -center.Z)
	if maxDim := max(dims.X, dims.Y, dims.Z); maxDim > 0 {
		s := size / maxDim
		m = m.Mul(math3d.Scale(s, s, s))
	}
	c.Transform(m)
}

// Clone creates a deep copy of the point cloud.
func (c *PointCloud) Clone() *PointCloud {
	clone := &PointCloud{
		Name:      c.Name,
		Vertices:  make([]Vertex, len(c.Vertices)),
		BoundsMin: c.BoundsMin,
		BoundsMax: c.BoundsMax,
	}
	copy(clone.Vertices, c.Vertices)
	return clone
}
