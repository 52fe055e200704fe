package models

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/ansipixels/simplerenderer/pkg/math3d"
)

// newPointDocument builds a document with one mesh of two points,
// optionally colored, referenced by a single node.
func newPointDocument(node *gltf.Node, withColor bool) *gltf.Document {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, []float32{
		1, 0, 0,
		0, 2, 0,
	})
	attrs := gltf.Attribute{gltf.POSITION: 0}

	doc := &gltf.Document{
		Accessors: []*gltf.Accessor{{
			BufferView:    gltf.Index(0),
			Count:         2,
			Type:          gltf.AccessorVec3,
			ComponentType: gltf.ComponentFloat,
		}},
		BufferViews: []*gltf.BufferView{{Buffer: 0, ByteLength: 24}},
	}

	if withColor {
		colorOffset := buf.Len()
		buf.Write([]byte{255, 0, 0, 255, 0, 255, 0, 255})
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
			Buffer:     0,
			ByteOffset: colorOffset,
			ByteLength: 8,
		})
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			BufferView:    gltf.Index(1),
			Count:         2,
			Type:          gltf.AccessorVec4,
			ComponentType: gltf.ComponentUbyte,
			Normalized:    true,
		})
		attrs[colorAttribute] = 1
	}

	doc.Buffers = []*gltf.Buffer{{ByteLength: buf.Len(), Data: buf.Bytes()}}
	doc.Meshes = []*gltf.Mesh{{
		Name:       "points",
		Primitives: []*gltf.Primitive{{Attributes: attrs, Mode: gltf.PrimitivePoints}},
	}}
	node.Mesh = gltf.Index(0)
	doc.Nodes = []*gltf.Node{node}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	return doc
}

func TestGLTFLoadPositions(t *testing.T) {
	doc := newPointDocument(&gltf.Node{
		Translation: [3]float64{10, 0, 0},
		Rotation:    [4]float64{0, 0, 0, 1},
		Scale:       [3]float64{1, 1, 1},
	}, false)

	cloud, err := NewGLTFLoader().LoadDocument(doc, "scene.glb")
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	if cloud.VertexCount() != 2 {
		t.Fatalf("VertexCount = %d, want 2", cloud.VertexCount())
	}
	if p := cloud.Vertices[0].Position; p != math3d.Point(11, 0, 0) {
		t.Errorf("vertex 0 = %v, want translated (11, 0, 0)", p)
	}
	if v := cloud.Vertices[1]; v.R != 1 || v.G != 1 || v.B != 1 {
		t.Errorf("expected default white, got %+v", v)
	}
}

func TestGLTFNodeTransformOrder(t *testing.T) {
	// Scale, then rotate 90 degrees about Z, then translate.
	s := math.Sqrt(0.5)
	doc := newPointDocument(&gltf.Node{
		Translation: [3]float64{0, 0, 5},
		Rotation:    [4]float64{0, 0, s, s},
		Scale:       [3]float64{2, 2, 2},
	}, false)

	cloud, err := NewGLTFLoader().LoadDocument(doc, "scene.glb")
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	p := cloud.Vertices[0].Position
	want := math3d.Point(0, 2, 5)
	if d := p.Sub(want).Len(); d > 1e-5 {
		t.Errorf("vertex 0 = %v, want %v", p, want)
	}
}

func TestGLTFNodeMatrix(t *testing.T) {
	doc := newPointDocument(&gltf.Node{
		Matrix: [16]float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, -3, 1,
		},
	}, false)

	cloud, err := NewGLTFLoader().LoadDocument(doc, "scene.glb")
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	if p := cloud.Vertices[1].Position; p != math3d.Point(0, 2, -3) {
		t.Errorf("vertex 1 = %v, want (0, 2, -3)", p)
	}
}

func TestGLTFLoadColors(t *testing.T) {
	doc := newPointDocument(&gltf.Node{Scale: [3]float64{1, 1, 1}}, true)

	cloud, err := NewGLTFLoader().LoadDocument(doc, "scene.glb")
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	if v := cloud.Vertices[0]; v.R != 1 || v.G != 0 || v.B != 0 {
		t.Errorf("vertex 0 color = %v %v %v, want red", v.R, v.G, v.B)
	}
	if v := cloud.Vertices[1]; v.R != 0 || v.G != 1 || v.B != 0 {
		t.Errorf("vertex 1 color = %v %v %v, want green", v.R, v.G, v.B)
	}
}

func TestGLTFAccessorOutOfBounds(t *testing.T) {
	doc := newPointDocument(&gltf.Node{}, false)
	doc.Accessors[0].Count = 100

	if _, err := NewGLTFLoader().LoadDocument(doc, "broken.glb"); err == nil {
		t.Error("expected error for accessor past end of buffer")
	}
}

func TestGLTFBadReferences(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(doc *gltf.Document)
	}{
		{"buffer view out of range", func(doc *gltf.Document) { doc.Accessors[0].BufferView = gltf.Index(5) }},
		{"no buffer views", func(doc *gltf.Document) { doc.BufferViews = nil }},
		{"buffer out of range", func(doc *gltf.Document) { doc.BufferViews[0].Buffer = 3 }},
		{"negative buffer", func(doc *gltf.Document) { doc.BufferViews[0].Buffer = -1 }},
		{"negative offset", func(doc *gltf.Document) { doc.BufferViews[0].ByteOffset = -12 }},
	}
	for _, tt := range tests {
		doc := newPointDocument(&gltf.Node{}, false)
		tt.corrupt(doc)
		if _, err := NewGLTFLoader().LoadDocument(doc, "broken.glb"); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
