package models

import (
	"fmt"
	"path/filepath"

	"fortio.org/log"
	"github.com/qmuntal/gltf"

	"github.com/ansipixels/simplerenderer/pkg/math3d"
)

// colorAttribute is the glTF vertex color attribute.
const colorAttribute = "COLOR_0"

var (
	identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	zeroMatrix     [16]float64
)

// GLTFLoader loads the vertex positions (and COLOR_0, when present) of every
// primitive in a GLTF/GLB scene as points, with node transforms applied.
type GLTFLoader struct {
	// Options
	DefaultColor [3]float32 // Color for primitives without COLOR_0
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		DefaultColor: [3]float32{1, 1, 1},
	}
}

// LoadGLB loads a GLTF or GLB file with default options.
func LoadGLB(path string) (*PointCloud, error) {
	return NewGLTFLoader().LoadFile(path)
}

// LoadFile loads a GLTF or GLB file.
func (l *GLTFLoader) LoadFile(path string) (*PointCloud, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.LoadDocument(doc, filepath.Base(path))
}

// LoadDocument extracts points from an already decoded document.
func (l *GLTFLoader) LoadDocument(doc *gltf.Document, name string) (*PointCloud, error) {
	cloud := NewPointCloud(name)

	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = *doc.Scene
		}
		if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
			return nil, fmt.Errorf("scene %d out of range", sceneIdx)
		}
		for _, nodeIdx := range doc.Scenes[sceneIdx].Nodes {
			if err := l.processNode(doc, nodeIdx, math3d.Identity(), cloud); err != nil {
				return nil, err
			}
		}
	} else {
		// No scenes defined, process all root nodes
		child := make(map[int]bool)
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				child[c] = true
			}
		}
		for i := range doc.Nodes {
			if child[i] {
				continue
			}
			if err := l.processNode(doc, i, math3d.Identity(), cloud); err != nil {
				return nil, err
			}
		}
	}

	cloud.CalculateBounds()
	log.Debugf("loaded %d points from %s", len(cloud.Vertices), name)

	return cloud, nil
}

// nodeTransform builds a node's local matrix: scale, then rotate, then translate.
func nodeTransform(node *gltf.Node) math3d.Matrix {
	if node.Matrix != identityMatrix && node.Matrix != zeroMatrix {
		return math3d.FromColumnMajor(node.Matrix[:])
	}

	local := math3d.Identity()
	if node.Scale != [3]float64{1, 1, 1} && node.Scale != [3]float64{0, 0, 0} {
		local = local.Mul(math3d.Scale(
			float32(node.Scale[0]),
			float32(node.Scale[1]),
			float32(node.Scale[2]),
		))
	}
	if node.Rotation != [4]float64{0, 0, 0, 1} {
		local = local.Mul(math3d.FromQuaternion(
			float32(node.Rotation[0]),
			float32(node.Rotation[1]),
			float32(node.Rotation[2]),
			float32(node.Rotation[3]),
		))
	}
	if node.Translation != [3]float64{0, 0, 0} {
		local = local.Mul(math3d.Translate(
			float32(node.Translation[0]),
			float32(node.Translation[1]),
			float32(node.Translation[2]),
		))
	}
	return local
}

// processNode recursively processes a node and its children, accumulating transforms.
func (l *GLTFLoader) processNode(doc *gltf.Document, nodeIdx int, parent math3d.Matrix, cloud *PointCloud) error {
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
		return fmt.Errorf("node %d out of range", nodeIdx)
	}
	node := doc.Nodes[nodeIdx]

	// Row vectors: the local transform applies before the parent's.
	world := nodeTransform(node).Mul(parent)

	if node.Mesh != nil {
		meshIdx := *node.Mesh
		if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
			return fmt.Errorf("node %d: mesh %d out of range", nodeIdx, meshIdx)
		}
		if err := l.processMesh(doc, doc.Meshes[meshIdx], world, cloud); err != nil {
			return fmt.Errorf("mesh %d: %w", meshIdx, err)
		}
	}

	for _, childIdx := range node.Children {
		if err := l.processNode(doc, childIdx, world, cloud); err != nil {
			return err
		}
	}
	return nil
}

// processMesh appends the points of every primitive of m, transformed.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, transform math3d.Matrix, cloud *PointCloud) error {
	for _, prim := range m.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readAccessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var colors [][4]float32
		if colIdx, ok := prim.Attributes[colorAttribute]; ok {
			colors, err = readAccessor(doc, colIdx)
			if err != nil {
				return fmt.Errorf("read colors: %w", err)
			}
			if len(colors) != len(positions) {
				log.Warnf("%s: %d colors for %d positions, ignoring colors", m.Name, len(colors), len(positions))
				colors = nil
			}
		}

		for i, p := range positions {
			v := Vertex{
				Position: transform.Apply(math3d.Point(p[0], p[1], p[2])),
				R:        l.DefaultColor[0],
				G:        l.DefaultColor[1],
				B:        l.DefaultColor[2],
			}
			if colors != nil {
				v.R, v.G, v.B = colors[i][0], colors[i][1], colors[i][2]
			}
			cloud.Vertices = append(cloud.Vertices, v)
		}
	}
	return nil
}

// readAccessor reads a VEC3 or VEC4 accessor as float quadruples.
// Float components are read as is; normalized unsigned integers are
// scaled to the 0-1 range.
func readAccessor(doc *gltf.Document, accessorIdx int) ([][4]float32, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	var comps int
	switch accessor.Type {
	case gltf.AccessorVec3:
		comps = 3
	case gltf.AccessorVec4:
		comps = 4
	default:
		return nil, fmt.Errorf("expected VEC3 or VEC4, got %v", accessor.Type)
	}

	var size int
	var read func(b []byte) float32
	switch accessor.ComponentType {
	case gltf.ComponentFloat:
		size, read = 4, readFloat32LE
	case gltf.ComponentUbyte:
		size = 1
		read = func(b []byte) float32 { return float32(b[0]) / 255 }
	case gltf.ComponentUshort:
		size = 2
		read = func(b []byte) float32 { return float32(uint16(b[0])|uint16(b[1])<<8) / 65535 }
	default:
		return nil, fmt.Errorf("unsupported component type: %v", accessor.ComponentType)
	}

	viewIdx := *accessor.BufferView
	if viewIdx < 0 || viewIdx >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", viewIdx)
	}
	bufferView := doc.BufferViews[viewIdx]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, fmt.Errorf("buffer %d has no data", bufferView.Buffer)
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	if start < 0 {
		return nil, fmt.Errorf("negative byte offset %d", start)
	}
	stride := bufferView.ByteStride
	if stride < 0 {
		return nil, fmt.Errorf("negative byte stride %d", stride)
	}
	if stride == 0 {
		stride = comps * size
	}
	if end := start + (accessor.Count-1)*stride + comps*size; accessor.Count > 0 && end > len(buffer.Data) {
		return nil, fmt.Errorf("accessor needs %d bytes, buffer has %d", end, len(buffer.Data))
	}

	result := make([][4]float32, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		result[i][3] = 1
		for j := range comps {
			result[i][j] = read(buffer.Data[offset+j*size:])
		}
	}
	return result, nil
}
