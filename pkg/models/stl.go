package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/log"

	"github.com/ansipixels/simplerenderer/pkg/math3d"
)

// STLLoader loads the triangle corners of STL (stereolithography) files,
// ASCII or binary, as points.
type STLLoader struct {
	// Options
	NoDedupe      bool // If true, keep every triangle corner even when positions repeat
	ColorByNormal bool // If true, color each point by the absolute facet normal
}

// NewSTLLoader creates a new STL loader with default settings.
func NewSTLLoader() *STLLoader {
	return &STLLoader{}
}

// LoadFile loads an STL file from disk.
func (l *STLLoader) LoadFile(path string) (*PointCloud, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file: %w", err)
	}

	return l.LoadBytes(data, filepath.Base(path))
}

// LoadBytes parses STL from a byte slice.
func (l *STLLoader) LoadBytes(data []byte, name string) (*PointCloud, error) {
	if isBinarySTL(data) {
		return l.loadBinary(data, name)
	}
	return l.loadASCII(data, name)
}

// Load parses STL from a reader.
// Note: This reads the entire content into memory to detect format.
func (l *STLLoader) Load(r io.Reader, name string) (*PointCloud, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	return l.LoadBytes(data, name)
}

// isBinarySTL detects if the data is binary STL format.
// Binary STL starts with 80-byte header, then 4-byte triangle count.
// ASCII STL starts with "solid", but so do some binary headers, in which
// case the triangle count has to match the file size.
func isBinarySTL(data []byte) bool {
	if len(data) < 84 {
		return false
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("solid")) {
		triCount := binary.LittleEndian.Uint32(data[80:84])
		return uint64(len(data)) == 84+uint64(triCount)*50
	}

	return true
}

// stlBuilder accumulates corners into a cloud, merging repeated positions.
type stlBuilder struct {
	loader *STLLoader
	cloud  *PointCloud
	seen   map[math3d.Vector]struct{}
}

func (l *STLLoader) newBuilder(name string) *stlBuilder {
	return &stlBuilder{
		loader: l,
		cloud:  NewPointCloud(name),
		seen:   make(map[math3d.Vector]struct{}),
	}
}

func (b *stlBuilder) add(pos, normal math3d.Vector) {
	if !b.loader.NoDedupe {
		if _, exists := b.seen[pos]; exists {
			return
		}
		b.seen[pos] = struct{}{}
	}
	r, g, bl := float32(1), float32(1), float32(1)
	if b.loader.ColorByNormal {
		n := normal.Normalized()
		r, g, bl = abs32(n.X), abs32(n.Y), abs32(n.Z)
	}
	b.cloud.Vertices = append(b.cloud.Vertices, Vertex{Position: pos, R: r, G: g, B: bl})
}

func abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

// loadBinary parses binary STL format.
func (l *STLLoader) loadBinary(data []byte, name string) (*PointCloud, error) {
	if len(data) < 84 {
		return nil, fmt.Errorf("binary STL too short: %d bytes", len(data))
	}

	// Skip 80-byte header
	triCount := binary.LittleEndian.Uint32(data[80:84])

	expectedSize := 84 + uint64(triCount)*50
	if uint64(len(data)) < expectedSize {
		return nil, fmt.Errorf("binary STL truncated: expected %d bytes, got %d", expectedSize, len(data))
	}

	b := l.newBuilder(name)

	offset := 84
	for range triCount {
		normal := readVec3LE(data[offset:], 0)
		offset += 12

		for range 3 {
			b.add(readVec3LE(data[offset:], 1), normal)
			offset += 12
		}

		// Skip 2-byte attribute byte count
		offset += 2
	}

	b.cloud.CalculateBounds()
	log.Debugf("loaded %d points from %d binary STL triangles", len(b.cloud.Vertices), triCount)

	return b.cloud, nil
}

// readVec3LE reads three little-endian float32 values.
func readVec3LE(data []byte, w float32) math3d.Vector {
	return math3d.V4(
		readFloat32LE(data[0:]),
		readFloat32LE(data[4:]),
		readFloat32LE(data[8:]),
		w,
	)
}

// readFloat32LE reads a little-endian float32 from a byte slice.
func readFloat32LE(data []byte) float32 {
	bits := binary.LittleEndian.Uint32(data)
	return math.Float32frombits(bits)
}

// loadASCII parses ASCII STL format.
func (l *STLLoader) loadASCII(data []byte, name string) (*PointCloud, error) {
	b := l.newBuilder(name)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	var currentNormal math3d.Vector
	inFacet := false
	inLoop := false

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				b.cloud.Name = fields[1]
			}

		case "facet":
			if len(fields) >= 5 && strings.ToLower(fields[1]) == "normal" {
				n, err := parseVec3(fields[2:5], 0)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid normal: %w", lineNum, err)
				}
				currentNormal = n
			}
			inFacet = true

		case "outer":
			if len(fields) >= 2 && strings.ToLower(fields[1]) == "loop" {
				inLoop = true
			}

		case "vertex":
			if !inFacet || !inLoop {
				return nil, fmt.Errorf("line %d: vertex outside facet/loop", lineNum)
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			pos, err := parseVec3(fields[1:4], 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			b.add(pos, currentNormal)

		case "endloop":
			inLoop = false

		case "endfacet":
			inFacet = false
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	b.cloud.CalculateBounds()

	return b.cloud, nil
}

func parseVec3(fields []string, w float32) (math3d.Vector, error) {
	var v [3]float32
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math3d.Vector{}, err
		}
		v[i] = float32(f)
	}
	return math3d.V4(v[0], v[1], v[2], w), nil
}

// LoadSTL is a convenience function to load an STL file with default settings.
func LoadSTL(path string) (*PointCloud, error) {
	return NewSTLLoader().LoadFile(path)
}
