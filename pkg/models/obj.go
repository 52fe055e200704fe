package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/log"
)

// OBJLoader loads the vertices of Wavefront OBJ files as points.
//
// Accepted vertex forms are "v x y z", "v x y z w" and the common color
// extension "v x y z r g b". Faces and every other directive are skipped.
type OBJLoader struct {
	// Options
	DefaultColor [3]float32 // Color for vertices without one
}

// NewOBJLoader creates a new OBJ loader with default settings.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		DefaultColor: [3]float32{1, 1, 1},
	}
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*PointCloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	return l.Load(f, filepath.Base(path))
}

// Load parses an OBJ from a reader.
func (l *OBJLoader) Load(r io.Reader, name string) (*PointCloud, error) {
	cloud := NewPointCloud(name)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	skipped := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := l.parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			cloud.Vertices = append(cloud.Vertices, v)

		case "o", "g": // Object/group name (use as cloud name)
			if len(fields) > 1 {
				cloud.Name = fields[1]
			}

		default:
			skipped++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	cloud.CalculateBounds()
	log.Debugf("loaded %d vertices from %s (%d other directives skipped)", len(cloud.Vertices), name, skipped)

	return cloud, nil
}

func (l *OBJLoader) parseVertex(fields []string) (Vertex, error) {
	if len(fields) < 3 {
		return Vertex{}, fmt.Errorf("invalid vertex (need x y z)")
	}
	vals := make([]float32, len(fields))
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Vertex{}, fmt.Errorf("invalid vertex value %d: %w", i+1, err)
		}
		vals[i] = float32(f)
	}

	c := l.DefaultColor
	w := float32(1)
	switch len(vals) {
	case 3:
	case 4:
		w = vals[3]
	case 6:
		c = [3]float32{vals[3], vals[4], vals[5]}
	default:
		return Vertex{}, fmt.Errorf("invalid vertex: %d values", len(vals))
	}
	return NewVertex(vals[0], vals[1], vals[2], w, c[0], c[1], c[2]), nil
}

// LoadOBJ is a convenience function to load an OBJ file with default settings.
func LoadOBJ(path string) (*PointCloud, error) {
	return NewOBJLoader().LoadFile(path)
}
