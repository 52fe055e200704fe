package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"fortio.org/log"
)

// septet is the number of floats per vertex: x y z w r g b.
const septet = 7

// ErrPartialVertex is returned when the input ends in the middle of a vertex.
var ErrPartialVertex = errors.New("input ends inside a vertex")

// PointsLoader reads flat streams of whitespace-separated floats, seven per
// vertex (x y z w r g b), until end of input. Line breaks carry no meaning.
type PointsLoader struct {
	// Options
	AllowPartial bool // If true, drop a trailing incomplete vertex instead of failing
}

// NewPointsLoader creates a new loader with default settings.
func NewPointsLoader() *PointsLoader {
	return &PointsLoader{}
}

// LoadFile loads a point file from disk.
func (l *PointsLoader) LoadFile(path string) (*PointCloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open point file: %w", err)
	}
	defer f.Close()

	return l.Load(f, filepath.Base(path))
}

// Load parses vertices from a reader.
func (l *PointsLoader) Load(r io.Reader, name string) (*PointCloud, error) {
	cloud := NewPointCloud(name)

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var vals [septet]float32
	n := 0
	token := 0
	for scanner.Scan() {
		token++
		f, err := strconv.ParseFloat(scanner.Text(), 32)
		if err != nil {
			return nil, fmt.Errorf("token %d: invalid float %q: %w", token, scanner.Text(), err)
		}
		vals[n] = float32(f)
		n++
		if n == septet {
			cloud.Vertices = append(cloud.Vertices,
				NewVertex(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6]))
			n = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading points: %w", err)
	}

	if n != 0 {
		if !l.AllowPartial {
			return nil, fmt.Errorf("%w: %d trailing values after vertex %d", ErrPartialVertex, n, len(cloud.Vertices))
		}
		log.Warnf("%s: dropping %d trailing values", name, n)
	}

	cloud.CalculateBounds()
	log.Debugf("loaded %d vertices from %s", len(cloud.Vertices), name)

	return cloud, nil
}

// LoadPoints is a convenience function to load a point file with default settings.
func LoadPoints(path string) (*PointCloud, error) {
	return NewPointsLoader().LoadFile(path)
}
