package models

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/log"
	"github.com/seqsense/pcgol/pc"

	"github.com/ansipixels/simplerenderer/pkg/math3d"
)

// PCDLoader loads the x, y, z fields of Point Cloud Data files.
type PCDLoader struct {
	// Options
	DefaultColor [3]float32 // PCD color fields are not decoded; every point gets this
}

// NewPCDLoader creates a new PCD loader with default settings.
func NewPCDLoader() *PCDLoader {
	return &PCDLoader{
		DefaultColor: [3]float32{1, 1, 1},
	}
}

// LoadFile loads a PCD file from disk.
func (l *PCDLoader) LoadFile(path string) (*PointCloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PCD file: %w", err)
	}
	defer f.Close()

	return l.Load(f, filepath.Base(path))
}

// Load parses a PCD from a reader.
func (l *PCDLoader) Load(r io.Reader, name string) (*PointCloud, error) {
	pp, err := pc.Unmarshal(r)
	if err != nil {
		return nil, fmt.Errorf("decode pcd: %w", err)
	}

	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, fmt.Errorf("pcd has no xyz fields: %w", err)
	}

	cloud := NewPointCloud(name)
	cloud.Vertices = make([]Vertex, 0, pp.Points)
	for ; it.IsValid(); it.Incr() {
		p := it.Vec3()
		cloud.Vertices = append(cloud.Vertices, Vertex{
			Position: math3d.Point(p[0], p[1], p[2]),
			R:        l.DefaultColor[0],
			G:        l.DefaultColor[1],
			B:        l.DefaultColor[2],
		})
	}

	cloud.CalculateBounds()
	log.Debugf("loaded %d points from %s", len(cloud.Vertices), name)

	return cloud, nil
}

// LoadPCD is a convenience function to load a PCD file with default settings.
func LoadPCD(path string) (*PointCloud, error) {
	return NewPCDLoader().LoadFile(path)
}
