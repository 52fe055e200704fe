package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format names a point source file type.
type Format string

// Supported formats.
const (
	FormatPoints Format = "points"
	FormatOBJ    Format = "obj"
	FormatSTL    Format = "stl"
	FormatGLTF   Format = "gltf"
	FormatPCD    Format = "pcd"
)

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pts", ".txt", ".xyz":
		return FormatPoints, nil
	case ".obj":
		return FormatOBJ, nil
	case ".stl":
		return FormatSTL, nil
	case ".glb", ".gltf":
		return FormatGLTF, nil
	case ".pcd":
		return FormatPCD, nil
	default:
		return "", fmt.Errorf("%w: %q (use .pts, .obj, .stl, .glb or .pcd)", ErrUnsupportedFormat, ext)
	}
}

// Load reads a point cloud from path, picking the loader by extension.
func Load(path string) (*PointCloud, Format, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, "", err
	}

	var cloud *PointCloud
	switch format {
	case FormatPoints:
		cloud, err = LoadPoints(path)
	case FormatOBJ:
		cloud, err = LoadOBJ(path)
	case FormatSTL:
		cloud, err = LoadSTL(path)
	case FormatGLTF:
		cloud, err = LoadGLB(path)
	case FormatPCD:
		cloud, err = LoadPCD(path)
	}
	if err != nil {
		return nil, format, fmt.Errorf("load %s: %w", format, err)
	}
	return cloud, format, nil
}
