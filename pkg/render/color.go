// Package render projects point clouds through a world -> view -> projection
// pipeline into viewport coordinates.
package render

import (
	"fmt"

	"github.com/ansipixels/simplerenderer/pkg/math3d"
)

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RGB creates a Color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// Common colors
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// ColorFromFloat converts 0-1 components to a Color, clamping out of range values.
func ColorFromFloat(r, g, b float32) Color {
	return Color{channel(r), channel(g), channel(b)}
}

func channel(f float32) uint8 {
	if !(f > 0) { // also catches NaN
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(math3d.Clamp(int(f*255+0.5), 0, 255))
}

// String formats the color as "r g b".
func (c Color) String() string {
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}
