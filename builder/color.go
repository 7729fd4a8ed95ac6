package builder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is an RGB color with channels in [0,1].
type Color struct {
	R, G, B float64
}

var (
	Black = Color{}
	White = Color{R: 1, G: 1, B: 1}
)

// RGB255 builds a color from 0-255 channel values.
func RGB255(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// ParseColor reads a six hex digit color with an optional leading '#'.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB255(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Bytes returns the channels scaled to 0-255.
func (c Color) Bytes() (r, g, b uint8) {
	return channel(c.R), channel(c.G), channel(c.B)
}

// Hex returns the color as six uppercase hex digits, e.g. "FF8800".
func (c Color) Hex() string {
	r, g, b := c.Bytes()
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

func (c Color) String() string { return c.Hex() }

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
