package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a linear RGB triple in 0..1.
type Color struct {
	R, G, B float32
}

// ColorHex builds a Color from a 0xRRGGBB value.
func ColorHex(hex uint32) Color {
	return Color{
		R: float32((hex>>16)&0xff) / 255,
		G: float32((hex>>8)&0xff) / 255,
		B: float32(hex&0xff) / 255,
	}
}

// ParseColor accepts "#rrggbb", "rrggbb" and "#rgb".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("core: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("core: invalid color %q: %w", s, err)
	}
	return ColorHex(uint32(v)), nil
}

// MustParseColor is ParseColor for compile-time constants.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) Vec4(a float32) [4]float32 {
	return [4]float32{c.R, c.G, c.B, a}
}
