package motionbg

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned by ParseColor for unrecognized input.
var ErrInvalidColor = errors.New("motionbg: invalid color")

// Color is an 8-bit per channel RGBA color as supplied by callers.
// Alpha only matters for the 3-stop sentinel; rendered output is opaque.
type Color struct {
	R, G, B, A uint8
}

// RGB creates an opaque color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// FromARGB converts a packed 0xAARRGGBB value.
func FromARGB(v uint32) Color {
	return Color{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// ARGB returns the color packed as 0xAARRGGBB.
func (c Color) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// IsZero reports whether all four bytes are zero.
func (c Color) IsZero() bool {
	return c == Color{}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// String returns the color as #rrggbbaa.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without '#'.
// Invalid input yields opaque black.
func Hex(hex string) Color {
	c, err := parseHex(strings.TrimPrefix(hex, "#"))
	if err != nil {
		return RGB(0, 0, 0)
	}
	return c
}

// ParseColor parses a hex color ("#426d57", "f7e48b", "#fff"), a packed
// ARGB literal ("0xff426d57") or a CSS color name ("navy").
//
// The literal "0" and "none" parse as the all-zero color, which as the
// fourth palette entry selects 3-stop mode.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "":
		return Color{}, fmt.Errorf("%w: empty string", ErrInvalidColor)
	case s == "0" || s == "none":
		return Color{}, nil
	case strings.HasPrefix(s, "0x"):
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return FromARGB(uint32(v)), nil
	case strings.HasPrefix(s, "#"):
		c, err := parseHex(s[1:])
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return c, nil
	}

	if named, ok := colornames.Map[s]; ok {
		return Color{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}
	if c, err := parseHex(s); err == nil {
		return c, nil
	}
	return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// parseHex parses 3, 4, 6 or 8 hex digits.
func parseHex(hex string) (Color, error) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, err
	}

	switch len(hex) {
	case 3: // RGB
		return RGB(uint8(v>>8&0xf)*17, uint8(v>>4&0xf)*17, uint8(v&0xf)*17), nil
	case 4: // RGBA
		return Color{
			R: uint8(v>>12&0xf) * 17,
			G: uint8(v>>8&0xf) * 17,
			B: uint8(v>>4&0xf) * 17,
			A: uint8(v&0xf) * 17,
		}, nil
	case 6: // RRGGBB
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	case 8: // RRGGBBAA
		return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	default:
		return Color{}, fmt.Errorf("bad hex length %d", len(hex))
	}
}
