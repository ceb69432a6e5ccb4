package motionbg

import (
	"fmt"
	"strings"

	"github.com/gogpu/motionbg/internal/color"
)

// Palette holds the four stop colors of a gradient, in stop order.
// An all-zero fourth color selects 3-stop mode.
type Palette [StopCount]Color

// DefaultPalette is the green/yellow wallpaper palette.
var DefaultPalette = Palette{
	FromARGB(0xff426D57),
	FromARGB(0xffF7E48B),
	FromARGB(0xff87A284),
	FromARGB(0xffFDF6CA),
}

// StopCount returns the number of active stops: 3 when the fourth color's
// bytes are all zero, 4 otherwise.
func (p Palette) StopCount() int {
	if p[3].IsZero() {
		return 3
	}
	return 4
}

// Active returns the active colors.
func (p Palette) Active() []Color {
	return p[:p.StopCount()]
}

// String returns the palette as comma separated hex colors.
func (p Palette) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// ParsePalette parses 3 or 4 comma separated colors (see ParseColor).
// With three colors the fourth is left zero.
func ParsePalette(s string) (Palette, error) {
	fields := strings.Split(s, ",")
	if len(fields) < 3 || len(fields) > StopCount {
		return Palette{}, fmt.Errorf("%w: want 3 or 4 colors, got %d", ErrInvalidColor, len(fields))
	}

	var p Palette
	for i, f := range fields {
		c, err := ParseColor(f)
		if err != nil {
			return Palette{}, fmt.Errorf("palette color %d: %w", i+1, err)
		}
		p[i] = c
	}
	return p, nil
}

// AverageColor halves each channel of a and b and sums them. The result is
// opaque.
func AverageColor(a, b Color) Color {
	return RGB(a.R/2+b.R/2, a.G/2+b.G/2, a.B/2+b.B/2)
}

// Brightness returns the HSB brightness of c in [0, 1].
func (c Color) Brightness() float32 {
	return color.RGBToHSB(c.R, c.G, c.B).B
}

// average folds the palette into a single color: the first two colors are
// averaged, then every non-zero remaining color is folded in.
func (p Palette) average() Color {
	avg := AverageColor(p[0], p[1])
	for _, c := range p[2:] {
		if !c.IsZero() {
			avg = AverageColor(avg, c)
		}
	}
	return avg
}

// IsDark reports whether the palette reads as a dark background.
func (p Palette) IsDark() bool {
	return p.average().Brightness() < 0.3
}

// PatternColor returns the tint for a pattern drawn over the gradient.
//
// With softLight the pattern is composited with a soft-light blend and only
// needs pure white (dark palettes) or black. Otherwise a translucent tint
// derived from the average palette color is returned.
func (p Palette) PatternColor(softLight bool) Color {
	if p.IsDark() {
		if softLight {
			return FromARGB(0xffffffff)
		}
		return FromARGB(0x7fffffff)
	}
	if softLight {
		return FromARGB(0xff000000)
	}

	avg := AverageColor(p[2], AverageColor(p[0], p[1]))
	if !p[3].IsZero() {
		avg = AverageColor(p[3], avg)
	}
	c := PatternColor(avg, true)
	c.A = 0x64
	return c
}

// PatternColor derives a pattern tint from a single color: saturation is
// boosted and brightness pushed away from c. alwaysDark forces the darker
// variant. The result is translucent.
func PatternColor(c Color, alwaysDark bool) Color {
	hsb := color.RGBToHSB(c.R, c.G, c.B)
	if hsb.S > 0 || (hsb.B < 1 && hsb.B > 0) {
		boost := float32(0.05)
		if alwaysDark {
			boost = 0.15
		}
		hsb.S = min(1, hsb.S+boost+0.1*(1-hsb.S))
	}
	if alwaysDark || hsb.B > 0.5 {
		hsb.B = max(0, hsb.B*0.65)
	} else {
		hsb.B = max(0, min(1, 1-hsb.B*0.65))
	}

	out := color.HSBToRGB(hsb)
	alpha := uint8(0x66)
	if alwaysDark {
		alpha = 0x99
	}
	return Color{R: out.R, G: out.G, B: out.B, A: alpha}
}

// Variations returns three colors close to base, for building a palette
// around a single accent color.
func Variations(base Color) [3]Color {
	hsb := color.RGBToHSB(base.R, base.G, base.B)
	shifts := [3][3]float32{
		{10, 0.075, -0.075},
		{-10, -0.075, 0.075},
		{0, 0.05, -0.05},
	}

	var out [3]Color
	for i, s := range shifts {
		c := color.HSBToRGB(color.ShiftHSV(hsb, s[0], s[1], s[2]))
		out[i] = Color{R: c.R, G: c.G, B: c.B, A: 255}
	}
	return out
}

// PaletteFrom builds a 4-stop palette from base and its Variations.
func PaletteFrom(base Color) Palette {
	v := Variations(base)
	return Palette{RGB(base.R, base.G, base.B), v[0], v[1], v[2]}
}
