package color

import "math"

// RGBToHSB converts 8-bit RGB components to hue, saturation and brightness.
func RGBToHSB(r, g, b uint8) HSB {
	cmax := max(r, g, b)
	cmin := min(r, g, b)

	var hsb HSB
	hsb.B = float32(cmax) / 255
	if cmax != 0 {
		hsb.S = float32(cmax-cmin) / float32(cmax)
	}
	if hsb.S == 0 {
		return hsb
	}

	span := float32(cmax - cmin)
	redc := float32(cmax-r) / span
	greenc := float32(cmax-g) / span
	bluec := float32(cmax-b) / span

	var h float32
	switch cmax {
	case r:
		h = bluec - greenc
	case g:
		h = 2 + redc - bluec
	default:
		h = 4 + greenc - redc
	}
	h /= 6
	if h < 0 {
		h++
	}
	hsb.H = h
	return hsb
}

// HSBToRGB converts hue, saturation and brightness to an opaque 8-bit color.
// Hue wraps around; saturation and brightness are expected in [0,1].
func HSBToRGB(c HSB) ColorU8 {
	if c.S == 0 {
		v := to8(c.B)
		return ColorU8{R: v, G: v, B: v, A: 255}
	}

	h := (c.H - float32(math.Floor(float64(c.H)))) * 6
	f := h - float32(math.Floor(float64(h)))
	p := c.B * (1 - c.S)
	q := c.B * (1 - c.S*f)
	t := c.B * (1 - c.S*(1-f))

	var r, g, b float32
	switch int(h) {
	case 0:
		r, g, b = c.B, t, p
	case 1:
		r, g, b = q, c.B, p
	case 2:
		r, g, b = p, c.B, t
	case 3:
		r, g, b = p, q, c.B
	case 4:
		r, g, b = t, p, c.B
	default:
		r, g, b = c.B, p, q
	}
	return ColorU8{R: to8(r), G: to8(g), B: to8(b), A: 255}
}

// to8 scales a [0,1] component to a byte, rounding half up.
func to8(v float32) uint8 {
	return uint8(int(v*255+0.5) & 0xff)
}

// ShiftHSV applies hue (degrees), saturation and value deltas, clamping
// saturation and value to [0,1] and wrapping hue into [0,360).
func ShiftHSV(c HSB, dHue, dSat, dVal float32) HSB {
	deg := float32(math.Mod(float64(c.H*360+dHue), 360))
	if deg < 0 {
		deg += 360
	}
	return HSB{
		H: deg / 360,
		S: clamp01(c.S + dSat),
		B: clamp01(c.B + dVal),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
