package motionbg

import "github.com/tphakala/simd/f32"

// Falloff parameters for inverse-distance weighting. A stop contributes
// nothing beyond falloffRadius; inside it the weight is (falloffRadius-d)^4.
const falloffRadius = 0.9

// MaxWeight is the weight of a stop at distance zero, the largest weight
// any stop can reach.
const MaxWeight = falloffRadius * falloffRadius * falloffRadius * falloffRadius

// Weight returns the contribution of a stop at distance d from the sampled
// point.
func Weight(d float32) float32 {
	w := max(0, falloffRadius-d)
	w *= w
	return w * w
}

// blender shades one frame: stop positions and channel values are fixed for
// the frame, only the sampled point changes per pixel.
type blender struct {
	n     int
	stops PhaseStops

	// Channels are stored per component so each one is a single dot product
	// against the weights.
	red, green, blue [StopCount]float32

	// fallback is the unweighted mean of the active colors, used for points
	// outside every stop's falloff radius.
	fallback [3]uint8

	weights [StopCount]float32
}

func newBlender(colors Palette, n int, stops PhaseStops) *blender {
	b := &blender{n: n, stops: stops}

	var sum [3]int
	for i := range n {
		c := colors[i]
		b.red[i] = float32(c.R) / 255
		b.green[i] = float32(c.G) / 255
		b.blue[i] = float32(c.B) / 255
		sum[0] += int(c.R)
		sum[1] += int(c.G)
		sum[2] += int(c.B)
	}
	for i := range sum {
		b.fallback[i] = uint8(sum[i] / n)
	}
	return b
}

// shade returns the blended color at p. ok is false when no stop reaches p
// and the fallback color was used.
func (b *blender) shade(p Point) (r, g, bl uint8, ok bool) {
	w := b.weights[:b.n]
	for i := range w {
		w[i] = Weight(p.Distance(b.stops[i]))
	}

	total := f32.Sum(w)
	if total <= 0 {
		return b.fallback[0], b.fallback[1], b.fallback[2], false
	}

	r = channel(f32.DotProductUnsafe(w, b.red[:b.n]) / total)
	g = channel(f32.DotProductUnsafe(w, b.green[:b.n]) / total)
	bl = channel(f32.DotProductUnsafe(w, b.blue[:b.n]) / total)
	return r, g, bl, true
}

// channel converts a [0,1] value to a byte, truncating like an integer cast.
func channel(v float32) uint8 {
	v *= 255
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
