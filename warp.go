package motionbg

// Swirl parameters. The rotation angle grows with the square of the distance
// from the center: angle = (swirlRadius*d)^2 * swirlStrength.
const (
	swirlRadius   = 0.35
	swirlStrength = 0.8 * 8
)

// Warp maps pixel (x, y) of a width x height image to the point of gradient
// space it samples. The pixel is normalized to the unit square, rotated around
// the center by a distance dependent angle and clamped back into [0,1].
func Warp(x, y, width, height int) Point {
	d := Point{
		X: float32(x)/float32(width) - 0.5,
		Y: float32(y)/float32(height) - 0.5,
	}
	s := swirlRadius * d.Length()
	angle := s * s * swirlStrength

	return d.Rotate(angle).Add(Point{X: 0.5, Y: 0.5}).Clamp()
}

// CacheStats counts warp cache activity over a cache's lifetime.
type CacheStats struct {
	// Hits is the number of frames rendered from cached coordinates.
	Hits int
	// Rebuilds is the number of frames that had to recompute coordinates.
	Rebuilds int
	// Computed is the number of warped coordinates computed.
	Computed int
}

// WarpCache stores the warped coordinate of every pixel, two float32 per
// pixel, so the trigonometry runs once per resolution instead of once per
// frame.
//
// The cache is keyed only by pixel count. Two resolutions with the same
// width*height (60x80 and 80x60) share an entry and the second one reuses
// coordinates computed for the first. Callers that alternate such sizes
// should call Reset in between.
//
// WarpCache is not safe for concurrent use.
type WarpCache struct {
	coords []float32
	pixels int
	valid  bool

	// next is the buffer being filled by a rebuilding pass.
	next []float32

	stats CacheStats
}

// Len returns the number of pixels the cache currently holds.
func (c *WarpCache) Len() int {
	if !c.valid {
		return 0
	}
	return c.pixels
}

// Stats returns cumulative cache statistics.
func (c *WarpCache) Stats() CacheStats {
	return c.stats
}

// Reset drops cached coordinates; the next frame rebuilds them.
func (c *WarpCache) Reset() {
	c.valid = false
	c.pixels = 0
	c.coords = nil
	c.next = nil
}

// begin prepares a pass over pixels pixels. It returns the coordinate slice
// to read from, or, when rebuild is true, a fresh slice the pass must fill.
// The previous contents stay in place until commit.
func (c *WarpCache) begin(pixels int) (coords []float32, rebuild bool) {
	if c.valid && c.pixels == pixels {
		c.stats.Hits++
		return c.coords, false
	}

	c.stats.Rebuilds++
	c.next = make([]float32, pixels*2)
	return c.next, true
}

// commit adopts the buffer filled since begin and releases the old one.
func (c *WarpCache) commit(pixels int) {
	c.coords, c.next = c.next, nil
	c.pixels = pixels
	c.valid = true
	c.stats.Computed += pixels
}
