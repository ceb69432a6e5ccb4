package motionbg

import (
	"errors"
	"fmt"
)

// Render errors. All of them are returned before any pixel is written.
var (
	// ErrInvalidBuffer is returned for a nil buffer or one that cannot be locked.
	ErrInvalidBuffer = errors.New("motionbg: invalid pixel buffer")

	// ErrDegenerateDimensions is returned when width or height is not positive.
	ErrDegenerateDimensions = errors.New("motionbg: degenerate dimensions")

	// ErrInvalidStride is returned when the row stride cannot hold a row, or
	// the pixel slice is too short for the given size and stride.
	ErrInvalidStride = errors.New("motionbg: invalid row stride")
)

// Frame describes one animation frame.
type Frame struct {
	// Phase selects the current stop positions. Any integer is accepted and
	// wrapped into [0, PhaseCount).
	Phase int

	// Progress interpolates stop positions from the previous phase (0) to
	// Phase (1). Values outside [0, 1] are clamped.
	Progress float32

	// Colors are the stop colors. An all-zero fourth color selects 3-stop mode.
	Colors Palette
}

// Renderer rasterizes swirl gradients into BGRA pixel buffers.
//
// A Renderer owns a WarpCache, so consecutive frames at the same resolution
// skip the swirl trigonometry. Renderer is not safe for concurrent use; give
// each goroutine its own.
type Renderer struct {
	anchors AnchorSet
	cache   WarpCache
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithAnchors replaces the anchor ring stops are selected from.
func WithAnchors(a AnchorSet) RendererOption {
	return func(r *Renderer) {
		r.anchors = a
	}
}

// NewRenderer creates a renderer with an empty warp cache.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{anchors: Anchors}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CacheStats returns the renderer's warp cache statistics.
func (r *Renderer) CacheStats() CacheStats {
	return r.cache.Stats()
}

// CachedPixels returns the pixel count the warp cache currently holds.
func (r *Renderer) CachedPixels() int {
	return r.cache.Len()
}

// ResetCache discards cached warp coordinates.
func (r *Renderer) ResetCache() {
	r.cache.Reset()
}

// Render locks buf, draws frame f into it and, if unlockAfter is set,
// unlocks it again. Dimension errors are reported before Lock is called;
// once locked, the buffer is unlocked on every return path.
func (r *Renderer) Render(buf PixelBuffer, unlockAfter bool, f Frame) error {
	if buf == nil {
		return ErrInvalidBuffer
	}
	width, height, stride := buf.Width(), buf.Height(), buf.Stride()
	if err := checkSize(width, height, stride); err != nil {
		return err
	}

	pix, err := buf.Lock()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBuffer, err)
	}
	if unlockAfter {
		defer buf.Unlock()
	}

	return r.RenderBytes(pix, width, height, stride, f)
}

// RenderBytes draws frame f into raw BGRA memory. Pixel (x, y) is written at
// pix[y*stride+x*4 : y*stride+x*4+4] as B, G, R, 255; row padding is left
// untouched.
func (r *Renderer) RenderBytes(pix []byte, width, height, stride int, f Frame) error {
	if err := checkSize(width, height, stride); err != nil {
		return err
	}
	if need := stride*(height-1) + width*4; len(pix) < need {
		return fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrInvalidStride, len(pix), need)
	}

	progress := clamp01(f.Progress)
	prev := SelectStops(r.anchors, PreviousPhase(f.Phase))
	cur := SelectStops(r.anchors, f.Phase)
	bl := newBlender(f.Colors, f.Colors.StopCount(), LerpStops(prev, cur, progress))

	pixels := width * height
	coords, rebuild := r.cache.begin(pixels)
	if rebuild {
		Logger().Debug("motionbg: rebuilding warp cache",
			"width", width, "height", height)
	}

	unreached := 0
	for y := range height {
		row := pix[y*stride : y*stride+width*4]
		ci := y * width * 2
		for x := range width {
			var p Point
			if rebuild {
				p = Warp(x, y, width, height)
				coords[ci], coords[ci+1] = p.X, p.Y
			} else {
				p = Point{X: coords[ci], Y: coords[ci+1]}
			}
			ci += 2

			red, green, blue, ok := bl.shade(p)
			if !ok {
				unreached++
			}
			o := x * 4
			row[o] = blue
			row[o+1] = green
			row[o+2] = red
			row[o+3] = 255
		}
	}

	if rebuild {
		r.cache.commit(pixels)
	}
	if unreached > 0 {
		Logger().Warn("motionbg: pixels outside every stop radius, used mean color",
			"count", unreached, "phase", f.Phase)
	}
	return nil
}

func checkSize(width, height, stride int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrDegenerateDimensions, width, height)
	}
	if stride < width*4 {
		return fmt.Errorf("%w: stride %d for width %d", ErrInvalidStride, stride, width)
	}
	return nil
}
