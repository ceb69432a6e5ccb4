// Package image provides the pixel buffers motionbg renders into.
//
// Buffers are 4 bytes per pixel with an explicit row stride, so memory handed
// over by a platform bitmap (with alignment padding at the end of each row) can
// be wrapped without copying.
package image

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatRGBA8 is 32-bit RGBA, byte order R, G, B, A.
	FormatRGBA8 Format = iota

	// FormatBGRA8 is 32-bit BGRA, byte order B, G, R, A.
	// This is the layout of Android ARGB_8888 bitmaps in memory.
	FormatBGRA8

	// formatCount is the number of formats (for internal use).
	formatCount
)

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	if !f.IsValid() {
		return 0
	}
	return 4
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// MinBytes returns the smallest slice length that can hold an image of the
// given size at the given stride. The last row needs no padding.
func (f Format) MinBytes(width, height, stride int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return stride*(height-1) + f.RowBytes(width)
}
