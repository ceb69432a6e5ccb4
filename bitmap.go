package motionbg

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"

	imagebuf "github.com/gogpu/motionbg/internal/image"
)

// Bitmap lock errors.
var (
	// ErrBufferLocked is returned by Lock when the bitmap is already locked.
	ErrBufferLocked = errors.New("motionbg: bitmap already locked")

	// ErrBufferRecycled is returned by Lock after Recycle.
	ErrBufferRecycled = errors.New("motionbg: bitmap recycled")
)

// PixelBuffer is a writable BGRA8888 pixel buffer owned by someone else,
// typically a platform bitmap. Pixel (x, y) starts at byte y*Stride()+x*4.
//
// Lock pins the memory and returns it; the slice is only valid until Unlock.
type PixelBuffer interface {
	Width() int
	Height() int
	Stride() int
	Lock() ([]byte, error)
	Unlock()
}

// Bitmap is an in-memory PixelBuffer.
//
// Bitmap is safe for concurrent use; only one holder can have it locked at a
// time.
type Bitmap struct {
	mu       sync.Mutex
	buf      *imagebuf.ImageBuf
	locked   bool
	recycled bool
}

var _ PixelBuffer = (*Bitmap)(nil)

// NewBitmap creates a BGRA bitmap with tightly packed rows.
func NewBitmap(width, height int) (*Bitmap, error) {
	return NewBitmapWithStride(width, height, width*4)
}

// NewBitmapWithStride creates a BGRA bitmap whose rows are stride bytes
// apart. stride must be at least width*4.
func NewBitmapWithStride(width, height, stride int) (*Bitmap, error) {
	buf, err := imagebuf.NewImageBufWithStride(width, height, imagebuf.FormatBGRA8, stride)
	if err != nil {
		return nil, fmt.Errorf("motionbg: new bitmap: %w", err)
	}
	return &Bitmap{buf: buf}, nil
}

// WrapBitmap wraps existing BGRA memory without copying.
func WrapBitmap(pix []byte, width, height, stride int) (*Bitmap, error) {
	buf, err := imagebuf.FromRaw(pix, width, height, imagebuf.FormatBGRA8, stride)
	if err != nil {
		return nil, fmt.Errorf("motionbg: wrap bitmap: %w", err)
	}
	return &Bitmap{buf: buf}, nil
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int { return b.buf.Width() }

// Height returns the height in pixels.
func (b *Bitmap) Height() int { return b.buf.Height() }

// Stride returns the number of bytes between row starts.
func (b *Bitmap) Stride() int { return b.buf.Stride() }

// Lock pins the pixel memory for writing.
func (b *Bitmap) Lock() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.recycled:
		return nil, ErrBufferRecycled
	case b.locked:
		return nil, ErrBufferLocked
	}
	b.locked = true
	return b.buf.Data(), nil
}

// Unlock releases a previous Lock. Unlocking an unlocked bitmap is a no-op.
func (b *Bitmap) Unlock() {
	b.mu.Lock()
	b.locked = false
	b.mu.Unlock()
}

// Locked reports whether the bitmap is currently locked.
func (b *Bitmap) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Recycle marks the bitmap unusable; every later Lock fails.
func (b *Bitmap) Recycle() {
	b.mu.Lock()
	b.recycled = true
	b.mu.Unlock()
}

// Pix returns the raw BGRA bytes without locking.
func (b *Bitmap) Pix() []byte {
	return b.buf.Data()
}

// At returns the color of pixel (x, y).
func (b *Bitmap) At(x, y int) Color {
	r, g, bl, a := b.buf.RGBA(x, y)
	return Color{R: r, G: g, B: bl, A: a}
}

// ToImage converts the bitmap to an *image.NRGBA.
func (b *Bitmap) ToImage() *image.NRGBA {
	return b.buf.ToStdImage()
}

// Encode writes the bitmap to w as "png", "bmp" or "tiff".
func (b *Bitmap) Encode(w io.Writer, format string) error {
	return b.buf.Encode(w, imagebuf.FileFormat(format))
}

// Save writes the bitmap to path; the format follows the file extension.
func (b *Bitmap) Save(path string) error {
	return b.buf.Save(path)
}

// SavePNG saves the bitmap to a PNG file regardless of the extension.
func (b *Bitmap) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("motionbg: create file: %w", err)
	}
	if err := b.buf.Encode(f, imagebuf.FilePNG); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
