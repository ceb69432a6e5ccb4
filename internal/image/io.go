package image

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned when the file format is not supported.
var ErrUnsupportedFormat = errors.New("image: unsupported format")

// FileFormat is an encoded image file format.
type FileFormat string

// Supported file formats.
const (
	FilePNG  FileFormat = "png"
	FileBMP  FileFormat = "bmp"
	FileTIFF FileFormat = "tiff"
)

// FileFormatFromPath guesses the file format from a path extension.
func FileFormatFromPath(path string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FilePNG, nil
	case ".bmp":
		return FileBMP, nil
	case ".tif", ".tiff":
		return FileTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ToStdImage converts the buffer to an *image.NRGBA in R, G, B, A order.
func (b *ImageBuf) ToStdImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for y := range b.height {
		dst := img.Pix[y*img.Stride : y*img.Stride+b.width*4]
		copy(dst, b.RowBytes(y))
		if b.format == FormatBGRA8 {
			for i := 0; i < len(dst); i += 4 {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
		}
	}
	return img
}

// Encode writes the buffer to w in the given file format.
func (b *ImageBuf) Encode(w io.Writer, format FileFormat) error {
	img := b.ToStdImage()

	var err error
	switch format {
	case FilePNG:
		err = png.Encode(w, img)
	case FileBMP:
		err = bmp.Encode(w, img)
	case FileTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("image: encode %s: %w", format, err)
	}
	return nil
}

// Save writes the buffer to path, choosing the format from the extension.
func (b *ImageBuf) Save(path string) error {
	format, err := FileFormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.Encode(f, format); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
