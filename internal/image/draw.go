package image

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// view exposes the buffer as an *image.RGBA sharing its memory.
//
// For FormatBGRA8 the red and blue channels appear swapped through the view.
// That is harmless for channel-symmetric operations (scaling, crossfading)
// as long as source and destination share the same format.
func (b *ImageBuf) view() *image.RGBA {
	return &image.RGBA{
		Pix:    b.data,
		Stride: b.stride,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// Crossfade writes from*(1-t) + to*t into dst, t in [0, 1].
// All three buffers must have the same dimensions and format, and from/to are
// expected to be opaque.
func Crossfade(dst, from, to *ImageBuf, t float32) error {
	if !sameShape(dst, from) || !sameShape(dst, to) {
		return ErrSizeMismatch
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	r := dst.view().Rect
	if dst != from {
		draw.Draw(dst.view(), r, from.view(), image.Point{}, draw.Src)
	}
	mask := image.NewUniform(color.Alpha{A: uint8(t*255 + 0.5)})
	draw.DrawMask(dst.view(), r, to.view(), image.Point{}, mask, image.Point{}, draw.Over)
	return nil
}

// Scale resamples src into dst with Catmull-Rom filtering.
// Formats may differ; the result is swizzled to dst's byte order.
func Scale(dst, src *ImageBuf) {
	draw.CatmullRom.Scale(dst.view(), dst.view().Rect, src.view(), src.view().Rect, draw.Src, nil)
	if dst.format != src.format {
		swizzleRows(dst)
	}
}

// swizzleRows swaps the first and third byte of every pixel.
func swizzleRows(b *ImageBuf) {
	for y := range b.height {
		row := b.RowBytes(y)
		for i := 0; i+3 < len(row); i += 4 {
			row[i], row[i+2] = row[i+2], row[i]
		}
	}
}

func sameShape(a, b *ImageBuf) bool {
	return a.width == b.width && a.height == b.height && a.format == b.format
}
