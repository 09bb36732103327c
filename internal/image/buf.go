// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package image provides the pixel surface used by layers, checkpoints and
// the composited frame.
//
// Pixels are stored as premultiplied RGBA, 8 bits per channel, in a single
// contiguous slice with no row padding. This is the memory layout of
// image.RGBA, so a buffer can be handed to x/image rasterizers and encoders
// without copying.
package image

import (
	"bytes"
	"errors"
	stdimage "image"
	"image/color"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrSizeMismatch is returned when two buffers of different size are combined.
	ErrSizeMismatch = errors.New("image: size mismatch")
)

// ImageBuf is a premultiplied RGBA8 pixel surface.
//
// Thread safety: ImageBuf is safe for concurrent reads. Writers need
// external synchronization; in practice every surface is owned by exactly
// one layer and mutated by one goroutine at a time.
type ImageBuf struct {
	pix    []byte
	width  int
	height int
}

// NewImageBuf creates a transparent buffer of the given size.
func NewImageBuf(width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &ImageBuf{
		pix:    make([]byte, width*height*4),
		width:  width,
		height: height,
	}, nil
}

// FromRaw wraps existing premultiplied RGBA data without copying.
func FromRaw(pix []byte, width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	n := width * height * 4
	if len(pix) < n {
		return nil, ErrDataTooSmall
	}
	return &ImageBuf{pix: pix[:n], width: width, height: height}, nil
}

// FromImage converts any image into a new buffer.
func FromImage(img stdimage.Image) *ImageBuf {
	b := img.Bounds()
	buf := &ImageBuf{
		pix:    make([]byte, b.Dx()*b.Dy()*4),
		width:  b.Dx(),
		height: b.Dy(),
	}
	if rgba, ok := img.(*stdimage.RGBA); ok && rgba.Stride == b.Dx()*4 {
		copy(buf.pix, rgba.Pix)
		return buf
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			buf.pix[i+0] = c.R
			buf.pix[i+1] = c.G
			buf.pix[i+2] = c.B
			buf.pix[i+3] = c.A
			i += 4
		}
	}
	return buf
}

// Width returns the buffer width in pixels.
func (b *ImageBuf) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *ImageBuf) Height() int { return b.height }

// Bounds returns the buffer rectangle anchored at the origin.
func (b *ImageBuf) Bounds() stdimage.Rectangle {
	return stdimage.Rect(0, 0, b.width, b.height)
}

// Pix returns the raw premultiplied pixel data.
// The slice aliases the buffer; writes are visible immediately.
func (b *ImageBuf) Pix() []byte { return b.pix }

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *ImageBuf) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (b *ImageBuf) PixOffset(x, y int) int {
	return (y*b.width + x) * 4
}

// At returns the premultiplied channels of pixel (x, y).
// Out-of-bounds reads return transparent black.
func (b *ImageBuf) At(x, y int) (r, g, bl, a byte) {
	if !b.InBounds(x, y) {
		return 0, 0, 0, 0
	}
	i := b.PixOffset(x, y)
	return b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]
}

// Set writes premultiplied channels to pixel (x, y). Out-of-bounds writes
// are ignored.
func (b *ImageBuf) Set(x, y int, r, g, bl, a byte) {
	if !b.InBounds(x, y) {
		return
	}
	i := b.PixOffset(x, y)
	b.pix[i+0] = r
	b.pix[i+1] = g
	b.pix[i+2] = bl
	b.pix[i+3] = a
}

// NRGBAAt returns pixel (x, y) as a non-premultiplied color.
func (b *ImageBuf) NRGBAAt(x, y int) color.NRGBA {
	r, g, bl, a := b.At(x, y)
	return color.NRGBAModel.Convert(color.RGBA{R: r, G: g, B: bl, A: a}).(color.NRGBA)
}

// Clear sets every pixel to transparent black.
func (b *ImageBuf) Clear() {
	clear(b.pix)
}

// Fill sets every pixel to the given premultiplied color.
func (b *ImageBuf) Fill(c color.RGBA) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i+0] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
}

// Clone creates a deep copy of the buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	pix := make([]byte, len(b.pix))
	copy(pix, b.pix)
	return &ImageBuf{pix: pix, width: b.width, height: b.height}
}

// CopyFrom overwrites b with the pixels of src.
func (b *ImageBuf) CopyFrom(src *ImageBuf) error {
	if src.width != b.width || src.height != b.height {
		return ErrSizeMismatch
	}
	copy(b.pix, src.pix)
	return nil
}

// Swap exchanges the pixel storage of b and other. Both buffers must be
// the same size. Swap is how a finished off-thread result replaces a layer
// surface in one step.
func (b *ImageBuf) Swap(other *ImageBuf) error {
	if other.width != b.width || other.height != b.height {
		return ErrSizeMismatch
	}
	b.pix, other.pix = other.pix, b.pix
	return nil
}

// Equal reports whether two buffers have identical size and pixels.
func (b *ImageBuf) Equal(other *ImageBuf) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.width == other.width && b.height == other.height && bytes.Equal(b.pix, other.pix)
}

// IsTransparent reports whether every pixel has zero alpha.
func (b *ImageBuf) IsTransparent() bool {
	for i := 3; i < len(b.pix); i += 4 {
		if b.pix[i] != 0 {
			return false
		}
	}
	return true
}

// RGBA returns an *image.RGBA view sharing the buffer's storage.
func (b *ImageBuf) RGBA() *stdimage.RGBA {
	return &stdimage.RGBA{
		Pix:    b.pix,
		Stride: b.width * 4,
		Rect:   b.Bounds(),
	}
}
