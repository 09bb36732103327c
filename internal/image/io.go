// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package image

import (
	"bytes"
	"errors"
	"fmt"
	stdimage "image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/webp" // register the WebP decoder for imports
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// Decode decodes a PNG, JPEG or WebP image, auto-detecting the format.
func Decode(r io.Reader) (stdimage.Image, error) {
	img, _, err := stdimage.Decode(r)
	if errors.Is(err, stdimage.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return img, nil
}

// DecodeBytes decodes an image held in memory.
func DecodeBytes(data []byte) (stdimage.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// LoadImage reads and decodes an image file.
func LoadImage(path string) (stdimage.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// EncodePNG writes the buffer as a PNG with straight alpha.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.RGBA()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// EncodeJPEG writes the buffer as a JPEG with the given quality (1-100)
// after flattening it onto bg, since JPEG has no alpha channel.
func (b *ImageBuf) EncodeJPEG(w io.Writer, quality int, bg color.Color) error {
	quality = max(1, min(quality, 100))
	if err := jpeg.Encode(w, b.Flatten(bg), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("image: encode JPEG: %w", err)
	}
	return nil
}

// Flatten returns an opaque copy of the buffer composited over bg.
func (b *ImageBuf) Flatten(bg color.Color) *stdimage.RGBA {
	out := stdimage.NewRGBA(b.Bounds())
	draw.Draw(out, out.Rect, stdimage.NewUniform(bg), stdimage.Point{}, draw.Src)
	draw.Draw(out, out.Rect, b.RGBA(), stdimage.Point{}, draw.Over)
	return out
}

// SavePNG writes the buffer to a PNG file.
func (b *ImageBuf) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
