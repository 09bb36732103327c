// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"math"
)

// Union combines two coverage masks taking the maximum coverage per pixel.
// Either argument may be nil. The result covers the union of both
// rectangles clipped to clip; a may be reused as the result.
func Union(a, b *image.Alpha, clip image.Rectangle) *image.Alpha {
	switch {
	case b == nil:
		return a
	case a == nil:
		return b
	}
	r := a.Rect.Union(b.Rect).Intersect(clip)
	out := a
	if r != a.Rect {
		out = image.NewAlpha(r)
		blitMax(out, a)
	}
	blitMax(out, b)
	return out
}

func blitMax(dst, src *image.Alpha) {
	r := dst.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, di, si = x+1, di+1, si+1 {
			if s := src.Pix[si]; s > dst.Pix[di] {
				dst.Pix[di] = s
			}
		}
	}
}

// Stamper accumulates small translucent marks into one canvas-clipped mask.
// Overlapping marks build up coverage with the source-over rule, so a
// grain deposited twice is darker than one deposited once.
type Stamper struct {
	mask *image.Alpha
}

// NewStamper returns a stamper whose mask covers r.
func NewStamper(r image.Rectangle) *Stamper {
	if r.Empty() {
		return &Stamper{}
	}
	return &Stamper{mask: image.NewAlpha(r)}
}

// Mask returns the accumulated coverage, or nil when nothing was stamped
// inside the stamper's rectangle.
func (s *Stamper) Mask() *image.Alpha { return s.mask }

// Bounds returns the rectangle the stamper covers. It is empty when the
// stamper was created for an empty rectangle.
func (s *Stamper) Bounds() image.Rectangle {
	if s.mask == nil {
		return image.Rectangle{}
	}
	return s.mask.Rect
}

// Rect deposits an axis-aligned w x h mark with its top-left corner at
// (x, y) and the given alpha. Partially covered edge pixels receive
// proportional coverage.
func (s *Stamper) Rect(x, y, w, h float64, alpha float64) {
	if s.mask == nil || w <= 0 || h <= 0 || alpha <= 0 {
		return
	}
	r := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(s.mask.Rect)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		cy := overlap(float64(py), y, y+h)
		if cy <= 0 {
			continue
		}
		for px := r.Min.X; px < r.Max.X; px++ {
			cx := overlap(float64(px), x, x+w)
			if cx <= 0 {
				continue
			}
			s.deposit(px, py, alpha*cx*cy)
		}
	}
}

func (s *Stamper) deposit(x, y int, a float64) {
	i := s.mask.PixOffset(x, y)
	d := float64(s.mask.Pix[i]) / 255
	v := d + a*(1-d)
	s.mask.Pix[i] = byte(math.Min(v, 1)*255 + 0.5)
}

// overlap returns the length of [p, p+1) ∩ [a, b).
func overlap(p, a, b float64) float64 {
	return math.Max(0, math.Min(p+1, b)-math.Max(p, a))
}
