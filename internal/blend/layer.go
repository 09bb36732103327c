// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blend

import (
	stdimage "image"
	"image/color"

	"github.com/gogpu/sketch/internal/image"
)

// FillMask paints a solid color through a coverage mask onto dst.
//
// The mask may cover any sub-rectangle of the canvas; only the intersection
// of its bounds with dst is touched. Coverage is scaled by opacity and the
// result is combined with dst using mode. c is a straight-alpha color.
func FillMask(dst *image.ImageBuf, mask *stdimage.Alpha, c color.NRGBA, opacity float64, mode Mode) {
	if mask == nil {
		return
	}
	r := mask.Rect.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	fn := Get(mode)
	ca := scaleAlpha(c.A, opacity)
	pix := dst.Pix()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := mask.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, mi, di = x+1, mi+1, di+4 {
			cov := mask.Pix[mi]
			if cov == 0 {
				continue
			}
			sa := mulDiv255(ca, cov)
			if sa == 0 && mode != ModeCopy {
				continue
			}
			sr, sg, sb := mulDiv255(c.R, sa), mulDiv255(c.G, sa), mulDiv255(c.B, sa)
			pix[di], pix[di+1], pix[di+2], pix[di+3] = fn(sr, sg, sb, sa, pix[di], pix[di+1], pix[di+2], pix[di+3])
		}
	}
}

// FillRect paints a solid color over a rectangle. It is FillMask with full
// coverage.
func FillRect(dst *image.ImageBuf, rect stdimage.Rectangle, c color.NRGBA, opacity float64, mode Mode) {
	r := rect.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	fn := Get(mode)
	sa := scaleAlpha(c.A, opacity)
	sr, sg, sb := mulDiv255(c.R, sa), mulDiv255(c.G, sa), mulDiv255(c.B, sa)
	pix := dst.Pix()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, di = x+1, di+4 {
			pix[di], pix[di+1], pix[di+2], pix[di+3] = fn(sr, sg, sb, sa, pix[di], pix[di+1], pix[di+2], pix[di+3])
		}
	}
}

// Composite blends a whole premultiplied surface onto dst. Both buffers must
// be the same size. Source alpha is scaled by opacity before blending.
func Composite(dst, src *image.ImageBuf, opacity float64, mode Mode) error {
	if dst.Width() != src.Width() || dst.Height() != src.Height() {
		return image.ErrSizeMismatch
	}
	if opacity <= 0 && mode != ModeCopy {
		return nil
	}
	fn := Get(mode)
	full := opacity >= 1
	d, s := dst.Pix(), src.Pix()
	for i := 0; i < len(d); i += 4 {
		sr, sg, sb, sa := s[i], s[i+1], s[i+2], s[i+3]
		if !full {
			sr, sg, sb, sa = scaleAlpha(sr, opacity), scaleAlpha(sg, opacity), scaleAlpha(sb, opacity), scaleAlpha(sa, opacity)
		}
		if sa == 0 && mode != ModeCopy && mode != ModeDestinationIn {
			continue
		}
		d[i], d[i+1], d[i+2], d[i+3] = fn(sr, sg, sb, sa, d[i], d[i+1], d[i+2], d[i+3])
	}
	return nil
}

// CompositeImage blends an arbitrary premultiplied RGBA image onto dst at
// offset off. Pixels falling outside dst are skipped.
func CompositeImage(dst *image.ImageBuf, src *stdimage.RGBA, off stdimage.Point, opacity float64, mode Mode) {
	r := src.Rect.Add(off).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	fn := Get(mode)
	pix := dst.Pix()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X-off.X, y-off.Y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, si, di = x+1, si+4, di+4 {
			sr, sg, sb, sa := src.Pix[si], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3]
			if opacity < 1 {
				sr, sg, sb, sa = scaleAlpha(sr, opacity), scaleAlpha(sg, opacity), scaleAlpha(sb, opacity), scaleAlpha(sa, opacity)
			}
			if sa == 0 {
				continue
			}
			pix[di], pix[di+1], pix[di+2], pix[di+3] = fn(sr, sg, sb, sa, pix[di], pix[di+1], pix[di+2], pix[di+3])
		}
	}
}

// KeepMask applies a destination-in cut: every pixel of dst is scaled by
// the mask coverage at that position. Pixels outside the mask bounds, and
// the whole surface when mask is nil, become transparent.
func KeepMask(dst *image.ImageBuf, mask *stdimage.Alpha) {
	pix := dst.Pix()
	if mask == nil {
		clear(pix)
		return
	}
	w := dst.Width()
	for y := 0; y < dst.Height(); y++ {
		di := dst.PixOffset(0, y)
		for x := 0; x < w; x, di = x+1, di+4 {
			var cov byte
			if (stdimage.Point{X: x, Y: y}).In(mask.Rect) {
				cov = mask.Pix[mask.PixOffset(x, y)]
			}
			switch cov {
			case 255:
			case 0:
				pix[di], pix[di+1], pix[di+2], pix[di+3] = 0, 0, 0, 0
			default:
				pix[di] = mulDiv255(pix[di], cov)
				pix[di+1] = mulDiv255(pix[di+1], cov)
				pix[di+2] = mulDiv255(pix[di+2], cov)
				pix[di+3] = mulDiv255(pix[di+3], cov)
			}
		}
	}
}
