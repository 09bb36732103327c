// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package fill implements tolerance-based flood fill on pixel surfaces.
package fill

import (
	"errors"
	"image/color"

	"github.com/gogpu/sketch/internal/image"
)

// ErrOutOfBounds is returned when the seed lies outside the surface.
var ErrOutOfBounds = errors.New("fill: seed out of bounds")

// Flood replaces the 4-connected region around (x, y) whose pixels lie
// within tolerance of the seed pixel with the opaque color c.
//
// Colors are compared on the stored premultiplied bytes using the maximum
// per-channel absolute difference. When the seed already matches c within
// tolerance nothing is written. The work list is an explicit stack, so
// filling the whole surface needs no recursion.
//
// Flood returns the number of pixels written.
func Flood(buf *image.ImageBuf, x, y int, c color.NRGBA, tolerance uint8) (int, error) {
	if !buf.InBounds(x, y) {
		return 0, ErrOutOfBounds
	}
	fill := [4]byte{c.R, c.G, c.B, 255}
	pix := buf.Pix()
	w, h := buf.Width(), buf.Height()

	si := buf.PixOffset(x, y)
	seed := [4]byte{pix[si], pix[si+1], pix[si+2], pix[si+3]}
	if within(seed, fill, tolerance) {
		return 0, nil
	}

	written := 0
	stack := []int32{int32(y*w + x)}
	for len(stack) > 0 {
		n := len(stack) - 1
		p := int(stack[n])
		stack = stack[:n]

		i := p * 4
		if !within([4]byte{pix[i], pix[i+1], pix[i+2], pix[i+3]}, seed, tolerance) {
			continue
		}
		pix[i], pix[i+1], pix[i+2], pix[i+3] = fill[0], fill[1], fill[2], fill[3]
		written++

		px, py := p%w, p/w
		if px+1 < w {
			stack = append(stack, int32(p+1))
		}
		if px > 0 {
			stack = append(stack, int32(p-1))
		}
		if py+1 < h {
			stack = append(stack, int32(p+w))
		}
		if py > 0 {
			stack = append(stack, int32(p-w))
		}
	}
	return written, nil
}

// within reports whether every channel of a and b differs by at most tol.
func within(a, b [4]byte, tol uint8) bool {
	for k := range a {
		d := int(a[k]) - int(b[k])
		if d < 0 {
			d = -d
		}
		if d > int(tol) {
			return false
		}
	}
	return true
}
