// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package filter implements whole-surface image filters: 4x5 color matrix
// transforms and separable Gaussian blur.
package filter

import (
	"github.com/gogpu/sketch/internal/image"
)

// ColorMatrix is a 4x5 color transform in row-major order:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Channels are straight (unpremultiplied) values in [0, 255]; the fifth
// column is a bias in the same range.
type ColorMatrix [20]float32

// Identity returns the matrix that leaves colors unchanged.
func Identity() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Grayscale returns a luma conversion with the 0.3/0.59/0.11 weights.
func Grayscale() ColorMatrix {
	return ColorMatrix{
		0.3, 0.59, 0.11, 0, 0,
		0.3, 0.59, 0.11, 0, 0,
		0.3, 0.59, 0.11, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Sepia returns the classic sepia tone transform.
func Sepia() ColorMatrix {
	return ColorMatrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Invert returns the color negative transform. Alpha is kept.
func Invert() ColorMatrix {
	return ColorMatrix{
		-1, 0, 0, 0, 255,
		0, -1, 0, 0, 255,
		0, 0, -1, 0, 255,
		0, 0, 0, 1, 0,
	}
}

// Brightness scales color channels by factor.
// factor: 0 = black, 1 = unchanged, 2 = twice as bright
func Brightness(factor float32) ColorMatrix {
	return ColorMatrix{
		factor, 0, 0, 0, 0,
		0, factor, 0, 0, 0,
		0, 0, factor, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Contrast scales channels around mid gray.
// factor: 0 = flat gray, 1 = unchanged, 2 = high contrast
func Contrast(factor float32) ColorMatrix {
	offset := 128 * (1 - factor)
	return ColorMatrix{
		factor, 0, 0, 0, offset,
		0, factor, 0, 0, offset,
		0, 0, factor, 0, offset,
		0, 0, 0, 1, 0,
	}
}

// Saturation blends between luminance and the original color using
// Rec. 709 weights.
// factor: 0 = grayscale, 1 = unchanged, 2 = oversaturated
func Saturation(factor float32) ColorMatrix {
	const (
		lumR = 0.2126
		lumG = 0.7152
		lumB = 0.0722
	)
	inv := 1 - factor
	return ColorMatrix{
		lumR*inv + factor, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + factor, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + factor, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Mix interpolates every coefficient between the identity (t = 0) and m
// (t = 1). It implements filter intensity.
func (m ColorMatrix) Mix(t float32) ColorMatrix {
	if t >= 1 {
		return m
	}
	if t < 0 {
		t = 0
	}
	id := Identity()
	var out ColorMatrix
	for i := range m {
		out[i] = id[i] + (m[i]-id[i])*t
	}
	return out
}

// Apply transforms every non-transparent pixel of buf in place.
func (m ColorMatrix) Apply(buf *image.ImageBuf) {
	pix := buf.Pix()
	for i := 0; i < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0 {
			continue
		}
		r, g, b := float32(pix[i]), float32(pix[i+1]), float32(pix[i+2])
		fa := float32(a)
		if a != 255 {
			s := 255 / fa
			r, g, b = r*s, g*s, b*s
		}

		nr := m[0]*r + m[1]*g + m[2]*b + m[3]*fa + m[4]
		ng := m[5]*r + m[6]*g + m[7]*b + m[8]*fa + m[9]
		nb := m[10]*r + m[11]*g + m[12]*b + m[13]*fa + m[14]
		na := clampf(m[15]*r + m[16]*g + m[17]*b + m[18]*fa + m[19])

		nr, ng, nb = clampf(nr), clampf(ng), clampf(nb)
		if na != 255 {
			s := na / 255
			nr, ng, nb = nr*s, ng*s, nb*s
		}
		pix[i] = byte(nr + 0.5)
		pix[i+1] = byte(ng + 0.5)
		pix[i+2] = byte(nb + 0.5)
		pix[i+3] = byte(na + 0.5)
	}
}

func clampf(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return v
}
