// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blend

// mulDiv255 multiplies two bytes and divides by 255 with rounding.
//
// Formula: (a * b + 127) / 255
//
// Results are exact for all inputs so that repeated replays of the same
// action produce byte-identical surfaces.
func mulDiv255(a, b byte) byte {
	return byte((uint32(a)*uint32(b) + 127) / 255)
}

// mul2Div255 computes min(2*a*b/255, 255) without overflowing a byte.
func mul2Div255(a, b byte) byte {
	v := (2*uint32(a)*uint32(b) + 127) / 255
	if v > 255 {
		return 255
	}
	return byte(v)
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// unpremul converts a premultiplied channel back to straight alpha.
func unpremul(c, a byte) byte {
	if a == 0 {
		return 0
	}
	if a == 255 {
		return c
	}
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		return 255
	}
	return byte(v)
}

// scaleAlpha scales a coverage or alpha value by an opacity in [0, 1].
func scaleAlpha(a byte, opacity float64) byte {
	switch {
	case opacity <= 0:
		return 0
	case opacity >= 1:
		return a
	}
	return byte(float64(a)*opacity + 0.5)
}
