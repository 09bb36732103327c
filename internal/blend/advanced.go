// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blend

// separable applies a per-channel blend function B(s, d) on unmultiplied
// channels and composites the result:
//
//	Result = (1 - Sa) * D + (1 - Da) * S + Sa * Da * B(Sc, Dc)
func separable(sr, sg, sb, sa, dr, dg, db, da byte, fn func(s, d byte) byte) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	sur, sug, sub := unpremul(sr, sa), unpremul(sg, sa), unpremul(sb, sa)
	dur, dug, dub := unpremul(dr, da), unpremul(dg, da), unpremul(db, da)

	invSa := 255 - sa
	invDa := 255 - da
	saDa := mulDiv255(sa, da)

	channel := func(s, d, su, du byte) byte {
		v := uint16(mulDiv255(d, invSa)) + uint16(mulDiv255(s, invDa)) + uint16(mulDiv255(saDa, fn(su, du)))
		if v > 255 {
			return 255
		}
		return byte(v)
	}

	return channel(sr, dr, sur, dur),
		channel(sg, dg, sug, dug),
		channel(sb, db, sub, dub),
		addClamp(sa, mulDiv255(da, invSa))
}

// multiply darkens by multiplying channels.
// Formula: B(Cb, Cs) = Cb * Cs
func multiply(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, mulDiv255)
}

// screen lightens; the inverse of multiplying the inverses.
// Formula: B(Cb, Cs) = 1 - (1 - Cb) * (1 - Cs)
func screen(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		return 255 - mulDiv255(255-s, 255-d)
	})
}

// overlay multiplies or screens depending on the backdrop.
// Formula: B(Cb, Cs) = HardLight(Cs, Cb)
func overlay(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d <= 127 {
			return mul2Div255(d, s)
		}
		return 255 - mul2Div255(255-d, 255-s)
	})
}

// darken selects the darker channel.
func darken(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte { return min(s, d) })
}

// lighten selects the lighter channel.
func lighten(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte { return max(s, d) })
}
