// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package blend implements the compositing operators used by strokes,
// clips and the layer compositor.
//
// All operators work on premultiplied alpha values in the range 0-255.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode selects a compositing operator.
type Mode uint8

const (
	// Porter-Duff operators.
	ModeSourceOver      Mode = iota // S + D*(1-Sa) [default]
	ModeDestinationOut                // D*(1-Sa), used for erasing
	ModeDestinationIn                 // D*Sa, used for clipping
	ModeCopy                          // S
	ModeLighter                       // min(S+D, 1)

	// Separable blend modes.
	ModeMultiply // S*D
	ModeScreen   // 1-(1-S)*(1-D)
	ModeOverlay  // HardLight with swapped layers
	ModeDarken   // min(S, D)
	ModeLighten  // max(S, D)
)

var modeNames = [...]string{
	ModeSourceOver:     "source-over",
	ModeDestinationOut: "destination-out",
	ModeDestinationIn:  "destination-in",
	ModeCopy:           "copy",
	ModeLighter:        "lighter",
	ModeMultiply:       "multiply",
	ModeScreen:         "screen",
	ModeOverlay:        "overlay",
	ModeDarken:         "darken",
	ModeLighten:        "lighten",
}

// String returns the canvas-style name of the mode.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode returns the mode with the given canvas-style name.
func ParseMode(s string) (Mode, bool) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), true
		}
	}
	return ModeSourceOver, false
}

// Func blends a premultiplied source pixel onto a premultiplied destination
// pixel and returns the result.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// Get returns the blend function for mode. Unknown modes fall back to
// source-over.
func Get(mode Mode) Func {
	switch mode {
	case ModeSourceOver:
		return sourceOver
	case ModeDestinationOut:
		return destinationOut
	case ModeDestinationIn:
		return destinationIn
	case ModeCopy:
		return sourceCopy
	case ModeLighter:
		return lighter
	case ModeMultiply:
		return multiply
	case ModeScreen:
		return screen
	case ModeOverlay:
		return overlay
	case ModeDarken:
		return darken
	case ModeLighten:
		return lighten
	default:
		return sourceOver
	}
}

// sourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func sourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	if sa == 255 {
		return sr, sg, sb, sa
	}
	invSa := 255 - sa
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

// destinationOut keeps destination where source is transparent.
// Formula: D * (1 - Sa)
func destinationOut(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

// destinationIn keeps destination where source is opaque.
// Formula: D * Sa
func destinationIn(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

// sourceCopy replaces the destination.
func sourceCopy(sr, sg, sb, sa, _, _, _, _ byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

// lighter adds source and destination.
// Formula: min(S + D, 1)
func lighter(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return addClamp(sr, dr), addClamp(sg, dg), addClamp(sb, db), addClamp(sa, da)
}
