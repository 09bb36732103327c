// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import "github.com/gogpu/sketch/internal/blend"

// BlendMode controls how a layer is composited onto the layers below it,
// and how a tool combines its paint with the layer surface.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	// BlendErase removes destination coverage (destination-out).
	BlendErase
)

var blendModeNames = [...]string{
	BlendNormal:   "normal",
	BlendMultiply: "multiply",
	BlendScreen:   "screen",
	BlendOverlay:  "overlay",
	BlendDarken:   "darken",
	BlendLighten:  "lighten",
	BlendErase:    "erase",
}

var blendModeOps = [...]blend.Mode{
	BlendNormal:   blend.ModeSourceOver,
	BlendMultiply: blend.ModeMultiply,
	BlendScreen:   blend.ModeScreen,
	BlendOverlay:  blend.ModeOverlay,
	BlendDarken:   blend.ModeDarken,
	BlendLighten:  blend.ModeLighten,
	BlendErase:    blend.ModeDestinationOut,
}

// String returns the mode name.
func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return "unknown"
}

// ParseBlendMode accepts the mode names and the equivalent canvas
// composite operation names ("source-over", "destination-out", ...).
func ParseBlendMode(s string) (BlendMode, error) {
	for i, name := range blendModeNames {
		if name == s {
			return BlendMode(i), nil
		}
	}
	if op, ok := blend.ParseMode(s); ok {
		for i, o := range blendModeOps {
			if o == op {
				return BlendMode(i), nil
			}
		}
	}
	return 0, invalidf("blend mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m BlendMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlendMode) UnmarshalText(b []byte) error {
	v, err := ParseBlendMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m BlendMode) valid() bool { return int(m) < len(blendModeNames) }

func (m BlendMode) op() blend.Mode {
	if !m.valid() {
		return blend.ModeSourceOver
	}
	return blendModeOps[m]
}
