// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"fmt"
	"math"
	"strings"
)

// SymmetryMode selects how a stroke is replicated across the canvas.
type SymmetryMode uint8

const (
	SymmetryNone SymmetryMode = iota
	// SymmetryMirrorX reflects about the vertical centre line (x -> W-x).
	SymmetryMirrorX
	// SymmetryMirrorY reflects about the horizontal centre line (y -> H-y).
	SymmetryMirrorY
	// SymmetryQuad combines both reflections and the point reflection.
	SymmetryQuad
	// SymmetryRadial rotates the stroke Folds times about the canvas centre.
	SymmetryRadial
)

// maxFolds bounds radial symmetry.
const maxFolds = 64

// Symmetry is the replication applied to a stroke. The zero value is no
// symmetry.
type Symmetry struct {
	Mode  SymmetryMode
	Folds int
}

// Radial returns k-fold rotational symmetry.
func Radial(k int) Symmetry { return Symmetry{Mode: SymmetryRadial, Folds: k} }

// String returns "none", "mirror-x", "mirror-y", "quad" or "radial(k)".
func (s Symmetry) String() string {
	switch s.Mode {
	case SymmetryNone:
		return "none"
	case SymmetryMirrorX:
		return "mirror-x"
	case SymmetryMirrorY:
		return "mirror-y"
	case SymmetryQuad:
		return "quad"
	case SymmetryRadial:
		return fmt.Sprintf("radial(%d)", s.Folds)
	}
	return "unknown"
}

// ParseSymmetry parses the String form. "x" and "y" are accepted as
// aliases of the mirror modes.
func ParseSymmetry(v string) (Symmetry, error) {
	switch strings.TrimSpace(v) {
	case "", "none":
		return Symmetry{}, nil
	case "mirror-x", "x":
		return Symmetry{Mode: SymmetryMirrorX}, nil
	case "mirror-y", "y":
		return Symmetry{Mode: SymmetryMirrorY}, nil
	case "quad":
		return Symmetry{Mode: SymmetryQuad}, nil
	}
	var k int
	if _, err := fmt.Sscanf(v, "radial(%d)", &k); err != nil {
		return Symmetry{}, invalidf("symmetry %q", v)
	}
	s := Radial(k)
	return s, s.validate()
}

// MarshalText implements encoding.TextMarshaler.
func (s Symmetry) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Symmetry) UnmarshalText(b []byte) error {
	v, err := ParseSymmetry(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Symmetry) validate() error {
	switch s.Mode {
	case SymmetryNone, SymmetryMirrorX, SymmetryMirrorY, SymmetryQuad:
		return nil
	case SymmetryRadial:
		if s.Folds < 1 || s.Folds > maxFolds {
			return invalidf("radial symmetry with %d folds", s.Folds)
		}
		return nil
	}
	return invalidf("symmetry mode %d", s.Mode)
}

// copies returns the transforms producing every rendered copy of a stroke
// on a w x h canvas. The first transform is always the identity.
func (s Symmetry) copies(w, h int) []func(Point) Point {
	fw, fh := float64(w), float64(h)
	identity := func(p Point) Point { return p }
	mirrorX := func(p Point) Point { return Point{X: fw - p.X, Y: p.Y, Pressure: p.Pressure} }
	mirrorY := func(p Point) Point { return Point{X: p.X, Y: fh - p.Y, Pressure: p.Pressure} }

	switch s.Mode {
	case SymmetryMirrorX:
		return []func(Point) Point{identity, mirrorX}
	case SymmetryMirrorY:
		return []func(Point) Point{identity, mirrorY}
	case SymmetryQuad:
		return []func(Point) Point{identity, mirrorX, mirrorY, func(p Point) Point {
			return Point{X: fw - p.X, Y: fh - p.Y, Pressure: p.Pressure}
		}}
	case SymmetryRadial:
		cx, cy := fw/2, fh/2
		out := make([]func(Point) Point, 0, s.Folds)
		out = append(out, identity)
		for i := 1; i < s.Folds; i++ {
			sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(s.Folds))
			out = append(out, func(p Point) Point {
				dx, dy := p.X-cx, p.Y-cy
				return Point{X: cx + dx*cos - dy*sin, Y: cy + dx*sin + dy*cos, Pressure: p.Pressure}
			})
		}
		return out
	}
	return []func(Point) Point{identity}
}
