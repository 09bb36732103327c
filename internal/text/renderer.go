// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package text shapes and rasterizes single-line text.
//
// Shaping uses go-text/typesetting's HarfBuzz port so kerning, ligatures
// and right-to-left scripts are positioned correctly. The line is first
// split into bidi runs with golang.org/x/text/unicode/bidi; each run is
// shaped in its own direction and the runs are laid out in visual order.
// Glyph outlines come from golang.org/x/image/font/sfnt and are filled
// through internal/raster.
package text

import (
	"bytes"
	"fmt"
	stdimage "image"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/sketch/internal/cache"
	"github.com/gogpu/sketch/internal/raster"
)

// Glyph is a shaped glyph positioned relative to the text origin on the
// baseline. Y grows downwards.
type Glyph struct {
	ID   uint16
	X, Y float64
}

type glyphKey struct {
	id   uint16
	ppem fixed.Int26_6
}

// Renderer shapes and rasterizes text in one font.
//
// Renderer is safe for concurrent use. Parsed fonts are read-only; the
// per-call HarfBuzz shapers and sfnt buffers are pooled.
type Renderer struct {
	shapeFont *font.Font
	glyphFont *sfnt.Font

	shapers  sync.Pool
	buffers  sync.Pool
	outlines *cache.Cache[glyphKey, sfnt.Segments]
}

// NewRenderer parses a TrueType or OpenType font.
func NewRenderer(ttf []byte) (*Renderer, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("text: parse font for shaping: %w", err)
	}
	sf, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("text: parse font outlines: %w", err)
	}
	return &Renderer{
		shapeFont: face.Font,
		glyphFont: sf,
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		buffers: sync.Pool{
			New: func() any { return &sfnt.Buffer{} },
		},
		outlines: cache.New[glyphKey, sfnt.Segments](1024),
	}, nil
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
	defaultErr      error
)

// Default returns the shared renderer for the Go Bold font.
func Default() (*Renderer, error) {
	defaultOnce.Do(func() {
		defaultRenderer, defaultErr = NewRenderer(gobold.TTF)
	})
	return defaultRenderer, defaultErr
}

// Layout shapes s at the given pixel size and returns its glyphs in visual
// order together with the total advance.
func (r *Renderer) Layout(s string, size float64) ([]Glyph, float64) {
	if s == "" || size <= 0 {
		return nil, 0
	}
	var out []Glyph
	pen := 0.0
	for _, run := range visualRuns(s) {
		glyphs, adv := r.shapeRun(run.text, run.dir, size)
		for _, g := range glyphs {
			g.X += pen
			out = append(out, g)
		}
		pen += adv
	}
	return out, pen
}

type textRun struct {
	text string
	dir  di.Direction
}

// visualRuns splits s into directional runs in left-to-right display
// order.
func visualRuns(s string) []textRun {
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return []textRun{{text: s, dir: di.DirectionLTR}}
	}
	ord, err := p.Order()
	if err != nil {
		return []textRun{{text: s, dir: di.DirectionLTR}}
	}
	runs := make([]textRun, 0, ord.NumRuns())
	for i := 0; i < ord.NumRuns(); i++ {
		run := ord.Run(i)
		dir := di.DirectionLTR
		if run.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		runs = append(runs, textRun{text: run.String(), dir: dir})
	}
	return runs
}

func (r *Renderer) shapeRun(s string, dir di.Direction, size float64) ([]Glyph, float64) {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil, 0
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(r.shapeFont),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	hb := r.shapers.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	r.shapers.Put(hb)

	glyphs := make([]Glyph, 0, len(output.Glyphs))
	pen := 0.0
	for _, g := range output.Glyphs {
		glyphs = append(glyphs, Glyph{
			ID: uint16(g.GlyphID), //nolint:gosec // glyph ids of TrueType fonts fit in 16 bits
			X:  pen + fixedToFloat(g.XOffset),
			Y:  -fixedToFloat(g.YOffset),
		})
		pen += fixedToFloat(g.Advance)
	}
	return glyphs, pen
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// Path returns the outline of s with its baseline origin at (x, y).
func (r *Renderer) Path(s string, x, y, size float64) *raster.Path {
	p := raster.NewPath()
	glyphs, _ := r.Layout(s, size)
	ppem := fixed.Int26_6(size * 64)
	for _, g := range glyphs {
		segs := r.outline(g.ID, ppem)
		ox, oy := x+g.X, y+g.Y
		for _, seg := range segs {
			a := seg.Args
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				p.MoveTo(ox+fixedToFloat(a[0].X), oy+fixedToFloat(a[0].Y))
			case sfnt.SegmentOpLineTo:
				p.LineTo(ox+fixedToFloat(a[0].X), oy+fixedToFloat(a[0].Y))
			case sfnt.SegmentOpQuadTo:
				p.QuadTo(
					ox+fixedToFloat(a[0].X), oy+fixedToFloat(a[0].Y),
					ox+fixedToFloat(a[1].X), oy+fixedToFloat(a[1].Y))
			case sfnt.SegmentOpCubeTo:
				p.CubeTo(
					ox+fixedToFloat(a[0].X), oy+fixedToFloat(a[0].Y),
					ox+fixedToFloat(a[1].X), oy+fixedToFloat(a[1].Y),
					ox+fixedToFloat(a[2].X), oy+fixedToFloat(a[2].Y))
			}
		}
		p.Close()
	}
	return p
}

// Mask rasterizes s at baseline origin (x, y) clipped to clip. It returns
// nil when no ink falls inside clip.
func (r *Renderer) Mask(s string, x, y, size float64, clip stdimage.Rectangle) *stdimage.Alpha {
	p := r.Path(s, x, y, size)
	if p.Empty() {
		return nil
	}
	return p.Mask(clip)
}

// outline returns the cached sfnt segments of a glyph at ppem.
func (r *Renderer) outline(id uint16, ppem fixed.Int26_6) sfnt.Segments {
	key := glyphKey{id: id, ppem: ppem}
	return r.outlines.GetOrCreate(key, func() sfnt.Segments {
		buf := r.buffers.Get().(*sfnt.Buffer)
		defer r.buffers.Put(buf)
		segs, err := r.glyphFont.LoadGlyph(buf, sfnt.GlyphIndex(id), ppem, nil)
		if err != nil {
			return nil
		}
		// LoadGlyph's result aliases buf.
		return append(sfnt.Segments(nil), segs...)
	})
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
