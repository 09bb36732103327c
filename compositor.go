// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	stdimage "image"
	"image/color"
	"log/slog"

	"github.com/gogpu/sketch/internal/blend"
	"github.com/gogpu/sketch/internal/image"
)

// Compositor combines the visible layers into the displayed frame.
//
// Compositing is lazy. Mutations only call Invalidate; the frame is
// recomposed on the next Frame call, so any number of mutations between
// two frames cost one composition.
type Compositor struct {
	frame      *image.ImageBuf
	background Color
	dirty      bool
	composed   int
	logger     *slog.Logger
}

func newCompositor(w, h int, background Color, log *slog.Logger) (*Compositor, error) {
	frame, err := image.NewImageBuf(w, h)
	if err != nil {
		return nil, err
	}
	return &Compositor{frame: frame, background: background, dirty: true, logger: log}, nil
}

// Invalidate marks the frame as stale.
func (c *Compositor) Invalidate() { c.dirty = true }

// Dirty reports whether the next Frame call recomposes.
func (c *Compositor) Dirty() bool { return c.dirty }

// Compositions returns how many times the frame has been recomposed.
func (c *Compositor) Compositions() int { return c.composed }

// Frame returns a copy of the composited frame, recomposing it first when
// it is stale.
func (c *Compositor) Frame(layers []*Layer) *stdimage.RGBA {
	if c.dirty {
		c.compose(c.frame, layers, nil)
		c.dirty = false
		c.composed++
	}
	return c.frame.Clone().RGBA()
}

// compose renders layers bottom to top into dst. When override is set it
// replaces the surface of the layer with the same id, which is how the
// live preview shows an uncommitted stroke at the right depth.
func (c *Compositor) compose(dst *image.ImageBuf, layers []*Layer, override *overrideSurface) {
	dst.Fill(premultiplied(c.background))
	for _, l := range layers {
		if !l.visible {
			continue
		}
		src := l.surface
		if override != nil && override.layer == l.id {
			src = override.surface
		}
		// Layer surfaces are allocated at canvas size, so a mismatch means
		// a corrupted layer; it is left out of the frame.
		if err := blend.Composite(dst, src, l.opacity, l.blend.op()); err != nil {
			c.logger.Warn("sketch: layer skipped in frame", "layer", l.id, "err", err)
		}
	}
}

type overrideSurface struct {
	layer   LayerID
	surface *image.ImageBuf
}

func premultiplied(c Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
