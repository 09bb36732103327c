// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster turns vector outlines into coverage masks.
//
// Coverage is computed by golang.org/x/image/vector, which accumulates
// signed area: subpaths of the same orientation union, subpaths of opposite
// orientation cancel. Callers that need a union of independently oriented
// pieces rasterize them separately and combine the masks with Union.
//
// Masks are *image.Alpha values whose Rect is the path's pixel bounding
// box clipped to the canvas, so a small stroke on a large canvas only
// allocates and scans the pixels it can touch.
package raster

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Point is a 2D point in canvas pixel coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point { return Point{p.X * s, p.Y * s} }

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Len returns the distance of p from the origin.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Dist2 returns the squared distance between p and q.
func (p Point) Dist2(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Unit returns p normalized to length 1, or the zero vector.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Perp returns p rotated by 90 degrees.
func (p Point) Perp() Point { return Point{p.Y, -p.X} }

// Rotate rotates p around c by angle radians.
func (p Point) Rotate(c Point, angle float64) Point {
	s, co := math.Sincos(angle)
	dx, dy := p.X-c.X, p.Y-c.Y
	return Point{c.X + dx*co - dy*s, c.Y + dx*s + dy*co}
}

type verb uint8

const (
	verbMove verb = iota
	verbLine
	verbQuad
	verbCube
	verbClose
)

// Path is a sequence of closed or open subpaths. Open subpaths are closed
// implicitly when the path is rasterized.
type Path struct {
	verbs []verb
	pts   []Point

	minX, minY float64
	maxX, maxY float64
	open       bool
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
}

func (p *Path) extend(pts ...Point) {
	for _, q := range pts {
		p.minX = math.Min(p.minX, q.X)
		p.minY = math.Min(p.minY, q.Y)
		p.maxX = math.Max(p.maxX, q.X)
		p.maxY = math.Max(p.maxY, q.Y)
	}
	p.pts = append(p.pts, pts...)
}

// MoveTo starts a new subpath, closing the current one.
func (p *Path) MoveTo(x, y float64) {
	if p.open {
		p.Close()
	}
	p.verbs = append(p.verbs, verbMove)
	p.extend(Point{x, y})
	p.open = true
}

// LineTo adds a line segment. Without a current subpath it behaves like
// MoveTo.
func (p *Path) LineTo(x, y float64) {
	if !p.open {
		p.MoveTo(x, y)
		return
	}
	p.verbs = append(p.verbs, verbLine)
	p.extend(Point{x, y})
}

// QuadTo adds a quadratic Bézier segment.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if !p.open {
		p.MoveTo(cx, cy)
	}
	p.verbs = append(p.verbs, verbQuad)
	p.extend(Point{cx, cy}, Point{x, y})
}

// CubeTo adds a cubic Bézier segment.
func (p *Path) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !p.open {
		p.MoveTo(c1x, c1y)
	}
	p.verbs = append(p.verbs, verbCube)
	p.extend(Point{c1x, c1y}, Point{c2x, c2y}, Point{x, y})
}

// Close closes the current subpath.
func (p *Path) Close() {
	if !p.open {
		return
	}
	p.verbs = append(p.verbs, verbClose)
	p.open = false
}

// Empty reports whether the path has no segments.
func (p *Path) Empty() bool { return len(p.verbs) == 0 }

// Bounds returns the integer pixel rectangle covering every control point.
// Control points bound Bézier curves, so the rectangle always contains the
// rasterized area.
func (p *Path) Bounds() image.Rectangle {
	if p.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(p.minX)), int(math.Floor(p.minY)),
		int(math.Ceil(p.maxX))+1, int(math.Ceil(p.maxY))+1,
	)
}

// Mask rasterizes the filled path into a coverage mask clipped to clip.
// It returns nil when the path does not intersect clip.
func (p *Path) Mask(clip image.Rectangle) *image.Alpha {
	r := p.Bounds().Intersect(clip)
	if r.Empty() {
		return nil
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Src
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	f := func(q Point) (float32, float32) {
		return float32(q.X - ox), float32(q.Y - oy)
	}

	i := 0
	open := false
	for _, v := range p.verbs {
		switch v {
		case verbMove:
			if open {
				z.ClosePath()
			}
			x, y := f(p.pts[i])
			z.MoveTo(x, y)
			i++
			open = true
		case verbLine:
			x, y := f(p.pts[i])
			z.LineTo(x, y)
			i++
		case verbQuad:
			cx, cy := f(p.pts[i])
			x, y := f(p.pts[i+1])
			z.QuadTo(cx, cy, x, y)
			i += 2
		case verbCube:
			c1x, c1y := f(p.pts[i])
			c2x, c2y := f(p.pts[i+1])
			x, y := f(p.pts[i+2])
			z.CubeTo(c1x, c1y, c2x, c2y, x, y)
			i += 3
		case verbClose:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}

	mask := image.NewAlpha(r)
	z.Draw(mask, r, image.Opaque, image.Point{})
	return mask
}

// Transform returns a copy of the path with fn applied to every point.
func (p *Path) Transform(fn func(Point) Point) *Path {
	out := NewPath()
	out.verbs = append(out.verbs, p.verbs...)
	out.open = p.open
	pts := make([]Point, len(p.pts))
	for i, q := range p.pts {
		pts[i] = fn(q)
	}
	out.extend(pts...)
	return out
}
