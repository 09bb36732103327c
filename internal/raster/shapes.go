// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"math"
)

// kappa is the control point distance for approximating a quarter circle
// with a cubic Bézier curve.
const kappa = 0.5522847498307936

// AddEllipse appends a clockwise (in y-down space) ellipse subpath.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
}

// addEllipseReverse appends the ellipse with the opposite orientation.
func (p *Path) addEllipseReverse(cx, cy, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubeTo(cx+rx, cy-ky, cx+kx, cy-ry, cx, cy-ry)
	p.CubeTo(cx-kx, cy-ry, cx-rx, cy-ky, cx-rx, cy)
	p.CubeTo(cx-rx, cy+ky, cx-kx, cy+ry, cx, cy+ry)
	p.CubeTo(cx+kx, cy+ry, cx+rx, cy+ky, cx+rx, cy)
	p.Close()
}

// AddRect appends a clockwise (in y-down space) rectangle subpath.
func (p *Path) AddRect(x0, y0, x1, y1 float64) {
	p.MoveTo(x0, y0)
	p.LineTo(x1, y0)
	p.LineTo(x1, y1)
	p.LineTo(x0, y1)
	p.Close()
}

// AddCircle appends a circle subpath.
func (p *Path) AddCircle(cx, cy, r float64) {
	p.AddEllipse(cx, cy, r, r)
}

// Disc returns the coverage mask of a filled circle.
func Disc(c Point, r float64, clip image.Rectangle) *image.Alpha {
	p := NewPath()
	p.AddCircle(c.X, c.Y, r)
	return p.Mask(clip)
}

// capsule returns the outline of segment a-b widened by radius r with
// round ends. The outline is a single convex subpath.
func capsule(a, b Point, r float64) *Path {
	p := NewPath()
	d := b.Sub(a)
	if d.Len() < 1e-9 {
		p.AddCircle(a.X, a.Y, r)
		return p
	}
	angle := math.Atan2(d.Y, d.X)
	n := d.Unit().Perp().Mul(r)
	p.MoveTo(a.X+n.X, a.Y+n.Y)
	p.LineTo(b.X+n.X, b.Y+n.Y)
	arc(p, b, r, angle-math.Pi/2, angle+math.Pi/2)
	p.LineTo(a.X-n.X, a.Y-n.Y)
	arc(p, a, r, angle+math.Pi/2, angle+3*math.Pi/2)
	p.Close()
	return p
}

// arc appends a circular arc around c from angle a0 to a1 (a1 > a0) as
// cubic segments of at most a quarter turn.
func arc(p *Path, c Point, r, a0, a1 float64) {
	n := int(math.Ceil((a1 - a0) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := (a1 - a0) / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4) * r
	for i := 0; i < n; i++ {
		t0 := a0 + float64(i)*step
		t1 := t0 + step
		s0, c0 := math.Sincos(t0)
		s1, c1 := math.Sincos(t1)
		p.CubeTo(
			c.X+r*c0-k*s0, c.Y+r*s0+k*c0,
			c.X+r*c1+k*s1, c.Y+r*s1-k*c1,
			c.X+r*c1, c.Y+r*s1,
		)
	}
}

// Polyline returns the coverage of pts stroked with width w, round caps and
// round joins. Each segment is rasterized separately and the results are
// unioned, so self-overlapping polylines keep full coverage.
func Polyline(pts []Point, w float64, clip image.Rectangle) *image.Alpha {
	if len(pts) == 0 || w <= 0 {
		return nil
	}
	r := w / 2
	if len(pts) == 1 {
		return Disc(pts[0], r, clip)
	}
	var out *image.Alpha
	for i := 1; i < len(pts); i++ {
		out = Union(out, capsule(pts[i-1], pts[i], r).Mask(clip), clip)
	}
	return out
}

// RectStroke returns the outline of the rectangle spanned by two corners,
// stroked with width w and round joins.
func RectStroke(a, b Point, w float64, clip image.Rectangle) *image.Alpha {
	c := []Point{a, {b.X, a.Y}, b, {a.X, b.Y}, a}
	return Polyline(c, w, clip)
}

// RectFill returns the coverage of the rectangle spanned by two corners.
func RectFill(a, b Point, clip image.Rectangle) *image.Alpha {
	p := NewPath()
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	p.AddRect(x0, y0, x1, y1)
	return p.Mask(clip)
}

// EllipseFill returns the coverage of the ellipse inscribed in the
// rectangle spanned by two corners.
func EllipseFill(a, b Point, clip image.Rectangle) *image.Alpha {
	cx, cy, rx, ry := inscribed(a, b)
	p := NewPath()
	p.AddEllipse(cx, cy, rx, ry)
	return p.Mask(clip)
}

// EllipseStroke returns the outline of the inscribed ellipse stroked with
// width w. The ring is an outer ellipse and an inner ellipse of opposite
// orientation; when the stroke is wider than the ellipse the ring becomes
// a filled ellipse.
func EllipseStroke(a, b Point, w float64, clip image.Rectangle) *image.Alpha {
	cx, cy, rx, ry := inscribed(a, b)
	h := w / 2
	p := NewPath()
	p.AddEllipse(cx, cy, rx+h, ry+h)
	if rx-h > 0 && ry-h > 0 {
		p.addEllipseReverse(cx, cy, rx-h, ry-h)
	}
	return p.Mask(clip)
}

func inscribed(a, b Point) (cx, cy, rx, ry float64) {
	return (a.X + b.X) / 2, (a.Y + b.Y) / 2, math.Abs(b.X-a.X) / 2, math.Abs(b.Y-a.Y) / 2
}

// Polygon returns the coverage of the closed polygon through pts.
func Polygon(pts []Point, clip image.Rectangle) *image.Alpha {
	if len(pts) < 3 {
		return nil
	}
	p := NewPath()
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, q := range pts[1:] {
		p.LineTo(q.X, q.Y)
	}
	p.Close()
	return p.Mask(clip)
}
