// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package stroke generates the geometry of freehand strokes.
//
// Vector strokes become a closed variable-width outline: input samples are
// streamlined, each kept sample is offset left and right by a radius
// derived from pressure and thinning, the ends are tapered through an
// easing curve or capped with half circles, and the outline is smoothed
// with quadratic segments through vertex midpoints.
//
// Textured and particle strokes deposit grains along the sample path into
// a raster.Stamper. All randomness is drawn from a caller-supplied
// generator so that replaying a stroke reproduces the same pixels.
package stroke

import (
	"math"

	"github.com/gogpu/sketch/internal/raster"
)

// DefaultPressure is the pressure reported by devices without pressure
// sensing. A stroke whose samples all carry it gets simulated pressure.
const DefaultPressure = 0.5

// pressureRate limits how fast simulated pressure follows pointer speed.
const pressureRate = 0.275

// capSegments is the number of vertices used for a half-circle cap.
const capSegments = 13

// Sample is one pointer sample.
type Sample struct {
	X, Y     float64
	Pressure float64
}

// Options configures outline generation.
type Options struct {
	// Size is the nominal stroke diameter in pixels.
	Size float64

	// Thinning is how much pressure affects the width, in [-1, 1].
	// Negative values make the stroke thinner with more pressure.
	Thinning float64

	// Smoothing in [0, 1] drops outline vertices closer than
	// (Size*Smoothing)^2 to the previous one.
	Smoothing float64

	// Streamline in [0, 1] pulls each sample towards the previous one.
	Streamline float64

	// TaperStart and TaperEnd are the distances in pixels over which the
	// width grows from and shrinks to zero. Zero disables the taper and
	// caps that end with a half circle.
	TaperStart float64
	TaperEnd   float64

	// TaperEasing shapes both tapers. Nil means linear.
	TaperEasing Easing

	// SimulatePressure derives pressure from pointer speed.
	SimulatePressure bool
}

type strokePoint struct {
	p             raster.Point
	pressure      float64
	vector        raster.Point // unit direction towards the previous point
	distance      float64
	runningLength float64
}

// NeedsSimulatedPressure reports whether every sample carries the default
// pressure, which means the device did not report any.
func NeedsSimulatedPressure(samples []Sample) bool {
	for _, s := range samples {
		if s.Pressure != DefaultPressure {
			return false
		}
	}
	return len(samples) > 0
}

// Radius returns the half-width at the given pressure.
//
// Formula: size * (0.5 - thinning * (0.5 - pressure))
func Radius(size, thinning, pressure float64) float64 {
	return size * (0.5 - thinning*(0.5-pressure))
}

// strokePoints applies streamlining and computes per-point distances.
func strokePoints(samples []Sample, opt Options) []strokePoint {
	if len(samples) == 0 {
		return nil
	}
	t := 0.15 + (1-opt.Streamline)*0.85

	pts := make([]strokePoint, 0, len(samples))
	first := samples[0]
	pts = append(pts, strokePoint{
		p:        raster.Pt(first.X, first.Y),
		pressure: first.Pressure,
		vector:   raster.Pt(1, 1),
	})

	last := len(samples) - 1
	reachedMinLength := false
	running := 0.0
	prev := pts[0]
	for i := 1; i <= last; i++ {
		s := samples[i]
		in := raster.Pt(s.X, s.Y)
		p := in
		if i < last {
			p = prev.p.Lerp(in, t)
		}
		if p == prev.p {
			continue
		}
		d := p.Dist(prev.p)
		running += d
		if i < last && !reachedMinLength {
			if running < opt.Size {
				continue
			}
			reachedMinLength = true
		}
		sp := strokePoint{
			p:             p,
			pressure:      s.Pressure,
			vector:        prev.p.Sub(p).Unit(),
			distance:      d,
			runningLength: running,
		}
		pts = append(pts, sp)
		prev = sp
	}
	if len(pts) > 1 {
		pts[0].vector = pts[1].vector
	}
	return pts
}

// Outline returns the closed outline polygon of a vector stroke. A stroke
// that collapses to a single point yields a circle of the untapered
// radius.
func Outline(samples []Sample, opt Options) []raster.Point {
	pts := strokePoints(samples, opt)
	if len(pts) == 0 || opt.Size <= 0 {
		return nil
	}
	ease := opt.TaperEasing
	if ease == nil {
		ease = Linear
	}

	total := pts[len(pts)-1].runningLength
	minDist := opt.Size * opt.Smoothing
	minDist *= minDist

	prevPressure := initialPressure(pts, opt)
	prevVector := pts[0].vector
	var (
		left, right []raster.Point
		pl, pr      raster.Point
		firstRadius = -1.0
		radius      = Radius(opt.Size, opt.Thinning, pts[len(pts)-1].pressure)
	)

	for i, sp := range pts {
		if i < len(pts)-1 && total-sp.runningLength < 3 {
			continue
		}

		pressure := sp.pressure
		if opt.Thinning != 0 {
			if opt.SimulatePressure {
				pressure = simulate(prevPressure, sp.distance, opt.Size)
			}
			radius = Radius(opt.Size, opt.Thinning, pressure)
		} else {
			radius = opt.Size / 2
		}
		if firstRadius < 0 {
			firstRadius = radius
		}

		ts, te := 1.0, 1.0
		if opt.TaperStart > 0 && sp.runningLength < opt.TaperStart {
			ts = ease(sp.runningLength / opt.TaperStart)
		}
		if opt.TaperEnd > 0 && total-sp.runningLength < opt.TaperEnd {
			te = ease((total - sp.runningLength) / opt.TaperEnd)
		}
		radius = math.Max(0.01, radius*math.Min(ts, te))

		nextVector := sp.vector
		nextDot := 1.0
		if i < len(pts)-1 {
			nextVector = pts[i+1].vector
			nextDot = dot(sp.vector, nextVector)
		}

		// Sharp reversals get a half circle so the ribbon does not pinch.
		if dot(sp.vector, prevVector) < 0 && i > 0 {
			off := prevVector.Perp().Mul(radius)
			for k := 1; k < capSegments; k++ {
				a := math.Pi * float64(k) / capSegments
				left = append(left, sp.p.Sub(off).Rotate(sp.p, a))
				right = append(right, sp.p.Add(off).Rotate(sp.p, -a))
			}
			pl, pr = left[len(left)-1], right[len(right)-1]
			prevPressure, prevVector = pressure, sp.vector
			continue
		}

		dir := nextVector.Lerp(sp.vector, nextDot)
		off := dir.Perp().Unit().Mul(radius)

		lastPt := i == len(pts)-1
		tl := sp.p.Sub(off)
		if i <= 1 || lastPt || pl.Dist2(tl) > minDist {
			left = append(left, tl)
			pl = tl
		}
		tr := sp.p.Add(off)
		if i <= 1 || lastPt || pr.Dist2(tr) > minDist {
			right = append(right, tr)
			pr = tr
		}

		prevPressure, prevVector = pressure, sp.vector
	}

	firstPoint := pts[0].p
	lastPoint := pts[len(pts)-1].p
	if firstRadius < 0 {
		firstRadius = radius
	}

	if len(pts) == 1 || len(left) <= 1 || len(right) <= 1 {
		return dot2(firstPoint, firstRadius)
	}

	var startCap, endCap []raster.Point
	if opt.TaperStart == 0 && !(opt.TaperEnd > 0 && len(pts) <= 2) {
		startCap = halfCircle(firstPoint, right[0], pts[0].vector)
	}
	if opt.TaperEnd == 0 {
		endCap = halfCircle(lastPoint, left[len(left)-1], pts[len(pts)-1].vector.Mul(-1))
	} else {
		endCap = []raster.Point{lastPoint}
	}

	out := make([]raster.Point, 0, len(left)+len(right)+len(startCap)+len(endCap))
	out = append(out, left...)
	out = append(out, endCap...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	out = append(out, startCap...)
	return out
}

// initialPressure averages the first samples so the stroke does not start
// with a pressure spike.
func initialPressure(pts []strokePoint, opt Options) float64 {
	acc := pts[0].pressure
	if opt.SimulatePressure {
		acc = DefaultPressure
	}
	n := min(len(pts), 10)
	for _, sp := range pts[:n] {
		p := sp.pressure
		if opt.SimulatePressure {
			p = simulate(acc, sp.distance, opt.Size)
		}
		acc = (acc + p) / 2
	}
	return acc
}

// simulate derives pressure from the distance travelled since the previous
// sample: fast movement thins the stroke.
func simulate(prev, distance, size float64) float64 {
	sp := math.Min(1, distance/size)
	rp := math.Min(1, 1-sp)
	return math.Min(1, prev+(rp-prev)*(sp*pressureRate))
}

func dot(a, b raster.Point) float64 { return a.X*b.X + a.Y*b.Y }

// halfCircle returns the half circle around c that starts at a and bulges
// towards outward, excluding both endpoints.
func halfCircle(c, a, outward raster.Point) []raster.Point {
	r := a.Sub(c)
	if r.Len() == 0 {
		return nil
	}
	sign := 1.0
	if dot(r.Rotate(raster.Point{}, math.Pi/2), outward) < 0 {
		sign = -1
	}
	out := make([]raster.Point, 0, capSegments-1)
	for k := 1; k < capSegments; k++ {
		out = append(out, a.Rotate(c, sign*math.Pi*float64(k)/capSegments))
	}
	return out
}

// dot2 returns a full circle polygon.
func dot2(c raster.Point, r float64) []raster.Point {
	const n = 2 * capSegments
	out := make([]raster.Point, n)
	for k := range out {
		a := 2 * math.Pi * float64(k) / n
		out[k] = raster.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return out
}

// SmoothPath builds a closed path through the outline using quadratic
// segments whose on-curve points are the midpoints of consecutive
// vertices.
func SmoothPath(outline []raster.Point) *raster.Path {
	p := raster.NewPath()
	if len(outline) == 0 {
		return p
	}
	p.MoveTo(outline[0].X, outline[0].Y)
	for i, v := range outline {
		next := outline[(i+1)%len(outline)]
		m := v.Lerp(next, 0.5)
		p.QuadTo(v.X, v.Y, m.X, m.Y)
	}
	p.Close()
	return p
}
