// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stroke

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/gogpu/sketch/internal/raster"
)

// skipThreshold is the sample count above which scatter strokes walk every
// second point pair.
const skipThreshold = 100

// TextureOptions configures a textured (pencil-like) stroke.
type TextureOptions struct {
	// Size is the nominal stroke width.
	Size float64

	// Base is the width fraction at zero pressure; the width at pressure p
	// is Size * (Base + p*(1-Base)).
	Base float64

	// Grains is the number of marks deposited per step.
	Grains int

	// Grain is the side length of a square mark.
	Grain float64

	// Step is the spacing between deposits along the path.
	Step float64
}

// ParticleKind selects a particle scatter pattern.
type ParticleKind uint8

const (
	// ParticleSpray scatters dense fine grains concentrated at the centre.
	ParticleSpray ParticleKind = iota
	// ParticleChalk scatters a few coarse grains uniformly.
	ParticleChalk
)

// String returns the effect name.
func (k ParticleKind) String() string {
	switch k {
	case ParticleSpray:
		return "spray"
	case ParticleChalk:
		return "chalk"
	default:
		return "unknown"
	}
}

// ParticleOptions configures a particle (airbrush-like) stroke.
type ParticleOptions struct {
	Kind ParticleKind
	Size float64
}

// DefaultTexture returns the pencil texture for a stroke of the given size.
func DefaultTexture(size float64) TextureOptions {
	return TextureOptions{Size: size, Base: 0.2, Grains: 3, Grain: 1.5, Step: 3}
}

// pairs calls fn for each consecutive point pair, skipping every other
// pair on long strokes. A single sample is passed as a degenerate pair.
func pairs(samples []Sample, fn func(a, b Sample)) {
	switch len(samples) {
	case 0:
		return
	case 1:
		fn(samples[0], samples[0])
		return
	}
	skip := 1
	if len(samples) > skipThreshold {
		skip = 2
	}
	for i := skip; i < len(samples); i += skip {
		fn(samples[i-skip], samples[i])
	}
}

// pressureOrDefault treats a missing (zero) pressure as the device default.
func pressureOrDefault(p float64) float64 {
	if p <= 0 {
		return DefaultPressure
	}
	return p
}

// maxSegmentSteps bounds the deposits of one segment. Longer runs inside
// the clip window are thinned out evenly.
const maxSegmentSteps = 1 << 16

// steps walks a-b at the given spacing and calls fn with the interpolation
// parameter of each deposit. A zero-length segment yields a single step.
// Deposits farther than reach outside clip are skipped without being
// visited, so the work is proportional to the visible part of the segment.
func steps(a, b Sample, spacing float64, clip image.Rectangle, reach float64, fn func(t float64)) {
	dist := math.Hypot(b.X-a.X, b.Y-a.Y)
	if clip.Empty() || math.IsInf(dist, 0) {
		return
	}
	t0, t1, ok := window(a, b, clip, reach)
	if !ok {
		return
	}
	n := math.Max(math.Ceil(dist/spacing), 1)
	first := math.Ceil(t0 * n)
	last := math.Min(math.Floor(t1*n), n-1)
	if last < first {
		return
	}
	stride := math.Max(1, math.Ceil((last-first+1)/maxSegmentSteps))
	count := int(math.Min((last-first)/stride, maxSegmentSteps-1)) + 1
	for k := range count {
		fn((first + float64(k)*stride) / n)
	}
}

// window clips the segment a-b against r grown by pad on every side and
// returns the parameter interval that lies inside.
func window(a, b Sample, r image.Rectangle, pad float64) (t0, t1 float64, ok bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	edges := [4][2]float64{
		{-dx, a.X - (float64(r.Min.X) - pad)},
		{dx, float64(r.Max.X) + pad - a.X},
		{-dy, a.Y - (float64(r.Min.Y) - pad)},
		{dy, float64(r.Max.Y) + pad - a.Y},
	}
	t0, t1 = 0, 1
	for _, e := range edges {
		p, q := e[0], e[1]
		switch {
		case p == 0:
			if q < 0 {
				return 0, 0, false
			}
		case p < 0:
			t0 = math.Max(t0, q/p)
		default:
			t1 = math.Min(t1, q/p)
		}
	}
	return t0, t1, t0 <= t1
}

// Textured deposits pencil grains along the samples into st.
func Textured(st *raster.Stamper, samples []Sample, opt TextureOptions, rng *rand.Rand) {
	if opt.Step <= 0 || opt.Grains <= 0 {
		return
	}
	clip, reach := st.Bounds(), opt.Reach()
	pairs(samples, func(a, b Sample) {
		if a != b && math.Hypot(b.X-a.X, b.Y-a.Y) < 1 {
			return
		}
		w1 := opt.Size * (opt.Base + pressureOrDefault(a.Pressure)*(1-opt.Base))
		w2 := opt.Size * (opt.Base + pressureOrDefault(b.Pressure)*(1-opt.Base))
		steps(a, b, opt.Step, clip, reach, func(t float64) {
			x := a.X + (b.X-a.X)*t
			y := a.Y + (b.Y-a.Y)*t
			w := w1 + (w2-w1)*t
			for range opt.Grains {
				angle := rng.Float64() * 2 * math.Pi
				off := rng.Float64() * (w / 2)
				st.Rect(x+math.Cos(angle)*off, y+math.Sin(angle)*off, opt.Grain, opt.Grain, 1)
			}
		})
	})
}

// Particles deposits spray or chalk grains along the samples into st.
func Particles(st *raster.Stamper, samples []Sample, opt ParticleOptions, rng *rand.Rand) {
	if opt.Size <= 0 {
		return
	}
	spacing := 2.0
	if opt.Kind == ParticleSpray {
		spacing = math.Max(opt.Size/3, 4)
	}
	clip, reach := st.Bounds(), opt.Reach()
	pairs(samples, func(a, b Sample) {
		steps(a, b, spacing, clip, reach, func(t float64) {
			x := a.X + (b.X-a.X)*t
			y := a.Y + (b.Y-a.Y)*t
			switch opt.Kind {
			case ParticleSpray:
				radius := opt.Size * 2.5
				for range 8 {
					angle := rng.Float64() * 2 * math.Pi
					r := rng.Float64() * rng.Float64() * radius
					st.Rect(x+math.Cos(angle)*r, y+math.Sin(angle)*r, 1.5, 1.5, 1)
				}
			case ParticleChalk:
				for range 3 {
					angle := rng.Float64() * 2 * math.Pi
					r := rng.Float64() * (opt.Size / 2)
					grain := 1 + rng.Float64()*2
					st.Rect(x+math.Cos(angle)*r, y+math.Sin(angle)*r, grain, grain, 1)
				}
			}
		})
	})
}

// ScatterBounds returns the area a scatter stroke can touch: the sample
// bounding box grown by reach on every side.
func ScatterBounds(samples []Sample, reach float64) (minX, minY, maxX, maxY float64) {
	if len(samples) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = samples[0].X, samples[0].Y
	maxX, maxY = minX, minY
	for _, s := range samples[1:] {
		minX, maxX = math.Min(minX, s.X), math.Max(maxX, s.X)
		minY, maxY = math.Min(minY, s.Y), math.Max(maxY, s.Y)
	}
	return minX - reach, minY - reach, maxX + reach, maxY + reach
}

// Reach returns how far from the sample path grains of a particle stroke
// can land.
func (o ParticleOptions) Reach() float64 {
	if o.Kind == ParticleSpray {
		return o.Size*2.5 + 2
	}
	return o.Size/2 + 3
}

// Reach returns how far from the sample path pencil grains can land.
func (o TextureOptions) Reach() float64 {
	return o.Size/2 + o.Grain + 1
}
