// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"encoding/binary"
	"errors"
	"fmt"
	stdimage "image"
	"image/color"
	"log/slog"
	"math"
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/sketch/internal/blend"
	"github.com/gogpu/sketch/internal/fill"
	"github.com/gogpu/sketch/internal/filter"
	"github.com/gogpu/sketch/internal/image"
	"github.com/gogpu/sketch/internal/raster"
	"github.com/gogpu/sketch/internal/stroke"
	"github.com/gogpu/sketch/internal/text"
)

// maxBlurSigma is the blur radius of a blur filter at full intensity.
const maxBlurSigma = 10

// renderer applies actions to layer surfaces. Commit and replay share it,
// so a replayed action produces the same pixels as its first rendering.
//
// renderer is safe for concurrent use on distinct surfaces as long as the
// image registry is not modified meanwhile.
type renderer struct {
	width, height int
	maxPoints     int
	images        map[ImageRef]stdimage.Image
	log           *slog.Logger
}

func newRenderer(w, h, maxPoints int, log *slog.Logger) *renderer {
	return &renderer{
		width:     w,
		height:    h,
		maxPoints: maxPoints,
		images:    make(map[ImageRef]stdimage.Image),
		log:       log,
	}
}

func (r *renderer) bounds() stdimage.Rectangle {
	return stdimage.Rect(0, 0, r.width, r.height)
}

// render draws a on buf. It reports the number of pixels written for fill
// actions and -1 otherwise.
func (r *renderer) render(buf *image.ImageBuf, a Action) (int, error) {
	switch a := a.(type) {
	case Stroke:
		r.drawStroke(buf, a)
	case Shape:
		r.drawShape(buf, a)
	case Fill:
		n, err := fill.Flood(buf, a.X, a.Y, a.Color.NRGBA(), a.Tolerance)
		if errors.Is(err, fill.ErrOutOfBounds) {
			return 0, errOutOfBounds(a.X, a.Y)
		}
		return n, err
	case Clip:
		pts := make([]raster.Point, len(a.Polygon))
		for i, v := range a.Polygon {
			pts[i] = raster.Pt(v.X, v.Y)
		}
		blend.KeepMask(buf, raster.Polygon(pts, r.bounds()))
	case Text:
		return -1, r.drawText(buf, a)
	case ClearLayer:
		buf.Clear()
	case FilterApplied:
		r.applyFilter(buf, a)
	case ImagePlaced:
		return -1, r.placeImage(buf, a)
	default:
		return 0, invalidf("action kind %s", a.Kind())
	}
	return -1, nil
}

// rng returns the generator for copy n of action id. The same id and copy
// always yield the same sequence.
func rng(id ActionID, n int) *rand.Rand {
	sum := blake2b.Sum256([]byte(id))
	s1 := binary.LittleEndian.Uint64(sum[0:8])
	s2 := binary.LittleEndian.Uint64(sum[8:16]) + uint64(n)*0x9e3779b97f4a7c15 //nolint:gosec // n is a small copy index
	return rand.New(rand.NewPCG(s1, s2))
}

// subsample thins points to at most max samples, keeping both endpoints.
func subsample(points []Point, maxPoints int) []Point {
	if maxPoints < 2 || len(points) <= maxPoints {
		return points
	}
	out := make([]Point, maxPoints)
	last := len(points) - 1
	for i := range out {
		out[i] = points[i*last/(maxPoints-1)]
	}
	return out
}

func toSamples(points []Point, tf func(Point) Point) []stroke.Sample {
	out := make([]stroke.Sample, len(points))
	for i, p := range points {
		q := tf(p)
		pr := q.Pressure
		if pr <= 0 {
			pr = stroke.DefaultPressure
		}
		out[i] = stroke.Sample{X: q.X, Y: q.Y, Pressure: pr}
	}
	return out
}

func (r *renderer) drawStroke(buf *image.ImageBuf, a Stroke) {
	points := subsample(a.Points, r.maxPoints)
	if len(points) != len(a.Points) {
		r.log.Debug("sketch: stroke sub-sampled",
			"action", a.ActionID, "points", len(a.Points), "kept", len(points),
			"err", ErrRenderingDegraded)
	}
	for n, tf := range a.Symmetry.copies(r.width, r.height) {
		samples := toSamples(points, tf)
		switch t := a.Tool.(type) {
		case VectorStrokeConfig:
			r.vectorStroke(buf, samples, a, t)
		case TexturedStrokeConfig:
			opt := stroke.TextureOptions{
				Size: a.Size * t.SizeFactor, Base: t.Base,
				Grains: t.Grains, Grain: t.Grain, Step: t.Step,
			}
			st := raster.NewStamper(r.scatterRect(samples, opt.Reach()))
			stroke.Textured(st, samples, opt, rng(a.ActionID, n))
			blend.FillMask(buf, st.Mask(), a.Color.NRGBA(), a.Opacity*t.Opacity, blend.ModeSourceOver)
		case ParticleConfig:
			kind, _ := t.Effect.kind()
			opt := stroke.ParticleOptions{Kind: kind, Size: a.Size * t.SizeFactor}
			st := raster.NewStamper(r.scatterRect(samples, opt.Reach()))
			stroke.Particles(st, samples, opt, rng(a.ActionID, n))
			blend.FillMask(buf, st.Mask(), a.Color.NRGBA(), a.Opacity*t.Opacity, blend.ModeSourceOver)
		}
	}
}

func (r *renderer) scatterRect(samples []stroke.Sample, reach float64) stdimage.Rectangle {
	x0, y0, x1, y1 := stroke.ScatterBounds(samples, reach)
	return stdimage.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	).Intersect(r.bounds())
}

func (r *renderer) vectorStroke(buf *image.ImageBuf, samples []stroke.Sample, a Stroke, t VectorStrokeConfig) {
	size := a.Size * t.SizeFactor
	easing, _ := stroke.EasingByName(t.TaperEasing)
	outline := stroke.Outline(samples, stroke.Options{
		Size:             size,
		Thinning:         t.Thinning,
		Smoothing:        t.Smoothing,
		Streamline:       t.Streamline,
		TaperStart:       t.TaperStart,
		TaperEnd:         t.TaperEnd,
		TaperEasing:      easing,
		SimulatePressure: stroke.NeedsSimulatedPressure(samples),
	})
	if len(outline) < 3 {
		return
	}
	mask := stroke.SmoothPath(outline).Mask(r.bounds())
	if mask == nil {
		return
	}
	opacity := a.Opacity * t.Opacity
	mode := t.Composite.op()
	if t.Glow {
		glow := filter.BlurAlpha(mask, size*0.75, r.bounds())
		blend.FillMask(buf, glow, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, opacity*0.5, mode)
	}
	blend.FillMask(buf, mask, a.Color.NRGBA(), opacity, mode)
}

func (r *renderer) drawShape(buf *image.ImageBuf, a Shape) {
	p0, p1 := raster.Pt(a.Start.X, a.Start.Y), raster.Pt(a.End.X, a.End.Y)
	clip := r.bounds()
	var mask *stdimage.Alpha
	switch a.Form {
	case ShapeLine:
		mask = raster.Polyline([]raster.Point{p0, p1}, a.Size, clip)
	case ShapeRect:
		if a.Size > 0 {
			mask = raster.RectStroke(p0, p1, a.Size, clip)
		}
		if a.Filled {
			mask = raster.Union(mask, raster.RectFill(p0, p1, clip), clip)
		}
	case ShapeEllipse:
		if a.Size > 0 {
			mask = raster.EllipseStroke(p0, p1, a.Size, clip)
		}
		if a.Filled {
			mask = raster.Union(mask, raster.EllipseFill(p0, p1, clip), clip)
		}
	}
	blend.FillMask(buf, mask, a.Color.NRGBA(), a.Opacity, blend.ModeSourceOver)
}

func (r *renderer) drawText(buf *image.ImageBuf, a Text) error {
	tr, err := text.Default()
	if err != nil {
		return fmt.Errorf("sketch: text renderer: %w", err)
	}
	mask := tr.Mask(a.Content, a.X, a.Y, a.Size, r.bounds())
	blend.FillMask(buf, mask, a.Color.NRGBA(), 1, blend.ModeSourceOver)
	return nil
}

func (r *renderer) applyFilter(buf *image.ImageBuf, a FilterApplied) {
	t := float32(a.Intensity)
	switch a.Filter {
	case FilterGrayscale:
		filter.Grayscale().Mix(t).Apply(buf)
	case FilterSepia:
		filter.Sepia().Mix(t).Apply(buf)
	case FilterInvert:
		filter.Invert().Mix(t).Apply(buf)
	case FilterBrightness:
		filter.Brightness(1 + t).Apply(buf)
	case FilterContrast:
		filter.Contrast(1 + t).Apply(buf)
	case FilterSaturation:
		filter.Saturation(1 + t).Apply(buf)
	case FilterBlur:
		filter.Blur(buf, a.Intensity*maxBlurSigma)
	}
}

func (r *renderer) placeImage(buf *image.ImageBuf, a ImagePlaced) error {
	src, ok := r.images[a.Image]
	if !ok {
		return errUnknownImage(a.Image)
	}
	dr := stdimage.Rect(
		int(math.Round(a.X)), int(math.Round(a.Y)),
		int(math.Round(a.X+a.W)), int(math.Round(a.Y+a.H)),
	)
	vis := dr.Intersect(r.bounds())
	if vis.Empty() {
		return nil
	}
	tmp := stdimage.NewRGBA(vis)
	xdraw.CatmullRom.Scale(tmp, dr, src, src.Bounds(), xdraw.Src, nil)
	blend.CompositeImage(buf, tmp, stdimage.Point{}, 1, blend.ModeSourceOver)
	return nil
}
