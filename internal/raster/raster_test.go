package raster

import (
	"image"
	"math"
	"testing"
)

var canvas = image.Rect(0, 0, 64, 64)

func alphaAt(m *image.Alpha, x, y int) byte {
	if m == nil || !image.Pt(x, y).In(m.Rect) {
		return 0
	}
	return m.AlphaAt(x, y).A
}

func TestPath_Bounds(t *testing.T) {
	p := NewPath()
	if !p.Bounds().Empty() {
		t.Errorf("empty path Bounds() = %v, want empty", p.Bounds())
	}
	p.MoveTo(2.5, 3)
	p.LineTo(10, 3)
	p.QuadTo(12, 20, 4, 8)
	want := image.Rect(2, 3, 13, 21)
	if got := p.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestPath_MaskRect(t *testing.T) {
	p := NewPath()
	p.AddRect(10, 10, 20, 20)
	m := p.Mask(canvas)
	if m == nil {
		t.Fatal("Mask() = nil")
	}
	if got := alphaAt(m, 15, 15); got != 255 {
		t.Errorf("inside coverage = %d, want 255", got)
	}
	if got := alphaAt(m, 9, 15); got != 0 {
		t.Errorf("outside coverage = %d, want 0", got)
	}
	if m.Rect.Dx() > 12 || m.Rect.Dy() > 12 {
		t.Errorf("mask rect %v is not limited to the path bounds", m.Rect)
	}
}

func TestPath_MaskClipped(t *testing.T) {
	p := NewPath()
	p.AddRect(-10, -10, 5, 5)
	m := p.Mask(canvas)
	if m == nil {
		t.Fatal("Mask() = nil")
	}
	if m.Rect.Min != (image.Point{}) {
		t.Errorf("mask origin = %v, want (0,0)", m.Rect.Min)
	}
	if got := alphaAt(m, 2, 2); got != 255 {
		t.Errorf("coverage at (2,2) = %d, want 255", got)
	}

	off := NewPath()
	off.AddRect(100, 100, 110, 110)
	if m := off.Mask(canvas); m != nil {
		t.Errorf("Mask(outside clip) = %v, want nil", m.Rect)
	}
}

func TestPath_OpenSubpathsClosed(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(20, 0)
	p.LineTo(20, 20)
	p.MoveTo(30, 30) // implicitly closes the triangle
	p.LineTo(40, 30)
	p.LineTo(40, 40)
	m := p.Mask(canvas)
	if alphaAt(m, 15, 5) != 255 || alphaAt(m, 38, 33) != 255 {
		t.Error("open subpaths were not filled")
	}
}

func TestDisc(t *testing.T) {
	m := Disc(Pt(32, 32), 5, canvas)
	if alphaAt(m, 32, 32) != 255 {
		t.Error("disc centre is not covered")
	}
	if alphaAt(m, 32, 40) != 0 {
		t.Error("pixel outside radius is covered")
	}
}

func TestPolyline_SelfOverlapKeepsCoverage(t *testing.T) {
	pts := []Point{{10, 10}, {50, 10}, {30, 10}, {30, 40}}
	m := Polyline(pts, 6, canvas)
	for _, p := range []image.Point{{20, 10}, {30, 10}, {30, 30}} {
		if got := alphaAt(m, p.X, p.Y); got != 255 {
			t.Errorf("coverage at %v = %d, want 255", p, got)
		}
	}
	if Polyline(nil, 5, canvas) != nil {
		t.Error("Polyline(nil) != nil")
	}
}

func TestShapes(t *testing.T) {
	a, b := Pt(10, 10), Pt(50, 40)

	rf := RectFill(b, a, canvas)
	if alphaAt(rf, 30, 25) != 255 {
		t.Error("RectFill interior not covered")
	}

	rs := RectStroke(a, b, 4, canvas)
	if alphaAt(rs, 30, 10) != 255 {
		t.Error("RectStroke edge not covered")
	}
	if alphaAt(rs, 30, 25) != 0 {
		t.Error("RectStroke interior covered")
	}

	ef := EllipseFill(a, b, canvas)
	if alphaAt(ef, 30, 25) != 255 {
		t.Error("EllipseFill centre not covered")
	}
	if alphaAt(ef, 11, 11) != 0 {
		t.Error("EllipseFill corner covered")
	}

	es := EllipseStroke(a, b, 4, canvas)
	if alphaAt(es, 30, 25) != 0 {
		t.Error("EllipseStroke centre covered")
	}
	if alphaAt(es, 10, 25) == 0 {
		t.Error("EllipseStroke left edge not covered")
	}
}

func TestPolygon(t *testing.T) {
	if Polygon([]Point{{0, 0}, {1, 1}}, canvas) != nil {
		t.Error("Polygon(2 points) != nil")
	}
	m := Polygon([]Point{{0, 0}, {40, 0}, {0, 40}}, canvas)
	if alphaAt(m, 5, 5) != 255 {
		t.Error("triangle interior not covered")
	}
	if alphaAt(m, 35, 35) != 0 {
		t.Error("triangle exterior covered")
	}
}

func TestUnion(t *testing.T) {
	a := Disc(Pt(10, 10), 3, canvas)
	b := Disc(Pt(40, 40), 3, canvas)
	u := Union(a, b, canvas)
	if alphaAt(u, 10, 10) != 255 || alphaAt(u, 40, 40) != 255 {
		t.Error("Union() lost coverage")
	}
	if Union(nil, b, canvas) != b {
		t.Error("Union(nil, b) != b")
	}
}

func TestStamper(t *testing.T) {
	s := NewStamper(canvas)
	s.Rect(10, 10, 1, 1, 0.5)
	first := alphaAt(s.Mask(), 10, 10)
	s.Rect(10, 10, 1, 1, 0.5)
	second := alphaAt(s.Mask(), 10, 10)
	if first < 127 || first > 128 {
		t.Errorf("single stamp = %d, want ~128", first)
	}
	if second <= first {
		t.Errorf("overlapping stamps did not accumulate: %d then %d", first, second)
	}

	s.Rect(20.5, 20, 1, 1, 1)
	if got := alphaAt(s.Mask(), 20, 20); got < 127 || got > 128 {
		t.Errorf("half-pixel stamp = %d, want ~128", got)
	}

	if s.Bounds() != canvas {
		t.Errorf("Bounds() = %v, want %v", s.Bounds(), canvas)
	}

	s.Rect(-5, -5, 2, 2, 1) // clipped away
	empty := NewStamper(image.Rectangle{})
	empty.Rect(1, 1, 1, 1, 1)
	if empty.Mask() != nil {
		t.Error("empty stamper produced a mask")
	}
	if !empty.Bounds().Empty() {
		t.Errorf("empty stamper Bounds() = %v", empty.Bounds())
	}
}

func TestPointHelpers(t *testing.T) {
	p := Pt(3, 4)
	if p.Len() != 5 {
		t.Errorf("Len() = %v, want 5", p.Len())
	}
	r := Pt(1, 0).Rotate(Point{}, math.Pi/2)
	if math.Abs(r.X) > 1e-9 || math.Abs(r.Y-1) > 1e-9 {
		t.Errorf("Rotate() = %v, want (0,1)", r)
	}
	if u := Pt(0, 0).Unit(); u != (Point{}) {
		t.Errorf("zero Unit() = %v", u)
	}
}
