package sketch

import (
	stdimage "image"
	"image/draw"
	"testing"

	"github.com/gogpu/sketch/internal/image"
)

// newTestSession creates a w x h session that is closed at cleanup.
func newTestSession(t *testing.T, w, h int, opts ...Option) *Session {
	t.Helper()
	s, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New(%d, %d) error = %v", w, h, err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// tool returns a built-in tool or fails the test.
func tool(t *testing.T, name string) ToolConfig {
	t.Helper()
	tc, ok := Tool(name)
	if !ok {
		t.Fatalf("Tool(%q) not found", name)
	}
	return tc
}

// line returns a calligraphy stroke from (x0, y0) to (x1, y1) sampled every
// few pixels.
func line(t *testing.T, x0, y0, x1, y1, size float64, c Color) Stroke {
	t.Helper()
	const n = 12
	pts := make([]Point, n)
	for i := range pts {
		f := float64(i) / (n - 1)
		pts[i] = Point{X: x0 + (x1-x0)*f, Y: y0 + (y1-y0)*f, Pressure: 0.5}
	}
	return Stroke{Points: pts, Color: c, Size: size, Opacity: 1, Tool: tool(t, "calligraphy")}
}

// dot returns a single-sample calligraphy stroke.
func dot(t *testing.T, x, y, size float64, c Color) Stroke {
	t.Helper()
	return Stroke{
		Points:  []Point{{X: x, Y: y, Pressure: 0.5}},
		Color:   c,
		Size:    size,
		Opacity: 1,
		Tool:    tool(t, "calligraphy"),
	}
}

// mustCommit commits a and fails the test on error.
func mustCommit(t *testing.T, s *Session, a Action) {
	t.Helper()
	if _, err := s.Commit(a); err != nil {
		t.Fatalf("Commit(%s) error = %v", a.Kind(), err)
	}
}

// surface returns a copy of a layer's pixels.
func surface(t *testing.T, s *Session, id LayerID) *image.ImageBuf {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.layers.Get(id)
	if err != nil {
		t.Fatalf("layer %s: %v", id, err)
	}
	return l.surface.Clone()
}

// snapshotAll returns copies of every layer surface keyed by id.
func snapshotAll(t *testing.T, s *Session) map[LayerID]*image.ImageBuf {
	t.Helper()
	out := make(map[LayerID]*image.ImageBuf)
	for _, info := range s.Layers() {
		out[info.ID] = surface(t, s, info.ID)
	}
	return out
}

// assertSurfaces fails when any layer differs from want.
func assertSurfaces(t *testing.T, s *Session, want map[LayerID]*image.ImageBuf) {
	t.Helper()
	for id, buf := range want {
		if got := surface(t, s, id); !got.Equal(buf) {
			t.Errorf("layer %s pixels differ", id)
		}
	}
}

// alphaAt returns the stored alpha of a layer pixel.
func alphaAt(t *testing.T, s *Session, id LayerID, x, y int) uint8 {
	t.Helper()
	_, _, _, a := surface(t, s, id).At(x, y)
	return a
}

// solidImage returns a w x h image filled with c.
func solidImage(w, h int, c Color) *stdimage.NRGBA {
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, stdimage.NewUniform(c.NRGBA()), stdimage.Point{}, draw.Src)
	return img
}
