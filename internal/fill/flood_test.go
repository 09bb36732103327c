package fill

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/sketch/internal/image"
)

var red = color.NRGBA{R: 255, A: 255}

func newBuf(t *testing.T, w, h int) *image.ImageBuf {
	t.Helper()
	buf, err := image.NewImageBuf(w, h)
	if err != nil {
		t.Fatalf("NewImageBuf() error = %v", err)
	}
	return buf
}

func TestFlood_TransparentRegion(t *testing.T) {
	buf := newBuf(t, 40, 40)
	// A vertical wall at x=20 splits the canvas into two regions.
	for y := 0; y < 40; y++ {
		buf.Set(20, y, 0, 0, 255, 255)
	}

	n, err := Flood(buf, 10, 10, red, 0)
	if err != nil {
		t.Fatalf("Flood() error = %v", err)
	}
	if n != 20*40 {
		t.Errorf("Flood() wrote %d pixels, want %d", n, 20*40)
	}
	if r, g, b, a := buf.At(0, 39); r != 255 || g != 0 || b != 0 || a != 255 {
		t.Errorf("At(0,39) = (%d,%d,%d,%d), want (255,0,0,255)", r, g, b, a)
	}
	if _, _, b, _ := buf.At(20, 5); b != 255 {
		t.Error("wall was overwritten")
	}
	if _, _, _, a := buf.At(30, 30); a != 0 {
		t.Error("disconnected region was filled")
	}
}

func TestFlood_SeedMatchesFillIsNoop(t *testing.T) {
	buf := newBuf(t, 8, 8)
	buf.Fill(color.RGBA{R: 250, A: 255})
	before := buf.Clone()

	n, err := Flood(buf, 3, 3, red, 10)
	if err != nil {
		t.Fatalf("Flood() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Flood() wrote %d pixels, want 0", n)
	}
	if !buf.Equal(before) {
		t.Error("surface changed on no-op fill")
	}
}

func TestFlood_OutOfBounds(t *testing.T) {
	buf := newBuf(t, 8, 8)
	before := buf.Clone()
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		if _, err := Flood(buf, p[0], p[1], red, 0); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Flood(%v) error = %v, want %v", p, err, ErrOutOfBounds)
		}
	}
	if !buf.Equal(before) {
		t.Error("surface changed on rejected fill")
	}
}

func TestFlood_Tolerance(t *testing.T) {
	buf := newBuf(t, 3, 1)
	buf.Set(0, 0, 100, 100, 100, 255)
	buf.Set(1, 0, 108, 100, 100, 255)
	buf.Set(2, 0, 120, 100, 100, 255)

	tests := []struct {
		tol  uint8
		want int
	}{
		{0, 1},
		{8, 2},
		{20, 3},
	}
	for _, tt := range tests {
		b := buf.Clone()
		n, err := Flood(b, 0, 0, red, tt.tol)
		if err != nil {
			t.Fatalf("Flood() error = %v", err)
		}
		if n != tt.want {
			t.Errorf("Flood(tol=%d) wrote %d, want %d", tt.tol, n, tt.want)
		}
	}
}

func TestFlood_FullCanvas(t *testing.T) {
	buf := newBuf(t, 512, 512)
	n, err := Flood(buf, 0, 0, red, 0)
	if err != nil {
		t.Fatalf("Flood() error = %v", err)
	}
	if n != 512*512 {
		t.Errorf("Flood() wrote %d, want %d", n, 512*512)
	}
}

func BenchmarkFlood(b *testing.B) {
	buf, _ := image.NewImageBuf(1024, 1024)
	for i := 0; i < b.N; i++ {
		buf.Clear()
		_, _ = Flood(buf, 512, 512, red, 0)
	}
}
