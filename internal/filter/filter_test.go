package filter

import (
	stdimage "image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/sketch/internal/image"
)

// createTestBuf creates a buffer filled with the given premultiplied color.
func createTestBuf(t *testing.T, w, h int, c color.RGBA) *image.ImageBuf {
	t.Helper()
	buf, err := image.NewImageBuf(w, h)
	if err != nil {
		t.Fatalf("NewImageBuf() error = %v", err)
	}
	buf.Fill(c)
	return buf
}

func near(a, b byte, tol int) bool {
	d := int(a) - int(b)
	return d <= tol && d >= -tol
}

func TestColorMatrix_Apply(t *testing.T) {
	tests := []struct {
		name string
		m    ColorMatrix
		in   color.RGBA
		want color.RGBA
	}{
		{"identity", Identity(), color.RGBA{10, 20, 30, 255}, color.RGBA{10, 20, 30, 255}},
		{"invert", Invert(), color.RGBA{255, 0, 100, 255}, color.RGBA{0, 255, 155, 255}},
		{"grayscale", Grayscale(), color.RGBA{255, 0, 0, 255}, color.RGBA{77, 77, 77, 255}},
		{"sepia white clamps", Sepia(), color.RGBA{255, 255, 255, 255}, color.RGBA{255, 255, 239, 255}},
		{"brightness", Brightness(0.5), color.RGBA{200, 100, 50, 255}, color.RGBA{100, 50, 25, 255}},
		{"contrast flat", Contrast(0), color.RGBA{200, 100, 50, 255}, color.RGBA{128, 128, 128, 255}},
		{"saturation zero", Saturation(0), color.RGBA{0, 255, 0, 255}, color.RGBA{182, 182, 182, 255}},
		// Half transparent white inverts to half transparent black.
		{"invert premultiplied", Invert(), color.RGBA{128, 128, 128, 128}, color.RGBA{0, 0, 0, 128}},
		{"transparent untouched", Invert(), color.RGBA{}, color.RGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := createTestBuf(t, 2, 2, tt.in)
			tt.m.Apply(buf)
			r, g, b, a := buf.At(1, 1)
			got := color.RGBA{r, g, b, a}
			if !near(r, tt.want.R, 1) || !near(g, tt.want.G, 1) || !near(b, tt.want.B, 1) || a != tt.want.A {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorMatrix_Mix(t *testing.T) {
	if Invert().Mix(0) != Identity() {
		t.Error("Mix(0) != Identity()")
	}
	if Invert().Mix(1) != Invert() {
		t.Error("Mix(1) != matrix")
	}
	half := Invert().Mix(0.5)
	buf := createTestBuf(t, 1, 1, color.RGBA{255, 0, 0, 255})
	half.Apply(buf)
	r, g, _, _ := buf.At(0, 0)
	if !near(r, 128, 1) || !near(g, 128, 1) {
		t.Errorf("half invert = r%d g%d, want ~128", r, g)
	}
}

func TestGaussianKernel(t *testing.T) {
	if k := GaussianKernel(0); len(k) != 1 || k[0] != 1 {
		t.Errorf("GaussianKernel(0) = %v, want [1]", k)
	}
	k := GaussianKernel(2)
	if len(k) != 13 {
		t.Errorf("len(GaussianKernel(2)) = %d, want 13", len(k))
	}
	var sum float64
	for _, v := range k {
		sum += float64(v)
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Errorf("kernel sum = %v, want 1", sum)
	}
	if k[6] <= k[5] || k[5] != k[7] {
		t.Error("kernel is not symmetric with a central peak")
	}
	if &CachedGaussianKernel(2)[0] != &CachedGaussianKernel(2)[0] {
		t.Error("CachedGaussianKernel() did not reuse the kernel")
	}
}

func TestBlur(t *testing.T) {
	buf := createTestBuf(t, 21, 21, color.RGBA{})
	buf.Set(10, 10, 255, 255, 255, 255)
	Blur(buf, 2)

	_, _, _, center := buf.At(10, 10)
	_, _, _, near1 := buf.At(11, 10)
	_, _, _, far := buf.At(20, 20)
	if center == 255 || center == 0 {
		t.Errorf("center alpha = %d, want spread", center)
	}
	if near1 == 0 || near1 > center {
		t.Errorf("neighbour alpha = %d, centre %d", near1, center)
	}
	if far != 0 {
		t.Errorf("far alpha = %d, want 0", far)
	}
	for i := 0; i < len(buf.Pix()); i += 4 {
		p := buf.Pix()[i : i+4]
		if p[0] > p[3] {
			t.Fatalf("pixel %d color %d exceeds alpha %d", i/4, p[0], p[3])
		}
	}
}

func TestBlur_UniformUnchanged(t *testing.T) {
	buf := createTestBuf(t, 8, 8, color.RGBA{40, 80, 120, 200})
	Blur(buf, 1.5)
	if r, g, b, a := buf.At(4, 4); r != 40 || g != 80 || b != 120 || a != 200 {
		t.Errorf("uniform blur changed pixel to (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestBlurAlpha(t *testing.T) {
	mask := stdimage.NewAlpha(stdimage.Rect(10, 10, 14, 14))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}
	clip := stdimage.Rect(0, 0, 16, 16)
	out := BlurAlpha(mask, 1, clip)
	want := stdimage.Rect(7, 7, 16, 16)
	if out.Rect != want {
		t.Errorf("BlurAlpha() rect = %v, want %v", out.Rect, want)
	}
	if out.AlphaAt(9, 12).A == 0 {
		t.Error("blur did not spread outside the mask")
	}
	if BlurAlpha(nil, 1, clip) != nil {
		t.Error("BlurAlpha(nil) != nil")
	}
}
