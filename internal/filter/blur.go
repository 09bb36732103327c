// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package filter

import (
	stdimage "image"
	"sync"

	"github.com/gogpu/sketch/internal/image"
)

// Blur applies a separable Gaussian blur with standard deviation sigma to
// buf in place. Premultiplied channels are blurred directly, which keeps
// transparent edges free of dark fringes. Pixels beyond the border repeat
// the edge pixel.
func Blur(buf *image.ImageBuf, sigma float64) {
	if sigma <= 0 {
		return
	}
	pix := buf.Pix()
	blurInterleaved(pix, buf.Width(), buf.Height(), 4, buf.Width()*4, CachedGaussianKernel(sigma))
	// Rounding may push a color channel above alpha.
	for i := 0; i < len(pix); i += 4 {
		a := pix[i+3]
		pix[i] = min(pix[i], a)
		pix[i+1] = min(pix[i+1], a)
		pix[i+2] = min(pix[i+2], a)
	}
}

// BlurAlpha returns a blurred copy of mask grown by the blur reach on every
// side and clipped to clip.
func BlurAlpha(mask *stdimage.Alpha, sigma float64, clip stdimage.Rectangle) *stdimage.Alpha {
	if mask == nil {
		return nil
	}
	reach := Reach(sigma)
	r := mask.Rect.Inset(-reach).Intersect(clip)
	if r.Empty() {
		return nil
	}
	out := stdimage.NewAlpha(r)
	for y := mask.Rect.Min.Y; y < mask.Rect.Max.Y; y++ {
		if y < r.Min.Y || y >= r.Max.Y {
			continue
		}
		x0 := max(mask.Rect.Min.X, r.Min.X)
		x1 := min(mask.Rect.Max.X, r.Max.X)
		if x0 >= x1 {
			continue
		}
		copy(out.Pix[out.PixOffset(x0, y):out.PixOffset(x1, y)], mask.Pix[mask.PixOffset(x0, y):mask.PixOffset(x1, y)])
	}
	if sigma > 0 {
		blurInterleaved(out.Pix, r.Dx(), r.Dy(), 1, out.Stride, CachedGaussianKernel(sigma))
	}
	return out
}

var tempPool = sync.Pool{
	New: func() any { return new([]float32) },
}

func getTemp(n int) *[]float32 {
	p := tempPool.Get().(*[]float32)
	if cap(*p) < n {
		*p = make([]float32, n)
	}
	*p = (*p)[:n]
	return p
}

// blurInterleaved convolves an interleaved nch-channel byte image with
// kernel horizontally and then vertically.
func blurInterleaved(pix []byte, w, h, nch, stride int, kernel []float32) {
	tp := getTemp(w * h * nch)
	defer tempPool.Put(tp)
	temp := *tp
	half := len(kernel) / 2
	rowLen := w * nch

	// Pass 1: horizontal, bytes -> temp.
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+rowLen]
		out := temp[y*rowLen : (y+1)*rowLen]
		for x := 0; x < w; x++ {
			for c := 0; c < nch; c++ {
				var acc float32
				for k, wt := range kernel {
					kx := clampInt(x+k-half, 0, w-1)
					acc += float32(row[kx*nch+c]) * wt
				}
				out[x*nch+c] = acc
			}
		}
	}

	// Pass 2: vertical, temp -> bytes.
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+rowLen]
		for i := 0; i < rowLen; i++ {
			var acc float32
			for k, wt := range kernel {
				ky := clampInt(y+k-half, 0, h-1)
				acc += temp[ky*rowLen+i] * wt
			}
			row[i] = clampByte(acc)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v + 0.5)
}
