package image

import (
	"image/color"
	"sync"
	"testing"
)

func TestPool_GetReturnsClearedBuffer(t *testing.T) {
	pool := NewPool(8, 8, 2)
	buf := pool.Get()
	buf.Fill(color.RGBA{R: 9, A: 9})
	pool.Put(buf)

	if pool.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", pool.Len())
	}
	got := pool.Get()
	if got != buf {
		t.Error("Get() did not reuse the pooled buffer")
	}
	if !got.IsTransparent() {
		t.Error("reused buffer was not cleared")
	}
}

func TestPool_Capacity(t *testing.T) {
	pool := NewPool(4, 4, 1)
	pool.Put(pool.Get())
	pool.Put(pool.Get().Clone())
	extra, _ := NewImageBuf(4, 4)
	pool.Put(extra)
	if pool.Len() != 1 {
		t.Errorf("Len() = %d, want 1", pool.Len())
	}

	foreign, _ := NewImageBuf(2, 2)
	pool.Put(foreign)
	pool.Put(nil)
	if pool.Len() != 1 {
		t.Errorf("Len() after foreign Put = %d, want 1", pool.Len())
	}
}

func TestPool_Clone(t *testing.T) {
	pool := NewPool(3, 3, 0)
	src, _ := NewImageBuf(3, 3)
	src.Set(1, 1, 1, 1, 1, 1)
	c := pool.Clone(src)
	if !c.Equal(src) {
		t.Error("Clone() differs from source")
	}
}

func TestPool_Concurrent(t *testing.T) {
	pool := NewPool(16, 16, 4)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				buf := pool.Get()
				buf.Set(0, 0, 1, 1, 1, 1)
				pool.Put(buf)
			}
		}()
	}
	wg.Wait()
	if pool.Len() > 4 {
		t.Errorf("Len() = %d, exceeds capacity 4", pool.Len())
	}
}
