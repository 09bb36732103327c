// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package image

import "sync"

// Pool is a thread-safe pool of same-sized buffers.
//
// Checkpoints and scratch surfaces are all canvas-sized, so the pool keeps a
// single bucket. Buffers of any other size are never retained.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	width   int
	height  int
	free    []*ImageBuf
	maxSize int // max retained buffers, 0 = unlimited
}

// NewPool creates a pool for width x height buffers retaining at most
// maxSize idle buffers.
func NewPool(width, height, maxSize int) *Pool {
	return &Pool{width: width, height: height, maxSize: maxSize}
}

// Get returns a cleared buffer, reusing an idle one when available.
func (p *Pool) Get() *ImageBuf {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		buf := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.mu.Unlock()
		buf.Clear()
		return buf
	}
	p.mu.Unlock()

	buf, err := NewImageBuf(p.width, p.height)
	if err != nil {
		return nil
	}
	return buf
}

// Clone returns a pooled copy of src.
func (p *Pool) Clone(src *ImageBuf) *ImageBuf {
	if src.width != p.width || src.height != p.height {
		return src.Clone()
	}
	buf := p.Get()
	copy(buf.pix, src.pix)
	return buf
}

// Put returns a buffer to the pool. Nil buffers, foreign sizes and buffers
// beyond capacity are dropped.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil || buf.width != p.width || buf.height != p.height {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxSize > 0 && len(p.free) >= p.maxSize {
		return
	}
	p.free = append(p.free, buf)
}

// Len returns the number of idle buffers.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
