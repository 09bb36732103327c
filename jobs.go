// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"context"

	"github.com/gogpu/sketch/internal/image"
)

// Job is an asynchronous fill or filter. While it runs its layer is busy:
// commits, undo and redo touching the layer, deletion and a second job on
// it fail with ErrLayerBusy.
type Job struct {
	action Action
	done   chan struct{}

	// Set before done is closed.
	status Status
	pixels int
	err    error
}

// Action returns the committed form of the job's action.
func (j *Job) Action() Action { return j.action }

// Done returns a channel closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes or ctx is done. Cancelling ctx stops
// the wait only; the raster work runs to completion regardless.
func (j *Job) Wait(ctx context.Context) (Status, error) {
	select {
	case <-j.done:
		return j.status, j.err
	case <-ctx.Done():
		return StatusOK, ctx.Err()
	}
}

// Pixels returns the number of pixels a finished fill wrote, or -1 for
// filters and unfinished jobs.
func (j *Job) Pixels() int {
	select {
	case <-j.done:
		return j.pixels
	default:
		return -1
	}
}

// FillAsync runs a flood fill off the session goroutine. Validation
// happens synchronously; the returned error is nil when the job started.
func (s *Session) FillAsync(a Fill) (*Job, error) {
	return s.startJob(a)
}

// FilterAsync applies a filter off the session goroutine.
func (s *Session) FilterAsync(a FilterApplied) (*Job, error) {
	return s.startJob(a)
}

func (s *Session) startJob(a Action) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, l, err := s.admit(a)
	if err != nil {
		return nil, err
	}
	j := &Job{action: a, done: make(chan struct{}), pixels: -1}
	s.busy[l.id] = j
	work := s.newScratch(l.surface)

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		n, err := s.render.render(work, a)
		s.finishJob(j, l, work, n, err)
	}()
	s.log.Debug("sketch: job started", "kind", a.Kind(), "layer", l.id, "action", a.ID())
	return j, nil
}

// finishJob publishes a job result: the work surface replaces the layer
// surface and the action is logged, in one critical section.
func (s *Session) finishJob(j *Job, l *Layer, work *image.ImageBuf, n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(j.done)
	defer s.history.pool.Put(work)
	delete(s.busy, l.id)

	if err == nil {
		err = l.surface.Swap(work)
	}
	if err != nil {
		j.err = err
		s.log.Warn("sketch: job failed", "kind", j.action.Kind(), "layer", l.id, "err", err)
		return
	}
	if a, ok := j.action.(Fill); ok {
		j.pixels = n
		s.log.Debug("sketch: fill finished", "layer", l.id, "pixels", n, "seed", [2]int{a.X, a.Y})
	}
	s.history.appended(j.action, l)
	s.changed()
}
