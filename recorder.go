// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import "slices"

// StrokeRecorder accumulates pointer samples for a stroke that has not
// been committed yet. It is the Drawing state of the history: Begin
// enters it, End and Cancel leave it.
//
// The recorded stroke gets its action id at Begin, so PreviewFrame and the
// eventual Commit scatter grains identically.
//
// StrokeRecorder is not safe for concurrent use; it belongs to the input
// goroutine.
type StrokeRecorder struct {
	template Stroke
	points   []Point
	drawing  bool
	straight bool
}

// Begin starts a stroke with the parameters of template. Points already
// in template become the first samples.
func (r *StrokeRecorder) Begin(template Stroke) {
	r.template = template
	r.template.Points = nil
	if r.template.ActionID == "" {
		r.template.ActionID = newActionID()
	}
	r.points = append(r.points[:0], template.Points...)
	r.drawing = true
	r.straight = false
}

// Add appends a sample. After Straighten it moves the end point instead.
// Samples outside a stroke are ignored.
func (r *StrokeRecorder) Add(p Point) {
	if !r.drawing {
		return
	}
	if r.straight && len(r.points) >= 2 {
		r.points[len(r.points)-1] = p
		return
	}
	r.points = append(r.points, p)
}

// Straighten snaps the stroke to a straight segment between its first and
// last samples. Subsequent samples move the end point.
func (r *StrokeRecorder) Straighten() {
	if !r.drawing || len(r.points) == 0 {
		return
	}
	if len(r.points) > 2 {
		r.points = append(r.points[:1], r.points[len(r.points)-1])
	}
	r.straight = true
}

// End finishes the stroke and returns it ready for Commit.
func (r *StrokeRecorder) End() (Stroke, error) {
	st, ok := r.current()
	if !ok {
		return Stroke{}, invalidf("no stroke in progress")
	}
	r.Cancel()
	if err := st.validate(); err != nil {
		return Stroke{}, err
	}
	return st, nil
}

// Cancel discards the stroke in progress.
func (r *StrokeRecorder) Cancel() {
	r.template = Stroke{}
	r.points = r.points[:0]
	r.drawing = false
	r.straight = false
}

// Drawing reports whether a stroke is in progress.
func (r *StrokeRecorder) Drawing() bool { return r.drawing }

// Points returns a copy of the samples recorded so far.
func (r *StrokeRecorder) Points() []Point { return slices.Clone(r.points) }

func (r *StrokeRecorder) current() (Stroke, bool) {
	if r == nil || !r.drawing || len(r.points) == 0 {
		return Stroke{}, false
	}
	st := r.template
	st.Points = slices.Clone(r.points)
	return st, true
}
