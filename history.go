// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/sketch/internal/image"
)

// Status reports the outcome of a history operation that has no error.
type Status uint8

const (
	StatusOK Status = iota
	StatusNothingToUndo
	StatusNothingToRedo
)

var statusNames = [...]string{
	StatusOK:            "ok",
	StatusNothingToUndo: "nothing to undo",
	StatusNothingToRedo: "nothing to redo",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// checkpoint is a layer surface snapshot taken right after the action
// with id after was rendered.
type checkpoint struct {
	after   ActionID
	surface *image.ImageBuf
}

// History is the append-only action log, the redo stack and the per-layer
// raster checkpoints. Undo and redo rebuild the affected layer by
// replaying its actions, starting from the newest valid checkpoint.
//
// History is not safe for concurrent use except for FullRebuild, which
// rebuilds layers in parallel with each goroutine owning one surface.
type History struct {
	log  []Action
	redo []Action

	// index maps the id of every logged action to its log position.
	index map[ActionID]int

	interval, limit int
	pool            *image.Pool

	mu          sync.Mutex // guards checkpoints during FullRebuild
	checkpoints map[LayerID][]checkpoint

	render *renderer
	logger *slog.Logger
}

func newHistory(r *renderer, interval, limit int, log *slog.Logger) *History {
	return &History{
		index:       make(map[ActionID]int),
		interval:    interval,
		limit:       limit,
		pool:        image.NewPool(r.width, r.height, limit),
		checkpoints: make(map[LayerID][]checkpoint),
		render:      r,
		logger:      log,
	}
}

// Len returns the number of logged actions.
func (h *History) Len() int { return len(h.log) }

// RedoLen returns the number of undone actions available for redo.
func (h *History) RedoLen() int { return len(h.redo) }

// Actions returns a copy of the log in commit order.
func (h *History) Actions() []Action { return slices.Clone(h.log) }

// RedoActions returns a copy of the redo stack, the next redo last.
func (h *History) RedoActions() []Action { return slices.Clone(h.redo) }

func (h *History) has(id ActionID) bool {
	_, ok := h.index[id]
	if ok {
		return true
	}
	return slices.ContainsFunc(h.redo, func(a Action) bool { return a.ID() == id })
}

func (h *History) push(a Action) {
	h.index[a.ID()] = len(h.log)
	h.log = append(h.log, a)
}

func (h *History) pop() Action {
	a := h.log[len(h.log)-1]
	h.log[len(h.log)-1] = nil
	h.log = h.log[:len(h.log)-1]
	delete(h.index, a.ID())
	return a
}

// appended records a freshly rendered action: it is logged, the redo
// stack is cleared and a checkpoint may be taken of l.
func (h *History) appended(a Action, l *Layer) {
	h.push(a)
	if len(h.redo) > 0 {
		clear(h.redo)
		h.redo = h.redo[:0]
		h.dropStale()
	}
	h.maybeCheckpoint(l, a, h.layerCount(l.id, len(h.log)-1))
}

// undo moves the last action to the redo stack and returns it.
func (h *History) undo() Action {
	a := h.pop()
	h.redo = append(h.redo, a)
	return a
}

// redoNext moves the top of the redo stack back to the log.
func (h *History) redoNext() Action {
	a := h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = nil
	h.redo = h.redo[:len(h.redo)-1]
	h.push(a)
	return a
}

// purge removes every action and checkpoint of a layer.
func (h *History) purge(id LayerID) {
	onLayer := func(a Action) bool { return a.LayerID() == id }
	h.log = slices.DeleteFunc(h.log, onLayer)
	h.redo = slices.DeleteFunc(h.redo, onLayer)
	clear(h.index)
	for i, a := range h.log {
		h.index[a.ID()] = i
	}
	for _, cp := range h.checkpoints[id] {
		h.pool.Put(cp.surface)
	}
	delete(h.checkpoints, id)
}

// dropStale releases checkpoints whose action can no longer return to the
// log.
func (h *History) dropStale() {
	for id, cps := range h.checkpoints {
		kept := cps[:0]
		for _, cp := range cps {
			if h.has(cp.after) {
				kept = append(kept, cp)
			} else {
				h.pool.Put(cp.surface)
			}
		}
		if len(kept) == 0 {
			delete(h.checkpoints, id)
		} else {
			h.checkpoints[id] = kept
		}
	}
}

// layerCount returns how many logged actions up to and including position
// end belong to layer id.
func (h *History) layerCount(id LayerID, end int) int {
	n := 0
	for _, a := range h.log[:end+1] {
		if a.LayerID() == id {
			n++
		}
	}
	return n
}

// maybeCheckpoint snapshots l after a, the count-th logged action on l,
// when count is a multiple of the checkpoint interval.
func (h *History) maybeCheckpoint(l *Layer, a Action, count int) {
	if h.interval <= 0 || h.limit <= 0 || count == 0 || count%h.interval != 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	cps := h.checkpoints[l.id]
	for _, cp := range cps {
		if cp.after == a.ID() {
			return
		}
	}
	cps = append(cps, checkpoint{after: a.ID(), surface: h.pool.Clone(l.surface)})
	slices.SortFunc(cps, func(x, y checkpoint) int {
		return h.position(x.after) - h.position(y.after)
	})
	for len(cps) > h.limit {
		h.pool.Put(cps[0].surface)
		cps = slices.Delete(cps, 0, 1)
	}
	h.checkpoints[l.id] = cps
	h.logger.Debug("sketch: checkpoint", "layer", l.id, "after", a.ID(), "count", len(cps))
}

// position returns the log position of id, or -1 for actions on the redo
// stack.
func (h *History) position(id ActionID) int {
	if p, ok := h.index[id]; ok {
		return p
	}
	return -1
}

// newestCheckpoint returns the latest checkpoint of a layer whose action
// is still logged, and its log position.
func (h *History) newestCheckpoint(id LayerID) (checkpoint, int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	best, bestPos := checkpoint{}, -1
	for _, cp := range h.checkpoints[id] {
		if p := h.position(cp.after); p > bestPos {
			best, bestPos = cp, p
		}
	}
	return best, bestPos, bestPos >= 0
}

// rebuild clears l and replays its logged actions in order, restoring the
// newest valid checkpoint first. Only l's surface is touched.
func (h *History) rebuild(l *Layer) error {
	start, count, replayed := 0, 0, 0
	if cp, pos, ok := h.newestCheckpoint(l.id); ok {
		if err := l.surface.CopyFrom(cp.surface); err != nil {
			return err
		}
		start = pos + 1
		count = h.layerCount(l.id, pos)
	} else {
		l.surface.Clear()
	}
	var errs []error
	for _, a := range h.log[start:] {
		if a.LayerID() != l.id {
			continue
		}
		if _, err := h.render.render(l.surface, a); err != nil {
			errs = append(errs, err)
			h.logger.Warn("sketch: replay failed", "layer", l.id, "action", a.ID(), "err", err)
		}
		count++
		replayed++
		h.maybeCheckpoint(l, a, count)
	}
	h.logger.Debug("sketch: rebuilt layer", "layer", l.id, "from", start, "replayed", replayed)
	return errors.Join(errs...)
}

// fullRebuild rebuilds every layer concurrently.
func (h *History) fullRebuild(layers []*Layer) error {
	var g errgroup.Group
	for _, l := range layers {
		g.Go(func() error { return h.rebuild(l) })
	}
	return g.Wait()
}
