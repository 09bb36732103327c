// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	stdimage "image"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gogpu/sketch/internal/image"
)

// Session is one open document: its layers, history, compositor and
// renderer. All methods are safe for concurrent use; they are serialized
// by the session mutex and each runs to completion.
//
// Example:
//
//	s, err := sketch.New(800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pen, _ := s.Tool("pen")
//	s.Commit(sketch.Stroke{
//	    Points: []sketch.Point{{X: 10, Y: 10, Pressure: 0.5}, {X: 200, Y: 120, Pressure: 0.5}},
//	    Color:  sketch.Black, Size: 4, Opacity: 1, Tool: pen,
//	})
//	frame := s.Frame()
type Session struct {
	mu sync.Mutex

	cfg     Config
	log     *slog.Logger
	layers  *LayerStore
	history *History
	comp    *Compositor
	render  *renderer
	tools   map[string]ToolConfig

	// busy maps layers owned by an asynchronous job to that job.
	busy map[LayerID]*Job
	jobs sync.WaitGroup

	notifier chan<- Notification
	store    Store
	autosave *time.Timer
	pending  bool
	saveMu   sync.Mutex
}

// New creates a session with a single "Background" layer. Non-zero width
// and height override the configured canvas size.
func New(width, height int, opts ...Option) (*Session, error) {
	s, err := newSession(width, height, opts)
	if err != nil {
		return nil, err
	}
	if _, err := s.layers.Add("Background"); err != nil {
		return nil, err
	}
	s.log.Info("sketch: session created", "width", s.cfg.Canvas.Width, "height", s.cfg.Canvas.Height)
	return s, nil
}

// newSession builds a session without layers.
func newSession(width, height int, opts []Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	cfg := DefaultConfig()
	if o.config != nil {
		cfg = *o.config
	}
	if width > 0 {
		cfg.Canvas.Width = width
	}
	if height > 0 {
		cfg.Canvas.Height = height
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := o.logger
	if log == nil {
		log = Logger()
	}
	w, h := cfg.Canvas.Width, cfg.Canvas.Height
	comp, err := newCompositor(w, h, cfg.Canvas.Background, log)
	if err != nil {
		return nil, err
	}
	r := newRenderer(w, h, cfg.Render.MaxStrokePoints, log)

	store := o.store
	if store == nil && cfg.Autosave.Enabled && cfg.Autosave.Path != "" {
		store = FileStore{Path: cfg.Autosave.Path}
	}
	return &Session{
		cfg:      cfg,
		log:      log,
		layers:   NewLayerStore(w, h),
		history:  newHistory(r, cfg.History.CheckpointInterval, cfg.History.MaxCheckpoints, log),
		comp:     comp,
		render:   r,
		tools:    cfg.tools(),
		busy:     make(map[LayerID]*Job),
		notifier: o.notifier,
		store:    store,
	}, nil
}

// Width returns the canvas width in pixels.
func (s *Session) Width() int { return s.cfg.Canvas.Width }

// Height returns the canvas height in pixels.
func (s *Session) Height() int { return s.cfg.Canvas.Height }

// Config returns the effective configuration.
func (s *Session) Config() Config { return s.cfg }

// changed invalidates the frame and schedules an autosave. Called with
// s.mu held after every mutation.
func (s *Session) changed() {
	s.comp.Invalidate()
	s.scheduleAutosave()
}

// --------------------------------------------------------------------------
// Layers
// --------------------------------------------------------------------------

// AddLayer appends a transparent layer on top and makes it active.
func (s *Session) AddLayer(name string) (LayerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.layers.Add(name)
	if err != nil {
		return LayerInfo{}, err
	}
	s.changed()
	return l.Info(), nil
}

// DeleteLayer removes a layer together with every action and checkpoint
// that belongs to it, then rebuilds all layers.
func (s *Session) DeleteLayer(id LayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.layers.checkDelete(id); err != nil {
		return err
	}
	if s.busy[id] != nil {
		return errBusy(id)
	}
	s.history.purge(id)
	if err := s.layers.Delete(id); err != nil {
		return err
	}
	err := s.history.fullRebuild(s.layers.layers)
	s.changed()
	return err
}

// SetActive selects the layer that receives new edits.
func (s *Session) SetActive(id LayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.layers.SetActive(id); err != nil {
		return err
	}
	s.scheduleAutosave()
	return nil
}

// Active returns the active layer.
func (s *Session) Active() LayerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers.Active().Info()
}

// SetVisible shows or hides a layer.
func (s *Session) SetVisible(id LayerID, visible bool) error {
	return s.updateLayer(func() error { return s.layers.SetVisible(id, visible) })
}

// SetOpacity sets the layer opacity, clamped to [0, 1].
func (s *Session) SetOpacity(id LayerID, opacity float64) error {
	return s.updateLayer(func() error { return s.layers.SetOpacity(id, opacity) })
}

// SetBlend sets the layer blend mode.
func (s *Session) SetBlend(id LayerID, mode BlendMode) error {
	return s.updateLayer(func() error { return s.layers.SetBlend(id, mode) })
}

// SetLocked locks or unlocks a layer.
func (s *Session) SetLocked(id LayerID, locked bool) error {
	return s.updateLayer(func() error { return s.layers.SetLocked(id, locked) })
}

// RenameLayer changes a layer's display name.
func (s *Session) RenameLayer(id LayerID, name string) error {
	return s.updateLayer(func() error { return s.layers.Rename(id, name) })
}

func (s *Session) updateLayer(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	s.changed()
	return nil
}

// Layers returns the layer metadata from bottom to top.
func (s *Session) Layers() []LayerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers.Layers()
}

// --------------------------------------------------------------------------
// History
// --------------------------------------------------------------------------

// Commit validates a, renders it on its layer and appends it to the log,
// clearing the redo stack. An action without a layer goes to the active
// layer; one without an id gets a fresh one. The caller's slices are
// copied, so later changes to them do not affect the log.
func (s *Session) Commit(a Action) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, l, err := s.admit(a)
	if err != nil {
		return StatusOK, err
	}
	if _, err := s.render.render(l.surface, a); err != nil {
		return StatusOK, err
	}
	s.history.appended(a, l)
	s.changed()
	return StatusOK, nil
}

// admit validates a against the session state and returns the stamped
// copy that will be logged, with its target layer. Called with s.mu held.
func (s *Session) admit(a Action) (Action, *Layer, error) {
	if a == nil {
		return nil, nil, invalidf("nil action")
	}
	if err := a.validate(); err != nil {
		return nil, nil, err
	}
	layer := a.LayerID()
	if layer == "" {
		layer = s.layers.active
	}
	l, err := s.layers.Get(layer)
	if err != nil {
		return nil, nil, err
	}
	if l.locked {
		return nil, nil, errLocked(l.id)
	}
	if s.busy[l.id] != nil {
		return nil, nil, errBusy(l.id)
	}
	switch a := a.(type) {
	case Fill:
		if !(stdimage.Point{X: a.X, Y: a.Y}).In(s.render.bounds()) {
			return nil, nil, errOutOfBounds(a.X, a.Y)
		}
	case ImagePlaced:
		if _, ok := s.render.images[a.Image]; !ok {
			return nil, nil, errUnknownImage(a.Image)
		}
	}
	id := a.ID()
	switch {
	case id == "":
		id = newActionID()
	case s.history.has(id) || s.pendingJob(id):
		return nil, nil, invalidf("duplicate action id %s", id)
	}
	return OnLayer(a.stamped(id), l.id), l, nil
}

func (s *Session) pendingJob(id ActionID) bool {
	for _, j := range s.busy {
		if j.action.ID() == id {
			return true
		}
	}
	return false
}

// Undo moves the last action to the redo stack and rebuilds its layer.
func (s *Session) Undo() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.history.Len()
	if n == 0 {
		return StatusNothingToUndo, nil
	}
	if id := s.history.log[n-1].LayerID(); s.busy[id] != nil {
		return StatusOK, errBusy(id)
	}
	a := s.history.undo()
	s.rebuildAfter(a)
	return StatusOK, nil
}

// Redo re-applies the most recently undone action and rebuilds its layer.
func (s *Session) Redo() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.history.RedoLen()
	if n == 0 {
		return StatusNothingToRedo, nil
	}
	if id := s.history.redo[n-1].LayerID(); s.busy[id] != nil {
		return StatusOK, errBusy(id)
	}
	a := s.history.redoNext()
	s.rebuildAfter(a)
	return StatusOK, nil
}

// rebuildAfter rebuilds the layer of a history action that just moved
// between the log and the redo stack. Replay failures are logged by the
// history; the log itself is already consistent.
func (s *Session) rebuildAfter(a Action) {
	if l, _ := s.layers.find(a.LayerID()); l != nil {
		_ = s.history.rebuild(l)
	}
	s.changed()
}

// CanUndo reports whether Undo has an action to undo.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len() > 0
}

// CanRedo reports whether Redo has an action to redo.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.RedoLen() > 0
}

// Actions returns the action log in commit order.
func (s *Session) Actions() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Actions()
}

// RedoActions returns the redo stack, next redo last.
func (s *Session) RedoActions() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.RedoActions()
}

// RebuildLayer clears a layer and replays its logged actions.
func (s *Session) RebuildLayer(id LayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.layers.Get(id)
	if err != nil {
		return err
	}
	if s.busy[id] != nil {
		return errBusy(id)
	}
	err = s.history.rebuild(l)
	s.comp.Invalidate()
	return err
}

// FullRebuild rebuilds every layer, concurrently.
func (s *Session) FullRebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.history.fullRebuild(s.layers.layers)
	s.comp.Invalidate()
	return err
}

// --------------------------------------------------------------------------
// Frames
// --------------------------------------------------------------------------

// Frame returns a copy of the composited frame. Consecutive calls without
// intervening mutations do not recompose.
func (s *Session) Frame() *stdimage.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comp.Frame(s.layers.layers)
}

// PreviewFrame composes the frame with the recorder's in-progress stroke
// drawn on its layer, without committing it. It returns Frame when the
// recorder holds no valid stroke.
func (s *Session) PreviewFrame(rec *StrokeRecorder) *stdimage.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := rec.current()
	if !ok || st.validate() != nil {
		return s.comp.Frame(s.layers.layers)
	}
	if st.Layer == "" {
		st.Layer = s.layers.active
	}
	l, _ := s.layers.find(st.Layer)
	if l == nil {
		return s.comp.Frame(s.layers.layers)
	}

	work := s.history.pool.Clone(l.surface)
	defer s.history.pool.Put(work)
	s.render.drawStroke(work, st)

	dst := s.history.pool.Get()
	defer s.history.pool.Put(dst)
	s.comp.compose(dst, s.layers.layers, &overrideSurface{layer: l.id, surface: work})
	return dst.Clone().RGBA()
}

// Compositions returns how many times the frame has been recomposed.
func (s *Session) Compositions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comp.Compositions()
}

// --------------------------------------------------------------------------
// Tools and images
// --------------------------------------------------------------------------

// Tool returns the configured tool with the given name.
func (s *Session) Tool(name string) (ToolConfig, bool) {
	t, ok := s.tools[name]
	return t, ok
}

// Tools returns the sorted names of the configured tools.
func (s *Session) Tools() []string { return ToolNames(s.tools) }

// RegisterImage makes img available to ImagePlaced actions under ref. A
// ref can be registered once; replays must always see the same image.
func (s *Session) RegisterImage(ref ImageRef, img stdimage.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registerImage(ref, img)
}

func (s *Session) registerImage(ref ImageRef, img stdimage.Image) error {
	switch {
	case ref == "":
		return invalidf("empty image ref")
	case img == nil || img.Bounds().Empty():
		return invalidf("image %q is empty", ref)
	}
	if _, ok := s.render.images[ref]; ok {
		return invalidf("image %q already registered", ref)
	}
	s.render.images[ref] = img
	return nil
}

// PlaceImage registers img under ref and commits it on a new "Imported
// Image" layer, scaled to fit the canvas and centred.
func (s *Session) PlaceImage(ref ImageRef, img stdimage.Image) (LayerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.registerImage(ref, img); err != nil {
		return LayerInfo{}, err
	}
	prev := s.layers.active
	l, err := s.layers.Add("Imported Image")
	if err != nil {
		delete(s.render.images, ref)
		return LayerInfo{}, err
	}

	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	cw, ch := float64(s.Width()), float64(s.Height())
	scale := math.Min(cw/iw, ch/ih)
	w, h := iw*scale, ih*scale
	a := ImagePlaced{
		ActionID: newActionID(),
		Layer:    l.id,
		Image:    ref,
		X:        (cw - w) / 2,
		Y:        (ch - h) / 2,
		W:        w,
		H:        h,
	}
	if _, err := s.render.render(l.surface, a); err != nil {
		s.discardImport(ref, l.id, prev)
		return LayerInfo{}, err
	}
	s.history.appended(a, l)
	s.changed()
	return l.Info(), nil
}

// discardImport rolls back a PlaceImage whose placement failed: the image
// registration and the new layer are removed and prev is active again.
func (s *Session) discardImport(ref ImageRef, layer, prev LayerID) {
	delete(s.render.images, ref)
	s.layers.discard(layer, prev)
	s.log.Warn("sketch: image placement rolled back", "image", ref, "layer", layer)
}

// Close stops autosave, waits for running jobs and writes a pending
// autosave.
func (s *Session) Close() error {
	s.jobs.Wait()
	s.mu.Lock()
	if s.autosave != nil {
		s.autosave.Stop()
	}
	s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.autosaveNow()
}

// OnLayer returns a copy of a addressed to layer id. Replay tools use it
// to map recorded layer ids onto the layers of another session.
func OnLayer(a Action, id LayerID) Action {
	switch a := a.(type) {
	case Stroke:
		a.Layer = id
		return a
	case Shape:
		a.Layer = id
		return a
	case Fill:
		a.Layer = id
		return a
	case Clip:
		a.Layer = id
		return a
	case Text:
		a.Layer = id
		return a
	case ClearLayer:
		a.Layer = id
		return a
	case FilterApplied:
		a.Layer = id
		return a
	case ImagePlaced:
		a.Layer = id
		return a
	}
	return a
}

// newScratch returns a canvas-sized buffer from the checkpoint pool.
func (s *Session) newScratch(src *image.ImageBuf) *image.ImageBuf {
	return s.history.pool.Clone(src)
}
