// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"fmt"
	"slices"

	"github.com/gogpu/sketch/internal/image"
)

// Layer is one pixel surface of the document with its compositing
// metadata. Its surface is mutated only by the renderer, driven by the
// history.
type Layer struct {
	id      LayerID
	name    string
	surface *image.ImageBuf
	visible bool
	opacity float64
	blend   BlendMode
	locked  bool
}

// ID returns the stable layer id.
func (l *Layer) ID() LayerID { return l.id }

// Name returns the display name.
func (l *Layer) Name() string { return l.name }

// Info returns a value snapshot of the layer metadata.
func (l *Layer) Info() LayerInfo {
	return LayerInfo{
		ID:      l.id,
		Name:    l.name,
		Visible: l.visible,
		Opacity: l.opacity,
		Blend:   l.blend,
		Locked:  l.locked,
	}
}

// LayerInfo describes a layer to UI and persistence collaborators.
type LayerInfo struct {
	ID      LayerID   `json:"id"`
	Name    string    `json:"name"`
	Visible bool      `json:"visible"`
	Opacity float64   `json:"opacity"`
	Blend   BlendMode `json:"blend"`
	Locked  bool      `json:"locked"`
}

// LayerStore is the ordered layer collection, bottom to top, with an
// active-layer pointer. It always holds at least one layer once the first
// one has been added.
//
// LayerStore is not safe for concurrent use; Session serializes access.
type LayerStore struct {
	width, height int
	layers        []*Layer
	active        LayerID
	added         int
}

// NewLayerStore returns an empty store for surfaces of w x h pixels.
func NewLayerStore(w, h int) *LayerStore {
	return &LayerStore{width: w, height: h}
}

// Add appends a transparent layer on top and makes it active. An empty
// name becomes "Layer N".
func (s *LayerStore) Add(name string) (*Layer, error) {
	surface, err := image.NewImageBuf(s.width, s.height)
	if err != nil {
		return nil, err
	}
	s.added++
	if name == "" {
		name = fmt.Sprintf("Layer %d", s.added)
	}
	l := &Layer{
		id:      newLayerID(),
		name:    name,
		surface: surface,
		visible: true,
		opacity: 1,
	}
	s.layers = append(s.layers, l)
	s.active = l.id
	return l, nil
}

// restore appends a layer with known metadata, used when loading a
// document. It does not change the active layer.
func (s *LayerStore) restore(info LayerInfo) (*Layer, error) {
	if _, i := s.find(info.ID); i >= 0 {
		return nil, fmt.Errorf("%w: duplicate layer %s", ErrCorruptDocument, info.ID)
	}
	surface, err := image.NewImageBuf(s.width, s.height)
	if err != nil {
		return nil, err
	}
	l := &Layer{
		id:      info.ID,
		name:    info.Name,
		surface: surface,
		visible: info.Visible,
		opacity: clamp01(info.Opacity),
		blend:   info.Blend,
		locked:  info.Locked,
	}
	s.layers = append(s.layers, l)
	s.added++
	if s.active == "" {
		s.active = l.id
	}
	return l, nil
}

func (s *LayerStore) find(id LayerID) (*Layer, int) {
	for i, l := range s.layers {
		if l.id == id {
			return l, i
		}
	}
	return nil, -1
}

// Get returns the layer with the given id.
func (s *LayerStore) Get(id LayerID) (*Layer, error) {
	l, _ := s.find(id)
	if l == nil {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	return l, nil
}

// checkDelete reports why id cannot be deleted, if it cannot.
func (s *LayerStore) checkDelete(id LayerID) error {
	if _, i := s.find(id); i < 0 {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	if len(s.layers) == 1 {
		return ErrLastLayer
	}
	return nil
}

// Delete removes a layer. Deleting the active layer makes the new top-most
// layer active.
func (s *LayerStore) Delete(id LayerID) error {
	if err := s.checkDelete(id); err != nil {
		return err
	}
	_, i := s.find(id)
	s.layers = slices.Delete(s.layers, i, i+1)
	if s.active == id {
		s.active = s.layers[len(s.layers)-1].id
	}
	return nil
}

// discard removes a layer that was just added and makes prev active
// again, leaving the store as it was before the Add.
func (s *LayerStore) discard(id, prev LayerID) {
	if _, i := s.find(id); i >= 0 {
		s.layers = slices.Delete(s.layers, i, i+1)
		s.added--
	}
	s.active = prev
}

// SetActive selects the layer that receives new edits.
func (s *LayerStore) SetActive(id LayerID) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	s.active = id
	return nil
}

// Active returns the active layer, or nil when the store is empty.
func (s *LayerStore) Active() *Layer {
	l, _ := s.find(s.active)
	return l
}

// SetVisible shows or hides a layer.
func (s *LayerStore) SetVisible(id LayerID, visible bool) error {
	l, err := s.Get(id)
	if err != nil {
		return err
	}
	l.visible = visible
	return nil
}

// SetOpacity sets the layer opacity, clamped to [0, 1].
func (s *LayerStore) SetOpacity(id LayerID, opacity float64) error {
	l, err := s.Get(id)
	if err != nil {
		return err
	}
	l.opacity = clamp01(opacity)
	return nil
}

// SetBlend sets the mode used to composite the layer.
func (s *LayerStore) SetBlend(id LayerID, mode BlendMode) error {
	if !mode.valid() {
		return invalidf("blend mode %d", mode)
	}
	l, err := s.Get(id)
	if err != nil {
		return err
	}
	l.blend = mode
	return nil
}

// SetLocked locks or unlocks a layer. Locked layers reject new actions.
func (s *LayerStore) SetLocked(id LayerID, locked bool) error {
	l, err := s.Get(id)
	if err != nil {
		return err
	}
	l.locked = locked
	return nil
}

// Rename changes the display name.
func (s *LayerStore) Rename(id LayerID, name string) error {
	l, err := s.Get(id)
	if err != nil {
		return err
	}
	l.name = name
	return nil
}

// Layers returns the layer metadata from bottom to top.
func (s *LayerStore) Layers() []LayerInfo {
	out := make([]LayerInfo, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.Info()
	}
	return out
}

// Len returns the number of layers.
func (s *LayerStore) Len() int { return len(s.layers) }

func clamp01(v float64) float64 {
	switch {
	case v != v || v < 0: // NaN
		return 0
	case v > 1:
		return 1
	}
	return v
}
