package sketch

import (
	"errors"
	"math"
	"testing"
)

func TestLayerStore_Add(t *testing.T) {
	s := NewLayerStore(4, 4)
	if s.Active() != nil {
		t.Error("Active() on an empty store != nil")
	}
	a, _ := s.Add("")
	b, _ := s.Add("Ink")
	c, _ := s.Add("")
	names := []string{a.Name(), b.Name(), c.Name()}
	want := []string{"Layer 1", "Ink", "Layer 3"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("layer %d name = %q, want %q", i, names[i], want[i])
		}
	}
	if s.Active() != c {
		t.Error("Add() did not activate the new layer")
	}
	if info := a.Info(); !info.Visible || info.Opacity != 1 || info.Blend != BlendNormal || info.Locked {
		t.Errorf("new layer = %+v", info)
	}
	if a.ID() == b.ID() {
		t.Error("layer ids collide")
	}
}

func TestLayerStore_Delete(t *testing.T) {
	tests := []struct {
		name       string
		del        int // index of the layer to delete
		active     int // index of the active layer before deletion
		wantActive int // index into the original layers
	}{
		{"active top", 2, 2, 1},
		{"active middle", 1, 1, 2},
		{"inactive", 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLayerStore(4, 4)
			var ls []*Layer
			for range 3 {
				l, _ := s.Add("")
				ls = append(ls, l)
			}
			_ = s.SetActive(ls[tt.active].ID())
			if err := s.Delete(ls[tt.del].ID()); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if s.Len() != 2 {
				t.Errorf("Len() = %d, want 2", s.Len())
			}
			if got := s.Active(); got != ls[tt.wantActive] {
				t.Errorf("Active() = %q, want %q", got.Name(), ls[tt.wantActive].Name())
			}
		})
	}
}

func TestLayerStore_Errors(t *testing.T) {
	s := NewLayerStore(4, 4)
	l, _ := s.Add("")
	if err := s.Delete(l.ID()); !errors.Is(err, ErrLastLayer) {
		t.Errorf("Delete(last) error = %v, want ErrLastLayer", err)
	}
	for name, err := range map[string]error{
		"Get":        func() error { _, err := s.Get("nope"); return err }(),
		"Delete":     s.Delete("nope"),
		"SetActive":  s.SetActive("nope"),
		"SetVisible": s.SetVisible("nope", false),
		"SetOpacity": s.SetOpacity("nope", 1),
		"SetLocked":  s.SetLocked("nope", true),
		"Rename":     s.Rename("nope", "x"),
	} {
		if !errors.Is(err, ErrLayerNotFound) {
			t.Errorf("%s(unknown) error = %v, want ErrLayerNotFound", name, err)
		}
	}
	if err := s.SetBlend(l.ID(), BlendMode(99)); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("SetBlend(99) error = %v, want ErrInvalidAction", err)
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-0.5, 0},
		{0.25, 0.25},
		{1.5, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
