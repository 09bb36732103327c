// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"slices"

	"github.com/gogpu/sketch/internal/stroke"
)

// ToolFamily names the rendering routine of a tool.
type ToolFamily string

const (
	FamilyVector   ToolFamily = "vector"
	FamilyTextured ToolFamily = "textured"
	FamilyParticle ToolFamily = "particle"
	FamilyShape    ToolFamily = "shape"
	FamilyFill     ToolFamily = "fill"
)

// ToolConfig is the closed family of tool configurations. Stroke actions
// carry a VectorStrokeConfig, TexturedStrokeConfig or ParticleConfig;
// ShapeConfig and FillConfig are presets used to build Shape and Fill
// actions.
type ToolConfig interface {
	// ToolName returns the preset name, e.g. "pen".
	ToolName() string
	// Family returns the rendering routine.
	Family() ToolFamily

	validateTool() error
}

// VectorStrokeConfig renders a variable-width filled outline.
type VectorStrokeConfig struct {
	Name        string    `json:"name"`
	Thinning    float64   `json:"thinning"`
	Smoothing   float64   `json:"smoothing"`
	Streamline  float64   `json:"streamline"`
	TaperStart  float64   `json:"taper_start"`
	TaperEnd    float64   `json:"taper_end"`
	TaperEasing string    `json:"taper_easing,omitempty"`
	Opacity     float64   `json:"opacity"`
	SizeFactor  float64   `json:"size_factor"`
	Composite   BlendMode `json:"composite"`
	// Glow paints a blurred white copy of the outline beneath the fill.
	Glow bool `json:"glow,omitempty"`
}

func (c VectorStrokeConfig) ToolName() string   { return c.Name }
func (c VectorStrokeConfig) Family() ToolFamily { return FamilyVector }

func (c VectorStrokeConfig) validateTool() error {
	switch {
	case !finite(c.Thinning, c.Smoothing, c.Streamline, c.TaperStart, c.TaperEnd, c.Opacity, c.SizeFactor):
		return invalidf("tool %q has a non-finite parameter", c.Name)
	case c.Thinning < -1 || c.Thinning > 1:
		return invalidf("tool %q thinning %v", c.Name, c.Thinning)
	case c.Smoothing < 0 || c.Smoothing > 1, c.Streamline < 0 || c.Streamline > 1:
		return invalidf("tool %q smoothing/streamline out of range", c.Name)
	case c.TaperStart < 0 || c.TaperEnd < 0:
		return invalidf("tool %q negative taper", c.Name)
	case !validOpacity(c.Opacity), c.SizeFactor <= 0:
		return invalidf("tool %q opacity %v size factor %v", c.Name, c.Opacity, c.SizeFactor)
	case !c.Composite.valid():
		return invalidf("tool %q composite %d", c.Name, c.Composite)
	}
	if _, ok := stroke.EasingByName(c.TaperEasing); !ok {
		return invalidf("tool %q easing %q", c.Name, c.TaperEasing)
	}
	return nil
}

// TexturedStrokeConfig renders a grainy pencil stroke.
type TexturedStrokeConfig struct {
	Name       string  `json:"name"`
	Opacity    float64 `json:"opacity"`
	SizeFactor float64 `json:"size_factor"`
	// Base is the width fraction at zero pressure.
	Base   float64 `json:"base"`
	Grains int     `json:"grains"`
	Grain  float64 `json:"grain"`
	Step   float64 `json:"step"`
}

func (c TexturedStrokeConfig) ToolName() string   { return c.Name }
func (c TexturedStrokeConfig) Family() ToolFamily { return FamilyTextured }

func (c TexturedStrokeConfig) validateTool() error {
	if !finite(c.Opacity, c.SizeFactor, c.Base, c.Grain, c.Step) ||
		!validOpacity(c.Opacity) || c.SizeFactor <= 0 || c.Base < 0 || c.Base > 1 ||
		c.Grains <= 0 || c.Grain <= 0 || c.Step <= 0 {
		return invalidf("textured tool %q parameters", c.Name)
	}
	return nil
}

// ParticleEffect selects a particle pattern.
type ParticleEffect string

const (
	EffectSpray ParticleEffect = "spray"
	EffectChalk ParticleEffect = "chalk"
)

func (e ParticleEffect) kind() (stroke.ParticleKind, bool) {
	switch e {
	case EffectSpray:
		return stroke.ParticleSpray, true
	case EffectChalk:
		return stroke.ParticleChalk, true
	}
	return 0, false
}

// ParticleConfig renders a spray or chalk stroke.
type ParticleConfig struct {
	Name       string         `json:"name"`
	Effect     ParticleEffect `json:"effect"`
	Opacity    float64        `json:"opacity"`
	SizeFactor float64        `json:"size_factor"`
}

func (c ParticleConfig) ToolName() string   { return c.Name }
func (c ParticleConfig) Family() ToolFamily { return FamilyParticle }

func (c ParticleConfig) validateTool() error {
	if _, ok := c.Effect.kind(); !ok {
		return invalidf("particle tool %q effect %q", c.Name, c.Effect)
	}
	if !finite(c.Opacity, c.SizeFactor) || !validOpacity(c.Opacity) || c.SizeFactor <= 0 {
		return invalidf("particle tool %q parameters", c.Name)
	}
	return nil
}

// ShapeConfig is a preset for Shape actions.
type ShapeConfig struct {
	Name   string    `json:"name"`
	Form   ShapeKind `json:"form"`
	Filled bool      `json:"filled,omitempty"`
}

func (c ShapeConfig) ToolName() string   { return c.Name }
func (c ShapeConfig) Family() ToolFamily { return FamilyShape }

func (c ShapeConfig) validateTool() error {
	if c.Form > ShapeEllipse {
		return invalidf("shape tool %q form %d", c.Name, c.Form)
	}
	return nil
}

// Shape builds a Shape action from two drag points.
func (c ShapeConfig) Shape(layer LayerID, start, end Vec, col Color, size, opacity float64) Shape {
	return Shape{Layer: layer, Form: c.Form, Start: start, End: end, Color: col, Size: size, Opacity: opacity, Filled: c.Filled}
}

// FillConfig is a preset for Fill actions.
type FillConfig struct {
	Name      string `json:"name"`
	Tolerance uint8  `json:"tolerance"`
}

func (c FillConfig) ToolName() string   { return c.Name }
func (c FillConfig) Family() ToolFamily { return FamilyFill }
func (c FillConfig) validateTool() error {
	return nil
}

// Fill builds a Fill action seeded at (x, y).
func (c FillConfig) Fill(layer LayerID, x, y int, col Color) Fill {
	return Fill{Layer: layer, X: x, Y: y, Color: col, Tolerance: c.Tolerance}
}

// DefaultScaleFactor is the display scale the built-in taper lengths are
// tuned for.
const DefaultScaleFactor = 2.5

// BuiltinTools returns the built-in tool table. Taper distances of the pen
// and brush grow with scale.
func BuiltinTools(scale float64) map[string]ToolConfig {
	if scale <= 0 {
		scale = DefaultScaleFactor
	}
	tools := []ToolConfig{
		TexturedStrokeConfig{Name: "pencil", Opacity: 0.85, SizeFactor: 1.2, Base: 0.2, Grains: 3, Grain: 1.5, Step: 3},
		VectorStrokeConfig{
			Name: "pen", Thinning: 0.5, Smoothing: 0.5, Streamline: 0.5,
			TaperStart: 15 * scale, TaperEnd: 20 * scale, TaperEasing: "linear",
			Opacity: 1, SizeFactor: 1,
		},
		VectorStrokeConfig{
			Name: "brush", Thinning: 0.7, Smoothing: 0.8, Streamline: 0.4,
			TaperStart: 20 * scale, TaperEnd: 30 * scale, TaperEasing: "easeOutQuad",
			Opacity: 0.9, SizeFactor: 2.5,
		},
		VectorStrokeConfig{
			Name: "marker", Thinning: -0.1, Smoothing: 0.4, Streamline: 0.5,
			Opacity: 0.6, SizeFactor: 4, Composite: BlendMultiply,
		},
		ParticleConfig{Name: "airbrush", Effect: EffectSpray, Opacity: 0.35, SizeFactor: 8},
		ParticleConfig{Name: "chalk", Effect: EffectChalk, Opacity: 0.9, SizeFactor: 3},
		VectorStrokeConfig{
			Name: "calligraphy", Thinning: 0.9, Smoothing: 0.5, Streamline: 0.6,
			Opacity: 1, SizeFactor: 1.8,
		},
		VectorStrokeConfig{
			Name: "neon", Thinning: 0.5, Smoothing: 0.5, Streamline: 0.5,
			Opacity: 1, SizeFactor: 1.5, Composite: BlendScreen, Glow: true,
		},
		VectorStrokeConfig{
			Name: "eraser", Smoothing: 0.5, Streamline: 0.5,
			Opacity: 1, SizeFactor: 3, Composite: BlendErase,
		},
		ShapeConfig{Name: "rect", Form: ShapeRect},
		ShapeConfig{Name: "ellipse", Form: ShapeEllipse},
		ShapeConfig{Name: "line", Form: ShapeLine},
		FillConfig{Name: "bucket"},
	}
	m := make(map[string]ToolConfig, len(tools))
	for _, t := range tools {
		m[t.ToolName()] = t
	}
	return m
}

// Tool returns the built-in tool called name at the default scale factor.
func Tool(name string) (ToolConfig, bool) {
	t, ok := BuiltinTools(DefaultScaleFactor)[name]
	return t, ok
}

// ToolNames returns the sorted names of a tool table.
func ToolNames(tools map[string]ToolConfig) []string {
	names := make([]string, 0, len(tools))
	for n := range tools {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
