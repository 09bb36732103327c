// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// maxCanvasSide bounds the canvas dimensions.
const maxCanvasSide = 16384

// Config is the engine configuration. It is read from TOML or YAML with
// LoadConfig; fields missing from the file keep their DefaultConfig value.
type Config struct {
	Canvas   CanvasConfig          `toml:"canvas" yaml:"canvas"`
	History  HistoryConfig         `toml:"history" yaml:"history"`
	Render   RenderConfig          `toml:"render" yaml:"render"`
	Autosave AutosaveConfig        `toml:"autosave" yaml:"autosave"`
	Tools    map[string]ToolPreset `toml:"tools,omitempty" yaml:"tools,omitempty"`
}

// CanvasConfig sets the document dimensions and the colour beneath all
// layers.
type CanvasConfig struct {
	Width      int   `toml:"width" yaml:"width"`
	Height     int   `toml:"height" yaml:"height"`
	Background Color `toml:"background" yaml:"background"`
}

// HistoryConfig tunes raster checkpoints. A zero interval disables them.
type HistoryConfig struct {
	CheckpointInterval int `toml:"checkpoint_interval" yaml:"checkpoint_interval"`
	MaxCheckpoints     int `toml:"max_checkpoints" yaml:"max_checkpoints"`
}

// RenderConfig tunes rasterization.
type RenderConfig struct {
	// MaxStrokePoints is the sample count above which strokes are
	// sub-sampled.
	MaxStrokePoints int `toml:"max_stroke_points" yaml:"max_stroke_points"`
	// ScaleFactor scales the taper lengths of the built-in tools.
	ScaleFactor float64 `toml:"scale_factor" yaml:"scale_factor"`
}

// AutosaveConfig controls debounced background persistence.
type AutosaveConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Debounce Duration `toml:"debounce" yaml:"debounce"`
	// Path is the document file used when no Store is supplied.
	Path string `toml:"path" yaml:"path"`
}

// Duration is a time.Duration written as "1s", "250ms" in config files.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// ToolPreset defines or overrides a tool in the config file. Family
// selects which of the remaining fields apply.
type ToolPreset struct {
	Family ToolFamily `toml:"family" yaml:"family"`

	Thinning    float64   `toml:"thinning,omitempty" yaml:"thinning,omitempty"`
	Smoothing   float64   `toml:"smoothing,omitempty" yaml:"smoothing,omitempty"`
	Streamline  float64   `toml:"streamline,omitempty" yaml:"streamline,omitempty"`
	TaperStart  float64   `toml:"taper_start,omitempty" yaml:"taper_start,omitempty"`
	TaperEnd    float64   `toml:"taper_end,omitempty" yaml:"taper_end,omitempty"`
	TaperEasing string    `toml:"taper_easing,omitempty" yaml:"taper_easing,omitempty"`
	Composite   BlendMode `toml:"composite,omitempty" yaml:"composite,omitempty"`
	Glow        bool      `toml:"glow,omitempty" yaml:"glow,omitempty"`

	Opacity    float64 `toml:"opacity,omitempty" yaml:"opacity,omitempty"`
	SizeFactor float64 `toml:"size_factor,omitempty" yaml:"size_factor,omitempty"`

	Base   float64 `toml:"base,omitempty" yaml:"base,omitempty"`
	Grains int     `toml:"grains,omitempty" yaml:"grains,omitempty"`
	Grain  float64 `toml:"grain,omitempty" yaml:"grain,omitempty"`
	Step   float64 `toml:"step,omitempty" yaml:"step,omitempty"`

	Effect ParticleEffect `toml:"effect,omitempty" yaml:"effect,omitempty"`

	Form   ShapeKind `toml:"form,omitempty" yaml:"form,omitempty"`
	Filled bool      `toml:"filled,omitempty" yaml:"filled,omitempty"`

	Tolerance uint8 `toml:"tolerance,omitempty" yaml:"tolerance,omitempty"`
}

// Tool converts the preset into a validated tool configuration.
func (p ToolPreset) Tool(name string) (ToolConfig, error) {
	var t ToolConfig
	switch p.Family {
	case FamilyVector:
		t = VectorStrokeConfig{
			Name: name, Thinning: p.Thinning, Smoothing: p.Smoothing, Streamline: p.Streamline,
			TaperStart: p.TaperStart, TaperEnd: p.TaperEnd, TaperEasing: p.TaperEasing,
			Opacity: p.Opacity, SizeFactor: p.SizeFactor, Composite: p.Composite, Glow: p.Glow,
		}
	case FamilyTextured:
		t = TexturedStrokeConfig{
			Name: name, Opacity: p.Opacity, SizeFactor: p.SizeFactor,
			Base: p.Base, Grains: p.Grains, Grain: p.Grain, Step: p.Step,
		}
	case FamilyParticle:
		t = ParticleConfig{Name: name, Effect: p.Effect, Opacity: p.Opacity, SizeFactor: p.SizeFactor}
	case FamilyShape:
		t = ShapeConfig{Name: name, Form: p.Form, Filled: p.Filled}
	case FamilyFill:
		t = FillConfig{Name: name, Tolerance: p.Tolerance}
	default:
		return nil, fmt.Errorf("tool %q: unknown family %q", name, p.Family)
	}
	if err := t.validateTool(); err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{Width: 1024, Height: 768, Background: Transparent},
		History: HistoryConfig{
			CheckpointInterval: 25,
			MaxCheckpoints:     4,
		},
		Render: RenderConfig{
			MaxStrokePoints: 4096,
			ScaleFactor:     DefaultScaleFactor,
		},
		Autosave: AutosaveConfig{
			Debounce: Duration(time.Second),
			Path:     "sketch.autosave.json",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0,
		c.Canvas.Width > maxCanvasSide || c.Canvas.Height > maxCanvasSide:
		return fmt.Errorf("sketch: config: canvas %dx%d out of range", c.Canvas.Width, c.Canvas.Height)
	case c.History.CheckpointInterval < 0 || c.History.MaxCheckpoints < 0:
		return errors.New("sketch: config: negative checkpoint settings")
	case c.Render.MaxStrokePoints < 2:
		return fmt.Errorf("sketch: config: max_stroke_points %d, want >= 2", c.Render.MaxStrokePoints)
	case c.Render.ScaleFactor <= 0:
		return fmt.Errorf("sketch: config: scale_factor %v, want > 0", c.Render.ScaleFactor)
	case c.Autosave.Debounce < 0:
		return errors.New("sketch: config: negative autosave debounce")
	}
	for name, p := range c.Tools {
		if _, err := p.Tool(name); err != nil {
			return fmt.Errorf("sketch: config: %w", err)
		}
	}
	return nil
}

// tools returns the built-in tool table with the configured presets
// applied.
func (c *Config) tools() map[string]ToolConfig {
	tools := BuiltinTools(c.Render.ScaleFactor)
	for name, p := range c.Tools {
		if t, err := p.Tool(name); err == nil {
			tools[name] = t
		}
	}
	return tools
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) config file over
// DefaultConfig and validates the result. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("sketch: read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("sketch: config %s: unknown keys %v", path, undecoded)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("sketch: read config %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("sketch: read config %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("sketch: config %s: unsupported format %q", path, ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteConfig writes cfg as TOML or YAML depending on the file extension.
func WriteConfig(path string, cfg Config) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("sketch: encode config: %w", err)
		}
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("sketch: encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("sketch: encode config: %w", err)
		}
	default:
		return fmt.Errorf("sketch: config %s: unsupported format %q", path, ext)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // config files are not secret
		return fmt.Errorf("%w: write config: %w", ErrStorageFailure, err)
	}
	return nil
}
