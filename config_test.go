package sketch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"toml", "sketch.toml", `
[canvas]
width = 320
height = 200
background = "#ffffff"

[autosave]
debounce = "250ms"

[tools.fat-pen]
family = "vector"
thinning = 0.2
taper_easing = "easeInSine"
opacity = 1.0
size_factor = 3.0
composite = "multiply"
`},
		{"yaml", "sketch.yaml", `
canvas:
  width: 320
  height: 200
  background: "#ffffff"
autosave:
  debounce: 250ms
tools:
  fat-pen:
    family: vector
    thinning: 0.2
    taper_easing: easeInSine
    opacity: 1
    size_factor: 3
    composite: multiply
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.Canvas.Width != 320 || cfg.Canvas.Height != 200 || cfg.Canvas.Background != White {
				t.Errorf("Canvas = %+v", cfg.Canvas)
			}
			if cfg.Autosave.Debounce != Duration(250*time.Millisecond) {
				t.Errorf("Debounce = %v, want 250ms", time.Duration(cfg.Autosave.Debounce))
			}
			// Unset keys keep their defaults.
			if cfg.History != DefaultConfig().History {
				t.Errorf("History = %+v, want defaults", cfg.History)
			}

			s := newTestSession(t, 0, 0, WithConfig(cfg))
			if s.Width() != 320 {
				t.Errorf("Width() = %d, want 320 from config", s.Width())
			}
			tc, ok := s.Tool("fat-pen")
			if !ok {
				t.Fatalf("Tools() = %v, want fat-pen", s.Tools())
			}
			if v := tc.(VectorStrokeConfig); v.Composite != BlendMultiply || v.SizeFactor != 3 {
				t.Errorf("fat-pen = %+v", v)
			}
			if _, ok := s.Tool("pen"); !ok {
				t.Error("built-in pen missing next to configured presets")
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name, file, content, want string
	}{
		{"unknown toml key", "a.toml", "[canvas]\ndepth = 3\n", "unknown keys"},
		{"unknown yaml key", "a.yaml", "canvas:\n  depth: 3\n", "depth"},
		{"bad size", "a.toml", "[canvas]\nwidth = -1\n", "out of range"},
		{"bad tool", "a.toml", "[tools.x]\nfamily = \"vector\"\nopacity = 2.0\nsize_factor = 1.0\n", "tool"},
		{"bad family", "a.yaml", "tools:\n  x:\n    family: laser\n", "unknown family"},
		{"extension", "a.ini", "", "unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, tt.file, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want containing %q", err, tt.want)
			}
		})
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadConfig(missing) error = nil")
	}
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Canvas.Background = MustHex("#10203040")
	cfg.Autosave.Enabled = true
	cfg.Tools = map[string]ToolPreset{
		"box":  {Family: FamilyShape, Form: ShapeRect, Filled: true},
		"soft": {Family: FamilyParticle, Effect: EffectSpray, Opacity: 0.2, SizeFactor: 6},
	}
	for _, ext := range []string{".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg"+ext)
			if err := WriteConfig(path, cfg); err != nil {
				t.Fatalf("WriteConfig() error = %v", err)
			}
			got, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if got.Canvas != cfg.Canvas || got.History != cfg.History ||
				got.Render != cfg.Render || got.Autosave != cfg.Autosave {
				t.Errorf("LoadConfig() = %+v, want %+v", got, cfg)
			}
			if len(got.Tools) != 2 || got.Tools["box"] != cfg.Tools["box"] || got.Tools["soft"] != cfg.Tools["soft"] {
				t.Errorf("Tools = %+v, want %+v", got.Tools, cfg.Tools)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Canvas.Width = 0 }},
		{"huge", func(c *Config) { c.Canvas.Height = maxCanvasSide + 1 }},
		{"checkpoints", func(c *Config) { c.History.CheckpointInterval = -1 }},
		{"stroke points", func(c *Config) { c.Render.MaxStrokePoints = 1 }},
		{"scale", func(c *Config) { c.Render.ScaleFactor = 0 }},
		{"debounce", func(c *Config) { c.Autosave.Debounce = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
