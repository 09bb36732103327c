package sketch

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"testing"
)

func TestBuiltinTools(t *testing.T) {
	tools := BuiltinTools(DefaultScaleFactor)
	want := []string{
		"airbrush", "brush", "bucket", "calligraphy", "chalk", "ellipse",
		"eraser", "line", "marker", "neon", "pen", "pencil", "rect",
	}
	if got := ToolNames(tools); !slices.Equal(got, want) {
		t.Errorf("ToolNames() = %v, want %v", got, want)
	}
	for name, tc := range tools {
		if err := tc.validateTool(); err != nil {
			t.Errorf("built-in %q invalid: %v", name, err)
		}
		if tc.ToolName() != name {
			t.Errorf("tool %q reports name %q", name, tc.ToolName())
		}
	}
	pen := tools["pen"].(VectorStrokeConfig)
	if pen.TaperStart != 15*DefaultScaleFactor || pen.TaperEnd != 20*DefaultScaleFactor {
		t.Errorf("pen tapers = %v/%v", pen.TaperStart, pen.TaperEnd)
	}
	if got := BuiltinTools(1)["pen"].(VectorStrokeConfig).TaperStart; got != 15 {
		t.Errorf("pen TaperStart at scale 1 = %v, want 15", got)
	}
	if tools["eraser"].(VectorStrokeConfig).Composite != BlendErase {
		t.Error("eraser does not erase")
	}
}

func TestToolConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		tool ToolConfig
	}{
		{"thinning", VectorStrokeConfig{Name: "x", Thinning: 2, Opacity: 1, SizeFactor: 1}},
		{"easing", VectorStrokeConfig{Name: "x", Opacity: 1, SizeFactor: 1, TaperEasing: "bounce"}},
		{"size factor", VectorStrokeConfig{Name: "x", Opacity: 1}},
		{"grains", TexturedStrokeConfig{Name: "x", Opacity: 1, SizeFactor: 1, Grains: -1}},
		{"effect", ParticleConfig{Name: "x", Effect: "smoke", Opacity: 1, SizeFactor: 1}},
		{"form", ShapeConfig{Name: "x", Form: ShapeKind(9)}},
		{"NaN thinning", VectorStrokeConfig{Name: "x", Thinning: math.NaN(), Opacity: 1, SizeFactor: 1}},
		{"NaN size factor", VectorStrokeConfig{Name: "x", Opacity: 1, SizeFactor: math.NaN()}},
		{"infinite taper", VectorStrokeConfig{Name: "x", TaperEnd: math.Inf(1), Opacity: 1, SizeFactor: 1}},
		{"infinite grain", TexturedStrokeConfig{Name: "x", Opacity: 1, SizeFactor: 1, Grains: 3, Grain: math.Inf(1), Step: 3}},
		{"NaN base", TexturedStrokeConfig{Name: "x", Opacity: 1, SizeFactor: 1, Base: math.NaN(), Grains: 3, Grain: 1, Step: 3}},
		{"NaN particle size", ParticleConfig{Name: "x", Effect: EffectChalk, Opacity: 1, SizeFactor: math.NaN()}},
		{"infinite particle size", ParticleConfig{Name: "x", Effect: EffectSpray, Opacity: 1, SizeFactor: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.tool.validateTool(); !errors.Is(err, ErrInvalidAction) {
				t.Errorf("validateTool() error = %v, want ErrInvalidAction", err)
			}
		})
	}
}

func TestCommit_NonFiniteToolKeepsSaveWorking(t *testing.T) {
	s := newTestSession(t, 32, 32)
	pen := tool(t, "pen").(VectorStrokeConfig)
	pen.Thinning = math.NaN()
	st := line(t, 2, 2, 28, 28, 3, Black)
	st.Tool = pen
	if _, err := s.Commit(st); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("Commit(NaN thinning) error = %v, want ErrInvalidAction", err)
	}
	if n := len(s.Actions()); n != 0 {
		t.Errorf("len(Actions()) = %d after rejection, want 0", n)
	}
	mustCommit(t, s, line(t, 2, 2, 28, 28, 3, Black))
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		t.Errorf("Save() error = %v", err)
	}
}

func TestPresetBuilders(t *testing.T) {
	s := newTestSession(t, 32, 32)
	rect, _ := s.Tool("rect")
	sh := rect.(ShapeConfig).Shape("", Vec{2, 2}, Vec{20, 20}, Black, 2, 1)
	if sh.Form != ShapeRect {
		t.Errorf("Shape().Form = %v, want rect", sh.Form)
	}
	mustCommit(t, s, sh)

	bucket, _ := s.Tool("bucket")
	mustCommit(t, s, bucket.(FillConfig).Fill("", 30, 30, RGB(9, 9, 9)))
	if got := len(s.Actions()); got != 2 {
		t.Errorf("len(Actions()) = %d, want 2", got)
	}
}

func TestBlendMode_Parse(t *testing.T) {
	tests := []struct {
		in   string
		want BlendMode
	}{
		{"normal", BlendNormal},
		{"multiply", BlendMultiply},
		{"erase", BlendErase},
		{"destination-out", BlendErase},
		{"source-over", BlendNormal},
	}
	for _, tt := range tests {
		got, err := ParseBlendMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseBlendMode(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseBlendMode("dissolve"); err == nil {
		t.Error("ParseBlendMode(dissolve) error = nil")
	}
}
