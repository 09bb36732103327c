package blend

import "testing"

type px struct{ r, g, b, a byte }

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeSourceOver, "source-over"},
		{ModeDestinationOut, "destination-out"},
		{ModeMultiply, "multiply"},
		{ModeLighten, "lighten"},
		{Mode(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for m := ModeSourceOver; m <= ModeLighten; m++ {
		got, ok := ParseMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, true", m.String(), got, ok, m)
		}
	}
	if _, ok := ParseMode("hue"); ok {
		t.Error("ParseMode(hue) ok = true, want false")
	}
}

func TestBlendFuncs(t *testing.T) {
	red := px{255, 0, 0, 255}
	white := px{255, 255, 255, 255}
	gray := px{128, 128, 128, 255}
	halfBlue := px{0, 0, 128, 128}
	clear := px{}

	tests := []struct {
		name string
		mode Mode
		src  px
		dst  px
		want px
	}{
		{"over opaque", ModeSourceOver, red, white, red},
		{"over half", ModeSourceOver, halfBlue, white, px{127, 127, 255, 255}},
		{"over transparent", ModeSourceOver, clear, gray, gray},
		{"erase opaque", ModeDestinationOut, red, white, clear},
		{"erase none", ModeDestinationOut, clear, white, white},
		{"dest-in half", ModeDestinationIn, halfBlue, white, px{128, 128, 128, 128}},
		{"copy", ModeCopy, halfBlue, white, halfBlue},
		{"lighter", ModeLighter, gray, gray, px{255, 255, 255, 255}},
		{"multiply white", ModeMultiply, red, white, red},
		{"multiply gray", ModeMultiply, gray, gray, px{64, 64, 64, 255}},
		{"screen gray", ModeScreen, gray, gray, px{192, 192, 192, 255}},
		{"screen on empty", ModeScreen, red, clear, red},
		{"overlay dark", ModeOverlay, white, px{0, 0, 0, 255}, px{0, 0, 0, 255}},
		{"overlay light", ModeOverlay, px{0, 0, 0, 255}, white, white},
		{"darken", ModeDarken, red, gray, px{128, 0, 0, 255}},
		{"lighten", ModeLighten, red, gray, px{255, 128, 128, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := Get(tt.mode)
			r, g, b, a := fn(tt.src.r, tt.src.g, tt.src.b, tt.src.a, tt.dst.r, tt.dst.g, tt.dst.b, tt.dst.a)
			got := px{r, g, b, a}
			if !closePx(got, tt.want, 1) {
				t.Errorf("%v = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestGetUnknownFallsBackToSourceOver(t *testing.T) {
	r, _, _, a := Get(Mode(99))(255, 0, 0, 255, 0, 0, 255, 255)
	if r != 255 || a != 255 {
		t.Errorf("Get(unknown) result = r%d a%d, want source-over", r, a)
	}
}

func TestMathHelpers(t *testing.T) {
	if got := mulDiv255(255, 255); got != 255 {
		t.Errorf("mulDiv255(255,255) = %d, want 255", got)
	}
	if got := mulDiv255(128, 255); got != 128 {
		t.Errorf("mulDiv255(128,255) = %d, want 128", got)
	}
	if got := mul2Div255(200, 200); got != 255 {
		t.Errorf("mul2Div255(200,200) = %d, want 255", got)
	}
	if got := unpremul(64, 128); got != 128 {
		t.Errorf("unpremul(64,128) = %d, want 128", got)
	}
	if got := scaleAlpha(200, 0.5); got != 100 {
		t.Errorf("scaleAlpha(200,0.5) = %d, want 100", got)
	}
}

func closePx(a, b px, tol int) bool {
	d := func(x, y byte) bool {
		v := int(x) - int(y)
		return v <= tol && v >= -tol
	}
	return d(a.r, b.r) && d(a.g, b.g) && d(a.b, b.b) && d(a.a, b.a)
}
