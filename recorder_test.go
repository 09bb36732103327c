package sketch

import (
	"errors"
	"testing"
)

func TestStrokeRecorder(t *testing.T) {
	var rec StrokeRecorder
	rec.Add(Point{X: 1, Y: 1}) // ignored while idle
	if rec.Drawing() || len(rec.Points()) != 0 {
		t.Fatal("idle recorder accepted a sample")
	}
	if _, err := rec.End(); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("End() while idle error = %v, want ErrInvalidAction", err)
	}

	rec.Begin(Stroke{Color: Black, Size: 2, Opacity: 1, Tool: tool(t, "pen")})
	for i := range 5 {
		rec.Add(Point{X: float64(i), Y: float64(i * i), Pressure: 0.5})
	}
	if !rec.Drawing() || len(rec.Points()) != 5 {
		t.Fatalf("Points() = %v, want 5 samples", rec.Points())
	}

	st, err := rec.End()
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if len(st.Points) != 5 || st.ActionID == "" {
		t.Errorf("End() = %d points, id %q", len(st.Points), st.ActionID)
	}
	if rec.Drawing() {
		t.Error("Drawing() = true after End")
	}
}

func TestStrokeRecorder_Straighten(t *testing.T) {
	var rec StrokeRecorder
	rec.Begin(Stroke{Color: Black, Size: 2, Opacity: 1, Tool: tool(t, "pen")})
	for _, p := range []Point{{X: 0, Y: 0}, {X: 3, Y: 5}, {X: 6, Y: 1}, {X: 10, Y: 10}} {
		rec.Add(p)
	}
	rec.Straighten()
	want := []Point{{X: 0, Y: 0}, {X: 10, Y: 10}}
	if got := rec.Points(); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Points() after Straighten = %v, want %v", got, want)
	}
	rec.Add(Point{X: 20, Y: 4})
	if got := rec.Points(); len(got) != 2 || got[1] != (Point{X: 20, Y: 4}) {
		t.Errorf("Points() after Add = %v, want the end point moved", got)
	}
}

func TestStrokeRecorder_Cancel(t *testing.T) {
	var rec StrokeRecorder
	rec.Begin(Stroke{Color: Black, Size: 2, Opacity: 1, Tool: tool(t, "pen")})
	rec.Add(Point{X: 1, Y: 1})
	rec.Cancel()
	if rec.Drawing() || len(rec.Points()) != 0 {
		t.Error("Cancel() kept the stroke")
	}
}

func TestStrokeRecorder_EndValidates(t *testing.T) {
	var rec StrokeRecorder
	rec.Begin(Stroke{Color: Black, Size: 0, Opacity: 1, Tool: tool(t, "pen")})
	rec.Add(Point{X: 1, Y: 1})
	if _, err := rec.End(); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("End() with zero size error = %v, want ErrInvalidAction", err)
	}
}
