package sketch

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestActionList_RoundTrip(t *testing.T) {
	marker, _ := Tool("marker")
	in := ActionList{
		Stroke{ActionID: "s1", Layer: "l1", Points: []Point{{X: 1, Y: 2, Pressure: 0.5}}, Color: Black, Size: 3, Opacity: 1, Tool: marker, Symmetry: Radial(3)},
		Shape{ActionID: "s2", Layer: "l1", Form: ShapeEllipse, Start: Vec{1, 1}, End: Vec{5, 5}, Color: White, Size: 1, Opacity: 0.5, Filled: true},
		Fill{ActionID: "s3", Layer: "l2", X: 4, Y: 5, Color: RGB(1, 2, 3), Tolerance: 12},
		Clip{ActionID: "s4", Layer: "l2", Polygon: []Vec{{0, 0}, {4, 0}, {0, 4}}},
		Text{ActionID: "s5", Layer: "l2", X: 1, Y: 9, Content: "héllo", Color: Black, Size: 10},
		ClearLayer{ActionID: "s6", Layer: "l1"},
		FilterApplied{ActionID: "s7", Layer: "l1", Filter: FilterContrast, Intensity: -0.25},
		ImagePlaced{ActionID: "s8", Layer: "l2", Image: "logo", X: 1, Y: 2, W: 3, H: 4},
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out ActionList
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestUnmarshalAction(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Action
		wantErr bool
	}{
		{
			name: "fill",
			in:   `{"kind":"fill","layer":"a","params":{"x":10,"y":10,"color":"#ff0000","tolerance":0}}`,
			want: Fill{Layer: "a", X: 10, Y: 10, Color: RGB(255, 0, 0)},
		},
		{
			name: "stroke with named tool",
			in:   `{"kind":"stroke","layer":"a","params":{"points":[{"x":1,"y":1,"p":0.5}],"color":"#000","size":2,"opacity":1,"symmetry":"quad","tool":"pen"}}`,
			want: Stroke{
				Layer: "a", Points: []Point{{X: 1, Y: 1, Pressure: 0.5}}, Color: Black, Size: 2, Opacity: 1,
				Tool: BuiltinTools(DefaultScaleFactor)["pen"], Symmetry: Symmetry{Mode: SymmetryQuad},
			},
		},
		{
			name: "clear without params",
			in:   `{"kind":"clear","layer":"a"}`,
			want: ClearLayer{Layer: "a"},
		},
		{name: "unknown kind", in: `{"kind":"smudge","params":{}}`, wantErr: true},
		{name: "unknown field", in: `{"kind":"fill","params":{"x":1,"y":1,"color":"#fff","radius":3}}`, wantErr: true},
		{name: "unknown tool", in: `{"kind":"stroke","params":{"points":[],"color":"#000","size":1,"opacity":1,"tool":"crayon"}}`, wantErr: true},
		{name: "missing tool", in: `{"kind":"stroke","params":{"points":[],"color":"#000","size":1,"opacity":1}}`, wantErr: true},
		{name: "bad filter", in: `{"kind":"filter","params":{"filter":"emboss","intensity":1}}`, wantErr: true},
		{name: "not json", in: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalAction([]byte(tt.in))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAction) {
					t.Errorf("UnmarshalAction() error = %v, want ErrInvalidAction", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalAction() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UnmarshalAction() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMarshalAction_ToolEnvelope(t *testing.T) {
	custom := TexturedStrokeConfig{Name: "charcoal", Opacity: 0.7, SizeFactor: 2, Base: 0.3, Grains: 5, Grain: 2, Step: 2}
	b, err := MarshalAction(Stroke{Points: []Point{{X: 1, Y: 1}}, Color: Black, Size: 1, Opacity: 1, Tool: custom})
	if err != nil {
		t.Fatalf("MarshalAction() error = %v", err)
	}
	if !strings.Contains(string(b), `"family":"textured"`) {
		t.Errorf("MarshalAction() = %s, want a textured tool envelope", b)
	}
	a, err := UnmarshalAction(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := a.(Stroke).Tool; got != custom {
		t.Errorf("decoded tool = %+v, want %+v", got, custom)
	}

	if _, err := MarshalAction(Stroke{Points: []Point{{}}}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("MarshalAction(no tool) error = %v, want ErrInvalidAction", err)
	}
}
