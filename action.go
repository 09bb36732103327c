// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"math"
	"slices"

	"github.com/google/uuid"
)

// LayerID identifies a layer for the lifetime of a document.
type LayerID string

// ActionID identifies a committed action. It also seeds the random
// generator used when the action is rendered.
type ActionID string

// ImageRef names an image registered with Session.RegisterImage.
type ImageRef string

func newLayerID() LayerID   { return LayerID(uuid.NewString()) }
func newActionID() ActionID { return ActionID(uuid.NewString()) }

// ActionKind identifies the variant of an Action.
type ActionKind uint8

const (
	KindStroke ActionKind = iota + 1
	KindShape
	KindFill
	KindClip
	KindText
	KindClearLayer
	KindFilter
	KindImage
)

var actionKindNames = [...]string{
	KindStroke:     "stroke",
	KindShape:      "shape",
	KindFill:       "fill",
	KindClip:       "clip",
	KindText:       "text",
	KindClearLayer: "clear",
	KindFilter:     "filter",
	KindImage:      "image",
}

// String returns the wire name of k.
func (k ActionKind) String() string {
	if k > 0 && int(k) < len(actionKindNames) {
		return actionKindNames[k]
	}
	return "unknown"
}

func parseActionKind(s string) (ActionKind, bool) {
	for k, name := range actionKindNames {
		if name != "" && name == s {
			return ActionKind(k), true
		}
	}
	return 0, false
}

// Action is an immutable record of one edit, sufficient to render it again
// on replay. The variants are Stroke, Shape, Fill, Clip, Text, ClearLayer,
// FilterApplied and ImagePlaced.
type Action interface {
	// Kind returns the variant tag.
	Kind() ActionKind
	// ID returns the action id, empty until the action is committed.
	ID() ActionID
	// LayerID returns the layer the action draws on.
	LayerID() LayerID

	// stamped returns a deep copy carrying id.
	stamped(id ActionID) Action
	// validate checks parameters that do not depend on session state.
	validate() error
}

// Point is one pointer sample. Pressure is in [0, 1]; 0.5 is what devices
// without pressure sensing report.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"p"`
}

// Vec is a canvas position.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func validOpacity(o float64) bool { return o >= 0 && o <= 1 }

// --------------------------------------------------------------------------
// Stroke
// --------------------------------------------------------------------------

// Stroke is a freehand stroke rendered by its tool.
type Stroke struct {
	ActionID ActionID   `json:"-"`
	Layer    LayerID    `json:"-"`
	Points   []Point    `json:"points"`
	Color    Color      `json:"color"`
	Size     float64    `json:"size"`
	Opacity  float64    `json:"opacity"`
	Tool     ToolConfig `json:"-"`
	Symmetry Symmetry   `json:"symmetry"`
}

func (a Stroke) Kind() ActionKind { return KindStroke }
func (a Stroke) ID() ActionID     { return a.ActionID }
func (a Stroke) LayerID() LayerID { return a.Layer }

func (a Stroke) stamped(id ActionID) Action {
	a.ActionID = id
	a.Points = slices.Clone(a.Points)
	return a
}

func (a Stroke) validate() error {
	if len(a.Points) == 0 {
		return invalidf("stroke has no points")
	}
	if a.Size <= 0 || !finite(a.Size) {
		return invalidf("stroke size %v", a.Size)
	}
	if !validOpacity(a.Opacity) {
		return invalidf("stroke opacity %v", a.Opacity)
	}
	if a.Tool == nil {
		return invalidf("stroke has no tool")
	}
	switch a.Tool.Family() {
	case FamilyVector, FamilyTextured, FamilyParticle:
	default:
		return invalidf("tool %q does not draw strokes", a.Tool.ToolName())
	}
	if err := a.Tool.validateTool(); err != nil {
		return err
	}
	for _, p := range a.Points {
		if !finite(p.X, p.Y, p.Pressure) || p.Pressure < 0 || p.Pressure > 1 {
			return invalidf("stroke sample %+v", p)
		}
	}
	return a.Symmetry.validate()
}

// --------------------------------------------------------------------------
// Shape
// --------------------------------------------------------------------------

// ShapeKind selects a geometric primitive.
type ShapeKind uint8

const (
	ShapeLine ShapeKind = iota
	ShapeRect
	ShapeEllipse
)

var shapeKindNames = [...]string{
	ShapeLine:    "line",
	ShapeRect:    "rect",
	ShapeEllipse: "ellipse",
}

func (k ShapeKind) String() string {
	if int(k) < len(shapeKindNames) {
		return shapeKindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k ShapeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. "circle" is accepted
// as an alias of "ellipse".
func (k *ShapeKind) UnmarshalText(b []byte) error {
	s := string(b)
	if s == "circle" {
		s = "ellipse"
	}
	for i, name := range shapeKindNames {
		if name == s {
			*k = ShapeKind(i)
			return nil
		}
	}
	return invalidf("shape %q", s)
}

// Shape is a line, rectangle or ellipse spanned by two points.
type Shape struct {
	ActionID ActionID  `json:"-"`
	Layer    LayerID   `json:"-"`
	Form     ShapeKind `json:"form"`
	Start    Vec       `json:"start"`
	End      Vec       `json:"end"`
	Color    Color     `json:"color"`
	Size     float64   `json:"size"`
	Opacity  float64   `json:"opacity"`
	Filled   bool      `json:"filled,omitempty"`
}

func (a Shape) Kind() ActionKind { return KindShape }
func (a Shape) ID() ActionID     { return a.ActionID }
func (a Shape) LayerID() LayerID { return a.Layer }

func (a Shape) stamped(id ActionID) Action {
	a.ActionID = id
	return a
}

func (a Shape) validate() error {
	if a.Form > ShapeEllipse {
		return invalidf("shape kind %d", a.Form)
	}
	if !finite(a.Start.X, a.Start.Y, a.End.X, a.End.Y, a.Size) {
		return invalidf("shape coordinates")
	}
	if a.Size <= 0 && !(a.Filled && a.Form != ShapeLine) {
		return invalidf("shape size %v", a.Size)
	}
	if !validOpacity(a.Opacity) {
		return invalidf("shape opacity %v", a.Opacity)
	}
	return nil
}

// --------------------------------------------------------------------------
// Fill
// --------------------------------------------------------------------------

// Fill is a flood fill seeded at pixel (X, Y).
type Fill struct {
	ActionID  ActionID `json:"-"`
	Layer     LayerID  `json:"-"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Color     Color    `json:"color"`
	Tolerance uint8    `json:"tolerance"`
}

func (a Fill) Kind() ActionKind { return KindFill }
func (a Fill) ID() ActionID     { return a.ActionID }
func (a Fill) LayerID() LayerID { return a.Layer }

func (a Fill) stamped(id ActionID) Action {
	a.ActionID = id
	return a
}

func (a Fill) validate() error { return nil }

// --------------------------------------------------------------------------
// Clip
// --------------------------------------------------------------------------

// Clip keeps only the pixels inside Polygon and erases the rest.
type Clip struct {
	ActionID ActionID `json:"-"`
	Layer    LayerID  `json:"-"`
	Polygon  []Vec    `json:"polygon"`
}

func (a Clip) Kind() ActionKind { return KindClip }
func (a Clip) ID() ActionID     { return a.ActionID }
func (a Clip) LayerID() LayerID { return a.Layer }

func (a Clip) stamped(id ActionID) Action {
	a.ActionID = id
	a.Polygon = slices.Clone(a.Polygon)
	return a
}

func (a Clip) validate() error {
	if len(a.Polygon) < 3 {
		return invalidf("clip polygon has %d vertices", len(a.Polygon))
	}
	for _, v := range a.Polygon {
		if !finite(v.X, v.Y) {
			return invalidf("clip vertex %+v", v)
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Text
// --------------------------------------------------------------------------

// Text draws a single line of bold sans-serif text with its baseline
// origin at (X, Y). Size is the pixel size.
type Text struct {
	ActionID ActionID `json:"-"`
	Layer    LayerID  `json:"-"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Content  string   `json:"text"`
	Color    Color    `json:"color"`
	Size     float64  `json:"size"`
}

func (a Text) Kind() ActionKind { return KindText }
func (a Text) ID() ActionID     { return a.ActionID }
func (a Text) LayerID() LayerID { return a.Layer }

func (a Text) stamped(id ActionID) Action {
	a.ActionID = id
	return a
}

func (a Text) validate() error {
	if a.Content == "" {
		return invalidf("empty text")
	}
	if a.Size <= 0 || !finite(a.X, a.Y, a.Size) {
		return invalidf("text size %v", a.Size)
	}
	return nil
}

// --------------------------------------------------------------------------
// ClearLayer
// --------------------------------------------------------------------------

// ClearLayer makes every pixel of the layer transparent.
type ClearLayer struct {
	ActionID ActionID `json:"-"`
	Layer    LayerID  `json:"-"`
}

func (a ClearLayer) Kind() ActionKind { return KindClearLayer }
func (a ClearLayer) ID() ActionID     { return a.ActionID }
func (a ClearLayer) LayerID() LayerID { return a.Layer }

func (a ClearLayer) stamped(id ActionID) Action {
	a.ActionID = id
	return a
}

func (a ClearLayer) validate() error { return nil }

// --------------------------------------------------------------------------
// FilterApplied
// --------------------------------------------------------------------------

// FilterKind selects a whole-layer filter.
type FilterKind uint8

const (
	FilterGrayscale FilterKind = iota
	FilterSepia
	FilterInvert
	FilterBrightness
	FilterContrast
	FilterSaturation
	FilterBlur
)

var filterKindNames = [...]string{
	FilterGrayscale:  "grayscale",
	FilterSepia:      "sepia",
	FilterInvert:     "invert",
	FilterBrightness: "brightness",
	FilterContrast:   "contrast",
	FilterSaturation: "saturation",
	FilterBlur:       "blur",
}

func (k FilterKind) String() string {
	if int(k) < len(filterKindNames) {
		return filterKindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k FilterKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *FilterKind) UnmarshalText(b []byte) error {
	for i, name := range filterKindNames {
		if name == string(b) {
			*k = FilterKind(i)
			return nil
		}
	}
	return invalidf("filter %q", b)
}

// signed reports whether the filter accepts a negative intensity.
func (k FilterKind) signed() bool {
	return k == FilterBrightness || k == FilterContrast || k == FilterSaturation
}

// FilterApplied runs a filter over the whole layer.
//
// Intensity is in [0, 1] for grayscale, sepia, invert and blur, where 1 is
// the full effect. Brightness, contrast and saturation take [-1, 1] and
// scale the channel factor to 1+Intensity.
type FilterApplied struct {
	ActionID  ActionID   `json:"-"`
	Layer     LayerID    `json:"-"`
	Filter    FilterKind `json:"filter"`
	Intensity float64    `json:"intensity"`
}

func (a FilterApplied) Kind() ActionKind { return KindFilter }
func (a FilterApplied) ID() ActionID     { return a.ActionID }
func (a FilterApplied) LayerID() LayerID { return a.Layer }

func (a FilterApplied) stamped(id ActionID) Action {
	a.ActionID = id
	return a
}

func (a FilterApplied) validate() error {
	if a.Filter > FilterBlur {
		return invalidf("filter kind %d", a.Filter)
	}
	lo := 0.0
	if a.Filter.signed() {
		lo = -1
	}
	if !finite(a.Intensity) || a.Intensity < lo || a.Intensity > 1 {
		return invalidf("%s intensity %v", a.Filter, a.Intensity)
	}
	return nil
}

// --------------------------------------------------------------------------
// ImagePlaced
// --------------------------------------------------------------------------

// ImagePlaced draws a registered image resampled into the rectangle at
// (X, Y) of size W x H.
type ImagePlaced struct {
	ActionID ActionID `json:"-"`
	Layer    LayerID  `json:"-"`
	Image    ImageRef `json:"image"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	W        float64  `json:"w"`
	H        float64  `json:"h"`
}

func (a ImagePlaced) Kind() ActionKind { return KindImage }
func (a ImagePlaced) ID() ActionID     { return a.ActionID }
func (a ImagePlaced) LayerID() LayerID { return a.Layer }

func (a ImagePlaced) stamped(id ActionID) Action {
	a.ActionID = id
	return a
}

func (a ImagePlaced) validate() error {
	if a.Image == "" {
		return invalidf("image placement without image")
	}
	if a.W <= 0 || a.H <= 0 || !finite(a.X, a.Y, a.W, a.H) {
		return invalidf("image rectangle %vx%v", a.W, a.H)
	}
	return nil
}
