// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Actions are encoded as tagged envelopes:
//
//	{"kind":"fill","id":"...","layer":"...","params":{"x":10,"y":10,"color":"#ff0000","tolerance":0}}
//
// A stroke's tool is either the name of a built-in tool or a
// {"family":"vector","config":{...}} object.

type envelope struct {
	Kind   string          `json:"kind"`
	ID     ActionID        `json:"id,omitempty"`
	Layer  LayerID         `json:"layer"`
	Params json.RawMessage `json:"params"`
}

type toolEnvelope struct {
	Family ToolFamily      `json:"family"`
	Config json.RawMessage `json:"config"`
}

type strokeParams struct {
	Stroke
	Tool json.RawMessage `json:"tool"`
}

// MarshalAction encodes a single action.
func MarshalAction(a Action) ([]byte, error) {
	env, err := encodeAction(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// UnmarshalAction decodes a single action encoded by MarshalAction.
func UnmarshalAction(b []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}
	return decodeAction(env)
}

// ActionList is a sequence of actions with a JSON encoding.
type ActionList []Action

// MarshalJSON implements json.Marshaler.
func (l ActionList) MarshalJSON() ([]byte, error) {
	envs := make([]envelope, 0, len(l))
	for _, a := range l {
		env, err := encodeAction(a)
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return json.Marshal(envs)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *ActionList) UnmarshalJSON(b []byte) error {
	var envs []envelope
	if err := json.Unmarshal(b, &envs); err != nil {
		return err
	}
	out := make(ActionList, 0, len(envs))
	for i, env := range envs {
		a, err := decodeAction(env)
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		out = append(out, a)
	}
	*l = out
	return nil
}

func encodeAction(a Action) (envelope, error) {
	env := envelope{Kind: a.Kind().String(), ID: a.ID(), Layer: a.LayerID()}
	var (
		params []byte
		err    error
	)
	if s, ok := a.(Stroke); ok {
		tool, terr := encodeTool(s.Tool)
		if terr != nil {
			return env, terr
		}
		params, err = json.Marshal(strokeParams{Stroke: s, Tool: tool})
	} else {
		params, err = json.Marshal(a)
	}
	if err != nil {
		return env, fmt.Errorf("encode %s action: %w", env.Kind, err)
	}
	env.Params = params
	return env, nil
}

func encodeTool(t ToolConfig) (json.RawMessage, error) {
	if t == nil {
		return nil, invalidf("stroke has no tool")
	}
	cfg, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(toolEnvelope{Family: t.Family(), Config: cfg})
}

func decodeAction(env envelope) (Action, error) {
	kind, ok := parseActionKind(env.Kind)
	if !ok {
		return nil, invalidf("action kind %q", env.Kind)
	}
	params := env.Params
	if len(params) == 0 {
		params = []byte("{}")
	}
	var (
		a   Action
		err error
	)
	switch kind {
	case KindStroke:
		var p strokeParams
		if err = strictUnmarshal(params, &p); err == nil {
			p.Stroke.Tool, err = decodeTool(p.Tool)
			p.Stroke.ActionID, p.Stroke.Layer = env.ID, env.Layer
			a = p.Stroke
		}
	case KindShape:
		var v Shape
		err = strictUnmarshal(params, &v)
		v.ActionID, v.Layer = env.ID, env.Layer
		a = v
	case KindFill:
		var v Fill
		err = strictUnmarshal(params, &v)
		v.ActionID, v.Layer = env.ID, env.Layer
		a = v
	case KindClip:
		var v Clip
		err = strictUnmarshal(params, &v)
		v.ActionID, v.Layer = env.ID, env.Layer
		a = v
	case KindText:
		var v Text
		err = strictUnmarshal(params, &v)
		v.ActionID, v.Layer = env.ID, env.Layer
		a = v
	case KindClearLayer:
		a = ClearLayer{ActionID: env.ID, Layer: env.Layer}
	case KindFilter:
		var v FilterApplied
		err = strictUnmarshal(params, &v)
		v.ActionID, v.Layer = env.ID, env.Layer
		a = v
	case KindImage:
		var v ImagePlaced
		err = strictUnmarshal(params, &v)
		v.ActionID, v.Layer = env.ID, env.Layer
		a = v
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidAction, env.Kind, err)
	}
	return a, nil
}

func decodeTool(raw json.RawMessage) (ToolConfig, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing tool")
	}
	var name string
	if json.Unmarshal(raw, &name) == nil {
		t, ok := Tool(name)
		if !ok {
			return nil, fmt.Errorf("unknown tool %q", name)
		}
		return t, nil
	}
	var env toolEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	var (
		t   ToolConfig
		err error
	)
	switch env.Family {
	case FamilyVector:
		var c VectorStrokeConfig
		err = strictUnmarshal(env.Config, &c)
		t = c
	case FamilyTextured:
		var c TexturedStrokeConfig
		err = strictUnmarshal(env.Config, &c)
		t = c
	case FamilyParticle:
		var c ParticleConfig
		err = strictUnmarshal(env.Config, &c)
		t = c
	case FamilyShape:
		var c ShapeConfig
		err = strictUnmarshal(env.Config, &c)
		t = c
	case FamilyFill:
		var c FillConfig
		err = strictUnmarshal(env.Config, &c)
		t = c
	default:
		return nil, fmt.Errorf("unknown tool family %q", env.Family)
	}
	return t, err
}

func strictUnmarshal(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
