// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stroke

import (
	"sort"

	"github.com/tanema/gween/ease"
)

// Easing maps a normalized progress t in [0, 1] to a factor in [0, 1].
type Easing func(t float64) float64

// easings holds the named curves usable for stroke tapers.
var easings = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"easeInQuad":     ease.InQuad,
	"easeOutQuad":    ease.OutQuad,
	"easeInOutQuad":  ease.InOutQuad,
	"easeInCubic":    ease.InCubic,
	"easeOutCubic":   ease.OutCubic,
	"easeInOutCubic": ease.InOutCubic,
	"easeInSine":     ease.InSine,
	"easeOutSine":    ease.OutSine,
	"easeInOutSine":  ease.InOutSine,
}

// EasingByName returns the easing curve registered under name. The empty
// name is linear.
func EasingByName(name string) (Easing, bool) {
	if name == "" {
		name = "linear"
	}
	fn, ok := easings[name]
	if !ok {
		return Linear, false
	}
	return func(t float64) float64 {
		return float64(fn(float32(clamp01(t)), 0, 1, 1))
	}, true
}

// EasingNames returns the registered easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
