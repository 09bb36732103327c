// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation is the parent of every rejected edit. A rejected
// operation leaves the session unchanged.
var ErrInvalidOperation = errors.New("sketch: invalid operation")

// Specialisations of ErrInvalidOperation. errors.Is matches both the
// specific error and ErrInvalidOperation.
var (
	// ErrLastLayer is returned when deleting the only remaining layer.
	ErrLastLayer = fmt.Errorf("%w: cannot delete the last layer", ErrInvalidOperation)

	// ErrLayerNotFound is returned for an unknown layer id.
	ErrLayerNotFound = fmt.Errorf("%w: layer not found", ErrInvalidOperation)

	// ErrLayerLocked is returned when editing a locked layer.
	ErrLayerLocked = fmt.Errorf("%w: layer is locked", ErrInvalidOperation)

	// ErrLayerBusy is returned while an asynchronous job owns the layer.
	ErrLayerBusy = fmt.Errorf("%w: layer is busy", ErrInvalidOperation)

	// ErrInvalidAction is returned for malformed action parameters.
	ErrInvalidAction = fmt.Errorf("%w: invalid action", ErrInvalidOperation)

	// ErrUnknownImage is returned when an ImagePlaced action references an
	// image that was never registered.
	ErrUnknownImage = fmt.Errorf("%w: unknown image", ErrInvalidOperation)
)

var (
	// ErrOutOfBounds is returned when a flood fill seed lies outside the
	// canvas.
	ErrOutOfBounds = errors.New("sketch: coordinate out of bounds")

	// ErrStorageFailure wraps persistence and export failures.
	ErrStorageFailure = errors.New("sketch: storage failure")

	// ErrRenderingDegraded marks a stroke that was sub-sampled because it
	// had too many points. It is logged, never returned by Commit.
	ErrRenderingDegraded = errors.New("sketch: rendering degraded")

	// ErrUnsupportedVersion is returned by Load for documents written by an
	// incompatible engine version.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported document version", ErrStorageFailure)

	// ErrCorruptDocument is returned by Load when the digest does not match.
	ErrCorruptDocument = fmt.Errorf("%w: document digest mismatch", ErrStorageFailure)
)

// invalidf wraps ErrInvalidAction with a formatted reason.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidAction}, args...)...)
}

func errBusy(id LayerID) error   { return fmt.Errorf("%w: %s", ErrLayerBusy, id) }
func errLocked(id LayerID) error { return fmt.Errorf("%w: %s", ErrLayerLocked, id) }

func errOutOfBounds(x, y int) error {
	return fmt.Errorf("%w: fill seed (%d,%d)", ErrOutOfBounds, x, y)
}

func errUnknownImage(ref ImageRef) error { return fmt.Errorf("%w: %q", ErrUnknownImage, ref) }
