// Package domain defines domain-specific errors.
// These errors represent playback and audio pipeline failures and are
// independent of the libraries behind them.
package domain

import (
	"errors"
	"fmt"
)

// Common errors returned by the player and the audio pipeline.
var (
	// ErrNoSurface is returned when a drawing surface cannot be acquired at
	// player construction.
	ErrNoSurface = errors.New("drawing surface unavailable")

	// ErrDestroyed is returned when an operation is attempted on a destroyed
	// player.
	ErrDestroyed = errors.New("player destroyed")

	// ErrNoRender is returned when a sketch descriptor has no render function.
	ErrNoRender = errors.New("sketch has no render function")

	// ErrSketchNotFound is returned when a requested sketch is not registered.
	ErrSketchNotFound = errors.New("sketch not found")

	// ErrDuplicateSketch is returned when registering a sketch whose ID is
	// already taken.
	ErrDuplicateSketch = errors.New("sketch already registered")

	// ErrNotLoaded is returned by audio transport operations when no media is
	// loaded.
	ErrNotLoaded = errors.New("no media loaded")

	// ErrUnsupportedFormat is returned when a media file extension has no
	// decoder.
	ErrUnsupportedFormat = errors.New("unsupported media format")

	// ErrPipelineClosed is returned when an operation is attempted on a
	// closed audio pipeline, including a Load that completed after Close.
	ErrPipelineClosed = errors.New("audio pipeline closed")

	// ErrLoadSuperseded is returned by a Load whose completion lost to a
	// newer Load. The newer source stays attached; this call had no effect.
	ErrLoadSuperseded = errors.New("load superseded by a newer load")
)

// ConstructionError is a fatal error raised synchronously when a player
// cannot be built. It is never deferred to the first frame: a player that
// exists can always render.
type ConstructionError struct {
	Sketch  string // Sketch ID or name the player was built for
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	if e.Sketch != "" {
		return fmt.Sprintf("player construction for %q failed: %s", e.Sketch, e.Message)
	}
	return fmt.Sprintf("player construction failed: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// NewConstructionError creates a new ConstructionError.
func NewConstructionError(sketch, message string, err error) *ConstructionError {
	return &ConstructionError{
		Sketch:  sketch,
		Message: message,
		Err:     err,
	}
}

// AudioLoadError is returned by Load when a media source fails to decode or
// never becomes ready. It is recoverable: the pipeline is left unloaded and a
// further Load may succeed.
type AudioLoadError struct {
	Op   string // Operation that failed (e.g. "open", "decode")
	Path string // Media file path
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *AudioLoadError) Error() string {
	return fmt.Sprintf("audio %s failed for '%s': %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *AudioLoadError) Unwrap() error {
	return e.Err
}

// NewAudioLoadError creates a new AudioLoadError.
func NewAudioLoadError(op, path string, err error) *AudioLoadError {
	return &AudioLoadError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}
