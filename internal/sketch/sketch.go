// Package sketch defines the contract between the playback engine and the
// drawing routines it runs: the descriptor a sketch registers under, the
// render context its callbacks receive, and the registry the rest of the
// application resolves sketches from.
package sketch

import (
	"image/color"
	"time"
)

const (
	// DefaultFPS is used when a descriptor does not set a frame rate.
	DefaultFPS = 60

	// DefaultWidth and DefaultHeight are used when a descriptor does not
	// set canvas dimensions.
	DefaultWidth  = 800
	DefaultHeight = 600
)

// ContextShape selects which fields of the render context a sketch receives.
// The shape is declared on the descriptor and fixed at registration; it is
// never re-inferred afterwards.
type ContextShape int

const (
	// ShapeMinimal provides dimensions, loop progress and the canvas.
	ShapeMinimal ContextShape = iota

	// ShapeFull additionally provides wall time, frame delta, the device
	// pixel scale, tunable parameters, the frame index and audio data.
	ShapeFull
)

// String returns the shape name for logging.
func (s ContextShape) String() string {
	switch s {
	case ShapeMinimal:
		return "minimal"
	case ShapeFull:
		return "full"
	default:
		return "unknown"
	}
}

// State is per-instance sketch state, created by Setup and handed back on
// every Render through the context. Sketches keep all mutable state here so
// two players running the same sketch never share anything.
type State any

// ParamSpec describes one tunable parameter of a sketch.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// Descriptor is the static description of a sketch: identity, canvas and
// timing configuration, parameters, and the two lifecycle callbacks.
//
// Setup runs once per player instance before the first Render and returns
// the instance state. Render runs every accepted tick. Both may be nil-safe
// defaults except Render, which is required.
type Descriptor struct {
	ID   string
	Name string

	// FPS is the target frame rate. Zero means DefaultFPS.
	FPS float64

	// Duration is the loop length. Zero means the sketch runs forever.
	Duration time.Duration

	// Width and Height are the logical canvas dimensions. Zero means the
	// package defaults.
	Width  int
	Height int

	// Background is painted before every Render. Nil means black.
	Background color.Color

	ParamDefaults map[string]float64
	ParamSpecs    []ParamSpec

	Shape ContextShape

	Setup  func(*Context) State
	Render func(*Context)
}

// normalized returns a copy with defaults filled in. Registration applies
// this once so lookups always see a complete descriptor.
func (d Descriptor) normalized() Descriptor {
	if d.FPS <= 0 {
		d.FPS = DefaultFPS
	}
	if d.Width <= 0 {
		d.Width = DefaultWidth
	}
	if d.Height <= 0 {
		d.Height = DefaultHeight
	}
	if d.Background == nil {
		d.Background = color.Black
	}
	if d.Name == "" {
		d.Name = d.ID
	}
	return d
}

// Infinite reports whether the sketch loops forever.
func (d Descriptor) Infinite() bool {
	return d.Duration <= 0
}
