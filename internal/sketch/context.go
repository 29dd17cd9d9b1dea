package sketch

import (
	"github.com/gogpu/gg"

	"github.com/Ajinqya/sketchloop/internal/domain"
)

// Context is the value handed to Setup and Render on every invocation. The
// player owns it and rewrites the per-tick fields in place between frames;
// sketches must not retain it past the call.
//
// Which fields are populated depends on the descriptor's shape:
//
//	ShapeMinimal: Width, Height, Progress, Canvas, State
//	ShapeFull:    all of the above plus Time, Delta, Pixels, Params, Frame,
//	              Audio
//
// Minimal-shape sketches see zero values in the full-shape fields.
type Context struct {
	// Width and Height are the logical canvas dimensions.
	Width  int
	Height int

	// Progress is the normalized loop position. For a finite duration D it
	// is min(t/D, 1); for an infinite sketch it is the fractional part of
	// the elapsed seconds.
	Progress float64

	// Canvas is the drawing surface, already scaled by the device pixel
	// factor and cleared to the descriptor's background.
	Canvas *gg.Context

	// Time is the elapsed playback time in seconds, after loop wrapping.
	Time float64

	// Delta is the wall-clock seconds since the previously accepted tick.
	Delta float64

	// Pixels is the device pixel scale factor applied to the canvas.
	Pixels float64

	// Params holds the sketch's tunable parameters, defaults merged with
	// any SetParams overrides.
	Params map[string]float64

	// Frame is the index of the current frame, floor(Time * FPS).
	Frame int

	// Audio is the snapshot for this tick, from the attached pipeline or
	// the synthetic generator. Valid for the duration of the call.
	Audio *domain.AudioSnapshot

	// State is this instance's state as returned by Setup.
	State State
}

// Param returns a named parameter, falling back to def when the context has
// no parameters or the name is absent.
func (c *Context) Param(name string, def float64) float64 {
	if c.Params == nil {
		return def
	}
	if v, ok := c.Params[name]; ok {
		return v
	}
	return def
}
