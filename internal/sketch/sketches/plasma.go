package sketches

import (
	"image/color"
	"math"
	"time"

	"github.com/Ajinqya/sketchloop/internal/sketch"
)

const plasmaCell = 16.0

// Plasma draws a looping interference pattern on a coarse grid. Minimal
// shape: everything it needs is the loop progress, so it doubles as the
// smoke test for minimal-context sketches. The 8 second duration makes the
// pattern wrap seamlessly.
func Plasma() sketch.Descriptor {
	return sketch.Descriptor{
		ID:         "plasma",
		Name:       "Plasma",
		Shape:      sketch.ShapeMinimal,
		Duration:   8 * time.Second,
		Background: color.Black,
		Render:     renderPlasma,
	}
}

func renderPlasma(c *sketch.Context) {
	// One full phase cycle per loop so frame 0 and the wrap frame match.
	phase := c.Progress * 2 * math.Pi

	for y := 0.0; y < float64(c.Height); y += plasmaCell {
		for x := 0.0; x < float64(c.Width); x += plasmaCell {
			nx := x / float64(c.Width)
			ny := y / float64(c.Height)

			v := math.Sin(nx*10+phase) +
				math.Sin((ny*10+phase)*1.5) +
				math.Sin((nx+ny)*10+phase*2)
			v = (v + 3) / 6

			c.Canvas.SetRGB(v*0.9, 0.2+0.5*v, 1-v)
			c.Canvas.DrawRectangle(x, y, plasmaCell, plasmaCell)
			c.Canvas.Fill()
		}
	}
}
