package sketches

import (
	"image/color"

	"github.com/Ajinqya/sketchloop/internal/sketch"
)

// ring is one expanding pulse spawned by a beat.
type ring struct {
	radius float64
	alpha  float64
}

type pulseState struct {
	rings []ring
}

// PulseRings spawns an expanding ring on every detected beat and fades it
// out as it grows. Full shape.
func PulseRings() sketch.Descriptor {
	return sketch.Descriptor{
		ID:         "pulse",
		Name:       "Pulse Rings",
		Shape:      sketch.ShapeFull,
		Background: color.RGBA{R: 8, G: 8, B: 16, A: 255},
		ParamDefaults: map[string]float64{
			"speed": 220.0,
			"fade":  0.8,
		},
		ParamSpecs: []sketch.ParamSpec{
			{Name: "speed", Min: 40, Max: 600, Default: 220},
			{Name: "fade", Min: 0.1, Max: 3.0, Default: 0.8},
		},
		Setup: func(*sketch.Context) sketch.State {
			return &pulseState{}
		},
		Render: renderPulseRings,
	}
}

func renderPulseRings(c *sketch.Context) {
	st := c.State.(*pulseState)

	speed := c.Param("speed", 220.0)
	fade := c.Param("fade", 0.8)

	if c.Audio.IsBeat {
		st.rings = append(st.rings, ring{alpha: 1})
	}

	cx := float64(c.Width) / 2
	cy := float64(c.Height) / 2

	alive := st.rings[:0]
	for _, r := range st.rings {
		r.radius += speed * c.Delta
		r.alpha -= fade * c.Delta
		if r.alpha <= 0 {
			continue
		}
		alive = append(alive, r)

		c.Canvas.SetRGBA(0.9, 0.3, 0.5, r.alpha)
		c.Canvas.SetLineWidth(3 + 6*c.Audio.Bass)
		c.Canvas.DrawCircle(cx, cy, r.radius)
		c.Canvas.Stroke()
	}
	st.rings = alive

	// Center dot breathes with the overall amplitude
	c.Canvas.SetRGBA(1, 1, 1, 0.9)
	c.Canvas.DrawCircle(cx, cy, 8+40*c.Audio.Amplitude)
	c.Canvas.Fill()
}
