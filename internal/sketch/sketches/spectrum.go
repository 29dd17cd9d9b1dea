package sketches

import (
	"image/color"

	"github.com/Ajinqya/sketchloop/internal/sketch"
)

const spectrumBarCount = 32

// spectrumState carries the falling-cap animation between frames.
type spectrumState struct {
	caps [spectrumBarCount]float64
}

// SpectrumBars draws frequency bars with falling caps. Full shape: it reads
// the audio snapshot and the frame delta every tick.
func SpectrumBars() sketch.Descriptor {
	return sketch.Descriptor{
		ID:         "spectrum",
		Name:       "Spectrum Bars",
		Shape:      sketch.ShapeFull,
		Background: color.Black,
		ParamDefaults: map[string]float64{
			"gain":    1.0,
			"falloff": 120.0,
		},
		ParamSpecs: []sketch.ParamSpec{
			{Name: "gain", Min: 0.1, Max: 4.0, Default: 1.0},
			{Name: "falloff", Min: 10, Max: 600, Default: 120},
		},
		Setup: func(*sketch.Context) sketch.State {
			return &spectrumState{}
		},
		Render: renderSpectrumBars,
	}
}

func renderSpectrumBars(c *sketch.Context) {
	st := c.State.(*spectrumState)

	gain := c.Param("gain", 1.0)
	falloff := c.Param("falloff", 120.0)

	w := float64(c.Width)
	h := float64(c.Height)
	gap := 2.0
	barW := (w - gap*float64(spectrumBarCount+1)) / float64(spectrumBarCount)

	bins := c.Audio.Frequency
	binsPerBar := len(bins) / spectrumBarCount
	if binsPerBar < 1 {
		binsPerBar = 1
	}

	for i := 0; i < spectrumBarCount; i++ {
		// Average the bins covered by this bar
		sum := 0.0
		for j := i * binsPerBar; j < (i+1)*binsPerBar && j < len(bins); j++ {
			sum += float64(bins[j]) / 255
		}
		level := sum / float64(binsPerBar) * gain
		if level > 1 {
			level = 1
		}

		barH := level * (h - 20)
		if barH > st.caps[i] {
			st.caps[i] = barH
		} else {
			st.caps[i] -= falloff * c.Delta
			if st.caps[i] < 0 {
				st.caps[i] = 0
			}
		}

		x := gap + float64(i)*(barW+gap)

		c.Canvas.SetRGB(0.2+0.8*level, 0.9-0.6*level, 0.4)
		c.Canvas.DrawRectangle(x, h-barH, barW, barH)
		c.Canvas.Fill()

		if st.caps[i] > 2 {
			c.Canvas.SetRGB(1, 1, 1)
			c.Canvas.DrawRectangle(x, h-st.caps[i]-2, barW, 2)
			c.Canvas.Fill()
		}
	}
}
