// Package synth produces deterministic audio snapshots from elapsed time
// alone, used as the data source when no media is attached. Two generators
// asked for the same instant produce identical snapshots, so headless runs
// and replays stay reproducible.
package synth

import (
	"math"

	"github.com/Ajinqya/sketchloop/internal/audio"
	"github.com/Ajinqya/sketchloop/internal/domain"
)

const (
	numBins    = 128
	windowSize = 256

	// beatInterval is the width of the time buckets the synthetic beat
	// pulse fires on.
	beatInterval = 0.5

	// beatPulseWidth is how far into a bucket the beat flag stays raised.
	beatPulseWidth = 0.08
)

// Generator fabricates audio snapshots as a pure function of time. The zero
// value is not usable; construct with NewGenerator.
type Generator struct {
	bins [numBins]byte
	wave [windowSize]byte
}

// NewGenerator returns a ready generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// At fills the generator's buffers for elapsed time t in seconds and returns
// the resulting snapshot. The returned slices alias the generator's internal
// buffers and are valid until the next call.
func (g *Generator) At(t float64) domain.AudioSnapshot {
	for i := range g.bins {
		// Each bin carries a slow sinusoid with a per-bin phase offset
		// and falls off toward the high end, roughly shaped like a
		// frequency spectrum of real material.
		phase := t*2.0 + float64(i)*0.15
		falloff := 1.0 - float64(i)/float64(numBins)
		v := (0.5 + 0.5*math.Sin(phase)) * falloff
		g.bins[i] = byte(math.Round(v * 255))
	}

	for i := range g.wave {
		x := t*4.0 + float64(i)*0.1
		s := 0.6*math.Sin(x) + 0.3*math.Sin(x*2.7) + 0.1*math.Sin(x*5.3)
		g.wave[i] = sampleToByte(s)
	}

	bass, mid, high := audio.BandEnergies(g.bins[:])

	return domain.AudioSnapshot{
		Frequency: g.bins[:],
		Waveform:  g.wave[:],
		Amplitude: audio.Amplitude(g.wave[:]),
		Bass:      bass,
		Mid:       mid,
		High:      high,
		IsBeat:    beatAt(t),
	}
}

// beatAt raises the beat flag for a short pulse at the start of every
// half-second bucket.
func beatAt(t float64) bool {
	if t < 0 {
		return false
	}
	return math.Mod(t, beatInterval) < beatPulseWidth
}

// sampleToByte maps a [-1, 1] sample to the unsigned byte convention where
// 128 is silence.
func sampleToByte(s float64) byte {
	v := 128 * (1 + s)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return byte(v)
}
