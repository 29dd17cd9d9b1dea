package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ajinqya/sketchloop/internal/audio/dsp"
)

func TestBandEnergies_FullScale(t *testing.T) {
	// Uniformly maxed bins must read as full energy in every band
	bins := make([]byte, 100)
	for i := range bins {
		bins[i] = 255
	}

	bass, mid, high := BandEnergies(bins)
	assert.InDelta(t, 1.0, bass, 1e-12)
	assert.InDelta(t, 1.0, mid, 1e-12)
	assert.InDelta(t, 1.0, high, 1e-12)
}

func TestBandEnergies_Partition(t *testing.T) {
	// 100 bins: bass = [0,5), mid = [5,30), high = [30,100)
	bins := make([]byte, 100)
	for i := 0; i < 5; i++ {
		bins[i] = 255
	}

	bass, mid, high := BandEnergies(bins)
	assert.InDelta(t, 1.0, bass, 1e-12)
	assert.InDelta(t, 0.0, mid, 1e-12)
	assert.InDelta(t, 0.0, high, 1e-12)

	for i := range bins {
		bins[i] = 0
	}
	for i := 5; i < 30; i++ {
		bins[i] = 255
	}
	bass, mid, high = BandEnergies(bins)
	assert.InDelta(t, 0.0, bass, 1e-12)
	assert.InDelta(t, 1.0, mid, 1e-12)
	assert.InDelta(t, 0.0, high, 1e-12)
}

func TestBandEnergies_TinyBinCounts(t *testing.T) {
	// With very few bins the bass band still covers at least one bin and
	// the mid band at least one more
	bass, mid, high := BandEnergies([]byte{255, 255, 255})
	assert.InDelta(t, 1.0, bass, 1e-12)
	assert.InDelta(t, 1.0, mid, 1e-12)
	assert.InDelta(t, 1.0, high, 1e-12)

	bass, mid, high = BandEnergies(nil)
	assert.Zero(t, bass)
	assert.Zero(t, mid)
	assert.Zero(t, high)
}

func TestAmplitude(t *testing.T) {
	// Flat at the 128 midpoint is silence
	silent := make([]byte, 256)
	for i := range silent {
		silent[i] = 128
	}
	assert.InDelta(t, 0.0, Amplitude(silent), 1e-12)

	// A full-scale square wave clips the boosted RMS at 1
	square := make([]byte, 256)
	for i := range square {
		if i%2 == 0 {
			square[i] = 255
		}
	}
	assert.InDelta(t, 1.0, Amplitude(square), 1e-12)

	assert.Zero(t, Amplitude(nil))
}

func TestSilentSnapshot(t *testing.T) {
	snap := SilentSnapshot()

	assert.Len(t, snap.Frequency, dsp.NumBins)
	assert.Len(t, snap.Waveform, dsp.WindowSize)
	for _, b := range snap.Frequency {
		assert.Zero(t, b)
	}
	for _, b := range snap.Waveform {
		assert.EqualValues(t, 128, b)
	}
	assert.Zero(t, snap.Amplitude)
	assert.False(t, snap.IsBeat)

	// Buffers are fresh per call, never shared
	a, b := SilentSnapshot(), SilentSnapshot()
	a.Frequency[0] = 77
	assert.Zero(t, b.Frequency[0])
}
