package dsp

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 44100

// sineSamples generates seconds of a full-scale sine at freq Hz.
func sineSamples(freq float64, seconds float64) []float64 {
	n := int(seconds * testRate)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / testRate)
	}
	return out
}

func TestAnalyzer_SilenceIsFlat(t *testing.T) {
	a := NewAnalyzer(make([]float64, testRate), testRate)
	a.Analyze(0)

	for _, b := range a.Waveform() {
		assert.EqualValues(t, 128, b)
	}
	for _, b := range a.FrequencyBins() {
		assert.Zero(t, b)
	}
}

func TestAnalyzer_SineConcentratesInOneBin(t *testing.T) {
	// Bin width is rate/WindowSize ≈ 172 Hz; a 1722 Hz tone lands in
	// bin 10.
	freq := 10.0 * testRate / WindowSize
	a := NewAnalyzer(sineSamples(freq, 1), testRate)

	// Let the exponential smoothing converge
	for i := 0; i < 50; i++ {
		a.Analyze(0)
	}

	bins := a.FrequencyBins()
	peak := 0
	for k := range bins {
		if bins[k] > bins[peak] {
			peak = k
		}
	}
	assert.Equal(t, 10, peak)
	assert.Greater(t, bins[10], byte(100))

	// Far-away bins stay near the floor
	assert.Less(t, bins[60], bins[10])
}

func TestAnalyzer_WaveformTracksSamples(t *testing.T) {
	samples := make([]float64, WindowSize)
	samples[0] = 1
	samples[1] = -1

	a := NewAnalyzer(samples, testRate)
	a.Analyze(0)

	wave := a.Waveform()
	assert.EqualValues(t, 255, wave[0])
	assert.EqualValues(t, 0, wave[1])
	assert.EqualValues(t, 128, wave[2])
}

func TestAnalyzer_PastEndAnalyzesSilence(t *testing.T) {
	a := NewAnalyzer(sineSamples(440, 0.1), testRate)
	a.Analyze(time.Hour)

	for _, b := range a.Waveform() {
		assert.EqualValues(t, 128, b)
	}
}

func TestAnalyzer_SmoothingDecaysAfterSignalStops(t *testing.T) {
	// Half a window of loud signal followed by silence
	samples := sineSamples(1000, 0.5)
	a := NewAnalyzer(samples, testRate)

	for i := 0; i < 20; i++ {
		a.Analyze(0)
	}
	loud := append([]byte(nil), a.FrequencyBins()...)

	sum := func(bs []byte) (total int) {
		for _, b := range bs {
			total += int(b)
		}
		return total
	}
	require.Positive(t, sum(loud))

	// Analyzing past the end sees silence; smoothing makes the bins decay
	// instead of dropping to zero at once
	a.Analyze(time.Hour)
	after := a.FrequencyBins()
	assert.LessOrEqual(t, sum(after), sum(loud))

	for i := 0; i < 200; i++ {
		a.Analyze(time.Hour)
	}
	assert.Zero(t, sum(a.FrequencyBins()))
}

func TestAnalyzer_BuffersAreStable(t *testing.T) {
	a := NewAnalyzer(sineSamples(440, 0.1), testRate)

	bins := a.FrequencyBins()
	wave := a.Waveform()
	a.Analyze(0)

	// The accessors alias fixed internal buffers
	assert.Equal(t, &bins[0], &a.FrequencyBins()[0])
	assert.Equal(t, &wave[0], &a.Waveform()[0])
	assert.Len(t, bins, NumBins)
	assert.Len(t, wave, WindowSize)
}
