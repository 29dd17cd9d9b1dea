// Package dsp implements the real-time frequency transform behind the audio
// pipeline. It is the platform-specific half of the spectral boundary: this
// implementation runs gonum's FFT over decoded PCM; a different target could
// supply its own SpectralSource without touching the pipeline.
package dsp

import (
	"math"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/Ajinqya/sketchloop/internal/ports"
)

// Reference analysis parameters. WindowSize and Smoothing are part of the
// snapshot contract: sketches are tuned against 128 bins smoothed at 0.8, so
// alternative SpectralSource implementations must preserve them.
const (
	// WindowSize is the number of samples per analysis window.
	WindowSize = 256

	// NumBins is the number of frequency bins, WindowSize / 2.
	NumBins = WindowSize / 2

	// Smoothing is the exponential smoothing constant applied to linear bin
	// magnitudes between consecutive Analyze calls.
	Smoothing = 0.8

	// minDecibels and maxDecibels bound the dB range mapped onto [0, 255].
	minDecibels = -100.0
	maxDecibels = -30.0
)

// Analyzer computes byte frequency and waveform data from a mono PCM buffer.
// All output buffers are fixed-size and overwritten in place on every
// Analyze call; nothing is allocated after construction.
//
// Not safe for concurrent use. The pipeline only calls it from inside a
// render tick, which is strictly sequential.
type Analyzer struct {
	samples    []float64
	sampleRate int

	fft    *fourier.FFT
	hann   [WindowSize]float64
	frame  [WindowSize]float64
	coeffs []complex128

	smoothed [NumBins]float64
	bins     [NumBins]byte
	wave     [WindowSize]byte
}

// NewAnalyzer creates an analyzer over the given mono samples.
func NewAnalyzer(samples []float64, sampleRate int) *Analyzer {
	a := &Analyzer{
		samples:    samples,
		sampleRate: sampleRate,
		fft:        fourier.NewFFT(WindowSize),
		coeffs:     make([]complex128, WindowSize/2+1),
	}

	for i := range a.hann {
		a.hann[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(WindowSize-1)))
	}

	// Silence maps to byte 128 in the time domain.
	for i := range a.wave {
		a.wave[i] = 128
	}

	return a
}

// Analyze recomputes the transform for the window starting at the playhead.
// Positions past the end of the buffer analyze silence.
func (a *Analyzer) Analyze(position time.Duration) {
	start := int(position.Seconds() * float64(a.sampleRate))
	if start < 0 {
		start = 0
	}

	for i := 0; i < WindowSize; i++ {
		var s float64
		if idx := start + i; idx < len(a.samples) {
			s = a.samples[idx]
		}
		a.wave[i] = sampleToByte(s)
		a.frame[i] = s * a.hann[i]
	}

	a.fft.Coefficients(a.coeffs, a.frame[:])

	for k := 0; k < NumBins; k++ {
		mag := cmplxAbs(a.coeffs[k]) / float64(WindowSize)
		a.smoothed[k] = Smoothing*a.smoothed[k] + (1-Smoothing)*mag
		a.bins[k] = magnitudeToByte(a.smoothed[k])
	}
}

// FrequencyBins returns the byte magnitudes of the last Analyze call.
// The slice aliases an internal buffer overwritten by the next call.
func (a *Analyzer) FrequencyBins() []byte {
	return a.bins[:]
}

// Waveform returns the byte time-domain samples of the last Analyze call.
// The slice aliases an internal buffer overwritten by the next call.
func (a *Analyzer) Waveform() []byte {
	return a.wave[:]
}

// sampleToByte maps a [-1, 1] sample onto [0, 255] with 128 as silence.
func sampleToByte(s float64) byte {
	v := 128 * (1 + s)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// magnitudeToByte maps a linear magnitude onto [0, 255] through the
// [minDecibels, maxDecibels] dB window.
func magnitudeToByte(mag float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return byte(scaled)
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// Verify that Analyzer implements the SpectralSource interface
var _ ports.SpectralSource = (*Analyzer)(nil)
