// Package audio implements the audio-reactive data pipeline: media decode,
// transport, and per-frame snapshot computation over a spectral source.
package audio

import (
	"math"

	"github.com/Ajinqya/sketchloop/internal/audio/dsp"
	"github.com/Ajinqya/sketchloop/internal/domain"
)

// Band partition ratios. Bins are split by index ratio, not absolute
// frequency: the first 5% count as bass, the next 25% as mids, the remaining
// 70% as highs. This is an approximation that assumes a ~44.1 kHz source;
// it is preserved as-is so sketches tuned against it keep their balance.
const (
	bassRatio = 0.05
	midRatio  = 0.30
)

// amplitudeGain is an empirical boost applied to the waveform RMS so typical
// program material reaches the upper end of [0, 1].
const amplitudeGain = 2.0

// BandEnergies computes normalized bass, mid and high energies from byte
// frequency bins. Each band is the mean raw magnitude over its slice of
// bins, divided by 255.
func BandEnergies(bins []byte) (bass, mid, high float64) {
	n := len(bins)
	if n == 0 {
		return 0, 0, 0
	}

	bassEnd := int(float64(n) * bassRatio)
	if bassEnd < 1 {
		bassEnd = 1
	}
	midEnd := int(float64(n) * midRatio)
	if midEnd <= bassEnd {
		midEnd = bassEnd + 1
	}
	if midEnd > n {
		midEnd = n
	}

	return mean(bins[:bassEnd]) / 255, mean(bins[bassEnd:midEnd]) / 255, mean(bins[midEnd:]) / 255
}

// Amplitude computes the overall level of a byte waveform: the RMS of the
// samples mapped from [0, 255] to [-1, 1], boosted by an empirical gain of 2
// and clamped to 1.
func Amplitude(wave []byte) float64 {
	if len(wave) == 0 {
		return 0
	}

	var sumSq float64
	for _, b := range wave {
		s := (float64(b) - 128) / 128
		sumSq += s * s
	}
	rms := math.Sqrt(sumSq / float64(len(wave)))

	a := rms * amplitudeGain
	if a > 1 {
		return 1
	}
	return a
}

// SilentSnapshot returns the well-defined default snapshot: all bins zero,
// waveform flat at 128, no beat. Returned buffers are freshly allocated so
// callers can never observe stale pipeline data through it.
func SilentSnapshot() domain.AudioSnapshot {
	wave := make([]byte, dsp.WindowSize)
	for i := range wave {
		wave[i] = 128
	}
	return domain.AudioSnapshot{
		Frequency: make([]byte, dsp.NumBins),
		Waveform:  wave,
	}
}

func mean(bs []byte) float64 {
	if len(bs) == 0 {
		return 0
	}
	var sum float64
	for _, b := range bs {
		sum += float64(b)
	}
	return sum / float64(len(bs))
}
