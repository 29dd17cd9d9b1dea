// Package domain contains core models for the sketchloop playback engine.
// It has no external dependencies; everything here is plain data shared by
// the scheduler, the audio pipeline and their observers.
package domain

import (
	"time"
)

// AudioSnapshot is the audio-reactive data bundle handed to a sketch on every
// rendered frame. It is recomputed in full on each Data() call of the audio
// pipeline; nothing is diffed or accumulated between calls.
//
// Frequency and Waveform alias buffers owned by whoever produced the
// snapshot. They are valid until the next Data() call and must not be
// retained across frames.
type AudioSnapshot struct {
	// Frequency holds byte magnitudes for each frequency bin, low to high.
	Frequency []byte

	// Waveform holds byte time-domain samples where 128 means silence.
	Waveform []byte

	// Amplitude is the overall signal level in [0, 1].
	Amplitude float64

	// Bass, Mid and High are normalized band energies in [0, 1].
	Bass float64
	Mid  float64
	High float64

	// IsBeat is true when the onset detector fired for this snapshot.
	IsBeat bool
}

// PlaybackState is a point-in-time snapshot of the playback clock, exposed to
// observers such as a scrub bar. The player owns the live clock; this struct
// is a copy and mutating it has no effect.
type PlaybackState struct {
	// Playing is true while the clock advances.
	Playing bool

	// Time is the current playback position in seconds within one loop cycle.
	Time float64

	// Frame is the current logical frame index, floor(Time * FPS).
	Frame int

	// Duration is the loop length in seconds, 0 for infinite content.
	Duration float64
}

// Progress returns the normalized position within one loop cycle.
func (s PlaybackState) Progress() float64 {
	return ProgressAt(s.Time, s.Duration)
}

// ProgressAt computes the loop progress for a position and duration, both in
// seconds. Finite content ramps 0..1 over the loop and saturates at 1;
// infinite content (duration <= 0) repeats a 0..1 ramp every second so that
// endless sketches still receive a periodic signal.
func ProgressAt(t, duration float64) float64 {
	if duration > 0 {
		p := t / duration
		if p > 1 {
			return 1
		}
		return p
	}
	return t - float64(int64(t))
}

// MediaInfo describes a loaded audio source. Fields come from container
// metadata where available and are informational only.
type MediaInfo struct {
	// Path is the filesystem path the source was loaded from.
	Path string

	// Title and Artist come from embedded tags, empty when absent.
	Title  string
	Artist string

	// SampleRate is the decoded sample rate in Hz.
	SampleRate int

	// Duration is the total decoded length.
	Duration time.Duration
}
