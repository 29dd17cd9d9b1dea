package ports

import (
	"context"
	"time"

	"github.com/Ajinqya/sketchloop/internal/domain"
)

// AudioPipeline is the interface for the audio-reactive data source driven in
// lock-step with the playback clock. One concrete implementation decodes real
// media; tests use a scripted one.
//
// The player calls Data exactly once per render tick, always from the tick
// itself, so implementations may reuse fixed-size buffers between calls
// instead of allocating.
type AudioPipeline interface {
	// Load decodes a media source and attaches it, detaching and releasing
	// any previously attached source first (last call wins). It blocks until
	// the source is ready or has failed; a failure returns an
	// *domain.AudioLoadError and leaves the pipeline unloaded with no other
	// side effects.
	Load(ctx context.Context, path string) error

	// Play starts or resumes media playback. No-op while already playing.
	Play() error

	// Pause freezes media playback, preserving the position.
	Pause() error

	// Seek moves the media position. Out-of-range values are clamped.
	Seek(position time.Duration) error

	// Position returns the current media position.
	Position() time.Duration

	// Duration returns the total length of the loaded media, 0 when nothing
	// is loaded.
	Duration() time.Duration

	// IsPlaying reports whether media playback is advancing.
	IsPlaying() bool

	// IsLoaded reports whether a decoded source is attached.
	IsLoaded() bool

	// Data computes a fresh AudioSnapshot for the current position.
	// The snapshot's slices alias pipeline-owned buffers and are valid until
	// the next Data call. After Close, Data returns a silent default.
	Data() domain.AudioSnapshot

	// Detach releases the attached source without closing the pipeline,
	// returning it to the unloaded state. No-op when nothing is loaded.
	Detach()

	// Close releases the decoded source and all buffers. Idempotent, and
	// safe to call while a Load is in flight: a Load completing afterwards
	// becomes a no-op.
	Close() error
}

// SpectralSource is the platform boundary for the real-time frequency
// transform. Implementations keep the reference semantics of a 256-sample
// analysis window with an exponential smoothing constant of 0.8.
//
// Both methods return buffers owned by the source, overwritten in place on
// every Analyze call.
type SpectralSource interface {
	// Analyze recomputes the transform for the given playhead position.
	Analyze(position time.Duration)

	// FrequencyBins returns byte magnitudes per bin, low to high.
	FrequencyBins() []byte

	// Waveform returns byte time-domain samples, 128 meaning silence.
	Waveform() []byte
}
