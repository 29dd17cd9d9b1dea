package audio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Ajinqya/sketchloop/internal/audio/dsp"
	"github.com/Ajinqya/sketchloop/internal/domain"
	"github.com/Ajinqya/sketchloop/internal/ports"
)

// Pipeline wraps a decoded media source and exposes a cheap AudioSnapshot on
// demand, plus the transport the player drives in lock-step with its own
// clock.
//
// Load fully decodes the source before attaching it (last call wins); every
// other operation is non-blocking. Data reuses the spectral source's
// fixed-size buffers, so returned snapshots are valid until the next call.
type Pipeline struct {
	logger *slog.Logger
	bus    ports.EventBus

	// now is the transport time source, replaceable in tests.
	now func() time.Time

	mu         sync.Mutex
	generation uint64 // bumped by every Load and Close; stale completions no-op
	closed     bool
	loaded     bool
	source     ports.SpectralSource
	info       domain.MediaInfo
	duration   time.Duration
	beat       *BeatDetector

	// Transport clock: now - startRef is the position while playing,
	// pausedAt while paused.
	playing  bool
	startRef time.Time
	pausedAt time.Duration
}

// NewPipeline creates an unloaded pipeline. Data on an unloaded pipeline
// returns the silent snapshot; the player falls back to synthetic data
// instead of calling it.
func NewPipeline(logger *slog.Logger, bus ports.EventBus) *Pipeline {
	p := &Pipeline{
		logger: logger,
		bus:    bus,
		now:    time.Now,
	}
	p.beat = NewBeatDetector(func() time.Time { return p.now() })
	return p
}

// Load decodes and attaches a media source, detaching any previous one
// first. It blocks until the source is ready or failed. A failure leaves the
// pipeline unloaded with zero side effects beyond the detach of the old
// source.
//
// Concurrent Loads race by generation: the latest call wins and earlier
// completions return ErrLoadSuperseded without touching state. A Load that
// completes after Close returns ErrPipelineClosed and is likewise a no-op.
func (p *Pipeline) Load(ctx context.Context, path string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return domain.ErrPipelineClosed
	}
	p.generation++
	gen := p.generation
	p.detachLocked()
	p.mu.Unlock()

	p.logger.Debug("loading media", slog.String("path", path))

	dec, err := decodeFile(path)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		p.logger.Debug("media load failed", slog.Any("error", err))
		p.bus.Publish(domain.NewAudioLoadFailedEvent(path, err))
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return domain.ErrPipelineClosed
	}
	if p.generation != gen {
		return domain.ErrLoadSuperseded
	}

	p.source = dsp.NewAnalyzer(dec.samples, dec.rate)
	p.info = dec.info
	p.duration = dec.info.Duration
	p.loaded = true
	p.playing = false
	p.pausedAt = 0
	p.beat.Reset()

	p.logger.Debug("media loaded",
		slog.String("path", path),
		slog.Int("sample_rate", dec.rate),
		slog.Duration("duration", p.duration))

	p.bus.Publish(domain.NewAudioLoadedEvent(p.info))

	return nil
}

// Play starts or resumes media playback. No-op while already playing.
func (p *Pipeline) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return domain.ErrNotLoaded
	}
	if p.playing {
		return nil
	}

	p.startRef = p.now().Add(-p.pausedAt)
	p.playing = true
	return nil
}

// Pause freezes media playback, preserving the position.
func (p *Pipeline) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return domain.ErrNotLoaded
	}
	if !p.playing {
		return nil
	}

	p.pausedAt = p.positionLocked()
	p.playing = false
	return nil
}

// Seek moves the media position, clamping out-of-range values.
func (p *Pipeline) Seek(position time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return domain.ErrNotLoaded
	}

	if position < 0 {
		position = 0
	}
	if position > p.duration {
		position = p.duration
	}

	p.pausedAt = position
	p.startRef = p.now().Add(-position)
	return nil
}

// Position returns the current media position.
func (p *Pipeline) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

// positionLocked computes the position. Caller must hold mu.
func (p *Pipeline) positionLocked() time.Duration {
	if !p.loaded {
		return 0
	}

	pos := p.pausedAt
	if p.playing {
		pos = p.now().Sub(p.startRef)
	}

	if pos < 0 {
		return 0
	}
	if pos > p.duration {
		return p.duration
	}
	return pos
}

// Duration returns the total length of the loaded media.
func (p *Pipeline) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// IsPlaying reports whether media playback is advancing.
func (p *Pipeline) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// IsLoaded reports whether a decoded source is attached.
func (p *Pipeline) IsLoaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Info returns metadata of the loaded source, zero when nothing is loaded.
func (p *Pipeline) Info() domain.MediaInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.info
}

// Data computes a fresh snapshot at the current position. After Close, or
// with nothing loaded, it returns the silent default rather than stale
// buffers.
func (p *Pipeline) Data() domain.AudioSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || !p.loaded {
		return SilentSnapshot()
	}

	p.source.Analyze(p.positionLocked())

	bins := p.source.FrequencyBins()
	wave := p.source.Waveform()
	bass, mid, high := BandEnergies(bins)

	return domain.AudioSnapshot{
		Frequency: bins,
		Waveform:  wave,
		Amplitude: Amplitude(wave),
		Bass:      bass,
		Mid:       mid,
		High:      high,
		IsBeat:    p.beat.Detect(bass),
	}
}

// Detach releases the current source without closing the pipeline, leaving
// it in the unloaded state. No-op when nothing is loaded.
func (p *Pipeline) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.detachLocked()
}

// Close releases all resources. Idempotent, and safe while a Load is in
// flight: the in-flight completion sees the bumped generation and becomes a
// no-op.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	p.generation++
	p.detachLocked()
	return nil
}

// detachLocked releases the attached source. Caller must hold mu.
func (p *Pipeline) detachLocked() {
	if !p.loaded {
		return
	}

	path := p.info.Path
	p.loaded = false
	p.playing = false
	p.pausedAt = 0
	p.duration = 0
	p.source = nil
	p.info = domain.MediaInfo{}
	p.beat.Reset()

	p.bus.Publish(domain.NewAudioDetachedEvent(path))
}

// Verify that Pipeline implements the AudioPipeline interface
var _ ports.AudioPipeline = (*Pipeline)(nil)
