// Package mock provides a mock implementation of the AudioPipeline
// interface. This is used for testing services without decoding real media
// files.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/Ajinqya/sketchloop/internal/audio"
	"github.com/Ajinqya/sketchloop/internal/domain"
	"github.com/Ajinqya/sketchloop/internal/ports"
)

// Pipeline is a mock implementation of the AudioPipeline interface. It
// simulates a decoded media source in memory and serves a scripted snapshot.
//
// Thread-safety: This implementation is thread-safe.
type Pipeline struct {
	mu sync.RWMutex

	// Track state
	loaded   bool
	closed   bool
	path     string
	duration time.Duration
	position time.Duration
	playing  bool

	// Scripted snapshot returned by Data while loaded
	snapshot domain.AudioSnapshot

	// Behavior configuration (for testing error scenarios)
	failLoad bool

	// Call recording
	loadCalls []string
	seekCalls []time.Duration
}

// NewPipeline creates a new mock audio pipeline. Until Load is called it
// behaves as unloaded; Data serves the silent snapshot.
func NewPipeline() *Pipeline {
	return &Pipeline{
		duration: 3 * time.Minute,
		snapshot: audio.SilentSnapshot(),
	}
}

// SetFailLoad configures the mock to fail loading (for testing).
func (m *Pipeline) SetFailLoad(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = fail
}

// SetDuration configures the simulated media length.
func (m *Pipeline) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// SetSnapshot scripts the snapshot Data returns while loaded.
func (m *Pipeline) SetSnapshot(s domain.AudioSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = s
}

// LoadCalls returns the paths passed to Load, in order (for testing).
func (m *Pipeline) LoadCalls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.loadCalls...)
}

// SeekCalls returns the positions passed to Seek, in order (for testing).
func (m *Pipeline) SeekCalls() []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// Load simulates attaching a media source.
func (m *Pipeline) Load(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loadCalls = append(m.loadCalls, path)

	if m.closed {
		return domain.ErrPipelineClosed
	}
	if m.failLoad {
		return domain.NewAudioLoadError("decode", path, domain.ErrUnsupportedFormat)
	}

	m.loaded = true
	m.path = path
	m.position = 0
	m.playing = false
	return nil
}

// Play simulates starting playback.
func (m *Pipeline) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return domain.ErrNotLoaded
	}

	m.playing = true
	return nil
}

// Pause simulates pausing playback.
func (m *Pipeline) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return domain.ErrNotLoaded
	}

	m.playing = false
	return nil
}

// Seek records and clamps the requested position.
func (m *Pipeline) Seek(position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seekCalls = append(m.seekCalls, position)

	if !m.loaded {
		return domain.ErrNotLoaded
	}

	if position < 0 {
		position = 0
	}
	if position > m.duration {
		position = m.duration
	}
	m.position = position
	return nil
}

// Position returns the simulated position. Advance it with
// SimulateProgress.
func (m *Pipeline) Position() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.position
}

// Duration returns the simulated media length.
func (m *Pipeline) Duration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.duration
}

// IsPlaying returns true if simulated playback is advancing.
func (m *Pipeline) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playing
}

// IsLoaded returns true if a simulated source is attached.
func (m *Pipeline) IsLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Data returns the scripted snapshot, or the silent default when unloaded
// or closed.
func (m *Pipeline) Data() domain.AudioSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed || !m.loaded {
		return audio.SilentSnapshot()
	}
	return m.snapshot
}

// Detach simulates releasing the source without closing the pipeline.
func (m *Pipeline) Detach() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = false
	m.playing = false
	m.position = 0
	m.path = ""
}

// Close marks the pipeline closed. Idempotent.
func (m *Pipeline) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.loaded = false
	m.playing = false
	return nil
}

// SimulateProgress advances the simulated position (for testing).
func (m *Pipeline) SimulateProgress(delta time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.position += delta
	if m.position > m.duration {
		m.position = m.duration
		m.playing = false
	}
}

// Verify that Pipeline implements the AudioPipeline interface
var _ ports.AudioPipeline = (*Pipeline)(nil)
