package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajinqya/sketchloop/internal/adapter/eventbus"
	"github.com/Ajinqya/sketchloop/internal/audio/dsp"
	"github.com/Ajinqya/sketchloop/internal/domain"
	"github.com/Ajinqya/sketchloop/internal/logger"
)

const wavRate = 8000

// writeTestWAV writes a mono 16-bit PCM file with a 440 Hz sine and returns
// its path.
func writeTestWAV(t *testing.T, name string, seconds float64) string {
	t.Helper()

	n := int(seconds * wavRate)
	data := make([]int16, n)
	for i := range data {
		data[i] = int16(20000 * math.Sin(2*math.Pi*440*float64(i)/wavRate))
	}

	var body bytes.Buffer
	require.NoError(t, binary.Write(&body, binary.LittleEndian, data))

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(36+body.Len())))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(16)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(1))) // PCM
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(1))) // mono
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(wavRate)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(wavRate*2))) // byte rate
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(2)))         // block align
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(16)))        // bits

	buf.WriteString("data")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(body.Len())))
	buf.Write(body.Bytes())

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func newTestPipeline() (*Pipeline, *eventbus.SyncEventBus, *fakeClock) {
	bus := eventbus.NewSyncEventBus()
	p := NewPipeline(logger.NewTestLogger(), bus)
	clock := newFakeClock()
	p.now = clock.Now
	return p, bus, clock
}

func TestPipeline_Load(t *testing.T) {
	p, bus, _ := newTestPipeline()
	defer func() { _ = p.Close() }()

	var loaded domain.AudioLoadedEvent
	bus.Subscribe(domain.EventAudioLoaded, func(e domain.Event) {
		loaded = e.(domain.AudioLoadedEvent)
	})

	path := writeTestWAV(t, "tone.wav", 0.5)
	require.NoError(t, p.Load(context.Background(), path))

	assert.True(t, p.IsLoaded())
	assert.False(t, p.IsPlaying())
	assert.InDelta(t, 0.5, p.Duration().Seconds(), 0.01)

	assert.Equal(t, path, loaded.Info.Path)
	assert.Equal(t, wavRate, loaded.Info.SampleRate)
}

func TestPipeline_LoadMissingFile(t *testing.T) {
	p, bus, _ := newTestPipeline()
	defer func() { _ = p.Close() }()

	var failed domain.AudioLoadFailedEvent
	bus.Subscribe(domain.EventAudioLoadFailed, func(e domain.Event) {
		failed = e.(domain.AudioLoadFailedEvent)
	})

	err := p.Load(context.Background(), "/does/not/exist.wav")
	require.Error(t, err)

	var le *domain.AudioLoadError
	assert.True(t, errors.As(err, &le))
	assert.False(t, p.IsLoaded())
	assert.Equal(t, "/does/not/exist.wav", failed.Path)
}

func TestPipeline_LoadUnsupportedFormat(t *testing.T) {
	p, _, _ := newTestPipeline()
	defer func() { _ = p.Close() }()

	path := filepath.Join(t.TempDir(), "readme.txt")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o600))

	err := p.Load(context.Background(), path)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
	assert.False(t, p.IsLoaded())
}

func TestPipeline_LoadDetachesPrevious(t *testing.T) {
	p, bus, _ := newTestPipeline()
	defer func() { _ = p.Close() }()

	var detached []string
	bus.Subscribe(domain.EventAudioDetached, func(e domain.Event) {
		detached = append(detached, e.(domain.AudioDetachedEvent).Path)
	})

	first := writeTestWAV(t, "first.wav", 0.2)
	second := writeTestWAV(t, "second.wav", 0.3)

	require.NoError(t, p.Load(context.Background(), first))
	require.NoError(t, p.Load(context.Background(), second))

	require.Len(t, detached, 1)
	assert.Equal(t, first, detached[0])
	assert.InDelta(t, 0.3, p.Duration().Seconds(), 0.01)
}

func TestPipeline_Transport(t *testing.T) {
	p, _, clock := newTestPipeline()
	defer func() { _ = p.Close() }()

	path := writeTestWAV(t, "tone.wav", 1.0)
	require.NoError(t, p.Load(context.Background(), path))

	// Not playing: the position stands still
	assert.Equal(t, time.Duration(0), p.Position())

	require.NoError(t, p.Play())
	assert.True(t, p.IsPlaying())
	clock.Tick(300 * time.Millisecond)
	assert.InDelta(t, 0.3, p.Position().Seconds(), 1e-9)

	// Pause freezes the position
	require.NoError(t, p.Pause())
	clock.Tick(time.Second)
	assert.InDelta(t, 0.3, p.Position().Seconds(), 1e-9)

	// Resume continues from the frozen position
	require.NoError(t, p.Play())
	clock.Tick(100 * time.Millisecond)
	assert.InDelta(t, 0.4, p.Position().Seconds(), 1e-9)

	// Play while playing is a no-op
	require.NoError(t, p.Play())
	assert.InDelta(t, 0.4, p.Position().Seconds(), 1e-9)

	// The position never runs past the duration
	clock.Tick(10 * time.Second)
	assert.InDelta(t, 1.0, p.Position().Seconds(), 0.01)
}

func TestPipeline_SeekClamps(t *testing.T) {
	p, _, _ := newTestPipeline()
	defer func() { _ = p.Close() }()

	path := writeTestWAV(t, "tone.wav", 1.0)
	require.NoError(t, p.Load(context.Background(), path))

	require.NoError(t, p.Seek(-5*time.Second))
	assert.Equal(t, time.Duration(0), p.Position())

	require.NoError(t, p.Seek(10*time.Second))
	assert.Equal(t, p.Duration(), p.Position())

	require.NoError(t, p.Seek(400*time.Millisecond))
	assert.InDelta(t, 0.4, p.Position().Seconds(), 1e-9)
}

func TestPipeline_TransportRequiresLoad(t *testing.T) {
	p, _, _ := newTestPipeline()
	defer func() { _ = p.Close() }()

	assert.ErrorIs(t, p.Play(), domain.ErrNotLoaded)
	assert.ErrorIs(t, p.Pause(), domain.ErrNotLoaded)
	assert.ErrorIs(t, p.Seek(0), domain.ErrNotLoaded)
	assert.Equal(t, time.Duration(0), p.Position())
	assert.Equal(t, time.Duration(0), p.Duration())
}

func TestPipeline_Data(t *testing.T) {
	p, _, _ := newTestPipeline()
	defer func() { _ = p.Close() }()

	// Unloaded pipelines serve the silent default
	snap := p.Data()
	assert.Len(t, snap.Frequency, dsp.NumBins)
	assert.Zero(t, snap.Amplitude)

	path := writeTestWAV(t, "tone.wav", 0.5)
	require.NoError(t, p.Load(context.Background(), path))
	require.NoError(t, p.Seek(100*time.Millisecond))

	// A loud sine has visible amplitude once smoothing has data
	snap = p.Data()
	assert.Len(t, snap.Frequency, dsp.NumBins)
	assert.Len(t, snap.Waveform, dsp.WindowSize)
	assert.Greater(t, snap.Amplitude, 0.1)
}

func TestPipeline_CloseIsIdempotentAndSilences(t *testing.T) {
	p, _, _ := newTestPipeline()

	path := writeTestWAV(t, "tone.wav", 0.5)
	require.NoError(t, p.Load(context.Background(), path))

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	assert.False(t, p.IsLoaded())

	// Data after Close is the well-defined default, never stale buffers
	snap := p.Data()
	for _, b := range snap.Frequency {
		assert.Zero(t, b)
	}
	for _, b := range snap.Waveform {
		assert.EqualValues(t, 128, b)
	}
}

func TestPipeline_LoadAfterCloseFails(t *testing.T) {
	p, _, _ := newTestPipeline()
	require.NoError(t, p.Close())

	path := writeTestWAV(t, "tone.wav", 0.2)
	assert.ErrorIs(t, p.Load(context.Background(), path), domain.ErrPipelineClosed)
}

func TestPipeline_Detach(t *testing.T) {
	p, bus, _ := newTestPipeline()
	defer func() { _ = p.Close() }()

	var detached int
	bus.Subscribe(domain.EventAudioDetached, func(domain.Event) { detached++ })

	// Detach with nothing loaded is a no-op
	p.Detach()
	assert.Equal(t, 0, detached)

	path := writeTestWAV(t, "tone.wav", 0.2)
	require.NoError(t, p.Load(context.Background(), path))
	p.Detach()

	assert.Equal(t, 1, detached)
	assert.False(t, p.IsLoaded())
	assert.Equal(t, time.Duration(0), p.Duration())
}

func TestPipeline_LoadCancelledContext(t *testing.T) {
	p, _, _ := newTestPipeline()
	defer func() { _ = p.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeTestWAV(t, "tone.wav", 0.2)
	err := p.Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, p.IsLoaded())
}
