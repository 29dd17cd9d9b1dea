// Package player implements the playback clock and frame scheduler that
// drives a single sketch instance: it owns the drawing surface, advances the
// loop time, throttles ticks to the sketch's frame rate and keeps an
// attached audio pipeline in lock-step with the transport.
package player

import (
	"context"
	"image"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/Ajinqya/sketchloop/internal/audio/synth"
	"github.com/Ajinqya/sketchloop/internal/domain"
	"github.com/Ajinqya/sketchloop/internal/ports"
	"github.com/Ajinqya/sketchloop/internal/sketch"
)

// SurfaceFactory creates the drawing surface for a player. The default uses
// gg; tests substitute a failing factory to exercise construction errors.
type SurfaceFactory func(width, height int) (*gg.Context, error)

func defaultSurfaceFactory(width, height int) (*gg.Context, error) {
	return gg.NewContext(width, height), nil
}

// Option configures a Player at construction.
type Option func(*Player)

// WithPixelScale sets the device pixel scale factor. The surface is
// allocated at scaled size and sketches keep drawing in logical units.
func WithPixelScale(scale float64) Option {
	return func(p *Player) {
		if scale > 0 {
			p.pixels = scale
		}
	}
}

// WithSurfaceFactory replaces the surface factory (for testing).
func WithSurfaceFactory(f SurfaceFactory) Option {
	return func(p *Player) {
		p.surfaces = f
	}
}

// Player runs one sketch instance. All operations are thread-safe; the
// frame clock delivers ticks serially, so Render never runs concurrently
// with itself or with any operation.
//
// A panic inside the sketch's Render propagates to the clock goroutine and
// halts the loop. Sketches are trusted code; masking their bugs by
// recovering would only hide the stack that matters.
type Player struct {
	// Dependencies (injected)
	logger   *slog.Logger
	bus      ports.EventBus
	clock    ports.FrameClock
	pipeline ports.AudioPipeline

	// Fixed at construction
	desc     sketch.Descriptor
	pixels   float64
	surfaces SurfaceFactory
	canvas   *gg.Context
	gen      *synth.Generator

	// Concurrency control
	mu sync.Mutex

	// Clock state
	playing      bool
	startRef     time.Time
	pausedAt     float64
	currentTime  float64
	currentFrame int
	lastTick     time.Time
	ticked       bool
	pending      ports.FrameRequestID

	// Sketch instance state
	setupDone bool
	state     sketch.State
	params    map[string]float64
	snapshot  domain.AudioSnapshot
	destroyed bool
}

// New creates a player for the given descriptor. The descriptor must be
// normalized (come from a Registry). Construction acquires the drawing
// surface immediately and fails with a ConstructionError when the target
// dimensions are invalid or the surface factory errors.
func New(
	logger *slog.Logger,
	bus ports.EventBus,
	clock ports.FrameClock,
	pipeline ports.AudioPipeline,
	desc sketch.Descriptor,
	opts ...Option,
) (*Player, error) {
	p := &Player{
		logger:   logger,
		bus:      bus,
		clock:    clock,
		pipeline: pipeline,
		desc:     desc,
		pixels:   1,
		surfaces: defaultSurfaceFactory,
		gen:      synth.NewGenerator(),
		params:   make(map[string]float64, len(desc.ParamDefaults)),
	}
	for _, opt := range opts {
		opt(p)
	}
	for k, v := range desc.ParamDefaults {
		p.params[k] = v
	}

	w := int(float64(desc.Width) * p.pixels)
	h := int(float64(desc.Height) * p.pixels)
	if w <= 0 || h <= 0 {
		return nil, domain.NewConstructionError(desc.ID,
			"surface dimensions must be positive", domain.ErrNoSurface)
	}

	canvas, err := p.surfaces(w, h)
	if err != nil || canvas == nil {
		return nil, domain.NewConstructionError(desc.ID,
			"failed to acquire drawing surface", domain.ErrNoSurface)
	}
	canvas.Scale(p.pixels, p.pixels)
	p.canvas = canvas

	logger.Debug("player created",
		slog.String("sketch", desc.ID),
		slog.Int("width", w),
		slog.Int("height", h),
		slog.Float64("pixels", p.pixels))

	return p, nil
}

// Play starts or resumes the loop. Resuming continues exactly where Pause
// left off. No-op while already playing.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return domain.ErrDestroyed
	}
	if p.playing {
		return nil
	}

	p.startRef = p.clock.Now().Add(-secondsToDuration(p.pausedAt))
	p.playing = true
	p.ticked = false
	p.pending = p.clock.Request(p.tick)

	if p.pipeline.IsLoaded() {
		if err := p.pipeline.Play(); err != nil {
			p.logger.Warn("audio play failed", slog.Any("error", err))
		}
	}

	p.bus.Publish(domain.NewPlaybackStartedEvent(p.stateLocked()))
	return nil
}

// Pause freezes the loop, preserving the position. No-op while paused.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return domain.ErrDestroyed
	}
	if !p.playing {
		return nil
	}

	p.pausedAt = p.wrappedTimeLocked(p.clock.Now())
	p.currentTime = p.pausedAt
	p.playing = false
	p.cancelPendingLocked()

	if p.pipeline.IsLoaded() {
		if err := p.pipeline.Pause(); err != nil {
			p.logger.Warn("audio pause failed", slog.Any("error", err))
		}
	}

	p.bus.Publish(domain.NewPlaybackPausedEvent(p.stateLocked()))
	return nil
}

// Toggle switches between playing and paused.
func (p *Player) Toggle() error {
	p.mu.Lock()
	playing := p.playing
	p.mu.Unlock()

	if playing {
		return p.Pause()
	}
	return p.Play()
}

// Seek jumps to the requested time in seconds, clamped to the valid range,
// and renders the new position immediately, even while paused.
func (p *Player) Seek(t float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return domain.ErrDestroyed
	}

	requested := t
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	if !p.desc.Infinite() {
		if d := p.desc.Duration.Seconds(); t > d {
			t = d
		}
	}

	p.pausedAt = t
	p.currentTime = t
	p.currentFrame = int(math.Floor(t * p.desc.FPS))
	p.startRef = p.clock.Now().Add(-secondsToDuration(t))

	if p.pipeline.IsLoaded() {
		if err := p.pipeline.Seek(secondsToDuration(t)); err != nil {
			p.logger.Warn("audio seek failed", slog.Any("error", err))
		}
	}

	p.renderLocked(0)
	p.bus.Publish(domain.NewSeekedEvent(requested, p.stateLocked()))
	return nil
}

// Restart rewinds to time zero. The play state is preserved.
func (p *Player) Restart() error {
	return p.Seek(0)
}

// SetParams merges parameter overrides. The frame clock serializes ticks
// against this, so sketches never observe a half-applied update.
func (p *Player) SetParams(params map[string]float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return domain.ErrDestroyed
	}

	for k, v := range params {
		p.params[k] = v
	}

	p.bus.Publish(domain.NewParamsChangedEvent(params))
	return nil
}

// LoadAudio attaches a media source and brings it into lock-step with the
// current transport position and play state.
func (p *Player) LoadAudio(ctx context.Context, path string) error {
	if err := p.pipeline.Load(ctx, path); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		p.pipeline.Detach()
		return domain.ErrDestroyed
	}

	if err := p.pipeline.Seek(secondsToDuration(p.currentTime)); err != nil {
		p.logger.Warn("audio seek failed", slog.Any("error", err))
	}
	if p.playing {
		if err := p.pipeline.Play(); err != nil {
			p.logger.Warn("audio play failed", slog.Any("error", err))
		}
	}
	return nil
}

// DetachAudio releases the attached media source. Rendering falls back to
// synthetic audio data on the next tick.
func (p *Player) DetachAudio() {
	p.pipeline.Detach()
}

// State returns a snapshot of the playback state.
func (p *Player) State() domain.PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// Image returns the current contents of the drawing surface. The returned
// image aliases the surface; hosts copy what they need to keep.
func (p *Player) Image() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canvas.Image()
}

// Descriptor returns the sketch this player runs.
func (p *Player) Descriptor() sketch.Descriptor {
	return p.desc
}

// Destroy stops scheduling, detaches audio and marks the player unusable.
// Idempotent. The frame clock itself is shared and stays running.
func (p *Player) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return
	}

	p.destroyed = true
	p.playing = false
	p.cancelPendingLocked()
	p.pipeline.Detach()

	p.logger.Debug("player destroyed", slog.String("sketch", p.desc.ID))
	p.bus.Publish(domain.NewPlayerDestroyedEvent(p.desc.ID))
}

// tick is the frame callback. It enforces the frame budget, advances the
// wrapped loop time and renders.
func (p *Player) tick(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed || !p.playing {
		return
	}

	// Frame budget: drop ticks arriving faster than the sketch's rate,
	// only rescheduling. The host clock usually runs faster than any
	// single sketch wants.
	if p.ticked && now.Sub(p.lastTick).Seconds() < 1/p.desc.FPS {
		p.pending = p.clock.Request(p.tick)
		return
	}

	delta := 0.0
	if p.ticked {
		delta = now.Sub(p.lastTick).Seconds()
	}
	p.lastTick = now
	p.ticked = true

	p.advanceLocked(now)
	p.renderLocked(delta)

	p.pending = p.clock.Request(p.tick)
}

// advanceLocked computes the wrapped loop time for now and updates the
// clock state. Caller must hold mu.
func (p *Player) advanceLocked(now time.Time) {
	t := now.Sub(p.startRef).Seconds()
	if t < 0 {
		t = 0
	}

	cycles := 0
	if !p.desc.Infinite() {
		d := p.desc.Duration.Seconds()
		if t >= d {
			// Shift the start reference forward by the whole elapsed
			// loops instead of accumulating a growing modulo, so float
			// error stays bounded no matter how long the loop runs.
			cycles = int(t / d)
			p.startRef = p.startRef.Add(secondsToDuration(float64(cycles) * d))
			t = now.Sub(p.startRef).Seconds()
			if t < 0 {
				t = 0
			}
		}
	}

	p.currentTime = t
	p.currentFrame = int(math.Floor(t * p.desc.FPS))

	if cycles > 0 {
		if p.pipeline.IsLoaded() {
			if err := p.pipeline.Seek(secondsToDuration(t)); err != nil {
				p.logger.Warn("audio seek failed", slog.Any("error", err))
			}
		}
		p.bus.Publish(domain.NewLoopedEvent(cycles, p.stateLocked()))
	}
}

// wrappedTimeLocked returns the loop time for now without mutating state.
// Caller must hold mu.
func (p *Player) wrappedTimeLocked(now time.Time) float64 {
	t := now.Sub(p.startRef).Seconds()
	if t < 0 {
		return 0
	}
	if !p.desc.Infinite() {
		d := p.desc.Duration.Seconds()
		if t >= d {
			t = math.Mod(t, d)
		}
	}
	return t
}

// renderLocked clears the surface, builds the context for the current
// state and invokes the sketch. Caller must hold mu.
func (p *Player) renderLocked(delta float64) {
	p.canvas.Push()
	defer p.canvas.Pop()

	p.canvas.ClearWithColor(gg.FromColor(p.desc.Background))

	ctx := sketch.Context{
		Width:    p.desc.Width,
		Height:   p.desc.Height,
		Progress: domain.ProgressAt(p.currentTime, p.desc.Duration.Seconds()),
		Canvas:   p.canvas,
	}

	if p.desc.Shape == sketch.ShapeFull {
		if p.pipeline.IsLoaded() {
			p.snapshot = p.pipeline.Data()
		} else {
			p.snapshot = p.gen.At(p.currentTime)
		}

		ctx.Time = p.currentTime
		ctx.Delta = delta
		ctx.Pixels = p.pixels
		ctx.Params = p.params
		ctx.Frame = p.currentFrame
		ctx.Audio = &p.snapshot
	}

	if !p.setupDone {
		if p.desc.Setup != nil {
			p.state = p.desc.Setup(&ctx)
		}
		p.setupDone = true
	}
	ctx.State = p.state

	p.desc.Render(&ctx)

	p.bus.Publish(domain.NewFrameRenderedEvent(p.currentFrame, p.currentTime))
}

// cancelPendingLocked cancels the scheduled frame, if any. Caller must
// hold mu.
func (p *Player) cancelPendingLocked() {
	if p.pending != ports.InvalidFrameRequest {
		p.clock.Cancel(p.pending)
		p.pending = ports.InvalidFrameRequest
	}
}

// stateLocked builds the observable playback state. Caller must hold mu.
func (p *Player) stateLocked() domain.PlaybackState {
	d := 0.0
	if !p.desc.Infinite() {
		d = p.desc.Duration.Seconds()
	}
	return domain.PlaybackState{
		Playing:  p.playing,
		Time:     p.currentTime,
		Frame:    p.currentFrame,
		Duration: d,
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
