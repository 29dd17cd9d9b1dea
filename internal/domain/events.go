// Package domain defines events for the event-driven architecture.
// The player and the audio pipeline publish these instead of invoking
// callbacks, keeping observers (UI, logging) loosely coupled.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback clock events
	EventPlaybackStarted EventType = "playback.started"
	EventPlaybackPaused  EventType = "playback.paused"
	EventSeeked          EventType = "playback.seeked"
	EventLooped          EventType = "playback.looped"
	EventFrameRendered   EventType = "playback.frame"
	EventPlayerDestroyed EventType = "playback.destroyed"
	EventParamsChanged   EventType = "playback.params"

	// Audio pipeline events
	EventAudioLoaded     EventType = "audio.loaded"
	EventAudioLoadFailed EventType = "audio.load_failed"
	EventAudioDetached   EventType = "audio.detached"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// PlaybackStartedEvent is published when the clock starts or resumes.
type PlaybackStartedEvent struct {
	baseEvent
	State PlaybackState
}

// Type returns the event type.
func (e PlaybackStartedEvent) Type() EventType {
	return EventPlaybackStarted
}

// NewPlaybackStartedEvent creates a new PlaybackStartedEvent.
func NewPlaybackStartedEvent(state PlaybackState) PlaybackStartedEvent {
	return PlaybackStartedEvent{
		baseEvent: newBaseEvent(),
		State:     state,
	}
}

// PlaybackPausedEvent is published when the clock freezes.
type PlaybackPausedEvent struct {
	baseEvent
	State PlaybackState
}

// Type returns the event type.
func (e PlaybackPausedEvent) Type() EventType {
	return EventPlaybackPaused
}

// NewPlaybackPausedEvent creates a new PlaybackPausedEvent.
func NewPlaybackPausedEvent(state PlaybackState) PlaybackPausedEvent {
	return PlaybackPausedEvent{
		baseEvent: newBaseEvent(),
		State:     state,
	}
}

// SeekedEvent is published after a seek, including the immediate synchronous
// render that accompanies it.
type SeekedEvent struct {
	baseEvent
	Requested float64 // Seconds asked for, before clamping
	State     PlaybackState
}

// Type returns the event type.
func (e SeekedEvent) Type() EventType {
	return EventSeeked
}

// NewSeekedEvent creates a new SeekedEvent.
func NewSeekedEvent(requested float64, state PlaybackState) SeekedEvent {
	return SeekedEvent{
		baseEvent: newBaseEvent(),
		Requested: requested,
		State:     state,
	}
}

// LoopedEvent is published when finite-duration content wraps back to the
// start of its cycle.
type LoopedEvent struct {
	baseEvent
	Cycles int // Whole loops completed by this wrap
	State  PlaybackState
}

// Type returns the event type.
func (e LoopedEvent) Type() EventType {
	return EventLooped
}

// NewLoopedEvent creates a new LoopedEvent.
func NewLoopedEvent(cycles int, state PlaybackState) LoopedEvent {
	return LoopedEvent{
		baseEvent: newBaseEvent(),
		Cycles:    cycles,
		State:     state,
	}
}

// FrameRenderedEvent is published after every rendered frame, so a scrub bar
// can follow the clock without polling.
type FrameRenderedEvent struct {
	baseEvent
	Frame int
	Time  float64 // Seconds within the current loop cycle
}

// Type returns the event type.
func (e FrameRenderedEvent) Type() EventType {
	return EventFrameRendered
}

// NewFrameRenderedEvent creates a new FrameRenderedEvent.
func NewFrameRenderedEvent(frame int, t float64) FrameRenderedEvent {
	return FrameRenderedEvent{
		baseEvent: newBaseEvent(),
		Frame:     frame,
		Time:      t,
	}
}

// PlayerDestroyedEvent is published once when a player is torn down.
type PlayerDestroyedEvent struct {
	baseEvent
	Sketch string
}

// Type returns the event type.
func (e PlayerDestroyedEvent) Type() EventType {
	return EventPlayerDestroyed
}

// NewPlayerDestroyedEvent creates a new PlayerDestroyedEvent.
func NewPlayerDestroyedEvent(sketch string) PlayerDestroyedEvent {
	return PlayerDestroyedEvent{
		baseEvent: newBaseEvent(),
		Sketch:    sketch,
	}
}

// ParamsChangedEvent is published when sketch parameters are replaced between
// ticks.
type ParamsChangedEvent struct {
	baseEvent
	Params map[string]float64
}

// Type returns the event type.
func (e ParamsChangedEvent) Type() EventType {
	return EventParamsChanged
}

// NewParamsChangedEvent creates a new ParamsChangedEvent.
func NewParamsChangedEvent(params map[string]float64) ParamsChangedEvent {
	return ParamsChangedEvent{
		baseEvent: newBaseEvent(),
		Params:    params,
	}
}

// AudioLoadedEvent is published when a media source finished decoding and is
// ready for playback.
type AudioLoadedEvent struct {
	baseEvent
	Info MediaInfo
}

// Type returns the event type.
func (e AudioLoadedEvent) Type() EventType {
	return EventAudioLoaded
}

// NewAudioLoadedEvent creates a new AudioLoadedEvent.
func NewAudioLoadedEvent(info MediaInfo) AudioLoadedEvent {
	return AudioLoadedEvent{
		baseEvent: newBaseEvent(),
		Info:      info,
	}
}

// AudioLoadFailedEvent is published when a media source failed to decode.
// The pipeline stays unloaded; the player keeps running on synthetic data.
type AudioLoadFailedEvent struct {
	baseEvent
	Path  string
	Error error
}

// Type returns the event type.
func (e AudioLoadFailedEvent) Type() EventType {
	return EventAudioLoadFailed
}

// NewAudioLoadFailedEvent creates a new AudioLoadFailedEvent.
func NewAudioLoadFailedEvent(path string, err error) AudioLoadFailedEvent {
	return AudioLoadFailedEvent{
		baseEvent: newBaseEvent(),
		Path:      path,
		Error:     err,
	}
}

// AudioDetachedEvent is published when the current media source is released,
// either explicitly or because a new Load replaced it.
type AudioDetachedEvent struct {
	baseEvent
	Path string
}

// Type returns the event type.
func (e AudioDetachedEvent) Type() EventType {
	return EventAudioDetached
}

// NewAudioDetachedEvent creates a new AudioDetachedEvent.
func NewAudioDetachedEvent(path string) AudioDetachedEvent {
	return AudioDetachedEvent{
		baseEvent: newBaseEvent(),
		Path:      path,
	}
}
