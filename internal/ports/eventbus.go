// Package ports define interfaces for dependency inversion.
// These interfaces let the playback core stay independent of the concrete
// audio, scheduling and UI libraries behind it.
package ports

import (
	"github.com/Ajinqya/sketchloop/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
// It decouples event producers (the player, the audio pipeline) from
// consumers (host window, logging).
//
// Thread-safety: implementations must be thread-safe; events may be published
// and subscribed from multiple goroutines.
//
// Example usage:
//
//	// In the player: publish an event
//	bus.Publish(domain.NewFrameRenderedEvent(frame, t))
//
//	// In the host window: follow the clock
//	subID := bus.Subscribe(domain.EventFrameRendered, func(event domain.Event) {
//	    e := event.(domain.FrameRenderedEvent)
//	    scrub.SetPosition(e.Time)
//	})
//
//	// Later: unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish delivers an event to all subscribers of its type. Handlers must
	// process events quickly; the player publishes from inside its tick.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// The same handler can be registered multiple times; each subscription
	// gets a unique SubscriptionID.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// An invalid or already removed ID is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives every event regardless
	// of type. Useful for logging and debugging.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers reports whether any subscription exists for the given
	// event type, so publishers can skip building expensive events.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and clears all subscriptions.
	Close() error
}
