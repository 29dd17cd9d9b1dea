package ports

import (
	"time"
)

// FrameRequestID identifies a pending frame callback request.
type FrameRequestID uint64

// InvalidFrameRequest is the zero request, returned when a request could not
// be scheduled.
const InvalidFrameRequest FrameRequestID = 0

// FrameCallback is invoked with the host timestamp of the frame.
type FrameCallback func(timestamp time.Time)

// FrameClock is the host per-frame scheduling primitive the player runs on,
// the moral equivalent of a display refresh callback. The player requests at
// most one callback at a time and re-requests from inside the callback, so
// implementations never run two callbacks for one player concurrently.
//
// Callbacks for a single clock must be serialized: a callback runs to
// completion before the next fires.
type FrameClock interface {
	// Request schedules cb to run on the next host frame and returns an ID
	// that can cancel it. After Stop, Request returns InvalidFrameRequest
	// and cb never runs.
	Request(cb FrameCallback) FrameRequestID

	// Cancel drops a pending request. Unknown or already fired IDs are
	// no-ops.
	Cancel(id FrameRequestID)

	// Now returns the clock's notion of the current time. Tickers return
	// wall time; manual clocks return their simulated time.
	Now() time.Time

	// Stop shuts the clock down and drops all pending requests. Idempotent.
	Stop()
}
