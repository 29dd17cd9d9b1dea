package frameclock

import (
	"sync"
	"time"

	"github.com/Ajinqya/sketchloop/internal/ports"
)

// Manual is a FrameClock advanced explicitly by the caller. Tests use it to
// drive the player deterministically: Advance moves the simulated time and
// fires whatever callbacks were pending when it was called.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	pending map[ports.FrameRequestID]ports.FrameCallback
	nextID  ports.FrameRequestID
	stopped bool
}

// NewManual creates a manual clock starting at an arbitrary fixed epoch.
func NewManual() *Manual {
	return &Manual{
		now:     time.Unix(1_700_000_000, 0),
		pending: make(map[ports.FrameRequestID]ports.FrameCallback),
		nextID:  1,
	}
}

// Request schedules cb for the next Advance.
func (m *Manual) Request(cb ports.FrameCallback) ports.FrameRequestID {
	if cb == nil {
		return ports.InvalidFrameRequest
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return ports.InvalidFrameRequest
	}

	id := m.nextID
	m.nextID++
	m.pending[id] = cb

	return id
}

// Cancel drops a pending request.
func (m *Manual) Cancel(id ports.FrameRequestID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, id)
}

// Now returns the simulated time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Stop drops all pending requests. Idempotent.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.pending = make(map[ports.FrameRequestID]ports.FrameCallback)
}

// Advance moves the simulated time forward by d and fires the callbacks that
// were pending before the call. Callbacks re-requested during delivery wait
// for the next Advance, mirroring how a real host delivers one frame per
// refresh.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.now = m.now.Add(d)
	now := m.now
	batch := m.pending
	m.pending = make(map[ports.FrameRequestID]ports.FrameCallback)
	m.mu.Unlock()

	for _, cb := range batch {
		cb(now)
	}
}

// PendingCount returns the number of outstanding requests, used by tests to
// assert that Destroy left nothing scheduled.
func (m *Manual) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Verify that Manual implements the FrameClock interface
var _ ports.FrameClock = (*Manual)(nil)
