// Package frameclock provides implementations of the FrameClock interface,
// the host per-frame scheduling primitive the player runs on.
package frameclock

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Ajinqya/sketchloop/internal/ports"
)

// DefaultRefreshRate is the simulated host refresh rate in Hz. It is
// deliberately above common sketch rates so the player's own frame-budget
// throttle decides the logical frame rate, not the host.
const DefaultRefreshRate = 120

// Ticker is a FrameClock driven by a time.Ticker on a dedicated goroutine.
// Callbacks run on that goroutine, one at a time, which gives the player the
// serialized tick ordering it requires.
type Ticker struct {
	logger *slog.Logger

	interval time.Duration

	mu      sync.Mutex
	pending map[ports.FrameRequestID]ports.FrameCallback
	nextID  ports.FrameRequestID
	stopped bool

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewTicker creates and starts a ticker clock at the given refresh rate.
// A rate <= 0 falls back to DefaultRefreshRate.
func NewTicker(refreshRate int) *Ticker {
	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}

	t := &Ticker{
		interval: time.Second / time.Duration(refreshRate),
		pending:  make(map[ports.FrameRequestID]ports.FrameCallback),
		nextID:   1,
		stopCh:   make(chan struct{}),
	}

	t.wg.Add(1)
	go t.run()

	return t
}

// SetLogger sets the logger for this clock.
func (t *Ticker) SetLogger(logger *slog.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = logger
}

// Request schedules cb for the next tick.
func (t *Ticker) Request(cb ports.FrameCallback) ports.FrameRequestID {
	if cb == nil {
		return ports.InvalidFrameRequest
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return ports.InvalidFrameRequest
	}

	id := t.nextID
	t.nextID++
	t.pending[id] = cb

	return id
}

// Cancel drops a pending request.
func (t *Ticker) Cancel(id ports.FrameRequestID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, id)
}

// Now returns the current wall time.
func (t *Ticker) Now() time.Time {
	return time.Now()
}

// Stop shuts the clock down and waits for the tick goroutine to exit.
// Idempotent.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.pending = make(map[ports.FrameRequestID]ports.FrameCallback)
	close(t.stopCh)
	t.mu.Unlock()

	t.wg.Wait()
}

// run delivers ticks until Stop.
func (t *Ticker) run() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return

		case now := <-ticker.C:
			t.fire(now)
		}
	}
}

// fire runs every pending callback exactly once with the tick timestamp.
// Callbacks taken for this tick are removed first, so a callback that
// re-requests (the player always does) lands in the next tick, not this one.
func (t *Ticker) fire(now time.Time) {
	t.mu.Lock()
	if t.stopped || len(t.pending) == 0 {
		t.mu.Unlock()
		return
	}
	batch := t.pending
	t.pending = make(map[ports.FrameRequestID]ports.FrameCallback)
	t.mu.Unlock()

	for _, cb := range batch {
		cb(now)
	}
}

// Verify that Ticker implements the FrameClock interface
var _ ports.FrameClock = (*Ticker)(nil)
