package audio

import (
	"time"
)

// Onset detection parameters. This is a crude beat detector, not a tempo
// tracker: false positives under sustained loud passages are expected.
const (
	// BeatThreshold is the absolute bass energy a beat must exceed.
	BeatThreshold = 0.6

	// BeatRatio is the relative spike over the previous bass energy a beat
	// must exceed.
	BeatRatio = 1.2

	// BeatCooldown is the minimum interval between fired beats.
	BeatCooldown = 150 * time.Millisecond
)

// BeatDetector fires on relative bass-energy spikes. State is two values:
// the previous bass energy and the timestamp of the last fired beat.
type BeatDetector struct {
	prevBass float64
	lastBeat time.Time
	now      func() time.Time
}

// NewBeatDetector creates a detector using the given time source.
// A nil now falls back to wall time.
func NewBeatDetector(now func() time.Time) *BeatDetector {
	if now == nil {
		now = time.Now
	}
	return &BeatDetector{now: now}
}

// Detect reports whether the given bass energy constitutes a beat: it must
// exceed BeatThreshold, exceed the previous energy by BeatRatio, and arrive
// at least BeatCooldown after the last fired beat.
//
// The previous energy is updated on every call, fired or not, so the
// relative comparison tracks the signal rather than the last beat.
func (d *BeatDetector) Detect(bass float64) bool {
	ts := d.now()

	fired := bass > BeatThreshold &&
		bass > d.prevBass*BeatRatio &&
		ts.Sub(d.lastBeat) >= BeatCooldown

	if fired {
		d.lastBeat = ts
	}
	d.prevBass = bass

	return fired
}

// Reset clears the detector state, used when a new source is attached.
func (d *BeatDetector) Reset() {
	d.prevBass = 0
	d.lastBeat = time.Time{}
}
