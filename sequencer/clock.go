package sequencer

import "time"

// Nominal rendering-frame period. Ticks arrive at roughly this cadence but
// the boundary test must stay correct when they are late.
const frameTime = 16670 * time.Microsecond

// lookAhead fires the step slightly before the exact nominal boundary so a
// delayed next tick cannot lag the audible change by more than one frame.
const lookAhead = 2 * frameTime

// transport is the shared step clock for both voices. It exists (anchored)
// only while at least one voice is playing; stopping clears everything but
// the tempo.
type transport struct {
	bpm       float64
	anchor    time.Time
	anchored  bool
	boundary  time.Time // nominal start of the scheduled step
	scheduled bool
}

// stepDuration derives the 16th-note duration from the tempo
func (t *transport) stepDuration() time.Duration {
	return time.Duration(float64(time.Second) * 60.0 / t.bpm / 4.0)
}

// setTempo rejects non-positive values and keeps the previous tempo; a zero
// step duration would stall the boundary test forever.
func (t *transport) setTempo(bpm float64) bool {
	if bpm <= 0 {
		return false
	}
	t.bpm = bpm
	return true
}

// start arms the transport after a stopped period: no anchor carries over
// from the previous session and the very next tick fires a step.
func (t *transport) start() {
	t.anchored = false
	t.boundary = time.Time{}
	t.scheduled = true
}

// reset suspends the clock entirely, keeping only the tempo
func (t *transport) reset() {
	t.anchor = time.Time{}
	t.anchored = false
	t.boundary = time.Time{}
	t.scheduled = false
}

// beginStep consumes the scheduled flag and installs the step's anchor: the
// nominal boundary, or the current tick when the tick arrived late.
func (t *transport) beginStep(now time.Time) {
	if t.boundary.After(now) {
		t.anchor = t.boundary
	} else {
		t.anchor = now
	}
	t.anchored = true
	t.scheduled = false
}

// crossed reports whether this tick is a step boundary. On a boundary the
// next step is scheduled and its nominal start is anchor + stepDuration —
// never the tick timestamp, so jitter does not accumulate as drift.
func (t *transport) crossed(now time.Time) bool {
	if !t.anchored {
		t.anchor = now
		t.anchored = true
	}
	if now.Sub(t.anchor)+lookAhead < t.stepDuration() {
		return false
	}
	t.boundary = t.anchor.Add(t.stepDuration())
	t.scheduled = true
	return true
}
