package sequencer

import (
	"testing"
	"time"
)

func TestStepDuration(t *testing.T) {
	tr := transport{bpm: 120}
	if got, want := tr.stepDuration(), 125*time.Millisecond; got != want {
		t.Errorf("stepDuration at 120 BPM = %v, want %v", got, want)
	}
}

func TestSetTempoRejectsNonPositive(t *testing.T) {
	tr := transport{bpm: 120}
	if tr.setTempo(0) || tr.setTempo(-30) {
		t.Error("non-positive tempo accepted")
	}
	if tr.bpm != 120 {
		t.Errorf("bpm changed to %v after rejected set", tr.bpm)
	}
	if !tr.setTempo(90) || tr.bpm != 90 {
		t.Errorf("valid tempo not applied, bpm = %v", tr.bpm)
	}
}

func TestCrossedFiresWithLookahead(t *testing.T) {
	base := time.Unix(0, 0)
	tr := transport{bpm: 120} // 125ms steps
	// Bootstrap anchors at the first tick.
	if tr.crossed(base) {
		t.Fatal("boundary on bootstrap tick")
	}
	// Below the lookahead window: no fire.
	if tr.crossed(base.Add(125*time.Millisecond - lookAhead - time.Millisecond)) {
		t.Fatal("boundary fired before lookahead window")
	}
	// Inside the window: fire, and the next nominal boundary is anchor+step,
	// not the tick timestamp.
	at := base.Add(125*time.Millisecond - lookAhead + time.Millisecond)
	if !tr.crossed(at) {
		t.Fatal("boundary did not fire inside lookahead window")
	}
	if !tr.scheduled {
		t.Error("boundary did not schedule the next step")
	}
	if want := base.Add(125 * time.Millisecond); !tr.boundary.Equal(want) {
		t.Errorf("next boundary = %v, want nominal %v", tr.boundary, want)
	}
}

func TestBeginStepAnchorsAtNominalBoundary(t *testing.T) {
	base := time.Unix(10, 0)
	tr := transport{bpm: 120}
	tr.boundary = base.Add(125 * time.Millisecond)
	tr.scheduled = true

	// Tick arrives early (lookahead fired the step): anchor at the nominal
	// boundary so spacing stays exact.
	tr.beginStep(base.Add(110 * time.Millisecond))
	if !tr.anchor.Equal(base.Add(125 * time.Millisecond)) {
		t.Errorf("anchor = %v, want nominal boundary", tr.anchor)
	}
	if tr.scheduled {
		t.Error("scheduled flag not consumed")
	}

	// Tick arrives after the nominal boundary: anchor at the tick, no
	// attempt to catch up on missed time.
	tr.boundary = base.Add(250 * time.Millisecond)
	tr.scheduled = true
	late := base.Add(300 * time.Millisecond)
	tr.beginStep(late)
	if !tr.anchor.Equal(late) {
		t.Errorf("anchor = %v, want late tick %v", tr.anchor, late)
	}
}

func TestStartForcesImmediateStep(t *testing.T) {
	tr := transport{bpm: 120}
	tr.start()
	if !tr.scheduled {
		t.Fatal("start did not schedule a step")
	}
	now := time.Unix(99, 0)
	tr.beginStep(now)
	if !tr.anchor.Equal(now) {
		t.Errorf("anchor = %v, want %v (no stale boundary carried over)", tr.anchor, now)
	}
}

func TestResetClearsTimingKeepsTempo(t *testing.T) {
	tr := transport{bpm: 140}
	tr.start()
	tr.beginStep(time.Unix(5, 0))
	tr.reset()
	if tr.anchored || tr.scheduled {
		t.Error("reset left timing state armed")
	}
	if tr.bpm != 140 {
		t.Errorf("reset dropped tempo, bpm = %v", tr.bpm)
	}
}
