package sequencer

import (
	"math/rand"
	"testing"
)

func TestVoiceStackNeverUnderflows(t *testing.T) {
	// For any interleaving of presses and releases, the stack depth tracks
	// exactly and playing mirrors non-emptiness.
	v := &voice{}
	r := rand.New(rand.NewSource(1))
	held := 0
	for i := 0; i < 10000; i++ {
		pattern := r.Intn(7)
		if r.Intn(2) == 0 {
			v.press(pattern)
			held++
		} else if v.release(pattern) {
			held--
		}
		if len(v.stack) != held {
			t.Fatalf("iteration %d: stack depth %d, want %d", i, len(v.stack), held)
		}
		if v.playing != (held > 0) {
			t.Fatalf("iteration %d: playing=%v with depth %d", i, v.playing, held)
		}
	}
}

func TestVoicePressResetsPhaseOnlyFromSilence(t *testing.T) {
	v := &voice{}
	v.press(0)
	v.step = 9
	v.press(1) // already held: phase untouched
	if v.step != 9 {
		t.Fatalf("step = %d, want 9 (press while held must not reset phase)", v.step)
	}
	v.release(1)
	v.release(0)
	v.step = 9
	v.press(2) // first request after silence: phase resets
	if v.step != 0 {
		t.Fatalf("step = %d, want 0", v.step)
	}
}

func TestVoiceSelected(t *testing.T) {
	v := &voice{}
	if v.selected() != -1 {
		t.Fatalf("selected = %d on empty stack, want -1", v.selected())
	}
	v.press(3)
	v.press(5)
	v.press(3)
	if v.selected() != 3 {
		t.Fatalf("selected = %d, want most recent press", v.selected())
	}
	v.release(3) // removes the most recent 3, not the first
	if v.selected() != 5 {
		t.Fatalf("selected = %d after release, want 5", v.selected())
	}
	v.release(3)
	if v.selected() != -1 || v.playing {
		t.Fatalf("voice not idle after releasing everything: %+v", v)
	}
}
