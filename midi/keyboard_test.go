package midi

import (
	"testing"

	"go-stepbox/sequencer"
)

func TestMapNote(t *testing.T) {
	cases := []struct {
		note    uint8
		inst    sequencer.Instrument
		pattern int
		ok      bool
	}{
		{BaseNote, sequencer.Drum, 0, true},
		{BaseNote + 6, sequencer.Drum, 6, true},
		{BaseNote + 7, sequencer.Bass, 0, true},
		{BaseNote + 13, sequencer.Bass, 6, true},
		{BaseNote - 1, 0, 0, false},
		{BaseNote + 14, 0, 0, false},
		{0, 0, 0, false},
		{127, 0, 0, false},
	}
	for _, c := range cases {
		inst, pattern, ok := MapNote(c.note)
		if ok != c.ok || (ok && (inst != c.inst || pattern != c.pattern)) {
			t.Errorf("MapNote(%d) = (%v, %d, %v), want (%v, %d, %v)",
				c.note, inst, pattern, ok, c.inst, c.pattern, c.ok)
		}
	}
}

func newTestKeyboard(channel int) *KeyboardController {
	kb, _ := NewKeyboardController("test", nil, channel)
	return kb
}

func drain(kb *KeyboardController) []PatternEvent {
	var out []PatternEvent
	for {
		select {
		case e := <-kb.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestKeyboardPressRelease(t *testing.T) {
	kb := newTestKeyboard(-1)
	kb.handleNote(0, BaseNote+2, true)
	kb.handleNote(0, BaseNote+2, false)

	got := drain(kb)
	want := []PatternEvent{
		{Instrument: sequencer.Drum, Pattern: 2, On: true},
		{Instrument: sequencer.Drum, Pattern: 2, On: false},
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestKeyboardSuppressesKeyRepeat(t *testing.T) {
	kb := newTestKeyboard(-1)
	kb.handleNote(0, BaseNote, true)
	kb.handleNote(0, BaseNote, true) // repeat while held
	kb.handleNote(0, BaseNote, false)
	kb.handleNote(0, BaseNote, false) // duplicate off

	got := drain(kb)
	if len(got) != 2 {
		t.Fatalf("%d events, want exactly one press and one release: %v", len(got), got)
	}
	if !got[0].On || got[1].On {
		t.Fatalf("events = %v, want press then release", got)
	}
}

func TestKeyboardChannelFilter(t *testing.T) {
	kb := newTestKeyboard(3)
	kb.handleNote(0, BaseNote, true) // wrong channel
	if got := drain(kb); len(got) != 0 {
		t.Fatalf("events from filtered channel: %v", got)
	}
	kb.handleNote(3, BaseNote, true)
	if got := drain(kb); len(got) != 1 || !got[0].On {
		t.Fatalf("events = %v, want one press", got)
	}
}

func TestKeyboardReleasePassesAfterChannelChange(t *testing.T) {
	kb := newTestKeyboard(0)
	kb.handleNote(0, BaseNote+7, true)
	kb.SetInputChannel(5)
	kb.handleNote(0, BaseNote+7, false) // old channel, but the note is held

	got := drain(kb)
	if len(got) != 2 || got[1].On {
		t.Fatalf("events = %v, want press then release despite channel change", got)
	}
	if got[1].Instrument != sequencer.Bass || got[1].Pattern != 0 {
		t.Fatalf("release = %v, want bass pattern 0", got[1])
	}
}

func TestKeyboardIgnoresUnmappedNotes(t *testing.T) {
	kb := newTestKeyboard(-1)
	kb.handleNote(0, BaseNote-1, true)
	kb.handleNote(0, BaseNote+PatternKeys, true)
	if got := drain(kb); len(got) != 0 {
		t.Fatalf("events for unmapped notes: %v", got)
	}
}
