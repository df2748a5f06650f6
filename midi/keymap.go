package midi

import "go-stepbox/sequencer"

// Reference key mapping: fourteen consecutive MIDI notes starting at C3
// select patterns. The lower seven pick drum patterns 0-6, the upper seven
// pick bass patterns 0-6.
const (
	BaseNote    = 48
	PatternKeys = 14
)

// MapNote translates a MIDI note number to a pattern selection. ok is false
// for notes outside the fourteen-key range; those are ignored, not errors.
func MapNote(note uint8) (inst sequencer.Instrument, pattern int, ok bool) {
	if note < BaseNote || note >= BaseNote+PatternKeys {
		return 0, 0, false
	}
	idx := int(note - BaseNote)
	if idx < PatternKeys/2 {
		return sequencer.Drum, idx, true
	}
	return sequencer.Bass, idx - PatternKeys/2, true
}
