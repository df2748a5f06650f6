package midi

import "go-stepbox/sequencer"

// PatternEvent is a press or release of a pattern key, already translated
// to an instrument and pattern index by the key mapping.
type PatternEvent struct {
	Instrument sequencer.Instrument
	Pattern    int
	On         bool
}
