package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-stepbox/debug"
)

// KeyboardController turns notes from a standard MIDI keyboard into pattern
// press/release events. It owns the down-set: key repeat while a note is
// held and duplicate note-offs are suppressed here, so the arbiter only ever
// sees matched press/release pairs.
type KeyboardController struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	events chan PatternEvent

	mu      sync.Mutex
	channel int // input filter, -1 = omni
	down    map[uint8]bool
}

// NewKeyboardController creates a keyboard controller listening on inPort,
// filtered to the given input channel (-1 for omni).
func NewKeyboardController(id string, inPort drivers.In, channel int) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:      id,
		inPort:  inPort,
		events:  make(chan PatternEvent, 32),
		channel: channel,
		down:    make(map[uint8]bool),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			var ch, note, velocity uint8
			switch {
			// GetNoteEnd also matches note-on at velocity 0, the common
			// release encoding.
			case msg.GetNoteStart(&ch, &note, &velocity):
				kb.handleNote(ch, note, true)
			case msg.GetNoteEnd(&ch, &note):
				kb.handleNote(ch, note, false)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

// handleNote applies the channel filter and down-set tracking, then emits a
// translated pattern event. Non-blocking: events are dropped if the consumer
// falls behind.
func (kb *KeyboardController) handleNote(channel, note uint8, on bool) {
	kb.mu.Lock()
	if on {
		if kb.channel >= 0 && int(channel) != kb.channel {
			kb.mu.Unlock()
			return
		}
		if kb.down[note] {
			kb.mu.Unlock()
			return // key repeat
		}
		kb.down[note] = true
	} else {
		// Releases of held notes always pass, even after a channel change;
		// filtering them would leave the pattern stuck on.
		if !kb.down[note] {
			kb.mu.Unlock()
			return // duplicate or unmatched note-off
		}
		delete(kb.down, note)
	}
	kb.mu.Unlock()

	inst, pattern, ok := MapNote(note)
	if !ok {
		return
	}
	select {
	case kb.events <- PatternEvent{Instrument: inst, Pattern: pattern, On: on}:
	default:
		debug.Log("keyboard", "dropped event note=%d on=%v", note, on)
	}
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Events() <-chan PatternEvent {
	return kb.events
}

// SetInputChannel changes the input filter at runtime. Notes already held
// keep their down-set entries so their releases still pass.
func (kb *KeyboardController) SetInputChannel(ch int) {
	kb.mu.Lock()
	kb.channel = ch
	kb.mu.Unlock()
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.events)
	return nil
}
