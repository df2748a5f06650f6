package midi

// Controller is the interface for MIDI input devices that produce pattern
// press/release events.
type Controller interface {
	ID() string

	// Events is the stream of translated pattern presses and releases
	Events() <-chan PatternEvent

	// SetInputChannel changes the input filter channel (0-15, -1 for omni).
	// Takes effect on the next incoming message.
	SetInputChannel(ch int)

	// Lifecycle
	Close() error
}
