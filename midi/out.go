package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-stepbox/debug"
)

// Output sends scheduler emissions to a MIDI output port. The port is opened
// lazily on first use and re-resolved when the name changes; with no usable
// port everything degrades to silence rather than failing.
type Output struct {
	mu       sync.RWMutex
	portName string
	senders  map[string]func(gomidi.Message) error
}

func NewOutput(portName string) *Output {
	return &Output{
		portName: portName,
		senders:  make(map[string]func(gomidi.Message) error),
	}
}

// SetPort changes the output port name. Takes effect on the next emission.
func (o *Output) SetPort(name string) {
	o.mu.Lock()
	o.portName = name
	o.mu.Unlock()
}

// NoteOn implements sequencer.Sink
func (o *Output) NoteOn(channel, pitch, velocity uint8) {
	if send := o.sender(); send != nil {
		send(gomidi.NoteOn(channel, pitch, velocity))
	}
}

// NoteOff implements sequencer.Sink
func (o *Output) NoteOff(channel, pitch uint8) {
	if send := o.sender(); send != nil {
		send(gomidi.NoteOff(channel, pitch))
	}
}

// sender returns the sender for the configured port, lazily opening it
func (o *Output) sender() func(gomidi.Message) error {
	o.mu.RLock()
	name := o.portName
	if sender, ok := o.senders[name]; ok {
		o.mu.RUnlock()
		return sender
	}
	o.mu.RUnlock()

	if name == "" {
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// Double-check after acquiring write lock
	if sender, ok := o.senders[name]; ok {
		return sender
	}

	for _, port := range gomidi.GetOutPorts() {
		if port.String() == name {
			sender, err := gomidi.SendTo(port)
			if err != nil {
				debug.Log("out", "open %s: %v", name, err)
				return nil
			}
			o.senders[name] = sender
			debug.Log("out", "opened %s", name)
			return sender
		}
	}
	return nil
}
