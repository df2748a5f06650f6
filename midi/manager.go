package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-stepbox/debug"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of MIDI keyboards
type DeviceManager struct {
	controllers  map[string]Controller
	mu           sync.RWMutex
	events       chan DeviceEvent
	pollRate     time.Duration
	inputChannel int
}

// NewDeviceManager creates a device manager. Newly connected keyboards are
// opened with the given input filter channel (-1 for omni).
func NewDeviceManager(inputChannel int) *DeviceManager {
	return &DeviceManager{
		controllers:  make(map[string]Controller),
		events:       make(chan DeviceEvent, 16),
		pollRate:     time.Second,
		inputChannel: inputChannel,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	copy := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		copy[k] = v
	}
	return copy
}

// SetInputChannel updates the filter channel on every connected keyboard and
// on keyboards connected later.
func (dm *DeviceManager) SetInputChannel(ch int) {
	dm.mu.Lock()
	dm.inputChannel = ch
	for _, c := range dm.controllers {
		c.SetInputChannel(ch)
	}
	dm.mu.Unlock()
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		// MIDI backend is hung - skip this scan
		debug.Log("devices", "port scan timed out")
		return
	}

	// Build map of what we see now
	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		if !isKeyboard(inPort.String()) {
			continue
		}
		id := inPort.String()
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		channel := dm.inputChannel
		dm.mu.RUnlock()

		if !exists {
			kb, err := NewKeyboardController(id, inPorts[i], channel)
			if err != nil {
				debug.Log("devices", "open %s: %v", id, err)
				continue
			}

			dm.mu.Lock()
			dm.controllers[id] = kb
			dm.mu.Unlock()

			dm.events <- DeviceEvent{
				Type:       DeviceConnected,
				Controller: kb,
				ID:         id,
			}
		}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		c := dm.controllers[id]
		c.Close()
		delete(dm.controllers, id)
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			ID:   id,
		}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

// isKeyboard filters out loopback/through ports; everything else that can
// send notes is treated as a keyboard.
func isKeyboard(name string) bool {
	lower := strings.ToLower(name)
	return !strings.Contains(lower, "through") && !strings.Contains(lower, "rtmidi")
}
