package tui

import (
	"sync"

	"go-stepbox/sequencer"
)

// StageDisplay is the TUI's display adapter: it keeps the latest pose per
// instrument for the view to render. Pose updates arrive from the scheduler's
// tick goroutine; the view reads snapshots.
type StageDisplay struct {
	mu     sync.Mutex
	poses  [sequencer.NumInstruments]sequencer.Pose
	active [sequencer.NumInstruments]bool
}

func NewStageDisplay() *StageDisplay {
	return &StageDisplay{}
}

func (d *StageDisplay) SetPose(inst sequencer.Instrument, pose sequencer.Pose) {
	d.mu.Lock()
	d.poses[inst] = pose
	d.active[inst] = true
	d.mu.Unlock()
}

func (d *StageDisplay) SetIdle(inst sequencer.Instrument) {
	d.mu.Lock()
	d.active[inst] = false
	d.mu.Unlock()
}

// Snapshot returns the current poses and active flags
func (d *StageDisplay) Snapshot() ([sequencer.NumInstruments]sequencer.Pose, [sequencer.NumInstruments]bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.poses, d.active
}
