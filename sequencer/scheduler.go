package sequencer

import (
	"sync"
	"time"

	"go-stepbox/debug"
)

// Sink receives note emissions from the scheduler
type Sink interface {
	NoteOn(channel, pitch, velocity uint8)
	NoteOff(channel, pitch uint8)
}

// Pose describes what an instrument is sounding right now, with enough
// structure for the display to pick an animation frame.
type Pose struct {
	Pitches []uint8
	Double  bool    // two simultaneous pitches
	Hit     HitKind // drum variant; HitNone for the bass voice
}

// Display receives active/idle pose notifications
type Display interface {
	SetPose(inst Instrument, pose Pose)
	SetIdle(inst Instrument)
}

const noteVelocity = 100

// Default output channels: GM percussion for the drum voice, channel 1 for
// the bass voice (0-based wire channels).
var defaultChannels = [NumInstruments]uint8{9, 0}

// Scheduler is the composition root: it owns both voices' request stacks,
// the shared step clock, and the active note-sets, and drives everything
// from a self-armed frame ticker. One mutex serializes input events against
// tick evaluation; both touch the same voice state.
type Scheduler struct {
	mu       sync.Mutex
	tables   [NumInstruments]*Table
	voices   [NumInstruments]voice
	tr       transport
	channels [NumInstruments]uint8

	sink    Sink
	display Display

	ticker  Ticker
	ticking bool

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// Ticker drives the scheduler's frame loop: after Arm it invokes tick once
// per rendering frame until tick returns false. The scheduler re-arms on the
// next press, so an idle sequencer does zero background work.
type Ticker interface {
	Arm(tick func(now time.Time) bool)
}

// frameTicker is the live Ticker backed by a time.Ticker at frame cadence
type frameTicker struct {
	period time.Duration
}

func (f frameTicker) Arm(tick func(time.Time) bool) {
	go func() {
		t := time.NewTicker(f.period)
		defer t.Stop()
		for now := range t.C {
			if !tick(now) {
				return
			}
		}
	}()
}

// New creates a scheduler with the built-in pattern tables, driven by a
// live frame ticker.
func New(sink Sink, display Display) *Scheduler {
	return NewWithTicker(sink, display, frameTicker{period: frameTime})
}

// NewWithTicker creates a scheduler driven by the given ticker. Tests pass
// a stub and feed Tick synthetic timestamps directly.
func NewWithTicker(sink Sink, display Display, ticker Ticker) *Scheduler {
	s := &Scheduler{
		sink:       sink,
		display:    display,
		channels:   defaultChannels,
		ticker:     ticker,
		UpdateChan: make(chan struct{}, 1),
	}
	s.tables[Drum] = DrumTable()
	s.tables[Bass] = BassTable()
	s.tr.bpm = 120
	return s
}

// Table returns the pattern store for an instrument (read-only)
func (s *Scheduler) Table(inst Instrument) *Table {
	return s.tables[inst]
}

// Press pushes a pattern request for an instrument. The first request after
// silence restarts the shared clock: the next tick fires step 0 immediately,
// with no drift carried over from the previous session.
func (s *Scheduler) Press(inst Instrument, pattern int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasPlaying := s.globalPlaying()
	s.voices[inst].press(pattern)
	debug.Log("arbiter", "press %s pattern=%d depth=%d", inst, pattern, len(s.voices[inst].stack))

	if !wasPlaying {
		s.tr.start()
		s.startTicking()
	}
	s.notifyUpdate()
}

// Release removes the most recent matching request. When the instrument's
// last request goes, its sounding notes are flushed at once rather than at
// the next boundary.
func (s *Scheduler) Release(inst Instrument, pattern int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.voices[inst].release(pattern) {
		return
	}
	debug.Log("arbiter", "release %s pattern=%d depth=%d", inst, pattern, len(s.voices[inst].stack))
	if !s.voices[inst].playing {
		s.flush(inst)
	}
	s.notifyUpdate()
}

// SetTempo sets the BPM. Non-positive values are rejected and the previous
// tempo kept. Takes effect at the next scheduling decision.
func (s *Scheduler) SetTempo(bpm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tr.setTempo(bpm) {
		debug.Log("clock", "rejected tempo %v", bpm)
		return
	}
	s.notifyUpdate()
}

// Tempo returns the current BPM
func (s *Scheduler) Tempo() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tr.bpm
}

// SetOutputChannel sets an instrument's MIDI output channel (0-based)
func (s *Scheduler) SetOutputChannel(inst Instrument, ch uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[inst] = ch & 0x0f
}

// Stop releases everything: both stacks cleared, notes flushed, clock
// suspended. Used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.voices {
		v := &s.voices[i]
		v.stack = nil
		v.playing = false
		v.step = 0
		s.flush(Instrument(i))
	}
	s.tr.reset()
	s.notifyUpdate()
}

// Tick runs one pass of the per-frame state machine and reports whether the
// clock should keep ticking. Exported with an explicit timestamp so tests
// drive it with synthetic time.
func (s *Scheduler) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A step was scheduled at the previous boundary (or by start): install
	// its anchor and sound it.
	if s.tr.scheduled {
		s.tr.beginStep(now)
		for i := range s.voices {
			v := &s.voices[i]
			if v.playing {
				pat := s.tables[i].Pattern(v.selected())
				s.play(Instrument(i), pat.Step(v.step))
			} else {
				s.flush(Instrument(i))
			}
		}
		s.notifyUpdate()
	}

	// Both voices advance on every boundary, playing or not: a voice that
	// rejoins keeps phase with the shared clock.
	if s.tr.crossed(now) {
		for i := range s.voices {
			s.voices[i].step = (s.voices[i].step + 1) % StepsPerPattern
		}
		debug.LogEvery(StepsPerPattern, "clock", "boundary drum=%d bass=%d", s.voices[Drum].step, s.voices[Bass].step)
	}

	if s.globalPlaying() {
		return true
	}

	// Nothing held anywhere: flush, clear phase, suspend the clock until
	// the next press. Zero background work while silent.
	for i := range s.voices {
		s.flush(Instrument(i))
		s.voices[i].step = 0
	}
	s.tr.reset()
	s.ticking = false
	debug.Log("clock", "suspended")
	return false
}

// play is the note transition for one step value: note-off for the previous
// active set in insertion order, then note-on for the resolved pitches. An
// identical step value on consecutive steps still re-strikes; the hardware
// being modeled restrikes every step.
func (s *Scheduler) play(inst Instrument, sv StepValue) {
	v := &s.voices[inst]
	pitches := sv.Pitches(inst)

	for _, p := range v.active {
		s.sink.NoteOff(s.channels[inst], p)
	}
	v.active = v.active[:0]

	if len(pitches) == 0 {
		s.display.SetIdle(inst)
		return
	}
	for _, p := range pitches {
		s.sink.NoteOn(s.channels[inst], p, noteVelocity)
	}
	v.active = append(v.active, pitches...)

	hit := HitNone
	if inst == Drum {
		hit = sv.Hit()
	}
	s.display.SetPose(inst, Pose{Pitches: pitches, Double: len(pitches) == 2, Hit: hit})
}

// flush silences an instrument and forces its pose to idle
func (s *Scheduler) flush(inst Instrument) {
	v := &s.voices[inst]
	if len(v.active) == 0 {
		return
	}
	for _, p := range v.active {
		s.sink.NoteOff(s.channels[inst], p)
	}
	v.active = v.active[:0]
	s.display.SetIdle(inst)
}

func (s *Scheduler) globalPlaying() bool {
	for i := range s.voices {
		if s.voices[i].playing {
			return true
		}
	}
	return false
}

// startTicking arms the frame loop; callers hold the mutex
func (s *Scheduler) startTicking() {
	if s.ticking {
		return
	}
	s.ticking = true
	s.ticker.Arm(s.Tick)
}

func (s *Scheduler) notifyUpdate() {
	select {
	case s.UpdateChan <- struct{}{}:
	default:
	}
}

// VoiceStatus is a snapshot of one voice for the TUI
type VoiceStatus struct {
	Playing  bool
	Selected int // -1 when nothing held
	Step     int
	Held     int // request stack depth
}

// Status is a snapshot of the whole scheduler for the TUI
type Status struct {
	Tempo   float64
	Playing bool
	Voices  [NumInstruments]VoiceStatus
}

// Status returns a consistent snapshot of playback state
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{Tempo: s.tr.bpm, Playing: s.globalPlaying()}
	for i := range s.voices {
		v := &s.voices[i]
		st.Voices[i] = VoiceStatus{
			Playing:  v.playing,
			Selected: v.selected(),
			Step:     v.step,
			Held:     len(v.stack),
		}
	}
	return st
}
