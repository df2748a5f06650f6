package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-stepbox/midi"
	"go-stepbox/sequencer"
	"go-stepbox/theme"
	"go-stepbox/widgets"
)

// Pattern keys: top row holds drum patterns, home row holds bass patterns.
// Terminals deliver no key-up events, so each key latches: press to hold the
// pattern, press again to let go. The model owns the held set and feeds the
// scheduler matched press/release pairs.
var (
	drumKeys = []string{"1", "2", "3", "4", "5", "6", "7"}
	bassKeys = []string{"a", "s", "d", "f", "g", "h", "j"}
)

type Model struct {
	Scheduler *sequencer.Scheduler
	DeviceMgr *midi.DeviceManager
	Display   *StageDisplay
	Theme     *theme.Theme

	held     [sequencer.NumInstruments]map[int]bool
	inputCh  int // 0-based filter, -1 = omni
	device   string
	quitting bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

// PatternEventMsg carries a pattern press/release from a MIDI keyboard
type PatternEventMsg midi.PatternEvent

func NewModel(sched *sequencer.Scheduler, deviceMgr *midi.DeviceManager, display *StageDisplay, th *theme.Theme, inputCh int) Model {
	m := Model{
		Scheduler: sched,
		DeviceMgr: deviceMgr,
		Display:   display,
		Theme:     th,
		inputCh:   inputCh,
	}
	for i := range m.held {
		m.held[i] = make(map[int]bool)
	}
	return m
}

func ListenForUpdates(sched *sequencer.Scheduler) tea.Cmd {
	return func() tea.Msg {
		<-sched.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event := <-deviceMgr.Events()
		return DeviceEventMsg(event)
	}
}

func listenForPatterns(ctrl midi.Controller) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ctrl.Events()
		if !ok {
			return nil
		}
		return PatternEventMsg(evt)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Scheduler),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			m.quitting = true
			m.Scheduler.Stop()
			return m, tea.Quit

		case "+", "=":
			m.Scheduler.SetTempo(m.Scheduler.Tempo() + 5)

		case "-", "_":
			m.Scheduler.SetTempo(m.Scheduler.Tempo() - 5)

		case "[":
			m.setInputChannel(m.inputCh - 1)

		case "]":
			m.setInputChannel(m.inputCh + 1)

		default:
			for i, k := range drumKeys {
				if key == k {
					m.toggle(sequencer.Drum, i)
					return m, nil
				}
			}
			for i, k := range bassKeys {
				if key == k {
					m.toggle(sequencer.Bass, i)
					return m, nil
				}
			}
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Scheduler)

	case PatternEventMsg:
		evt := midi.PatternEvent(msg)
		if evt.On {
			m.Scheduler.Press(evt.Instrument, evt.Pattern)
		} else {
			m.Scheduler.Release(evt.Instrument, evt.Pattern)
		}
		if ctrl, ok := m.DeviceMgr.Controllers()[m.device]; ok {
			return m, listenForPatterns(ctrl)
		}

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.device = event.ID
			return m, tea.Batch(
				ListenForDevices(m.DeviceMgr),
				listenForPatterns(event.Controller),
			)
		}
		if m.device == event.ID {
			m.device = ""
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

// toggle latches a keyboard pattern key: first press holds, second releases
func (m *Model) toggle(inst sequencer.Instrument, pattern int) {
	if m.held[inst][pattern] {
		delete(m.held[inst], pattern)
		m.Scheduler.Release(inst, pattern)
	} else {
		m.held[inst][pattern] = true
		m.Scheduler.Press(inst, pattern)
	}
}

func (m *Model) setInputChannel(ch int) {
	if ch < -1 {
		ch = -1
	}
	if ch > 15 {
		ch = 15
	}
	m.inputCh = ch
	m.DeviceMgr.SetInputChannel(ch)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Scheduler.Status()
	poses, active := m.Display.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	stageStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	hitStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())
	heldStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())

	playState := "STOP"
	if st.Playing {
		playState = "PLAY"
	}
	inCh := "omni"
	if m.inputCh >= 0 {
		inCh = fmt.Sprintf("ch%d", m.inputCh+1)
	}
	deviceStatus := ""
	if m.device != "" {
		deviceStatus = "  midi:" + m.device
	}
	header := headerStyle.Render(fmt.Sprintf("go-stepbox  %s  %3.0fbpm  in:%s%s", playState, st.Tempo, inCh, deviceStatus))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	out.WriteString(m.voiceView(sequencer.Drum, st, poses[sequencer.Drum], active[sequencer.Drum], stageStyle, hitStyle))
	out.WriteString("\n")
	out.WriteString(m.voiceView(sequencer.Bass, st, poses[sequencer.Bass], active[sequencer.Bass], stageStyle, hitStyle))
	out.WriteString("\n")

	sym := m.Theme.Symbols
	out.WriteString(dimStyle.Render("drum ") + widgets.RenderKeyRow(drumKeys, m.held[sequencer.Drum], sym.KeyHeld, sym.KeyIdle, heldStyle, dimStyle))
	out.WriteString("\n")
	out.WriteString(dimStyle.Render("bass ") + widgets.RenderKeyRow(bassKeys, m.held[sequencer.Bass], sym.KeyHeld, sym.KeyIdle, heldStyle, dimStyle))
	out.WriteString("\n\n")

	out.WriteString(dimStyle.Render("1-7:drum  a-j:bass  +/-:tempo  [/]:input channel  q:quit"))
	return out.String()
}

// voiceView renders one voice: its character, step strip and selection
func (m Model) voiceView(inst sequencer.Instrument, st sequencer.Status, pose sequencer.Pose, poseActive bool, stageStyle, hitStyle lipgloss.Style) string {
	vs := st.Voices[inst]

	style := stageStyle
	if poseActive {
		style = hitStyle
	}
	var figure string
	if inst == sequencer.Drum {
		figure = widgets.RenderDrummer(pose, poseActive, style)
	} else {
		figure = widgets.RenderBassist(pose, poseActive, style)
	}

	sel := vs.Selected
	if sel < 0 {
		sel = 0
	}
	pat := m.Scheduler.Table(inst).Pattern(sel)
	sym := m.Theme.Symbols
	strip := widgets.RenderStepStrip(pat, vs.Step, vs.Playing, sym.StepEmpty, sym.StepActive, sym.StepPlayhead)

	label := "--"
	if vs.Selected >= 0 {
		label = fmt.Sprintf("%d", vs.Selected+1)
	}
	info := fmt.Sprintf("%s  pattern:%s  held:%d", inst, label, vs.Held)

	return lipgloss.JoinHorizontal(lipgloss.Center, figure, "  ", strip+"\n"+info) + "\n"
}
