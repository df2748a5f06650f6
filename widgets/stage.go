package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-stepbox/sequencer"
)

// Drummer animation frames by hit variant. Three lines each.
var drummerFrames = map[sequencer.HitKind][3]string{
	sequencer.HitNone:   {`  o  `, ` /|\ `, ` / \ `},
	sequencer.HitKick:   {`  o  `, ` /|\ `, ` /!\ `},
	sequencer.HitSnare:  {`  o/ `, ` /|  `, ` / \ `},
	sequencer.HitHat:    {` \o  `, `  |\ `, ` / \ `},
	sequencer.HitAccent: {` \o/ `, `  |  `, ` / \ `},
	sequencer.HitCombo:  {` \o/ `, ` \|/ `, ` /!\ `},
}

// Bassist frames: the figure leans with pitch height, doubled notes get
// both arms up.
var bassistFrames = map[string][3]string{
	"idle":   {`  o  `, ` (|) `, ` / \ `},
	"low":    {`  o  `, ` (|\ `, ` /\  `},
	"high":   {`  o/ `, ` (|  `, `  /\ `},
	"double": {` \o/ `, ` (|) `, ` /\  `},
}

// RenderDrummer renders the percussive voice's character for a pose
func RenderDrummer(pose sequencer.Pose, active bool, style lipgloss.Style) string {
	frame := drummerFrames[sequencer.HitNone]
	if active {
		if f, ok := drummerFrames[pose.Hit]; ok {
			frame = f
		}
	}
	return style.Render(strings.Join(frame[:], "\n"))
}

// RenderBassist renders the melodic voice's character for a pose
func RenderBassist(pose sequencer.Pose, active bool, style lipgloss.Style) string {
	key := "idle"
	switch {
	case !active || len(pose.Pitches) == 0:
		key = "idle"
	case pose.Double:
		key = "double"
	case pose.Pitches[0] >= sequencer.Bass.Pitch(5): // upper octave
		key = "high"
	default:
		key = "low"
	}
	frame := bassistFrames[key]
	return style.Render(strings.Join(frame[:], "\n"))
}

// RenderStepStrip renders one voice's step position over a pattern
func RenderStepStrip(pat sequencer.Pattern, step int, playing bool, empty, active, playhead rune) string {
	var out strings.Builder
	for i := range pat {
		if i > 0 {
			out.WriteRune(' ')
		}
		switch {
		case playing && i == step:
			out.WriteRune(playhead)
		case pat[i].Count > 0:
			out.WriteRune(active)
		default:
			out.WriteRune(empty)
		}
	}
	return out.String()
}

// RenderKeyRow renders the pattern key row: one cell per pattern with its
// key label, highlighting held patterns.
func RenderKeyRow(labels []string, held map[int]bool, heldSym, idleSym rune, heldStyle, idleStyle lipgloss.Style) string {
	var cells []string
	for i, label := range labels {
		if held[i] {
			cells = append(cells, heldStyle.Render(fmt.Sprintf("%c%s", heldSym, label)))
		} else {
			cells = append(cells, idleStyle.Render(fmt.Sprintf("%c%s", idleSym, label)))
		}
	}
	return strings.Join(cells, " ")
}
