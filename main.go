package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"go-stepbox/config"
	"go-stepbox/debug"
	"go-stepbox/midi"
	"go-stepbox/sequencer"
	"go-stepbox/theme"
	"go-stepbox/tui"
)

func main() {
	flagDebug := flag.Bool("debug", false, "write a debug log")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}
	if *flagDebug || cfg.Debug {
		debug.Enable()
		defer debug.Disable()
	}

	// Palette: custom .gpl in the config dir if present, else built-in
	palette := theme.Default()
	if dir, err := config.ConfigDir(); err == nil {
		if p, err := theme.LoadGPL(filepath.Join(dir, "palette.gpl")); err == nil {
			palette = p
		}
	}
	th := theme.New(palette)

	// MIDI output (opens lazily; missing port degrades to silence)
	out := midi.NewOutput(cfg.Output.PortName)

	// Display adapter feeding the TUI stage
	display := tui.NewStageDisplay()

	// Playback scheduler
	sched := sequencer.New(out, display)
	sched.SetTempo(cfg.Tempo)
	sched.SetOutputChannel(sequencer.Drum, config.WireChannel(cfg.Output.DrumChannel))
	sched.SetOutputChannel(sequencer.Bass, config.WireChannel(cfg.Output.BassChannel))

	// MIDI keyboard manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(cfg.InputFilterChannel())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	fmt.Println("go-stepbox")
	fmt.Println("Connect a MIDI keyboard any time - it'll be detected automatically")
	fmt.Println("")

	m := tui.NewModel(sched, deviceMgr, display, th, cfg.InputFilterChannel())
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	sched.Stop()
}
