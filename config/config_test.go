package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Tempo != 120 || cfg.Output.DrumChannel != 10 || cfg.Output.BassChannel != 1 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.InputFilterChannel() != -1 {
		t.Fatalf("default input filter = %d, want omni (-1)", cfg.InputFilterChannel())
	}
}

func TestLoadNormalizesBadValues(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "go-stepbox")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	raw := `{"tempo": -5, "input": {"channel": 99}, "output": {"drumChannel": 0, "bassChannel": 17}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Tempo != 120 {
		t.Errorf("tempo = %v, want default", cfg.Tempo)
	}
	if cfg.Input.Channel != 0 {
		t.Errorf("input channel = %d, want omni default", cfg.Input.Channel)
	}
	if cfg.Output.DrumChannel != 10 || cfg.Output.BassChannel != 1 {
		t.Errorf("output channels = %d/%d, want defaults", cfg.Output.DrumChannel, cfg.Output.BassChannel)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.Tempo = 96
	cfg.Input.Channel = 5
	cfg.Output.PortName = "FluidSynth"
	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Tempo != 96 || loaded.Input.Channel != 5 || loaded.Output.PortName != "FluidSynth" {
		t.Fatalf("round trip = %+v", loaded)
	}
	if loaded.InputFilterChannel() != 4 {
		t.Fatalf("input filter = %d, want 4 (0-based)", loaded.InputFilterChannel())
	}
}

func TestWireChannel(t *testing.T) {
	if WireChannel(10) != 9 || WireChannel(1) != 0 {
		t.Errorf("wire channels = %d/%d, want 9/0", WireChannel(10), WireChannel(1))
	}
}
