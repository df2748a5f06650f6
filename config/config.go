package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// OutputConfig defines the synth MIDI output
type OutputConfig struct {
	PortName    string `json:"portName,omitempty"`
	DrumChannel int    `json:"drumChannel,omitempty"` // 1-16
	BassChannel int    `json:"bassChannel,omitempty"` // 1-16
}

// InputConfig defines how pattern keys reach the sequencer
type InputConfig struct {
	Channel int `json:"channel"` // 1-16, 0 = omni
}

// Config is the main configuration structure
type Config struct {
	Tempo  float64      `json:"tempo,omitempty"`
	Input  InputConfig  `json:"input"`
	Output OutputConfig `json:"output"`
	Debug  bool         `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo: 120,
		Input: InputConfig{Channel: 0}, // omni
		Output: OutputConfig{
			DrumChannel: 10, // GM percussion
			BassChannel: 1,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-stepbox"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.normalize()

	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// normalize replaces unusable values with defaults rather than erroring;
// a bad config file degrades, it doesn't stop the sequencer.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Tempo <= 0 {
		c.Tempo = def.Tempo
	}
	if c.Input.Channel < 0 || c.Input.Channel > 16 {
		c.Input.Channel = def.Input.Channel
	}
	if c.Output.DrumChannel < 1 || c.Output.DrumChannel > 16 {
		c.Output.DrumChannel = def.Output.DrumChannel
	}
	if c.Output.BassChannel < 1 || c.Output.BassChannel > 16 {
		c.Output.BassChannel = def.Output.BassChannel
	}
}

// InputFilterChannel converts the 1-based config channel to the 0-based
// wire channel, -1 meaning omni.
func (c *Config) InputFilterChannel() int {
	if c.Input.Channel == 0 {
		return -1
	}
	return c.Input.Channel - 1
}

// WireChannel converts a 1-based config channel to the 0-based wire channel
func WireChannel(ch int) uint8 {
	return uint8(ch-1) & 0x0f
}
