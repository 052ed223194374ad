package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations and pointers
// where absence matters, to stay TOML friendly.
type FileConfig struct {
	Device           string `toml:"device"`
	Baud             int    `toml:"baud"`
	UDPPort          int    `toml:"udp_port"`
	BindAll          *bool  `toml:"bind_all"`
	UDPOnly          *bool  `toml:"udp_only"`
	FreshSecs        *int   `toml:"fresh_secs"`
	DisplayFile      string `toml:"display_file"`
	TickInterval     string `toml:"tick_interval"`
	RotationInterval string `toml:"rotation_interval"`
	InterruptWindow  string `toml:"interrupt_window"`
	VisibleColumns   int    `toml:"visible_columns"`
	BufferPerLine    int    `toml:"buffer_per_line"`
	Lines            int    `toml:"lines"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.vfdd/config.toml when the user home
// directory is accessible, and "" otherwise.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".vfdd", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies file configuration to cfg, skipping any field
// whose flag was explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", fc.Device, &cfg.Device)
	s.setString("file", fc.DisplayFile, &cfg.DisplayFile)

	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setInt("udp-port", fc.UDPPort, &cfg.UDPPort)
	s.setInt("columns", fc.VisibleColumns, &cfg.VisibleColumns)
	s.setInt("buffer", fc.BufferPerLine, &cfg.BufferPerLine)
	s.setInt("lines", fc.Lines, &cfg.Lines)

	s.setIntAllowZero("fresh", fc.FreshSecs, &cfg.FreshSecs)

	s.setBool("bind-all", fc.BindAll, &cfg.BindAll)
	s.setBool("udp-only", fc.UDPOnly, &cfg.UDPOnly)

	if err := s.setDuration("tick-interval", fc.TickInterval, &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("rotation-interval", fc.RotationInterval, &cfg.RotationInterval); err != nil {
		return err
	}
	if err := s.setDuration("interrupt-window", fc.InterruptWindow, &cfg.InterruptWindow); err != nil {
		return err
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
