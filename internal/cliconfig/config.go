package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mkoskinen/vfd-display/internal/domain"
)

// Defaults for the daemon's tunables.
const (
	DefaultDevice  = "/dev/ttyUSB1"
	DefaultBaud    = 9600
	DefaultUDPPort = 5566

	// DefaultFreshSecs is 12 hours; 0 means messages never go stale.
	DefaultFreshSecs = 43200
)

// Config holds CLI configuration for vfdd.
type Config struct {
	// Device is the serial port path of the display.
	Device string
	Baud   int

	UDPPort int
	BindAll bool
	UDPOnly bool

	// FreshSecs is the message freshness window in seconds; 0 keeps
	// rotated-in messages forever.
	FreshSecs int

	// DisplayFile, when set, is a text file watched for two-line
	// content; writing it is equivalent to sending a datagram.
	DisplayFile string

	TickInterval     time.Duration
	RotationInterval time.Duration
	InterruptWindow  time.Duration

	// Display geometry. Static per device; the defaults match the
	// 2x20 VFD module with 15 visible columns.
	VisibleColumns int
	BufferPerLine  int
	Lines          int

	// Static mode: fixed two-line text instead of rotation.
	StaticLine1 string
	StaticLine2 string
	StaticSet   bool
	Center      bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Device:           DefaultDevice,
		Baud:             DefaultBaud,
		UDPPort:          DefaultUDPPort,
		FreshSecs:        DefaultFreshSecs,
		TickInterval:     500 * time.Millisecond,
		RotationInterval: 30 * time.Second,
		InterruptWindow:  30 * time.Second,
		VisibleColumns:   15,
		BufferPerLine:    20,
		Lines:            2,
	}
}

// Geometry builds the display geometry from the configured dimensions,
// with contiguous per-line buffers.
func (c *Config) Geometry() domain.Geometry {
	offsets := make([]int, c.Lines)
	for i := range offsets {
		offsets[i] = i * c.BufferPerLine
	}
	return domain.Geometry{
		VisibleColumns: c.VisibleColumns,
		BufferPerLine:  c.BufferPerLine,
		LineOffsets:    offsets,
	}
}

// BindAddr returns the UDP listen address: loopback-only unless
// bind-all was requested.
func (c *Config) BindAddr() string {
	host := "127.0.0.1"
	if c.BindAll {
		host = ""
	}
	return fmt.Sprintf("%s:%d", host, c.UDPPort)
}

// FreshnessWindow converts the configured seconds to a duration.
func (c *Config) FreshnessWindow() time.Duration {
	return time.Duration(c.FreshSecs) * time.Second
}

// Validate checks the configuration for errors. It runs before either
// loop starts, so bad geometry or ports never reach the hardware.
func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("%w: serial device path is required", domain.ErrInvalidConfig)
	}
	if c.Baud <= 0 {
		return fmt.Errorf("%w: baud rate must be positive", domain.ErrInvalidConfig)
	}
	if c.UDPPort < 1 || c.UDPPort > 65535 {
		return fmt.Errorf("%w: udp port %d out of range", domain.ErrInvalidConfig, c.UDPPort)
	}
	if c.FreshSecs < 0 {
		return fmt.Errorf("%w: freshness window must not be negative", domain.ErrInvalidConfig)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive", domain.ErrInvalidConfig)
	}
	if c.RotationInterval < c.TickInterval {
		return fmt.Errorf("%w: rotation interval shorter than tick interval", domain.ErrInvalidConfig)
	}
	if c.Lines < 1 {
		return fmt.Errorf("%w: at least one display line required", domain.ErrInvalidConfig)
	}
	return c.Geometry().Validate()
}

// configSetter helps apply configuration values while respecting flag
// precedence: it only applies values whose flag was not explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntAllowZero is setInt for fields where zero is meaningful, such
// as the freshness window. Uses a pointer so absence is detectable.
func (s *configSetter) setIntAllowZero(flag string, value *int, dst *int) {
	if value == nil || *value < 0 || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value from a pointer if present and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag
// not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination.
// Used for environment variables, which arrive as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
