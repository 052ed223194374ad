package vfd

import (
	"fmt"
	"time"

	"github.com/mkoskinen/vfd-display/internal/app"
	"github.com/mkoskinen/vfd-display/internal/domain"
)

// Re-exported domain types so embedders need no internal imports.
type (
	// Geometry is the display's addressable layout.
	Geometry = domain.Geometry

	// LinePair is two logical lines of display text.
	LinePair = domain.LinePair

	// Content is a line pair with its placement policy.
	Content = domain.Content

	// Alignment controls text placement in the visible region.
	Alignment = domain.Alignment
)

// Placement policies.
const (
	AlignCenter   = domain.AlignCenter
	AlignExplicit = domain.AlignExplicit
)

// DefaultGeometry returns the layout of the 2x20 VFD module.
func DefaultGeometry() Geometry {
	return domain.DefaultGeometry()
}

// StaticText is fixed two-line content shown instead of rotation.
type StaticText struct {
	Line1  string
	Line2  string
	Center bool
}

// Config holds the configuration for the display daemon.
// Use DefaultConfig() for sensible defaults; at minimum set Device.
type Config struct {
	// Device is the serial port path. Ignored when a transport is
	// injected with WithTransport.
	Device string
	Baud   int

	Geometry Geometry

	// ListenAddr is the UDP bind address for inbound messages.
	// Empty disables the listener.
	ListenAddr string

	// DisplayFile, when set, is watched for two-line text content.
	DisplayFile string

	TickInterval     time.Duration
	RotationInterval time.Duration
	InterruptWindow  time.Duration

	// FreshnessWindow is how long a rotated-in message stays in the
	// pool; zero keeps it forever.
	FreshnessWindow time.Duration

	// UDPOnly suppresses rotation sources until the first message
	// arrives.
	UDPOnly bool

	// Static, when non-nil, bypasses rotation and the inbound message
	// paths entirely: the display shows this text until shutdown.
	Static *StaticText
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Device:           "/dev/ttyUSB1",
		Baud:             9600,
		Geometry:         domain.DefaultGeometry(),
		ListenAddr:       "127.0.0.1:5566",
		TickInterval:     app.DefaultTickInterval,
		RotationInterval: app.DefaultRotationInterval,
		InterruptWindow:  domain.DefaultInterruptWindow,
		FreshnessWindow:  domain.DefaultFreshnessWindow,
	}
}

// SetDefaults fills zero-valued scheduling fields.
func (c *Config) SetDefaults() {
	if c.Baud <= 0 {
		c.Baud = 9600
	}
	if c.TickInterval <= 0 {
		c.TickInterval = app.DefaultTickInterval
	}
	if c.RotationInterval <= 0 {
		c.RotationInterval = app.DefaultRotationInterval
	}
	if c.InterruptWindow <= 0 {
		c.InterruptWindow = domain.DefaultInterruptWindow
	}
	if c.Geometry.Lines() == 0 {
		c.Geometry = domain.DefaultGeometry()
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("%w: device path is required", domain.ErrInvalidConfig)
	}
	return c.validate()
}

// validate covers everything except the device path, which an injected
// transport makes irrelevant.
func (c *Config) validate() error {
	if c.RotationInterval < c.TickInterval {
		return fmt.Errorf("%w: rotation interval shorter than tick interval", domain.ErrInvalidConfig)
	}
	if c.FreshnessWindow < 0 {
		return fmt.Errorf("%w: freshness window must not be negative", domain.ErrInvalidConfig)
	}
	return c.Geometry.Validate()
}
