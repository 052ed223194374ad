package vfd

import (
	"time"

	"github.com/mkoskinen/vfd-display/internal/ports"
	"github.com/mkoskinen/vfd-display/pkg/log"
)

// Logger is the structured logging interface from pkg/log.
type Logger = log.Logger

// Transport delivers framed bytes to the physical display.
type Transport = ports.Transport

// Source produces display content for one rotation slot.
type Source = ports.Source

// Option configures optional behavior of the daemon.
type Option func(*options)

type options struct {
	logger    ports.Logger
	transport ports.Transport
	sources   []ports.Source
	now       func() time.Time
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
		now:    time.Now,
	}
}

// WithLogger sets a custom logger. If not provided, output is discarded.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTransport injects a display transport, bypassing the serial
// device entirely. The daemon takes ownership and closes it on Stop.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithSources replaces the built-in rotation sources. The inbox's
// rotating view is appended automatically unless static mode is set.
func WithSources(sources ...Source) Option {
	return func(o *options) {
		o.sources = sources
	}
}

// WithClock injects the time source used for scheduling decisions.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
