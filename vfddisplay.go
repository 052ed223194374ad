// Package vfddisplay provides a daemon for driving a two-line serial VFD.
//
// Example usage:
//
//	cfg := vfddisplay.DefaultConfig()
//	cfg.Device = "/dev/ttyUSB0"
//	if err := vfddisplay.Run(context.Background(), cfg); err != nil {
//	    log.Fatal(err)
//	}
package vfddisplay

import (
	"context"

	"github.com/mkoskinen/vfd-display/pkg/vfd"
)

// Config holds the configuration for the display daemon.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = vfd.Config

// Option customizes daemon construction. See the pkg/vfd package for
// the available options.
type Option = vfd.Option

// DefaultConfig returns a Config with sensible default values. The
// defaults match a 2x20 display on /dev/ttyUSB1 listening on loopback.
func DefaultConfig() Config {
	return vfd.DefaultConfig()
}

// Run starts the display daemon with the given configuration and
// blocks until the context is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	d, err := vfd.New(cfg, opts...)
	if err != nil {
		return err
	}
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return d.Stop()
}
