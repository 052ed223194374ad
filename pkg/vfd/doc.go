// Package vfd provides an embeddable daemon that drives a small
// serial character display.
//
// The daemon continuously rotates content sources on a timer while
// accepting externally pushed messages that preempt the rotation,
// and re-sends the full screen buffer on every tick so the hardware
// never falls back to its built-in intro screen.
//
// Example usage:
//
//	cfg := vfd.DefaultConfig()
//	cfg.Device = "/dev/ttyUSB1"
//	d, err := vfd.New(cfg, vfd.WithLogger(log.NewConsoleLogger()))
//	if err != nil {
//	    // invalid configuration
//	}
//	if err := d.Start(context.Background()); err != nil {
//	    // device or socket unavailable
//	}
//	defer d.Stop()
package vfd
