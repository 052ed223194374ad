package domain

import "errors"

// Domain errors returned by the public API; check with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("vfdd: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped daemon.
	ErrNotRunning = errors.New("vfdd: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("vfdd: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("vfdd: invalid configuration")

	// ErrTransportDown is returned after repeated consecutive write failures,
	// when the display is presumed disconnected.
	ErrTransportDown = errors.New("vfdd: display transport down")
)
