package ports

// Transport delivers framed bytes to the physical display.
// Writes are fire-and-forget at the protocol level; the hardware sends
// no acknowledgement.
type Transport interface {
	// Write transmits one complete frame. An error means the device
	// could not be driven; the caller decides whether to retry.
	Write(frame []byte) error

	// Reopen tears down and re-establishes the device connection after
	// a failed write.
	Reopen() error

	// Close releases the device.
	Close() error
}
