// Package serial implements ports.Transport over a serial device.
package serial

import (
	"fmt"
	"sync"

	sio "go.bug.st/serial"

	"github.com/mkoskinen/vfd-display/internal/ports"
)

// DefaultBaudRate is the fixed bit rate the display expects.
const DefaultBaudRate = 9600

// Port drives the display over a byte-oriented serial link.
type Port struct {
	mu     sync.Mutex
	path   string
	baud   int
	port   sio.Port
	logger ports.Logger
}

// Open opens the serial device at the given path and bit rate.
func Open(path string, baud int, logger ports.Logger) (*Port, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	p := &Port{path: path, baud: baud, logger: logger}
	if err := p.open(); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	logger.Info("serial port open",
		ports.String("path", path),
		ports.Int("baud", baud),
	)
	return p, nil
}

func (p *Port) open() error {
	port, err := sio.Open(p.path, &sio.Mode{BaudRate: p.baud})
	if err != nil {
		return err
	}
	p.port = port
	return nil
}

// Write transmits one frame and drains the OS buffer so the bytes are
// actually on the wire before the next tick.
func (p *Port) Write(frame []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.port == nil {
		return fmt.Errorf("serial port %s not open", p.path)
	}
	if _, err := p.port.Write(frame); err != nil {
		return fmt.Errorf("write %s: %w", p.path, err)
	}
	if err := p.port.Drain(); err != nil {
		return fmt.Errorf("drain %s: %w", p.path, err)
	}
	return nil
}

// Reopen tears down and re-establishes the device connection after a
// failed write, e.g. when a USB adapter was re-plugged.
func (p *Port) Reopen() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.port != nil {
		_ = p.port.Close()
		p.port = nil
	}
	if err := p.open(); err != nil {
		return fmt.Errorf("reopen %s: %w", p.path, err)
	}
	p.logger.Info("serial port reopened", ports.String("path", p.path))
	return nil
}

// Close releases the device.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	return err
}
