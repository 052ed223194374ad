// Package udp implements the datagram listener that feeds externally
// submitted messages into the inbox.
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/mkoskinen/vfd-display/internal/domain"
	"github.com/mkoskinen/vfd-display/internal/ports"
)

// DefaultPort is the UDP port messages are accepted on.
const DefaultPort = 5566

// readBufferSize comfortably covers two capped lines plus separators.
const readBufferSize = 2048

// Listener receives plaintext datagrams, parses them into a line pair
// and installs them into the message sink. Delivery is best-effort:
// malformed or empty datagrams are dropped without ceremony, and no
// receive error ever reaches the tick loop.
type Listener struct {
	conn   *net.UDPConn
	sink   ports.MessageSink
	logger ports.Logger
	now    func() time.Time
}

// Listen binds a datagram socket on addr ("host:port"). Bind failures
// are configuration errors and fatal at startup.
func Listen(addr string, sink ports.MessageSink, logger ports.Logger) (*Listener, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	logger.Info("listening for messages", ports.String("addr", conn.LocalAddr().String()))
	return &Listener{
		conn:   conn,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Addr returns the bound socket address.
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Run reads datagrams until the context is cancelled. Always returns
// after the socket is closed; the returned error is ctx.Err() on
// cancellation and nil otherwise.
func (l *Listener) Run(ctx context.Context) error {
	// Closing the socket is what unblocks the read.
	go func() {
		<-ctx.Done()
		l.conn.Close()
	}()

	buf := make([]byte, readBufferSize)
	for {
		n, remote, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			l.logger.Warn("datagram read failed", ports.Err(err))
			continue
		}

		line1, line2, ok := domain.ParseDatagram(buf[:n], domain.MaxLineLength)
		if !ok {
			continue
		}
		l.logger.Debug("datagram accepted",
			ports.String("from", remote.String()),
			ports.Int("bytes", n),
		)
		l.sink.Submit(line1, line2, l.now())
	}
}
