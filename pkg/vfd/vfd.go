package vfd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mkoskinen/vfd-display/internal/adapters/filewatch"
	serialAdapter "github.com/mkoskinen/vfd-display/internal/adapters/serial"
	"github.com/mkoskinen/vfd-display/internal/adapters/udp"
	"github.com/mkoskinen/vfd-display/internal/app"
	"github.com/mkoskinen/vfd-display/internal/domain"
	"github.com/mkoskinen/vfd-display/internal/ports"
	"github.com/mkoskinen/vfd-display/internal/sources"
)

// State re-exports the lifecycle state for callers.
type State = app.State

// Lifecycle states.
const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateCrashed  = app.StateCrashed
)

// Daemon drives one display. Use New() to create an instance, then
// Start() to begin the tick and receive loops.
type Daemon struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	inbox     *app.Inbox
	logger    ports.Logger

	mu        sync.Mutex
	transport ports.Transport
	cancel    context.CancelFunc
}

// New creates a daemon in StateStopped. Returns an error if the
// configuration is invalid; the device itself is not touched until
// Start().
func New(cfg Config, opts ...Option) (*Daemon, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cfg.SetDefaults()
	if o.transport != nil {
		// The device path is moot when the transport is supplied.
		if err := cfg.validate(); err != nil {
			return nil, err
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	inbox := app.NewInbox(cfg.InterruptWindow, cfg.FreshnessWindow, logger)

	return &Daemon{
		config:    cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(logger),
		inbox:     inbox,
		logger:    logger,
	}, nil
}

// Submit installs a message programmatically, exactly as if it had
// arrived as a datagram. Safe to call from any goroutine.
func (d *Daemon) Submit(line1, line2 string) {
	d.inbox.Submit(line1, line2, d.opts.now())
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (d *Daemon) Status() State {
	return d.lifecycle.State()
}

// Start opens the transport, binds the listener and begins the loops
// in the background. Returns immediately; an error means startup
// failed and nothing is running.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := d.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	transport := d.opts.transport
	if transport == nil {
		var err error
		transport, err = serialAdapter.Open(d.config.Device, d.config.Baud, d.logger)
		if err != nil {
			_ = d.lifecycle.TransitionTo(app.StateCrashed, "serial open failed")
			return fmt.Errorf("open display: %w", err)
		}
	}
	d.transport = transport

	static := d.config.Static

	var listener *udp.Listener
	if static == nil && d.config.ListenAddr != "" {
		var err error
		listener, err = udp.Listen(d.config.ListenAddr, d.inbox, d.logger)
		if err != nil {
			_ = transport.Close()
			d.transport = nil
			_ = d.lifecycle.TransitionTo(app.StateCrashed, "udp bind failed")
			return err
		}
	}

	var watcher *filewatch.Watcher
	if static == nil && d.config.DisplayFile != "" {
		watcher = filewatch.New(d.config.DisplayFile, d.inbox, d.logger)
	}

	scheduler := app.NewScheduler(
		app.SchedulerConfig{
			TickInterval:     d.config.TickInterval,
			RotationInterval: d.config.RotationInterval,
			WaitForMessage:   static == nil && d.config.UDPOnly,
		},
		d.config.Geometry,
		d.inbox,
		d.rotationSources(static),
		transport,
		d.logger,
		d.opts.now,
	)

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.lifecycle.SetCancel(cancel)

	d.lifecycle.AddWorker()
	go func() {
		defer d.lifecycle.WorkerDone()

		err := scheduler.Run(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("scheduler stopped", ports.Err(err))
			_ = d.lifecycle.TransitionTo(app.StateCrashed, err.Error())
			// Take the other loops down with the tick loop and release
			// the device so a later Start() can reopen it.
			cancel()
			d.closeTransport()
		}
	}()

	if listener != nil {
		l := listener
		d.lifecycle.AddWorker()
		go func() {
			defer d.lifecycle.WorkerDone()
			if err := l.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Warn("listener stopped", ports.Err(err))
			}
		}()
	}

	if watcher != nil {
		w := watcher
		d.lifecycle.AddWorker()
		go func() {
			defer d.lifecycle.WorkerDone()
			if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Warn("file watcher stopped", ports.Err(err))
			}
		}()
	}

	if err := d.lifecycle.TransitionTo(app.StateRunning, "loops started"); err != nil {
		return err
	}
	return nil
}

// rotationSources assembles the ordered source list: fixed static
// content, caller-supplied sources, or the built-in screens, with the
// inbox's rotating view always as one ordinary slot.
func (d *Daemon) rotationSources(static *StaticText) []ports.Source {
	if static != nil {
		align := domain.AlignExplicit
		if static.Center {
			align = domain.AlignCenter
		}
		return []ports.Source{sources.NewStatic(static.Line1, static.Line2, align)}
	}

	list := d.opts.sources
	if list == nil {
		list = []ports.Source{
			sources.NewClockStats(),
			sources.NewHostIP(d.logger),
		}
	}
	return append(list, app.NewRotatingSource(d.inbox, d.opts.now))
}

// Stop gracefully shuts down the daemon. The tick loop finishes its
// in-flight write, then the transport is closed. Returns nil on
// graceful shutdown, ErrShutdownTimeout if workers had to be abandoned.
// On a crashed daemon Stop only cleans up (workers reaped, transport
// closed) and returns nil; the state stays Crashed.
func (d *Daemon) Stop() error {
	d.mu.Lock()

	if d.lifecycle.State() == app.StateCrashed {
		cancel := d.cancel
		d.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		_ = d.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
		d.closeTransport()
		return nil
	}

	if !d.lifecycle.CanStop() {
		d.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := d.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		d.mu.Unlock()
		return err
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()

	err := d.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
	d.closeTransport()

	if err != nil {
		_ = d.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = d.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// closeTransport closes and forgets the transport exactly once. Both
// the crash path and Stop() funnel through here, so whichever runs
// second finds nothing left to close.
func (d *Daemon) closeTransport() {
	d.mu.Lock()
	transport := d.transport
	d.transport = nil
	d.mu.Unlock()

	if transport == nil {
		return
	}
	if err := transport.Close(); err != nil {
		d.logger.Warn("transport close failed", ports.Err(err))
	}
}
