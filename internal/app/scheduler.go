package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mkoskinen/vfd-display/internal/domain"
	"github.com/mkoskinen/vfd-display/internal/ports"
)

// Default scheduling intervals. The tick period keeps the hardware from
// falling back to its built-in intro screen (which happens after about
// two seconds of silence); the rotation interval is how long each
// content source holds the display.
const (
	DefaultTickInterval     = 500 * time.Millisecond
	DefaultRotationInterval = 30 * time.Second

	// DefaultMaxWriteFailures is how many consecutive transport write
	// failures are tolerated before the display is presumed
	// disconnected and the scheduler gives up.
	DefaultMaxWriteFailures = 3
)

// SchedulerConfig contains configuration for the tick loop.
type SchedulerConfig struct {
	TickInterval     time.Duration
	RotationInterval time.Duration
	MaxWriteFailures int

	// WaitForMessage suppresses the rotation sources until the first
	// external message arrives. Blank frames are still written every
	// tick to hold off the intro screen.
	WaitForMessage bool
}

// Scheduler drives the display. Every tick it picks between the pending
// interrupt and the rotation sources, frames the winner and writes it
// out. A frame is written on every tick even when nothing changed,
// since a skipped tick risks the hardware's idle-screen timeout.
//
// The rotation cursor is owned solely by the tick loop; the only shared
// state is the Inbox.
type Scheduler struct {
	cfg       SchedulerConfig
	geom      domain.Geometry
	inbox     *Inbox
	sources   []ports.Source
	transport ports.Transport
	logger    ports.Logger
	now       func() time.Time

	index       int
	lastAdvance time.Time
	interrupted bool
	waiting     bool
	lastFrame   []byte
	failures    int
}

// NewScheduler creates a scheduler. The source list is fixed for the
// scheduler's lifetime; the inbox's rotating view should already be one
// of the sources if rotation is wanted.
func NewScheduler(
	cfg SchedulerConfig,
	geom domain.Geometry,
	inbox *Inbox,
	sources []ports.Source,
	transport ports.Transport,
	logger ports.Logger,
	now func() time.Time,
) *Scheduler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.RotationInterval <= 0 {
		cfg.RotationInterval = DefaultRotationInterval
	}
	if cfg.MaxWriteFailures <= 0 {
		cfg.MaxWriteFailures = DefaultMaxWriteFailures
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		cfg:       cfg,
		geom:      geom,
		inbox:     inbox,
		sources:   sources,
		transport: transport,
		logger:    logger,
		now:       now,
		waiting:   cfg.WaitForMessage,
	}
}

// Run executes the tick loop until the context is cancelled. The first
// frame goes out immediately rather than a full tick later. An
// in-flight write always completes before cancellation is observed, so
// no write is silently dropped on shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	s.lastAdvance = s.now()

	if err := s.Tick(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

// Tick runs one scheduling decision and transport write. Returns a
// fatal error only when the write-failure budget is exhausted.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.now()

	content, ok := s.pick(ctx, now)
	if ok {
		s.lastFrame = domain.Frame(content, s.geom)
	} else if s.lastFrame == nil {
		// Nothing to show yet: a blank frame still resets the
		// hardware's idle timer.
		s.lastFrame = domain.Frame(domain.Content{}, s.geom)
	}
	return s.write(s.lastFrame)
}

// pick resolves the content for this tick: an interrupting message
// wins outright; otherwise the rotation cursor advances on its own
// interval and empty sources are skipped without consuming rotation
// time. ok=false means every source was empty this tick.
func (s *Scheduler) pick(ctx context.Context, now time.Time) (domain.Content, bool) {
	content, status := s.inbox.Peek(now)

	if status == domain.MessageInterrupting {
		if !s.interrupted {
			s.logger.Info("interrupt active")
			s.interrupted = true
		}
		s.waiting = false
		return content, true
	}

	if s.interrupted {
		// Interrupt just ended: resume rotation at the same slot with
		// a fresh hold interval.
		s.interrupted = false
		s.lastAdvance = now
		s.logger.Info("interrupt ended, resuming rotation", ports.Int("index", s.index))
	}

	if s.waiting {
		if status == domain.MessageEmpty {
			return domain.Content{}, false
		}
		s.waiting = false
	}

	if len(s.sources) == 0 {
		return domain.Content{}, false
	}

	if now.Sub(s.lastAdvance) >= s.cfg.RotationInterval {
		s.index = (s.index + 1) % len(s.sources)
		s.lastAdvance = now
	}

	// Bounded by the source count so a tick can never spin when every
	// source is empty.
	for tries := 0; tries < len(s.sources); tries++ {
		if c, ok := s.sources[s.index].Produce(ctx); ok {
			return c, true
		}
		s.index = (s.index + 1) % len(s.sources)
	}
	return domain.Content{}, false
}

// write sends one frame, tracking consecutive failures. A failed write
// is retried at the next tick after re-opening the device; once the
// failure budget is spent the display is presumed disconnected.
func (s *Scheduler) write(frame []byte) error {
	if err := s.transport.Write(frame); err != nil {
		s.failures++
		s.logger.Error("display write failed",
			ports.Err(err),
			ports.Int("consecutive", s.failures),
		)
		if s.failures >= s.cfg.MaxWriteFailures {
			return fmt.Errorf("%w: %d consecutive write failures",
				domain.ErrTransportDown, s.failures)
		}
		if err := s.transport.Reopen(); err != nil {
			s.logger.Warn("display reopen failed", ports.Err(err))
		}
		return nil
	}
	if s.failures > 0 {
		s.logger.Info("display write recovered", ports.Int("after_failures", s.failures))
	}
	s.failures = 0
	return nil
}
