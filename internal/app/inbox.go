package app

import (
	"context"
	"sync"
	"time"

	"github.com/mkoskinen/vfd-display/internal/domain"
	"github.com/mkoskinen/vfd-display/internal/ports"
)

// Inbox holds the most recently submitted external message. At most one
// message is pending; a new submission replaces the old one
// unconditionally. Submit runs on the receive loop and Peek on the tick
// loop, so the entry is swapped under a single mutex; a reader always
// observes either the old or the new message, never a mix.
type Inbox struct {
	mu  sync.Mutex
	msg *domain.Message

	interruptWindow time.Duration
	freshnessWindow time.Duration
	logger          ports.Logger
}

// NewInbox creates an inbox with the given display windows.
// A zero freshness window means messages never go stale.
func NewInbox(interruptWindow, freshnessWindow time.Duration, logger ports.Logger) *Inbox {
	if interruptWindow <= 0 {
		interruptWindow = domain.DefaultInterruptWindow
	}
	return &Inbox{
		interruptWindow: interruptWindow,
		freshnessWindow: freshnessWindow,
		logger:          logger,
	}
}

// Submit installs raw two-line text as the pending message, replacing
// any previous one. Alignment is derived from surrounding whitespace in
// the raw input: any leading or trailing space means the sender
// positioned the text themselves.
func (in *Inbox) Submit(raw1, raw2 string, now time.Time) {
	msg := &domain.Message{
		Content: domain.Content{
			Pair:  domain.LinePair{Line1: raw1, Line2: raw2},
			Align: domain.DetectAlignment(raw1, raw2),
		},
		ArrivedAt:       now,
		InterruptWindow: in.interruptWindow,
		FreshnessWindow: in.freshnessWindow,
	}

	in.mu.Lock()
	replaced := in.msg != nil
	in.msg = msg
	in.mu.Unlock()

	in.logger.Info("message accepted",
		ports.String("align", msg.Content.Align.String()),
		ports.Bool("replaced", replaced),
	)
}

// Peek reports the pending message's lifecycle stage and content at the
// given instant. Expired messages are dropped on the spot (lazy
// deletion; there is no background timer) and reported as empty.
func (in *Inbox) Peek(now time.Time) (domain.Content, domain.MessageStatus) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.msg == nil {
		return domain.Content{}, domain.MessageEmpty
	}
	status := in.msg.StatusAt(now)
	if status == domain.MessageExpired {
		in.msg = nil
		return domain.Content{}, domain.MessageEmpty
	}
	return in.msg.Content, status
}

// RotatingSource exposes the inbox's rotating state as an ordinary
// rotation source: it yields the message once its interrupt window has
// passed, and skips its slot otherwise.
type RotatingSource struct {
	inbox *Inbox
	now   func() time.Time
}

// NewRotatingSource wraps an inbox as a rotation source.
func NewRotatingSource(inbox *Inbox, now func() time.Time) *RotatingSource {
	if now == nil {
		now = time.Now
	}
	return &RotatingSource{inbox: inbox, now: now}
}

// Name identifies the source in logs.
func (s *RotatingSource) Name() string { return "inbox" }

// Produce yields the pending message while it is in its rotating stage.
func (s *RotatingSource) Produce(ctx context.Context) (domain.Content, bool) {
	c, status := s.inbox.Peek(s.now())
	if status != domain.MessageRotating {
		return domain.Content{}, false
	}
	return c, true
}
