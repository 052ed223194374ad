package ports

import (
	"context"
	"time"

	"github.com/mkoskinen/vfd-display/internal/domain"
)

// Source produces display content for one rotation slot.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// Produce returns the source's current content, or ok=false to
	// skip this slot. A skipped slot costs no rotation time; the
	// scheduler moves straight to the next source. Implementations
	// that probe the environment must bound their own delays well
	// below the scheduler tick period and report ok=false on failure.
	Produce(ctx context.Context) (c domain.Content, ok bool)
}

// MessageSink accepts externally submitted messages. Implementations
// must be safe to call concurrently with the tick loop.
type MessageSink interface {
	// Submit installs raw two-line text as the pending message,
	// replacing any previous one.
	Submit(raw1, raw2 string, now time.Time)
}
