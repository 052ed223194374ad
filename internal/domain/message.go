package domain

import "time"

// Default display windows for externally submitted messages.
const (
	// DefaultInterruptWindow is how long a new message takes exclusive
	// display priority over rotation.
	DefaultInterruptWindow = 30 * time.Second

	// DefaultFreshnessWindow is how long a message stays in the
	// rotation pool after its interrupt window; zero means forever.
	DefaultFreshnessWindow = 12 * time.Hour
)

// MessageStatus describes where a submitted message is in its lifecycle.
type MessageStatus int

const (
	// MessageEmpty means no message is pending.
	MessageEmpty MessageStatus = iota

	// MessageInterrupting means the message preempts rotation.
	MessageInterrupting

	// MessageRotating means the message competes as an ordinary
	// rotation source.
	MessageRotating

	// MessageExpired means the message is stale and must be dropped.
	MessageExpired
)

// String returns a human-readable representation of the status.
func (s MessageStatus) String() string {
	switch s {
	case MessageEmpty:
		return "empty"
	case MessageInterrupting:
		return "interrupting"
	case MessageRotating:
		return "rotating"
	case MessageExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Message is an externally submitted two-line text with its arrival
// time and display windows.
type Message struct {
	Content   Content
	ArrivedAt time.Time

	// InterruptWindow is the exclusive-priority duration after arrival.
	InterruptWindow time.Duration

	// FreshnessWindow is the total lifetime; zero means unbounded.
	FreshnessWindow time.Duration
}

// StatusAt reports the message lifecycle stage at the given instant,
// derived purely from its age against the two windows.
func (m Message) StatusAt(now time.Time) MessageStatus {
	age := now.Sub(m.ArrivedAt)
	switch {
	case age < m.InterruptWindow:
		return MessageInterrupting
	case m.FreshnessWindow == 0 || age < m.FreshnessWindow:
		return MessageRotating
	default:
		return MessageExpired
	}
}
