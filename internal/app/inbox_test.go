package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mkoskinen/vfd-display/internal/domain"
	"github.com/mkoskinen/vfd-display/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

func TestInbox_Lifecycle(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	in := NewInbox(30*time.Second, 12*time.Hour, mockLogger{})

	if _, status := in.Peek(t0); status != domain.MessageEmpty {
		t.Fatalf("fresh inbox status = %v, want empty", status)
	}

	in.Submit("ALERT", "Server down", t0)

	tests := []struct {
		name string
		at   time.Time
		want domain.MessageStatus
	}{
		{"on arrival", t0, domain.MessageInterrupting},
		{"inside interrupt window", t0.Add(29 * time.Second), domain.MessageInterrupting},
		{"after interrupt window", t0.Add(31 * time.Second), domain.MessageRotating},
		{"near freshness limit", t0.Add(12*time.Hour - time.Second), domain.MessageRotating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, status := in.Peek(tt.at)
			if status != tt.want {
				t.Fatalf("status = %v, want %v", status, tt.want)
			}
			if c.Pair.Line1 != "ALERT" || c.Pair.Line2 != "Server down" {
				t.Errorf("content = %+v", c.Pair)
			}
			if c.Align != domain.AlignCenter {
				t.Errorf("align = %v, want center", c.Align)
			}
		})
	}
}

func TestInbox_LazyExpiry(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	in := NewInbox(30*time.Second, 12*time.Hour, mockLogger{})
	in.Submit("old", "", t0)

	if _, status := in.Peek(t0.Add(12*time.Hour + time.Second)); status != domain.MessageEmpty {
		t.Fatalf("expired message status = %v, want empty", status)
	}
	// Entry was dropped, not just hidden.
	if _, status := in.Peek(t0); status != domain.MessageEmpty {
		t.Errorf("status after expiry = %v, want empty", status)
	}
}

func TestInbox_UnboundedFreshness(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	in := NewInbox(30*time.Second, 0, mockLogger{})
	in.Submit("keep", "", t0)

	if _, status := in.Peek(t0.Add(1000 * time.Hour)); status != domain.MessageRotating {
		t.Errorf("status = %v, want rotating forever", status)
	}
}

func TestInbox_LastWriteWins(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	in := NewInbox(30*time.Second, 0, mockLogger{})

	in.Submit("first", "", t0)
	in.Submit("second", "", t0.Add(time.Second))

	c, status := in.Peek(t0.Add(2 * time.Second))
	if status != domain.MessageInterrupting {
		t.Fatalf("status = %v", status)
	}
	if c.Pair.Line1 != "second" {
		t.Errorf("line1 = %q, want %q", c.Pair.Line1, "second")
	}
}

func TestInbox_AlignmentFromWhitespace(t *testing.T) {
	t0 := time.Now()
	in := NewInbox(30*time.Second, 0, mockLogger{})
	in.Submit(" pinned left", "", t0)

	c, _ := in.Peek(t0)
	if c.Align != domain.AlignExplicit {
		t.Errorf("align = %v, want explicit", c.Align)
	}
	if c.Pair.Line1 != " pinned left" {
		t.Errorf("raw whitespace not preserved: %q", c.Pair.Line1)
	}
}

func TestInbox_ConcurrentSubmitPeek(t *testing.T) {
	in := NewInbox(30*time.Second, 0, mockLogger{})
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				in.Submit("line one", "line two", start)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c, status := in.Peek(start)
				if status == domain.MessageEmpty {
					continue
				}
				// Never observe a half-written entry.
				if c.Pair.Line1 != "line one" || c.Pair.Line2 != "line two" {
					t.Errorf("torn read: %+v", c.Pair)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestRotatingSource(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	in := NewInbox(30*time.Second, 12*time.Hour, mockLogger{})
	src := NewRotatingSource(in, func() time.Time { return now })

	if _, ok := src.Produce(context.Background()); ok {
		t.Error("empty inbox should skip its slot")
	}

	in.Submit("note", "", t0)
	if _, ok := src.Produce(context.Background()); ok {
		t.Error("interrupting message should not appear in rotation")
	}

	now = t0.Add(time.Minute)
	c, ok := src.Produce(context.Background())
	if !ok || c.Pair.Line1 != "note" {
		t.Errorf("Produce = (%+v, %v), want rotating message", c.Pair, ok)
	}
}
