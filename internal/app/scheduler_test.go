package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mkoskinen/vfd-display/internal/domain"
	"github.com/mkoskinen/vfd-display/internal/ports"
)

// fakeTransport records every written frame and can be made to fail.
type fakeTransport struct {
	frames   [][]byte
	failNext int
	reopens  int
}

func (f *fakeTransport) Write(frame []byte) error {
	if f.failNext > 0 {
		f.failNext--
		return errors.New("device gone")
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	f.frames = append(f.frames, cp)
	return nil
}

func (f *fakeTransport) Reopen() error { f.reopens++; return nil }
func (f *fakeTransport) Close() error  { return nil }

// fakeSource yields fixed lines, or skips when empty is set.
type fakeSource struct {
	name  string
	line1 string
	empty bool
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Produce(ctx context.Context) (domain.Content, bool) {
	if s.empty {
		return domain.Content{}, false
	}
	return domain.Centered(s.line1, ""), true
}

// testClock is a manually advanced clock.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScheduler(cfg SchedulerConfig, inbox *Inbox, sources []*fakeSource, tr *fakeTransport, clk *testClock) *Scheduler {
	list := make([]ports.Source, 0, len(sources))
	for _, s := range sources {
		list = append(list, s)
	}
	s := NewScheduler(cfg, domain.DefaultGeometry(), inbox, list, tr, mockLogger{}, clk.now)
	s.lastAdvance = clk.t
	return s
}

func visibleLine1(t *testing.T, frame []byte) string {
	t.Helper()
	g := domain.DefaultGeometry()
	if len(frame) != len(domain.CmdHome)+g.FrameSize() {
		t.Fatalf("unexpected frame length %d", len(frame))
	}
	return strings.TrimSpace(string(frame[len(domain.CmdHome) : len(domain.CmdHome)+g.VisibleColumns]))
}

func TestScheduler_WritesEveryTick(t *testing.T) {
	clk := &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{}
	in := NewInbox(30*time.Second, 0, mockLogger{})
	s := newTestScheduler(SchedulerConfig{}, in, []*fakeSource{{name: "a", line1: "aaa"}}, tr, clk)

	for i := 0; i < 5; i++ {
		if err := s.Tick(context.Background()); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		clk.advance(500 * time.Millisecond)
	}

	if len(tr.frames) != 5 {
		t.Fatalf("writes = %d, want one per tick", len(tr.frames))
	}
	// Unchanged content is still re-sent byte-identically.
	if !bytes.Equal(tr.frames[0], tr.frames[4]) {
		t.Error("repeated frames differ")
	}
}

func TestScheduler_RotationAdvance(t *testing.T) {
	clk := &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{}
	in := NewInbox(30*time.Second, 0, mockLogger{})
	sources := []*fakeSource{{name: "a", line1: "aaa"}, {name: "b", line1: "bbb"}}
	s := newTestScheduler(SchedulerConfig{RotationInterval: 30 * time.Second}, in, sources, tr, clk)

	s.Tick(context.Background())
	clk.advance(29 * time.Second)
	s.Tick(context.Background())
	clk.advance(2 * time.Second) // crosses the rotation interval
	s.Tick(context.Background())

	got := []string{
		visibleLine1(t, tr.frames[0]),
		visibleLine1(t, tr.frames[1]),
		visibleLine1(t, tr.frames[2]),
	}
	want := []string{"aaa", "aaa", "bbb"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tick %d shows %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScheduler_SkipsEmptySources(t *testing.T) {
	clk := &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{}
	in := NewInbox(30*time.Second, 0, mockLogger{})
	sources := []*fakeSource{
		{name: "s0", line1: "s0"},
		{name: "s1", line1: "s1"},
		{name: "s2", empty: true},
		{name: "s3", line1: "s3"},
	}
	s := newTestScheduler(SchedulerConfig{RotationInterval: 30 * time.Second}, in, sources, tr, clk)

	// Two full cycles: the empty source never appears and never stalls.
	var seen []string
	for i := 0; i < 6; i++ {
		if err := s.Tick(context.Background()); err != nil {
			t.Fatal(err)
		}
		seen = append(seen, visibleLine1(t, tr.frames[len(tr.frames)-1]))
		clk.advance(30 * time.Second)
	}

	want := []string{"s0", "s1", "s3", "s0", "s1", "s3"}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("rotation order = %v, want %v", seen, want)
			break
		}
	}
}

func TestScheduler_AllSourcesEmptyHoldsFrame(t *testing.T) {
	clk := &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{}
	in := NewInbox(30*time.Second, 0, mockLogger{})
	flaky := &fakeSource{name: "flaky", line1: "shown"}
	s := newTestScheduler(SchedulerConfig{}, in, []*fakeSource{flaky}, tr, clk)

	s.Tick(context.Background())
	flaky.empty = true
	clk.advance(500 * time.Millisecond)
	s.Tick(context.Background())

	if len(tr.frames) != 2 {
		t.Fatalf("writes = %d, want 2", len(tr.frames))
	}
	// The previous frame is held, and still written.
	if !bytes.Equal(tr.frames[0], tr.frames[1]) {
		t.Error("expected held frame while all sources empty")
	}
}

func TestScheduler_BlankFrameWhenNothingEverProduced(t *testing.T) {
	clk := &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{}
	in := NewInbox(30*time.Second, 0, mockLogger{})
	s := newTestScheduler(SchedulerConfig{}, in, []*fakeSource{{name: "e", empty: true}}, tr, clk)

	if err := s.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(tr.frames) != 1 {
		t.Fatal("expected a blank frame write")
	}
	if got := visibleLine1(t, tr.frames[0]); got != "" {
		t.Errorf("blank frame shows %q", got)
	}
}

func TestScheduler_InterruptPreemptsAndResumes(t *testing.T) {
	clk := &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{}
	in := NewInbox(30*time.Second, 12*time.Hour, mockLogger{})
	sources := []*fakeSource{
		{name: "s0", line1: "s0"},
		{name: "s1", line1: "s1"},
	}
	s := newTestScheduler(SchedulerConfig{RotationInterval: 30 * time.Second}, in, sources, tr, clk)

	// Advance into ROTATING(1).
	s.Tick(context.Background())
	clk.advance(30 * time.Second)
	s.Tick(context.Background())
	if got := visibleLine1(t, tr.frames[1]); got != "s1" {
		t.Fatalf("setup: showing %q, want s1", got)
	}

	// A datagram arrives: the very next tick shows it, centered.
	in.Submit("ALERT", "Server down", clk.t)
	clk.advance(500 * time.Millisecond)
	s.Tick(context.Background())
	if got := visibleLine1(t, tr.frames[2]); got != "ALERT" {
		t.Errorf("interrupt not shown: %q", got)
	}

	// Interrupt window elapses: rotation resumes at index 1, not 0.
	clk.advance(30 * time.Second)
	s.Tick(context.Background())
	if got := visibleLine1(t, tr.frames[3]); got != "s1" {
		t.Errorf("resumed at %q, want s1", got)
	}

	// And the resumed slot gets a fresh hold interval.
	clk.advance(29 * time.Second)
	s.Tick(context.Background())
	if got := visibleLine1(t, tr.frames[4]); got != "s1" {
		t.Errorf("slot advanced early to %q", got)
	}
}

func TestScheduler_WaitForMessage(t *testing.T) {
	clk := &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{}
	in := NewInbox(30*time.Second, 0, mockLogger{})
	sources := []*fakeSource{{name: "s0", line1: "s0"}}
	s := newTestScheduler(SchedulerConfig{WaitForMessage: true}, in, sources, tr, clk)

	// Before any message: blank frames only, but still written.
	s.Tick(context.Background())
	if got := visibleLine1(t, tr.frames[0]); got != "" {
		t.Fatalf("showing %q before first message", got)
	}

	in.Submit("first", "", clk.t)
	clk.advance(500 * time.Millisecond)
	s.Tick(context.Background())
	if got := visibleLine1(t, tr.frames[1]); got != "first" {
		t.Fatalf("message not shown: %q", got)
	}

	// Once a message has arrived, rotation sources are live.
	clk.advance(31 * time.Second)
	s.Tick(context.Background())
	if got := visibleLine1(t, tr.frames[2]); got == "" {
		t.Error("rotation still suppressed after first message")
	}
}

func TestScheduler_WriteFailureEscalation(t *testing.T) {
	clk := &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{failNext: 2}
	in := NewInbox(30*time.Second, 0, mockLogger{})
	s := newTestScheduler(SchedulerConfig{MaxWriteFailures: 3}, in, []*fakeSource{{name: "a", line1: "x"}}, tr, clk)

	// Two failures: retried, device re-opened, no fatal error.
	for i := 0; i < 2; i++ {
		if err := s.Tick(context.Background()); err != nil {
			t.Fatalf("tick %d escalated early: %v", i, err)
		}
		clk.advance(500 * time.Millisecond)
	}
	if tr.reopens != 2 {
		t.Errorf("reopens = %d, want 2", tr.reopens)
	}

	// Recovery resets the failure budget.
	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("recovered tick: %v", err)
	}

	// Three consecutive failures are fatal.
	tr.failNext = 3
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = s.Tick(context.Background())
	}
	if !errors.Is(err, domain.ErrTransportDown) {
		t.Errorf("error = %v, want ErrTransportDown", err)
	}
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	tr := &fakeTransport{}
	in := NewInbox(30*time.Second, 0, mockLogger{})
	s := NewScheduler(SchedulerConfig{TickInterval: 10 * time.Millisecond},
		domain.DefaultGeometry(), in, nil, tr, mockLogger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if len(tr.frames) == 0 {
		t.Error("no frames written before cancel")
	}
}
