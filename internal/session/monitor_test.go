package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeExtender struct {
	calls int
	err   error
}

func (e *fakeExtender) ExtendSession(ctx context.Context) error {
	e.calls++
	return e.err
}

type harness struct {
	m             *Monitor
	clock         *fakeClock
	ext           *fakeExtender
	logouts       int
	notifications []string
}

func newHarness() *harness {
	h := &harness{clock: &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}, ext: &fakeExtender{}}
	h.m = NewMonitor(h.ext, Options{
		Now:    h.clock.Now,
		Logout: func() error { h.logouts++; return nil },
		Notify: func(title, msg string) error {
			h.notifications = append(h.notifications, msg)
			return nil
		},
	})
	return h
}

func TestCheckPhases(t *testing.T) {
	h := newHarness()

	if st := h.m.Check(); st.Phase != PhaseActive || st.Remaining != 30*time.Minute {
		t.Errorf("fresh = %+v", st)
	}

	h.clock.Advance(25 * time.Minute)
	st := h.m.Check()
	if st.Phase != PhaseWarning || st.Remaining != 5*time.Minute {
		t.Errorf("at 25m = %+v", st)
	}
	if len(h.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(h.notifications))
	}

	h.clock.Advance(time.Minute)
	h.m.Check()
	if len(h.notifications) != 1 {
		t.Error("warning notification should fire once per warning window")
	}

	h.clock.Advance(4 * time.Minute)
	if st := h.m.Check(); st.Phase != PhaseExpired {
		t.Errorf("at 30m = %+v", st)
	}
	if h.logouts != 1 {
		t.Errorf("logouts = %d, want 1", h.logouts)
	}

	h.m.Check()
	if h.logouts != 1 {
		t.Error("expiry should log out only once")
	}
}

func TestActivityBeforeWarningDoesNotCallServer(t *testing.T) {
	h := newHarness()
	h.clock.Advance(20 * time.Minute)
	if err := h.m.Touch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h.ext.calls != 0 {
		t.Errorf("extend calls = %d, want 0", h.ext.calls)
	}

	h.clock.Advance(20 * time.Minute)
	if st := h.m.Check(); st.Phase != PhaseActive {
		t.Errorf("activity should push the timeout back, got %+v", st)
	}
}

func TestActivityDuringWarningExtends(t *testing.T) {
	h := newHarness()
	h.clock.Advance(26 * time.Minute)
	h.m.Check()

	if err := h.m.Touch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h.ext.calls != 1 {
		t.Errorf("extend calls = %d, want 1", h.ext.calls)
	}
	if st := h.m.Check(); st.Phase != PhaseActive || st.Remaining != 30*time.Minute {
		t.Errorf("after extend = %+v", st)
	}
}

func TestExtendUnauthorizedExpires(t *testing.T) {
	h := newHarness()
	h.ext.err = jerrors.ErrUnauthorized

	if err := h.m.Extend(context.Background()); !errors.Is(err, jerrors.ErrUnauthorized) {
		t.Fatalf("Extend() = %v", err)
	}
	if st := h.m.Check(); st.Phase != PhaseExpired {
		t.Errorf("phase = %v, want expired", st.Phase)
	}
	if h.logouts != 1 {
		t.Errorf("logouts = %d", h.logouts)
	}
}

func TestExtendNetworkErrorKeepsSession(t *testing.T) {
	h := newHarness()
	h.ext.err = jerrors.ErrNetwork

	if err := h.m.Extend(context.Background()); !errors.Is(err, jerrors.ErrNetwork) {
		t.Fatalf("Extend() = %v", err)
	}
	if st := h.m.Check(); st.Phase != PhaseActive {
		t.Errorf("phase = %v, want active", st.Phase)
	}
}

func TestCountdown(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Minute, "5:00"},
		{4*time.Minute + 9*time.Second, "4:09"},
		{59 * time.Second, "0:59"},
		{-time.Second, "0:00"},
	}
	for _, tt := range tests {
		if got := Countdown(tt.d); got != tt.want {
			t.Errorf("Countdown(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRunStopsOnExpiry(t *testing.T) {
	h := newHarness()
	h.clock.Advance(31 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var last Status
	for st := range h.m.Run(ctx, 5*time.Millisecond) {
		last = st
	}
	if last.Phase != PhaseExpired {
		t.Errorf("last status = %+v, want expired", last)
	}
}
