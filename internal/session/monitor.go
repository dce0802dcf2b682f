// Package session keeps a server login alive while the user is active and
// warns before it lapses.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

const (
	DefaultTimeout = 30 * time.Minute
	DefaultWarning = 5 * time.Minute
)

// Phase is where a session stands relative to its timeout.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseWarning
	PhaseExpired
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseWarning:
		return "warning"
	case PhaseExpired:
		return "expired"
	}
	return "unknown"
}

// Status is the result of a check.
type Status struct {
	Phase     Phase
	Remaining time.Duration
}

// Extender refreshes the server-side session.
type Extender interface {
	ExtendSession(ctx context.Context) error
}

// Options configures a Monitor.
type Options struct {
	Timeout time.Duration
	Warning time.Duration
	Now     func() time.Time
	Logger  zerolog.Logger

	// Logout drops the stored session once it has expired.
	Logout func() error

	// Notify shows a desktop notification. Defaults to beeep; set to a
	// no-op in tests.
	Notify func(title, message string) error
}

// Monitor tracks user activity against the session timeout.
type Monitor struct {
	timeout  time.Duration
	warning  time.Duration
	now      func() time.Time
	extender Extender
	logout   func() error
	notify   func(title, message string) error
	log      zerolog.Logger

	mu           sync.Mutex
	lastActivity time.Time
	phase        Phase
}

// NewMonitor starts tracking from now.
func NewMonitor(extender Extender, opts Options) *Monitor {
	m := &Monitor{
		timeout:  opts.Timeout,
		warning:  opts.Warning,
		now:      opts.Now,
		extender: extender,
		logout:   opts.Logout,
		notify:   opts.Notify,
		log:      opts.Logger,
	}
	if m.timeout <= 0 {
		m.timeout = DefaultTimeout
	}
	if m.warning <= 0 || m.warning >= m.timeout {
		m.warning = min(DefaultWarning, m.timeout/2)
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.notify == nil {
		m.notify = func(title, message string) error {
			return beeep.Notify(title, message, "")
		}
	}
	m.lastActivity = m.now()
	return m
}

// Touch records user activity. Activity while the warning is showing
// extends the session on the server.
func (m *Monitor) Touch(ctx context.Context) error {
	m.mu.Lock()
	if m.phase == PhaseExpired {
		m.mu.Unlock()
		return nil
	}
	m.lastActivity = m.now()
	warned := m.phase == PhaseWarning
	m.mu.Unlock()

	if warned {
		return m.Extend(ctx)
	}
	return nil
}

// Extend refreshes the session on the server and restarts the timeout.
func (m *Monitor) Extend(ctx context.Context) error {
	m.mu.Lock()
	if m.phase == PhaseExpired {
		m.mu.Unlock()
		return jerrors.ErrUnauthorized
	}
	m.lastActivity = m.now()
	m.phase = PhaseActive
	m.mu.Unlock()

	err := m.extender.ExtendSession(ctx)
	if errors.Is(err, jerrors.ErrUnauthorized) {
		// The server already dropped the session.
		m.expire()
	}
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to extend session")
		return err
	}
	m.log.Debug().Msg("session extended")
	return nil
}

// Check evaluates the timeout at the current time. Crossing into the
// warning window sends a desktop notification once; crossing the
// timeout logs out.
func (m *Monitor) Check() Status {
	m.mu.Lock()
	if m.phase == PhaseExpired {
		m.mu.Unlock()
		return Status{Phase: PhaseExpired}
	}

	remaining := m.timeout - m.now().Sub(m.lastActivity)
	var enteredWarning bool
	switch {
	case remaining <= 0:
		m.mu.Unlock()
		m.expire()
		return Status{Phase: PhaseExpired}
	case remaining <= m.warning:
		enteredWarning = m.phase != PhaseWarning
		m.phase = PhaseWarning
	default:
		m.phase = PhaseActive
	}
	status := Status{Phase: m.phase, Remaining: remaining}
	m.mu.Unlock()

	if enteredWarning {
		msg := fmt.Sprintf("Your session will expire in %s due to inactivity.", Countdown(remaining))
		if err := m.notify("jukebar session", msg); err != nil {
			m.log.Debug().Err(err).Msg("desktop notification failed")
		}
	}
	return status
}

func (m *Monitor) expire() {
	m.mu.Lock()
	if m.phase == PhaseExpired {
		m.mu.Unlock()
		return
	}
	m.phase = PhaseExpired
	m.mu.Unlock()

	m.log.Info().Msg("session expired")
	if m.logout != nil {
		if err := m.logout(); err != nil {
			m.log.Warn().Err(err).Msg("failed to drop expired session")
		}
	}
}

// Run checks the session every interval and sends each status on the
// returned channel until ctx is cancelled or the session expires.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) <-chan Status {
	out := make(chan Status, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st := m.Check()
				select {
				case out <- st:
				case <-ctx.Done():
					return
				}
				if st.Phase == PhaseExpired {
					return
				}
			}
		}
	}()
	return out
}

// Countdown formats d as m:ss, the way the warning shows it.
func Countdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
