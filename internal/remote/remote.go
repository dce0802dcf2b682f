// Package remote lets one-shot CLI commands drive a player running in
// another process. Both sides share the state store: commands are
// written under a key the running player watches, and the player
// publishes its pid and status for the commands to find it.
package remote

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessro/jukebar/internal/core"
	jerrors "github.com/tessro/jukebar/internal/errors"
)

// Store keys shared between a running player and remote commands.
const (
	KeyCommand = "remoteCommand"
	KeyPID     = "playerPid"
	KeyStatus  = "playerStatus"
)

// Verb is a remote playback command.
type Verb string

const (
	VerbPause  Verb = "pause"
	VerbResume Verb = "resume"
	VerbToggle Verb = "toggle"
	VerbNext   Verb = "next"
	VerbPrev   Verb = "prev"
	VerbStop   Verb = "stop"
)

// Player status values published under KeyStatus.
const (
	StatusPlaying = "playing"
	StatusPaused  = "paused"
	StatusStopped = "stopped"
)

// ParseVerb validates a verb name.
func ParseVerb(s string) (Verb, error) {
	switch v := Verb(strings.ToLower(s)); v {
	case VerbPause, VerbResume, VerbToggle, VerbNext, VerbPrev, VerbStop:
		return v, nil
	}
	return "", jerrors.Validation("unknown remote command %q", s)
}

// Command is a verb stamped with a sequence number. The running player
// executes each sequence number at most once.
type Command struct {
	Seq  int64
	Verb Verb
}

func (c Command) String() string {
	return fmt.Sprintf("%d:%s", c.Seq, c.Verb)
}

// ParseCommand parses the "<seq>:<verb>" form stored under KeyCommand.
func ParseCommand(s string) (Command, error) {
	seq, verb, ok := strings.Cut(s, ":")
	if !ok {
		return Command{}, fmt.Errorf("malformed remote command %q", s)
	}
	n, err := strconv.ParseInt(seq, 10, 64)
	if err != nil {
		return Command{}, fmt.Errorf("malformed remote command %q: %w", s, err)
	}
	v, err := ParseVerb(verb)
	if err != nil {
		return Command{}, err
	}
	return Command{Seq: n, Verb: v}, nil
}

// Store is the shared key-value store.
type Store interface {
	core.Store
	Delete(key string) error
}

// Send queues verb for the running player.
func Send(s Store, verb Verb) error {
	cmd := Command{Seq: time.Now().UnixNano(), Verb: verb}
	return s.Set(KeyCommand, cmd.String())
}

// Running reports whether another live process has claimed the store.
func Running(s Store) bool {
	pid, ok := PID(s)
	if !ok || pid == os.Getpid() {
		return false
	}
	return alive(pid)
}

// PID returns the pid recorded by the running player.
func PID(s Store) (int, bool) {
	v, ok := s.Get(KeyPID)
	if !ok || v == "" {
		return 0, false
	}
	pid, err := strconv.Atoi(v)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func alive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

// Controller is the playback surface remote commands act on.
type Controller interface {
	Play() error
	Pause() error
	TogglePlayPause() error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	SetVolume(level float64)
	State() core.PlaybackState
}

// Server executes remote commands against a controller.
type Server struct {
	store Store
	ctrl  Controller
	log   zerolog.Logger
	stop  func()

	mu      sync.Mutex
	lastSeq int64
	status  string
}

// NewServer creates a server. stop runs when a VerbStop arrives.
func NewServer(store Store, ctrl Controller, log zerolog.Logger, stop func()) *Server {
	return &Server{store: store, ctrl: ctrl, log: log, stop: stop}
}

// Claim records this process as the running player. Commands already
// queued before the claim are ignored.
func (s *Server) Claim() error {
	s.mu.Lock()
	if v, ok := s.store.Get(KeyCommand); ok {
		if cmd, err := ParseCommand(v); err == nil {
			s.lastSeq = cmd.Seq
		}
	}
	s.mu.Unlock()
	return s.store.Set(KeyPID, strconv.Itoa(os.Getpid()))
}

// Release drops the claim if this process still holds it.
func (s *Server) Release() error {
	if pid, ok := PID(s.store); !ok || pid != os.Getpid() {
		return nil
	}
	if err := s.store.Delete(KeyPID); err != nil {
		return err
	}
	return s.store.Set(KeyStatus, StatusStopped)
}

// Handle runs any new command and applies a volume written by another
// process. Call it after every store reload.
func (s *Server) Handle(ctx context.Context) error {
	if v, ok := s.store.Get(core.KeyVolume); ok {
		if level, err := strconv.ParseFloat(v, 64); err == nil {
			if st := s.ctrl.State(); diff(st.Volume, level) > 1e-9 {
				s.ctrl.SetVolume(level)
			}
		}
	}

	v, ok := s.store.Get(KeyCommand)
	if !ok || v == "" {
		return nil
	}
	cmd, err := ParseCommand(v)
	if err != nil {
		s.log.Warn().Err(err).Msg("ignoring remote command")
		return nil
	}

	s.mu.Lock()
	if cmd.Seq <= s.lastSeq {
		s.mu.Unlock()
		return nil
	}
	s.lastSeq = cmd.Seq
	s.mu.Unlock()

	s.log.Debug().Str("verb", string(cmd.Verb)).Msg("remote command")
	return s.execute(ctx, cmd.Verb)
}

func (s *Server) execute(ctx context.Context, verb Verb) error {
	switch verb {
	case VerbPause:
		return s.ctrl.Pause()
	case VerbResume:
		return s.ctrl.Play()
	case VerbToggle:
		return s.ctrl.TogglePlayPause()
	case VerbNext:
		return s.ctrl.Next(ctx)
	case VerbPrev:
		return s.ctrl.Previous(ctx)
	case VerbStop:
		if s.stop != nil {
			s.stop()
		}
	}
	return nil
}

// Publish records the playback status for remote commands to read.
// Repeated statuses are not rewritten.
func (s *Server) Publish(st core.PlaybackState) {
	status := StatusOf(st)

	s.mu.Lock()
	if status == s.status {
		s.mu.Unlock()
		return
	}
	s.status = status
	s.mu.Unlock()

	if err := s.store.Set(KeyStatus, status); err != nil {
		s.log.Warn().Err(err).Msg("failed to publish player status")
	}
}

// StatusOf maps a playback state to a published status.
func StatusOf(st core.PlaybackState) string {
	switch {
	case st.IsPlaying:
		return StatusPlaying
	case st.HasSong():
		return StatusPaused
	}
	return StatusStopped
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
