package remote

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tessro/jukebar/internal/core"
)

type memStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (s *memStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *memStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

type fakeController struct {
	state core.PlaybackState
	calls []string
}

func (c *fakeController) Play() error {
	c.calls = append(c.calls, "play")
	c.state.IsPlaying = true
	return nil
}

func (c *fakeController) Pause() error {
	c.calls = append(c.calls, "pause")
	c.state.IsPlaying = false
	return nil
}

func (c *fakeController) TogglePlayPause() error {
	c.calls = append(c.calls, "toggle")
	c.state.IsPlaying = !c.state.IsPlaying
	return nil
}

func (c *fakeController) Next(ctx context.Context) error {
	c.calls = append(c.calls, "next")
	return nil
}

func (c *fakeController) Previous(ctx context.Context) error {
	c.calls = append(c.calls, "prev")
	return nil
}

func (c *fakeController) SetVolume(level float64) {
	c.calls = append(c.calls, "volume:"+strconv.FormatFloat(level, 'f', -1, 64))
	c.state.Volume = level
}

func (c *fakeController) State() core.PlaybackState { return c.state }

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    Command
		wantErr bool
	}{
		{"12:pause", Command{Seq: 12, Verb: VerbPause}, false},
		{"7:NEXT", Command{Seq: 7, Verb: VerbNext}, false},
		{"pause", Command{}, true},
		{"x:pause", Command{}, true},
		{"3:dance", Command{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommand(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCommand(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	c := Command{Seq: 42, Verb: VerbPrev}
	if got := c.String(); got != "42:prev" {
		t.Errorf("String() = %q", got)
	}
	back, err := ParseCommand(c.String())
	if err != nil || back != c {
		t.Errorf("ParseCommand(String()) = %+v, %v", back, err)
	}
}

func TestHandleRunsEachCommandOnce(t *testing.T) {
	store := newMemStore()
	ctrl := &fakeController{state: core.PlaybackState{CurrentSongID: "1", IsPlaying: true, Volume: 0.5}}
	srv := NewServer(store, ctrl, zerolog.Nop(), nil)
	if err := srv.Claim(); err != nil {
		t.Fatal(err)
	}

	_ = store.Set(KeyCommand, Command{Seq: 1, Verb: VerbPause}.String())
	for range 2 {
		if err := srv.Handle(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	_ = store.Set(KeyCommand, Command{Seq: 2, Verb: VerbNext}.String())
	if err := srv.Handle(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []string{"pause", "next"}
	if len(ctrl.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", ctrl.calls, want)
	}
	for i := range want {
		if ctrl.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, ctrl.calls[i], want[i])
		}
	}
}

func TestClaimIgnoresQueuedCommands(t *testing.T) {
	store := newMemStore()
	_ = store.Set(KeyCommand, Command{Seq: 5, Verb: VerbNext}.String())
	ctrl := &fakeController{}
	srv := NewServer(store, ctrl, zerolog.Nop(), nil)
	if err := srv.Claim(); err != nil {
		t.Fatal(err)
	}
	if err := srv.Handle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(ctrl.calls) != 0 {
		t.Errorf("calls = %v, want none", ctrl.calls)
	}
	if got, _ := store.Get(KeyPID); got != strconv.Itoa(os.Getpid()) {
		t.Errorf("pid = %q", got)
	}
}

func TestHandleAppliesExternalVolume(t *testing.T) {
	store := newMemStore()
	ctrl := &fakeController{state: core.PlaybackState{Volume: 0.7}}
	srv := NewServer(store, ctrl, zerolog.Nop(), nil)

	_ = store.Set(core.KeyVolume, "0.7")
	_ = srv.Handle(context.Background())
	if len(ctrl.calls) != 0 {
		t.Fatalf("unchanged volume applied: %v", ctrl.calls)
	}

	_ = store.Set(core.KeyVolume, "0.25")
	_ = srv.Handle(context.Background())
	if len(ctrl.calls) != 1 || ctrl.calls[0] != "volume:0.25" {
		t.Errorf("calls = %v, want [volume:0.25]", ctrl.calls)
	}
}

func TestStopVerbCallsStop(t *testing.T) {
	store := newMemStore()
	stopped := false
	srv := NewServer(store, &fakeController{}, zerolog.Nop(), func() { stopped = true })
	_ = store.Set(KeyCommand, Command{Seq: 9, Verb: VerbStop}.String())
	_ = srv.Handle(context.Background())
	if !stopped {
		t.Error("stop not called")
	}
}

func TestPublishAndRelease(t *testing.T) {
	store := newMemStore()
	srv := NewServer(store, &fakeController{}, zerolog.Nop(), nil)
	if err := srv.Claim(); err != nil {
		t.Fatal(err)
	}

	srv.Publish(core.PlaybackState{CurrentSongID: "1", IsPlaying: true})
	if got, _ := store.Get(KeyStatus); got != StatusPlaying {
		t.Errorf("status = %q, want %q", got, StatusPlaying)
	}
	srv.Publish(core.PlaybackState{CurrentSongID: "1"})
	if got, _ := store.Get(KeyStatus); got != StatusPaused {
		t.Errorf("status = %q, want %q", got, StatusPaused)
	}

	if err := srv.Release(); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Get(KeyPID); ok {
		t.Error("pid still recorded after release")
	}
	if got, _ := store.Get(KeyStatus); got != StatusStopped {
		t.Errorf("status = %q, want %q", got, StatusStopped)
	}
}

func TestRunning(t *testing.T) {
	store := newMemStore()
	if Running(store) {
		t.Error("Running() with no pid = true")
	}

	_ = store.Set(KeyPID, strconv.Itoa(os.Getpid()))
	if Running(store) {
		t.Error("Running() for own pid = true")
	}

	_ = store.Set(KeyPID, "garbage")
	if Running(store) {
		t.Error("Running() with malformed pid = true")
	}
}

func TestSend(t *testing.T) {
	store := newMemStore()
	if err := Send(store, VerbToggle); err != nil {
		t.Fatal(err)
	}
	v, _ := store.Get(KeyCommand)
	cmd, err := ParseCommand(v)
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Verb != VerbToggle || cmd.Seq <= 0 {
		t.Errorf("sent %+v", cmd)
	}
}
