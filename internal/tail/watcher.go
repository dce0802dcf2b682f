package tail

import (
	"context"
	"strconv"
	"time"

	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/remote"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventSongChange EventType = iota
	EventSongComplete
	EventSongSkip
	EventPause
	EventResume
	EventVolumeChange
	EventStop
)

// Snapshot is the playback state a player persisted to the state store.
type Snapshot struct {
	SongID   string
	Status   string
	Volume   float64
	Position time.Duration
	Song     *core.Song // resolved metadata, when a lookup is configured
}

// HasSong returns true if a song id is recorded.
func (s *Snapshot) HasSong() bool {
	return s != nil && s.SongID != ""
}

// Playing returns true if the player reported it is playing.
func (s *Snapshot) Playing() bool {
	return s != nil && s.Status == remote.StatusPlaying
}

// VolumePercent returns the volume as a whole percentage.
func (s *Snapshot) VolumePercent() int {
	return int(s.Volume*100 + 0.5)
}

// SnapshotOf reads a snapshot from store values.
func SnapshotOf(values map[string]string) *Snapshot {
	s := &Snapshot{
		SongID: values[core.KeyCurrentSongID],
		Status: values[remote.KeyStatus],
	}
	if s.Status == "" {
		s.Status = remote.StatusStopped
	}
	if v, err := strconv.ParseFloat(values[core.KeyVolume], 64); err == nil {
		s.Volume = v
	}
	if v, err := strconv.ParseFloat(values[core.KeySongTime], 64); err == nil {
		s.Position = time.Duration(v * float64(time.Second))
	}
	return s
}

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *Snapshot
	Current   *Snapshot
}

// Source is a state store that reports changes written by other processes.
type Source interface {
	All() map[string]string
	Watch(ctx context.Context, onChange func()) error
}

// LookupFunc resolves song metadata for display.
type LookupFunc func(ctx context.Context, songID string) (*core.Song, error)

// Watcher follows a state store and emits events as a player writes it.
type Watcher struct {
	source Source
	lookup LookupFunc
	events chan Event
	songs  map[string]*core.Song
}

// NewWatcher creates a new state watcher. lookup may be nil.
func NewWatcher(source Source, lookup LookupFunc) *Watcher {
	return &Watcher{
		source: source,
		lookup: lookup,
		events: make(chan Event, 16),
		songs:  map[string]*core.Song{},
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Current returns the snapshot in the store right now.
func (w *Watcher) Current(ctx context.Context) *Snapshot {
	return w.resolve(ctx, SnapshotOf(w.source.All()))
}

// Start watches the store until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.events)

	prev := w.Current(ctx)
	err := w.source.Watch(ctx, func() {
		curr := w.resolve(ctx, SnapshotOf(w.source.All()))
		for _, e := range diffSnapshots(prev, curr, time.Now()) {
			select {
			case w.events <- e:
			default:
				// Drop event if channel is full
			}
		}
		prev = curr
	})
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (w *Watcher) resolve(ctx context.Context, s *Snapshot) *Snapshot {
	if w.lookup == nil || !s.HasSong() {
		return s
	}
	if song, ok := w.songs[s.SongID]; ok {
		s.Song = song
		return s
	}
	song, err := w.lookup(ctx, s.SongID)
	if err != nil {
		return s
	}
	w.songs[s.SongID] = song
	s.Song = song
	return s
}

// diffSnapshots compares two snapshots and returns detected events.
func diffSnapshots(prev, curr *Snapshot, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	var events []Event
	add := func(t EventType) {
		events = append(events, Event{Type: t, Timestamp: now, Previous: prev, Current: curr})
	}

	if prev == nil {
		if curr.HasSong() {
			add(EventSongChange)
		}
		return events
	}

	if prev.SongID != curr.SongID {
		if t, ok := endType(prev); ok {
			add(t)
		}
		if curr.HasSong() {
			add(EventSongChange)
		}
	}

	switch {
	case prev.Status != remote.StatusStopped && curr.Status == remote.StatusStopped:
		add(EventStop)
	case prev.Playing() && !curr.Playing():
		add(EventPause)
	case !prev.Playing() && curr.Playing():
		add(EventResume)
	}

	if prev.VolumePercent() != curr.VolumePercent() {
		add(EventVolumeChange)
	}

	return events
}

// endType classifies how the previous song ended. Without a known
// duration there is nothing to compare the last position against.
func endType(prev *Snapshot) (EventType, bool) {
	if !prev.HasSong() || prev.Song == nil || prev.Song.Duration == 0 {
		return 0, false
	}
	threshold := float64(prev.Song.Duration) * 0.95
	if float64(prev.Position) >= threshold {
		return EventSongComplete, true
	}
	return EventSongSkip, true
}
