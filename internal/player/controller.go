// Package player owns playback state and the transitions between songs.
//
// A single Controller mediates between the control surfaces (TUI panels,
// CLI commands) and the audio output. Surfaces never share state with one
// another; they subscribe to the controller and re-render from the
// PlaybackState each event carries.
package player

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessro/jukebar/internal/core"
)

const (
	// DefaultVolume is the starting level and the unmute fallback.
	DefaultVolume = 0.7

	// restartThreshold is how far into a song Previous restarts it
	// instead of moving to the prior entry.
	restartThreshold = 3 * time.Second
)

// Options configures a Controller.
type Options struct {
	Store   core.Store // optional persistence for song id, position and volume
	Logger  zerolog.Logger
	Rand    *rand.Rand
	Volume  float64
	Shuffle bool
	Repeat  core.RepeatMode

	// Authenticated reports whether a login session is held. Likes are
	// refused without one. Nil means the server decides.
	Authenticated func() bool
}

// Controller is the single owner of playback state.
type Controller struct {
	backend core.Backend
	media   core.Media
	store   core.Store
	log     zerolog.Logger
	authed  func() bool

	mu         sync.Mutex
	state      core.PlaybackState
	playlist   *core.Playlist
	rng        *rand.Rand
	lastVolume float64 // last nonzero level, restored on unmute
	loadSeq    uint64  // incremented per load request; only the latest may apply
	data       []byte  // payload of the current song, for restarts
	finished   bool    // the current song played to its end and was not restarted

	subMu   sync.Mutex
	subs    map[int]func(core.Event)
	nextSub int
}

// New creates a controller driving media with songs from backend.
func New(backend core.Backend, media core.Media, opts Options) *Controller {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6a756b65))
	}
	repeat := opts.Repeat
	if repeat == "" {
		repeat = core.RepeatNone
	}
	volume := opts.Volume
	if volume <= 0 || volume > 1 {
		volume = DefaultVolume
	}

	c := &Controller{
		backend:    backend,
		media:      media,
		store:      opts.Store,
		log:        opts.Logger,
		authed:     opts.Authenticated,
		playlist:   core.NewPlaylist(nil),
		rng:        rng,
		lastVolume: volume,
		subs:       map[int]func(core.Event){},
		state: core.PlaybackState{
			Volume:  volume,
			Shuffle: opts.Shuffle,
			Repeat:  repeat,
		},
	}

	media.SetVolume(volume)
	media.OnEnded(func() {
		if err := c.OnMediaEnded(); err != nil {
			c.log.Warn().Err(err).Msg("advance after song end failed")
			c.broadcastErr(err)
		}
	})
	return c
}

// State returns a snapshot of the playback state.
func (c *Controller) State() core.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() core.PlaybackState {
	s := c.state
	if c.state.Song != nil {
		song := *c.state.Song
		s.Song = &song
	}
	if s.HasSong() {
		s.Position = c.media.Position()
		s.Duration = c.media.Duration()
		if c.finished {
			s.Position = s.Duration
		}
	}
	s.Index = c.playlist.Index()
	s.Length = c.playlist.Len()
	return s
}

// Playlist returns the entries in play order.
func (c *Controller) Playlist() []core.Song {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playlist.Entries()
}

// Subscribe registers fn for state-changed notifications and returns a
// function that removes it. fn is called without the controller lock
// held and may call back into the controller.
func (c *Controller) Subscribe(fn func(core.Event)) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) broadcast(t core.EventType) {
	c.emit(core.Event{Type: t, State: c.State(), Timestamp: time.Now()})
}

func (c *Controller) broadcastErr(err error) {
	c.emit(core.Event{Type: core.EventError, State: c.State(), Err: err, Timestamp: time.Now()})
}

func (c *Controller) emit(ev core.Event) {
	c.subMu.Lock()
	fns := make([]func(core.Event), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (c *Controller) persist(key, value string) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(key, value); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("failed to persist state")
	}
}

func (c *Controller) persistPosition(pos time.Duration) {
	c.persist(core.KeySongTime, strconv.FormatFloat(pos.Seconds(), 'f', 1, 64))
}

// background is the context for transitions no caller is waiting on.
func background() context.Context {
	return context.Background()
}
