package player

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/tessro/jukebar/internal/core"
	jerrors "github.com/tessro/jukebar/internal/errors"
)

// TogglePlayPause flips between playing and paused. With no song loaded
// it returns ErrNoSongLoaded for the caller to show as a notice.
func (c *Controller) TogglePlayPause() error {
	c.mu.Lock()
	if !c.state.HasSong() {
		c.mu.Unlock()
		return jerrors.ErrNoSongLoaded
	}

	var err error
	switch {
	case c.state.IsPlaying:
		c.media.Pause()
		c.state.IsPlaying = false
	case c.finished:
		err = c.reloadLocked(true, 0)
	default:
		err = c.media.Play()
		if err == nil {
			c.state.IsPlaying = true
		}
	}
	pos := c.media.Position()
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.persistPosition(pos)
	c.broadcast(core.EventStateChange)
	return nil
}

// Play resumes playback if paused.
func (c *Controller) Play() error {
	if c.State().IsPlaying {
		return nil
	}
	return c.TogglePlayPause()
}

// Pause pauses playback if playing.
func (c *Controller) Pause() error {
	s := c.State()
	if !s.HasSong() {
		return jerrors.ErrNoSongLoaded
	}
	if !s.IsPlaying {
		return nil
	}
	return c.TogglePlayPause()
}

// Seek moves to fraction of the song, clamped to [0,1]. It does nothing
// while the duration is unknown.
func (c *Controller) Seek(fraction float64) error {
	fraction = lo.Clamp(fraction, 0, 1)

	c.mu.Lock()
	if !c.state.HasSong() {
		c.mu.Unlock()
		return nil
	}
	d := c.media.Duration()
	if d <= 0 {
		c.mu.Unlock()
		return nil
	}
	pos := time.Duration(fraction * float64(d))
	err := c.seekLocked(pos)
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.persistPosition(pos)
	c.broadcast(core.EventProgress)
	return nil
}

// SeekBy moves the position by delta, clamped to the song.
func (c *Controller) SeekBy(delta time.Duration) error {
	c.mu.Lock()
	if !c.state.HasSong() {
		c.mu.Unlock()
		return jerrors.ErrNoSongLoaded
	}
	d := c.media.Duration()
	if d <= 0 {
		c.mu.Unlock()
		return nil
	}
	current := c.media.Position()
	if c.finished {
		current = d
	}
	pos := lo.Clamp(current+delta, 0, d)
	err := c.seekLocked(pos)
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.persistPosition(pos)
	c.broadcast(core.EventProgress)
	return nil
}

func (c *Controller) seekLocked(pos time.Duration) error {
	if c.finished {
		return c.reloadLocked(false, pos)
	}
	return c.media.Seek(pos)
}

// SetVolume sets the level, clamped to [0,1]. Zero mutes; any nonzero
// level is remembered for unmuting.
func (c *Controller) SetVolume(level float64) {
	level = lo.Clamp(level, 0, 1)

	c.mu.Lock()
	c.state.Volume = level
	c.state.Muted = level == 0
	if level > 0 {
		c.lastVolume = level
	}
	c.media.SetVolume(level)
	c.mu.Unlock()

	c.persist(core.KeyVolume, strconv.FormatFloat(level, 'f', -1, 64))
	c.broadcast(core.EventVolumeChange)
}

// AdjustVolume changes the level by delta.
func (c *Controller) AdjustVolume(delta float64) {
	c.SetVolume(c.State().Volume + delta)
}

// ToggleMute swaps between silence and the last nonzero level.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	muted := c.state.Volume == 0
	restore := c.lastVolume
	c.mu.Unlock()

	if !muted {
		c.SetVolume(0)
		return
	}
	if restore <= 0 {
		restore = DefaultVolume
	}
	c.SetVolume(restore)
}

// Next plays the following entry, wrapping at the end. In shuffle mode
// any entry may come next, including the current one.
func (c *Controller) Next(ctx context.Context) error {
	return c.step(ctx, 1)
}

// Previous restarts the current song if it is more than three seconds
// in, otherwise plays the prior entry.
func (c *Controller) Previous(ctx context.Context) error {
	c.mu.Lock()
	if c.state.HasSong() && !c.finished && c.media.Position() > restartThreshold {
		err := c.media.Seek(0)
		c.mu.Unlock()
		if err != nil {
			return err
		}
		c.persistPosition(0)
		c.broadcast(core.EventProgress)
		return nil
	}
	c.mu.Unlock()
	return c.step(ctx, -1)
}

func (c *Controller) step(ctx context.Context, delta int) error {
	c.mu.Lock()
	if c.playlist.IsEmpty() {
		c.mu.Unlock()
		return jerrors.ErrEmptyPlaylist
	}
	var idx int
	if c.state.Shuffle {
		idx = c.playlist.RandomIndex(c.rng)
	} else {
		idx = c.playlist.Advance(delta)
	}
	song, _ := c.playlist.At(idx)
	c.mu.Unlock()

	return c.LoadAndPlay(ctx, song.ID)
}

// OnMediaEnded decides what follows a song that played to its end:
// repeat one restarts it, repeat all or a non-empty playlist moves on,
// anything else stops.
func (c *Controller) OnMediaEnded() error {
	c.mu.Lock()
	if !c.state.HasSong() {
		c.mu.Unlock()
		return nil
	}

	if c.state.Repeat == core.RepeatOne {
		err := c.reloadLocked(true, 0)
		c.mu.Unlock()
		if err != nil {
			return err
		}
		c.persistPosition(0)
		c.broadcast(core.EventSongChange)
		return nil
	}

	advance := c.state.Repeat == core.RepeatAll || !c.playlist.IsEmpty()
	c.mu.Unlock()

	if advance {
		err := c.Next(background())
		if err == nil {
			return nil
		}
		if !errors.Is(err, jerrors.ErrEmptyPlaylist) {
			// The ended song stays current, stopped, so play reloads it.
			c.stopEnded()
			return err
		}
	}

	c.stopEnded()
	return nil
}

// stopEnded marks the current song as played out.
func (c *Controller) stopEnded() {
	c.mu.Lock()
	c.state.IsPlaying = false
	c.finished = true
	c.mu.Unlock()
	c.broadcast(core.EventStateChange)
}

// ToggleShuffle turns shuffle on (permuting the playlist around the
// current entry) or off (restoring the original order).
func (c *Controller) ToggleShuffle() bool {
	c.mu.Lock()
	c.state.Shuffle = !c.state.Shuffle
	if c.state.Shuffle {
		c.playlist.Shuffle(c.rng)
	} else {
		c.playlist.Unshuffle()
	}
	on := c.state.Shuffle
	c.mu.Unlock()

	c.broadcast(core.EventModeChange)
	return on
}

// ToggleRepeat cycles none -> all -> one -> none.
func (c *Controller) ToggleRepeat() core.RepeatMode {
	c.mu.Lock()
	c.state.Repeat = c.state.Repeat.Next()
	mode := c.state.Repeat
	c.mu.Unlock()

	c.broadcast(core.EventModeChange)
	return mode
}

// Tick samples the playback position, persists it and notifies
// subscribers. Surfaces call it on their refresh interval.
func (c *Controller) Tick() {
	c.mu.Lock()
	playing := c.state.IsPlaying
	var pos time.Duration
	if playing {
		pos = c.media.Position()
	}
	c.mu.Unlock()

	if !playing {
		return
	}
	c.persistPosition(pos)
	c.broadcast(core.EventProgress)
}
