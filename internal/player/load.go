package player

import (
	"context"
	"strconv"
	"time"

	"github.com/tessro/jukebar/internal/core"
	jerrors "github.com/tessro/jukebar/internal/errors"
)

// LoadAndPlay fetches a song and starts it from the beginning.
//
// Loads are last-request-wins: if another load starts before this one
// resolves, this one returns nil without touching state. Loading the
// song that is already current restarts it without a refetch.
func (c *Controller) LoadAndPlay(ctx context.Context, songID string) error {
	return c.load(ctx, songID, true, 0)
}

// Retry reloads the song whose last load failed.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	id := c.state.FailedID
	c.mu.Unlock()
	if id == "" {
		return jerrors.ErrNoSongLoaded
	}
	return c.LoadAndPlay(ctx, id)
}

// Restore applies the persisted volume and reloads the persisted song,
// paused at the persisted position.
func (c *Controller) Restore(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	if v, ok := c.store.Get(core.KeyVolume); ok {
		if level, err := strconv.ParseFloat(v, 64); err == nil {
			c.SetVolume(level)
		}
	}

	id, ok := c.store.Get(core.KeyCurrentSongID)
	if !ok || id == "" {
		return nil
	}
	var at time.Duration
	if v, ok := c.store.Get(core.KeySongTime); ok {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			at = time.Duration(secs * float64(time.Second))
		}
	}

	c.log.Debug().Str("song_id", id).Dur("position", at).Msg("restoring last song")
	return c.load(ctx, id, false, at)
}

func (c *Controller) load(ctx context.Context, songID string, autoplay bool, at time.Duration) error {
	if songID == "" {
		return jerrors.ErrNoSongLoaded
	}

	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq

	if songID == c.state.CurrentSongID && c.data != nil {
		c.state.Loading = false
		c.state.LoadingID = ""
		err := c.reloadLocked(autoplay, at)
		c.mu.Unlock()
		if err != nil {
			return err
		}
		c.persistPosition(at)
		c.broadcast(core.EventSongChange)
		return nil
	}

	c.state.Loading = true
	c.state.LoadingID = songID
	c.state.FailedID = ""
	hint, _ := c.playlist.At(c.playlist.IndexOf(songID))
	c.mu.Unlock()
	c.broadcast(core.EventLoading)

	c.log.Debug().Str("song_id", songID).Uint64("seq", seq).Msg("loading song")

	data, err := c.backend.FetchAudio(ctx, songID)
	var song *core.Song
	if err == nil {
		song = c.metadata(ctx, songID, hint)
	}

	c.mu.Lock()
	if seq != c.loadSeq {
		c.mu.Unlock()
		c.log.Debug().Str("song_id", songID).Uint64("seq", seq).Msg("discarding superseded load")
		return nil
	}

	if err == nil {
		err = c.media.Load(data)
	}
	if err != nil {
		c.state.Loading = false
		c.state.LoadingID = ""
		c.state.FailedID = songID
		c.mu.Unlock()
		c.log.Debug().Err(err).Str("song_id", songID).Msg("load failed")
		c.broadcast(core.EventLoading)
		return err
	}

	c.media.SetVolume(c.state.Volume)
	if at > 0 {
		if err := c.media.Seek(at); err != nil {
			c.log.Debug().Err(err).Msg("seek to restored position failed")
		}
	}
	if autoplay {
		if err := c.media.Play(); err != nil {
			// The media now holds the failed song, not the current one.
			// Mark the current one played out so play reloads its payload.
			c.media.Stop()
			c.state.IsPlaying = false
			c.finished = true
			c.state.Loading = false
			c.state.LoadingID = ""
			c.state.FailedID = songID
			c.mu.Unlock()
			c.log.Debug().Err(err).Str("song_id", songID).Msg("play failed")
			c.broadcast(core.EventLoading)
			return err
		}
	}

	c.data = data
	c.finished = false
	c.state.CurrentSongID = songID
	c.state.IsPlaying = autoplay
	c.state.Loading = false
	c.state.LoadingID = ""
	c.state.Song = song
	c.playlist.Select(songID)
	c.mu.Unlock()

	c.persist(core.KeyCurrentSongID, songID)
	c.persistPosition(at)
	c.broadcast(core.EventSongChange)
	return nil
}

// metadata fetches typed song details, falling back to what the listing
// showed when the metadata endpoint fails.
func (c *Controller) metadata(ctx context.Context, songID string, hint core.Song) *core.Song {
	song, err := c.backend.GetSong(ctx, songID)
	if err == nil && song != nil {
		if song.SourceURL == "" {
			song.SourceURL = hint.SourceURL
		}
		return song
	}
	c.log.Debug().Err(err).Str("song_id", songID).Msg("metadata unavailable, using listing")
	hint.ID = songID
	return &hint
}

// reloadLocked re-queues the current payload from the start (or at),
// which also revives a song that has already played to its end.
func (c *Controller) reloadLocked(autoplay bool, at time.Duration) error {
	if c.data == nil {
		return jerrors.ErrNoSongLoaded
	}
	if err := c.media.Load(c.data); err != nil {
		return err
	}
	c.finished = false
	c.media.SetVolume(c.state.Volume)
	if at > 0 {
		if err := c.media.Seek(at); err != nil {
			return err
		}
	}
	if autoplay {
		if err := c.media.Play(); err != nil {
			return err
		}
	}
	c.state.IsPlaying = autoplay
	return nil
}
