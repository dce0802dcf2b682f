package player

import (
	"context"

	"github.com/tessro/jukebar/internal/core"
	jerrors "github.com/tessro/jukebar/internal/errors"
)

// ToggleLike flips the like flag for songID, or the current song when
// songID is empty. It needs a login session. On failure nothing changes.
func (c *Controller) ToggleLike(ctx context.Context, songID string) (liked bool, err error) {
	c.mu.Lock()
	if songID == "" {
		songID = c.state.CurrentSongID
	}
	was := c.likedLocked(songID)
	c.mu.Unlock()

	if songID == "" {
		return false, jerrors.ErrNoSongLoaded
	}
	if c.authed != nil && !c.authed() {
		return was, jerrors.ErrUnauthorized
	}

	if err := c.backend.ToggleLike(ctx, songID); err != nil {
		return was, err
	}

	c.mu.Lock()
	liked = !was
	if c.state.Song != nil && c.state.Song.ID == songID {
		c.state.Song.Liked = liked
	}
	c.playlist.Update(songID, func(s *core.Song) { s.Liked = liked })
	c.mu.Unlock()

	c.broadcast(core.EventLikeChange)
	return liked, nil
}

func (c *Controller) likedLocked(songID string) bool {
	if c.state.Song != nil && c.state.Song.ID == songID {
		return c.state.Song.Liked
	}
	if s, ok := c.playlist.At(c.playlist.IndexOf(songID)); ok {
		return s.Liked
	}
	return false
}

// DeleteSong removes a song from the server library and the playlist.
// It refuses to act unless confirmed. Deleting the current song stops it.
func (c *Controller) DeleteSong(ctx context.Context, songID string, confirmed bool) error {
	if songID == "" {
		return jerrors.ErrNoSongLoaded
	}
	if !confirmed {
		return jerrors.Validation("deleting %s needs confirmation", songID)
	}

	if err := c.backend.DeleteSong(ctx, songID); err != nil {
		return err
	}

	c.mu.Lock()
	c.playlist.Remove(songID)
	wasCurrent := c.state.CurrentSongID == songID
	if wasCurrent {
		c.loadSeq++ // drop any in-flight load for this song too
		c.media.Stop()
		c.state.CurrentSongID = ""
		c.state.Song = nil
		c.state.IsPlaying = false
		c.data = nil
		c.finished = false
	} else if c.state.LoadingID == songID {
		c.loadSeq++
		c.state.Loading = false
		c.state.LoadingID = ""
	}
	c.mu.Unlock()

	if wasCurrent {
		c.persist(core.KeyCurrentSongID, "")
		c.persistPosition(0)
	}
	c.broadcast(core.EventPlaylistChange)
	return nil
}

// SetPlaylist replaces the playlist wholesale with a freshly built
// listing. Shuffle mode is re-applied to the new entries.
func (c *Controller) SetPlaylist(entries []core.Song) {
	c.mu.Lock()
	c.playlist.Replace(entries)
	c.playlist.Select(c.state.CurrentSongID)
	if c.state.Shuffle {
		c.playlist.Shuffle(c.rng)
	}
	c.mu.Unlock()

	c.broadcast(core.EventPlaylistChange)
}
