package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tessro/jukebar/internal/core"
	jerrors "github.com/tessro/jukebar/internal/errors"
)

const defaultCoverPath = "/static/img/default-cover.jpg"

// FetchAudio downloads the audio payload for a song.
func (c *Client) FetchAudio(ctx context.Context, songID string) ([]byte, error) {
	if songID == "" {
		return nil, jerrors.ErrNoSongLoaded
	}
	body, header, err := c.do(ctx, http.MethodGet, "/play/"+url.PathEscape(songID), nil, "")
	if err != nil {
		return nil, fmt.Errorf("fetch song %s: %w", songID, err)
	}
	if ct := header.Get("Content-Type"); strings.HasPrefix(ct, "text/html") {
		return nil, fmt.Errorf("fetch song %s: %w: got %s", songID, jerrors.ErrUnsupportedFormat, ct)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("fetch song %s: %w: empty payload", songID, jerrors.ErrUnsupportedFormat)
	}
	return body, nil
}

// GetSong fetches typed metadata for a song.
func (c *Client) GetSong(ctx context.Context, songID string) (*core.Song, error) {
	var resp SongResponse
	if err := c.Get(ctx, "/api/song/"+url.PathEscape(songID), &resp); err != nil {
		return nil, fmt.Errorf("get song %s: %w", songID, err)
	}
	if resp.Status != "success" || resp.Song == nil {
		return nil, fmt.Errorf("get song %s: %w", songID, jerrors.ErrNotFound)
	}

	return &core.Song{
		ID:        songID,
		Title:     resp.Song.Title,
		Artist:    resp.Song.Artist,
		CoverURL:  c.coverURL(resp.Song.ImagePath),
		SourceURL: c.URL("/play/" + url.PathEscape(songID)),
		Liked:     resp.Song.IsLiked,
	}, nil
}

// ToggleLike flips the like flag for a song. Requires a session.
func (c *Client) ToggleLike(ctx context.Context, songID string) error {
	var resp StatusResponse
	if err := c.Post(ctx, "/like-song/"+url.PathEscape(songID), nil, &resp); err != nil {
		return fmt.Errorf("like song %s: %w", songID, err)
	}
	if resp.Status != "success" {
		msg := resp.Message
		if msg == "" {
			msg = "failed to update like status"
		}
		return fmt.Errorf("like song %s: %w: %s", songID, jerrors.ErrServer, msg)
	}
	return nil
}

// DeleteSong removes a song from the server's library.
func (c *Client) DeleteSong(ctx context.Context, songID string) error {
	var resp SuccessResponse
	if err := c.Delete(ctx, "/songs/"+url.PathEscape(songID), &resp); err != nil {
		return fmt.Errorf("delete song %s: %w", songID, err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = resp.Error
		}
		return fmt.Errorf("delete song %s: %w: %s", songID, jerrors.ErrServer, msg)
	}
	return nil
}

// Page fetches a rendered HTML listing page, e.g. "/songs" or "/mood/happy".
func (c *Client) Page(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	body, _, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return body, nil
}

// Search fetches the search results page for query.
func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, jerrors.Validation("search query is empty")
	}
	return c.Page(ctx, BuildURL("/search", map[string]string{"q": query}))
}

func (c *Client) coverURL(imagePath string) string {
	switch {
	case imagePath == "":
		imagePath = defaultCoverPath
	case strings.HasPrefix(imagePath, "http://"), strings.HasPrefix(imagePath, "https://"):
		return imagePath
	case !strings.HasPrefix(imagePath, "/"):
		imagePath = "/static/" + imagePath
	}
	return c.URL(imagePath)
}
