package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tessro/jukebar/internal/api"
	"github.com/tessro/jukebar/internal/audio"
	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/listing"
	"github.com/tessro/jukebar/internal/player"
	"github.com/tessro/jukebar/internal/session"
	"github.com/tessro/jukebar/internal/store"
)

// newClient creates an API client replaying the stored session.
func newClient() (*api.Client, *api.SessionStorage, error) {
	sessions, err := api.NewSessionStorage("")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize session storage: %w", err)
	}
	client, err := api.New(cfg.Server.BaseURL, cfg.RequestTimeout(), sessions)
	if err != nil {
		return nil, nil, err
	}
	client.SetLogger(logger)
	return client, sessions, nil
}

// openStore opens the persisted player state.
func openStore() (*store.Store, error) {
	s, err := store.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return s, nil
}

// newController wires a controller to the configured defaults.
func newController(client *api.Client, st core.Store, media core.Media) *player.Controller {
	repeat, _ := core.ParseRepeatMode(cfg.Defaults.Repeat)
	return player.New(client, media, player.Options{
		Store:         st,
		Logger:        logger,
		Volume:        cfg.Defaults.Volume,
		Shuffle:       cfg.Defaults.Shuffle,
		Repeat:        repeat,
		Authenticated: client.IsAuthenticated,
	})
}

// newMedia opens the audio output.
func newMedia() core.Media {
	return audio.New(logger)
}

// newMonitor tracks the login session, or returns nil when signed out.
func newMonitor(client *api.Client) *session.Monitor {
	if !client.IsAuthenticated() {
		return nil
	}
	return session.NewMonitor(client, session.Options{
		Timeout: time.Duration(cfg.Session.Timeout) * time.Minute,
		Warning: time.Duration(cfg.Session.Warning) * time.Minute,
		Logger:  logger,
		Logout:  client.Logout,
	})
}

// fetchListing builds a playlist from a rendered listing page.
func fetchListing(ctx context.Context, client *api.Client, path string) ([]core.Song, error) {
	body, err := client.Page(ctx, path)
	if err != nil {
		return nil, err
	}
	return buildListing(client, body)
}

// searchListing builds a playlist from the search results page.
func searchListing(ctx context.Context, client *api.Client, query string) ([]core.Song, error) {
	body, err := client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return buildListing(client, body)
}

func buildListing(client *api.Client, body []byte) ([]core.Song, error) {
	base, err := url.Parse(client.BaseURL())
	if err != nil {
		return nil, err
	}
	return listing.Build(bytes.NewReader(body), base)
}
