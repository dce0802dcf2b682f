package core

import (
	"context"
	"time"
)

// Media is a handle on an audio output that plays one song at a time.
type Media interface {
	// Load decodes data and prepares it for playback, paused at 0.
	Load(data []byte) error
	Play() error
	Pause()
	Stop()
	Seek(position time.Duration) error

	Position() time.Duration
	Duration() time.Duration

	// SetVolume sets the output level in [0,1].
	SetVolume(level float64)

	// OnEnded registers fn to run when the loaded song plays to the end.
	// Callbacks from songs replaced by a later Load are never delivered.
	OnEnded(fn func())
}

// Backend is the server surface the player controller depends on.
type Backend interface {
	FetchAudio(ctx context.Context, songID string) ([]byte, error)
	GetSong(ctx context.Context, songID string) (*Song, error)
	ToggleLike(ctx context.Context, songID string) error
	DeleteSong(ctx context.Context, songID string) error
}

// Store is a string key-value persistence store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Persisted state keys.
const (
	KeyCurrentSongID = "currentSongId"
	KeySongTime      = "songTime"
	KeyVolume        = "spotifyCloneVolume"
	KeyTheme         = "theme"
)
