package core

import (
	"fmt"
	"time"
)

// RepeatMode controls what happens when a song ends.
type RepeatMode string

const (
	RepeatNone RepeatMode = "none"
	RepeatAll  RepeatMode = "all"
	RepeatOne  RepeatMode = "one"
)

// Next returns the mode that follows m in the none -> all -> one cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatNone
	}
}

// ParseRepeatMode parses a config or flag value.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch RepeatMode(s) {
	case RepeatNone, RepeatAll, RepeatOne:
		return RepeatMode(s), nil
	case "":
		return RepeatNone, nil
	}
	return RepeatNone, fmt.Errorf("invalid repeat mode: %s", s)
}

// PlaybackState represents the current playback state.
type PlaybackState struct {
	CurrentSongID string     `json:"current_song_id,omitempty"`
	IsPlaying     bool       `json:"is_playing"`
	Volume        float64    `json:"volume"`
	Muted         bool       `json:"muted"`
	Shuffle       bool       `json:"shuffle"`
	Repeat        RepeatMode `json:"repeat"`

	// Render-only fields.
	Loading   bool          `json:"loading"`
	LoadingID string        `json:"loading_id,omitempty"`
	FailedID  string        `json:"failed_id,omitempty"`
	Song      *Song         `json:"song,omitempty"`
	Position  time.Duration `json:"position"`
	Duration  time.Duration `json:"duration"`
	Index     int           `json:"index"`
	Length    int           `json:"length"`
}

// HasSong returns true if a song is loaded.
func (s *PlaybackState) HasSong() bool {
	return s != nil && s.CurrentSongID != ""
}

// ProgressFraction returns playback progress in [0,1].
func (s *PlaybackState) ProgressFraction() float64 {
	if s == nil || s.Duration <= 0 {
		return 0
	}
	f := float64(s.Position) / float64(s.Duration)
	return min(max(f, 0), 1)
}

// VolumePercent returns the volume as a whole percentage.
func (s *PlaybackState) VolumePercent() int {
	if s == nil {
		return 0
	}
	return int(s.Volume*100 + 0.5)
}
