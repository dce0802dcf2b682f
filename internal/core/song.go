package core

import "time"

// Song represents a playable song as the server describes it.
type Song struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Artist    string        `json:"artist"`
	CoverURL  string        `json:"cover_url,omitempty"`
	SourceURL string        `json:"source_url,omitempty"`
	Liked     bool          `json:"liked"`
	Duration  time.Duration `json:"duration"`
}

// DisplayTitle returns the title, or a placeholder when the server sent none.
func (s *Song) DisplayTitle() string {
	if s == nil || s.Title == "" {
		return "Unknown Title"
	}
	return s.Title
}

// DisplayArtist returns the artist, or a placeholder when the server sent none.
func (s *Song) DisplayArtist() string {
	if s == nil || s.Artist == "" {
		return "Unknown Artist"
	}
	return s.Artist
}
