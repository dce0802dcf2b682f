package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Formatter formats events for output.
type Formatter struct {
	emoji     bool
	timestamp bool
	tmpl      *template.Template
	err       error
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.emoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.timestamp = enabled
	}
}

// WithTemplate sets a custom format template. A template that fails to
// parse is reported by Err and leaves the default line format in place.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl == "" {
			return
		}
		t, err := template.New("format").Parse(tmpl)
		if err != nil {
			f.err = fmt.Errorf("invalid format template: %w", err)
			return
		}
		f.tmpl = t
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{emoji: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Err returns the template parse error, if any.
func (f *Formatter) Err() error {
	return f.err
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.tmpl != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string
	if f.timestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.emoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, f.eventDescription(e))
	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if e.Current != nil {
		data.SongID = e.Current.SongID
		data.Status = e.Current.Status
		data.Volume = e.Current.VolumePercent()
		if e.Current.Song != nil {
			data.Title = e.Current.Song.Title
			data.Artist = e.Current.Song.Artist
		}
	}

	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	SongID    string
	Title     string
	Artist    string
	Status    string
	Volume    int
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventSongChange:
		if e.Current.HasSong() {
			return "Now playing: " + describe(e.Current)
		}
		return "Song changed"

	case EventSongComplete:
		if e.Previous.HasSong() {
			return "Finished: " + describe(e.Previous)
		}
		return "Song completed"

	case EventSongSkip:
		if e.Previous.HasSong() {
			return "Skipped: " + describe(e.Previous)
		}
		return "Song skipped"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventStop:
		return "Player stopped"

	case EventVolumeChange:
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d%%", e.Current.VolumePercent())
		}
		return "Volume changed"

	default:
		return "Unknown event"
	}
}

// describe names a snapshot's song, falling back to its id when no
// metadata was resolved.
func describe(s *Snapshot) string {
	if s.Song == nil {
		return "song " + s.SongID
	}
	return fmt.Sprintf("%s - %s", s.Song.DisplayArtist(), s.Song.DisplayTitle())
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventSongChange:
		return "🎵"
	case EventSongComplete:
		return "✅"
	case EventSongSkip:
		return "⏭️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventVolumeChange:
		return "🔊"
	case EventStop:
		return "⏹️"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventSongChange:
		return "song_change"
	case EventSongComplete:
		return "song_complete"
	case EventSongSkip:
		return "song_skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventVolumeChange:
		return "volume_change"
	case EventStop:
		return "stop"
	default:
		return "unknown"
	}
}
