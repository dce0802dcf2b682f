package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/tui/styles"
)

// HistoryEntry is a song played during this run.
type HistoryEntry struct {
	Song     core.Song
	PlayedAt time.Time
}

// maxHistory bounds the entries kept.
const maxHistory = 50

// History displays recently played songs
type History struct {
	entries []HistoryEntry
	now     func() time.Time
}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{now: time.Now}
}

// Add records song as played now, unless it is already the latest entry.
func (h *History) Add(song core.Song) {
	if len(h.entries) > 0 && h.entries[0].Song.ID == song.ID {
		return
	}
	entry := HistoryEntry{Song: song, PlayedAt: h.now()}
	h.entries = append([]HistoryEntry{entry}, h.entries...)
	if len(h.entries) > maxHistory {
		h.entries = h.entries[:maxHistory]
	}
}

// Entries returns the history, newest first.
func (h *History) Entries() []HistoryEntry {
	return h.entries
}

// Render renders the history panel
func (h *History) Render(width, height int, focused bool) string {
	title := styles.PanelTitle("Recently Played", focused)

	var content string
	if len(h.entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (h *History) renderHistory(width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	for i, entry := range h.entries {
		if i >= maxLines {
			break
		}

		ago := humanize.RelTime(entry.PlayedAt, h.now(), "ago", "from now")
		agoWidth := runewidth.StringWidth(ago)

		// " — " (3) + a space before the time
		title, artist := fitPair(entry.Song.DisplayTitle(), entry.Song.DisplayArtist(), width-4-agoWidth)
		info := fmt.Sprintf("%s — %s", title, artist)

		padding := max(width-runewidth.StringWidth(info)-agoWidth, 1)
		lines = append(lines, info+styles.Repeat(" ", padding)+styles.Dim.Render(ago))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
