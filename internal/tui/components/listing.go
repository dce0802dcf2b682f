package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/tui/styles"
)

// Listing displays the playlist built from the current page.
type Listing struct {
	offset   int
	selected int
}

// NewListing creates a new Listing component
func NewListing() *Listing {
	return &Listing{}
}

// SelectNext moves the cursor down.
func (l *Listing) SelectNext(n int) {
	if l.selected < n-1 {
		l.selected++
	}
}

// SelectPrev moves the cursor up.
func (l *Listing) SelectPrev() {
	if l.selected > 0 {
		l.selected--
	}
}

// Selected returns the cursor index
func (l *Listing) Selected() int {
	return l.selected
}

// SelectID moves the cursor to the entry with id, if present.
func (l *Listing) SelectID(songs []core.Song, id string) {
	for i, s := range songs {
		if s.ID == id {
			l.selected = i
			return
		}
	}
}

// Clamp keeps the cursor inside a listing of n entries.
func (l *Listing) Clamp(n int) {
	l.selected = max(min(l.selected, n-1), 0)
}

// Render renders the listing panel
func (l *Listing) Render(title string, songs []core.Song, state core.PlaybackState, width, height int, focused bool) string {
	header := styles.PanelTitle(title, focused)

	var content string
	if len(songs) == 0 {
		content = styles.Muted.Render("No songs on this page")
	} else {
		content = l.renderSongs(songs, state, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		content,
	))
}

func (l *Listing) renderSongs(songs []core.Song, state core.PlaybackState, width, maxLines int) string {
	l.Clamp(len(songs))

	visible := max(maxLines-1, 1)
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+visible {
		l.offset = l.selected - visible + 1
	}

	start := l.offset
	end := min(start+visible, len(songs))

	lines := make([]string, 0, end-start+1)

	// "XX. " (4) + marker (2) + " — " (3) + heart (2)
	const overhead = 11

	for i := start; i < end; i++ {
		song := songs[i]
		num := fmt.Sprintf("%2d.", i+1)
		title, artist := fitPair(song.DisplayTitle(), song.DisplayArtist(), width-overhead)

		marker := "  "
		switch song.ID {
		case state.LoadingID:
			marker = styles.Dim.Render("… ")
		case state.FailedID:
			marker = styles.Failed.Render("✗ ")
		case state.CurrentSongID:
			marker = styles.StatusIcon(state.IsPlaying, false) + " "
		}

		var line string
		if song.ID == state.CurrentSongID {
			line = styles.Playing.Render(fmt.Sprintf("%s ", num)) + marker +
				styles.Playing.Render(fmt.Sprintf("%s — %s", title, artist))
		} else {
			line = fmt.Sprintf("%s %s%s — %s",
				styles.Dim.Render(num),
				marker,
				title,
				styles.Muted.Render(artist))
		}
		line += " " + styles.Heart(song.Liked)

		if i == l.selected {
			line = styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	if end < len(songs) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(songs)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
