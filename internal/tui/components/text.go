package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func lipglossFg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// truncate shortens s to fit width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// fitPair truncates a title and artist to share width cells, giving the
// artist at least a third of the space.
func fitPair(title, artist string, width int) (string, string) {
	tw, aw := runewidth.StringWidth(title), runewidth.StringWidth(artist)
	if tw+aw <= width {
		return title, artist
	}
	minArtist := max(width/3, 8)
	minArtist = min(minArtist, width-8)
	artistSpace := min(aw, max(minArtist, 0))
	return truncate(title, width-artistSpace), truncate(artist, artistSpace)
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
