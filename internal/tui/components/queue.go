package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/tui/styles"
)

// UpNext shows the playlist from the current song onward, in play order.
type UpNext struct{}

// NewUpNext creates a new UpNext component
func NewUpNext() *UpNext {
	return &UpNext{}
}

// Render renders the up-next panel. index is the playlist position of the
// current song, or -1 when nothing from the playlist is loaded.
func (u *UpNext) Render(entries []core.Song, index int, repeat core.RepeatMode, width, height int) string {
	title := styles.PanelTitle("Up Next", false)

	upcoming := Upcoming(entries, index, repeat)
	var content string
	if len(upcoming) == 0 {
		content = styles.Muted.Render("Nothing queued")
	} else {
		content = u.renderUpcoming(upcoming, width-4, height-4)
	}

	panel := styles.Panel(false).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (u *UpNext) renderUpcoming(songs []core.Song, width, maxLines int) string {
	visible := max(maxLines-1, 1) // room for the "more" line
	end := min(len(songs), visible)

	lines := make([]string, 0, end+1)
	for i := range end {
		num := fmt.Sprintf("%2d.", i+1)
		// "XX. " (4) + " — " (3)
		title, artist := fitPair(songs[i].DisplayTitle(), songs[i].DisplayArtist(), width-7)
		lines = append(lines, fmt.Sprintf("%s %s — %s", styles.Dim.Render(num), title, styles.Muted.Render(artist)))
	}
	if end < len(songs) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(songs)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Upcoming returns the songs that follow index. With repeat-all the
// playlist wraps, so the songs before index follow too.
func Upcoming(entries []core.Song, index int, repeat core.RepeatMode) []core.Song {
	if len(entries) == 0 || index >= len(entries) {
		return nil
	}
	if repeat == core.RepeatOne && index >= 0 {
		return []core.Song{entries[index]}
	}
	out := append([]core.Song{}, entries[index+1:]...)
	if repeat == core.RepeatAll && index > 0 {
		out = append(out, entries[:index]...)
	}
	return out
}
