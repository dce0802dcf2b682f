package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/tui/styles"
)

// NowPlaying is the popup with full details of the current song.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the popup content, without placement.
func (n *NowPlaying) Render(state core.PlaybackState, width int) string {
	title := styles.PanelTitle("Now Playing", true)

	var content string
	if state.Song == nil {
		content = styles.Muted.Render("No song selected")
	} else {
		content = n.renderSong(state, width-4)
	}

	return styles.Panel(true).Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (n *NowPlaying) renderSong(state core.PlaybackState, width int) string {
	song := state.Song

	icon := styles.StatusIcon(state.IsPlaying, state.Loading)
	name := styles.Title.Render(truncate(song.DisplayTitle(), width-4))
	artist := styles.Subtitle.Render(truncate(song.DisplayArtist(), width-2))

	like := styles.Heart(song.Liked) + " "
	if song.Liked {
		like += styles.Muted.Render("Liked")
	} else {
		like += styles.Dim.Render("Not liked")
	}

	position := fmt.Sprintf("%s / %s", FormatDuration(state.Position), FormatDuration(state.Duration))
	if state.Length > 0 {
		position += styles.Dim.Render(fmt.Sprintf("   %d of %d", state.Index+1, state.Length))
	}

	lines := []string{
		icon + " " + name,
		"  " + artist,
		"",
		"  " + like,
		"  " + styles.Muted.Render(position),
		"",
		styles.Label.Render("Cover  ") + truncate(song.CoverURL, width-8),
	}
	if song.SourceURL != "" {
		lines = append(lines, styles.Label.Render("Stream ")+truncate(song.SourceURL, width-8))
	}
	lines = append(lines, "", styles.Dim.Render("y:copy stream url  l:like  o/esc:close"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
