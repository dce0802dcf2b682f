package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/tui/styles"
)

// PlayerBar is the bottom bar: current song, progress and volume.
type PlayerBar struct {
	Progress Slider
	Volume   Slider
}

// PlayerBarHeight is the rendered height including the border.
const PlayerBarHeight = 5

const (
	timeWidth   = 5
	volumeLabel = "vol "
	volumeWidth = 20
)

// NewPlayerBar creates a new PlayerBar component
func NewPlayerBar() *PlayerBar {
	return &PlayerBar{}
}

// Layout places both sliders for a bar whose top border sits at row top
// and which spans width columns.
func (b *PlayerBar) Layout(top, width int) {
	inner := width - 4 // border and padding
	left := 2
	b.Progress.SetBounds(left+timeWidth+1, top+2, max(inner-2*(timeWidth+1), 1))
	b.Volume.SetBounds(left+len(volumeLabel), top+3, min(volumeWidth, max(inner/3, 1)))
}

// Sync moves both sliders to the state, except one being dragged.
func (b *PlayerBar) Sync(state core.PlaybackState) {
	b.Progress.SetValue(state.ProgressFraction())
	b.Volume.SetValue(state.Volume)
}

// Dragging reports whether either slider holds the pointer.
func (b *PlayerBar) Dragging() bool {
	return b.Progress.Dragging() || b.Volume.Dragging()
}

// Render renders the player bar.
func (b *PlayerBar) Render(state core.PlaybackState, width int) string {
	inner := width - 4

	var song string
	switch {
	case state.Song != nil:
		title, artist := fitPair(state.Song.DisplayTitle(), state.Song.DisplayArtist(), inner-8)
		song = fmt.Sprintf("%s %s %s %s",
			styles.StatusIcon(state.IsPlaying, state.Loading),
			styles.Title.Render(title),
			styles.Muted.Render("— "+artist),
			styles.Heart(state.Song.Liked))
	case state.Loading:
		song = styles.StatusIcon(false, true) + " " + styles.Muted.Render("Loading...")
	default:
		song = styles.Muted.Render("Nothing playing")
	}

	pos := state.Position
	if b.Progress.Dragging() {
		pos = timeAt(b.Progress.Value(), state)
	}
	progress := fmt.Sprintf("%*s %s %*s",
		timeWidth, FormatDuration(pos),
		b.Progress.View(),
		timeWidth, FormatDuration(state.Duration))

	volume := volumeLabel + b.Volume.View() + " " + styles.Dim.Render(fmt.Sprintf("%3d%%", state.VolumePercent()))
	if state.Muted {
		volume += " " + styles.Paused.Render("muted")
	}
	volume += "   " + modes(state)

	return styles.Panel(false).Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		song,
		progress,
		volume,
	))
}

func timeAt(fraction float64, state core.PlaybackState) time.Duration {
	return time.Duration(fraction * float64(state.Duration))
}

func modes(state core.PlaybackState) string {
	shuffle := styles.Dim.Render("shuffle")
	if state.Shuffle {
		shuffle = styles.Highlight.Render("shuffle")
	}
	repeat := styles.Dim.Render("repeat")
	switch state.Repeat {
	case core.RepeatAll:
		repeat = styles.Highlight.Render("repeat all")
	case core.RepeatOne:
		repeat = styles.Highlight.Render("repeat one")
	}
	return shuffle + "  " + repeat
}
