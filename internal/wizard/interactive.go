// Package wizard holds the interactive prompts CLI commands fall back to
// when an argument is missing and a terminal is attached.
package wizard

import (
	"os"

	"golang.org/x/term"

	"github.com/tessro/jukebar/internal/core"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled    bool
	terminal   func() bool
	searchFunc SearchFunc
	songs      []core.Song
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled:  true,
		terminal: IsTerminal,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// SetSearchFunc sets the search function for the search wizard.
func (i *Interactive) SetSearchFunc(fn SearchFunc) {
	i.searchFunc = fn
}

// SetSongs sets the listing offered by the song picker.
func (i *Interactive) SetSongs(songs []core.Song) {
	i.songs = songs
}

// IsTerminal returns true if both stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && i.terminal()
}

// PromptSearch launches the search wizard if interactive mode is available.
// Returns the selected song, or nil if cancelled or not interactive.
func (i *Interactive) PromptSearch(initial string) (*core.Song, error) {
	if !i.CanInteract() || i.searchFunc == nil {
		return nil, nil
	}
	return RunSearch(i.searchFunc, initial)
}

// PromptSong launches the song picker over the listing if interactive
// mode is available. Returns the selected song, or nil if cancelled or
// not interactive.
func (i *Interactive) PromptSong(title string) (*core.Song, error) {
	if !i.CanInteract() || len(i.songs) == 0 {
		return nil, nil
	}
	return RunSongPicker(title, i.songs)
}

// NeedsSong returns true if a song argument is required but missing.
func NeedsSong(args []string) bool {
	return len(args) == 0
}
