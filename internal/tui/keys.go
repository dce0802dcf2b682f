package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	PlayPause key.Binding
	Next      key.Binding
	Prev      key.Binding
	SeekBack  key.Binding
	SeekFwd   key.Binding
	VolUp     key.Binding
	VolDown   key.Binding
	Mute      key.Binding
	Shuffle   key.Binding
	Repeat    key.Binding
	Like      key.Binding
	Delete    key.Binding
	Retry     key.Binding
	Copy      key.Binding
	Down      key.Binding
	Up        key.Binding
	Select    key.Binding
	Tab       key.Binding
	Search    key.Binding
	Refresh   key.Binding
	NowPlay   key.Binding
	Theme     key.Binding
	Extend    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
	Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
	Prev:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
	SeekBack:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-10s")),
	SeekFwd:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+10s")),
	VolUp:     key.NewBinding(key.WithKeys("up", "+", "="), key.WithHelp("↑/+", "volume up")),
	VolDown:   key.NewBinding(key.WithKeys("down", "-"), key.WithHelp("↓/-", "volume down")),
	Mute:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
	Shuffle:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
	Repeat:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
	Like:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Retry:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "retry")),
	Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
	Down:      key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "down")),
	Up:        key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "up")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play selected")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload listing")),
	NowPlay:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "now playing")),
	Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Extend:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "keep me signed in")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit, k.Search, k.PlayPause, k.Next, k.Prev, k.Like}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Next, k.Prev, k.SeekBack, k.SeekFwd, k.Retry},
		{k.VolUp, k.VolDown, k.Mute, k.Shuffle, k.Repeat},
		{k.Down, k.Up, k.Select, k.Tab, k.Refresh, k.Search},
		{k.Like, k.Delete, k.Copy, k.NowPlay, k.Theme, k.Extend, k.Help, k.Quit},
	}
}
