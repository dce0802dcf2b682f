package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/tessro/jukebar/internal/core"
)

func containsText(rendered, want string) bool {
	return strings.Contains(ansi.Strip(rendered), want)
}

func TestListingCursor(t *testing.T) {
	l := NewListing()
	l.SelectPrev()
	if l.Selected() != 0 {
		t.Fatalf("Selected() = %d", l.Selected())
	}
	l.SelectNext(3)
	l.SelectNext(3)
	l.SelectNext(3)
	if l.Selected() != 2 {
		t.Errorf("Selected() = %d, want 2", l.Selected())
	}
	l.Clamp(1)
	if l.Selected() != 0 {
		t.Errorf("Clamp(1) -> %d", l.Selected())
	}

	songs := []core.Song{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	l.SelectID(songs, "c")
	if l.Selected() != 2 {
		t.Errorf("SelectID -> %d", l.Selected())
	}
}

func TestListingRender(t *testing.T) {
	l := NewListing()
	songs := []core.Song{
		{ID: "1", Title: "First", Artist: "A"},
		{ID: "2", Title: "Second", Artist: "B", Liked: true},
		{ID: "3"},
	}
	state := core.PlaybackState{CurrentSongID: "1", IsPlaying: true, FailedID: "3"}

	out := l.Render("Songs", songs, state, 60, 12, true)
	for _, want := range []string{"First", "Second", "Unknown Title", "▶", "♥", "✗"} {
		if !containsText(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}

	empty := l.Render("Songs", nil, core.PlaybackState{}, 60, 6, false)
	if !containsText(empty, "No songs on this page") {
		t.Errorf("empty Render() = %q", empty)
	}
}
