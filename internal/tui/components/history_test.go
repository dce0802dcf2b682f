package components

import (
	"fmt"
	"testing"
	"time"

	"github.com/tessro/jukebar/internal/core"
)

func TestHistoryAdd(t *testing.T) {
	h := NewHistory()
	h.Add(core.Song{ID: "1"})
	h.Add(core.Song{ID: "1"})
	h.Add(core.Song{ID: "2"})

	got := h.Entries()
	if len(got) != 2 || got[0].Song.ID != "2" || got[1].Song.ID != "1" {
		t.Errorf("Entries() = %+v", got)
	}
}

func TestHistoryBounded(t *testing.T) {
	h := NewHistory()
	for i := range maxHistory + 10 {
		h.Add(core.Song{ID: fmt.Sprint(i)})
	}
	if n := len(h.Entries()); n != maxHistory {
		t.Errorf("len = %d, want %d", n, maxHistory)
	}
}

func TestHistoryRenderRelativeTime(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	h := NewHistory()
	h.now = func() time.Time { return base }
	h.Add(core.Song{ID: "1", Title: "Song", Artist: "Band"})
	h.now = func() time.Time { return base.Add(3 * time.Minute) }

	out := h.Render(60, 8, false)
	if !containsText(out, "3 minutes ago") {
		t.Errorf("Render() = %q, want relative time", out)
	}
}
