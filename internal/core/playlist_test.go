package core

import (
	"math/rand/v2"
	"testing"
)

func songs(ids ...string) []Song {
	out := make([]Song, len(ids))
	for i, id := range ids {
		out[i] = Song{ID: id, Title: "Song " + id}
	}
	return out
}

func ids(p *Playlist) []string {
	var out []string
	for _, s := range p.Entries() {
		out = append(out, s.ID)
	}
	return out
}

func TestPlaylistAdvanceWraps(t *testing.T) {
	p := NewPlaylist(songs("A", "B", "C"))

	want := []string{"B", "C", "A"}
	for _, w := range want {
		p.Advance(1)
		cur, _ := p.Current()
		if cur.ID != w {
			t.Fatalf("Current() = %q, want %q", cur.ID, w)
		}
	}

	if got := p.Advance(-1); got != 2 {
		t.Errorf("Advance(-1) from 0 = %d, want 2", got)
	}
}

func TestPlaylistAdvanceFullCycle(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for start := 0; start < n; start++ {
			p := NewPlaylist(songs(make([]string, n)...))
			p.SetIndex(start)
			for i := 0; i < n; i++ {
				idx := p.Advance(1)
				if idx < 0 || idx >= n {
					t.Fatalf("n=%d: index %d out of range", n, idx)
				}
			}
			if p.Index() != start {
				t.Errorf("n=%d start=%d: after %d advances index = %d", n, start, n, p.Index())
			}
		}
	}
}

func TestPlaylistEmpty(t *testing.T) {
	p := NewPlaylist(nil)
	if p.Index() != -1 {
		t.Errorf("Index() = %d, want -1", p.Index())
	}
	if p.Advance(1) != -1 {
		t.Error("Advance on empty playlist should return -1")
	}
	if _, ok := p.Current(); ok {
		t.Error("Current() ok on empty playlist")
	}
	p.Shuffle(rand.New(rand.NewPCG(1, 2)))
	if p.Shuffled() {
		t.Error("empty playlist should not hold a shuffle snapshot")
	}
}

func TestPlaylistShuffleRestores(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for n := 1; n <= 8; n++ {
		for start := 0; start < n; start++ {
			names := make([]string, n)
			for i := range names {
				names[i] = string(rune('A' + i))
			}
			p := NewPlaylist(songs(names...))
			p.SetIndex(start)
			before := ids(p)
			current, _ := p.Current()

			p.Shuffle(rng)
			shuffled, _ := p.Current()
			if shuffled.ID != current.ID {
				t.Fatalf("n=%d: shuffle moved away from %q to %q", n, current.ID, shuffled.ID)
			}

			p.Unshuffle()
			after := ids(p)
			for i := range before {
				if before[i] != after[i] {
					t.Fatalf("n=%d: order = %v, want %v", n, after, before)
				}
			}
			restored, _ := p.Current()
			if restored.ID != current.ID || p.Index() != start {
				t.Errorf("n=%d: current = %q@%d, want %q@%d", n, restored.ID, p.Index(), current.ID, start)
			}
		}
	}
}

func TestPlaylistShuffleIsPermutation(t *testing.T) {
	p := NewPlaylist(songs("A", "B", "C", "D", "E"))
	p.Shuffle(rand.New(rand.NewPCG(3, 4)))

	seen := map[string]int{}
	for _, id := range ids(p) {
		seen[id]++
	}
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		if seen[id] != 1 {
			t.Errorf("%q appears %d times after shuffle", id, seen[id])
		}
	}
}

func TestPlaylistRandomIndexInRange(t *testing.T) {
	p := NewPlaylist(songs("A", "B", "C"))
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 100; i++ {
		if idx := p.RandomIndex(rng); idx < 0 || idx >= 3 {
			t.Fatalf("RandomIndex() = %d", idx)
		}
	}
}

func TestPlaylistReplaceKeepsCurrent(t *testing.T) {
	p := NewPlaylist(songs("A", "B", "C"))
	p.Select("B")

	p.Replace(songs("X", "B"))
	if p.Index() != 1 {
		t.Errorf("Index() = %d, want 1", p.Index())
	}

	p.Replace(songs("Y", "Z"))
	if p.Index() != 0 {
		t.Errorf("Index() = %d, want 0 after current vanished", p.Index())
	}
}

func TestPlaylistRemove(t *testing.T) {
	tests := []struct {
		name      string
		selected  string
		remove    string
		wantIDs   []string
		wantIndex int
	}{
		{"before current", "C", "A", []string{"B", "C"}, 1},
		{"after current", "A", "C", []string{"A", "B"}, 0},
		{"current middle", "B", "B", []string{"A", "C"}, 1},
		{"current last", "C", "C", []string{"A", "B"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlaylist(songs("A", "B", "C"))
			p.Select(tt.selected)
			if !p.Remove(tt.remove) {
				t.Fatal("Remove() = false")
			}
			got := ids(p)
			if len(got) != len(tt.wantIDs) || got[0] != tt.wantIDs[0] || got[1] != tt.wantIDs[1] {
				t.Errorf("entries = %v, want %v", got, tt.wantIDs)
			}
			if p.Index() != tt.wantIndex {
				t.Errorf("Index() = %d, want %d", p.Index(), tt.wantIndex)
			}
		})
	}
}

func TestPlaylistRemoveWhileShuffled(t *testing.T) {
	p := NewPlaylist(songs("A", "B", "C"))
	p.Shuffle(rand.New(rand.NewPCG(5, 6)))
	p.Remove("B")
	p.Unshuffle()

	got := ids(p)
	if len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Errorf("entries = %v, want [A C]", got)
	}
}

func TestPlaylistUpdate(t *testing.T) {
	p := NewPlaylist(songs("A", "B"))
	p.Shuffle(rand.New(rand.NewPCG(1, 1)))
	p.Update("B", func(s *Song) { s.Liked = true })
	p.Unshuffle()

	b, _ := p.At(1)
	if !b.Liked {
		t.Error("Update() did not reach the saved order")
	}
}

func TestRepeatModeCycle(t *testing.T) {
	for _, m := range []RepeatMode{RepeatNone, RepeatAll, RepeatOne} {
		if got := m.Next().Next().Next(); got != m {
			t.Errorf("%s: three steps = %s", m, got)
		}
	}
	if RepeatNone.Next() != RepeatAll || RepeatAll.Next() != RepeatOne || RepeatOne.Next() != RepeatNone {
		t.Error("cycle order should be none -> all -> one -> none")
	}
}

func TestParseRepeatMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RepeatMode
		wantErr bool
	}{
		{"", RepeatNone, false},
		{"all", RepeatAll, false},
		{"one", RepeatOne, false},
		{"track", RepeatNone, true},
	}
	for _, tt := range tests {
		got, err := ParseRepeatMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRepeatMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestProgressFraction(t *testing.T) {
	s := &PlaybackState{Position: 30e9, Duration: 120e9}
	if got := s.ProgressFraction(); got != 0.25 {
		t.Errorf("ProgressFraction() = %v, want 0.25", got)
	}
	if got := (&PlaybackState{Position: 5}).ProgressFraction(); got != 0 {
		t.Errorf("ProgressFraction() with unknown duration = %v", got)
	}
}
