package core

import (
	"math/rand/v2"

	"github.com/samber/lo"
)

// Playlist is an ordered sequence of songs with a current position.
//
// Whenever the playlist is non-empty, the index lies in [0, Len()).
// An empty playlist reports index -1.
type Playlist struct {
	entries  []Song
	original []Song // order before shuffling; nil when not shuffled
	index    int
}

// NewPlaylist creates a playlist positioned at the first entry.
func NewPlaylist(entries []Song) *Playlist {
	p := &Playlist{}
	p.Replace(entries)
	return p
}

// Len returns the number of entries.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// IsEmpty returns true if the playlist has no entries.
func (p *Playlist) IsEmpty() bool {
	return p.Len() == 0
}

// Index returns the current position, or -1 when empty.
func (p *Playlist) Index() int {
	if p.IsEmpty() {
		return -1
	}
	return p.index
}

// Current returns the entry at the current position.
func (p *Playlist) Current() (Song, bool) {
	if p.IsEmpty() {
		return Song{}, false
	}
	return p.entries[p.index], true
}

// At returns the entry at i.
func (p *Playlist) At(i int) (Song, bool) {
	if i < 0 || i >= p.Len() {
		return Song{}, false
	}
	return p.entries[i], true
}

// Entries returns a copy of the entries in play order.
func (p *Playlist) Entries() []Song {
	if p == nil {
		return nil
	}
	out := make([]Song, len(p.entries))
	copy(out, p.entries)
	return out
}

// IndexOf returns the position of the entry with id, or -1.
func (p *Playlist) IndexOf(id string) int {
	if p == nil {
		return -1
	}
	return indexOf(p.entries, id)
}

// SetIndex moves the current position. Out-of-range values are rejected.
func (p *Playlist) SetIndex(i int) bool {
	if i < 0 || i >= p.Len() {
		return false
	}
	p.index = i
	return true
}

// Select moves the current position to the entry with id.
func (p *Playlist) Select(id string) bool {
	return p.SetIndex(p.IndexOf(id))
}

// Advance moves delta steps with wrap-around and returns the new index.
func (p *Playlist) Advance(delta int) int {
	n := p.Len()
	if n == 0 {
		return -1
	}
	p.index = ((p.index+delta)%n + n) % n
	return p.index
}

// RandomIndex picks a uniformly random position, possibly the current one,
// and moves there.
func (p *Playlist) RandomIndex(rng *rand.Rand) int {
	n := p.Len()
	if n == 0 {
		return -1
	}
	p.index = rng.IntN(n)
	return p.index
}

// Shuffled reports whether a pre-shuffle ordering is being held.
func (p *Playlist) Shuffled() bool {
	return p != nil && p.original != nil
}

// Shuffle saves the current order and permutes the entries with a
// Fisher-Yates pass. The index follows the current entry to its new slot.
func (p *Playlist) Shuffle(rng *rand.Rand) {
	if p.IsEmpty() {
		return
	}
	current := p.entries[p.index].ID
	if p.original == nil {
		p.original = make([]Song, len(p.entries))
		copy(p.original, p.entries)
	}
	for i := len(p.entries) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		p.entries[i], p.entries[j] = p.entries[j], p.entries[i]
	}
	p.relocate(current)
}

// Unshuffle restores the saved order and relocates the index by identity.
func (p *Playlist) Unshuffle() {
	if p.original == nil {
		return
	}
	var current string
	if s, ok := p.Current(); ok {
		current = s.ID
	}
	p.entries = p.original
	p.original = nil
	p.relocate(current)
}

// Replace swaps in a new listing wholesale. The position follows the
// current entry when it is still present, otherwise it resets to the start.
func (p *Playlist) Replace(entries []Song) {
	var current string
	if s, ok := p.Current(); ok {
		current = s.ID
	}
	p.entries = make([]Song, len(entries))
	copy(p.entries, entries)
	p.original = nil
	p.index = 0
	p.relocate(current)
}

// Remove drops the entry with id from the playlist and any saved order.
func (p *Playlist) Remove(id string) bool {
	i := p.IndexOf(id)
	if i < 0 {
		return false
	}
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	if p.original != nil {
		if j := indexOf(p.original, id); j >= 0 {
			p.original = append(p.original[:j], p.original[j+1:]...)
		}
	}
	if i < p.index {
		p.index--
	}
	if p.index >= len(p.entries) {
		p.index = 0
	}
	return true
}

// Update applies fn to every copy of the entry with id.
func (p *Playlist) Update(id string, fn func(*Song)) bool {
	i := p.IndexOf(id)
	if i < 0 {
		return false
	}
	fn(&p.entries[i])
	if p.original != nil {
		if j := indexOf(p.original, id); j >= 0 {
			fn(&p.original[j])
		}
	}
	return true
}

func (p *Playlist) relocate(id string) {
	if id == "" {
		return
	}
	if i := indexOf(p.entries, id); i >= 0 {
		p.index = i
	}
}

func indexOf(entries []Song, id string) int {
	_, i, _ := lo.FindIndexOf(entries, func(s Song) bool { return s.ID == id })
	return i
}
