package listing

import (
	"net/url"
	"strings"
	"testing"
)

const songRows = `<!doctype html>
<html><body>
<div class="song-list">
  <div class="song-row" data-song-id="a1" data-title="Blue" data-artist="Joni Mitchell" data-cover="/static/img/blue.jpg" data-liked="true">
    <button class="play-song-btn" data-song-id="a1">Play</button>
    <button class="delete-song-btn" data-song-id="a1" data-song-title="Blue">Delete</button>
  </div>
  <div class="song-row" data-song-id="b2" data-title="Harvest" data-artist="Neil Young"></div>
  <div class="song-row" data-song-id="c3" data-title="Pink Moon" data-artist="Nick Drake" data-liked="false"></div>
</div>
</body></html>`

const trackRows = `<table>
<tr class="track-row" data-song-id="t1">
  <td><span class="track-title"> So   What </span><span class="track-artist">Miles Davis</span></td>
  <td><button class="play-button" data-song-id="t1" data-song-url="/play/t1"></button></td>
</tr>
<tr class="track-row" data-song-id="t2">
  <td><span class="track-title">Naima</span><span class="track-artist">John Coltrane</span></td>
  <td><button class="play-button" data-song-id="t2" data-song-url="/play/t2"></button></td>
</tr>
</table>`

func TestBuildSongRows(t *testing.T) {
	songs, err := Build(strings.NewReader(songRows), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(songs) != 3 {
		t.Fatalf("len = %d, want 3", len(songs))
	}
	wantIDs := []string{"a1", "b2", "c3"}
	for i, id := range wantIDs {
		if songs[i].ID != id {
			t.Errorf("songs[%d].ID = %q, want %q", i, songs[i].ID, id)
		}
	}

	if songs[0].Title != "Blue" || songs[0].Artist != "Joni Mitchell" || !songs[0].Liked {
		t.Errorf("songs[0] = %+v", songs[0])
	}
	if songs[0].CoverURL != "/static/img/blue.jpg" {
		t.Errorf("CoverURL = %q", songs[0].CoverURL)
	}
	if songs[2].Liked {
		t.Error("data-liked=false parsed as liked")
	}
}

func TestBuildTrackRowsFallback(t *testing.T) {
	base, _ := url.Parse("http://music.local:5000/mood/chill")
	songs, err := Build(strings.NewReader(trackRows), base)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("len = %d, want 2", len(songs))
	}

	if songs[0].Title != "So What" || songs[0].Artist != "Miles Davis" {
		t.Errorf("songs[0] = %+v", songs[0])
	}
	if songs[0].SourceURL != "http://music.local:5000/play/t1" {
		t.Errorf("SourceURL = %q", songs[0].SourceURL)
	}
	if songs[1].Title != "Naima" {
		t.Errorf("songs[1].Title = %q", songs[1].Title)
	}
}

func TestBuildEmpty(t *testing.T) {
	songs, err := Build(strings.NewReader(`<html><body><p>No songs yet</p></body></html>`), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if songs == nil || len(songs) != 0 {
		t.Errorf("Build() = %#v, want empty non-nil slice", songs)
	}
}

func TestBuildDuplicateKeepsFirstPosition(t *testing.T) {
	doc := `<div data-song-id="x" data-title="First"></div>
<div data-song-id="y" data-title="Other"></div>
<div data-song-id="x" data-title="Second" data-artist="Late Artist"></div>`

	songs, _ := Build(strings.NewReader(doc), nil)
	if len(songs) != 2 {
		t.Fatalf("len = %d, want 2", len(songs))
	}
	if songs[0].ID != "x" || songs[0].Title != "First" {
		t.Errorf("songs[0] = %+v", songs[0])
	}
	if songs[0].Artist != "Late Artist" {
		t.Errorf("missing fields should be filled from later occurrences, got %+v", songs[0])
	}
}
