package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tessro/jukebar/internal/api"
	"github.com/tessro/jukebar/internal/core"
)

func TestTargetVolume(t *testing.T) {
	tests := []struct {
		name    string
		current int
		args    []string
		up      bool
		down    bool
		want    int
		wantErr bool
	}{
		{"absolute", 50, []string{"30"}, false, false, 30, false},
		{"up", 50, nil, true, false, 60, false},
		{"up clamps", 95, nil, true, false, 100, false},
		{"down", 50, nil, false, true, 40, false},
		{"down clamps", 5, nil, false, true, 0, false},
		{"unchanged", 70, nil, false, false, 70, false},
		{"not a number", 50, []string{"loud"}, false, false, 0, true},
		{"too high", 50, []string{"101"}, false, false, 0, true},
		{"negative", 50, []string{"-1"}, false, false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := targetVolume(tt.current, tt.args, tt.up, tt.down)
			if (err != nil) != tt.wantErr {
				t.Fatalf("targetVolume() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("targetVolume() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFilterSongs(t *testing.T) {
	songs := []core.Song{
		{ID: "1", Title: "One", Liked: true},
		{ID: "2", Title: "Two"},
		{ID: "3", Title: "Three", Liked: true},
		{ID: "4", Title: "Four", Liked: true},
	}

	tests := []struct {
		name  string
		liked bool
		limit int
		want  []string
	}{
		{"all", false, 0, []string{"1", "2", "3", "4"}},
		{"liked", true, 0, []string{"1", "3", "4"}},
		{"limit", false, 2, []string{"1", "2"}},
		{"liked and limit", true, 2, []string{"1", "3"}},
		{"limit above length", false, 10, []string{"1", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterSongs(songs, tt.liked, tt.limit)
			var ids []string
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("filterSongs() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestParseConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{"server.base_url", "http://music.local:5000", "http://music.local:5000", false},
		{"server.timeout", "15", 15, false},
		{"server.timeout", "soon", nil, true},
		{"defaults.volume", "0.5", 0.5, false},
		{"defaults.volume", "half", nil, true},
		{"defaults.shuffle", "true", true, false},
		{"defaults.shuffle", "maybe", nil, true},
		{"tui.refresh_interval", "250", 250, false},
		{"tui.theme", "dark", "dark", false},
		{"audio.device", "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := parseConfigValue(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseConfigValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseConfigValue() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestEnded(t *testing.T) {
	song := &core.Song{ID: "1"}
	tests := []struct {
		name  string
		state core.PlaybackState
		want  bool
	}{
		{"nothing loaded", core.PlaybackState{}, false},
		{"playing", core.PlaybackState{CurrentSongID: "1", Song: song, IsPlaying: true, Position: time.Second, Duration: time.Minute}, false},
		{"paused midway", core.PlaybackState{CurrentSongID: "1", Song: song, Position: time.Second, Duration: time.Minute}, false},
		{"finished", core.PlaybackState{CurrentSongID: "1", Song: song, Position: time.Minute, Duration: time.Minute}, true},
		{"loading next", core.PlaybackState{CurrentSongID: "1", Song: song, Loading: true, Position: time.Minute, Duration: time.Minute}, false},
		{"unknown duration", core.PlaybackState{CurrentSongID: "1", Song: song}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ended(tt.state); got != tt.want {
				t.Errorf("ended() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeleteSongsPartial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/songs/2" {
			_, _ = w.Write([]byte(`{"success": false, "message": "not yours"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client, err := api.New(server.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("api.New() error = %v", err)
	}

	result := deleteSongs(context.Background(), client, []string{"1", "2", "3"})
	if got := strings.Join(result.Data, ","); got != "1,3" {
		t.Errorf("deleted = %q, want %q", got, "1,3")
	}
	if !result.HasErrors() || len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Error(), "not yours") {
		t.Errorf("error = %q, want the server message", result.Errors[0])
	}
}
