package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	storage, err := NewSessionStorage(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(srv.URL, 5*time.Second, storage)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, srv
}

func TestFetchAudioStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, jerrors.ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, jerrors.ErrUnauthorized},
		{"unsupported", http.StatusUnsupportedMediaType, jerrors.ErrUnsupportedFormat},
		{"server", http.StatusInternalServerError, jerrors.ErrServer},
		{"bad gateway", http.StatusBadGateway, jerrors.ErrServer},
		{"forbidden", http.StatusForbidden, jerrors.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": "nope"}`))
			}))

			_, err := c.FetchAudio(context.Background(), "abc")
			if !errors.Is(err, tt.want) {
				t.Errorf("FetchAudio() error = %v, want %v", err, tt.want)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Message != "nope" {
				t.Errorf("FetchAudio() error = %#v, want APIError with message", err)
			}
		})
	}
}

func TestFetchAudioNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.FetchAudio(context.Background(), "abc"); !errors.Is(err, jerrors.ErrNetwork) {
		t.Errorf("FetchAudio() error = %v, want ErrNetwork", err)
	}
}

func TestFetchAudioLoginRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/play/abc", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		t.Error("client should not follow the redirect to /login")
	})
	c, _ := newTestClient(t, mux)

	if _, err := c.FetchAudio(context.Background(), "abc"); !errors.Is(err, jerrors.ErrUnauthorized) {
		t.Errorf("FetchAudio() error = %v, want ErrUnauthorized", err)
	}
}

func TestFetchAudioSuccess(t *testing.T) {
	var requestID string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/play/abc" {
			t.Errorf("path = %q", r.URL.Path)
		}
		requestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3fake"))
	}))

	data, err := c.FetchAudio(context.Background(), "abc")
	if err != nil {
		t.Fatalf("FetchAudio() error = %v", err)
	}
	if string(data) != "ID3fake" {
		t.Errorf("data = %q", data)
	}
	if requestID == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestFetchAudioHTMLIsUnsupported(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	if _, err := c.FetchAudio(context.Background(), "abc"); !errors.Is(err, jerrors.ErrUnsupportedFormat) {
		t.Errorf("FetchAudio() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestFetchAudioNoRetry(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, _ = c.FetchAudio(context.Background(), "abc")
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}
}

func TestGetSong(t *testing.T) {
	tests := []struct {
		name      string
		imagePath string
		wantCover string
	}{
		{"relative", "uploads/cover.jpg", "/static/uploads/cover.jpg"},
		{"absolute path", "/static/img/x.png", "/static/img/x.png"},
		{"missing", "", "/static/img/default-cover.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(SongResponse{
					Status: "success",
					Song:   &SongDTO{Title: "Blue", Artist: "Joni", ImagePath: tt.imagePath, IsLiked: true},
				})
			}))

			song, err := c.GetSong(context.Background(), "s1")
			if err != nil {
				t.Fatalf("GetSong() error = %v", err)
			}
			if song.Title != "Blue" || song.Artist != "Joni" || !song.Liked {
				t.Errorf("song = %+v", song)
			}
			if song.CoverURL != srv.URL+tt.wantCover {
				t.Errorf("CoverURL = %q, want %q", song.CoverURL, srv.URL+tt.wantCover)
			}
			if song.SourceURL != srv.URL+"/play/s1" {
				t.Errorf("SourceURL = %q", song.SourceURL)
			}
		})
	}
}

func TestGetSongErrorStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "error"}`))
	}))
	if _, err := c.GetSong(context.Background(), "s1"); !errors.Is(err, jerrors.ErrNotFound) {
		t.Errorf("GetSong() error = %v, want ErrNotFound", err)
	}
}

func TestToggleLike(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/like-song/s1" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status": "success"}`))
	}))
	if err := c.ToggleLike(context.Background(), "s1"); err != nil {
		t.Errorf("ToggleLike() error = %v", err)
	}
}

func TestToggleLikeFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status": "error", "message": "Failed to update like status"}`))
	}))
	err := c.ToggleLike(context.Background(), "s1")
	if err == nil || !strings.Contains(err.Error(), "Failed to update like status") {
		t.Errorf("ToggleLike() error = %v", err)
	}
}

func TestDeleteSong(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"success": false, "message": "Song could not be deleted"}`))
	}))
	err := c.DeleteSong(context.Background(), "s1")
	if !errors.Is(err, jerrors.ErrServer) {
		t.Errorf("DeleteSong() error = %v, want ErrServer", err)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler())
	if _, err := c.Search(context.Background(), "   "); !errors.Is(err, jerrors.ErrValidation) {
		t.Errorf("Search() error = %v, want ErrValidation", err)
	}
}

func TestSearchEncodesQuery(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "rock & roll" {
			t.Errorf("q = %q", got)
		}
		_, _ = w.Write([]byte("<html></html>"))
	}))
	if _, err := c.Search(context.Background(), "rock & roll"); err != nil {
		t.Errorf("Search() error = %v", err)
	}
}

func TestCreateOrderAndProcessPayment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/subscription/create-order/premium", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "order_1", "amount": 19900, "currency": "INR"}`))
	})
	mux.HandleFunc("/subscription/process-payment", func(w http.ResponseWriter, r *http.Request) {
		var v PaymentVerification
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			t.Fatal(err)
		}
		if v.OrderID != "order_1" || v.PlanType != "premium" || v.Signature != "sig" {
			t.Errorf("verification = %+v", v)
		}
		_, _ = w.Write([]byte(`{"success": false, "error": "Payment verification failed"}`))
	})
	c, _ := newTestClient(t, mux)

	order, err := c.CreateOrder(context.Background(), "premium")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.Amount != 19900 || order.Currency != "INR" {
		t.Errorf("order = %+v", order)
	}

	err = c.ProcessPayment(context.Background(), PaymentVerification{
		PaymentID: "pay_1", OrderID: order.ID, Signature: "sig", PlanType: "premium",
	})
	if err == nil || !strings.Contains(err.Error(), "Payment verification failed") {
		t.Errorf("ProcessPayment() error = %v", err)
	}
}

func TestBuildURL(t *testing.T) {
	if got := BuildURL("/search", nil); got != "/search" {
		t.Errorf("BuildURL() = %q", got)
	}
	if got := BuildURL("/search", map[string]string{"q": "a b"}); got != "/search?q=a+b" {
		t.Errorf("BuildURL() = %q", got)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Status: 404, Message: "Song not found"}
	if got := err.Error(); got != "server returned 404: Song not found" {
		t.Errorf("Error() = %q", got)
	}
	err = &APIError{Status: 500}
	if got := err.Error(); got != "server returned 500 Internal Server Error" {
		t.Errorf("Error() = %q", got)
	}
}
