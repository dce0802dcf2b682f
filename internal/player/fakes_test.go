package player

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/tessro/jukebar/internal/core"
)

const songLength = 3 * time.Minute

type fakeBackend struct {
	mu       sync.Mutex
	audioErr map[string]error
	metaErr  error
	gates    map[string]chan struct{}
	started  chan string
	likeErr  error
	likes    []string
	deletes  []string
	fetches  map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		audioErr: map[string]error{},
		gates:    map[string]chan struct{}{},
		fetches:  map[string]int{},
	}
}

func (b *fakeBackend) FetchAudio(ctx context.Context, id string) ([]byte, error) {
	b.mu.Lock()
	b.fetches[id]++
	gate := b.gates[id]
	err := b.audioErr[id]
	started := b.started
	b.mu.Unlock()

	if started != nil {
		started <- id
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []byte("audio:" + id), nil
}

func (b *fakeBackend) GetSong(ctx context.Context, id string) (*core.Song, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.metaErr != nil {
		return nil, b.metaErr
	}
	return &core.Song{ID: id, Title: "Title " + id, Artist: "Artist " + id}, nil
}

func (b *fakeBackend) ToggleLike(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.likeErr != nil {
		return b.likeErr
	}
	b.likes = append(b.likes, id)
	return nil
}

func (b *fakeBackend) DeleteSong(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, id)
	return nil
}

func (b *fakeBackend) fetchCount(id string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches[id]
}

type fakeMedia struct {
	mu       sync.Mutex
	loaded   string
	loads    int
	playing  bool
	pos      time.Duration
	dur      time.Duration
	volume   float64
	onEnded  func()
	rejectAs error
	playErr  error
}

func (m *fakeMedia) Load(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejectAs != nil {
		return m.rejectAs
	}
	m.loaded = string(data)
	m.loads++
	m.pos = 0
	m.dur = songLength
	m.playing = false
	return nil
}

func (m *fakeMedia) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *fakeMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
}

func (m *fakeMedia) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = ""
	m.playing = false
	m.pos, m.dur = 0, 0
}

func (m *fakeMedia) Seek(p time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = p
	return nil
}

func (m *fakeMedia) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

func (m *fakeMedia) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dur
}

func (m *fakeMedia) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
}

func (m *fakeMedia) OnEnded(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnded = fn
}

// end simulates the song playing out.
func (m *fakeMedia) end() {
	m.mu.Lock()
	m.pos = m.dur
	m.playing = false
	fn := m.onEnded
	m.mu.Unlock()
	fn()
}

func (m *fakeMedia) setPosition(p time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = p
}

func (m *fakeMedia) snapshot() (loaded string, loads int, playing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded, m.loads, m.playing
}

type memStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (s *memStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *memStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

type harness struct {
	c       *Controller
	backend *fakeBackend
	media   *fakeMedia
	store   *memStore
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{backend: newFakeBackend(), media: &fakeMedia{}, store: newMemStore()}
	if opts.Store == nil {
		opts.Store = h.store
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(1, 2))
	}
	h.c = New(h.backend, h.media, opts)
	return h
}

func entries(ids ...string) []core.Song {
	out := make([]core.Song, len(ids))
	for i, id := range ids {
		out[i] = core.Song{ID: id, Title: "Listing " + id}
	}
	return out
}

func letters(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("s%d", i)
	}
	return out
}

func (h *harness) mustPlay(t *testing.T, id string) {
	t.Helper()
	if err := h.c.LoadAndPlay(context.Background(), id); err != nil {
		t.Fatalf("LoadAndPlay(%q) error = %v", id, err)
	}
}
