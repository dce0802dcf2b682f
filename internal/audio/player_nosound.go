//go:build !((linux && cgo) || windows || darwin)

package audio

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Available indicates whether this build can produce sound.
// Sound output on linux requires cgo for the native audio libraries.
const Available = false

// Player is a silent player for builds without audio output. Payloads
// are still decoded so format errors and durations are real, and the
// position advances with the wall clock while playing.
type Player struct {
	mu sync.Mutex

	duration  time.Duration
	offset    time.Duration
	startedAt time.Time
	playing   bool
	onEnded   func()

	log zerolog.Logger
}

// New creates a silent player.
func New(log zerolog.Logger) *Player {
	return &Player{log: log}
}

// Load decodes data to validate it and read its length.
func (p *Player) Load(data []byte) error {
	d, err := Probe(data)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duration = d
	p.offset = 0
	p.playing = false
	p.log.Debug().Dur("duration", d).Msg("audio loaded (silent output)")
	return nil
}

// Play starts the clock.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		p.startedAt = time.Now()
		p.playing = true
	}
	return nil
}

// Pause stops the clock.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = p.positionLocked()
	p.playing = false
}

// Stop resets the player.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duration, p.offset, p.playing = 0, 0, false
}

// Seek moves the clock.
func (p *Player) Seek(position time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = min(max(position, 0), p.duration)
	p.startedAt = time.Now()
	return nil
}

// Position returns the simulated playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	pos := p.offset
	if p.playing {
		pos += time.Since(p.startedAt)
	}
	return min(pos, p.duration)
}

// Duration returns the length of the loaded song.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// SetVolume is a no-op without audio output.
func (p *Player) SetVolume(level float64) {}

// OnEnded registers the end-of-song handler. The silent player never
// reaches the end on its own.
func (p *Player) OnEnded(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEnded = fn
}
