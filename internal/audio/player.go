//go:build (linux && cgo) || windows || darwin

package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

// Available indicates whether this build can produce sound.
const Available = true

// speakerRate is the fixed output rate; songs are resampled to it.
const speakerRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(time.Second/10))
	})
	return speakerErr
}

// Player plays one decoded song at a time through the system speaker.
type Player struct {
	mu sync.Mutex

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64

	// generation increments on every Load and Stop so end-of-song
	// callbacks from replaced songs can be told apart.
	generation uint64
	onEnded    func()

	log zerolog.Logger
}

// New creates a player at full volume. The speaker is opened on first Load.
func New(log zerolog.Logger) *Player {
	return &Player{level: 1, log: log}
}

// Load decodes data and queues it paused at the start.
func (p *Player) Load(data []byte) error {
	streamer, format, err := Decode(data)
	if err != nil {
		return err
	}
	if err := initSpeaker(); err != nil {
		streamer.Close()
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.generation++
	gen := p.generation

	p.streamer = streamer
	p.format = format

	var resampled beep.Streamer = streamer
	if format.SampleRate != speakerRate {
		resampled = beep.Resample(4, format.SampleRate, speakerRate, streamer)
	}
	p.ctrl = &beep.Ctrl{Streamer: resampled, Paused: true}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToExponent(p.level),
		Silent:   p.level <= 0,
	}

	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		// Run outside the speaker lock; the handler may load the next song.
		go p.ended(gen)
	})))

	p.log.Debug().
		Dur("duration", format.SampleRate.D(streamer.Len())).
		Int("sample_rate", int(format.SampleRate)).
		Msg("audio loaded")
	return nil
}

func (p *Player) ended(gen uint64) {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return
	}
	fn := p.onEnded
	p.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Play resumes playback.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = false
		speaker.Unlock()
	}
	return nil
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
}

// Stop stops playback and releases the song.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.stopLocked()
}

// stopLocked stops playback (must be called with lock held).
func (p *Player) stopLocked() {
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Streamer = nil
		speaker.Unlock()
	}
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.volume = nil
}

// Seek moves the playback position, clamped to the song.
func (p *Player) Seek(position time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return nil
	}

	n := p.format.SampleRate.N(position)
	n = min(max(n, 0), p.streamer.Len()-1)

	speaker.Lock()
	defer speaker.Unlock()
	return p.streamer.Seek(max(n, 0))
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// Duration returns the length of the loaded song.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// SetVolume sets the output level in [0,1].
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = min(max(level, 0), 1)
	if p.volume == nil {
		return
	}
	speaker.Lock()
	p.volume.Volume = levelToExponent(p.level)
	p.volume.Silent = p.level <= 0
	speaker.Unlock()
}

// OnEnded registers the end-of-song handler.
func (p *Player) OnEnded(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEnded = fn
}
