package audio

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"brawl/internal/config"
	"brawl/internal/game"
)

// MaxVoices caps simultaneously mixed cues. Extra cues are dropped.
const MaxVoices = 16

// Player turns combat cues into sound. It implements game.AudioTrigger.
// Without a speaker the mix is pulled through Stream, which is how the
// server and tests use it.
type Player struct {
	mu      sync.Mutex // guards mixer and speakerOn
	mixer   *beep.Mixer
	rate    beep.SampleRate
	volume  float64
	enabled bool

	// Decoded <cue>.ogg / <cue>.wav overrides; nil entries are synthesized
	samples [game.NumCues]*beep.Buffer

	speakerOn atomic.Bool
	played    [game.NumCues]atomic.Uint64
	dropped   atomic.Uint64
}

// NewPlayer creates a player. Missing or broken override files fall back to
// synthesized cues, so construction never fails.
func NewPlayer(cfg config.AudioConfig) *Player {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = config.DefaultAudio().SampleRate
	}

	p := &Player{
		mixer:   &beep.Mixer{},
		rate:    beep.SampleRate(rate),
		volume:  cfg.Volume,
		enabled: cfg.Enabled,
	}

	if cfg.SampleDir != "" {
		for c := game.Cue(0); c < game.NumCues; c++ {
			buf, err := p.loadSample(cfg.SampleDir, c)
			if err != nil {
				log.Printf("⚠️ Cue %s: %v, using synthesized sound", c, err)
				continue
			}
			p.samples[c] = buf
			log.Printf("✅ Cue %s loaded from %s", c, cfg.SampleDir)
		}
	}
	return p
}

// loadSample decodes <dir>/<cue>.ogg or <dir>/<cue>.wav into memory at the
// player's sample rate.
func (p *Player) loadSample(dir string, c game.Cue) (*beep.Buffer, error) {
	for _, ext := range []string{".ogg", ".wav"} {
		path := filepath.Join(dir, c.String()+ext)
		f, err := os.Open(path)
		if err != nil {
			continue
		}

		var (
			stream beep.StreamSeekCloser
			format beep.Format
		)
		if ext == ".ogg" {
			stream, format, err = vorbis.Decode(f)
		} else {
			stream, format, err = wav.Decode(f)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}

		var s beep.Streamer = stream
		if format.SampleRate != p.rate {
			s = beep.Resample(4, format.SampleRate, p.rate, stream)
		}
		buf := beep.NewBuffer(beep.Format{SampleRate: p.rate, NumChannels: 2, Precision: 2})
		buf.Append(s)
		stream.Close()
		return buf, nil
	}
	return nil, fmt.Errorf("no %s.ogg or %s.wav", c, c)
}

// Play queues a cue. It never blocks on audio output.
func (p *Player) Play(c game.Cue) {
	if !p.enabled || c >= game.NumCues {
		return
	}

	var s beep.Streamer
	if buf := p.samples[c]; buf != nil {
		s = buf.Streamer(0, buf.Len())
	} else {
		s = synthesize(c, p.rate)
	}
	s = newVolume(s, p.volume)

	unlock := p.lock()
	full := p.mixer.Len() >= MaxVoices
	if !full {
		p.mixer.Add(s)
	}
	unlock()

	if full {
		p.dropped.Add(1)
		return
	}
	p.played[c].Add(1)
}

// Stream mixes the active cues into samples. Finished cues are removed.
func (p *Player) Stream(samples [][2]float64) (n int, ok bool) {
	defer p.lock()()
	return p.mixer.Stream(samples)
}

// Err implements beep.Streamer.
func (p *Player) Err() error { return nil }

// Active returns the number of cues still sounding.
func (p *Player) Active() int {
	defer p.lock()()
	return p.mixer.Len()
}

// Played returns how many times a cue was started.
func (p *Player) Played(c game.Cue) uint64 {
	if c >= game.NumCues {
		return 0
	}
	return p.played[c].Load()
}

// Dropped returns the number of cues refused because MaxVoices were busy.
func (p *Player) Dropped() uint64 {
	return p.dropped.Load()
}

// SampleRate returns the output rate.
func (p *Player) SampleRate() beep.SampleRate {
	return p.rate
}

// StartSpeaker sends the mix to the default audio device.
func (p *Player) StartSpeaker() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.speakerOn.Load() {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.speakerOn.Store(true)
	speaker.Play(p.mixer)
	return nil
}

// Close stops speaker output.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.speakerOn.Load() {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.speakerOn.Store(false)
}

// lock guards the mixer and returns the matching unlock. p.mu also pins
// speakerOn, which only changes under it. With the speaker running the mixer
// is streamed from the speaker goroutine, so its lock is taken as well.
func (p *Player) lock() (unlock func()) {
	p.mu.Lock()
	if p.speakerOn.Load() {
		speaker.Lock()
		return func() {
			speaker.Unlock()
			p.mu.Unlock()
		}
	}
	return p.mu.Unlock
}
