package audio

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// Music loops a background track. The file is decoded on demand rather
// than held in memory as PCM.
type Music struct {
	mu sync.Mutex

	source beep.StreamSeekCloser
	stream beep.Streamer // source, resampled when its rate differs
	path   string

	volume  float64
	enabled bool
}

// OpenMusic opens an .ogg or .wav track for looping at rate.
func OpenMusic(path string, rate beep.SampleRate, volume float64) (*Music, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		source beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		source, format, err = vorbis.Decode(f)
	case ".wav":
		source, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("unsupported music format %q", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	m := &Music{
		source:  source,
		stream:  source,
		path:    path,
		volume:  clampVolume(volume),
		enabled: true,
	}
	if format.SampleRate != rate {
		log.Printf("   Resampling music from %d Hz to %d Hz", format.SampleRate, rate)
		m.stream = beep.Resample(4, format.SampleRate, rate, source)
	}

	log.Printf("✅ Background music loaded: %s", path)
	return m, nil
}

// Stream fills samples with the track, seeking back to the start at the
// end. It never runs dry; a track that cannot be read yields silence.
func (m *Music) Stream(samples [][2]float64) (n int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filled := 0
	if m.enabled {
		rewound := false
		for filled < len(samples) {
			got, more := m.stream.Stream(samples[filled:])
			filled += got
			if got > 0 {
				rewound = false
			}
			if filled == len(samples) {
				break
			}
			if !more || got == 0 {
				// Nothing after a rewind means the track is empty
				if rewound {
					break
				}
				if err := m.source.Seek(0); err != nil {
					log.Printf("⚠️ Music loop seek failed: %v", err)
					m.enabled = false
					break
				}
				rewound = true
			}
		}
	}

	for i := 0; i < filled; i++ {
		samples[i][0] *= m.volume
		samples[i][1] *= m.volume
	}
	for i := filled; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (m *Music) Err() error { return nil }

// SetVolume adjusts the music volume (0.0 to 1.0).
func (m *Music) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clampVolume(v)
}

// SetEnabled mutes or unmutes the track without stopping it.
func (m *Music) SetEnabled(e bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = e
}

// Close releases the decoder and its file.
func (m *Music) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
	return m.source.Close()
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PlayMusic mixes m under the cues until the player closes. The track
// occupies one of the MaxVoices.
func (p *Player) PlayMusic(m *Music) {
	if !p.enabled || m == nil {
		return
	}
	unlock := p.lock()
	p.mixer.Add(m)
	unlock()
}
