package audio

import (
	"time"

	"github.com/gopxl/beep"

	"brawl/internal/game"
)

const (
	attackDuration  = 90 * time.Millisecond
	specialDuration = 300 * time.Millisecond
	hitDuration     = 70 * time.Millisecond
	blockDuration   = 60 * time.Millisecond
	koNoteDuration  = 180 * time.Millisecond
)

// synthesize builds the fallback sound of a cue.
func synthesize(c game.Cue, rate beep.SampleRate) beep.Streamer {
	switch c {
	case game.CueAttack:
		// Swish: saw body with a little air
		return beep.Mix(
			newVolume(tone(180, attackDuration, WaveSaw, rate), 0.6),
			newVolume(tone(0, attackDuration, WaveNoise, rate), 0.2),
		)
	case game.CueSpecial:
		// Rising fifth
		return beep.Mix(
			newVolume(tone(440, specialDuration, WaveSine, rate), 0.6),
			newVolume(tone(660, specialDuration, WaveSine, rate), 0.4),
		)
	case game.CueHit:
		// Punch: noise crack over a low thump
		return beep.Mix(
			newVolume(tone(0, hitDuration, WaveNoise, rate), 0.7),
			newVolume(tone(90, hitDuration, WaveSquare, rate), 0.5),
		)
	case game.CueBlock:
		// Clank
		return beep.Mix(
			newVolume(tone(600, blockDuration, WaveSquare, rate), 0.4),
			newVolume(tone(1200, blockDuration, WaveSine, rate), 0.3),
		)
	case game.CueKO:
		// Falling triad
		return beep.Seq(
			tone(392, koNoteDuration, WaveSine, rate),
			tone(330, koNoteDuration, WaveSine, rate),
			tone(262, 2*koNoteDuration, WaveSine, rate),
		)
	}
	return beep.Silence(0)
}
