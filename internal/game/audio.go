package game

// Cue is a sound the core asks its audio collaborator to play.
type Cue uint8

const (
	CueAttack Cue = iota
	CueSpecial
	CueHit
	CueBlock
	CueKO
	NumCues
)

func (c Cue) String() string {
	switch c {
	case CueAttack:
		return "attack"
	case CueSpecial:
		return "special"
	case CueHit:
		return "hit"
	case CueBlock:
		return "block"
	case CueKO:
		return "ko"
	default:
		return "unknown"
	}
}

// AudioTrigger receives cues from the simulation. Play is called from the
// tick goroutine and must not block.
type AudioTrigger interface {
	Play(c Cue)
}

// NopAudio discards every cue.
type NopAudio struct{}

func (NopAudio) Play(Cue) {}
