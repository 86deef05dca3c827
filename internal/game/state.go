package game

import "fmt"

// ActionState is the fighter's current discrete behavior mode.
type ActionState uint8

const (
	StateIdle ActionState = iota
	StateWalk
	StateJump
	StateAttack
	StateSpecial
	StateHit
	StateBlock
	numStates

	stateUnchanged ActionState = 0xff // transition keeps the current state
)

func (s ActionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWalk:
		return "walk"
	case StateJump:
		return "jump"
	case StateAttack:
		return "attack"
	case StateSpecial:
		return "special"
	case StateHit:
		return "hit"
	case StateBlock:
		return "block"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name in JSON snapshots.
func (s ActionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *ActionState) UnmarshalText(b []byte) error {
	for c := StateIdle; c < numStates; c++ {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown action state %q", b)
}

// Request is an action asked of a fighter by its controller.
type Request uint8

const (
	RequestMove    Request = iota // move with a nonzero direction
	RequestStop                   // move with direction 0
	RequestJump
	RequestAttack
	RequestSpecial
	RequestBlock
	RequestRelease // stop blocking
	RequestDash
	numRequests
)

func (r Request) String() string {
	switch r {
	case RequestMove:
		return "move"
	case RequestStop:
		return "stop"
	case RequestJump:
		return "jump"
	case RequestAttack:
		return "attack"
	case RequestSpecial:
		return "special"
	case RequestBlock:
		return "block"
	case RequestRelease:
		return "release"
	case RequestDash:
		return "dash"
	default:
		return "unknown"
	}
}

// transition is one cell of the table: the state entered on success and the
// guard+side-effect function. enter returns false to reject the request.
type transition struct {
	next  ActionState
	enter func(f *Fighter, dir int) bool
}

// freeRow is shared by the states that accept every voluntary action.
var freeRow = [numRequests]transition{
	RequestMove:    {StateWalk, (*Fighter).enterMove},
	RequestStop:    {StateIdle, (*Fighter).enterMove},
	RequestJump:    {StateJump, (*Fighter).enterJump},
	RequestAttack:  {StateAttack, (*Fighter).enterAttack},
	RequestSpecial: {StateSpecial, (*Fighter).enterSpecial},
	RequestBlock:   {StateBlock, (*Fighter).enterBlock},
	RequestDash:    {stateUnchanged, (*Fighter).enterDash},
}

// transitions maps (current state, request) to its transition. A zero cell
// means the request is illegal in that state and is dropped without effect.
//
// attack and special accept nothing: they exit on their own when the attack
// timer runs out. hit accepts nothing until the hit timer runs out. block
// can be released or dashed out of; the dash keeps the guard up.
var transitions = [numStates][numRequests]transition{
	StateIdle:    freeRow,
	StateWalk:    freeRow,
	StateJump:    freeRow,
	StateAttack:  {},
	StateSpecial: {},
	StateHit:     {},
	StateBlock: {
		RequestRelease: {StateIdle, (*Fighter).enterRelease},
		RequestDash:    {stateUnchanged, (*Fighter).enterDash},
	},
}

// Legal reports whether a request has a transition from state s. Resource
// and cooldown guards may still reject it.
func Legal(s ActionState, r Request) bool {
	if s >= numStates || r >= numRequests {
		return false
	}
	return transitions[s][r].enter != nil
}

// ActionSet is a bit set of requests accepted during one tick.
type ActionSet uint16

// Has reports whether r was accepted.
func (a ActionSet) Has(r Request) bool {
	return a&(1<<r) != 0
}

func (a *ActionSet) add(r Request) {
	*a |= 1 << r
}
