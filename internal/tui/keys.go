// Package tui is the two-player terminal front end: held-key tracking,
// screen flow and cell drawing of match snapshots.
package tui

import (
	"time"
	"unicode"

	"brawl/internal/game"

	"github.com/gdamore/tcell/v2"
)

// DefaultKeyTimeout is how long a key counts as held after its last press.
// Terminals report no key releases, only auto-repeated presses.
const DefaultKeyTimeout = 150 * time.Millisecond

// Key identifies a key independent of modifiers. Letter runes are stored
// lowercase so caps lock does not change the controls.
type Key struct {
	Code tcell.Key
	Rune rune
}

// RuneKey returns the Key of a printable character.
func RuneKey(r rune) Key {
	return Key{Code: tcell.KeyRune, Rune: unicode.ToLower(r)}
}

// SpecialKey returns the Key of a non-printable key such as an arrow.
func SpecialKey(k tcell.Key) Key {
	return Key{Code: k}
}

// KeyOf extracts the Key of a key event.
func KeyOf(ev *tcell.EventKey) Key {
	if ev.Key() == tcell.KeyRune {
		return RuneKey(ev.Rune())
	}
	return SpecialKey(ev.Key())
}

// Binding maps one fighter's controls.
type Binding struct {
	Left, Right Key
	Jump, Dash  Key
	Block       Key
	Attack      Key
	Special     Key
}

// DefaultBindings puts fighter 1 on the left of the keyboard and fighter 2
// on the arrows and the right hand.
var DefaultBindings = [2]Binding{
	{
		Left:    RuneKey('a'),
		Right:   RuneKey('d'),
		Jump:    RuneKey('w'),
		Dash:    RuneKey('s'),
		Block:   RuneKey('c'),
		Attack:  RuneKey('f'),
		Special: RuneKey('g'),
	},
	{
		Left:    SpecialKey(tcell.KeyLeft),
		Right:   SpecialKey(tcell.KeyRight),
		Jump:    SpecialKey(tcell.KeyUp),
		Dash:    SpecialKey(tcell.KeyDown),
		Block:   RuneKey('l'),
		Attack:  RuneKey('k'),
		Special: RuneKey('j'),
	},
}

// HeldKeys approximates key state from press events.
type HeldKeys struct {
	timeout time.Duration
	pressed map[Key]time.Time
}

// NewHeldKeys creates a tracker. A non-positive timeout uses
// DefaultKeyTimeout.
func NewHeldKeys(timeout time.Duration) *HeldKeys {
	if timeout <= 0 {
		timeout = DefaultKeyTimeout
	}
	return &HeldKeys{
		timeout: timeout,
		pressed: make(map[Key]time.Time),
	}
}

// Press records a press of k at now.
func (h *HeldKeys) Press(k Key, now time.Time) {
	h.pressed[k] = now
}

// Held reports whether k was pressed within the timeout.
func (h *HeldKeys) Held(k Key, now time.Time) bool {
	last, ok := h.pressed[k]
	return ok && now.Sub(last) < h.timeout
}

// Clear forgets every press.
func (h *HeldKeys) Clear() {
	for k := range h.pressed {
		delete(h.pressed, k)
	}
}

// Input builds one tick of fighter input from the keys of b. When both
// directions are held the most recent press wins.
func (h *HeldKeys) Input(b Binding, now time.Time) game.Input {
	in := game.Input{
		Jump:    h.Held(b.Jump, now),
		Dash:    h.Held(b.Dash, now),
		Block:   h.Held(b.Block, now),
		Attack:  h.Held(b.Attack, now),
		Special: h.Held(b.Special, now),
	}

	left, right := h.Held(b.Left, now), h.Held(b.Right, now)
	switch {
	case left && right:
		if h.pressed[b.Right].After(h.pressed[b.Left]) {
			in.Move = 1
		} else {
			in.Move = -1
		}
	case left:
		in.Move = -1
	case right:
		in.Move = 1
	}
	return in
}
