package game

import (
	"fmt"
	"math/rand"

	"brawl/internal/config"
)

const (
	spawnLeftX       = 150.0
	spawnRightMargin = 200.0
)

// MatchOptions configures a Match. Zero values select defaults.
type MatchOptions struct {
	Arena  config.ArenaConfig
	Combat config.CombatConfig
	Roster map[string]config.FighterStats

	// Source drives every random particle parameter. When nil a source is
	// seeded from Seed.
	Source rand.Source
	Seed   int64

	Audio AudioTrigger
}

func (o *MatchOptions) withDefaults() {
	if o.Arena == (config.ArenaConfig{}) {
		o.Arena = config.DefaultArena()
	}
	if o.Combat == (config.CombatConfig{}) {
		o.Combat = config.DefaultCombat()
	}
	if o.Roster == nil {
		o.Roster = config.DefaultRoster()
	}
	if o.Source == nil {
		o.Source = rand.NewSource(o.Seed)
	}
	if o.Audio == nil {
		o.Audio = NopAudio{}
	}
}

// TickResult is what one Step produced.
type TickResult struct {
	Tick      uint64
	Actions   [2]ActionSet
	Events    []CombatEvent // hit checks that reached the defender; reused by the next Step
	Connected bool          // at least one event connected
	Over      bool
	Winner    int // valid when Over
	Loser     int
}

// Match is a single synchronous encounter between two fighters. It is not
// safe for concurrent use; Engine serializes access.
type Match struct {
	Fighters [2]*Fighter

	env    *env
	tick   uint64
	over   bool
	winner int
	events []CombatEvent
}

// NewMatch places p1 at x=150 facing right and p2 at x=width-200 facing
// left, both on the floor with full HP.
func NewMatch(p1, p2 Archetype, opts MatchOptions) (*Match, error) {
	opts.withDefaults()

	e := &env{
		arena:  opts.Arena,
		combat: opts.Combat,
		rng:    rand.New(opts.Source),
		audio:  opts.Audio,
	}

	m := &Match{env: e, events: make([]CombatEvent, 0, 2)}
	spawns := [2]float64{spawnLeftX, opts.Arena.Width - spawnRightMargin}
	for slot, a := range [2]Archetype{p1, p2} {
		stats, ok := opts.Roster[a.String()]
		if !ok {
			return nil, fmt.Errorf("%w: %s not in roster", ErrUnknownArchetype, a)
		}
		f, err := newFighter(slot, a, stats, spawns[slot], e)
		if err != nil {
			return nil, err
		}
		m.Fighters[slot] = f
	}
	return m, nil
}

// Fighter returns the fighter in slot 0 or 1.
func (m *Match) Fighter(slot int) (*Fighter, error) {
	if slot < 0 || slot > 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return m.Fighters[slot], nil
}

// Tick returns the number of completed steps.
func (m *Match) Tick() uint64 { return m.tick }

// Over reports whether a fighter has been defeated.
func (m *Match) Over() bool { return m.over }

// Winner returns the winning slot once the match is over, else -1.
func (m *Match) Winner() int {
	if !m.over {
		return -1
	}
	return m.winner
}

// Arena returns the arena the match runs in.
func (m *Match) Arena() config.ArenaConfig { return m.env.arena }

// Step advances the match by one tick:
//  1. inputs for fighter 1 then fighter 2
//  2. fighter 1 update, fighter 2 update
//  3. facing for both
//  4. fighter 1 hit check against fighter 2, then fighter 2 against 1
//  5. defeat check
//
// Once the match is over Step does nothing.
func (m *Match) Step(inputs [2]Input) TickResult {
	if m.over {
		return TickResult{Tick: m.tick, Over: true, Winner: m.winner, Loser: 1 - m.winner}
	}

	m.tick++
	res := TickResult{Tick: m.tick}
	a, b := m.Fighters[0], m.Fighters[1]

	res.Actions[0] = a.Apply(inputs[0])
	res.Actions[1] = b.Apply(inputs[1])

	a.Update()
	b.Update()

	a.FaceToward(b)
	b.FaceToward(a)

	m.events = m.events[:0]
	if ev, ok := a.CheckHit(b); ok {
		m.record(ev, &res)
	}
	if ev, ok := b.CheckHit(a); ok {
		m.record(ev, &res)
	}
	res.Events = m.events

	if !a.Alive() || !b.Alive() {
		m.over = true
		m.winner = ResolveWinner(a, b)
		res.Over = true
		res.Winner = m.winner
		res.Loser = 1 - m.winner
		m.env.audio.Play(CueKO)
	}
	return res
}

func (m *Match) record(ev CombatEvent, res *TickResult) {
	ev.Tick = m.tick
	m.events = append(m.events, ev)
	if ev.Connected {
		res.Connected = true
	}
}

// ResolveWinner returns the winning slot when at least one fighter is at or
// below zero HP. When both are down, fighter 1 wins only with a strictly
// higher hp/max_hp ratio.
func ResolveWinner(a, b *Fighter) int {
	switch {
	case a.Alive() && !b.Alive():
		return 0
	case !a.Alive() && b.Alive():
		return 1
	case a.HPRatio() > b.HPRatio():
		return 0
	default:
		return 1
	}
}
