package game

import (
	"fmt"
	"log"
	"sync"
	"time"

	"brawl/internal/config"
)

// EngineConfig configures a live Engine.
type EngineConfig struct {
	App   config.AppConfig
	Audio AudioTrigger
}

// Engine runs a Match at a fixed tick rate, holding the latest input per
// slot and publishing a snapshot after every tick.
type Engine struct {
	mu    sync.RWMutex
	cfg   config.AppConfig
	audio AudioTrigger

	match  *Match
	p1, p2 Archetype
	seed   int64
	inputs [2]Input

	tickRate int
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	// Snapshot system for lock-free render separation
	snapshotPool *SnapshotPool

	// Combat journal
	eventLog *EventLog

	// Event callbacks, called from the tick goroutine while the engine lock
	// is held. They must not call back into the Engine.
	OnTick   func(d time.Duration, res TickResult)
	OnHit    func(ev CombatEvent)
	OnDefeat func(winner, loser FighterSnapshot)
}

// NewEngine creates an engine with no match loaded.
func NewEngine(cfg EngineConfig) *Engine {
	app := cfg.App
	if app.Arena == (config.ArenaConfig{}) {
		app.Arena = config.DefaultArena()
	}
	if app.Arena.TickRate <= 0 {
		app.Arena.TickRate = config.DefaultArena().TickRate
	}
	if app.Combat == (config.CombatConfig{}) {
		app.Combat = config.DefaultCombat()
	}
	if app.Limits == (config.ResourceLimits{}) {
		app.Limits = config.DefaultLimits()
	}
	if app.Roster == nil {
		app.Roster = config.DefaultRoster()
	}
	audio := cfg.Audio
	if audio == nil {
		audio = NopAudio{}
	}

	return &Engine{
		cfg:          app,
		audio:        audio,
		tickRate:     app.Arena.TickRate,
		snapshotPool: NewSnapshotPool(app.Limits.MaxSnapshotParticles),
		eventLog:     NewEventLog(app.Limits),
	}
}

// StartMatch replaces the current match with a fresh one between p1 and
// p2. Held inputs are cleared.
func (e *Engine) StartMatch(p1, p2 Archetype) error {
	seed := e.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m, err := NewMatch(p1, p2, MatchOptions{
		Arena:  e.cfg.Arena,
		Combat: e.cfg.Combat,
		Roster: e.cfg.Roster,
		Seed:   seed,
		Audio:  e.audio,
	})
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.match = m
	e.p1, e.p2 = p1, p2
	e.seed = seed
	e.inputs = [2]Input{}

	e.eventLog.EmitSimple(EventTypeMatchStart, 0, "", MatchStartPayload{
		P1:   p1.String(),
		P2:   p2.String(),
		Seed: seed,
	})
	e.produceSnapshot(TickResult{})

	log.Printf("🥊 Match started: %s vs %s (seed %d)", p1, p2, seed)
	return nil
}

// Restart starts a new match with the same archetypes.
func (e *Engine) Restart() error {
	e.mu.RLock()
	loaded := e.match != nil
	p1, p2 := e.p1, e.p2
	e.mu.RUnlock()

	if !loaded {
		return ErrNoMatch
	}
	return e.StartMatch(p1, p2)
}

// SubmitInput replaces the held input of a slot. It is applied on every
// tick until replaced.
func (e *Engine) SubmitInput(slot int, in Input) error {
	if slot < 0 || slot > 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	e.mu.Lock()
	e.inputs[slot] = in
	e.mu.Unlock()
	return nil
}

// Start begins the game loop
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))
	ticker, stop := e.ticker, e.stopChan
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				e.tick()
			case <-stop:
				return
			}
		}
	}()

	log.Printf("🎮 Combat engine started at %d TPS", e.tickRate)
}

// Stop stops the game loop
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	e.ticker.Stop()
	close(e.stopChan)
	log.Println("🛑 Combat engine stopped")
}

// Running reports whether the loop is active.
func (e *Engine) Running() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// tick is called at tickRate times per second
func (e *Engine) tick() {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.match == nil {
		return
	}

	wasOver := e.match.Over()
	res := e.match.Step(e.inputs)
	if !wasOver {
		e.journal(res)
	}
	e.produceSnapshot(res)

	if e.OnTick != nil {
		e.OnTick(time.Since(start), res)
	}
}

// journal records the tick's notable events and fires callbacks.
func (e *Engine) journal(res TickResult) {
	for slot, actions := range res.Actions {
		if !actions.Has(RequestSpecial) {
			continue
		}
		f := e.match.Fighters[slot]
		value, _ := f.mech.Resource()
		e.eventLog.EmitSimple(EventTypeSpecial, res.Tick, FighterID(slot), SpecialPayload{
			Slot:      slot,
			Archetype: f.Archetype.String(),
			Resource:  value,
		})
	}

	for _, ev := range res.Events {
		if !ev.Connected {
			continue
		}
		e.eventLog.EmitSimple(EventTypeHit, res.Tick, FighterID(ev.Attacker), ev)
		if e.OnHit != nil {
			e.OnHit(ev)
		}
	}

	if res.Over {
		winner := e.match.Fighters[res.Winner]
		loser := e.match.Fighters[res.Loser]
		e.eventLog.EmitSimple(EventTypeDefeat, res.Tick, "", DefeatPayload{
			Winner:   res.Winner,
			Loser:    res.Loser,
			WinnerHP: winner.HP,
			LoserHP:  loser.HP,
			Ticks:    res.Tick,
		})
		log.Printf("🏆 %s (%s) defeats %s (%s) after %d ticks",
			winner.Name, winner.Archetype, loser.Name, loser.Archetype, res.Tick)
		if e.OnDefeat != nil {
			e.OnDefeat(snapshotFighter(winner), snapshotFighter(loser))
		}
	}
}

// produceSnapshot fills the next pool slot. Called with e.mu held.
func (e *Engine) produceSnapshot(res TickResult) {
	snap := e.snapshotPool.AcquireWrite()
	e.match.Capture(snap, e.snapshotPool.MaxParticles())
	snap.Seed = e.seed
	snap.Connected = res.Connected
	e.snapshotPool.PublishWrite()
}

// GetSnapshot returns a copy of the latest published snapshot. ok is false
// when no match has been started.
func (e *Engine) GetSnapshot() (MatchSnapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.match == nil {
		return MatchSnapshot{}, false
	}
	return e.snapshotPool.AcquireRead().Clone(), true
}

// Roster returns the configured base stats keyed by archetype.
func (e *Engine) Roster() map[string]config.FighterStats {
	return e.cfg.Roster
}

// Arena returns the arena configuration.
func (e *Engine) Arena() config.ArenaConfig {
	return e.cfg.Arena
}

// StartEventLog opens the combat journal at filePath.
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog flushes and closes the combat journal.
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// EventLogStats returns the journal counters.
func (e *Engine) EventLogStats() EventLogStats {
	return e.eventLog.Stats()
}
