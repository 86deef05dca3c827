package game

import (
	"bytes"
	"fmt"
	"testing"

	"brawl/internal/config"
)

// =============================================================================
// INTEGRATION TESTS: FULL MATCHES
// Run with: go test -v -run=TestIntegration ./internal/game/...
// =============================================================================

// brawler is a scripted controller: close the gap, then swing, with a
// special every specialEvery ticks.
type brawler struct {
	specialEvery uint64
	gap          float64
}

func (b brawler) input(m *Match, slot int) Input {
	me, opp := m.Fighters[slot], m.Fighters[1-slot]
	var in Input

	dist := opp.CenterX() - me.CenterX()
	edge := abs(dist) - (me.W+opp.W)/2
	if edge > b.gap {
		in.Move = 1
		if dist < 0 {
			in.Move = -1
		}
		return in
	}

	if b.specialEvery > 0 && m.Tick()%b.specialEvery == uint64(slot) {
		in.Special = true
	} else {
		in.Attack = true
	}
	return in
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// playOut runs m with both fighters on bot until it ends or maxTicks pass,
// checking the per-tick invariants on the way.
func playOut(t *testing.T, m *Match, bot brawler, maxTicks int) TickResult {
	t.Helper()
	arena := m.Arena()
	var snap MatchSnapshot
	var res TickResult

	for i := 0; i < maxTicks && !m.Over(); i++ {
		res = m.Step([2]Input{bot.input(m, 0), bot.input(m, 1)})

		for _, ev := range res.Events {
			if ev.Connected && ev.FinalDamage < 0 {
				t.Fatalf("Tick %d: negative damage %+v", res.Tick, ev)
			}
		}

		m.Capture(&snap, 32)
		if len(snap.Particles) > 32 {
			t.Fatalf("Tick %d: %d particles over the cap", res.Tick, len(snap.Particles))
		}
		for _, f := range snap.Fighters {
			if f.HP < 0 || f.HP > f.MaxHP {
				t.Fatalf("Tick %d: %s HP %v outside [0, %v]", res.Tick, f.Name, f.HP, f.MaxHP)
			}
			if f.X < 0 || f.X+f.W > arena.Width+eps {
				t.Fatalf("Tick %d: %s at x=%v left the arena", res.Tick, f.Name, f.X)
			}
			if f.Y+f.H > arena.Floor+eps {
				t.Fatalf("Tick %d: %s below the floor (y=%v)", res.Tick, f.Name, f.Y)
			}
		}
	}
	return res
}

func TestIntegration_AllPairingsFinish(t *testing.T) {
	for _, p1 := range Archetypes {
		for _, p2 := range Archetypes {
			t.Run(fmt.Sprintf("%s_vs_%s", p1, p2), func(t *testing.T) {
				m, err := NewMatch(p1, p2, MatchOptions{Seed: 99})
				if err != nil {
					t.Fatalf("NewMatch failed: %v", err)
				}

				res := playOut(t, m, brawler{specialEvery: 150, gap: 10}, 36000)
				if !m.Over() {
					t.Fatalf("Expected the match to end, HP %v / %v", m.Fighters[0].HP, m.Fighters[1].HP)
				}

				if loser := m.Fighters[1-m.Winner()]; loser.Alive() {
					t.Errorf("Expected the loser down, got HP %v", loser.HP)
				}
				if !res.Over || res.Winner != m.Winner() {
					t.Errorf("Expected final result to report winner %d, got %+v", m.Winner(), res)
				}

				// Over matches are frozen
				tick := m.Tick()
				m.Step([2]Input{{Attack: true}, {Attack: true}})
				if m.Tick() != tick {
					t.Errorf("Expected no ticks after the end, got %d -> %d", tick, m.Tick())
				}
			})
		}
	}
}

func TestIntegration_SeedReplaysWholeMatch(t *testing.T) {
	run := func() (uint64, [2]float64, int) {
		m, err := NewMatch(Flame, Volt, MatchOptions{Seed: 2024})
		if err != nil {
			t.Fatalf("NewMatch failed: %v", err)
		}
		playOut(t, m, brawler{specialEvery: 120, gap: 15}, 36000)
		return m.Tick(), [2]float64{m.Fighters[0].HP, m.Fighters[1].HP}, m.Fighters[0].Particles.Len()
	}

	tick1, hp1, parts1 := run()
	tick2, hp2, parts2 := run()
	if tick1 != tick2 || hp1 != hp2 || parts1 != parts2 {
		t.Errorf("Expected identical replays, got (%d %v %d) and (%d %v %d)",
			tick1, hp1, parts1, tick2, hp2, parts2)
	}
}

func TestIntegration_EngineJournalsFullMatch(t *testing.T) {
	app := config.AppConfig{Seed: 5, Limits: config.DefaultLimits()}
	e := NewEngine(EngineConfig{App: app})

	var hits, defeats int
	e.OnHit = func(CombatEvent) { hits++ }
	e.OnDefeat = func(winner, loser FighterSnapshot) {
		defeats++
		if loser.HP != 0 {
			t.Errorf("Expected the loser at 0 HP, got %v", loser.HP)
		}
	}

	var journal bytes.Buffer
	if err := e.eventLog.StartWriter(&journal); err != nil {
		t.Fatalf("StartWriter failed: %v", err)
	}
	defer e.StopEventLog()

	if err := e.StartMatch(Stone, Shadow); err != nil {
		t.Fatalf("StartMatch failed: %v", err)
	}

	bot := brawler{specialEvery: 100, gap: 10}
	for i := 0; i < 36000; i++ {
		e.mu.RLock()
		m := e.match
		inputs := [2]Input{bot.input(m, 0), bot.input(m, 1)}
		e.mu.RUnlock()

		e.SubmitInput(0, inputs[0])
		e.SubmitInput(1, inputs[1])
		e.tick()

		if snap, _ := e.GetSnapshot(); snap.Over {
			break
		}
	}

	snap, ok := e.GetSnapshot()
	if !ok || !snap.Over {
		t.Fatal("Expected the match to finish")
	}
	if defeats != 1 {
		t.Errorf("Expected exactly one defeat callback, got %d", defeats)
	}
	if hits == 0 {
		t.Error("Expected hit callbacks during the match")
	}

	// Ticks after the end neither journal nor call back
	seen := func() uint64 {
		st := e.EventLogStats()
		return st.Total + st.Dropped
	}
	before := seen()
	if before == 0 {
		t.Error("Expected the match to be journaled")
	}
	e.tick()
	e.tick()
	if after := seen(); after != before || defeats != 1 {
		t.Errorf("Expected a silent engine after the end, journal %d -> %d", before, after)
	}
}
