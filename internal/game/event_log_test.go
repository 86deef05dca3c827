package game

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"brawl/internal/config"
)

func TestEventLogWritesJSONL(t *testing.T) {
	el := NewEventLog(config.DefaultLimits())
	var buf bytes.Buffer
	if err := el.StartWriter(&buf); err != nil {
		t.Fatalf("StartWriter failed: %v", err)
	}

	el.EmitSimple(EventTypeMatchStart, 0, "", MatchStartPayload{P1: "shadow", P2: "stone", Seed: 3})
	el.EmitSimple(EventTypeHit, 5, FighterID(0), CombatEvent{Attacker: 0, Defender: 1, FinalDamage: 8, Connected: true})
	el.EmitSimple(EventTypeDefeat, 9, "", DefeatPayload{Winner: 0, Loser: 1})
	el.Stop()

	written := append([]byte(nil), buf.Bytes()...)
	var events []Event
	sc := bufio.NewScanner(bytes.NewReader(written))
	for sc.Scan() {
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("Bad line %q: %v", sc.Text(), err)
		}
		events = append(events, ev)
	}

	if len(events) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Sequence != uint64(i+1) {
			t.Errorf("Expected sequence %d, got %d", i+1, ev.Sequence)
		}
	}
	if !bytes.Contains(written, []byte(`"type":"hit"`)) {
		t.Errorf("Expected event types written by name, got %s", written)
	}
	if events[1].Type != EventTypeHit {
		t.Errorf("Expected second event to be a hit, got %s", events[1].Type)
	}

	var hit CombatEvent
	if err := json.Unmarshal(events[1].Payload, &hit); err != nil || hit.FinalDamage != 8 {
		t.Errorf("Expected hit payload, got %+v (%v)", hit, err)
	}
}

func TestEventLogPerFighterLimit(t *testing.T) {
	el := NewEventLog(config.ResourceLimits{MaxEventsPerSec: 1000, MaxEventsPerFighter: 10})
	el.StartWriter(nil)
	defer el.Stop()

	accepted := 0
	for i := 0; i < 5; i++ {
		if el.EmitSimple(EventTypeHit, uint64(i), "p1", nil) {
			accepted++
		}
	}
	if accepted != 1 {
		t.Errorf("Expected burst of 1 for p1, got %d", accepted)
	}
	if !el.EmitSimple(EventTypeHit, 0, "p2", nil) {
		t.Error("Expected p2 to have its own limiter")
	}
	if el.DroppedCount() != 4 {
		t.Errorf("Expected 4 dropped, got %d", el.DroppedCount())
	}
}

func TestEventLogNotRunning(t *testing.T) {
	el := NewEventLog(config.DefaultLimits())
	if el.EmitSimple(EventTypeHit, 1, "p1", nil) {
		t.Error("Expected Emit to fail before Start")
	}
	if el.Stats().Running {
		t.Error("Expected not running")
	}
}

func TestEngineJournal(t *testing.T) {
	engine := newTestEngine(t)
	var buf bytes.Buffer
	engine.eventLog.StartWriter(&buf)

	engine.StartMatch(Volt, Shadow)
	engine.mu.Lock()
	a, b := engine.match.Fighters[0], engine.match.Fighters[1]
	a.Mechanic().(*voltMechanic).charge = 60
	placeInReach(a, b, 20)
	engine.mu.Unlock()

	engine.SubmitInput(0, Input{Special: true})
	engine.tick()
	engine.StopEventLog()

	types := map[string]int{}
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var raw struct {
			Type string `json:"type"`
		}
		json.Unmarshal(sc.Bytes(), &raw)
		types[raw.Type]++
	}
	if types["match_start"] != 1 || types["special"] != 1 || types["hit"] != 1 {
		t.Errorf("Unexpected journal %v", types)
	}
}
