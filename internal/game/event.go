package game

import (
	"encoding/json"
	"time"
)

// EventType enum for combat journal entries
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeMatchStart
	EventTypeHit     // Attack reached the defender and connected
	EventTypeSpecial // Special activation
	EventTypeDefeat
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is one journal line.
type Event struct {
	Version   uint8           `json:"version"`
	Type      EventType       `json:"type"`
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic, assigned by EventLog
	TickNum   uint64          `json:"tickNum"`
	FighterID string          `json:"fighterId"` // Source fighter (for rate limiting)
	Payload   json.RawMessage `json:"payload"`
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeMatchStart:
		return "match_start"
	case EventTypeHit:
		return "hit"
	case EventTypeSpecial:
		return "special"
	case EventTypeDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// MarshalText writes the type by name.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText reads a type name. Unknown names decode as EventTypeUnknown.
func (t *EventType) UnmarshalText(b []byte) error {
	*t = EventTypeUnknown
	for c := EventTypeMatchStart; c <= EventTypeDefeat; c++ {
		if c.String() == string(b) {
			*t = c
			break
		}
	}
	return nil
}

// MatchStartPayload records who fought and the seed that makes the match
// reproducible.
type MatchStartPayload struct {
	P1   string `json:"p1"`
	P2   string `json:"p2"`
	Seed int64  `json:"seed"`
}

// HitPayload is a connected CombatEvent.
type HitPayload = CombatEvent

// SpecialPayload records a special activation and the resource left after
// paying for it.
type SpecialPayload struct {
	Slot      int     `json:"slot"`
	Archetype string  `json:"archetype"`
	Resource  float64 `json:"resource"`
}

// DefeatPayload records the end of a match.
type DefeatPayload struct {
	Winner   int     `json:"winner"`
	Loser    int     `json:"loser"`
	WinnerHP float64 `json:"winnerHp"`
	LoserHP  float64 `json:"loserHp"`
	Ticks    uint64  `json:"ticks"`
}

// FighterID is the rate-limit key of a slot.
func FighterID(slot int) string {
	if slot == 0 {
		return "p1"
	}
	return "p2"
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, fighterID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		FighterID: fighterID,
		Payload:   EncodePayload(payload),
	}
}
