package game

// Mechanic is an archetype's resource model. It layers guards and side
// effects on top of the shared Fighter state machine. The unexported hooks
// keep implementations inside this package.
type Mechanic interface {
	Archetype() Archetype

	// Resource returns the meter value and its maximum. Archetypes without
	// a meter return (0, 0).
	Resource() (value, max float64)

	// Locked reports a resource lockout (Flame overheat).
	Locked() bool

	// allow vetoes a request before the base transition runs.
	allow(f *Fighter, r Request) bool
	// accepted runs after a request has been applied.
	accepted(f *Fighter, r Request)
	// airJump handles jump() while airborne.
	airJump(f *Fighter) bool
	// dash handles dash(dir).
	dash(f *Fighter, dir int) bool
	// update runs once per tick after physics and timers.
	update(f *Fighter)
	// landed runs on the tick the fighter touches the floor.
	landed(f *Fighter)
	// reach runs before each hit check and returns the range to test with.
	reach(f *Fighter, opp *Fighter) float64
	// absorb adjusts incoming damage and knockback before blocking applies.
	absorb(f *Fighter, damage, knockback float64) (dmg, kb, absorbed float64)
}

// baseMechanic is the archetype-neutral behavior every Mechanic embeds.
type baseMechanic struct{}

func (baseMechanic) Resource() (float64, float64) { return 0, 0 }
func (baseMechanic) Locked() bool { return false }
func (baseMechanic) allow(*Fighter, Request) bool { return true }
func (baseMechanic) accepted(*Fighter, Request) {}
func (baseMechanic) airJump(*Fighter) bool { return false }
func (baseMechanic) dash(*Fighter, int) bool { return false }
func (baseMechanic) update(*Fighter) {}
func (baseMechanic) landed(*Fighter) {}
func (baseMechanic) reach(f *Fighter, _ *Fighter) float64 { return f.AttackRange }

func (baseMechanic) absorb(_ *Fighter, damage, knockback float64) (float64, float64, float64) {
	return damage, knockback, 0
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
