package game

import (
	"image/color"
	"math"
)

const (
	flameMaxHeat          = 100.0
	flameHeatPerAttack    = 15.0
	flameHeatPerBonus     = 20.0
	flameCoolRate         = 0.5 // per tick while overheated
	flameSpecialHeat      = 40.0
	flameFireballCooldown = 90
	flameFireballPhase    = 0.8
	flameFireballReach    = 150.0
	flameFireballStreak   = 20
)

// flameMechanic builds heat with every attack. Full heat locks attacks out
// until the meter has drained back to zero.
type flameMechanic struct {
	baseMechanic
	heat       float64
	maxHeat    float64
	overheated bool
}

func (m *flameMechanic) Archetype() Archetype         { return Flame }
func (m *flameMechanic) Resource() (float64, float64) { return m.heat, m.maxHeat }
func (m *flameMechanic) Locked() bool                 { return m.overheated }

func (m *flameMechanic) allow(f *Fighter, r Request) bool {
	switch r {
	case RequestAttack:
		return !m.overheated
	case RequestSpecial:
		return !m.overheated &&
			m.heat >= flameSpecialHeat &&
			f.Cooldowns.Ready(TimerFireball)
	}
	return true
}

func (m *flameMechanic) accepted(f *Fighter, r Request) {
	switch r {
	case RequestAttack:
		m.heat = math.Min(m.maxHeat, m.heat+flameHeatPerAttack)
		f.AttackDamage = f.baseDamage + math.Floor(m.heat/flameHeatPerBonus)
		if m.heat >= m.maxHeat {
			m.overheated = true
		}
	case RequestSpecial:
		m.heat = math.Max(0, m.heat-flameSpecialHeat)
		f.Cooldowns.Start(TimerFireball, flameFireballCooldown)
	}
}

func (m *flameMechanic) update(f *Fighter) {
	if m.overheated {
		m.heat -= flameCoolRate
		if m.heat <= 0 {
			m.heat = 0
			m.overheated = false
		}
		return
	}

	ps := f.Particles
	if ps.chance(0.1 + m.heat/200) {
		ember := color.RGBA{255, uint8(ps.between(100, 200)), 0, 255}
		ps.Spawn(f.X+ps.uniform(0, f.W), f.Y+f.H*ps.uniform(0.7, 1),
			ps.uniform(-1, 1), ps.uniform(-4, -2),
			ember, ps.uniform(2, 4), ps.between(15, 25))
	}
}

// reach extends the range to fireball distance for the one hit check at the
// fireball phase of the special.
func (m *flameMechanic) reach(f *Fighter, _ *Fighter) float64 {
	if f.State != StateSpecial || !f.phaseReached(flameFireballPhase) {
		return f.AttackRange
	}

	ps := f.Particles
	dir := f.facingSign()
	for i := 0; i < flameFireballStreak; i++ {
		streak := color.RGBA{255, uint8(ps.between(100, 200)), 0, 255}
		ps.Spawn(f.CenterX(), f.CenterY()+ps.uniform(-10, 10),
			dir*ps.uniform(8, 12), ps.uniform(-1, 1),
			streak, ps.uniform(4, 8), ps.between(15, 25))
	}
	return flameFireballReach
}
