package game

import (
	"image/color"
	"math"
)

const (
	voltMaxCharge       = 100.0
	voltRegen           = 0.2  // per grounded, non-attacking tick
	voltAttackThreshold = 10.0 // charge must exceed this to boost an attack
	voltAttackCost      = 10.0
	voltChargePerBonus  = 20.0
	voltSpecialCost     = 50.0
	voltSparkOdds       = 500.0 // spark chance per tick is charge/voltSparkOdds
	voltLightningCount  = 30
)

var voltSpark = color.RGBA{0, 200, 255, 255}

// voltMechanic stores charge that boosts attacks and pays for the special.
type voltMechanic struct {
	baseMechanic
	charge    float64
	maxCharge float64
}

func (m *voltMechanic) Archetype() Archetype         { return Volt }
func (m *voltMechanic) Resource() (float64, float64) { return m.charge, m.maxCharge }

func (m *voltMechanic) allow(_ *Fighter, r Request) bool {
	if r == RequestSpecial {
		return m.charge >= voltSpecialCost
	}
	return true
}

func (m *voltMechanic) accepted(f *Fighter, r Request) {
	switch r {
	case RequestAttack:
		if m.charge > voltAttackThreshold {
			f.AttackDamage = f.baseDamage + math.Floor(m.charge/voltChargePerBonus)
			m.charge -= voltAttackCost
		} else {
			f.AttackDamage = f.baseDamage
		}
	case RequestSpecial:
		m.charge -= voltSpecialCost
		m.lightning(f)
	}
	m.charge = clamp(m.charge, 0, m.maxCharge)
}

func (m *voltMechanic) update(f *Fighter) {
	if !f.Airborne && !f.Attacking() {
		m.charge = math.Min(m.maxCharge, m.charge+voltRegen)
	}

	ps := f.Particles
	if ps.chance(m.charge / voltSparkOdds) {
		ps.Spawn(f.X+ps.uniform(0, f.W), f.Y+ps.uniform(0, f.H),
			ps.uniform(-1, 1), ps.uniform(-3, -1),
			voltSpark, ps.uniform(1, 3), ps.between(10, 20))
	}
}

// lightning rains bolts from above the fighter.
func (m *voltMechanic) lightning(f *Fighter) {
	ps := f.Particles
	for i := 0; i < voltLightningCount; i++ {
		ps.Spawn(f.CenterX()+ps.uniform(-50, 50), f.Y*ps.uniform(0, 1),
			ps.uniform(-1, 1), ps.uniform(5, 15),
			voltSpark, ps.uniform(2, 5), ps.between(10, 30))
	}
}
