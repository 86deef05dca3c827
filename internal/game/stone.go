package game

import (
	"image/color"
	"math"
)

const (
	stoneMaxArmor      = 30.0
	stoneArmorRegen    = 0.1
	stoneKnockbackTake = 0.7 // knockback received scale
	stoneSlamSlow      = 0.8 // permanent speed scale per special
	stoneEruptionCount = 30
)

var (
	stoneChip = color.RGBA{139, 69, 19, 255}
	stoneRock = color.RGBA{160, 82, 45, 255}
)

// stoneMechanic soaks damage with a regenerating armor shield.
type stoneMechanic struct {
	baseMechanic
	armor    float64
	maxArmor float64
}

func (m *stoneMechanic) Archetype() Archetype         { return Stone }
func (m *stoneMechanic) Resource() (float64, float64) { return m.armor, m.maxArmor }

func (m *stoneMechanic) absorb(f *Fighter, damage, knockback float64) (float64, float64, float64) {
	var absorbed float64
	if m.armor > 0 && damage > 0 {
		absorbed = math.Min(m.armor, damage)
		m.armor -= absorbed
		damage -= absorbed

		ps := f.Particles
		for i := 0; i < int(absorbed/2); i++ {
			ps.Spawn(f.CenterX(), f.CenterY(),
				ps.uniform(-3, 3), ps.uniform(-5, -1),
				stoneChip, ps.uniform(2, 5), ps.between(20, 40))
		}
	}
	return damage, knockback * stoneKnockbackTake, absorbed
}

func (m *stoneMechanic) update(*Fighter) {
	m.armor = math.Min(m.maxArmor, m.armor+stoneArmorRegen)
}

func (m *stoneMechanic) accepted(f *Fighter, r Request) {
	if r != RequestSpecial {
		return
	}
	m.armor = m.maxArmor
	f.Speed *= stoneSlamSlow
	m.erupt(f)
}

// erupt throws rocks up along the floor in front of the fighter.
func (m *stoneMechanic) erupt(f *Fighter) {
	ps := f.Particles
	dir := f.facingSign()
	floor := f.env.arena.Floor
	for i := 0; i < stoneEruptionCount; i++ {
		dist := ps.uniform(20, 150)
		angle := ps.uniform(0, math.Pi)
		ps.Spawn(f.CenterX()+dir*math.Abs(math.Cos(angle))*dist, floor-ps.uniform(10, 30),
			ps.uniform(-1, 1), ps.uniform(-10, -5),
			stoneRock, ps.uniform(5, 10), ps.between(30, 60))
	}
}
