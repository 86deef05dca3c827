package game

import "image/color"

const (
	shadowDashSpeed     = 15.0
	shadowDashCooldown  = 45
	shadowAirJumpScale  = 0.8
	shadowTeleportPhase = 0.75 // fraction of the attack duration still remaining
	shadowTeleportGap   = 10.0
	shadowSmokeCount    = 15
	shadowDashStreak    = 10
	shadowDustCount     = 5
)

var (
	shadowSmoke  = color.RGBA{100, 100, 100, 255}
	shadowStreak = color.RGBA{50, 50, 50, 255}
)

// shadowMechanic gives the agility archetype a dash, one mid-air jump and a
// teleport behind the opponent during its special.
type shadowMechanic struct {
	baseMechanic
	doubleJumped bool
}

func (m *shadowMechanic) Archetype() Archetype { return Shadow }

func (m *shadowMechanic) airJump(f *Fighter) bool {
	if m.doubleJumped {
		return false
	}
	f.VY = f.JumpImpulse * shadowAirJumpScale
	m.doubleJumped = true

	ps := f.Particles
	for i := 0; i < shadowDustCount; i++ {
		ps.Spawn(f.CenterX(), f.Y+f.H,
			ps.uniform(-1, 1), ps.uniform(1, 3),
			shadowSmoke, ps.uniform(3, 5), ps.between(10, 20))
	}
	return true
}

func (m *shadowMechanic) dash(f *Fighter, dir int) bool {
	if dir == 0 || !f.Cooldowns.Ready(TimerDash) {
		return false
	}
	f.VX = float64(dir) * shadowDashSpeed
	f.Cooldowns.Start(TimerDash, shadowDashCooldown)

	ps := f.Particles
	trail := f.X
	if dir < 0 {
		trail = f.X + f.W
	}
	for i := 0; i < shadowDashStreak; i++ {
		ps.Spawn(trail, f.Y+ps.uniform(0, f.H),
			-float64(dir)*ps.uniform(2, 4), ps.uniform(-1, 1),
			shadowStreak, ps.uniform(2, 4), ps.between(10, 20))
	}
	return true
}

func (m *shadowMechanic) landed(*Fighter) {
	m.doubleJumped = false
}

func (m *shadowMechanic) reach(f *Fighter, opp *Fighter) float64 {
	if f.State == StateSpecial && f.phaseReached(shadowTeleportPhase) {
		m.teleport(f, opp)
	}
	return f.AttackRange
}

// teleport moves f just past the far side of opp, or to its near side when
// the far side would leave the arena.
func (m *shadowMechanic) teleport(f *Fighter, opp *Fighter) {
	m.smoke(f)

	x := opp.X + opp.W + shadowTeleportGap
	if x+f.W > f.env.arena.Width {
		x = opp.X - f.W - shadowTeleportGap
	}
	f.X = x
	f.ClampX(f.env.arena.Width)
	f.FaceToward(opp)

	m.smoke(f)
}

func (m *shadowMechanic) smoke(f *Fighter) {
	ps := f.Particles
	for i := 0; i < shadowSmokeCount; i++ {
		ps.Spawn(f.CenterX(), f.CenterY(),
			ps.uniform(-2, 2), ps.uniform(-2, 2),
			shadowSmoke, ps.uniform(3, 6), ps.between(20, 40))
	}
}
