package game

import "image/color"

var hitSpark = color.RGBA{255, 0, 0, 255}

// CombatEvent describes one attack that reached the defender's
// damage-application step. Connected is false when the defender was
// invulnerable; every other field is then zero except the identity fields
// and RawDamage.
type CombatEvent struct {
	Tick        uint64    `json:"tick"`
	Attacker    int       `json:"attacker"`
	Defender    int       `json:"defender"`
	Archetype   Archetype `json:"-"`
	Special     bool      `json:"special"`
	RawDamage   float64   `json:"rawDamage"`   // after special and combo scaling
	FinalDamage float64   `json:"finalDamage"` // HP actually removed
	Absorbed    float64   `json:"absorbed"`    // soaked by armor
	Knockback   float64   `json:"knockback"`
	Blocked     bool      `json:"blocked"`
	Connected   bool      `json:"connected"`
	Combo       int       `json:"combo"` // attacker combo count after the hit
	DefenderHP  float64   `json:"defenderHp"`
}

// DamageResult is what the defender reports back from TakeDamage.
type DamageResult struct {
	Applied   float64
	Absorbed  float64
	Knockback float64
	Blocked   bool
}

// counts reports whether the hit feeds the attacker's combo. Blocked hits
// and hits fully soaked by armor do not.
func (r DamageResult) counts() bool {
	return !r.Blocked && (r.Applied > 0 || r.Absorbed == 0)
}

// TakeDamage is the damage-application contract. It returns ok=false and
// changes nothing while the hit-invulnerability timer runs. Otherwise armor
// absorbs first, blocking scales what is left, HP drops, the fighter enters
// hit-stun and is knocked away from the way it faces.
func (f *Fighter) TakeDamage(damage, knockback float64) (DamageResult, bool) {
	if !f.Cooldowns.Ready(TimerHit) {
		return DamageResult{}, false
	}
	if damage < 0 {
		damage = 0
	}

	damage, knockback, absorbed := f.mech.absorb(f, damage, knockback)

	blocked := f.Blocking()
	if blocked {
		damage *= f.env.combat.BlockFactor
	}

	f.HP -= damage
	f.Cooldowns.Start(TimerHit, f.env.combat.HitInvulnTicks)
	f.State = StateHit
	f.VX = -f.facingSign() * knockback

	f.Particles.Burst(f.CenterX(), f.CenterY(), f.env.combat.HitBurst, hitSpark,
		1, 3, 2, 5, 20, 30)

	return DamageResult{
		Applied:   damage,
		Absorbed:  absorbed,
		Knockback: knockback,
		Blocked:   blocked,
	}, true
}

// CheckHit runs f's hit check against opp. It reports false when there is
// no live attack overlapping opp. A returned event may still have
// Connected=false if opp was invulnerable.
func (f *Fighter) CheckHit(opp *Fighter) (CombatEvent, bool) {
	reach := f.mech.reach(f, opp)
	if !f.live() {
		return CombatEvent{}, false
	}
	if !f.Hitbox(reach).Overlaps(opp.Rect()) {
		return CombatEvent{}, false
	}

	cfg := f.env.combat
	special := f.State == StateSpecial
	damage := f.AttackDamage
	knockback := cfg.BaseKnockback
	if special {
		damage *= cfg.SpecialMultiplier
		knockback = cfg.SpecialKnockback
	}
	damage *= f.Combo.Multiplier(cfg.ComboStep)

	ev := CombatEvent{
		Attacker:  f.Slot,
		Defender:  opp.Slot,
		Archetype: f.Archetype,
		Special:   special,
		RawDamage: damage,
	}

	res, ok := opp.TakeDamage(damage, knockback)
	ev.DefenderHP = opp.HP
	if !ok {
		ev.Combo = f.Combo.Count
		return ev, true
	}

	if res.counts() {
		f.Combo.RegisterHit()
	}
	ev.Connected = true
	ev.FinalDamage = res.Applied
	ev.Absorbed = res.Absorbed
	ev.Knockback = res.Knockback
	ev.Blocked = res.Blocked
	ev.Combo = f.Combo.Count

	if res.Blocked {
		f.env.audio.Play(CueBlock)
	} else {
		f.env.audio.Play(CueHit)
	}
	return ev, true
}
