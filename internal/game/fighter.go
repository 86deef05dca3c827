package game

import (
	"fmt"
	"image/color"
	"math/rand"

	"brawl/internal/config"
)

const (
	specialEnergyOdds  = 0.3
	specialEnergyCount = 3
)

// env is the match-wide context every fighter reads.
type env struct {
	arena  config.ArenaConfig
	combat config.CombatConfig
	rng    *rand.Rand
	audio  AudioTrigger
}

// Fighter is one combatant. It exclusively owns its body, timers, combo,
// particles and resource state. It only reads the opponent, except through
// TakeDamage.
type Fighter struct {
	Slot      int
	Name      string
	Archetype Archetype
	Color     color.RGBA

	Body
	FacingRight bool

	HP, MaxHP float64
	State     ActionState

	// Base stats, adjusted in place by resource mechanics
	Speed          float64
	JumpImpulse    float64
	AttackDamage   float64
	AttackRange    float64
	AttackDuration int

	Cooldowns CooldownBank
	Combo     ComboTracker
	Particles *ParticleSystem

	mech       Mechanic
	env        *env
	baseDamage float64
	phaseFired bool // one-shot special effect already triggered
}

// newFighter places a fighter with its feet on the floor at x.
func newFighter(slot int, a Archetype, stats config.FighterStats, x float64, e *env) (*Fighter, error) {
	mech := a.newMechanic()
	if mech == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownArchetype, a)
	}

	f := &Fighter{
		Slot:      slot,
		Name:      stats.Name,
		Archetype: a,
		Color:     a.BaseColor(),
		Body: Body{
			X: x,
			Y: e.arena.Floor - stats.Height,
			W: stats.Width,
			H: stats.Height,
		},
		FacingRight:    slot == 0,
		HP:             stats.HP,
		MaxHP:          stats.HP,
		State:          StateIdle,
		Speed:          stats.Speed,
		JumpImpulse:    stats.JumpImpulse,
		AttackDamage:   stats.AttackDamage,
		AttackRange:    stats.AttackRange,
		AttackDuration: stats.AttackDuration,
		Particles:      NewParticleSystem(e.arena.Gravity, e.rng),
		mech:           mech,
		env:            e,
		baseDamage:     stats.AttackDamage,
	}
	f.Combo = newComboTracker(&f.Cooldowns, e.combat.ComboWindowTicks)
	return f, nil
}

// Mechanic returns the fighter's resource model.
func (f *Fighter) Mechanic() Mechanic {
	return f.mech
}

// Attacking reports whether an attack or special is in progress.
func (f *Fighter) Attacking() bool {
	return f.State == StateAttack || f.State == StateSpecial
}

// Blocking reports whether the fighter is guarding.
func (f *Fighter) Blocking() bool {
	return f.State == StateBlock
}

// Alive reports whether HP is above zero.
func (f *Fighter) Alive() bool {
	return f.HP > 0
}

// HPRatio returns hp/max_hp. It may be negative.
func (f *Fighter) HPRatio() float64 {
	if f.MaxHP <= 0 {
		return 0
	}
	return f.HP / f.MaxHP
}

// FaceToward turns f toward the horizontal center of opp.
func (f *Fighter) FaceToward(opp *Fighter) {
	f.FacingRight = f.CenterX() < opp.CenterX()
}

func (f *Fighter) facingSign() float64 {
	if f.FacingRight {
		return 1
	}
	return -1
}

// request runs one action through the transition table. Illegal requests
// and failed guards leave the fighter untouched and return false.
func (f *Fighter) request(r Request, dir int) bool {
	tr := transitions[f.State][r]
	if tr.enter == nil {
		return false
	}
	if !f.mech.allow(f, r) {
		return false
	}
	if !tr.enter(f, dir) {
		return false
	}
	if tr.next != stateUnchanged {
		f.State = tr.next
	}
	f.mech.accepted(f, r)
	return true
}

// Move sets horizontal velocity to dir*speed. dir is clamped to -1..1.
func (f *Fighter) Move(dir int) bool {
	dir = sign(dir)
	if dir == 0 {
		return f.request(RequestStop, 0)
	}
	return f.request(RequestMove, dir)
}

// Jump jumps from the floor, or performs the archetype's air jump.
func (f *Fighter) Jump() bool {
	return f.request(RequestJump, 0)
}

// Attack starts a basic attack.
func (f *Fighter) Attack() bool {
	return f.request(RequestAttack, 0)
}

// Special starts the archetype's special attack.
func (f *Fighter) Special() bool {
	return f.request(RequestSpecial, 0)
}

// Block raises (active) or lowers the guard.
func (f *Fighter) Block(active bool) bool {
	if active {
		return f.request(RequestBlock, 0)
	}
	return f.request(RequestRelease, 0)
}

// Dash performs the archetype's dash. Only Shadow has one.
func (f *Fighter) Dash(dir int) bool {
	return f.request(RequestDash, sign(dir))
}

func (f *Fighter) enterMove(dir int) bool {
	f.VX = float64(dir) * f.Speed
	return true
}

func (f *Fighter) enterJump(int) bool {
	if f.Airborne {
		return f.mech.airJump(f)
	}
	f.VY = f.JumpImpulse
	f.Airborne = true
	return true
}

func (f *Fighter) enterAttack(int) bool {
	if !f.Cooldowns.Ready(TimerAttack) {
		return false
	}
	f.VX = 0
	f.Cooldowns.Start(TimerAttack, f.AttackDuration)
	f.phaseFired = false
	f.env.audio.Play(CueAttack)
	return true
}

func (f *Fighter) enterSpecial(int) bool {
	if !f.Cooldowns.Ready(TimerSpecial) {
		return false
	}
	f.VX = 0
	f.Cooldowns.Start(TimerAttack, int(float64(f.AttackDuration)*f.env.combat.SpecialDurationScale))
	f.Cooldowns.Start(TimerSpecial, f.env.combat.SpecialCooldownTicks)
	f.phaseFired = false
	f.env.audio.Play(CueSpecial)
	return true
}

func (f *Fighter) enterBlock(int) bool {
	f.VX = 0
	return true
}

func (f *Fighter) enterRelease(int) bool {
	return true
}

func (f *Fighter) enterDash(dir int) bool {
	return f.mech.dash(f, dir)
}

// phaseReached reports true exactly once per attack, on the first call made
// once the attack timer has dropped to frac of the attack duration.
func (f *Fighter) phaseReached(frac float64) bool {
	if f.phaseFired {
		return false
	}
	if f.Cooldowns.Get(TimerAttack) > int(float64(f.AttackDuration)*frac) {
		return false
	}
	f.phaseFired = true
	return true
}

// Apply issues one tick of controller input in a fixed order: move, jump,
// dash, block, attack, special. It returns the requests that were accepted.
func (f *Fighter) Apply(in Input) ActionSet {
	var done ActionSet
	try := func(r Request, ok bool) {
		if ok {
			done.add(r)
		}
	}

	if dir := sign(in.Move); dir != 0 {
		try(RequestMove, f.Move(dir))
	} else {
		try(RequestStop, f.Move(0))
	}
	if in.Jump {
		try(RequestJump, f.Jump())
	}
	if in.Dash {
		try(RequestDash, f.Dash(in.Move))
	}
	if in.Block {
		try(RequestBlock, f.Block(true))
	} else if f.Blocking() {
		try(RequestRelease, f.Block(false))
	}
	if in.Attack {
		try(RequestAttack, f.Attack())
	}
	if in.Special {
		try(RequestSpecial, f.Special())
	}
	return done
}

// Update advances the fighter by one tick: physics, timers, combo window,
// particles, then the resource mechanic.
func (f *Fighter) Update() {
	if f.Integrate(f.env.arena) {
		if f.State == StateJump {
			f.State = StateIdle
		}
		f.mech.landed(f)
	}

	expired := f.Cooldowns.Tick()
	if expired.Has(TimerAttack) && f.Attacking() {
		f.State = StateIdle
	}
	if expired.Has(TimerHit) && f.State == StateHit {
		f.State = StateIdle
		f.VX = 0
	}
	if expired.Has(TimerCombo) {
		f.Combo.Expire()
	}

	f.Particles.Update()
	if f.State == StateSpecial && f.Particles.chance(specialEnergyOdds) {
		ps := f.Particles
		for i := 0; i < specialEnergyCount; i++ {
			ps.Spawn(f.X+ps.uniform(0, f.W), f.Y+ps.uniform(0, f.H),
				ps.uniform(-2, 2), ps.uniform(-2, 2),
				f.Color, ps.uniform(3, 6), ps.between(10, 20))
		}
	}

	f.mech.update(f)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
