package game

import "testing"

func TestShadowDoubleJump(t *testing.T) {
	m := newTestMatch(t, Shadow, Stone)
	f := m.Fighters[0]
	jump := [2]Input{{Jump: true}, {}}

	if res := m.Step(jump); !res.Actions[0].Has(RequestJump) {
		t.Fatal("Expected ground jump")
	}
	res := m.Step(jump)
	if !res.Actions[0].Has(RequestJump) {
		t.Fatal("Expected mid-air jump")
	}
	if !approx(f.VY, f.JumpImpulse*0.8+m.Arena().Gravity) {
		t.Errorf("Expected reduced air-jump impulse, got vy=%v", f.VY)
	}
	if res := m.Step(jump); res.Actions[0].Has(RequestJump) {
		t.Fatal("Expected third jump to be rejected")
	}

	for i := 0; i < 300 && f.Airborne; i++ {
		m.Step([2]Input{})
	}
	if f.Airborne {
		t.Fatal("Expected fighter to land")
	}

	m.Step(jump)
	if res := m.Step(jump); !res.Actions[0].Has(RequestJump) {
		t.Error("Expected air jump available again after landing")
	}
}

func TestShadowDoubleJumpDust(t *testing.T) {
	m := newTestMatch(t, Shadow, Stone)
	f := m.Fighters[0]

	f.Jump()
	before := f.Particles.Len()
	f.Jump()
	if got := f.Particles.Len() - before; got != 5 {
		t.Errorf("Expected 5 dust particles, got %d", got)
	}
}

func TestShadowDash(t *testing.T) {
	m := newTestMatch(t, Shadow, Stone)
	f := m.Fighters[0]

	if f.Dash(0) {
		t.Error("Expected dash without direction to be rejected")
	}
	if !f.Dash(-1) {
		t.Fatal("Expected dash to succeed")
	}
	if f.VX != -15 || f.Cooldowns.Get(TimerDash) != 45 {
		t.Errorf("Expected vx=-15 cd=45, got vx=%v cd=%d", f.VX, f.Cooldowns.Get(TimerDash))
	}
	if f.Particles.Len() != 10 {
		t.Errorf("Expected 10 streak particles, got %d", f.Particles.Len())
	}
	if f.Dash(1) {
		t.Error("Expected dash on cooldown to be rejected")
	}
}

func TestShadowDashFromBlock(t *testing.T) {
	m := newTestMatch(t, Shadow, Stone)
	f := m.Fighters[0]

	if !f.Block(true) {
		t.Fatal("Expected block to start")
	}
	if !f.Dash(1) {
		t.Fatal("Expected dash out of a block")
	}
	if f.VX != 15 || f.State != StateBlock {
		t.Errorf("Expected vx=15 still blocking, got vx=%v state=%s", f.VX, f.State)
	}
}

func TestDashOnlyShadow(t *testing.T) {
	for _, a := range []Archetype{Volt, Flame, Stone} {
		m := newTestMatch(t, a, Shadow)
		if m.Fighters[0].Dash(1) {
			t.Errorf("Expected %s to have no dash", a)
		}
	}
}

func TestShadowTeleport(t *testing.T) {
	m := newTestMatch(t, Shadow, Shadow)
	a, b := m.Fighters[0], m.Fighters[1]

	var hit *CombatEvent
	for i := 0; i < 30 && hit == nil; i++ {
		in := [2]Input{{Special: i == 0}, {}}
		res := m.Step(in)
		for j := range res.Events {
			if res.Events[j].Connected {
				ev := res.Events[j]
				hit = &ev
			}
		}
	}

	if hit == nil {
		t.Fatal("Expected the teleport strike to land")
	}
	if a.X != 600+40+10 {
		t.Errorf("Expected teleport behind the opponent at 650, got %v", a.X)
	}
	if a.FacingRight {
		t.Error("Expected fighter to face back toward the opponent")
	}
	if !hit.Special || !approx(hit.FinalDamage, a.AttackDamage*2) {
		t.Errorf("Expected special damage %v, got %+v", a.AttackDamage*2, hit)
	}
	if !approx(b.HP, b.MaxHP-a.AttackDamage*2) {
		t.Errorf("Expected HP %v, got %v", b.MaxHP-a.AttackDamage*2, b.HP)
	}
}

func TestShadowTeleportNearWall(t *testing.T) {
	m := newTestMatch(t, Shadow, Shadow)
	a, b := m.Fighters[0], m.Fighters[1]
	b.X = 800 - b.W

	if !a.Special() {
		t.Fatal("Expected special to start")
	}
	for i := 0; i < 30 && !a.phaseFired; i++ {
		a.Update()
		a.CheckHit(b)
	}
	if !a.phaseFired {
		t.Fatal("Expected the teleport phase to fire")
	}
	if a.X != b.X-a.W-10 {
		t.Errorf("Expected teleport to the near side at %v, got %v", b.X-a.W-10, a.X)
	}
}

func TestVoltSpecialNeedsCharge(t *testing.T) {
	m := newTestMatch(t, Volt, Stone)
	f := m.Fighters[0]
	volt := f.Mechanic().(*voltMechanic)

	volt.charge = 49.9
	if f.Special() {
		t.Fatal("Expected special to be rejected below 50 charge")
	}
	if f.State != StateIdle || volt.charge != 49.9 {
		t.Errorf("Expected no change, got %s charge=%v", f.State, volt.charge)
	}

	volt.charge = 80
	if !f.Special() {
		t.Fatal("Expected special to succeed at 80 charge")
	}
	if volt.charge != 30 {
		t.Errorf("Expected charge 30, got %v", volt.charge)
	}
	if f.Particles.Len() != 30 {
		t.Errorf("Expected 30 lightning particles, got %d", f.Particles.Len())
	}
}

func TestVoltAttackCharge(t *testing.T) {
	tests := []struct {
		name       string
		charge     float64
		wantDamage float64
		wantCharge float64
	}{
		{"empty", 0, 12, 0},
		{"at threshold", 10, 12, 10},
		{"above threshold", 11, 12, 1},
		{"half", 50, 14, 40},
		{"full", 100, 17, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(t, Volt, Stone)
			f := m.Fighters[0]
			volt := f.Mechanic().(*voltMechanic)
			volt.charge = tt.charge

			if !f.Attack() {
				t.Fatal("Expected attack to succeed")
			}
			if f.AttackDamage != tt.wantDamage {
				t.Errorf("Expected damage %v, got %v", tt.wantDamage, f.AttackDamage)
			}
			if !approx(volt.charge, tt.wantCharge) {
				t.Errorf("Expected charge %v, got %v", tt.wantCharge, volt.charge)
			}
		})
	}
}

func TestVoltRegen(t *testing.T) {
	m := newTestMatch(t, Volt, Stone)
	f := m.Fighters[0]
	volt := f.Mechanic().(*voltMechanic)

	for i := 0; i < 10; i++ {
		f.Update()
	}
	if !approx(volt.charge, 2) {
		t.Errorf("Expected charge 2 after 10 grounded ticks, got %v", volt.charge)
	}

	f.Jump()
	f.Update()
	if !approx(volt.charge, 2) {
		t.Errorf("Expected no regen while airborne, got %v", volt.charge)
	}

	volt.charge = 99.9
	for f.Airborne {
		f.Update()
	}
	f.Update()
	if volt.charge != 100 {
		t.Errorf("Expected charge capped at 100, got %v", volt.charge)
	}
}

func TestFlameOverheat(t *testing.T) {
	m := newTestMatch(t, Flame, Stone)
	f := m.Fighters[0]
	flame := f.Mechanic().(*flameMechanic)

	flame.heat = 90
	if !f.Attack() {
		t.Fatal("Expected attack at 90 heat")
	}
	if flame.heat != 100 || !flame.overheated || !f.Mechanic().Locked() {
		t.Fatalf("Expected overheat at 100, got heat=%v overheated=%v", flame.heat, flame.overheated)
	}
	if f.AttackDamage != 20 {
		t.Errorf("Expected damage 15+5, got %v", f.AttackDamage)
	}

	for f.Attacking() {
		f.Update()
	}
	f.Cooldowns.Reset()

	for flame.overheated {
		if f.Attack() {
			t.Fatalf("Expected attack rejected while overheated (heat %v)", flame.heat)
		}
		f.Update()
	}
	if flame.heat != 0 {
		t.Errorf("Expected heat 0 when overheat clears, got %v", flame.heat)
	}
	if !f.Attack() {
		t.Error("Expected attack after cooling")
	}
}

func TestFlameHeatProgression(t *testing.T) {
	m := newTestMatch(t, Flame, Stone)
	f := m.Fighters[0]
	flame := f.Mechanic().(*flameMechanic)

	for i := 1; i <= 7; i++ {
		if !f.Attack() {
			t.Fatalf("Expected attack %d to succeed", i)
		}
		if i < 7 && (flame.heat != float64(15*i) || flame.overheated) {
			t.Errorf("Expected heat %d after attack %d, got %v (overheated=%v)", 15*i, i, flame.heat, flame.overheated)
		}
		if i == 7 {
			break
		}
		for f.Attacking() {
			f.Update()
		}
	}
	if flame.heat != 100 || !flame.overheated {
		t.Errorf("Expected overheat at 100 after 7 attacks, got heat=%v overheated=%v", flame.heat, flame.overheated)
	}

	// Recovery ticks already cool an overheated fighter
	for f.Attacking() {
		f.Update()
	}
	if flame.heat >= 100 || !flame.overheated {
		t.Errorf("Expected cooling while still overheated, got heat=%v overheated=%v", flame.heat, flame.overheated)
	}
}

func TestFlameSpecialGuards(t *testing.T) {
	m := newTestMatch(t, Flame, Stone)
	f := m.Fighters[0]
	flame := f.Mechanic().(*flameMechanic)

	flame.heat = 39
	if f.Special() {
		t.Error("Expected special rejected below 40 heat")
	}

	flame.heat = 45
	if !f.Special() {
		t.Fatal("Expected special at 45 heat")
	}
	if !approx(flame.heat, 5) {
		t.Errorf("Expected heat 5, got %v", flame.heat)
	}
	if f.Cooldowns.Get(TimerFireball) != 90 {
		t.Errorf("Expected fireball cooldown 90, got %d", f.Cooldowns.Get(TimerFireball))
	}

	for f.Attacking() {
		f.Update()
	}
	f.Cooldowns.Start(TimerSpecial, 0)
	flame.heat = 60
	if f.Special() {
		t.Error("Expected special rejected while the fireball cools down")
	}
}

func TestFlameFireballReach(t *testing.T) {
	m := newTestMatch(t, Flame, Shadow)
	a, b := m.Fighters[0], m.Fighters[1]
	a.Mechanic().(*flameMechanic).heat = 40

	// Beyond normal reach, inside fireball reach
	placeInReach(a, b, 100)

	var hits []CombatEvent
	for i := 0; i < 30; i++ {
		res := m.Step([2]Input{{Special: i == 0}, {}})
		hits = append(hits, res.Events...)
	}

	if len(hits) != 1 {
		t.Fatalf("Expected exactly one fireball hit, got %d", len(hits))
	}
	if hits[0].Tick != 14 {
		t.Errorf("Expected the fireball on tick 14, got %d", hits[0].Tick)
	}
	if !approx(hits[0].FinalDamage, 30) {
		t.Errorf("Expected damage 30, got %v", hits[0].FinalDamage)
	}
}

func TestStoneArmorAbsorbs(t *testing.T) {
	tests := []struct {
		name       string
		damage     float64
		wantArmor  float64
		wantHPLoss float64
	}{
		{"inside armor", 10, 20, 0},
		{"exact armor", 30, 0, 0},
		{"past armor", 50, 0, 20},
		{"zero", 0, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(t, Stone, Shadow)
			f := m.Fighters[0]
			stone := f.Mechanic().(*stoneMechanic)

			res, ok := f.TakeDamage(tt.damage, 10)
			if !ok {
				t.Fatal("Expected hit to connect")
			}
			if stone.armor != tt.wantArmor {
				t.Errorf("Expected armor %v, got %v", tt.wantArmor, stone.armor)
			}
			if f.MaxHP-f.HP != tt.wantHPLoss {
				t.Errorf("Expected HP loss %v, got %v", tt.wantHPLoss, f.MaxHP-f.HP)
			}
			if stone.armor < 0 {
				t.Error("Armor went negative")
			}
			if !approx(res.Knockback, 7) {
				t.Errorf("Expected knockback 7, got %v", res.Knockback)
			}
		})
	}
}

func TestStoneArmorChips(t *testing.T) {
	m := newTestMatch(t, Stone, Shadow)
	f := m.Fighters[0]

	f.TakeDamage(9, 5)
	// int(9/2) chips plus the hit burst
	if got := f.Particles.Len(); got != 4+10 {
		t.Errorf("Expected 14 particles, got %d", got)
	}
}

func TestStoneArmorRegen(t *testing.T) {
	m := newTestMatch(t, Stone, Shadow)
	f := m.Fighters[0]
	stone := f.Mechanic().(*stoneMechanic)
	stone.armor = 0

	for i := 0; i < 10; i++ {
		f.Update()
	}
	if !approx(stone.armor, 1) {
		t.Errorf("Expected armor 1, got %v", stone.armor)
	}
	stone.armor = 29.95
	f.Update()
	if stone.armor != 30 {
		t.Errorf("Expected armor capped at 30, got %v", stone.armor)
	}
}

func TestStoneSpecial(t *testing.T) {
	m := newTestMatch(t, Stone, Shadow)
	f := m.Fighters[0]
	stone := f.Mechanic().(*stoneMechanic)
	stone.armor = 5
	speed := f.Speed

	if !f.Special() {
		t.Fatal("Expected special to succeed")
	}
	if stone.armor != 30 {
		t.Errorf("Expected armor restored, got %v", stone.armor)
	}
	if !approx(f.Speed, speed*0.8) {
		t.Errorf("Expected speed %v, got %v", speed*0.8, f.Speed)
	}
	if f.Particles.Len() != 30 {
		t.Errorf("Expected 30 eruption particles, got %d", f.Particles.Len())
	}
}

func TestBlockAfterArmor(t *testing.T) {
	m := newTestMatch(t, Stone, Shadow)
	f := m.Fighters[0]
	f.Block(true)

	res, ok := f.TakeDamage(50, 5)
	if !ok || !res.Blocked {
		t.Fatal("Expected a blocked hit")
	}
	if !approx(res.Applied, 20*0.3) {
		t.Errorf("Expected 30%% of the post-armor damage, got %v", res.Applied)
	}
	if res.Absorbed != 30 {
		t.Errorf("Expected 30 absorbed, got %v", res.Absorbed)
	}
}

func TestArmorSoakedHitKeepsCombo(t *testing.T) {
	m := newTestMatch(t, Shadow, Stone)
	a, b := m.Fighters[0], m.Fighters[1]
	placeInReach(a, b, 20)

	res := m.Step([2]Input{{Attack: true}, {}})
	if len(res.Events) != 1 || !res.Events[0].Connected {
		t.Fatalf("Expected one connected event, got %+v", res.Events)
	}
	if res.Events[0].FinalDamage != 0 || res.Events[0].Absorbed != a.AttackDamage {
		t.Errorf("Expected the hit fully absorbed, got %+v", res.Events[0])
	}
	if a.Combo.Count != 0 {
		t.Errorf("Expected absorbed hit not to count, combo %d", a.Combo.Count)
	}
}
