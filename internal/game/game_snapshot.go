package game

import (
	"fmt"
	"image/color"
	"math"
	"sync/atomic"
	"time"
)

// CooldownRatios are remaining/length per timer, for meter drawing.
type CooldownRatios struct {
	Attack   float64 `json:"attack"`
	Special  float64 `json:"special"`
	Hit      float64 `json:"hit"`
	Combo    float64 `json:"combo"`
	Dash     float64 `json:"dash"`
	Fireball float64 `json:"fireball"`
}

// FighterSnapshot is an immutable copy of fighter state for rendering.
// Uses value types (not pointers) to ensure immutability
type FighterSnapshot struct {
	Slot        int         `json:"slot"`
	Name        string      `json:"name"`
	Archetype   string      `json:"archetype"`
	Color       string      `json:"color"`
	RGBA        color.RGBA  `json:"-"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	W           float64     `json:"w"`
	H           float64     `json:"h"`
	VX          float64     `json:"vx"`
	VY          float64     `json:"vy"`
	FacingRight bool        `json:"facingRight"`
	Airborne    bool        `json:"airborne"`
	State       ActionState `json:"state"`
	HP          float64     `json:"hp"` // clamped to [0, MaxHP]
	MaxHP       float64     `json:"maxHp"`
	Combo       int         `json:"combo"`

	Cooldowns CooldownRatios `json:"cooldowns"`

	Resource      float64 `json:"resource"`
	ResourceMax   float64 `json:"resourceMax"`
	ResourceRatio float64 `json:"resourceRatio"`
	Locked        bool    `json:"locked"`
}

// ParticleSnapshot is an immutable particle for rendering.
type ParticleSnapshot struct {
	Owner int        `json:"owner"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Size  float64    `json:"size"`
	Color string     `json:"color"`
	RGBA  color.RGBA `json:"-"`
	Alpha float64    `json:"alpha"` // 1 - age/lifetime
}

// ArenaSnapshot carries the arena geometry.
type ArenaSnapshot struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Floor  float64 `json:"floor"`
}

// MatchSnapshot is a complete immutable match state for rendering.
// The particle slice is pre-allocated and capped.
type MatchSnapshot struct {
	Sequence  uint64    `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Tick      uint64    `json:"tick"`
	Seed      int64     `json:"seed"`

	Arena     ArenaSnapshot      `json:"arena"`
	Fighters  [2]FighterSnapshot `json:"fighters"`
	Particles []ParticleSnapshot `json:"particles"`

	Connected bool `json:"connected"` // an attack connected this tick
	Over      bool `json:"over"`
	Winner    int  `json:"winner"` // -1 while the match runs
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *MatchSnapshot) Clone() MatchSnapshot {
	out := *s
	out.Particles = append([]ParticleSnapshot(nil), s.Particles...)
	return out
}

// Capture writes the current match state into dst, reusing its particle
// capacity. At most maxParticles particles are copied, split evenly between
// the two fighters when both have more than their share.
func (m *Match) Capture(dst *MatchSnapshot, maxParticles int) {
	dst.Tick = m.tick
	dst.Over = m.over
	dst.Winner = m.Winner()
	dst.Arena = ArenaSnapshot{
		Width:  m.env.arena.Width,
		Height: m.env.arena.Height,
		Floor:  m.env.arena.Floor,
	}

	for i, f := range m.Fighters {
		dst.Fighters[i] = snapshotFighter(f)
	}

	dst.Particles = dst.Particles[:0]
	budget := [2]int{maxParticles / 2, maxParticles - maxParticles/2}
	n0, n1 := m.Fighters[0].Particles.Len(), m.Fighters[1].Particles.Len()
	if n0 < budget[0] {
		budget[1] += budget[0] - n0
	} else if n1 < budget[1] {
		budget[0] += budget[1] - n1
	}
	for i, f := range m.Fighters {
		for j, p := range f.Particles.Particles() {
			if j >= budget[i] {
				break
			}
			dst.Particles = append(dst.Particles, ParticleSnapshot{
				Owner: i,
				X:     p.X,
				Y:     p.Y,
				Size:  p.Size,
				Color: hexColor(p.Color),
				RGBA:  p.Color,
				Alpha: 1 - p.Fade(),
			})
		}
	}
}

func snapshotFighter(f *Fighter) FighterSnapshot {
	value, max := f.mech.Resource()
	ratio := 0.0
	if max > 0 {
		ratio = value / max
	}
	c := f.Cooldowns
	return FighterSnapshot{
		Slot:        f.Slot,
		Name:        f.Name,
		Archetype:   f.Archetype.String(),
		Color:       hexColor(f.Color),
		RGBA:        f.Color,
		X:           f.X,
		Y:           f.Y,
		W:           f.W,
		H:           f.H,
		VX:          f.VX,
		VY:          f.VY,
		FacingRight: f.FacingRight,
		Airborne:    f.Airborne,
		State:       f.State,
		HP:          math.Max(0, math.Min(f.HP, f.MaxHP)),
		MaxHP:       f.MaxHP,
		Combo:       f.Combo.Count,
		Cooldowns: CooldownRatios{
			Attack:   c.Ratio(TimerAttack),
			Special:  c.Ratio(TimerSpecial),
			Hit:      c.Ratio(TimerHit),
			Combo:    c.Ratio(TimerCombo),
			Dash:     c.Ratio(TimerDash),
			Fireball: c.Ratio(TimerFireball),
		},
		Resource:      value,
		ResourceMax:   max,
		ResourceRatio: ratio,
		Locked:        f.mech.Locked(),
	}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure
// Uses triple buffering: the tick goroutine writes, readers copy the latest
// published slot.
type SnapshotPool struct {
	snapshots    [3]MatchSnapshot // Triple buffer
	maxParticles int
	writeIdx     uint32 // atomic - producer index
	readIdx      uint32 // atomic - consumer index
	sequence     uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated particle slices.
func NewSnapshotPool(maxParticles int) *SnapshotPool {
	pool := &SnapshotPool{maxParticles: maxParticles}
	for i := 0; i < 3; i++ {
		pool.snapshots[i] = MatchSnapshot{
			Particles: make([]ParticleSnapshot, 0, maxParticles),
			Winner:    -1,
		}
	}
	return pool
}

// AcquireWrite gets the next write slot (producer only, called from game tick)
// Returns a snapshot with reset slices but preserved capacity
func (p *SnapshotPool) AcquireWrite() *MatchSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Particles = snap.Particles[:0]
	snap.Connected = false
	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite marks write complete and advances read pointer
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead gets the latest complete snapshot.
func (p *SnapshotPool) AcquireRead() *MatchSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// MaxParticles returns the per-snapshot particle cap.
func (p *SnapshotPool) MaxParticles() int {
	return p.maxParticles
}
