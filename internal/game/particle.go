package game

import (
	"image/color"
	"math"
	"math/rand"
)

const (
	particleGravityScale = 0.1  // Fraction of arena gravity applied to particles
	particleShrink       = 0.95 // Size multiplier per tick
	particleMinSize      = 1.0
)

// Particle is a transient visual record owned by the fighter that spawned it.
type Particle struct {
	X, Y     float64
	VX, VY   float64
	Color    color.RGBA
	Size     float64
	Age      int // Ticks elapsed
	Lifetime int // Ticks until expiry
}

// Fade returns age/lifetime, the only input the renderer needs for opacity.
func (p *Particle) Fade() float64 {
	if p.Lifetime <= 0 {
		return 1
	}
	return float64(p.Age) / float64(p.Lifetime)
}

// ParticleSystem owns one fighter's particles.
type ParticleSystem struct {
	particles []Particle
	gravity   float64
	rng       *rand.Rand
}

// NewParticleSystem creates an empty system drawing randomness from rng.
func NewParticleSystem(gravity float64, rng *rand.Rand) *ParticleSystem {
	return &ParticleSystem{
		particles: make([]Particle, 0, 64),
		gravity:   gravity,
		rng:       rng,
	}
}

// Spawn appends one particle.
func (ps *ParticleSystem) Spawn(x, y, vx, vy float64, c color.RGBA, size float64, lifetime int) {
	ps.particles = append(ps.particles, Particle{
		X: x, Y: y, VX: vx, VY: vy,
		Color: c, Size: size, Lifetime: lifetime,
	})
}

// Update ages every particle and drops the expired ones.
func (ps *ParticleSystem) Update() {
	// Zero-allocation in-place filtering
	n := 0
	for i := range ps.particles {
		p := ps.particles[i]
		p.X += p.VX
		p.Y += p.VY
		p.VY += ps.gravity * particleGravityScale
		p.Age++
		p.Size = math.Max(particleMinSize, p.Size*particleShrink)

		if p.Age < p.Lifetime {
			ps.particles[n] = p
			n++
		}
	}
	ps.particles = ps.particles[:n]
}

// Particles returns the live particles. Callers must not retain the slice
// across ticks.
func (ps *ParticleSystem) Particles() []Particle {
	return ps.particles
}

// Len returns the number of live particles.
func (ps *ParticleSystem) Len() int {
	return len(ps.particles)
}

// Clear drops every particle.
func (ps *ParticleSystem) Clear() {
	ps.particles = ps.particles[:0]
}

// uniform returns a value in [lo, hi).
func (ps *ParticleSystem) uniform(lo, hi float64) float64 {
	return lo + ps.rng.Float64()*(hi-lo)
}

// between returns an int in [lo, hi].
func (ps *ParticleSystem) between(lo, hi int) int {
	return lo + ps.rng.Intn(hi-lo+1)
}

// chance reports true with probability p.
func (ps *ParticleSystem) chance(p float64) bool {
	return ps.rng.Float64() < p
}

// Burst spawns count particles at (x, y) flying out at random angles.
func (ps *ParticleSystem) Burst(x, y float64, count int, c color.RGBA, minSpeed, maxSpeed, minSize, maxSize float64, minLife, maxLife int) {
	for i := 0; i < count; i++ {
		angle := ps.uniform(0, 2*math.Pi)
		speed := ps.uniform(minSpeed, maxSpeed)
		ps.Spawn(x, y,
			math.Cos(angle)*speed,
			math.Sin(angle)*speed,
			c,
			ps.uniform(minSize, maxSize),
			ps.between(minLife, maxLife),
		)
	}
}
