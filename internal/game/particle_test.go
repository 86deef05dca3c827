package game

import (
	"image/color"
	"math/rand"
	"testing"
)

func TestParticleExpiry(t *testing.T) {
	ps := NewParticleSystem(0.6, rand.New(rand.NewSource(1)))
	ps.Spawn(0, 0, 1, 0, color.RGBA{255, 0, 0, 255}, 4, 3)
	ps.Spawn(0, 0, 0, 0, color.RGBA{0, 255, 0, 255}, 4, 1)

	ps.Update()
	if ps.Len() != 1 {
		t.Fatalf("Expected 1 particle after first tick, got %d", ps.Len())
	}
	ps.Update()
	if ps.Len() != 1 {
		t.Fatalf("Expected 1 particle after second tick, got %d", ps.Len())
	}
	ps.Update()
	if ps.Len() != 0 {
		t.Errorf("Expected particle removed when age reaches lifetime, got %d", ps.Len())
	}
}

func TestParticleMotion(t *testing.T) {
	ps := NewParticleSystem(0.6, rand.New(rand.NewSource(1)))
	ps.Spawn(10, 20, 2, -1, color.RGBA{}, 1.02, 100)

	ps.Update()
	p := ps.Particles()[0]
	if p.X != 12 || p.Y != 19 {
		t.Errorf("Expected position (12, 19), got (%v, %v)", p.X, p.Y)
	}
	if !approx(p.VY, -1+0.06) {
		t.Errorf("Expected vy %v, got %v", -1+0.06, p.VY)
	}
	if p.Size != 1 {
		t.Errorf("Expected size floored at 1, got %v", p.Size)
	}
	if p.Age != 1 || !approx(p.Fade(), 0.01) {
		t.Errorf("Expected age 1 fade 0.01, got %d %v", p.Age, p.Fade())
	}
}

func TestParticleBurst(t *testing.T) {
	ps := NewParticleSystem(0.6, rand.New(rand.NewSource(7)))
	ps.Burst(100, 100, 10, color.RGBA{255, 0, 0, 255}, 1, 3, 2, 5, 20, 30)

	if ps.Len() != 10 {
		t.Fatalf("Expected 10 particles, got %d", ps.Len())
	}
	for _, p := range ps.Particles() {
		if p.Size < 2 || p.Size >= 5 {
			t.Errorf("Size %v out of range", p.Size)
		}
		if p.Lifetime < 20 || p.Lifetime > 30 {
			t.Errorf("Lifetime %d out of range", p.Lifetime)
		}
		speed2 := p.VX*p.VX + p.VY*p.VY
		if speed2 < 1-eps || speed2 > 9+eps {
			t.Errorf("Speed^2 %v out of range", speed2)
		}
	}

	ps.Clear()
	if ps.Len() != 0 {
		t.Errorf("Expected empty after Clear, got %d", ps.Len())
	}
}
