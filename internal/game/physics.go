package game

import "brawl/internal/config"

// Body is a fighter's axis-aligned box and its motion.
// (X, Y) is the top-left corner; Y grows downward.
type Body struct {
	X, Y     float64
	W, H     float64
	VX, VY   float64
	Airborne bool
}

// Integrate advances the body by one tick: gravity, velocity, then floor and
// side clamping. It reports whether the body landed during this tick.
func (b *Body) Integrate(arena config.ArenaConfig) (landed bool) {
	b.VY += arena.Gravity
	b.X += b.VX
	b.Y += b.VY

	if b.Y+b.H > arena.Floor {
		b.Y = arena.Floor - b.H
		b.VY = 0
		landed = b.Airborne
		b.Airborne = false
	}

	b.ClampX(arena.Width)
	return landed
}

// ClampX keeps the body inside [0, width-W].
func (b *Body) ClampX(width float64) {
	if b.X < 0 {
		b.X = 0
	}
	if b.X+b.W > width {
		b.X = width - b.W
	}
}

// CenterX returns the horizontal center.
func (b *Body) CenterX() float64 { return b.X + b.W/2 }

// CenterY returns the vertical center.
func (b *Body) CenterY() float64 { return b.Y + b.H/2 }

// Rect returns the bounding rectangle.
func (b *Body) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
}
