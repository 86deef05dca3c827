package game

// Rect is an axis-aligned rectangle. (X, Y) is the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Overlaps reports whether r and o intersect. Edges that only touch do not
// count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}

// Hitbox returns the strike rectangle of f for the given reach: it starts at
// the leading edge, extends reach in the facing direction and spans the full
// body height.
// All checks are O(1).
func (f *Fighter) Hitbox(reach float64) Rect {
	x := f.X + f.W
	if !f.FacingRight {
		x = f.X - reach
	}
	return Rect{X: x, Y: f.Y, W: reach, H: f.H}
}

// live reports whether the current attack can still connect: only during the
// first half of the active window.
func (f *Fighter) live() bool {
	if !f.Attacking() {
		return false
	}
	return float64(f.Cooldowns.Get(TimerAttack)) > float64(f.AttackDuration)/2
}
