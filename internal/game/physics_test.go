package game

import (
	"testing"

	"brawl/internal/config"
)

func TestBodyIntegrate(t *testing.T) {
	arena := config.DefaultArena()

	tests := []struct {
		name       string
		body       Body
		wantLanded bool
		wantX      float64
		wantBottom float64
		airborne   bool
	}{
		{
			name:       "resting on floor",
			body:       Body{X: 100, Y: 420, W: 40, H: 80},
			wantX:      100,
			wantBottom: 500,
		},
		{
			name:       "falling through floor lands",
			body:       Body{X: 100, Y: 415, W: 40, H: 80, VY: 10, Airborne: true},
			wantLanded: true,
			wantX:      100,
			wantBottom: 500,
		},
		{
			name:       "rising stays airborne",
			body:       Body{X: 100, Y: 300, W: 40, H: 80, VY: -12, Airborne: true},
			wantX:      100,
			wantBottom: 300 - 11.4 + 80,
			airborne:   true,
		},
		{
			name:       "clamped at left wall",
			body:       Body{X: 2, Y: 420, W: 40, H: 80, VX: -5},
			wantX:      0,
			wantBottom: 500,
		},
		{
			name:       "clamped at right wall",
			body:       Body{X: 758, Y: 420, W: 40, H: 80, VX: 5},
			wantX:      760,
			wantBottom: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.body
			landed := b.Integrate(arena)
			if landed != tt.wantLanded {
				t.Errorf("Expected landed=%v, got %v", tt.wantLanded, landed)
			}
			if b.X != tt.wantX {
				t.Errorf("Expected x %v, got %v", tt.wantX, b.X)
			}
			if !approx(b.Y+b.H, tt.wantBottom) {
				t.Errorf("Expected bottom %v, got %v", tt.wantBottom, b.Y+b.H)
			}
			if b.Airborne != tt.airborne {
				t.Errorf("Expected airborne=%v, got %v", tt.airborne, b.Airborne)
			}
			if !tt.airborne && b.VY != 0 {
				t.Errorf("Expected vy zeroed on the floor, got %v", b.VY)
			}
		})
	}
}

func TestRectOverlaps(t *testing.T) {
	base := Rect{X: 0, Y: 0, W: 10, H: 10}

	tests := []struct {
		name string
		o    Rect
		want bool
	}{
		{"inside", Rect{2, 2, 2, 2}, true},
		{"partial", Rect{5, 5, 10, 10}, true},
		{"touching right edge", Rect{10, 0, 5, 10}, false},
		{"touching bottom edge", Rect{0, 10, 10, 5}, false},
		{"touching left edge", Rect{-5, 0, 5, 10}, false},
		{"apart", Rect{20, 20, 5, 5}, false},
		{"overlap by a sliver", Rect{9.999, 0, 5, 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.o); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if got := tt.o.Overlaps(base); got != tt.want {
				t.Errorf("Expected symmetric %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHitboxFacing(t *testing.T) {
	f := &Fighter{Body: Body{X: 100, Y: 400, W: 40, H: 80}, FacingRight: true}

	if got := f.Hitbox(50); got != (Rect{X: 140, Y: 400, W: 50, H: 80}) {
		t.Errorf("Unexpected right hitbox %+v", got)
	}
	f.FacingRight = false
	if got := f.Hitbox(50); got != (Rect{X: 50, Y: 400, W: 50, H: 80}) {
		t.Errorf("Unexpected left hitbox %+v", got)
	}
}
