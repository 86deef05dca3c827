package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"brawl/internal/game"
)

func testSnapshot(t *testing.T) *game.MatchSnapshot {
	t.Helper()
	m, err := game.NewMatch(game.Shadow, game.Stone, game.MatchOptions{Seed: 3})
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}
	var snap game.MatchSnapshot
	m.Capture(&snap, 128)
	return &snap
}

func TestRenderDrawsFighters(t *testing.T) {
	snap := testSnapshot(t)
	r := NewRenderer(int(snap.Arena.Width), int(snap.Arena.Height))

	img := r.Render(snap)
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("Expected 800x600 frame, got %v", b)
	}

	for _, f := range snap.Fighters {
		// Lower body, clear of the eye and HUD
		x, y := int(f.X+f.W/2), int(f.Y+f.H*0.8)
		got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
		if got != f.RGBA {
			t.Errorf("Expected %s body color %v at (%d,%d), got %v", f.Name, f.RGBA, x, y, got)
		}
	}

	// Below the floor is ground
	got := color.RGBAModel.Convert(img.At(400, 580)).(color.RGBA)
	if got != colorGround {
		t.Errorf("Expected ground color, got %v", got)
	}
}

func TestRenderReturnsCopy(t *testing.T) {
	snap := testSnapshot(t)
	r := NewRenderer(800, 600)

	first := r.Render(snap)
	before := color.RGBAModel.Convert(first.At(400, 300)).(color.RGBA)

	snap.Fighters[0].X = 370
	snap.Fighters[0].Y = 250
	r.Render(snap)

	after := color.RGBAModel.Convert(first.At(400, 300)).(color.RGBA)
	if before != after {
		t.Error("Expected earlier frame to be unaffected by later renders")
	}
}

func TestEncodePNG(t *testing.T) {
	snap := testSnapshot(t)
	snap.Over = true
	snap.Winner = 0
	r := NewRenderer(800, 600)

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf, snap); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Expected valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 800 {
		t.Errorf("Expected width 800, got %d", img.Bounds().Dx())
	}
}

func TestBarFill(t *testing.T) {
	tests := []struct {
		name     string
		hp, max  float64
		expected float64
	}{
		{"full", 100, 100, 1},
		{"half", 50, 100, 0.5},
		{"negative", -10, 100, 0},
		{"no max", 10, 0, 0},
	}
	for _, tt := range tests {
		if got := ratio(tt.hp, tt.max); got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}

	if hpColor(80, 100) == hpColor(10, 100) {
		t.Error("Expected low HP to change bar color")
	}
}
