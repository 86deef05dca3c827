package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"brawl/internal/game"
)

// Layout of the HUD, in arena pixels.
const (
	hudMargin     = 20.0
	hpBarWidth    = 300.0
	hpBarHeight   = 20.0
	meterHeight   = 6.0
	meterGap      = 4.0
	particleAlpha = 255.0
)

var (
	colorSky      = color.RGBA{24, 26, 40, 255}
	colorGround   = color.RGBA{58, 52, 46, 255}
	colorFloor    = color.RGBA{120, 110, 96, 255}
	colorBarBack  = color.RGBA{51, 51, 51, 255}
	colorSpecial  = color.RGBA{0, 212, 255, 255}
	colorResource = color.RGBA{255, 200, 40, 255}
	colorLocked   = color.RGBA{255, 62, 62, 255}
	colorBlock    = color.RGBA{200, 220, 255, 160}
	colorText     = color.RGBA{235, 235, 240, 255}
)

// Renderer rasterizes match snapshots. The drawing context is reused
// between frames, so Render is serialized.
type Renderer struct {
	mu          sync.Mutex
	dc          *gg.Context
	width       int
	height      int
	fontsLoaded bool
}

// NewRenderer creates a renderer for an arena of the given size.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{
		dc:     gg.NewContext(width, height),
		width:  width,
		height: height,
	}
	r.loadFont()
	return r
}

// loadFont uses a system TrueType font when one exists and the built-in
// bitmap face otherwise.
func (r *Renderer) loadFont() {
	if path := fontPath(); path != "" {
		err := r.dc.LoadFontFace(path, 16)
		if err == nil {
			r.fontsLoaded = true
			log.Printf("✅ HUD font loaded from: %s", path)
			return
		}
		log.Printf("⚠️ Failed to load font %s: %v", path, err)
	}
	r.dc.SetFontFace(basicfont.Face7x13)
}

// Size returns the frame dimensions.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Render draws snap and returns a copy of the frame.
func (r *Renderer) Render(snap *game.MatchSnapshot) image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draw(snap)

	src := r.dc.Image().(*image.RGBA)
	out := image.NewRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

// EncodePNG draws snap and writes it to w as PNG.
func (r *Renderer) EncodePNG(w io.Writer, snap *game.MatchSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draw(snap)
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

func (r *Renderer) draw(snap *game.MatchSnapshot) {
	dc := r.dc
	r.drawBackground(dc, snap.Arena)

	for _, f := range snap.Fighters {
		r.drawFighter(dc, f)
	}
	r.drawParticles(dc, snap.Particles)
	r.drawHUD(dc, snap)
}

func (r *Renderer) drawBackground(dc *gg.Context, a game.ArenaSnapshot) {
	dc.SetColor(colorSky)
	dc.Clear()

	dc.SetColor(colorGround)
	dc.DrawRectangle(0, a.Floor, float64(r.width), float64(r.height)-a.Floor)
	dc.Fill()

	dc.SetColor(colorFloor)
	dc.SetLineWidth(2)
	dc.DrawLine(0, a.Floor, float64(r.width), a.Floor)
	dc.Stroke()
}

func (r *Renderer) drawFighter(dc *gg.Context, f game.FighterSnapshot) {
	// Shadow
	dc.SetColor(color.RGBA{0, 0, 0, 90})
	dc.DrawEllipse(f.X+f.W/2, f.Y+f.H, f.W/2, 4)
	dc.Fill()

	body := f.RGBA
	if f.State == game.StateHit {
		body = color.RGBA{255, 255, 255, 255}
	}
	dc.SetColor(body)
	dc.DrawRectangle(f.X, f.Y, f.W, f.H)
	dc.Fill()

	// Eye marks the facing side
	eyeX := f.X + f.W*0.25
	if f.FacingRight {
		eyeX = f.X + f.W*0.75
	}
	dc.SetColor(color.White)
	dc.DrawCircle(eyeX, f.Y+f.H*0.2, 4)
	dc.Fill()

	switch f.State {
	case game.StateAttack, game.StateSpecial:
		reach := 50.0
		if f.State == game.StateSpecial {
			reach = 80
		}
		armX := f.X + f.W
		if !f.FacingRight {
			armX = f.X - reach
		}
		dc.SetColor(f.RGBA)
		dc.DrawRectangle(armX, f.Y+f.H*0.3, reach, 12)
		dc.Fill()
	case game.StateBlock:
		dc.SetColor(colorBlock)
		dc.SetLineWidth(4)
		shieldX := f.X + f.W + 6
		if !f.FacingRight {
			shieldX = f.X - 6
		}
		dc.DrawLine(shieldX, f.Y+10, shieldX, f.Y+f.H-10)
		dc.Stroke()
	}

	if f.Combo > 1 {
		dc.SetColor(colorResource)
		dc.DrawStringAnchored(fmt.Sprintf("%d HIT", f.Combo), f.X+f.W/2, f.Y-14, 0.5, 0.5)
	}
}

func (r *Renderer) drawParticles(dc *gg.Context, particles []game.ParticleSnapshot) {
	for _, p := range particles {
		a := p.Alpha
		if a <= 0 {
			continue
		}
		if a > 1 {
			a = 1
		}
		dc.SetRGBA255(int(p.RGBA.R), int(p.RGBA.G), int(p.RGBA.B), int(a*particleAlpha))
		dc.DrawCircle(p.X, p.Y, p.Size)
		dc.Fill()
	}
}

func (r *Renderer) drawHUD(dc *gg.Context, snap *game.MatchSnapshot) {
	for i, f := range snap.Fighters {
		x := hudMargin
		if i == 1 {
			x = float64(r.width) - hudMargin - hpBarWidth
		}
		y := hudMargin

		drawBar(dc, x, y, hpBarWidth, hpBarHeight, ratio(f.HP, f.MaxHP), hpColor(f.HP, f.MaxHP), i == 1)
		y += hpBarHeight + meterGap

		// Special cooldown fills back up as it recovers
		drawBar(dc, x, y, hpBarWidth, meterHeight, 1-f.Cooldowns.Special, colorSpecial, i == 1)
		y += meterHeight + meterGap

		if f.ResourceMax > 0 {
			c := colorResource
			if f.Locked {
				c = colorLocked
			}
			drawBar(dc, x, y, hpBarWidth, meterHeight, f.ResourceRatio, c, i == 1)
			y += meterHeight + meterGap
		}

		dc.SetColor(colorText)
		label := fmt.Sprintf("%s  %.0f/%.0f", f.Name, f.HP, f.MaxHP)
		ax := 0.0
		if i == 1 {
			ax = 1
			x += hpBarWidth
		}
		dc.DrawStringAnchored(label, x, y+10, ax, 0.5)
	}

	if snap.Over && snap.Winner >= 0 && snap.Winner < 2 {
		w := snap.Fighters[snap.Winner]
		dc.SetColor(color.RGBA{0, 0, 0, 160})
		dc.DrawRectangle(0, float64(r.height)/2-40, float64(r.width), 80)
		dc.Fill()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(fmt.Sprintf("%s WINS", w.Name), float64(r.width)/2, float64(r.height)/2, 0.5, 0.5)
	}
}

// drawBar draws a meter. Mirrored bars drain toward the right edge.
func drawBar(dc *gg.Context, x, y, w, h, fill float64, c color.Color, mirrored bool) {
	fill = clamp01(fill)

	dc.SetColor(colorBarBack)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()

	fx := x
	if mirrored {
		fx = x + w*(1-fill)
	}
	dc.SetColor(c)
	dc.DrawRectangle(fx, y, w*fill, h)
	dc.Fill()
}

func hpColor(hp, max float64) color.RGBA {
	pct := ratio(hp, max)
	switch {
	case pct > 0.5:
		return color.RGBA{83, 255, 69, 255}
	case pct > 0.25:
		return color.RGBA{255, 149, 0, 255}
	default:
		return color.RGBA{255, 62, 62, 255}
	}
}

func ratio(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return clamp01(v / max)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func fontPath() string {
	if p := os.Getenv("HUD_FONT"); p != "" {
		return p
	}
	paths := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/System/Library/Fonts/Supplemental/Arial.ttf",
		"C:\\Windows\\Fonts\\arial.ttf",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	matches, _ := filepath.Glob("*.ttf")
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}
