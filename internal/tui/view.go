package tui

import (
	"fmt"
	"image/color"
	"math"

	"brawl/internal/config"
	"brawl/internal/game"

	"github.com/gdamore/tcell/v2"
)

// hudRows are the terminal rows above the arena.
const hudRows = 2

const (
	runeBody     = '█'
	runeEye      = '●'
	runeArm      = '━'
	runeShield   = '┃'
	runeBarFull  = '█'
	runeBarEmpty = '░'
)

var (
	styleText    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(235, 235, 240))
	styleTitle   = styleText.Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.NewRGBColor(130, 130, 140))
	colorSky     = tcell.NewRGBColor(24, 26, 40)
	colorGround  = tcell.NewRGBColor(58, 52, 46)
	colorSpecial = tcell.NewRGBColor(0, 212, 255)
	colorMeter   = tcell.NewRGBColor(255, 200, 40)
	colorLocked  = tcell.NewRGBColor(255, 62, 62)
	colorShield  = tcell.NewRGBColor(200, 220, 255)
)

// viewport maps arena units onto terminal cells below the HUD.
type viewport struct {
	sx, sy float64
	width  int
	height int
}

func newViewport(a game.ArenaSnapshot, w, h int) viewport {
	v := viewport{width: w, height: h}
	if a.Width > 0 {
		v.sx = float64(w) / a.Width
	}
	if a.Height > 0 && h > hudRows {
		v.sy = float64(h-hudRows) / a.Height
	}
	return v
}

func (v viewport) col(x float64) int { return int(math.Floor(x * v.sx)) }
func (v viewport) row(y float64) int { return hudRows + int(math.Floor(y*v.sy)) }

// span converts [from, to) arena units into at least one cell.
func span(from, to int) (int, int) {
	if to <= from {
		to = from + 1
	}
	return from, to
}

func (v viewport) inArena(x, y int) bool {
	return x >= 0 && x < v.width && y >= hudRows && y < v.height
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// bodyColor keeps near-black fighters visible on the dark sky.
func bodyColor(c color.RGBA) tcell.Color {
	if int(c.R)+int(c.G)+int(c.B) < 120 {
		return tcell.NewRGBColor(90, 90, 104)
	}
	return tcellColor(c)
}

// DrawMatch draws the arena, both fighters, their particles and the HUD.
func DrawMatch(s tcell.Screen, snap *game.MatchSnapshot) {
	w, h := s.Size()
	s.Clear()
	v := newViewport(snap.Arena, w, h)

	drawBackground(s, v, snap.Arena)
	for _, p := range snap.Particles {
		drawParticle(s, v, p)
	}
	for _, f := range snap.Fighters {
		drawFighter(s, v, f)
	}
	drawHUD(s, snap, w)

	if snap.Over && snap.Winner >= 0 && snap.Winner < 2 {
		mid := h / 2
		drawCentered(s, mid, w, fmt.Sprintf(" %s WINS ", snap.Fighters[snap.Winner].Name), styleTitle.Background(tcell.ColorBlack))
		drawCentered(s, mid+1, w, " RETURN: character select   ESC: quit ", styleDim.Background(tcell.ColorBlack))
	}
}

func drawBackground(s tcell.Screen, v viewport, a game.ArenaSnapshot) {
	floorRow := v.row(a.Floor)
	for y := hudRows; y < v.height; y++ {
		bg := colorSky
		if y >= floorRow {
			bg = colorGround
		}
		st := tcell.StyleDefault.Background(bg)
		for x := 0; x < v.width; x++ {
			s.SetContent(x, y, ' ', nil, st)
		}
	}
}

func drawParticle(s tcell.Screen, v viewport, p game.ParticleSnapshot) {
	if p.Alpha <= 0 {
		return
	}
	x, y := v.col(p.X), v.row(p.Y)
	if !v.inArena(x, y) {
		return
	}
	r := '·'
	if p.Size >= 4 && p.Alpha > 0.5 {
		r = '*'
	}
	_, _, st, _ := s.GetContent(x, y)
	_, bg, _ := st.Decompose()
	s.SetContent(x, y, r, nil, tcell.StyleDefault.Foreground(tcellColor(p.RGBA)).Background(bg))
}

func drawFighter(s tcell.Screen, v viewport, f game.FighterSnapshot) {
	body := bodyColor(f.RGBA)
	if f.State == game.StateHit {
		body = tcell.ColorWhite
	}
	st := tcell.StyleDefault.Foreground(body).Background(body)

	x0, x1 := span(v.col(f.X), v.col(f.X+f.W))
	y0, y1 := span(v.row(f.Y), v.row(f.Y+f.H))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if v.inArena(x, y) {
				s.SetContent(x, y, runeBody, nil, st)
			}
		}
	}

	eyeX := x0
	if f.FacingRight {
		eyeX = x1 - 1
	}
	if v.inArena(eyeX, y0) {
		s.SetContent(eyeX, y0, runeEye, nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(body))
	}

	armY := v.row(f.Y + f.H*0.3)
	switch f.State {
	case game.StateAttack, game.StateSpecial:
		reach := 50.0
		if f.State == game.StateSpecial {
			reach = 80
		}
		ax0, ax1 := v.col(f.X+f.W), v.col(f.X+f.W+reach)
		if !f.FacingRight {
			ax0, ax1 = v.col(f.X-reach), v.col(f.X)
		}
		ax0, ax1 = span(ax0, ax1)
		drawRun(s, v, ax0, ax1, armY, runeArm, tcell.StyleDefault.Foreground(tcellColor(f.RGBA)))
	case game.StateBlock:
		x := x1
		if !f.FacingRight {
			x = x0 - 1
		}
		for y := y0; y < y1; y++ {
			drawRun(s, v, x, x+1, y, runeShield, tcell.StyleDefault.Foreground(colorShield))
		}
	}

	if f.Combo > 1 {
		label := fmt.Sprintf("%d HIT", f.Combo)
		drawText(s, x0, y0-1, label, tcell.StyleDefault.Foreground(colorMeter).Background(colorSky))
	}
}

// drawRun draws r over [x0, x1) on row y, keeping the background.
func drawRun(s tcell.Screen, v viewport, x0, x1, y int, r rune, st tcell.Style) {
	for x := x0; x < x1; x++ {
		if !v.inArena(x, y) {
			continue
		}
		_, _, cur, _ := s.GetContent(x, y)
		_, bg, _ := cur.Decompose()
		s.SetContent(x, y, r, nil, st.Background(bg))
	}
}

func drawHUD(s tcell.Screen, snap *game.MatchSnapshot, w int) {
	barW := w/2 - 24
	if barW > 30 {
		barW = 30
	}
	if barW < 4 {
		barW = 4
	}

	for i, f := range snap.Fighters {
		mirrored := i == 1
		label := fmt.Sprintf("%-12s %3.0f", f.Name, f.HP)
		meterLabel := "SPC"
		if f.ResourceMax > 0 {
			meterLabel = "SPC/RES"
		}

		x := 1
		if mirrored {
			label = fmt.Sprintf("%3.0f %12s", f.HP, f.Name)
			x = w - 1 - barW - 1 - len([]rune(label))
		}

		hp := tcell.StyleDefault.Foreground(hpColor(f.HP, f.MaxHP))
		special := tcell.StyleDefault.Foreground(colorSpecial)
		res := tcell.StyleDefault.Foreground(colorMeter)
		if f.Locked {
			res = res.Foreground(colorLocked)
		}

		if !mirrored {
			drawText(s, x, 0, label, styleText)
			drawBar(s, x+len([]rune(label))+1, 0, barW, ratio(f.HP, f.MaxHP), hp, false)
			drawText(s, x, 1, meterLabel, styleDim)
			half := barW / 2
			drawBar(s, x+len([]rune(label))+1, 1, half, 1-f.Cooldowns.Special, special, false)
			if f.ResourceMax > 0 {
				drawBar(s, x+len([]rune(label))+2+half, 1, barW-half-1, f.ResourceRatio, res, false)
			}
			continue
		}

		drawBar(s, x, 0, barW, ratio(f.HP, f.MaxHP), hp, true)
		drawText(s, x+barW+1, 0, label, styleText)
		half := barW / 2
		if f.ResourceMax > 0 {
			drawBar(s, x, 1, barW-half-1, f.ResourceRatio, res, true)
		}
		drawBar(s, x+barW-half, 1, half, 1-f.Cooldowns.Special, special, true)
		drawText(s, w-1-len(meterLabel), 1, meterLabel, styleDim)
	}
}

// drawBar draws a meter of width cells. Mirrored bars drain toward the
// right edge.
func drawBar(s tcell.Screen, x, y, width int, fill float64, st tcell.Style, mirrored bool) {
	filled := int(math.Round(clamp01(fill) * float64(width)))
	for i := 0; i < width; i++ {
		full := i < filled
		if mirrored {
			full = i >= width-filled
		}
		r, cs := runeBarEmpty, styleDim
		if full {
			r, cs = runeBarFull, st
		}
		s.SetContent(x+i, y, r, nil, cs)
	}
}

func hpColor(hp, max float64) tcell.Color {
	r := ratio(hp, max)
	switch {
	case r > 0.6:
		return tcell.NewRGBColor(83, 255, 69)
	case r > 0.3:
		return tcell.NewRGBColor(255, 149, 0)
	default:
		return tcell.NewRGBColor(255, 62, 62)
	}
}

func ratio(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return clamp01(v / max)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}

func drawCentered(s tcell.Screen, y, w int, text string, st tcell.Style) {
	x := (w - len([]rune(text))) / 2
	if x < 0 {
		x = 0
	}
	drawText(s, x, y, text, st)
}

// DrawMenu draws the title screen.
func DrawMenu(s tcell.Screen) {
	w, h := s.Size()
	s.Clear()
	mid := h / 2
	drawCentered(s, mid-3, w, "B R A W L", styleTitle)
	drawCentered(s, mid-1, w, "Fighter 1: A/D move  W jump  S dash  C block  F attack  G special", styleText)
	drawCentered(s, mid, w, "Fighter 2: arrows move/jump/dash  L block  K attack  J special", styleText)
	drawCentered(s, mid+2, w, "RETURN to choose fighters   ESC to quit", styleDim)
}

// DrawSelect draws the character select screen with the current picks.
func DrawSelect(s tcell.Screen, roster map[string]config.FighterStats, sel [2]int) {
	w, h := s.Size()
	s.Clear()
	drawCentered(s, 1, w, "CHOOSE YOUR FIGHTER", styleTitle)

	colW := w / 2
	for slot := 0; slot < 2; slot++ {
		x := 2 + slot*colW
		heading := "FIGHTER 1  (A/D)"
		if slot == 1 {
			heading = "FIGHTER 2  (LEFT/RIGHT)"
		}
		drawText(s, x, 3, heading, styleText)

		for i, a := range game.Archetypes {
			y := 5 + i*2
			if y >= h-2 {
				break
			}
			stats := roster[a.String()]
			st := tcell.StyleDefault.Foreground(bodyColor(a.BaseColor()))
			marker := "  "
			if sel[slot] == i {
				marker = "> "
				st = st.Bold(true).Reverse(true)
			}
			drawText(s, x, y, marker, styleText)
			drawText(s, x+2, y, stats.Name, st)
			drawText(s, x+2, y+1, fmt.Sprintf("HP %.0f  SPD %.1f  DMG %.0f", stats.HP, stats.Speed, stats.AttackDamage), styleDim)
		}
	}

	drawCentered(s, h-2, w, "RETURN to fight   ESC to quit", styleDim)
}
