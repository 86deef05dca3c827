package tui

import (
	"log"
	"time"

	"brawl/internal/config"
	"brawl/internal/game"

	"github.com/gdamore/tcell/v2"
)

// Phase is the current screen of the front end.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseSelect
	PhaseFight
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseSelect:
		return "select"
	case PhaseFight:
		return "fight"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Engine is the part of game.Engine the front end drives.
type Engine interface {
	StartMatch(p1, p2 game.Archetype) error
	SubmitInput(slot int, in game.Input) error
	GetSnapshot() (game.MatchSnapshot, bool)
	Roster() map[string]config.FighterStats
}

// App owns the terminal screen and turns key presses into engine input.
type App struct {
	screen   tcell.Screen
	engine   Engine
	keys     *HeldKeys
	bindings [2]Binding

	phase Phase
	sel   [2]int
	last  game.MatchSnapshot
}

// NewApp creates a front end on an initialized screen, starting at the
// title screen with fighter 1 on the first archetype and fighter 2 on the
// last.
func NewApp(screen tcell.Screen, engine Engine) *App {
	return &App{
		screen:   screen,
		engine:   engine,
		keys:     NewHeldKeys(DefaultKeyTimeout),
		bindings: DefaultBindings,
		sel:      [2]int{0, len(game.Archetypes) - 1},
	}
}

// Phase returns the current screen.
func (a *App) Phase() Phase { return a.phase }

// Selection returns the highlighted archetype of each fighter.
func (a *App) Selection() [2]game.Archetype {
	return [2]game.Archetype{game.Archetypes[a.sel[0]], game.Archetypes[a.sel[1]]}
}

// HandleEvent applies one terminal event. It returns true when the user
// asked to quit.
func (a *App) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		a.handleKey(ev, now)
	}
	return false
}

func (a *App) handleKey(ev *tcell.EventKey, now time.Time) {
	k := KeyOf(ev)
	enter := ev.Key() == tcell.KeyEnter

	switch a.phase {
	case PhaseMenu:
		if enter {
			a.phase = PhaseSelect
		}

	case PhaseSelect:
		n := len(game.Archetypes)
		switch k {
		case a.bindings[0].Left:
			a.sel[0] = (a.sel[0] + n - 1) % n
		case a.bindings[0].Right:
			a.sel[0] = (a.sel[0] + 1) % n
		case a.bindings[1].Left:
			a.sel[1] = (a.sel[1] + n - 1) % n
		case a.bindings[1].Right:
			a.sel[1] = (a.sel[1] + 1) % n
		}
		if enter {
			a.startFight()
		}

	case PhaseFight:
		a.keys.Press(k, now)

	case PhaseOver:
		if enter {
			a.keys.Clear()
			a.phase = PhaseSelect
		}
	}
}

func (a *App) startFight() {
	picks := a.Selection()
	if err := a.engine.StartMatch(picks[0], picks[1]); err != nil {
		log.Printf("❌ Failed to start match: %v", err)
		return
	}
	a.keys.Clear()
	a.phase = PhaseFight
}

// Frame submits held input while fighting and redraws the screen.
func (a *App) Frame(now time.Time) {
	if a.phase == PhaseFight {
		for slot, b := range a.bindings {
			if err := a.engine.SubmitInput(slot, a.keys.Input(b, now)); err != nil {
				log.Printf("⚠️ Input for fighter %d rejected: %v", slot+1, err)
			}
		}
		if snap, ok := a.engine.GetSnapshot(); ok {
			a.last = snap
			if snap.Over {
				a.release()
				a.phase = PhaseOver
			}
		}
	}
	a.draw()
}

// release drops every held key so nothing carries into the next match.
func (a *App) release() {
	a.keys.Clear()
	for slot := range a.bindings {
		a.engine.SubmitInput(slot, game.Input{})
	}
}

func (a *App) draw() {
	switch a.phase {
	case PhaseMenu:
		DrawMenu(a.screen)
	case PhaseSelect:
		DrawSelect(a.screen, a.engine.Roster(), a.sel)
	case PhaseFight, PhaseOver:
		DrawMatch(a.screen, &a.last)
	}
	a.screen.Show()
}

// Run polls terminal events and draws frameRate frames per second until
// the user quits.
func (a *App) Run(frameRate int) {
	if frameRate <= 0 {
		frameRate = 60
	}

	// Start input handling goroutine
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(frameRate))
	defer ticker.Stop()

	a.draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if a.HandleEvent(ev, time.Now()) {
				return
			}
		case now := <-ticker.C:
			a.Frame(now)
		}
	}
}
