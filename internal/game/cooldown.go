package game

// Timer names one countdown in a CooldownBank.
type Timer uint8

const (
	TimerAttack   Timer = iota // Attack/special active window + recovery
	TimerSpecial               // Special ability cooldown
	TimerHit                   // Hit invulnerability (and hit-stun)
	TimerCombo                 // Combo window
	TimerDash                  // Shadow dash
	TimerFireball              // Flame fireball
	numTimers
)

func (t Timer) String() string {
	switch t {
	case TimerAttack:
		return "attack"
	case TimerSpecial:
		return "special"
	case TimerHit:
		return "hit"
	case TimerCombo:
		return "combo"
	case TimerDash:
		return "dash"
	case TimerFireball:
		return "fireball"
	default:
		return "unknown"
	}
}

// CooldownBank is a fixed set of tick-counted timers. Values never go below
// zero. Each timer remembers the length it was last started with so callers
// can draw it as a ratio.
type CooldownBank struct {
	remaining [numTimers]int
	length    [numTimers]int
}

// Start sets a timer to ticks.
func (c *CooldownBank) Start(t Timer, ticks int) {
	if ticks < 0 {
		ticks = 0
	}
	c.remaining[t] = ticks
	c.length[t] = ticks
}

// Get returns the ticks left on a timer.
func (c *CooldownBank) Get(t Timer) int {
	return c.remaining[t]
}

// Ready reports whether a timer is at zero.
func (c *CooldownBank) Ready(t Timer) bool {
	return c.remaining[t] == 0
}

// Ratio returns remaining/length in [0, 1].
func (c *CooldownBank) Ratio(t Timer) float64 {
	if c.length[t] == 0 {
		return 0
	}
	return float64(c.remaining[t]) / float64(c.length[t])
}

// Expired is a bit set of timers that reached zero during a Tick.
type Expired uint8

// Has reports whether t expired.
func (e Expired) Has(t Timer) bool {
	return e&(1<<t) != 0
}

// Tick decrements every running timer and returns the ones that just
// reached zero.
func (c *CooldownBank) Tick() Expired {
	var expired Expired
	for t := Timer(0); t < numTimers; t++ {
		if c.remaining[t] > 0 {
			c.remaining[t]--
			if c.remaining[t] == 0 {
				expired |= 1 << t
			}
		}
	}
	return expired
}

// Reset zeroes every timer.
func (c *CooldownBank) Reset() {
	*c = CooldownBank{}
}
