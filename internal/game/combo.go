package game

// ComboTracker counts consecutive connected hits. The window itself lives
// in the owner's CooldownBank under TimerCombo, so all timers tick together.
// All timers use tick-based counting for deterministic replay.
type ComboTracker struct {
	Count  int
	window int
	bank   *CooldownBank
}

func newComboTracker(bank *CooldownBank, window int) ComboTracker {
	return ComboTracker{bank: bank, window: window}
}

// Multiplier returns the damage scale for the next hit: 1 + Count*step.
func (c *ComboTracker) Multiplier(step float64) float64 {
	if c.Count <= 0 {
		return 1
	}
	return 1 + float64(c.Count)*step
}

// RegisterHit records a connected hit and refreshes the window.
func (c *ComboTracker) RegisterHit() {
	c.Count++
	c.bank.Start(TimerCombo, c.window)
}

// Expire is called when TimerCombo runs out.
func (c *ComboTracker) Expire() {
	c.Count = 0
}

// Remaining returns the ticks left in the combo window.
func (c *ComboTracker) Remaining() int {
	return c.bank.Get(TimerCombo)
}
