/*
combo.go - Combo streak state machine

PURPOSE:
  Tracks the consecutive-hit streak and its decaying countdown. Exposes
  the multiplicative streak bonus fed into the damage pipeline and fires
  milestone celebrations at fixed thresholds.

STATES:
  Idle    streak = 1, no timer running
  Active  streak >= 1, countdown running

  action:        Idle -> Active (streak stays 1 on the entering hit,
                 increments on every hit while Active), countdown
                 restarted to the effective duration
  timer elapses: Active -> Idle, streak back to 1, milestone marker
                 cleared so each unbroken streak fires a milestone at
                 most once

TIMER DISCIPLINE:
  Every restart stops the previous handle first, and every scheduled
  callback carries the generation it was created under. A stale callback
  that lost the Stop race sees a newer generation and does nothing.

SEE ALSO:
  - clock.go: Timer contract and why generations are needed
  - effects.go: ExtendTimer is driven by combo-extend power-ups
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BONUS TABLES
// =============================================================================

// comboMilestones are the celebration thresholds, ascending. Each grants a
// one-time resource injection per unbroken streak.
var comboMilestones = []int{10, 25, 50, 100, 250, 500, 1000}

// comboTiers are step bonuses added on top of the linear streak bonus.
var comboTiers = []struct {
	Threshold int
	Bonus     decimal.Decimal
}{
	{1000, dec(1.00)},
	{500, dec(0.50)},
	{250, dec(0.30)},
	{100, dec(0.20)},
	{50, dec(0.10)},
}

var (
	comboLinearStep = dec(0.01)
	comboLinearCap  = dec(2.0)
)

// ComboBonus is the streak bonus: zero below 10, then a linear 1% per hit
// past 10 capped at 200%, plus the tier step for the highest threshold
// reached.
func ComboBonus(streak int) decimal.Decimal {
	if streak < 10 {
		return decZero
	}
	linear := decInt(int64(streak - 10)).Mul(comboLinearStep)
	if linear.GreaterThan(comboLinearCap) {
		linear = comboLinearCap
	}
	for _, tier := range comboTiers {
		if streak >= tier.Threshold {
			return linear.Add(tier.Bonus)
		}
	}
	return linear
}

// MilestoneInjection is the one-time resource grant for reaching a
// milestone: power * milestone * (1 + milestone/100).
func MilestoneInjection(power decimal.Decimal, milestone int) decimal.Decimal {
	m := decInt(int64(milestone))
	return power.Mul(m).Mul(decOne.Add(m.Div(decInt(100))))
}

// =============================================================================
// COMBO STATE MACHINE
// =============================================================================

type Combo struct {
	clock Clock
	run   func(func()) // serializes timer callbacks with the engine

	streak        int
	lastMilestone int
	expiresAt     time.Time
	timer         Timer
	gen           uint64

	onReset func() // invoked inside run after a timeout reset
}

func NewCombo(clock Clock, run func(func())) *Combo {
	if run == nil {
		run = func(fn func()) { fn() }
	}
	return &Combo{clock: clock, run: run, streak: 1}
}

// SetResetHook registers a callback fired when the countdown elapses and
// the streak drops back to 1.
func (c *Combo) SetResetHook(fn func()) { c.onReset = fn }

// Streak returns the current streak (1 when idle).
func (c *Combo) Streak() int { return c.streak }

// Active reports whether the countdown is running.
func (c *Combo) Active() bool { return c.timer != nil }

// LastMilestone returns the highest milestone fired in the current streak.
func (c *Combo) LastMilestone() int { return c.lastMilestone }

// Remaining is the time left on the countdown, zero when idle.
func (c *Combo) Remaining() time.Duration {
	if c.timer == nil {
		return 0
	}
	if r := c.expiresAt.Sub(c.clock.Now()); r > 0 {
		return r
	}
	return 0
}

// RegisterHit processes one action: advances the streak, restarts the
// countdown to duration, and returns the new streak plus the milestone
// fired by this hit (0 if none). The duration is recomputed by the caller
// on every hit so upgrades and effects apply immediately.
func (c *Combo) RegisterHit(duration time.Duration) (streak, milestone int) {
	if c.timer != nil {
		c.timer.Stop()
		c.streak++
	}
	c.reschedule(duration)

	for _, m := range comboMilestones {
		if m > c.lastMilestone && m <= c.streak {
			c.lastMilestone = m
			milestone = m
			break
		}
	}
	return c.streak, milestone
}

// ExtendTimer adds time to a live countdown without touching the streak.
// No-op when idle: there is nothing to extend.
func (c *Combo) ExtendTimer(extra time.Duration) {
	if c.timer == nil {
		return
	}
	c.timer.Stop()
	remaining := c.expiresAt.Sub(c.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	c.reschedule(remaining + extra)
}

// Reset forces the machine back to Idle, cancelling any countdown.
func (c *Combo) Reset() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.streak = 1
	c.lastMilestone = 0
}

func (c *Combo) reschedule(d time.Duration) {
	c.gen++
	gen := c.gen
	c.expiresAt = c.clock.Now().Add(d)
	c.timer = c.clock.AfterFunc(d, func() {
		c.run(func() { c.expire(gen) })
	})
}

// expire is the countdown callback. A stale generation means a newer hit
// already rescheduled; the state has moved on and this fire is ignored.
func (c *Combo) expire(gen uint64) {
	if gen != c.gen {
		return
	}
	c.timer = nil
	c.gen++
	c.streak = 1
	c.lastMilestone = 0
	if c.onReset != nil {
		c.onReset()
	}
}
