/*
helpers_test.go - Shared test infrastructure for the engine package

PURPOSE:
  A hand-driven clock, deterministic RNGs, and a recording event sink.
  Nothing in these tests sleeps: time moves only when Advance is called,
  and every timer fires synchronously on the test goroutine in deadline
  order.
*/
package engine_test

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aikazu/chpun/config"
	"github.com/aikazu/chpun/engine"
)

// =============================================================================
// MANUAL CLOCK
// =============================================================================

type manualClock struct {
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) AfterFunc(d time.Duration, fn func()) engine.Timer {
	t := &manualTimer{at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward, firing due timers in deadline order.
// A firing callback may schedule new timers; those fire too if they fall
// inside the window.
func (c *manualClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.fn()
	}
	c.now = target
}

func (c *manualClock) nextDue(target time.Time) *manualTimer {
	pending := make([]*manualTimer, 0, len(c.timers))
	for _, t := range c.timers {
		if !t.fired && !t.stopped && !t.at.After(target) {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].at.Before(pending[j].at) })
	return pending[0]
}

// =============================================================================
// DETERMINISTIC RNG
// =============================================================================

// fixedRNG returns the same draw forever.
type fixedRNG float64

func (r fixedRNG) Float64() float64 { return float64(r) }

// seqRNG returns a fixed sequence, then repeats its last element.
type seqRNG struct {
	draws []float64
	i     int
}

func (r *seqRNG) Float64() float64 {
	if r.i < len(r.draws)-1 {
		v := r.draws[r.i]
		r.i++
		return v
	}
	return r.draws[len(r.draws)-1]
}

// =============================================================================
// RECORDING SINK
// =============================================================================

type recordingSink struct {
	notifications []string
	unlocked      []engine.AchievementID
	milestones    []int
}

func (s *recordingSink) Notify(msg string) { s.notifications = append(s.notifications, msg) }
func (s *recordingSink) ComboUpdate(int, decimal.Decimal, time.Duration) {}
func (s *recordingSink) Milestone(streak int, _ decimal.Decimal) {
	s.milestones = append(s.milestones, streak)
}
func (s *recordingSink) AchievementUnlocked(id engine.AchievementID) {
	s.unlocked = append(s.unlocked, id)
}

// =============================================================================
// FIXTURES
// =============================================================================

func testConfig() config.Balance {
	return config.Default()
}

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }
func di(n int64) decimal.Decimal  { return decimal.NewFromInt(n) }

func newTestLedger(clock engine.Clock) *engine.Ledger {
	return engine.NewLedger(testConfig(), clock)
}
