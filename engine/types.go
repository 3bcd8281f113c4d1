/*
Package engine implements the progression and effects core of the game:
resource ledger, damage pipeline, combo state machine, power-up effects
registry, and achievement registry.

PURPOSE (types.go):
  Shared types used across the engine: decimal helpers, permanent
  achievement bonuses, the statistics snapshot evaluated by achievement
  predicates, and the outbound presentation sink.

DESIGN PRINCIPLES:
  1. Exactness: All economy arithmetic uses decimal.Decimal. The damage
     of one base punch is exactly 1, not 0.9999999.
  2. Single writer: The Engine serializes every mutation; the types here
     carry no locking of their own.
  3. Explicit composition: Bonuses are additive accumulators applied at
     read time, never folded into base stats.

SEE ALSO:
  - ledger.go: Owns the economy scalars
  - engine.go: The serializing context
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var (
	decZero = decimal.Zero
	decOne  = decimal.NewFromInt(1)
)

func dec(f float64) decimal.Decimal  { return decimal.NewFromFloat(f) }
func decInt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// clampDec bounds v into [lo, hi].
func clampDec(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type AchievementID string

// =============================================================================
// BONUSES - Permanent additive accumulators
// =============================================================================

// Bonuses holds the permanent additive rewards granted by achievements.
// Each field is written at most once per achievement and survives prestige.
type Bonuses struct {
	CritChanceAdd       decimal.Decimal
	CritMultiplierAdd   decimal.Decimal
	ComboDurationAddMs  int64
	AutoRateAdd         decimal.Decimal
	PrestigeExponentAdd decimal.Decimal
	PowerEfficiencyAdd  decimal.Decimal
}

// add accumulates a reward into the bonuses. Only non-zero fields move.
func (b *Bonuses) add(r Reward) {
	b.CritChanceAdd = b.CritChanceAdd.Add(r.CritChanceAdd)
	b.CritMultiplierAdd = b.CritMultiplierAdd.Add(r.CritMultiplierAdd)
	b.ComboDurationAddMs += r.ComboDurationAddMs
	b.AutoRateAdd = b.AutoRateAdd.Add(r.AutoRateAdd)
	b.PrestigeExponentAdd = b.PrestigeExponentAdd.Add(r.PrestigeExponentAdd)
	b.PowerEfficiencyAdd = b.PowerEfficiencyAdd.Add(r.PowerEfficiencyAdd)
}

// =============================================================================
// HIT - Result of one trip through the damage pipeline
// =============================================================================

type Hit struct {
	Amount decimal.Decimal
	IsCrit bool
}

// =============================================================================
// STATS - Snapshot evaluated by achievement predicates
// =============================================================================

// Stats is a read-only view of ledger and combo statistics, captured once
// per achievement sweep so every predicate sees the same numbers.
type Stats struct {
	TotalActions   int64
	Resource       decimal.Decimal
	Power          decimal.Decimal
	CritChance     decimal.Decimal
	AutoUnits      int
	PrestigePoints int
	BestStreak     int
	RecentActions  int
	UnlockedCount  int
}

// =============================================================================
// SINK - Outbound presentation events (fire-and-forget)
// =============================================================================

// Sink receives presentation events. Implementations must not call back
// into the engine; events are informational only.
type Sink interface {
	Notify(message string)
	ComboUpdate(streak int, bonus decimal.Decimal, remaining time.Duration)
	Milestone(streak int, bonus decimal.Decimal)
	AchievementUnlocked(id AchievementID)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Notify(string)                                   {}
func (NopSink) ComboUpdate(int, decimal.Decimal, time.Duration) {}
func (NopSink) Milestone(int, decimal.Decimal)                  {}
func (NopSink) AchievementUnlocked(AchievementID)               {}
