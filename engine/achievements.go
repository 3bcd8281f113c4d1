/*
achievements.go - Achievement registry

PURPOSE:
  Evaluates catalog predicates against ledger/combo statistics and
  performs the one-way locked -> unlocked transition. Each unlock applies
  its permanent bonus deltas exactly once, triggers a best-effort save,
  and surfaces a notification event.

TRIGGERS:
  Check()           the regular sweep over running statistics
  CheckMassiveHit() a second, independent trigger fired right after a
                    crit, for the single-hit damage threshold that no
                    running statistic captures

IDEMPOTENCE:
  Re-checking an unlocked id is a no-op. The unlocked set lives on the
  ledger (it persists and survives prestige); the registry only reads
  and transitions it.

SEE ALSO:
  - catalog/achievements.go: The standard catalog
  - ledger.go: stats() snapshot and applyReward
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATALOG ENTRY
// =============================================================================

// Reward is the permanent grant attached to an achievement. Zero-valued
// fields grant nothing; Text is the human-readable description.
type Reward struct {
	CritChanceAdd       decimal.Decimal
	CritMultiplierAdd   decimal.Decimal
	ComboDurationAddMs  int64
	AutoRateAdd         decimal.Decimal
	PrestigeExponentAdd decimal.Decimal
	PowerEfficiencyAdd  decimal.Decimal
	PrestigePoints      int
	Text                string
}

// Achievement is an immutable catalog entry. Exactly one of Check or
// MassiveHit drives it: statistic achievements carry a predicate, the
// damage-threshold achievement carries the threshold instead.
type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
	Hidden      bool
	Check       func(Stats) bool
	MassiveHit  decimal.Decimal
	Reward      Reward
}

// =============================================================================
// REGISTRY
// =============================================================================

type Achievements struct {
	catalog []Achievement
	ledger  *Ledger
	sink    Sink
	persist func() // best-effort save hook, may be nil
}

func NewAchievements(catalog []Achievement, ledger *Ledger, sink Sink, persist func()) *Achievements {
	if sink == nil {
		sink = NopSink{}
	}
	return &Achievements{catalog: catalog, ledger: ledger, sink: sink, persist: persist}
}

// Catalog returns the immutable catalog entries.
func (a *Achievements) Catalog() []Achievement { return a.catalog }

// Check sweeps every predicate against a single stats snapshot and
// unlocks what newly qualifies.
//
// The snapshot is captured once, so an unlock during the sweep does not
// feed its own bonus back into later predicates; the meta achievement
// sees the new count on the next sweep.
func (a *Achievements) Check() {
	s := a.ledger.stats()
	for i := range a.catalog {
		def := &a.catalog[i]
		if def.Check == nil || a.ledger.Unlocked(def.ID) {
			continue
		}
		if def.Check(s) {
			a.unlock(def)
		}
	}
}

// CheckMassiveHit evaluates damage-threshold achievements for one hit.
// Invoked right after a critical hit commits.
func (a *Achievements) CheckMassiveHit(amount decimal.Decimal) {
	for i := range a.catalog {
		def := &a.catalog[i]
		if def.MassiveHit.IsZero() || a.ledger.Unlocked(def.ID) {
			continue
		}
		if amount.GreaterThan(def.MassiveHit) {
			a.unlock(def)
		}
	}
}

func (a *Achievements) unlock(def *Achievement) {
	a.ledger.applyReward(def.ID, def.Reward)
	a.sink.AchievementUnlocked(def.ID)
	a.sink.Notify(fmt.Sprintf("Achievement Unlocked: %s (%s)", def.Name, def.Reward.Text))
	if a.persist != nil {
		a.persist()
	}
}
