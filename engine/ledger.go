/*
ledger.go - The resource ledger

PURPOSE:
  Owns every economy scalar: resource balance, per-punch power, upgrade
  costs, auto-generation inputs, crit stats, prestige counters, permanent
  bonuses, and the unlocked-achievement set. All mutation goes through
  the methods here.

CRITICAL INVARIANTS:
  1. ATOMIC SPEND: Spend either debits exactly the requested amount or
     leaves the balance untouched. Upgrades inherit this: on insufficient
     funds nothing changes.
  2. DERIVED LEVELS: Upgrade cost is a pure function of the stat's current
     value. The level is recomputed as (value - base) / step, never stored
     separately, so there is exactly one source of truth.
  3. MONOTONICITY: Stats and bonus accumulators only move up, except
     across a prestige reset whose per-field rule is explicit in Prestige.

COST CURVE:
  cost = ceil(base * growth^level)

  Power and auto-unit costs are the exception: they are stored and scaled
  per purchase (x1.5, ceil), matching their original tuning.

SEE ALSO:
  - damage.go: Reads ledger stats to roll a hit
  - engine.go: Serializes access; nothing here locks
*/
package engine

import (
	"time"

	"github.com/aikazu/chpun/config"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	cfg   config.Balance
	clock Clock

	resource        decimal.Decimal
	power           decimal.Decimal
	upgradeCost     decimal.Decimal
	autoCost        decimal.Decimal
	autoUnits       int
	autoRate        decimal.Decimal // per-unit auto power, upgradeable
	autoSpeedFactor decimal.Decimal // temporary multiplier from power-ups

	critChance      decimal.Decimal // upgradeable base, never carries boosts
	critBoost       decimal.Decimal // temporary additive from power-ups
	critMultiplier  decimal.Decimal
	comboDurationMs int64

	prestigePoints      int
	prestigeRequirement decimal.Decimal

	// One-shot multiplier armed by a power-up, consumed by the next hit.
	nextHitMultiplier decimal.Decimal

	bonuses  Bonuses
	unlocked map[AchievementID]bool

	totalActions int64
	bestStreak   int
	recent       []time.Time
}

// NewLedger creates a ledger at the configured initial state.
func NewLedger(cfg config.Balance, clock Clock) *Ledger {
	return &Ledger{
		cfg:                 cfg,
		clock:               clock,
		resource:            decZero,
		power:               decOne,
		upgradeCost:         dec(cfg.InitialPowerCost),
		autoCost:            dec(cfg.InitialAutoCost),
		autoRate:            dec(cfg.BaseAutoPower),
		autoSpeedFactor:     decOne,
		critChance:          dec(cfg.BaseCritChance),
		critBoost:           decZero,
		critMultiplier:      dec(cfg.BaseCritMultiplier),
		comboDurationMs:     cfg.BaseComboDuration,
		prestigeRequirement: dec(cfg.PrestigeRequirement),
		nextHitMultiplier:   decOne,
		unlocked:            make(map[AchievementID]bool),
		bestStreak:          1,
	}
}

// =============================================================================
// BALANCE MUTATION
// =============================================================================

// Spend debits amount atomically. Negative amounts are invalid input;
// an uncovered amount is a normal decline. Either way the balance is
// untouched on failure.
func (l *Ledger) Spend(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if l.resource.LessThan(amount) {
		return &InsufficientFundsError{Available: l.resource, Requested: amount}
	}
	l.resource = l.resource.Sub(amount)
	return nil
}

// AddResource credits one action's yield: bumps the balance, the running
// action counter, and the recency log used by rate-based achievements.
func (l *Ledger) AddResource(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	l.resource = l.resource.Add(amount)
	l.totalActions++

	now := l.clock.Now()
	l.recent = append(l.recent, now)
	l.pruneRecent(now)
	return nil
}

// Credit adds resource without counting an action. Used by auto-generation,
// time-warp power-ups, and combo milestone injections.
func (l *Ledger) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	l.resource = l.resource.Add(amount)
	return nil
}

// pruneRecent drops log entries older than the recency window. The log is
// bounded by the achievable action rate over the window, so this stays
// O(k) amortized.
func (l *Ledger) pruneRecent(now time.Time) {
	cutoff := now.Add(-time.Duration(l.cfg.RecentWindowMs) * time.Millisecond)
	i := 0
	for i < len(l.recent) && l.recent[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		l.recent = append(l.recent[:0], l.recent[i:]...)
	}
}

// noteStreak records a new streak value against the best-streak statistic.
func (l *Ledger) noteStreak(streak int) {
	if streak > l.bestStreak {
		l.bestStreak = streak
	}
}

// =============================================================================
// UPGRADES
// =============================================================================

type UpgradeKind string

const (
	UpgradePower         UpgradeKind = "power"
	UpgradeAutoUnit      UpgradeKind = "auto-unit"
	UpgradeCritChance    UpgradeKind = "crit-chance"
	UpgradeCritMult      UpgradeKind = "crit-multiplier"
	UpgradeComboDuration UpgradeKind = "combo-duration"
	UpgradeAutoPower     UpgradeKind = "auto-power"
)

// AllUpgrades lists the purchasable upgrade kinds in display order.
func AllUpgrades() []UpgradeKind {
	return []UpgradeKind{
		UpgradePower, UpgradeAutoUnit, UpgradeCritChance,
		UpgradeCritMult, UpgradeComboDuration, UpgradeAutoPower,
	}
}

// level recomputes the discrete upgrade level from the distance the stat
// has travelled from its base, divided by the per-purchase step.
func level(value, base, step decimal.Decimal) int64 {
	return value.Sub(base).Div(step).Floor().IntPart() + 1
}

// curveCost is ceil(base * growth^level).
func curveCost(base, growth decimal.Decimal, lvl int64) decimal.Decimal {
	return base.Mul(growth.Pow(decInt(lvl))).Ceil()
}

// UpgradeCost returns the price of the next purchase of kind, or zero when
// the stat is already capped.
func (l *Ledger) UpgradeCost(kind UpgradeKind) (decimal.Decimal, error) {
	switch kind {
	case UpgradePower:
		return l.upgradeCost, nil
	case UpgradeAutoUnit:
		return l.autoCost, nil
	case UpgradeCritChance:
		if l.critChance.GreaterThanOrEqual(dec(l.cfg.MaxCritChance)) {
			return decZero, nil
		}
		lvl := level(l.critChance, dec(l.cfg.BaseCritChance), dec(l.cfg.CritChanceStep))
		return curveCost(dec(l.cfg.CritChanceCostBase), dec(l.cfg.CritChanceCostGrow), lvl), nil
	case UpgradeCritMult:
		if l.critMultiplier.GreaterThanOrEqual(dec(l.cfg.MaxCritMultiplier)) {
			return decZero, nil
		}
		lvl := level(l.critMultiplier, dec(l.cfg.BaseCritMultiplier), decOne)
		return curveCost(dec(l.cfg.CritMultCostBase), dec(l.cfg.CritMultCostGrow), lvl), nil
	case UpgradeComboDuration:
		if l.comboDurationMs >= l.cfg.MaxComboDuration {
			return decZero, nil
		}
		lvl := level(decInt(l.comboDurationMs), decInt(l.cfg.BaseComboDuration), decInt(l.cfg.ComboDurationStep))
		return curveCost(dec(l.cfg.ComboDurCostBase), dec(l.cfg.ComboDurCostGrow), lvl), nil
	case UpgradeAutoPower:
		if l.autoRate.GreaterThanOrEqual(dec(l.cfg.MaxAutoPower)) {
			return decZero, nil
		}
		lvl := level(l.autoRate, dec(l.cfg.BaseAutoPower), decOne)
		return curveCost(dec(l.cfg.AutoPowerCostBase), dec(l.cfg.AutoPowerCostGrow), lvl), nil
	}
	return decZero, ErrUnknownUpgrade
}

// Upgrade purchases the next level of kind. Capped stats reject before any
// spend; insufficient funds leave everything untouched.
func (l *Ledger) Upgrade(kind UpgradeKind) error {
	switch kind {
	case UpgradePower:
		if err := l.Spend(l.upgradeCost); err != nil {
			return err
		}
		l.power = l.power.Add(decOne)
		l.upgradeCost = l.upgradeCost.Mul(dec(l.cfg.PowerCostGrowth)).Ceil()
		return nil

	case UpgradeAutoUnit:
		if err := l.Spend(l.autoCost); err != nil {
			return err
		}
		l.autoUnits++
		l.autoCost = l.autoCost.Mul(dec(l.cfg.AutoCostGrowth)).Ceil()
		return nil

	case UpgradeCritChance:
		max := dec(l.cfg.MaxCritChance)
		if l.critChance.GreaterThanOrEqual(max) {
			return ErrStatCapped
		}
		cost, _ := l.UpgradeCost(kind)
		if err := l.Spend(cost); err != nil {
			return err
		}
		l.critChance = clampDec(l.critChance.Add(dec(l.cfg.CritChanceStep)), decZero, max)
		return nil

	case UpgradeCritMult:
		max := dec(l.cfg.MaxCritMultiplier)
		if l.critMultiplier.GreaterThanOrEqual(max) {
			return ErrStatCapped
		}
		cost, _ := l.UpgradeCost(kind)
		if err := l.Spend(cost); err != nil {
			return err
		}
		l.critMultiplier = clampDec(l.critMultiplier.Add(decOne), decZero, max)
		return nil

	case UpgradeComboDuration:
		if l.comboDurationMs >= l.cfg.MaxComboDuration {
			return ErrStatCapped
		}
		cost, _ := l.UpgradeCost(kind)
		if err := l.Spend(cost); err != nil {
			return err
		}
		l.comboDurationMs += l.cfg.ComboDurationStep
		if l.comboDurationMs > l.cfg.MaxComboDuration {
			l.comboDurationMs = l.cfg.MaxComboDuration
		}
		return nil

	case UpgradeAutoPower:
		max := dec(l.cfg.MaxAutoPower)
		if l.autoRate.GreaterThanOrEqual(max) {
			return ErrStatCapped
		}
		cost, _ := l.UpgradeCost(kind)
		if err := l.Spend(cost); err != nil {
			return err
		}
		l.autoRate = clampDec(l.autoRate.Add(decOne), decZero, max)
		return nil
	}
	return ErrUnknownUpgrade
}

// =============================================================================
// AUTO GENERATION
// =============================================================================

// EffectiveAutoPower is the per-unit auto yield including the permanent
// achievement bonus.
func (l *Ledger) EffectiveAutoPower() decimal.Decimal {
	return l.autoRate.Add(l.bonuses.AutoRateAdd)
}

// AutoTickAmount is the resource credited per auto tick:
// units * effective power * prestige multiplier * temporary speed factor.
func (l *Ledger) AutoTickAmount() decimal.Decimal {
	if l.autoUnits == 0 {
		return decZero
	}
	return decInt(int64(l.autoUnits)).
		Mul(l.EffectiveAutoPower()).
		Mul(l.prestigeMultiplier()).
		Mul(l.autoSpeedFactor)
}

// =============================================================================
// PRESTIGE
// =============================================================================

// CanPrestige reports whether the balance covers the requirement.
func (l *Ledger) CanPrestige() bool {
	return l.resource.GreaterThanOrEqual(l.prestigeRequirement)
}

// Prestige performs the reset-for-permanent-bonus exchange.
//
// Per-field rules:
//   - prestigePoints +1, requirement * configured factor
//   - resource, power, upgrade cost, auto units, auto cost: back to initial
//   - crit chance, crit multiplier, combo duration: base + retention * progress
//   - auto speed factor and crit boost: back to neutral (temporary)
//   - auto power, bonuses, achievements, counters: untouched
func (l *Ledger) Prestige() error {
	if !l.CanPrestige() {
		return ErrPrestigeUnavailable
	}

	l.prestigePoints++
	l.prestigeRequirement = l.prestigeRequirement.Mul(dec(l.cfg.PrestigeCostFactor)).Floor()

	l.resource = decZero
	l.power = decOne
	l.upgradeCost = dec(l.cfg.InitialPowerCost)
	l.autoUnits = 0
	l.autoCost = dec(l.cfg.InitialAutoCost)
	l.autoSpeedFactor = decOne
	l.critBoost = decZero
	l.nextHitMultiplier = decOne

	retention := dec(l.cfg.PrestigeRetention)

	critBase := dec(l.cfg.BaseCritChance)
	l.critChance = critBase.Add(l.critChance.Sub(critBase).Mul(retention))

	multBase := dec(l.cfg.BaseCritMultiplier)
	l.critMultiplier = multBase.Add(l.critMultiplier.Sub(multBase).Mul(retention))

	comboProgress := decInt(l.comboDurationMs - l.cfg.BaseComboDuration)
	l.comboDurationMs = l.cfg.BaseComboDuration + comboProgress.Mul(retention).Floor().IntPart()

	return nil
}

func (l *Ledger) prestigeMultiplier() decimal.Decimal {
	if l.prestigePoints == 0 {
		return decOne
	}
	base := dec(l.cfg.PrestigeBaseGrowth).Add(l.bonuses.PrestigeExponentAdd)
	return base.Pow(decInt(int64(l.prestigePoints)))
}

// =============================================================================
// ACHIEVEMENT SUPPORT
// =============================================================================

// Unlocked reports whether an achievement id has been unlocked.
func (l *Ledger) Unlocked(id AchievementID) bool { return l.unlocked[id] }

// applyReward marks id unlocked and folds its bonus deltas in, exactly once.
// Callers must check Unlocked first; this is the write half.
func (l *Ledger) applyReward(id AchievementID, r Reward) {
	l.unlocked[id] = true
	l.bonuses.add(r)
	l.prestigePoints += r.PrestigePoints
}

// stats captures the snapshot achievement predicates evaluate.
func (l *Ledger) stats() Stats {
	l.pruneRecent(l.clock.Now())
	return Stats{
		TotalActions:   l.totalActions,
		Resource:       l.resource,
		Power:          l.power,
		CritChance:     l.critChance,
		AutoUnits:      l.autoUnits,
		PrestigePoints: l.prestigePoints,
		BestStreak:     l.bestStreak,
		RecentActions:  len(l.recent),
		UnlockedCount:  len(l.unlocked),
	}
}

// =============================================================================
// READ ACCESS
// =============================================================================

func (l *Ledger) Resource() decimal.Decimal            { return l.resource }
func (l *Ledger) Power() decimal.Decimal               { return l.power }
func (l *Ledger) AutoUnits() int                       { return l.autoUnits }
func (l *Ledger) AutoRate() decimal.Decimal            { return l.autoRate }
func (l *Ledger) AutoSpeedFactor() decimal.Decimal     { return l.autoSpeedFactor }
func (l *Ledger) CritMultiplier() decimal.Decimal      { return l.critMultiplier }
func (l *Ledger) ComboDurationMs() int64               { return l.comboDurationMs }
func (l *Ledger) PrestigePoints() int                  { return l.prestigePoints }
func (l *Ledger) PrestigeRequirement() decimal.Decimal { return l.prestigeRequirement }
func (l *Ledger) TotalActions() int64                  { return l.totalActions }
func (l *Ledger) BestStreak() int                      { return l.bestStreak }
func (l *Ledger) BonusTotals() Bonuses                 { return l.bonuses }

// CritChance is the crit chance in play right now: the upgradeable base
// plus any live power-up boost, clamped to [0, 1]. Upgrade pricing, saves,
// and achievement predicates read the base directly; only the hit roll and
// the presentation layer see the boosted value.
func (l *Ledger) CritChance() decimal.Decimal {
	return clampDec(l.critChance.Add(l.critBoost), decZero, decOne)
}

// UnlockedIDs returns the unlocked achievement ids in no particular order.
func (l *Ledger) UnlockedIDs() []AchievementID {
	ids := make([]AchievementID, 0, len(l.unlocked))
	for id := range l.unlocked {
		ids = append(ids, id)
	}
	return ids
}

// EffectiveComboDuration is the combo window for the next hit: the
// upgradeable base plus the permanent achievement bonus. Recomputed on
// every hit so upgrades apply immediately.
func (l *Ledger) EffectiveComboDuration() time.Duration {
	return time.Duration(l.comboDurationMs+l.bonuses.ComboDurationAddMs) * time.Millisecond
}
