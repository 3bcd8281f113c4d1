/*
effects.go - Power-up effects registry

PURPOSE:
  Owns the set of live time-limited modifiers. Activation composes a
  power-up's payload into ledger/combo state; expiry is guaranteed to
  revert exactly what was applied, without clobbering concurrently
  active effects of other kinds.

STACKING RULES:
  power-multiplier is EXCLUSIVE: activating a second one first reverts
  the live one (restoring the captured base), then applies the new value
  against the reverted baseline. crit-boost and auto-boost run on
  independent keys and may coexist.

REVERT SAFETY:
  A record's revert never lives in a closure over mutable state. Each
  expiry callback carries only the record id; it looks the record up and
  undoes exactly the mutation recorded on it. If the record
  is gone (manual clear, exclusive replacement), the callback is a no-op.
  This is what makes a stale timer racing a newer activation harmless.

SEE ALSO:
  - spawner.go: Rarity-weighted selection and offer lifecycle
  - catalog/powerups.go: The standard power-up definitions
*/
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EFFECT KINDS - Tagged union over power-up payloads
// =============================================================================

type EffectKind string

const (
	KindPowerMultiplier EffectKind = "power-multiplier"
	KindInstantResource EffectKind = "instant-resource"
	KindComboExtend     EffectKind = "combo-extend"
	KindCritBoost       EffectKind = "crit-boost"
	KindAutoBoost       EffectKind = "auto-boost"
	KindNextHit         EffectKind = "next-hit-multiplier"
	KindTimeWarp        EffectKind = "time-warp"
	KindGodMode         EffectKind = "god-mode"
)

// exclusive reports whether at most one live effect of this kind may exist.
func (k EffectKind) exclusive() bool { return k == KindPowerMultiplier }

// =============================================================================
// RARITY
// =============================================================================

type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityEpic     Rarity = "epic"
)

// Weight is the relative probability mass used at spawn time.
func (r Rarity) Weight() int {
	switch r {
	case RarityCommon:
		return 70
	case RarityUncommon:
		return 20
	case RarityRare:
		return 8
	case RarityEpic:
		return 2
	}
	return 0
}

// =============================================================================
// POWER-UP DEFINITION - Immutable catalog entry
// =============================================================================

// PowerUp describes one catalog entry. Which payload fields matter depends
// on Kind:
//
//	power-multiplier:     Value = multiplier, DurationMs
//	instant-resource:     Value = multiple of current power
//	combo-extend:         Value = extra milliseconds
//	crit-boost:           Value = additive crit chance, DurationMs
//	auto-boost:           Value = auto speed multiplier, DurationMs
//	next-hit-multiplier:  Value = one-shot multiplier
//	time-warp:            Value = seconds of auto generation
//	god-mode:             Value = power multiplier, CritBoost, DurationMs
type PowerUp struct {
	ID         string
	Name       string
	Rarity     Rarity
	Kind       EffectKind
	Value      decimal.Decimal
	CritBoost  decimal.Decimal // god-mode secondary payload
	DurationMs int64
}

// =============================================================================
// LIVE EFFECT RECORDS
// =============================================================================

type effectRecord struct {
	id        int64
	kind      EffectKind
	name      string
	appliedAt time.Time
	expiresAt time.Time
	timer     Timer

	// Only the field matching kind is set. Power restores its captured
	// baseline (the kind is exclusive). Crit and speed revert their own
	// applied delta/factor so stacked effects of the same kind can expire
	// in any order without clobbering each other.
	basePower decimal.Decimal
	critDelta decimal.Decimal
	speedMult decimal.Decimal
}

// ActiveEffect is the read-only view of a live effect.
type ActiveEffect struct {
	ID        int64
	Kind      EffectKind
	Name      string
	ExpiresAt time.Time
}

// =============================================================================
// EFFECTS REGISTRY
// =============================================================================

type Effects struct {
	clock Clock
	run   func(func())

	ledger *Ledger
	combo  *Combo
	sink   Sink

	nextID int64
	live   map[int64]*effectRecord
}

func NewEffects(clock Clock, run func(func()), ledger *Ledger, combo *Combo, sink Sink) *Effects {
	if run == nil {
		run = func(fn func()) { fn() }
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Effects{
		clock:  clock,
		run:    run,
		ledger: ledger,
		combo:  combo,
		sink:   sink,
		live:   make(map[int64]*effectRecord),
	}
}

// Activate composes the power-up's payload into the game state.
func (e *Effects) Activate(def PowerUp) {
	switch def.Kind {
	case KindPowerMultiplier:
		e.applyPowerMultiplier(def.Name, def.Value, def.duration())

	case KindInstantResource:
		amount := e.ledger.Power().Mul(def.Value)
		e.ledger.AddResource(amount)
		e.sink.Notify(fmt.Sprintf("%s: +%s", def.Name, amount.String()))

	case KindComboExtend:
		e.combo.ExtendTimer(time.Duration(def.Value.IntPart()) * time.Millisecond)

	case KindCritBoost:
		e.applyCritBoost(def.Name, def.Value, def.duration())

	case KindAutoBoost:
		e.applyAutoBoost(def.Name, def.Value, def.duration())

	case KindNextHit:
		e.ledger.armNextHit(def.Value)

	case KindTimeWarp:
		seconds := def.Value
		amount := decInt(int64(e.ledger.AutoUnits())).
			Mul(e.ledger.EffectiveAutoPower()).
			Mul(seconds)
		e.ledger.Credit(amount)
		e.sink.Notify(fmt.Sprintf("%s: +%s", def.Name, amount.String()))

	case KindGodMode:
		// Composition of a power multiplier and a crit boost, same duration.
		e.applyPowerMultiplier(def.Name, def.Value, def.duration())
		e.applyCritBoost(def.Name, def.CritBoost, def.duration())
	}
}

func (d PowerUp) duration() time.Duration {
	return time.Duration(d.DurationMs) * time.Millisecond
}

// =============================================================================
// TIMED EFFECT PLUMBING
// =============================================================================

func (e *Effects) applyPowerMultiplier(name string, mult decimal.Decimal, d time.Duration) {
	// Exclusive kind: revert the incumbent first so the new multiplier
	// applies against the true baseline, not a multiplied one.
	for id, rec := range e.live {
		if rec.kind == KindPowerMultiplier {
			e.revert(id)
		}
	}

	rec := e.register(KindPowerMultiplier, name, d)
	rec.basePower = e.ledger.power
	e.ledger.power = rec.basePower.Mul(mult)
}

func (e *Effects) applyCritBoost(name string, add decimal.Decimal, d time.Duration) {
	rec := e.register(KindCritBoost, name, d)
	rec.critDelta = add
	// The boost accumulates beside the upgradeable stat instead of mutating
	// it. Pricing, saves, and achievement predicates keep seeing the base
	// value; clamping to [0, 1] happens where the chance is read.
	e.ledger.critBoost = e.ledger.critBoost.Add(add)
}

func (e *Effects) applyAutoBoost(name string, mult decimal.Decimal, d time.Duration) {
	rec := e.register(KindAutoBoost, name, d)
	rec.speedMult = mult
	e.ledger.autoSpeedFactor = e.ledger.autoSpeedFactor.Mul(mult)
}

// register creates a record and schedules its expiry. The callback holds
// the record id only; revert re-validates registration before acting.
func (e *Effects) register(kind EffectKind, name string, d time.Duration) *effectRecord {
	e.nextID++
	id := e.nextID
	now := e.clock.Now()
	rec := &effectRecord{
		id:        id,
		kind:      kind,
		name:      name,
		appliedAt: now,
		expiresAt: now.Add(d),
	}
	e.live[id] = rec
	rec.timer = e.clock.AfterFunc(d, func() {
		e.run(func() { e.revert(id) })
	})
	return rec
}

// revert undoes a record's mutation and discards it. Safe to call for an
// already-removed id: a stale expiry simply finds nothing to do.
func (e *Effects) revert(id int64) {
	rec, ok := e.live[id]
	if !ok {
		return
	}
	delete(e.live, id)
	if rec.timer != nil {
		rec.timer.Stop()
	}

	switch rec.kind {
	case KindPowerMultiplier:
		e.ledger.power = rec.basePower
	case KindCritBoost:
		e.ledger.critBoost = e.ledger.critBoost.Sub(rec.critDelta)
	case KindAutoBoost:
		e.ledger.autoSpeedFactor = e.ledger.autoSpeedFactor.Div(rec.speedMult)
	}
}

// ClearAll reverts every live effect immediately. Used on prestige and
// full reset so no timer fires against reinitialized state.
func (e *Effects) ClearAll() {
	for id := range e.live {
		e.revert(id)
	}
}

// Active lists live effects ordered by id (activation order).
func (e *Effects) Active() []ActiveEffect {
	out := make([]ActiveEffect, 0, len(e.live))
	for _, rec := range e.live {
		out = append(out, ActiveEffect{
			ID:        rec.id,
			Kind:      rec.kind,
			Name:      rec.name,
			ExpiresAt: rec.expiresAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
