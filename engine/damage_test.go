package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikazu/chpun/engine"
)

// =============================================================================
// PIPELINE
// =============================================================================

func TestRollHit_BasePunchIsExactlyOne(t *testing.T) {
	// Power 1, streak 1, no bonuses, no crit: the amount is the exact
	// decimal 1, not a float approximation.

	l := newTestLedger(newManualClock())

	hit := l.RollHit(1, decimal.Zero, fixedRNG(0.5))

	assert.False(t, hit.IsCrit)
	assert.Equal(t, "1", hit.Amount.String())
	assert.True(t, hit.Amount.Equal(di(1)))
}

func TestRollHit_CritMultiplies(t *testing.T) {
	// A draw below the 5% crit chance multiplies by the crit multiplier.

	l := newTestLedger(newManualClock())

	hit := l.RollHit(1, decimal.Zero, fixedRNG(0.01))

	assert.True(t, hit.IsCrit)
	assert.Equal(t, "5", hit.Amount.String())
}

func TestRollHit_DrawAtChanceIsNotCrit(t *testing.T) {
	// The crit comparison is strict: draw < chance.

	l := newTestLedger(newManualClock())

	hit := l.RollHit(1, decimal.Zero, fixedRNG(0.05))

	assert.False(t, hit.IsCrit)
}

func TestRollHit_StreakAndComboBonusScale(t *testing.T) {
	// amount = power * streak * (1 + comboBonus)

	l := newTestLedger(newManualClock())

	hit := l.RollHit(20, engine.ComboBonus(20), fixedRNG(0.5))

	assert.Equal(t, "22", hit.Amount.String(), "1 * 20 * 1.10")
}

func TestRollHit_NextHitMultiplierConsumedOnce(t *testing.T) {
	// GIVEN: A one-shot 50x multiplier armed by a power-up
	// WHEN: Rolling two hits
	// THEN: The first is multiplied, the second is back to normal

	clock := newManualClock()
	l := newTestLedger(clock)
	combo := engine.NewCombo(clock, nil)
	fx := engine.NewEffects(clock, nil, l, combo, nil)

	fx.Activate(engine.PowerUp{
		ID: "sucker", Name: "Sucker Punch",
		Kind: engine.KindNextHit, Value: di(50),
	})
	require.Equal(t, "50", l.NextHitMultiplier().String())

	first := l.RollHit(1, decimal.Zero, fixedRNG(0.5))
	assert.Equal(t, "50", first.Amount.String())
	assert.Equal(t, "1", l.NextHitMultiplier().String(), "consumed by the hit")

	second := l.RollHit(1, decimal.Zero, fixedRNG(0.5))
	assert.Equal(t, "1", second.Amount.String())
}

func TestRollHit_NextHitAppliesOnTopOfCrit(t *testing.T) {
	clock := newManualClock()
	l := newTestLedger(clock)
	combo := engine.NewCombo(clock, nil)
	fx := engine.NewEffects(clock, nil, l, combo, nil)

	fx.Activate(engine.PowerUp{
		ID: "sucker", Name: "Sucker Punch",
		Kind: engine.KindNextHit, Value: di(50),
	})

	hit := l.RollHit(1, decimal.Zero, fixedRNG(0.01))

	assert.True(t, hit.IsCrit)
	assert.Equal(t, "250", hit.Amount.String(), "crit x5 then one-shot x50")
}

func TestRollHit_RearmReplacesRatherThanStacks(t *testing.T) {
	clock := newManualClock()
	l := newTestLedger(clock)
	combo := engine.NewCombo(clock, nil)
	fx := engine.NewEffects(clock, nil, l, combo, nil)

	arm := func(v int64) {
		fx.Activate(engine.PowerUp{ID: "sucker", Name: "Sucker Punch", Kind: engine.KindNextHit, Value: di(v)})
	}
	arm(50)
	arm(10)

	hit := l.RollHit(1, decimal.Zero, fixedRNG(0.5))
	assert.Equal(t, "10", hit.Amount.String(), "second arm replaces the first")
}
