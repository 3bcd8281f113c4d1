package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikazu/chpun/engine"
)

// =============================================================================
// FIXTURE
// =============================================================================

type effectsFixture struct {
	clock  *manualClock
	ledger *engine.Ledger
	combo  *engine.Combo
	fx     *engine.Effects
}

func newEffectsFixture() *effectsFixture {
	clock := newManualClock()
	ledger := newTestLedger(clock)
	combo := engine.NewCombo(clock, nil)
	return &effectsFixture{
		clock:  clock,
		ledger: ledger,
		combo:  combo,
		fx:     engine.NewEffects(clock, nil, ledger, combo, nil),
	}
}

func powerUp(kind engine.EffectKind, value float64, durationMs int64) engine.PowerUp {
	return engine.PowerUp{
		ID: "test-" + string(kind), Name: "Test " + string(kind),
		Rarity: engine.RarityCommon, Kind: kind,
		Value: d(value), DurationMs: durationMs,
	}
}

// =============================================================================
// TIMED EFFECTS
// =============================================================================

func TestEffects_PowerMultiplier_AppliesAndReverts(t *testing.T) {
	f := newEffectsFixture()

	f.fx.Activate(powerUp(engine.KindPowerMultiplier, 10, 10_000))
	assert.Equal(t, "10", f.ledger.Power().String())
	assert.Len(t, f.fx.Active(), 1)

	f.clock.Advance(10 * time.Second)
	assert.Equal(t, "1", f.ledger.Power().String())
	assert.Empty(t, f.fx.Active())
}

func TestEffects_PowerMultiplier_SecondReplacesFirst(t *testing.T) {
	// GIVEN: A live x10 power multiplier
	// WHEN: Activating a x20 one
	// THEN: The multipliers do not compound; the x20 applies against the
	//       true baseline and expiry restores that baseline

	f := newEffectsFixture()

	f.fx.Activate(powerUp(engine.KindPowerMultiplier, 10, 10_000))
	f.clock.Advance(2 * time.Second)
	f.fx.Activate(powerUp(engine.KindPowerMultiplier, 20, 10_000))

	assert.Equal(t, "20", f.ledger.Power().String(), "not 200")
	assert.Len(t, f.fx.Active(), 1, "exclusive kind keeps one record")

	f.clock.Advance(10 * time.Second)
	assert.Equal(t, "1", f.ledger.Power().String())
}

func TestEffects_CritBoost_StacksAndRevertsInAnyOrder(t *testing.T) {
	// Two boosts coexist; each expiry subtracts only its own contribution,
	// so the order they die in does not matter.

	f := newEffectsFixture()

	f.fx.Activate(powerUp(engine.KindCritBoost, 0.25, 5_000))
	f.clock.Advance(time.Second)
	f.fx.Activate(powerUp(engine.KindCritBoost, 0.25, 15_000))
	assert.Equal(t, "0.55", f.ledger.CritChance().String())

	// First boost dies at t=5s while the second is still live.
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, "0.3", f.ledger.CritChance().String())

	f.clock.Advance(15 * time.Second)
	assert.Equal(t, "0.05", f.ledger.CritChance().String())
}

func TestEffects_CritBoost_ClampedAtOne(t *testing.T) {
	f := newEffectsFixture()

	f.fx.Activate(powerUp(engine.KindCritBoost, 2.0, 5_000))
	assert.Equal(t, "1", f.ledger.CritChance().String())

	f.clock.Advance(5 * time.Second)
	assert.Equal(t, "0.05", f.ledger.CritChance().String(), "revert undoes only what was applied")
}

func TestEffects_CritBoost_LeavesUpgradePricingAlone(t *testing.T) {
	// GIVEN: A live crit boost
	// WHEN: Pricing and buying the crit-chance upgrade
	// THEN: The derived level comes from the base stat, so the first
	//       purchase still costs 200 and steps the base by 0.005

	f := newEffectsFixture()
	f.fx.Activate(powerUp(engine.KindCritBoost, 0.25, 10_000))

	cost, err := f.ledger.UpgradeCost(engine.UpgradeCritChance)
	require.NoError(t, err)
	assert.Equal(t, "200", cost.String())

	require.NoError(t, f.ledger.Credit(di(200)))
	require.NoError(t, f.ledger.Upgrade(engine.UpgradeCritChance))
	assert.Equal(t, "0.305", f.ledger.CritChance().String(), "base 0.055 plus the live boost")

	f.clock.Advance(10 * time.Second)
	assert.Equal(t, "0.055", f.ledger.CritChance().String())
}

func TestEffects_CritBoost_NearCapStatStaysUpgradeable(t *testing.T) {
	// A boost pushing the effective chance past the 0.5 cap must not make
	// the upgrade look capped; the base stat is still far below it.

	f := newEffectsFixture()
	f.fx.Activate(powerUp(engine.KindCritBoost, 0.5, 10_000))
	assert.Equal(t, "0.55", f.ledger.CritChance().String())

	require.NoError(t, f.ledger.Credit(di(200)))
	require.NoError(t, f.ledger.Upgrade(engine.UpgradeCritChance))
	assert.Equal(t, "0.555", f.ledger.CritChance().String())
}

func TestEffects_AutoBoost_StacksMultiplicatively(t *testing.T) {
	f := newEffectsFixture()

	f.fx.Activate(powerUp(engine.KindAutoBoost, 3, 20_000))
	f.clock.Advance(time.Second)
	f.fx.Activate(powerUp(engine.KindAutoBoost, 3, 4_000))
	assert.Equal(t, "9", f.ledger.AutoSpeedFactor().String())

	// The short boost dies first.
	f.clock.Advance(4 * time.Second)
	assert.Equal(t, "3", f.ledger.AutoSpeedFactor().String())

	f.clock.Advance(20 * time.Second)
	assert.Equal(t, "1", f.ledger.AutoSpeedFactor().String())
}

// =============================================================================
// INSTANT EFFECTS
// =============================================================================

func TestEffects_InstantResource_CreditsMultipleOfPower(t *testing.T) {
	f := newEffectsFixture()
	require.NoError(t, f.ledger.Credit(di(100)))
	require.NoError(t, f.ledger.Upgrade(engine.UpgradePower)) // power 2, pays 10

	f.fx.Activate(powerUp(engine.KindInstantResource, 100, 0))

	// 90 left after the upgrade, plus 2 * 100.
	assert.Equal(t, "290", f.ledger.Resource().String())
	assert.Equal(t, int64(1), f.ledger.TotalActions(), "instant burst counts as an action")
	assert.Empty(t, f.fx.Active(), "no lingering record for instant kinds")
}

func TestEffects_ComboExtend_OnlyWhileActive(t *testing.T) {
	f := newEffectsFixture()

	// Idle: no-op.
	f.fx.Activate(powerUp(engine.KindComboExtend, 5000, 0))
	assert.False(t, f.combo.Active())

	f.combo.RegisterHit(3 * time.Second)
	f.fx.Activate(powerUp(engine.KindComboExtend, 5000, 0))

	f.clock.Advance(7900 * time.Millisecond)
	assert.True(t, f.combo.Active())
	f.clock.Advance(200 * time.Millisecond)
	assert.False(t, f.combo.Active())
}

func TestEffects_TimeWarp_CreditsAutoSeconds(t *testing.T) {
	f := newEffectsFixture()
	require.NoError(t, f.ledger.Credit(di(125)))
	require.NoError(t, f.ledger.Upgrade(engine.UpgradeAutoUnit))
	require.NoError(t, f.ledger.Upgrade(engine.UpgradeAutoUnit))
	require.Equal(t, "0", f.ledger.Resource().String())

	f.fx.Activate(powerUp(engine.KindTimeWarp, 60, 0))

	// 2 units * rate 1 * 60 seconds.
	assert.Equal(t, "120", f.ledger.Resource().String())
	assert.Equal(t, int64(0), f.ledger.TotalActions(), "warped time is generation, not actions")
}

// =============================================================================
// GOD MODE
// =============================================================================

func TestEffects_GodMode_ComposesPowerAndCrit(t *testing.T) {
	f := newEffectsFixture()

	god := powerUp(engine.KindGodMode, 20, 8_000)
	god.CritBoost = d(0.5)
	f.fx.Activate(god)

	assert.Equal(t, "20", f.ledger.Power().String())
	assert.Equal(t, "0.55", f.ledger.CritChance().String())
	assert.Len(t, f.fx.Active(), 2)

	f.clock.Advance(8 * time.Second)
	assert.Equal(t, "1", f.ledger.Power().String())
	assert.Equal(t, "0.05", f.ledger.CritChance().String())
	assert.Empty(t, f.fx.Active())
}

// =============================================================================
// CLEARING
// =============================================================================

func TestEffects_ClearAll_RevertsEverythingImmediately(t *testing.T) {
	f := newEffectsFixture()

	f.fx.Activate(powerUp(engine.KindPowerMultiplier, 10, 10_000))
	f.fx.Activate(powerUp(engine.KindCritBoost, 0.25, 10_000))
	f.fx.Activate(powerUp(engine.KindAutoBoost, 3, 10_000))

	f.fx.ClearAll()

	assert.Equal(t, "1", f.ledger.Power().String())
	assert.Equal(t, "0.05", f.ledger.CritChance().String())
	assert.Equal(t, "1", f.ledger.AutoSpeedFactor().String())
	assert.Empty(t, f.fx.Active())

	// The dead timers firing later must find nothing to undo.
	f.clock.Advance(time.Minute)
	assert.Equal(t, "1", f.ledger.Power().String())
	assert.Equal(t, "0.05", f.ledger.CritChance().String())
}

func TestEffects_ActiveListsInActivationOrder(t *testing.T) {
	f := newEffectsFixture()

	f.fx.Activate(powerUp(engine.KindCritBoost, 0.1, 10_000))
	f.fx.Activate(powerUp(engine.KindAutoBoost, 2, 10_000))

	active := f.fx.Active()
	require.Len(t, active, 2)
	assert.Equal(t, engine.KindCritBoost, active[0].Kind)
	assert.Equal(t, engine.KindAutoBoost, active[1].Kind)
	assert.True(t, active[0].ID < active[1].ID)
}
