package save_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikazu/chpun/config"
	"github.com/aikazu/chpun/save"
)

func di(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func sampleRecord() save.Record {
	return save.Record{
		Version:   save.Version,
		Timestamp: 1_750_000_000_000,
		State: save.State{
			Resource:             di(12345),
			Power:                di(7),
			UpgradeCost:          di(114),
			AutoCost:             di(75),
			AutoUnits:            2,
			AutoRate:             di(3),
			AutoSpeedFactor:      di(1),
			CritChance:           decimal.NewFromFloat(0.07),
			CritMultiplier:       di(6),
			ComboDurationMs:      3400,
			PrestigePoints:       1,
			PrestigeRequirement:  di(2_000_000),
			UnlockedAchievements: []string{"firstPunch", "comboStarter"},
			TotalActions:         420,
			BestStreak:           37,
		},
	}
}

// =============================================================================
// CODEC
// =============================================================================

func TestRecord_EncodeDecodeRoundTrip(t *testing.T) {
	rec := sampleRecord()

	data, err := save.Encode(rec)
	require.NoError(t, err)

	got, err := save.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, rec.Version, got.Version)
	assert.Equal(t, rec.Timestamp, got.Timestamp)
	assert.True(t, got.State.Resource.Equal(rec.State.Resource))
	assert.True(t, got.State.CritChance.Equal(rec.State.CritChance))
	assert.Equal(t, rec.State.UnlockedAchievements, got.State.UnlockedAchievements)
	assert.Equal(t, rec.State.BestStreak, got.State.BestStreak)
}

func TestRecord_DecodeRejectsGarbageWholesale(t *testing.T) {
	cases := map[string]string{
		"not json":          `not json at all`,
		"truncated":         `{"version": 1, "state": {`,
		"non-numeric field": `{"version": 1, "state": {"power": "lots"}}`,
		"wrong type":        `{"version": 1, "state": {"auto_units": "two"}}`,
	}

	for name, payload := range cases {
		_, err := save.Decode([]byte(payload))
		assert.True(t, errors.Is(err, save.ErrMalformed), "%s should be rejected", name)
	}
}

func TestRecord_DecodeRejectsUnknownVersion(t *testing.T) {
	_, err := save.Decode([]byte(`{"version": 99, "state": {}}`))
	assert.True(t, errors.Is(err, save.ErrVersion))

	_, err = save.Decode([]byte(`{"version": 0, "state": {}}`))
	assert.True(t, errors.Is(err, save.ErrVersion), "missing version field")
}

// =============================================================================
// CLAMPING
// =============================================================================

func TestClamp_LegalStatePassesThrough(t *testing.T) {
	cfg := config.Default()
	s := sampleRecord().State

	got := save.Clamp(s, cfg)

	assert.True(t, got.Resource.Equal(s.Resource))
	assert.True(t, got.Power.Equal(s.Power))
	assert.True(t, got.CritChance.Equal(s.CritChance))
	assert.Equal(t, s.ComboDurationMs, got.ComboDurationMs)
	assert.Equal(t, s.BestStreak, got.BestStreak)
}

func TestClamp_PullsEveryFieldIntoDomain(t *testing.T) {
	cfg := config.Default()
	s := save.State{
		Resource:            di(-1),
		Power:               di(-5),
		UpgradeCost:         di(0),
		AutoCost:            di(0),
		AutoUnits:           -2,
		AutoRate:            di(0),
		AutoSpeedFactor:     di(50),
		CritChance:          di(2),
		CritMultiplier:      di(0),
		ComboDurationMs:     999_999,
		PrestigePoints:      -7,
		PrestigeRequirement: di(0),
		TotalActions:        -1,
		BestStreak:          -1,
	}

	got := save.Clamp(s, cfg)

	assert.Equal(t, "0", got.Resource.String())
	assert.Equal(t, "1", got.Power.String())
	assert.Equal(t, "10", got.UpgradeCost.String())
	assert.Equal(t, "50", got.AutoCost.String())
	assert.Equal(t, 0, got.AutoUnits)
	assert.Equal(t, "1", got.AutoRate.String())
	assert.Equal(t, "1", got.AutoSpeedFactor.String())
	assert.Equal(t, "0.5", got.CritChance.String())
	assert.Equal(t, "5", got.CritMultiplier.String())
	assert.Equal(t, int64(10000), got.ComboDurationMs, "capped at the combo duration max")
	assert.Equal(t, 0, got.PrestigePoints)
	assert.Equal(t, "1000000", got.PrestigeRequirement.String())
	assert.Equal(t, int64(0), got.TotalActions)
	assert.Equal(t, 1, got.BestStreak)
}

func TestClamp_BonusesNeverNegative(t *testing.T) {
	cfg := config.Default()
	s := save.State{
		Bonuses: save.Bonuses{
			CritChanceAdd:      di(-1),
			ComboDurationAddMs: -500,
			AutoRateAdd:        di(-3),
		},
	}

	got := save.Clamp(s, cfg)

	assert.True(t, got.Bonuses.CritChanceAdd.IsZero())
	assert.Equal(t, int64(0), got.Bonuses.ComboDurationAddMs)
	assert.True(t, got.Bonuses.AutoRateAdd.IsZero())
}
