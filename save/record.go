/*
Package save defines the versioned save record, its codec, and the
validation/clamping applied to anything loaded from outside the process.

PURPOSE:
  One logical record persists the whole game: a version marker, a write
  timestamp, and the full ledger state. Export/import and the persistent
  stores all speak this format.

TRUST BOUNDARY:
  Loaded payloads are NEVER trusted:
  - Structurally invalid JSON, an unknown version, or a non-numeric
    value in a numeric field rejects the record wholesale. There is no
    partial merge; the engine falls back to defaults.
  - Structurally valid records still have every numeric field clamped
    into its legal domain (crit chance back into [base, max], costs at
    least their initial values, and so on) before the engine sees it.

SEE ALSO:
  - store.go: Persistence interface
  - store/sqlite: Durable implementation
*/
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aikazu/chpun/config"
	"github.com/shopspring/decimal"
)

// Version is the current record format version.
const Version = 1

var (
	// ErrMalformed is returned for payloads that do not decode into a
	// structurally valid record.
	ErrMalformed = errors.New("malformed save record")

	// ErrVersion is returned for records written by an unknown format
	// version.
	ErrVersion = errors.New("unsupported save version")
)

// =============================================================================
// RECORD
// =============================================================================

// Record is the versioned envelope around the persisted state.
type Record struct {
	Version   int   `json:"version"`
	Timestamp int64 `json:"timestamp"`
	State     State `json:"state"`
}

// State is the complete persisted ledger state.
type State struct {
	Resource             decimal.Decimal `json:"resource"`
	Power                decimal.Decimal `json:"power"`
	UpgradeCost          decimal.Decimal `json:"upgrade_cost"`
	AutoCost             decimal.Decimal `json:"auto_cost"`
	AutoUnits            int             `json:"auto_units"`
	AutoRate             decimal.Decimal `json:"auto_rate"`
	AutoSpeedFactor      decimal.Decimal `json:"auto_speed_factor"`
	CritChance           decimal.Decimal `json:"crit_chance"`
	CritMultiplier       decimal.Decimal `json:"crit_multiplier"`
	ComboDurationMs      int64           `json:"combo_duration_ms"`
	PrestigePoints       int             `json:"prestige_points"`
	PrestigeRequirement  decimal.Decimal `json:"prestige_requirement"`
	UnlockedAchievements []string        `json:"unlocked_achievements"`
	Bonuses              Bonuses         `json:"bonuses"`
	TotalActions         int64           `json:"total_actions"`
	BestStreak           int             `json:"best_streak"`
}

// Bonuses mirrors the permanent achievement accumulators.
type Bonuses struct {
	CritChanceAdd       decimal.Decimal `json:"crit_chance_add"`
	CritMultiplierAdd   decimal.Decimal `json:"crit_multiplier_add"`
	ComboDurationAddMs  int64           `json:"combo_duration_add_ms"`
	AutoRateAdd         decimal.Decimal `json:"auto_rate_add"`
	PrestigeExponentAdd decimal.Decimal `json:"prestige_exponent_add"`
	PowerEfficiencyAdd  decimal.Decimal `json:"power_efficiency_add"`
}

// =============================================================================
// CODEC
// =============================================================================

// Encode serializes a record.
func Encode(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// Decode parses and structurally validates a record. Any decode failure,
// including a non-numeric value where a number belongs, rejects the whole
// payload.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if r.Version < 1 || r.Version > Version {
		return Record{}, fmt.Errorf("%w: %d", ErrVersion, r.Version)
	}
	return r, nil
}

// =============================================================================
// CLAMPING
// =============================================================================

// Clamp forces every numeric field of a decoded state into its legal
// domain. The record format is trusted structurally by this point; the
// values are not.
func Clamp(s State, cfg config.Balance) State {
	s.Resource = atLeast(s.Resource, decimal.Zero)
	s.Power = atLeast(s.Power, decimal.NewFromInt(1))
	s.UpgradeCost = atLeast(s.UpgradeCost, decimal.NewFromFloat(cfg.InitialPowerCost))
	s.AutoCost = atLeast(s.AutoCost, decimal.NewFromFloat(cfg.InitialAutoCost))
	if s.AutoUnits < 0 {
		s.AutoUnits = 0
	}
	s.AutoRate = between(s.AutoRate,
		decimal.NewFromFloat(cfg.BaseAutoPower), decimal.NewFromFloat(cfg.MaxAutoPower))
	// Temporary boosts never persist; whatever the payload claims, the
	// speed factor always loads as neutral.
	s.AutoSpeedFactor = decimal.NewFromInt(1)
	s.CritChance = between(s.CritChance,
		decimal.NewFromFloat(cfg.BaseCritChance), decimal.NewFromFloat(cfg.MaxCritChance))
	s.CritMultiplier = between(s.CritMultiplier,
		decimal.NewFromFloat(cfg.BaseCritMultiplier), decimal.NewFromFloat(cfg.MaxCritMultiplier))
	if s.ComboDurationMs < cfg.BaseComboDuration {
		s.ComboDurationMs = cfg.BaseComboDuration
	}
	if s.ComboDurationMs > cfg.MaxComboDuration {
		s.ComboDurationMs = cfg.MaxComboDuration
	}
	if s.PrestigePoints < 0 {
		s.PrestigePoints = 0
	}
	s.PrestigeRequirement = atLeast(s.PrestigeRequirement, decimal.NewFromFloat(cfg.PrestigeRequirement))
	if s.TotalActions < 0 {
		s.TotalActions = 0
	}
	if s.BestStreak < 1 {
		s.BestStreak = 1
	}

	s.Bonuses.CritChanceAdd = atLeast(s.Bonuses.CritChanceAdd, decimal.Zero)
	s.Bonuses.CritMultiplierAdd = atLeast(s.Bonuses.CritMultiplierAdd, decimal.Zero)
	if s.Bonuses.ComboDurationAddMs < 0 {
		s.Bonuses.ComboDurationAddMs = 0
	}
	s.Bonuses.AutoRateAdd = atLeast(s.Bonuses.AutoRateAdd, decimal.Zero)
	s.Bonuses.PrestigeExponentAdd = atLeast(s.Bonuses.PrestigeExponentAdd, decimal.Zero)
	s.Bonuses.PowerEfficiencyAdd = atLeast(s.Bonuses.PowerEfficiencyAdd, decimal.Zero)
	return s
}

func atLeast(v, lo decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	return v
}

func between(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
