/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific formatting (decimals as strings, durations as ms)
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

DECIMAL FORMATTING:
  All resource quantities cross the wire as decimal strings, never as
  floats. Late-game values exceed float64 integer precision and clients
  are expected to parse them with an arbitrary-precision library.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/engine.go: View, the snapshot these map from
*/
package api

import (
	"time"

	"github.com/aikazu/chpun/engine"
)

// =============================================================================
// GAME STATE
// =============================================================================

// StateDTO is the full renderable game state.
type StateDTO struct {
	Resource            string       `json:"resource"`
	Power               string       `json:"power"`
	ComboStreak         int          `json:"combo_streak"`
	ComboBonus          string       `json:"combo_bonus"`
	ComboRemainingMs    int64        `json:"combo_remaining_ms"`
	ComboDurationMs     int64        `json:"combo_duration_ms"`
	CritChance          string       `json:"crit_chance"`
	CritMultiplier      string       `json:"crit_multiplier"`
	AutoUnits           int          `json:"auto_units"`
	AutoRate            string       `json:"auto_rate"`
	AutoSpeedFactor     string       `json:"auto_speed_factor"`
	PrestigePoints      int          `json:"prestige_points"`
	PrestigeRequirement string       `json:"prestige_requirement"`
	CanPrestige         bool         `json:"can_prestige"`
	TotalActions        int64        `json:"total_actions"`
	BestStreak          int          `json:"best_streak"`
	Upgrades            []UpgradeDTO `json:"upgrades"`
	Effects             []EffectDTO  `json:"effects"`
	Offers              []PowerUpDTO `json:"power_ups"`
	Bonuses             BonusesDTO   `json:"bonuses"`
}

// UpgradeDTO pairs an upgrade kind with its next-level cost. A zero cost
// means the stat is at its cap.
type UpgradeDTO struct {
	Kind string `json:"kind"`
	Cost string `json:"cost"`
}

// BonusesDTO reports the permanent achievement reward deltas.
type BonusesDTO struct {
	CritChanceAdd       string `json:"crit_chance_add"`
	CritMultiplierAdd   string `json:"crit_multiplier_add"`
	ComboDurationAddMs  int64  `json:"combo_duration_add_ms"`
	AutoRateAdd         string `json:"auto_rate_add"`
	PrestigeExponentAdd string `json:"prestige_exponent_add"`
	PowerEfficiencyAdd  string `json:"power_efficiency_add"`
}

// =============================================================================
// ACTIONS
// =============================================================================

// PunchResponse reports the outcome of a single action.
type PunchResponse struct {
	Amount      string `json:"amount"`
	Crit        bool   `json:"crit"`
	ComboStreak int    `json:"combo_streak"`
	Resource    string `json:"resource"`
}

// UpgradeResponse confirms a purchase with the post-purchase numbers.
type UpgradeResponse struct {
	Kind     string `json:"kind"`
	NextCost string `json:"next_cost"`
	Resource string `json:"resource"`
}

// PrestigeResponse reports the new permanent standing after a reset.
type PrestigeResponse struct {
	PrestigePoints      int    `json:"prestige_points"`
	PrestigeRequirement string `json:"prestige_requirement"`
}

// =============================================================================
// EFFECTS AND POWER-UPS
// =============================================================================

// EffectDTO is a currently live timed effect.
type EffectDTO struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	RemainingMs int64  `json:"remaining_ms"`
}

// PowerUpDTO is a collectible offer currently on display.
type PowerUpDTO struct {
	ID          int64  `json:"id"`
	PowerUpID   string `json:"power_up_id"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	Kind        string `json:"kind"`
	RemainingMs int64  `json:"remaining_ms"`
}

// =============================================================================
// ACHIEVEMENTS
// =============================================================================

// AchievementDTO is a catalog entry with unlock status. Hidden entries
// keep their name and description masked until unlocked.
type AchievementDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Hidden      bool   `json:"hidden"`
	Unlocked    bool   `json:"unlocked"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPING
// =============================================================================

func toStateDTO(v engine.View, now time.Time) StateDTO {
	upgrades := make([]UpgradeDTO, 0, len(engine.AllUpgrades()))
	for _, kind := range engine.AllUpgrades() {
		upgrades = append(upgrades, UpgradeDTO{
			Kind: string(kind),
			Cost: v.Costs[kind].String(),
		})
	}

	effects := make([]EffectDTO, 0, len(v.Effects))
	for _, fx := range v.Effects {
		effects = append(effects, EffectDTO{
			ID:          fx.ID,
			Kind:        string(fx.Kind),
			Name:        fx.Name,
			RemainingMs: remainingMs(fx.ExpiresAt, now),
		})
	}

	offers := make([]PowerUpDTO, 0, len(v.Offers))
	for _, o := range v.Offers {
		offers = append(offers, PowerUpDTO{
			ID:          o.ID,
			PowerUpID:   o.PowerUp.ID,
			Name:        o.PowerUp.Name,
			Rarity:      string(o.PowerUp.Rarity),
			Kind:        string(o.PowerUp.Kind),
			RemainingMs: remainingMs(o.ExpiresAt, now),
		})
	}

	return StateDTO{
		Resource:            v.Resource.String(),
		Power:               v.Power.String(),
		ComboStreak:         v.ComboStreak,
		ComboBonus:          v.ComboBonus.String(),
		ComboRemainingMs:    v.ComboRemaining.Milliseconds(),
		ComboDurationMs:     v.ComboDurationMs,
		CritChance:          v.CritChance.String(),
		CritMultiplier:      v.CritMultiplier.String(),
		AutoUnits:           v.AutoUnits,
		AutoRate:            v.AutoRate.String(),
		AutoSpeedFactor:     v.AutoSpeedFactor.String(),
		PrestigePoints:      v.PrestigePoints,
		PrestigeRequirement: v.PrestigeRequirement.String(),
		CanPrestige:         v.CanPrestige,
		TotalActions:        v.TotalActions,
		BestStreak:          v.BestStreak,
		Upgrades:            upgrades,
		Effects:             effects,
		Offers:              offers,
		Bonuses: BonusesDTO{
			CritChanceAdd:       v.Bonuses.CritChanceAdd.String(),
			CritMultiplierAdd:   v.Bonuses.CritMultiplierAdd.String(),
			ComboDurationAddMs:  v.Bonuses.ComboDurationAddMs,
			AutoRateAdd:         v.Bonuses.AutoRateAdd.String(),
			PrestigeExponentAdd: v.Bonuses.PrestigeExponentAdd.String(),
			PowerEfficiencyAdd:  v.Bonuses.PowerEfficiencyAdd.String(),
		},
	}
}

func remainingMs(deadline, now time.Time) int64 {
	ms := deadline.Sub(now).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}
