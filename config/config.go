/*
Package config holds all gameplay balance tunables.

PURPOSE:
  Every constant that shapes the economy lives here: base stats, upgrade
  increments and caps, cost curves, combo timing, prestige scaling, and
  power-up spawn behavior. The engine never hard-codes a balance number;
  it reads this struct.

DESIGN:
  Default() returns the canonical balance. A yaml file can override any
  subset of fields via Load(); omitted fields keep their defaults, so a
  partial override file is valid.

EXAMPLE:
  cfg, err := config.Load("./balance.yaml")
  if err != nil { ... }
  eng := engine.New(cfg, ...)

SEE ALSO:
  - engine/ledger.go: Consumes cost curves and caps
  - engine/combo.go: Consumes combo timing and milestone table
*/
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// BALANCE - Gameplay tuning
// =============================================================================

// Balance is the full set of gameplay tunables.
type Balance struct {
	// Base stats
	BaseCritChance     float64 `yaml:"base_crit_chance"`
	MaxCritChance      float64 `yaml:"max_crit_chance"`
	CritChanceStep     float64 `yaml:"crit_chance_step"`
	BaseCritMultiplier float64 `yaml:"base_crit_multiplier"`
	MaxCritMultiplier  float64 `yaml:"max_crit_multiplier"`
	BaseComboDuration  int64   `yaml:"base_combo_duration_ms"`
	MaxComboDuration   int64   `yaml:"max_combo_duration_ms"`
	ComboDurationStep  int64   `yaml:"combo_duration_step_ms"`
	BaseAutoPower      float64 `yaml:"base_auto_power"`
	MaxAutoPower       float64 `yaml:"max_auto_power"`

	// Cost curves: cost = ceil(base * growth^level)
	InitialPowerCost   float64 `yaml:"initial_power_cost"`
	PowerCostGrowth    float64 `yaml:"power_cost_growth"`
	InitialAutoCost    float64 `yaml:"initial_auto_cost"`
	AutoCostGrowth     float64 `yaml:"auto_cost_growth"`
	CritChanceCostBase float64 `yaml:"crit_chance_cost_base"`
	CritChanceCostGrow float64 `yaml:"crit_chance_cost_growth"`
	CritMultCostBase   float64 `yaml:"crit_mult_cost_base"`
	CritMultCostGrow   float64 `yaml:"crit_mult_cost_growth"`
	ComboDurCostBase   float64 `yaml:"combo_dur_cost_base"`
	ComboDurCostGrow   float64 `yaml:"combo_dur_cost_growth"`
	AutoPowerCostBase  float64 `yaml:"auto_power_cost_base"`
	AutoPowerCostGrow  float64 `yaml:"auto_power_cost_growth"`

	// Prestige
	PrestigeRequirement float64 `yaml:"prestige_requirement"`
	PrestigeCostFactor  float64 `yaml:"prestige_cost_factor"`
	PrestigeRetention   float64 `yaml:"prestige_retention"`
	PrestigeBaseGrowth  float64 `yaml:"prestige_base_growth"`

	// Timers
	AutoTickMs     int64 `yaml:"auto_tick_ms"`
	AutosaveMs     int64 `yaml:"autosave_ms"`
	RecentWindowMs int64 `yaml:"recent_window_ms"`

	// Power-up spawning
	SpawnMinMs int64 `yaml:"spawn_min_ms"`
	SpawnMaxMs int64 `yaml:"spawn_max_ms"`
	OfferTTLMs int64 `yaml:"offer_ttl_ms"`
	MaxOffers  int   `yaml:"max_offers"`
}

// Default returns the canonical balance. Values match the long-standing
// tuning of the game: prestige at one million, crit capped at 50%, combo
// timer capped at ten seconds.
func Default() Balance {
	return Balance{
		BaseCritChance:     0.05,
		MaxCritChance:      0.5,
		CritChanceStep:     0.005,
		BaseCritMultiplier: 5,
		MaxCritMultiplier:  20,
		BaseComboDuration:  3000,
		MaxComboDuration:   10000,
		ComboDurationStep:  100,
		BaseAutoPower:      1,
		MaxAutoPower:       100,

		InitialPowerCost:   10,
		PowerCostGrowth:    1.5,
		InitialAutoCost:    50,
		AutoCostGrowth:     1.5,
		CritChanceCostBase: 100,
		CritChanceCostGrow: 2,
		CritMultCostBase:   500,
		CritMultCostGrow:   3,
		ComboDurCostBase:   200,
		ComboDurCostGrow:   1.8,
		AutoPowerCostBase:  1000,
		AutoPowerCostGrow:  2.5,

		PrestigeRequirement: 1_000_000,
		PrestigeCostFactor:  2,
		PrestigeRetention:   0.5,
		PrestigeBaseGrowth:  1.1,

		AutoTickMs:     1000,
		AutosaveMs:     30000,
		RecentWindowMs: 10000,

		SpawnMinMs: 10000,
		SpawnMaxMs: 20000,
		OfferTTLMs: 5000,
		MaxOffers:  3,
	}
}

// Load reads a yaml override file on top of Default(). Missing file is an
// error; use Default() directly when no override is wanted.
func Load(path string) (Balance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, fmt.Errorf("read balance config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Balance{}, fmt.Errorf("parse balance config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Balance{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (b Balance) Validate() error {
	switch {
	case b.BaseCritChance < 0 || b.BaseCritChance > b.MaxCritChance:
		return fmt.Errorf("base_crit_chance %v outside [0, %v]", b.BaseCritChance, b.MaxCritChance)
	case b.MaxCritChance > 1:
		return fmt.Errorf("max_crit_chance %v above 1", b.MaxCritChance)
	case b.BaseComboDuration <= 0 || b.BaseComboDuration > b.MaxComboDuration:
		return fmt.Errorf("base_combo_duration_ms %v outside (0, %v]", b.BaseComboDuration, b.MaxComboDuration)
	case b.PrestigeRequirement <= 0:
		return fmt.Errorf("prestige_requirement must be positive, got %v", b.PrestigeRequirement)
	case b.PrestigeRetention < 0 || b.PrestigeRetention > 1:
		return fmt.Errorf("prestige_retention %v outside [0, 1]", b.PrestigeRetention)
	case b.SpawnMinMs <= 0 || b.SpawnMaxMs < b.SpawnMinMs:
		return fmt.Errorf("spawn window [%v, %v] invalid", b.SpawnMinMs, b.SpawnMaxMs)
	case b.MaxOffers <= 0:
		return fmt.Errorf("max_offers must be positive, got %v", b.MaxOffers)
	}
	return nil
}
