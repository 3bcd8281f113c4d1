/*
Package catalog provides the standard game content: the achievement
catalog and the power-up catalog.

PURPOSE:
  Keeps content out of the engine mechanics. The engine knows how to
  unlock an achievement or activate an effect; this package says which
  ones exist and what they grant. Custom builds can pass their own
  slices to engine.New.

ACHIEVEMENT GROUPS:
  Punch count:  first/hundred/thousand/hundred-thousand/million actions
  Critical:     single-hit damage threshold, crit chance mastery
  Combo:        best streak tiers
  Automation:   auto unit counts
  Prestige:     first and fifth prestige
  Power:        raw punch power
  Speed:        actions inside the 10s recency window
  Secret:       hidden meta unlock at 10 achievements

SEE ALSO:
  - engine/achievements.go: Unlock mechanics
  - engine/effects.go: Effect kinds referenced by powerups.go
*/
package catalog

import (
	"github.com/aikazu/chpun/engine"
	"github.com/shopspring/decimal"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// =============================================================================
// STANDARD ACHIEVEMENTS
// =============================================================================

// Achievements returns the standard catalog in display order.
func Achievements() []engine.Achievement {
	return []engine.Achievement{
		{
			ID:          "firstPunch",
			Name:        "First Blood... or Punch",
			Description: "Land your first punch",
			Check:       func(s engine.Stats) bool { return s.TotalActions >= 1 },
			Reward:      engine.Reward{Text: "Bragging rights"},
		},
		{
			ID:          "hundredPunches",
			Name:        "Warming Up",
			Description: "Land 100 punches",
			Check:       func(s engine.Stats) bool { return s.TotalActions >= 100 },
			Reward:      engine.Reward{Text: "Bragging rights"},
		},
		{
			ID:          "thousandPunches",
			Name:        "Knuckle Down",
			Description: "Land 1,000 punches",
			Check:       func(s engine.Stats) bool { return s.TotalActions >= 1000 },
			Reward:      engine.Reward{Text: "Bragging rights"},
		},
		{
			ID:          "carpalTunnel",
			Name:        "Carpal Tunnel Here I Come",
			Description: "Land 100,000 punches",
			Check:       func(s engine.Stats) bool { return s.TotalActions >= 100_000 },
			Reward:      engine.Reward{CritChanceAdd: d(0.05), Text: "+5% crit chance"},
		},
		{
			ID:          "onePunchMan",
			Name:        "The One-Punch Man",
			Description: "Land 1,000,000 punches",
			Check:       func(s engine.Stats) bool { return s.TotalActions >= 1_000_000 },
			Reward:      engine.Reward{CritMultiplierAdd: d(2), Text: "+2x crit multiplier"},
		},
		{
			ID:          "over9000",
			Name:        "It's Over 9000!",
			Description: "Deal over 9,000 damage with a single critical hit",
			MassiveHit:  d(9000),
			Reward:      engine.Reward{CritChanceAdd: d(0.1), Text: "+10% crit chance"},
		},
		{
			ID:          "criticalMaster",
			Name:        "Critical Master",
			Description: "Reach 25% critical chance",
			Check:       func(s engine.Stats) bool { return s.CritChance.GreaterThanOrEqual(d(0.25)) },
			Reward:      engine.Reward{CritMultiplierAdd: d(1), Text: "+1x crit multiplier"},
		},
		{
			ID:          "comboStarter",
			Name:        "Combo Starter",
			Description: "Reach a 10-hit combo",
			Check:       func(s engine.Stats) bool { return s.BestStreak >= 10 },
			Reward:      engine.Reward{ComboDurationAddMs: 500, Text: "+0.5s combo duration"},
		},
		{
			ID:          "comboMaster",
			Name:        "Combo Master",
			Description: "Reach a 50-hit combo",
			Check:       func(s engine.Stats) bool { return s.BestStreak >= 50 },
			Reward:      engine.Reward{ComboDurationAddMs: 1000, Text: "+1s combo duration"},
		},
		{
			ID:          "comboGod",
			Name:        "Combo God",
			Description: "Reach a 100-hit combo",
			Check:       func(s engine.Stats) bool { return s.BestStreak >= 100 },
			Reward:      engine.Reward{ComboDurationAddMs: 2000, Text: "+2s combo duration"},
		},
		{
			ID:          "automation",
			Name:        "Automation",
			Description: "Hire your first auto puncher",
			Check:       func(s engine.Stats) bool { return s.AutoUnits >= 1 },
			Reward:      engine.Reward{AutoRateAdd: d(1), Text: "+1 auto puncher power"},
		},
		{
			ID:          "autoArmy",
			Name:        "Auto Army",
			Description: "Hire 10 auto punchers",
			Check:       func(s engine.Stats) bool { return s.AutoUnits >= 10 },
			Reward:      engine.Reward{AutoRateAdd: d(5), Text: "+5 auto puncher power"},
		},
		{
			ID:          "inevitable",
			Name:        "I Am Inevitable",
			Description: "Prestige for the first time",
			Check:       func(s engine.Stats) bool { return s.PrestigePoints >= 1 },
			Reward:      engine.Reward{PrestigePoints: 1, Text: "+1 prestige point"},
		},
		{
			ID:          "prestigeMaster",
			Name:        "Prestige Master",
			Description: "Prestige 5 times",
			Check:       func(s engine.Stats) bool { return s.PrestigePoints >= 5 },
			Reward:      engine.Reward{PrestigeExponentAdd: d(0.2), Text: "+0.2 prestige multiplier growth"},
		},
		{
			ID:          "powerHouse",
			Name:        "Power House",
			Description: "Reach 100 punch power",
			Check:       func(s engine.Stats) bool { return s.Power.GreaterThanOrEqual(d(100)) },
			Reward:      engine.Reward{PowerEfficiencyAdd: d(0.5), Text: "+50% power efficiency"},
		},
		{
			ID:          "speedDemon",
			Name:        "Speed Demon",
			Description: "Land 100 punches within 10 seconds",
			Check:       func(s engine.Stats) bool { return s.RecentActions >= 100 },
			Reward:      engine.Reward{Text: "Bragging rights"},
		},
		{
			ID:          "secretPuncher",
			Name:        "The Secret Puncher",
			Description: "Unlock 10 other achievements",
			Hidden:      true,
			Check:       func(s engine.Stats) bool { return s.UnlockedCount >= 10 },
			Reward: engine.Reward{
				CritChanceAdd:      d(0.25),
				CritMultiplierAdd:  d(5),
				ComboDurationAddMs: 5000,
				AutoRateAdd:        d(10),
				Text:               "Massive bonuses to everything",
			},
		},
	}
}
