/*
powerups.go - Standard power-up catalog

PURPOSE:
  The fixed set of spawnable power-ups with their rarity weighting.
  Selection probability is the entry's rarity weight over the catalog
  total (common 70, uncommon 20, rare 8, epic 2).

SEE ALSO:
  - engine/spawner.go: Weighted selection and offer lifecycle
  - engine/effects.go: What each kind does on activation
*/
package catalog

import "github.com/aikazu/chpun/engine"

// PowerUps returns the standard catalog in spawn-tie-break order.
func PowerUps() []engine.PowerUp {
	return []engine.PowerUp{
		{
			ID:     "punchsplosion",
			Name:   "Punch-splosion",
			Rarity: engine.RarityCommon,
			Kind:   engine.KindInstantResource,
			Value:  d(100), // 100x current power, instantly
		},
		{
			ID:         "luckyGloves",
			Name:       "Lucky Gloves",
			Rarity:     engine.RarityCommon,
			Kind:       engine.KindCritBoost,
			Value:      d(0.25),
			DurationMs: 15000,
		},
		{
			ID:     "secondWind",
			Name:   "Second Wind",
			Rarity: engine.RarityCommon,
			Kind:   engine.KindComboExtend,
			Value:  d(5000), // +5s on the live combo timer
		},
		{
			ID:         "frenzy",
			Name:       "Frenzy Mode",
			Rarity:     engine.RarityUncommon,
			Kind:       engine.KindPowerMultiplier,
			Value:      d(10),
			DurationMs: 10000,
		},
		{
			ID:         "overdrive",
			Name:       "Overdrive",
			Rarity:     engine.RarityUncommon,
			Kind:       engine.KindAutoBoost,
			Value:      d(3),
			DurationMs: 20000,
		},
		{
			ID:     "suckerPunch",
			Name:   "Sucker Punch",
			Rarity: engine.RarityRare,
			Kind:   engine.KindNextHit,
			Value:  d(50),
		},
		{
			ID:     "timeWarp",
			Name:   "Time Warp",
			Rarity: engine.RarityRare,
			Kind:   engine.KindTimeWarp,
			Value:  d(60), // one minute of auto generation, instantly
		},
		{
			ID:         "godMode",
			Name:       "God Mode",
			Rarity:     engine.RarityEpic,
			Kind:       engine.KindGodMode,
			Value:      d(20),
			CritBoost:  d(0.5),
			DurationMs: 8000,
		},
	}
}
