/*
damage.go - The damage pipeline

PURPOSE:
  Combines ledger stats, combo state, achievement bonuses, and the
  pending one-shot multiplier into a single committed resource delta.
  Pure computation: the only side effects are the RNG draw for the crit
  roll and consuming the one-shot next-hit multiplier.

PIPELINE ORDER:
  1. effCrit     = clamp(critChance + boost + bonus, 0, 1)
  2. effCritMult = critMultiplier + bonus
  3. prestige    = (growth + bonus) ^ prestigePoints
  4. powerEff    = 1 + bonus
  5. amount      = power * powerEff * streak * prestige
  6. amount     *= (1 + comboBonus)
  7. crit roll: uniform draw < effCrit => amount *= effCritMult
  8. pending next-hit multiplier applied and consumed regardless of crit

  The caller commits the result via AddResource.

SEE ALSO:
  - combo.go: Supplies streak and comboBonus
  - effects.go: Arms the next-hit multiplier
*/
package engine

import "github.com/shopspring/decimal"

// RollHit runs the pipeline once for the given combo state.
func (l *Ledger) RollHit(streak int, comboBonus decimal.Decimal, rng RNG) Hit {
	effCrit := clampDec(l.critChance.Add(l.critBoost).Add(l.bonuses.CritChanceAdd), decZero, decOne)
	effCritMult := l.critMultiplier.Add(l.bonuses.CritMultiplierAdd)
	powerEff := decOne.Add(l.bonuses.PowerEfficiencyAdd)

	amount := l.power.
		Mul(powerEff).
		Mul(decInt(int64(streak))).
		Mul(l.prestigeMultiplier())

	amount = amount.Mul(decOne.Add(comboBonus))

	draw := decimal.NewFromFloat(rng.Float64())
	isCrit := draw.LessThan(effCrit)
	if isCrit {
		amount = amount.Mul(effCritMult)
	}

	// The one-shot multiplier is consumed whether or not the hit crit.
	if !l.nextHitMultiplier.Equal(decOne) {
		amount = amount.Mul(l.nextHitMultiplier)
		l.nextHitMultiplier = decOne
	}

	return Hit{Amount: amount, IsCrit: isCrit}
}

// armNextHit sets the pending one-shot multiplier. A second power-up
// before the next hit replaces the pending value rather than stacking.
func (l *Ledger) armNextHit(mult decimal.Decimal) {
	l.nextHitMultiplier = mult
}

// NextHitMultiplier exposes the pending one-shot multiplier (1 = none).
func (l *Ledger) NextHitMultiplier() decimal.Decimal { return l.nextHitMultiplier }
