/*
errors.go - Centralized error types for the progression engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Callers (HTTP handlers, persistence) classify failures with errors.Is
  and the helper predicates below.

ERROR CATEGORIES:
  1. Input errors     - Bad amounts handed to the ledger
  2. Economy errors   - Insufficient funds, capped stats, prestige gating
  3. Registry errors  - Unknown power-up offers and upgrade kinds
  4. Save errors      - Corrupt or rejected import payloads

DEGRADATION CONTRACT:
  Nothing here is fatal. Every error means "no mutation occurred";
  the caller decides whether to surface it or log it.

SEE ALSO:
  - ledger.go: Returns economy errors
  - spawner.go: Returns ErrOfferNotFound
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAmount is returned when a negative or non-finite amount is
	// passed to Spend or AddResource. The ledger is untouched.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds is returned when the resource balance cannot
	// cover a spend. Not an exceptional condition, just a declined purchase.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStatCapped is returned when an upgrade target is already at its
	// configured cap. Cost queries report zero for capped stats.
	ErrStatCapped = errors.New("stat at cap")

	// ErrPrestigeUnavailable is returned when resource is below the
	// prestige requirement.
	ErrPrestigeUnavailable = errors.New("prestige requirement not met")

	// ErrOfferNotFound is returned when collecting a power-up offer that
	// has despawned or was already collected.
	ErrOfferNotFound = errors.New("power-up offer not found")

	// ErrUnknownUpgrade is returned for an unrecognized upgrade kind.
	ErrUnknownUpgrade = errors.New("unknown upgrade kind")

	// ErrCorruptSave is returned when an import payload is structurally
	// invalid. The payload is rejected wholesale; no partial apply.
	ErrCorruptSave = errors.New("corrupt save data")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientFundsError reports how short a purchase fell.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s",
		e.Available.String(), e.Requested.String())
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to a declined or invalid
// player action rather than an internal fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrStatCapped) ||
		errors.Is(err, ErrPrestigeUnavailable) ||
		errors.Is(err, ErrCorruptSave)
}

// IsNotFound returns true if the error indicates a missing offer or upgrade.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOfferNotFound) ||
		errors.Is(err, ErrUnknownUpgrade)
}
