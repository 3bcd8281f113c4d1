/*
store.go - Persistence interface for save records

PURPOSE:
  The engine persists through this interface and treats every failure as
  best-effort: a save error is logged, never surfaced to the caller of a
  gameplay action, and a load error degrades to default state.

LOAD CONTRACT:
  Load returns (nil, nil) when no record exists. A present-but-corrupt
  record returns (nil, err); the caller logs and falls back to defaults.
  There is never a partial record.

IMPLEMENTATIONS:
  - store/sqlite: Durable, WAL-mode SQLite
  - save/store:   In-memory, for tests and dev servers
*/
package save

import "context"

// Store persists the single logical save record.
type Store interface {
	// Load returns the saved record, or (nil, nil) when none exists.
	Load(ctx context.Context) (*Record, error)

	// Save overwrites the record.
	Save(ctx context.Context, r Record) error

	// Clear removes the record entirely (full game reset).
	Clear(ctx context.Context) error
}
