/*
Package sqlite provides the SQLite-backed save.Store implementation.

PURPOSE:
  Durable persistence for the single logical save record. The record is
  stored as its encoded JSON payload in a one-row-per-slot table; the
  codec in the save package remains the only place that understands the
  format.

SCHEMA:
  saves(slot TEXT PRIMARY KEY, version INTEGER, saved_at INTEGER, payload TEXT)

  Schema is auto-migrated on New(). Only the default slot is used today;
  the slot column exists so profiles can be added without a migration.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the autosave writer
  - Better crash recovery

CORRUPTION:
  A payload that fails to decode is reported as a load error; the engine
  logs it and falls back to defaults. The corrupt row is left in place
  for inspection and is overwritten by the next save.

USAGE:
  store, err := sqlite.New("./chpun.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - save/store.go: Interface contract
  - save/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aikazu/chpun/save"
)

const defaultSlot = "default"

// Store implements save.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ save.Store = (*Store)(nil)

// New creates a new SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS saves (
			slot     TEXT PRIMARY KEY,
			version  INTEGER NOT NULL,
			saved_at INTEGER NOT NULL,
			payload  TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the saved record, (nil, nil) when the slot is empty.
func (s *Store) Load(ctx context.Context) (*save.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM saves WHERE slot = ?`, defaultSlot,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load save: %w", err)
	}

	r, err := save.Decode([]byte(payload))
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Save upserts the record into the default slot.
func (s *Store) Save(ctx context.Context, r save.Record) error {
	data, err := save.Encode(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (slot, version, saved_at, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			version = excluded.version,
			saved_at = excluded.saved_at,
			payload = excluded.payload
	`, defaultSlot, r.Version, r.Timestamp, string(data))
	if err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// Clear deletes the default slot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, defaultSlot); err != nil {
		return fmt.Errorf("failed to clear save: %w", err)
	}
	return nil
}
