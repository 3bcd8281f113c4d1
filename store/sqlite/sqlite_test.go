package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikazu/chpun/save"
)

func newTestStore(t *testing.T) *Store {
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(resource int64) save.Record {
	return save.Record{
		Version:   save.Version,
		Timestamp: 1_750_000_000_000,
		State: save.State{
			Resource:            decimal.NewFromInt(resource),
			Power:               decimal.NewFromInt(3),
			UpgradeCost:         decimal.NewFromInt(23),
			AutoCost:            decimal.NewFromInt(50),
			AutoRate:            decimal.NewFromInt(1),
			AutoSpeedFactor:     decimal.NewFromInt(1),
			CritChance:          decimal.NewFromFloat(0.05),
			CritMultiplier:      decimal.NewFromInt(5),
			ComboDurationMs:     3000,
			PrestigeRequirement: decimal.NewFromInt(1_000_000),
			BestStreak:          1,
		},
	}
}

func TestSQLiteStore_EmptySlotLoadsNil(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec, "no save yet is not an error")
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, record(777)))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, save.Version, got.Version)
	assert.Equal(t, "777", got.State.Resource.String())
	assert.Equal(t, "0.05", got.State.CritChance.String())
}

func TestSQLiteStore_SaveOverwritesSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, record(1)))
	require.NoError(t, s.Save(ctx, record(2)))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2", got.State.Resource.String(), "latest save wins")
}

func TestSQLiteStore_ClearEmptiesSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, record(5)))
	require.NoError(t, s.Clear(ctx))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Clearing an already-empty slot is fine.
	require.NoError(t, s.Clear(ctx))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	// GIVEN: A save written to a file-backed database
	// WHEN: Closing and reopening the store
	// THEN: The save is still there

	path := filepath.Join(t.TempDir(), "chpun.db")

	s1, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s1.Save(context.Background(), record(99)))
	require.NoError(t, s1.Close())

	s2, err := New(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "99", got.State.Resource.String())
}

func TestSQLiteStore_CorruptPayloadSurfacesDecodeError(t *testing.T) {
	// A corrupt row reports a load error so the engine can fall back to
	// defaults instead of trusting partial data.

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, record(1)))

	// Sabotage the stored payload directly.
	_, err := s.db.Exec(`UPDATE saves SET payload = '{"version":' WHERE slot = 'default'`)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	assert.True(t, errors.Is(err, save.ErrMalformed))
}
