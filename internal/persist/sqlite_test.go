package persist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	payload := []byte(`{"bookings":{"2026-06-15":{"status":"on-hold"}},"holdDuration":604800000}`)
	require.NoError(t, db.SaveSnapshot(ctx, "bookings", payload))

	got, err := db.LoadSnapshot(ctx, "bookings")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Saving again overwrites wholesale.
	updated := []byte(`{"bookings":{},"holdDuration":604800000}`)
	require.NoError(t, db.SaveSnapshot(ctx, "bookings", updated))

	got, err = db.LoadSnapshot(ctx, "bookings")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestLoadSnapshotMissing(t *testing.T) {
	db := newTestDB(t)

	_, err := db.LoadSnapshot(context.Background(), "events")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestStores(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveSnapshot(ctx, "events", []byte("{}")))
	require.NoError(t, db.SaveSnapshot(ctx, "bookings", []byte("{}")))

	names, err := db.Stores(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bookings", "events"}, names)
}
