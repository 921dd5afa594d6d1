package store

import (
	"testing"

	"venuecal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(millis int64) func() int64 {
	return func() int64 { return millis }
}

func TestBookingStoreSetAvailableDeletesRecord(t *testing.T) {
	s := NewBookingStore(fixedNow(1000), nil)
	s.SetStatus("2025-03-10", models.StatusOnHold, "client", "", nil)
	require.Equal(t, 1, s.Len())

	s.SetStatus("2025-03-10", models.StatusAvailable, "", "", nil)
	assert.Equal(t, 0, s.Len())

	// Idempotent: releasing an already-available date must not panic or err.
	s.SetStatus("2025-03-10", models.StatusAvailable, "", "", nil)
	assert.Equal(t, 0, s.Len())
}

func TestBookingStoreCustomDaysOnlyKeptForHolds(t *testing.T) {
	s := NewBookingStore(fixedNow(1000), nil)
	five := 5
	b := s.SetStatus("2025-03-10", models.StatusBooked, "", "", &five)
	require.NotNil(t, b)
	assert.Nil(t, b.CustomHoldDays)

	b = s.SetStatus("2025-03-11", models.StatusOnHold, "", "", &five)
	require.NotNil(t, b)
	require.NotNil(t, b.CustomHoldDays)
	assert.Equal(t, 5, *b.CustomHoldDays)
}

func TestBookingStoreActiveFiltersLapsedHolds(t *testing.T) {
	s := NewBookingStore(fixedNow(0), nil)
	s.SetStatus("2025-03-10", models.StatusOnHold, "", "", nil)
	s.SetStatus("2025-03-11", models.StatusBooked, "", "", nil)

	after := models.DefaultHoldDurationMillis + 1
	active := s.Active(after)
	assert.NotContains(t, active, "2025-03-10")
	assert.Contains(t, active, "2025-03-11")

	// The raw map still holds the lapsed record until the sweep runs.
	assert.Equal(t, 2, s.Len())
}

func TestBookingStoreSweepExpired(t *testing.T) {
	var changes int
	s := NewBookingStore(fixedNow(0), func(string) { changes++ })
	three := 3
	s.SetStatus("2025-03-10", models.StatusOnHold, "", "", &three)
	s.SetStatus("2025-03-11", models.StatusOnHold, "", "", nil)
	s.SetStatus("2025-03-12", models.StatusBooked, "", "", nil)
	changes = 0

	removed := s.SweepExpired(3*models.DayMillis + 1)
	assert.Equal(t, []string{"2025-03-10"}, removed)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, changes)

	// Nothing left to sweep: no change notification.
	removed = s.SweepExpired(3*models.DayMillis + 1)
	assert.Empty(t, removed)
	assert.Equal(t, 1, changes)
}

func TestBookingStoreHoldDurationBounds(t *testing.T) {
	s := NewBookingStore(nil, nil)
	assert.ErrorIs(t, s.SetHoldDurationDays(0), ErrInvalidHoldDays)
	assert.ErrorIs(t, s.SetHoldDurationDays(91), ErrInvalidHoldDays)

	require.NoError(t, s.SetHoldDurationDays(14))
	assert.Equal(t, 14*models.DayMillis, s.HoldDuration())
	assert.Equal(t, 14, s.HoldDurationDays())
}

func TestBookingStoreActiveSortedAscending(t *testing.T) {
	s := NewBookingStore(fixedNow(0), nil)
	s.SetStatus("2025-03-12", models.StatusBooked, "", "", nil)
	s.SetStatus("2025-03-10", models.StatusBooked, "", "", nil)
	s.SetStatus("2025-03-11", models.StatusBooked, "", "", nil)

	sorted := s.ActiveSorted(0)
	require.Len(t, sorted, 3)
	assert.Equal(t, "2025-03-10", sorted[0].Date)
	assert.Equal(t, "2025-03-12", sorted[2].Date)
}

func TestBookingStoreSnapshotRoundTrip(t *testing.T) {
	s := NewBookingStore(fixedNow(500), nil)
	s.SetStatus("2025-03-10", models.StatusOnHold, "note", "p1", nil)
	require.NoError(t, s.SetHoldDurationDays(10))

	snap := s.Snapshot()

	restored := NewBookingStore(nil, nil)
	restored.Restore(snap)
	b, ok := restored.Get("2025-03-10")
	require.True(t, ok)
	assert.Equal(t, "note", b.Note)
	assert.Equal(t, int64(500), b.SetAt)
	assert.Equal(t, 10*models.DayMillis, restored.HoldDuration())
}
