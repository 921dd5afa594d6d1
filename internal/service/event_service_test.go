package service

import (
	"testing"

	"venuecal/internal/events"
	"venuecal/internal/models"
	"venuecal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventFixture(t *testing.T, now int64) (*EventService, *BookingService, *store.EventStore, *store.BookingStore) {
	t.Helper()
	bookings := store.NewBookingStore(testClock(now), nil)
	eventsSt := store.NewEventStore(testClock(now), nil)
	bus := events.NewEventBus()
	evSvc := NewEventService(eventsSt, bookings, bus, testLogger())
	bkSvc := NewBookingService(bookings, eventsSt, bus, testClock(now), testLogger())
	return evSvc, bkSvc, eventsSt, bookings
}

func weddingEvent(date, plannerID string) *models.VenueEvent {
	return &models.VenueEvent{
		Name:      "Santos wedding",
		Date:      date,
		EventType: models.EventTypeWedding,
		Details:   models.WeddingDetails{Category: models.WeddingCeremonyReception},
		Financials: models.EventFinancials{
			VenueRentalFee: 4500,
			PlannerID:      plannerID,
			Payment:        models.PaymentInfo{Status: models.PaymentPending},
		},
	}
}

func TestEventCreate_ClaimsDate(t *testing.T) {
	evSvc, bkSvc, _, bookings := newEventFixture(t, 1_000_000)

	id, err := evSvc.Create(adminUser, weddingEvent("2026-09-05", "p-1"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Equal(t, models.StatusBooked, bkSvc.EffectiveStatus("2026-09-05"))
	b, ok := bookings.Get("2026-09-05")
	require.True(t, ok)
	assert.Equal(t, "p-1", b.PlannerID)
}

func TestEventCreate_RejectsInvalid(t *testing.T) {
	evSvc, _, _, _ := newEventFixture(t, 1_000_000)

	_, err := evSvc.Create(adminUser, weddingEvent("05/09/2026", "p-1"))
	assert.ErrorIs(t, err, ErrInvalidDate)

	bad := weddingEvent("2026-09-05", "p-1")
	bad.EventType = "gala"
	_, err = evSvc.Create(adminUser, bad)
	assert.ErrorIs(t, err, models.ErrInvalidEventType)
}

func TestEventDelete_ReleasesDate(t *testing.T) {
	evSvc, bkSvc, _, bookings := newEventFixture(t, 1_000_000)

	id, err := evSvc.Create(adminUser, weddingEvent("2026-09-05", "p-1"))
	require.NoError(t, err)

	require.NoError(t, evSvc.Delete(adminUser, id))

	// The date reverts to available; nothing lingers in the store.
	assert.Equal(t, models.StatusAvailable, bkSvc.EffectiveStatus("2026-09-05"))
	_, ok := bookings.Get("2026-09-05")
	assert.False(t, ok)

	assert.ErrorIs(t, evSvc.Delete(adminUser, id), store.ErrNotFound)
}

func TestEventUpdate_MovesDate(t *testing.T) {
	evSvc, bkSvc, _, _ := newEventFixture(t, 1_000_000)

	id, err := evSvc.Create(adminUser, weddingEvent("2026-09-05", "p-1"))
	require.NoError(t, err)

	newDate := "2026-09-12"
	updated, err := evSvc.Update(adminUser, id, &models.EventPatch{Date: &newDate})
	require.NoError(t, err)
	assert.Equal(t, newDate, updated.Date)

	assert.Equal(t, models.StatusAvailable, bkSvc.EffectiveStatus("2026-09-05"))
	assert.Equal(t, models.StatusBooked, bkSvc.EffectiveStatus("2026-09-12"))
}

func TestEventUpdate_InvalidMergeRollsBack(t *testing.T) {
	evSvc, _, eventsSt, _ := newEventFixture(t, 1_000_000)

	id, err := evSvc.Create(adminUser, weddingEvent("2026-09-05", "p-1"))
	require.NoError(t, err)

	badType := "gala"
	_, err = evSvc.Update(adminUser, id, &models.EventPatch{EventType: &badType})
	require.ErrorIs(t, err, models.ErrInvalidEventType)

	kept, ok := eventsSt.Get(id)
	require.True(t, ok)
	assert.Equal(t, models.EventTypeWedding, kept.EventType)
}

func TestEventVisibility_PlannerScoped(t *testing.T) {
	evSvc, _, _, _ := newEventFixture(t, 1_000_000)

	mine, err := evSvc.Create(adminUser, weddingEvent("2026-09-05", "p-1"))
	require.NoError(t, err)
	other, err := evSvc.Create(adminUser, weddingEvent("2026-09-06", "p-2"))
	require.NoError(t, err)

	planner := plannerUser("p-1")

	all := evSvc.AllForUser(planner)
	require.Len(t, all, 1)
	assert.Equal(t, mine, all[0].ID)

	_, ok := evSvc.Get(planner, other)
	assert.False(t, ok)
	_, ok = evSvc.ByDate(planner, "2026-09-06")
	assert.False(t, ok)

	pending := evSvc.PendingPayments(planner)
	require.Len(t, pending, 1)
	assert.Equal(t, mine, pending[0].ID)

	assert.Len(t, evSvc.AllForUser(adminUser), 2)
}

func TestEventMutation_PlannerScoped(t *testing.T) {
	evSvc, bkSvc, eventsSt, _ := newEventFixture(t, 1_000_000)

	mine, err := evSvc.Create(adminUser, weddingEvent("2026-09-05", "p-1"))
	require.NoError(t, err)
	other, err := evSvc.Create(adminUser, weddingEvent("2026-09-06", "p-2"))
	require.NoError(t, err)

	planner := plannerUser("p-1")

	// Foreign events are untouchable and indistinguishable from missing
	// ones; the response must not leak their financials either.
	newName := "renamed"
	updated, err := evSvc.Update(planner, other, &models.EventPatch{Name: &newName})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Nil(t, updated)

	assert.ErrorIs(t, evSvc.Delete(planner, other), store.ErrNotFound)

	kept, ok := eventsSt.Get(other)
	require.True(t, ok)
	assert.Equal(t, "Santos wedding", kept.Name)
	assert.Equal(t, models.StatusBooked, bkSvc.EffectiveStatus("2026-09-06"))

	// Own events stay fully mutable.
	updated, err = evSvc.Update(planner, mine, &models.EventPatch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	require.NoError(t, evSvc.Delete(planner, mine))
}
