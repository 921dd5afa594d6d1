package service

import (
	"testing"

	"venuecal/internal/models"
	"venuecal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatsFixture(t *testing.T, now int64) (*StatsService, *store.BookingStore, *store.EventStore, *store.ExpenseStore, *store.PlannerStore) {
	t.Helper()
	bookings := store.NewBookingStore(testClock(now), nil)
	eventsSt := store.NewEventStore(testClock(now), nil)
	expenses := store.NewExpenseStore(testClock(now), nil)
	planners := store.NewPlannerStore(testClock(now), nil)
	svc := NewStatsService(bookings, eventsSt, expenses, planners, testClock(now), testLogger())
	return svc, bookings, eventsSt, expenses, planners
}

func TestSummary_AdminSeesExpensesPlannerDoesNot(t *testing.T) {
	svc, _, eventsSt, expenses, _ := newStatsFixture(t, 1_000_000)

	eventsSt.Add(weddingEvent("2026-09-05", "p-1"))
	eventsSt.Add(weddingEvent("2026-09-06", "p-2"))
	expenses.Add("2026-09-01", "electricity", 300, "")

	admin := svc.Summary(adminUser)
	require.NotNil(t, admin.TotalExpenses)
	assert.Equal(t, 300.0, *admin.TotalExpenses)
	assert.Equal(t, 9000.0, admin.TotalIncome)

	planner := svc.Summary(plannerUser("p-1"))
	assert.Nil(t, planner.TotalExpenses)
	assert.Equal(t, 4500.0, planner.TotalIncome)
	assert.Equal(t, 1, planner.EventCount)
}

func TestCalendarStats_CountsEffectiveStatuses(t *testing.T) {
	now := int64(1_000_000)
	svc, bookings, _, _, _ := newStatsFixture(t, now)

	bookings.SetStatus("2026-09-01", models.StatusBooked, "", "", nil)
	bookings.SetStatus("2026-09-02", models.StatusOnHold, "", "", nil)
	lapsed := bookings.SetStatus("2026-09-03", models.StatusOnHold, "", "", nil)
	lapsed.SetAt = now - 10*models.DayMillis

	stats := svc.CalendarStats()
	assert.Equal(t, 1, stats.BookedCount)
	assert.Equal(t, 1, stats.OnHoldCount)
	assert.Equal(t, 2, stats.Total)
}

func TestPlannerStats(t *testing.T) {
	svc, _, eventsSt, _, planners := newStatsFixture(t, 1_000_000)

	id := planners.Add("Rita", "Rita Events", "rita@example.com", "", "")
	ev := weddingEvent("2026-09-05", id)
	ev.Financials.PlannerCommission = 450
	eventsSt.Add(ev)

	stats, err := svc.PlannerStats(id)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEvents)
	assert.Equal(t, 450.0, stats.TotalCommissions)
	assert.Equal(t, 4500.0, stats.TotalVenueRentalFees)

	_, err = svc.PlannerStats("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	all := svc.AllPlannerStats()
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].PlannerID)
}
