package service

import (
	"venuecal/internal/calendar"
	"venuecal/internal/finance"
	"venuecal/internal/models"
	"venuecal/internal/store"

	"github.com/rs/zerolog"
)

// StatsService composes read-only dashboard views over the stores:
// financial summaries, calendar stats and per-planner usage figures.
type StatsService struct {
	bookings *store.BookingStore
	events   *store.EventStore
	expenses *store.ExpenseStore
	planners *store.PlannerStore
	now      func() int64
	logger   *zerolog.Logger
}

func NewStatsService(
	bookings *store.BookingStore,
	events *store.EventStore,
	expenses *store.ExpenseStore,
	planners *store.PlannerStore,
	now func() int64,
	logger *zerolog.Logger,
) *StatsService {
	if now == nil {
		now = models.NowMillis
	}
	return &StatsService{
		bookings: bookings,
		events:   events,
		expenses: expenses,
		planners: planners,
		now:      now,
		logger:   logger,
	}
}

// Summary returns the financial summary visible to the given user.
// Planners get figures over their own events only and no expense totals.
func (s *StatsService) Summary(user models.User) finance.Summary {
	visible := finance.FilterEventsForUser(user, s.events.All())
	return finance.Summarize(user, visible, s.expenses.All())
}

// CalendarStats counts available, on-hold and booked dates among the
// known records at the current time.
func (s *StatsService) CalendarStats() calendar.Stats {
	return calendar.CountStats(s.bookings.All(), s.bookings.HoldDuration(), s.now())
}

// PlannerStats returns booking and revenue figures for one planner.
func (s *StatsService) PlannerStats(plannerID string) (models.PlannerStats, error) {
	planner, ok := s.planners.Get(plannerID)
	if !ok {
		return models.PlannerStats{}, store.ErrNotFound
	}
	return finance.PlannerStats(*planner, s.events.All(), s.bookings.All(), s.bookings.HoldDuration(), s.now()), nil
}

// AllPlannerStats returns figures for every planner, newest contact first.
func (s *StatsService) AllPlannerStats() []models.PlannerStats {
	events := s.events.All()
	bookings := s.bookings.All()
	holdMillis := s.bookings.HoldDuration()
	now := s.now()

	planners := s.planners.All()
	out := make([]models.PlannerStats, 0, len(planners))
	for _, p := range planners {
		out = append(out, finance.PlannerStats(*p, events, bookings, holdMillis, now))
	}
	return out
}
