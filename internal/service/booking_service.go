package service

import (
	"errors"
	"fmt"
	"time"

	"venuecal/internal/calendar"
	"venuecal/internal/events"
	"venuecal/internal/models"
	"venuecal/internal/store"

	"github.com/rs/zerolog"
)

var (
	// ErrPlannerCannotBook is returned when a planner-role user tries to
	// set a date to booked directly; only admins may.
	ErrPlannerCannotBook = errors.New("planners may only request available or on-hold")
	// ErrInvalidStatus is returned for an unrecognized date status.
	ErrInvalidStatus = errors.New("invalid date status")
	// ErrInvalidDate is returned for a date key not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date; expected YYYY-MM-DD")
)

// BookingService owns the calendar side: date statuses, the hold duration
// and the expiry rules, layered over the booking and event stores.
type BookingService struct {
	bookings *store.BookingStore
	eventsSt *store.EventStore
	eventBus *events.EventBus
	now      func() int64
	logger   *zerolog.Logger
}

func NewBookingService(bookings *store.BookingStore, eventsSt *store.EventStore, eventBus *events.EventBus, now func() int64, logger *zerolog.Logger) *BookingService {
	if now == nil {
		now = models.NowMillis
	}
	return &BookingService{
		bookings: bookings,
		eventsSt: eventsSt,
		eventBus: eventBus,
		now:      now,
		logger:   logger,
	}
}

// ValidateDate checks the calendar key format.
func ValidateDate(date string) error {
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// SetDateStatus applies a status decision on behalf of a user. Admins may
// set any status; planners only available and on-hold, always tagged with
// their own planner id.
func (s *BookingService) SetDateStatus(user models.User, date, status, note string, plannerID string, customHoldDays *int) (*models.DateBooking, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	if !models.ValidDateStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if !user.Admin() {
		if status == models.StatusBooked {
			return nil, ErrPlannerCannotBook
		}
		plannerID = user.PlannerID
	}

	booking := s.bookings.SetStatus(date, status, note, plannerID, customHoldDays)

	if booking == nil {
		s.publish(events.EventBookingReleased, events.BookingEventPayload{Date: date, Status: models.StatusAvailable, ChangedBy: user.ID})
	} else {
		s.publish(events.EventBookingSet, events.BookingEventPayload{
			Date:           booking.Date,
			Status:         booking.Status,
			SetAt:          booking.SetAt,
			PlannerID:      booking.PlannerID,
			CustomHoldDays: booking.CustomHoldDays,
			ChangedBy:      user.ID,
		})
	}
	return booking, nil
}

// EffectiveStatus resolves a date, events taking precedence and hold
// expiry applied.
func (s *BookingService) EffectiveStatus(date string) string {
	return calendar.EffectiveStatus(date, s.bookings.All(), s.eventsSt.HasEventOn, s.bookings.HoldDuration(), s.now())
}

// RemainingDays returns the hold badge value for a date, with ok=false
// when no badge applies.
func (s *BookingService) RemainingDays(date string) (int, bool) {
	b, ok := s.bookings.Get(date)
	if !ok {
		return 0, false
	}
	return calendar.RemainingDays(b, s.bookings.HoldDuration(), s.now())
}

// ActiveBookings returns the bookings currently in force, keyed by date.
func (s *BookingService) ActiveBookings() calendar.Bookings {
	return s.bookings.Active(s.now())
}

// ActiveBookingsSorted returns active bookings date-ascending for list views.
func (s *BookingService) ActiveBookingsSorted() []*models.DateBooking {
	return s.bookings.ActiveSorted(s.now())
}

// Stats returns the calendar header counts.
func (s *BookingService) Stats() calendar.Stats {
	return calendar.CountStats(s.bookings.All(), s.bookings.HoldDuration(), s.now())
}

// DateStatuses returns the per-date overlay for the user's calendar view.
func (s *BookingService) DateStatuses(user models.User) map[string]string {
	return calendar.DateStatuses(user, s.bookings.All(), s.eventsSt.All(), s.bookings.HoldDuration(), s.now())
}

// HoldDuration returns the global hold duration in millis.
func (s *BookingService) HoldDuration() int64 {
	return s.bookings.HoldDuration()
}

// HoldDurationDays returns the global hold duration in whole days.
func (s *BookingService) HoldDurationDays() int {
	return s.bookings.HoldDurationDays()
}

// SetHoldDurationDays updates the global hold duration.
func (s *BookingService) SetHoldDurationDays(days int) error {
	if err := s.bookings.SetHoldDurationDays(days); err != nil {
		return err
	}
	s.logger.Info().Int("days", days).Msg("hold duration updated")
	return nil
}

func (s *BookingService) publish(eventType string, payload interface{}) {
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("publish event")
	}
}
