// Package calendar derives the effective status of dates from the booking
// and event stores. It is the single home of the precedence and hold-expiry
// rules; views must never reimplement them.
package calendar

import (
	"venuecal/internal/models"
)

// Bookings is a date-keyed view of stored bookings.
type Bookings map[string]*models.DateBooking

// HasEvent reports whether any event claims the given date.
type HasEvent func(date string) bool

// EffectiveStatus resolves a date against both stores.
//
// Precedence: an event on the date always means booked, stale booking
// records notwithstanding. Otherwise the booking record decides, with
// on-hold bookings lapsing to available once their hold duration has
// passed. Expiry is evaluated here on every call; the background sweep is
// only cleanup.
func EffectiveStatus(date string, bookings Bookings, hasEvent HasEvent, holdDurationMillis, nowMillis int64) string {
	if hasEvent != nil && hasEvent(date) {
		return models.StatusBooked
	}

	booking, ok := bookings[date]
	if !ok || booking == nil {
		return models.StatusAvailable
	}

	switch booking.Status {
	case models.StatusBooked:
		return models.StatusBooked
	case models.StatusOnHold:
		if nowMillis > booking.ExpiresAt(holdDurationMillis) {
			return models.StatusAvailable
		}
		return models.StatusOnHold
	}
	return models.StatusAvailable
}

// Lapsed reports whether an on-hold booking has expired. Booked bookings
// never lapse.
func Lapsed(b *models.DateBooking, holdDurationMillis, nowMillis int64) bool {
	return b != nil && b.Status == models.StatusOnHold && nowMillis > b.ExpiresAt(holdDurationMillis)
}

// RemainingDays returns the whole days left on a hold, floored at zero.
// The second return is false when no badge applies: the booking is missing,
// not on-hold, or already lapsed past zero remaining.
func RemainingDays(b *models.DateBooking, holdDurationMillis, nowMillis int64) (int, bool) {
	if b == nil || b.Status != models.StatusOnHold {
		return 0, false
	}
	remaining := b.ExpiresAt(holdDurationMillis) - nowMillis
	if remaining < 0 {
		return 0, false
	}
	if remaining == 0 {
		return 0, true
	}
	days := int((remaining + models.DayMillis - 1) / models.DayMillis)
	return days, true
}

// Stats are the aggregate counts shown on every calendar header.
type Stats struct {
	BookedCount int `json:"bookedCount"`
	OnHoldCount int `json:"onHoldCount"`
	Total       int `json:"total"`
}

// CountStats tallies active bookings, skipping lapsed holds.
func CountStats(bookings Bookings, holdDurationMillis, nowMillis int64) Stats {
	var s Stats
	for _, b := range bookings {
		switch b.Status {
		case models.StatusBooked:
			s.BookedCount++
		case models.StatusOnHold:
			if nowMillis <= b.ExpiresAt(holdDurationMillis) {
				s.OnHoldCount++
			}
		}
	}
	s.Total = s.BookedCount + s.OnHoldCount
	return s
}

// DateStatuses builds the full per-date overlay for a calendar view.
//
// Planners do not see the booking layer at all: other planners' holds and
// direct bookings render as available, and only the planner's own events
// appear booked. Admins see everything.
func DateStatuses(user models.User, bookings Bookings, events []*models.VenueEvent, holdDurationMillis, nowMillis int64) map[string]string {
	statuses := make(map[string]string)
	scoped := user.ScopedPlannerID()

	if scoped == "" {
		for date, b := range bookings {
			switch b.Status {
			case models.StatusOnHold:
				if nowMillis <= b.ExpiresAt(holdDurationMillis) {
					statuses[date] = models.StatusOnHold
				}
			case models.StatusBooked:
				statuses[date] = models.StatusBooked
			}
		}
	}

	for _, ev := range events {
		if scoped != "" && ev.Financials.PlannerID != scoped {
			continue
		}
		statuses[ev.Date] = models.StatusBooked
	}

	return statuses
}
