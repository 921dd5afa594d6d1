package models

// DateBooking is an explicit decision about a calendar date. A record exists
// only for on-hold and booked dates; available is represented by absence.
//
// A stored on-hold booking may already be lapsed: readers must derive the
// effective status through the calendar package instead of trusting Status.
type DateBooking struct {
	Date           string `json:"date"`
	Status         string `json:"status"`
	SetAt          int64  `json:"setAt"`
	Note           string `json:"note,omitempty"`
	EventID        string `json:"eventId,omitempty"`
	PlannerID      string `json:"plannerId,omitempty"`
	CustomHoldDays *int   `json:"customHoldDays,omitempty"`
}

// HoldDurationMillis returns the hold duration that applies to this booking:
// the per-booking override when present, otherwise the global duration.
func (b *DateBooking) HoldDurationMillis(globalMillis int64) int64 {
	if b.CustomHoldDays != nil {
		return int64(*b.CustomHoldDays) * DayMillis
	}
	return globalMillis
}

// ExpiresAt returns the instant (epoch millis) an on-hold booking lapses.
// Meaningless for booked bookings, which never expire.
func (b *DateBooking) ExpiresAt(globalMillis int64) int64 {
	return b.SetAt + b.HoldDurationMillis(globalMillis)
}
