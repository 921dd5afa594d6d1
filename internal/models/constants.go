package models

import "time"

// DateFormat is the calendar key format used everywhere a date identifies
// a day ("2025-03-10").
const DateFormat = "2006-01-02"

// DayMillis is one day expressed in epoch milliseconds, the unit hold
// durations are stored in.
const DayMillis int64 = 24 * 60 * 60 * 1000

// DefaultHoldDurationMillis is the global hold duration applied when no
// per-booking override is set: seven days.
const DefaultHoldDurationMillis = 7 * DayMillis

// Hold duration bounds accepted by the hold-duration update operation, in days.
const (
	MinHoldDays = 1
	MaxHoldDays = 90
)

// Date statuses. Available is never persisted: an available date simply has
// no booking record.
const (
	StatusAvailable = "available"
	StatusOnHold    = "on-hold"
	StatusBooked    = "booked"
)

// Event types.
const (
	EventTypeWedding         = "wedding"
	EventTypeBaptism         = "baptism"
	EventTypeKidsParty       = "kids-party"
	EventTypeCorporateDinner = "corporate-dinner"
	EventTypeMeetings        = "meetings"
	EventTypeOther           = "other"
)

// Wedding categories.
const (
	WeddingReception             = "reception"
	WeddingCeremonyReception     = "ceremony-reception"
	WeddingPrepReception         = "prep-reception"
	WeddingPrepCeremonyReception = "prep-ceremony-reception"
)

// Payment statuses for the venue rental payment.
const (
	PaymentPending  = "pending"
	PaymentReceived = "received"
)

// Payment statuses for the planner commission payment.
const (
	CommissionPending = "pending"
	CommissionPaid    = "paid"
)

// Payment methods.
const (
	PaymentMethodCash = "cash"
	PaymentMethodBank = "bank"
)

// User roles.
const (
	RoleAdmin   = "admin"
	RolePlanner = "planner"
)

// ValidDateStatus reports whether s is a recognized date status.
func ValidDateStatus(s string) bool {
	return s == StatusAvailable || s == StatusOnHold || s == StatusBooked
}

// ValidEventType reports whether t is a recognized event type.
func ValidEventType(t string) bool {
	switch t {
	case EventTypeWedding, EventTypeBaptism, EventTypeKidsParty,
		EventTypeCorporateDinner, EventTypeMeetings, EventTypeOther:
		return true
	}
	return false
}

// NowMillis returns the current time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
