// Package store holds the in-memory state containers. Stores are
// constructed once at process start and injected into the services and
// handlers that use them; mutations are synchronous and persistence is the
// owner's concern, signalled through the change callback.
package store

import (
	"errors"

	"venuecal/internal/models"
)

var (
	// ErrNotFound is returned by update/delete on a missing id.
	ErrNotFound = errors.New("record not found")
	// ErrDefaultCategory is returned when a protected seed category is
	// deleted or relabeled. Distinct from ErrNotFound on purpose.
	ErrDefaultCategory = errors.New("default categories cannot be changed")
	// ErrInvalidHoldDays is returned when a hold-duration update is outside
	// the accepted range.
	ErrInvalidHoldDays = errors.New("hold duration days out of range")
)

// Store names used as snapshot keys and change-notification labels.
const (
	NameBookings = "bookings"
	NameEvents   = "events"
	NameExpenses = "expenses"
	NamePlanners = "planners"
	NameVendors  = "vendors"
	NameSession  = "session"
)

// ChangeFunc is invoked after every successful mutation with the store
// name. The persister uses it to schedule a snapshot flush; it must not
// block.
type ChangeFunc func(store string)

func nowOrDefault(now func() int64) func() int64 {
	if now == nil {
		return models.NowMillis
	}
	return now
}

func notify(fn ChangeFunc, store string) {
	if fn != nil {
		fn(store)
	}
}
