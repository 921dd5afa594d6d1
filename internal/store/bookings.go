package store

import (
	"sort"
	"sync"

	"venuecal/internal/calendar"
	"venuecal/internal/models"
)

// BookingStore keeps one DateBooking per date plus the global hold
// duration. Available dates have no record; setting a date available
// deletes whatever is stored, and doing so twice is a harmless no-op.
type BookingStore struct {
	mu           sync.RWMutex
	bookings     map[string]*models.DateBooking
	holdDuration int64
	now          func() int64
	onChange     ChangeFunc
}

func NewBookingStore(now func() int64, onChange ChangeFunc) *BookingStore {
	return &BookingStore{
		bookings:     make(map[string]*models.DateBooking),
		holdDuration: models.DefaultHoldDurationMillis,
		now:          nowOrDefault(now),
		onChange:     onChange,
	}
}

// SetStatus applies a status decision to a date. Custom hold days are only
// retained for on-hold statuses. Returns the stored record, or nil when
// the date was released.
func (s *BookingStore) SetStatus(date, status, note, plannerID string, customHoldDays *int) *models.DateBooking {
	s.mu.Lock()
	if status == models.StatusAvailable {
		delete(s.bookings, date)
		s.mu.Unlock()
		notify(s.onChange, NameBookings)
		return nil
	}

	if status != models.StatusOnHold {
		customHoldDays = nil
	}
	b := &models.DateBooking{
		Date:           date,
		Status:         status,
		SetAt:          s.now(),
		Note:           note,
		PlannerID:      plannerID,
		CustomHoldDays: customHoldDays,
	}
	s.bookings[date] = b
	s.mu.Unlock()
	notify(s.onChange, NameBookings)
	return b
}

// Put stores a fully-formed booking record, trusting its fields. Used when
// restoring snapshots and by the API which stamps setAt itself.
func (s *BookingStore) Put(b *models.DateBooking) {
	s.mu.Lock()
	if b.Status == models.StatusAvailable {
		delete(s.bookings, b.Date)
	} else {
		s.bookings[b.Date] = b
	}
	s.mu.Unlock()
	notify(s.onChange, NameBookings)
}

// Release sets a date back to available. Missing records are ignored.
func (s *BookingStore) Release(date string) {
	s.mu.Lock()
	delete(s.bookings, date)
	s.mu.Unlock()
	notify(s.onChange, NameBookings)
}

// Get returns the raw stored record for a date, expiry not applied.
func (s *BookingStore) Get(date string) (*models.DateBooking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[date]
	return b, ok
}

// All returns a copy of the raw booking map, lapsed holds included.
func (s *BookingStore) All() calendar.Bookings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(calendar.Bookings, len(s.bookings))
	for k, v := range s.bookings {
		out[k] = v
	}
	return out
}

// Active returns the bookings still in force at the given instant: all
// booked dates and the on-hold dates whose hold has not lapsed.
func (s *BookingStore) Active(nowMillis int64) calendar.Bookings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(calendar.Bookings)
	for date, b := range s.bookings {
		if calendar.Lapsed(b, s.holdDuration, nowMillis) {
			continue
		}
		out[date] = b
	}
	return out
}

// ActiveSorted returns active bookings ordered by date ascending, the order
// the list view shows them in.
func (s *BookingStore) ActiveSorted(nowMillis int64) []*models.DateBooking {
	active := s.Active(nowMillis)
	out := make([]*models.DateBooking, 0, len(active))
	for _, b := range active {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// SweepExpired deletes every lapsed hold and returns the dates removed.
// Storage cleanup only: reads are already expiry-correct without it.
func (s *BookingStore) SweepExpired(nowMillis int64) []string {
	s.mu.Lock()
	var removed []string
	for date, b := range s.bookings {
		if calendar.Lapsed(b, s.holdDuration, nowMillis) {
			delete(s.bookings, date)
			removed = append(removed, date)
		}
	}
	s.mu.Unlock()
	if len(removed) > 0 {
		notify(s.onChange, NameBookings)
	}
	return removed
}

// HoldDuration returns the global hold duration in millis.
func (s *BookingStore) HoldDuration() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holdDuration
}

// HoldDurationDays returns the global hold duration rounded to whole days.
func (s *BookingStore) HoldDurationDays() int {
	return int((s.HoldDuration() + models.DayMillis/2) / models.DayMillis)
}

// SetHoldDurationDays updates the global hold duration, bounds-checked.
func (s *BookingStore) SetHoldDurationDays(days int) error {
	if days < models.MinHoldDays || days > models.MaxHoldDays {
		return ErrInvalidHoldDays
	}
	s.mu.Lock()
	s.holdDuration = int64(days) * models.DayMillis
	s.mu.Unlock()
	notify(s.onChange, NameBookings)
	return nil
}

// Len reports the number of stored records, lapsed holds included.
func (s *BookingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

// BookingSnapshot is the persisted form of the store: the bookings and the
// hold duration travel together as one logical record.
type BookingSnapshot struct {
	Bookings     map[string]*models.DateBooking `json:"bookings"`
	HoldDuration int64                          `json:"holdDuration"`
}

// Snapshot captures the store for persistence.
func (s *BookingStore) Snapshot() BookingSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.DateBooking, len(s.bookings))
	for k, v := range s.bookings {
		cp := *v
		out[k] = &cp
	}
	return BookingSnapshot{Bookings: out, HoldDuration: s.holdDuration}
}

// Restore replaces store contents from a snapshot, without notifying: a
// restore is not a user mutation.
func (s *BookingStore) Restore(snap BookingSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = make(map[string]*models.DateBooking, len(snap.Bookings))
	for k, v := range snap.Bookings {
		cp := *v
		s.bookings[k] = &cp
	}
	if snap.HoldDuration > 0 {
		s.holdDuration = snap.HoldDuration
	}
}
