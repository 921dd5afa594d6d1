package store

import (
	"sort"
	"sync"

	"venuecal/internal/models"
)

// EventStore keeps VenueEvents keyed by id. At most one event per date is
// assumed by lookups but not enforced; colliding dates are last-write-wins
// until product intent says otherwise.
type EventStore struct {
	mu       sync.RWMutex
	events   map[string]*models.VenueEvent
	now      func() int64
	onChange ChangeFunc
}

func NewEventStore(now func() int64, onChange ChangeFunc) *EventStore {
	return &EventStore{
		events:   make(map[string]*models.VenueEvent),
		now:      nowOrDefault(now),
		onChange: onChange,
	}
}

// Add stores a new event, assigning id and timestamps. Returns the id.
func (s *EventStore) Add(ev *models.VenueEvent) string {
	s.mu.Lock()
	now := s.now()
	ev.ID = models.NewEventID(ev.Date, now)
	ev.CreatedAt = now
	ev.UpdatedAt = now
	s.events[ev.ID] = ev
	s.mu.Unlock()
	notify(s.onChange, NameEvents)
	return ev.ID
}

// Put stores a fully-formed event as-is. Snapshot restore and the API
// surface, which receives complete records, go through here.
func (s *EventStore) Put(ev *models.VenueEvent) {
	s.mu.Lock()
	s.events[ev.ID] = ev
	s.mu.Unlock()
	notify(s.onChange, NameEvents)
}

// Update merges a patch into the stored event and refreshes updatedAt.
func (s *EventStore) Update(id string, patch *models.EventPatch) (*models.VenueEvent, error) {
	s.mu.Lock()
	existing, ok := s.events[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	updated := *existing
	patch.ApplyTo(&updated)
	updated.UpdatedAt = s.now()
	s.events[id] = &updated
	s.mu.Unlock()
	notify(s.onChange, NameEvents)
	return &updated, nil
}

// Delete removes an event by id.
func (s *EventStore) Delete(id string) error {
	s.mu.Lock()
	if _, ok := s.events[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.events, id)
	s.mu.Unlock()
	notify(s.onChange, NameEvents)
	return nil
}

// Get returns the event with the given id.
func (s *EventStore) Get(id string) (*models.VenueEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	return ev, ok
}

// ByDate returns the first event found on a date. The schema does not
// forbid duplicates; find-first mirrors how every screen looks events up.
func (s *EventStore) ByDate(date string) (*models.VenueEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ev := range s.events {
		if ev.Date == date {
			return ev, true
		}
	}
	return nil, false
}

// HasEventOn reports whether any event claims the date.
func (s *EventStore) HasEventOn(date string) bool {
	_, ok := s.ByDate(date)
	return ok
}

// All returns every event sorted ascending by date.
func (s *EventStore) All() []*models.VenueEvent {
	s.mu.RLock()
	out := make([]*models.VenueEvent, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].ID < out[j].ID
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// ByType returns events of one type, date ascending.
func (s *EventStore) ByType(eventType string) []*models.VenueEvent {
	all := s.All()
	out := all[:0:0]
	for _, ev := range all {
		if ev.EventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// PendingPayments returns events whose rental payment is still pending,
// date ascending.
func (s *EventStore) PendingPayments() []*models.VenueEvent {
	all := s.All()
	out := all[:0:0]
	for _, ev := range all {
		if ev.Financials.Payment.Status == models.PaymentPending {
			out = append(out, ev)
		}
	}
	return out
}

// Len reports the number of stored events.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Snapshot captures the store for persistence.
func (s *EventStore) Snapshot() map[string]*models.VenueEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.VenueEvent, len(s.events))
	for k, v := range s.events {
		cp := *v
		out[k] = &cp
	}
	return out
}

// Restore replaces store contents from a snapshot.
func (s *EventStore) Restore(snap map[string]*models.VenueEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string]*models.VenueEvent, len(snap))
	for k, v := range snap {
		cp := *v
		s.events[k] = &cp
	}
}
