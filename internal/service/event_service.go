package service

import (
	"venuecal/internal/events"
	"venuecal/internal/finance"
	"venuecal/internal/models"
	"venuecal/internal/store"

	"github.com/rs/zerolog"
)

// EventService owns venue events and the booking-side effects of the
// event lifecycle: creating or moving an event claims its date as booked,
// deleting one resets the date to available.
type EventService struct {
	eventsSt *store.EventStore
	bookings *store.BookingStore
	eventBus *events.EventBus
	logger   *zerolog.Logger
}

func NewEventService(eventsSt *store.EventStore, bookings *store.BookingStore, eventBus *events.EventBus, logger *zerolog.Logger) *EventService {
	return &EventService{
		eventsSt: eventsSt,
		bookings: bookings,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create validates and stores a new event and books its date. Returns the
// assigned id.
func (s *EventService) Create(user models.User, ev *models.VenueEvent) (string, error) {
	if err := ValidateDate(ev.Date); err != nil {
		return "", err
	}
	if err := ev.Validate(); err != nil {
		return "", err
	}

	id := s.eventsSt.Add(ev)
	s.claimDate(ev)

	s.publish(events.EventEventCreated, events.VenueEventPayload{
		EventID: id, Name: ev.Name, Date: ev.Date, EventType: ev.EventType, ChangedBy: user.ID,
	})
	return id, nil
}

// Update merges a patch into an event. A date change releases the old
// date and claims the new one as two separate steps; an interruption
// between them can leave both dates wrong. Known race, accepted at this
// system's consistency level.
func (s *EventService) Update(user models.User, id string, patch *models.EventPatch) (*models.VenueEvent, error) {
	if patch.Date != nil {
		if err := ValidateDate(*patch.Date); err != nil {
			return nil, err
		}
	}

	existing, ok := s.eventsSt.Get(id)
	if !ok {
		s.logger.Error().Str("event_id", id).Msg("update: event not found")
		return nil, store.ErrNotFound
	}
	// A planner may only touch their own events; a foreign id looks like a
	// missing one, same as Get.
	if scoped := user.ScopedPlannerID(); scoped != "" && existing.Financials.PlannerID != scoped {
		return nil, store.ErrNotFound
	}
	oldDate := existing.Date

	updated, err := s.eventsSt.Update(id, patch)
	if err != nil {
		return nil, err
	}
	if err := updated.Validate(); err != nil {
		// The merge produced an invalid event; put the original back.
		s.eventsSt.Put(existing)
		return nil, err
	}

	var payloadOldDate string
	if updated.Date != oldDate {
		s.bookings.Release(oldDate)
		s.claimDate(updated)
		payloadOldDate = oldDate
	}

	s.publish(events.EventEventUpdated, events.VenueEventPayload{
		EventID: id, Name: updated.Name, Date: updated.Date, EventType: updated.EventType,
		OldDate: payloadOldDate, ChangedBy: user.ID,
	})
	return updated, nil
}

// Delete removes an event and explicitly resets its date to available.
func (s *EventService) Delete(user models.User, id string) error {
	ev, ok := s.eventsSt.Get(id)
	if !ok {
		s.logger.Error().Str("event_id", id).Msg("delete: event not found")
		return store.ErrNotFound
	}
	if scoped := user.ScopedPlannerID(); scoped != "" && ev.Financials.PlannerID != scoped {
		return store.ErrNotFound
	}

	if err := s.eventsSt.Delete(id); err != nil {
		return err
	}
	s.bookings.Release(ev.Date)

	s.publish(events.EventEventDeleted, events.VenueEventPayload{
		EventID: id, Name: ev.Name, Date: ev.Date, EventType: ev.EventType, ChangedBy: user.ID,
	})
	return nil
}

// Get returns an event when the user may see it.
func (s *EventService) Get(user models.User, id string) (*models.VenueEvent, bool) {
	ev, ok := s.eventsSt.Get(id)
	if !ok {
		return nil, false
	}
	if scoped := user.ScopedPlannerID(); scoped != "" && ev.Financials.PlannerID != scoped {
		return nil, false
	}
	return ev, true
}

// AllForUser returns the role-scoped event set, date ascending.
func (s *EventService) AllForUser(user models.User) []*models.VenueEvent {
	return finance.FilterEventsForUser(user, s.eventsSt.All())
}

// ByType returns the user's events of one type.
func (s *EventService) ByType(user models.User, eventType string) []*models.VenueEvent {
	return finance.FilterEventsForUser(user, s.eventsSt.ByType(eventType))
}

// PendingPayments returns the user's events still awaiting payment.
func (s *EventService) PendingPayments(user models.User) []*models.VenueEvent {
	return finance.FilterEventsForUser(user, s.eventsSt.PendingPayments())
}

// ByDate returns the first event on a date, role-scoped.
func (s *EventService) ByDate(user models.User, date string) (*models.VenueEvent, bool) {
	ev, ok := s.eventsSt.ByDate(date)
	if !ok {
		return nil, false
	}
	if scoped := user.ScopedPlannerID(); scoped != "" && ev.Financials.PlannerID != scoped {
		return nil, false
	}
	return ev, true
}

// claimDate marks the event's date booked, carrying the planner linkage
// so per-planner stats keep working from the booking record too.
func (s *EventService) claimDate(ev *models.VenueEvent) {
	s.bookings.SetStatus(ev.Date, models.StatusBooked, ev.Name, ev.Financials.PlannerID, nil)
}

func (s *EventService) publish(eventType string, payload interface{}) {
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("publish event")
	}
}
