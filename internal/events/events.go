// Package events provides the in-process pub/sub bus the services publish
// domain events on. Consumers today are the persister (flush scheduling)
// and metrics; handlers run synchronously.
package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingSet      = "booking_set"
	EventBookingReleased = "booking_released"
	EventHoldSwept       = "hold_swept"
	EventEventCreated    = "event_created"
	EventEventUpdated    = "event_updated"
	EventEventDeleted    = "event_deleted"
	EventExpenseAdded    = "expense_added"
	EventExpenseUpdated  = "expense_updated"
	EventExpenseDeleted  = "expense_deleted"
)

// BookingEventPayload is the booking snapshot event consumers see.
type BookingEventPayload struct {
	Date           string `json:"date"`
	Status         string `json:"status"`
	SetAt          int64  `json:"setAt,omitempty"`
	PlannerID      string `json:"plannerId,omitempty"`
	CustomHoldDays *int   `json:"customHoldDays,omitempty"`
	ChangedBy      string `json:"changedBy,omitempty"`
}

// VenueEventPayload is the minimal event snapshot for consumers.
type VenueEventPayload struct {
	EventID   string `json:"eventId"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	EventType string `json:"eventType"`
	OldDate   string `json:"oldDate,omitempty"`
	ChangedBy string `json:"changedBy,omitempty"`
}

// SweepPayload reports one sweep pass.
type SweepPayload struct {
	Dates []string `json:"dates"`
}

// Event is a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event. A nil bus is
// a no-op so components can run without one in tests.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
