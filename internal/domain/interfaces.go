// Package domain declares the interfaces the outer layers (HTTP API,
// sweeper, exporters) consume, so handlers depend on behavior rather than
// concrete service types.
package domain

import (
	"context"

	"venuecal/internal/calendar"
	"venuecal/internal/finance"
	"venuecal/internal/models"
	"venuecal/internal/store"
)

type BookingService interface {
	SetDateStatus(user models.User, date, status, note string, plannerID string, customHoldDays *int) (*models.DateBooking, error)
	EffectiveStatus(date string) string
	RemainingDays(date string) (int, bool)
	ActiveBookings() calendar.Bookings
	ActiveBookingsSorted() []*models.DateBooking
	Stats() calendar.Stats
	DateStatuses(user models.User) map[string]string
	HoldDuration() int64
	HoldDurationDays() int
	SetHoldDurationDays(days int) error
}

type EventService interface {
	Create(user models.User, ev *models.VenueEvent) (string, error)
	Update(user models.User, id string, patch *models.EventPatch) (*models.VenueEvent, error)
	Delete(user models.User, id string) error
	Get(user models.User, id string) (*models.VenueEvent, bool)
	AllForUser(user models.User) []*models.VenueEvent
	ByType(user models.User, eventType string) []*models.VenueEvent
	PendingPayments(user models.User) []*models.VenueEvent
	ByDate(user models.User, date string) (*models.VenueEvent, bool)
}

type ExpenseService interface {
	Add(date, category string, amount float64, description string) (string, error)
	Update(id string, patch store.ExpensePatch) (*models.VenueExpense, error)
	Delete(id string) error
	Get(id string) (*models.VenueExpense, bool)
	All() []*models.VenueExpense
	Categories() []models.CategoryItem
	AddCategory(label string) string
	RenameCategory(id, label string) error
	DeleteCategory(id string) error
}

type ContactService interface {
	AddPlanner(name, companyName, email, telephone, website string) string
	UpdatePlanner(id string, patch store.PlannerPatch) (*models.Planner, error)
	DeletePlanner(id string) error
	GetPlanner(id string) (*models.Planner, bool)
	AllPlanners() []*models.Planner
	AddVendor(name, telephone, email, website, instagram string) string
	UpdateVendor(id string, patch store.VendorPatch) (*models.Vendor, error)
	DeleteVendor(id string) error
	GetVendor(id string) (*models.Vendor, bool)
	AllVendors() []*models.Vendor
}

type StatsService interface {
	Summary(user models.User) finance.Summary
	CalendarStats() calendar.Stats
	PlannerStats(plannerID string) (models.PlannerStats, error)
	AllPlannerStats() []models.PlannerStats
}

// EventPublisher is the in-process bus seen by producers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// EmbedCache caches the public embed payload between rebuilds.
type EmbedCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Invalidate(ctx context.Context, key string) error
}
