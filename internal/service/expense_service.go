package service

import (
	"venuecal/internal/events"
	"venuecal/internal/models"
	"venuecal/internal/store"

	"github.com/rs/zerolog"
)

// ExpenseService owns venue expenses and their categories. Expenses are
// admin territory; the API gate enforces that, the service just trusts
// its caller like every store does.
type ExpenseService struct {
	expenses *store.ExpenseStore
	eventBus *events.EventBus
	logger   *zerolog.Logger
}

func NewExpenseService(expenses *store.ExpenseStore, eventBus *events.EventBus, logger *zerolog.Logger) *ExpenseService {
	return &ExpenseService{
		expenses: expenses,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Add records a new expense and returns its id.
func (s *ExpenseService) Add(date, category string, amount float64, description string) (string, error) {
	if err := ValidateDate(date); err != nil {
		return "", err
	}
	id := s.expenses.Add(date, category, amount, description)
	s.publish(events.EventExpenseAdded, map[string]any{"id": id, "category": category, "amount": amount})
	return id, nil
}

// Update merges a patch into an expense.
func (s *ExpenseService) Update(id string, patch store.ExpensePatch) (*models.VenueExpense, error) {
	if patch.Date != nil {
		if err := ValidateDate(*patch.Date); err != nil {
			return nil, err
		}
	}
	updated, err := s.expenses.Update(id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("expense_id", id).Msg("update expense")
		return nil, err
	}
	s.publish(events.EventExpenseUpdated, map[string]any{"id": id})
	return updated, nil
}

// Delete removes an expense.
func (s *ExpenseService) Delete(id string) error {
	if err := s.expenses.Delete(id); err != nil {
		s.logger.Error().Err(err).Str("expense_id", id).Msg("delete expense")
		return err
	}
	s.publish(events.EventExpenseDeleted, map[string]any{"id": id})
	return nil
}

// Get returns an expense by id.
func (s *ExpenseService) Get(id string) (*models.VenueExpense, bool) {
	return s.expenses.Get(id)
}

// All returns every expense, newest first.
func (s *ExpenseService) All() []*models.VenueExpense {
	return s.expenses.All()
}

// Categories returns the current category list.
func (s *ExpenseService) Categories() []models.CategoryItem {
	return s.expenses.Categories()
}

// AddCategory appends a custom category.
func (s *ExpenseService) AddCategory(label string) string {
	return s.expenses.AddCategory(label)
}

// RenameCategory relabels a custom category; defaults are protected.
func (s *ExpenseService) RenameCategory(id, label string) error {
	if err := s.expenses.RenameCategory(id, label); err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("rename category")
		return err
	}
	return nil
}

// DeleteCategory removes a custom category; defaults are protected.
func (s *ExpenseService) DeleteCategory(id string) error {
	if err := s.expenses.DeleteCategory(id); err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("delete category")
		return err
	}
	return nil
}

func (s *ExpenseService) publish(eventType string, payload interface{}) {
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("publish event")
	}
}
