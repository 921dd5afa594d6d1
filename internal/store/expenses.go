package store

import (
	"sort"
	"sync"

	"venuecal/internal/models"
)

// ExpenseStore keeps venue expenses and the mutable category set. The ten
// seed categories are protected: no delete, no relabel.
type ExpenseStore struct {
	mu         sync.RWMutex
	expenses   map[string]*models.VenueExpense
	categories []models.CategoryItem
	now        func() int64
	onChange   ChangeFunc
}

func NewExpenseStore(now func() int64, onChange ChangeFunc) *ExpenseStore {
	return &ExpenseStore{
		expenses:   make(map[string]*models.VenueExpense),
		categories: models.DefaultExpenseCategories(),
		now:        nowOrDefault(now),
		onChange:   onChange,
	}
}

// Add stores a new expense and returns its id.
func (s *ExpenseStore) Add(date, category string, amount float64, description string) string {
	s.mu.Lock()
	now := s.now()
	e := &models.VenueExpense{
		ID:          models.NewExpenseID(now),
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.expenses[e.ID] = e
	s.mu.Unlock()
	notify(s.onChange, NameExpenses)
	return e.ID
}

// ExpensePatch is a partial expense update.
type ExpensePatch struct {
	Date        *string  `json:"date,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// Update merges a patch and refreshes updatedAt.
func (s *ExpenseStore) Update(id string, patch ExpensePatch) (*models.VenueExpense, error) {
	s.mu.Lock()
	existing, ok := s.expenses[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	updated := *existing
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.Amount != nil {
		updated.Amount = *patch.Amount
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	updated.UpdatedAt = s.now()
	s.expenses[id] = &updated
	s.mu.Unlock()
	notify(s.onChange, NameExpenses)
	return &updated, nil
}

// Delete removes an expense by id.
func (s *ExpenseStore) Delete(id string) error {
	s.mu.Lock()
	if _, ok := s.expenses[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.expenses, id)
	s.mu.Unlock()
	notify(s.onChange, NameExpenses)
	return nil
}

// Get returns an expense by id.
func (s *ExpenseStore) Get(id string) (*models.VenueExpense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[id]
	return e, ok
}

// All returns every expense sorted descending by date, newest first.
func (s *ExpenseStore) All() []*models.VenueExpense {
	s.mu.RLock()
	out := make([]*models.VenueExpense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, e)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].Date > out[j].Date
	})
	return out
}

// TotalAmount sums all stored expenses.
func (s *ExpenseStore) TotalAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, e := range s.expenses {
		total += e.Amount
	}
	return total
}

// Categories returns a copy of the category list, defaults first in seed
// order, then custom categories in insertion order.
func (s *ExpenseStore) Categories() []models.CategoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CategoryItem, len(s.categories))
	copy(out, s.categories)
	return out
}

// AddCategory appends a custom category and returns its id.
func (s *ExpenseStore) AddCategory(label string) string {
	s.mu.Lock()
	id := models.NewCategoryID(s.now())
	s.categories = append(s.categories, models.CategoryItem{ID: id, Label: label})
	s.mu.Unlock()
	notify(s.onChange, NameExpenses)
	return id
}

// RenameCategory relabels a custom category. Defaults are protected.
func (s *ExpenseStore) RenameCategory(id, label string) error {
	s.mu.Lock()
	err := ErrNotFound
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		if s.categories[i].IsDefault {
			err = ErrDefaultCategory
			break
		}
		s.categories[i].Label = label
		err = nil
		break
	}
	s.mu.Unlock()
	if err == nil {
		notify(s.onChange, NameExpenses)
	}
	return err
}

// DeleteCategory removes a custom category. Deleting a default fails with
// ErrDefaultCategory, which callers must be able to tell from not-found.
func (s *ExpenseStore) DeleteCategory(id string) error {
	s.mu.Lock()
	err := ErrNotFound
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		if s.categories[i].IsDefault {
			err = ErrDefaultCategory
			break
		}
		s.categories = append(s.categories[:i], s.categories[i+1:]...)
		err = nil
		break
	}
	s.mu.Unlock()
	if err == nil {
		notify(s.onChange, NameExpenses)
	}
	return err
}

// ExpenseSnapshot persists expenses and categories as one logical record.
type ExpenseSnapshot struct {
	Expenses   map[string]*models.VenueExpense `json:"expenses"`
	Categories []models.CategoryItem           `json:"categories"`
}

// Snapshot captures the store for persistence.
func (s *ExpenseStore) Snapshot() ExpenseSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expenses := make(map[string]*models.VenueExpense, len(s.expenses))
	for k, v := range s.expenses {
		cp := *v
		expenses[k] = &cp
	}
	categories := make([]models.CategoryItem, len(s.categories))
	copy(categories, s.categories)
	return ExpenseSnapshot{Expenses: expenses, Categories: categories}
}

// Restore replaces store contents from a snapshot. An empty category list
// falls back to the seed set so defaults survive first-run snapshots.
func (s *ExpenseStore) Restore(snap ExpenseSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = make(map[string]*models.VenueExpense, len(snap.Expenses))
	for k, v := range snap.Expenses {
		cp := *v
		s.expenses[k] = &cp
	}
	if len(snap.Categories) > 0 {
		s.categories = make([]models.CategoryItem, len(snap.Categories))
		copy(s.categories, snap.Categories)
	} else {
		s.categories = models.DefaultExpenseCategories()
	}
}
