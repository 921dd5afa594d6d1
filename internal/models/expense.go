package models

import "fmt"

// VenueExpense is an operating cost of the venue itself, outside any event.
// Expenses are admin-only; planner-facing figures never include them.
type VenueExpense struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

// NewExpenseID builds an expense id from the creation timestamp.
func NewExpenseID(nowMillis int64) string {
	return fmt.Sprintf("expense-%d", nowMillis)
}

// CategoryItem is an expense category. Default categories are seeded at
// startup and cannot be deleted or relabeled.
type CategoryItem struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	IsDefault bool   `json:"isDefault"`
}

// NewCategoryID builds the id for a user-defined category.
func NewCategoryID(nowMillis int64) string {
	return fmt.Sprintf("custom-%d", nowMillis)
}

// DefaultExpenseCategories returns the ten seed categories. Callers get a
// fresh slice each time; the seed set itself is immutable.
func DefaultExpenseCategories() []CategoryItem {
	return []CategoryItem{
		{ID: "electricity", Label: "Electricity", IsDefault: true},
		{ID: "water", Label: "Water", IsDefault: true},
		{ID: "gas", Label: "Gas", IsDefault: true},
		{ID: "maintenance", Label: "Maintenance", IsDefault: true},
		{ID: "supplies", Label: "Supplies", IsDefault: true},
		{ID: "staff", Label: "Staff", IsDefault: true},
		{ID: "cleaning", Label: "Cleaning", IsDefault: true},
		{ID: "insurance", Label: "Insurance", IsDefault: true},
		{ID: "taxes", Label: "Taxes", IsDefault: true},
		{ID: "other", Label: "Other", IsDefault: true},
	}
}
