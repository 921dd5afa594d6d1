package models

// Planner is an external event planner who can hold dates and earn
// commissions on events they bring in.
type Planner struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Telephone   string `json:"telephone"`
	Website     string `json:"website,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// Vendor is a supplier contact (catering, flowers, music, ...).
type Vendor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Telephone string `json:"telephone"`
	Email     string `json:"email"`
	Website   string `json:"website,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// PlannerStats is the per-planner block shown on the contacts screen.
type PlannerStats struct {
	PlannerID            string  `json:"plannerId"`
	TotalEvents          int     `json:"totalEvents"`
	TotalVenueRentalFees float64 `json:"totalVenueRentalFees"`
	TotalCommissions     float64 `json:"totalCommissions"`
	OnHoldDates          int     `json:"onHoldDates"`
}
