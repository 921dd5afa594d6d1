// Package finance computes the money figures shown on the dashboard and
// overview screens from current events and expenses.
package finance

import (
	"venuecal/internal/models"
)

// Summary is the full breakdown for an admin. For planner-scoped summaries
// the venue-expense fields are absent from the JSON, not zeroed: planners
// must not be able to infer venue expenses from a zero line item.
type Summary struct {
	TotalRental      float64  `json:"totalRental"`
	TotalExtras      float64  `json:"totalExtras"`
	TotalIncome      float64  `json:"totalIncome"`
	ReceivedIncome   float64  `json:"receivedIncome"`
	PendingIncome    float64  `json:"pendingIncome"`
	TotalEventCosts  float64  `json:"totalEventCosts"`
	TotalCommissions float64  `json:"totalCommissions"`
	TotalExpenses    *float64 `json:"totalExpenses,omitempty"`
	TotalAllCosts    float64  `json:"totalAllCosts"`
	NetProfit        float64  `json:"netProfit"`
	EventCount       int      `json:"eventCount"`
}

// FilterEventsForUser narrows the event set to what the user may see:
// planners only events carrying their own planner id, admins everything.
func FilterEventsForUser(user models.User, events []*models.VenueEvent) []*models.VenueEvent {
	scoped := user.ScopedPlannerID()
	if scoped == "" {
		return events
	}
	out := make([]*models.VenueEvent, 0, len(events))
	for _, ev := range events {
		if ev.Financials.PlannerID == scoped {
			out = append(out, ev)
		}
	}
	return out
}

// Summarize computes the role-scoped summary. The caller passes the
// already-filtered event set; expenses only contribute for admins.
func Summarize(user models.User, events []*models.VenueEvent, expenses []*models.VenueExpense) Summary {
	var s Summary
	for _, ev := range events {
		f := ev.Financials
		s.TotalRental += f.VenueRentalFee
		s.TotalExtras += f.IncomeFromExtras
		s.TotalEventCosts += f.Costs
		s.TotalCommissions += f.PlannerCommission

		income := f.VenueRentalFee + f.IncomeFromExtras
		if f.Payment.Status == models.PaymentReceived {
			s.ReceivedIncome += income
		} else {
			s.PendingIncome += income
		}
	}
	s.TotalIncome = s.TotalRental + s.TotalExtras
	s.TotalAllCosts = s.TotalEventCosts + s.TotalCommissions
	s.EventCount = len(events)

	if user.Admin() {
		var total float64
		for _, e := range expenses {
			total += e.Amount
		}
		s.TotalExpenses = &total
		s.TotalAllCosts += total
	}

	s.NetProfit = s.TotalIncome - s.TotalAllCosts
	return s
}

// CommissionPercentage derives the display percentage from an absolute
// commission and the rental fee. This is a form-level convenience only;
// stored events keep both values independently.
func CommissionPercentage(commission, rentalFee float64) float64 {
	if rentalFee == 0 {
		return 0
	}
	return commission / rentalFee * 100
}

// CommissionFromPercentage is the inverse convenience for the edit form.
func CommissionFromPercentage(percentage, rentalFee float64) float64 {
	return rentalFee * percentage / 100
}

// PlannerStats builds the per-planner block: event counts, rental fees and
// commissions from that planner's events, plus their active on-hold dates.
func PlannerStats(planner models.Planner, events []*models.VenueEvent, bookings map[string]*models.DateBooking, holdDurationMillis, nowMillis int64) models.PlannerStats {
	stats := models.PlannerStats{PlannerID: planner.ID}
	for _, ev := range events {
		if ev.Financials.PlannerID != planner.ID {
			continue
		}
		stats.TotalEvents++
		stats.TotalVenueRentalFees += ev.Financials.VenueRentalFee
		stats.TotalCommissions += ev.Financials.PlannerCommission
	}
	for _, b := range bookings {
		if b.PlannerID != planner.ID || b.Status != models.StatusOnHold {
			continue
		}
		if nowMillis <= b.ExpiresAt(holdDurationMillis) {
			stats.OnHoldDates++
		}
	}
	return stats
}
