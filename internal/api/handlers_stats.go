package api

import (
	"net/http"

	"venuecal/internal/models"
)

func (s *HTTPServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.stats.Summary(userFrom(r)))
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	// A planner gets only their own block: no calendar aggregates (those
	// expose other planners' holds) and no other planners' figures.
	user := userFrom(r)
	if scoped := user.ScopedPlannerID(); scoped != "" {
		planners := []models.PlannerStats{}
		if own, err := s.stats.PlannerStats(scoped); err == nil {
			planners = append(planners, own)
		}
		writeJSON(w, http.StatusOK, map[string]any{"planners": planners})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"calendar": s.stats.CalendarStats(),
		"planners": s.stats.AllPlannerStats(),
	})
}

// handlePrivacy stores the money-blur preference. Rendering is the
// client's concern; the server just remembers the flag.
func (s *HTTPServer) handlePrivacy(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]bool{"moneyBlurred": s.session.MoneyBlurred()})

	case http.MethodPut:
		var body struct {
			MoneyBlurred bool `json:"moneyBlurred"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		s.session.SetMoneyBlurred(body.MoneyBlurred)
		writeJSON(w, http.StatusOK, map[string]bool{"moneyBlurred": body.MoneyBlurred})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
