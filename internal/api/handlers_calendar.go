package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"venuecal/internal/metrics"
	"venuecal/internal/service"
	"venuecal/internal/store"
)

// handleBookings serves the calendar records.
//
// GET returns only bookings still in force: lapsed holds are filtered the
// same way the sweeper would remove them. POST applies a status decision;
// setting available deletes the record.
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"bookings":         s.bookings.ActiveBookingsSorted(),
			"holdDuration":     s.bookings.HoldDuration(),
			"holdDurationDays": s.bookings.HoldDurationDays(),
		})

	case http.MethodPost:
		user := userFrom(r)

		var body struct {
			Date           string `json:"date"`
			Status         string `json:"status"`
			Note           string `json:"note"`
			PlannerID      string `json:"plannerId"`
			CustomHoldDays *int   `json:"customHoldDays"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		booking, err := s.bookings.SetDateStatus(user, body.Date, body.Status, body.Note, body.PlannerID, body.CustomHoldDays)
		switch {
		case errors.Is(err, service.ErrPlannerCannotBook):
			writeError(w, http.StatusForbidden, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if booking == nil {
			// Date released back to available.
			writeJSON(w, http.StatusOK, map[string]any{"date": body.Date, "status": "available"})
			return
		}
		writeJSON(w, http.StatusOK, booking)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleHoldDuration(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"days":   s.bookings.HoldDurationDays(),
			"millis": s.bookings.HoldDuration(),
		})

	case http.MethodPut:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		var body struct {
			Days int `json:"days"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if err := s.bookings.SetHoldDurationDays(body.Days); err != nil {
			if errors.Is(err, store.ErrInvalidHoldDays) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"days": body.Days})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

const embedCacheKey = "calendar"

// handleEmbedCalendar is the public, unauthenticated widget feed. The
// payload carries only effective statuses, never planner or financial
// data, and is cached between rebuilds.
func (s *HTTPServer) handleEmbedCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	ttl := s.calendar.EmbedCacheTTLSeconds
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", ttl))
	w.Header().Set("Content-Type", "application/json")

	if s.embed != nil {
		cached, ok, err := s.embed.Get(r.Context(), embedCacheKey)
		if err != nil {
			metrics.IncEmbedCache("error")
		} else if ok {
			metrics.IncEmbedCache("hit")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		} else {
			metrics.IncEmbedCache("miss")
		}
	}

	dates := make(map[string]string)
	for date, b := range s.bookings.ActiveBookings() {
		dates[date] = b.Status
	}

	payload := map[string]any{
		"dates":      dates,
		"holdPeriod": s.bookings.HoldDurationDays(),
		"readonly":   true,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build embed payload")
		return
	}

	if s.embed != nil {
		if err := s.embed.Set(r.Context(), embedCacheKey, raw); err != nil {
			s.logger.Error().Err(err).Msg("cache embed payload")
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
