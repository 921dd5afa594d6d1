package api

import (
	"errors"
	"net/http"
	"strings"

	"venuecal/internal/models"
	"venuecal/internal/store"
)

func (s *HTTPServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		switch {
		case q.Get("payment") == models.PaymentPending:
			writeJSON(w, http.StatusOK, map[string]any{"events": s.events.PendingPayments(user)})
		case q.Get("type") != "":
			writeJSON(w, http.StatusOK, map[string]any{"events": s.events.ByType(user, q.Get("type"))})
		case q.Get("date") != "":
			ev, ok := s.events.ByDate(user, q.Get("date"))
			if !ok {
				writeError(w, http.StatusNotFound, "no event on that date")
				return
			}
			writeJSON(w, http.StatusOK, ev)
		default:
			writeJSON(w, http.StatusOK, map[string]any{"events": s.events.AllForUser(user)})
		}

	case http.MethodPost:
		var ev models.VenueEvent
		if err := decodeJSON(r, &ev); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		id, err := s.events.Create(user, &ev)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleEventByID(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/events/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		ev, ok := s.events.Get(user, id)
		if !ok {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeJSON(w, http.StatusOK, ev)

	case http.MethodPatch:
		var patch models.EventPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		updated, err := s.events.Update(user, id, &patch)
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "event not found")
			return
		case err != nil:
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.events.Delete(user, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "event not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
