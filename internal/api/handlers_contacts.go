package api

import (
	"errors"
	"net/http"
	"strings"

	"venuecal/internal/store"
)

func (s *HTTPServer) handlePlanners(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"planners": s.contacts.AllPlanners()})

	case http.MethodPost:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var body struct {
			Name        string `json:"name"`
			CompanyName string `json:"companyName"`
			Email       string `json:"email"`
			Telephone   string `json:"telephone"`
			Website     string `json:"website"`
		}
		if err := decodeJSON(r, &body); err != nil || strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		id := s.contacts.AddPlanner(body.Name, body.CompanyName, body.Email, body.Telephone, body.Website)
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handlePlannerByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/planners/")

	// /api/v1/planners/{id}/stats serves the per-planner dashboard block.
	if rest, found := strings.CutSuffix(id, "/stats"); found {
		s.handlePlannerStats(w, r, rest)
		return
	}

	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		planner, ok := s.contacts.GetPlanner(id)
		if !ok {
			writeError(w, http.StatusNotFound, "planner not found")
			return
		}
		writeJSON(w, http.StatusOK, planner)

	case http.MethodPatch:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var patch store.PlannerPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.contacts.UpdatePlanner(id, patch)
		if err != nil {
			writeError(w, http.StatusNotFound, "planner not found")
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		if err := s.contacts.DeletePlanner(id); err != nil {
			writeError(w, http.StatusNotFound, "planner not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handlePlannerStats(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Planners may read their own figures only; other planners' fees and
	// holds stay hidden from them, as everywhere else.
	user := userFrom(r)
	if scoped := user.ScopedPlannerID(); scoped != "" && scoped != id {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}

	stats, err := s.stats.PlannerStats(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "planner not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *HTTPServer) handleVendors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"vendors": s.contacts.AllVendors()})

	case http.MethodPost:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var body struct {
			Name      string `json:"name"`
			Telephone string `json:"telephone"`
			Email     string `json:"email"`
			Website   string `json:"website"`
			Instagram string `json:"instagram"`
		}
		if err := decodeJSON(r, &body); err != nil || strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		id := s.contacts.AddVendor(body.Name, body.Telephone, body.Email, body.Website, body.Instagram)
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleVendorByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/vendors/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		vendor, ok := s.contacts.GetVendor(id)
		if !ok {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		writeJSON(w, http.StatusOK, vendor)

	case http.MethodPatch:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var patch store.VendorPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.contacts.UpdateVendor(id, patch)
		if err != nil {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		if err := s.contacts.DeleteVendor(id); err != nil {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
