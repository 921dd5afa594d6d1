package api

import (
	"errors"
	"net/http"
	"strings"

	"venuecal/internal/store"
)

// Expenses are the venue's own money and stay admin-only end to end.

func (s *HTTPServer) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"expenses": s.expenses.All()})

	case http.MethodPost:
		var body struct {
			Date        string  `json:"date"`
			Category    string  `json:"category"`
			Amount      float64 `json:"amount"`
			Description string  `json:"description"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		id, err := s.expenses.Add(body.Date, body.Category, body.Amount, body.Description)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		expense, ok := s.expenses.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeJSON(w, http.StatusOK, expense)

	case http.MethodPatch:
		var patch store.ExpensePatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		updated, err := s.expenses.Update(id, patch)
		if err != nil {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.expenses.Delete(id); err != nil {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCategories(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"categories": s.expenses.Categories()})

	case http.MethodPost:
		var body struct {
			Label string `json:"label"`
		}
		if err := decodeJSON(r, &body); err != nil || strings.TrimSpace(body.Label) == "" {
			writeError(w, http.StatusBadRequest, "label is required")
			return
		}
		id := s.expenses.AddCategory(body.Label)
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/expenses/categories/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var body struct {
			Label string `json:"label"`
		}
		if err := decodeJSON(r, &body); err != nil || strings.TrimSpace(body.Label) == "" {
			writeError(w, http.StatusBadRequest, "label is required")
			return
		}
		if err := s.expenses.RenameCategory(id, body.Label); err != nil {
			writeCategoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "label": body.Label})

	case http.MethodDelete:
		if err := s.expenses.DeleteCategory(id); err != nil {
			writeCategoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// writeCategoryError distinguishes protected defaults (409) from unknown
// ids (404).
func writeCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDefaultCategory):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
