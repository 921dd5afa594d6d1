// Package api exposes the venue calendar over HTTP: the authenticated
// management API under /api/v1 and the public read-only embed endpoint.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"venuecal/internal/config"
	"venuecal/internal/domain"
	"venuecal/internal/metrics"
	"venuecal/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type HTTPServer struct {
	cfg      config.APIConfig
	calendar config.CalendarConfig

	bookings domain.BookingService
	events   domain.EventService
	expenses domain.ExpenseService
	contacts domain.ContactService
	stats    domain.StatsService
	session  *store.SessionStore
	embed    domain.EmbedCache

	logger *zerolog.Logger
	server *http.Server
	auth   *HTTPAuth
}

type Deps struct {
	Bookings domain.BookingService
	Events   domain.EventService
	Expenses domain.ExpenseService
	Contacts domain.ContactService
	Stats    domain.StatsService
	Session  *store.SessionStore
	Embed    domain.EmbedCache
}

func NewHTTPServer(cfg config.APIConfig, calCfg config.CalendarConfig, deps Deps, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		calendar: calCfg,
		bookings: deps.Bookings,
		events:   deps.Events,
		expenses: deps.Expenses,
		contacts: deps.Contacts,
		stats:    deps.Stats,
		session:  deps.Session,
		embed:    deps.Embed,
		logger:   logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler builds the full route tree. Split out of NewHTTPServer so tests
// can drive it through httptest without binding a port.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/bookings", s.handleBookings)
	mux.HandleFunc("/api/v1/bookings/hold-duration", s.handleHoldDuration)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/events/", s.handleEventByID)
	mux.HandleFunc("/api/v1/expenses", s.handleExpenses)
	mux.HandleFunc("/api/v1/expenses/categories", s.handleCategories)
	mux.HandleFunc("/api/v1/expenses/categories/", s.handleCategoryByID)
	mux.HandleFunc("/api/v1/expenses/", s.handleExpenseByID)
	mux.HandleFunc("/api/v1/planners", s.handlePlanners)
	mux.HandleFunc("/api/v1/planners/", s.handlePlannerByID)
	mux.HandleFunc("/api/v1/vendors", s.handleVendors)
	mux.HandleFunc("/api/v1/vendors/", s.handleVendorByID)
	mux.HandleFunc("/api/v1/summary", s.handleSummary)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/settings/privacy", s.handlePrivacy)

	authed := s.auth.Wrap(mux)

	// The embed endpoint stays outside the auth wrapper: it is the one
	// public surface, served read-only to external sites.
	root := http.NewServeMux()
	root.Handle("/api/v1/", authed)
	root.HandleFunc("/embed/calendar", s.handleEmbedCalendar)
	root.HandleFunc("/healthz", s.handleHealth)

	return s.loggingMiddleware(root)
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
