package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venuecal/internal/config"
	"venuecal/internal/events"
	"venuecal/internal/models"
	"venuecal/internal/repository"
	"venuecal/internal/service"
	"venuecal/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdminKey   = "admin-key"
	testPlannerKey = "planner-key"
)

func newTestServer(t *testing.T) (*httptest.Server, *HTTPServer) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	clock := func() int64 { return int64(1000 * models.DayMillis) }

	bookings := store.NewBookingStore(clock, nil)
	eventsSt := store.NewEventStore(clock, nil)
	expenses := store.NewExpenseStore(clock, nil)
	planners := store.NewPlannerStore(clock, nil)
	vendors := store.NewVendorStore(clock, nil)
	session := store.NewSessionStore(nil)
	bus := events.NewEventBus()

	cfg := config.APIConfig{
		HTTP: config.APIHTTPConfig{Port: 0},
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "x-api-key",
			APIKeys: []config.APIClientKey{
				{Key: testAdminKey, Name: "owner", Role: models.RoleAdmin},
				{Key: testPlannerKey, Name: "rita", Role: models.RolePlanner, PlannerID: "p-1"},
			},
		},
		RateLimit: config.APIRateLimitConfig{RPS: 1000, Burst: 1000},
	}
	calCfg := config.CalendarConfig{HoldDays: 7, SweepIntervalSeconds: 60, EmbedCacheTTLSeconds: 60}

	srv := NewHTTPServer(cfg, calCfg, Deps{
		Bookings: service.NewBookingService(bookings, eventsSt, bus, clock, &logger),
		Events:   service.NewEventService(eventsSt, bookings, bus, &logger),
		Expenses: service.NewExpenseService(expenses, bus, &logger),
		Contacts: service.NewContactService(planners, vendors, &logger),
		Stats:    service.NewStatsService(bookings, eventsSt, expenses, planners, clock, &logger),
		Session:  session,
		Embed:    repository.NewMemoryEmbedCache(time.Minute),
	}, &logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, srv
}

func doRequest(t *testing.T, method, url, apiKey string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestAuthRequired(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/v1/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/bookings", "wrong-key", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/bookings", testAdminKey, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBookingLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/bookings", testAdminKey, map[string]any{
		"date":   "2026-06-15",
		"status": "on-hold",
		"note":   "tentative",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var booking models.DateBooking
	decodeBody(t, resp, &booking)
	assert.Equal(t, models.StatusOnHold, booking.Status)
	assert.NotZero(t, booking.SetAt)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/bookings", testAdminKey, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Bookings         []models.DateBooking `json:"bookings"`
		HoldDurationDays int                  `json:"holdDurationDays"`
	}
	decodeBody(t, resp, &list)
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, 7, list.HoldDurationDays)

	// Releasing back to available removes the record.
	resp = doRequest(t, http.MethodPost, ts.URL+"/api/v1/bookings", testAdminKey, map[string]any{
		"date":   "2026-06-15",
		"status": "available",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/bookings", testAdminKey, nil)
	decodeBody(t, resp, &list)
	assert.Empty(t, list.Bookings)
}

func TestBookingValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/bookings", testAdminKey, map[string]any{
		"date":   "15/06/2026",
		"status": "on-hold",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, ts.URL+"/api/v1/bookings", testPlannerKey, map[string]any{
		"date":   "2026-06-15",
		"status": "booked",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHoldDurationEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPut, ts.URL+"/api/v1/bookings/hold-duration", testPlannerKey, map[string]int{"days": 14})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, http.MethodPut, ts.URL+"/api/v1/bookings/hold-duration", testAdminKey, map[string]int{"days": 120})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, http.MethodPut, ts.URL+"/api/v1/bookings/hold-duration", testAdminKey, map[string]int{"days": 14})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/bookings/hold-duration", testAdminKey, nil)
	var got struct {
		Days int `json:"days"`
	}
	decodeBody(t, resp, &got)
	assert.Equal(t, 14, got.Days)
}

func TestEventEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	create := func(date, plannerID string) string {
		resp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/events", testAdminKey, map[string]any{
			"name":      "Test wedding",
			"date":      date,
			"eventType": "wedding",
			"financials": map[string]any{
				"venueRentalFee": 4500,
				"plannerId":      plannerID,
				"payment":        map[string]any{"status": "pending"},
			},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var out struct {
			ID string `json:"id"`
		}
		decodeBody(t, resp, &out)
		return out.ID
	}

	mine := create("2026-09-05", "p-1")
	create("2026-09-06", "p-2")

	// Planner sees only their own events.
	resp := doRequest(t, http.MethodGet, ts.URL+"/api/v1/events", testPlannerKey, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Events []json.RawMessage `json:"events"`
	}
	decodeBody(t, resp, &list)
	assert.Len(t, list.Events, 1)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/events", testAdminKey, nil)
	decodeBody(t, resp, &list)
	assert.Len(t, list.Events, 2)

	// Creating an event booked its date.
	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/bookings", testAdminKey, nil)
	var bookings struct {
		Bookings []models.DateBooking `json:"bookings"`
	}
	decodeBody(t, resp, &bookings)
	assert.Len(t, bookings.Bookings, 2)

	// Deleting resets the date to available.
	resp = doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/events/%s", ts.URL, mine), testAdminKey, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/bookings", testAdminKey, nil)
	decodeBody(t, resp, &bookings)
	assert.Len(t, bookings.Bookings, 1)

	resp = doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/events/%s", ts.URL, mine), testAdminKey, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExpensesAdminOnly(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/v1/expenses", testPlannerKey, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, ts.URL+"/api/v1/expenses", testAdminKey, map[string]any{
		"date":     "2026-09-01",
		"category": "electricity",
		"amount":   320.5,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCategoryProtection(t *testing.T) {
	ts, _ := newTestServer(t)

	// Default categories cannot be renamed or deleted.
	resp := doRequest(t, http.MethodDelete, ts.URL+"/api/v1/expenses/categories/electricity", testAdminKey, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(t, http.MethodPatch, ts.URL+"/api/v1/expenses/categories/electricity", testAdminKey, map[string]string{"label": "Power"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, ts.URL+"/api/v1/expenses/categories", testAdminKey, map[string]string{"label": "Fireworks"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &created)

	resp = doRequest(t, http.MethodDelete, ts.URL+"/api/v1/expenses/categories/"+created.ID, testAdminKey, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodDelete, ts.URL+"/api/v1/expenses/categories/"+created.ID, testAdminKey, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSummaryRoleScoped(t *testing.T) {
	ts, _ := newTestServer(t)

	doRequest(t, http.MethodPost, ts.URL+"/api/v1/expenses", testAdminKey, map[string]any{
		"date": "2026-09-01", "category": "water", "amount": 120,
	})

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/v1/summary", testAdminKey, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var adminBody map[string]any
	decodeBody(t, resp, &adminBody)
	assert.Contains(t, adminBody, "totalExpenses")

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/summary", testPlannerKey, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var plannerBody map[string]any
	decodeBody(t, resp, &plannerBody)
	assert.NotContains(t, plannerBody, "totalExpenses")
}

func TestStatsRoleScoped(t *testing.T) {
	ts, _ := newTestServer(t)

	doRequest(t, http.MethodPost, ts.URL+"/api/v1/bookings", testAdminKey, map[string]any{
		"date": "2026-06-15", "status": "on-hold",
	})

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/v1/stats", testAdminKey, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var adminBody map[string]any
	decodeBody(t, resp, &adminBody)
	assert.Contains(t, adminBody, "calendar")
	assert.Contains(t, adminBody, "planners")

	// A planner gets their own block only; the calendar aggregates would
	// reveal other planners' holds.
	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/stats", testPlannerKey, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var plannerBody map[string]any
	decodeBody(t, resp, &plannerBody)
	assert.NotContains(t, plannerBody, "calendar")
	assert.Contains(t, plannerBody, "planners")
}

func TestContactsEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/planners", testAdminKey, map[string]string{
		"name": "Rita", "companyName": "Rita Events",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &created)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/planners/"+created.ID+"/stats", testAdminKey, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats models.PlannerStats
	decodeBody(t, resp, &stats)
	assert.Equal(t, created.ID, stats.PlannerID)

	// Planner keys may read contacts but not modify them.
	resp = doRequest(t, http.MethodDelete, ts.URL+"/api/v1/planners/"+created.ID, testPlannerKey, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, ts.URL+"/api/v1/vendors", testAdminKey, map[string]string{
		"name": "Bloom Florists", "instagram": "@bloom",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestPlannerStatsScopedToOwnID(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/api/v1/planners", testAdminKey, map[string]string{
		"name": "Marco", "companyName": "Marco Weddings",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &created)

	// Another planner's fee and hold figures are off limits.
	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/planners/"+created.ID+"/stats", testPlannerKey, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The key's own id passes the gate; no planner record yet means 404,
	// not 403.
	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/planners/p-1/stats", testPlannerKey, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/planners/"+created.ID+"/stats", testAdminKey, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEmbedCalendarPublic(t *testing.T) {
	ts, _ := newTestServer(t)

	doRequest(t, http.MethodPost, ts.URL+"/api/v1/bookings", testAdminKey, map[string]any{
		"date": "2026-06-15", "status": "booked",
	})

	// No API key: the embed endpoint is public.
	resp := doRequest(t, http.MethodGet, ts.URL+"/embed/calendar", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "public, max-age=60", resp.Header.Get("Cache-Control"))

	var body struct {
		Dates      map[string]string `json:"dates"`
		HoldPeriod int               `json:"holdPeriod"`
		Readonly   bool              `json:"readonly"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Readonly)
	assert.Equal(t, 7, body.HoldPeriod)
	assert.Equal(t, models.StatusBooked, body.Dates["2026-06-15"])

	// Second read comes from the cache and matches.
	resp = doRequest(t, http.MethodGet, ts.URL+"/embed/calendar", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cached struct {
		Dates map[string]string `json:"dates"`
	}
	decodeBody(t, resp, &cached)
	assert.Equal(t, body.Dates, cached.Dates)
}

func TestPrivacyToggle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/v1/settings/privacy", testAdminKey, nil)
	var got struct {
		MoneyBlurred bool `json:"moneyBlurred"`
	}
	decodeBody(t, resp, &got)
	assert.False(t, got.MoneyBlurred)

	resp = doRequest(t, http.MethodPut, ts.URL+"/api/v1/settings/privacy", testAdminKey, map[string]bool{"moneyBlurred": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/v1/settings/privacy", testAdminKey, nil)
	decodeBody(t, resp, &got)
	assert.True(t, got.MoneyBlurred)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
