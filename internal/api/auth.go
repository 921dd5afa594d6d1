package api

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"venuecal/internal/config"
	"venuecal/internal/models"

	"golang.org/x/time/rate"
)

type contextKey string

const userContextKey contextKey = "api-user"

// anonymousAdmin is the acting identity when auth is disabled, matching
// the single-operator default.
var anonymousAdmin = models.User{ID: "admin-1", Role: models.RoleAdmin}

// HTTPAuth resolves API keys to acting identities and applies per-key
// rate limiting.
type HTTPAuth struct {
	cfg      config.APIConfig
	clients  map[string]config.APIClientKey
	limiters sync.Map // map[string]*rate.Limiter
}

func NewHTTPAuth(cfg config.APIConfig) *HTTPAuth {
	m := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		m[k.Key] = k
	}
	return &HTTPAuth{cfg: cfg, clients: m}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := anonymousAdmin

		if a.cfg.Auth.Enabled {
			resolved, err := a.resolveUser(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			user = resolved
		}

		if err := a.checkRateLimit(r); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func (a *HTTPAuth) resolveUser(r *http.Request) (models.User, error) {
	apiKey := strings.TrimSpace(r.Header.Get(a.headerName()))
	if apiKey == "" {
		return models.User{}, fmt.Errorf("missing api key header")
	}

	// Constant-time scan; the key set is small and config-driven.
	var found *config.APIClientKey
	for i := range a.cfg.Auth.APIKeys {
		k := &a.cfg.Auth.APIKeys[i]
		if subtle.ConstantTimeCompare([]byte(k.Key), []byte(apiKey)) == 1 {
			found = k
		}
	}
	if found == nil {
		return models.User{}, fmt.Errorf("invalid api key")
	}

	return models.User{
		ID:        found.Name,
		Role:      found.Role,
		PlannerID: found.PlannerID,
	}, nil
}

func (a *HTTPAuth) headerName() string {
	h := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey))
	if h == "" {
		h = "x-api-key"
	}
	return h
}

func (a *HTTPAuth) checkRateLimit(r *http.Request) error {
	if a.cfg.RateLimit.RPS <= 0 {
		return nil
	}

	lim := a.getLimiter(a.clientKey(r))
	if !lim.Allow() {
		return fmt.Errorf("rate limit exceeded")
	}
	return nil
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	if apiKey := strings.TrimSpace(r.Header.Get(a.headerName())); apiKey != "" {
		return apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (a *HTTPAuth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := a.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), burst)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func withUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// userFrom returns the acting identity the auth layer attached to the
// request. Falls back to the anonymous admin for handlers exercised
// outside the wrapper.
func userFrom(r *http.Request) models.User {
	if u, ok := r.Context().Value(userContextKey).(models.User); ok {
		return u
	}
	return anonymousAdmin
}

// requireAdmin gates admin-only handlers; it writes the 403 itself.
func requireAdmin(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user := userFrom(r)
	if !user.Admin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return user, false
	}
	return user, true
}
