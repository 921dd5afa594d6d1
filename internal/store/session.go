package store

import (
	"sync"

	"venuecal/internal/models"
)

// SessionStore keeps the acting user record and the money-blur privacy
// toggle. One logical record, like the other stores.
type SessionStore struct {
	mu           sync.RWMutex
	user         models.User
	moneyBlurred bool
	onChange     ChangeFunc
}

// NewSessionStore seeds a default admin identity, matching first-run
// behavior of the app.
func NewSessionStore(onChange ChangeFunc) *SessionStore {
	return &SessionStore{
		user:     models.User{ID: "admin-1", Role: models.RoleAdmin},
		onChange: onChange,
	}
}

// User returns the current acting user.
func (s *SessionStore) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SwitchToAdmin sets the acting user to the venue admin.
func (s *SessionStore) SwitchToAdmin() models.User {
	s.mu.Lock()
	s.user = models.User{ID: "admin-1", Role: models.RoleAdmin}
	u := s.user
	s.mu.Unlock()
	notify(s.onChange, NameSession)
	return u
}

// SwitchToPlanner sets the acting user to a planner identity.
func (s *SessionStore) SwitchToPlanner(plannerID string) models.User {
	s.mu.Lock()
	s.user = models.User{ID: "planner-" + plannerID, Role: models.RolePlanner, PlannerID: plannerID}
	u := s.user
	s.mu.Unlock()
	notify(s.onChange, NameSession)
	return u
}

// MoneyBlurred reports the privacy toggle.
func (s *SessionStore) MoneyBlurred() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moneyBlurred
}

// SetMoneyBlurred sets the privacy toggle.
func (s *SessionStore) SetMoneyBlurred(v bool) {
	s.mu.Lock()
	s.moneyBlurred = v
	s.mu.Unlock()
	notify(s.onChange, NameSession)
}

// SessionSnapshot is the persisted form of the session store.
type SessionSnapshot struct {
	User         models.User `json:"user"`
	MoneyBlurred bool        `json:"moneyBlurred"`
}

// Snapshot captures the store for persistence.
func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionSnapshot{User: s.user, MoneyBlurred: s.moneyBlurred}
}

// Restore replaces store contents from a snapshot. A snapshot without a
// user keeps the default admin.
func (s *SessionStore) Restore(snap SessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.User.ID != "" {
		s.user = snap.User
	}
	s.moneyBlurred = snap.MoneyBlurred
}
