package models

// User is the acting identity for a request. Admins see everything and may
// book dates directly; planners see only their own events and may only
// request available or on-hold.
type User struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	PlannerID string `json:"plannerId,omitempty"`
}

// Admin reports whether the user has the admin role. A zero User is not
// an admin.
func (u User) Admin() bool {
	return u.Role == RoleAdmin
}

// ScopedPlannerID returns the planner id the view must be filtered to, or
// "" when the user sees the unfiltered set.
func (u User) ScopedPlannerID() string {
	if u.Role == RolePlanner {
		return u.PlannerID
	}
	return ""
}
