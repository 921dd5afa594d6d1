package store

import (
	"fmt"
	"sort"
	"sync"

	"venuecal/internal/models"
)

// PlannerStore is a keyed CRUD collection of planner contacts.
type PlannerStore struct {
	mu       sync.RWMutex
	planners map[string]*models.Planner
	now      func() int64
	onChange ChangeFunc
}

func NewPlannerStore(now func() int64, onChange ChangeFunc) *PlannerStore {
	return &PlannerStore{
		planners: make(map[string]*models.Planner),
		now:      nowOrDefault(now),
		onChange: onChange,
	}
}

// Add stores a new planner and returns its id.
func (s *PlannerStore) Add(name, companyName, email, telephone, website string) string {
	s.mu.Lock()
	now := s.now()
	p := &models.Planner{
		ID:          fmt.Sprintf("%d", now),
		Name:        name,
		CompanyName: companyName,
		Email:       email,
		Telephone:   telephone,
		Website:     website,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.planners[p.ID] = p
	s.mu.Unlock()
	notify(s.onChange, NamePlanners)
	return p.ID
}

// PlannerPatch is a partial planner update.
type PlannerPatch struct {
	Name        *string `json:"name,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Telephone   *string `json:"telephone,omitempty"`
	Website     *string `json:"website,omitempty"`
}

// Update merges a patch and refreshes updatedAt.
func (s *PlannerStore) Update(id string, patch PlannerPatch) (*models.Planner, error) {
	s.mu.Lock()
	existing, ok := s.planners[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	updated := *existing
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.CompanyName != nil {
		updated.CompanyName = *patch.CompanyName
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.Telephone != nil {
		updated.Telephone = *patch.Telephone
	}
	if patch.Website != nil {
		updated.Website = *patch.Website
	}
	updated.UpdatedAt = s.now()
	s.planners[id] = &updated
	s.mu.Unlock()
	notify(s.onChange, NamePlanners)
	return &updated, nil
}

// Delete removes a planner. Events referencing the planner id are left
// untouched; there is no cascading cleanup.
func (s *PlannerStore) Delete(id string) error {
	s.mu.Lock()
	if _, ok := s.planners[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.planners, id)
	s.mu.Unlock()
	notify(s.onChange, NamePlanners)
	return nil
}

// Get returns a planner by id.
func (s *PlannerStore) Get(id string) (*models.Planner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.planners[id]
	return p, ok
}

// All returns every planner, newest first.
func (s *PlannerStore) All() []*models.Planner {
	s.mu.RLock()
	out := make([]*models.Planner, 0, len(s.planners))
	for _, p := range s.planners {
		out = append(out, p)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Len reports the number of stored planners.
func (s *PlannerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.planners)
}

// Snapshot captures the store for persistence.
func (s *PlannerStore) Snapshot() map[string]*models.Planner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.Planner, len(s.planners))
	for k, v := range s.planners {
		cp := *v
		out[k] = &cp
	}
	return out
}

// Restore replaces store contents from a snapshot.
func (s *PlannerStore) Restore(snap map[string]*models.Planner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planners = make(map[string]*models.Planner, len(snap))
	for k, v := range snap {
		cp := *v
		s.planners[k] = &cp
	}
}

// VendorStore is a keyed CRUD collection of vendor contacts.
type VendorStore struct {
	mu       sync.RWMutex
	vendors  map[string]*models.Vendor
	now      func() int64
	onChange ChangeFunc
}

func NewVendorStore(now func() int64, onChange ChangeFunc) *VendorStore {
	return &VendorStore{
		vendors:  make(map[string]*models.Vendor),
		now:      nowOrDefault(now),
		onChange: onChange,
	}
}

// Add stores a new vendor and returns its id.
func (s *VendorStore) Add(name, telephone, email, website, instagram string) string {
	s.mu.Lock()
	now := s.now()
	v := &models.Vendor{
		ID:        fmt.Sprintf("%d", now),
		Name:      name,
		Telephone: telephone,
		Email:     email,
		Website:   website,
		Instagram: instagram,
		CreatedAt: now,
	}
	s.vendors[v.ID] = v
	s.mu.Unlock()
	notify(s.onChange, NameVendors)
	return v.ID
}

// VendorPatch is a partial vendor update.
type VendorPatch struct {
	Name      *string `json:"name,omitempty"`
	Telephone *string `json:"telephone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Website   *string `json:"website,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
}

// Update merges a patch into the stored vendor.
func (s *VendorStore) Update(id string, patch VendorPatch) (*models.Vendor, error) {
	s.mu.Lock()
	existing, ok := s.vendors[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	updated := *existing
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Telephone != nil {
		updated.Telephone = *patch.Telephone
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.Website != nil {
		updated.Website = *patch.Website
	}
	if patch.Instagram != nil {
		updated.Instagram = *patch.Instagram
	}
	s.vendors[id] = &updated
	s.mu.Unlock()
	notify(s.onChange, NameVendors)
	return &updated, nil
}

// Delete removes a vendor.
func (s *VendorStore) Delete(id string) error {
	s.mu.Lock()
	if _, ok := s.vendors[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.vendors, id)
	s.mu.Unlock()
	notify(s.onChange, NameVendors)
	return nil
}

// Get returns a vendor by id.
func (s *VendorStore) Get(id string) (*models.Vendor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendors[id]
	return v, ok
}

// All returns every vendor, newest first.
func (s *VendorStore) All() []*models.Vendor {
	s.mu.RLock()
	out := make([]*models.Vendor, 0, len(s.vendors))
	for _, v := range s.vendors {
		out = append(out, v)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Snapshot captures the store for persistence.
func (s *VendorStore) Snapshot() map[string]*models.Vendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.Vendor, len(s.vendors))
	for k, v := range s.vendors {
		cp := *v
		out[k] = &cp
	}
	return out
}

// Restore replaces store contents from a snapshot.
func (s *VendorStore) Restore(snap map[string]*models.Vendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendors = make(map[string]*models.Vendor, len(snap))
	for k, v := range snap {
		cp := *v
		s.vendors[k] = &cp
	}
}
