package service

import (
	"venuecal/internal/models"
	"venuecal/internal/store"

	"github.com/rs/zerolog"
)

// ContactService owns planner and vendor contacts. Deleting a contact
// leaves events referencing it untouched; there is no cascade.
type ContactService struct {
	planners *store.PlannerStore
	vendors  *store.VendorStore
	logger   *zerolog.Logger
}

func NewContactService(planners *store.PlannerStore, vendors *store.VendorStore, logger *zerolog.Logger) *ContactService {
	return &ContactService{
		planners: planners,
		vendors:  vendors,
		logger:   logger,
	}
}

// AddPlanner stores a planner contact and returns its id.
func (s *ContactService) AddPlanner(name, companyName, email, telephone, website string) string {
	return s.planners.Add(name, companyName, email, telephone, website)
}

// UpdatePlanner merges a patch into a planner.
func (s *ContactService) UpdatePlanner(id string, patch store.PlannerPatch) (*models.Planner, error) {
	updated, err := s.planners.Update(id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("planner_id", id).Msg("update planner")
		return nil, err
	}
	return updated, nil
}

// DeletePlanner removes a planner contact.
func (s *ContactService) DeletePlanner(id string) error {
	if err := s.planners.Delete(id); err != nil {
		s.logger.Error().Err(err).Str("planner_id", id).Msg("delete planner")
		return err
	}
	return nil
}

// GetPlanner returns a planner by id.
func (s *ContactService) GetPlanner(id string) (*models.Planner, bool) {
	return s.planners.Get(id)
}

// AllPlanners returns planners newest first.
func (s *ContactService) AllPlanners() []*models.Planner {
	return s.planners.All()
}

// AddVendor stores a vendor contact and returns its id.
func (s *ContactService) AddVendor(name, telephone, email, website, instagram string) string {
	return s.vendors.Add(name, telephone, email, website, instagram)
}

// UpdateVendor merges a patch into a vendor.
func (s *ContactService) UpdateVendor(id string, patch store.VendorPatch) (*models.Vendor, error) {
	updated, err := s.vendors.Update(id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("vendor_id", id).Msg("update vendor")
		return nil, err
	}
	return updated, nil
}

// DeleteVendor removes a vendor contact.
func (s *ContactService) DeleteVendor(id string) error {
	if err := s.vendors.Delete(id); err != nil {
		s.logger.Error().Err(err).Str("vendor_id", id).Msg("delete vendor")
		return err
	}
	return nil
}

// GetVendor returns a vendor by id.
func (s *ContactService) GetVendor(id string) (*models.Vendor, bool) {
	return s.vendors.Get(id)
}

// AllVendors returns vendors newest first.
func (s *ContactService) AllVendors() []*models.Vendor {
	return s.vendors.All()
}
