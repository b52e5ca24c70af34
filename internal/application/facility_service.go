package application

import (
	"context"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/facility"
)

// FacilityService exposes the read-only facility catalog.
type FacilityService struct {
	facilityRepo facility.Repository
}

func NewFacilityService(fr facility.Repository) *FacilityService {
	return &FacilityService{facilityRepo: fr}
}

// ListFacilities returns bookable facilities, or all of them when includeInactive is set.
func (s *FacilityService) ListFacilities(ctx context.Context, includeInactive bool) ([]*facility.Facility, error) {
	return s.facilityRepo.List(ctx, !includeInactive)
}

func (s *FacilityService) GetFacility(ctx context.Context, id int64) (*facility.Facility, error) {
	return s.facilityRepo.GetByID(ctx, id)
}
