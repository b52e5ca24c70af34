package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/facility"
)

// FacilityRepository is a read-mostly facility catalog.
type FacilityRepository struct {
	mu         sync.RWMutex
	facilities map[int64]*facility.Facility
}

var _ facility.Repository = (*FacilityRepository)(nil)

// NewFacilityRepository seeds the catalog with the given facilities.
func NewFacilityRepository(seed ...*facility.Facility) *FacilityRepository {
	r := &FacilityRepository{facilities: make(map[int64]*facility.Facility)}
	for _, f := range seed {
		c := *f
		r.facilities[f.ID] = &c
	}
	return r
}

func (r *FacilityRepository) List(ctx context.Context, activeOnly bool) ([]*facility.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*facility.Facility, 0, len(r.facilities))
	for _, f := range r.facilities {
		if activeOnly && !f.Active {
			continue
		}
		c := *f
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FacilityRepository) GetByID(ctx context.Context, id int64) (*facility.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.facilities[id]
	if !ok {
		return nil, facility.ErrNotFound
	}
	c := *f
	return &c, nil
}

// SetActive toggles whether a facility accepts reservations.
func (r *FacilityRepository) SetActive(id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.facilities[id]
	if !ok {
		return facility.ErrNotFound
	}
	f.Active = active
	return nil
}
