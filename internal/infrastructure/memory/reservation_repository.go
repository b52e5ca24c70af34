package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/facility"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/reservation"
)

// ReservationRepository keeps requests and their audit trail under one lock.
type ReservationRepository struct {
	mu         sync.Mutex
	facilities facility.Repository
	requests   map[int64]*reservation.Request
	logs       map[int64][]*reservation.LogEntry
	nextID     int64
	nextLogID  int64
}

var _ reservation.Repository = (*ReservationRepository)(nil)

// NewReservationRepository needs the facility catalog for in-transition checks.
func NewReservationRepository(facilities facility.Repository) *ReservationRepository {
	return &ReservationRepository{
		facilities: facilities,
		requests:   make(map[int64]*reservation.Request),
		logs:       make(map[int64][]*reservation.LogEntry),
	}
}

func (r *ReservationRepository) Create(ctx context.Context, req *reservation.Request, entry *reservation.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	req.ID = r.nextID
	r.requests[req.ID] = req.Clone()
	if entry != nil {
		entry.ReservationID = req.ID
		r.appendLog(entry)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*reservation.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	return req.Clone(), nil
}

func (r *ReservationRepository) Search(ctx context.Context, filter reservation.Filter, page, size int) (*reservation.Page, error) {
	page, size = reservation.NormalizePage(page, size)

	r.mu.Lock()
	matched := make([]*reservation.Request, 0)
	for _, req := range r.requests {
		if filter.Matches(req) {
			matched = append(matched, req.Clone())
		}
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if filter.Order == reservation.OldestFirst {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if filter.Order == reservation.OldestFirst {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})

	result := &reservation.Page{Items: []*reservation.Request{}, Total: len(matched), Page: page, Size: size}
	from := page * size
	if from >= len(matched) {
		return result, nil
	}
	to := from + size
	if to > len(matched) {
		to = len(matched)
	}
	result.Items = matched[from:to]
	return result, nil
}

func (r *ReservationRepository) Stats(ctx context.Context, w reservation.Windows) (*reservation.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s reservation.Stats
	for _, req := range r.requests {
		s.Count(req, w)
	}
	return &s, nil
}

// Transition runs fn on a copy and commits the copy only when fn succeeds.
func (r *ReservationRepository) Transition(ctx context.Context, id int64, fn reservation.TransitionFunc) (*reservation.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.requests[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	working := current.Clone()
	entry, err := fn(ctx, working, lockedScope{repo: r})
	if err != nil {
		return nil, err
	}
	r.requests[id] = working
	if entry != nil {
		entry.ReservationID = id
		r.appendLog(entry)
	}
	return working.Clone(), nil
}

func (r *ReservationRepository) ListExpiredApproved(ctx context.Context, now time.Time, limit int) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0)
	for id, req := range r.requests {
		if req.Status == reservation.StatusApproved && !req.EndTime.After(now) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *ReservationRepository) Logs(ctx context.Context, id int64) ([]*reservation.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[id]; !ok {
		return nil, reservation.ErrNotFound
	}
	out := make([]*reservation.LogEntry, 0, len(r.logs[id]))
	for _, e := range r.logs[id] {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

// appendLog must be called with mu held.
func (r *ReservationRepository) appendLog(entry *reservation.LogEntry) {
	r.nextLogID++
	entry.ID = r.nextLogID
	c := *entry
	r.logs[entry.ReservationID] = append(r.logs[entry.ReservationID], &c)
}

// lockedScope reads repository state while Transition holds mu.
type lockedScope struct {
	repo *ReservationRepository
}

func (s lockedScope) FacilityActive(ctx context.Context, facilityID int64) (bool, error) {
	f, err := s.repo.facilities.GetByID(ctx, facilityID)
	if errors.Is(err, facility.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return f.Active, nil
}

func (s lockedScope) HasApprovedOverlap(ctx context.Context, req *reservation.Request) (bool, error) {
	for id, other := range s.repo.requests {
		if id == req.ID || other.Status != reservation.StatusApproved {
			continue
		}
		if req.Overlaps(other) {
			return true, nil
		}
	}
	return false, nil
}
