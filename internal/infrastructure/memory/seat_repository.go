// Package memory holds process-local stores. Each store guards its whole state
// with one mutex so every operation is a single atomic step.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/seat"
)

// SeatRepository keeps the seat pool and an occupant index under one lock.
type SeatRepository struct {
	mu         sync.Mutex
	seats      map[int]*seat.Seat
	byOccupant map[string]int
}

var _ seat.Repository = (*SeatRepository)(nil)

func NewSeatRepository() *SeatRepository {
	return &SeatRepository{
		seats:      make(map[int]*seat.Seat),
		byOccupant: make(map[string]int),
	}
}

func (r *SeatRepository) Provision(ctx context.Context, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, s := range seat.Provision(count, now) {
		if _, ok := r.seats[s.ID]; !ok {
			r.seats[s.ID] = s
		}
	}
	return nil
}

func (r *SeatRepository) List(ctx context.Context) ([]*seat.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*seat.Seat, 0, len(r.seats))
	for _, s := range r.seats {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *SeatRepository) GetByID(ctx context.Context, id int) (*seat.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seats[id]
	if !ok {
		return nil, seat.ErrInvalidSeat
	}
	return s.Clone(), nil
}

func (r *SeatRepository) GetByOccupant(ctx context.Context, occupantID string) (*seat.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byOccupant[occupantID]
	if !ok {
		return nil, nil
	}
	return r.seats[id].Clone(), nil
}

// Reserve checks the seat, the occupant index and the seat state in one
// critical section.
func (r *SeatRepository) Reserve(ctx context.Context, id int, occupantID string, now time.Time) (*seat.Seat, error) {
	if occupantID == "" {
		return nil, seat.ErrOccupantRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seats[id]
	if !ok {
		return nil, seat.ErrInvalidSeat
	}
	if held, ok := r.byOccupant[occupantID]; ok {
		if held == id {
			return s.Clone(), nil
		}
		return nil, seat.ErrAlreadyReserved
	}
	if err := s.Occupy(occupantID, now); err != nil {
		return nil, err
	}
	r.byOccupant[occupantID] = id
	return s.Clone(), nil
}

func (r *SeatRepository) Release(ctx context.Context, id int, occupantID string, now time.Time) (*seat.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seats[id]
	if !ok {
		return nil, seat.ErrInvalidSeat
	}
	if err := s.Vacate(occupantID, now); err != nil {
		return nil, err
	}
	delete(r.byOccupant, occupantID)
	return s.Clone(), nil
}

func (r *SeatRepository) CountAvailable(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.seats {
		if s.IsAvailable() {
			n++
		}
	}
	return n, nil
}
