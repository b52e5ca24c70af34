package seat

import (
	"fmt"
	"time"
)

// State is the occupancy state of a seat. The numeric values are part of the wire format.
type State int

const (
	StateAvailable State = 0
	StateOccupied  State = 1
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateOccupied:
		return "occupied"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Seat is a single allocatable reading-room seat.
type Seat struct {
	ID         int
	State      State
	OccupantID string
	OccupiedAt *time.Time
	UpdatedAt  time.Time
}

// NewSeat returns an available seat with the given number.
func NewSeat(id int, now time.Time) *Seat {
	return &Seat{
		ID:        id,
		State:     StateAvailable,
		UpdatedAt: now,
	}
}

// Provision builds seats 1..count.
func Provision(count int, now time.Time) []*Seat {
	seats := make([]*Seat, 0, count)
	for i := 1; i <= count; i++ {
		seats = append(seats, NewSeat(i, now))
	}
	return seats
}

// Label is the seat number padded to two digits.
func (s *Seat) Label() string {
	return fmt.Sprintf("%02d", s.ID)
}

// IsAvailable reports whether nobody holds the seat.
func (s *Seat) IsAvailable() bool {
	return s.State == StateAvailable
}

// IsHeldBy reports whether occupantID currently holds the seat.
func (s *Seat) IsHeldBy(occupantID string) bool {
	return s.State == StateOccupied && s.OccupantID == occupantID
}

// Occupy assigns the seat to occupantID. Occupying a seat the caller already
// holds is a no-op.
func (s *Seat) Occupy(occupantID string, now time.Time) error {
	if occupantID == "" {
		return ErrOccupantRequired
	}
	if s.IsHeldBy(occupantID) {
		return nil
	}
	if s.State != StateAvailable {
		return ErrSeatOccupied
	}
	s.State = StateOccupied
	s.OccupantID = occupantID
	s.OccupiedAt = &now
	s.UpdatedAt = now
	return nil
}

// Vacate frees the seat. Only the current occupant may vacate it.
func (s *Seat) Vacate(occupantID string, now time.Time) error {
	if !s.IsHeldBy(occupantID) {
		return ErrUnauthorizedSeat
	}
	s.State = StateAvailable
	s.OccupantID = ""
	s.OccupiedAt = nil
	s.UpdatedAt = now
	return nil
}

// Validate checks the occupancy invariant.
func (s *Seat) Validate() error {
	if s.ID <= 0 {
		return ErrInvalidSeat
	}
	if (s.State == StateOccupied) != (s.OccupantID != "") {
		return ErrInconsistentState
	}
	return nil
}

// Clone returns a copy that shares no pointers with s.
func (s *Seat) Clone() *Seat {
	c := *s
	if s.OccupiedAt != nil {
		t := *s.OccupiedAt
		c.OccupiedAt = &t
	}
	return &c
}
