package seat

import (
	"context"
	"time"
)

// Repository is the authoritative seat store. Reserve and Release are atomic
// check-and-set operations keyed by seat id.
type Repository interface {
	// Provision creates seats 1..count that do not exist yet.
	Provision(ctx context.Context, count int) error

	// List returns the whole pool ordered by id.
	List(ctx context.Context) ([]*Seat, error)

	// GetByID returns ErrInvalidSeat for an unknown id.
	GetByID(ctx context.Context, id int) (*Seat, error)

	// GetByOccupant returns nil, nil when occupantID holds no seat.
	GetByOccupant(ctx context.Context, occupantID string) (*Seat, error)

	// Reserve fails with ErrInvalidSeat, ErrAlreadyReserved or ErrSeatOccupied.
	Reserve(ctx context.Context, id int, occupantID string, now time.Time) (*Seat, error)

	// Release fails with ErrInvalidSeat or ErrUnauthorizedSeat.
	Release(ctx context.Context, id int, occupantID string, now time.Time) (*Seat, error)

	// CountAvailable returns the number of free seats.
	CountAvailable(ctx context.Context) (int, error)
}
