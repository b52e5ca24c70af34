package facility

import "context"

// Repository is the facility catalog.
type Repository interface {
	// List returns facilities ordered by id. activeOnly hides deactivated ones.
	List(ctx context.Context, activeOnly bool) ([]*Facility, error)

	// GetByID returns ErrNotFound for an unknown id.
	GetByID(ctx context.Context, id int64) (*Facility, error)
}
