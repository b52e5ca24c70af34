package reservation

import (
	"context"
	"time"
)

// Scope exposes reads that must happen inside the same atomic section as a
// transition.
type Scope interface {
	// FacilityActive reports whether the facility accepts reservations.
	FacilityActive(ctx context.Context, facilityID int64) (bool, error)

	// HasApprovedOverlap reports whether another APPROVED request for the same
	// facility intersects r.
	HasApprovedOverlap(ctx context.Context, r *Request) (bool, error)
}

// TransitionFunc mutates r and returns the audit entry to append. Returning an
// error discards every change.
type TransitionFunc func(ctx context.Context, r *Request, scope Scope) (*LogEntry, error)

// Repository is the authoritative reservation request store.
type Repository interface {
	// Create assigns an id to r and appends entry in the same step.
	Create(ctx context.Context, r *Request, entry *LogEntry) error

	// GetByID returns ErrNotFound for an unknown id.
	GetByID(ctx context.Context, id int64) (*Request, error)

	// Search returns one page of requests matching filter.
	Search(ctx context.Context, filter Filter, page, size int) (*Page, error)

	// Stats counts requests in one consistent read.
	Stats(ctx context.Context, w Windows) (*Stats, error)

	// Transition loads the request, applies fn and persists the result with
	// its log entry atomically.
	Transition(ctx context.Context, id int64, fn TransitionFunc) (*Request, error)

	// ListExpiredApproved returns ids of APPROVED requests whose end time is at
	// or before now.
	ListExpiredApproved(ctx context.Context, now time.Time, limit int) ([]int64, error)

	// Logs returns the audit trail of a request, oldest first.
	Logs(ctx context.Context, id int64) ([]*LogEntry, error)
}
