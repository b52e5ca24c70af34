package application

import (
	"context"
	"time"
)

// EventPublisher delivers domain events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// SeatCacheInterface caches the available seat count.
type SeatCacheInterface interface {
	GetAvailableCount(ctx context.Context) (int, error)
	SetAvailableCount(ctx context.Context, count int, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// Clock returns the current time.
type Clock func() time.Time

const (
	EventSeatReserved         = "seat.reserved"
	EventSeatReleased         = "seat.released"
	EventReservationSubmitted = "reservation.submitted"
	EventReservationApproved  = "reservation.approved"
	EventReservationRejected  = "reservation.rejected"
	EventReservationCompleted = "reservation.completed"
)

// SeatEvent is the body of seat.* events.
type SeatEvent struct {
	SeatID     int       `json:"seat_id"`
	Label      string    `json:"label"`
	OccupantID string    `json:"occupant_id"`
	At         time.Time `json:"at"`
}

// ReservationEvent is the body of reservation.* events.
type ReservationEvent struct {
	ReservationID int64     `json:"reservation_id"`
	FacilityID    int64     `json:"facility_id"`
	RequesterID   string    `json:"requester_id"`
	Status        string    `json:"status"`
	ActorID       string    `json:"actor_id"`
	At            time.Time `json:"at"`
}
