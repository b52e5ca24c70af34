package handler

import (
	"context"

	"github.com/hooting76/blue-crab-lms-sub001/internal/application"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/facility"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/reservation"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/seat"
)

// SeatServiceInterface is the seat allocation surface used by SeatHandler.
type SeatServiceInterface interface {
	ListSeats(ctx context.Context) ([]*seat.Seat, error)
	Reserve(ctx context.Context, caller identity.Caller, seatID int) (*seat.Seat, error)
	Release(ctx context.Context, caller identity.Caller, seatID int) error
	GetOccupantSeat(ctx context.Context, occupantID string) (*seat.Seat, error)
	Summary(ctx context.Context) (*application.SeatSummary, error)
}

// ReservationServiceInterface is the facility reservation workflow.
type ReservationServiceInterface interface {
	Submit(ctx context.Context, caller identity.Caller, in application.SubmitInput) (*reservation.Request, error)
	ListMine(ctx context.Context, caller identity.Caller, page, size int) (*reservation.Page, error)
	GetDetail(ctx context.Context, caller identity.Caller, id int64) (*reservation.Request, error)
	ListPending(ctx context.Context, caller identity.Caller, page, size int) (*reservation.Page, error)
	Search(ctx context.Context, caller identity.Caller, filter reservation.Filter, page, size int) (*reservation.Page, error)
	Approve(ctx context.Context, caller identity.Caller, id int64, adminNote string) (*reservation.Request, error)
	Reject(ctx context.Context, caller identity.Caller, id int64, reason string) (*reservation.Request, error)
	Stats(ctx context.Context, caller identity.Caller) (*reservation.Stats, error)
	Logs(ctx context.Context, caller identity.Caller, id int64) ([]*reservation.LogEntry, error)
}

// FacilityServiceInterface lists bookable facilities.
type FacilityServiceInterface interface {
	ListFacilities(ctx context.Context, includeInactive bool) ([]*facility.Facility, error)
}

var (
	_ SeatServiceInterface        = (*application.SeatService)(nil)
	_ ReservationServiceInterface = (*application.ReservationService)(nil)
	_ FacilityServiceInterface    = (*application.FacilityService)(nil)
)
