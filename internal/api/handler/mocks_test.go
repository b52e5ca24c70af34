package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hooting76/blue-crab-lms-sub001/internal/application"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/facility"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/reservation"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/seat"
)

type MockSeatService struct {
	mock.Mock
}

func (m *MockSeatService) ListSeats(ctx context.Context) ([]*seat.Seat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatService) Reserve(ctx context.Context, caller identity.Caller, seatID int) (*seat.Seat, error) {
	args := m.Called(ctx, caller, seatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Seat), args.Error(1)
}

func (m *MockSeatService) Release(ctx context.Context, caller identity.Caller, seatID int) error {
	return m.Called(ctx, caller, seatID).Error(0)
}

func (m *MockSeatService) GetOccupantSeat(ctx context.Context, occupantID string) (*seat.Seat, error) {
	args := m.Called(ctx, occupantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Seat), args.Error(1)
}

func (m *MockSeatService) Summary(ctx context.Context) (*application.SeatSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.SeatSummary), args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) request(args mock.Arguments) (*reservation.Request, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Request), args.Error(1)
}

func (m *MockReservationService) page(args mock.Arguments) (*reservation.Page, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Page), args.Error(1)
}

func (m *MockReservationService) Submit(ctx context.Context, caller identity.Caller, in application.SubmitInput) (*reservation.Request, error) {
	return m.request(m.Called(ctx, caller, in))
}

func (m *MockReservationService) ListMine(ctx context.Context, caller identity.Caller, page, size int) (*reservation.Page, error) {
	return m.page(m.Called(ctx, caller, page, size))
}

func (m *MockReservationService) GetDetail(ctx context.Context, caller identity.Caller, id int64) (*reservation.Request, error) {
	return m.request(m.Called(ctx, caller, id))
}

func (m *MockReservationService) ListPending(ctx context.Context, caller identity.Caller, page, size int) (*reservation.Page, error) {
	return m.page(m.Called(ctx, caller, page, size))
}

func (m *MockReservationService) Search(ctx context.Context, caller identity.Caller, filter reservation.Filter, page, size int) (*reservation.Page, error) {
	return m.page(m.Called(ctx, caller, filter, page, size))
}

func (m *MockReservationService) Approve(ctx context.Context, caller identity.Caller, id int64, adminNote string) (*reservation.Request, error) {
	return m.request(m.Called(ctx, caller, id, adminNote))
}

func (m *MockReservationService) Reject(ctx context.Context, caller identity.Caller, id int64, reason string) (*reservation.Request, error) {
	return m.request(m.Called(ctx, caller, id, reason))
}

func (m *MockReservationService) Stats(ctx context.Context, caller identity.Caller) (*reservation.Stats, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Stats), args.Error(1)
}

func (m *MockReservationService) Logs(ctx context.Context, caller identity.Caller, id int64) ([]*reservation.LogEntry, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.LogEntry), args.Error(1)
}

type MockFacilityService struct {
	mock.Mock
}

func (m *MockFacilityService) ListFacilities(ctx context.Context, includeInactive bool) ([]*facility.Facility, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*facility.Facility), args.Error(1)
}
