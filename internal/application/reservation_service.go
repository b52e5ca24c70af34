package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/facility"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/reservation"
	"github.com/hooting76/blue-crab-lms-sub001/internal/pkg/logger"
	"github.com/hooting76/blue-crab-lms-sub001/internal/pkg/metrics"
)

// completeBatchSize caps how many requests one CompleteExpired pass handles.
const completeBatchSize = 500

// ReservationService runs the facility reservation approval workflow.
type ReservationService struct {
	reservationRepo reservation.Repository
	facilityRepo    facility.Repository
	publisher       EventPublisher
	metrics         *metrics.Metrics
	loc             *time.Location
	now             Clock
}

type ReservationServiceOption func(*ReservationService)

func WithReservationEvents(p EventPublisher) ReservationServiceOption {
	return func(s *ReservationService) { s.publisher = p }
}

func WithReservationMetrics(m *metrics.Metrics) ReservationServiceOption {
	return func(s *ReservationService) { s.metrics = m }
}

func WithReservationClock(c Clock) ReservationServiceOption {
	return func(s *ReservationService) { s.now = c }
}

// WithLocation sets the timezone of the stats windows.
func WithLocation(loc *time.Location) ReservationServiceOption {
	return func(s *ReservationService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewReservationService(rr reservation.Repository, fr facility.Repository, opts ...ReservationServiceOption) *ReservationService {
	s := &ReservationService{
		reservationRepo: rr,
		facilityRepo:    fr,
		loc:             time.UTC,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SubmitInput struct {
	FacilityID         int64
	StartTime          time.Time
	EndTime            time.Time
	PartySize          int
	Purpose            string
	RequestedEquipment string
}

// Submit files a new PENDING request for the caller.
func (s *ReservationService) Submit(ctx context.Context, caller identity.Caller, in SubmitInput) (*reservation.Request, error) {
	req, err := s.submit(ctx, caller, in)
	s.observe("submit", err)
	return req, err
}

func (s *ReservationService) submit(ctx context.Context, caller identity.Caller, in SubmitInput) (*reservation.Request, error) {
	if err := caller.Authenticated(); err != nil {
		return nil, err
	}
	f, err := s.facilityRepo.GetByID(ctx, in.FacilityID)
	if err != nil {
		return nil, err
	}
	if !f.Active {
		return nil, facility.ErrInactive
	}

	now := s.now()
	req, err := reservation.NewRequest(f.ID, f.Name, caller.ID, caller.Name, in.StartTime, in.EndTime, in.PartySize, in.Purpose, in.RequestedEquipment, now)
	if err != nil {
		return nil, err
	}
	if !f.Admits(req.PartySize) {
		return nil, reservation.ErrPartyTooLarge
	}

	entry := reservation.NewLogEntry(0, reservation.EventSubmitted, reservation.ActorUser, caller.ID, map[string]any{
		"facilityId": f.ID,
		"startTime":  req.StartTime.Format(time.RFC3339),
		"endTime":    req.EndTime.Format(time.RFC3339),
		"partySize":  req.PartySize,
	}, now)
	if err := s.reservationRepo.Create(ctx, req, entry); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.publish(ctx, EventReservationSubmitted, req, caller.ID)
	logger.Info("reservation submitted", zap.Int64("reservation_id", req.ID), zap.Int64("facility_id", f.ID), zap.String("requester_id", caller.ID))
	return req, nil
}

// ListPending returns PENDING requests, oldest first.
func (s *ReservationService) ListPending(ctx context.Context, caller identity.Caller, page, size int) (*reservation.Page, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.reservationRepo.Search(ctx, reservation.Filter{Status: reservation.StatusPending, Order: reservation.OldestFirst}, page, size)
}

// Search filters all requests, newest first.
func (s *ReservationService) Search(ctx context.Context, caller identity.Caller, filter reservation.Filter, page, size int) (*reservation.Page, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter.Order = reservation.NewestFirst
	return s.reservationRepo.Search(ctx, filter, page, size)
}

// ListMine returns the caller's own requests, newest first.
func (s *ReservationService) ListMine(ctx context.Context, caller identity.Caller, page, size int) (*reservation.Page, error) {
	if err := caller.Authenticated(); err != nil {
		return nil, err
	}
	return s.reservationRepo.Search(ctx, reservation.Filter{RequesterID: caller.ID}, page, size)
}

// GetDetail lets administrators read any request and users read their own.
func (s *ReservationService) GetDetail(ctx context.Context, caller identity.Caller, id int64) (*reservation.Request, error) {
	if err := caller.Authenticated(); err != nil {
		return nil, err
	}
	req, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && req.RequesterID != caller.ID {
		return nil, identity.ErrForbidden
	}
	return req, nil
}

// Approve moves a PENDING request to APPROVED unless the facility is inactive
// or already booked for an overlapping slot.
func (s *ReservationService) Approve(ctx context.Context, caller identity.Caller, id int64, adminNote string) (*reservation.Request, error) {
	req, err := s.approve(ctx, caller, id, adminNote)
	s.observe("approve", err)
	return req, err
}

func (s *ReservationService) approve(ctx context.Context, caller identity.Caller, id int64, adminNote string) (*reservation.Request, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	now := s.now()
	req, err := s.reservationRepo.Transition(ctx, id, func(ctx context.Context, r *reservation.Request, scope reservation.Scope) (*reservation.LogEntry, error) {
		if !r.Status.CanTransitionTo(reservation.StatusApproved) {
			return nil, reservation.ErrInvalidState
		}
		active, err := scope.FacilityActive(ctx, r.FacilityID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, facility.ErrInactive
		}
		overlap, err := scope.HasApprovedOverlap(ctx, r)
		if err != nil {
			return nil, err
		}
		if overlap {
			return nil, reservation.ErrTimeConflict
		}
		if err := r.Approve(caller.ID, adminNote, now); err != nil {
			return nil, err
		}
		var payload map[string]any
		if r.AdminNote != "" {
			payload = map[string]any{"adminNote": r.AdminNote}
		}
		return reservation.NewLogEntry(r.ID, reservation.EventApproved, reservation.ActorAdmin, caller.ID, payload, now), nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventReservationApproved, req, caller.ID)
	logger.Info("reservation approved", zap.Int64("reservation_id", id), zap.String("admin_id", caller.ID))
	return req, nil
}

// Reject moves a PENDING request to REJECTED with a mandatory reason.
func (s *ReservationService) Reject(ctx context.Context, caller identity.Caller, id int64, reason string) (*reservation.Request, error) {
	req, err := s.reject(ctx, caller, id, reason)
	s.observe("reject", err)
	return req, err
}

func (s *ReservationService) reject(ctx context.Context, caller identity.Caller, id int64, reason string) (*reservation.Request, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, reservation.ErrMissingReason
	}
	now := s.now()
	req, err := s.reservationRepo.Transition(ctx, id, func(ctx context.Context, r *reservation.Request, _ reservation.Scope) (*reservation.LogEntry, error) {
		if err := r.Reject(caller.ID, reason, now); err != nil {
			return nil, err
		}
		return reservation.NewLogEntry(r.ID, reservation.EventRejected, reservation.ActorAdmin, caller.ID, map[string]any{"reason": r.RejectionReason}, now), nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventReservationRejected, req, caller.ID)
	logger.Info("reservation rejected", zap.Int64("reservation_id", id), zap.String("admin_id", caller.ID))
	return req, nil
}

// Stats returns the dashboard counters in the configured timezone.
func (s *ReservationService) Stats(ctx context.Context, caller identity.Caller) (*reservation.Stats, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	stats, err := s.reservationRepo.Stats(ctx, reservation.WindowsAt(s.now(), s.loc))
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PendingReservations.Set(float64(stats.Pending))
	}
	return stats, nil
}

// Logs returns the audit trail of a request.
func (s *ReservationService) Logs(ctx context.Context, caller identity.Caller, id int64) ([]*reservation.LogEntry, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.reservationRepo.Logs(ctx, id)
}

// CompleteExpired moves every APPROVED request that ended at or before now to
// COMPLETED. Per-request failures are logged and skipped.
func (s *ReservationService) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.reservationRepo.ListExpiredApproved(ctx, now, completeBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list expired reservations: %w", err)
	}

	completed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return completed, ctx.Err()
		}
		req, err := s.reservationRepo.Transition(ctx, id, func(ctx context.Context, r *reservation.Request, _ reservation.Scope) (*reservation.LogEntry, error) {
			if err := r.Complete(now); err != nil {
				return nil, err
			}
			return reservation.NewLogEntry(r.ID, reservation.EventAutoCompleted, reservation.ActorSystem, reservation.SystemActorID, nil, now), nil
		})
		s.observe("complete", err)
		if err != nil {
			if !errors.Is(err, reservation.ErrInvalidState) {
				logger.Error("reservation completion failed", zap.Int64("reservation_id", id), zap.Error(err))
			}
			continue
		}
		completed++
		s.publish(ctx, EventReservationCompleted, req, reservation.SystemActorID)
	}
	return completed, nil
}

func (s *ReservationService) publish(ctx context.Context, eventType string, r *reservation.Request, actorID string) {
	if s.publisher == nil {
		return
	}
	ev := ReservationEvent{
		ReservationID: r.ID,
		FacilityID:    r.FacilityID,
		RequesterID:   r.RequesterID,
		Status:        string(r.Status),
		ActorID:       actorID,
		At:            r.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, eventType, ev); err != nil {
		logger.Warn("reservation event publish failed", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *ReservationService) observe(decision string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReservationDecisionsTotal.WithLabelValues(decision, ErrorCode(err)).Inc()
}
