package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/seat"
	redisinfra "github.com/hooting76/blue-crab-lms-sub001/internal/infrastructure/redis"
	"github.com/hooting76/blue-crab-lms-sub001/internal/pkg/logger"
	"github.com/hooting76/blue-crab-lms-sub001/internal/pkg/metrics"
)

const (
	defaultSeatCacheTTL = 30 * time.Second
	defaultSeatLockTTL  = 5 * time.Second
	seatLockRetries     = 3
	seatLockRetryDelay  = 50 * time.Millisecond
)

// SeatSummary is the occupancy overview of the pool.
type SeatSummary struct {
	Total     int
	Available int
	Occupied  int
}

// SeatService owns every read and write of the seat pool.
type SeatService struct {
	seatRepo    seat.Repository
	cache       SeatCacheInterface
	cacheTTL    time.Duration
	lockManager *redisinfra.LockManager
	lockTTL     time.Duration
	publisher   EventPublisher
	metrics     *metrics.Metrics
	now         Clock
}

type SeatServiceOption func(*SeatService)

// WithSeatCache caches the available count.
func WithSeatCache(c SeatCacheInterface, ttl time.Duration) SeatServiceOption {
	return func(s *SeatService) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithSeatLocks serializes writers of one seat across instances.
func WithSeatLocks(lm *redisinfra.LockManager, ttl time.Duration) SeatServiceOption {
	return func(s *SeatService) {
		s.lockManager = lm
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithSeatEvents(p EventPublisher) SeatServiceOption {
	return func(s *SeatService) { s.publisher = p }
}

func WithSeatMetrics(m *metrics.Metrics) SeatServiceOption {
	return func(s *SeatService) { s.metrics = m }
}

func WithSeatClock(c Clock) SeatServiceOption {
	return func(s *SeatService) { s.now = c }
}

func NewSeatService(sr seat.Repository, opts ...SeatServiceOption) *SeatService {
	s := &SeatService{
		seatRepo: sr,
		cacheTTL: defaultSeatCacheTTL,
		lockTTL:  defaultSeatLockTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provision creates the fixed seat pool. Existing seats keep their state.
func (s *SeatService) Provision(ctx context.Context, count int) error {
	if count <= 0 {
		return fmt.Errorf("seat pool size must be positive, got %d", count)
	}
	if err := s.seatRepo.Provision(ctx, count); err != nil {
		return fmt.Errorf("provision seats: %w", err)
	}
	s.invalidateCache(ctx)
	logger.Info("seat pool provisioned", zap.Int("seats", count))
	return nil
}

// ListSeats returns the whole pool ordered by seat number.
func (s *SeatService) ListSeats(ctx context.Context) ([]*seat.Seat, error) {
	return s.seatRepo.List(ctx)
}

// Reserve gives seatID to the caller.
func (s *SeatService) Reserve(ctx context.Context, caller identity.Caller, seatID int) (*seat.Seat, error) {
	st, err := s.reserve(ctx, caller, seatID)
	s.observe("reserve", err)
	return st, err
}

func (s *SeatService) reserve(ctx context.Context, caller identity.Caller, seatID int) (*seat.Seat, error) {
	if err := caller.Authenticated(); err != nil {
		return nil, err
	}
	if seatID <= 0 {
		return nil, seat.ErrInvalidSeat
	}

	unlock := s.lockSeat(ctx, seatID)
	defer unlock()

	st, err := s.seatRepo.Reserve(ctx, seatID, caller.ID, s.now())
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.publish(ctx, EventSeatReserved, SeatEvent{SeatID: st.ID, Label: st.Label(), OccupantID: caller.ID, At: st.UpdatedAt})
	logger.Info("seat reserved", zap.Int("seat_id", st.ID), zap.String("occupant_id", caller.ID))
	return st, nil
}

// Release frees seatID if the caller holds it.
func (s *SeatService) Release(ctx context.Context, caller identity.Caller, seatID int) error {
	err := s.release(ctx, caller, seatID)
	s.observe("release", err)
	return err
}

func (s *SeatService) release(ctx context.Context, caller identity.Caller, seatID int) error {
	if err := caller.Authenticated(); err != nil {
		return err
	}
	if seatID <= 0 {
		return seat.ErrInvalidSeat
	}

	unlock := s.lockSeat(ctx, seatID)
	defer unlock()

	st, err := s.seatRepo.Release(ctx, seatID, caller.ID, s.now())
	if err != nil {
		return err
	}

	s.invalidateCache(ctx)
	s.publish(ctx, EventSeatReleased, SeatEvent{SeatID: st.ID, Label: st.Label(), OccupantID: caller.ID, At: st.UpdatedAt})
	logger.Info("seat released", zap.Int("seat_id", st.ID), zap.String("occupant_id", caller.ID))
	return nil
}

// GetOccupantSeat returns nil, nil when the occupant holds nothing.
func (s *SeatService) GetOccupantSeat(ctx context.Context, occupantID string) (*seat.Seat, error) {
	if occupantID == "" {
		return nil, identity.ErrUnauthenticated
	}
	return s.seatRepo.GetByOccupant(ctx, occupantID)
}

// Summary reports pool totals from the stored seats. The available count may
// come from the cache; a cached count larger than the pool is ignored.
func (s *SeatService) Summary(ctx context.Context) (*SeatSummary, error) {
	seats, err := s.seatRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	total := len(seats)
	available, err := s.CountAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if available > total {
		available = 0
		for _, st := range seats {
			if st.IsAvailable() {
				available++
			}
		}
	}
	sum := &SeatSummary{Total: total, Available: available, Occupied: total - available}
	if s.metrics != nil {
		s.metrics.OccupiedSeats.Set(float64(sum.Occupied))
	}
	return sum, nil
}

// CountAvailable reads through the cache when one is configured.
func (s *SeatService) CountAvailable(ctx context.Context) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx)
		if err == nil {
			logger.Debug("seat cache hit", zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("seat cache read failed", zap.Error(err))
		}
	}

	count, err := s.seatRepo.CountAvailable(ctx)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableCount(ctx, count, s.cacheTTL); cacheErr != nil {
			logger.Warn("seat cache write failed", zap.Error(cacheErr))
		}
	}
	return count, nil
}

// lockSeat takes the per-seat lock when Redis is configured. Contention past
// the retry budget falls through to the store, whose check-and-set decides.
func (s *SeatService) lockSeat(ctx context.Context, seatID int) func() {
	if s.lockManager == nil {
		return func() {}
	}
	start := time.Now()
	lock, err := s.lockManager.AcquireLockWithRetry(ctx, fmt.Sprintf("seat:%d", seatID), s.lockTTL, seatLockRetries, seatLockRetryDelay)
	s.observeLock("acquire", start, err)
	if err != nil {
		logger.Warn("seat lock unavailable", zap.Int("seat_id", seatID), zap.Error(err))
		return func() {}
	}
	return func() {
		start := time.Now()
		err := lock.Release(context.WithoutCancel(ctx))
		s.observeLock("release", start, err)
		if err != nil {
			logger.Warn("seat lock release failed", zap.Int("seat_id", seatID), zap.Error(err))
		}
	}
}

func (s *SeatService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("seat cache invalidate failed", zap.Error(err))
	}
}

func (s *SeatService) publish(ctx context.Context, eventType string, ev SeatEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, ev); err != nil {
		logger.Warn("seat event publish failed", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *SeatService) observe(op string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.SeatOperationsTotal.WithLabelValues(op, ErrorCode(err)).Inc()
}

func (s *SeatService) observeLock(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	s.metrics.DistributedLockDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}
