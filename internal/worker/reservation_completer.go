package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hooting76/blue-crab-lms-sub001/internal/pkg/logger"
)

// ExpiredCompleter moves finished APPROVED reservations to COMPLETED.
type ExpiredCompleter interface {
	CompleteExpired(ctx context.Context, now time.Time) (int, error)
}

// ReservationCompleter sweeps finished reservations on a fixed interval. The
// first sweep runs as soon as Start is called.
type ReservationCompleter struct {
	service  ExpiredCompleter
	interval time.Duration
	now      func() time.Time
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// DefaultInterval is used when NewReservationCompleter gets a non-positive
// interval.
const DefaultInterval = time.Hour

func NewReservationCompleter(s ExpiredCompleter, interval time.Duration) *ReservationCompleter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &ReservationCompleter{
		service:  s,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called.
func (c *ReservationCompleter) Start(ctx context.Context) {
	logger.Info("reservation completer started", zap.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	c.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("reservation completer stopped", zap.String("reason", "context cancelled"))
			return
		case <-c.stopCh:
			logger.Info("reservation completer stopped", zap.String("reason", "stop requested"))
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

// Stop ends Start and waits for it to return. It is safe to call more than once.
func (c *ReservationCompleter) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.doneCh
}

func (c *ReservationCompleter) sweep(ctx context.Context) {
	log := logger.Named("completer")

	count, err := c.service.CompleteExpired(ctx, c.now())
	if err != nil {
		log.Error("failed to complete expired reservations", zap.Error(err))
		return
	}
	if count > 0 {
		log.Info("completed expired reservations", zap.Int("count", count))
	} else {
		log.Debug("no expired reservations")
	}
}
