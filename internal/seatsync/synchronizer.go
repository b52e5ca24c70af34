package seatsync

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultInterval is the polling period.
const DefaultInterval = 30 * time.Second

type Option func(*Synchronizer)

func WithInterval(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// OnUpdate registers the callback that receives every new model.
func OnUpdate(fn func(Model)) Option {
	return func(s *Synchronizer) { s.onUpdate = fn }
}

func withClock(now func() time.Time) Option {
	return func(s *Synchronizer) { s.now = now }
}

// Synchronizer polls the seat API and applies commands optimistically.
// Commands are never retried.
type Synchronizer struct {
	client   SeatClient
	interval time.Duration
	onUpdate func(Model)
	now      func() time.Time

	mu    sync.Mutex
	model Model
}

func NewSynchronizer(client SeatClient, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		client:   client,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the latest model.
func (s *Synchronizer) Model() Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// Run refreshes immediately and then every interval until ctx is done.
func (s *Synchronizer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh fetches a snapshot now. A failed read keeps the last seats and sets
// Err.
func (s *Synchronizer) Refresh(ctx context.Context) Model {
	return s.refresh(ctx, nil)
}

// refresh reconciles a new snapshot. When settle is the pending intent of a
// finished command, a snapshot that still does not resolve it drops it.
func (s *Synchronizer) refresh(ctx context.Context, settle *Intent) Model {
	snap, err := s.fetch(ctx)

	s.mu.Lock()
	if err != nil {
		s.model.Err = err
	} else {
		s.model = Reconcile(s.model, snap)
	}
	if settle != nil && s.model.Pending == settle {
		s.model.Pending = nil
	}
	m := s.model
	s.mu.Unlock()

	s.publish(m)
	return m
}

// Reserve takes seatID for the caller.
func (s *Synchronizer) Reserve(ctx context.Context, seatID int) error {
	return s.command(ctx, Intent{Kind: IntentReserve, SeatID: seatID}, s.client.Reserve)
}

// Release gives seatID back.
func (s *Synchronizer) Release(ctx context.Context, seatID int) error {
	return s.command(ctx, Intent{Kind: IntentRelease, SeatID: seatID}, s.client.Release)
}

// command marks the intent, runs the call once and refreshes. A refusal
// settles the intent right away; otherwise the follow-up snapshot settles it.
// Polls that land while the call is in flight keep the intent pending.
func (s *Synchronizer) command(ctx context.Context, intent Intent, call func(context.Context, int) error) error {
	pending := &intent

	s.mu.Lock()
	s.model.Pending = pending
	s.model.Notice = ""
	m := s.model
	s.mu.Unlock()
	s.publish(m)

	err := call(ctx, intent.SeatID)

	s.mu.Lock()
	var ce *CommandError
	switch {
	case err == nil:
	case errors.As(err, &ce):
		if s.model.Pending == pending {
			s.model.Pending = nil
		}
		s.model.Notice = ce.Code
	default:
		s.model.Notice = NoticeTransport
	}
	s.mu.Unlock()

	s.refresh(ctx, pending)
	return err
}

func (s *Synchronizer) fetch(ctx context.Context) (Snapshot, error) {
	seats, err := s.client.ListSeats(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	mine, err := s.client.MyReservation(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Seats: seats, MySeat: mine, FetchedAt: s.now()}, nil
}

func (s *Synchronizer) publish(m Model) {
	if s.onUpdate != nil {
		s.onUpdate(m)
	}
}
