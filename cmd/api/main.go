package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hooting76/blue-crab-lms-sub001/internal/api/handler"
	"github.com/hooting76/blue-crab-lms-sub001/internal/api/router"
	"github.com/hooting76/blue-crab-lms-sub001/internal/application"
	"github.com/hooting76/blue-crab-lms-sub001/internal/config"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/facility"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/reservation"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/seat"
	"github.com/hooting76/blue-crab-lms-sub001/internal/infrastructure/memory"
	"github.com/hooting76/blue-crab-lms-sub001/internal/infrastructure/postgres"
	"github.com/hooting76/blue-crab-lms-sub001/internal/infrastructure/rabbitmq"
	redisinfra "github.com/hooting76/blue-crab-lms-sub001/internal/infrastructure/redis"
	"github.com/hooting76/blue-crab-lms-sub001/internal/pkg/logger"
	"github.com/hooting76/blue-crab-lms-sub001/internal/pkg/metrics"
	"github.com/hooting76/blue-crab-lms-sub001/internal/worker"
)

const seatPoolName = "reading_room"

type stores struct {
	seats        seat.Repository
	facilities   facility.Repository
	reservations reservation.Repository
	checks       []handler.HealthCheck
	close        func()
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	cfg := config.Load()

	log := logger.NewLogger(cfg.Server.Env)
	logger.Set(log)
	defer func() { _ = log.Sync() }()

	if err := run(cfg); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	loc, err := cfg.Reservation.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	m := metrics.Init()
	seatOpts := []application.SeatServiceOption{application.WithSeatMetrics(m)}
	resOpts := []application.ReservationServiceOption{
		application.WithReservationMetrics(m),
		application.WithLocation(loc),
	}

	if cfg.Redis.Enabled {
		rc, err := redisinfra.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = rc.Close() }()

		seatOpts = append(seatOpts,
			application.WithSeatLocks(redisinfra.NewLockManager(rc), cfg.Seats.LockTTL),
			application.WithSeatCache(redisinfra.NewSeatCache(rc, seatPoolName), cfg.Seats.CacheTTL),
		)
		st.checks = append(st.checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisinfra.Ping(ctx, rc) },
		})
		logger.Info("redis enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	if cfg.Events.AMQPURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			return err
		}
		defer func() { _ = pub.Close() }()

		seatOpts = append(seatOpts, application.WithSeatEvents(pub))
		resOpts = append(resOpts, application.WithReservationEvents(pub))
		logger.Info("event publishing enabled", zap.String("exchange", cfg.Events.Exchange))
	}

	seats := application.NewSeatService(st.seats, seatOpts...)
	if err := seats.Provision(ctx, cfg.Seats.PoolSize); err != nil {
		return err
	}
	reservations := application.NewReservationService(st.reservations, st.facilities, resOpts...)
	facilities := application.NewFacilityService(st.facilities)

	completer := worker.NewReservationCompleter(reservations, cfg.Reservation.CompleterInterval)
	go completer.Start(ctx)
	defer completer.Stop()

	e := router.New(router.Deps{
		Seats:        seats,
		Reservations: reservations,
		Facilities:   facilities,
		HealthChecks: st.checks,
		JWTSecret:    cfg.Auth.JWTSecret,
		Metrics:      m,
		Gatherer:     prometheus.DefaultGatherer,
		MetricsAuth:  cfg.Metrics,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Store),
			zap.Int("seats", cfg.Seats.PoolSize))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		facilities := memory.NewFacilityRepository(facility.Defaults()...)
		logger.Warn("using in-memory store, state is lost on restart")
		return &stores{
			seats:        memory.NewSeatRepository(),
			facilities:   facilities,
			reservations: memory.NewReservationRepository(facilities),
			close:        func() {},
		}, nil
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &stores{
		seats:        postgres.NewSeatRepository(db),
		facilities:   postgres.NewFacilityRepository(db),
		reservations: postgres.NewReservationRepository(db),
		checks: []handler.HealthCheck{{
			Name:  "postgres",
			Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) },
		}},
		close: func() { _ = db.Close() },
	}, nil
}
