// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	// method, path, status_code
	HTTPRequestsTotal *prometheus.CounterVec

	// method, path
	HTTPRequestDuration *prometheus.HistogramVec

	// operation: reserve/release, result: success/occupied/already_reserved/...
	SeatOperationsTotal *prometheus.CounterVec

	// decision: submit/approve/reject/complete, result: success or error code
	ReservationDecisionsTotal *prometheus.CounterVec

	// operation: acquire/release, status: success/failed
	DistributedLockDuration *prometheus.HistogramVec

	OccupiedSeats prometheus.Gauge

	PendingReservations prometheus.Gauge
}

// New registers the collectors with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		SeatOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_operations_total",
				Help: "Reading-room seat reserve and release attempts by outcome",
			},
			[]string{"operation", "result"},
		),
		ReservationDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_decisions_total",
				Help: "Facility reservation workflow transitions by outcome",
			},
			[]string{"decision", "result"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		OccupiedSeats: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "occupied_seats",
				Help: "Reading-room seats currently held",
			},
		),
		PendingReservations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pending_reservations",
				Help: "Facility reservation requests awaiting a decision",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SeatOperationsTotal,
		m.ReservationDecisionsTotal,
		m.DistributedLockDuration,
		m.OccupiedSeats,
		m.PendingReservations,
	)

	return m
}

var defaultMetrics *Metrics

// Init creates the default instance on the default registry.
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get returns the default instance, nil before Init.
func Get() *Metrics {
	return defaultMetrics
}
