package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hooting76/blue-crab-lms-sub001/internal/api"
	"github.com/hooting76/blue-crab-lms-sub001/internal/api/handler"
	"github.com/hooting76/blue-crab-lms-sub001/internal/api/middleware"
	"github.com/hooting76/blue-crab-lms-sub001/internal/config"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/pkg/metrics"
)

// Deps are the services and settings the HTTP surface is built from.
type Deps struct {
	Seats        handler.SeatServiceInterface
	Reservations handler.ReservationServiceInterface
	Facilities   handler.FacilityServiceInterface
	HealthChecks []handler.HealthCheck

	JWTSecret string
	Metrics   *metrics.Metrics
	// Gatherer serves /metrics; nil skips the route.
	Gatherer    prometheus.Gatherer
	MetricsAuth config.MetricsConfig
}

// New builds the echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e)
	if d.Metrics != nil {
		e.Use(middleware.PrometheusMiddleware(d.Metrics))
	}

	e.GET("/health", handler.NewHealthHandler(d.HealthChecks...).Check)
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})),
			middleware.MetricsBasicAuth(d.MetricsAuth))
	}

	seats := handler.NewSeatHandler(d.Seats)
	reservations := handler.NewReservationHandler(d.Reservations)
	facilities := handler.NewFacilityHandler(d.Facilities)

	g := e.Group("/api", middleware.JWTAuth(d.JWTSecret))

	g.GET("/seats", seats.List)
	g.POST("/seats/reserve", seats.Reserve)
	g.POST("/seats/release", seats.Release)
	g.GET("/seats/my-reservation", seats.MyReservation)
	g.GET("/seats/summary", seats.Summary)

	g.GET("/facilities", facilities.List)
	g.POST("/reservations", reservations.Submit)
	g.GET("/reservations/mine", reservations.ListMine)
	g.GET("/reservations/:id", reservations.GetByID)

	admin := g.Group("/admin", middleware.RequireRole(identity.RoleAdmin))
	admin.GET("/reservations/stats", reservations.Stats)
	admin.GET("/reservations/pending", reservations.ListPending)
	admin.GET("/reservations", reservations.Search)
	admin.GET("/reservations/:id", reservations.GetByID)
	admin.GET("/reservations/:id/logs", reservations.Logs)
	admin.POST("/reservations/:id/approve", reservations.Approve)
	admin.POST("/reservations/:id/reject", reservations.Reject)

	return e
}
