package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/hooting76/blue-crab-lms-sub001/internal/api/middleware"
	"github.com/hooting76/blue-crab-lms-sub001/internal/api/router"
	"github.com/hooting76/blue-crab-lms-sub001/internal/application"
	"github.com/hooting76/blue-crab-lms-sub001/internal/config"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/facility"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/infrastructure/memory"
	"github.com/hooting76/blue-crab-lms-sub001/internal/pkg/metrics"
)

const (
	testSecret   = "e2e-secret"
	testPoolSize = 20
)

var (
	student = identity.Caller{ID: "20231234", Name: "Kim Minji", Role: identity.RoleUser}
	peer    = identity.Caller{ID: "20235678", Name: "Lee Junho", Role: identity.RoleUser}
	admin   = identity.Caller{ID: "admin01", Name: "Park Officer", Role: identity.RoleAdmin}
)

// TestServer is the full HTTP surface over in-memory stores.
type TestServer struct {
	Echo         *echo.Echo
	Reservations *application.ReservationService
	Registry     *prometheus.Registry
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	facilities := memory.NewFacilityRepository(facility.Defaults()...)
	seats := application.NewSeatService(memory.NewSeatRepository(), application.WithSeatMetrics(m))
	require.NoError(t, seats.Provision(context.Background(), testPoolSize))

	reservations := application.NewReservationService(
		memory.NewReservationRepository(facilities),
		facilities,
		application.WithReservationMetrics(m),
	)

	e := router.New(router.Deps{
		Seats:        seats,
		Reservations: reservations,
		Facilities:   application.NewFacilityService(facilities),
		JWTSecret:    testSecret,
		Metrics:      m,
		Gatherer:     reg,
		MetricsAuth:  config.MetricsConfig{User: "prom", Password: "scrape"},
	})
	return &TestServer{Echo: e, Reservations: reservations, Registry: reg}
}

func token(t *testing.T, c identity.Caller) string {
	t.Helper()
	tok, err := middleware.IssueToken(testSecret, c, time.Hour)
	require.NoError(t, err)
	return tok
}

// Request runs one request as caller; a zero caller sends no token.
func (s *TestServer) Request(t *testing.T, method, path string, body any, caller identity.Caller) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if caller.ID != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, caller))
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
