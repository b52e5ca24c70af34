package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hooting76/blue-crab-lms-sub001/internal/application"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/seat"
)

var (
	student = identity.Caller{ID: "s-1001", Name: "Kim Minji", Role: identity.RoleUser}
	officer = identity.Caller{ID: "a-1", Name: "Lee", Role: identity.RoleAdmin}
)

// invoke runs h the way echo would, including the error handler.
func invoke(e *echo.Echo, h echo.HandlerFunc, c echo.Context) {
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
}

func newContext(e *echo.Echo, method, target, body string, caller *identity.Caller) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		WithTestCaller(c, *caller)
	}
	return c, rec
}

func TestSeatHandler_List(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockSeatService)
	now := time.Now()
	occupied := seat.NewSeat(2, now)
	require.NoError(t, occupied.Occupy("s-2", now))
	svc.On("ListSeats", mock.Anything).Return([]*seat.Seat{seat.NewSeat(1, now), occupied}, nil)

	c, rec := newContext(e, http.MethodGet, "/api/seats", "", &student)
	invoke(e, NewSeatHandler(svc).List, c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"seat_no":"01","state":0},{"id":2,"seat_no":"02","state":1}]`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestSeatHandler_Reserve(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"success", nil, http.StatusOK, `{"ok":true}`},
		{"occupied", seat.ErrSeatOccupied, http.StatusConflict, `{"ok":false,"code":"occupied"}`},
		{"invalid seat", seat.ErrInvalidSeat, http.StatusBadRequest, `{"ok":false,"code":"invalid_seat"}`},
		{"already reserved", seat.ErrAlreadyReserved, http.StatusConflict, `{"ok":false,"code":"already_reserved"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewTestEcho()
			svc := new(MockSeatService)
			if tt.err == nil {
				svc.On("Reserve", mock.Anything, student, 7).Return(seat.NewSeat(7, time.Now()), nil)
			} else {
				svc.On("Reserve", mock.Anything, student, 7).Return(nil, tt.err)
			}

			c, rec := newContext(e, http.MethodPost, "/api/seats/reserve", `{"seatId":7}`, &student)
			invoke(e, NewSeatHandler(svc).Reserve, c)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestSeatHandler_Reserve_InternalError(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockSeatService)
	svc.On("Reserve", mock.Anything, student, 7).Return(nil, errors.New("db down"))

	c, rec := newContext(e, http.MethodPost, "/api/seats/reserve", `{"seatId":7}`, &student)
	invoke(e, NewSeatHandler(svc).Reserve, c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"internal_error"`)
}

func TestSeatHandler_Reserve_MalformedBody(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockSeatService)

	c, rec := newContext(e, http.MethodPost, "/api/seats/reserve", `{"seatId":"seven"}`, &student)
	invoke(e, NewSeatHandler(svc).Reserve, c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"ok":false,"code":"invalid_seat"}`, rec.Body.String())
	svc.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeatHandler_Release(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockSeatService)
	svc.On("Release", mock.Anything, student, 7).Return(nil).Once()
	svc.On("Release", mock.Anything, student, 8).Return(seat.ErrUnauthorizedSeat).Once()
	h := NewSeatHandler(svc)

	c, rec := newContext(e, http.MethodPost, "/api/seats/release", `{"seatId":7}`, &student)
	invoke(e, h.Release, c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	c, rec = newContext(e, http.MethodPost, "/api/seats/release", `{"seatId":8}`, &student)
	invoke(e, h.Release, c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"ok":false,"code":"unauthorized_seat"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestSeatHandler_MyReservation(t *testing.T) {
	t.Run("holding a seat", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockSeatService)
		now := time.Now()
		s := seat.NewSeat(12, now)
		require.NoError(t, s.Occupy(student.ID, now))
		svc.On("GetOccupantSeat", mock.Anything, student.ID).Return(s, nil)

		c, rec := newContext(e, http.MethodGet, "/api/seats/my-reservation", "", &student)
		invoke(e, NewSeatHandler(svc).MyReservation, c)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"seatNumber":12}`, rec.Body.String())
	})

	t.Run("holding nothing", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockSeatService)
		svc.On("GetOccupantSeat", mock.Anything, student.ID).Return(nil, nil)

		c, rec := newContext(e, http.MethodGet, "/api/seats/my-reservation", "", &student)
		invoke(e, NewSeatHandler(svc).MyReservation, c)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
	})

	t.Run("anonymous", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockSeatService)

		c, rec := newContext(e, http.MethodGet, "/api/seats/my-reservation", "", nil)
		invoke(e, NewSeatHandler(svc).MyReservation, c)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSeatHandler_Summary(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockSeatService)
	svc.On("Summary", mock.Anything).Return(&application.SeatSummary{Total: 80, Available: 77, Occupied: 3}, nil)

	c, rec := newContext(e, http.MethodGet, "/api/seats/summary", "", &student)
	invoke(e, NewSeatHandler(svc).Summary, c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SeatSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, SeatSummaryResponse{Total: 80, Available: 77, Occupied: 3}, resp)
}
