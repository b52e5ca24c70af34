package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hooting76/blue-crab-lms-sub001/internal/application"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/reservation"
)

var slotStart = time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

func sampleRequest(t *testing.T) *reservation.Request {
	t.Helper()
	r, err := reservation.NewRequest(1, "Seminar Room A", student.ID, student.Name,
		slotStart, slotStart.Add(2*time.Hour), 8, "study group", "", slotStart.Add(-48*time.Hour))
	require.NoError(t, err)
	r.ID = 42
	return r
}

func withID(c echo.Context, id string) {
	c.SetParamNames("id")
	c.SetParamValues(id)
}

func TestReservationHandler_Submit(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockReservationService)
		in := application.SubmitInput{
			FacilityID: 1,
			StartTime:  slotStart,
			EndTime:    slotStart.Add(2 * time.Hour),
			PartySize:  8,
			Purpose:    "study group",
		}
		svc.On("Submit", mock.Anything, student, in).Return(sampleRequest(t), nil)

		body := `{"facilityId":1,"startTime":"2025-03-12T14:00:00Z","endTime":"2025-03-12T16:00:00Z","partySize":8,"purpose":"study group"}`
		c, rec := newContext(e, http.MethodPost, "/api/reservations", body, &student)
		invoke(e, NewReservationHandler(svc).Submit, c)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp ReservationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, "PENDING", resp.Status)
		svc.AssertExpectations(t)
	})

	t.Run("missing purpose fails validation", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockReservationService)

		body := `{"facilityId":1,"startTime":"2025-03-12T14:00:00Z","endTime":"2025-03-12T16:00:00Z","partySize":8}`
		c, rec := newContext(e, http.MethodPost, "/api/reservations", body, &student)
		invoke(e, NewReservationHandler(svc).Submit, c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"validation_error"`)
		svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inverted range is rejected by the service", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockReservationService)
		svc.On("Submit", mock.Anything, student, mock.Anything).Return(nil, reservation.ErrInvalidTimeRange)

		body := `{"facilityId":1,"startTime":"2025-03-12T16:00:00Z","endTime":"2025-03-12T14:00:00Z","partySize":8,"purpose":"x"}`
		c, rec := newContext(e, http.MethodPost, "/api/reservations", body, &student)
		invoke(e, NewReservationHandler(svc).Submit, c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"validation_error"`)
	})
}

func TestReservationHandler_GetByID(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		err    error
		status int
		code   string
	}{
		{"own request", "42", nil, http.StatusOK, ""},
		{"someone else's", "42", identity.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unknown", "42", reservation.ErrNotFound, http.StatusNotFound, "not_found"},
		{"malformed id", "abc", nil, http.StatusBadRequest, "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewTestEcho()
			svc := new(MockReservationService)
			if tt.id == "42" {
				if tt.err == nil {
					svc.On("GetDetail", mock.Anything, student, int64(42)).Return(sampleRequest(t), nil)
				} else {
					svc.On("GetDetail", mock.Anything, student, int64(42)).Return(nil, tt.err)
				}
			}

			c, rec := newContext(e, http.MethodGet, "/api/reservations/"+tt.id, "", &student)
			withID(c, tt.id)
			invoke(e, NewReservationHandler(svc).GetByID, c)

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				assert.Contains(t, rec.Body.String(), `"code":"`+tt.code+`"`)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestReservationHandler_ListPending(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockReservationService)
	svc.On("ListPending", mock.Anything, officer, 1, 10).
		Return(&reservation.Page{Items: []*reservation.Request{sampleRequest(t)}, Total: 11, Page: 1, Size: 10}, nil)

	c, rec := newContext(e, http.MethodGet, "/api/admin/reservations/pending?page=1&size=10", "", &officer)
	invoke(e, NewReservationHandler(svc).ListPending, c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 11, resp.Total)
	assert.Len(t, resp.Items, 1)
	svc.AssertExpectations(t)
}

func TestReservationHandler_ListPending_BadPage(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockReservationService)

	c, rec := newContext(e, http.MethodGet, "/api/admin/reservations/pending?page=x", "", &officer)
	invoke(e, NewReservationHandler(svc).ListPending, c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReservationHandler_Search(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockReservationService)
	want := reservation.Filter{Status: reservation.StatusApproved, FacilityID: 3, Query: "kim"}
	svc.On("Search", mock.Anything, officer, want, 0, 0).
		Return(&reservation.Page{Items: []*reservation.Request{}, Total: 0, Size: 5}, nil)

	c, rec := newContext(e, http.MethodGet, "/api/admin/reservations?status=approved&facilityIdx=3&query=%20kim%20", "", &officer)
	invoke(e, NewReservationHandler(svc).Search, c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
	svc.AssertExpectations(t)
}

func TestReservationHandler_Search_UnknownStatus(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockReservationService)

	c, rec := newContext(e, http.MethodGet, "/api/admin/reservations?status=archived", "", &officer)
	invoke(e, NewReservationHandler(svc).Search, c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"validation_error"`)
}

func TestReservationHandler_Approve(t *testing.T) {
	t.Run("approved with note", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockReservationService)
		svc.On("Approve", mock.Anything, officer, int64(42), "keys at desk").Return(sampleRequest(t), nil)

		c, rec := newContext(e, http.MethodPost, "/api/admin/reservations/42/approve", `{"adminNote":"keys at desk"}`, &officer)
		withID(c, "42")
		invoke(e, NewReservationHandler(svc).Approve, c)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"reservation approved"}`, rec.Body.String())
	})

	t.Run("approved without body", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockReservationService)
		svc.On("Approve", mock.Anything, officer, int64(42), "").Return(sampleRequest(t), nil)

		c, rec := newContext(e, http.MethodPost, "/api/admin/reservations/42/approve", "", &officer)
		withID(c, "42")
		invoke(e, NewReservationHandler(svc).Approve, c)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("slot already taken", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockReservationService)
		svc.On("Approve", mock.Anything, officer, int64(42), "").Return(nil, reservation.ErrTimeConflict)

		c, rec := newContext(e, http.MethodPost, "/api/admin/reservations/42/approve", "", &officer)
		withID(c, "42")
		invoke(e, NewReservationHandler(svc).Approve, c)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"time_conflict"`)
	})

	t.Run("already decided", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockReservationService)
		svc.On("Approve", mock.Anything, officer, int64(42), "").Return(nil, reservation.ErrInvalidState)

		c, rec := newContext(e, http.MethodPost, "/api/admin/reservations/42/approve", "", &officer)
		withID(c, "42")
		invoke(e, NewReservationHandler(svc).Approve, c)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"invalid_state"`)
	})
}

func TestReservationHandler_Reject(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockReservationService)
		svc.On("Reject", mock.Anything, officer, int64(42), "room closed").Return(sampleRequest(t), nil)

		c, rec := newContext(e, http.MethodPost, "/api/admin/reservations/42/reject", `{"rejectionReason":"room closed"}`, &officer)
		withID(c, "42")
		invoke(e, NewReservationHandler(svc).Reject, c)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"reservation rejected"}`, rec.Body.String())
	})

	t.Run("blank reason", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockReservationService)
		svc.On("Reject", mock.Anything, officer, int64(42), "").Return(nil, reservation.ErrMissingReason)

		c, rec := newContext(e, http.MethodPost, "/api/admin/reservations/42/reject", `{}`, &officer)
		withID(c, "42")
		invoke(e, NewReservationHandler(svc).Reject, c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"missing_reason"`)
	})
}

func TestReservationHandler_Stats(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockReservationService)
	svc.On("Stats", mock.Anything, officer).Return(&reservation.Stats{Pending: 3, Today: 1, ThisWeek: 5, ThisMonth: 12}, nil)

	c, rec := newContext(e, http.MethodGet, "/api/admin/reservations/stats", "", &officer)
	invoke(e, NewReservationHandler(svc).Stats, c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pending":3,"today":1,"thisWeek":5,"thisMonth":12}`, rec.Body.String())
}

func TestReservationHandler_Stats_Forbidden(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockReservationService)
	svc.On("Stats", mock.Anything, student).Return(nil, identity.ErrForbidden)

	c, rec := newContext(e, http.MethodGet, "/api/admin/reservations/stats", "", &student)
	invoke(e, NewReservationHandler(svc).Stats, c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReservationHandler_Logs(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockReservationService)
	entries := []*reservation.LogEntry{
		reservation.NewLogEntry(42, reservation.EventSubmitted, reservation.ActorUser, student.ID, nil, slotStart),
		reservation.NewLogEntry(42, reservation.EventRejected, reservation.ActorAdmin, officer.ID, map[string]any{"reason": "closed"}, slotStart),
	}
	svc.On("Logs", mock.Anything, officer, int64(42)).Return(entries, nil)

	c, rec := newContext(e, http.MethodGet, "/api/admin/reservations/42/logs", "", &officer)
	withID(c, "42")
	invoke(e, NewReservationHandler(svc).Logs, c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []LogEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "SUBMITTED", resp[0].EventType)
	assert.Equal(t, `{"reason":"closed"}`, resp[1].Payload)
}

func TestReservationHandler_ListMine(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockReservationService)
	svc.On("ListMine", mock.Anything, student, 0, 0).
		Return(&reservation.Page{Items: []*reservation.Request{sampleRequest(t)}, Total: 1, Size: 5}, nil)

	c, rec := newContext(e, http.MethodGet, "/api/reservations/mine", "", &student)
	invoke(e, NewReservationHandler(svc).ListMine, c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
}
