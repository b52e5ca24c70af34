package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hooting76/blue-crab-lms-sub001/internal/api"
	"github.com/hooting76/blue-crab-lms-sub001/internal/application"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/seat"
)

type SeatHandler struct {
	service SeatServiceInterface
}

func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type SeatCommandRequest struct {
	SeatID int `json:"seatId"`
}

// CommandResponse is the body of reserve and release.
type CommandResponse struct {
	OK   bool   `json:"ok"`
	Code string `json:"code,omitempty"`
}

type SeatResponse struct {
	ID     int    `json:"id"`
	SeatNo string `json:"seat_no"`
	State  int    `json:"state"`
}

type MyReservationResponse struct {
	SeatNumber int `json:"seatNumber"`
}

type SeatSummaryResponse struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
}

func toSeatResponse(s *seat.Seat) SeatResponse {
	return SeatResponse{ID: s.ID, SeatNo: s.Label(), State: int(s.State)}
}

func (h *SeatHandler) List(c echo.Context) error {
	seats, err := h.service.ListSeats(c.Request().Context())
	if err != nil {
		return err
	}
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SeatHandler) Reserve(c echo.Context) error {
	var req SeatCommandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, CommandResponse{Code: application.CodeInvalidSeat})
	}
	ctx := c.Request().Context()
	_, err := h.service.Reserve(ctx, identity.FromContext(ctx), req.SeatID)
	return h.commandResult(c, err)
}

func (h *SeatHandler) Release(c echo.Context) error {
	var req SeatCommandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, CommandResponse{Code: application.CodeInvalidSeat})
	}
	ctx := c.Request().Context()
	return h.commandResult(c, h.service.Release(ctx, identity.FromContext(ctx), req.SeatID))
}

// commandResult reports domain failures as {ok:false, code}. Anything
// unmapped goes to the error handler.
func (h *SeatHandler) commandResult(c echo.Context, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, CommandResponse{OK: true})
	}
	status, code := api.StatusOf(err)
	if status >= http.StatusInternalServerError {
		return err
	}
	return c.JSON(status, CommandResponse{Code: code})
}

// MyReservation answers null when the caller holds no seat.
func (h *SeatHandler) MyReservation(c echo.Context) error {
	ctx := c.Request().Context()
	caller := identity.FromContext(ctx)
	if err := caller.Authenticated(); err != nil {
		return err
	}
	s, err := h.service.GetOccupantSeat(ctx, caller.ID)
	if err != nil {
		return err
	}
	if s == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, MyReservationResponse{SeatNumber: s.ID})
}

func (h *SeatHandler) Summary(c echo.Context) error {
	sum, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SeatSummaryResponse{Total: sum.Total, Available: sum.Available, Occupied: sum.Occupied})
}
