package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hooting76/blue-crab-lms-sub001/internal/application"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/reservation"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type SubmitReservationRequest struct {
	FacilityID         int64     `json:"facilityId" validate:"required,min=1"`
	StartTime          time.Time `json:"startTime" validate:"required"`
	EndTime            time.Time `json:"endTime" validate:"required"`
	PartySize          int       `json:"partySize" validate:"required,min=1"`
	Purpose            string    `json:"purpose" validate:"required,max=1000"`
	RequestedEquipment string    `json:"requestedEquipment" validate:"max=1000"`
}

type ApproveRequest struct {
	AdminNote string `json:"adminNote"`
}

type RejectRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

type ReservationResponse struct {
	ID                 int64      `json:"id"`
	FacilityID         int64      `json:"facilityId"`
	FacilityName       string     `json:"facilityName"`
	RequesterID        string     `json:"requesterId"`
	RequesterName      string     `json:"requesterName"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            time.Time  `json:"endTime"`
	PartySize          int        `json:"partySize"`
	Purpose            string     `json:"purpose"`
	RequestedEquipment string     `json:"requestedEquipment,omitempty"`
	Status             string     `json:"status"`
	AdminNote          string     `json:"adminNote,omitempty"`
	RejectionReason    string     `json:"rejectionReason,omitempty"`
	DecidedBy          string     `json:"decidedBy,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	DecidedAt          *time.Time `json:"decidedAt,omitempty"`
}

type PageResponse struct {
	Items []ReservationResponse `json:"items"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Size  int                   `json:"size"`
}

type StatsResponse struct {
	Pending   int `json:"pending"`
	Today     int `json:"today"`
	ThisWeek  int `json:"thisWeek"`
	ThisMonth int `json:"thisMonth"`
}

type LogEntryResponse struct {
	ID        int64     `json:"id"`
	EventType string    `json:"eventType"`
	ActorType string    `json:"actorType"`
	ActorID   string    `json:"actorId"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toReservationResponse(r *reservation.Request) ReservationResponse {
	return ReservationResponse{
		ID:                 r.ID,
		FacilityID:         r.FacilityID,
		FacilityName:       r.FacilityName,
		RequesterID:        r.RequesterID,
		RequesterName:      r.RequesterName,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		PartySize:          r.PartySize,
		Purpose:            r.Purpose,
		RequestedEquipment: r.RequestedEquipment,
		Status:             string(r.Status),
		AdminNote:          r.AdminNote,
		RejectionReason:    r.RejectionReason,
		DecidedBy:          r.DecidedBy,
		CreatedAt:          r.CreatedAt,
		DecidedAt:          r.DecidedAt,
	}
}

func toPageResponse(p *reservation.Page) PageResponse {
	items := make([]ReservationResponse, len(p.Items))
	for i, r := range p.Items {
		items[i] = toReservationResponse(r)
	}
	return PageResponse{Items: items, Total: p.Total, Page: p.Page, Size: p.Size}
}

func callerOf(c echo.Context) identity.Caller {
	return identity.FromContext(c.Request().Context())
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id")
	}
	return id, nil
}

// pageParams reads 0-based page and size; the service clamps them.
func pageParams(c echo.Context) (int, int, error) {
	page, size := 0, 0
	var err error
	if v := c.QueryParam("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
	}
	if v := c.QueryParam("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid size")
		}
	}
	return page, size, nil
}

// Submit files a new request for the caller.
func (h *ReservationHandler) Submit(c echo.Context) error {
	var req SubmitReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	r, err := h.service.Submit(c.Request().Context(), callerOf(c), application.SubmitInput{
		FacilityID:         req.FacilityID,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		PartySize:          req.PartySize,
		Purpose:            req.Purpose,
		RequestedEquipment: req.RequestedEquipment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

func (h *ReservationHandler) ListMine(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	p, err := h.service.ListMine(c.Request().Context(), callerOf(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(p))
}

// GetByID serves both the requester and the admin detail route; the service
// decides who may read what.
func (h *ReservationHandler) GetByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r, err := h.service.GetDetail(c.Request().Context(), callerOf(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

func (h *ReservationHandler) ListPending(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	p, err := h.service.ListPending(c.Request().Context(), callerOf(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(p))
}

// Search accepts status, facilityIdx (or facilityId) and query.
func (h *ReservationHandler) Search(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	status, err := reservation.ParseStatus(c.QueryParam("status"))
	if err != nil {
		return err
	}
	filter := reservation.Filter{Status: status, Query: strings.TrimSpace(c.QueryParam("query"))}

	raw := c.QueryParam("facilityIdx")
	if raw == "" {
		raw = c.QueryParam("facilityId")
	}
	if raw != "" {
		if filter.FacilityID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid facility id")
		}
	}

	p, err := h.service.Search(c.Request().Context(), callerOf(c), filter, page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(p))
}

func (h *ReservationHandler) Approve(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req ApproveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if _, err := h.service.Approve(c.Request().Context(), callerOf(c), id, req.AdminNote); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "reservation approved"})
}

func (h *ReservationHandler) Reject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if _, err := h.service.Reject(c.Request().Context(), callerOf(c), id, req.RejectionReason); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "reservation rejected"})
}

func (h *ReservationHandler) Stats(c echo.Context) error {
	s, err := h.service.Stats(c.Request().Context(), callerOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatsResponse{Pending: s.Pending, Today: s.Today, ThisWeek: s.ThisWeek, ThisMonth: s.ThisMonth})
}

func (h *ReservationHandler) Logs(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	entries, err := h.service.Logs(c.Request().Context(), callerOf(c), id)
	if err != nil {
		return err
	}
	resp := make([]LogEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = LogEntryResponse{
			ID:        e.ID,
			EventType: string(e.EventType),
			ActorType: string(e.ActorType),
			ActorID:   e.ActorID,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt,
		}
	}
	return c.JSON(http.StatusOK, resp)
}
