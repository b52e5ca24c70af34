package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type FacilityHandler struct {
	service FacilityServiceInterface
}

func NewFacilityHandler(s FacilityServiceInterface) *FacilityHandler {
	return &FacilityHandler{service: s}
}

type FacilityResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
	Active   bool   `json:"active"`
}

// List returns active facilities. Admins may pass includeInactive=true.
func (h *FacilityHandler) List(c echo.Context) error {
	includeInactive := c.QueryParam("includeInactive") == "true" && callerOf(c).IsAdmin()
	list, err := h.service.ListFacilities(c.Request().Context(), includeInactive)
	if err != nil {
		return err
	}
	resp := make([]FacilityResponse, len(list))
	for i, f := range list {
		resp[i] = FacilityResponse{ID: f.ID, Name: f.Name, Type: f.Type, Capacity: f.Capacity, Active: f.Active}
	}
	return c.JSON(http.StatusOK, resp)
}
