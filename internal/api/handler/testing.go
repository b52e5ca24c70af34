package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hooting76/blue-crab-lms-sub001/internal/api"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
)

// NewTestEcho returns an echo instance wired with the production validator
// and error handler.
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}

// WithTestCaller attaches caller to the request of c, as JWTAuth would.
func WithTestCaller(c echo.Context, caller identity.Caller) {
	req := c.Request()
	c.SetRequest(req.WithContext(identity.WithCaller(req.Context(), caller)))
}
