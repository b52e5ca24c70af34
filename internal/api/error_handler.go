package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hooting76/blue-crab-lms-sub001/internal/pkg/logger"
)

// ErrorResponse is the body of every failed workflow request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CustomHTTPErrorHandler renders echo errors and domain errors as
// ErrorResponse. Unmapped errors become 500 and are logged.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, code := StatusOf(err)
	message := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		code = codeForStatus(status)
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = fmt.Sprint(he.Message)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("server error",
			zap.Int("status", status),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
		message = http.StatusText(status)
	}

	if err := c.JSON(status, ErrorResponse{Error: message, Code: code}); err != nil {
		logger.Error("failed to send error response", zap.Error(err))
	}
}
