package api

import (
	"net/http"

	"github.com/hooting76/blue-crab-lms-sub001/internal/application"
)

var statusByCode = map[string]int{
	application.CodeOccupied:         http.StatusConflict,
	application.CodeInvalidSeat:      http.StatusBadRequest,
	application.CodeAlreadyReserved:  http.StatusConflict,
	application.CodeUnauthorizedSeat: http.StatusForbidden,
	application.CodeNotFound:         http.StatusNotFound,
	application.CodeInvalidState:     http.StatusConflict,
	application.CodeMissingReason:    http.StatusBadRequest,
	application.CodeTimeConflict:     http.StatusConflict,
	application.CodeForbidden:        http.StatusForbidden,
	application.CodeUnauthorized:     http.StatusUnauthorized,
	application.CodeValidation:       http.StatusBadRequest,
}

// StatusOf returns the HTTP status and wire code for a domain error.
func StatusOf(err error) (int, string) {
	code := application.ErrorCode(err)
	if status, ok := statusByCode[code]; ok {
		return status, code
	}
	return http.StatusInternalServerError, application.CodeInternal
}

// codeForStatus names errors raised by echo itself (routing, binding, auth).
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return application.CodeValidation
	case http.StatusUnauthorized:
		return application.CodeUnauthorized
	case http.StatusForbidden:
		return application.CodeForbidden
	case http.StatusNotFound:
		return application.CodeNotFound
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusTooManyRequests:
		return "rate_limited"
	}
	if status >= http.StatusInternalServerError {
		return application.CodeInternal
	}
	return "request_failed"
}
