package application

import (
	"errors"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/facility"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/reservation"
	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/seat"
)

// Wire codes reported to clients and used as metric labels.
const (
	CodeOccupied         = "occupied"
	CodeInvalidSeat      = "invalid_seat"
	CodeAlreadyReserved  = "already_reserved"
	CodeUnauthorizedSeat = "unauthorized_seat"
	CodeNotFound         = "not_found"
	CodeInvalidState     = "invalid_state"
	CodeMissingReason    = "missing_reason"
	CodeTimeConflict     = "time_conflict"
	CodeForbidden        = "forbidden"
	CodeUnauthorized     = "unauthorized"
	CodeValidation       = "validation_error"
	CodeInternal         = "internal_error"
)

var codeTable = []struct {
	err  error
	code string
}{
	{seat.ErrSeatOccupied, CodeOccupied},
	{seat.ErrInvalidSeat, CodeInvalidSeat},
	{seat.ErrAlreadyReserved, CodeAlreadyReserved},
	{seat.ErrUnauthorizedSeat, CodeUnauthorizedSeat},
	{seat.ErrSeatNotFound, CodeNotFound},
	{seat.ErrOccupantRequired, CodeUnauthorized},
	{reservation.ErrNotFound, CodeNotFound},
	{reservation.ErrInvalidState, CodeInvalidState},
	{reservation.ErrMissingReason, CodeMissingReason},
	{reservation.ErrTimeConflict, CodeTimeConflict},
	{reservation.ErrInvalidStatus, CodeValidation},
	{reservation.ErrInvalidTimeRange, CodeValidation},
	{reservation.ErrInvalidPartySize, CodeValidation},
	{reservation.ErrPartyTooLarge, CodeValidation},
	{reservation.ErrPurposeRequired, CodeValidation},
	{reservation.ErrRequesterMissing, CodeValidation},
	{reservation.ErrQueryTooLong, CodeValidation},
	{facility.ErrNotFound, CodeNotFound},
	{facility.ErrInactive, CodeInvalidState},
	{identity.ErrForbidden, CodeForbidden},
	{identity.ErrUnauthenticated, CodeUnauthorized},
}

// ErrorCode maps a domain error to its wire code. Unknown errors map to
// CodeInternal and nil maps to "success".
func ErrorCode(err error) string {
	if err == nil {
		return "success"
	}
	for _, e := range codeTable {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return CodeInternal
}
