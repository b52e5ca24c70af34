package reservation

import "errors"

var (
	ErrNotFound         = errors.New("reservation not found")
	ErrInvalidState     = errors.New("reservation is not in a state that allows this action")
	ErrMissingReason    = errors.New("rejection reason is required")
	ErrTimeConflict     = errors.New("facility already has an approved reservation in this time range")
	ErrNotYetEnded      = errors.New("reservation has not ended yet")
	ErrInvalidStatus    = errors.New("unknown reservation status")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrInvalidPartySize = errors.New("party size must be at least 1")
	ErrPartyTooLarge    = errors.New("party size exceeds facility capacity")
	ErrPurposeRequired  = errors.New("purpose is required")
	ErrRequesterMissing = errors.New("requester id is required")
	ErrQueryTooLong     = errors.New("search query must be at most 100 characters")
)
