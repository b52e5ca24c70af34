package seat

import "errors"

var (
	ErrInvalidSeat       = errors.New("invalid seat")
	ErrSeatOccupied      = errors.New("seat is occupied")
	ErrAlreadyReserved   = errors.New("occupant already holds another seat")
	ErrUnauthorizedSeat  = errors.New("seat is not held by caller")
	ErrSeatNotFound      = errors.New("seat not found")
	ErrOccupantRequired  = errors.New("occupant id is required")
	ErrInconsistentState = errors.New("seat state and occupant disagree")
)
