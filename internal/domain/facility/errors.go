package facility

import "errors"

var (
	ErrNotFound        = errors.New("facility not found")
	ErrInactive        = errors.New("facility is not accepting reservations")
	ErrNameRequired    = errors.New("facility name is required")
	ErrInvalidCapacity = errors.New("facility capacity must not be negative")
)
