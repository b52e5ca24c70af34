package identity

import "errors"

// Role is the role claim carried by the caller's token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var (
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID   string
	Name string
	Role Role
}

// IsAdmin reports whether the caller holds the administrative role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Authenticated fails with ErrUnauthenticated when no identity is present.
func (c Caller) Authenticated() error {
	if c.ID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// RequireAdmin fails with ErrForbidden unless the caller is an administrator.
func (c Caller) RequireAdmin() error {
	if err := c.Authenticated(); err != nil {
		return err
	}
	if !c.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
