package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/identity"
)

// Claims is the bearer token payload: sub, name and role.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth validates an HS256 bearer token and stores the caller in the
// request context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			caller, err := ParseToken(key, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(identity.WithCaller(req.Context(), caller)))
			return next(c)
		}
	}
}

// ParseToken verifies raw and converts its claims to a Caller. Tokens without
// a role claim are treated as users.
func ParseToken(key []byte, raw string) (identity.Caller, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return identity.Caller{}, err
	}
	if !tok.Valid || claims.Subject == "" {
		return identity.Caller{}, errors.New("token has no subject")
	}

	role := identity.RoleUser
	if strings.EqualFold(claims.Role, string(identity.RoleAdmin)) {
		role = identity.RoleAdmin
	}
	return identity.Caller{ID: claims.Subject, Name: claims.Name, Role: role}, nil
}

// IssueToken signs an HS256 token for c, valid for ttl.
func IssueToken(secret string, c identity.Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: c.Name,
		Role: string(c.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// RequireRole rejects callers without role with 403.
func RequireRole(role identity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := identity.FromContext(c.Request().Context())
			if err := caller.Authenticated(); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if caller.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
