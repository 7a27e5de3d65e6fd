package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/postboard/postboard-api/internal/core/domain"
)

// principalKey is the echo.Context key holding the authenticated domain.Principal.
const principalKey = "principal"

// TokenVerifier turns a bearer token into a principal.
type TokenVerifier interface {
	VerifyToken(token string) (domain.Principal, error)
}

// Auth validates the bearer token and injects the principal into context.
// Every failure is domain.ErrUnauthorized; the cause is never exposed.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthorized
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrUnauthorized
			}

			p, err := verifier.VerifyToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return domain.ErrUnauthorized
			}

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// SetPrincipal stores p on the request context.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal stored by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}
