package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/postboard/postboard-api/internal/core/domain"
)

// Authorize guards routes whose decision does not depend on a resource owner
// (listing, privileged creation). Owner-scoped checks happen in the services.
func Authorize(action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			if err := domain.Authorize(p, action, ""); err != nil {
				return err
			}
			return next(c)
		}
	}
}
