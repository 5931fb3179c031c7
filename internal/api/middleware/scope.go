package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/techone/pos-api/internal/core/domain"
)

// RequireScope gates a route on a named permission. A valid token without the
// scope is a 403, distinct from the 401 of a missing or invalid token.
func RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scopes, ok := c.Get(CtxScopes).([]string)
			if !ok {
				// Auth middleware did not run; treat as unauthenticated
				// rather than silently allowing the request through.
				return domain.ErrUnauthenticated
			}
			for _, s := range scopes {
				if s == scope {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
