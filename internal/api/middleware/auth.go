package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/techone/pos-api/internal/core/domain"
)

// Context keys set by Auth for downstream handlers and the scope gate.
const (
	CtxSubject = "subject"
	CtxScopes  = "scopes"
)

// AccessTokenVerifier is the slice of the token service the middleware needs.
type AccessTokenVerifier interface {
	VerifyAccessToken(token string) (subject string, scopes []string, err error)
}

// Auth validates the bearer access token and injects subject and scopes into
// the request context. Missing or malformed credentials are reported as
// domain.ErrUnauthenticated; an expired token keeps its distinct error so the
// client knows to refresh.
func Auth(verifier AccessTokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrUnauthenticated
			}

			subject, scopes, err := verifier.VerifyAccessToken(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return domain.ErrTokenExpired
				}
				return domain.ErrUnauthenticated
			}

			c.Set(CtxSubject, subject)
			c.Set(CtxScopes, scopes)

			return next(c)
		}
	}
}
