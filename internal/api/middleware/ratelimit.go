package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/techone/pos-api/internal/api/metrics"
	"github.com/techone/pos-api/internal/core/domain"
)

// Admitter is the slice of the rate limiter this middleware needs.
type Admitter interface {
	Admit(key, class string) bool
}

// ClassRateLimit gates a route group on the fixed-window limiter, keyed by
// client IP. Auth endpoints do their own admission inside the orchestrator so
// denial is counted before the credential check; this middleware covers the
// remaining limited classes (sale submission).
func ClassRateLimit(limiter Admitter, class string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Admit(c.RealIP(), class) {
				metrics.RateLimitedTotal.WithLabelValues(class).Inc()
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
