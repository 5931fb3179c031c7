package domain

import "errors"

var (
	// ErrInvalidRequest covers malformed input: empty line lists, non-positive
	// quantities, codes that are not 13-digit JANs, and the like.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidCredentials is deliberately generic; it never reveals whether
	// the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient scope")

	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenReused signals that a refresh token's jti was presented after it
	// had already been consumed by a rotation. Treated as a security event.
	ErrTokenReused = errors.New("refresh token reused")

	ErrProductNotFound = errors.New("product not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrRateLimited     = errors.New("rate limited")
)
