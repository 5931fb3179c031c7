package ports

import (
	"context"
	"time"
)

// TokenPair is what a successful login or refresh hands back to the transport
// layer. The refresh token is delivered only via an HTTP-only cookie; the
// access token goes in the response body.
type TokenPair struct {
	AccessToken  string
	TokenType    string
	ExpiresIn    int64
	RefreshToken string
	RefreshTTL   time.Duration
}

// AuthService is the login/refresh/logout state machine.
type AuthService interface {
	// Login checks rate-limit admission for clientKey, then the configured
	// credential. Any mismatch yields domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password, clientKey string) (*TokenPair, error)
	// Refresh rotates the presented refresh token. Reuse of a consumed jti
	// yields domain.ErrTokenReused and revokes the token family.
	Refresh(ctx context.Context, refreshToken, clientKey string) (*TokenPair, error)
	// Logout revokes the subject's rotation record. Invalid or expired tokens
	// are ignored: logout never fails from the client's point of view.
	Logout(ctx context.Context, refreshToken string) error
}
