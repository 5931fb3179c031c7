package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/techone/pos-api/internal/core/domain"
	"github.com/techone/pos-api/internal/core/ports"
)

// RateClassAuth is the limiter class shared by login and refresh attempts.
const RateClassAuth = "auth"

// dummyHash keeps the bcrypt compare on the hot path even when the username
// does not match, so both failure modes take the same time.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Admitter is the slice of the rate limiter the orchestrator needs.
type Admitter interface {
	Admit(key, class string) bool
}

// AuthService composes the rate limiter, the credential check and the token
// service into the login/refresh/logout state machine.
type AuthService struct {
	cred    domain.Credential
	tokens  *TokenService
	limiter Admitter
	scopes  []string
	logger  zerolog.Logger
	audit   zerolog.Logger
}

func NewAuthService(cred domain.Credential, tokens *TokenService, limiter Admitter, scopes []string, logger, audit zerolog.Logger) *AuthService {
	return &AuthService{
		cred:    cred,
		tokens:  tokens,
		limiter: limiter,
		scopes:  scopes,
		logger:  logger,
		audit:   audit,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password, clientKey string) (*ports.TokenPair, error) {
	if !s.limiter.Admit(clientKey, RateClassAuth) {
		return nil, domain.ErrRateLimited
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cred.Username)) == 1
	hash := []byte(s.cred.PasswordHash)
	if !userOK {
		hash = dummyHash
	}
	passOK := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil

	if !userOK || !passOK {
		s.audit.Warn().
			Str("event", "login_failed").
			Str("client_key", clientKey).
			Msg("credential check failed")
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(ctx, s.cred.Username, s.scopes)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("subject", s.cred.Username).Msg("login succeeded")
	return pair, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken, clientKey string) (*ports.TokenPair, error) {
	if !s.limiter.Admit(clientKey, RateClassAuth) {
		return nil, domain.ErrRateLimited
	}
	if refreshToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	pair, err := s.tokens.Rotate(ctx, refreshToken, s.scopes)
	if err != nil {
		if errors.Is(err, domain.ErrTokenReused) {
			s.audit.Warn().
				Str("event", "refresh_token_reused").
				Str("client_key", clientKey).
				Msg("stale refresh jti presented, token family revoked")
		}
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	subject, err := s.tokens.Subject(refreshToken)
	if err != nil {
		// Nothing to revoke for a token we cannot attribute.
		return nil
	}
	if err := s.tokens.Revoke(ctx, subject); err != nil {
		s.logger.Error().Err(err).Str("subject", subject).Msg("logout revocation failed")
		return err
	}
	return nil
}
