package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/techone/pos-api/internal/core/domain"
	"github.com/techone/pos-api/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenService issues, verifies and rotates HS256-signed tokens. Access tokens
// are stateless; refresh tokens carry a single-use jti tracked in the rotation
// store so a replayed token is detectable.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	store      ports.RefreshTokenStore
	now        func() time.Time
}

// NewTokenService creates a TokenService. now may be nil (time.Now).
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, store ports.RefreshTokenStore, now func() time.Time) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 10 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 72 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		store:      store,
		now:        now,
	}
}

// AccessTTL returns the configured access-token lifetime.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccessToken signs a short-lived access token for subject. No side
// effects beyond signing.
func (s *TokenService) IssueAccessToken(subject string, scopes []string) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":    subject,
		"scopes": scopes,
		"typ":    tokenTypeAccess,
		"iat":    now.Unix(),
		"exp":    now.Add(s.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssueRefreshToken signs a refresh token with a fresh jti and records that
// jti as the subject's only valid one.
func (s *TokenService) IssueRefreshToken(ctx context.Context, subject string) (string, error) {
	jti := uuid.NewString()
	signed, err := s.signRefreshToken(subject, jti)
	if err != nil {
		return "", err
	}
	if err := s.store.SetLatest(ctx, subject, jti, s.refreshTTL); err != nil {
		return "", fmt.Errorf("record refresh jti: %w", err)
	}
	return signed, nil
}

func (s *TokenService) signRefreshToken(subject, jti string) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub": subject,
		"jti": jti,
		"typ": tokenTypeRefresh,
		"iat": now.Unix(),
		"exp": now.Add(s.refreshTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyAccessToken checks signature, expiry and token type, returning the
// subject and granted scopes. Scope enforcement is the caller's job.
func (s *TokenService) VerifyAccessToken(token string) (string, []string, error) {
	claims, err := s.parse(token, tokenTypeAccess)
	if err != nil {
		return "", nil, err
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", nil, domain.ErrTokenInvalid
	}

	raw, _ := claims["scopes"].([]any)
	scopes := make([]string, 0, len(raw))
	for _, v := range raw {
		if sc, ok := v.(string); ok {
			scopes = append(scopes, sc)
		}
	}
	return subject, scopes, nil
}

// Rotate verifies the presented refresh token, consumes its jti and issues a
// fresh token pair with the given scopes. Consumption is a single
// compare-and-swap in the store, so concurrent presentations of the same token
// resolve to exactly one winner. A jti that is not the subject's recorded
// latest means the token was already used (or the family revoked): the whole
// family is revoked and domain.ErrTokenReused returned.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string, scopes []string) (*ports.TokenPair, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	subject, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	if subject == "" || jti == "" {
		return nil, domain.ErrTokenInvalid
	}

	access, err := s.IssueAccessToken(subject, scopes)
	if err != nil {
		return nil, err
	}
	newJTI := uuid.NewString()
	refresh, err := s.signRefreshToken(subject, newJTI)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.ConsumeIfLatest(ctx, subject, jti, newJTI, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("consume refresh jti: %w", err)
	}
	if !ok {
		// Stolen-token defence: a structurally valid but stale jti kills the
		// whole family so neither party keeps a working refresh token.
		_ = s.store.Revoke(ctx, subject)
		return nil, domain.ErrTokenReused
	}

	return &ports.TokenPair{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL / time.Second),
		RefreshToken: refresh,
		RefreshTTL:   s.refreshTTL,
	}, nil
}

// IssuePair issues an access/refresh token pair for subject.
func (s *TokenService) IssuePair(ctx context.Context, subject string, scopes []string) (*ports.TokenPair, error) {
	access, err := s.IssueAccessToken(subject, scopes)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefreshToken(ctx, subject)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL / time.Second),
		RefreshToken: refresh,
		RefreshTTL:   s.refreshTTL,
	}, nil
}

// Subject extracts the subject from a refresh token without requiring it to
// still be valid for rotation. Used by logout.
func (s *TokenService) Subject(refreshToken string) (string, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return subject, nil
}

// Revoke clears the subject's rotation record.
func (s *TokenService) Revoke(ctx context.Context, subject string) error {
	return s.store.Revoke(ctx, subject)
}

func (s *TokenService) parse(token, wantType string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
