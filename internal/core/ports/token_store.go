package ports

import (
	"context"
	"time"
)

// RefreshTokenStore tracks the latest valid refresh jti per subject. Only the
// most recent issuance is valid for rotation, which is what makes a replayed
// token detectable without a full session table.
type RefreshTokenStore interface {
	// SetLatest records tokenID as the only jti valid for subject. Any
	// previously recorded jti becomes stale.
	SetLatest(ctx context.Context, subject, tokenID string, ttl time.Duration) error
	// Latest returns the recorded jti, or "" (and no error) when none exists.
	Latest(ctx context.Context, subject string) (string, error)
	// ConsumeIfLatest atomically replaces the recorded jti with newID, but only
	// when the current record equals expectedID. Returns false when the record
	// is missing or holds a different jti. The check and the swap are a single
	// serialized operation; two callers presenting the same expectedID cannot
	// both succeed.
	ConsumeIfLatest(ctx context.Context, subject, expectedID, newID string, ttl time.Duration) (bool, error)
	// Revoke clears the subject's record, invalidating the whole token family.
	Revoke(ctx context.Context, subject string) error
}
