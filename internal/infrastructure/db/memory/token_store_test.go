package memory

import (
	"context"
	"testing"
	"time"
)

func TestTokenStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(nil)

	if err := store.SetLatest(ctx, "clerk01", "jti-1", time.Hour); err != nil {
		t.Fatalf("SetLatest: %v", err)
	}
	got, err := store.Latest(ctx, "clerk01")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != "jti-1" {
		t.Errorf("latest = %q, want jti-1", got)
	}

	// A newer issuance supersedes the old jti.
	if err := store.SetLatest(ctx, "clerk01", "jti-2", time.Hour); err != nil {
		t.Fatalf("SetLatest: %v", err)
	}
	got, _ = store.Latest(ctx, "clerk01")
	if got != "jti-2" {
		t.Errorf("latest = %q, want jti-2", got)
	}
}

func TestTokenStore_UnknownSubject(t *testing.T) {
	store := NewTokenStore(nil)
	got, err := store.Latest(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != "" {
		t.Errorf("latest = %q, want empty", got)
	}
}

func TestTokenStore_Expiry(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	store := NewTokenStore(func() time.Time { return current })

	if err := store.SetLatest(ctx, "clerk01", "jti-1", time.Hour); err != nil {
		t.Fatalf("SetLatest: %v", err)
	}

	current = current.Add(time.Hour + time.Second)
	got, err := store.Latest(ctx, "clerk01")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != "" {
		t.Errorf("latest = %q, want empty after TTL", got)
	}
}

func TestTokenStore_ConsumeIfLatest(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(nil)
	_ = store.SetLatest(ctx, "clerk01", "jti-1", time.Hour)

	ok, err := store.ConsumeIfLatest(ctx, "clerk01", "jti-1", "jti-2", time.Hour)
	if err != nil {
		t.Fatalf("ConsumeIfLatest: %v", err)
	}
	if !ok {
		t.Fatal("matching jti should be consumed")
	}
	got, _ := store.Latest(ctx, "clerk01")
	if got != "jti-2" {
		t.Errorf("latest = %q, want jti-2 after swap", got)
	}

	// The consumed jti no longer matches; a second attempt must lose.
	ok, err = store.ConsumeIfLatest(ctx, "clerk01", "jti-1", "jti-3", time.Hour)
	if err != nil {
		t.Fatalf("ConsumeIfLatest: %v", err)
	}
	if ok {
		t.Fatal("stale jti consumed twice")
	}
	got, _ = store.Latest(ctx, "clerk01")
	if got != "jti-2" {
		t.Errorf("latest = %q, losing swap must not overwrite", got)
	}
}

func TestTokenStore_ConsumeIfLatest_MissingOrExpired(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	store := NewTokenStore(func() time.Time { return current })

	ok, err := store.ConsumeIfLatest(ctx, "nobody", "jti-1", "jti-2", time.Hour)
	if err != nil {
		t.Fatalf("ConsumeIfLatest: %v", err)
	}
	if ok {
		t.Fatal("missing record must not be consumable")
	}

	_ = store.SetLatest(ctx, "clerk01", "jti-1", time.Hour)
	current = current.Add(time.Hour + time.Second)
	ok, err = store.ConsumeIfLatest(ctx, "clerk01", "jti-1", "jti-2", time.Hour)
	if err != nil {
		t.Fatalf("ConsumeIfLatest: %v", err)
	}
	if ok {
		t.Fatal("expired record must not be consumable")
	}
}

func TestTokenStore_Revoke(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(nil)

	_ = store.SetLatest(ctx, "clerk01", "jti-1", time.Hour)
	if err := store.Revoke(ctx, "clerk01"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	got, _ := store.Latest(ctx, "clerk01")
	if got != "" {
		t.Errorf("latest = %q, want empty after revoke", got)
	}
}
