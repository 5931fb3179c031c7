package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

func TestLimiter_DeniesBeyondLimit(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	l := New(time.Minute, map[string]int{"auth": 3}, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if !l.Admit("10.0.0.1", "auth") {
			t.Fatalf("attempt %d should be admitted", i+1)
		}
	}
	if l.Admit("10.0.0.1", "auth") {
		t.Fatalf("4th attempt within window should be denied")
	}
}

func TestLimiter_WindowReset(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	l := New(time.Minute, map[string]int{"auth": 1}, func() time.Time { return now })

	if !l.Admit("10.0.0.1", "auth") {
		t.Fatalf("first attempt should be admitted")
	}
	if l.Admit("10.0.0.1", "auth") {
		t.Fatalf("second attempt within window should be denied")
	}

	now = now.Add(time.Minute)
	if !l.Admit("10.0.0.1", "auth") {
		t.Fatalf("attempt after window elapsed should be admitted")
	}
}

func TestLimiter_KeysAndClassesIndependent(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	l := New(time.Minute, map[string]int{"auth": 1, "sales": 1}, func() time.Time { return now })

	if !l.Admit("10.0.0.1", "auth") {
		t.Fatalf("first auth attempt should be admitted")
	}
	if !l.Admit("10.0.0.2", "auth") {
		t.Fatalf("different key should have its own window")
	}
	if !l.Admit("10.0.0.1", "sales") {
		t.Fatalf("different class should have its own window")
	}
}

func TestLimiter_UnknownClassUnlimited(t *testing.T) {
	l := New(time.Minute, map[string]int{"auth": 1}, nil)

	for i := 0; i < 50; i++ {
		if !l.Admit("10.0.0.1", "other") {
			t.Fatalf("unlimited class denied at attempt %d", i+1)
		}
	}
}

func TestLimiter_EvictsStaleWindows(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	l := New(time.Minute, map[string]int{"auth": 5}, func() time.Time { return now })
	l.maxEntries = 10

	for i := 0; i < 10; i++ {
		l.Admit(fmt.Sprintf("10.0.0.%d", i), "auth")
	}

	now = now.Add(2 * time.Minute)
	l.Admit("10.0.1.1", "auth")

	l.mu.Lock()
	n := len(l.windows)
	l.mu.Unlock()
	if n != 1 {
		t.Fatalf("expected stale windows evicted, got %d entries", n)
	}
}
