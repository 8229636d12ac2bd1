package tokenstore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now().Unix()

	if s.IsRevoked(ctx, "abc123") {
		t.Fatalf("expected unknown id to be allowed")
	}
	if err := s.Revoke(ctx, "abc123", now+3600); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if !s.IsRevoked(ctx, "abc123") {
		t.Fatalf("expected abc123 to be revoked")
	}
	if s.IsRevoked(ctx, "other") {
		t.Fatalf("expected other id to be allowed")
	}
}

func TestMemoryPastExpiryIsNotRevoked(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Revoke(ctx, "abc123", time.Now().Unix()-10); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if s.IsRevoked(ctx, "abc123") {
		t.Fatalf("expected expired revocation to be ignored")
	}
	if s.Len() != 0 {
		t.Fatalf("expected expired entry to be removed, have %d", s.Len())
	}
}

func TestMemoryRevokeOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()

	_ = s.Revoke(ctx, "jti", now.Add(time.Hour))
	_ = s.Revoke(ctx, "jti", now.Add(-time.Minute))
	if s.IsRevoked(ctx, "jti") {
		t.Fatalf("expected later past expiry to win")
	}

	_ = s.Revoke(ctx, "jti", now.Add(-time.Minute))
	_ = s.Revoke(ctx, "jti", now.Add(time.Hour))
	if !s.IsRevoked(ctx, "jti") {
		t.Fatalf("expected later future expiry to win")
	}
}

func TestMemoryLazyExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	clock := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return clock }

	_ = s.Revoke(ctx, "x", clock.Unix()+1)
	if !s.IsRevoked(ctx, "x") {
		t.Fatalf("expected x to be revoked before expiry")
	}

	clock = clock.Add(2 * time.Second)
	if s.Len() != 1 {
		t.Fatalf("expected entry to survive until read, have %d", s.Len())
	}
	if s.IsRevoked(ctx, "x") {
		t.Fatalf("expected x to be expired")
	}
	if s.Len() != 0 {
		t.Fatalf("expected lazy delete, have %d", s.Len())
	}
	if s.IsRevoked(ctx, "x") {
		t.Fatalf("expected x to stay expired")
	}
}

func TestMemoryExpiresWithWallClock(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Revoke(ctx, "x", time.Now().Unix()+1)
	time.Sleep(2 * time.Second)
	if s.IsRevoked(ctx, "x") {
		t.Fatalf("expected x to be expired after 2s")
	}
}

func TestMemoryEmptyJTI(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Revoke(ctx, "", time.Now().Add(time.Hour))
	if s.Len() != 0 || s.IsRevoked(ctx, "") {
		t.Fatalf("expected empty jti to be ignored")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	exp := time.Now().Add(time.Hour)
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				_ = s.Revoke(ctx, "shared", exp)
				_ = s.IsRevoked(ctx, "shared")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	if !s.IsRevoked(ctx, "shared") {
		t.Fatalf("expected shared to be revoked")
	}
}
