package tokenstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestExpiryUnix(t *testing.T) {
	ts := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	want := ts.Unix()
	loc := time.FixedZone("UTC+7", 7*3600)

	cases := []struct {
		name string
		in   any
	}{
		{"int", int(want)},
		{"int64", want},
		{"float64", float64(want) + 0.9},
		{"time", ts},
		{"time other zone", ts.In(loc)},
		{"time pointer", &ts},
		{"numeric date", *jwt.NewNumericDate(ts)},
		{"numeric date pointer", jwt.NewNumericDate(ts)},
	}
	for _, tc := range cases {
		got, err := ExpiryUnix(tc.in)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if got != want {
			t.Fatalf("%s: got %d want %d", tc.name, got, want)
		}
	}

	for _, bad := range []any{"1700000000", nil, (*jwt.NumericDate)(nil)} {
		if _, err := ExpiryUnix(bad); !errors.Is(err, ErrInvalidExpiry) {
			t.Fatalf("expected ErrInvalidExpiry for %#v, got %v", bad, err)
		}
	}
}

func TestNewStoreMemoryMode(t *testing.T) {
	s, err := NewStore(context.Background(), Options{Backend: ModeMemory, RedisURL: "redis://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()
	if s.Mode() != ModeMemory {
		t.Fatalf("expected memory mode, got %s", s.Mode())
	}
}

func TestNewStoreAutoFallsBack(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(ctx, Options{Backend: ModeAuto, RedisURL: "redis://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("auto mode must not fail when redis is down: %v", err)
	}
	defer s.Close()
	if s.Mode() != ModeMemory {
		t.Fatalf("expected memory fallback, got %s", s.Mode())
	}
	if err := s.Revoke(ctx, "abc123", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if !s.IsRevoked(ctx, "abc123") {
		t.Fatalf("expected fallback store to track revocation")
	}
}

func TestNewStoreRedisRequired(t *testing.T) {
	_, err := NewStore(context.Background(), Options{Backend: ModeRedis, RedisURL: "redis://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestNewStoreUnknownMode(t *testing.T) {
	_, err := NewStore(context.Background(), Options{Backend: "etcd"})
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestConnectBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://not-redis", time.Second)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
