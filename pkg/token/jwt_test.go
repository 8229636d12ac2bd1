package tokenstore

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	signed, claims, err := iss.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti")
	}

	got, err := iss.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.ID != claims.ID {
		t.Fatalf("jti mismatch: %s vs %s", got.ID, claims.ID)
	}
	uid, err := got.UserID()
	if err != nil || uid != 42 {
		t.Fatalf("expected user 42, got %d err=%v", uid, err)
	}
	if !got.ExpiresAt.Time.After(time.Now()) {
		t.Fatalf("expected future expiry")
	}
}

func TestIssueUniqueJTI(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	_, a, _ := iss.Issue(1)
	_, b, _ := iss.Issue(1)
	if a.ID == b.ID {
		t.Fatalf("expected distinct jti per token")
	}
}

func TestParseRejects(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	signed, _, _ := iss.Issue(1)

	if _, err := NewIssuer("other", time.Hour).Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected wrong secret to fail, got %v", err)
	}

	expired := NewIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _, _ := expired.Issue(1)
	if _, err := iss.Parse(old); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}

	noJTI, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	if _, err := iss.Parse(noJTI); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token without jti to fail, got %v", err)
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "1",
		ID:        "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := iss.Parse(none); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected alg=none to fail, got %v", err)
	}
}
