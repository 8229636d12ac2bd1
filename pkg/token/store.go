package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Mode is the backend a Store was started with. It never changes afterwards.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeRedis  Mode = "redis"
	ModeMemory Mode = "memory"
)

var (
	// ErrBackendUnavailable means the Redis client could not be set up or the
	// server did not answer.
	ErrBackendUnavailable = errors.New("revocation backend unavailable")
	// ErrInvalidExpiry means an expiry value has a type ExpiryUnix cannot
	// normalize.
	ErrInvalidExpiry = errors.New("unsupported expiry value")
	// ErrUnknownMode means Options.Backend is not auto, redis or memory.
	ErrUnknownMode = errors.New("unknown revocation backend")
)

const keyPrefix = "blacklist:"

// Store records revoked token ids (jti) until their expiry.
//
// Revoke and IsRevoked never report backend failures: revocation checks must
// not block authentication. The only error Revoke returns is ErrInvalidExpiry.
type Store interface {
	// Revoke marks jti as revoked until expiresAt, which may be an epoch in
	// seconds (int, int64, float64), a time.Time or a jwt.NumericDate.
	Revoke(ctx context.Context, jti string, expiresAt any) error
	IsRevoked(ctx context.Context, jti string) bool
	Mode() Mode
	Close() error
}

type Options struct {
	Backend  Mode
	RedisURL string
	// Timeout bounds every Redis round trip, including the startup ping.
	Timeout time.Duration
}

// NewStore picks the backend once. ModeAuto falls back to memory when Redis
// is unreachable; ModeRedis returns ErrBackendUnavailable instead.
func NewStore(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case ModeMemory:
		logrus.Info("[token] revocation store: memory (configured)")
		return NewMemoryStore(), nil
	case ModeRedis, ModeAuto, "":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, opts.Backend)
	}

	client, err := Connect(ctx, opts.RedisURL, opts.Timeout)
	if err != nil {
		if opts.Backend == ModeRedis {
			return nil, err
		}
		logrus.WithError(err).Warn("[token] redis unreachable, using memory fallback; revocations will not survive a restart")
		return NewMemoryStore(), nil
	}
	logrus.Info("[token] revocation store: redis")
	return NewRedisStore(client, opts.Timeout), nil
}

// ExpiryUnix normalizes an expiry to UTC epoch seconds.
func ExpiryUnix(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		return int64(t), nil
	case time.Time:
		return t.UTC().Unix(), nil
	case *time.Time:
		if t != nil {
			return t.UTC().Unix(), nil
		}
	case jwt.NumericDate:
		return t.UTC().Unix(), nil
	case *jwt.NumericDate:
		if t != nil {
			return t.UTC().Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: %T", ErrInvalidExpiry, v)
}

func blacklistKey(jti string) string {
	return keyPrefix + jti
}
