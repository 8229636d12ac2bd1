package tokenstore

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 500 * time.Millisecond
	// largest TTL a time.Duration can hold
	maxTTLSeconds = int64(math.MaxInt64 / int64(time.Second))
)

// Connect opens the shared Redis client and checks it with a PING. The client
// is meant to be created once per process and handed to NewRedisStore.
func Connect(ctx context.Context, url string, timeout time.Duration) (*redis.Client, error) {
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %w", ErrBackendUnavailable, err)
	}
	opt.MaxRetries = -1 // no retries
	opt.DialTimeout = timeout

	client := redis.NewClient(opt)
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrBackendUnavailable, opt.Addr, err)
	}
	return client, nil
}

// RedisStore keeps revocations as "blacklist:<jti>" keys that expire together
// with the token. Commands that fail are served from a local spill map so a
// Redis outage degrades to per-process revocation instead of an error.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
	spill   *MemoryStore
	now     func() time.Time
}

func NewRedisStore(client *redis.Client, timeout time.Duration) *RedisStore {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &RedisStore{client: client, timeout: timeout, spill: NewMemoryStore(), now: time.Now}
}

func (s *RedisStore) Revoke(ctx context.Context, jti string, expiresAt any) error {
	exp, err := ExpiryUnix(expiresAt)
	if err != nil {
		return err
	}
	if jti == "" {
		return nil
	}
	secs := exp - s.now().UTC().Unix()
	if secs > maxTTLSeconds {
		secs = maxTTLSeconds
	}
	ttl := time.Duration(secs) * time.Second

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if ttl <= 0 {
		// an expired revocation overwrites an earlier one, so drop the key
		s.spill.revokeUnix(jti, exp)
		if err := s.client.Del(cctx, blacklistKey(jti)).Err(); err != nil {
			logrus.WithError(err).WithField("jti", jti).Warn("[token] redis DEL failed")
		}
		return nil
	}
	if err := s.client.Set(cctx, blacklistKey(jti), "1", ttl).Err(); err != nil {
		logrus.WithError(err).WithField("jti", jti).Warn("[token] redis SET failed, keeping revocation locally")
		s.spill.revokeUnix(jti, exp)
		return nil
	}
	// the key now holds the latest expiry; an older spilled one must not outlive it
	s.spill.forget(jti)
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	n, err := s.client.Exists(cctx, blacklistKey(jti)).Result()
	if err != nil {
		logrus.WithError(err).WithField("jti", jti).Warn("[token] redis EXISTS failed")
	}
	if n > 0 {
		return true
	}
	return s.spill.IsRevoked(ctx, jti)
}

func (s *RedisStore) Mode() Mode { return ModeRedis }

func (s *RedisStore) Close() error { return s.client.Close() }
