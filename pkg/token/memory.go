package tokenstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps revocations in process memory. Nothing evicts entries in
// the background; an expired entry is dropped by the first IsRevoked that sees it.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]int64 // jti -> unix seconds
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]int64), now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, expiresAt any) error {
	exp, err := ExpiryUnix(expiresAt)
	if err != nil {
		return err
	}
	s.revokeUnix(jti, exp)
	return nil
}

func (s *MemoryStore) revokeUnix(jti string, exp int64) {
	if jti == "" {
		return
	}
	s.mu.Lock()
	s.entries[jti] = exp
	s.mu.Unlock()
}

func (s *MemoryStore) forget(jti string) {
	s.mu.Lock()
	delete(s.entries, jti)
	s.mu.Unlock()
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	s.mu.RLock()
	exp, ok := s.entries[jti]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	now := s.now().UTC().Unix()
	if exp > now {
		return true
	}

	// lazy delete; a concurrent Revoke may have extended it meanwhile
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.entries[jti]; ok {
		if cur > now {
			return true
		}
		delete(s.entries, jti)
	}
	return false
}

// Len reports how many entries are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Mode() Mode { return ModeMemory }

func (s *MemoryStore) Close() error { return nil }
