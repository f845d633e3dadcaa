package otp

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// MaxPending bounds how many addresses can hold a code at once.
	MaxPending = 10000
	// maxCodeTTL is the longest any code is kept, whatever ttl AddOTP is given.
	maxCodeTTL = time.Hour
)

// MemoryStore keeps pending codes in process memory. Used when no Redis is
// configured.
type MemoryStore struct {
	mu    sync.Mutex
	codes *expirable.LRU[string, *pending]
	now   func() time.Time
}

type pending struct {
	hash      string
	expiresAt time.Time
	failures  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		codes: expirable.NewLRU[string, *pending](MaxPending, nil, maxCodeTTL),
		now:   time.Now,
	}
}

// live returns the pending code for email, dropping it if it has expired.
func (m *MemoryStore) live(email string) (*pending, bool) {
	p, ok := m.codes.Get(email)
	if !ok {
		return nil, false
	}
	if !m.now().Before(p.expiresAt) {
		m.codes.Remove(email)
		return nil, false
	}
	return p, true
}

func (m *MemoryStore) AddOTP(ctx context.Context, email, hash string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.live(email); ok {
		return false, nil
	}
	m.codes.Add(email, &pending{hash: hash, expiresAt: m.now().Add(ttl)})
	return true, nil
}

func (m *MemoryStore) GetOTP(ctx context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.live(email)
	if !ok {
		return "", nil
	}
	return p.hash, nil
}

// RecordFailure counts a wrong guess against the pending code and returns the
// running total. It returns 0 when no code is pending.
func (m *MemoryStore) RecordFailure(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.live(email)
	if !ok {
		return 0, nil
	}
	p.failures++
	return p.failures, nil
}

func (m *MemoryStore) RemoveOTP(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes.Remove(email)
	return nil
}
