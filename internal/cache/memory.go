package cache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMaxEntries = 1000
	DefaultTTL        = 5 * time.Minute
)

// Memory is a bounded LRU cache with a fixed TTL per entry.
type Memory struct {
	lru        *expirable.LRU[string, []byte]
	maxEntries int
	ttl        time.Duration

	hits, misses, evictions atomic.Uint64

	mu        sync.Mutex
	clearedAt time.Time
}

func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		lru:        expirable.NewLRU[string, []byte](maxEntries, nil, ttl),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	if !ok {
		m.misses.Add(1)
		return nil, false, nil
	}
	m.hits.Add(1)
	return v, true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if evicted := m.lru.Add(key, value); evicted {
		m.evictions.Add(1)
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.lru.Purge()

	m.mu.Lock()
	m.clearedAt = time.Now().UTC()
	m.mu.Unlock()
	return nil
}

// Stats reports live entries only.
func (m *Memory) Stats(ctx context.Context) (Stats, error) {
	keys := m.lru.Keys()
	sort.Strings(keys)

	st := Stats{
		Backend:    "memory",
		Entries:    len(keys),
		MaxEntries: m.maxEntries,
		TTLSeconds: m.ttl.Seconds(),
		Hits:       m.hits.Load(),
		Misses:     m.misses.Load(),
		Evictions:  m.evictions.Load(),
		Keys:       keys,
	}

	m.mu.Lock()
	if !m.clearedAt.IsZero() {
		t := m.clearedAt
		st.ClearedAt = &t
	}
	m.mu.Unlock()
	return st, nil
}
