// Package cache is the response cache shared by handlers. It is an explicit
// service passed to whoever needs it; there is no package-level instance.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}

type Stats struct {
	Backend    string     `json:"backend"`
	Entries    int        `json:"entries"`
	MaxEntries int        `json:"maxEntries,omitempty"`
	TTLSeconds float64    `json:"ttlSeconds"`
	Hits       uint64     `json:"hits"`
	Misses     uint64     `json:"misses"`
	Evictions  uint64     `json:"evictions"`
	Keys       []string   `json:"keys"`
	ClearedAt  *time.Time `json:"clearedAt,omitempty"`
}

// GetJSON decodes a cached JSON value into dst.
func GetJSON(ctx context.Context, c Cache, key string, dst interface{}) (bool, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw)
}
