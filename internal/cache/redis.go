package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

const scanBatch = 200

// Redis keeps entries in Redis under a key prefix, each with a TTL. It is
// shared between instances of the site.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits, misses uint64
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		atomic.AddUint64(&r.misses, 1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	atomic.AddUint64(&r.hits, 1)
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	keys, err := r.scan(ctx)
	if err != nil {
		return err
	}
	for start := 0; start < len(keys); start += scanBatch {
		end := start + scanBatch
		if end > len(keys) {
			end = len(keys)
		}
		if err := r.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("redis clear: %w", err)
		}
	}
	return nil
}

func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	keys, err := r.scan(ctx)
	if err != nil {
		return Stats{}, err
	}
	short := make([]string, 0, len(keys))
	for _, k := range keys {
		short = append(short, strings.TrimPrefix(k, r.prefix))
	}
	sort.Strings(short)

	return Stats{
		Backend:    "redis",
		Entries:    len(short),
		TTLSeconds: r.ttl.Seconds(),
		Hits:       atomic.LoadUint64(&r.hits),
		Misses:     atomic.LoadUint64(&r.misses),
		Keys:       short,
	}, nil
}

func (r *Redis) scan(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
