package services

import (
	"context"
	"encoding/json"
	"fmt"

	"pguncle/internal/cache"
	"pguncle/internal/logger"
	"pguncle/internal/models"
)

// CacheService wraps the response cache with cross-instance invalidation.
type CacheService struct {
	cache      cache.Cache
	events     EventPublisher
	instanceID string
	log        *logger.Logger
}

func NewCacheService(c cache.Cache, events EventPublisher, instanceID string, log *logger.Logger) *CacheService {
	return &CacheService{cache: c, events: events, instanceID: instanceID, log: log}
}

func (s *CacheService) Stats(ctx context.Context) (cache.Stats, error) {
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return cache.Stats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return stats, nil
}

// Clear drops key, or everything when key is empty, and tells the other
// instances to do the same.
func (s *CacheService) Clear(ctx context.Context, key string) error {
	if err := s.clearLocal(ctx, key); err != nil {
		return err
	}
	target := key
	if target == "" {
		target = "all"
	}
	publishEvent(s.events, s.log, s.instanceID, models.EventCacheInvalidate, target, models.CacheInvalidation{Key: key})
	return nil
}

// Invalidate drops the given keys locally and broadcasts each one.
func (s *CacheService) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.Clear(ctx, key); err != nil {
			s.log.Warn("CACHE", fmt.Sprintf("Failed to invalidate %s: %v", key, err))
		}
	}
}

// ApplyInvalidation handles a cache.invalidate event from another instance.
func (s *CacheService) ApplyInvalidation(ctx context.Context, event *models.DomainEvent) error {
	if event.Type != models.EventCacheInvalidate {
		return nil
	}
	var inv models.CacheInvalidation
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, &inv); err != nil {
			return fmt.Errorf("bad invalidation payload: %w", err)
		}
	}
	return s.clearLocal(ctx, inv.Key)
}

func (s *CacheService) clearLocal(ctx context.Context, key string) error {
	if key == "" {
		if err := s.cache.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		s.log.LogCache("CLEAR", "*", "Cache cleared")
		return nil
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	s.log.LogCache("DELETE", key, "Cache entry removed")
	return nil
}

// readThrough serves key from the cache, falling back to load on a miss.
// Cache errors are logged and never fail the request.
func readThrough[T any](ctx context.Context, c cache.Cache, log *logger.Logger, key string, load func() (T, error)) (T, error) {
	var cached T
	hit, err := cache.GetJSON(ctx, c, key, &cached)
	if err != nil {
		log.Warn("CACHE", fmt.Sprintf("Cache read failed for %s: %v", key, err))
	}
	if hit {
		log.LogCache("HIT", key, "Served from cache")
		return cached, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if err := cache.SetJSON(ctx, c, key, v); err != nil {
		log.Warn("CACHE", fmt.Sprintf("Cache write failed for %s: %v", key, err))
	}
	return v, nil
}
