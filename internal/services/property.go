package services

import (
	"context"
	"fmt"
	"strings"

	"pguncle/internal/cache"
	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/storage"
)

// List and single-record entries live in separate namespaces so no id can
// collide with the list key.
const propertiesAllKey = "properties:list"

func propertyKey(id string) string {
	return "property:" + id
}

type PropertyService struct {
	store      storage.DocumentStore
	cache      cache.Cache
	caches     *CacheService
	events     EventPublisher
	instanceID string
	log        *logger.Logger
}

func NewPropertyService(store storage.DocumentStore, caches *CacheService, events EventPublisher, instanceID string, log *logger.Logger) *PropertyService {
	return &PropertyService{
		store:      store,
		cache:      caches.cache,
		caches:     caches,
		events:     events,
		instanceID: instanceID,
		log:        log,
	}
}

func (s *PropertyService) List(ctx context.Context) ([]models.Property, error) {
	props, err := readThrough(ctx, s.cache, s.log, propertiesAllKey, func() ([]models.Property, error) {
		s.log.LogDatabase("QUERY", "properties", "Listing properties")
		return s.store.ListProperties(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return props, nil
}

func (s *PropertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	prop, err := readThrough(ctx, s.cache, s.log, propertyKey(id), func() (*models.Property, error) {
		return s.store.GetProperty(ctx, id)
	})
	if err != nil {
		return nil, s.mapStoreError(id, err)
	}
	return prop, nil
}

func (s *PropertyService) Create(ctx context.Context, req models.CreatePropertyRequest) (*models.Property, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, newError(ErrValidation, "name is required")
	}

	prop, err := s.store.CreateProperty(ctx, req.ToProperty())
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	s.log.LogDatabase("INSERT", "properties", fmt.Sprintf("Property %s created", prop.ID))

	s.caches.Invalidate(ctx, propertiesAllKey)
	publishEvent(s.events, s.log, s.instanceID, models.EventPropertyCreated, prop.ID, prop)
	return prop, nil
}

// Update applies a partial update. An empty patch returns the current record.
func (s *PropertyService) Update(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, newError(ErrValidation, "name cannot be empty")
	}
	if patch.Empty() {
		prop, err := s.store.GetProperty(ctx, id)
		if err != nil {
			return nil, s.mapStoreError(id, err)
		}
		return prop, nil
	}

	prop, err := s.store.UpdateProperty(ctx, id, patch)
	if err != nil {
		return nil, s.mapStoreError(id, err)
	}
	s.log.LogDatabase("UPDATE", "properties", fmt.Sprintf("Property %s updated", id))

	s.caches.Invalidate(ctx, propertiesAllKey, propertyKey(id))
	publishEvent(s.events, s.log, s.instanceID, models.EventPropertyUpdated, id, prop)
	return prop, nil
}

func (s *PropertyService) SetActive(ctx context.Context, id string, active *bool) (*models.Property, error) {
	if active == nil {
		return nil, newError(ErrValidation, "isActive is required")
	}

	prop, err := s.store.SetPropertyActive(ctx, id, *active)
	if err != nil {
		return nil, s.mapStoreError(id, err)
	}
	s.log.LogDatabase("UPDATE", "properties", fmt.Sprintf("Property %s isActive=%t", id, *active))

	s.caches.Invalidate(ctx, propertiesAllKey, propertyKey(id))
	publishEvent(s.events, s.log, s.instanceID, models.EventPropertyUpdated, id, prop)
	return prop, nil
}

// Delete removes the property. Deleting a missing id succeeds.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProperty(ctx, id); err != nil {
		return fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	s.log.LogDatabase("DELETE", "properties", fmt.Sprintf("Property %s deleted", id))

	s.caches.Invalidate(ctx, propertiesAllKey, propertyKey(id))
	publishEvent(s.events, s.log, s.instanceID, models.EventPropertyDeleted, id, nil)
	return nil
}

func (s *PropertyService) mapStoreError(id string, err error) error {
	if isNotFound(err) {
		return newError(ErrNotFound, "Property not found")
	}
	return fmt.Errorf("property %s: %w", id, err)
}
