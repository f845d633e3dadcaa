package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pguncle/internal/models"
)

// InMemoryStore is a DocumentStore kept in process memory. It backs local
// development and tests.
type InMemoryStore struct {
	mutex      sync.RWMutex
	properties map[string]models.Property
	users      map[string]map[string]interface{}
	bookings   map[string]models.Booking
	probes     map[string]time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		properties: make(map[string]models.Property),
		users:      make(map[string]map[string]interface{}),
		bookings:   make(map[string]models.Booking),
		probes:     make(map[string]time.Time),
	}
}

func (s *InMemoryStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]models.Property, 0, len(s.properties))
	for _, p := range s.properties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (s *InMemoryStore) GetPropertiesByIDs(ctx context.Context, ids []string) (map[string]models.Property, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make(map[string]models.Property, len(ids))
	for _, id := range ids {
		if p, ok := s.properties[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *InMemoryStore) CreateProperty(ctx context.Context, p models.Property) (*models.Property, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	s.properties[p.ID] = p
	return &p, nil
}

func (s *InMemoryStore) UpdateProperty(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	patch.Apply(&p)
	p.UpdatedAt = time.Now().UTC()
	s.properties[id] = p
	return &p, nil
}

func (s *InMemoryStore) SetPropertyActive(ctx context.Context, id string, active bool) (*models.Property, error) {
	return s.UpdateProperty(ctx, id, models.PropertyPatch{IsActive: &active})
}

func (s *InMemoryStore) DeleteProperty(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.properties, id)
	return nil
}

func (s *InMemoryStore) CountProperties(ctx context.Context) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return int64(len(s.properties)), nil
}

func (s *InMemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	fields, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return &models.User{ID: id, Fields: copyFields(fields)}, nil
}

func (s *InMemoryStore) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	current, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	for k, v := range fields {
		current[k] = v
	}
	current["updatedAt"] = time.Now().UTC()
	return &models.User{ID: id, Fields: copyFields(current)}, nil
}

func (s *InMemoryStore) UpsertUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now().UTC()
	for id, fields := range s.users {
		if e, _ := fields["email"].(string); e == email {
			fields["lastLoginAt"] = now
			return &models.User{ID: id, Fields: copyFields(fields)}, nil
		}
	}

	id := uuid.NewString()
	s.users[id] = map[string]interface{}{
		"email":       email,
		"createdAt":   now,
		"lastLoginAt": now,
	}
	return &models.User{ID: id, Fields: copyFields(s.users[id])}, nil
}

// PutUser seeds a user document. Used by tests and local fixtures.
func (s *InMemoryStore) PutUser(id string, fields map[string]interface{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.users[id] = copyFields(fields)
}

func (s *InMemoryStore) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (s *InMemoryStore) ListBookings(ctx context.Context, limit, offset int) ([]models.Booking, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	all := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		all = append(all, b)
	}
	sortBookings(all)

	if offset >= len(all) {
		return []models.Booking{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (s *InMemoryStore) CreateBooking(ctx context.Context, b models.Booking) (*models.Booking, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	s.bookings[b.ID] = b
	return &b, nil
}

func (s *InMemoryStore) WriteProbe(ctx context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := "probe_" + uuid.NewString()
	s.probes[id] = time.Now()
	return id, nil
}

func (s *InMemoryStore) DeleteProbe(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.probes, id)
	return nil
}

func (s *InMemoryStore) Ping(ctx context.Context) error { return nil }

func (s *InMemoryStore) Close(ctx context.Context) error { return nil }

func sortBookings(b []models.Booking) {
	sort.Slice(b, func(i, j int) bool {
		if b[i].CreatedAt.Equal(b[j].CreatedAt) {
			return b[i].ID < b[j].ID
		}
		return b[i].CreatedAt.After(b[j].CreatedAt)
	})
}

func copyFields(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
