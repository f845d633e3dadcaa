package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"pguncle/internal/cache"
	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/storage"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(ev *models.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) CreateOrder(ctx context.Context, params models.OrderParams) (models.GatewayOrder, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.GatewayOrder), args.Error(1)
}

type MockRelationalStore struct {
	mock.Mock
}

func (m *MockRelationalStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRelationalStore) RefreshSchema(ctx context.Context) (*storage.SchemaSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.SchemaSnapshot), args.Error(1)
}

func (m *MockRelationalStore) SavePaymentRecord(ctx context.Context, rec *models.PaymentRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockRelationalStore) MarkPaymentCaptured(ctx context.Context, orderID, paymentID string) error {
	return m.Called(ctx, orderID, paymentID).Error(0)
}

func (m *MockRelationalStore) GetPaymentRecord(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentRecord), args.Error(1)
}

func (m *MockRelationalStore) ListPaymentRecords(ctx context.Context, limit, offset int) ([]models.PaymentRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentRecord), args.Error(1)
}

func (m *MockRelationalStore) Close() error {
	return m.Called().Error(0)
}

// failingStore wraps an in-memory store and fails selected calls.
type failingStore struct {
	*storage.InMemoryStore
	failBatch error
}

func (f *failingStore) GetPropertiesByIDs(ctx context.Context, ids []string) (map[string]models.Property, error) {
	if f.failBatch != nil {
		return nil, f.failBatch
	}
	return f.InMemoryStore.GetPropertiesByIDs(ctx, ids)
}

// countingStore counts property reads so cache hits can be observed.
type countingStore struct {
	*storage.InMemoryStore
	mu    sync.Mutex
	lists int
	gets  int
}

func (c *countingStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.InMemoryStore.ListProperties(ctx)
}

func (c *countingStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.InMemoryStore.GetProperty(ctx, id)
}

func newTestCacheService(pub EventPublisher) (*CacheService, *cache.Memory) {
	mem := cache.NewMemory(100, time.Minute)
	return NewCacheService(mem, pub, "node-test", logger.NewNop()), mem
}

func boolPtr(b bool) *bool        { return &b }
func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
