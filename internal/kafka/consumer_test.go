package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pguncle/internal/logger"
	"pguncle/internal/models"
)

func TestEventHandlerSkipsOwnEvents(t *testing.T) {
	own, _ := models.NewDomainEvent(models.EventCacheInvalidate, "all", "node-a", models.CacheInvalidation{})
	other, _ := models.NewDomainEvent(models.EventCacheInvalidate, "properties:all", "node-b", models.CacheInvalidation{Key: "properties:all"})

	var handled []string
	h := &EventHandler{
		SkipSource: "node-a",
		Log:        logger.NewNop(),
		Handle: func(ev *models.DomainEvent) error {
			handled = append(handled, ev.Source)
			return nil
		},
	}

	session := &MockConsumerGroupSession{}
	session.On("MarkMessage", mock.Anything, "").Return()
	claim := newMockClaim(t, own, other)

	require.NoError(t, h.ConsumeClaim(session, claim))

	assert.Equal(t, []string{"node-b"}, handled)
	session.AssertNumberOfCalls(t, "MarkMessage", 2)
	claim.AssertExpectations(t)
}

func TestEventHandlerBadPayloadAndFailures(t *testing.T) {
	ev, _ := models.NewDomainEvent(models.EventCacheInvalidate, "all", "node-b", nil)

	h := &EventHandler{
		Log:    logger.NewNop(),
		Handle: func(*models.DomainEvent) error { return errors.New("boom") },
	}

	session := &MockConsumerGroupSession{}
	session.On("MarkMessage", mock.MatchedBy(func(m *sarama.ConsumerMessage) bool { return m.Offset == 0 }), "").Return()
	claim := newMockClaim(t, []byte("{not json"), ev)

	require.NoError(t, h.ConsumeClaim(session, claim))

	// malformed messages are acknowledged, failed ones are left for redelivery
	session.AssertNumberOfCalls(t, "MarkMessage", 1)
	session.AssertExpectations(t)
}

func newMockClaim(t *testing.T, events ...interface{}) *MockConsumerGroupClaim {
	t.Helper()
	msgChan := make(chan *sarama.ConsumerMessage, len(events))
	for i, ev := range events {
		raw, ok := ev.([]byte)
		if !ok {
			b, err := json.Marshal(ev)
			require.NoError(t, err)
			raw = b
		}
		msgChan <- &sarama.ConsumerMessage{Topic: "pguncle.cache", Offset: int64(i), Value: raw}
	}
	close(msgChan)

	claim := &MockConsumerGroupClaim{}
	claim.On("Messages").Return(msgChan)
	return claim
}

// Mock implementations for Sarama interfaces
type MockConsumerGroupSession struct {
	mock.Mock
}

func (m *MockConsumerGroupSession) Claims() map[string][]int32 {
	args := m.Called()
	return args.Get(0).(map[string][]int32)
}

func (m *MockConsumerGroupSession) MemberID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConsumerGroupSession) GenerationID() int32 {
	args := m.Called()
	return int32(args.Int(0))
}

func (m *MockConsumerGroupSession) MarkOffset(topic string, partition int32, offset int64, metadata string) {
	m.Called(topic, partition, offset, metadata)
}

func (m *MockConsumerGroupSession) Commit() {
	m.Called()
}

func (m *MockConsumerGroupSession) ResetOffset(topic string, partition int32, offset int64, metadata string) {
	m.Called(topic, partition, offset, metadata)
}

func (m *MockConsumerGroupSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string) {
	m.Called(msg, metadata)
}

func (m *MockConsumerGroupSession) Context() context.Context {
	args := m.Called()
	return args.Get(0).(context.Context)
}

type MockConsumerGroupClaim struct {
	mock.Mock
}

func (m *MockConsumerGroupClaim) Topic() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConsumerGroupClaim) Partition() int32 {
	args := m.Called()
	return int32(args.Int(0))
}

func (m *MockConsumerGroupClaim) InitialOffset() int64 {
	args := m.Called()
	return int64(args.Int(0))
}

func (m *MockConsumerGroupClaim) HighWaterMarkOffset() int64 {
	args := m.Called()
	return int64(args.Int(0))
}

func (m *MockConsumerGroupClaim) Messages() <-chan *sarama.ConsumerMessage {
	args := m.Called()
	return args.Get(0).(chan *sarama.ConsumerMessage)
}
