package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"

	"pguncle/internal/logger"
	"pguncle/internal/models"
)

type Consumer struct {
	consumer sarama.ConsumerGroup
	topics   []string
	log      *logger.Logger
}

func NewConsumer(brokers []string, groupID string, topics []string, log *logger.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	log.LogKafka("CONNECTED", "consumer", fmt.Sprintf("Joined group %s for topics %v", groupID, topics))
	return &Consumer{consumer: consumer, topics: topics, log: log}, nil
}

// Consume blocks until ctx is cancelled, handing every event to handler.
func (c *Consumer) Consume(ctx context.Context, handler *EventHandler) error {
	for {
		if err := c.consumer.Consume(ctx, c.topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.log.Error("KAFKA", fmt.Sprintf("Error consuming messages: %v", err))
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	c.log.LogKafka("CLOSING", "consumer", "Closing Kafka consumer group")
	return c.consumer.Close()
}

// EventHandler decodes domain events and passes them to Handle. Events whose
// Source equals SkipSource are acknowledged without being handled.
type EventHandler struct {
	Handle     func(*models.DomainEvent) error
	SkipSource string
	Log        *logger.Logger
}

func (h *EventHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *EventHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *EventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event models.DomainEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			h.Log.Warn("KAFKA", fmt.Sprintf("Failed to unmarshal message on %s: %v", message.Topic, err))
			session.MarkMessage(message, "")
			continue
		}

		if h.SkipSource != "" && event.Source == h.SkipSource {
			session.MarkMessage(message, "")
			continue
		}

		if err := h.Handle(&event); err != nil {
			h.Log.Error("KAFKA", fmt.Sprintf("Failed to handle %s event: %v", event.Type, err))
			continue
		}

		h.Log.LogKafka("CONSUMED", message.Topic, fmt.Sprintf("Handled %s event for %s", event.Type, event.Key))
		session.MarkMessage(message, "")
	}
	return nil
}
