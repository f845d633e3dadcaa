package kafka

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"

	"pguncle/internal/logger"
	"pguncle/internal/models"
)

type Producer struct {
	producer    sarama.SyncProducer
	mockMode    bool
	topicPrefix string
	log         *logger.Logger
}

func NewProducer(brokers []string, topicPrefix string, log *logger.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		log.LogKafka("MOCK_MODE", "producer", "No brokers configured - events will only be logged")
		return &Producer{mockMode: true, topicPrefix: topicPrefix, log: log}, nil
	}

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	log.LogKafka("CONNECTED", "producer", fmt.Sprintf("Connected to Kafka brokers: %v", brokers))
	return NewProducerFromSync(producer, topicPrefix, log), nil
}

// NewProducerFromSync wraps an existing SyncProducer.
func NewProducerFromSync(producer sarama.SyncProducer, topicPrefix string, log *logger.Logger) *Producer {
	return &Producer{producer: producer, topicPrefix: topicPrefix, log: log}
}

func (p *Producer) Publish(event *models.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	topic := TopicFor(p.topicPrefix, event.Type)

	if p.mockMode {
		p.log.LogKafka("MOCK_PUBLISH", topic, fmt.Sprintf("Mock publishing event: %s for key: %s", event.Type, event.Key))
		p.log.Debug("KAFKA", string(data))
		return nil
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.Key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Error("KAFKA", fmt.Sprintf("Failed to send message to topic %s: %v", topic, err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.log.LogKafka("PUBLISHED", topic, fmt.Sprintf("Message sent to partition %d at offset %d for %s", partition, offset, event.Key))
	return nil
}

// TopicFor maps an event type such as "property.created" to "<prefix>.property".
func TopicFor(prefix, eventType string) string {
	domain := eventType
	if i := strings.IndexByte(eventType, '.'); i > 0 {
		domain = eventType[:i]
	}
	if prefix == "" {
		return domain
	}
	return prefix + "." + domain
}

func (p *Producer) Close() error {
	if p.mockMode {
		p.log.LogKafka("MOCK_CLOSE", "producer", "Mock producer closed")
		return nil
	}

	if p.producer != nil {
		p.log.LogKafka("CLOSING", "producer", "Closing Kafka producer connection")
		return p.producer.Close()
	}
	return nil
}
