package services

import (
	"fmt"

	"pguncle/internal/logger"
	"pguncle/internal/models"
)

// EventPublisher is satisfied by *kafka.Producer.
type EventPublisher interface {
	Publish(event *models.DomainEvent) error
}

// publishEvent is best-effort: failures are logged and never returned.
func publishEvent(pub EventPublisher, log *logger.Logger, source, eventType, key string, payload interface{}) {
	if pub == nil {
		return
	}
	event, err := models.NewDomainEvent(eventType, key, source, payload)
	if err != nil {
		log.Error("KAFKA", fmt.Sprintf("Failed to build %s event for %s: %v", eventType, key, err))
		return
	}
	if err := pub.Publish(event); err != nil {
		log.Error("KAFKA", fmt.Sprintf("Failed to publish %s event for %s: %v", eventType, key, err))
		log.LogProcess("FALLBACK", fmt.Sprintf("%s processed despite Kafka publish failure", key))
	}
}
