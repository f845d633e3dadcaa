package models

import (
	"encoding/json"
	"time"
)

const (
	EventPropertyCreated     = "property.created"
	EventPropertyUpdated     = "property.updated"
	EventPropertyDeleted     = "property.deleted"
	EventBookingCreated      = "booking.created"
	EventPaymentOrderCreated = "payment.order_created"
	EventPaymentVerified     = "payment.verified"
	EventCacheInvalidate     = "cache.invalidate"
)

// DomainEvent is the envelope published to Kafka.
type DomainEvent struct {
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Source    string          `json:"source"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewDomainEvent(eventType, key, source string, payload interface{}) (*DomainEvent, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return &DomainEvent{
		Type:      eventType,
		Key:       key,
		Source:    source,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// CacheInvalidation is the payload of a cache.invalidate event. An empty
// Key means clear everything.
type CacheInvalidation struct {
	Key string `json:"key,omitempty"`
}
