package ws

import (
	"encoding/json"
	"fmt"
	"log"

	"go_crm/internal/db"
	"go_crm/internal/model"
)

// DealTopic is the event topic for deal pipeline changes.
const DealTopic = "deals"

// Publisher persists and broadcasts deal events. It satisfies the
// coordinator's EventPublisher interface.
type Publisher struct{}

// NewPublisher creates a deal event publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishDealEvent writes the event to the database and broadcasts it to all
// connected clients. Called after the transition transaction commits; a
// broadcast failure never affects the committed state.
func (p *Publisher) PublishDealEvent(eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := model.WSEvent{
		Topic:     DealTopic,
		EventType: eventType,
		Payload:   string(payloadJSON),
	}

	if err := db.GetDB().Create(&event).Error; err != nil {
		return fmt.Errorf("failed to persist deal event: %w", err)
	}

	BroadcastToAll("deals:update", map[string]interface{}{
		"eventId": event.ID,
		"type":    eventType,
		"data":    payload,
	})

	log.Printf("[WebSocket] Deal event broadcasted: eventId=%d, type=%s", event.ID, eventType)
	return nil
}
