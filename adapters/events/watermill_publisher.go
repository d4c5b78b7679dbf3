package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

// OrderEvent is emitted when an order is submitted and again when it
// reaches a terminal status.
type OrderEvent struct {
	UserSWA    string           `json:"user_swa"`
	JobID      string           `json:"job_id"`
	IntentType core.IntentType  `json:"intent_type,omitempty"`
	Status     core.OrderStatus `json:"status,omitempty"`
}

// WatermillPublisher implements the EventPublisher interface using
// Watermill.
type WatermillPublisher struct {
	publisher      message.Publisher
	submittedTopic string
	terminalTopic  string
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher:      publisher,
		submittedTopic: "rangda.order.submitted",
		terminalTopic:  "rangda.order.terminal",
	}
}

// PublishOrderSubmitted publishes an order submission event.
func (p *WatermillPublisher) PublishOrderSubmitted(ctx context.Context, userSWA, jobID string, intentType core.IntentType) error {
	return p.publish(p.submittedTopic, OrderEvent{
		UserSWA:    userSWA,
		JobID:      jobID,
		IntentType: intentType,
	})
}

// PublishOrderTerminal publishes an order terminal-status event.
func (p *WatermillPublisher) PublishOrderTerminal(ctx context.Context, userSWA, jobID string, status core.OrderStatus) error {
	return p.publish(p.terminalTopic, OrderEvent{
		UserSWA: userSWA,
		JobID:   jobID,
		Status:  status,
	})
}

func (p *WatermillPublisher) publish(topic string, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.JobID, payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
