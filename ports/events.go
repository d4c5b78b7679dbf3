package ports

import (
	"context"

	"github.com/layer-3/rangda/core"
)

// EventPublisher notifies other services about order lifecycle
// milestones.
type EventPublisher interface {
	PublishOrderSubmitted(ctx context.Context, userSWA, jobID string, intentType core.IntentType) error
	PublishOrderTerminal(ctx context.Context, userSWA, jobID string, status core.OrderStatus) error
}
