package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

// DefaultPollInterval is the fixed delay between status fetches.
const DefaultPollInterval = 5 * time.Second

// Observation is one status fetch result. Exactly one of Status or Err
// is meaningful; an Err observation is always the last one emitted.
type Observation struct {
	Status core.OrderStatus
	Err    error
}

// OrderTracker polls an order's status until a terminal state. It
// only ever observes orders; the relay owns all mutations. A query
// failure stops the poll without consuming the job id, so the caller
// can resume with the same id.
type OrderTracker struct {
	gateway  ports.Gateway
	events   ports.EventPublisher
	interval time.Duration
}

// NewOrderTracker creates a tracker polling at the given interval
// (DefaultPollInterval if zero). events may be nil.
func NewOrderTracker(gateway ports.Gateway, events ports.EventPublisher, interval time.Duration) *OrderTracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &OrderTracker{gateway: gateway, events: events, interval: interval}
}

// Observe emits every observed status on the returned channel, one
// fetch per interval, starting immediately. The channel closes after
// the first terminal status, after a polling error, or when ctx is
// cancelled, whichever comes first. No poll budget is enforced here;
// callers bound the watch through ctx.
func (t *OrderTracker) Observe(ctx context.Context, authToken, intentID string, intentType core.IntentType) <-chan Observation {
	out := make(chan Observation)

	go func() {
		defer close(out)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			status, err := t.fetch(ctx, authToken, intentID, intentType)
			if err != nil {
				select {
				case out <- Observation{Err: err}:
				case <-ctx.Done():
				}
				return
			}

			select {
			case out <- Observation{Status: status}:
			case <-ctx.Done():
				return
			}

			if status.IsTerminal() {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Wait drains Observe until a terminal status and returns it. A
// BUNDLER_DISCARDED outcome is a normal terminal value, not an error.
// On a polling failure the last observed status is returned alongside
// the error.
func (t *OrderTracker) Wait(ctx context.Context, authToken, userSWA, intentID string, intentType core.IntentType) (core.OrderStatus, error) {
	last := core.OrderStatusPending

	for obs := range t.Observe(ctx, authToken, intentID, intentType) {
		if obs.Err != nil {
			return last, obs.Err
		}
		last = obs.Status

		if obs.Status.IsTerminal() {
			if t.events != nil {
				if err := t.events.PublishOrderTerminal(ctx, userSWA, intentID, obs.Status); err != nil {
					log.Printf("failed to publish order terminal event: %v", err)
				}
			}
			return obs.Status, nil
		}
	}

	return last, fmt.Errorf("%w: %v", core.ErrPolling, ctx.Err())
}

// Status performs a single fetch without waiting.
func (t *OrderTracker) Status(ctx context.Context, authToken, intentID string, intentType core.IntentType) (core.OrderStatus, error) {
	return t.fetch(ctx, authToken, intentID, intentType)
}

func (t *OrderTracker) fetch(ctx context.Context, authToken, intentID string, intentType core.IntentType) (core.OrderStatus, error) {
	orders, err := t.gateway.Orders(ctx, authToken, intentID, intentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPolling, err)
	}

	// An order not yet visible to the status service is still pending.
	if len(orders) == 0 || orders[0].Status == "" {
		return core.OrderStatusPending, nil
	}
	return orders[0].Status, nil
}
