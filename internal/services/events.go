package services

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Domain event types published to the broker.
const (
	EventOrderCreated     = "order.created"
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
)

// EventPublisher delivers domain events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// EventDeduper remembers which gateway events were already handled.
type EventDeduper interface {
	// Claim records id and reports whether this is its first claim.
	Claim(ctx context.Context, id string) (bool, error)
	// Release forgets id so a redelivery is processed again.
	Release(ctx context.Context, id string) error
}

// publish sends an event and only logs failures. A nil publisher disables
// publishing.
func publish(ctx context.Context, p EventPublisher, eventType string, data any) {
	if p == nil {
		log.Debug().Str("event", eventType).Msg("event publishing disabled, skipping")
		return
	}
	if err := p.Publish(ctx, eventType, data); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
