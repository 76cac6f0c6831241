package txscope

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
)

// EventCollector gathers domain events raised inside a transaction so they can
// be published only once it has committed
type EventCollector struct {
	events []shared.DomainEvent
}

// Collect takes the pending events of the given aggregates
func (c *EventCollector) Collect(aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		c.events = append(c.events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
}

// Events returns the collected events
func (c *EventCollector) Events() []shared.DomainEvent {
	return c.events
}

// Reset drops everything collected, used when a transaction rolls back
func (c *EventCollector) Reset() {
	c.events = nil
}

// Publish sends the collected events. A nil publisher is a no-op.
func (c *EventCollector) Publish(ctx context.Context, publisher shared.EventPublisher) error {
	if publisher == nil || len(c.events) == 0 {
		return nil
	}
	events := c.events
	c.events = nil
	return publisher.Publish(ctx, events...)
}
