package ports

import (
	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
)

// EventPublisher propagates order changes to connected watchers. Publishing
// is fire and forget: delivery is at most once and a slow or absent watcher
// never blocks or fails the state change that triggered the event.
type EventPublisher interface {
	// PublishStatusChanged announces the order's current state after an
	// accepted transition, assignment proposal, response or cancellation.
	PublishStatusChanged(aggregate *order.Order)

	// PublishLocationUpdated announces a courier position update for an
	// order in transit.
	PublishLocationUpdated(orderID kernel.UUID, location kernel.GeoPoint)
}
