package ports

import (
	"context"
	"time"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its history and assignment state.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllAwaitingAcceptanceBefore retrieves orders whose assignment
	// proposal has been pending since before the given instant. Used by the
	// acceptance timeout sweep.
	GetAllAwaitingAcceptanceBefore(ctx context.Context, deadline time.Time) ([]*order.Order, error)
}
