package ports

import (
	"context"

	"pharmaflow/internal/core/domain/model/agent"
	"pharmaflow/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for delivery agent
// aggregates.
type AgentRepository interface {
	// Add persists a new delivery agent.
	Add(ctx context.Context, aggregate *agent.DeliveryAgent) error

	// Update persists changes to an existing delivery agent.
	Update(ctx context.Context, aggregate *agent.DeliveryAgent) error

	// Get retrieves a delivery agent by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*agent.DeliveryAgent, error)
}
