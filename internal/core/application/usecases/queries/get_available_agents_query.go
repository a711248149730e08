package queries

import (
	"errors"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/guard"
)

// ErrGetAvailableAgentsQueryIsNotConstructed is returned when a
// GetAvailableAgentsQuery was not created via its constructor.
var ErrGetAvailableAgentsQueryIsNotConstructed = errors.New(
	"GetAvailableAgentsQuery must be created via NewGetAvailableAgentsQuery constructor",
)

// GetAvailableAgentsQuery retrieves the delivery agents a pharmacy can
// propose for an order.
type GetAvailableAgentsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAvailableAgentsQuery creates a query for currently available agents.
func NewGetAvailableAgentsQuery() GetAvailableAgentsQuery {
	return GetAvailableAgentsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableAgentsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableAgentsQueryIsNotConstructed)
}

// AgentResponse is one available delivery agent.
type AgentResponse struct {
	ID    kernel.UUID
	Name  string
	Phone string
}
