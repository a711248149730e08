package queries

import (
	"errors"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/guard"
)

// ErrGetAgentOrdersQueryIsNotConstructed is returned when a
// GetAgentOrdersQuery was not created via its constructor.
var ErrGetAgentOrdersQueryIsNotConstructed = errors.New(
	"GetAgentOrdersQuery must be created via NewGetAgentOrdersQuery constructor",
)

// GetAgentOrdersQuery retrieves the orders currently on a delivery agent's
// plate: pending proposals and deliveries in progress.
type GetAgentOrdersQuery struct {
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAgentOrdersQuery creates a query for the given agent.
func NewGetAgentOrdersQuery(agentID kernel.UUID) (GetAgentOrdersQuery, error) {
	if err := agentID.Validate(); err != nil {
		return GetAgentOrdersQuery{}, err
	}

	return GetAgentOrdersQuery{
		agentID: agentID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAgentOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAgentOrdersQueryIsNotConstructed)
}

// AgentID returns the agent whose orders to list.
func (q GetAgentOrdersQuery) AgentID() kernel.UUID {
	return q.agentID
}
