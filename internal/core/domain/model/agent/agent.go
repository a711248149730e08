package agent

import (
	"errors"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/errs"
	"pharmaflow/internal/pkg/guard"
)

// ErrDeliveryAgentIsNotConstructed is returned when a DeliveryAgent was not
// created via NewDeliveryAgent or RestoreDeliveryAgent.
var ErrDeliveryAgentIsNotConstructed = errors.New(
	"DeliveryAgent must be created via NewDeliveryAgent constructor")

// DeliveryAgent is the aggregate for a courier who can be proposed for order
// assignments. Availability marks whether the agent is currently accepting
// new proposals; it does not track how many orders they already carry.
type DeliveryAgent struct { //nolint:recvcheck //using for validation
	id        kernel.UUID
	name      string
	phone     string
	available bool

	guard guard.ConstructorGuard
}

// NewDeliveryAgent creates an available agent with the given identity.
func NewDeliveryAgent(id kernel.UUID, name string, phone string) (*DeliveryAgent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if phone == "" {
		return nil, errs.NewValueIsRequiredError("phone")
	}

	return &DeliveryAgent{
		id:        id,
		name:      name,
		phone:     phone,
		available: true,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreDeliveryAgent rebuilds an agent from persisted state.
func RestoreDeliveryAgent(
	id kernel.UUID, name string, phone string, available bool,
) (*DeliveryAgent, error) {
	restored, err := NewDeliveryAgent(id, name, phone)
	if err != nil {
		return nil, err
	}
	restored.available = available
	return restored, nil
}

// Validate ensures the agent was created through a constructor.
func (a DeliveryAgent) Validate() error {
	return a.guard.Validate(ErrDeliveryAgentIsNotConstructed)
}

// ID returns the agent identifier.
func (a *DeliveryAgent) ID() kernel.UUID {
	return a.id
}

// Name returns the agent's display name.
func (a *DeliveryAgent) Name() string {
	return a.name
}

// Phone returns the agent's contact phone.
func (a *DeliveryAgent) Phone() string {
	return a.phone
}

// IsAvailable reports whether the agent accepts new assignment proposals.
func (a *DeliveryAgent) IsAvailable() bool {
	return a.available
}

// SetAvailability toggles whether the agent accepts new proposals.
func (a *DeliveryAgent) SetAvailability(available bool) {
	a.available = available
}
