package commands

import (
	"errors"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/pkg/guard"
)

// ErrAssignDeliveryAgentCommandIsNotConstructed is returned when an
// AssignDeliveryAgentCommand was not created via its constructor.
var ErrAssignDeliveryAgentCommandIsNotConstructed = errors.New(
	"AssignDeliveryAgentCommand must be created via NewAssignDeliveryAgentCommand constructor",
)

// AssignDeliveryAgentCommand represents a pharmacy's proposal of an agent
// for a ready order. The proposal is provisional until the agent responds.
type AssignDeliveryAgentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignDeliveryAgentCommand creates an assignment proposal command.
func NewAssignDeliveryAgentCommand(
	orderID kernel.UUID,
	actor order.Actor,
	agentID kernel.UUID,
) (AssignDeliveryAgentCommand, error) {
	assignCommand := AssignDeliveryAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		assignCommand.setOrderID(orderID),
		assignCommand.setActor(actor),
		assignCommand.setAgentID(agentID),
	); err != nil {
		return AssignDeliveryAgentCommand{}, err
	}

	return assignCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDeliveryAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryAgentCommandIsNotConstructed)
}

// OrderID returns the order the proposal targets.
func (c AssignDeliveryAgentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the proposing pharmacy.
func (c AssignDeliveryAgentCommand) Actor() order.Actor {
	return c.actor
}

// AgentID returns the proposed delivery agent.
func (c AssignDeliveryAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c *AssignDeliveryAgentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignDeliveryAgentCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *AssignDeliveryAgentCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}
