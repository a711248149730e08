package commands

import (
	"errors"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/pkg/guard"
)

// ErrRespondToAssignmentCommandIsNotConstructed is returned when a
// RespondToAssignmentCommand was not created via its constructor.
var ErrRespondToAssignmentCommandIsNotConstructed = errors.New(
	"RespondToAssignmentCommand must be created via NewRespondToAssignmentCommand constructor",
)

// RespondToAssignmentCommand represents the proposed agent's answer to an
// assignment proposal.
type RespondToAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor
	accept  bool

	guard guard.ConstructorGuard
}

// NewRespondToAssignmentCommand creates a response command for the given agent.
func NewRespondToAssignmentCommand(
	orderID kernel.UUID,
	actor order.Actor,
	accept bool,
) (RespondToAssignmentCommand, error) {
	responseCommand := RespondToAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		responseCommand.setOrderID(orderID),
		responseCommand.setActor(actor),
	); err != nil {
		return RespondToAssignmentCommand{}, err
	}

	responseCommand.accept = accept
	return responseCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RespondToAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRespondToAssignmentCommandIsNotConstructed)
}

// OrderID returns the order whose proposal is being answered.
func (c RespondToAssignmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the responding agent.
func (c RespondToAssignmentCommand) Actor() order.Actor {
	return c.actor
}

// Accept reports whether the agent takes the assignment.
func (c RespondToAssignmentCommand) Accept() bool {
	return c.accept
}

func (c *RespondToAssignmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RespondToAssignmentCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
