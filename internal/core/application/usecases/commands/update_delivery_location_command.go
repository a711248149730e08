package commands

import (
	"errors"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/pkg/guard"
)

// ErrUpdateDeliveryLocationCommandIsNotConstructed is returned when an
// UpdateDeliveryLocationCommand was not created via its constructor.
var ErrUpdateDeliveryLocationCommandIsNotConstructed = errors.New(
	"UpdateDeliveryLocationCommand must be created via NewUpdateDeliveryLocationCommand constructor",
)

// UpdateDeliveryLocationCommand represents a courier position report for an
// order in transit.
type UpdateDeliveryLocationCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actor    order.Actor
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewUpdateDeliveryLocationCommand creates a location update command.
func NewUpdateDeliveryLocationCommand(
	orderID kernel.UUID,
	actor order.Actor,
	location kernel.GeoPoint,
) (UpdateDeliveryLocationCommand, error) {
	locationCommand := UpdateDeliveryLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		locationCommand.setOrderID(orderID),
		locationCommand.setActor(actor),
		locationCommand.setLocation(location),
	); err != nil {
		return UpdateDeliveryLocationCommand{}, err
	}

	return locationCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDeliveryLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryLocationCommandIsNotConstructed)
}

// OrderID returns the order being tracked.
func (c UpdateDeliveryLocationCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the reporting agent.
func (c UpdateDeliveryLocationCommand) Actor() order.Actor {
	return c.actor
}

// Location returns the reported position.
func (c UpdateDeliveryLocationCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c *UpdateDeliveryLocationCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateDeliveryLocationCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *UpdateDeliveryLocationCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
