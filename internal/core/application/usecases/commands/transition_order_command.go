package commands

import (
	"errors"
	"fmt"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/pkg/errs"
	"pharmaflow/internal/pkg/guard"
)

// ErrTransitionOrderCommandIsNotConstructed is returned when a
// TransitionOrderCommand was not created via NewTransitionOrderCommand.
var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// Action identifies which lifecycle transition the actor requests.
type Action int

const (
	// ActionUnknown is the zero value, never valid in a command.
	ActionUnknown Action = iota
	// ActionConfirm moves a pending order to confirmed.
	ActionConfirm
	// ActionPrepare moves a confirmed order to preparing.
	ActionPrepare
	// ActionReady moves a preparing order to ready.
	ActionReady
	// ActionDispatch moves an assigned order to out for delivery.
	ActionDispatch
	// ActionDeliver completes an out for delivery order.
	ActionDeliver
	// ActionCancel cancels any non-terminal order.
	ActionCancel
)

func getActionStrings() []string {
	return []string{"unknown", "confirm", "prepare", "ready", "dispatch", "deliver", "cancel"}
}

// ActionFromString parses the wire name of an action.
func ActionFromString(name string) (Action, error) {
	for i, actionName := range getActionStrings() {
		if actionName == name && i != int(ActionUnknown) {
			return Action(i), nil
		}
	}
	return ActionUnknown, errs.NewValueIsInvalidErrorWithCause("action",
		fmt.Errorf("unknown action %q", name))
}

// String returns the wire name of the action.
func (a Action) String() string {
	names := getActionStrings()
	if a < ActionUnknown || int(a) >= len(names) {
		return names[ActionUnknown]
	}
	return names[a]
}

// Validate checks the action is one of the named transitions.
func (a Action) Validate() error {
	if a <= ActionUnknown || int(a) >= len(getActionStrings()) {
		return errs.NewValueIsInvalidError("action")
	}
	return nil
}

// TransitionOrderCommand represents an actor's request to move an order
// through its lifecycle. The reason is only meaningful for cancellation.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor
	action  Action
	reason  string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a transition command for the given actor.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	actor order.Actor,
	action Action,
	reason string,
) (TransitionOrderCommand, error) {
	transitionCommand := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		transitionCommand.setOrderID(orderID),
		transitionCommand.setActor(actor),
		transitionCommand.setAction(action),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	transitionCommand.reason = reason
	return transitionCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns who requests the transition.
func (c TransitionOrderCommand) Actor() order.Actor {
	return c.actor
}

// Action returns the requested transition.
func (c TransitionOrderCommand) Action() Action {
	return c.action
}

// Reason returns the cancellation reason, empty for other actions.
func (c TransitionOrderCommand) Reason() string {
	return c.reason
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *TransitionOrderCommand) setAction(action Action) error {
	if err := action.Validate(); err != nil {
		return err
	}

	c.action = action
	return nil
}
