package commands

import (
	"context"

	"pharmaflow/internal/core/ports"
	"pharmaflow/internal/pkg/locks"
)

// RespondToAssignmentCommandHandler records the proposed agent's acceptance
// or rejection of an assignment.
type RespondToAssignmentCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locks.KeyedMutex
}

// NewRespondToAssignmentCommandHandler creates a handler for assignment responses.
func NewRespondToAssignmentCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	orderLocks *locks.KeyedMutex,
) RespondToAssignmentCommandHandler {
	return RespondToAssignmentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle applies the agent's response. Acceptance binds the agent to the
// order; rejection returns the order to ready so the pharmacy can propose
// someone else.
func (h *RespondToAssignmentCommandHandler) Handle(
	ctx context.Context, cmd RespondToAssignmentCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.orderLocks.Lock(cmd.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.RespondToAssignment(cmd.Actor(), cmd.Accept()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishStatusChanged(aggregate)
	return nil
}
