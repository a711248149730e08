package commands

import (
	"context"
	"fmt"

	"pharmaflow/internal/core/ports"
	"pharmaflow/internal/pkg/errs"
	"pharmaflow/internal/pkg/locks"
)

// AssignDeliveryAgentCommandHandler proposes a delivery agent for a ready
// order. The agent must exist and be accepting proposals; the order rejects
// the proposal itself if its state or actor is wrong.
type AssignDeliveryAgentCommandHandler struct {
	uowFactory OrderAgentUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locks.KeyedMutex
}

// NewAssignDeliveryAgentCommandHandler creates a handler for assignment proposals.
func NewAssignDeliveryAgentCommandHandler(
	uowFactory OrderAgentUoWFactory,
	publisher ports.EventPublisher,
	orderLocks *locks.KeyedMutex,
) AssignDeliveryAgentCommandHandler {
	return AssignDeliveryAgentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle verifies the proposed agent and records the provisional assignment.
// The order moves to awaiting acceptance; history is only written once the
// agent responds or the proposal times out.
func (h *AssignDeliveryAgentCommandHandler) Handle(
	ctx context.Context, cmd AssignDeliveryAgentCommand,
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

	proposedAgent, err := uow.AgentRepository().Get(ctx, cmd.AgentID())
	if err != nil {
		return err
	}
	if !proposedAgent.IsAvailable() {
		return errs.NewValueIsInvalidErrorWithCause("agentId",
			fmt.Errorf("agent %s is not accepting assignments", cmd.AgentID()))
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.ProposeAgent(cmd.Actor(), cmd.AgentID()); err != nil {
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
