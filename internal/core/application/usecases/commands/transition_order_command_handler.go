package commands

import (
	"context"

	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/core/ports"
	"pharmaflow/internal/pkg/locks"
)

// TransitionOrderCommandHandler applies actor-requested lifecycle
// transitions. Each order's read-validate-write cycle runs under a per-order
// lock so concurrent requests against the same order serialize and the loser
// revalidates against the winner's state.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locks.KeyedMutex
}

// NewTransitionOrderCommandHandler creates a handler for lifecycle transitions.
func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	orderLocks *locks.KeyedMutex,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle loads the order, applies the requested transition and persists the
// result. Rejected transitions leave the order untouched; accepted ones are
// announced after commit.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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

	if err = applyAction(aggregate, cmd); err != nil {
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

func applyAction(aggregate *order.Order, cmd TransitionOrderCommand) error {
	switch cmd.Action() {
	case ActionConfirm:
		return aggregate.Confirm(cmd.Actor())
	case ActionPrepare:
		return aggregate.StartPreparing(cmd.Actor())
	case ActionReady:
		return aggregate.MarkReady(cmd.Actor())
	case ActionDispatch:
		return aggregate.Dispatch(cmd.Actor())
	case ActionDeliver:
		return aggregate.Deliver(cmd.Actor())
	case ActionCancel:
		return aggregate.Cancel(cmd.Actor(), cmd.Reason())
	case ActionUnknown:
		return ActionUnknown.Validate()
	default:
		return cmd.Action().Validate()
	}
}
