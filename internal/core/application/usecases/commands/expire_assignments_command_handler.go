package commands

import (
	"context"
	"errors"
	"time"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/ports"
	"pharmaflow/internal/pkg/locks"
)

// ExpireAssignmentsCommandHandler returns orders to ready when their
// assignment proposal was not answered within the acceptance window.
type ExpireAssignmentsCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locks.KeyedMutex
}

// NewExpireAssignmentsCommandHandler creates a handler for the timeout sweep.
func NewExpireAssignmentsCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	orderLocks *locks.KeyedMutex,
) ExpireAssignmentsCommandHandler {
	return ExpireAssignmentsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle finds orders awaiting acceptance past the deadline and expires each
// one under its own lock and transaction. An agent response racing the sweep
// wins if it commits first; the re-read under the lock observes it and the
// expiry becomes a no-op. Per-order failures are collected, not fatal.
func (h *ExpireAssignmentsCommandHandler) Handle(
	ctx context.Context, cmd ExpireAssignmentsCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	overdueIDs, err := h.findOverdue(ctx, time.Now().Add(-cmd.Timeout()))
	if err != nil {
		return err
	}

	var sweepErrs []error
	for _, orderID := range overdueIDs {
		if err := h.expireOne(ctx, orderID, cmd.Timeout()); err != nil {
			sweepErrs = append(sweepErrs, err)
		}
	}
	return errors.Join(sweepErrs...)
}

func (h *ExpireAssignmentsCommandHandler) findOverdue(
	ctx context.Context, deadline time.Time,
) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	overdue, err := uow.OrderRepository().GetAllAwaitingAcceptanceBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(overdue))
	for _, aggregate := range overdue {
		ids = append(ids, aggregate.ID())
	}
	return ids, uow.Commit(ctx)
}

func (h *ExpireAssignmentsCommandHandler) expireOne(
	ctx context.Context, orderID kernel.UUID, timeout time.Duration,
) error {
	unlock := h.orderLocks.Lock(orderID.String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}

	expired, err := aggregate.ExpireAssignment(timeout)
	if err != nil {
		return err
	}
	if !expired {
		return uow.Commit(ctx)
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
