package commands

import (
	"context"

	"pharmaflow/internal/core/ports"
	"pharmaflow/internal/pkg/locks"
)

// UpdateDeliveryLocationCommandHandler records courier position updates for
// orders in transit and fans them out to watchers.
type UpdateDeliveryLocationCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locks.KeyedMutex
}

// NewUpdateDeliveryLocationCommandHandler creates a handler for location updates.
func NewUpdateDeliveryLocationCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	orderLocks *locks.KeyedMutex,
) UpdateDeliveryLocationCommandHandler {
	return UpdateDeliveryLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle stores the reported position on the order and publishes it. Only
// the assigned agent may report, and only while the order is moving.
func (h *UpdateDeliveryLocationCommandHandler) Handle(
	ctx context.Context, cmd UpdateDeliveryLocationCommand,
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

	if err = aggregate.UpdateTrackingLocation(cmd.Actor(), cmd.Location()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishLocationUpdated(aggregate.ID(), cmd.Location())
	return nil
}
