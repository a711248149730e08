package commands

import (
	"context"

	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for order placement.
// Persists the order and reserves its stock in one transaction, then
// announces the new order to watchers.
type CreateOrderCommandHandler struct {
	uowFactory OrderInventoryUoWFactory
	publisher  ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(
	uowFactory OrderInventoryUoWFactory,
	publisher ports.EventPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the order placement command. Stock reservation and order
// persistence commit together or not at all; the event is published only
// after the commit succeeds.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	request := cmd.Request()
	requestItems := request.Items()
	items := make([]order.Item, 0, len(requestItems))
	for _, requestItem := range requestItems {
		item, err := order.NewItem(requestItem.MedicineID, requestItem.Name,
			requestItem.UnitPrice, requestItem.Quantity)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), request.PharmacyID(), cmd.CustomerID(),
		items, request.DeliveryAddress(), request.PaymentMethod())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.InventoryRepository().ReserveStock(ctx, requestItems); err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishStatusChanged(aggregate)
	return nil
}
