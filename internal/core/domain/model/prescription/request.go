package prescription

import (
	"errors"
	"fmt"

	"pharmaflow/internal/core/domain/model/kernel"
	ordermodel "pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/pkg/errs"
	"pharmaflow/internal/pkg/guard"
)

// ErrOrderCreationRequestIsNotConstructed is returned when an
// OrderCreationRequest was not built via NewOrderCreationRequest.
var ErrOrderCreationRequestIsNotConstructed = errors.New(
	"OrderCreationRequest must be created via NewOrderCreationRequest constructor")

// RequestItem is one validated line of an order creation request. Name and
// unit price are bound from the live stock record at validation time so the
// created order snapshots prices, never recomputing them from inventory.
type RequestItem struct {
	MedicineID kernel.UUID
	Name       string
	UnitPrice  float64
	Quantity   int
}

// OrderCreationRequest is the immutable, fully validated input for creating
// an order. It is produced exclusively by the request builder after
// revalidating every selection against current stock; no partially valid
// request is ever constructed.
type OrderCreationRequest struct { //nolint:recvcheck //using for validation
	pharmacyID      kernel.UUID
	items           []RequestItem
	deliveryAddress kernel.Address
	paymentMethod   ordermodel.PaymentMethod

	guard guard.ConstructorGuard
}

// NewOrderCreationRequest creates a validated request. At least one item is
// required and every item must carry a resolved medicine and a positive
// quantity.
func NewOrderCreationRequest(
	pharmacyID kernel.UUID,
	items []RequestItem,
	deliveryAddress kernel.Address,
	paymentMethod ordermodel.PaymentMethod,
) (OrderCreationRequest, error) {
	request := OrderCreationRequest{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		request.setPharmacyID(pharmacyID),
		request.setItems(items),
		request.setDeliveryAddress(deliveryAddress),
		request.setPaymentMethod(paymentMethod),
	); err != nil {
		return OrderCreationRequest{}, err
	}

	return request, nil
}

// Validate ensures the request was created through the constructor.
func (r OrderCreationRequest) Validate() error {
	return r.guard.Validate(ErrOrderCreationRequestIsNotConstructed)
}

// PharmacyID returns the pharmacy that owns the order.
func (r OrderCreationRequest) PharmacyID() kernel.UUID {
	return r.pharmacyID
}

// Items returns a copy of the validated order lines.
func (r OrderCreationRequest) Items() []RequestItem {
	items := make([]RequestItem, len(r.items))
	copy(items, r.items)
	return items
}

// DeliveryAddress returns the delivery destination.
func (r OrderCreationRequest) DeliveryAddress() kernel.Address {
	return r.deliveryAddress
}

// PaymentMethod returns how the order will be paid.
func (r OrderCreationRequest) PaymentMethod() ordermodel.PaymentMethod {
	return r.paymentMethod
}

func (r *OrderCreationRequest) setPharmacyID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.pharmacyID = id
	return nil
}

func (r *OrderCreationRequest) setItems(items []RequestItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if err := item.MedicineID.Validate(); err != nil {
			return err
		}
		if item.Quantity < 1 {
			return errs.NewValueIsInvalidErrorWithCause("quantity",
				fmt.Errorf("%d is not greater than 0", item.Quantity))
		}
	}
	r.items = make([]RequestItem, len(items))
	copy(r.items, items)
	return nil
}

func (r *OrderCreationRequest) setDeliveryAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	r.deliveryAddress = address
	return nil
}

func (r *OrderCreationRequest) setPaymentMethod(method ordermodel.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	r.paymentMethod = method
	return nil
}

// OrderSummary is the human-readable confirmation shown before submission:
// the owning pharmacy and the advisory total. MixedPharmacies flags requests
// whose selections reference more than one pharmacy; the order is still
// owned by the first selection's pharmacy.
type OrderSummary struct {
	PharmacyID      kernel.UUID
	PharmacyName    string
	Total           float64
	MixedPharmacies bool
}
