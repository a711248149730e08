package order

import (
	"errors"
	"fmt"
	"time"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one line of an order: a medicine, the unit price bound at order
// creation time, and the quantity. The price is a snapshot and is never
// recomputed from live inventory.
type Item struct {
	medicineID kernel.UUID
	name       string
	unitPrice  float64
	quantity   int

	isConstructed bool
}

// NewItem creates an order line. Quantity must be at least 1 and the unit
// price must not be negative.
func NewItem(medicineID kernel.UUID, name string, unitPrice float64, quantity int) (Item, error) {
	item := Item{isConstructed: true}

	if err := errors.Join(
		item.setMedicineID(medicineID),
		item.setName(name),
		item.setUnitPrice(unitPrice),
		item.setQuantity(quantity),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item was created via NewItem.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// MedicineID returns the identifier of the stock record the line was bound to.
func (i Item) MedicineID() kernel.UUID {
	return i.medicineID
}

// Name returns the medicine name as shown to the customer.
func (i Item) Name() string {
	return i.name
}

// UnitPrice returns the price per unit bound at creation time.
func (i Item) UnitPrice() float64 {
	return i.unitPrice
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// Subtotal returns unit price times quantity.
func (i Item) Subtotal() float64 {
	return i.unitPrice * float64(i.quantity)
}

func (i *Item) setMedicineID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.medicineID = id
	return nil
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("medicine name")
	}
	i.name = name
	return nil
}

func (i *Item) setUnitPrice(price float64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%v is negative", price))
	}
	i.unitPrice = price
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

// StatusChange is one entry of an order's append-only status history.
type StatusChange struct {
	status    Status
	timestamp time.Time
	note      string
}

// Status returns the status the order entered.
func (c StatusChange) Status() Status {
	return c.status
}

// Timestamp returns when the transition was accepted.
func (c StatusChange) Timestamp() time.Time {
	return c.timestamp
}

// Note returns an optional human-readable annotation, such as a cancellation
// reason or a rejection record.
func (c StatusChange) Note() string {
	return c.note
}

// RestoreStatusChange reconstructs a history entry from persistence.
func RestoreStatusChange(status Status, timestamp time.Time, note string) StatusChange {
	return StatusChange{status: status, timestamp: timestamp, note: note}
}
