// Package queries contains read operations in the CQRS architecture. Query
// handlers read the database directly with raw SQL and return plain response
// structs; they never load or mutate domain aggregates.
package queries

import (
	"errors"
	"time"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/guard"
)

// ErrGetOrderQueryIsNotConstructed is returned when a GetOrderQuery was not
// created via NewGetOrderQuery.
var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full detail of one order: its lines, status
// history, assignment and tracking position.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the given order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order to fetch.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the full order detail. Statuses and payment
// methods are rendered as their wire names.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	PharmacyID    kernel.UUID
	CustomerID    kernel.UUID
	Status        string
	PaymentMethod string
	Street        string
	City          string
	ZipCode       string
	ContactPhone  string
	Total         float64
	AgentID       *kernel.UUID
	TrackingLat   *float64
	TrackingLng   *float64
	Items         []OrderItemResponse
	History       []StatusChangeResponse
}

// OrderItemResponse is one line of an order.
type OrderItemResponse struct {
	MedicineID kernel.UUID
	Name       string
	UnitPrice  float64
	Quantity   int
}

// StatusChangeResponse is one entry of an order's status history.
type StatusChangeResponse struct {
	Status    string
	Timestamp time.Time
	Note      string
}
