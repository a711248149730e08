package queries

import (
	"errors"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/guard"
)

// ErrGetPharmacyOrdersQueryIsNotConstructed is returned when a
// GetPharmacyOrdersQuery was not created via its constructor.
var ErrGetPharmacyOrdersQueryIsNotConstructed = errors.New(
	"GetPharmacyOrdersQuery must be created via NewGetPharmacyOrdersQuery constructor",
)

// GetPharmacyOrdersQuery retrieves the active orders of one pharmacy for its
// dashboard. Delivered and cancelled orders are excluded.
type GetPharmacyOrdersQuery struct {
	pharmacyID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetPharmacyOrdersQuery creates a query for the given pharmacy.
func NewGetPharmacyOrdersQuery(pharmacyID kernel.UUID) (GetPharmacyOrdersQuery, error) {
	if err := pharmacyID.Validate(); err != nil {
		return GetPharmacyOrdersQuery{}, err
	}

	return GetPharmacyOrdersQuery{
		pharmacyID: pharmacyID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetPharmacyOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPharmacyOrdersQueryIsNotConstructed)
}

// PharmacyID returns the pharmacy whose orders to list.
func (q GetPharmacyOrdersQuery) PharmacyID() kernel.UUID {
	return q.pharmacyID
}

// OrderSummaryResponse is one row of an order worklist.
type OrderSummaryResponse struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	Status     string
	Total      float64
	ItemCount  int
}
