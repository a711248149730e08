package ports

import (
	"context"

	"pharmaflow/internal/core/domain/model/prescription"
)

// InventoryProvider supplies point-in-time stock snapshots of all partner
// pharmacies. Snapshots are captured per call; callers revalidate against a
// fresh set before committing an order.
type InventoryProvider interface {
	// Snapshots returns the current stock of every partner pharmacy.
	Snapshots(ctx context.Context) ([]prescription.PharmacySnapshot, error)

	// ReserveStock atomically decrements stock for the given items within the
	// current transaction scope, failing if any decrement would go negative.
	ReserveStock(ctx context.Context, items []prescription.RequestItem) error
}
