package services

import (
	"time"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/core/domain/model/prescription"
	"pharmaflow/internal/pkg/errs"
)

// OrderRequestBuilder is a domain service that turns an edited match result
// into an immutable order creation request, revalidating every selection
// against live inventory at the moment of submission.
//
// Business rules:
//   - An expired match result cannot be submitted
//   - Every selection must resolve to an existing stock record at its chosen
//     pharmacy, with live quantity covering the requested amount
//   - Item names and unit prices are bound from the live record, not from the
//     values shown at match time
//   - The order is owned by the first selection's pharmacy; selections at
//     other pharmacies are flagged in the summary, not rejected
//   - Validation is all-or-nothing, no request is produced on any failure
type OrderRequestBuilder struct{}

// NewOrderRequestBuilder creates a new OrderRequestBuilder instance.
func NewOrderRequestBuilder() OrderRequestBuilder {
	return OrderRequestBuilder{}
}

// Build validates the match result against the live snapshots and produces
// the creation request together with a confirmation summary.
func (b OrderRequestBuilder) Build(
	result *prescription.MatchResult,
	liveSnapshots []prescription.PharmacySnapshot,
	deliveryAddress kernel.Address,
	paymentMethod order.PaymentMethod,
	now time.Time,
) (prescription.OrderCreationRequest, prescription.OrderSummary, error) {
	if result.Expired(now) {
		return prescription.OrderCreationRequest{}, prescription.OrderSummary{},
			&prescription.StaleInventoryError{MatchedAt: result.CreatedAt(), TTL: result.TTL()}
	}

	selections := result.Selections()
	if len(selections) == 0 {
		return prescription.OrderCreationRequest{}, prescription.OrderSummary{},
			prescription.ErrNoItems
	}

	owningPharmacyID := selections[0].PharmacyID
	items := make([]prescription.RequestItem, 0, len(selections))
	mixed := false

	for _, selection := range selections {
		if !selection.PharmacyID.IsEqual(owningPharmacyID) {
			mixed = true
		}

		stock, err := liveStock(liveSnapshots, selection)
		if err != nil {
			return prescription.OrderCreationRequest{}, prescription.OrderSummary{}, err
		}
		if stock.Quantity < selection.Quantity {
			return prescription.OrderCreationRequest{}, prescription.OrderSummary{},
				&prescription.InsufficientStockError{
					DrugName:  selection.DrugName,
					Available: stock.Quantity,
					Requested: selection.Quantity,
				}
		}

		items = append(items, prescription.RequestItem{
			MedicineID: stock.MedicineID,
			Name:       stock.Name,
			UnitPrice:  stock.UnitPrice,
			Quantity:   selection.Quantity,
		})
	}

	request, err := prescription.NewOrderCreationRequest(
		owningPharmacyID, items, deliveryAddress, paymentMethod)
	if err != nil {
		return prescription.OrderCreationRequest{}, prescription.OrderSummary{}, err
	}

	summary := prescription.OrderSummary{
		PharmacyID:      owningPharmacyID,
		PharmacyName:    pharmacyName(liveSnapshots, owningPharmacyID),
		Total:           total(items),
		MixedPharmacies: mixed,
	}
	return request, summary, nil
}

func liveStock(
	snapshots []prescription.PharmacySnapshot, selection prescription.Selection,
) (prescription.StockItem, error) {
	if selection.UnavailableAtPharmacy() {
		return prescription.StockItem{}, &prescription.MissingStockRecordError{
			DrugName: selection.DrugName, PharmacyID: selection.PharmacyID}
	}

	snapshot, ok := prescription.FindSnapshot(snapshots, selection.PharmacyID)
	if !ok {
		return prescription.StockItem{}, errs.NewObjectNotFoundError(
			"pharmacyId", selection.PharmacyID.String())
	}
	stock, ok := snapshot.FindStockByID(selection.MedicineID)
	if !ok {
		return prescription.StockItem{}, &prescription.MissingStockRecordError{
			DrugName: selection.DrugName, PharmacyID: selection.PharmacyID}
	}
	return stock, nil
}

func pharmacyName(snapshots []prescription.PharmacySnapshot, pharmacyID kernel.UUID) string {
	if snapshot, ok := prescription.FindSnapshot(snapshots, pharmacyID); ok {
		return snapshot.Name
	}
	return ""
}

func total(items []prescription.RequestItem) float64 {
	sum := 0.0
	for _, item := range items {
		sum += item.UnitPrice * float64(item.Quantity)
	}
	return sum
}
