package prescription

import (
	"strings"

	"pharmaflow/internal/core/domain/model/kernel"
)

// Mention is a drug name as extracted from a prescription image by the OCR
// collaborator, before matching. Mentions may repeat with different casing.
type Mention struct {
	Name string
}

// StockItem is a pharmacy's priced, quantity-tracked entry for one medicine.
type StockItem struct {
	MedicineID kernel.UUID
	Name       string
	UnitPrice  float64
	Quantity   int
}

// PharmacySnapshot is a read-only view of one pharmacy's stock, captured by
// the inventory provider at a point in time. Snapshots may go stale between
// retrieval and submission, which is why the request builder revalidates
// every selection against a fresh set.
type PharmacySnapshot struct {
	PharmacyID kernel.UUID
	Name       string
	Stock      []StockItem
}

// FindStockByName returns the first stock item whose name matches
// case-insensitively.
func (s PharmacySnapshot) FindStockByName(name string) (StockItem, bool) {
	for _, item := range s.Stock {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return StockItem{}, false
}

// FindStockByID returns the stock item with the given medicine identifier.
func (s PharmacySnapshot) FindStockByID(medicineID kernel.UUID) (StockItem, bool) {
	for _, item := range s.Stock {
		if item.MedicineID.IsEqual(medicineID) {
			return item, true
		}
	}
	return StockItem{}, false
}

// FindSnapshot returns the snapshot for the given pharmacy.
func FindSnapshot(snapshots []PharmacySnapshot, pharmacyID kernel.UUID) (PharmacySnapshot, bool) {
	for _, snapshot := range snapshots {
		if snapshot.PharmacyID.IsEqual(pharmacyID) {
			return snapshot, true
		}
	}
	return PharmacySnapshot{}, false
}
