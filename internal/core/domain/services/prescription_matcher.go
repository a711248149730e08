package services

import (
	"strings"
	"time"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/prescription"
)

// PrescriptionMatcher is a domain service that turns raw drug mentions from a
// prescription into a customer-editable match result bound to pharmacy stock.
//
// Business rules:
//   - Mentions are deduplicated case-insensitively, keeping the casing and
//     relative order of the first occurrence
//   - Each distinct drug is bound to the first snapshot pharmacy that has it
//     in stock with a positive quantity
//   - Initial quantity is always one unit
//   - Drugs no pharmacy carries in positive quantity are reported as
//     unavailable, never silently dropped
type PrescriptionMatcher struct {
	ttl time.Duration
}

// NewPrescriptionMatcher creates a matcher whose results stay valid for ttl.
func NewPrescriptionMatcher(ttl time.Duration) PrescriptionMatcher {
	return PrescriptionMatcher{ttl: ttl}
}

// Match builds selections for the given mentions against the snapshots. The
// result is owned by the caller and expires ttl after now; passing the same
// inputs always yields the same selections.
func (m PrescriptionMatcher) Match(
	extractedText string,
	mentions []prescription.Mention,
	snapshots []prescription.PharmacySnapshot,
	now time.Time,
) (*prescription.MatchResult, error) {
	seen := make(map[string]struct{}, len(mentions))
	var selections []prescription.Selection
	var unavailable []string

	for _, mention := range mentions {
		name := strings.TrimSpace(mention.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		pharmacyID, stock, found := firstPharmacyWithStock(snapshots, name)
		if !found {
			unavailable = append(unavailable, name)
			continue
		}
		selections = append(selections, prescription.Selection{
			DrugName:   name,
			PharmacyID: pharmacyID,
			MedicineID: stock.MedicineID,
			Quantity:   1,
		})
	}

	return prescription.NewMatchResult(
		extractedText, selections, unavailable, snapshots, now, m.ttl)
}

func firstPharmacyWithStock(
	snapshots []prescription.PharmacySnapshot, name string,
) (kernel.UUID, prescription.StockItem, bool) {
	for _, snapshot := range snapshots {
		if stock, ok := snapshot.FindStockByName(name); ok && stock.Quantity > 0 {
			return snapshot.PharmacyID, stock, true
		}
	}
	return kernel.UUID{}, prescription.StockItem{}, false
}
