package prescription

import (
	"fmt"
	"strings"
	"time"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/errs"
)

// Selection is the customer's current choice for one distinct drug name:
// which pharmacy to buy from, which stock record the name resolved to, and
// how many units. A zero MedicineID means the chosen pharmacy does not carry
// the drug ("unavailable here").
type Selection struct {
	DrugName   string
	PharmacyID kernel.UUID
	MedicineID kernel.UUID
	Quantity   int
}

// UnavailableAtPharmacy reports whether the selection's drug could not be
// resolved against the chosen pharmacy's stock.
func (s Selection) UnavailableAtPharmacy() bool {
	return s.MedicineID.IsZero()
}

// MatchResult holds the outcome of matching extracted drug mentions against
// pharmacy inventory: one Selection per distinct available drug name, in
// first-seen order, plus the names that no pharmacy carries.
//
// A MatchResult is owned by the caller that requested the match. It carries
// an explicit expiry so stale inventory bindings cannot be submitted; there
// is no implicit shared cache.
type MatchResult struct {
	extractedText string
	selections    []Selection
	index         map[string]int
	unavailable   []string
	snapshots     []PharmacySnapshot
	createdAt     time.Time
	ttl           time.Duration
}

// NewMatchResult assembles a match result. Selections must already be one
// per distinct normalized drug name, in first-seen order; the matcher is the
// only expected caller.
func NewMatchResult(
	extractedText string,
	selections []Selection,
	unavailable []string,
	snapshots []PharmacySnapshot,
	createdAt time.Time,
	ttl time.Duration,
) (*MatchResult, error) {
	result := &MatchResult{
		extractedText: extractedText,
		unavailable:   unavailable,
		snapshots:     snapshots,
		createdAt:     createdAt,
		ttl:           ttl,
		index:         make(map[string]int, len(selections)),
	}

	for _, selection := range selections {
		key := normalizeDrugName(selection.DrugName)
		if key == "" {
			return nil, errs.NewValueIsRequiredError("drug name")
		}
		if _, exists := result.index[key]; exists {
			return nil, errs.NewValueIsInvalidErrorWithCause("selections",
				fmt.Errorf("duplicate selection for %q", selection.DrugName))
		}
		result.index[key] = len(result.selections)
		result.selections = append(result.selections, selection)
	}

	return result, nil
}

// ExtractedText returns the raw OCR text the mentions came from.
func (r *MatchResult) ExtractedText() string {
	return r.extractedText
}

// Selections returns a copy of the selections in first-seen order.
func (r *MatchResult) Selections() []Selection {
	selections := make([]Selection, len(r.selections))
	copy(selections, r.selections)
	return selections
}

// Selection returns the selection for a drug name, matched case-insensitively.
func (r *MatchResult) Selection(drugName string) (Selection, bool) {
	idx, ok := r.index[normalizeDrugName(drugName)]
	if !ok {
		return Selection{}, false
	}
	return r.selections[idx], true
}

// Unavailable returns the drug names no partner pharmacy carries, in
// first-seen order and casing.
func (r *MatchResult) Unavailable() []string {
	unavailable := make([]string, len(r.unavailable))
	copy(unavailable, r.unavailable)
	return unavailable
}

// Snapshots returns the pharmacy inventory snapshots the match was built from.
func (r *MatchResult) Snapshots() []PharmacySnapshot {
	snapshots := make([]PharmacySnapshot, len(r.snapshots))
	copy(snapshots, r.snapshots)
	return snapshots
}

// CreatedAt returns when the match was computed.
func (r *MatchResult) CreatedAt() time.Time {
	return r.createdAt
}

// TTL returns how long the result stays valid for submission.
func (r *MatchResult) TTL() time.Duration {
	return r.ttl
}

// Expired reports whether the result is past its validity window at now.
func (r *MatchResult) Expired(now time.Time) bool {
	return now.Sub(r.createdAt) >= r.ttl
}

// ChangePharmacy points a selection at a different pharmacy and re-resolves
// the medicine against that pharmacy's stock. When the pharmacy does not
// carry the drug the medicine binding is cleared; either way the quantity is
// reset to 1.
func (r *MatchResult) ChangePharmacy(drugName string, pharmacyID kernel.UUID) error {
	idx, ok := r.index[normalizeDrugName(drugName)]
	if !ok {
		return errs.NewObjectNotFoundError("drugName", drugName)
	}
	snapshot, ok := FindSnapshot(r.snapshots, pharmacyID)
	if !ok {
		return errs.NewObjectNotFoundError("pharmacyId", pharmacyID.String())
	}

	selection := &r.selections[idx]
	selection.PharmacyID = pharmacyID
	selection.Quantity = 1
	if stock, found := snapshot.FindStockByName(selection.DrugName); found {
		selection.MedicineID = stock.MedicineID
	} else {
		selection.MedicineID = kernel.UUID{}
	}
	return nil
}

// ChangeQuantity stores the requested quantity as given. Stock bounds are
// enforced at submission, not here; only quantities below 1 are rejected.
func (r *MatchResult) ChangeQuantity(drugName string, quantity int) error {
	idx, ok := r.index[normalizeDrugName(drugName)]
	if !ok {
		return errs.NewObjectNotFoundError("drugName", drugName)
	}
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	r.selections[idx].Quantity = quantity
	return nil
}

func normalizeDrugName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
