package prescription

import (
	"errors"
	"fmt"
	"time"

	"pharmaflow/internal/core/domain/model/kernel"
)

var (
	// ErrNoItems is returned when a submission is attempted with no selections.
	ErrNoItems = errors.New("no items to order")

	// ErrInsufficientStock is the sentinel for quantities exceeding live stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrMissingStockRecord is the sentinel for selections whose stock record
	// no longer exists at the chosen pharmacy.
	ErrMissingStockRecord = errors.New("stock record not found")

	// ErrStaleInventory is the sentinel for match results used past their expiry.
	ErrStaleInventory = errors.New("inventory snapshot expired")
)

// InsufficientStockError reports a selection whose quantity exceeds the
// pharmacy's live stock, citing both sides so the user can adjust.
type InsufficientStockError struct {
	DrugName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s for %s: available %d, requested %d",
		ErrInsufficientStock, e.DrugName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// MissingStockRecordError reports a selection that references a stock record
// the chosen pharmacy does not (or no longer does) carry.
type MissingStockRecordError struct {
	DrugName   string
	PharmacyID kernel.UUID
}

func (e *MissingStockRecordError) Error() string {
	return fmt.Sprintf("%s: %s at pharmacy %s", ErrMissingStockRecord, e.DrugName, e.PharmacyID)
}

func (e *MissingStockRecordError) Unwrap() error {
	return ErrMissingStockRecord
}

// StaleInventoryError reports that a match result outlived its validity
// window and the prescription must be re-matched before submission.
type StaleInventoryError struct {
	MatchedAt time.Time
	TTL       time.Duration
}

func (e *StaleInventoryError) Error() string {
	return fmt.Sprintf("%s: matched at %s, valid for %s",
		ErrStaleInventory, e.MatchedAt.Format(time.RFC3339), e.TTL)
}

func (e *StaleInventoryError) Unwrap() error {
	return ErrStaleInventory
}
