// Package inventoryrepo provides read and reservation access to partner
// pharmacy stock.
package inventoryrepo

import (
	"github.com/google/uuid"
)

// PharmacyDTO represents a partner pharmacy.
type PharmacyDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

// TableName specifies the database table name for pharmacies.
func (PharmacyDTO) TableName() string {
	return "pharmacies"
}

// MedicineDTO represents one priced, quantity-tracked stock record of a pharmacy.
type MedicineDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PharmacyID uuid.UUID `gorm:"type:uuid;index"`
	Name       string    `gorm:"index"`
	UnitPrice  float64
	Quantity   int
}

// TableName specifies the database table name for stock records.
func (MedicineDTO) TableName() string {
	return "medicines"
}
