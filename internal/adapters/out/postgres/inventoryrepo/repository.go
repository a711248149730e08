package inventoryrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/prescription"
)

// GormInventoryRepository implements InventoryProvider over the pharmacies
// and medicines tables.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GORM inventory repository.
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Snapshots returns the current stock of every partner pharmacy. Pharmacies
// and their stock are ordered by name so repeated calls over unchanged data
// yield identical snapshots.
func (r *GormInventoryRepository) Snapshots(ctx context.Context) (
	[]prescription.PharmacySnapshot, error) {
	var pharmacies []PharmacyDTO
	if err := r.db.WithContext(ctx).Order("name, id").Find(&pharmacies).Error; err != nil {
		return nil, err
	}

	var medicines []MedicineDTO
	if err := r.db.WithContext(ctx).Order("name, id").Find(&medicines).Error; err != nil {
		return nil, err
	}

	stockByPharmacy := make(map[[16]byte][]prescription.StockItem, len(pharmacies))
	for _, medicine := range medicines {
		medicineID, err := kernel.UUIDFromBytes(medicine.ID[:])
		if err != nil {
			return nil, err
		}
		stockByPharmacy[medicine.PharmacyID] = append(stockByPharmacy[medicine.PharmacyID],
			prescription.StockItem{
				MedicineID: medicineID,
				Name:       medicine.Name,
				UnitPrice:  medicine.UnitPrice,
				Quantity:   medicine.Quantity,
			})
	}

	snapshots := make([]prescription.PharmacySnapshot, 0, len(pharmacies))
	for _, pharmacy := range pharmacies {
		pharmacyID, err := kernel.UUIDFromBytes(pharmacy.ID[:])
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, prescription.PharmacySnapshot{
			PharmacyID: pharmacyID,
			Name:       pharmacy.Name,
			Stock:      stockByPharmacy[pharmacy.ID],
		})
	}
	return snapshots, nil
}

// ReserveStock decrements stock for each item, failing the whole batch if
// any record is missing or would go negative. The guarded UPDATE keeps
// concurrent submissions from overselling without an explicit row lock.
func (r *GormInventoryRepository) ReserveStock(
	ctx context.Context, items []prescription.RequestItem,
) error {
	for _, item := range items {
		result := r.db.WithContext(ctx).Model(&MedicineDTO{}).
			Where("id = ? AND quantity >= ?", item.MedicineID.Bytes(), item.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.reservationFailure(ctx, item)
		}
	}
	return nil
}

func (r *GormInventoryRepository) reservationFailure(
	ctx context.Context, item prescription.RequestItem,
) error {
	var medicine MedicineDTO
	err := r.db.WithContext(ctx).First(&medicine, "id = ?", item.MedicineID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &prescription.MissingStockRecordError{DrugName: item.Name}
	}
	if err != nil {
		return err
	}
	return &prescription.InsufficientStockError{
		DrugName:  item.Name,
		Available: medicine.Quantity,
		Requested: item.Quantity,
	}
}
