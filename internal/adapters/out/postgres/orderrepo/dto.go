// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and the relational schema:
// one orders row plus child rows for items and status history.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed for the hot lookups: pharmacy dashboards, agent worklists and the
// acceptance timeout sweep.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PharmacyID      uuid.UUID  `gorm:"type:uuid;index"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;index"`
	Status          int        `gorm:"index"`
	PaymentMethod   int
	Address         AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
	AgentID         *uuid.UUID `gorm:"type:uuid;index"`
	AgentProposedAt *time.Time `gorm:"index"`
	TrackingLat     *float64
	TrackingLng     *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items   []ItemDTO         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []StatusChangeDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded delivery address within the order table.
type AddressDTO struct {
	Street       string
	City         string
	ZipCode      string
	ContactPhone string
	Lat          float64
	Lng          float64
}

// ItemDTO represents one order line.
type ItemDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	MedicineID uuid.UUID `gorm:"type:uuid"`
	Name       string
	UnitPrice  float64
	Quantity   int
}

// TableName specifies the database table name for order lines.
func (ItemDTO) TableName() string {
	return "order_items"
}

// StatusChangeDTO represents one entry of an order's status history.
type StatusChangeDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Status    int
	Timestamp time.Time
	Note      string
}

// TableName specifies the database table name for order history entries.
func (StatusChangeDTO) TableName() string {
	return "order_status_changes"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var agentID *uuid.UUID
	if id := aggregate.DeliveryAgent(); id != nil {
		raw := id.Bytes()
		agentID = &raw
	}

	var trackingLat, trackingLng *float64
	if location := aggregate.TrackingLocation(); location != nil {
		lat, lng := location.Latitude(), location.Longitude()
		trackingLat, trackingLng = &lat, &lng
	}

	address := aggregate.DeliveryAddress()
	items := aggregate.Items()
	itemDTOs := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		itemDTOs = append(itemDTOs, ItemDTO{
			OrderID:    aggregate.ID().Bytes(),
			MedicineID: item.MedicineID().Bytes(),
			Name:       item.Name(),
			UnitPrice:  item.UnitPrice(),
			Quantity:   item.Quantity(),
		})
	}

	history := aggregate.History()
	historyDTOs := make([]StatusChangeDTO, 0, len(history))
	for _, change := range history {
		historyDTOs = append(historyDTOs, StatusChangeDTO{
			OrderID:   aggregate.ID().Bytes(),
			Status:    int(change.Status()),
			Timestamp: change.Timestamp(),
			Note:      change.Note(),
		})
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		PharmacyID:      aggregate.PharmacyID().Bytes(),
		CustomerID:      aggregate.CustomerID().Bytes(),
		Status:          int(aggregate.Status()),
		PaymentMethod:   int(aggregate.PaymentMethod()),
		Address: AddressDTO{
			Street:       address.Street(),
			City:         address.City(),
			ZipCode:      address.ZipCode(),
			ContactPhone: address.ContactPhone(),
			Lat:          address.Location().Latitude(),
			Lng:          address.Location().Longitude(),
		},
		AgentID:         agentID,
		AgentProposedAt: aggregate.AgentProposedAt(),
		TrackingLat:     trackingLat,
		TrackingLng:     trackingLng,
		Items:           itemDTOs,
		History:         historyDTOs,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	pharmacyID, err := kernel.UUIDFromBytes(dto.PharmacyID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Address.Lat, dto.Address.Lng)
	if err != nil {
		return nil, err
	}
	address, err := kernel.NewAddress(dto.Address.Street, dto.Address.City,
		dto.Address.ZipCode, dto.Address.ContactPhone, location)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		medicineID, medicineErr := kernel.UUIDFromBytes(itemDTO.MedicineID[:])
		if medicineErr != nil {
			return nil, medicineErr
		}
		item, itemErr := order.NewItem(medicineID, itemDTO.Name, itemDTO.UnitPrice, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.StatusChange, 0, len(dto.History))
	for _, changeDTO := range dto.History {
		history = append(history, order.RestoreStatusChange(
			order.Status(changeDTO.Status), changeDTO.Timestamp, changeDTO.Note))
	}

	var agentID *kernel.UUID
	if dto.AgentID != nil {
		restored, agentErr := kernel.UUIDFromBytes((*dto.AgentID)[:])
		if agentErr != nil {
			return nil, agentErr
		}
		agentID = &restored
	}

	var trackingLocation *kernel.GeoPoint
	if dto.TrackingLat != nil && dto.TrackingLng != nil {
		tracked, trackErr := kernel.NewGeoPoint(*dto.TrackingLat, *dto.TrackingLng)
		if trackErr != nil {
			return nil, trackErr
		}
		trackingLocation = &tracked
	}

	return order.RestoreOrder(id, pharmacyID, customerID, items, address,
		order.PaymentMethod(dto.PaymentMethod), order.Status(dto.Status),
		history, agentID, dto.AgentProposedAt, trackingLocation)
}
