package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/pkg/errs"
)

// GetOrderQueryHandler retrieves full order detail from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query, returning the order with its lines and history.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response, err := h.fetchOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.Items, response.Total, err = h.fetchItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.History, err = h.fetchHistory(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return response, nil
}

func (h GetOrderQueryHandler) fetchOrder(
	ctx context.Context, orderID kernel.UUID,
) (GetOrderQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			pharmacy_id,
			customer_id,
			status,
			payment_method,
			address_street,
			address_city,
			address_zip_code,
			address_contact_phone,
			agent_id,
			tracking_lat,
			tracking_lng
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	var (
		id, pharmacyID, customerID uuid.UUID
		status, paymentMethod      int
		agentID                    uuid.NullUUID
		trackingLat, trackingLng   sql.NullFloat64
		response                   GetOrderQueryResponse
	)
	err := row.Scan(&id, &pharmacyID, &customerID, &status, &paymentMethod,
		&response.Street, &response.City, &response.ZipCode, &response.ContactPhone,
		&agentID, &trackingLat, &trackingLng)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.PharmacyID, err = kernel.UUIDFromBytes(pharmacyID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if agentID.Valid {
		restored, agentErr := kernel.UUIDFromBytes(agentID.UUID[:])
		if agentErr != nil {
			return GetOrderQueryResponse{}, agentErr
		}
		response.AgentID = &restored
	}
	if trackingLat.Valid && trackingLng.Valid {
		response.TrackingLat = &trackingLat.Float64
		response.TrackingLng = &trackingLng.Float64
	}

	response.Status = order.Status(status).String()
	response.PaymentMethod = order.PaymentMethod(paymentMethod).String()
	return response, nil
}

func (h GetOrderQueryHandler) fetchItems(
	ctx context.Context, orderID kernel.UUID,
) ([]OrderItemResponse, float64, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			medicine_id,
			name,
			unit_price,
			quantity
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]OrderItemResponse, 0)
	total := 0.0
	for rows.Next() {
		var item OrderItemResponse
		var medicineID uuid.UUID

		if err = rows.Scan(&medicineID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, 0, err
		}
		if item.MedicineID, err = kernel.UUIDFromBytes(medicineID[:]); err != nil {
			return nil, 0, err
		}

		total += item.UnitPrice * float64(item.Quantity)
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (h GetOrderQueryHandler) fetchHistory(
	ctx context.Context, orderID kernel.UUID,
) ([]StatusChangeResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			timestamp,
			note
		FROM order_status_changes
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]StatusChangeResponse, 0)
	for rows.Next() {
		var status int
		var timestamp time.Time
		var note string

		if err = rows.Scan(&status, &timestamp, &note); err != nil {
			return nil, err
		}
		history = append(history, StatusChangeResponse{
			Status:    order.Status(status).String(),
			Timestamp: timestamp,
			Note:      note,
		})
	}
	return history, rows.Err()
}
