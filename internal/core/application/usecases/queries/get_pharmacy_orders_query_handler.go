package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
)

// GetPharmacyOrdersQueryHandler retrieves a pharmacy's active orders.
type GetPharmacyOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetPharmacyOrdersQueryHandler creates a handler for pharmacy worklist queries.
func NewGetPharmacyOrdersQueryHandler(db *gorm.DB) GetPharmacyOrdersQueryHandler {
	return GetPharmacyOrdersQueryHandler{db: db}
}

// Handle executes the query. Returns non-terminal orders with their totals,
// newest first.
func (h GetPharmacyOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPharmacyOrdersQuery,
) ([]OrderSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.customer_id,
			o.status,
			COALESCE(SUM(i.unit_price * i.quantity), 0),
			COUNT(i.id)
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		WHERE o.pharmacy_id = ? AND o.status NOT IN (?, ?)
		GROUP BY o.id, o.customer_id, o.status, o.created_at
		ORDER BY o.created_at DESC
	`, query.PharmacyID().Bytes(), int(order.Delivered), int(order.Cancelled)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrderSummaries(rows)
}

func scanOrderSummaries(rows *sql.Rows) ([]OrderSummaryResponse, error) {
	summaries := make([]OrderSummaryResponse, 0)
	for rows.Next() {
		var summary OrderSummaryResponse
		var id, customerID uuid.UUID
		var status int

		err := rows.Scan(&id, &customerID, &status, &summary.Total, &summary.ItemCount)
		if err != nil {
			return nil, err
		}
		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if summary.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		summary.Status = order.Status(status).String()
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
