package queries

import (
	"context"

	"gorm.io/gorm"

	"pharmaflow/internal/core/domain/model/order"
)

// GetAgentOrdersQueryHandler retrieves an agent's current worklist.
type GetAgentOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAgentOrdersQueryHandler creates a handler for agent worklist queries.
func NewGetAgentOrdersQueryHandler(db *gorm.DB) GetAgentOrdersQueryHandler {
	return GetAgentOrdersQueryHandler{db: db}
}

// Handle executes the query. Returns orders awaiting the agent's acceptance
// or in their hands, oldest first so proposals surface on top.
func (h GetAgentOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAgentOrdersQuery,
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
		WHERE o.agent_id = ? AND o.status IN (?, ?, ?)
		GROUP BY o.id, o.customer_id, o.status, o.created_at
		ORDER BY o.created_at
	`, query.AgentID().Bytes(), int(order.PendingAcceptance),
		int(order.Assigned), int(order.OutForDelivery)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrderSummaries(rows)
}
