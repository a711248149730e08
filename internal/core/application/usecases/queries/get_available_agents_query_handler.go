package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pharmaflow/internal/core/domain/model/kernel"
)

// GetAvailableAgentsQueryHandler retrieves available delivery agents.
type GetAvailableAgentsQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableAgentsQueryHandler creates a handler for available agent queries.
func NewGetAvailableAgentsQueryHandler(db *gorm.DB) GetAvailableAgentsQueryHandler {
	return GetAvailableAgentsQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by name for stable listings.
func (h GetAvailableAgentsQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableAgentsQuery,
) ([]AgentResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			phone
		FROM delivery_agents
		WHERE available
		ORDER BY name, id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := make([]AgentResponse, 0)
	for rows.Next() {
		var response AgentResponse
		var id uuid.UUID

		if err = rows.Scan(&id, &response.Name, &response.Phone); err != nil {
			return nil, err
		}
		if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		agents = append(agents, response)
	}
	return agents, rows.Err()
}
