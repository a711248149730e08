// Package agentrepo provides persistence for delivery agent aggregates.
package agentrepo

import (
	"github.com/google/uuid"

	"pharmaflow/internal/core/domain/model/agent"
	"pharmaflow/internal/core/domain/model/kernel"
)

// AgentDTO represents the database structure for persisting delivery agents.
type AgentDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Phone     string
	Available bool `gorm:"index"`
}

// TableName specifies the database table name for delivery agents.
func (AgentDTO) TableName() string {
	return "delivery_agents"
}

func fromDomain(aggregate *agent.DeliveryAgent) AgentDTO {
	return AgentDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		Phone:     aggregate.Phone(),
		Available: aggregate.IsAvailable(),
	}
}

func toDomain(dto AgentDTO) (*agent.DeliveryAgent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return agent.RestoreDeliveryAgent(id, dto.Name, dto.Phone, dto.Available)
}
