// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"pharmaflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AgentRepoFactory provides access to the agent repository within a transaction.
	AgentRepoFactory interface {
		AgentRepository() ports.AgentRepository
	}

	// InventoryRepoFactory provides access to the inventory provider within a transaction.
	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryProvider
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// AgentUoW manages transactions for agent-only operations.
	AgentUoW interface {
		TxManager
		AgentRepoFactory
	}

	// AgentUoWFactory creates new agent unit of work instances.
	AgentUoWFactory interface {
		Create() AgentUoW
	}

	// OrderInventoryUoW manages transactions that persist a new order and
	// reserve its stock as one atomic unit.
	OrderInventoryUoW interface {
		TxManager
		OrderRepoFactory
		InventoryRepoFactory
	}

	// OrderInventoryUoWFactory creates new order plus inventory unit of work instances.
	OrderInventoryUoWFactory interface {
		Create() OrderInventoryUoW
	}

	// OrderAgentUoW manages transactions across order and agent aggregates.
	// Used by assignment commands that read the agent while mutating the order.
	OrderAgentUoW interface {
		TxManager
		OrderRepoFactory
		AgentRepoFactory
	}

	// OrderAgentUoWFactory creates new cross-aggregate unit of work instances.
	OrderAgentUoWFactory interface {
		Create() OrderAgentUoW
	}
)
