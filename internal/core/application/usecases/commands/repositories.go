// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management
// with the order row locked, one audit entry, persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
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

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ServiceRepoFactory provides access to the service catalog within a transaction.
	ServiceRepoFactory interface {
		ServiceRepository() ports.ServiceRepository
	}

	// StaffRepoFactory provides access to the staff directory within a transaction.
	StaffRepoFactory interface {
		StaffRepository() ports.StaffRepository
	}

	// CatalogUoW manages transactions for admin maintained reference data.
	CatalogUoW interface {
		TxManager
		ServiceRepoFactory
		StaffRepoFactory
	}

	// CatalogUoWFactory creates new catalog unit of work instances.
	CatalogUoWFactory interface {
		Create() CatalogUoW
	}

	// OutboxUoW manages transactions over the notification outbox only.
	OutboxUoW interface {
		TxManager
		OutboxRepository() ports.OutboxRepository
	}

	// OutboxUoWFactory creates new outbox unit of work instances.
	OutboxUoWFactory interface {
		Create() OutboxUoW
	}

	// UoW manages transactions across the order and everything that hangs off it.
	// Used by every lifecycle command.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   // ... guards, mutation, audit entry
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		ServiceRepoFactory
		StaffRepoFactory
		PaymentRepository() ports.PaymentRepository
		DocumentRepository() ports.DocumentRepository
		DeliverableRepository() ports.DeliverableRepository
		AuditLogRepository() ports.AuditLogRepository
		OutboxRepository() ports.OutboxRepository
	}

	// UoWFactory creates new unit of work instances for lifecycle commands.
	UoWFactory interface {
		Create() UoW
	}
)
