package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories returned by it use the transaction started by Begin; without
// Begin they run on the plain connection.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	PaymentRepository() PaymentRepository
	ServiceRepository() ServiceRepository
	DocumentRepository() DocumentRepository
	DeliverableRepository() DeliverableRepository
	AuditLogRepository() AuditLogRepository
	StaffRepository() StaffRepository
	OutboxRepository() OutboxRepository
}
